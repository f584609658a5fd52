package completion_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatbox/pkg/completion"
)

var _ = Describe("Client", func() {
	var (
		server   *httptest.Server
		handler  http.HandlerFunc
		gotBody  string
		gotType  string
		gotVerb  string
		gotCount int
	)

	BeforeEach(func() {
		gotBody, gotType, gotVerb, gotCount = "", "", "", 0
		handler = func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`"Hello!"`))
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			gotType = r.Header.Get("Content-Type")
			gotVerb = r.Method
			gotCount++
			handler(w, r)
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("defaults to the local completion endpoint", func() {
		Expect(completion.NewClient("").Target()).To(Equal("http://localhost:1187/completion"))
	})

	It("posts the raw text as the request body", func() {
		c := completion.NewClient(server.URL)
		_, err := c.Complete(context.Background(), "What is Go?")
		Expect(err).NotTo(HaveOccurred())

		Expect(gotVerb).To(Equal(http.MethodPost))
		Expect(gotBody).To(Equal("What is Go?"))
		Expect(gotType).To(HavePrefix("text/plain"))
		Expect(gotCount).To(Equal(1))
	})

	It("decodes a scalar JSON completion", func() {
		c := completion.NewClient(server.URL)
		got, err := c.Complete(context.Background(), "hi")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal("Hello!"))
	})

	It("decodes an object carrying a text field", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"text": "Hello!"}`))
		}

		got, err := completion.NewClient(server.URL).Complete(context.Background(), "hi")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal("Hello!"))
	})

	It("returns a StatusError for non-2xx responses", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not loaded", http.StatusServiceUnavailable)
		}

		_, err := completion.NewClient(server.URL).Complete(context.Background(), "hi")
		var statusErr *completion.StatusError
		Expect(errors.As(err, &statusErr)).To(BeTrue())
		Expect(statusErr.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(statusErr.Body).To(Equal("model not loaded"))
		Expect(err.Error()).To(ContainSubstring("503"))
	})

	It("reports malformed bodies", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>oops</html>`))
		}

		_, err := completion.NewClient(server.URL).Complete(context.Background(), "hi")
		Expect(err).To(MatchError(completion.ErrMalformedResponse))
	})

	It("reports transport failures", func() {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		addr := l.Addr().String()
		Expect(l.Close()).To(Succeed())

		_, err = completion.NewClient("http://" + addr + "/completion").Complete(context.Background(), "hi")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(HavePrefix("sending completion request"))
	})

	It("applies the configured timeout", func() {
		release := make(chan struct{})
		DeferCleanup(func() { close(release) })
		handler = func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}

		c := completion.NewClient(server.URL, completion.WithTimeout(50*time.Millisecond))
		_, err := c.Complete(context.Background(), "hi")
		Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())
	})
})

var _ = Describe("Decode", func() {
	DescribeTable("accepts",
		func(body, want string) {
			got, err := completion.Decode([]byte(body))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("a JSON string", `"Hello!"`, "Hello!"),
		Entry("an empty JSON string", `""`, ""),
		Entry("a text field", `{"text":"Hello!"}`, "Hello!"),
		Entry("a content field", `{"content":"Hello!"}`, "Hello!"),
		Entry("a completion field", `{"completion":"Hello!","tokens":3}`, "Hello!"),
		Entry("surrounding whitespace", " \n\"Hello!\"\n", "Hello!"),
	)

	DescribeTable("rejects",
		func(body string) {
			_, err := completion.Decode([]byte(body))
			Expect(err).To(MatchError(completion.ErrMalformedResponse))
		},
		Entry("invalid JSON", `not json`),
		Entry("an empty body", ``),
		Entry("null", `null`),
		Entry("a number", `42`),
		Entry("an array", `["Hello!"]`),
		Entry("an object without a known field", `{"answer":"Hello!"}`),
		Entry("a non-string text field", `{"text":7}`),
		Entry("a null text field", `{"text":null}`),
	)

	It("keeps the decoder error in the chain", func() {
		_, err := completion.Decode([]byte(`{"text":`))
		Expect(strings.Contains(err.Error(), "malformed completion response")).To(BeTrue())
	})
})
