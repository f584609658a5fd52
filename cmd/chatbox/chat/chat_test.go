package chatcmder

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatbox/pkg/chat"
	"github.com/papercomputeco/chatbox/pkg/completion"
)

var _ = Describe("NewChatCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := NewChatCmd()
		Expect(cmd.Use).To(Equal("chat"))
	})

	It("has --target flag with the default completion endpoint", func() {
		cmd := NewChatCmd()
		flag := cmd.Flags().Lookup("target")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("t"))
		Expect(flag.DefValue).To(Equal(completion.DefaultTarget))
	})

	It("has the session and eventstream flags", func() {
		cmd := NewChatCmd()
		for _, name := range []string{"timeout", "thinking-delay", "eventstream-provider", "eventstream-brokers", "eventstream-topic", "plain"} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), name)
		}
		Expect(cmd.Flags().Lookup("thinking-delay").DefValue).To(Equal("900ms"))
	})
})

var _ = Describe("Chat command execution", func() {
	var (
		server *httptest.Server
		hits   atomic.Int32
	)

	BeforeEach(func() {
		hits.Store(0)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			_, _ = w.Write([]byte(`"Hello!"`))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	run := func(stdin string, args ...string) (string, error) {
		cmd := NewChatCmd()
		cmd.PersistentFlags().BoolP("debug", "d", false, "")
		cmd.PersistentFlags().String("config-dir", GinkgoT().TempDir(), "")

		var out bytes.Buffer
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetOut(&out)
		cmd.SetArgs(args)
		err := cmd.Execute()
		return out.String(), err
	}

	It("runs a line session against the configured target", func() {
		out, err := run("What is Go?\n/exit\n", "--target", server.URL, "--thinking-delay", "0s")
		Expect(err).NotTo(HaveOccurred())

		Expect(hits.Load()).To(Equal(int32(1)))
		Expect(out).To(ContainSubstring("What is Go?"))
		Expect(out).To(ContainSubstring("Hello!"))
		Expect(out).To(ContainSubstring(chat.DefaultFarewell))
	})

	It("rejects an invalid timeout", func() {
		_, err := run("", "--target", server.URL, "--timeout", "soon")
		Expect(err).To(MatchError(ContainSubstring("completion.timeout")))
		Expect(hits.Load()).To(BeZero())
	})

	It("rejects an unknown eventstream provider", func() {
		_, err := run("", "--eventstream-provider", "nats")
		Expect(err).To(MatchError(ContainSubstring("eventstream.provider")))
	})
})
