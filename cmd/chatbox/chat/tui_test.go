package chatcmder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bubbletea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatbox/pkg/chat"
)

var _ = Describe("Chat TUI", func() {
	var (
		s       *surface
		session *chat.Session
		reply   func(string) (string, error)
		m       chatModel
	)

	BeforeEach(func() {
		reply = func(string) (string, error) { return "Hello!", nil }
		s = newSurface()

		var err error
		session, err = chat.New(chat.CompleterFunc(func(_ context.Context, text string) (string, error) {
			return reply(text)
		}), s.handles(), chat.WithThinkingDelay(0))
		Expect(err).NotTo(HaveOccurred())

		m = newChatModel(session, s)
	})

	update := func(msg bubbletea.Msg) bubbletea.Cmd {
		next, cmd := m.Update(msg)
		m = next.(chatModel)
		return cmd
	}

	enter := func(text string) bubbletea.Cmd {
		m.input.SetValue(text)
		return update(bubbletea.KeyMsg{Type: bubbletea.KeyEnter})
	}

	isQuit := func(cmd bubbletea.Cmd) bool {
		if cmd == nil {
			return false
		}
		_, ok := cmd().(bubbletea.QuitMsg)
		return ok
	}

	It("shows the outgoing entry as soon as enter is pressed", func() {
		var err error
		session, err = chat.New(chat.CompleterFunc(func(context.Context, string) (string, error) {
			return "", nil
		}), s.handles(), chat.WithThinkingDelay(chat.DefaultThinkingDelay))
		Expect(err).NotTo(HaveOccurred())
		m = newChatModel(session, s)

		enter("  hi there  ")
		Expect(m.entries).To(HaveLen(1))
		Expect(m.entries[0].Text).To(Equal("hi there"))
		Expect(m.entries[0].IsOutgoing()).To(BeTrue())
		Expect(m.View()).To(ContainSubstring("hi there"))

		session.Wait()
	})

	It("ignores enter on blank input", func() {
		enter("   ")
		session.Wait()
		Expect(m.entries).To(BeEmpty())
		Expect(session.Entries()).To(BeEmpty())
	})

	It("renders the completion and clears the input on success", func() {
		enter("hi")
		session.Wait()
		Expect(m.input.Value()).To(Equal("hi"))

		update(surfaceChangedMsg{})
		Expect(m.hidden).To(BeFalse())
		Expect(m.entries).To(HaveLen(2))
		Expect(m.entries[1].Status).To(Equal(chat.StatusComplete))
		Expect(m.input.Value()).To(BeEmpty())
		Expect(m.View()).To(ContainSubstring("Hello!"))
	})

	It("keeps the input and shows the apology on failure", func() {
		reply = func(string) (string, error) { return "", errors.New("connection refused") }

		enter("hi")
		session.Wait()
		update(surfaceChangedMsg{})

		Expect(m.entries[1].Status).To(Equal(chat.StatusError))
		Expect(m.input.Value()).To(Equal("hi"))
		Expect(m.View()).To(ContainSubstring(chat.DefaultApology))
	})

	DescribeTable("ends the session",
		func(act func() bubbletea.Cmd) {
			Expect(isQuit(act())).To(BeTrue())
			Expect(m.hidden).To(BeTrue())

			view := m.View()
			Expect(view).To(ContainSubstring(chat.DefaultFarewell))
			Expect(view).NotTo(ContainSubstring("send"))
			Expect(strings.Count(view, chat.DefaultFarewell)).To(Equal(1))
		},
		Entry("on esc", func() bubbletea.Cmd { return update(bubbletea.KeyMsg{Type: bubbletea.KeyEsc}) }),
		Entry("on ctrl+c", func() bubbletea.Cmd { return update(bubbletea.KeyMsg{Type: bubbletea.KeyCtrlC}) }),
		Entry("on /exit", func() bubbletea.Cmd { return enter(" /exit ") }),
	)

	It("quits when the surface is hidden from elsewhere", func() {
		session.EndSession()
		Expect(isQuit(update(surfaceChangedMsg{}))).To(BeTrue())
	})

	It("scrolls the revealed entry into view", func() {
		update(bubbletea.WindowSizeMsg{Width: 40, Height: 10})
		Expect(m.viewport.Height).To(Equal(10 - inputHeight - chrome))

		for i := range 6 {
			enter(fmt.Sprintf("message %d", i))
			session.Wait()
		}
		update(surfaceChangedMsg{})

		_, spans := m.renderTranscript(m.viewport.Width)
		last := m.entries[len(m.entries)-1]
		Expect(m.viewport.YOffset).To(BeNumerically(">", 0))
		Expect(spans[last.ID].end).To(BeNumerically("<", m.viewport.YOffset+m.viewport.Height))
	})

	Describe("renderTranscript", func() {
		It("tracks the lines every entry occupies", func() {
			m.entries = []chat.Entry{
				{ID: "a", Text: "one", Direction: chat.DirectionOutgoing, Status: chat.StatusComplete},
				{ID: "b", Text: chat.DefaultPlaceholder, Direction: chat.DirectionIncoming, Status: chat.StatusPending},
			}

			content, spans := m.renderTranscript(40)
			Expect(spans["a"]).To(Equal(lineSpan{start: 0, end: 1}))
			Expect(spans["b"]).To(Equal(lineSpan{start: 3, end: 4}))
			Expect(strings.Split(content, "\n")).To(HaveLen(5))
		})

		It("wraps long outgoing text to the width", func() {
			m.entries = []chat.Entry{
				{ID: "a", Text: strings.Repeat("word ", 20), Direction: chat.DirectionOutgoing, Status: chat.StatusComplete},
			}

			_, spans := m.renderTranscript(20)
			Expect(spans["a"].end).To(BeNumerically(">", 2))
		})
	})
})

var _ = Describe("surface", func() {
	It("coalesces change notifications", func() {
		s := newSurface()
		h := s.handles()
		h.Transcript.Insert(chat.Entry{ID: "a"})
		h.Transcript.Reveal(chat.Entry{ID: "a"})
		h.Input.Clear()

		Expect(s.changed).To(HaveLen(1))
	})

	It("ignores updates for entries it never saw", func() {
		s := newSurface()
		s.handles().Transcript.Update(chat.Entry{ID: "ghost"})
		Expect(s.snapshot().entries).To(BeEmpty())
	})

	It("consumes the pending reveal on snapshot", func() {
		s := newSurface()
		h := s.handles()
		h.Transcript.Insert(chat.Entry{ID: "a"})
		h.Transcript.Reveal(chat.Entry{ID: "a"})

		Expect(s.snapshot().reveal).To(Equal("a"))
		Expect(s.snapshot().reveal).To(BeEmpty())
	})
})
