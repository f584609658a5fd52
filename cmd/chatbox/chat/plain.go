package chatcmder

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/papercomputeco/chatbox/pkg/chat"
	"github.com/papercomputeco/chatbox/pkg/cliui"
)

const exitCommand = "/exit"

func userPrompt() string { return cliui.UserStyle.Render("you> ") }
func botPrompt() string  { return cliui.BotStyle.Render("bot> ") }

// plainHost renders the session as appended lines. A line terminal cannot
// rewrite earlier output, so Update prints the settled entry below its
// placeholder and Reveal is a no-op.
type plainHost struct {
	mu     sync.Mutex
	out    io.Writer
	echo   bool
	hidden bool
}

func newPlainHost(out io.Writer, echo bool) *plainHost {
	return &plainHost{out: out, echo: echo}
}

func (h *plainHost) handles() chat.Handles {
	return chat.Handles{Input: h, Transcript: h, Page: h}
}

// Clear is a no-op: the scanner already consumed the submitted line.
func (h *plainHost) Clear() {}

func (h *plainHost) Insert(e chat.Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if e.IsOutgoing() {
		if h.echo {
			fmt.Fprintln(h.out, e.Text)
		}
		return
	}
	fmt.Fprintf(h.out, "%s%s\n", botPrompt(), cliui.DimStyle.Render(e.Text))
}

func (h *plainHost) Update(e chat.Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	text := e.Text
	if e.Status == chat.StatusError {
		text = cliui.ErrorStyle.Render(text)
	}
	elapsed := cliui.DimStyle.Render(fmt.Sprintf("(%s)", cliui.FormatDuration(e.SettledAt.Sub(e.CreatedAt))))
	fmt.Fprintf(h.out, "%s%s %s\n\n", botPrompt(), text, elapsed)
}

func (h *plainHost) Reveal(chat.Entry) {}

func (h *plainHost) Hidden() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hidden
}

func (h *plainHost) Hide() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hidden = true
}

func (h *plainHost) Notify(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.out, "\n  %s\n\n", cliui.NameStyle.Render(text))
}

// runPlain reads one turn per line from in until EOF or /exit, waiting for
// each turn to settle before prompting again.
func runPlain(in io.Reader, out io.Writer, session *chat.Session) error {
	fmt.Fprintf(out, "\n  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, userPrompt())
		if !scanner.Scan() {
			// EOF or error
			fmt.Fprintln(out)
			break
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == exitCommand {
			break
		}

		turn := session.SubmitTurn(line)
		if turn == nil {
			continue
		}
		<-turn.Done()
	}

	session.EndSession()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}
