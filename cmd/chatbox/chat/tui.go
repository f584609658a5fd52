package chatcmder

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/papercomputeco/chatbox/pkg/chat"
	"github.com/papercomputeco/chatbox/pkg/cliui"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	inputHeight   = 3

	// chrome is the rule and help lines drawn below the input.
	chrome = 2
)

var (
	tuiTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	tuiDividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	tuiPendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	tuiNoticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
)

type chatKeyMap struct {
	Send     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

func (k chatKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.PageUp, k.PageDown, k.Quit}
}

func (k chatKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Send, k.Quit}, {k.PageUp, k.PageDown}}
}

func defaultKeyMap() chatKeyMap {
	return chatKeyMap{
		Send:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Quit:     key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "end chat")),
	}
}

// surfaceChangedMsg wakes the model after the session touched the surface.
type surfaceChangedMsg struct{}

// lineSpan is the first and last transcript line an entry occupies.
type lineSpan struct {
	start int
	end   int
}

type chatModel struct {
	session  *chat.Session
	surface  *surface
	input    textarea.Model
	viewport viewport.Model
	keys     chatKeyMap
	help     help.Model

	width   int
	height  int
	clears  int
	hidden  bool
	entries []chat.Entry
	notices []string

	// markdown caches rendered completions by entry and width.
	markdown map[string]string
}

func runChatTUI(ctx context.Context, session *chat.Session, s *surface) error {
	// Honor NO_COLOR and CLICOLOR_FORCE on top of terminal detection.
	lipgloss.SetColorProfile(termenv.EnvColorProfile())

	program := bubbletea.NewProgram(newChatModel(session, s),
		bubbletea.WithContext(ctx),
	)
	_, err := program.Run()
	return err
}

func newChatModel(session *chat.Session, s *surface) chatModel {
	input := textarea.New()
	input.Placeholder = "Type your message..."
	input.ShowLineNumbers = false
	input.KeyMap.InsertNewline.SetEnabled(false)
	input.SetHeight(inputHeight)
	input.SetWidth(defaultWidth)
	input.Focus()

	return chatModel{
		session:  session,
		surface:  s,
		input:    input,
		viewport: viewport.New(defaultWidth, defaultHeight-inputHeight-chrome),
		keys:     defaultKeyMap(),
		help:     help.New(),
		width:    defaultWidth,
		height:   defaultHeight,
		markdown: map[string]string{},
	}
}

func (m chatModel) Init() bubbletea.Cmd {
	return bubbletea.Batch(textarea.Blink, waitForChange(m.surface))
}

func (m chatModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-inputHeight-chrome, 1)
		m.layout("")
		return m, nil
	case surfaceChangedMsg:
		if m = m.sync(); m.hidden {
			return m, bubbletea.Quit
		}
		return m, waitForChange(m.surface)
	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd bubbletea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.session.EndSession()
		return m.sync(), bubbletea.Quit
	case key.Matches(msg, m.keys.Send):
		if strings.TrimSpace(m.input.Value()) == exitCommand {
			m.session.EndSession()
			return m.sync(), bubbletea.Quit
		}
		m.session.SubmitTurn(m.input.Value())
		return m.sync(), nil
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)
		return m, nil
	}

	var cmd bubbletea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// sync pulls the surface state into the model.
func (m chatModel) sync() chatModel {
	snap := m.surface.snapshot()
	if snap.clears != m.clears {
		m.clears = snap.clears
		m.input.Reset()
	}
	m.entries = snap.entries
	m.notices = snap.notices
	m.hidden = snap.hidden
	m.layout(snap.reveal)
	return m
}

// layout re-renders the transcript and scrolls reveal into view.
func (m *chatModel) layout(reveal string) {
	content, spans := m.renderTranscript(m.viewport.Width)
	m.viewport.SetContent(content)

	span, ok := spans[reveal]
	if !ok {
		return
	}
	switch {
	case span.end >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(span.end - m.viewport.Height + 1)
	case span.start < m.viewport.YOffset:
		m.viewport.SetYOffset(span.start)
	}
}

func (m chatModel) renderTranscript(width int) (string, map[string]lineSpan) {
	spans := make(map[string]lineSpan, len(m.entries))
	blocks := make([]string, 0, len(m.entries))
	line := 0
	for _, e := range m.entries {
		block := m.renderEntry(e, width)
		height := strings.Count(block, "\n") + 1
		spans[e.ID] = lineSpan{start: line, end: line + height - 1}
		blocks = append(blocks, block)

		// one blank separator line between entries
		line += height + 1
	}
	return strings.Join(blocks, "\n\n"), spans
}

func (m chatModel) renderEntry(e chat.Entry, width int) string {
	if e.IsOutgoing() {
		return cliui.UserStyle.Render("you") + "\n" + ansi.Wordwrap(e.Text, width, "")
	}

	label := cliui.BotStyle.Render("bot")
	switch e.Status {
	case chat.StatusPending:
		return label + "\n" + tuiPendingStyle.Render(e.Text)
	case chat.StatusError:
		return label + "\n" + cliui.ErrorStyle.Render(ansi.Wordwrap(e.Text, width, ""))
	default:
		return label + "\n" + m.renderMarkdown(e, width)
	}
}

func (m chatModel) renderMarkdown(e chat.Entry, width int) string {
	cacheKey := e.ID + ":" + strconv.Itoa(width)
	if out, ok := m.markdown[cacheKey]; ok {
		return out
	}

	out, err := cliui.RenderMarkdown(e.Text, width)
	if err != nil {
		out = ansi.Wordwrap(e.Text, width, "")
	}
	out = strings.Trim(out, "\n")
	m.markdown[cacheKey] = out
	return out
}

func (m chatModel) View() string {
	if m.hidden {
		lines := make([]string, 0, len(m.notices))
		for _, n := range m.notices {
			lines = append(lines, "  "+tuiNoticeStyle.Render(n))
		}
		return "\n" + strings.Join(lines, "\n") + "\n"
	}

	if len(m.entries) == 0 {
		m.viewport.SetContent(tuiTitleStyle.Render("chatbox") + "\n" + cliui.DimStyle.Render("Ask me anything."))
	}

	return strings.Join([]string{
		m.viewport.View(),
		tuiDividerStyle.Render(strings.Repeat("─", max(m.width, 1))),
		m.input.View(),
		cliui.DimStyle.Render(m.help.View(m.keys)),
	}, "\n")
}

func waitForChange(s *surface) bubbletea.Cmd {
	return func() bubbletea.Msg {
		<-s.changed
		return surfaceChangedMsg{}
	}
}
