package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docqa/internal/domain"
	"docqa/internal/render"
)

// ErrInterrupted ends the session when the user quits while an answer is
// still pending.
var ErrInterrupted = errors.New("interrupted while waiting for an answer")

// answerMsg carries the pipeline result for one query.
type answerMsg struct {
	query  string
	answer string
	err    error
}

// Model is the Bubble Tea model for the question-answering session.
type Model struct {
	ctx        context.Context
	answerer   domain.Answerer
	md         render.Markdowner
	input      textinput.Model
	viewport   viewport.Model
	transcript strings.Builder
	status     string
	pending    bool
	ready      bool
	quitting   bool
	err        error
}

// New creates a new TUI model. ctx bounds every pipeline call.
func New(ctx context.Context, answerer domain.Answerer, md render.Markdowner) *Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	m := &Model{ctx: ctx, answerer: answerer, md: md, input: ti, viewport: vp}
	m.transcript.WriteString(md.Markdown(render.StartBanner))
	return m
}

// Err returns the pipeline error that ended the session, if any.
func (m *Model) Err() error { return m.err }

// Pending reports whether a query is waiting for its answer.
func (m *Model) Pending() bool { return m.pending }

// Init initializes the model (text input cursor blink).
func (m *Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, spacer
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.refresh()
		return m, nil
	case answerMsg:
		if m.err != nil {
			return m, nil
		}
		m.pending = false
		if msg.err != nil {
			m.err = msg.err
			m.status = "Error: " + msg.err.Error()
			return m, tea.Quit
		}
		m.transcript.WriteString(m.md.Markdown(msg.answer))
		m.transcript.WriteString(m.md.Markdown(render.FollowUpBanner))
		m.status = ""
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			if m.pending {
				m.err = ErrInterrupted
				m.status = "Error: " + ErrInterrupted.Error()
				return m, tea.Quit
			}
			m.quitting = true
			return m, tea.Quit
		}
		switch msg.Type {
		case tea.KeyEnter:
			if m.pending {
				return m, nil
			}
			q := m.input.Value()
			m.input.Reset()
			m.pending = true
			m.status = "Thinking..."
			m.transcript.WriteString(queryStyle.Render("> "+q) + "\n")
			m.refresh()
			return m, m.ask(q)
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the transcript, the input box and the status line.
func (m *Model) View() string {
	if m.quitting {
		return m.md.Markdown(render.Farewell)
	}
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("docqa")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

// ask runs the pipeline for q. Bubble Tea executes the command off the
// update loop; Enter is ignored until its answerMsg arrives.
func (m *Model) ask(q string) tea.Cmd {
	ctx, answerer := m.ctx, m.answerer
	return func() tea.Msg {
		answer, err := answerer.Answer(ctx, q)
		return answerMsg{query: q, answer: answer, err: err}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.transcript.String())
	m.viewport.GotoBottom()
}

var (
	headerStyle        = lipgloss.NewStyle().Bold(true)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)
