// Package tui provides the interactive ask loop.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chestnut/internal/service"
)

// AskPort is the TUI-facing subset of the pipeline.
type AskPort interface {
	Ask(ctx context.Context, question string, topK int) (service.Answer, error)
}

type answerMsg struct {
	question string
	answer   service.Answer
	err      error
}

// Model is the Bubble Tea model for the ask TUI.
type Model struct {
	pipeline AskPort
	topK     int
	input    textinput.Model
	viewport viewport.Model
	answer   *service.Answer
	status   string
	cursor   int
	ready    bool
	waiting  bool
}

// New creates a new TUI model instance.
func New(pipeline AskPort, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your notes and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{pipeline: pipeline, topK: topK, input: ti, viewport: vp, status: "Ready."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, query box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.answer = nil
		} else if msg.answer.NoNotes {
			m.status = "No summarized notes yet. Run summarize first."
			m.answer = nil
		} else {
			m.status = fmt.Sprintf("Answer for %q", msg.question)
			a := msg.answer
			m.answer = &a
			m.cursor = 0
		}
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.waiting {
				m.waiting = true
				m.status = "Thinking..."
				return m, m.askCmd(q)
			}
		case "down":
			if m.answer != nil && len(m.answer.Selected) > 0 {
				m.cursor = (m.cursor + 1) % len(m.answer.Selected)
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		case "up":
			if m.answer != nil && len(m.answer.Selected) > 0 {
				m.cursor = (m.cursor - 1 + len(m.answer.Selected)) % len(m.answer.Selected)
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.pipeline.Ask(context.Background(), question, m.topK)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

// View renders the TUI layout and the current answer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Chestnut")
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	body := answerBoxStyle.Render(m.viewport.View())
	return header + "\n" + body + "\n" + input + "\n" + status
}

func (m Model) renderAnswer() string {
	if m.answer == nil {
		return "No answer yet."
	}
	var b strings.Builder
	b.WriteString(m.answer.Text)
	b.WriteString("\n\n")
	b.WriteString(sourceHeaderStyle.Render(fmt.Sprintf("Sources (%d)", len(m.answer.Selected))))
	for i, r := range m.answer.Selected {
		summary := ""
		if r.Note.Summary != nil {
			summary = *r.Note.Summary
		}
		line := fmt.Sprintf("\n[note %d] score=%d  %s", r.Note.ID, r.Score, summary)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
	}
	return b.String()
}

var (
	answerBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sourceHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(true)
	selectedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
