// Package tui provides the interactive terminal chat for pagent.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/pagent/internal/gateway"
	"github.com/fentz26/pagent/internal/models"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")
	cyanColor    = lipgloss.Color("#06B6D4")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(cyanColor)
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	systemLabelStyle    = lipgloss.NewStyle().Bold(true).Foreground(warningColor)

	sendingStyle = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	taskRowStyle = lipgloss.NewStyle().Padding(0, 2)
	helpStyle    = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
)

// App is the chat TUI application model.
type App struct {
	service  *gateway.Service
	input    textinput.Model
	viewport viewport.Model
	messages []models.ChatMessage
	pending  *models.ChatMessage
	tasks    []models.IngestedTask
	mode     string // "chat", "tasks"
	width    int
	height   int
	message  string
	waiting  bool
}

// New creates a new chat TUI over the given service.
func New(service *gateway.Service) *App {
	ti := textinput.New()
	ti.Placeholder = "Message PAgent…"
	ti.Focus()
	ti.CharLimit = 2048
	ti.Width = 80

	vp := viewport.New(80, 20)

	return &App{
		service:  service,
		input:    ti,
		viewport: vp,
		mode:     "chat",
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// --- Messages ---

type historyLoadedMsg struct {
	messages []models.ChatMessage
}

type chatRepliesMsg struct {
	messages []models.ChatMessage
}

type errMsg struct {
	err error
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		a.loadHistory(),
	)
}

func (a *App) loadHistory() tea.Cmd {
	return func() tea.Msg {
		msgs, err := a.service.ListMessages(200)
		if err != nil {
			return errMsg{err}
		}
		return historyLoadedMsg{msgs}
	}
}

func (a *App) sendMessage(input string) tea.Cmd {
	return func() tea.Msg {
		msgs, err := a.service.SendChat(context.Background(), input)
		if err != nil {
			return errMsg{err}
		}
		return chatRepliesMsg{msgs}
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return a, tea.Quit

		case "tab":
			if a.mode == "chat" {
				a.mode = "tasks"
				a.tasks = a.service.ListTasks()
			} else {
				a.mode = "chat"
			}
			return a, nil

		case "enter":
			if a.mode != "chat" || a.waiting {
				return a, nil
			}
			input := strings.TrimSpace(a.input.Value())
			if input == "" {
				return a, nil
			}
			a.input.SetValue("")
			a.message = ""
			a.waiting = true

			// Optimistic bubble: shown as sending until the turn resolves.
			pending := models.NewChatMessage(models.AuthorUser, input)
			pending.Status = models.DeliverySending
			a.pending = &pending
			a.refreshTranscript()

			return a, a.sendMessage(input)
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 6
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - 8
		a.refreshTranscript()

	case historyLoadedMsg:
		a.messages = msg.messages
		a.refreshTranscript()

	case chatRepliesMsg:
		// The service returns the persisted user message plus the
		// generated replies; the pending bubble is superseded.
		a.waiting = false
		a.pending = nil
		a.messages = append(a.messages, msg.messages...)
		a.refreshTranscript()

	case errMsg:
		a.waiting = false
		if a.pending != nil {
			a.pending.Status = models.DeliveryError
			a.messages = append(a.messages, *a.pending)
			a.pending = nil
		}
		a.message = "Error: " + msg.err.Error()
		a.refreshTranscript()
	}

	// Update input
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// refreshTranscript re-renders the conversation into the viewport and
// scrolls to the newest entry.
func (a *App) refreshTranscript() {
	var b strings.Builder
	for _, msg := range a.messages {
		b.WriteString(a.renderMessage(msg))
	}
	if a.pending != nil {
		b.WriteString(a.renderMessage(*a.pending))
	}
	if a.waiting {
		b.WriteString(sendingStyle.Render("PAgent is thinking…") + "\n")
	}
	a.viewport.SetContent(b.String())
	a.viewport.GotoBottom()
}

func (a *App) renderMessage(msg models.ChatMessage) string {
	var label string
	switch msg.Author {
	case models.AuthorUser:
		label = userLabelStyle.Render("you")
	case models.AuthorAssistant:
		label = assistantLabelStyle.Render("pagent")
	case models.AuthorSystem:
		label = systemLabelStyle.Render("system")
	default:
		label = string(msg.Author)
	}

	suffix := ""
	switch msg.Status {
	case models.DeliverySending:
		suffix = sendingStyle.Render(" (sending)")
	case models.DeliveryError:
		suffix = errorStyle.Render(" (failed)")
	}

	return fmt.Sprintf("%s%s\n%s\n\n", label, suffix, msg.Content)
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	header := titleStyle.Render("PAgent")
	header += "  " + lipgloss.NewStyle().Foreground(cyanColor).Render(fmt.Sprintf("[%d tasks captured]", len(a.service.ListTasks())))
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", max(a.width, 1)) + "\n")

	switch a.mode {
	case "tasks":
		b.WriteString(a.renderTasks())
	default:
		b.WriteString(a.viewport.View())
	}

	// Message bar
	if a.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(successColor)
		if strings.HasPrefix(a.message, "Error") {
			msgStyle = lipgloss.NewStyle().Foreground(errorColor)
		}
		b.WriteString("\n" + msgStyle.Render(a.message))
	} else {
		b.WriteString("\n")
	}

	// Input box
	b.WriteString("\n")
	b.WriteString(inputBoxStyle.Render(a.input.View()))
	b.WriteString("\n")

	// Status bar
	var status string
	switch a.mode {
	case "tasks":
		status = fmt.Sprintf(" Captured tasks: %d | Tab:chat | Ctrl+C:quit", len(a.tasks))
	default:
		status = " Enter:send | Tab:tasks | Ctrl+C:quit"
	}
	b.WriteString(statusBarStyle.Width(a.width).Render(status))

	return b.String()
}

func (a *App) renderTasks() string {
	if len(a.tasks) == 0 {
		return "\n  No tasks captured yet. Replies tagged [SYS] land here.\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, t := range a.tasks {
		line := fmt.Sprintf("%s  %s", t.ReceivedAt.Local().Format("15:04"), t.Name)
		if t.ExplicitPriority != "" && t.ExplicitPriority != models.PriorityNone {
			line += "  " + helpStyle.Render(string(t.ExplicitPriority))
		}
		b.WriteString(taskRowStyle.Render(line) + "\n")
		if t.Deadline != "" {
			b.WriteString(taskRowStyle.Render(helpStyle.Render("  due "+t.Deadline)) + "\n")
		}
	}
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
