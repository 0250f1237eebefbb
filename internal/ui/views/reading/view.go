package reading

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	progressdto "walkread/internal/modules/progress/dto"
	"walkread/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type ReadingPort interface {
	Content(ctx context.Context, bookID string) (string, error)
	BookProgress(ctx context.Context, bookID string) (progressdto.ProgressOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// OpenedMsg bubbles through the app model so it can switch to the Reading tab.
type OpenedMsg struct {
	BookID string
	Title  string
	Text   string
	Prog   progressdto.ProgressOutput
	Err    error
}

type RefreshedMsg struct {
	BookID string
	Prog   progressdto.ProgressOutput
	Err    error
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model renders the unlocked prefix of the open book. Characters past the
// unlock point stay hidden until more steps accrue.
type Model struct {
	port     ReadingPort
	view     viewport.Model
	bar      progress.Model
	bookID   string
	title    string
	runes    []rune
	unlocked int
	total    int
	width    int
	height   int
}

func New(port ReadingPort) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	bar := progress.New(progress.WithDefaultGradient())

	return Model{port: port, view: vp, bar: bar}
}

func (m Model) Init() tea.Cmd { return nil }

// Open loads a book's cached text plus its accrual record.
func (m Model) Open(bookID, title string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		text, err := m.port.Content(ctx, bookID)
		if err != nil {
			return OpenedMsg{BookID: bookID, Title: title, Err: err}
		}
		prog, err := m.port.BookProgress(ctx, bookID)
		if err != nil {
			return OpenedMsg{BookID: bookID, Title: title, Err: err}
		}
		return OpenedMsg{BookID: bookID, Title: title, Text: text, Prog: prog}
	}
}

// Refresh re-reads the accrual record so newly unlocked text appears.
func (m Model) Refresh() tea.Cmd {
	if m.bookID == "" {
		return nil
	}
	bookID := m.bookID
	return func() tea.Msg {
		prog, err := m.port.BookProgress(context.Background(), bookID)
		return RefreshedMsg{BookID: bookID, Prog: prog, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.Width = m.width - 2
		m.view.Height = m.height - 4
		m.bar.Width = m.width - 24

	case OpenedMsg:
		if msg.Err != nil {
			return m, nil
		}
		m.bookID = msg.BookID
		m.title = msg.Title
		m.runes = []rune(msg.Text)
		m.unlocked = msg.Prog.UnlockedCharacters
		m.total = msg.Prog.TotalCharacters
		m.view.SetContent(m.unlockedText())
		m.view.GotoTop()

	case RefreshedMsg:
		if msg.Err != nil || msg.BookID != m.bookID {
			return m, nil
		}
		m.unlocked = msg.Prog.UnlockedCharacters
		m.total = msg.Prog.TotalCharacters
		m.view.SetContent(m.unlockedText())
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.bookID == "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("Open a book from the Shelf tab"))
	}

	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.unlocked) / float64(m.total)
	}
	header := theme.Title.Render(m.title) + "  " +
		m.bar.ViewAs(ratio) + "  " +
		theme.Muted.Render(fmt.Sprintf("%d/%d", m.unlocked, m.total))

	return lipgloss.JoinVertical(lipgloss.Left, header, "", m.view.View())
}

// BookID reports the currently open book, if any.
func (m Model) BookID() string { return m.bookID }

func (m Model) unlockedText() string {
	n := m.unlocked
	if n > len(m.runes) {
		n = len(m.runes)
	}
	text := string(m.runes[:n])
	if n < len(m.runes) {
		text += "\n\n" + theme.Muted.Render(
			fmt.Sprintf("… %d characters locked. Keep walking.", len(m.runes)-n))
	}
	return text
}
