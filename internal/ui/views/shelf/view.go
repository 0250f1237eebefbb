package shelf

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "walkread/internal/modules/catalog/dto"
	progressdto "walkread/internal/modules/progress/dto"
	"walkread/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type CatalogPort interface {
	ListBooks(ctx context.Context) ([]catalogdto.BookOutput, error)
}

type ProgressPort interface {
	AllBooksProgress(ctx context.Context) []progressdto.ProgressOutput
	Stats(ctx context.Context, bookID string) (progressdto.StatsOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type ShelfLoadedMsg struct {
	Books    []catalogdto.BookOutput
	Progress map[string]progressdto.ProgressOutput
	Err      error
}

type StatsLoadedMsg struct {
	BookID string
	Stats  progressdto.StatsOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type bookItem struct {
	book    catalogdto.BookOutput
	percent int
	started bool
}

func (i bookItem) Title() string { return i.book.Title }
func (i bookItem) Description() string {
	if !i.started {
		return fmt.Sprintf("%s  not started", i.book.Author)
	}
	return fmt.Sprintf("%s  %d%% unlocked", i.book.Author, i.percent)
}
func (i bookItem) FilterValue() string { return i.book.Title }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	catalog  CatalogPort
	progress ProgressPort
	list     list.Model
	detail   viewport.Model
	spinner  spinner.Model
	books    map[string]catalogdto.BookOutput
	accrual  map[string]progressdto.ProgressOutput
	stats    progressdto.StatsOutput
	statsID  string
	loading  bool
	width    int
	height   int
}

func New(catalog CatalogPort, progress ProgressPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Shelf"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		catalog:  catalog,
		progress: progress,
		list:     l,
		detail:   vp,
		spinner:  sp,
		books:    map[string]catalogdto.BookOutput{},
		accrual:  map[string]progressdto.ProgressOutput{},
		loading:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload re-reads the shelf and the accrual ledger.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		books, err := m.catalog.ListBooks(ctx)
		if err != nil {
			return ShelfLoadedMsg{Err: err}
		}
		accrual := map[string]progressdto.ProgressOutput{}
		for _, p := range m.progress.AllBooksProgress(ctx) {
			accrual[p.BookID] = p
		}
		return ShelfLoadedMsg{Books: books, Progress: accrual}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case ShelfLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Shelf — " + msg.Err.Error()
			return m, nil
		}
		m.books = map[string]catalogdto.BookOutput{}
		m.accrual = msg.Progress
		items := make([]list.Item, len(msg.Books))
		for i, b := range msg.Books {
			m.books[b.ID] = b
			p, started := msg.Progress[b.ID]
			percent := 0
			if started && b.TotalCharacters > 0 {
				percent = int(float64(p.UnlockedCharacters) / float64(b.TotalCharacters) * 100)
			}
			items[i] = bookItem{book: b, percent: percent, started: started}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(msg.Books) > 0 {
			cmds = append(cmds, m.loadStatsCmd(msg.Books[m.clampIndex(len(msg.Books))].ID))
		}

	case StatsLoadedMsg:
		if msg.Err == nil {
			m.stats = msg.Stats
			m.statsID = msg.BookID
		} else {
			m.stats = progressdto.StatsOutput{}
			m.statsID = msg.BookID
		}
		m.detail.SetContent(m.renderDetail())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(bookItem); ok {
				cmds = append(cmds, m.loadStatsCmd(item.book.ID))
			}
		}

		var vCmd tea.Cmd
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading shelf…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedBook returns the current selection, if any.
func (m Model) SelectedBook() (catalogdto.BookOutput, bool) {
	if item, ok := m.list.SelectedItem().(bookItem); ok {
		return item.book, true
	}
	return catalogdto.BookOutput{}, false
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) clampIndex(n int) int {
	idx := m.list.Index()
	if idx < 0 || idx >= n {
		return 0
	}
	return idx
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	book, ok := m.books[m.statsID]
	if !ok {
		return theme.Muted.Render("Select a book to see details")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(book.Title) + "\n\n")
	sb.WriteString(theme.Muted.Render("author: ") + book.Author + "\n")
	if book.Year != 0 {
		sb.WriteString(theme.Muted.Render("year:   ") + fmt.Sprint(book.Year) + "\n")
	}
	if book.Genre != "" {
		sb.WriteString(theme.Muted.Render("genre:  ") + book.Genre + "\n")
	}
	sb.WriteString(theme.Muted.Render("length: ") + fmt.Sprintf("%d characters", book.TotalCharacters) + "\n")
	if book.Description != "" {
		sb.WriteString("\n" + book.Description + "\n")
	}

	sb.WriteString("\n")
	if p, started := m.accrual[book.ID]; started {
		sb.WriteString(theme.Good.Render(fmt.Sprintf("unlocked: %d / %d (%d%%)",
			p.UnlockedCharacters, book.TotalCharacters, m.stats.ProgressPercent)) + "\n")
		sb.WriteString(theme.Muted.Render("steps:    ") + fmt.Sprint(p.AccumulatedSteps) + "\n")
	} else {
		sb.WriteString(theme.Muted.Render("not started — press s to start walking this book") + "\n")
	}

	sb.WriteString("\n" + theme.Muted.Render("enter: read  s: start"))
	return sb.String()
}

func (m Model) loadStatsCmd(bookID string) tea.Cmd {
	return func() tea.Msg {
		stats, err := m.progress.Stats(context.Background(), bookID)
		return StatsLoadedMsg{BookID: bookID, Stats: stats, Err: err}
	}
}
