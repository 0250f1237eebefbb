package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "walkread/internal/modules/catalog/dto"
	healthdto "walkread/internal/modules/health/dto"
	progressdto "walkread/internal/modules/progress/dto"
	apperrors "walkread/internal/platform/errors"
	"walkread/internal/ui/components"
	"walkread/internal/ui/theme"
	readingview "walkread/internal/ui/views/reading"
	shelfview "walkread/internal/ui/views/shelf"
	stepsview "walkread/internal/ui/views/steps"
)

// accrualInterval is how often the open book re-checks the step counter.
const accrualInterval = 30 * time.Second

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type catalogPort interface {
	ListBooks(ctx context.Context) ([]catalogdto.BookOutput, error)
	GetBook(ctx context.Context, bookID string) (catalogdto.BookOutput, error)
	Content(ctx context.Context, bookID string) (string, error)
	Seed(ctx context.Context) (int, error)
}

type progressPort interface {
	StartReading(ctx context.Context, bookID, bookTitle string, totalCharacters int) (progressdto.ProgressOutput, error)
	UpdateProgress(ctx context.Context, bookID string) (progressdto.ProgressOutput, error)
	UpdateAllBooks(ctx context.Context)
	StopReading(ctx context.Context) error
	ResumeBookID(ctx context.Context) (string, error)
	BookProgress(ctx context.Context, bookID string) (progressdto.ProgressOutput, error)
	AllBooksProgress(ctx context.Context) []progressdto.ProgressOutput
	Stats(ctx context.Context, bookID string) (progressdto.StatsOutput, error)
	TotalUsedStepsToday(ctx context.Context) int
}

type healthPort interface {
	TodaySteps(ctx context.Context) healthdto.ReadingOutput
	WeekSteps(ctx context.Context) []healthdto.ReadingOutput
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabShelf tabID = iota
	tabReading
	tabSteps
	tabCount
)

var tabLabels = [tabCount]string{"Shelf", "Reading", "Steps"}

// ─── async messages ───────────────────────────────────────────────────────────

type tickMsg time.Time

type accruedMsg struct{}

type startedMsg struct {
	out   progressdto.ProgressOutput
	title string
	err   error
}

type stoppedMsg struct{ err error }

type resumeMsg struct {
	book catalogdto.BookOutput
	err  error
}

type seededMsg struct {
	count int
	err   error
}

type statsMsg struct {
	stats progressdto.StatsOutput
	err   error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Enter   key.Binding
	Start   key.Binding
	Stop    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read book")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start reading")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop reading")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter},
		{k.Start, k.Stop},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the accrual tick,
// the global help overlay, and the command palette. All business logic is
// delegated to port interfaces; all rendering is delegated to sub-views.
type Model struct {
	dataPath string

	catalog  catalogPort
	progress progressPort

	shelfView shelfview.Model
	readView  readingview.Model
	stepsView stepsview.Model

	activeTab   tabID
	keys        keyMap
	help        help.Model
	showHelp    bool
	palette     components.Palette
	readingID   string
	readingName string
	status      string
	width       int
	height      int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(dataPath string, catalog catalogPort, progress progressPort, health healthPort) Model {
	return Model{
		dataPath:  dataPath,
		catalog:   catalog,
		progress:  progress,
		shelfView: shelfview.New(catalogBridge{p: catalog}, progressBridge{p: progress}),
		readView:  readingview.New(readingBridge{catalog: catalog, progress: progress}),
		stepsView: stepsview.New(healthBridge{p: health}, progressBridge{p: progress}),
		activeTab: tabShelf,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.shelfView.Init(),
		m.stepsView.Init(),
		m.resumeCmd(),
		m.scheduleTick(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case tickMsg:
		cmds = append(cmds, m.accrueCmd(), m.scheduleTick())

	case accruedMsg:
		cmds = append(cmds, m.shelfView.Reload(), m.stepsView.Reload(), m.readView.Refresh())

	case resumeMsg:
		if msg.err == nil && msg.book.ID != "" {
			m.readingID = msg.book.ID
			m.readingName = msg.book.Title
			m.status = "resumed: " + msg.book.Title
			cmds = append(cmds, m.readView.Open(msg.book.ID, msg.book.Title))
		}

	case startedMsg:
		if msg.err != nil {
			m.status = "start failed: " + msg.err.Error()
		} else {
			m.readingID = msg.out.BookID
			m.readingName = msg.title
			m.status = "reading: " + msg.title
			cmds = append(cmds, m.shelfView.Reload())
		}

	case stoppedMsg:
		if msg.err != nil && msg.err != apperrors.ErrNoActiveReading {
			m.status = "stop failed: " + msg.err.Error()
		} else {
			m.readingID = ""
			m.readingName = ""
			m.status = "reading stopped"
			cmds = append(cmds, m.shelfView.Reload())
		}

	case seededMsg:
		if msg.err != nil {
			m.status = "seed failed: " + msg.err.Error()
		} else if msg.count == 0 {
			m.status = "shelf already has books"
		} else {
			m.status = fmt.Sprintf("seeded %d starter books", msg.count)
			cmds = append(cmds, m.shelfView.Reload())
		}

	case statsMsg:
		if msg.err != nil {
			m.status = "stats: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("%d steps, %d/%d chars (%d%%)",
				msg.stats.TotalSteps, msg.stats.UnlockedChars, msg.stats.TotalChars, msg.stats.ProgressPercent)
		}

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	// OpenedMsg is produced by the reading view but bubbles up through the top
	// level so we can auto-switch to the Reading tab and update status.
	case readingview.OpenedMsg:
		if msg.Err != nil {
			m.status = "open: " + msg.Err.Error()
		} else {
			m.status = "reading: " + msg.Title
			m.activeTab = tabReading
		}
		var cmd tea.Cmd
		m.readView, cmd = m.readView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.activeTab == tabShelf && m.shelfView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "s":
			if m.activeTab == tabShelf {
				if book, ok := m.shelfView.SelectedBook(); ok {
					cmds = append(cmds, m.startCmd(book))
				}
			}
		case "x":
			cmds = append(cmds, m.stopCmd())
		case "enter":
			if m.activeTab == tabShelf {
				if book, ok := m.shelfView.SelectedBook(); ok {
					cmds = append(cmds, m.startCmd(book), m.readView.Open(book.ID, book.Title))
				}
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabShelf:
		m.shelfView, tabCmd = m.shelfView.Update(msg)
	case tabReading:
		m.readView, tabCmd = m.readView.Update(msg)
	case tabSteps:
		m.stepsView, tabCmd = m.stepsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabShelf:
		return m.shelfView.View()
	case tabReading:
		return m.readView.View()
	case tabSteps:
		return m.stepsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "walkread  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.readingID != "" {
		left = theme.Hot.Render("● "+m.readingName) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "read:start":
		book, ok := m.shelfView.SelectedBook()
		if !ok {
			m.status = "no book selected"
			return m, nil
		}
		return m, m.startCmd(book)

	case "read:update":
		if m.readingID == "" {
			m.status = "no book open"
			return m, nil
		}
		return m, m.accrueCmd()

	case "read:stop":
		return m, m.stopCmd()

	case "read:stats":
		bookID := m.readingID
		if book, ok := m.shelfView.SelectedBook(); ok && m.activeTab == tabShelf {
			bookID = book.ID
		}
		if bookID == "" {
			m.status = "no book selected"
			return m, nil
		}
		return m, m.statsCmd(bookID)

	case "sync:now":
		return m, m.accrueCmd()

	case "catalog:seed":
		return m, m.seedCmd()

	case "steps:today", "steps:week":
		m.activeTab = tabSteps
		return m, m.stepsView.Reload()

	case "provider:list":
		m.status = "providers are listed via the provider list command"
		return m, nil

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.shelfView, _ = m.shelfView.Update(sz)
	m.readView, _ = m.readView.Update(sz)
	m.stepsView, _ = m.stepsView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(accrualInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// accrueCmd feeds new steps into every tracked book, then refreshes views.
func (m Model) accrueCmd() tea.Cmd {
	return func() tea.Msg {
		m.progress.UpdateAllBooks(context.Background())
		return accruedMsg{}
	}
}

func (m Model) resumeCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		bookID, err := m.progress.ResumeBookID(ctx)
		if err != nil {
			return resumeMsg{err: err}
		}
		book, err := m.catalog.GetBook(ctx, bookID)
		if err != nil {
			return resumeMsg{err: err}
		}
		if _, err := m.progress.UpdateProgress(ctx, bookID); err != nil && err != apperrors.ErrNotFound {
			return resumeMsg{err: err}
		}
		return resumeMsg{book: book}
	}
}

func (m Model) startCmd(book catalogdto.BookOutput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.progress.StartReading(context.Background(), book.ID, book.Title, book.TotalCharacters)
		return startedMsg{out: out, title: book.Title, err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		return stoppedMsg{err: m.progress.StopReading(context.Background())}
	}
}

func (m Model) seedCmd() tea.Cmd {
	return func() tea.Msg {
		count, err := m.catalog.Seed(context.Background())
		return seededMsg{count: count, err: err}
	}
}

func (m Model) statsCmd(bookID string) tea.Cmd {
	return func() tea.Msg {
		stats, err := m.progress.Stats(context.Background(), bookID)
		return statsMsg{stats: stats, err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed by
// a specific sub-view, keeping view packages free of knowledge about the wider
// port surface.

type catalogBridge struct{ p catalogPort }

func (b catalogBridge) ListBooks(ctx context.Context) ([]catalogdto.BookOutput, error) {
	return b.p.ListBooks(ctx)
}

type progressBridge struct{ p progressPort }

func (b progressBridge) AllBooksProgress(ctx context.Context) []progressdto.ProgressOutput {
	return b.p.AllBooksProgress(ctx)
}
func (b progressBridge) Stats(ctx context.Context, bookID string) (progressdto.StatsOutput, error) {
	return b.p.Stats(ctx, bookID)
}
func (b progressBridge) TotalUsedStepsToday(ctx context.Context) int {
	return b.p.TotalUsedStepsToday(ctx)
}

type readingBridge struct {
	catalog  catalogPort
	progress progressPort
}

func (b readingBridge) Content(ctx context.Context, bookID string) (string, error) {
	return b.catalog.Content(ctx, bookID)
}
func (b readingBridge) BookProgress(ctx context.Context, bookID string) (progressdto.ProgressOutput, error) {
	return b.progress.BookProgress(ctx, bookID)
}

type healthBridge struct{ p healthPort }

func (b healthBridge) TodaySteps(ctx context.Context) healthdto.ReadingOutput {
	return b.p.TodaySteps(ctx)
}
func (b healthBridge) WeekSteps(ctx context.Context) []healthdto.ReadingOutput {
	return b.p.WeekSteps(ctx)
}
