package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	healthdto "walkread/internal/modules/health/dto"
	"walkread/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type HealthPort interface {
	TodaySteps(ctx context.Context) healthdto.ReadingOutput
	WeekSteps(ctx context.Context) []healthdto.ReadingOutput
}

type ProgressPort interface {
	TotalUsedStepsToday(ctx context.Context) int
}

// ─── messages ────────────────────────────────────────────────────────────────

type StepsLoadedMsg struct {
	Today healthdto.ReadingOutput
	Week  []healthdto.ReadingOutput
	Used  int
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	health   HealthPort
	progress ProgressPort
	spinner  spinner.Model
	today    healthdto.ReadingOutput
	week     []healthdto.ReadingOutput
	used     int
	loading  bool
	width    int
	height   int
}

func New(health HealthPort, progress ProgressPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{health: health, progress: progress, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload queries the step provider for today and the trailing week.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		return StepsLoadedMsg{
			Today: m.health.TodaySteps(ctx),
			Week:  m.health.WeekSteps(ctx),
			Used:  m.progress.TotalUsedStepsToday(ctx),
		}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case StepsLoadedMsg:
		m.loading = false
		m.today = msg.Today
		m.week = msg.Week
		m.used = msg.Used

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Reading step data…")
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Steps") + "\n\n")
	sb.WriteString(fmt.Sprintf("%s %s%s\n",
		theme.Muted.Render("today:"),
		theme.Hot.Render(fmt.Sprint(m.today.Steps)),
		estimateTag(m.today.Estimated)))
	sb.WriteString(fmt.Sprintf("%s %d\n", theme.Muted.Render("spent:"), m.used))
	remaining := m.today.Steps - m.used
	if remaining < 0 {
		remaining = 0
	}
	sb.WriteString(fmt.Sprintf("%s %s\n\n", theme.Muted.Render("left: "), theme.Good.Render(fmt.Sprint(remaining))))

	sb.WriteString(theme.Title.Render("Last 7 days") + "\n")
	peak := 1
	for _, r := range m.week {
		if r.Steps > peak {
			peak = r.Steps
		}
	}
	barMax := m.width - 34
	if barMax < 10 {
		barMax = 10
	}
	for _, r := range m.week {
		n := r.Steps * barMax / peak
		bar := theme.Good.Render(strings.Repeat("▇", n))
		sb.WriteString(fmt.Sprintf("%s %6d %s%s\n",
			theme.Muted.Render(r.Date), r.Steps, bar, estimateTag(r.Estimated)))
	}

	return theme.Pane.Width(m.width - 4).Render(sb.String())
}

func estimateTag(estimated bool) string {
	if !estimated {
		return ""
	}
	return theme.Muted.Render(" (est)")
}
