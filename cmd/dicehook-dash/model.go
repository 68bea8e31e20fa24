package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"dicehook/pkg/engine"
	"dicehook/pkg/slot"
)

const refreshInterval = 2 * time.Second

// hotThreshold marks slots whose hit chance deserves attention.
const hotThreshold = 25.0

// tickMsg drives the periodic refresh.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type keyMap struct {
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultKeys() keyMap {
	return keyMap{
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var columns = []table.Column{
	{Title: "Slot", Width: 18},
	{Title: "Kind", Width: 12},
	{Title: "Die", Width: 5},
	{Title: "Target", Width: 10},
	{Title: "Turns", Width: 7},
	{Title: "Dice", Width: 6},
	{Title: "Chance", Width: 8},
	{Title: "Cooldown", Width: 9},
}

// Model is the Bubble Tea model for dicehook-dash.
type Model struct {
	ctx     context.Context
	source  *dataSource
	watcher *fsnotify.Watcher

	styles Styles
	keys   keyMap
	help   help.Model
	table  table.Model

	snap   snapshot
	loaded bool

	width  int
	height int
}

func newModel(ctx context.Context, ds *dataSource, w *fsnotify.Watcher) Model {
	styles := NewStyles(DefaultTheme())
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(styles.Table)

	return Model{
		ctx:     ctx,
		source:  ds,
		watcher: w,
		styles:  styles,
		keys:    defaultKeys(),
		help:    help.New(),
		table:   t,
	}
}

func (m Model) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(m.source.fetch(m.ctx))
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), tickCmd(), waitForChange(m.watcher))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.fetchCmd()
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(3, msg.Height-6))

	case snapshotMsg:
		m.snap = snapshot(msg)
		m.loaded = true
		m.table.SetRows(m.rows())

	case fsChangeMsg:
		return m, tea.Batch(m.fetchCmd(), waitForChange(m.watcher))

	case tickMsg:
		return m, tea.Batch(m.fetchCmd(), tickCmd())
	}

	return m, nil
}

// rows renders the current snapshot for the table.
func (m Model) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.snap.Slots))
	for _, e := range m.snap.Slots {
		turns := "-"
		if e.Slot.Kind == slot.KindAccumulator && !e.OnCooldown {
			turns = strconv.Itoa(e.Count.DepthSinceTrigger)
		}
		rows = append(rows, table.Row{
			e.Slot.Name,
			string(e.Slot.Kind),
			"d" + strconv.Itoa(e.Slot.DieSize),
			fmt.Sprintf("%s %d", e.Slot.TargetMode, e.Slot.Target),
			turns,
			strconv.Itoa(e.Count.Dice),
			fmt.Sprintf("%.2f%%", e.Probability),
			cooldownLabel(e),
		})
	}
	return rows
}

func cooldownLabel(e engine.Estimate) string {
	switch {
	case e.OnCooldown:
		return "fired"
	case e.Slot.PerSession():
		return "ready"
	default:
		return "none"
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("dicehook"))
	sb.WriteString(m.renderStatusBar())
	sb.WriteString("\n\n")

	switch {
	case m.snap.Err != nil:
		sb.WriteString(m.styles.Error.Render(m.snap.Err.Error()))
		sb.WriteString("\n")
	case !m.loaded:
		sb.WriteString(m.styles.Muted.Render("Loading..."))
		sb.WriteString("\n")
	case len(m.snap.Slots) == 0:
		sb.WriteString(m.styles.Muted.Render("No slots registered. Add one with: dicehook register <name>"))
		sb.WriteString("\n")
	default:
		sb.WriteString(m.table.View())
		sb.WriteString("\n")
		sb.WriteString(m.renderSummary())
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) renderStatusBar() string {
	depth := "depth unknown"
	if m.snap.HasDepth {
		depth = fmt.Sprintf("depth %d", m.snap.Depth)
	}
	updated := ""
	if !m.snap.FetchedAt.IsZero() {
		updated = "updated " + m.snap.FetchedAt.Format("15:04:05")
	}
	parts := []string{"session " + m.snap.Session, depth, updated}
	return m.styles.Status.Render(strings.Join(nonEmpty(parts), " │ "))
}

// renderSummary highlights the slots most likely to fire next turn.
func (m Model) renderSummary() string {
	var hot []string
	cooling := 0
	for _, e := range m.snap.Slots {
		if e.OnCooldown {
			cooling++
			continue
		}
		if e.Probability >= hotThreshold {
			hot = append(hot, e.Slot.Name)
		}
	}

	parts := []string{fmt.Sprintf("%d slot(s)", len(m.snap.Slots))}
	if cooling > 0 {
		parts = append(parts, m.styles.Cooldown.Render(fmt.Sprintf("%d fired this session", cooling)))
	}
	if len(hot) > 0 {
		parts = append(parts, m.styles.Hot.Render("likely: "+strings.Join(hot, ", ")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.styles.Status.Render(strings.Join(parts, " · ")))
}

func nonEmpty(ss []string) []string {
	out := ss[:0:0]
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
