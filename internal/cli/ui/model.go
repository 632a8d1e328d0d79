// Package ui implements the interactive terminal frontend for batch runs.
package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Sujal-Gaha/file-forge/internal/cli/hooks"
	"github.com/Sujal-Gaha/file-forge/pkg/converter"
)

const listHeightMargin = 4

// Model represents the state of the TUI application. It holds UI components
// (list, spinner), layout dimensions, aggregated summary statistics, and the
// per-request status list.
type Model struct {
	list        list.Model
	spinner     spinner.Model
	width       int
	height      int
	initialized bool
	appVersion  string

	// requestItems holds the internal data for each item displayed in the
	// list. Access MUST be protected by listLock.
	requestItems []listItem
	itemByIndex  map[int]int
	listLock     sync.Mutex

	summary       Summary
	phaseMessage  string
	quitting      bool
	debounceTimer *time.Timer
}

// listItem represents a single conversion request in the TUI list.
type listItem struct {
	index    int
	path     string
	status   converter.Status
	message  string
	duration time.Duration
}

// Summary holds the aggregated statistics displayed in the TUI footer.
type Summary struct {
	TotalRequests  int
	SucceededCount int
	FailedCount    int
	StartTime      time.Time
}

// NewModel creates the initial model for the TUI.
func NewModel(appVersion string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorSelectedFg).
		Background(ColorSelectedBg).
		Bold(true).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorSelectedDescFg).
		Background(ColorSelectedBg).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.
		Foreground(ColorNormalFg).Padding(0, 0, 0, 1)
	delegate.Styles.NormalDesc = delegate.Styles.NormalDesc.
		Foreground(ColorNormalDescFg).Padding(0, 0, 0, 1)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Model{
		list:         l,
		spinner:      s,
		appVersion:   appVersion,
		summary:      Summary{StartTime: time.Now()},
		phaseMessage: "Queueing...",
		requestItems: make([]listItem, 0, 64),
		itemByIndex:  make(map[int]int),
	}
}

// Init implements tea.Model and starts the spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model, handling user input and hook events.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var listCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := m.height - listHeightMargin
		if listHeight < 1 {
			listHeight = 1
		}
		m.list.SetSize(m.width, listHeight)
		m.initialized = true

	case tea.KeyMsg:
		if m.quitting {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
		m.list, listCmd = m.list.Update(msg)
		cmds = append(cmds, listCmd)

	case spinner.TickMsg:
		if m.quitting {
			return m, nil
		}
		var spinnerCmd tea.Cmd
		m.spinner, spinnerCmd = m.spinner.Update(msg)
		cmds = append(cmds, spinnerCmd)

	case hooks.RequestQueuedMsg:
		m.listLock.Lock()
		if _, exists := m.itemByIndex[msg.Index]; !exists {
			m.requestItems = append(m.requestItems, listItem{
				index:  msg.Index,
				path:   msg.Path,
				status: converter.StatusPending,
			})
			m.itemByIndex[msg.Index] = len(m.requestItems) - 1
			m.summary.TotalRequests++
			cmds = append(cmds, m.debounceListUpdate())
		}
		m.listLock.Unlock()

	case hooks.RequestStatusUpdateMsg:
		m.listLock.Lock()
		idx, ok := m.itemByIndex[msg.Index]
		if !ok {
			m.requestItems = append(m.requestItems, listItem{index: msg.Index, path: msg.Path})
			idx = len(m.requestItems) - 1
			m.itemByIndex[msg.Index] = idx
			m.summary.TotalRequests++
		}
		item := &m.requestItems[idx]
		wasTerminal := item.status.Terminal()
		item.status = msg.Status
		item.message = msg.Message
		item.duration = msg.Duration
		if msg.Status.Terminal() && !wasTerminal {
			switch msg.Status {
			case converter.StatusSucceeded:
				m.summary.SucceededCount++
			case converter.StatusFailed:
				m.summary.FailedCount++
			}
		}
		cmds = append(cmds, m.debounceListUpdate())
		m.listLock.Unlock()

		if !m.quitting && msg.Status == converter.StatusConverting && m.phaseMessage != "Converting..." {
			m.phaseMessage = "Converting..."
		}

	case hooks.BatchCompleteMsg:
		m.phaseMessage = "Complete"
		m.summary.SucceededCount = msg.Report.Summary.SucceededCount
		m.summary.FailedCount = msg.Report.Summary.FailedCount
		m.summary.TotalRequests = msg.Report.Summary.TotalRequests

	case UpdateListMsg:
		m.listLock.Lock()
		items := make([]list.Item, len(m.requestItems))
		for i, item := range m.requestItems {
			items[i] = item
		}
		m.listLock.Unlock()
		cmds = append(cmds, m.list.SetItems(items))
	}

	if listCmd != nil {
		cmds = append(cmds, listCmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return "Exiting...\n"
	}
	if !m.initialized {
		return "Initializing..."
	}

	headerLeft := fmt.Sprintf("file-forge v%s", m.appVersion)
	headerRight := m.phaseMessage
	if m.phaseMessage != "Complete" {
		headerRight = m.spinner.View() + " " + m.phaseMessage
	}
	headerCenter := ""
	headerWidth := m.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerWidth > 0 {
		headerCenter = lipgloss.PlaceHorizontal(headerWidth, lipgloss.Center, " ")
	}
	header := HeaderStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, headerLeft, headerCenter, headerRight))

	elapsed := time.Since(m.summary.StartTime).Round(time.Millisecond)
	footerLeft := fmt.Sprintf("Succeeded: %d | Failed: %d | Total: %d | Elapsed: %s",
		m.summary.SucceededCount, m.summary.FailedCount, m.summary.TotalRequests, elapsed)
	footerRight := "q: quit"
	footerCenter := ""
	footerWidth := m.width - lipgloss.Width(footerLeft) - lipgloss.Width(footerRight)
	if footerWidth > 0 {
		footerCenter = lipgloss.PlaceHorizontal(footerWidth, lipgloss.Center, " ")
	}
	footer := FooterStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, footerLeft, footerCenter, footerRight))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.list.View(),
		footer,
	)
}

// FilterValue implements the list.Item interface.
func (i listItem) FilterValue() string { return i.path }

// Title implements the list.Item interface.
func (i listItem) Title() string { return i.path }

// Description implements the list.Item interface.
func (i listItem) Description() string {
	var statusStyle lipgloss.Style
	statusIcon := " "
	switch i.status {
	case converter.StatusSucceeded:
		statusStyle = StatusStyleSucceeded
		statusIcon = "✓"
	case converter.StatusFailed:
		statusStyle = StatusStyleFailed
		statusIcon = "✗"
	case converter.StatusResolving, converter.StatusValidating, converter.StatusConverting:
		statusStyle = StatusStyleActive
		statusIcon = "…"
	default:
		statusStyle = StatusStylePending
	}

	statusStr := statusStyle.Render(fmt.Sprintf("[%s]", statusIcon))
	details := ""
	switch i.status {
	case converter.StatusFailed:
		details = i.message
	case converter.StatusSucceeded:
		if i.duration > 0 {
			details = formatDuration(i.duration)
		}
	}
	return fmt.Sprintf("%s %s", statusStr, details)
}

// formatDuration formats duration for display.
func formatDuration(d time.Duration) string {
	if d == 0 {
		return ""
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// UpdateListMsg signals that the list component should update its items.
type UpdateListMsg struct{}

const listUpdateDebounceDuration = 50 * time.Millisecond

// debounceListUpdate coalesces rapid status changes into one list refresh.
// MUST be called with listLock held.
func (m *Model) debounceListUpdate() tea.Cmd {
	if m.debounceTimer != nil {
		m.debounceTimer.Stop()
	}
	timer := time.NewTimer(listUpdateDebounceDuration)
	m.debounceTimer = timer
	return func() tea.Msg {
		// A superseded timer is stopped and its channel never fires; the
		// fallback keeps the closure from blocking forever on it.
		select {
		case <-timer.C:
		case <-time.After(listUpdateDebounceDuration * 2):
		}
		return UpdateListMsg{}
	}
}

// --- Styles ---

const (
	ColorHeaderFg = lipgloss.Color("252")
	ColorHeaderBg = lipgloss.Color("62")

	ColorFooterFg = lipgloss.Color("252")
	ColorFooterBg = lipgloss.Color("56")

	ColorNormalFg     = lipgloss.Color("250")
	ColorNormalDescFg = lipgloss.Color("244")

	ColorSelectedFg     = lipgloss.Color("255")
	ColorSelectedBg     = lipgloss.Color("56")
	ColorSelectedDescFg = lipgloss.Color("248")

	ColorStatusSucceeded = lipgloss.Color("40")
	ColorStatusFailed    = lipgloss.Color("196")
	ColorStatusPending   = lipgloss.Color("244")
	ColorStatusActive    = lipgloss.Color("205")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeaderFg).
			Background(ColorHeaderBg).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorFooterFg).
			Background(ColorFooterBg).
			Padding(0, 1)

	StatusStyleSucceeded = lipgloss.NewStyle().Foreground(ColorStatusSucceeded)
	StatusStyleFailed    = lipgloss.NewStyle().Foreground(ColorStatusFailed)
	StatusStylePending   = lipgloss.NewStyle().Foreground(ColorStatusPending)
	StatusStyleActive    = lipgloss.NewStyle().Foreground(ColorStatusActive)
)
