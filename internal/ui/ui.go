package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/qbx/internal/formatter"
	"github.com/desertthunder/qbx/internal/models"
	"github.com/desertthunder/qbx/internal/services"
	"github.com/desertthunder/qbx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	AddView
)

// Tab selects which bucket the list view shows.
type Tab int

const (
	InProgressTab Tab = iota
	CompletedTab
)

func (t Tab) String() string {
	if t == CompletedTab {
		return "Completed"
	}
	return "In progress"
}

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	tab      Tab
	engine   tasks.Engine
	opts     services.ListOptions
	width    int
	height   int
	lists    [2]list.Model
	input    textinput.Model
	overview *tasks.Overview
	loading  bool
	message  string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model backed by engine.
func NewModel(ctx context.Context, engine tasks.Engine) *Model {
	input := textinput.New()
	input.Placeholder = "magnet:?xt=urn:btih:... or https://.../file.torrent"
	input.Prompt = "URL: "
	input.CharLimit = 2048

	m := &Model{
		ctx:     ctx,
		view:    ListView,
		tab:     InProgressTab,
		engine:  engine,
		width:   defaultWidth,
		height:  defaultHeight,
		input:   input,
		loading: true,
		help:    help.New(),
		keys:    newKeyMap(),
	}
	for i := range m.lists {
		l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
		l.Title = Tab(i).String()
		l.SetShowHelp(false)
		m.lists[i] = l
	}
	m.resize()
	return m
}

// Init fetches the first overview.
func (m *Model) Init() tea.Cmd {
	return m.fetchOverview()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case AddView:
			return m.handleAddKeys(msg)
		default:
			return m.handleListKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgOverviewFetched:
			p := msg.data.(overviewPayload)
			m.loading = false
			m.err = p.err
			if p.err == nil {
				m.setOverview(p.overview)
			}
			return m, nil
		case MsgSubmitted:
			p := msg.data.(submitPayload)
			if p.err != nil {
				m.err = p.err
				m.message = ""
				return m, nil
			}
			m.err = nil
			m.message = p.result.Message
			m.loading = true
			return m, m.fetchOverview()
		}
	}

	var cmd tea.Cmd
	m.lists[m.tab], cmd = m.lists[m.tab].Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("qbx"))
	b.WriteString("\n")

	switch m.view {
	case AddView:
		b.WriteString(m.renderAdd())
	default:
		b.WriteString(m.renderList())
	}
	return b.String()
}

// Selected returns the active tab.
func (m *Model) Selected() Tab {
	return m.tab
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.lists[m.tab].FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.lists[m.tab], cmd = m.lists[m.tab].Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.tab):
		m.tab = (m.tab + 1) % Tab(len(m.lists))
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		m.loading = true
		m.message = ""
		return m, m.fetchOverview()
	case key.Matches(msg, m.keys.add):
		m.view = AddView
		m.message = ""
		m.input.Reset()
		return m, m.input.Focus()
	}

	var cmd tea.Cmd
	m.lists[m.tab], cmd = m.lists[m.tab].Update(msg)
	return m, cmd
}

func (m *Model) handleAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.input.Blur()
		m.view = ListView
		return m, nil
	case key.Matches(msg, m.keys.submit):
		rawURL := m.input.Value()
		m.input.Blur()
		m.view = ListView
		m.message = "Submitting..."
		return m, m.submit(rawURL)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) setOverview(o *tasks.Overview) {
	m.overview = o
	m.lists[InProgressTab].SetItems(torrentItems(o.InProgress))
	m.lists[CompletedTab].SetItems(torrentItems(o.Completed))
}

func (m *Model) resize() {
	w, h := max(m.width-4, 20), max(m.height-10, 5)
	for i := range m.lists {
		m.lists[i].SetSize(w, h)
	}
	m.input.Width = max(m.width-10, 20)
}

func (m *Model) fetchOverview() tea.Cmd {
	return func() tea.Msg {
		overview, err := m.engine.Overview(m.ctx, m.opts)
		return overviewFetchedMsg(overview, err)
	}
}

func (m *Model) submit(rawURL string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.engine.Submit(m.ctx, rawURL, services.AddOptions{})
		return submittedMsg(result, err)
	}
}

func (m *Model) renderTabs() string {
	tabs := make([]string, len(m.lists))
	for i := range m.lists {
		label := fmt.Sprintf("%s (%d)", Tab(i), len(m.lists[i].Items()))
		if Tab(i) == m.tab {
			tabs[i] = styles.activeTab.Render(label)
		} else {
			tabs[i] = styles.inactiveTab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderStatus() string {
	switch {
	case m.err != nil:
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case m.loading:
		return styles.help.Render("Loading...")
	case m.message != "":
		return styles.ok.Render(m.message)
	case m.overview != nil && m.overview.Notice != "":
		return styles.warn.Render(m.overview.Notice)
	case m.overview != nil:
		return styles.help.Render("Updated " + formatter.FormatEpoch(m.overview.FetchedAt.Unix()))
	}
	return ""
}

// renderSummary lists non-empty status groups in sidebar order.
func (m *Model) renderSummary() string {
	if m.overview == nil {
		return ""
	}
	if m.overview.Empty() {
		return styles.help.Render("No torrents")
	}

	parts := []string{fmt.Sprintf("%d torrents", m.overview.Total())}
	for _, g := range models.StatusGroups() {
		if stat, ok := m.overview.Summary.Groups[g]; ok && stat.Count > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", g, stat.Count))
		}
	}
	return styles.help.Render(strings.Join(parts, " • "))
}

func (m *Model) renderList() string {
	return fmt.Sprintf("%s\n%s\n%s\n\n%s\n%s",
		m.renderTabs(),
		m.renderStatus(),
		m.renderSummary(),
		m.lists[m.tab].View(),
		m.help.ShortHelpView(m.keys.ShortHelp()),
	)
}

func (m *Model) renderAdd() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.back})
	return fmt.Sprintf("%s\n\n%s\n\n%s",
		styles.title.Render("Add a torrent"),
		m.input.View(),
		helpView,
	)
}
