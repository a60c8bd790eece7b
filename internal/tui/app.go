package tui

import (
	"context"
	"strings"
	"time"

	"tempo-cli/internal/model"
	"tempo-cli/internal/report"
	"tempo-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type view int

const (
	viewTasks view = iota
	viewDetail
	viewReport
)

type tickMsg struct{}

type appModel struct {
	store *store.Store

	width  int
	height int

	view view

	tasksList list.Model
	titleIn   textinput.Model
	adding    bool

	detailTaskID   int64
	detailEntries  []model.TimeEntry
	detailSubtasks []model.Subtask

	reportStats report.Stats
	reportDays  []report.DayTotal

	err error
}

func newAppModel(st *store.Store) appModel {
	applyThemePreference()

	m := appModel{
		store: st,
		view:  viewTasks,
	}

	m.tasksList = newList("Tempo", nil)

	m.titleIn = textinput.New()
	m.titleIn.Placeholder = "New task title"
	m.titleIn.CharLimit = 200

	m.refreshTasks()
	return m
}

// tick drives the running-timer readout once a second.
func tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m appModel) Init() tea.Cmd { return tick() }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tickMsg:
		switch m.view {
		case viewTasks:
			m.refreshTasks()
		case viewDetail:
			m.refreshDetail()
		case viewReport:
			m.refreshReport()
		}
		return m, tick()

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc", "backspace":
			if m.view != viewTasks {
				m.view = viewTasks
				m.refreshTasks()
				return m, nil
			}
		case "enter":
			if m.view == viewTasks {
				if it, ok := m.tasksList.SelectedItem().(taskItem); ok {
					m.detailTaskID = it.task.ID
					m.view = viewDetail
					m.refreshDetail()
				}
				return m, nil
			}
		case "n":
			if m.view == viewTasks {
				m.adding = true
				m.titleIn.SetValue("")
				return m, m.titleIn.Focus()
			}
		case "s":
			if t, ok := m.currentTask(); ok {
				m.err = m.toggleTimer(t)
				m.refreshTasks()
				if m.view == viewDetail {
					m.refreshDetail()
				}
				return m, nil
			}
		case "c":
			if t, ok := m.currentTask(); ok {
				m.err = m.toggleComplete(t)
				m.refreshTasks()
				return m, nil
			}
		case "a":
			if t, ok := m.currentTask(); ok {
				_, err := m.store.UpdateTaskStatus(context.Background(), t.ID, model.StatusArchived)
				m.err = err
				m.refreshTasks()
				return m, nil
			}
		case "r":
			if m.view == viewTasks {
				m.view = viewReport
				m.refreshReport()
				return m, nil
			}
		}
	}

	if m.view == viewTasks {
		var cmd tea.Cmd
		m.tasksList, cmd = m.tasksList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.titleIn.Blur()
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.titleIn.Value())
		m.adding = false
		m.titleIn.Blur()
		if title != "" {
			_, err := m.store.CreateTask(context.Background(), title, nil, nil)
			m.err = err
			m.refreshTasks()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.titleIn, cmd = m.titleIn.Update(msg)
	return m, cmd
}

func (m appModel) View() string {
	header := styleHeader.Render("Tempo time tracker")

	var body string
	switch m.view {
	case viewTasks:
		body = m.tasksList.View()
		if m.adding {
			body += "\n" + m.titleIn.View()
		}
	case viewDetail:
		body = m.viewDetail()
	case viewReport:
		body = m.viewReport()
	}

	footer := styleFooter.Render(m.footerHelp())
	if m.err != nil {
		footer = styleFooter.Render("error: "+m.err.Error()) + "\n" + footer
	}
	return strings.Join([]string{header, body, footer}, "\n\n")
}

func (m appModel) footerHelp() string {
	switch m.view {
	case viewDetail, viewReport:
		return "esc: back  s: start/stop  q: quit"
	default:
		return "enter: detail  n: new  s: start/stop  c: complete  a: archive  r: report  q: quit"
	}
}

func (m *appModel) resize() {
	h := m.height - 6
	if h < 8 {
		h = 8
	}
	w := m.width
	if w < 40 {
		w = 40
	}
	m.tasksList.SetSize(w, h)
	m.titleIn.Width = w - 4
}

func (m *appModel) currentTask() (model.Task, bool) {
	if m.view == viewDetail {
		return m.findTask(m.detailTaskID)
	}
	if it, ok := m.tasksList.SelectedItem().(taskItem); ok {
		return it.task, true
	}
	return model.Task{}, false
}

func (m *appModel) findTask(id int64) (model.Task, bool) {
	for _, li := range m.tasksList.Items() {
		if it, ok := li.(taskItem); ok && it.task.ID == id {
			return it.task, true
		}
	}
	return model.Task{}, false
}

func (m *appModel) toggleTimer(t model.Task) error {
	ctx := context.Background()
	running, err := m.store.RunningEntry(ctx, t.ID)
	if err != nil {
		return err
	}
	if running != nil {
		_, err = m.store.StopTimer(ctx, running.ID)
		return err
	}
	_, err = m.store.StartTimer(ctx, t.ID)
	return err
}

func (m *appModel) toggleComplete(t model.Task) error {
	next := model.StatusCompleted
	if t.Status == model.StatusCompleted {
		next = model.StatusActive
	}
	_, err := m.store.UpdateTaskStatus(context.Background(), t.ID, next)
	return err
}

// refreshTasks reloads the list from the store: one query for tasks, one
// joined query for totals and running entries.
func (m *appModel) refreshTasks() {
	ctx := context.Background()

	curID := int64(0)
	if it, ok := m.tasksList.SelectedItem().(taskItem); ok {
		curID = it.task.ID
	}

	tasks, err := m.store.ListTasks(ctx)
	if err != nil {
		m.err = err
		return
	}
	rows, err := m.store.EntryRows(ctx)
	if err != nil {
		m.err = err
		return
	}

	totals := map[int64]int64{}
	running := map[int64]*model.TimeEntry{}
	nowMs := time.Now().UnixMilli()
	for _, r := range rows {
		end := nowMs
		if r.Entry.EndAt != nil {
			end = *r.Entry.EndAt
		} else {
			e := r.Entry
			running[e.TaskID] = &e
		}
		if d := end - r.Entry.StartAt; d > 0 {
			totals[r.Entry.TaskID] += d
		}
	}

	var items []list.Item
	for _, t := range tasks {
		items = append(items, taskItem{task: t, running: running[t.ID], totalMs: totals[t.ID]})
	}
	m.tasksList.SetItems(items)
	if curID != 0 {
		for i, li := range items {
			if it, ok := li.(taskItem); ok && it.task.ID == curID {
				m.tasksList.Select(i)
				break
			}
		}
	}
	m.err = nil
}

func (m *appModel) refreshDetail() {
	ctx := context.Background()
	entries, err := m.store.ListTimeEntriesByTask(ctx, m.detailTaskID)
	if err != nil {
		m.err = err
		return
	}
	subs, err := m.store.ListSubtasksByTask(ctx, m.detailTaskID)
	if err != nil {
		m.err = err
		return
	}
	m.detailEntries = entries
	m.detailSubtasks = subs
}

func (m *appModel) refreshReport() {
	rows, err := m.store.EntryRows(context.Background())
	if err != nil {
		m.err = err
		return
	}
	now := time.Now()
	nowMs := now.UnixMilli()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	week := report.Filter{From: midnight.AddDate(0, 0, -6).UnixMilli(), To: nowMs}
	m.reportStats = report.ComputeStats(rows, week, nowMs)

	quarter := report.Filter{From: midnight.AddDate(0, 0, -83).UnixMilli(), To: nowMs}
	m.reportDays = report.Heatmap(rows, quarter, nowMs)
}
