package tui

import (
	"fmt"
	"time"

	"tempo-cli/internal/model"
	"tempo-cli/internal/report"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type taskItem struct {
	task    model.Task
	running *model.TimeEntry
	totalMs int64
}

func (i taskItem) FilterValue() string { return i.task.Title }

func (i taskItem) Title() string {
	title := i.task.Title
	switch i.task.Status {
	case model.StatusCompleted:
		title = styleDone.Render(title)
	case model.StatusArchived:
		title = styleFooter.Render(title + " (archived)")
	}
	if i.running != nil {
		elapsed := time.Now().UnixMilli() - i.running.StartAt
		title += " " + styleRunning.Render("● "+report.FormatHHMMSS(elapsed))
	}
	return title
}

func (i taskItem) Description() string {
	coll := "default"
	if i.task.Collection != nil {
		coll = *i.task.Collection
	}
	desc := fmt.Sprintf("#%d  %s  %s tracked", i.task.ID, coll, report.FormatHHMMSS(i.totalMs))
	// The default delegate truncates plain strings, but styled segments
	// need width-aware truncation.
	return xansi.Truncate(desc, 80, "…")
}

func newList(title string, items []list.Item) list.Model {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(colorAccent).
		BorderLeftForeground(colorAccent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(colorAccent).
		BorderLeftForeground(colorAccent)

	l := list.New(items, d, 0, 0)
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("task", "tasks")
	l.Styles.Title = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	return l
}
