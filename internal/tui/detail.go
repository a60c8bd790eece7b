package tui

import (
	"fmt"
	"strings"
	"time"

	"tempo-cli/internal/model"
	"tempo-cli/internal/report"

	"github.com/charmbracelet/glamour"
)

func (m appModel) viewDetail() string {
	t, ok := m.findTask(m.detailTaskID)
	if !ok {
		return styleFooter.Render("task no longer exists")
	}

	var b strings.Builder
	b.WriteString(styleSection.Render(t.Title))
	b.WriteString("  " + styleFooter.Render(fmt.Sprintf("#%d  %s", t.ID, t.Status)))
	b.WriteString("\n")

	if t.Description != nil && strings.TrimSpace(*t.Description) != "" {
		b.WriteString("\n" + renderMarkdown(*t.Description, m.width) + "\n")
	}

	if len(m.detailSubtasks) > 0 {
		b.WriteString("\n" + styleSection.Render("Subtasks") + "\n")
		for _, st := range m.detailSubtasks {
			mark := "[ ]"
			title := st.Title
			if st.Status == model.StatusCompleted {
				mark = "[x]"
				title = styleDone.Render(title)
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", mark, title))
		}
	}

	b.WriteString("\n" + styleSection.Render("Time entries") + "\n")
	if len(m.detailEntries) == 0 {
		b.WriteString(styleFooter.Render("  none yet") + "\n")
	}
	for _, e := range m.detailEntries {
		start := time.UnixMilli(e.StartAt).Format("2006-01-02 15:04")
		if e.EndAt == nil {
			elapsed := time.Now().UnixMilli() - e.StartAt
			b.WriteString(fmt.Sprintf("  %s  %s\n", start, styleRunning.Render("running "+report.FormatHHMMSS(elapsed))))
			continue
		}
		var dur int64
		if e.DurationMs != nil {
			dur = *e.DurationMs
		}
		b.WriteString(fmt.Sprintf("  %s  %s\n", start, report.FormatHHMMSS(dur)))
	}
	return b.String()
}

// renderMarkdown runs the task description through glamour; on any
// renderer error the raw text is shown instead.
func renderMarkdown(src string, width int) string {
	if width <= 0 || width > 100 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return src
	}
	out, err := r.Render(src)
	if err != nil {
		return src
	}
	return strings.TrimRight(out, "\n")
}
