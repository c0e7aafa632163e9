// Package views turns snapshots into terminal text for the CLI host.
package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/blinkdo/internal/model"
	"github.com/sandeepkv93/blinkdo/internal/stats"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	starStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

var labelColors = map[model.LabelColor]lipgloss.Color{
	model.ColorSlate:  lipgloss.Color("245"),
	model.ColorBlue:   lipgloss.Color("33"),
	model.ColorGreen:  lipgloss.Color("35"),
	model.ColorAmber:  lipgloss.Color("214"),
	model.ColorRose:   lipgloss.Color("204"),
	model.ColorViolet: lipgloss.Color("141"),
}

var priorityColors = map[model.Priority]lipgloss.Color{
	model.PriorityLow:    lipgloss.Color("33"),
	model.PriorityMedium: lipgloss.Color("214"),
	model.PriorityHigh:   lipgloss.Color("202"),
	model.PriorityUrgent: lipgloss.Color("9"),
}

// RenderStatus styles a one-line outcome; an error wins over the message.
func RenderStatus(msg string, err error) string {
	if err != nil {
		return errorStyle.Render("error: " + err.Error())
	}
	return statusStyle.Render(msg)
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

// RenderDetails shows one task with its details rendered as markdown.
func RenderDetails(data model.AppData, id string) (string, bool) {
	t, ok := data.Task(id)
	if !ok {
		return "", false
	}

	var meta []string
	meta = append(meta, "id: "+t.ID)
	if l, ok := data.Settings.List(listOf(t)); ok {
		meta = append(meta, "list: "+l.Name)
	}
	if t.ParentID != nil {
		if p, ok := data.Task(*t.ParentID); ok {
			meta = append(meta, "parent: "+p.Title)
		}
	}
	meta = append(meta, "priority: "+string(t.Priority))
	if name := labelName(data.Settings, t.LabelID); name != "" {
		meta = append(meta, "label: "+name)
	}
	meta = append(meta, "created: "+formatMillis(t.CreatedAt))
	if t.ReminderAt != nil {
		meta = append(meta, "reminder: "+formatMillis(*t.ReminderAt))
	}
	if t.CompletedAt != nil {
		meta = append(meta, "completed: "+formatMillis(*t.CompletedAt))
	}

	lines := []string{headerStyle.Render(t.Title), mutedStyle.Render(strings.Join(meta, "  ·  "))}
	if t.Details != nil {
		lines = append(lines, RenderMarkdown(*t.Details))
	}
	return panelStyle.Render(strings.Join(lines, "\n")), true
}

// RenderLists prints every list with its open task count, marking the active one.
func RenderLists(data model.AppData) string {
	open := make(map[string]int)
	for _, t := range data.Todos {
		if t.Active() {
			open[listOf(t)]++
		}
	}
	var b strings.Builder
	for _, l := range data.Settings.Lists {
		marker := "  "
		if l.ID == data.Settings.ActiveListID {
			marker = starStyle.Render("▸ ")
		}
		name := l.Name
		if l.Icon != nil {
			name = *l.Icon + " " + name
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", marker, name, mutedStyle.Render(fmt.Sprintf("(%d open)", open[l.ID])), mutedStyle.Render(l.ID))
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderStats(s stats.Summary) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Statistics") + "\n")
	fmt.Fprintf(&b, "total %d  ·  active %d  ·  completed %d  ·  completion %d%%\n", s.Total, s.Active, s.Completed, s.CompletionRate)
	fmt.Fprintf(&b, "last 7 days: %d created, %d completed\n", s.CreatedLast7, s.CompletedLast7)

	peak := 1
	for _, d := range s.Days {
		peak = max(peak, d.Created, d.Completed)
	}
	const width = 20
	for _, d := range s.Days {
		if d.Created == 0 && d.Completed == 0 {
			continue
		}
		created := strings.Repeat("█", d.Created*width/peak)
		completed := strings.Repeat("█", d.Completed*width/peak)
		fmt.Fprintf(&b, "%s  %s %s\n", d.Date,
			lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(fmt.Sprintf("+%-3d%s", d.Created, created)),
			lipgloss.NewStyle().Foreground(lipgloss.Color("35")).Render(fmt.Sprintf("✓%-3d%s", d.Completed, completed)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

func listOf(t model.Task) string {
	if t.ListID == nil {
		return ""
	}
	return *t.ListID
}

func labelName(s model.Settings, id *string) string {
	if id == nil {
		return ""
	}
	for _, l := range s.Labels {
		if l.ID == *id {
			return l.Name
		}
	}
	return ""
}
