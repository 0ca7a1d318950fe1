// Package render formats tasks, the day timeline and run reports for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harrisonrobin/timecoach/pkg/model"
	"github.com/harrisonrobin/timecoach/pkg/schedule"
	"github.com/harrisonrobin/timecoach/pkg/stats"
	"github.com/harrisonrobin/timecoach/pkg/tasklist"
	"github.com/harrisonrobin/timecoach/pkg/util"
)

const clock = "15:04"

func span(t model.Task) string {
	return fmt.Sprintf("%s-%s", t.StartTime.Format(clock), t.EndTime.Format(clock))
}

// TaskLine renders one task: its time span when scheduled, its duration otherwise.
func TaskLine(t model.Task) string {
	marker := "○"
	when := util.FormatMinutes(t.Duration)
	if _, scheduled := t.Reservation(); scheduled {
		marker = "▣"
		when = span(t)
	}
	if t.Completed {
		marker = "✓"
	}
	line := fmt.Sprintf("%s %s %s | %s | %s | %s",
		faded.Render(tasklist.ShortID(t.ID)),
		marker,
		title.Render(t.Title),
		when,
		lipgloss.NewStyle().Foreground(CategoryColor(t.Category)).Render(string(t.Category)),
		model.PriorityLabel(t.Priority),
	)
	if t.Completed {
		return faded.Render(line)
	}
	return line
}

// TaskList renders tasks one per line, or a hint when there are none.
func TaskList(tasks []model.Task) string {
	if len(tasks) == 0 {
		return faded.Render("No tasks yet. Add some tasks to get started!") + "\n"
	}
	var b strings.Builder
	b.WriteString(header.Render("Your Tasks"))
	b.WriteString("\n")
	for _, t := range tasks {
		b.WriteString(TaskLine(t))
		b.WriteString("\n")
	}
	return b.String()
}

// Timeline renders scheduled tasks as coloured blocks in start order.
func Timeline(scheduled []model.Task) string {
	if len(scheduled) == 0 {
		return faded.Render("No tasks scheduled yet. Run `timecoach schedule` to arrange your tasks.") + "\n"
	}
	var b strings.Builder
	b.WriteString(header.Render("Today's Timeline"))
	b.WriteString("\n")
	for _, t := range scheduled {
		block := lipgloss.NewStyle().
			Background(CategoryColor(t.Category)).
			Foreground(White).
			Padding(0, 1).
			Faint(t.Completed)
		text := fmt.Sprintf("%s  %s | %s | Priority: %d",
			span(t), t.Title, util.FormatMinutes(t.Duration), t.Priority)
		b.WriteString(block.Render(text))
		b.WriteString("\n")
	}
	return b.String()
}

// Stats renders the productivity figures.
func Stats(p stats.Productivity) string {
	var b strings.Builder
	b.WriteString(header.Render("Productivity Stats"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Completion Rate: %.1f%%\n", p.CompletionRate)
	fmt.Fprintf(&b, "Planned Time:    %d minutes\n", p.PlannedMinutes)
	fmt.Fprintf(&b, "Actual Time:     %d minutes\n", p.ActualMinutes)
	return b.String()
}

// Report summarises a scheduling run. skippedBusy is the number of calendar
// entries dropped because they had no usable start or end.
func Report(res schedule.Result, skippedBusy int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d task(s) scheduled into %d free slot(s)\n",
		good.Render("✓"), res.Scheduled, len(res.Free))
	if res.Unschedulable > 0 {
		fmt.Fprintf(&b, "%s %d task(s) did not fit any remaining slot\n", warn.Render("!"), res.Unschedulable)
	}
	if skippedBusy > 0 {
		fmt.Fprintf(&b, "%s %d calendar entr(ies) without a start or end time were ignored\n", warn.Render("!"), skippedBusy)
	}
	var left int
	for _, s := range res.Remaining {
		left += int(s.Width().Minutes())
	}
	fmt.Fprintf(&b, "%s\n", faded.Render(fmt.Sprintf("%d free minute(s) left", left)))
	return b.String()
}
