package taskwarrior

import (
	"strings"

	"github.com/harrisonrobin/timecoach/pkg/model"
	"github.com/harrisonrobin/timecoach/pkg/util"
)

// Draft is a taskwarrior task translated to the fields of a new task.
type Draft struct {
	Title    string
	Priority int
	Duration int
	Category model.Category
}

var priorities = map[string]int{
	"H": model.PriorityHigh,
	"M": model.PriorityMedium,
	"L": model.PriorityLow,
}

// ToDrafts converts pending tasks. Anything else is counted as skipped.
// Tasks without a usable estimate get defaultMinutes.
func ToDrafts(tasks []Task, defaultMinutes int) ([]Draft, int) {
	var drafts []Draft
	skipped := 0
	for _, t := range tasks {
		if t.Status != PENDING || strings.TrimSpace(t.Description) == "" {
			skipped++
			continue
		}
		d := Draft{
			Title:    strings.TrimSpace(t.Description),
			Priority: model.PriorityMedium,
			Duration: defaultMinutes,
			Category: category(t),
		}
		if p, ok := priorities[strings.ToUpper(t.Priority)]; ok {
			d.Priority = p
		}
		if t.Est != "" {
			if m, err := util.ParseMinutes(t.Est); err == nil {
				d.Duration = m
			}
		}
		drafts = append(drafts, d)
	}
	return drafts, skipped
}

// category takes the top-level project ("Work.reports" -> Work), then the
// tags, falling back to Other.
func category(t Task) model.Category {
	candidates := []string{strings.SplitN(t.Project, ".", 2)[0]}
	candidates = append(candidates, t.Tags...)
	for _, c := range candidates {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if cat, err := model.ParseCategory(c); err == nil {
			return cat
		}
	}
	return model.CategoryOther
}
