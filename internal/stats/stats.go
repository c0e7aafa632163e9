// Package stats summarizes task activity per UTC day.
package stats

import (
	"math"
	"time"

	"github.com/sandeepkv93/blinkdo/internal/model"
)

const (
	DefaultDays = 30
	recentDays  = 7
	dateLayout  = "2006-01-02"
)

type Day struct {
	Date      string `json:"date" yaml:"date"`
	Created   int    `json:"created" yaml:"created"`
	Completed int    `json:"completed" yaml:"completed"`
}

type Summary struct {
	Days           []Day `json:"days" yaml:"days"`
	Total          int   `json:"total" yaml:"total"`
	Completed      int   `json:"completed" yaml:"completed"`
	Active         int   `json:"active" yaml:"active"`
	CompletionRate int   `json:"completionRate" yaml:"completionRate"`
	CreatedLast7   int   `json:"createdLast7Days" yaml:"createdLast7Days"`
	CompletedLast7 int   `json:"completedLast7Days" yaml:"completedLast7Days"`
}

// Compute buckets creations and completions into the last days UTC dates ending at
// now, oldest first. Events before the window are ignored.
func Compute(tasks []model.Task, now time.Time, days int) Summary {
	if days <= 0 {
		days = DefaultDays
	}
	now = now.UTC()
	windowStart := now.Add(-time.Duration(days) * 24 * time.Hour).UnixMilli()

	out := Summary{Days: make([]Day, days)}
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, i-days+1).Format(dateLayout)
		out.Days[i] = Day{Date: date}
		index[date] = i
	}

	bump := func(ms int64, completed bool) {
		if ms < windowStart {
			return
		}
		i, ok := index[time.UnixMilli(ms).UTC().Format(dateLayout)]
		if !ok {
			return
		}
		if completed {
			out.Days[i].Completed++
		} else {
			out.Days[i].Created++
		}
	}

	for _, t := range tasks {
		out.Total++
		bump(t.CreatedAt, false)
		if t.CompletedAt != nil {
			out.Completed++
			bump(*t.CompletedAt, true)
		}
	}
	out.Active = out.Total - out.Completed
	if out.Total > 0 {
		out.CompletionRate = int(math.Round(float64(out.Completed) / float64(out.Total) * 100))
	}

	from := max(0, days-recentDays)
	for _, d := range out.Days[from:] {
		out.CreatedLast7 += d.Created
		out.CompletedLast7 += d.Completed
	}
	return out
}
