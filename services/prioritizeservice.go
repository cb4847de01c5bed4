package services

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"myassistant/model"
)

const (
	highPriorityBonus = 100
	outdoorPenalty    = 50
	contextBonus      = 20
	noTimeSentinel    = "23:59"
)

// Keywords drives the contextual part of the task score.
type Keywords struct {
	Outdoor []string
	Work    []string
	Leisure []string
}

var DefaultKeywords = Keywords{
	Outdoor: []string{"garden", "wash", "roof", "outside"},
	Work:    []string{"call", "email", "invoice", "meet"},
	Leisure: []string{"dinner", "relax", "read"},
}

func containsAny(title string, words []string) bool {
	for _, w := range words {
		if strings.Contains(title, w) {
			return true
		}
	}
	return false
}

// ContextScore penalizes outdoor work in bad weather and favours work tasks
// during business hours and leisure in the evening.
func (k Keywords) ContextScore(task model.Task, weather *model.WeatherSnapshot, now time.Time) int {
	score := 0
	title := strings.ToLower(task.Title)

	if weather != nil && weather.Adverse() && containsAny(title, k.Outdoor) {
		score -= outdoorPenalty
	}

	hour := now.Hour()
	switch {
	case hour >= 9 && hour <= 17:
		if containsAny(title, k.Work) {
			score += contextBonus
		}
	case hour >= 18:
		if containsAny(title, k.Leisure) {
			score += contextBonus
		}
	}
	return score
}

func (k Keywords) Score(task model.Task, weather *model.WeatherSnapshot, now time.Time) int {
	score := k.ContextScore(task, weather, now)
	if task.IsHigh() {
		score += highPriorityBonus
	}
	return score
}

// SortTasks returns a display ordering. The input is never modified.
func SortTasks(tasks []model.Task, weather *model.WeatherSnapshot, now time.Time) []model.Task {
	return DefaultKeywords.Sort(tasks, weather, now)
}

func (k Keywords) Sort(tasks []model.Task, weather *model.WeatherSnapshot, now time.Time) []model.Task {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, func(a, b model.Task) int {
		if a.Completed != b.Completed {
			if a.Completed {
				return 1
			}
			return -1
		}
		// Scores only order incomplete tasks.
		if !a.Completed {
			if c := cmp.Compare(k.Score(b, weather, now), k.Score(a, weather, now)); c != 0 {
				return c
			}
		}
		if c := cmp.Compare(sortDate(a), sortDate(b)); c != 0 {
			return c
		}
		return cmp.Compare(sortTime(a), sortTime(b))
	})
	return sorted
}

func sortDate(t model.Task) string {
	if t.DueDate != "" {
		return t.DueDate
	}
	return t.Date
}

func sortTime(t model.Task) string {
	if t.Time != "" {
		return t.Time
	}
	return noTimeSentinel
}
