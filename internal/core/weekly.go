package core

import (
	"sort"
	"time"
)

// WeeklySeries is stacked-bar-ready chart data: one Monday-anchored week key
// per label and one numeric series per category, aligned positionally with
// the labels.
type WeeklySeries struct {
	WeekLabels []string             `json:"weekLabels"`
	Categories []string             `json:"categories"`
	ByCategory map[string][]float64 `json:"seriesByCategory"`
}

// WeekStart returns the ISO date of the Monday on or before the given date.
// Sunday counts as day 7 of the previous week, so it steps back six days.
// Returns false when the date does not parse as YYYY-MM-DD.
func WeekStart(date string) (string, bool) {
	d, ok := parseDay(date)
	if !ok {
		return "", false
	}
	offset := int(d.Weekday()) - 1
	if d.Weekday() == time.Sunday {
		offset = 6
	}
	return d.AddDate(0, 0, -offset).Format(dateLayout), true
}

// ComputeWeeklySeries groups a filtered view into weekly buckets and further
// by category. Week keys are sorted lexicographically, which equals
// chronological order because they are fixed-width YYYY-MM-DD strings.
// Categories appear in first-seen order; the empty category is a normal (if
// blank) label, not dropped. Weeks with no spending in a category yield 0.
// Records whose date cannot be placed in a week are skipped.
//
// The series is recomputed in full on every request; ledgers are
// personal-use scale, so no incremental state is kept.
func ComputeWeeklySeries(list []Purchase) WeeklySeries {
	type entry struct {
		week     string
		category string
		price    float64
	}

	var entries []entry
	weekSet := make(map[string]bool)
	catSeen := make(map[string]bool)
	categories := []string{}

	for _, p := range list {
		wk, ok := WeekStart(p.Date)
		if !ok {
			continue
		}
		entries = append(entries, entry{week: wk, category: p.Category, price: p.Price})
		weekSet[wk] = true
		if !catSeen[p.Category] {
			catSeen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}

	weeks := make([]string, 0, len(weekSet))
	for wk := range weekSet {
		weeks = append(weeks, wk)
	}
	sort.Strings(weeks)

	index := make(map[string]int, len(weeks))
	for i, wk := range weeks {
		index[wk] = i
	}

	series := make(map[string][]float64, len(categories))
	for _, cat := range categories {
		series[cat] = make([]float64, len(weeks))
	}
	for _, e := range entries {
		series[e.category][index[e.week]] += e.price
	}

	return WeeklySeries{WeekLabels: weeks, Categories: categories, ByCategory: series}
}
