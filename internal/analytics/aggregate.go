// Package analytics turns raw timestamped health records into day-bucketed
// aggregates, trend series and goal progress. Everything here is a pure
// function over an immutable snapshot of already fetched data.
package analytics

import (
	"sort"
	"strconv"
	"time"
)

// DateLayout is the calendar-day key format used across all record types.
const DateLayout = "2006-01-02"

// Mode selects the per-day reduction.
type Mode int

const (
	Sum Mode = iota
	Mean
)

// Sample is one dated numeric observation. Value may be a float64, an
// integer, or a string still carrying the user's raw input.
type Sample struct {
	Date  string
	Value any
}

// Point is one reduced output bucket.
type Point struct {
	Date  string
	Value float64
}

// Window is an inclusive calendar filter. A nil *Window means no filtering.
type Window struct {
	From time.Time
	To   time.Time
}

// Today returns a window covering only the current calendar day.
func Today(now time.Time) *Window {
	day := startOfDay(now)
	return &Window{From: day, To: day}
}

// LastNDays returns a window covering the n days up to and including now.
// A record dated exactly n calendar days ago falls outside the window.
func LastNDays(now time.Time, n int) *Window {
	day := startOfDay(now)
	return &Window{From: day.AddDate(0, 0, -(n - 1)), To: day}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (w *Window) contains(dateKey string) bool {
	d, err := time.Parse(DateLayout, dateKey)
	if err != nil {
		// A key that is not a calendar date never matches a window,
		// mirroring how an invalid date compares false in the charts.
		return false
	}
	return !d.Before(w.From) && !d.After(w.To)
}

// DailySeries buckets samples by their calendar-date key and reduces each
// bucket with the given mode. Output points are sorted chronologically and
// only dates with at least one sample appear; gap days are not zero-filled.
// Values that fail numeric coercion count as zero.
func DailySeries(samples []Sample, mode Mode, window *Window) []Point {
	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket)

	for _, s := range samples {
		if window != nil && !window.contains(s.Date) {
			continue
		}
		b := buckets[s.Date]
		if b == nil {
			b = &bucket{}
			buckets[s.Date] = b
		}
		b.sum += coerce(s.Value)
		b.count++
	}

	points := make([]Point, 0, len(buckets))
	for date, b := range buckets {
		v := b.sum
		if mode == Mean {
			v = b.sum / float64(b.count)
		}
		points = append(points, Point{Date: date, Value: v})
	}

	// The date key format sorts lexicographically in calendar order.
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// coerce converts a sample value to float64, treating anything unparseable
// as zero. Silent-loss policy inherited from the charts this feeds.
func coerce(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
