package analytics

import (
	"testing"
	"time"
)

func dateKey(now time.Time, daysAgo int) string {
	return now.AddDate(0, 0, -daysAgo).Format(DateLayout)
}

func TestEvaluateDailyCarbsInProgress(t *testing.T) {
	now := testNow
	snap := Snapshot{
		Food: []FoodSample{
			{Date: dateKey(now, 0), Carbs: 40},
			{Date: dateKey(now, 0), Carbs: 25},
			{Date: dateKey(now, 1), Carbs: 999},
		},
	}
	goal := Goal{Metric: MetricDailyCarbs, TargetValue: 100, LowerIsBetter: true}
	p := Evaluate(goal, snap, now)

	if p.Current != 65 {
		t.Errorf("Current = %v, want 65", p.Current)
	}
	if p.Percent != 65 {
		t.Errorf("Percent = %v, want 65", p.Percent)
	}
	if p.Status != StatusAchieved {
		// 65 of 100 with lowerIsBetter and data present counts as on track.
		t.Errorf("Status = %v, want %v", p.Status, StatusAchieved)
	}
}

func TestEvaluateDailyCarbsExceeded(t *testing.T) {
	now := testNow
	snap := Snapshot{
		Food: []FoodSample{
			{Date: dateKey(now, 0), Carbs: 40},
			{Date: dateKey(now, 0), Carbs: 25},
		},
	}
	goal := Goal{Metric: MetricDailyCarbs, TargetValue: 50, LowerIsBetter: true}
	p := Evaluate(goal, snap, now)

	if p.Current != 65 {
		t.Errorf("Current = %v, want 65", p.Current)
	}
	if p.Status != StatusExceeded {
		t.Errorf("Status = %v, want %v", p.Status, StatusExceeded)
	}
	if p.Percent != 100 {
		t.Errorf("display Percent = %v, want clamped 100", p.Percent)
	}
	if p.Ratio != 130 {
		t.Errorf("Ratio = %v, want unclamped 130", p.Ratio)
	}
}

func TestEvaluateWeeklyExerciseAchieved(t *testing.T) {
	now := testNow
	snap := Snapshot{
		Exercise: []ExerciseSample{
			{Date: dateKey(now, 1), Duration: 60},
			{Date: dateKey(now, 3), Duration: 45},
			{Date: dateKey(now, 6), Duration: 45},
			{Date: dateKey(now, 30), Duration: 500},
		},
	}
	goal := Goal{Metric: MetricWeeklyExercise, TargetValue: 120, LowerIsBetter: false}
	p := Evaluate(goal, snap, now)

	if p.Current != 150 {
		t.Errorf("Current = %v, want 150", p.Current)
	}
	if p.Percent != 100 {
		t.Errorf("Percent = %v, want clamped 100", p.Percent)
	}
	if p.Status != StatusAchieved {
		t.Errorf("Status = %v, want %v", p.Status, StatusAchieved)
	}
}

func TestEvaluateAvgGlucoseMeanOverReadings(t *testing.T) {
	now := testNow
	snap := Snapshot{
		Glucose: []GlucoseSample{
			{Date: dateKey(now, 0), Value: 100},
			{Date: dateKey(now, 2), Value: 120},
			{Date: dateKey(now, 4), Value: 140},
			{Date: dateKey(now, 20), Value: 400},
		},
	}
	goal := Goal{Metric: MetricAvgGlucose, TargetValue: 140, LowerIsBetter: true}
	p := Evaluate(goal, snap, now)

	if p.Current != 120 {
		t.Errorf("Current = %v, want 120", p.Current)
	}
	if p.Status != StatusAchieved {
		t.Errorf("Status = %v, want %v", p.Status, StatusAchieved)
	}
}

func TestEvaluateEmptySnapshot(t *testing.T) {
	now := testNow
	for metric := range Metrics {
		goal := Goal{Metric: metric, TargetValue: 100, LowerIsBetter: Metrics[metric].LowerIsBetter}
		p := Evaluate(goal, Snapshot{}, now)
		if p.Current != 0 {
			t.Errorf("%s: Current = %v, want 0", metric, p.Current)
		}
		if p.Status != StatusInProgress {
			// No data yet is in-progress, never achieved.
			t.Errorf("%s: Status = %v, want %v", metric, p.Status, StatusInProgress)
		}
	}
}

func TestEvaluateDailySugarsIgnoresOtherDays(t *testing.T) {
	now := testNow
	snap := Snapshot{
		Food: []FoodSample{
			{Date: dateKey(now, 0), Sugars: 12},
			{Date: dateKey(now, 0), Sugars: 8},
			{Date: dateKey(now, 2), Sugars: 50},
		},
	}
	goal := Goal{Metric: MetricDailySugars, TargetValue: 30, LowerIsBetter: true}
	p := Evaluate(goal, snap, now)
	if p.Current != 20 {
		t.Errorf("Current = %v, want 20", p.Current)
	}
}

func TestEvaluateHigherIsBetterBelowTarget(t *testing.T) {
	now := testNow
	snap := Snapshot{
		Exercise: []ExerciseSample{{Date: dateKey(now, 1), Duration: 30}},
	}
	goal := Goal{Metric: MetricWeeklyExercise, TargetValue: 120, LowerIsBetter: false}
	p := Evaluate(goal, snap, now)
	if p.Status != StatusInProgress {
		t.Errorf("Status = %v, want %v", p.Status, StatusInProgress)
	}
	if p.Percent != 25 {
		t.Errorf("Percent = %v, want 25", p.Percent)
	}
}

func TestMetricsTable(t *testing.T) {
	tests := []struct {
		metric        MetricType
		wantUnit      string
		lowerIsBetter bool
	}{
		{MetricAvgGlucose, "mg/dL", true},
		{MetricDailyCarbs, "g", true},
		{MetricDailyCalories, "kcal", true},
		{MetricDailySugars, "g", true},
		{MetricWeeklyExercise, "min", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			info, ok := Metrics[tt.metric]
			if !ok {
				t.Fatalf("metric %s missing from table", tt.metric)
			}
			if info.Unit != tt.wantUnit {
				t.Errorf("unit = %s, want %s", info.Unit, tt.wantUnit)
			}
			if info.LowerIsBetter != tt.lowerIsBetter {
				t.Errorf("lowerIsBetter = %v, want %v", info.LowerIsBetter, tt.lowerIsBetter)
			}
		})
	}
}
