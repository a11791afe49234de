package analytics

import "time"

// MetricType is the category of health measurement a goal targets. The
// string values double as the persisted keys.
type MetricType string

const (
	MetricAvgGlucose     MetricType = "avgGlucose"
	MetricDailyCarbs     MetricType = "dailyCarbs"
	MetricDailyCalories  MetricType = "dailyCalories"
	MetricDailySugars    MetricType = "dailySugars"
	MetricWeeklyExercise MetricType = "weeklyExercise"
)

// MetricInfo carries the display properties and directionality of a metric.
type MetricInfo struct {
	Title         string
	Unit          string
	LowerIsBetter bool
}

// Metrics maps every supported metric type to its properties.
var Metrics = map[MetricType]MetricInfo{
	MetricAvgGlucose:     {Title: "7-Day Average Glucose", Unit: "mg/dL", LowerIsBetter: true},
	MetricDailyCarbs:     {Title: "Daily Carbohydrate Intake", Unit: "g", LowerIsBetter: true},
	MetricDailyCalories:  {Title: "Daily Calorie Intake", Unit: "kcal", LowerIsBetter: true},
	MetricDailySugars:    {Title: "Daily Sugar Intake", Unit: "g", LowerIsBetter: true},
	MetricWeeklyExercise: {Title: "Weekly Exercise Duration", Unit: "min", LowerIsBetter: false},
}

// Goal is the evaluated goal definition.
type Goal struct {
	Metric        MetricType
	TargetValue   float64
	LowerIsBetter bool
}

// GlucoseSample is a dated glucose reading in mg/dL.
type GlucoseSample struct {
	Date  string
	Value float64
}

// FoodSample is a dated food entry's nutrient totals.
type FoodSample struct {
	Date     string
	Carbs    float64
	Calories float64
	Sugars   float64
}

// ExerciseSample is a dated exercise entry's duration in minutes.
type ExerciseSample struct {
	Date     string
	Duration float64
}

// Snapshot is the full per-user record set as fetched at one point in time.
type Snapshot struct {
	Glucose  []GlucoseSample
	Food     []FoodSample
	Exercise []ExerciseSample
}

// Status is the three-way goal classification. The distinction between
// Achieved and InProgress for lower-is-better goals hinges on whether any
// data exists at all, so it must not collapse to a boolean.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusAchieved   Status = "achieved"
	StatusExceeded   Status = "exceeded"
)

// Progress is the evaluated state of one goal.
type Progress struct {
	Current float64
	Target  float64
	// Percent is clamped to [0, 100] for display.
	Percent float64
	// Ratio is the unclamped current/target percentage.
	Ratio  float64
	Status Status
}

// Evaluate computes the current value and completion state of a goal against
// a snapshot. Empty record sets produce a current value of zero, never an
// error. Target validation happens at goal creation, not here.
func Evaluate(goal Goal, snap Snapshot, now time.Time) Progress {
	current := CurrentValue(goal.Metric, snap, now)

	var ratio float64
	if goal.TargetValue > 0 {
		ratio = current / goal.TargetValue * 100
	}
	percent := ratio
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}

	status := StatusInProgress
	switch {
	case goal.LowerIsBetter && current > goal.TargetValue:
		status = StatusExceeded
	case !goal.LowerIsBetter && ratio >= 100:
		status = StatusAchieved
	case goal.LowerIsBetter && current > 0 && ratio <= 100:
		status = StatusAchieved
	}

	return Progress{
		Current: current,
		Target:  goal.TargetValue,
		Percent: percent,
		Ratio:   ratio,
		Status:  status,
	}
}

// CurrentValue computes the live measurement for a metric over the snapshot.
func CurrentValue(metric MetricType, snap Snapshot, now time.Time) float64 {
	switch metric {
	case MetricAvgGlucose:
		// Mean across every reading in the window, not across day means.
		week := LastNDays(now, 7)
		var sum float64
		var count int
		for _, s := range snap.Glucose {
			if week.contains(s.Date) {
				sum += s.Value
				count++
			}
		}
		if count == 0 {
			return 0
		}
		return sum / float64(count)
	case MetricDailyCarbs:
		return sumWindow(FoodValues(snap.Food, NutrientCarbs), Today(now))
	case MetricDailyCalories:
		return sumWindow(FoodValues(snap.Food, NutrientCalories), Today(now))
	case MetricDailySugars:
		return sumWindow(FoodValues(snap.Food, NutrientSugars), Today(now))
	case MetricWeeklyExercise:
		return sumWindow(ExerciseValues(snap.Exercise), LastNDays(now, 7))
	default:
		return 0
	}
}

// Nutrient selects a FoodSample field.
type Nutrient int

const (
	NutrientCarbs Nutrient = iota
	NutrientCalories
	NutrientSugars
)

// GlucoseValues adapts glucose readings for DailySeries.
func GlucoseValues(readings []GlucoseSample) []Sample {
	samples := make([]Sample, len(readings))
	for i, r := range readings {
		samples[i] = Sample{Date: r.Date, Value: r.Value}
	}
	return samples
}

// FoodValues adapts one nutrient field of food entries for DailySeries.
func FoodValues(entries []FoodSample, n Nutrient) []Sample {
	samples := make([]Sample, len(entries))
	for i, e := range entries {
		v := e.Carbs
		switch n {
		case NutrientCalories:
			v = e.Calories
		case NutrientSugars:
			v = e.Sugars
		}
		samples[i] = Sample{Date: e.Date, Value: v}
	}
	return samples
}

// ExerciseValues adapts exercise durations for DailySeries.
func ExerciseValues(entries []ExerciseSample) []Sample {
	samples := make([]Sample, len(entries))
	for i, e := range entries {
		samples[i] = Sample{Date: e.Date, Value: e.Duration}
	}
	return samples
}

func sumWindow(samples []Sample, window *Window) float64 {
	var total float64
	for _, p := range DailySeries(samples, Sum, window) {
		total += p.Value
	}
	return total
}
