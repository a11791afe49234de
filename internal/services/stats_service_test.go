package services

import (
	"context"
	"math"
	"testing"

	"github.com/glucolog/glucolog/internal/analytics"
)

func TestDashboard(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 400)
	glucose := NewGlucoseService(db)
	food := NewFoodService(db)
	exercise := NewExerciseService(db)
	svc := NewStatsService(db)
	ctx := context.Background()

	// Two readings in the 7-day window, one outside it.
	if _, err := glucose.AddReading(ctx, user.ID, 100, dayKey(0), "08:00", ""); err != nil {
		t.Fatalf("AddReading: %v", err)
	}
	if _, err := glucose.AddReading(ctx, user.ID, 140, dayKey(-3), "13:00", ""); err != nil {
		t.Fatalf("AddReading: %v", err)
	}
	if _, err := glucose.AddReading(ctx, user.ID, 200, dayKey(-30), "08:00", ""); err != nil {
		t.Fatalf("AddReading: %v", err)
	}

	// One food entry today, one yesterday.
	if _, err := food.AddEntry(ctx, user.ID, "Toast", 30, 160, 3, dayKey(0), "08:00", ""); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if _, err := food.AddEntry(ctx, user.ID, "Pasta", 70, 400, 4, dayKey(-1), "19:00", ""); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	if _, err := exercise.AddEntry(ctx, user.ID, "Walking", 40, dayKey(-2), "18:00", ""); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	d, err := svc.Dashboard(ctx, user.ID, testNow)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if math.Abs(d.AvgGlucose7d-120) > 1e-9 {
		t.Errorf("AvgGlucose7d = %v, want 120", d.AvgGlucose7d)
	}
	if d.TodayCarbs != 30 || d.TodayCalories != 160 || d.TodaySugars != 3 {
		t.Errorf("today totals = %v/%v/%v, want 30/160/3", d.TodayCarbs, d.TodayCalories, d.TodaySugars)
	}
	if d.WeeklyExerciseMin != 40 {
		t.Errorf("WeeklyExerciseMin = %v, want 40", d.WeeklyExerciseMin)
	}
	if d.LatestGlucose == nil {
		t.Fatal("LatestGlucose is nil")
	}
	if d.LatestGlucose.Value != 100 {
		t.Errorf("LatestGlucose = %v, want the most recent reading (100)", d.LatestGlucose.Value)
	}
}

func TestDashboardEmpty(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 401)

	d, err := NewStatsService(db).Dashboard(context.Background(), user.ID, testNow)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.LatestGlucose != nil {
		t.Errorf("LatestGlucose = %+v, want nil", d.LatestGlucose)
	}
	if d.AvgGlucose7d != 0 || d.TodayCarbs != 0 || d.WeeklyExerciseMin != 0 {
		t.Errorf("empty dashboard has nonzero values: %+v", d)
	}
}

func TestGlucoseSeries(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 402)
	glucose := NewGlucoseService(db)
	svc := NewStatsService(db)
	ctx := context.Background()

	// Two readings on the same day average into one point.
	if _, err := glucose.AddReading(ctx, user.ID, 100, "2025-06-10", "08:00", ""); err != nil {
		t.Fatalf("AddReading: %v", err)
	}
	if _, err := glucose.AddReading(ctx, user.ID, 140, "2025-06-10", "20:00", ""); err != nil {
		t.Fatalf("AddReading: %v", err)
	}
	if _, err := glucose.AddReading(ctx, user.ID, 90, "2025-06-12", "08:00", ""); err != nil {
		t.Fatalf("AddReading: %v", err)
	}

	points, err := svc.GlucoseSeries(ctx, user.ID)
	if err != nil {
		t.Fatalf("GlucoseSeries: %v", err)
	}
	want := []analytics.Point{
		{Date: "2025-06-10", Value: 120},
		{Date: "2025-06-12", Value: 90},
	}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("points[%d] = %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestFoodSeriesPerNutrient(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 403)
	food := NewFoodService(db)
	svc := NewStatsService(db)
	ctx := context.Background()

	if _, err := food.AddEntry(ctx, user.ID, "Toast", 30, 160, 3, "2025-06-10", "08:00", ""); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if _, err := food.AddEntry(ctx, user.ID, "Apple", 25, 95, 19, "2025-06-10", "11:00", ""); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	carbs, err := svc.FoodSeries(ctx, user.ID, analytics.NutrientCarbs)
	if err != nil {
		t.Fatalf("FoodSeries: %v", err)
	}
	if len(carbs) != 1 || carbs[0].Value != 55 {
		t.Errorf("carb series = %+v, want one 55 g point", carbs)
	}

	sugars, err := svc.FoodSeries(ctx, user.ID, analytics.NutrientSugars)
	if err != nil {
		t.Fatalf("FoodSeries: %v", err)
	}
	if len(sugars) != 1 || sugars[0].Value != 22 {
		t.Errorf("sugar series = %+v, want one 22 g point", sugars)
	}
}
