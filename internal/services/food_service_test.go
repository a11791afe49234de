package services

import (
	"context"
	"errors"
	"testing"

	"github.com/glucolog/glucolog/internal/apperrors"
)

func TestAddFoodEntryValidation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 300)
	svc := NewFoodService(db)
	ctx := context.Background()

	tests := []struct {
		name                    string
		item                    string
		carbs, calories, sugars float64
		date                    string
	}{
		{"empty item", "", 30, 200, 5, "2025-06-15"},
		{"whitespace item", "   ", 30, 200, 5, "2025-06-15"},
		{"negative carbs", "Rice", -1, 200, 5, "2025-06-15"},
		{"negative calories", "Rice", 30, -200, 5, "2025-06-15"},
		{"negative sugars", "Rice", 30, 200, -5, "2025-06-15"},
		{"bad date", "Rice", 30, 200, 5, "June 15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddEntry(ctx, user.ID, tt.item, tt.carbs, tt.calories, tt.sugars, tt.date, "12:00", "")
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrorTypeValidation {
				t.Errorf("AddEntry(%q) = %v, want validation error", tt.name, err)
			}
		})
	}
}

func TestFoodEntryLifecycle(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 301)
	svc := NewFoodService(db)
	ctx := context.Background()

	entry, err := svc.AddEntry(ctx, user.ID, "  Brown rice  ", 45, 215, 0.7, "2025-06-15", "12:30", "lunch")
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if entry.Item != "Brown rice" {
		t.Errorf("item = %q, want trimmed name", entry.Item)
	}

	// Zero nutrients are valid; only the carb estimate is mandatory data.
	if _, err := svc.AddEntry(ctx, user.ID, "Black coffee", 0, 0, 0, "2025-06-15", "07:00", ""); err != nil {
		t.Fatalf("AddEntry with zero nutrients: %v", err)
	}

	if err := svc.UpdateEntry(ctx, user.ID, entry.ID, "Brown rice", 50, 240, 0.8, "2025-06-15", "12:30", ""); err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	entries, err := svc.ListEntries(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	if err := svc.DeleteEntry(ctx, user.ID, entry.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if err := svc.DeleteEntry(ctx, user.ID, entry.ID); err == nil {
		t.Error("second delete succeeded, want error")
	}
}
