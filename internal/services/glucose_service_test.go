package services

import (
	"context"
	"errors"
	"testing"

	"github.com/glucolog/glucolog/internal/apperrors"
)

func TestAddReadingValidation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 200)
	svc := NewGlucoseService(db)
	ctx := context.Background()

	tests := []struct {
		name  string
		value float64
		date  string
	}{
		{"zero value", 0, "2025-06-15"},
		{"negative value", -5, "2025-06-15"},
		{"bad date", 110, "15.06.2025"},
		{"empty date", 110, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddReading(ctx, user.ID, tt.value, tt.date, "08:00", "")
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrorTypeValidation {
				t.Errorf("AddReading(%v, %q) = %v, want validation error", tt.value, tt.date, err)
			}
		})
	}
}

func TestReadingLifecycle(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 201)
	svc := NewGlucoseService(db)
	ctx := context.Background()

	first, err := svc.AddReading(ctx, user.ID, 110, "2025-06-14", "08:00", "fasting")
	if err != nil {
		t.Fatalf("AddReading: %v", err)
	}
	if _, err := svc.AddReading(ctx, user.ID, 145, "2025-06-15", "13:00", "after lunch"); err != nil {
		t.Fatalf("AddReading: %v", err)
	}

	readings, err := svc.ListReadings(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListReadings: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("got %d readings, want 2", len(readings))
	}
	// Newest first.
	if readings[0].Value != 145 || readings[1].Value != 110 {
		t.Errorf("order = %v, %v; want 145, 110", readings[0].Value, readings[1].Value)
	}

	if err := svc.UpdateReading(ctx, user.ID, first.ID, 115, "2025-06-14", "08:30", ""); err != nil {
		t.Fatalf("UpdateReading: %v", err)
	}
	readings, _ = svc.ListReadings(ctx, user.ID)
	if readings[1].Value != 115 || readings[1].Time != "08:30" {
		t.Errorf("after update: value=%v time=%q", readings[1].Value, readings[1].Time)
	}
	// Update replaces fields in full, so the old note is gone.
	if readings[1].Notes != "" {
		t.Errorf("notes = %q, want cleared", readings[1].Notes)
	}

	if err := svc.DeleteReading(ctx, user.ID, first.ID); err != nil {
		t.Fatalf("DeleteReading: %v", err)
	}
	readings, _ = svc.ListReadings(ctx, user.ID)
	if len(readings) != 1 {
		t.Errorf("got %d readings after delete, want 1", len(readings))
	}
}

func TestReadingNotFound(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 202)
	svc := NewGlucoseService(db)
	ctx := context.Background()

	if err := svc.UpdateReading(ctx, user.ID, 9999, 110, "2025-06-15", "08:00", ""); err == nil {
		t.Error("UpdateReading on missing ID succeeded, want error")
	}
	if err := svc.DeleteReading(ctx, user.ID, 9999); err == nil {
		t.Error("DeleteReading on missing ID succeeded, want error")
	}
}

func TestReadingsAreScopedToUser(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, 203)
	bob := seedUser(t, db, 204)
	svc := NewGlucoseService(db)
	ctx := context.Background()

	reading, err := svc.AddReading(ctx, alice.ID, 120, "2025-06-15", "09:00", "")
	if err != nil {
		t.Fatalf("AddReading: %v", err)
	}

	got, err := svc.ListReadings(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListReadings: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("other user sees %d readings, want 0", len(got))
	}
	if err := svc.DeleteReading(ctx, bob.ID, reading.ID); err == nil {
		t.Error("cross-user delete succeeded, want error")
	}
}
