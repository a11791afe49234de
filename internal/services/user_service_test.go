package services

import (
	"context"
	"testing"
)

func TestRegisterUserIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	first, err := svc.RegisterUser(ctx, 42, "alice", "Alice", "A")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	second, err := svc.RegisterUser(ctx, 42, "alice", "Alice", "A")
	if err != nil {
		t.Fatalf("RegisterUser again: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("re-registration created a new row: %d != %d", first.ID, second.ID)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, 43, "bob", "Bob", "B")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if err := svc.UpdateProfile(ctx, user.ID, 54, "vegetarian", "lower my average glucose"); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	got, err := svc.GetUserByTelegramID(ctx, 43)
	if err != nil {
		t.Fatalf("GetUserByTelegramID: %v", err)
	}
	if got.Age != 54 || got.DietaryRestrictions != "vegetarian" || got.HealthGoal != "lower my average glucose" {
		t.Errorf("profile = %d/%q/%q", got.Age, got.DietaryRestrictions, got.HealthGoal)
	}
}

func TestGetUserNotFound(t *testing.T) {
	db := newTestDB(t)
	if _, err := NewUserService(db).GetUserByTelegramID(context.Background(), 999); err == nil {
		t.Error("GetUserByTelegramID for unknown ID succeeded, want error")
	}
}
