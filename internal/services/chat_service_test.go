package services

import (
	"context"
	"errors"
	"testing"

	"github.com/glucolog/glucolog/internal/apperrors"
	"github.com/glucolog/glucolog/internal/database"
)

func TestChatRejectsEmptyMessage(t *testing.T) {
	svc := NewChatService(nil)
	user := &database.User{FirstName: "Alice"}

	_, err := svc.SendMessage(context.Background(), user, "", nil)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrorTypeValidation {
		t.Errorf("SendMessage(\"\") = %v, want validation error", err)
	}
	if len(svc.History(user.ID)) != 0 {
		t.Error("rejected message was recorded in the session")
	}
}

func TestLookupNutritionRejectsEmptyFood(t *testing.T) {
	svc := NewChatService(nil)

	for _, food := range []string{"", "   "} {
		_, err := svc.LookupNutrition(context.Background(), food)
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrorTypeValidation {
			t.Errorf("LookupNutrition(%q) = %v, want validation error", food, err)
		}
	}
}

func TestMealPlanRejectsEmptyRequest(t *testing.T) {
	svc := NewChatService(nil)
	user := &database.User{FirstName: "Alice"}

	_, err := svc.MealPlan(context.Background(), user, "  ")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrorTypeValidation {
		t.Errorf("MealPlan(blank) = %v, want validation error", err)
	}
}

func TestChatHistoryAndReset(t *testing.T) {
	svc := NewChatService(nil)

	svc.append(7, ChatMessage{FromUser: true, Text: "hello"})
	svc.append(7, ChatMessage{FromUser: false, Text: "hi there"})
	svc.append(8, ChatMessage{FromUser: true, Text: "other user"})

	history := svc.History(7)
	if len(history) != 2 {
		t.Fatalf("got %d messages, want 2", len(history))
	}
	if !history[0].FromUser || history[1].FromUser {
		t.Error("turn order lost in history")
	}

	// History hands out a copy; mutating it must not touch the session.
	history[0].Text = "mutated"
	if svc.History(7)[0].Text != "hello" {
		t.Error("History exposed internal session state")
	}

	svc.Reset(7)
	if len(svc.History(7)) != 0 {
		t.Error("Reset left messages behind")
	}
	if len(svc.History(8)) != 1 {
		t.Error("Reset touched another user's session")
	}
}
