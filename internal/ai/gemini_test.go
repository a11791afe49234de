package ai

import (
	"strings"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"code fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"framing text", `Here you go: {"a":1} enjoy`, `{"a":1}`},
		{"no object", "nothing here", ""},
		{"unbalanced", "only { an opening", ""},
		{"nested", `{"a":{"b":2}}`, `{"a":{"b":2}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.in); got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseNutrition(t *testing.T) {
	text := "```json\n{\"foodName\": \"Apple\", \"servingSize\": \"100g\", \"calories\": \"52 kcal\", \"protein\": \"0.3g\", \"carbohydrates\": \"14g\", \"sugar\": \"10g\", \"fat\": \"0.2g\", \"fiber\": \"2.4g\"}\n```"
	info, err := parseNutrition(text)
	if err != nil {
		t.Fatalf("parseNutrition: %v", err)
	}
	if info.FoodName != "Apple" || info.Carbohydrates != "14g" || info.Fiber != "2.4g" {
		t.Errorf("parsed nutrition = %+v", info)
	}
}

func TestParseNutritionBadShape(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no JSON", "sorry, I can't help with that"},
		{"missing food name", `{"calories": "52 kcal"}`},
		{"not JSON", "{broken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseNutrition(tt.in); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseMealPlan(t *testing.T) {
	text := `Here is your plan: {"mealPlan": [{"day": "Day 1", "meals": [{"mealType": "Breakfast", "dishName": "Oatmeal with Berries", "ingredients": ["1/2 cup rolled oats", "1/2 cup berries"], "instructions": "Cook the oats, stir in the berries."}]}], "groceryList": [{"category": "Produce", "items": ["Berries"]}, {"category": "Grains", "items": ["Rolled oats"]}]}`
	plan, err := parseMealPlan(text)
	if err != nil {
		t.Fatalf("parseMealPlan: %v", err)
	}
	if len(plan.Days) != 1 || len(plan.Days[0].Meals) != 1 {
		t.Fatalf("plan days = %+v", plan.Days)
	}
	meal := plan.Days[0].Meals[0]
	if meal.DishName != "Oatmeal with Berries" || len(meal.Ingredients) != 2 {
		t.Errorf("meal = %+v", meal)
	}
	if len(plan.Grocery) != 2 || plan.Grocery[0].Category != "Produce" {
		t.Errorf("grocery = %+v", plan.Grocery)
	}
}

func TestParseMealPlanBadShape(t *testing.T) {
	if _, err := parseMealPlan(`{"mealPlan": [], "groceryList": []}`); err == nil {
		t.Error("expected error for plan with no days")
	}
	if _, err := parseMealPlan("no plan here"); err == nil {
		t.Error("expected error for missing JSON")
	}
}

func TestProfileSystemPrompt(t *testing.T) {
	generic := Profile{}.systemPrompt()
	if generic == "" {
		t.Fatal("empty generic prompt")
	}

	primed := Profile{Name: "Asha", Age: 42, Restrictions: "vegetarian", Goal: "lower carbs"}.systemPrompt()
	for _, want := range []string{"Asha", "42", "vegetarian", "lower carbs"} {
		if !strings.Contains(primed, want) {
			t.Errorf("profile prompt missing %q: %s", want, primed)
		}
	}
}
