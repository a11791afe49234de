// Package ai talks to the Gemini generative-language API: diet-assistant
// chat, structured food-photo analysis, nutrition lookup, meal-plan
// generation and nutrient facts through the SDK, text-to-speech through the
// REST endpoint.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/glucolog/glucolog/internal/apperrors"
	"github.com/glucolog/glucolog/internal/retry"
)

const chatModel = "gemini-1.5-flash"

// Service wraps the Gemini client.
type Service struct {
	client *genai.Client
}

// NewService creates a Gemini-backed AI service.
func NewService(ctx context.Context, apiKey string) (*Service, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Service{client: client}, nil
}

// Message is one turn of the chat history.
type Message struct {
	FromUser bool
	Text     string
}

// Profile is the user context that primes the assistant.
type Profile struct {
	Name         string
	Age          int
	Restrictions string
	Goal         string
}

func (p Profile) systemPrompt() string {
	if p.Name == "" {
		return "You are a helpful and friendly nutrition expert. Generate responses with rich formatting using markdown-like syntax for bold text (**text**), lists (* list item), and horizontal rules (---) for a better UI."
	}
	return fmt.Sprintf("You are a nutrition expert. The user is named %s, is %d years old, has dietary restrictions of %s, and a health goal of %s. Respond to their queries based on this context.",
		p.Name, p.Age, p.Restrictions, p.Goal)
}

// Chat sends the conversation history plus the new message and returns the
// assistant's reply text.
func (s *Service) Chat(ctx context.Context, profile Profile, history []Message, message string) (string, error) {
	model := s.client.GenerativeModel(chatModel)
	cs := model.StartChat()

	cs.History = []*genai.Content{
		{Role: "user", Parts: []genai.Part{genai.Text(profile.systemPrompt())}},
	}
	for _, m := range history {
		role := "model"
		if m.FromUser {
			role = "user"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Text)},
		})
	}

	resp, err := retry.Do(ctx, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return cs.SendMessage(ctx, genai.Text(message))
	})
	if err != nil {
		return "", apperrors.NewExternalAPIError(err, "gemini")
	}
	return firstText(resp)
}

// ChatWithImage sends a prompt plus an inline image outside of any ongoing
// history, for "what's in this photo" style questions.
func (s *Service) ChatWithImage(ctx context.Context, prompt string, image []byte) (string, error) {
	model := s.client.GenerativeModel(chatModel)
	img := genai.ImageData("jpeg", image)

	resp, err := retry.Do(ctx, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return model.GenerateContent(ctx, img, genai.Text(prompt))
	})
	if err != nil {
		return "", apperrors.NewExternalAPIError(err, "gemini")
	}
	return firstText(resp)
}

// AnalyzedItem is one food item recognized in a photo.
type AnalyzedItem struct {
	Name           string  `json:"foodItem"`
	LocalName      string  `json:"localName"`
	CarbohydratesG float64 `json:"carbohydrates_g"`
	SugarsG        float64 `json:"sugars_g"`
	CaloriesKcal   float64 `json:"calories_kcal"`
	Suitability    string  `json:"diabeticSuitability"`
	Recommendation string  `json:"recommendation"`
}

// ImageAnalysisResult is the structured response of a food-photo analysis.
type ImageAnalysisResult struct {
	FoodItems      []AnalyzedItem `json:"foodItems"`
	OtherItems     []string       `json:"otherItems"`
	OverallSummary string         `json:"overallSummaryForDiabetics"`
}

const imageAnalysisPrompt = `Analyze the food item(s) in this image for a diabetic patient. Identify main food items and other recognizable elements. For each food item, provide its common name, local name (if applicable), estimated carbohydrates (g), sugars (g), and calories (kcal). Also, assess its suitability for a diabetic (e.g., "Good choice", "Moderate, with portion control", "Avoid or limit") and provide a specific recommendation (e.g., portion size, alternatives).

CRITICAL JSON FORMAT REQUIREMENTS:
- Your response MUST be a valid JSON object with no surrounding text
- The JSON must have these exact fields:
  {
    "foodItems": [{"foodItem": "...", "localName": "...", "carbohydrates_g": 0, "sugars_g": 0, "calories_kcal": 0, "diabeticSuitability": "...", "recommendation": "..."}],
    "otherItems": ["..."],
    "overallSummaryForDiabetics": "..."
  }`

// AnalyzeFoodImage runs the structured photo analysis. Transport failures
// are retried; an unusable response shape is terminal.
func (s *Service) AnalyzeFoodImage(ctx context.Context, image []byte) (*ImageAnalysisResult, error) {
	model := s.client.GenerativeModel(chatModel)
	img := genai.ImageData("jpeg", image)

	resp, err := retry.Do(ctx, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return model.GenerateContent(ctx, img, genai.Text(imageAnalysisPrompt))
	})
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, "gemini")
	}

	text, err := firstText(resp)
	if err != nil {
		return nil, err
	}

	jsonStr := ExtractJSON(text)
	if jsonStr == "" {
		return nil, apperrors.NewDataShapeError("no JSON object in analysis response")
	}
	var result ImageAnalysisResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, apperrors.NewDataShapeError("analysis response is not valid JSON").WithContext("parse_error", err.Error())
	}
	return &result, nil
}

// NutritionInfo is the per-100g breakdown of a named food. Values keep the
// model's string form ("52 kcal", "0.3g") rather than forcing numbers.
type NutritionInfo struct {
	FoodName      string `json:"foodName"`
	ServingSize   string `json:"servingSize"`
	Calories      string `json:"calories"`
	Protein       string `json:"protein"`
	Carbohydrates string `json:"carbohydrates"`
	Sugar         string `json:"sugar"`
	Fat           string `json:"fat"`
	Fiber         string `json:"fiber"`
}

// LookupNutrition fetches a structured nutritional breakdown for 100g of the
// named food.
func (s *Service) LookupNutrition(ctx context.Context, foodItem string) (*NutritionInfo, error) {
	model := s.client.GenerativeModel(chatModel)
	prompt := fmt.Sprintf(`Provide a detailed nutritional breakdown for 100g of "%s". Include values for Calories, Protein, Carbohydrates, Sugar, Fat, and Fiber.

Respond with a valid JSON object only, with these exact fields:
{"foodName": "...", "servingSize": "100g", "calories": "...", "protein": "...", "carbohydrates": "...", "sugar": "...", "fat": "...", "fiber": "..."}`, foodItem)

	resp, err := retry.Do(ctx, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return model.GenerateContent(ctx, genai.Text(prompt))
	})
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, "gemini")
	}
	text, err := firstText(resp)
	if err != nil {
		return nil, err
	}
	return parseNutrition(text)
}

func parseNutrition(text string) (*NutritionInfo, error) {
	jsonStr := ExtractJSON(text)
	if jsonStr == "" {
		return nil, apperrors.NewDataShapeError("no JSON object in nutrition response")
	}
	var info NutritionInfo
	if err := json.Unmarshal([]byte(jsonStr), &info); err != nil {
		return nil, apperrors.NewDataShapeError("nutrition response is not valid JSON").WithContext("parse_error", err.Error())
	}
	if info.FoodName == "" {
		return nil, apperrors.NewDataShapeError("nutrition response missing food name")
	}
	return &info, nil
}

// PlannedMeal is one dish within a meal-plan day.
type PlannedMeal struct {
	MealType     string   `json:"mealType"`
	DishName     string   `json:"dishName"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
}

// MealPlanDay groups the meals of one plan day.
type MealPlanDay struct {
	Day   string        `json:"day"`
	Meals []PlannedMeal `json:"meals"`
}

// GroceryCategory is one section of the generated grocery list.
type GroceryCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// MealPlan is a generated multi-day meal plan with its grocery list.
type MealPlan struct {
	Days    []MealPlanDay     `json:"mealPlan"`
	Grocery []GroceryCategory `json:"groceryList"`
}

const mealPlanFormat = `Provide the response in a JSON object with two main keys: "mealPlan" (an array of daily meal objects) and "groceryList" (an array of categorized grocery items), no surrounding text.

Example JSON structure:
{
  "mealPlan": [
    {"day": "Day 1", "meals": [{"mealType": "Breakfast", "dishName": "Oatmeal with Berries", "ingredients": ["1/2 cup rolled oats", "1 cup water"], "instructions": "Combine oats and water, cook until creamy."}]}
  ],
  "groceryList": [
    {"category": "Produce", "items": ["Mixed berries", "Spinach"]}
  ]
}`

// GenerateMealPlan builds a meal plan and categorized grocery list from a
// free-text request.
func (s *Service) GenerateMealPlan(ctx context.Context, request string) (*MealPlan, error) {
	model := s.client.GenerativeModel(chatModel)
	prompt := fmt.Sprintf(`Generate a detailed meal plan and a categorized grocery list based on the following request: "%s".

The meal plan should include:
- Day (e.g., Day 1)
- Meal Type (e.g., Breakfast, Lunch, Dinner, Snack)
- Dish Name
- Ingredients for each dish
- Simple instructions for each dish

The grocery list should be categorized (e.g., Produce, Dairy, Grains, Proteins, Pantry Staples).

%s`, request, mealPlanFormat)

	resp, err := retry.Do(ctx, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return model.GenerateContent(ctx, genai.Text(prompt))
	})
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, "gemini")
	}
	text, err := firstText(resp)
	if err != nil {
		return nil, err
	}
	return parseMealPlan(text)
}

func parseMealPlan(text string) (*MealPlan, error) {
	jsonStr := ExtractJSON(text)
	if jsonStr == "" {
		return nil, apperrors.NewDataShapeError("no JSON object in meal plan response")
	}
	var plan MealPlan
	if err := json.Unmarshal([]byte(jsonStr), &plan); err != nil {
		return nil, apperrors.NewDataShapeError("meal plan response is not valid JSON").WithContext("parse_error", err.Error())
	}
	if len(plan.Days) == 0 {
		return nil, apperrors.NewDataShapeError("meal plan response has no days")
	}
	return &plan, nil
}

// NutrientFact fetches one short structured fruit-nutrition fact.
func (s *Service) NutrientFact(ctx context.Context) (string, error) {
	model := s.client.GenerativeModel(chatModel)
	prompt := `Provide 1 interesting and concise fact about a specific fruit and its nutrients. Respond with a valid JSON object only: {"fact": "..."}`

	resp, err := retry.Do(ctx, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return model.GenerateContent(ctx, genai.Text(prompt))
	})
	if err != nil {
		return "", apperrors.NewExternalAPIError(err, "gemini")
	}

	text, err := firstText(resp)
	if err != nil {
		return "", err
	}
	var parsed struct {
		Fact string `json:"fact"`
	}
	jsonStr := ExtractJSON(text)
	if jsonStr == "" {
		return "", apperrors.NewDataShapeError("no JSON object in fact response")
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil || parsed.Fact == "" {
		return "", apperrors.NewDataShapeError("fact response is not valid JSON")
	}
	return parsed.Fact, nil
}

// firstText pulls the first text part out of a response, rejecting empty or
// unexpected shapes.
func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", apperrors.ErrEmptyResponse
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", apperrors.ErrEmptyResponse
	}
	text, ok := content.Parts[0].(genai.Text)
	if !ok {
		return "", apperrors.NewDataShapeError("first response part is not text")
	}
	return string(text), nil
}

// ExtractJSON pulls a JSON object out of a string, tolerating code fences or
// framing text around it.
func ExtractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
