package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// analyzeRequest is the request body for POST /api/analyze.
type analyzeRequest struct {
	Description string `json:"description"`
	Type        string `json:"type"`
}

// nutritionEstimate is the structured estimate returned by the AI.
// For exercise descriptions only Name, Qty, Unit and Calories carry
// information; the macro fields are zero. Confidence is 1-5.
type nutritionEstimate struct {
	Name       string  `json:"name"`
	Qty        float64 `json:"qty"`
	Unit       string  `json:"unit"`
	Calories   int     `json:"calories"`
	ProteinG   float64 `json:"proteinG"`
	CarbsG     float64 `json:"carbsG"`
	FatG       float64 `json:"fatG"`
	Confidence int     `json:"confidence"`
}

/* ─── Prompt constants ───────────────────────────────────────────────── */

const foodPrompt = `You are a nutrition estimation assistant. Parse the food description and respond with a JSON object:
- "name" (string, cleaned up title case)
- "qty" (number)
- "unit" (one of: each, g, ml, serving)
- "calories" (integer kcal, total for the full quantity)
- "proteinG" (number, grams for the full quantity)
- "carbsG" (number, grams for the full quantity)
- "fatG" (number, grams for the full quantity)
- "confidence" (integer 1-5: 5=exact known nutrition data, 3=reasonable estimate, 1=very uncertain)

Always give your best estimate, approximating from similar foods when the item is unfamiliar. Only respond {"error": "unrecognized"} if the input is not food at all.
Respond with valid JSON only, no explanation.`

// exercisePromptTemplate embeds the user's body stats so calorie-burn
// estimates can use the right mass and age.
const exercisePromptTemplate = `You are a calorie-burn estimator. The user is:
- Gender: %s
- Age: %d years
- Weight: %.0f kg
- Height: %.0f cm

Parse the exercise description, estimate calories burned from MET values where known, and respond with a JSON object:
- "name" (string, cleaned up title case)
- "qty" (number, duration or distance)
- "unit" (one of: minutes, km, reps)
- "calories" (integer kcal burned)
- "proteinG" (always 0)
- "carbsG" (always 0)
- "fatG" (always 0)
- "confidence" (integer 1-5: 5=well-studied activity with known MET values, 3=reasonable estimate, 1=very uncertain)

Always give your best estimate, even for unusual activities. Only respond {"error": "unrecognized"} if the input is not an exercise at all.
Respond with valid JSON only, no explanation.`

// exercisePromptFallback is used when no profile has been saved.
const exercisePromptFallback = `You are a calorie-burn estimator. No body stats are available — assume an average adult.

Parse the exercise description, estimate calories burned from MET values where known, and respond with a JSON object:
- "name" (string, cleaned up title case)
- "qty" (number, duration or distance)
- "unit" (one of: minutes, km, reps)
- "calories" (integer kcal burned)
- "proteinG" (always 0)
- "carbsG" (always 0)
- "fatG" (always 0)
- "confidence" (integer 1-5: 5=well-studied activity with known MET values, 3=reasonable estimate, 1=very uncertain)

Always give your best estimate, even for unusual activities. Only respond {"error": "unrecognized"} if the input is not an exercise at all.
Respond with valid JSON only, no explanation.`

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

// openAIMessage is a single message in the OpenAI chat completions request.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIRequest is the request body for the OpenAI chat completions API.
type openAIRequest struct {
	Model          string                 `json:"model"`
	Messages       []openAIMessage        `json:"messages"`
	Temperature    float64                `json:"temperature"`
	ResponseFormat map[string]interface{} `json:"response_format"`
}

// callOpenAI sends a chat completions request and returns the raw content
// string from the first choice. Uses raw net/http to avoid pulling in the
// OpenAI SDK.
func callOpenAI(ctx context.Context, messages []openAIMessage, baseURL string) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	reqBody := openAIRequest{
		Model:       "gpt-4o-mini",
		Messages:    messages,
		Temperature: 0,
		ResponseFormat: map[string]interface{}{
			"type": "json_object",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	// Extract choices[0].message.content
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return result.Choices[0].Message.Content, nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// analyzeDescription handles POST /api/analyze. Accepts a free-text food or
// exercise description, asks OpenAI for a structured estimate, and returns it.
func (h *Handler) analyzeDescription(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Description) == "" {
		apiError(c, http.StatusBadRequest, "description is required")
		return
	}
	if req.Type == "" {
		req.Type = "food"
	}
	if !validEntryTypes[req.Type] {
		apiError(c, http.StatusBadRequest, "type must be one of: food, exercise")
		return
	}

	var systemPrompt string
	if req.Type == "exercise" {
		systemPrompt = h.buildExercisePrompt()
	} else {
		systemPrompt = foodPrompt
	}

	messages := []openAIMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: req.Description},
	}

	content, err := callOpenAI(c.Request.Context(), messages, h.openAIBaseURL)
	if err != nil {
		log.Printf("[analyze] OpenAI error: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	// Check if the AI declined the input
	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &errorResp); err != nil {
		log.Printf("[analyze] Failed to parse OpenAI response: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	if errorResp.Error == "unrecognized" {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	var estimate nutritionEstimate
	if err := json.Unmarshal([]byte(content), &estimate); err != nil {
		log.Printf("[analyze] Failed to parse estimate JSON: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	// A usable estimate needs at minimum a name and a calorie figure
	if estimate.Name == "" || estimate.Calories == 0 {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	c.JSON(http.StatusOK, estimate)
}

// buildExercisePrompt personalizes the exercise prompt from the saved
// profile, falling back to a generic adult when none is set.
func (h *Handler) buildExercisePrompt() string {
	p := h.currentProfile()
	if p == nil {
		return exercisePromptFallback
	}
	return fmt.Sprintf(exercisePromptTemplate, p.Gender, p.Age, p.CurrentWeight, p.Height)
}
