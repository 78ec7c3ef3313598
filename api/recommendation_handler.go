package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/stylemate-backend/models"
	"github.com/raushankrgupta/stylemate-backend/prompts"
	"github.com/raushankrgupta/stylemate-backend/utils"
)

// OutfitRecommendationRequest pairs the user profile with the weather
// snapshot. Raw messages distinguish "absent" from "empty object".
type OutfitRecommendationRequest struct {
	UserData    json.RawMessage `json:"userData"`
	WeatherData json.RawMessage `json:"weatherData"`
}

// OutfitRecommendationHandler asks the stylist model for free-text outfit
// advice. The model's reply is returned verbatim; its shape is not
// validated.
func (h *Handler) OutfitRecommendationHandler(w http.ResponseWriter, r *http.Request) {
	var logBuilder strings.Builder
	defer utils.FlushLogMessage(&logBuilder)
	utils.AddToLogMessage(&logBuilder, "[Outfit Recommendation API]")

	switch r.Method {
	case http.MethodGet:
		h.recommendationHealthCheck(w, r, &logBuilder)
		return
	case http.MethodPost:
	default:
		utils.RespondError(w, &logBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req OutfitRecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.UserData) == 0 || len(req.WeatherData) == 0 {
		utils.RespondError(w, &logBuilder, "Missing input data (userData or weatherData)", http.StatusBadRequest)
		return
	}

	var user models.UserProfile
	var weather models.WeatherSnapshot
	if err := json.Unmarshal(req.UserData, &user); err != nil {
		utils.RespondError(w, &logBuilder, "Invalid userData", http.StatusBadRequest)
		return
	}
	if err := json.Unmarshal(req.WeatherData, &weather); err != nil {
		utils.RespondError(w, &logBuilder, "Invalid weatherData", http.StatusBadRequest)
		return
	}

	prompt, err := prompts.Recommendation(user, weather)
	if err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Prompt build failed: %v", err))
		utils.RespondError(w, nil, "Something went wrong processing your request", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logBuilder, "Sending request to Gemini API")
	recommendation, err := h.AI.GenerateText(r.Context(), prompt)
	if err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Gemini API error: %v", err))
		utils.RespondError(w, nil, "Something went wrong processing your request", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logBuilder, "Received recommendation from Gemini API")
	utils.RespondJSON(w, http.StatusOK, map[string]string{"recommendation": recommendation})
}

// recommendationHealthCheck verifies the model backend is reachable and
// credentialed by sending a trivial prompt and reporting the literal reply.
func (h *Handler) recommendationHealthCheck(w http.ResponseWriter, r *http.Request, logBuilder *strings.Builder) {
	utils.AddToLogMessage(logBuilder, "Health check request")

	message, err := h.AI.GenerateText(r.Context(), prompts.HealthCheck)
	if err != nil {
		utils.AddToLogMessage(logBuilder, fmt.Sprintf("Health check failed: %v", err))
		utils.RespondJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "Error",
			"error":  "Gemini API health check failed.",
		})
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": message,
	})
}
