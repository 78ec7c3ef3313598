package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/stylemate-backend/gemini"
	"github.com/raushankrgupta/stylemate-backend/prompts"
	"github.com/raushankrgupta/stylemate-backend/utils"
)

// MatchRecommendationRequest carries the recommendation text and the
// wardrobe entries to match it against.
type MatchRecommendationRequest struct {
	Recommendation string          `json:"recommendation"`
	DataArray      json.RawMessage `json:"dataArray"`
}

// MatchRecommendationHandler asks the model which wardrobe entries match
// the recommendation. A reply that doesn't parse as a JSON array degrades
// to an empty match list with a 200; callers can't tell that apart from a
// genuine "no matches", which mirrors how the client treats both.
func (h *Handler) MatchRecommendationHandler(w http.ResponseWriter, r *http.Request) {
	var logBuilder strings.Builder
	defer utils.FlushLogMessage(&logBuilder)
	utils.AddToLogMessage(&logBuilder, "[Match Recommendation API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req MatchRecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logBuilder, "Invalid request body. Expecting 'recommendation' and 'dataArray'.", http.StatusBadRequest)
		return
	}

	if req.Recommendation == "" || !isJSONArray(req.DataArray) {
		utils.RespondError(w, &logBuilder, "Invalid request body. Expecting 'recommendation' and 'dataArray'.", http.StatusBadRequest)
		return
	}

	prompt, err := prompts.Match(req.Recommendation, req.DataArray)
	if err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Prompt build failed: %v", err))
		utils.RespondError(w, nil, "Server error while matching recommendation.", http.StatusInternalServerError)
		return
	}

	reply, err := h.AI.GenerateText(r.Context(), prompt)
	if err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Gemini API error: %v", err))
		utils.RespondError(w, nil, "Server error while matching recommendation.", http.StatusInternalServerError)
		return
	}

	matchedIDs := []string{}
	if err := gemini.Decode(reply, &matchedIDs); err != nil {
		// Deliberate downgrade: a malformed reply is reported as zero
		// matches, not an error.
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("matcher: model reply not a JSON array: %v", err))
		matchedIDs = []string{}
	}

	utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Matched %d entries", len(matchedIDs)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"matchedIds": matchedIDs})
}

// isJSONArray reports whether raw is a JSON array value.
func isJSONArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}
