package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/stylemate-backend/prompts"
	"github.com/raushankrgupta/stylemate-backend/utils"
)

// SearchKeywordRequest describes the user for keyword generation.
type SearchKeywordRequest struct {
	Gender      string `json:"gender"`
	Preferences string `json:"preferences"`
}

// SearchKeywordHandler asks the model for one line of comma-separated
// marketplace search keywords. The trimmed reply is returned verbatim; no
// validation that it actually is comma-separated.
func (h *Handler) SearchKeywordHandler(w http.ResponseWriter, r *http.Request) {
	var logBuilder strings.Builder
	defer utils.FlushLogMessage(&logBuilder)
	utils.AddToLogMessage(&logBuilder, "[Search Keyword API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SearchKeywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Gender == "" || req.Preferences == "" {
		utils.RespondError(w, &logBuilder, "Missing gender or preferences.", http.StatusBadRequest)
		return
	}

	prompt, err := prompts.Keywords(req.Gender, req.Preferences)
	if err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Prompt build failed: %v", err))
		utils.RespondError(w, nil, "Failed to generate keyword.", http.StatusInternalServerError)
		return
	}

	reply, err := h.AI.GenerateText(r.Context(), prompt)
	if err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Gemini API error: %v", err))
		utils.RespondError(w, nil, "Failed to generate keyword.", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"keywords": strings.TrimSpace(reply)})
}
