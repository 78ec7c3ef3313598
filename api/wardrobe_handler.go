package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/stylemate-backend/utils"
)

// FetchWardrobeHandler returns every wardrobe entry in insertion order. A
// fresh store yields an empty JSON array.
func (h *Handler) FetchWardrobeHandler(w http.ResponseWriter, r *http.Request) {
	var logBuilder strings.Builder
	defer utils.FlushLogMessage(&logBuilder)
	utils.AddToLogMessage(&logBuilder, "[Fetch Wardrobe API]")

	if r.Method != http.MethodGet {
		utils.RespondError(w, &logBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries, err := h.Wardrobe.FetchAll(r.Context())
	if err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Fetch error: %v", err))
		utils.RespondError(w, nil, "Failed to fetch analysis results.", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Returning %d wardrobe entries", len(entries)))
	utils.RespondJSON(w, http.StatusOK, entries)
}
