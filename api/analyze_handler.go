package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/raushankrgupta/stylemate-backend/gemini"
	"github.com/raushankrgupta/stylemate-backend/models"
	"github.com/raushankrgupta/stylemate-backend/prompts"
	"github.com/raushankrgupta/stylemate-backend/utils"
)

const maxImageUploadSize = 10 << 20 // 10MB

const summaryFallback = "No summary available."

// AnalyzeImageHandler runs the clothing-image analysis pipeline: vision
// call for structured attributes, second call for a free-text summary,
// then an append to the wardrobe. A failed summary degrades to a fallback
// string; a failed attribute parse fails the request.
func (h *Handler) AnalyzeImageHandler(w http.ResponseWriter, r *http.Request) {
	var logBuilder strings.Builder
	defer utils.FlushLogMessage(&logBuilder)
	utils.AddToLogMessage(&logBuilder, "[Analyze Image API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxImageUploadSize); err != nil {
		utils.RespondError(w, &logBuilder, "No image uploaded.", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondError(w, &logBuilder, "No image uploaded.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(w, &logBuilder, "Failed to read image.", http.StatusBadRequest)
		return
	}
	if len(imageData) == 0 {
		utils.RespondError(w, &logBuilder, "No image uploaded.", http.StatusBadRequest)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/png"
	}

	utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Analyzing image %s (%d bytes)", header.Filename, len(imageData)))

	rawAnalysis, err := h.AI.GenerateVision(r.Context(), prompts.ImageAnalysis, mimeType, imageData)
	if err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Vision call failed: %v", err))
		utils.RespondError(w, nil, "Failed to analyze image.", http.StatusInternalServerError)
		return
	}

	var analysis map[string]interface{}
	if err := gemini.Decode(rawAnalysis, &analysis); err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Analysis parse failed: %v", err))
		utils.RespondError(w, nil, "Failed to parse Gemini response.", http.StatusInternalServerError)
		return
	}

	summary := h.summarizeAnalysis(r, &logBuilder, analysis)

	entry := models.WardrobeEntry{
		ID:          uuid.NewString(),
		Analysis:    analysis,
		Summary:     summary,
		ImageBase64: base64.StdEncoding.EncodeToString(imageData),
		CreatedAt:   time.Now(),
	}
	if userID, err := GetUserIDFromContext(r.Context()); err == nil {
		entry.UserID = userID
	}

	if err := h.Wardrobe.Append(r.Context(), entry); err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Failed to save wardrobe entry: %v", err))
		utils.RespondError(w, nil, "Failed to analyze image.", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Saved wardrobe entry %s", entry.ID))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"analysis": analysis,
		"summary":  summary,
		"id":       entry.ID,
	})
}

// summarizeAnalysis makes the second model call for a free-text outfit
// summary. Failures here don't fail the analysis; they degrade to a
// fallback string.
func (h *Handler) summarizeAnalysis(r *http.Request, logBuilder *strings.Builder, analysis map[string]interface{}) string {
	prompt, err := prompts.OutfitSummary(analysis)
	if err != nil {
		utils.AddToLogMessage(logBuilder, fmt.Sprintf("Summary prompt build failed: %v", err))
		return summaryFallback
	}

	summary, err := h.AI.GenerateText(r.Context(), prompt)
	if err != nil || strings.TrimSpace(summary) == "" {
		if err == nil {
			err = errors.New("empty summary")
		}
		utils.AddToLogMessage(logBuilder, fmt.Sprintf("Summary call failed: %v", err))
		return summaryFallback
	}
	return summary
}
