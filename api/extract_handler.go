package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/raushankrgupta/stylemate-backend/gemini"
	"github.com/raushankrgupta/stylemate-backend/models"
	"github.com/raushankrgupta/stylemate-backend/prompts"
	"github.com/raushankrgupta/stylemate-backend/utils"
)

// extractConcurrency bounds the fan-out when extracting details for a
// batch of scraped order blocks.
const extractConcurrency = 5

const orderImageFolder = "order_images"

// OrderDataDetailRequest is one raw order-card HTML block.
type OrderDataDetailRequest struct {
	HTMLContent string `json:"htmlContent"`
}

// OrderDataDetailsRequest is a batch of order-card HTML blocks.
type OrderDataDetailsRequest struct {
	HTMLBlocks []string `json:"htmlBlocks"`
}

// extractedDetail is the exact reply schema the extraction prompt demands.
// imageUrl is a pointer so a present-but-empty string is distinguishable
// from a missing key.
type extractedDetail struct {
	Title    string  `json:"title"`
	ImageURL *string `json:"imageUrl"`
}

// OrderDataDetailHandler extracts a title and image URL from one scraped
// order block.
func (h *Handler) OrderDataDetailHandler(w http.ResponseWriter, r *http.Request) {
	var logBuilder strings.Builder
	defer utils.FlushLogMessage(&logBuilder)
	utils.AddToLogMessage(&logBuilder, "[Order Data Detail API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req OrderDataDetailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HTMLContent == "" {
		utils.RespondError(w, &logBuilder, "Invalid request. 'htmlContent' must be a string.", http.StatusBadRequest)
		return
	}

	detail, err := h.extractDetail(r.Context(), req.HTMLContent)
	if err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Extraction failed: %v", err))
		utils.RespondError(w, nil, "Model response parsing failed.", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"title":    detail.Title,
		"imageUrl": detail.ImageURL,
	})
}

// OrderDataDetailsHandler extracts details for a batch of scraped order
// blocks, at most five concurrently, and mirrors extracted image URLs to
// S3. Per-block failures are reported inline; the batch itself succeeds.
func (h *Handler) OrderDataDetailsHandler(w http.ResponseWriter, r *http.Request) {
	var logBuilder strings.Builder
	defer utils.FlushLogMessage(&logBuilder)
	utils.AddToLogMessage(&logBuilder, "[Order Data Details API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req OrderDataDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.HTMLBlocks) == 0 {
		utils.RespondError(w, &logBuilder, "Invalid request. 'htmlBlocks' must be a non-empty array.", http.StatusBadRequest)
		return
	}

	details := make([]models.OrderDetail, len(req.HTMLBlocks))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, extractConcurrency)

	for i, block := range req.HTMLBlocks {
		wg.Add(1)
		go func(i int, block string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			detail, err := h.extractDetail(r.Context(), block)
			if err != nil {
				details[i] = models.OrderDetail{Error: "extraction failed"}
				return
			}

			imageURL := detail.ImageURL
			if imageURL != "" {
				if mirrored, err := utils.MirrorImageToS3(r.Context(), imageURL, orderImageFolder); err == nil {
					imageURL = mirrored
				}
				// On S3 failure the original scraped URL is kept.
			}

			details[i] = models.OrderDetail{Title: detail.Title, ImageURL: imageURL}
		}(i, block)
	}
	wg.Wait()

	utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Extracted details for %d blocks", len(details)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"details": details})
}

// extractDetail runs the extraction prompt over one HTML block and
// decodes the reply against the fixed {title, imageUrl} schema. The title
// must be non-empty and the imageUrl key must be present; an empty
// imageUrl string is valid and means no image was found.
func (h *Handler) extractDetail(ctx context.Context, htmlContent string) (models.OrderDetail, error) {
	prompt, err := prompts.Extraction(htmlContent)
	if err != nil {
		return models.OrderDetail{}, err
	}

	reply, err := h.AI.GenerateText(ctx, prompt)
	if err != nil {
		return models.OrderDetail{}, err
	}

	var detail extractedDetail
	if err := gemini.DecodeStrict(reply, &detail); err != nil {
		return models.OrderDetail{}, err
	}
	if detail.Title == "" || detail.ImageURL == nil {
		return models.OrderDetail{}, fmt.Errorf("%w: missing title or imageUrl in parsed output", gemini.ErrParse)
	}

	return models.OrderDetail{Title: detail.Title, ImageURL: *detail.ImageURL}, nil
}
