package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/stylemate-backend/scrapers"
	"github.com/raushankrgupta/stylemate-backend/utils"
)

// AmazonSyncRequest is the order-sync credential payload.
type AmazonSyncRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AmazonSyncResponse returns every scraped order-card block in page order.
type AmazonSyncResponse struct {
	PageCount  int      `json:"pageCount"`
	Count      int      `json:"count"`
	HTMLBlocks []string `json:"htmlBlocks"`
}

// AmazonSyncHandler scrapes the user's retailer order history.
func (h *Handler) AmazonSyncHandler(w http.ResponseWriter, r *http.Request) {
	var logBuilder strings.Builder
	defer utils.FlushLogMessage(&logBuilder)
	utils.AddToLogMessage(&logBuilder, "[Amazon Sync API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AmazonSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// An empty or malformed body leaves the credentials blank and is
		// reported as the missing-credentials case below.
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Invalid request body: %v", err))
	}

	if req.Email == "" || req.Password == "" {
		utils.RespondError(w, &logBuilder, "Email and password are required", http.StatusBadRequest)
		return
	}

	result, err := h.Orders.ScrapeOrders(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Scraping error: %v", err))
		if errors.Is(err, scrapers.ErrTimeout) {
			utils.RespondError(w, nil, "Order sync timed out", http.StatusInternalServerError)
		} else {
			utils.RespondError(w, nil, "Something went wrong", http.StatusInternalServerError)
		}
		return
	}

	utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Scraped %d order blocks across %d pages", len(result.HTMLBlocks), result.PageCount))
	utils.RespondJSON(w, http.StatusOK, AmazonSyncResponse{
		PageCount:  result.PageCount,
		Count:      len(result.HTMLBlocks),
		HTMLBlocks: result.HTMLBlocks,
	})
}

// ShoppingScrapHandler scrapes shopping search results for a keyword.
func (h *Handler) ShoppingScrapHandler(w http.ResponseWriter, r *http.Request) {
	var logBuilder strings.Builder
	defer utils.FlushLogMessage(&logBuilder)
	utils.AddToLogMessage(&logBuilder, "[Shopping Scrap API]")

	if r.Method != http.MethodGet {
		utils.RespondError(w, &logBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		utils.RespondError(w, &logBuilder, "Keyword is required", http.StatusBadRequest)
		return
	}

	utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Searching listings for keyword: %s", keyword))

	results, err := h.Shopping.Search(keyword)
	if err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Scraping failed: %v", err))
		utils.RespondError(w, nil, "Failed to scrape data", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"keyword": keyword,
		"results": results,
	})
}
