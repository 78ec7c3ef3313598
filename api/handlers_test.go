package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raushankrgupta/stylemate-backend/models"
	"github.com/raushankrgupta/stylemate-backend/scrapers"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAmazonSyncHandler(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		h, _ := newTestHandler(&stubGenerator{})
		req := httptest.NewRequest(http.MethodPost, "/api/amazon-sync", nil)
		rec := httptest.NewRecorder()

		h.AmazonSyncHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Email and password are required", decodeBody(t, rec)["error"])
	})

	t.Run("missing password", func(t *testing.T) {
		h, _ := newTestHandler(&stubGenerator{})
		req := httptest.NewRequest(http.MethodPost, "/api/amazon-sync", strings.NewReader(`{"email":"a@b.com"}`))
		rec := httptest.NewRecorder()

		h.AmazonSyncHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Email and password are required", decodeBody(t, rec)["error"])
	})

	t.Run("timeout", func(t *testing.T) {
		h, _ := newTestHandler(&stubGenerator{})
		h.Orders = &stubOrders{err: fmt.Errorf("password screen: %w", scrapers.ErrTimeout)}
		req := httptest.NewRequest(http.MethodPost, "/api/amazon-sync", strings.NewReader(`{"email":"a@b.com","password":"pw"}`))
		rec := httptest.NewRecorder()

		h.AmazonSyncHandler(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Order sync timed out", decodeBody(t, rec)["error"])
	})

	t.Run("scrape failure", func(t *testing.T) {
		h, _ := newTestHandler(&stubGenerator{})
		h.Orders = &stubOrders{err: errors.New("browser crashed")}
		req := httptest.NewRequest(http.MethodPost, "/api/amazon-sync", strings.NewReader(`{"email":"a@b.com","password":"pw"}`))
		rec := httptest.NewRecorder()

		h.AmazonSyncHandler(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Something went wrong", decodeBody(t, rec)["error"])
	})

	t.Run("success", func(t *testing.T) {
		h, _ := newTestHandler(&stubGenerator{})
		h.Orders = &stubOrders{result: &scrapers.OrderResult{
			PageCount:  2,
			HTMLBlocks: []string{"<div>order 1</div>", "<div>order 2</div>", "<div>order 3</div>"},
		}}
		req := httptest.NewRequest(http.MethodPost, "/api/amazon-sync", strings.NewReader(`{"email":"a@b.com","password":"pw"}`))
		rec := httptest.NewRecorder()

		h.AmazonSyncHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(2), body["pageCount"])
		assert.Equal(t, float64(3), body["count"])
		assert.Len(t, body["htmlBlocks"], 3)
	})
}

func TestShoppingScrapHandler(t *testing.T) {
	t.Run("missing keyword", func(t *testing.T) {
		h, _ := newTestHandler(&stubGenerator{})
		req := httptest.NewRequest(http.MethodGet, "/api/shopping-scrap", nil)
		rec := httptest.NewRecorder()

		h.ShoppingScrapHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Keyword is required", decodeBody(t, rec)["error"])
	})

	t.Run("scrape failure", func(t *testing.T) {
		h, _ := newTestHandler(&stubGenerator{})
		h.Shopping = &stubShopping{err: errors.New("blocked")}
		req := httptest.NewRequest(http.MethodGet, "/api/shopping-scrap?keyword=blue+shirt", nil)
		rec := httptest.NewRecorder()

		h.ShoppingScrapHandler(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to scrape data", decodeBody(t, rec)["error"])
	})

	t.Run("success", func(t *testing.T) {
		h, _ := newTestHandler(&stubGenerator{})
		h.Shopping = &stubShopping{listings: []models.MarketplaceListing{
			{Title: "Blue Shirt", Price: "₹799", Store: "Myntra"},
		}}
		req := httptest.NewRequest(http.MethodGet, "/api/shopping-scrap?keyword=blue+shirt", nil)
		rec := httptest.NewRecorder()

		h.ShoppingScrapHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "blue shirt", body["keyword"])
		assert.Len(t, body["results"], 1)
	})
}

func TestOutfitRecommendationHandler(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		h, _ := newTestHandler(&stubGenerator{})
		req := httptest.NewRequest(http.MethodPost, "/api/outfit-recommendation", strings.NewReader(`{"userData":{"gender":"male"}}`))
		rec := httptest.NewRecorder()

		h.OutfitRecommendationHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing input data (userData or weatherData)", decodeBody(t, rec)["error"])
	})

	t.Run("success", func(t *testing.T) {
		ai := &stubGenerator{textFn: func(prompt string) (string, error) {
			assert.Contains(t, prompt, "**Gender:** male")
			assert.Contains(t, prompt, "**Location:** Delhi, India")
			return "Wear a linen shirt with chinos.", nil
		}}
		h, _ := newTestHandler(ai)
		body := `{"userData":{"gender":"male"},"weatherData":{"city":"Delhi","country":"India"}}`
		req := httptest.NewRequest(http.MethodPost, "/api/outfit-recommendation", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.OutfitRecommendationHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Wear a linen shirt with chinos.", decodeBody(t, rec)["recommendation"])
	})

	t.Run("model failure", func(t *testing.T) {
		ai := &stubGenerator{textFn: func(string) (string, error) {
			return "", errors.New("quota exhausted")
		}}
		h, _ := newTestHandler(ai)
		body := `{"userData":{},"weatherData":{}}`
		req := httptest.NewRequest(http.MethodPost, "/api/outfit-recommendation", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.OutfitRecommendationHandler(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Something went wrong processing your request", decodeBody(t, rec)["error"])
	})

	t.Run("health check ok", func(t *testing.T) {
		ai := &stubGenerator{textFn: func(prompt string) (string, error) {
			assert.Equal(t, "Respond with only the word: OK", prompt)
			return "OK", nil
		}}
		h, _ := newTestHandler(ai)
		req := httptest.NewRequest(http.MethodGet, "/api/outfit-recommendation", nil)
		rec := httptest.NewRecorder()

		h.OutfitRecommendationHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "OK", body["status"])
		assert.Equal(t, "OK", body["message"])
	})

	t.Run("health check failure", func(t *testing.T) {
		ai := &stubGenerator{textFn: func(string) (string, error) {
			return "", errors.New("invalid api key")
		}}
		h, _ := newTestHandler(ai)
		req := httptest.NewRequest(http.MethodGet, "/api/outfit-recommendation", nil)
		rec := httptest.NewRecorder()

		h.OutfitRecommendationHandler(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Error", body["status"])
		assert.Equal(t, "Gemini API health check failed.", body["error"])
	})
}

func TestMatchRecommendationHandler(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		h, _ := newTestHandler(&stubGenerator{})
		req := httptest.NewRequest(http.MethodPost, "/api/match-recommendation", strings.NewReader(`{"recommendation":"wear blue"}`))
		rec := httptest.NewRecorder()

		h.MatchRecommendationHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body. Expecting 'recommendation' and 'dataArray'.", decodeBody(t, rec)["error"])
	})

	t.Run("dataArray not an array", func(t *testing.T) {
		h, _ := newTestHandler(&stubGenerator{})
		req := httptest.NewRequest(http.MethodPost, "/api/match-recommendation", strings.NewReader(`{"recommendation":"wear blue","dataArray":{"id":"a"}}`))
		rec := httptest.NewRecorder()

		h.MatchRecommendationHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("matched ids", func(t *testing.T) {
		ai := &stubGenerator{textFn: func(string) (string, error) {
			return "```json\n[\"id-1\",\"id-3\"]\n```", nil
		}}
		h, _ := newTestHandler(ai)
		body := `{"recommendation":"wear blue","dataArray":[{"id":"id-1"},{"id":"id-2"},{"id":"id-3"}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/match-recommendation", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.MatchRecommendationHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []interface{}{"id-1", "id-3"}, decodeBody(t, rec)["matchedIds"])
	})

	t.Run("malformed reply degrades to empty list", func(t *testing.T) {
		ai := &stubGenerator{textFn: func(string) (string, error) {
			return "The matching outfits are id-1 and id-3.", nil
		}}
		h, _ := newTestHandler(ai)
		body := `{"recommendation":"wear blue","dataArray":[{"id":"id-1"}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/match-recommendation", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.MatchRecommendationHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []interface{}{}, decodeBody(t, rec)["matchedIds"])
	})
}

func TestOrderDataDetailHandler(t *testing.T) {
	t.Run("missing htmlContent", func(t *testing.T) {
		h, _ := newTestHandler(&stubGenerator{})
		req := httptest.NewRequest(http.MethodPost, "/api/order-data-detail", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		h.OrderDataDetailHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request. 'htmlContent' must be a string.", decodeBody(t, rec)["error"])
	})

	t.Run("fenced reply", func(t *testing.T) {
		ai := &stubGenerator{textFn: func(string) (string, error) {
			return "```json\n{\"title\":\"Blue Cotton Shirt\",\"imageUrl\":\"https://img/a.jpg\"}\n```", nil
		}}
		h, _ := newTestHandler(ai)
		req := httptest.NewRequest(http.MethodPost, "/api/order-data-detail", strings.NewReader(`{"htmlContent":"<div>order</div>"}`))
		rec := httptest.NewRecorder()

		h.OrderDataDetailHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Blue Cotton Shirt", body["title"])
		assert.Equal(t, "https://img/a.jpg", body["imageUrl"])
	})

	t.Run("empty imageUrl accepted", func(t *testing.T) {
		ai := &stubGenerator{textFn: func(string) (string, error) {
			return `{"title":"Blue Cotton Shirt","imageUrl":""}`, nil
		}}
		h, _ := newTestHandler(ai)
		req := httptest.NewRequest(http.MethodPost, "/api/order-data-detail", strings.NewReader(`{"htmlContent":"<div>order</div>"}`))
		rec := httptest.NewRecorder()

		h.OrderDataDetailHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Blue Cotton Shirt", body["title"])
		assert.Equal(t, "", body["imageUrl"])
	})

	t.Run("missing imageUrl key rejected", func(t *testing.T) {
		ai := &stubGenerator{textFn: func(string) (string, error) {
			return `{"title":"Blue Cotton Shirt"}`, nil
		}}
		h, _ := newTestHandler(ai)
		req := httptest.NewRequest(http.MethodPost, "/api/order-data-detail", strings.NewReader(`{"htmlContent":"<div>order</div>"}`))
		rec := httptest.NewRecorder()

		h.OrderDataDetailHandler(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Model response parsing failed.", decodeBody(t, rec)["error"])
	})

	t.Run("prose reply rejected", func(t *testing.T) {
		ai := &stubGenerator{textFn: func(string) (string, error) {
			return "The title is Blue Cotton Shirt.", nil
		}}
		h, _ := newTestHandler(ai)
		req := httptest.NewRequest(http.MethodPost, "/api/order-data-detail", strings.NewReader(`{"htmlContent":"<div>order</div>"}`))
		rec := httptest.NewRecorder()

		h.OrderDataDetailHandler(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Model response parsing failed.", decodeBody(t, rec)["error"])
	})
}

func TestOrderDataDetailsHandler(t *testing.T) {
	t.Run("missing blocks", func(t *testing.T) {
		h, _ := newTestHandler(&stubGenerator{})
		req := httptest.NewRequest(http.MethodPost, "/api/order-data-details", strings.NewReader(`{"htmlBlocks":[]}`))
		rec := httptest.NewRecorder()

		h.OrderDataDetailsHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("per-block failures reported inline", func(t *testing.T) {
		ai := &stubGenerator{textFn: func(prompt string) (string, error) {
			if strings.Contains(prompt, "good-block") {
				return `{"title":"Blue Cotton Shirt","imageUrl":""}`, nil
			}
			return "not json", nil
		}}
		h, _ := newTestHandler(ai)
		body := `{"htmlBlocks":["<div>good-block</div>","<div>bad-block</div>"]}`
		req := httptest.NewRequest(http.MethodPost, "/api/order-data-details", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.OrderDataDetailsHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		details, ok := decodeBody(t, rec)["details"].([]interface{})
		require.True(t, ok)
		require.Len(t, details, 2)

		first := details[0].(map[string]interface{})
		assert.Equal(t, "Blue Cotton Shirt", first["title"])
		assert.NotContains(t, first, "error")

		second := details[1].(map[string]interface{})
		assert.Equal(t, "extraction failed", second["error"])
	})
}

func TestSearchKeywordHandler(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		h, _ := newTestHandler(&stubGenerator{})
		req := httptest.NewRequest(http.MethodPost, "/api/search-marketplace-keyword", strings.NewReader(`{"gender":"male"}`))
		rec := httptest.NewRecorder()

		h.SearchKeywordHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing gender or preferences.", decodeBody(t, rec)["error"])
	})

	t.Run("reply trimmed", func(t *testing.T) {
		ai := &stubGenerator{textFn: func(string) (string, error) {
			return "\nmen slim fit shirt, cotton casual shirt\n", nil
		}}
		h, _ := newTestHandler(ai)
		body := `{"gender":"male","preferences":"casual cotton"}`
		req := httptest.NewRequest(http.MethodPost, "/api/search-marketplace-keyword", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.SearchKeywordHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "men slim fit shirt, cotton casual shirt", decodeBody(t, rec)["keywords"])
	})
}

func newImageRequest(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, "outfit.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze-image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestAnalyzeImageHandler(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		h, _ := newTestHandler(&stubGenerator{})
		req := newImageRequest(t, "not-image", []byte("png-bytes"))
		rec := httptest.NewRecorder()

		h.AnalyzeImageHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No image uploaded.", decodeBody(t, rec)["error"])
	})

	t.Run("zero byte file", func(t *testing.T) {
		h, _ := newTestHandler(&stubGenerator{})
		req := newImageRequest(t, "image", nil)
		rec := httptest.NewRecorder()

		h.AnalyzeImageHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No image uploaded.", decodeBody(t, rec)["error"])
	})

	t.Run("analysis saved to wardrobe", func(t *testing.T) {
		ai := &stubGenerator{
			visionFn: func(_, _ string, imageData []byte) (string, error) {
				assert.Equal(t, []byte("png-bytes"), imageData)
				return "```json\n{\"clothing_type\":\"t-shirt\",\"color\":\"blue\"}\n```", nil
			},
			textFn: func(string) (string, error) {
				return "A casual blue t-shirt look.", nil
			},
		}
		h, wardrobe := newTestHandler(ai)
		rec := httptest.NewRecorder()

		h.AnalyzeImageHandler(rec, newImageRequest(t, "image", []byte("png-bytes")))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "A casual blue t-shirt look.", body["summary"])
		assert.NotEmpty(t, body["id"])

		entries, err := wardrobe.FetchAll(context.Background())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, body["id"], entries[0].ID)
		assert.Equal(t, "t-shirt", entries[0].Analysis["clothing_type"])
		assert.NotEmpty(t, entries[0].ImageBase64)
	})

	t.Run("summary failure degrades to fallback", func(t *testing.T) {
		ai := &stubGenerator{
			visionFn: func(_, _ string, _ []byte) (string, error) {
				return `{"clothing_type":"jacket"}`, nil
			},
			textFn: func(string) (string, error) {
				return "", errors.New("quota exhausted")
			},
		}
		h, _ := newTestHandler(ai)
		rec := httptest.NewRecorder()

		h.AnalyzeImageHandler(rec, newImageRequest(t, "image", []byte("png-bytes")))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "No summary available.", decodeBody(t, rec)["summary"])
	})

	t.Run("unparseable analysis fails", func(t *testing.T) {
		ai := &stubGenerator{
			visionFn: func(_, _ string, _ []byte) (string, error) {
				return "I see a blue t-shirt.", nil
			},
		}
		h, wardrobe := newTestHandler(ai)
		rec := httptest.NewRecorder()

		h.AnalyzeImageHandler(rec, newImageRequest(t, "image", []byte("png-bytes")))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to parse Gemini response.", decodeBody(t, rec)["error"])

		entries, err := wardrobe.FetchAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestFetchWardrobeHandler(t *testing.T) {
	t.Run("fresh store yields empty array", func(t *testing.T) {
		h, _ := newTestHandler(&stubGenerator{})
		req := httptest.NewRequest(http.MethodGet, "/api/fetch-user-wardrobe", nil)
		rec := httptest.NewRecorder()

		h.FetchWardrobeHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("entries in insertion order", func(t *testing.T) {
		h, wardrobe := newTestHandler(&stubGenerator{})
		require.NoError(t, wardrobe.Append(context.Background(), models.WardrobeEntry{ID: "first"}))
		require.NoError(t, wardrobe.Append(context.Background(), models.WardrobeEntry{ID: "second"}))

		req := httptest.NewRequest(http.MethodGet, "/api/fetch-user-wardrobe", nil)
		rec := httptest.NewRecorder()

		h.FetchWardrobeHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var entries []models.WardrobeEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
		require.Len(t, entries, 2)
		assert.Equal(t, "first", entries[0].ID)
		assert.Equal(t, "second", entries[1].ID)
	})
}
