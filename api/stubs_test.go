package api

import (
	"context"
	"errors"

	"github.com/raushankrgupta/stylemate-backend/models"
	"github.com/raushankrgupta/stylemate-backend/scrapers"
	"github.com/raushankrgupta/stylemate-backend/store"
)

// stubGenerator scripts model replies per call kind.
type stubGenerator struct {
	textFn   func(prompt string) (string, error)
	visionFn func(prompt, mimeType string, imageData []byte) (string, error)
}

func (s *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	if s.textFn == nil {
		return "", errors.New("unexpected text call")
	}
	return s.textFn(prompt)
}

func (s *stubGenerator) GenerateVision(_ context.Context, prompt, mimeType string, imageData []byte) (string, error) {
	if s.visionFn == nil {
		return "", errors.New("unexpected vision call")
	}
	return s.visionFn(prompt, mimeType, imageData)
}

type stubOrders struct {
	result *scrapers.OrderResult
	err    error
}

func (s *stubOrders) ScrapeOrders(_ context.Context, _, _ string) (*scrapers.OrderResult, error) {
	return s.result, s.err
}

type stubShopping struct {
	listings []models.MarketplaceListing
	err      error
}

func (s *stubShopping) Search(_ string) ([]models.MarketplaceListing, error) {
	return s.listings, s.err
}

func newTestHandler(ai *stubGenerator) (*Handler, *store.MemoryWardrobe) {
	wardrobe := store.NewMemoryWardrobe()
	h := NewHandler(ai, wardrobe, &stubOrders{}, &stubShopping{}, nil)
	return h, wardrobe
}
