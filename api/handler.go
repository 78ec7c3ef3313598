// Package api holds the HTTP handlers. Every external dependency (model
// client, wardrobe store, scrapers, user collection) is injected through
// the Handler struct, constructed once at startup.
package api

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/raushankrgupta/stylemate-backend/gemini"
	"github.com/raushankrgupta/stylemate-backend/scrapers"
	"github.com/raushankrgupta/stylemate-backend/store"
)

// Handler carries the dependencies shared by all endpoints.
type Handler struct {
	AI       gemini.Generator
	Wardrobe store.Wardrobe
	Orders   scrapers.OrderSource
	Shopping scrapers.ShoppingSource
	Users    *mongo.Collection
}

// NewHandler wires up the endpoint handlers.
func NewHandler(ai gemini.Generator, wardrobe store.Wardrobe, orders scrapers.OrderSource, shopping scrapers.ShoppingSource, users *mongo.Collection) *Handler {
	return &Handler{
		AI:       ai,
		Wardrobe: wardrobe,
		Orders:   orders,
		Shopping: shopping,
		Users:    users,
	}
}
