package models

// MarketplaceListing is one card scraped from a shopping search results
// page. Fields the card doesn't carry are omitted, not errors.
type MarketplaceListing struct {
	Title string `json:"title,omitempty"`
	Price string `json:"price,omitempty"`
	Link  string `json:"link,omitempty"`
	Store string `json:"store,omitempty"`
	Image string `json:"image,omitempty"`
}

// OrderDetail is the structured summary extracted from one order-card HTML
// block. ImageURL may be empty when the block has no usable image.
type OrderDetail struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	Error    string `json:"error,omitempty"`
}
