package scrapers

import (
	"context"
	"errors"

	"github.com/raushankrgupta/stylemate-backend/models"
)

// ErrTimeout marks a scrape step that exceeded its fixed deadline (login
// password screen, post-login navigation). Pagination waits are exempt:
// those downgrade to partial results instead.
var ErrTimeout = errors.New("scrape step timed out")

// OrderResult is the outcome of one order-history session: every captured
// order-card block, in page order, plus the number of pages visited.
type OrderResult struct {
	PageCount  int
	HTMLBlocks []string
}

// OrderSource scrapes a retailer's order history behind a login.
type OrderSource interface {
	ScrapeOrders(ctx context.Context, email, password string) (*OrderResult, error)
}

// ShoppingSource scrapes shopping search results for a keyword.
type ShoppingSource interface {
	Search(keyword string) ([]models.MarketplaceListing, error)
}
