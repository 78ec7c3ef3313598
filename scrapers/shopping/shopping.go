// Package shopping scrapes a shopping-vertical search results page for a
// keyword and extracts the listing cards.
package shopping

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/raushankrgupta/stylemate-backend/models"
	"github.com/raushankrgupta/stylemate-backend/scrapers/base"
)

const searchURLFormat = "https://www.google.com/search?&q=%s&tbm=shop"

// Scraper implements scrapers.ShoppingSource over the shared BaseScraper
// fetch strategies.
type Scraper struct {
	base *base.BaseScraper
	log  *logrus.Logger
}

// NewScraper creates a shopping-search scraper.
func NewScraper(log *logrus.Logger) *Scraper {
	return &Scraper{base: base.NewBaseScraper(log), log: log}
}

// Search loads the results page for the keyword and returns the parsed
// listing cards. A page with no result cards yields an empty slice, not an
// error.
func (s *Scraper) Search(keyword string) ([]models.MarketplaceListing, error) {
	searchURL := fmt.Sprintf(searchURLFormat, url.QueryEscape(keyword))

	doc, err := s.base.FetchDocument(searchURL, base.IsValidDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping results for %q: %w", keyword, err)
	}

	listings := ParseListings(doc)
	s.log.Infof("scraped %d shopping listings for %q", len(listings), keyword)
	return listings, nil
}

// ParseListings extracts the listing cards from a shopping results page.
// Fields a card doesn't carry stay empty and are omitted from JSON.
func ParseListings(doc *goquery.Document) []models.MarketplaceListing {
	listings := []models.MarketplaceListing{}
	doc.Find(".sh-dgr__grid-result").Each(func(_ int, card *goquery.Selection) {
		listing := models.MarketplaceListing{
			Title: strings.TrimSpace(card.Find(".tAxDx").First().Text()),
			Price: strings.TrimSpace(card.Find(".a8Pemb").First().Text()),
			Store: strings.TrimSpace(card.Find(".aULzUe").First().Text()),
		}
		if href, ok := card.Find("a").First().Attr("href"); ok {
			listing.Link = href
		}
		if src, ok := card.Find("img").First().Attr("src"); ok {
			listing.Image = src
		}
		listings = append(listings, listing)
	})
	return listings
}
