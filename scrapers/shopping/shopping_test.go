package shopping

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseListings(t *testing.T) {
	html := `
	<html><body>
	<div class="sh-dgr__grid-result">
		<a href="/shopping/product/1"><img src="https://img.example.com/shirt.jpg"/></a>
		<h3 class="tAxDx"> Blue Cotton Shirt </h3>
		<span class="a8Pemb">₹799</span>
		<div class="aULzUe">Myntra</div>
	</div>
	<div class="sh-dgr__grid-result">
		<a href="/shopping/product/2"><img src="https://img.example.com/jeans.jpg"/></a>
		<h3 class="tAxDx">Slim Fit Jeans</h3>
		<span class="a8Pemb">₹1,299</span>
		<div class="aULzUe">Amazon.in</div>
	</div>
	</body></html>`

	listings := ParseListings(docFromHTML(t, html))
	require.Len(t, listings, 2)

	assert.Equal(t, "Blue Cotton Shirt", listings[0].Title)
	assert.Equal(t, "₹799", listings[0].Price)
	assert.Equal(t, "Myntra", listings[0].Store)
	assert.Equal(t, "/shopping/product/1", listings[0].Link)
	assert.Equal(t, "https://img.example.com/shirt.jpg", listings[0].Image)

	assert.Equal(t, "Slim Fit Jeans", listings[1].Title)
	assert.Equal(t, "₹1,299", listings[1].Price)
}

func TestParseListingsMissingFields(t *testing.T) {
	html := `
	<html><body>
	<div class="sh-dgr__grid-result">
		<h3 class="tAxDx">Untracked Sneakers</h3>
	</div>
	</body></html>`

	listings := ParseListings(docFromHTML(t, html))
	require.Len(t, listings, 1)

	assert.Equal(t, "Untracked Sneakers", listings[0].Title)
	assert.Empty(t, listings[0].Price)
	assert.Empty(t, listings[0].Store)
	assert.Empty(t, listings[0].Link)
	assert.Empty(t, listings[0].Image)
}

func TestParseListingsEmptyPage(t *testing.T) {
	listings := ParseListings(docFromHTML(t, `<html><body><p>No results</p></body></html>`))
	assert.NotNil(t, listings)
	assert.Empty(t, listings)
}
