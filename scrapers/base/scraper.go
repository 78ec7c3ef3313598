package base

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// BaseScraper handles common page-fetching logic shared by the scraper
// modes. One-shot fetches try plain HTTP first, then a headless browser,
// then a full selenium browser.
type BaseScraper struct {
	Client *http.Client
	log    *logrus.Logger
}

// NewBaseScraper creates a BaseScraper with a browser-like HTTP client.
func NewBaseScraper(log *logrus.Logger) *BaseScraper {
	return &BaseScraper{
		Client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				ForceAttemptHTTP2:     false,
				TLSNextProto:          make(map[string]func(string, *tls.Conn) http.RoundTripper),
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		log: log,
	}
}

// FetchDocument fetches the URL trying each strategy in turn until the
// validator accepts the resulting document.
func (b *BaseScraper) FetchDocument(url string, validator func(*goquery.Document) bool) (*goquery.Document, error) {
	doc, err := b.FetchDocumentHTTP(url)
	if err == nil && validator(doc) {
		b.log.Debugf("fetched %s over plain HTTP", url)
		return doc, nil
	}
	if err != nil {
		b.log.Debugf("plain HTTP fetch failed for %s: %v", url, err)
	} else {
		b.log.Debugf("plain HTTP fetch of %s rejected by validator, trying fallbacks", url)
	}

	doc, err = b.FetchDocumentChromeDP(url)
	if err == nil && validator(doc) {
		b.log.Debugf("fetched %s with chromedp", url)
		return doc, nil
	}
	if err != nil {
		b.log.Debugf("chromedp fetch failed for %s: %v", url, err)
	}

	doc, err = b.FetchDocumentSelenium(url)
	if err == nil && validator(doc) {
		b.log.Debugf("fetched %s with selenium", url)
		return doc, nil
	}
	if err != nil {
		b.log.Debugf("selenium fetch failed for %s: %v", url, err)
	}

	return nil, fmt.Errorf("all fetch strategies failed for %s", url)
}

// IsValidDocument rejects pages that are bot walls rather than content.
func IsValidDocument(doc *goquery.Document) bool {
	title := strings.ToLower(strings.TrimSpace(doc.Find("title").Text()))
	if strings.Contains(title, "robot check") ||
		strings.Contains(title, "captcha") ||
		strings.Contains(title, "access denied") {
		return false
	}
	return len(strings.TrimSpace(doc.Find("body").Text())) > 200
}

// FetchDocumentHTTP fetches the URL with the plain HTTP client.
func (b *BaseScraper) FetchDocumentHTTP(url string) (*goquery.Document, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Sec-Fetch-User", "?1")

	res, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != 200 {
		return nil, fmt.Errorf("status code error: %d %s", res.StatusCode, res.Status)
	}

	return goquery.NewDocumentFromReader(res.Body)
}
