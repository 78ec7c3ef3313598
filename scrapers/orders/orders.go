// Package orders drives a headless browser through a retailer's
// order-history pages: log in if redirected, then walk the pagination and
// capture the raw HTML of every order card.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/raushankrgupta/stylemate-backend/scrapers"
	"github.com/raushankrgupta/stylemate-backend/scrapers/base"
)

const (
	passwordFieldTimeout = 10 * time.Second
	postLoginTimeout     = 60 * time.Second
	orderListTimeout     = 15 * time.Second
)

const (
	orderCardSelector = ".order-card__list"
	nextPageSelector  = "ul.a-pagination li.a-last a"
)

// Scraper implements scrapers.OrderSource against an Amazon-style order
// history with a two-step signin form.
type Scraper struct {
	ordersURL string
	log       *logrus.Logger
}

// NewScraper creates an order-history scraper for the given orders URL.
func NewScraper(ordersURL string, log *logrus.Logger) *Scraper {
	return &Scraper{ordersURL: ordersURL, log: log}
}

// ScrapeOrders opens a browser session, authenticates when redirected to
// the signin page, and pages through the order list collecting the outer
// HTML of each order card. The browser is torn down on every exit path via
// the deferred context cancels. A missing order list stops pagination and
// returns what was captured so far; login timeouts fail the whole call
// with scrapers.ErrTimeout.
func (s *Scraper) ScrapeOrders(ctx context.Context, email, password string) (*scrapers.OrderResult, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, base.AllocatorOptions()...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	if err := chromedp.Run(taskCtx,
		chromedp.EmulateViewport(1280, 800),
		chromedp.Navigate(s.ordersURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("failed to open orders page: %w", err)
	}

	var currentURL string
	if err := chromedp.Run(taskCtx, chromedp.Location(&currentURL)); err != nil {
		return nil, fmt.Errorf("failed to read current location: %w", err)
	}

	if strings.Contains(currentURL, "/ap/signin") {
		s.log.Info("not logged in, performing login")
		if err := s.login(taskCtx, email, password); err != nil {
			return nil, err
		}
		if err := chromedp.Run(taskCtx,
			chromedp.Navigate(s.ordersURL),
			chromedp.WaitReady("body", chromedp.ByQuery),
		); err != nil {
			return nil, fmt.Errorf("failed to return to orders page: %w", err)
		}
	}

	result := &scrapers.OrderResult{PageCount: 1}
	for {
		s.log.Infof("scraping orders page %d", result.PageCount)

		waitCtx, cancel := context.WithTimeout(taskCtx, orderListTimeout)
		err := chromedp.Run(waitCtx, chromedp.WaitVisible(orderCardSelector, chromedp.ByQuery))
		cancel()
		if err != nil {
			// No order list on this page: stop and return what we have.
			s.log.Warnf("order list not found on page %d, returning partial results", result.PageCount)
			break
		}

		var blocks []string
		if err := chromedp.Run(taskCtx, chromedp.Evaluate(
			fmt.Sprintf(`Array.from(document.querySelectorAll(%q)).map(node => node.outerHTML)`, orderCardSelector),
			&blocks,
		)); err != nil {
			return nil, fmt.Errorf("failed to capture order blocks: %w", err)
		}
		result.HTMLBlocks = append(result.HTMLBlocks, blocks...)

		var hasNext bool
		if err := chromedp.Run(taskCtx, chromedp.Evaluate(
			fmt.Sprintf(`document.querySelector(%q) !== null`, nextPageSelector),
			&hasNext,
		)); err != nil {
			return nil, fmt.Errorf("failed to check pagination: %w", err)
		}
		if !hasNext {
			break
		}

		if err := chromedp.Run(taskCtx,
			chromedp.Click(nextPageSelector, chromedp.ByQuery),
			chromedp.WaitReady("body", chromedp.ByQuery),
		); err != nil {
			return nil, fmt.Errorf("pagination click failed: %w", err)
		}
		result.PageCount++
	}

	return result, nil
}

// login submits the two-step signin form: identifier screen, then the
// secret screen. The password field must appear within 10s and the
// post-login navigation must settle within 60s (CAPTCHA/MFA included) or
// the operation fails with scrapers.ErrTimeout.
func (s *Scraper) login(taskCtx context.Context, email, password string) error {
	if err := chromedp.Run(taskCtx,
		chromedp.SendKeys("#ap_email", email, chromedp.ByID),
		chromedp.Click("#continue", chromedp.ByID),
	); err != nil {
		return fmt.Errorf("failed to submit email: %w", err)
	}

	pwCtx, cancel := context.WithTimeout(taskCtx, passwordFieldTimeout)
	err := chromedp.Run(pwCtx, chromedp.WaitVisible("#ap_password", chromedp.ByID))
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: password field did not appear", scrapers.ErrTimeout)
		}
		return fmt.Errorf("failed waiting for password field: %w", err)
	}

	if err := chromedp.Run(taskCtx,
		chromedp.SendKeys("#ap_password", password, chromedp.ByID),
		chromedp.Click("#signInSubmit", chromedp.ByID),
	); err != nil {
		return fmt.Errorf("failed to submit password: %w", err)
	}

	s.log.Info("waiting for post-login navigation (CAPTCHA/MFA if any)")
	var signedIn bool
	navCtx, cancel := context.WithTimeout(taskCtx, postLoginTimeout)
	err = chromedp.Run(navCtx, chromedp.Poll(
		`!window.location.pathname.includes('/ap/signin')`,
		&signedIn,
		chromedp.WithPollingInterval(500*time.Millisecond),
	))
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, chromedp.ErrPollingTimeout) {
			return fmt.Errorf("%w: login navigation did not settle", scrapers.ErrTimeout)
		}
		return fmt.Errorf("failed waiting for login navigation: %w", err)
	}

	return nil
}
