package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	loginFieldWait = 10 * time.Second
	landingWait    = 25 * time.Second
	tableWait      = 30 * time.Second

	// Extra settle after the table appears so the page finishes rendering.
	settleDelay = 2 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/87.0.4280.88 Safari/537.36"
)

// ChromeConfig carries the login flow settings.
type ChromeConfig struct {
	LoginURL     string
	PortfolioURL string
	Username     string
	Password     string
}

// ChromeSource drives a headless browser through the dashboard login and
// returns the rendered portfolio page.
type ChromeSource struct {
	cfg    ChromeConfig
	cancel []context.CancelFunc
	Log    *slog.Logger
}

// NewChromeSource creates a ChromeSource. The browser starts lazily on the
// first Document call.
func NewChromeSource(cfg ChromeConfig) *ChromeSource {
	return &ChromeSource{cfg: cfg}
}

func (s *ChromeSource) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

// Close tears the browser down. Safe when the browser never started.
func (s *ChromeSource) Close() error {
	for i := len(s.cancel) - 1; i >= 0; i-- {
		s.cancel[i]()
	}
	s.cancel = nil
	return nil
}

// Document logs in, navigates to the portfolio page, waits for the holdings
// table and returns the page markup. Each browser interaction step carries
// its own wait ceiling; there is no whole-run timeout.
func (s *ChromeSource) Document(ctx context.Context) (string, error) {
	log := s.logger()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(userAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	s.cancel = append(s.cancel, cancelAlloc, cancelBrowser)

	log.Info("session login", "url", s.cfg.LoginURL)
	if err := s.runWithin(browserCtx, loginFieldWait,
		chromedp.Navigate(s.cfg.LoginURL),
		chromedp.WaitVisible("#user_email", chromedp.ByID),
		chromedp.SendKeys("#user_email", s.cfg.Username, chromedp.ByID),
		chromedp.SendKeys("#user_password", s.cfg.Password, chromedp.ByID),
		chromedp.Click("#login_button", chromedp.ByID),
	); err != nil {
		return "", fmt.Errorf("session: login: %w", err)
	}

	if err := s.runWithin(browserCtx, landingWait, waitURLContains("home")); err != nil {
		return "", fmt.Errorf("session: wait for landing page: %w", err)
	}

	log.Info("session navigate", "url", s.cfg.PortfolioURL)
	if err := s.runWithin(browserCtx, tableWait,
		chromedp.Navigate(s.cfg.PortfolioURL),
		chromedp.WaitVisible("tbody.ant-table-tbody", chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("session: wait for portfolio table: %w", err)
	}

	var markup string
	if err := chromedp.Run(browserCtx,
		chromedp.Sleep(settleDelay),
		chromedp.OuterHTML("body", &markup, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("session: read page markup: %w", err)
	}
	return markup, nil
}

// runWithin runs the actions under a per-step wait ceiling. A blown ceiling
// aborts the run; the session is not reused after that.
func (s *ChromeSource) runWithin(ctx context.Context, ceiling time.Duration, actions ...chromedp.Action) error {
	stepCtx, cancel := context.WithTimeout(ctx, ceiling)
	defer cancel()
	return chromedp.Run(stepCtx, actions...)
}

// waitURLContains polls the current location until it contains the fragment.
func waitURLContains(fragment string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for {
			var loc string
			if err := chromedp.Location(&loc).Do(ctx); err != nil {
				return err
			}
			if strings.Contains(loc, fragment) {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(250 * time.Millisecond):
			}
		}
	})
}
