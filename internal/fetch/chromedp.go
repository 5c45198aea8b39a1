package fetch

import (
	"context"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromedpFetcher renders the page in headless Chrome and returns the outer
// HTML once the body is ready. Useful for sources that block plain clients.
type ChromedpFetcher struct {
	Timeout   time.Duration
	UserAgent string
}

func (f *ChromedpFetcher) Fetch(ctx context.Context, url string) (string, int, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent(f.UserAgent),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(bctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", 0, err
	}
	return html, http.StatusOK, nil
}
