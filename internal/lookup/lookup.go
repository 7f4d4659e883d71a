// Package lookup provides a best-effort institution lookup against a
// public web search. Results are hints for a human researching an
// institution; nothing here feeds back into the dataset or the rankings.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const (
	defaultSearchURL = "https://html.duckduckgo.com/html/"
	defaultTimeout   = 20 * time.Second
	maxResults       = 5
)

// Result is one search hit.
type Result struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type Client struct {
	searchURL  string
	chromePath string
	timeout    time.Duration
}

func NewClient() *Client {
	return &Client{
		searchURL:  defaultSearchURL,
		chromePath: detectChromePath(),
		timeout:    defaultTimeout,
	}
}

// Institution searches the public web for the institution name and
// returns the top hits. Any failure is returned to the caller for a
// non-fatal user notice; ranking state is never affected.
func (c *Client) Institution(ctx context.Context, name string) ([]Result, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("institution name is required")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if c.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(c.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	query := url.Values{}
	query.Set("q", name+" research institution")

	var results []Result
	err := chromedp.Run(taskCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "en"}),
		chromedp.Navigate(c.searchURL+"?"+query.Encode()),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(
			`Array.from(document.querySelectorAll('a.result__a')).slice(0, %d).map(a => ({title: a.textContent.trim(), url: a.href}))`,
			maxResults,
		), &results),
	)
	if err != nil {
		return nil, fmt.Errorf("institution lookup: %w", err)
	}
	return results, nil
}

func detectChromePath() string {
	if p := os.Getenv("CHROME_PATH"); p != "" {
		return p
	}
	for _, candidate := range []string{"chromium", "chromium-browser", "google-chrome", "google-chrome-stable"} {
		if p, err := exec.LookPath(candidate); err == nil {
			return p
		}
	}
	return ""
}
