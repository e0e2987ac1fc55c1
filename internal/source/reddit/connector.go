// Package reddit implements the source.Feed interface over the public
// Reddit listing API.
package reddit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/promptstash/backend/internal/logger"
	"github.com/promptstash/backend/internal/source"
)

// Config holds connection settings shared by all reddit connectors.
type Config struct {
	BaseURL      string
	UserAgent    string
	RequestDelay time.Duration
}

// Connector fetches the hot listing of one community. Every request is
// preceded by the configured courtesy delay so sequential fetches across
// feeds stay rate-limit friendly.
type Connector struct {
	client *resty.Client
	name   string
	delay  time.Duration
}

var _ source.Feed = (*Connector)(nil)

// New creates a connector bound to one community feed.
// Parameters:
//   - cfg: shared connection settings.
//   - name: community (subreddit) name.
// Returns:
//   - *Connector: initialized connector.
func New(cfg *Config, name string) *Connector {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetHeader("User-Agent", cfg.UserAgent)
	client.SetTimeout(30 * time.Second)

	return &Connector{
		client: client,
		name:   name,
		delay:  cfg.RequestDelay,
	}
}

// Name returns the feed identifier.
func (c *Connector) Name() string {
	return c.name
}

// listingEnvelope mirrors the reddit listing response shape.
type listingEnvelope struct {
	Data struct {
		Children []struct {
			Data struct {
				Title    string `json:"title"`
				Selftext string `json:"selftext"`
				Stickied bool   `json:"stickied"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// FetchListing fetches up to limit items from the community's hot listing,
// in listing order. Stickied posts (pinned announcements) are dropped.
// Failures of any kind are logged and produce an empty listing.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - limit: maximum number of items to fetch.
// Returns:
//   - []source.RawItem: fetched items, possibly empty.
func (c *Connector) FetchListing(ctx context.Context, limit int) []source.RawItem {
	// Courtesy delay before every listing request
	if c.delay > 0 {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.delay):
		}
	}

	var envelope listingEnvelope
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetResult(&envelope).
		Get(fmt.Sprintf("/r/%s/hot.json", c.name))

	if err != nil {
		logger.CtxWarn(ctx, "Feed fetch failed: feed=%s, error=%v", c.name, err)
		return nil
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		logger.CtxWarn(ctx, "Feed fetch returned non-success: feed=%s, status=%d",
			c.name, resp.StatusCode())
		return nil
	}

	items := make([]source.RawItem, 0, len(envelope.Data.Children))
	for _, child := range envelope.Data.Children {
		if child.Data.Stickied {
			continue
		}
		items = append(items, source.RawItem{
			Title: child.Data.Title,
			Body:  child.Data.Selftext,
			Feed:  c.name,
		})
	}

	return items
}
