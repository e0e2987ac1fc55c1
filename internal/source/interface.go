package source

import "context"

// RawItem represents one fetched, unprocessed candidate from a feed.
// Instances live only within a single pipeline pass.
type RawItem struct {
	Title string // Post title
	Body  string // Post body text (may be empty)
	Feed  string // Originating feed/community identifier
}

// Feed defines the interface for external content feeds.
type Feed interface {
	// Name returns the feed identifier.
	// Parameters: none.
	// Returns:
	//   - string: stable feed name.
	Name() string

	// FetchListing fetches a bounded listing of candidate items in listing
	// order. Transport failures and non-success responses are logged and
	// yield an empty listing; this call never surfaces an error to the
	// caller, which treats an empty result as "nothing available this pass".
	// Parameters:
	//   - ctx: context for cancellation and deadlines.
	//   - limit: maximum number of items to fetch.
	// Returns:
	//   - []RawItem: fetched items, possibly empty.
	FetchListing(ctx context.Context, limit int) []RawItem
}
