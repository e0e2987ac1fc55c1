package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/promptstash/backend/internal/domain"
	"github.com/promptstash/backend/internal/extract"
	"github.com/promptstash/backend/internal/logger"
	"github.com/promptstash/backend/internal/repository"
	"github.com/promptstash/backend/internal/source"
)

// SourceLabel marks every row persisted by the ingestion channel.
const SourceLabel = "reddit"

// ErrUnknownFeed is returned for single-feed passes naming an unconfigured feed.
var ErrUnknownFeed = errors.New("unknown feed")

// feedCategories is the fixed feed-to-category mapping applied during
// ingestion. Feeds without an entry fall back to the catch-all.
var feedCategories = map[string]domain.Category{
	"ChatGPTPromptGenius": domain.CategoryGeneral,
	"PromptEngineering":   domain.CategoryGeneral,
	"WritingWithAI":       domain.CategoryWriting,
	"ChatGPTCoding":       domain.CategoryCoding,
}

// RunResult summarizes one ingestion pass. Immutable once returned.
type RunResult struct {
	Scraped   int       `json:"scraped"`
	Saved     int       `json:"saved"`
	Skipped   int       `json:"skipped"`
	Errors    int       `json:"errors"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Error     string    `json:"error,omitempty"`
}

// HarvestService drives one full ingestion pass: fetch, extract, dedup,
// tag, categorize by feed, persist. Feeds and items are processed strictly
// sequentially to preserve the per-request courtesy delay and keep the
// counters free of interleaving.
type HarvestService struct {
	repo  *repository.PromptRepository
	feeds []source.Feed
	limit int
}

// NewHarvestService creates a new harvest service. Logging goes through
// the context-propagated package helpers so run and feed fields are always
// attached.
// Parameters:
//   - repo: prompt repository used for dedup checks and inserts.
//   - feeds: configured feeds in fixed pass order.
//   - itemLimit: per-feed listing size.
// Returns:
//   - *HarvestService: initialized service.
func NewHarvestService(repo *repository.PromptRepository, feeds []source.Feed, itemLimit int) *HarvestService {
	return &HarvestService{
		repo:  repo,
		feeds: feeds,
		limit: itemLimit,
	}
}

// FeedNames returns the configured feed names in pass order.
func (s *HarvestService) FeedNames() []string {
	names := make([]string, len(s.feeds))
	for i, f := range s.feeds {
		names[i] = f.Name()
	}
	return names
}

// HasFeed reports whether a feed name is configured.
func (s *HarvestService) HasFeed(name string) bool {
	for _, f := range s.feeds {
		if f.Name() == name {
			return true
		}
	}
	return false
}

// Run executes a full ingestion pass over every configured feed.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - *RunResult: accumulated counters stamped with start/end times.
func (s *HarvestService) Run(ctx context.Context) *RunResult {
	return s.run(ctx, s.feeds)
}

// RunFeed executes an ingestion pass scoped to one named feed.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - name: configured feed name.
// Returns:
//   - *RunResult: accumulated counters.
//   - error: ErrUnknownFeed when the name is not configured.
func (s *HarvestService) RunFeed(ctx context.Context, name string) (*RunResult, error) {
	for _, f := range s.feeds {
		if f.Name() == name {
			return s.run(ctx, []source.Feed{f}), nil
		}
	}
	return nil, ErrUnknownFeed
}

func (s *HarvestService) run(ctx context.Context, feeds []source.Feed) *RunResult {
	result := &RunResult{StartTime: time.Now()}

	runCtx := logger.SetRunID(ctx, uuid.New().String())
	logger.CtxInfo(runCtx, "Starting harvest pass: feeds=%d", len(feeds))

	for _, feed := range feeds {
		feedCtx := logger.SetFeed(runCtx, feed.Name())

		items := feed.FetchListing(feedCtx, s.limit)
		result.Scraped += len(items)
		logger.CtxDebug(feedCtx, "Fetched listing: items=%d", len(items))

		for _, item := range items {
			switch s.processItem(feedCtx, item) {
			case itemSaved:
				result.Saved++
			case itemSkipped:
				result.Skipped++
			case itemFailed:
				result.Errors++
			}
		}
	}

	result.EndTime = time.Now()

	logger.With(logger.Fields{
		logger.FieldDurationMs: result.EndTime.Sub(result.StartTime).Milliseconds(),
		logger.FieldCount:      result.Saved,
	}).Info(runCtx, "Harvest pass completed: scraped=%d, saved=%d, skipped=%d, errors=%d",
		result.Scraped, result.Saved, result.Skipped, result.Errors)

	return result
}

type itemOutcome int

const (
	itemSaved itemOutcome = iota
	itemSkipped
	itemFailed
)

// processItem handles one raw item. A panic while handling an item is
// contained here and counted as a failure so a single malformed item never
// aborts the pass.
func (s *HarvestService) processItem(ctx context.Context, item source.RawItem) (outcome itemOutcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.CtxError(ctx, "Item processing panicked: title=%q, panic=%v", item.Title, r)
			outcome = itemFailed
		}
	}()

	content, ok := extract.FromItem(item.Title, item.Body)
	if !ok {
		return itemSkipped
	}
	content = extract.TruncateContent(content)

	exists, err := s.repo.ExistsByContent(ctx, content)
	if err != nil {
		logger.CtxError(ctx, "Dedup check failed: error=%v", err)
		return itemFailed
	}
	if exists {
		return itemSkipped
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = content
	}

	category, ok := feedCategories[item.Feed]
	if !ok {
		category = domain.CategoryGeneral
	}

	now := time.Now()
	prompt := &domain.Prompt{
		ID:          uuid.New().String(),
		Title:       extract.TruncateTitle(title),
		Content:     content,
		Category:    category,
		SourceLabel: SourceLabel,
		Tags:        extract.Tags(content, item.Feed),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, prompt); err != nil {
		logger.CtxError(ctx, "Prompt insert failed: title=%q, error=%v", prompt.Title, err)
		return itemFailed
	}

	return itemSaved
}
