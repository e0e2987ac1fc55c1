package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/promptstash/backend/internal/domain"
	"github.com/promptstash/backend/internal/repository"
	"github.com/promptstash/backend/internal/source"
)

// fakeFeed replays a fixed listing.
type fakeFeed struct {
	name  string
	items []source.RawItem
}

func (f *fakeFeed) Name() string { return f.name }

func (f *fakeFeed) FetchListing(_ context.Context, limit int) []source.RawItem {
	if limit < len(f.items) {
		return f.items[:limit]
	}
	return f.items
}

func newTestRepo(t *testing.T) (*repository.PromptRepository, *gorm.DB) {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access test database: %v", err)
	}
	// Shared-cache in-memory sqlite must stay on one connection
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&domain.Prompt{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return repository.NewPromptRepository(db), db
}

func promptItem(feed, title, payload string) source.RawItem {
	return source.RawItem{
		Title: title,
		Body:  "Prompt: " + payload,
		Feed:  feed,
	}
}

func TestHarvestService_Run(t *testing.T) {
	repo, _ := newTestRepo(t)

	// An unreachable feed yields an empty listing and must not stop the pass
	deadFeed := &fakeFeed{name: "PromptEngineering"}

	feed := &fakeFeed{
		name: "ChatGPTCoding",
		items: []source.RawItem{
			promptItem("ChatGPTCoding", "Tutor prompt", "You are a patient coding tutor who explains step by step"),
			// In-pass duplicate of the first item
			promptItem("ChatGPTCoding", "Same again", "You are a patient coding tutor who explains step by step"),
			// No extractable prompt
			{Title: "Weekly thread", Body: "What did everyone build?", Feed: "ChatGPTCoding"},
			promptItem("ChatGPTCoding", "Reviewer prompt", "Act as a strict code reviewer and list every smell you find"),
			// Prompt-like title with an empty body
			{Title: "You are a senior engineer who mentors juniors kindly", Body: "", Feed: "ChatGPTCoding"},
		},
	}

	svc := NewHarvestService(repo, []source.Feed{deadFeed, feed}, 25)
	result := svc.Run(context.Background())

	if result.Scraped != 5 {
		t.Errorf("expected 5 scraped, got %d", result.Scraped)
	}
	if result.Saved != 3 {
		t.Errorf("expected 3 saved, got %d", result.Saved)
	}
	if result.Skipped != 2 {
		t.Errorf("expected 2 skipped, got %d", result.Skipped)
	}
	if result.Errors != 0 {
		t.Errorf("expected 0 errors, got %d", result.Errors)
	}
	if result.EndTime.Before(result.StartTime) {
		t.Error("end time should not precede start time")
	}

	count, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 stored prompts, got %d", count)
	}
}

func TestHarvestService_RunIsIdempotent(t *testing.T) {
	repo, _ := newTestRepo(t)

	feed := &fakeFeed{
		name: "PromptEngineering",
		items: []source.RawItem{
			promptItem("PromptEngineering", "Planner", "You are a meticulous planner who breaks goals into steps"),
		},
	}

	svc := NewHarvestService(repo, []source.Feed{feed}, 25)

	first := svc.Run(context.Background())
	if first.Saved != 1 {
		t.Fatalf("expected 1 saved on first pass, got %d", first.Saved)
	}

	second := svc.Run(context.Background())
	if second.Saved != 0 {
		t.Errorf("expected 0 saved on repeat pass, got %d", second.Saved)
	}
	if second.Skipped != 1 {
		t.Errorf("expected 1 skipped on repeat pass, got %d", second.Skipped)
	}

	count, _ := repo.Count(context.Background())
	if count != 1 {
		t.Errorf("expected 1 stored prompt after both passes, got %d", count)
	}
}

func TestHarvestService_PersistenceFailure(t *testing.T) {
	repo, db := newTestRepo(t)

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access test database: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("failed to close test database: %v", err)
	}

	feed := &fakeFeed{
		name: "PromptEngineering",
		items: []source.RawItem{
			promptItem("PromptEngineering", "Planner", "You are a meticulous planner who breaks goals into steps"),
		},
	}

	svc := NewHarvestService(repo, []source.Feed{feed}, 25)
	result := svc.Run(context.Background())

	if result.Scraped != 1 {
		t.Errorf("expected 1 scraped, got %d", result.Scraped)
	}
	if result.Saved != 0 {
		t.Errorf("expected 0 saved, got %d", result.Saved)
	}
	if result.Errors != 1 {
		t.Errorf("expected 1 error, got %d", result.Errors)
	}
	if result.EndTime.IsZero() {
		t.Error("pass should complete despite the storage failure")
	}
}

func TestHarvestService_ItemPanicContained(t *testing.T) {
	feed := &fakeFeed{
		name: "PromptEngineering",
		items: []source.RawItem{
			// Reaches the dedup check, which panics on the nil store
			promptItem("PromptEngineering", "Planner", "You are a meticulous planner who breaks goals into steps"),
			// Never reaches the store
			{Title: "Weekly thread", Body: "What did everyone build?", Feed: "PromptEngineering"},
		},
	}

	svc := NewHarvestService(nil, []source.Feed{feed}, 25)
	result := svc.Run(context.Background())

	if result.Errors != 1 {
		t.Errorf("expected 1 error, got %d", result.Errors)
	}
	if result.Skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", result.Skipped)
	}
	if result.Saved != 0 {
		t.Errorf("expected 0 saved, got %d", result.Saved)
	}
	if result.EndTime.IsZero() {
		t.Error("pass should complete despite the item failure")
	}
}

func TestHarvestService_FeedCategoryMapping(t *testing.T) {
	repo, db := newTestRepo(t)

	feeds := []source.Feed{
		&fakeFeed{
			name: "WritingWithAI",
			items: []source.RawItem{
				promptItem("WritingWithAI", "Editor", "Act as a ruthless line editor for my short fiction drafts"),
			},
		},
		&fakeFeed{
			name: "SomeNewCommunity",
			items: []source.RawItem{
				promptItem("SomeNewCommunity", "Mystery", "You are an enthusiastic guide for first-time travelers"),
			},
		},
	}

	svc := NewHarvestService(repo, feeds, 25)
	svc.Run(context.Background())

	var prompts []domain.Prompt
	for _, title := range []string{"Editor", "Mystery"} {
		var p domain.Prompt
		if err := db.Where("title = ?", title).First(&p).Error; err != nil {
			t.Fatalf("failed to load prompt %q: %v", title, err)
		}
		prompts = append(prompts, p)
	}

	if prompts[0].Category != domain.CategoryWriting {
		t.Errorf("expected mapped category %s, got %s", domain.CategoryWriting, prompts[0].Category)
	}
	if prompts[1].Category != domain.CategoryGeneral {
		t.Errorf("expected unmapped feed to default to %s, got %s", domain.CategoryGeneral, prompts[1].Category)
	}
	for _, p := range prompts {
		if p.SourceLabel != SourceLabel {
			t.Errorf("expected source label %q, got %q", SourceLabel, p.SourceLabel)
		}
		if p.ID == "" {
			t.Error("stored prompt should have an ID")
		}
	}
}

func TestHarvestService_RunFeed(t *testing.T) {
	repo, _ := newTestRepo(t)

	fetched := map[string]bool{}
	mk := func(name string) source.Feed {
		return &trackingFeed{fakeFeed: fakeFeed{name: name}, fetched: fetched}
	}
	svc := NewHarvestService(repo, []source.Feed{mk("A"), mk("B")}, 25)

	if _, err := svc.RunFeed(context.Background(), "nope"); !errors.Is(err, ErrUnknownFeed) {
		t.Errorf("expected ErrUnknownFeed, got %v", err)
	}

	result, err := svc.RunFeed(context.Background(), "B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected result for a known feed")
	}
	if fetched["A"] || !fetched["B"] {
		t.Errorf("expected only feed B to be fetched, got %v", fetched)
	}
}

// trackingFeed records which feeds were fetched.
type trackingFeed struct {
	fakeFeed
	fetched map[string]bool
}

func (f *trackingFeed) FetchListing(ctx context.Context, limit int) []source.RawItem {
	f.fetched[f.name] = true
	return f.fakeFeed.FetchListing(ctx, limit)
}
