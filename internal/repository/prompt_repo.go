package repository

import (
	"context"

	"github.com/promptstash/backend/internal/domain"
	"gorm.io/gorm"
)

// dedupTitleLen is the number of leading content characters compared against
// stored titles by the existence check.
const dedupTitleLen = 100

// PromptRepository handles prompt data operations.
type PromptRepository struct {
	db *gorm.DB
}

// NewPromptRepository creates a new PromptRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *PromptRepository: repository instance bound to db.
func NewPromptRepository(db *gorm.DB) *PromptRepository {
	return &PromptRepository{db: db}
}

// Create inserts a new prompt record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - prompt: prompt record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *PromptRepository) Create(ctx context.Context, prompt *domain.Prompt) error {
	return r.db.WithContext(ctx).Create(prompt).Error
}

// ExistsByContent checks whether a prompt with equivalent content is already
// stored. The key is approximate: a row matches when its content equals the
// candidate exactly, or when its title equals the candidate's first 100
// characters. Both false negatives (paraphrases) and false positives (short
// near-identical titles) are accepted behavior.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - content: candidate prompt content.
// Returns:
//   - bool: true if a matching record exists.
//   - error: non-nil if the lookup fails.
func (r *PromptRepository) ExistsByContent(ctx context.Context, content string) (bool, error) {
	titleKey := content
	if runes := []rune(titleKey); len(runes) > dedupTitleLen {
		titleKey = string(runes[:dedupTitleLen])
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Prompt{}).
		Where("content = ? OR title = ?", content, titleKey).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByID retrieves a prompt by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: prompt ID.
// Returns:
//   - *domain.Prompt: prompt record if found.
//   - error: non-nil if lookup fails.
func (r *PromptRepository) GetByID(ctx context.Context, id string) (*domain.Prompt, error) {
	var prompt domain.Prompt
	if err := r.db.WithContext(ctx).First(&prompt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &prompt, nil
}

// Latest returns the most recently stored prompts, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - limit: maximum number of records to return.
// Returns:
//   - []domain.Prompt: up to limit records ordered by creation time.
//   - error: non-nil if the query fails.
func (r *PromptRepository) Latest(ctx context.Context, limit int) ([]domain.Prompt, error) {
	var prompts []domain.Prompt
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

// Count returns the total number of stored prompts.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - int64: number of records.
//   - error: non-nil if the query fails.
func (r *PromptRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Prompt{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountBySourceLabel counts prompts attributed to one ingestion channel.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - label: source label to filter by.
// Returns:
//   - int64: number of matching records.
//   - error: non-nil if the query fails.
func (r *PromptRepository) CountBySourceLabel(ctx context.Context, label string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Prompt{}).
		Where("source_label = ?", label).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
