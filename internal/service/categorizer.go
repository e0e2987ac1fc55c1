package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/promptstash/backend/internal/classify"
	"github.com/promptstash/backend/internal/domain"
	"github.com/promptstash/backend/internal/logger"
	"github.com/promptstash/backend/internal/prompts"
)

const (
	// aiContentLimit bounds the content characters sent to the AI service.
	aiContentLimit = 1000

	// Result provenance markers.
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// CategorizationResult is the outcome of one on-demand classification.
type CategorizationResult struct {
	Category   domain.Category `json:"category"`
	Tags       []string        `json:"tags"`
	Confidence float64         `json:"confidence"`
	Source     string          `json:"source"`
}

// CategorizerConfig holds configuration for the categorizer service.
type CategorizerConfig struct {
	Model   string
	APIKey  string
	BaseURL string
}

// CategorizerService classifies prompt text through the AI completion
// service, falling back to the deterministic keyword classifier whenever
// the AI path is unavailable or fails.
type CategorizerService struct {
	client   *resty.Client
	model    string
	endpoint string
	enabled  bool
}

// NewCategorizerService creates a new categorizer service. Without an API
// key the service runs fallback-only.
// Parameters:
//   - cfg: AI configuration; nil or empty API key disables the AI path.
// Returns:
//   - *CategorizerService: initialized service.
func NewCategorizerService(cfg *CategorizerConfig) *CategorizerService {
	if cfg == nil || cfg.APIKey == "" {
		return &CategorizerService{enabled: false}
	}

	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(30 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &CategorizerService{
		client:   client,
		model:    cfg.Model,
		endpoint: baseURL + "/chat/completions",
		enabled:  true,
	}
}

// IsEnabled returns whether the AI path is configured.
func (s *CategorizerService) IsEnabled() bool {
	return s.enabled
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Categorize classifies prompt text. Any failure along the AI path (service
// not configured, transport error, unparseable response) degrades to the
// deterministic fallback classifier rather than surfacing an error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - content: prompt content.
//   - title: prompt title (may be empty).
// Returns:
//   - *CategorizationResult: classification with its provenance marker.
func (s *CategorizerService) Categorize(ctx context.Context, content, title string) *CategorizationResult {
	if !s.enabled {
		return s.fallback(content, title)
	}

	truncated := content
	if runes := []rune(truncated); len(runes) > aiContentLimit {
		truncated = string(runes[:aiContentLimit])
	}

	req := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompts.CategorizeSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Title: %s\n\nContent: %s", title, truncated)},
		},
		MaxTokens:   300,
		Temperature: 0.2,
	}

	var resp chatResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(s.endpoint)

	if err != nil {
		logger.CtxWarn(ctx, "Categorization API call failed, using fallback: error=%v", err)
		return s.fallback(content, title)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		logger.CtxWarn(ctx, "Categorization API returned non-success, using fallback: status=%d",
			httpResp.StatusCode())
		return s.fallback(content, title)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return s.fallback(content, title)
	}

	result, err := parseAIResult(resp.Choices[0].Message.Content)
	if err != nil {
		logger.CtxWarn(ctx, "Categorization response unparseable, using fallback: error=%v", err)
		return s.fallback(content, title)
	}

	return result
}

func (s *CategorizerService) fallback(content, title string) *CategorizationResult {
	res := classify.Classify(content, title)
	return &CategorizationResult{
		Category:   res.Category,
		Tags:       res.Tags,
		Confidence: res.Confidence,
		Source:     SourceFallback,
	}
}

// aiCategorization is the expected schema inside the model's reply.
type aiCategorization struct {
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Confidence *float64 `json:"confidence"`
}

// parseAIResult extracts the first brace-delimited JSON object from the
// model reply (tolerating surrounding prose) and normalizes it: out-of-set
// categories collapse to the default, tags are cleaned and capped, and a
// missing confidence defaults to 0.5.
func parseAIResult(content string) (*CategorizationResult, error) {
	jsonStart := strings.Index(content, "{")
	if jsonStart == -1 {
		return nil, fmt.Errorf("no JSON found in response")
	}

	braceCount := 0
	jsonEnd := -1
findJSON:
	for i := jsonStart; i < len(content); i++ {
		switch content[i] {
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				jsonEnd = i + 1
				break findJSON
			}
		}
	}

	if jsonEnd == -1 {
		return nil, fmt.Errorf("incomplete JSON in response")
	}

	var raw aiCategorization
	if err := json.Unmarshal([]byte(content[jsonStart:jsonEnd]), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	// Out-of-set categories collapse to the catch-all
	category, _ := domain.ParseCategory(strings.ToLower(strings.TrimSpace(raw.Category)))

	confidence := 0.5
	if raw.Confidence != nil {
		confidence = *raw.Confidence
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &CategorizationResult{
		Category:   category,
		Tags:       cleanTags(raw.Tags),
		Confidence: confidence,
		Source:     SourceAI,
	}, nil
}

var tagCharsetRe = regexp.MustCompile(`[^a-z0-9\s-]`)

// cleanTags lowercases each tag, strips it to `[a-z0-9 -]`, trims it, drops
// empties and overlong entries, deduplicates, and caps the result at 5.
func cleanTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	result := []string{}
	for _, tag := range tags {
		cleaned := strings.TrimSpace(tagCharsetRe.ReplaceAllString(strings.ToLower(tag), ""))
		if cleaned == "" || len(cleaned) >= 30 || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		result = append(result, cleaned)
		if len(result) == 5 {
			break
		}
	}
	return result
}
