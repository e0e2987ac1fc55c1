// Package classify implements the deterministic keyword-scored classifier
// used whenever the AI categorization path is unavailable or fails.
package classify

import (
	"strings"

	"github.com/promptstash/backend/internal/domain"
)

// maxTags bounds the matched-keyword tags attached to a result.
const maxTags = 5

// Result is the outcome of one deterministic classification.
type Result struct {
	Category   domain.Category
	Tags       []string
	Confidence float64
}

type categoryLexicon struct {
	category domain.Category
	keywords []string
}

// lexicons holds the fixed keyword list per category, scanned in order.
// The catch-all category comes first so it wins all-zero passes and ties.
var lexicons = []categoryLexicon{
	{domain.CategoryGeneral, []string{
		"assistant", "helpful", "act as", "chatbot",
	}},
	{domain.CategoryWriting, []string{
		"write", "essay", "story", "blog", "article", "email", "editor",
	}},
	{domain.CategoryCoding, []string{
		"code", "program", "debug", "function", "python", "javascript", "developer",
	}},
	{domain.CategoryMarketing, []string{
		"marketing", "seo", "brand", "campaign", "audience", "copywriting", "sales",
	}},
	{domain.CategoryProductivity, []string{
		"plan", "organize", "schedule", "task", "productivity", "summarize", "meeting",
	}},
	{domain.CategoryEducation, []string{
		"explain", "teach", "learn", "study", "lesson", "quiz", "tutor",
	}},
	{domain.CategoryCreative, []string{
		"imagine", "poem", "art", "creative", "character", "roleplay", "design",
	}},
}

// Classify scores every category's keywords against the combined content and
// title and returns the strict winner. It is a pure deterministic function:
// identical inputs always yield identical results.
// Parameters:
//   - content: prompt content text.
//   - title: prompt title (may be empty).
// Returns:
//   - Result: winning category (ties keep the earlier, so the catch-all wins
//     an all-zero scan), confidence = min(score/3, 1), and up to 5 distinct
//     matched keywords as tags in encounter order.
func Classify(content, title string) Result {
	text := strings.ToLower(content + " " + title)

	best := lexicons[0].category
	bestScore := 0
	var matched []string

	for _, lex := range lexicons {
		score := 0
		for _, keyword := range lex.keywords {
			if strings.Contains(text, keyword) {
				score++
				matched = append(matched, keyword)
			}
		}
		if score > bestScore {
			bestScore = score
			best = lex.category
		}
	}

	confidence := float64(bestScore) / 3
	if confidence > 1 {
		confidence = 1
	}

	return Result{
		Category:   best,
		Tags:       distinctTags(matched),
		Confidence: confidence,
	}
}

// distinctTags keeps the first occurrence of each keyword, capped at maxTags.
func distinctTags(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	result := []string{}
	for _, kw := range keywords {
		if seen[kw] {
			continue
		}
		seen[kw] = true
		result = append(result, kw)
		if len(result) == maxTags {
			break
		}
	}
	return result
}
