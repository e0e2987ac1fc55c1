// Package prompts holds the instruction text sent to the AI completion
// service.
package prompts

import (
	"strings"

	"github.com/promptstash/backend/internal/domain"
)

// CategorizeSystemPrompt instructs the model to classify a prompt into the
// fixed category set and answer with a single JSON object.
var CategorizeSystemPrompt = `You are a prompt-library curator. Given the title and content of an AI prompt, assign it to exactly one category and suggest short descriptive tags.

Valid categories: ` + categoryList() + `

Respond with a single JSON object and nothing else:
{"category": "<one of the valid categories>", "tags": ["tag1", "tag2"], "confidence": 0.0-1.0}

Rules:
- category must be one of the valid categories, lowercase
- at most 5 tags, each short and lowercase
- confidence reflects how certain you are of the category`

func categoryList() string {
	names := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
