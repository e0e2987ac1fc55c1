package classify

import (
	"reflect"
	"testing"

	"github.com/promptstash/backend/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name               string
		content            string
		title              string
		expectedCategory   domain.Category
		expectedConfidence float64
	}{
		{
			name:               "coding keywords dominate",
			content:            "Debug this python function for me",
			title:              "code help",
			expectedCategory:   domain.CategoryCoding,
			expectedConfidence: 1,
		},
		{
			name:               "marketing",
			content:            "Build an seo campaign for our brand",
			title:              "",
			expectedCategory:   domain.CategoryMarketing,
			expectedConfidence: 1,
		},
		{
			name:               "single education keyword",
			content:            "Please explain this concept simply",
			title:              "",
			expectedCategory:   domain.CategoryEducation,
			expectedConfidence: 1.0 / 3,
		},
		{
			name:               "no keywords defaults to catch-all",
			content:            "zzz qqq xyzzy",
			title:              "",
			expectedCategory:   domain.CategoryGeneral,
			expectedConfidence: 0,
		},
		{
			name:               "tie keeps the catch-all",
			content:            "act as the author of this essay",
			title:              "",
			expectedCategory:   domain.CategoryGeneral,
			expectedConfidence: 1.0 / 3,
		},
		{
			name:               "title contributes to the score",
			content:            "give me feedback",
			title:              "poem about a creative character",
			expectedCategory:   domain.CategoryCreative,
			expectedConfidence: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.content, tt.title)

			if got.Category != tt.expectedCategory {
				t.Errorf("expected category %s, got %s", tt.expectedCategory, got.Category)
			}
			if got.Confidence != tt.expectedConfidence {
				t.Errorf("expected confidence %.3f, got %.3f", tt.expectedConfidence, got.Confidence)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	content := "Write a short story about a developer learning to code"
	title := "creative coding"

	first := Classify(content, title)
	for i := 0; i < 10; i++ {
		next := Classify(content, title)
		if !reflect.DeepEqual(first, next) {
			t.Fatalf("classification is not deterministic: %+v vs %+v", first, next)
		}
	}
}

func TestClassifyTags(t *testing.T) {
	got := Classify("Debug this python function for me", "code help")

	expected := []string{"code", "debug", "function", "python"}
	if !reflect.DeepEqual(got.Tags, expected) {
		t.Errorf("expected tags %v, got %v", expected, got.Tags)
	}

	// Cap at five distinct keywords
	many := Classify("write essay story blog article email editor", "")
	if len(many.Tags) != 5 {
		t.Errorf("expected 5 tags, got %d: %v", len(many.Tags), many.Tags)
	}
}

func TestClassifyConfidenceCap(t *testing.T) {
	// Four hits would be 4/3 without the cap
	got := Classify("debug the python function in this code", "")
	if got.Confidence != 1 {
		t.Errorf("expected confidence capped at 1, got %.3f", got.Confidence)
	}
}
