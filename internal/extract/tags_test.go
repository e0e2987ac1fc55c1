package extract

import (
	"reflect"
	"testing"
)

func TestTags(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		feed     string
		expected []string
	}{
		{
			name:     "feed tags come before content tags",
			content:  "Write me an email and a blog post outline",
			feed:     "WritingWithAI",
			expected: []string{"writing", "email", "blogging"},
		},
		{
			name:     "feed rules deduplicate",
			content:  "",
			feed:     "ChatGPTPromptGenius",
			expected: []string{"chatgpt"},
		},
		{
			name:     "coding feed",
			content:  "Debug my python script",
			feed:     "ChatGPTCoding",
			expected: []string{"coding", "chatgpt", "python", "debugging"},
		},
		{
			name:     "unknown feed falls back to content only",
			content:  "Translate this essay into French",
			feed:     "SomeOtherPlace",
			expected: []string{"writing", "translation"},
		},
		{
			name:     "no matches",
			content:  "nothing relevant here",
			feed:     "Unknown",
			expected: []string{},
		},
		{
			name:     "capped at five",
			content:  "email essay story blog code python javascript",
			feed:     "Unknown",
			expected: []string{"email", "writing", "storytelling", "blogging", "coding"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tags(tt.content, tt.feed)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tags(%q, %q) = %v, want %v", tt.content, tt.feed, got, tt.expected)
			}
		})
	}
}

func TestDedupeTags(t *testing.T) {
	got := dedupeTags([]string{"a", "b", "a", "c", "b", "d", "e", "f"})
	expected := []string{"a", "b", "c", "d", "e"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("dedupeTags() = %v, want %v", got, expected)
	}

	if got := dedupeTags(nil); len(got) != 0 {
		t.Errorf("dedupeTags(nil) = %v, want empty", got)
	}
}
