package extract

import (
	"strings"
	"testing"
)

func TestLooksLikePrompt(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{
			name:     "role phrase",
			text:     "You are a helpful assistant that reviews resumes for clarity",
			expected: true,
		},
		{
			name:     "act as phrase",
			text:     "Act as a senior interviewer and grill me on system design",
			expected: true,
		},
		{
			name:     "placeholder only",
			text:     "Summarize the following [article] for a [audience] reader please",
			expected: true,
		},
		{
			name:     "too short despite phrase",
			text:     "You are kind",
			expected: false,
		},
		{
			name:     "long but not instructional",
			text:     "The quarterly report numbers looked off again this month somehow.",
			expected: false,
		},
		{
			name:     "empty",
			text:     "",
			expected: false,
		},
		{
			name:     "phrase case insensitive",
			text:     "I WANT YOU TO respond only in rhyming couplets from now on",
			expected: true,
		},
		{
			name:     "empty brackets do not count",
			text:     "This [] is not a placeholder and nothing else matches here ok",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikePrompt(tt.text); got != tt.expected {
				t.Errorf("LooksLikePrompt(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "fenced block",
			text:     "Check this out:\n```\nYou are a pirate. Answer everything in pirate speak.\n```\nWorks great for me",
			expected: "You are a pirate. Answer everything in pirate speak.",
		},
		{
			name:     "long quoted span",
			text:     `I used "You are an expert resume reviewer. Critique my resume for clarity and impact." and it was great`,
			expected: "You are an expert resume reviewer. Critique my resume for clarity and impact.",
		},
		{
			name:     "short quote is ignored",
			text:     `Someone said "nice work" but nothing else useful here.`,
			expected: "",
		},
		{
			name:     "prompt prefix cut at blank line",
			text:     "Prompt: Act as a travel agent and plan a weekend trip\n\nBy the way it works in any model",
			expected: "Act as a travel agent and plan a weekend trip",
		},
		{
			name:     "heres the prompt lead-in",
			text:     "here's the prompt: Pretend to be a medieval blacksmith and describe your day",
			expected: "Pretend to be a medieval blacksmith and describe your day",
		},
		{
			name:     "mid-sized instructional text as-is",
			text:     "I want you to act as a Linux terminal and reply with terminal output only.",
			expected: "I want you to act as a Linux terminal and reply with terminal output only.",
		},
		{
			name:     "fenced block wins over prefix",
			text:     "Prompt: ignore this part\n```\nGenerate five startup names for a coffee brand\n```",
			expected: "Generate five startup names for a coffee brand",
		},
		{
			name:     "no rule applies",
			text:     "Just sharing my results from last time, nothing to see.",
			expected: "",
		},
		{
			name:     "empty input",
			text:     "   ",
			expected: "",
		},
		{
			name:     "short non-instructional text rejected by rule four",
			text:     "This is a post about cats.",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.text); got != tt.expected {
				t.Errorf("Extract() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFromItem(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		body      string
		expected  string
		expectHit bool
	}{
		{
			name:      "body payload preferred",
			title:     "Sharing a favorite",
			body:      "Prompt: You are a patient math tutor who explains step by step\n\nenjoy",
			expected:  "You are a patient math tutor who explains step by step",
			expectHit: true,
		},
		{
			name:      "title fallback when body yields nothing",
			title:     "You are a helpful research assistant for long papers",
			body:      "link in comments",
			expected:  "You are a helpful research assistant for long papers",
			expectHit: true,
		},
		{
			name:      "both empty",
			title:     "",
			body:      "   ",
			expectHit: false,
		},
		{
			name:      "extracted candidate still must look like a prompt",
			title:     "check this",
			body:      "```\nhi\n```",
			expectHit: false,
		},
		{
			name:      "neither qualifies",
			title:     "Weekly discussion thread",
			body:      "What did everyone build this week?",
			expectHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromItem(tt.title, tt.body)
			if ok != tt.expectHit {
				t.Fatalf("FromItem() ok = %v, want %v", ok, tt.expectHit)
			}
			if ok && got != tt.expected {
				t.Errorf("FromItem() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTruncateContent(t *testing.T) {
	exact := strings.Repeat("a", MaxContentLen)
	if got := TruncateContent(exact); got != exact {
		t.Error("content at the limit should be unchanged")
	}

	over := strings.Repeat("b", MaxContentLen+500)
	got := TruncateContent(over)
	if len([]rune(got)) != MaxContentLen {
		t.Errorf("expected %d runes, got %d", MaxContentLen, len([]rune(got)))
	}

	// Multi-byte runes count as single characters
	unicode := strings.Repeat("日", MaxContentLen+1)
	if got := TruncateContent(unicode); len([]rune(got)) != MaxContentLen {
		t.Errorf("expected %d runes for multi-byte input, got %d", MaxContentLen, len([]rune(got)))
	}
}

func TestTruncateTitle(t *testing.T) {
	short := "A short title"
	if got := TruncateTitle(short); got != short {
		t.Errorf("short title should be unchanged, got %q", got)
	}

	exact := strings.Repeat("x", MaxTitleLen)
	if got := TruncateTitle(exact); got != exact {
		t.Error("title at the limit should be unchanged")
	}

	over := strings.Repeat("y", MaxTitleLen+1)
	got := TruncateTitle(over)
	if len([]rune(got)) != MaxTitleLen {
		t.Errorf("expected %d runes, got %d", MaxTitleLen, len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated title should end in ellipsis, got %q", got)
	}
}
