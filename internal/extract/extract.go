// Package extract contains the heuristics that decide whether a blob of
// community text looks like a reusable prompt and isolate the payload.
// Everything here is a pure function over strings.
package extract

import (
	"regexp"
	"strings"
)

const (
	// MaxContentLen is the upper bound on stored prompt content.
	MaxContentLen = 5000
	// MaxTitleLen is the upper bound on stored prompt titles.
	MaxTitleLen = 100
)

// promptPhrases are role/instruction fragments that mark instructional text.
var promptPhrases = []string{
	"you are",
	"act as",
	"pretend",
	"generate",
	"create",
	"write",
	"help me",
	"i want you to",
}

var (
	placeholderRe = regexp.MustCompile(`\[[^\[\]]+\]`)
	fencedBlockRe = regexp.MustCompile("(?s)```(.*?)```")
	quotedSpanRe  = regexp.MustCompile(`"([^"]{50,})"`)
)

// promptPrefixes mark an explicit lead-in to the payload. "prompt:" also
// covers variants like "here's the prompt:".
var promptPrefixes = []string{
	"prompt:",
	"here's the prompt",
}

// LooksLikePrompt reports whether text plausibly is a reusable prompt:
// at least 30 characters long and either containing a role/instruction
// phrase or a bracketed [placeholder].
// Parameters:
//   - text: candidate text.
// Returns:
//   - bool: true when the text passes the heuristic.
func LooksLikePrompt(text string) bool {
	if len(text) < 30 {
		return false
	}

	lower := strings.ToLower(text)
	for _, phrase := range promptPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	return placeholderRe.MatchString(text)
}

// Extract isolates the prompt payload from a text blob, trying in order:
// a fenced code block, a long double-quoted span, text following an explicit
// "prompt:" lead-in (cut at the first blank line), and finally the whole
// text when it is mid-sized and instructional. Returns "" when nothing
// matches.
// Parameters:
//   - text: raw post body or comment text.
// Returns:
//   - string: extracted prompt payload, or "" when no rule applies.
func Extract(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	// 1. Fenced block
	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		if payload := strings.TrimSpace(m[1]); payload != "" {
			return payload
		}
	}

	// 2. Long quoted span
	if m := quotedSpanRe.FindStringSubmatch(text); m != nil {
		if payload := strings.TrimSpace(m[1]); payload != "" {
			return payload
		}
	}

	// 3. Explicit prompt prefix, cut at the first blank line
	lower := strings.ToLower(text)
	for _, prefix := range promptPrefixes {
		idx := strings.Index(lower, prefix)
		if idx == -1 {
			continue
		}
		rest := text[idx+len(prefix):]
		rest = strings.TrimPrefix(rest, ":")
		if cut := strings.Index(rest, "\n\n"); cut != -1 {
			rest = rest[:cut]
		}
		if payload := strings.TrimSpace(rest); payload != "" {
			return payload
		}
	}

	// 4. Mid-sized instructional text as-is
	trimmed := strings.TrimSpace(text)
	if len(trimmed) > 50 && len(trimmed) < 2000 {
		lowerTrimmed := strings.ToLower(trimmed)
		for _, phrase := range promptPhrases {
			if strings.Contains(lowerTrimmed, phrase) {
				return trimmed
			}
		}
	}

	return ""
}

// FromItem derives the prompt candidate for one fetched item. The body is
// tried first; a prompt-looking title is the fallback. Items with neither
// yield no candidate.
// Parameters:
//   - title: item title (may be empty).
//   - body: item body text (may be empty).
// Returns:
//   - string: candidate prompt content.
//   - bool: false when the item should be skipped.
func FromItem(title, body string) (string, bool) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(body) == "" {
		return "", false
	}

	candidate := Extract(body)
	if candidate == "" && LooksLikePrompt(title) {
		candidate = strings.TrimSpace(title)
	}
	if candidate == "" || !LooksLikePrompt(candidate) {
		return "", false
	}

	return candidate, true
}

// TruncateContent bounds prompt content to MaxContentLen characters.
func TruncateContent(content string) string {
	runes := []rune(content)
	if len(runes) <= MaxContentLen {
		return content
	}
	return string(runes[:MaxContentLen])
}

// TruncateTitle bounds a title to MaxTitleLen characters, ellipsis-marked.
// Parameters:
//   - title: raw title.
// Returns:
//   - string: title of at most 100 characters; truncated titles end in "...".
func TruncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= MaxTitleLen {
		return title
	}
	return string(runes[:MaxTitleLen-3]) + "..."
}
