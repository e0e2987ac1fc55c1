package extract

import "strings"

// MaxTags bounds the tag set attached to one prompt.
const MaxTags = 5

type tagRule struct {
	match string
	tag   string
}

// feedTagRules map known feed-name fragments to tags, in fixed order.
var feedTagRules = []tagRule{
	{"promptgenius", "chatgpt"},
	{"promptengineering", "prompt-engineering"},
	{"chatgptcoding", "coding"},
	{"writing", "writing"},
	{"chatgpt", "chatgpt"},
	{"artificial", "ai"},
}

// contentTagRules map content keywords to tags, in fixed order.
var contentTagRules = []tagRule{
	{"email", "email"},
	{"essay", "writing"},
	{"story", "storytelling"},
	{"blog", "blogging"},
	{"code", "coding"},
	{"python", "python"},
	{"javascript", "javascript"},
	{"debug", "debugging"},
	{"marketing", "marketing"},
	{"seo", "seo"},
	{"resume", "career"},
	{"interview", "career"},
	{"summarize", "summarization"},
	{"translate", "translation"},
	{"study", "learning"},
	{"teacher", "education"},
	{"roleplay", "roleplay"},
	{"image", "image-generation"},
}

// Tags derives a bounded tag set for extracted content: feed-derived tags
// first, then content-keyword tags, deduplicated in first-seen order and
// capped at MaxTags. All produced tags are lowercase `[a-z0-9 -]`.
// Parameters:
//   - content: extracted prompt content.
//   - feed: originating feed identifier.
// Returns:
//   - []string: at most MaxTags distinct tags.
func Tags(content, feed string) []string {
	var tags []string

	lowerFeed := strings.ToLower(feed)
	for _, rule := range feedTagRules {
		if strings.Contains(lowerFeed, rule.match) {
			tags = append(tags, rule.tag)
		}
	}

	lowerContent := strings.ToLower(content)
	for _, rule := range contentTagRules {
		if strings.Contains(lowerContent, rule.match) {
			tags = append(tags, rule.tag)
		}
	}

	return dedupeTags(tags)
}

// dedupeTags removes duplicates preserving first-seen order and caps the
// result at MaxTags.
func dedupeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	result := []string{}
	for _, tag := range tags {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
		if len(result) == MaxTags {
			break
		}
	}
	return result
}
