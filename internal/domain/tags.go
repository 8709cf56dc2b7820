package domain

import "strings"

const MaxTagLen = 24

// CleanTag lowercases a tag, strips everything outside [a-z0-9_-] and
// truncates to MaxTagLen. Returns "" for tags that clean away entirely.
func CleanTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	var b strings.Builder
	for _, r := range tag {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' || r == '-' {
			b.WriteByte(byte(r))
		}
	}
	out := b.String()
	if len(out) > MaxTagLen {
		out = out[:MaxTagLen]
	}
	return out
}

// ParseTags splits free text on commas and whitespace and normalizes each
// piece, dropping empties and duplicates.
func ParseTags(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	return NormalizeTags(fields)
}

// NormalizeTags cleans an explicit tag list, dropping empties and
// duplicates while preserving first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		c := CleanTag(t)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// SanitizeText trims chat input and hard-caps it at max runes.
// Empty after trim means the message should be dropped.
func SanitizeText(text string, max int) string {
	text = strings.TrimSpace(text)
	if r := []rune(text); len(r) > max {
		text = string(r[:max])
	}
	return text
}
