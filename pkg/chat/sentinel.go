package chat

import (
	"regexp"
	"strings"
)

// The backend occasionally wraps answer text in <ANSWER> markers. They are
// protocol artifacts and must never reach display or persistence.
var answerTagRegex = regexp.MustCompile(`(?is)</?answer>`)

var answerBlockRegex = regexp.MustCompile(`(?is)<answer>(.*?)</answer>`)

// StripAnswerTags removes any <ANSWER>/</ANSWER> markers from content and
// trims surrounding whitespace
func StripAnswerTags(content string) string {
	return strings.TrimSpace(answerTagRegex.ReplaceAllString(content, ""))
}

// ExtractAnswer returns the text delimited by a complete <ANSWER> block when
// one exists, otherwise the tag-stripped content.
func ExtractAnswer(content string) string {
	matches := answerBlockRegex.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return StripAnswerTags(content)
	}

	var parts []string
	for _, m := range matches {
		if len(m) > 1 && strings.TrimSpace(m[1]) != "" {
			parts = append(parts, strings.TrimSpace(m[1]))
		}
	}
	return strings.Join(parts, "\n\n")
}
