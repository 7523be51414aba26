package internal

import (
	"regexp"
	"strings"
)

// Patterns for messages the host page renders after a delete or recall,
// most specific first.
var deletedMessagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`recalledYou deleted this message\d{2}:\d{2}\d{2}:\d{2}`),
	regexp.MustCompile(`recalledThis message was deleted\d{2}:\d{2}\d{2}:\d{2}`),
	regexp.MustCompile(`recalledYou deleted this message`),
	regexp.MustCompile(`recalledThis message was deleted`),
	regexp.MustCompile(`You deleted this message\d{2}:\d{2}\d{2}:\d{2}`),
	regexp.MustCompile(`This message was deleted\d{2}:\d{2}\d{2}:\d{2}`),
	regexp.MustCompile(`You deleted this message`),
	regexp.MustCompile(`This message was deleted`),
}

// DetectDeleted reports whether text is a deleted-message marker and returns
// the text with the first matching marker removed
func DetectDeleted(text string) (bool, string) {
	for _, pattern := range deletedMessagePatterns {
		loc := pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		return true, strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
	}
	return false, text
}
