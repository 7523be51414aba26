package internal

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	PlaceholderImage = "[Image]"
	PlaceholderMedia = "[Media/Emoji]"
)

const (
	blobImageSelector = `img[src^="blob:"]`
	emojiSelector     = `img[data-plain-text]`
	emojiAttr         = "data-plain-text"
)

// The host page sometimes renders the message time into the text node.
var leadingTimestamp = regexp.MustCompile(`^\d{1,2}:\d{2}\s*`)

// textStrategy tries to produce a message body from a container and its
// resolved text element. ok is false when the strategy does not apply.
type textStrategy func(container, element *goquery.Selection) (text string, emoji bool, ok bool)

// textStrategies are tried in order; the first that applies wins.
var textStrategies = []textStrategy{
	blobImageText,
	elementText,
	containerText,
}

// ExtractMessageText picks the body of one message container using a
// four-tier strategy:
// 1. Inline blob image: "[Image]"
// 2. Resolved text element with non-empty text (plus emoji plain-text)
// 3. Container text (plus emoji plain-text)
// 4. Placeholder "[Media/Emoji]"
func ExtractMessageText(container, element *goquery.Selection) string {
	for _, strategy := range textStrategies {
		text, emoji, ok := strategy(container, element)
		if !ok {
			continue
		}
		if emoji {
			text = leadingTimestamp.ReplaceAllString(text, "")
		}
		return text
	}
	return PlaceholderMedia
}

func blobImageText(container, _ *goquery.Selection) (string, bool, bool) {
	if container.Find(blobImageSelector).Length() > 0 {
		return PlaceholderImage, false, true
	}
	return "", false, false
}

func elementText(_, element *goquery.Selection) (string, bool, bool) {
	if element == nil || element.Length() == 0 {
		return "", false, false
	}
	return textWithEmoji(element)
}

func containerText(container, _ *goquery.Selection) (string, bool, bool) {
	return textWithEmoji(container)
}

// textWithEmoji returns the trimmed text of sel with the plain-text value of
// any emoji images appended.
func textWithEmoji(sel *goquery.Selection) (string, bool, bool) {
	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return "", false, false
	}

	images := sel.Find(emojiSelector)
	if images.Length() == 0 {
		return text, false, true
	}
	return text + emojiText(images), true, true
}

func emojiText(images *goquery.Selection) string {
	var b strings.Builder
	images.Each(func(_ int, img *goquery.Selection) {
		v, _ := img.Attr(emojiAttr)
		b.WriteString(v)
	})
	return b.String()
}
