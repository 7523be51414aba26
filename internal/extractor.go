package internal

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	outgoingMarkerSelector = `[data-testid="msg-out"]`
	outgoingClass          = "message-out"
	highlightAttr          = "data-tona-highlighted"
)

// Extractor pulls messages out of a rendered chat page
type Extractor struct {
	limit     int
	selectors Selectors
	highlight bool
}

// ExtractorOption configures an Extractor
type ExtractorOption func(*Extractor)

// WithSelectors replaces the selector chains
func WithSelectors(s Selectors) ExtractorOption {
	return func(e *Extractor) {
		e.selectors = s
	}
}

// WithHighlight marks processed containers in the in-memory DOM
func WithHighlight() ExtractorOption {
	return func(e *Extractor) {
		e.highlight = true
	}
}

// NewExtractor creates an extractor keeping at most limit messages.
// A non-positive limit falls back to DefaultMessageLimit.
func NewExtractor(limit int, opts ...ExtractorOption) *Extractor {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	e := &Extractor{
		limit:     limit,
		selectors: DefaultSelectors(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Limit returns the maximum number of messages per pass
func (e *Extractor) Limit() int {
	return e.limit
}

// Extract returns the most recent messages below scope, oldest first.
// It never fails: missing elements degrade to placeholder values and a page
// without message containers yields an empty slice.
func (e *Extractor) Extract(scope *goquery.Selection) []Message {
	containers, tier := e.selectors.Containers.resolve(scope)
	total := containers.Length()
	if total == 0 {
		LogDebug("No message containers found")
		return []Message{}
	}
	LogDebug("Found %d message container(s) via tier %d (%s)", total, tier, e.selectors.Containers[tier])

	if total > e.limit {
		containers = containers.Slice(total-e.limit, total)
	}

	messages := make([]Message, 0, containers.Length())
	containers.Each(func(i int, container *goquery.Selection) {
		msg := e.extractOne(container)
		if e.highlight {
			container.SetAttr(highlightAttr, "true")
		}
		LogDebug("Message %d: sender=%s outgoing=%t timestamp=%q text=%q", i+1, msg.Sender, msg.IsOutgoing, msg.Timestamp, msg.Text)
		messages = append(messages, msg)
	})

	return messages
}

// ExtractDocument runs Extract over a whole document
func (e *Extractor) ExtractDocument(doc *goquery.Document) []Message {
	if doc == nil {
		return []Message{}
	}
	return e.Extract(doc.Selection)
}

func (e *Extractor) extractOne(container *goquery.Selection) Message {
	element := e.selectors.Text.First(container)
	if element.Length() == 0 {
		element = container
	}

	text := ExtractMessageText(container, element)
	return NewMessage(text, e.timestamp(container), isOutgoing(container))
}

func (e *Extractor) timestamp(container *goquery.Selection) string {
	el := e.selectors.Timestamp.First(container)
	if el.Length() == 0 {
		return ""
	}
	return el.Text()
}

func isOutgoing(container *goquery.Selection) bool {
	if container.Closest(outgoingMarkerSelector).Length() > 0 {
		return true
	}
	return container.HasClass(outgoingClass)
}

// ChatTitle returns the text of the first chat heading, trimmed
func ChatTitle(scope *goquery.Selection, chain SelectorChain) string {
	el := chain.First(scope)
	if el.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(el.Text())
}
