package internal

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// SelectorChain is an ordered list of CSS selectors tried in priority order.
// The first selector with at least one match wins; results are never merged
// across selectors.
type SelectorChain []string

// Default selector chains for the chat page. The host page markup is not
// documented and changes between releases, hence the number of tiers.
var (
	ContainerSelectors = SelectorChain{
		`[data-testid="msg-container"]`,
		`[data-testid="conversation-message"]`,
		`[data-testid*="msg"]`,
		`.message-in, .message-out`,
		`[data-testid*="message"], [data-testid*="msg"]`,
		`[role="row"]`,
	}

	TextSelectors = SelectorChain{
		`[data-testid="msg-text"]`,
		`[data-testid="conversation-message-text"]`,
		`.selectable-text`,
		`[data-testid*="text"]`,
		`[data-testid*="emoji"]`,
		`[data-testid*="media"]`,
		`[data-testid*="image"]`,
		`[data-testid*="document"]`,
	}

	TimestampSelectors = SelectorChain{
		`[data-testid="msg-meta"]`,
		`[data-testid="conversation-message-time"]`,
		`[data-testid*="time"]`,
	}

	ChatTitleSelectors = SelectorChain{
		`[data-testid="conversation-title"]`,
		`[data-testid="chat-subtitle"]`,
		`.chat-title`,
	}
)

// Selectors bundles the chains used by one extraction pass
type Selectors struct {
	Containers SelectorChain
	Text       SelectorChain
	Timestamp  SelectorChain
	ChatTitle  SelectorChain
}

// DefaultSelectors returns the built-in chains
func DefaultSelectors() Selectors {
	return Selectors{
		Containers: ContainerSelectors,
		Text:       TextSelectors,
		Timestamp:  TimestampSelectors,
		ChatTitle:  ChatTitleSelectors,
	}
}

// SelectorsFromConfig applies configured overrides on top of the defaults
func SelectorsFromConfig(cfg SelectorConfig) Selectors {
	s := DefaultSelectors()
	if len(cfg.Containers) > 0 {
		s.Containers = SelectorChain(cfg.Containers)
	}
	if len(cfg.Text) > 0 {
		s.Text = SelectorChain(cfg.Text)
	}
	if len(cfg.Timestamp) > 0 {
		s.Timestamp = SelectorChain(cfg.Timestamp)
	}
	if len(cfg.ChatTitle) > 0 {
		s.ChatTitle = SelectorChain(cfg.ChatTitle)
	}
	return s
}

// Resolve returns the matches of the first selector that matches anything
// below scope, or an empty selection when no tier matches.
func (c SelectorChain) Resolve(scope *goquery.Selection) *goquery.Selection {
	sel, _ := c.resolve(scope)
	return sel
}

// First returns the first element matched by Resolve
func (c SelectorChain) First(scope *goquery.Selection) *goquery.Selection {
	return c.Resolve(scope).First()
}

// Tier returns the index of the winning selector, or -1 if none matched
func (c SelectorChain) Tier(scope *goquery.Selection) int {
	_, tier := c.resolve(scope)
	return tier
}

func (c SelectorChain) resolve(scope *goquery.Selection) (*goquery.Selection, int) {
	for i, raw := range c {
		matcher, err := cascadia.Compile(raw)
		if err != nil {
			LogDebug("Skipping invalid selector %q: %v", raw, err)
			continue
		}
		if found := scope.FindMatcher(matcher); found.Length() > 0 {
			return found, i
		}
	}
	return scope.Slice(0, 0), -1
}

// String joins the chain for log output
func (c SelectorChain) String() string {
	return strings.Join(c, " | ")
}
