package internal

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc
}

func TestContainerSelectors_Tiers(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		wantTier int
		wantLen  int
	}{
		{
			name:     "tier 0 msg-container",
			html:     `<div data-testid="msg-container">a</div><div data-testid="msg-container">b</div>`,
			wantTier: 0,
			wantLen:  2,
		},
		{
			name:     "tier 1 conversation-message",
			html:     `<div data-testid="conversation-message">a</div>`,
			wantTier: 1,
			wantLen:  1,
		},
		{
			name:     "tier 2 partial msg match",
			html:     `<div data-testid="msg-bubble">a</div><div data-testid="msg-bubble">b</div><div data-testid="msg-bubble">c</div>`,
			wantTier: 2,
			wantLen:  3,
		},
		{
			name:     "tier 3 direction classes",
			html:     `<div class="message-in">a</div><div class="message-out">b</div>`,
			wantTier: 3,
			wantLen:  2,
		},
		{
			name:     "tier 4 partial message match",
			html:     `<div data-testid="chat-message-row">a</div>`,
			wantTier: 4,
			wantLen:  1,
		},
		{
			name:     "tier 5 role row",
			html:     `<div role="row">a</div><div role="row">b</div>`,
			wantTier: 5,
			wantLen:  2,
		},
		{
			name:     "no tier matches",
			html:     `<div class="unrelated">a</div>`,
			wantTier: -1,
			wantLen:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseHTML(t, "<html><body>"+tt.html+"</body></html>")

			if got := ContainerSelectors.Tier(doc.Selection); got != tt.wantTier {
				t.Errorf("Tier() = %d, want %d", got, tt.wantTier)
			}
			if got := ContainerSelectors.Resolve(doc.Selection).Length(); got != tt.wantLen {
				t.Errorf("Resolve() matched %d, want %d", got, tt.wantLen)
			}
		})
	}
}

func TestSelectorChain_FirstTierWinsWithoutMerging(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<div class="message-in"><div data-testid="msg-container">only</div></div>
		<div class="message-out">ignored</div>
		<div class="message-in">ignored</div>
	</body></html>`)

	sel := ContainerSelectors.Resolve(doc.Selection)
	if sel.Length() != 1 {
		t.Fatalf("Resolve() matched %d, want 1", sel.Length())
	}
	if got := sel.Text(); got != "only" {
		t.Errorf("Resolve() text = %q, want %q", got, "only")
	}
}

func TestSelectorChain_SkipsInvalidSelectors(t *testing.T) {
	doc := parseHTML(t, `<html><body><p class="x">hit</p></body></html>`)
	chain := SelectorChain{`[[broken`, `.x`}

	if got := chain.Tier(doc.Selection); got != 1 {
		t.Errorf("Tier() = %d, want 1", got)
	}
	if got := chain.First(doc.Selection).Text(); got != "hit" {
		t.Errorf("First() text = %q, want %q", got, "hit")
	}
}

func TestSelectorChain_Empty(t *testing.T) {
	doc := parseHTML(t, `<html><body><p>text</p></body></html>`)

	var chain SelectorChain
	sel := chain.Resolve(doc.Selection)
	if sel == nil || sel.Length() != 0 {
		t.Errorf("Resolve() on empty chain should return an empty selection")
	}
	if chain.Tier(doc.Selection) != -1 {
		t.Errorf("Tier() on empty chain should be -1")
	}
}

func TestSelectorsFromConfig(t *testing.T) {
	s := SelectorsFromConfig(SelectorConfig{Containers: []string{".bubble"}})

	if s.Containers.String() != ".bubble" {
		t.Errorf("Containers = %v, want override", s.Containers)
	}
	if len(s.Text) != len(TextSelectors) {
		t.Errorf("Text chain should keep the defaults when not overridden")
	}
}
