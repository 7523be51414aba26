package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// Document is one loaded snapshot of the chat page
type Document struct {
	DOM *goquery.Document
	URL *url.URL
}

// Path returns the URL path of the page, used as the fallback chat identity
func (d *Document) Path() string {
	if d == nil || d.URL == nil {
		return ""
	}
	return d.URL.Path
}

// DocumentSource loads the current state of the chat page
type DocumentSource interface {
	Load(ctx context.Context) (*Document, error)
	Name() string
}

// NewSource picks a source implementation from the configuration
func NewSource(cfg SourceConfig) (DocumentSource, error) {
	switch {
	case cfg.File != "":
		return NewFileSource(cfg.File), nil
	case cfg.URL != "":
		return NewHTTPSource(cfg.URL), nil
	case cfg.Browser != "":
		return NewBrowserSource(cfg.Browser, cfg.PageMatch), nil
	default:
		return nil, errors.New("no page source configured (use --file, --url or --browser)")
	}
}

// NewDocument parses HTML into a Document
func NewDocument(r io.Reader, pageURL *url.URL) (*Document, error) {
	dom, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	dom.Url = pageURL
	return &Document{DOM: dom, URL: pageURL}, nil
}

// FileSource reads a saved page from disk on every load
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return "file"
}

func (s *FileSource) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, &SourceError{Source: s.Name(), Op: "open", Err: err}
	}
	defer func() { _ = f.Close() }()

	abs, err := filepath.Abs(s.path)
	if err != nil {
		abs = s.path
	}

	doc, err := NewDocument(f, &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)})
	if err != nil {
		return nil, &SourceError{Source: s.Name(), Op: "parse", Err: err}
	}
	return doc, nil
}

// HTTPSource fetches the page from a URL on every load
type HTTPSource struct {
	pageURL    string
	httpClient *http.Client
}

// NewHTTPSource creates a URL-backed source
func NewHTTPSource(pageURL string) *HTTPSource {
	return &HTTPSource{
		pageURL: pageURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *HTTPSource) Name() string {
	return "http"
}

func (s *HTTPSource) Load(ctx context.Context) (*Document, error) {
	u, err := url.Parse(s.pageURL)
	if err != nil {
		return nil, &SourceError{Source: s.Name(), Op: "parse", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.pageURL, nil)
	if err != nil {
		return nil, &SourceError{Source: s.Name(), Op: "fetch", Err: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &SourceError{Source: s.Name(), Op: "fetch", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &SourceError{Source: s.Name(), Op: "fetch", Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	doc, err := NewDocument(resp.Body, u)
	if err != nil {
		return nil, &SourceError{Source: s.Name(), Op: "parse", Err: err}
	}
	return doc, nil
}

// BrowserSource reads the live DOM of a tab in a running Chrome over the
// DevTools protocol. The connection is opened lazily on the first load.
type BrowserSource struct {
	controlURL string
	pageMatch  string

	mu       sync.Mutex
	browser  *rod.Browser
	launched bool

	// dial overrides dialDevTools in tests
	dial func() (*rod.Browser, bool, error)
}

// NewBrowserSource creates a browser-backed source. controlURL is a DevTools
// websocket URL, or "launch" to start a local browser.
func NewBrowserSource(controlURL, pageMatch string) *BrowserSource {
	return &BrowserSource{
		controlURL: controlURL,
		pageMatch:  pageMatch,
	}
}

func (s *BrowserSource) Name() string {
	return "browser"
}

// connect returns the cached connection or dials a new one. ctx is only
// checked before dialing; the connection itself lives until Close or until
// the browser goes away.
func (s *BrowserSource) connect(ctx context.Context) (*rod.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		return s.browser, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, &SourceError{Source: s.Name(), Op: "connect", Err: err}
	}

	dial := s.dial
	if dial == nil {
		dial = s.dialDevTools
	}
	browser, launched, err := dial()
	if err != nil {
		return nil, err
	}

	s.browser = browser
	s.launched = launched
	return browser, nil
}

func (s *BrowserSource) dialDevTools() (*rod.Browser, bool, error) {
	controlURL := s.controlURL
	launched := false
	if controlURL == "launch" {
		u, err := launcher.New().Headless(false).Launch()
		if err != nil {
			return nil, false, &SourceError{Source: s.Name(), Op: "launch", Err: err}
		}
		controlURL = u
		launched = true
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, false, &SourceError{Source: s.Name(), Op: "connect", Err: err}
	}
	LogInfo("Connected to browser at %s", controlURL)
	return browser, launched, nil
}

// disconnect forgets a connection that stopped answering so the next load
// dials again
func (s *BrowserSource) disconnect(browser *rod.Browser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser == browser {
		s.browser = nil
		s.launched = false
	}
}

func (s *BrowserSource) Load(ctx context.Context) (*Document, error) {
	browser, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	pages, err := browser.Context(ctx).Pages()
	if err != nil {
		if ctx.Err() == nil {
			LogWarn("Lost browser connection, reconnecting on next load: %v", err)
			s.disconnect(browser)
		}
		return nil, &SourceError{Source: s.Name(), Op: "pages", Err: err}
	}

	for _, page := range pages {
		info, err := page.Info()
		if err != nil {
			continue
		}
		if s.pageMatch != "" && !strings.Contains(info.URL, s.pageMatch) {
			continue
		}

		html, err := page.Context(ctx).HTML()
		if err != nil {
			return nil, &SourceError{Source: s.Name(), Op: "read", Err: err}
		}

		u, err := url.Parse(info.URL)
		if err != nil {
			u = &url.URL{Path: info.URL}
		}

		doc, err := NewDocument(strings.NewReader(html), u)
		if err != nil {
			return nil, &SourceError{Source: s.Name(), Op: "parse", Err: err}
		}
		return doc, nil
	}

	return nil, &SourceError{Source: s.Name(), Op: "find", Err: fmt.Errorf("no open page matching %q", s.pageMatch)}
}

// Close shuts down a browser started with "launch". A browser we only
// attached to is left running; the connection ends with the process.
func (s *BrowserSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser == nil {
		return nil
	}
	var err error
	if s.launched {
		err = s.browser.Close()
	}
	s.browser = nil
	return err
}
