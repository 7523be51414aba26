package internal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
)

// Analyzer is the subset of AnalysisClient the overlay depends on
type Analyzer interface {
	SuggestReplies(ctx context.Context, messages []Message, query string) (*ReplyAnalysis, error)
	GenerateStats(ctx context.Context, messages []Message) (*StatsReport, error)
}

// Overlay owns the session and the dashboard and runs the
// extract → analyze → render pipeline against one page source.
type Overlay struct {
	cfg       *Config
	source    DocumentSource
	client    Analyzer
	selectors Selectors
	extractor *Extractor
	session   *SessionState
	dashboard *Dashboard

	// pipeline serializes session writes and dashboard resets so data from
	// two chats never interleaves.
	pipeline      sync.Mutex
	statsInFlight atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOverlay creates an overlay. Background analysis requests live until
// Close is called.
func NewOverlay(cfg *Config, source DocumentSource, client Analyzer) *Overlay {
	selectors := SelectorsFromConfig(cfg.Selectors)
	ctx, cancel := context.WithCancel(context.Background())
	return &Overlay{
		cfg:       cfg,
		source:    source,
		client:    client,
		selectors: selectors,
		extractor: NewExtractor(cfg.MessageLimit, WithSelectors(selectors)),
		session:   NewSessionState(),
		dashboard: NewDashboard(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (o *Overlay) Session() *SessionState {
	return o.session
}

func (o *Overlay) Dashboard() *Dashboard {
	return o.dashboard
}

// Refresh extracts the current page into the session. A load failure
// leaves an empty session and is returned for logging only.
func (o *Overlay) Refresh(ctx context.Context) error {
	o.pipeline.Lock()
	defer o.pipeline.Unlock()
	_, _, err := o.refreshLocked(ctx)
	return err
}

func (o *Overlay) refreshLocked(ctx context.Context) (uint64, []Message, error) {
	var (
		chatID   string
		messages []Message
	)

	doc, err := o.source.Load(ctx)
	if err != nil {
		LogWarn("Could not load page from %s source: %v", o.source.Name(), err)
		messages = []Message{}
	} else {
		chatID = ChatIdentity(doc, o.selectors.ChatTitle)
		messages = o.extractor.ExtractDocument(doc.DOM)
		LogDebug("Extracted %d message(s) from %q", len(messages), chatID)
	}

	o.session.Replace(chatID, o.source.Name(), messages)
	return o.session.Generation(), o.session.Messages(), err
}

// Analyze handles the inbound analyze command: it extracts the page, opens
// the dashboard and starts a fresh analysis.
func (o *Overlay) Analyze(ctx context.Context, reason string) {
	if reason != "" {
		LogInfo("Analysis requested: %s", reason)
	}

	o.pipeline.Lock()
	gen, messages, _ := o.refreshLocked(ctx)
	o.dashboard.Open()
	o.dashboard.Reset(gen, messages)
	o.pipeline.Unlock()

	o.startAnalysis(gen, messages)
}

// ResetForNewChat clears the dashboard panels, fills the chat panel from the
// current session and starts the initial analysis and statistics requests.
func (o *Overlay) ResetForNewChat(ctx context.Context) {
	o.pipeline.Lock()
	gen := o.session.Generation()
	messages := o.session.Messages()
	o.dashboard.Reset(gen, messages)
	o.pipeline.Unlock()

	o.startAnalysis(gen, messages)
}

// OnChatChanged is the monitor callback
func (o *Overlay) OnChatChanged(ctx context.Context, change ChatChange) {
	o.pipeline.Lock()
	o.session.Clear()
	o.dashboard.Reset(o.session.Generation(), nil)
	gen, messages, _ := o.refreshLocked(ctx)
	o.dashboard.Reset(gen, messages)
	o.pipeline.Unlock()

	LogInfo("Loaded %d message(s) for %q", len(messages), change.Current)

	// Nobody is looking at a closed dashboard; it is reset again on open.
	if o.cfg.Features.RealTimeAnalysis && o.dashboard.IsOpen() {
		o.startAnalysis(gen, messages)
	}
}

// startAnalysis runs the initial reply request and the statistics request
// in the background. Results are tagged with gen and dropped once stale.
func (o *Overlay) startAnalysis(gen uint64, messages []Message) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.initialReply(o.ctx, gen, messages)
	}()

	if !o.cfg.Features.StatisticsUpdate {
		return
	}
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.RefreshStats(o.ctx)
	}()
}

func (o *Overlay) initialReply(ctx context.Context, gen uint64, messages []Message) {
	o.dashboard.BeginReply(gen, "")

	reply, err := o.client.SuggestReplies(ctx, messages, InitialQuery)
	if err != nil {
		LogError("Initial analysis failed: %v", err)
		o.dashboard.ApplyReplyFailure(gen, true)
		return
	}
	if !o.dashboard.ApplyReply(gen, reply, true, false) {
		LogDebug("Dropped initial analysis for stale generation %d", gen)
	}
}

// Ask sends a user question about the current chat. Failures are shown in
// the assistant panel and returned.
func (o *Overlay) Ask(ctx context.Context, query string) (*ReplyAnalysis, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("empty question")
	}

	gen := o.session.Generation()
	messages := o.session.Messages()
	o.dashboard.BeginReply(gen, query)

	reply, err := o.client.SuggestReplies(ctx, messages, query)
	if err != nil {
		LogError("Question failed: %v", err)
		o.dashboard.ApplyReplyFailure(gen, false)
		return nil, err
	}

	applyTone := o.cfg.Features.ToneAnalysis && o.cfg.Features.StatisticsUpdate
	if !o.dashboard.ApplyReply(gen, reply, false, applyTone) {
		LogDebug("Dropped answer for stale generation %d", gen)
	}
	return reply, nil
}

// RefreshStats requests statistics for the current session. At most one
// request is in flight; a trigger while one is running returns false and
// does nothing. If the session was replaced while the request ran, its
// result is dropped and one request for the new session follows.
func (o *Overlay) RefreshStats(ctx context.Context) bool {
	if !o.cfg.Features.ComprehensiveStats {
		return false
	}
	if !o.statsInFlight.CompareAndSwap(false, true) {
		LogDebug("Statistics request already in flight, skipping")
		return false
	}

	gen := o.session.Generation()
	o.requestStats(ctx, gen, o.session.Messages())
	o.statsInFlight.Store(false)

	if o.session.Generation() != gen && ctx.Err() == nil {
		LogDebug("Session changed during statistics request, refreshing for generation %d", o.session.Generation())
		o.RefreshStats(ctx)
	}
	return true
}

func (o *Overlay) requestStats(ctx context.Context, gen uint64, messages []Message) {
	o.dashboard.BeginStats(gen)

	report, err := o.client.GenerateStats(ctx, messages)
	if err != nil {
		LogError("Statistics request failed: %v", err)
		o.dashboard.ApplyStatsFailure(gen)
		return
	}
	if !o.dashboard.ApplyStats(gen, report) {
		LogDebug("Dropped statistics for stale generation %d", gen)
	}
}

// Watch runs the chat identity monitor until ctx is cancelled, resetting
// the pipeline on every chat change
func (o *Overlay) Watch(ctx context.Context, opts ...MonitorOption) error {
	monitor := NewMonitor(SourceIdentity(o.source, o.selectors.ChatTitle), o.cfg.PollInterval, o.OnChatChanged, opts...)
	return monitor.Run(ctx)
}

// Wait blocks until all background analysis requests have finished
func (o *Overlay) Wait() {
	o.wg.Wait()
}

// Close cancels background requests and waits for them to return
func (o *Overlay) Close() {
	o.cancel()
	o.wg.Wait()
}
