// Package sync fetches unread mail in the background and categorizes it,
// reporting progress and results to the UI as Bubble Tea messages.
package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/mailbuckets/internal/mail"
	"github.com/nhle/mailbuckets/internal/model"
)

// Fetcher returns the newest unread messages.
type Fetcher interface {
	FetchUnread(ctx context.Context, limit int) ([]*model.Email, error)
}

// Categorizer assigns each email to a bucket, in order, reporting progress
// after every email.
type Categorizer interface {
	CategorizeAll(
		ctx context.Context,
		emails []*model.Email,
		buckets []model.Bucket,
		progress func(done, total int),
	) []model.Categorization
}

// BucketLister supplies the candidate buckets in store order.
type BucketLister interface {
	ListBuckets(ctx context.Context) []model.Bucket
}

// SyncState represents the current state of the poller.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncFetching
	SyncCategorizing
	SyncError
)

// SyncStatus is a snapshot of the poller state.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Error    error
}

// ProgressMsg reports how many fetched emails have been categorized.
type ProgressMsg struct {
	Done  int
	Total int
}

// SyncResultMsg is sent when a fetch-and-categorize run completes.
type SyncResultMsg struct {
	Results []model.Categorization

	// NoBuckets is set when mail was fetched but no buckets exist, so
	// nothing was categorized.
	NoBuckets bool

	Error     error
	AuthError *AuthErrorMsg
}

// AuthErrorMsg describes a rejected mail login.
type AuthErrorMsg struct {
	Message string
}

// fetchTimeout bounds the IMAP part of a run.
const fetchTimeout = 60 * time.Second

// Poller runs fetch-and-categorize passes on demand and, when an interval
// is configured, on a timer. Only one pass runs at a time.
type Poller struct {
	fetcher     Fetcher
	categorizer Categorizer
	buckets     BucketLister
	limit       int
	interval    time.Duration
	logger      *zap.Logger

	status    SyncStatus
	msgCh     chan tea.Msg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
}

// Config holds the poller settings.
type Config struct {
	// Limit caps the number of unread messages fetched per run.
	Limit int

	// Interval enables periodic runs when positive.
	Interval time.Duration
}

// New creates a Poller.
func New(
	f Fetcher,
	c Categorizer,
	b BucketLister,
	cfg Config,
	logger *zap.Logger,
) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		fetcher:     f,
		categorizer: c,
		buckets:     b,
		limit:       cfg.Limit,
		interval:    cfg.Interval,
		logger:      logger,
		msgCh:       make(chan tea.Msg, 64),
		triggerCh:   make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
	}
}

// Start launches the polling goroutine, queues an initial run, and returns
// a command that delivers the first message.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()
	p.Refresh()

	return p.WaitForNext()
}

// Stop halts the polling goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh queues an immediate run. It is a no-op while one is pending.
func (p *Poller) Refresh() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
}

// Status returns the current poller state.
func (p *Poller) Status() SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// WaitForNext returns a command that waits for the next progress or
// result message. Call it again after handling each one.
func (p *Poller) WaitForNext() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-p.msgCh:
			return msg
		case <-p.stopCh:
			return nil
		}
	}
}

func (p *Poller) loop() {
	var tick <-chan time.Time
	if p.interval > 0 {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-p.stopCh
		cancel()
	}()

	for {
		select {
		case <-p.stopCh:
			return
		case <-tick:
			p.send(p.Run(ctx))
		case <-p.triggerCh:
			p.send(p.Run(ctx))
		}
	}
}

// Run performs one fetch-and-categorize pass, sending ProgressMsg values
// as emails are categorized, and returns the final result.
func (p *Poller) Run(ctx context.Context) SyncResultMsg {
	p.setStatus(SyncFetching, nil)

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	emails, err := p.fetcher.FetchUnread(fetchCtx, p.limit)
	cancel()
	if err != nil {
		p.setStatus(SyncError, err)
		p.logger.Error("fetching unread mail failed", zap.Error(err))

		if mail.IsAuthError(err) {
			return SyncResultMsg{
				Error: err,
				AuthError: &AuthErrorMsg{
					Message: "mail login failed. Run 'mailbuckets login' to update the password.",
				},
			}
		}
		return SyncResultMsg{Error: err}
	}

	buckets := p.buckets.ListBuckets(ctx)
	if len(buckets) == 0 && len(emails) > 0 {
		p.setStatus(SyncIdle, nil)
		p.logger.Warn("no buckets defined, skipping categorization",
			zap.Int("emails", len(emails)),
		)
		return SyncResultMsg{NoBuckets: true}
	}

	p.setStatus(SyncCategorizing, nil)

	results := p.categorizer.CategorizeAll(ctx, emails, buckets, func(done, total int) {
		p.send(ProgressMsg{Done: done, Total: total})
	})

	p.setStatus(SyncIdle, nil)
	p.logger.Info("sync complete", zap.Int("emails", len(results)))

	return SyncResultMsg{Results: results}
}

func (p *Poller) setStatus(state SyncState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == SyncIdle {
		p.status.LastSync = time.Now()
	}
}

// send delivers msg unless the poller is stopped. Progress messages are
// dropped rather than blocking when the UI falls behind.
func (p *Poller) send(msg tea.Msg) {
	if _, progress := msg.(ProgressMsg); progress {
		select {
		case p.msgCh <- msg:
		default:
		}
		return
	}

	select {
	case p.msgCh <- msg:
	case <-p.stopCh:
	}
}
