package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/frelanci/orderchat/internal/adapter/marketplace"
	domainErrors "github.com/frelanci/orderchat/internal/domain/errors"
	"github.com/frelanci/orderchat/internal/domain/model"
	"github.com/frelanci/orderchat/internal/media"
)

// API is the subset of marketplace operations the engine consumes.
type API interface {
	Order(ctx context.Context, id string) (*model.Order, error)
	SendMessage(ctx context.Context, orderID string, msg marketplace.OutgoingMessage) error
}

// Class is the rendering classification of a message relative to the viewer.
type Class int

const (
	ClassSystem Class = iota
	ClassOwn
	ClassTheirs
)

// Engine maintains the conversation state of a single order: the latest
// server snapshot, the draft being composed, and the in-flight send flag.
// The server is the sole source of truth; every refresh fully replaces the
// snapshot and no message is ever appended or reordered locally.
type Engine struct {
	api          API
	orderID      string
	viewer       model.SessionUser
	pollInterval time.Duration
	logger       *slog.Logger

	mu         sync.Mutex
	order      *model.Order
	draftText  string
	draftMedia *media.Attachment
	sending    bool
	issued     uint64
	applied    uint64
	onUpdate   func(*model.Order)

	runMu  sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine creates a conversation engine for one order as seen by viewer.
func NewEngine(api API, orderID string, viewer model.SessionUser, pollInterval time.Duration, logger *slog.Logger) *Engine {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Engine{
		api:          api,
		orderID:      orderID,
		viewer:       viewer,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// OnUpdate registers a callback invoked with a snapshot copy after every
// applied load. The callback runs outside the engine lock.
func (e *Engine) OnUpdate(fn func(*model.Order)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onUpdate = fn
}

// OrderID returns the identifier of the order this engine is attached to.
func (e *Engine) OrderID() string {
	return e.orderID
}

// Viewer returns the identity the engine classifies messages against.
func (e *Engine) Viewer() model.SessionUser {
	return e.viewer
}

// Load fetches the order and replaces the snapshot. Loads are
// sequence-stamped: a response arriving after a later-issued load has
// already been applied is discarded, so overlapping refreshes can never
// roll the conversation back.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	e.issued++
	seq := e.issued
	e.mu.Unlock()

	order, err := e.api.Order(ctx, e.orderID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if seq <= e.applied {
		e.mu.Unlock()
		return nil
	}
	e.applied = seq
	e.order = order
	fn := e.onUpdate
	snapshot := order.Clone()
	e.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
	return nil
}

// Start launches the background poll loop. The first Load is the caller's
// responsibility so that an initial failure can be surfaced; refresh
// failures inside the loop only keep the previous snapshot and are logged.
func (e *Engine) Start(ctx context.Context) {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	if e.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	e.wg.Add(1)
	go e.poll(runCtx)
}

// Stop cancels the poll loop and waits for it to exit. Safe to call more
// than once; must be called on every exit path of the owning view.
func (e *Engine) Stop() {
	e.runMu.Lock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.runMu.Unlock()

	e.wg.Wait()
}

func (e *Engine) poll(ctx context.Context) {
	defer e.wg.Done()
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.Load(ctx); err != nil {
				// Transient refresh failures are swallowed so the view is
				// not torn down on a missed tick; the next tick retries.
				e.logger.Warn("conversation refresh failed",
					slog.String("order", e.orderID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// Snapshot returns a copy of the most recently applied order state, or nil
// before the first successful load.
func (e *Engine) Snapshot() *model.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.order.Clone()
}

// Sending reports whether a send is currently in flight; views disable the
// send affordance while true.
func (e *Engine) Sending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sending
}

// SetDraftText replaces the draft message text.
func (e *Engine) SetDraftText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draftText = text
}

// AttachMedia replaces the draft attachment. An order message carries at
// most one attachment.
func (e *Engine) AttachMedia(att media.Attachment) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draftMedia = &att
}

// DetachMedia discards the draft attachment.
func (e *Engine) DetachMedia() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draftMedia = nil
}

// Draft returns the current draft contents.
func (e *Engine) Draft() (string, *media.Attachment) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draftText, e.draftMedia
}

// Send submits the draft and reloads the order so the displayed thread
// carries the server-assigned ordering. There is no optimistic append.
//
// A blank draft is rejected without any network call. Sends are serialized:
// a second Send while one is in flight returns ErrSendInFlight, which makes
// a double-tap harmless. On failure the draft is preserved so the user can
// retry without retyping; it is cleared only after the server accepted the
// message.
func (e *Engine) Send(ctx context.Context) error {
	e.mu.Lock()
	if e.sending {
		e.mu.Unlock()
		return domainErrors.ErrSendInFlight
	}
	text := strings.TrimSpace(e.draftText)
	att := e.draftMedia
	if text == "" && att == nil {
		e.mu.Unlock()
		return domainErrors.ErrEmptyMessage
	}
	e.sending = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.sending = false
		e.mu.Unlock()
	}()

	out := marketplace.OutgoingMessage{Message: text}
	if att != nil {
		url, err := media.Compose(*att)
		if err != nil {
			return fmt.Errorf("compose media: %w", err)
		}
		out.MediaURL = url
		out.MediaType = string(att.Type)
	}

	if err := e.api.SendMessage(ctx, e.orderID, out); err != nil {
		return err
	}

	e.mu.Lock()
	e.draftText = ""
	e.draftMedia = nil
	e.mu.Unlock()

	if err := e.Load(ctx); err != nil {
		// The message was accepted; a failed read-back is transient and the
		// next poll tick will converge.
		e.logger.Warn("reload after send failed",
			slog.String("order", e.orderID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// Classify maps a message to its rendering class for the engine's viewer.
// It is a pure function of the message and viewer identity.
func (e *Engine) Classify(msg model.Message) Class {
	if msg.IsSystemMessage {
		return ClassSystem
	}
	if msg.SenderID == e.viewer.ID {
		return ClassOwn
	}
	return ClassTheirs
}
