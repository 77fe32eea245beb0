// Package session dispatches host messages to the rewrite orchestrator. Each
// session owns its tone cycle state, and invocations on one session never overlap.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/tonecycle/internal/guideline"
	"github.com/jonathan/tonecycle/internal/ingestion"
	"github.com/jonathan/tonecycle/internal/llm"
	"github.com/jonathan/tonecycle/internal/logging"
	"github.com/jonathan/tonecycle/internal/rewriting"
	"github.com/jonathan/tonecycle/internal/tonecycle"
	"github.com/jonathan/tonecycle/internal/types"
	"github.com/jonathan/tonecycle/internal/validation"
)

// User-facing notices
const (
	ExhaustedNotice = "All tones have been used for this text. Edit the text to start a new tone cycle."
	NoTextNotice    = "Select some text to rewrite."
	ResetNotice     = "Tone cycle reset."
	BusyNotice      = "A rewrite is already running for this selection."
	missingKey      = "Request failed: no API key configured"
)

// CredentialStore holds the single opaque API key
type CredentialStore interface {
	GetCredential(ctx context.Context) (string, error)
	SetCredential(ctx context.Context, value string) error
}

// Config configures a Manager
type Config struct {
	BatchSize int
	Rewriter  rewriting.Config
	// DefaultGuide is used when a message carries no guideline
	DefaultGuide map[string]any
	// FallbackAPIKey is used when neither the message nor the store has a key
	FallbackAPIKey string
}

// Result is the outcome of one handled message
type Result struct {
	Response types.Response
	Batch    []types.ToneConfig
	State    tonecycle.State
	// Directives and Catalogue are what the selection was rewritten against
	Directives *types.StyleDirectives
	Catalogue  []types.ToneConfig
	// Outcome is nil unless the service was called
	Outcome  *rewriting.Outcome
	Metadata *ingestion.Metadata
}

// Manager handles messages for many sessions
type Manager struct {
	store       tonecycle.Store
	factory     llm.Factory
	credentials CredentialStore
	cfg         Config
	validate    *validator.Validate
	log         zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is dropped from the map once nobody holds or waits on it
type sessionLock struct {
	sem  *semaphore.Weighted
	refs int
}

// NewManager creates a Manager. credentials may be nil.
func NewManager(store tonecycle.Store, factory llm.Factory, credentials CredentialStore, cfg Config) *Manager {
	return &Manager{
		store:       store,
		factory:     factory,
		credentials: credentials,
		cfg:         cfg,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		log:         logging.Component("session"),
		locks:       make(map[string]*sessionLock),
	}
}

// Validate checks a message's shape
func (m *Manager) Validate(msg types.Message) error {
	if err := m.validate.Struct(msg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
			}
			return &MessageError{Message: "invalid message: " + strings.Join(fields, ", "), Cause: err}
		}
		return &MessageError{Message: "invalid message", Cause: err}
	}
	return nil
}

// Handle processes one message for a session. A concurrent call on the same
// session fails fast with BusyError.
func (m *Manager) Handle(ctx context.Context, sessionID string, msg types.Message) (*Result, error) {
	if err := m.Validate(msg); err != nil {
		return nil, err
	}

	release, ok := m.acquire(sessionID)
	if !ok {
		return nil, &BusyError{SessionID: sessionID}
	}
	defer release()

	if msg.Type == types.MessageResetTone {
		return m.reset(ctx, sessionID)
	}
	return m.rewrite(ctx, sessionID, msg)
}

// HasCredentialStore reports whether credentials can be persisted
func (m *Manager) HasCredentialStore() bool {
	return m.credentials != nil
}

// Credential returns the stored API key
func (m *Manager) Credential(ctx context.Context) (string, error) {
	if m.credentials == nil {
		return "", nil
	}
	return m.credentials.GetCredential(ctx)
}

// SetCredential stores the API key
func (m *Manager) SetCredential(ctx context.Context, value string) error {
	if m.credentials == nil {
		return &Error{Message: "no credential store configured"}
	}
	return m.credentials.SetCredential(ctx, strings.TrimSpace(value))
}

// acquire claims the session without waiting
func (m *Manager) acquire(sessionID string) (func(), bool) {
	m.mu.Lock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sessionLock{sem: semaphore.NewWeighted(1)}
		m.locks[sessionID] = l
	}
	l.refs++
	m.mu.Unlock()

	if !l.sem.TryAcquire(1) {
		m.unref(sessionID, l)
		return nil, false
	}
	return func() {
		l.sem.Release(1)
		m.unref(sessionID, l)
	}, true
}

func (m *Manager) unref(sessionID string, l *sessionLock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, sessionID)
	}
}

func (m *Manager) reset(ctx context.Context, sessionID string) (*Result, error) {
	if err := m.store.Delete(ctx, sessionID); err != nil {
		return nil, &Error{Message: "failed to reset tone cycle", Cause: err}
	}
	m.log.Debug().Str("session", sessionID).Msg("tone cycle reset")
	return &Result{
		Response: done(ResetNotice, false),
	}, nil
}

func (m *Manager) rewrite(ctx context.Context, sessionID string, msg types.Message) (*Result, error) {
	source, meta, err := ingestion.Ingest(msg.Text)
	if err != nil {
		m.log.Warn().Err(err).Msg("selection could not be flattened, using raw text")
		source = ingestion.CleanText(msg.Text)
	}
	if source == "" {
		return &Result{Response: done(NoTextNotice, true), Metadata: meta}, nil
	}

	guide := msg.Guideline
	if guide == nil && m.cfg.DefaultGuide != nil {
		guide = m.cfg.DefaultGuide
	}
	directives, catalogue := guideline.Normalize(guide, source)
	version := guideline.Version(guide)

	validation.WarnOnInjection(m.log, "source", source)
	validation.WarnOnInjection(m.log, "guide overview", directives.Overview)

	tracker, err := m.loadTracker(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	batch, exhausted := tracker.GetBatch(catalogue, source, version, msg.Type == types.MessageRewrite)
	result := &Result{Batch: batch, Directives: directives, Catalogue: catalogue, Metadata: meta}

	if exhausted {
		result.Response = done(ExhaustedNotice, false)
		return m.saveTracker(ctx, sessionID, tracker, result)
	}

	client, err := m.client(ctx, msg.Key)
	if err != nil {
		result.Response = done(err.Error(), true)
		return m.saveTracker(ctx, sessionID, tracker, result)
	}
	defer func() { _ = client.Close() }()

	rw, err := rewriting.New(client, m.cfg.Rewriter)
	if err != nil {
		return nil, &Error{Message: "failed to create rewriter", Cause: err}
	}

	mode := msg.Mode
	if mode == "" {
		mode = types.ModeRewrite
	}
	outcome := rw.Rewrite(ctx, rewriting.Request{
		Tones:      batch,
		Directives: directives,
		Source:     source,
		Mode:       mode,
	})
	if !outcome.Failed {
		tracker.Advance(len(batch))
	}

	result.Outcome = outcome
	result.Response = types.Response{
		Type:     types.MessageRewriteDone,
		Output:   outcome.Output,
		Error:    outcome.Failed,
		Variants: outcome.Variants,
	}
	m.log.Info().
		Str("session", sessionID).
		Int("batch", len(batch)).
		Int("attempts", len(outcome.Attempts)).
		Bool("failed", outcome.Failed).
		Msg("rewrite finished")
	return m.saveTracker(ctx, sessionID, tracker, result)
}

// client resolves the API key: message, then credential store, then fallback.
// Credential store failures are logged and never abort the rewrite.
func (m *Manager) client(ctx context.Context, messageKey string) (llm.Client, error) {
	key := strings.TrimSpace(messageKey)
	if key != "" && m.credentials != nil {
		if err := m.credentials.SetCredential(ctx, key); err != nil {
			m.log.Warn().Err(err).Msg("failed to store credential")
		}
	}
	if key == "" && m.credentials != nil {
		stored, err := m.credentials.GetCredential(ctx)
		if err != nil {
			m.log.Warn().Err(err).Msg("failed to read credential")
		}
		key = stored
	}
	if key == "" {
		key = m.cfg.FallbackAPIKey
	}
	if key == "" {
		return nil, errors.New(missingKey)
	}

	client, err := m.factory(ctx, key)
	if err != nil {
		return nil, errors.New("Request failed: " + err.Error())
	}
	return client, nil
}

func (m *Manager) loadTracker(ctx context.Context, sessionID string) (*tonecycle.Tracker, error) {
	tracker := tonecycle.NewTracker(m.cfg.BatchSize)
	state, ok, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, &Error{Message: "failed to load tone cycle", Cause: err}
	}
	if ok {
		tracker.Restore(state)
	}
	return tracker, nil
}

func (m *Manager) saveTracker(ctx context.Context, sessionID string, tracker *tonecycle.Tracker, result *Result) (*Result, error) {
	result.State = tracker.State()
	if err := m.store.Save(ctx, sessionID, result.State); err != nil {
		return nil, &Error{Message: "failed to save tone cycle", Cause: err}
	}
	return result, nil
}

func done(output string, failed bool) types.Response {
	return types.Response{Type: types.MessageRewriteDone, Output: output, Error: failed}
}
