package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SmartDevNG/smartdev_api/internal/catalog"
	"github.com/SmartDevNG/smartdev_api/internal/metrics"
	"github.com/SmartDevNG/smartdev_api/internal/models"
	"github.com/SmartDevNG/smartdev_api/internal/sse"
	"github.com/SmartDevNG/smartdev_api/internal/utils"
)

// SessionSnapshot is a consistent view of one purchase session.
type SessionSnapshot struct {
	ID        string
	Selection models.Selection
	Flow      FlowSnapshot
	CreatedAt time.Time
}

// PurchaseSession pairs one SelectionMachine with one SubmissionFlow.
type PurchaseSession struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	ctx        context.Context
	cancel     context.CancelFunc
	machine    *SelectionMachine
	flow       *SubmissionFlow
	lastActive time.Time
	now        func() time.Time
}

// Snapshot returns the selection and flow outcome under one lock.
func (s *PurchaseSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Update applies a selection transition. Transitions are rejected while a
// submission is in flight.
func (s *PurchaseSession) Update(fn func(m *SelectionMachine) error) (SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = s.now()
	if s.flow.State() == FlowSubmitting {
		return s.snapshotLocked(), utils.ErrSubmissionInProgress
	}
	err := fn(s.machine)
	return s.snapshotLocked(), err
}

// Submit starts a submission bound to the session's lifetime.
func (s *PurchaseSession) Submit() (SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = s.now()
	err := s.flow.Submit(s.ctx)
	return s.snapshotLocked(), err
}

// Wait blocks until an in-flight submission settles or ctx ends.
func (s *PurchaseSession) Wait(ctx context.Context) error {
	return s.flow.Wait(ctx)
}

func (s *PurchaseSession) Acknowledge() (SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = s.now()
	err := s.flow.Acknowledge()
	return s.snapshotLocked(), err
}

func (s *PurchaseSession) snapshotLocked() SessionSnapshot {
	return SessionSnapshot{
		ID:        s.ID,
		Selection: s.machine.Snapshot(),
		Flow:      s.flow.Snapshot(),
		CreatedAt: s.CreatedAt,
	}
}

func (s *PurchaseSession) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// PurchaseService is the in-memory registry of purchase sessions.
type PurchaseService struct {
	catalog  *catalog.Catalog
	builder  *TransactionBuilder
	notifier sse.TransactionNotifier
	metrics  *metrics.PurchaseMetrics
	delay    time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*PurchaseSession
}

// NewPurchaseService constructs a PurchaseService.
func NewPurchaseService(
	c *catalog.Catalog,
	notifier sse.TransactionNotifier,
	m *metrics.PurchaseMetrics,
	delay time.Duration,
) *PurchaseService {
	return &PurchaseService{
		catalog:  c,
		builder:  NewTransactionBuilder(c),
		notifier: notifier,
		metrics:  m,
		delay:    delay,
		now:      time.Now,
		sessions: make(map[string]*PurchaseSession),
	}
}

// Catalog returns the catalog sessions are built on.
func (s *PurchaseService) Catalog() *catalog.Catalog {
	return s.catalog
}

// CreateSession opens a purchase on the given service and provider. Unknown
// values fall back to the defaults instead of failing.
func (s *PurchaseService) CreateSession(service, provider string) *PurchaseSession {
	ctx, cancel := context.WithCancel(context.Background())
	now := s.now()

	sess := &PurchaseSession{
		ID:         utils.NewSessionID(),
		CreatedAt:  now,
		ctx:        ctx,
		cancel:     cancel,
		machine:    NewSelectionMachine(s.catalog, service, provider),
		lastActive: now,
		now:        s.now,
	}
	sess.flow = NewSubmissionFlow(&sess.mu, sess.machine, s.builder, s.notifier, s.metrics, s.delay)
	opened := sess.machine.Snapshot().Service

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.metrics.SessionOpened()
	log.Debug().Str("session_id", sess.ID).Str("service", string(opened)).Msg("Purchase session opened")
	return sess
}

// Get returns an open session.
func (s *PurchaseService) Get(id string) (*PurchaseSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, utils.ErrSessionNotFound
	}
	return sess, nil
}

// EndSession discards a session and abandons any in-flight submission.
func (s *PurchaseService) EndSession(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return utils.ErrSessionNotFound
	}
	sess.cancel()
	s.metrics.SessionClosed(metrics.SessionCloseEnded)
	return nil
}

// EvictIdle ends every session untouched for longer than ttl and returns how
// many were evicted.
func (s *PurchaseService) EvictIdle(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	var evicted []*PurchaseSession
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			evicted = append(evicted, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range evicted {
		sess.cancel()
		s.metrics.SessionClosed(metrics.SessionCloseEvicted)
	}
	return len(evicted)
}

// ActiveSessions returns the number of open sessions.
func (s *PurchaseService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown ends every session.
func (s *PurchaseService) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*PurchaseSession)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.cancel()
		s.metrics.SessionClosed(metrics.SessionCloseEnded)
	}
}
