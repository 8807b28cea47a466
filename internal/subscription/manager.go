// Package subscription tracks desired versus active topic sets and
// converges them by sending minimal subscribe/unsubscribe frames.
package subscription

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"pumpstream/internal/observability"
	"pumpstream/internal/pumpportal"
)

// Kind identifies an independent subscription stream on the feed.
// Each kind has its own desired/active pair and its own lock.
type Kind string

const (
	KindNewToken   Kind = "new-token"
	KindTokenTrade Kind = "token-trade"
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	return string(k)
}

// NewTokenTopic is the single topic of the discovery stream. The feed
// subscribes to token creation as a whole, not per mint.
const NewTokenTopic = "new-token-stream"

// Sender transmits control frames on the live connection.
type Sender interface {
	Send(frame pumpportal.ControlFrame) error
}

// kindState holds the desired/active pair for one kind.
// All reads and writes go through mu; reconciliation for different
// kinds proceeds independently.
type kindState struct {
	mu      sync.Mutex
	desired map[string]struct{}
	active  map[string]struct{}
}

// Manager owns subscription state for every kind. The active set is
// updated optimistically after a successful send: the feed protocol is
// fire-and-forget with no per-frame acknowledgement.
type Manager struct {
	sender Sender
	logger *log.Logger

	mu    sync.Mutex
	kinds map[Kind]*kindState
}

// NewManager creates a manager sending frames through the given sender.
func NewManager(sender Sender, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		sender: sender,
		logger: logger,
		kinds: map[Kind]*kindState{
			KindNewToken:   {desired: make(map[string]struct{}), active: make(map[string]struct{})},
			KindTokenTrade: {desired: make(map[string]struct{}), active: make(map[string]struct{})},
		},
	}
}

// state returns the per-kind state, creating it for unknown kinds.
func (m *Manager) state(kind Kind) *kindState {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.kinds[kind]
	if !ok {
		s = &kindState{desired: make(map[string]struct{}), active: make(map[string]struct{})}
		m.kinds[kind] = s
	}
	return s
}

// Add inserts topics into the desired set. Returns true if the set changed.
func (m *Manager) Add(kind Kind, topics ...string) bool {
	s := m.state(kind)
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, topic := range topics {
		if _, ok := s.desired[topic]; !ok {
			s.desired[topic] = struct{}{}
			changed = true
		}
	}
	if changed {
		observability.SetDesiredTopics(kind.String(), len(s.desired))
	}
	return changed
}

// Remove deletes topics from the desired set. Returns true if the set changed.
func (m *Manager) Remove(kind Kind, topics ...string) bool {
	s := m.state(kind)
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, topic := range topics {
		if _, ok := s.desired[topic]; ok {
			delete(s.desired, topic)
			changed = true
		}
	}
	if changed {
		observability.SetDesiredTopics(kind.String(), len(s.desired))
	}
	return changed
}

// SetDesired replaces the desired set for a kind.
func (m *Manager) SetDesired(kind Kind, topics []string) {
	s := m.state(kind)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.desired = make(map[string]struct{}, len(topics))
	for _, topic := range topics {
		s.desired[topic] = struct{}{}
	}
	observability.SetDesiredTopics(kind.String(), len(s.desired))
}

// Contains reports whether topic is in the desired set for a kind.
func (m *Manager) Contains(kind Kind, topic string) bool {
	s := m.state(kind)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.desired[topic]
	return ok
}

// DesiredCount returns |desired| for a kind. Used as the tracked-token
// count snapshot attached to trade events.
func (m *Manager) DesiredCount(kind Kind) int {
	s := m.state(kind)
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.desired)
}

// Desired returns a sorted copy of the desired set.
func (m *Manager) Desired(kind Kind) []string {
	s := m.state(kind)
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.desired)
}

// Active returns a sorted copy of the active set.
func (m *Manager) Active(kind Kind) []string {
	s := m.state(kind)
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.active)
}

// Reconcile diffs desired against active and emits at most one subscribe
// and one unsubscribe frame. Idempotent: with no intervening desired-set
// change a second call sends nothing. Topics that churned in and out
// within the window net to no frame at all.
func (m *Manager) Reconcile(kind Kind) error {
	s := m.state(kind)
	s.mu.Lock()
	defer s.mu.Unlock()

	var toAdd, toRemove []string
	for topic := range s.desired {
		if _, ok := s.active[topic]; !ok {
			toAdd = append(toAdd, topic)
		}
	}
	for topic := range s.active {
		if _, ok := s.desired[topic]; !ok {
			toRemove = append(toRemove, topic)
		}
	}
	sort.Strings(toAdd)
	sort.Strings(toRemove)

	// Never send an empty-topic frame.
	if len(toAdd) > 0 {
		frame := subscribeFrame(kind, toAdd)
		if err := m.sender.Send(frame); err != nil {
			// Active untouched: the next reconcile resends the full diff.
			return fmt.Errorf("reconcile %s: %w", kind, err)
		}
		observability.RecordControlFrame(frame.Method)
		for _, topic := range toAdd {
			s.active[topic] = struct{}{}
		}
		m.logger.Printf("[subs] %s: subscribed %d topic(s)", kind, len(toAdd))
	}

	if len(toRemove) > 0 {
		frame := unsubscribeFrame(kind, toRemove)
		if err := m.sender.Send(frame); err != nil {
			return fmt.Errorf("reconcile %s: %w", kind, err)
		}
		observability.RecordControlFrame(frame.Method)
		for _, topic := range toRemove {
			delete(s.active, topic)
		}
		m.logger.Printf("[subs] %s: unsubscribed %d topic(s)", kind, len(toRemove))
	}

	return nil
}

// ResetActive marks every topic of a kind as unsubscribed. Called after a
// reconnect: the new connection has no subscriptions, so the next
// reconcile re-subscribes the full desired set.
func (m *Manager) ResetActive(kind Kind) {
	s := m.state(kind)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = make(map[string]struct{})
}

// ResetAll resets the active set for every known kind.
func (m *Manager) ResetAll() {
	m.mu.Lock()
	kinds := make([]Kind, 0, len(m.kinds))
	for kind := range m.kinds {
		kinds = append(kinds, kind)
	}
	m.mu.Unlock()

	for _, kind := range kinds {
		m.ResetActive(kind)
	}
}

// ReconcileAll reconciles every known kind. Returns the first error.
func (m *Manager) ReconcileAll() error {
	m.mu.Lock()
	kinds := make([]Kind, 0, len(m.kinds))
	for kind := range m.kinds {
		kinds = append(kinds, kind)
	}
	m.mu.Unlock()

	// Stable order keeps the re-subscribe sequence deterministic.
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, kind := range kinds {
		if err := m.Reconcile(kind); err != nil {
			return err
		}
	}
	return nil
}

func subscribeFrame(kind Kind, keys []string) pumpportal.ControlFrame {
	if kind == KindNewToken {
		return pumpportal.SubscribeNewToken()
	}
	return pumpportal.SubscribeTokenTrade(keys)
}

func unsubscribeFrame(kind Kind, keys []string) pumpportal.ControlFrame {
	if kind == KindNewToken {
		return pumpportal.UnsubscribeNewToken()
	}
	return pumpportal.UnsubscribeTokenTrade(keys)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
