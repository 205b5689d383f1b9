package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/moodly-backend/internal/platform/logger"
)

type SSEClient struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Channels map[string]bool
	// Outbound carries queued events in order.
	Outbound chan SSEMessage
	// Mailbox holds only the latest undelivered message per superseding event.
	Mailbox *Mailbox
	// Location is the zone the client's snapshots are computed in; nil keeps
	// the publisher's zone.
	Location  *time.Location
	done      chan struct{}
	closeOnce sync.Once
	Logger    *logger.Logger
}

type mailboxKey struct {
	channel string
	event   SSEEvent
}

// Versioned payloads carry a counter that only goes up for their channel.
type Versioned interface {
	SnapshotVersion() int64
}

// Localizer payloads can be recomputed in a subscriber's zone.
type Localizer interface {
	InLocation(loc *time.Location) any
}

// Mailbox keeps the newest message per (channel, event) until drained.
// Versioned messages older than one already accepted for the same key are
// dropped, including after a drain.
type Mailbox struct {
	mu      sync.Mutex
	pending map[mailboxKey]SSEMessage
	order   []mailboxKey
	latest  map[mailboxKey]int64
	ready   chan struct{}
}

func NewMailbox() *Mailbox {
	return &Mailbox{
		pending: make(map[mailboxKey]SSEMessage),
		latest:  make(map[mailboxKey]int64),
		ready:   make(chan struct{}, 1),
	}
}

// Put replaces any pending message with the same channel and event. It
// reports false when msg is older than what the mailbox already accepted.
func (m *Mailbox) Put(msg SSEMessage) bool {
	k := mailboxKey{channel: msg.Channel, event: msg.Event}
	m.mu.Lock()
	if v, ok := msg.Data.(Versioned); ok {
		if seen, ok := m.latest[k]; ok && v.SnapshotVersion() < seen {
			m.mu.Unlock()
			return false
		}
		m.latest[k] = v.SnapshotVersion()
	}
	if _, ok := m.pending[k]; !ok {
		m.order = append(m.order, k)
	}
	m.pending[k] = msg
	m.mu.Unlock()

	select {
	case m.ready <- struct{}{}:
	default:
	}
	return true
}

// Ready fires after Put; a single signal may cover several puts.
func (m *Mailbox) Ready() <-chan struct{} { return m.ready }

// Drain returns pending messages in first-put order and empties the mailbox.
func (m *Mailbox) Drain() []SSEMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.order) == 0 {
		return nil
	}
	out := make([]SSEMessage, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.pending[k])
	}
	m.pending = make(map[mailboxKey]SSEMessage)
	m.order = m.order[:0]
	return out
}

func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}
