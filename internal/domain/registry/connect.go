package registry

import (
	"sync"

	"github.com/webitel/realtime-session-service/internal/domain/model"
)

// Interface guard
var _ Connector = (*connect)(nil)

// Connector is the registry's view of one upgraded client stream.
// The concrete type stays unexported to keep external layers decoupled
// from the mailbox implementation.
type Connector interface {
	GetID() uint64
	GetIdentity() model.Identity

	// Push attempts a non-blocking enqueue of an outbound payload.
	// It returns false when the mailbox is full; the payload is dropped.
	Push(payload string) bool

	// Recv is the consumer end of the mailbox, owned by the dispatcher.
	Recv() <-chan string

	// Done is closed when the connection is shut down.
	Done() <-chan struct{}

	// Close signals the owning dispatcher to terminate. Safe to call
	// from any goroutine, any number of times.
	Close()
}

type connect struct {
	id       uint64
	identity model.Identity

	// mailbox is referenced by the registry (producer) and the dispatcher
	// (consumer). Neither side closes it; it is reclaimed when both drop
	// their references after Remove.
	mailbox chan string

	done      chan struct{}
	closeOnce sync.Once
}

// NewConnector builds a connection record around a bounded mailbox.
func NewConnector(id uint64, identity model.Identity, mailboxSize int) Connector {
	return &connect{
		id:       id,
		identity: identity,
		mailbox:  make(chan string, mailboxSize),
		done:     make(chan struct{}),
	}
}

func (c *connect) GetID() uint64               { return c.id }
func (c *connect) GetIdentity() model.Identity { return c.identity }

func (c *connect) Push(payload string) bool {
	select {
	case c.mailbox <- payload:
		return true
	default:
		return false
	}
}

func (c *connect) Recv() <-chan string   { return c.mailbox }
func (c *connect) Done() <-chan struct{} { return c.done }

func (c *connect) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
