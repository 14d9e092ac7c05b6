package evolve

// Mailbox is a one-slot, latest-wins hand-off. Put never blocks: it drops
// an unread value before storing the new one. A Mailbox supports a single
// producer; any number of goroutines may receive from C.
type Mailbox struct {
	ch chan Progress
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{ch: make(chan Progress, 1)}
}

// Put stores p, replacing an unread value.
func (m *Mailbox) Put(p Progress) {
	select {
	case <-m.ch:
	default:
	}
	select {
	case m.ch <- p:
	default:
	}
}

// C returns the receive side.
func (m *Mailbox) C() <-chan Progress {
	return m.ch
}
