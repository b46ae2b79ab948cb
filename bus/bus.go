// bus.go
package bus

import (
	"sync"
)

// Task-side publish/subscribe. Publish takes a lock and may allocate, so it
// must never be called from an interrupt handler; the decoder hands off
// through x/ring and a task republishes here.

// -----------------------------------------------------------------------------
// Topics
// -----------------------------------------------------------------------------

// Topic is a path of levels. In subscriptions "+" matches one level and
// "#" (last level only) matches zero or more.
type Topic []string

const (
	anyOne  = "+"
	anyRest = "#"
)

func T(levels ...string) Topic { return Topic(levels) }

func (t Topic) String() string {
	s := ""
	for i, l := range t {
		if i > 0 {
			s += "/"
		}
		s += l
	}
	return s
}

// -----------------------------------------------------------------------------
// Message
// -----------------------------------------------------------------------------

// Message is delivered by pointer; subscribers must treat it as read-only.
// A retained message with a nil Payload clears the retained value.
type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
}

// -----------------------------------------------------------------------------
// Subscription
// -----------------------------------------------------------------------------

type Subscription struct {
	topic Topic
	ch    chan *Message
	conn  *Connection
}

func (s *Subscription) Topic() Topic             { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.ch }

// deliver never blocks: a full queue loses its oldest message.
func (s *Subscription) deliver(m *Message) {
	for {
		select {
		case s.ch <- m:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// -----------------------------------------------------------------------------
// Trie
// -----------------------------------------------------------------------------

type node struct {
	children map[string]*node
	subs     []*Subscription
	retained *Message
}

func (n *node) child(level string, create bool) *node {
	if c, ok := n.children[level]; ok || !create {
		return c
	}
	if n.children == nil {
		n.children = make(map[string]*node)
	}
	c := &node{}
	n.children[level] = c
	return c
}

// match calls fn for each subscription whose pattern matches topic[i:].
func (n *node) match(topic Topic, i int, fn func(*Subscription)) {
	if hash := n.children[anyRest]; hash != nil {
		for _, s := range hash.subs {
			fn(s)
		}
	}
	if i == len(topic) {
		for _, s := range n.subs {
			fn(s)
		}
		return
	}
	if c := n.children[topic[i]]; c != nil {
		c.match(topic, i+1, fn)
	}
	if c := n.children[anyOne]; c != nil {
		c.match(topic, i+1, fn)
	}
}

// retainedFor calls fn for each retained message matching pattern[j:].
func (n *node) retainedFor(pattern Topic, j int, fn func(*Message)) {
	if j == len(pattern) {
		if n.retained != nil {
			fn(n.retained)
		}
		return
	}
	switch pattern[j] {
	case anyRest:
		n.walkRetained(fn)
	case anyOne:
		for level, c := range n.children {
			if level != anyOne && level != anyRest {
				c.retainedFor(pattern, j+1, fn)
			}
		}
	default:
		if c := n.children[pattern[j]]; c != nil {
			c.retainedFor(pattern, j+1, fn)
		}
	}
}

func (n *node) walkRetained(fn func(*Message)) {
	if n.retained != nil {
		fn(n.retained)
	}
	for _, c := range n.children {
		c.walkRetained(fn)
	}
}

// -----------------------------------------------------------------------------
// Bus
// -----------------------------------------------------------------------------

type Bus struct {
	mu   sync.Mutex
	root node
	qLen int
}

// NewBus creates a bus whose subscriptions queue up to queueLen messages.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8
	}
	return &Bus{qLen: queueLen}
}

func (b *Bus) NewMessage(topic Topic, payload any, retained bool) *Message {
	return &Message{Topic: topic, Payload: payload, Retained: retained}
}

// Publish delivers msg to every matching subscription and updates the
// retained value at its topic.
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.root.match(msg.Topic, 0, func(s *Subscription) { s.deliver(msg) })

	if !msg.Retained {
		return
	}
	n := &b.root
	for _, level := range msg.Topic {
		if n = n.child(level, msg.Payload != nil); n == nil {
			return
		}
	}
	if msg.Payload == nil {
		n.retained = nil
	} else {
		n.retained = msg
	}
}

func (b *Bus) subscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := &b.root
	for _, level := range sub.topic {
		n = n.child(level, true)
	}
	n.subs = append(n.subs, sub)
	b.root.retainedFor(sub.topic, 0, sub.deliver)
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := &b.root
	for _, level := range sub.topic {
		if n = n.child(level, false); n == nil {
			return
		}
	}
	for i, s := range n.subs {
		if s == sub {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			break
		}
	}
}

// -----------------------------------------------------------------------------
// Connection
// -----------------------------------------------------------------------------

// Connection is one service's handle on the bus. It owns its subscriptions.
type Connection struct {
	bus  *Bus
	id   string
	mu   sync.Mutex
	subs []*Subscription
}

func (b *Bus) NewConnection(id string) *Connection {
	return &Connection{bus: b, id: id}
}

func (c *Connection) ID() string { return c.id }

func (c *Connection) Publish(msg *Message) { c.bus.Publish(msg) }

// Subscribe registers topic; matching retained messages are queued at once.
func (c *Connection) Subscribe(topic Topic) *Subscription {
	sub := &Subscription{topic: topic, ch: make(chan *Message, c.bus.qLen), conn: c}
	c.bus.subscribe(sub)
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
	return sub
}

// Unsubscribe removes sub and closes its channel.
func (c *Connection) Unsubscribe(sub *Subscription) {
	c.bus.unsubscribe(sub)
	c.mu.Lock()
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	close(sub.ch)
}

// Disconnect unsubscribes everything this connection owns.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, sub := range subs {
		c.bus.unsubscribe(sub)
		close(sub.ch)
	}
}
