// Package host is the embedding surface for card instances. A Document
// is the mount target: an ordered registry of attached subtrees, one
// per live instance, keyed by a scoped handle so concurrently mounted
// instances never collide. A Bridge carries the two outbound channels
// back to the embedding application: a persistent state store whose
// values are replayed across renders, and a one-shot trigger queue
// whose values are consumed exactly once.
package host

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNilDocument  = errors.New("mount target is nil")
	ErrDuplicateKey = errors.New("scoped key already mounted")
	ErrNotMounted   = errors.New("scoped key not mounted")
)

// Node is one attached subtree. View yields the rendered content; the
// Document never caches it, so a node may re-render on every frame.
type Node struct {
	Key  string
	View func(width int) string
}

// Document is an ordered set of mounted nodes. Attach order is render
// order; there is no reordering after attach.
type Document struct {
	order []string
	nodes map[string]*Node
}

// NewDocument returns an empty mount target.
func NewDocument() *Document {
	return &Document{nodes: make(map[string]*Node)}
}

// Attach adds a node under its scoped key. Attaching to a nil document
// or reusing a live key is a fatal initialization failure for the
// caller; there is no partial state to recover.
func (d *Document) Attach(n *Node) error {
	if d == nil {
		return ErrNilDocument
	}
	if n == nil || n.Key == "" {
		return fmt.Errorf("attach: node must have a scoped key")
	}
	if _, ok := d.nodes[n.Key]; ok {
		return fmt.Errorf("attach %q: %w", n.Key, ErrDuplicateKey)
	}
	d.nodes[n.Key] = n
	d.order = append(d.order, n.Key)
	return nil
}

// Detach removes the node with the given scoped key, leaving every
// other mounted node in place.
func (d *Document) Detach(key string) error {
	if d == nil {
		return ErrNilDocument
	}
	if _, ok := d.nodes[key]; !ok {
		return fmt.Errorf("detach %q: %w", key, ErrNotMounted)
	}
	delete(d.nodes, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of mounted nodes.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.nodes)
}

// Nodes returns the mounted nodes in attach order.
func (d *Document) Nodes() []*Node {
	if d == nil {
		return nil
	}
	out := make([]*Node, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, d.nodes[k])
	}
	return out
}

// Mounted reports whether a scoped key is currently attached.
func (d *Document) Mounted(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.nodes[key]
	return ok
}

// Bridge is the outbound side of the host contract. Both channels are
// fire-and-forget from the component's point of view; the component
// never blocks on or retries a delivery.
type Bridge struct {
	states   map[string]string
	triggers map[string][]string
}

// NewBridge returns an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{
		states:   make(map[string]string),
		triggers: make(map[string][]string),
	}
}

// SetStateValue records a durable value. The host replays it across
// subsequent renders until it is explicitly changed.
func (b *Bridge) SetStateValue(name, value string) {
	b.states[name] = value
}

// State returns the current durable value for name.
func (b *Bridge) State(name string) (string, bool) {
	v, ok := b.states[name]
	return v, ok
}

// SetTriggerValue records an edge event. Unlike state values, triggers
// queue: each activation is observed once, in order, even when the
// same value fires repeatedly.
func (b *Bridge) SetTriggerValue(name, value string) {
	b.triggers[name] = append(b.triggers[name], value)
}

// TakeTrigger consumes the oldest pending trigger for name.
func (b *Bridge) TakeTrigger(name string) (string, bool) {
	q := b.triggers[name]
	if len(q) == 0 {
		return "", false
	}
	v := q[0]
	b.triggers[name] = q[1:]
	return v, true
}

// PendingTriggers returns how many unconsumed events are queued.
func (b *Bridge) PendingTriggers(name string) int {
	return len(b.triggers[name])
}
