package host

import (
	"errors"
	"testing"
)

func TestDocumentAttachDetach(t *testing.T) {
	d := NewDocument()

	a := &Node{Key: "card-a", View: func(int) string { return "A" }}
	b := &Node{Key: "card-b", View: func(int) string { return "B" }}

	if err := d.Attach(a); err != nil {
		t.Fatalf("attach a: %v", err)
	}
	if err := d.Attach(b); err != nil {
		t.Fatalf("attach b: %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("Len = %d; want 2", d.Len())
	}

	// Attach order is render order.
	nodes := d.Nodes()
	if nodes[0].Key != "card-a" || nodes[1].Key != "card-b" {
		t.Fatalf("node order = %q, %q", nodes[0].Key, nodes[1].Key)
	}

	// Detaching one instance leaves the other untouched.
	if err := d.Detach("card-a"); err != nil {
		t.Fatalf("detach a: %v", err)
	}
	if d.Mounted("card-a") {
		t.Fatal("card-a still mounted after detach")
	}
	if !d.Mounted("card-b") {
		t.Fatal("card-b detached as a side effect")
	}
}

func TestDocumentAttachErrors(t *testing.T) {
	var nilDoc *Document
	if err := nilDoc.Attach(&Node{Key: "x"}); !errors.Is(err, ErrNilDocument) {
		t.Fatalf("nil doc attach err = %v; want ErrNilDocument", err)
	}

	d := NewDocument()
	if err := d.Attach(&Node{Key: ""}); err == nil {
		t.Fatal("attach without key succeeded")
	}
	if err := d.Attach(&Node{Key: "dup"}); err != nil {
		t.Fatalf("attach dup: %v", err)
	}
	if err := d.Attach(&Node{Key: "dup"}); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("duplicate attach err = %v; want ErrDuplicateKey", err)
	}
	if err := d.Detach("missing"); !errors.Is(err, ErrNotMounted) {
		t.Fatalf("detach missing err = %v; want ErrNotMounted", err)
	}
}

func TestBridgeStateIsDurable(t *testing.T) {
	b := NewBridge()

	if _, ok := b.State("selected"); ok {
		t.Fatal("unset state reported present")
	}

	b.SetStateValue("selected", "m1")
	for i := 0; i < 3; i++ {
		v, ok := b.State("selected")
		if !ok || v != "m1" {
			t.Fatalf("read %d: State = %q, %v; want m1, true", i, v, ok)
		}
	}

	b.SetStateValue("selected", "m2")
	if v, _ := b.State("selected"); v != "m2" {
		t.Fatalf("State after overwrite = %q; want m2", v)
	}
}

func TestBridgeTriggerIsConsumedOnce(t *testing.T) {
	b := NewBridge()

	// Repeated activation of the same card queues distinct events.
	b.SetTriggerValue("clicked", "m1")
	b.SetTriggerValue("clicked", "m1")
	if n := b.PendingTriggers("clicked"); n != 2 {
		t.Fatalf("pending = %d; want 2", n)
	}

	v, ok := b.TakeTrigger("clicked")
	if !ok || v != "m1" {
		t.Fatalf("TakeTrigger = %q, %v", v, ok)
	}
	if _, ok := b.TakeTrigger("clicked"); !ok {
		t.Fatal("second queued trigger missing")
	}
	if _, ok := b.TakeTrigger("clicked"); ok {
		t.Fatal("trigger observed after being consumed")
	}
}
