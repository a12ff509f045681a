package ir

import "testing"

func TestPoolAllocateAndDeref(t *testing.T) {
	p := NewPool[int]()
	a := p.Allocate(10)
	b := p.Allocate(20)

	if *p.Deref(a) != 10 || *p.Deref(b) != 20 {
		t.Fatalf("deref mismatch: a=%d b=%d", *p.Deref(a), *p.Deref(b))
	}
	if p.Cap() != 2 {
		t.Fatalf("want cap 2, got %d", p.Cap())
	}
}

func TestPoolFreeAndReuse(t *testing.T) {
	p := NewPool[string]()
	a := p.Allocate("first")
	p.Free(a)

	if p.IsLive(a) {
		t.Fatalf("expected %d to be dead after Free", a)
	}

	b := p.Allocate("second")
	if b != a {
		t.Fatalf("expected slot reuse, got new index %d want %d", b, a)
	}
	if *p.Deref(b) != "second" {
		t.Fatalf("reused slot did not get new value: %q", *p.Deref(b))
	}
	// Pool never shrinks even though a slot was reused.
	if p.Cap() != 1 {
		t.Fatalf("want cap 1, got %d", p.Cap())
	}
}

func TestPoolFullyFreeIf(t *testing.T) {
	p := NewPool[int]()
	for i := 0; i < 5; i++ {
		p.Allocate(i)
	}
	freed := p.FullyFreeIf(func(idx int32) bool { return idx%2 == 0 })
	if freed != 3 {
		t.Fatalf("want 3 freed (0,2,4), got %d", freed)
	}
	if p.IsLive(0) || p.IsLive(2) || p.IsLive(4) {
		t.Fatalf("even slots should be dead")
	}
	if !p.IsLive(1) || !p.IsLive(3) {
		t.Fatalf("odd slots should still be live")
	}
}

func TestPoolForEachLive(t *testing.T) {
	p := NewPool[int]()
	a := p.Allocate(1)
	p.Allocate(2)
	p.Free(a)
	p.Allocate(3)

	var seen []int32
	p.ForEachLive(func(idx int32) { seen = append(seen, idx) })
	if len(seen) != 2 {
		t.Fatalf("want 2 live slots, got %d (%v)", len(seen), seen)
	}
}

func TestDisposalQueueDrainIsFIFO(t *testing.T) {
	var q disposalQueue
	q.push(anyOfInst(InstID(1)))
	q.push(anyOfInst(InstID(2)))
	if q.len() != 2 {
		t.Fatalf("want len 2, got %d", q.len())
	}
	items := q.drain()
	if len(items) != 2 || items[0].Index != 1 || items[1].Index != 2 {
		t.Fatalf("unexpected drain order: %v", items)
	}
	if q.len() != 0 {
		t.Fatalf("drain should empty the queue")
	}
}
