package ir

import "testing"

func intChainOps(next, prev []int) chainOps[int] {
	return chainOps[int]{
		getNext: func(id int) int { return next[id] },
		setNext: func(id, v int) { next[id] = v },
		getPrev: func(id int) int { return prev[id] },
		setPrev: func(id, v int) { prev[id] = v },
	}
}

func TestChainLinkHeadTail(t *testing.T) {
	next, prev := make([]int, 2), make([]int, 2)
	ops := intChainOps(next, prev)
	chainLink(ops, 0, 1)

	var order []int
	chainForEach(ops, 0, 1, func(id int) { order = append(order, id) })
	if len(order) != 2 || order[0] != 0 || order[1] != 1 {
		t.Fatalf("want [head,tail], got %v", order)
	}
}

func TestChainPushBeforeAndAfter(t *testing.T) {
	n := 5
	next, prev := make([]int, n), make([]int, n)
	ops := intChainOps(next, prev)
	head, tail := 0, 1
	chainLink(ops, head, tail)

	chainPushBefore(ops, 2, tail) // head, 2, tail
	chainPushAfter(ops, 3, head)  // head, 3, 2, tail
	chainPushBefore(ops, 4, 2)    // head, 3, 4, 2, tail

	var order []int
	chainForEach(ops, head, tail, func(id int) { order = append(order, id) })
	want := []int{0, 3, 4, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("want %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("want %v, got %v", want, order)
		}
	}
}

func TestChainUnplug(t *testing.T) {
	n := 4
	next, prev := make([]int, n), make([]int, n)
	ops := intChainOps(next, prev)
	head, tail := 0, 1
	chainLink(ops, head, tail)
	chainPushBefore(ops, 2, tail)
	chainPushBefore(ops, 3, tail)

	chainUnplug(ops, 2)

	var order []int
	chainForEach(ops, head, tail, func(id int) { order = append(order, id) })
	want := []int{0, 3, 1}
	if len(order) != len(want) {
		t.Fatalf("want %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("want %v, got %v", want, order)
		}
	}
}
