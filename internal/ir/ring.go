package ir

// ringOps bundles the getter/setter closures a ring algorithm needs
// to navigate nodes of type ID without the container knowing anything
// about the node's payload. Both Use (user-rings, spec §4.3) and
// JumpTarget (predecessor-rings, spec §4.4) plug their own next/prev
// fields in through this, so the circular-list algorithm itself is
// written exactly once.
type ringOps[ID comparable] struct {
	getNext func(ID) ID
	setNext func(ID, ID)
	getPrev func(ID) ID
	setPrev func(ID, ID)
}

// ringInit makes sentinel a one-node empty ring: it points to itself
// in both directions.
func ringInit[ID comparable](ops ringOps[ID], sentinel ID) {
	ops.setNext(sentinel, sentinel)
	ops.setPrev(sentinel, sentinel)
}

// ringAttachBack links node into the ring anchored by sentinel,
// immediately before the sentinel (i.e. at the back of the ring's
// logical order). Attaching a node already linked into a ring is a
// caller bug.
func ringAttachBack[ID comparable](ops ringOps[ID], sentinel, node ID) {
	tail := ops.getPrev(sentinel)
	ops.setNext(tail, node)
	ops.setPrev(node, tail)
	ops.setNext(node, sentinel)
	ops.setPrev(sentinel, node)
}

// ringDetach unlinks node from whatever ring it currently sits in.
// The node's own next/prev are left pointing at itself so a later
// ringAttachBack call (or a second ringDetach, for idempotent
// disposal paths) behaves predictably rather than corrupting a ring
// it is no longer part of.
func ringDetach[ID comparable](ops ringOps[ID], node ID) {
	p := ops.getPrev(node)
	n := ops.getNext(node)
	ops.setNext(p, n)
	ops.setPrev(n, p)
	ops.setNext(node, node)
	ops.setPrev(node, node)
}

// ringIsEmpty reports whether the ring anchored at sentinel has no
// members besides the sentinel itself.
func ringIsEmpty[ID comparable](ops ringOps[ID], sentinel ID) bool {
	return ops.getNext(sentinel) == sentinel
}

// ringForEach visits every member of the ring anchored at sentinel,
// excluding the sentinel, in ring order. It snapshots the sequence of
// next pointers before invoking fn so that fn is free to detach or
// reattach the current node (e.g. replace-all-uses-of-V-with-W,
// spec §4.3) without corrupting the traversal.
func ringForEach[ID comparable](ops ringOps[ID], sentinel ID, fn func(ID)) {
	var members []ID
	for cur := ops.getNext(sentinel); cur != sentinel; cur = ops.getNext(cur) {
		members = append(members, cur)
	}
	for _, m := range members {
		fn(m)
	}
}

// ringForEachWithSentinel is ringForEach but also yields the sentinel
// itself, last. Used by disposal paths that need to tear down the
// sentinel node too (spec §4.2 "forall_with_sentinel").
func ringForEachWithSentinel[ID comparable](ops ringOps[ID], sentinel ID, fn func(ID)) {
	ringForEach(ops, sentinel, fn)
	fn(sentinel)
}

// ringContains reports whether node is a member of the ring anchored
// at sentinel (excluding the sentinel itself). Used by the sanity
// checker to verify ring-membership invariants, not on any hot path.
func ringContains[ID comparable](ops ringOps[ID], sentinel, node ID) bool {
	for cur := ops.getNext(sentinel); cur != sentinel; cur = ops.getNext(cur) {
		if cur == node {
			return true
		}
	}
	return false
}

// ringCount reports the number of members excluding the sentinel.
func ringCount[ID comparable](ops ringOps[ID], sentinel ID) int {
	n := 0
	for cur := ops.getNext(sentinel); cur != sentinel; cur = ops.getNext(cur) {
		n++
	}
	return n
}
