package ir

// chainOps bundles the getter/setter closures a doubly-linked
// sequence needs to navigate nodes of type ID (spec §4.2). Unlike a
// ring, a chain terminates at a head sentinel and a tail sentinel
// rather than wrapping around; it carries no parent back-pointer
// itself (InstID's Parent field lives on the Inst entity, set by the
// caller per spec §3.6 invariant B2).
type chainOps[ID comparable] struct {
	getNext func(ID) ID
	setNext func(ID, ID)
	getPrev func(ID) ID
	setPrev func(ID, ID)
}

// chainLink joins head directly to tail, with nothing between them —
// the state of a freshly created empty chain.
func chainLink[ID comparable](ops chainOps[ID], head, tail ID) {
	ops.setNext(head, tail)
	ops.setPrev(tail, head)
}

// chainPushBefore splices node into the chain immediately before
// pivot.
func chainPushBefore[ID comparable](ops chainOps[ID], node, pivot ID) {
	prev := ops.getPrev(pivot)
	ops.setNext(prev, node)
	ops.setPrev(node, prev)
	ops.setNext(node, pivot)
	ops.setPrev(pivot, node)
}

// chainPushAfter splices node into the chain immediately after pivot.
func chainPushAfter[ID comparable](ops chainOps[ID], node, pivot ID) {
	next := ops.getNext(pivot)
	ops.setNext(pivot, node)
	ops.setPrev(node, pivot)
	ops.setNext(node, next)
	ops.setPrev(next, node)
}

// chainUnplug removes node from whichever chain it sits in.
func chainUnplug[ID comparable](ops chainOps[ID], node ID) {
	p := ops.getPrev(node)
	n := ops.getNext(node)
	ops.setNext(p, n)
	ops.setPrev(n, p)
}

// chainForEach walks from head to tail inclusive, in chain order.
func chainForEach[ID comparable](ops chainOps[ID], head, tail ID, fn func(ID)) {
	for cur := head; ; cur = ops.getNext(cur) {
		fn(cur)
		if cur == tail {
			break
		}
	}
}
