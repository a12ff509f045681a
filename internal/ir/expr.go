package ir

import "irgraph/internal/typectx"

// Expr is a constant expression: a user (it owns an operand list) and
// a traceable value (it owns a user-ring), built once at construction
// and never mutated in place afterward — the constant-expression
// analogue of an instruction, without a parent block (spec §3.1, §3.4).
type Expr struct {
	Op       string
	Type     typectx.ID
	Operands []UseID
	Users    UserRing
	disposed bool
}

// NewConstExpr allocates a constant expression with the given operand
// values and runs its init_self_id: each operand gets its own Use
// (attached into that operand's user-ring) with user backfilled to
// this Expr, and this Expr's own user-ring sentinel is backfilled to
// point at itself (spec §4.1 allocation protocol, §4.5).
func (a *Allocs) NewConstExpr(op string, ty typectx.ID, operands []Value) (ExprID, error) {
	ring := a.NewUserRing()
	uses := make([]UseID, len(operands))
	for i, v := range operands {
		u := a.NewUse(indexedUseKind(op+"-operand", i), UserRef{})
		if err := a.SetOperand(u, v); err != nil {
			return InvalidExprID, err
		}
		uses[i] = u
	}
	idx := a.exprs.Allocate(Expr{Op: op, Type: ty, Operands: uses, Users: ring})
	id := ExprID(idx)
	for _, u := range uses {
		a.uses.Deref(int32(u)).user = userOfExpr(id)
	}
	a.FillUserRingSelf(ring, ConstExprValue(ty, id))
	return id, nil
}

// disposeExpr implements Expr's dispose_obj: dispose every owned
// operand Use, then dispose the user-ring sentinel (severing the
// ring's anchor only after every external reference pointed at this
// Expr has had a chance to detach via those Uses' own disposal, which
// callers are expected to have already arranged through the
// collector's edge-first sweep or an explicit replace-all-uses pass).
func (a *Allocs) disposeExpr(id ExprID) error {
	e := a.exprs.Deref(int32(id))
	if e.disposed {
		return ErrAlreadyDisposed
	}
	e.disposed = true
	for _, u := range e.Operands {
		if a.uses.IsLive(int32(u)) {
			_ = a.disposeUse(u)
		}
	}
	if a.uses.IsLive(int32(e.Users.Sentinel)) {
		_ = a.disposeUse(e.Users.Sentinel)
	}
	a.PushDisposed(anyOfExpr(id))
	return nil
}
