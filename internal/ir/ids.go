package ir

import "fmt"

// EntityClass tags one of the six pool-managed entity kinds (spec §3.1).
type EntityClass uint8

const (
	ClassExpr EntityClass = iota
	ClassInst
	ClassGlobal
	ClassBlock
	ClassUse
	ClassJumpTarget
	numClasses
)

func (c EntityClass) String() string {
	switch c {
	case ClassExpr:
		return "Expr"
	case ClassInst:
		return "Inst"
	case ClassGlobal:
		return "Global"
	case ClassBlock:
		return "Block"
	case ClassUse:
		return "Use"
	case ClassJumpTarget:
		return "JumpTarget"
	default:
		return "?"
	}
}

// Typed, pool-local, stable indices. -1 (the invalid* constants) marks
// "no entity" the way a nil pointer would in a non-arena design.
type (
	ExprID       int32
	InstID       int32
	GlobalID     int32
	BlockID      int32
	UseID        int32
	JumpTargetID int32
)

const (
	InvalidExprID       ExprID       = -1
	InvalidInstID       InstID       = -1
	InvalidGlobalID     GlobalID     = -1
	InvalidBlockID      BlockID      = -1
	InvalidUseID        UseID        = -1
	InvalidJumpTargetID JumpTargetID = -1
)

// AnyID is the type-erased sum of the six typed ids, used by the
// collector and disposal queue where entities of different classes
// are handled uniformly.
type AnyID struct {
	Class EntityClass
	Index int32
}

func (id AnyID) String() string {
	return fmt.Sprintf("%s#%d", id.Class, id.Index)
}

func anyOfExpr(id ExprID) AnyID       { return AnyID{ClassExpr, int32(id)} }
func anyOfInst(id InstID) AnyID       { return AnyID{ClassInst, int32(id)} }
func anyOfGlobal(id GlobalID) AnyID   { return AnyID{ClassGlobal, int32(id)} }
func anyOfBlock(id BlockID) AnyID     { return AnyID{ClassBlock, int32(id)} }
func anyOfUse(id UseID) AnyID         { return AnyID{ClassUse, int32(id)} }
func anyOfJT(id JumpTargetID) AnyID   { return AnyID{ClassJumpTarget, int32(id)} }

// UserKind discriminates which of the three user-capable entity
// classes (spec §3.4) owns a Use.
type UserKind uint8

const (
	UserNone UserKind = iota
	UserInst
	UserExpr
	UserGlobal
)

// UserRef is the type-erased reference to whichever entity owns a
// Use's operand slot.
type UserRef struct {
	Kind   UserKind
	Inst   InstID
	Expr   ExprID
	Global GlobalID
}

func userOfInst(id InstID) UserRef     { return UserRef{Kind: UserInst, Inst: id} }
func userOfExpr(id ExprID) UserRef     { return UserRef{Kind: UserExpr, Expr: id} }
func userOfGlobal(id GlobalID) UserRef { return UserRef{Kind: UserGlobal, Global: id} }

func (u UserRef) IsNone() bool { return u.Kind == UserNone }
