package ir

import (
	"fmt"

	"irgraph/internal/typectx"
)

// ValueKind discriminates the variants of the unified Value sum
// (spec §3.2).
type ValueKind uint8

const (
	ValNone ValueKind = iota
	ValConstInt
	ValConstFloat
	ValConstNull
	ValConstExpr
	ValAggregateZero
	ValFuncArg
	ValBlock
	ValInst
	ValGlobal
)

func (k ValueKind) String() string {
	switch k {
	case ValNone:
		return "none"
	case ValConstInt:
		return "const-int"
	case ValConstFloat:
		return "const-float"
	case ValConstNull:
		return "const-null"
	case ValConstExpr:
		return "const-expr"
	case ValAggregateZero:
		return "aggregate-zero"
	case ValFuncArg:
		return "func-arg"
	case ValBlock:
		return "block"
	case ValInst:
		return "inst"
	case ValGlobal:
		return "global"
	default:
		return "?"
	}
}

// Value is the unified value sum described in spec §3.2: either the
// absence of a value, an inline constant scalar, or a reference to
// one of the traceable entity kinds. Only the fields relevant to Kind
// are meaningful; Value is small and copied by value throughout, the
// way a tagged union would be in a systems IR.
type Value struct {
	Kind ValueKind
	Type typectx.ID

	Int   int64   // ValConstInt
	Float float64 // ValConstFloat

	Expr ExprID // ValConstExpr

	Func     GlobalID // ValFuncArg
	ArgIndex int      // ValFuncArg

	Block  BlockID  // ValBlock
	Inst   InstID   // ValInst
	Global GlobalID // ValGlobal
}

// NoneValue is the Value carried by an unbound Use.
func NoneValue() Value { return Value{Kind: ValNone} }

func ConstIntValue(ty typectx.ID, v int64) Value {
	return Value{Kind: ValConstInt, Type: ty, Int: v}
}

func ConstFloatValue(ty typectx.ID, v float64) Value {
	return Value{Kind: ValConstFloat, Type: ty, Float: v}
}

func ConstNullValue(ty typectx.ID) Value {
	return Value{Kind: ValConstNull, Type: ty}
}

func ConstExprValue(ty typectx.ID, id ExprID) Value {
	return Value{Kind: ValConstExpr, Type: ty, Expr: id}
}

func AggregateZeroValue(ty typectx.ID) Value {
	return Value{Kind: ValAggregateZero, Type: ty}
}

func FuncArgValue(ty typectx.ID, fn GlobalID, index int) Value {
	return Value{Kind: ValFuncArg, Type: ty, Func: fn, ArgIndex: index}
}

func BlockValue(ty typectx.ID, id BlockID) Value {
	return Value{Kind: ValBlock, Type: ty, Block: id}
}

func InstValue(ty typectx.ID, id InstID) Value {
	return Value{Kind: ValInst, Type: ty, Inst: id}
}

func GlobalValue(ty typectx.ID, id GlobalID) Value {
	return Value{Kind: ValGlobal, Type: ty, Global: id}
}

// IsTraceable reports whether dereferencing v's defining entity
// yields a user-list. Inline scalars, null, and aggregate-zero are
// not traceable (spec §3.2).
func (v Value) IsTraceable() bool {
	switch v.Kind {
	case ValConstExpr, ValFuncArg, ValBlock, ValInst, ValGlobal:
		return true
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case ValNone:
		return "<none>"
	case ValConstInt:
		return fmt.Sprintf("%d", v.Int)
	case ValConstFloat:
		return fmt.Sprintf("%g", v.Float)
	case ValConstNull:
		return "null"
	case ValConstExpr:
		return fmt.Sprintf("expr#%d", v.Expr)
	case ValAggregateZero:
		return "zeroinitializer"
	case ValFuncArg:
		return fmt.Sprintf("%%arg.%d.%d", v.Func, v.ArgIndex)
	case ValBlock:
		return fmt.Sprintf("block#%d", v.Block)
	case ValInst:
		return fmt.Sprintf("%%%d", v.Inst)
	case ValGlobal:
		return fmt.Sprintf("@%d", v.Global)
	default:
		return "?"
	}
}
