package fullsub

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

type Term interface {
	isTerm()
	Pos() Info
	DeBruijnString() string
	ContextString(ctx Context) string
}

type True struct{ Info }

func (True) isTerm()                      {}
func (True) DeBruijnString() string       { return "true" }
func (True) ContextString(Context) string { return "true" }

type False struct{ Info }

func (False) isTerm()                      {}
func (False) DeBruijnString() string       { return "false" }
func (False) ContextString(Context) string { return "false" }

type If struct {
	Info
	Cond Term
	Body Term
	Else Term
}

func (If) isTerm() {}

func (i If) DeBruijnString() string {
	return "if " + i.Cond.DeBruijnString() + " then " + i.Body.DeBruijnString() + " else " + i.Else.DeBruijnString()
}

func (i If) ContextString(ctx Context) string {
	return "if " + i.Cond.ContextString(ctx) + " then " + i.Body.ContextString(ctx) + " else " + i.Else.ContextString(ctx)
}

// Var is a de Bruijn index. Len is the length of the context the variable
// occurred in; it is only consulted when printing.
type Var struct {
	Info
	Index int
	Len   int
}

func (Var) isTerm() {}

func (v Var) DeBruijnString() string {
	return strconv.Itoa(v.Index)
}

func (v Var) ContextString(ctx Context) string {
	if v.Len != ctx.Len() || v.Index >= ctx.Len() {
		names := lo.Map(ctx, func(b Bind, _ int) string { return b.Name })
		return fmt.Sprintf("[bad index: %d/%d in {%s}]", v.Index, v.Len, strings.Join(names, " "))
	}
	return ctx[v.Index].Name
}

type Abs struct {
	Info
	OldBind string
	Type    Ty
	Body    Term
}

func (Abs) isTerm() {}

func (a Abs) DeBruijnString() string {
	return "(λ:" + a.Type.String() + "." + a.Body.DeBruijnString() + ")"
}

func (a Abs) ContextString(ctx Context) string {
	ctx1, oldBind := ctx.PickFreshName(a.OldBind)
	return "(λ" + oldBind + ":" + a.Type.String() + ". " + a.Body.ContextString(ctx1) + ")"
}

type App struct {
	Info
	Fn  Term
	Arg Term
}

func (App) isTerm() {}

func (a App) DeBruijnString() string {
	return "(" + paren(a.Fn, a.Fn.DeBruijnString()) + " " + paren(a.Arg, a.Arg.DeBruijnString()) + ")"
}

func (a App) ContextString(ctx Context) string {
	return "(" + paren(a.Fn, a.Fn.ContextString(ctx)) + " " + paren(a.Arg, a.Arg.ContextString(ctx)) + ")"
}

type Zero struct{ Info }

func (Zero) isTerm()                      {}
func (Zero) DeBruijnString() string       { return "0" }
func (Zero) ContextString(Context) string { return "0" }

type Succ struct {
	Info
	T Term
}

func (Succ) isTerm() {}

func (s Succ) DeBruijnString() string {
	if n, ok := numeral(s); ok {
		return strconv.Itoa(n)
	}
	return "succ " + paren(s.T, s.T.DeBruijnString())
}

func (s Succ) ContextString(ctx Context) string {
	if n, ok := numeral(s); ok {
		return strconv.Itoa(n)
	}
	return "succ " + paren(s.T, s.T.ContextString(ctx))
}

type Pred struct {
	Info
	T Term
}

func (Pred) isTerm() {}

func (p Pred) DeBruijnString() string {
	return "pred " + paren(p.T, p.T.DeBruijnString())
}

func (p Pred) ContextString(ctx Context) string {
	return "pred " + paren(p.T, p.T.ContextString(ctx))
}

type IsZero struct {
	Info
	T Term
}

func (IsZero) isTerm() {}

func (i IsZero) DeBruijnString() string {
	return "iszero " + paren(i.T, i.T.DeBruijnString())
}

func (i IsZero) ContextString(ctx Context) string {
	return "iszero " + paren(i.T, i.T.ContextString(ctx))
}

// Record fields are kept in source order for printing; labels are unique and
// their order carries no meaning.
type Record struct {
	Info
	Fields []Field
}

func (Record) isTerm() {}

func (r Record) DeBruijnString() string {
	return "{" + strings.Join(lo.Map(r.Fields, func(f Field, _ int) string { return f.DeBruijnString() }), ", ") + "}"
}

func (r Record) ContextString(ctx Context) string {
	return "{" + strings.Join(lo.Map(r.Fields, func(f Field, _ int) string { return f.ContextString(ctx) }), ", ") + "}"
}

type Field struct {
	Name string
	Term Term
}

func (f Field) DeBruijnString() string {
	return f.Name + "=" + f.Term.DeBruijnString()
}

func (f Field) ContextString(ctx Context) string {
	return f.Name + "=" + f.Term.ContextString(ctx)
}

type Proj struct {
	Info
	T Term
	L string
}

func (Proj) isTerm() {}

func (p Proj) DeBruijnString() string {
	return paren(p.T, p.T.DeBruijnString()) + "." + p.L
}

func (p Proj) ContextString(ctx Context) string {
	return paren(p.T, p.T.ContextString(ctx)) + "." + p.L
}

func numeral(t Term) (int, bool) {
	n := 0
	for {
		switch tt := t.(type) {
		case Zero:
			return n, true
		case Succ:
			n++
			t = tt.T
		default:
			return 0, false
		}
	}
}

// paren wraps the rendering s of t when t would not parse back as an
// operand on its own.
func paren(t Term, s string) string {
	switch t := t.(type) {
	case If, Pred, IsZero:
		return "(" + s + ")"
	case Succ:
		if _, ok := numeral(t); !ok {
			return "(" + s + ")"
		}
	}
	return s
}

// Equal reports whether a and b are the same term. Positions, Var.Len,
// binder names and record field order are ignored.
func Equal(a, b Term) bool {
	switch a := a.(type) {
	case True:
		_, ok := b.(True)
		return ok
	case False:
		_, ok := b.(False)
		return ok
	case Zero:
		_, ok := b.(Zero)
		return ok
	case Var:
		b, ok := b.(Var)
		return ok && a.Index == b.Index
	case If:
		b, ok := b.(If)
		return ok && Equal(a.Cond, b.Cond) && Equal(a.Body, b.Body) && Equal(a.Else, b.Else)
	case Abs:
		b, ok := b.(Abs)
		return ok && TypeEquals(a.Type, b.Type) && Equal(a.Body, b.Body)
	case App:
		b, ok := b.(App)
		return ok && Equal(a.Fn, b.Fn) && Equal(a.Arg, b.Arg)
	case Succ:
		b, ok := b.(Succ)
		return ok && Equal(a.T, b.T)
	case Pred:
		b, ok := b.(Pred)
		return ok && Equal(a.T, b.T)
	case IsZero:
		b, ok := b.(IsZero)
		return ok && Equal(a.T, b.T)
	case Proj:
		b, ok := b.(Proj)
		return ok && a.L == b.L && Equal(a.T, b.T)
	case Record:
		b, ok := b.(Record)
		if !ok || len(a.Fields) != len(b.Fields) {
			return false
		}
		return lo.EveryBy(a.Fields, func(f Field) bool {
			g, ok := b.Field(f.Name)
			return ok && Equal(f.Term, g)
		})
	}
	panic("unreachable")
}

// Field returns the term bound to label l.
func (r Record) Field(l string) (Term, bool) {
	for _, f := range r.Fields {
		if f.Name == l {
			return f.Term, true
		}
	}
	return nil, false
}
