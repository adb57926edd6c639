package fullsub

import (
	"fmt"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Context is a de Bruijn binding stack: index 0 is the innermost binding.
// Contexts are values; extending one returns a new Context and leaves the
// receiver untouched.
type Context []Bind

type Bind struct {
	Name    string
	Binding Binding
}

type Binding interface {
	isBinding()
}

// NameBind marks a variable that exists only for naming, e.g. a free
// variable met by the parser.
type NameBind struct{}

func (NameBind) isBinding() {}

// VarBind is a variable with a known type.
type VarBind struct{ Ty }

func (VarBind) isBinding() {}

func (ctx Context) Len() int { return len(ctx) }

func (ctx Context) AddBinding(name string, bind Binding) Context {
	return prepend(Bind{name, bind}, ctx)
}

func (ctx Context) AddName(name string) Context {
	return ctx.AddBinding(name, NameBind{})
}

// AppendFree registers name as a permanent free variable at the outermost
// end of ctx, so every index already handed out stays valid.
func (ctx Context) AppendFree(name string) Context {
	out := make(Context, len(ctx), len(ctx)+1)
	copy(out, ctx)
	return append(out, Bind{name, NameBind{}})
}

func (ctx Context) Lookup(i int) (Bind, bool) {
	if i < 0 || i >= len(ctx) {
		return Bind{}, false
	}
	return ctx[i], true
}

// Index returns the index of the innermost binding of name, or -1.
func (ctx Context) Index(name string) int {
	return slices.IndexFunc(ctx, func(b Bind) bool { return b.Name == name })
}

func (ctx Context) IsNameBound(name string) bool {
	return lo.ContainsBy(ctx, func(b Bind) bool { return b.Name == name })
}

// PickFreshName pushes a NameBind for a name derived from s that no
// binding in ctx uses yet.
func (ctx Context) PickFreshName(s string) (Context, string) {
	if ctx.IsNameBound(s) {
		return ctx.PickFreshName(s + "'")
	}
	return ctx.AddName(s), s
}

// TypeAt returns the type of the variable at index i. info locates the
// occurrence for the error.
func (ctx Context) TypeAt(i int, info Info) (Ty, error) {
	b, ok := ctx.Lookup(i)
	if !ok {
		return nil, errorf(ErrUnboundVariable, info, "index %d in a context of length %d", i, len(ctx))
	}
	switch bind := b.Binding.(type) {
	case VarBind:
		return bind.Ty, nil
	case NameBind:
		return nil, errorf(ErrUntypedVariable, info, "no type recorded for variable %q", b.Name)
	}
	panic(fmt.Sprintf("unreachable: %T", b.Binding))
}

func prepend[T any](v T, from []T) []T {
	return append([]T{v}, from...)
}
