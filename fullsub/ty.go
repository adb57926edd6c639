package fullsub

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

type Ty interface {
	isType()
	fmt.Stringer
}

type TyBool struct{}

func (TyBool) isType()        {}
func (TyBool) String() string { return "Bool" }

type TyNat struct{}

func (TyNat) isType()        {}
func (TyNat) String() string { return "Nat" }

type TyTop struct{}

func (TyTop) isType()        {}
func (TyTop) String() string { return "Top" }

type TyArr struct {
	From, To Ty
}

func (TyArr) isType() {}

func (t TyArr) String() string {
	if _, ok := t.From.(TyArr); ok {
		return "(" + t.From.String() + ")->" + t.To.String()
	}
	return t.From.String() + "->" + t.To.String()
}

type TyRecord []TyField

func (TyRecord) isType() {}

func (t TyRecord) String() string {
	return "{" + strings.Join(lo.Map(t, func(f TyField, _ int) string { return f.String() }), ", ") + "}"
}

// Field returns the type of label l.
func (t TyRecord) Field(l string) (Ty, bool) {
	i := slices.IndexFunc(t, func(f TyField) bool { return f.Name == l })
	if i < 0 {
		return nil, false
	}
	return t[i].Type, true
}

type TyField struct {
	Name string
	Type Ty
}

func (f TyField) String() string {
	return f.Name + ":" + f.Type.String()
}

// TypeEquals is structural type equality. Record types are compared
// without regard to field order.
func TypeEquals(l, r Ty) bool {
	switch r := r.(type) {
	case TyBool:
		_, ok := l.(TyBool)
		return ok
	case TyNat:
		_, ok := l.(TyNat)
		return ok
	case TyTop:
		_, ok := l.(TyTop)
		return ok
	case TyArr:
		l, ok := l.(TyArr)
		return ok && TypeEquals(l.From, r.From) && TypeEquals(l.To, r.To)
	case TyRecord:
		l, ok := l.(TyRecord)
		if !ok || len(l) != len(r) {
			return false
		}
		for _, lf := range l {
			rt, ok := r.Field(lf.Name)
			if !ok || !TypeEquals(lf.Type, rt) {
				return false
			}
		}
		return true
	}
	panic("unreachable")
}
