package fullsub

import "github.com/samber/lo"

// Shift adds d to every free variable of t.
func Shift(d int, t Term) Term {
	return shift(d, 0, t)
}

// shift walks t under c binders. Variables below the cutoff are bound inside
// t and keep their index; Len is adjusted either way.
func shift(d, c int, t Term) Term {
	switch t := t.(type) {
	case True, False, Zero:
		return t
	case Var:
		if t.Index < c {
			return Var{t.Info, t.Index, t.Len + d}
		}
		return Var{t.Info, t.Index + d, t.Len + d}
	case If:
		return If{t.Info, shift(d, c, t.Cond), shift(d, c, t.Body), shift(d, c, t.Else)}
	case Abs:
		return Abs{t.Info, t.OldBind, t.Type, shift(d, c+1, t.Body)}
	case App:
		return App{t.Info, shift(d, c, t.Fn), shift(d, c, t.Arg)}
	case Succ:
		return Succ{t.Info, shift(d, c, t.T)}
	case Pred:
		return Pred{t.Info, shift(d, c, t.T)}
	case IsZero:
		return IsZero{t.Info, shift(d, c, t.T)}
	case Record:
		return Record{t.Info, lo.Map(t.Fields, func(f Field, _ int) Field {
			return Field{f.Name, shift(d, c, f.Term)}
		})}
	case Proj:
		return Proj{t.Info, shift(d, c, t.T), t.L}
	}
	panic("unreachable")
}

// Subst replaces the free variable j in t with s.
func Subst(j int, s, t Term) Term {
	return subst(j, 0, s, t)
}

// subst walks t under c binders; s is shifted by c at each site so its own
// free variables are not captured.
func subst(j, c int, s, t Term) Term {
	switch t := t.(type) {
	case True, False, Zero:
		return t
	case Var:
		if t.Index == j+c {
			return shift(c, 0, s)
		}
		return t
	case If:
		return If{t.Info, subst(j, c, s, t.Cond), subst(j, c, s, t.Body), subst(j, c, s, t.Else)}
	case Abs:
		return Abs{t.Info, t.OldBind, t.Type, subst(j, c+1, s, t.Body)}
	case App:
		return App{t.Info, subst(j, c, s, t.Fn), subst(j, c, s, t.Arg)}
	case Succ:
		return Succ{t.Info, subst(j, c, s, t.T)}
	case Pred:
		return Pred{t.Info, subst(j, c, s, t.T)}
	case IsZero:
		return IsZero{t.Info, subst(j, c, s, t.T)}
	case Record:
		return Record{t.Info, lo.Map(t.Fields, func(f Field, _ int) Field {
			return Field{f.Name, subst(j, c, s, f.Term)}
		})}
	case Proj:
		return Proj{t.Info, subst(j, c, s, t.T), t.L}
	}
	panic("unreachable")
}

// SubstTop is the substitution of beta-reduction: s replaces variable 0 of
// the abstraction body t, and the consumed binder is removed.
func SubstTop(s, t Term) Term {
	return Shift(-1, Subst(0, Shift(1, s), t))
}
