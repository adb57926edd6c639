package fullsub

import "errors"

func IsNumericVal(t Term) bool {
	_, ok := numeral(t)
	return ok
}

func IsVal(t Term) bool {
	switch t := t.(type) {
	case Abs, True, False:
		return true
	case Record:
		for _, f := range t.Fields {
			if !IsVal(f.Term) {
				return false
			}
		}
		return true
	default:
		return IsNumericVal(t)
	}
}

// Step performs one call-by-value reduction. It returns ErrNoRuleApplies
// when t is in normal form, and an *Error when evaluation is stuck on a
// conditional or a missing record field.
func Step(t Term) (Term, error) {
	switch t := t.(type) {
	case App:
		if abs, ok := t.Fn.(Abs); ok && IsVal(t.Arg) {
			return SubstTop(t.Arg, abs.Body), nil
		}
		if IsVal(t.Fn) {
			t2, err := Step(t.Arg)
			if err != nil {
				return nil, err
			}
			return App{t.Info, t.Fn, t2}, nil
		}
		t1, err := Step(t.Fn)
		if err != nil {
			return nil, err
		}
		return App{t.Info, t1, t.Arg}, nil
	case If:
		switch t.Cond.(type) {
		case True:
			return t.Body, nil
		case False:
			return t.Else, nil
		}
		if IsVal(t.Cond) {
			return nil, stuckCondition(t)
		}
		t1, err := Step(t.Cond)
		if errors.Is(err, ErrNoRuleApplies) {
			return nil, stuckCondition(t)
		}
		if err != nil {
			return nil, err
		}
		return If{t.Info, t1, t.Body, t.Else}, nil
	case Pred:
		switch t1 := t.T.(type) {
		case Zero:
			return t1, nil
		case Succ:
			if IsNumericVal(t1.T) {
				return t1.T, nil
			}
		}
		t1, err := Step(t.T)
		if err != nil {
			return nil, err
		}
		return Pred{t.Info, t1}, nil
	case Succ:
		t1, err := Step(t.T)
		if err != nil {
			return nil, err
		}
		return Succ{t.Info, t1}, nil
	case IsZero:
		switch t1 := t.T.(type) {
		case Zero:
			return True{t.Info}, nil
		case Succ:
			if IsNumericVal(t1.T) {
				return False{t.Info}, nil
			}
		}
		t1, err := Step(t.T)
		if err != nil {
			return nil, err
		}
		return IsZero{t.Info, t1}, nil
	case Record:
		for i, f := range t.Fields {
			if IsVal(f.Term) {
				continue
			}
			t1, err := Step(f.Term)
			if errors.Is(err, ErrNoRuleApplies) {
				continue
			}
			if err != nil {
				return nil, err
			}
			fields := append([]Field(nil), t.Fields...)
			fields[i].Term = t1
			return Record{t.Info, fields}, nil
		}
		return nil, ErrNoRuleApplies
	case Proj:
		if r, ok := t.T.(Record); ok && IsVal(r) {
			return project(t, r)
		}
		t1, err := Step(t.T)
		if err != nil {
			return nil, err
		}
		return Proj{t.Info, t1, t.L}, nil
	}
	return nil, ErrNoRuleApplies
}

func project(p Proj, r Record) (Term, error) {
	f, ok := r.Field(p.L)
	if !ok {
		return nil, errorf(ErrMissingField, p.Info, "label %q not in %s", p.L, r.DeBruijnString())
	}
	return f, nil
}

func stuckCondition(t If) error {
	return errorf(ErrStuckCondition, t.Cond.Pos(), "%s", t.Cond.DeBruijnString())
}

// Eval reduces t to normal form with Step.
func Eval(t Term) (Term, error) {
	return EvalTrace(t, nil)
}

// EvalTrace is Eval, calling trace with every intermediate term.
func EvalTrace(t Term, trace func(Term)) (Term, error) {
	for {
		t1, err := Step(t)
		if errors.Is(err, ErrNoRuleApplies) {
			return t, nil
		}
		if err != nil {
			return nil, err
		}
		if trace != nil {
			trace(t1)
		}
		t = t1
	}
}

// EvalBigStep evaluates t with the natural semantics. It reaches the same
// normal form as Eval.
func EvalBigStep(t Term) (Term, error) {
	switch t := t.(type) {
	case If:
		cond, err := EvalBigStep(t.Cond)
		if err != nil {
			return nil, err
		}
		switch cond.(type) {
		case True:
			return EvalBigStep(t.Body)
		case False:
			return EvalBigStep(t.Else)
		}
		return nil, stuckCondition(If{t.Info, cond, t.Body, t.Else})
	case App:
		v1, err := EvalBigStep(t.Fn)
		if err != nil {
			return nil, err
		}
		if !IsVal(v1) {
			return App{t.Info, v1, t.Arg}, nil
		}
		v2, err := EvalBigStep(t.Arg)
		if err != nil {
			return nil, err
		}
		if abs, ok := v1.(Abs); ok && IsVal(v2) {
			return EvalBigStep(SubstTop(v2, abs.Body))
		}
		return App{t.Info, v1, v2}, nil
	case Succ:
		v, err := EvalBigStep(t.T)
		if err != nil {
			return nil, err
		}
		return Succ{t.Info, v}, nil
	case Pred:
		v, err := EvalBigStep(t.T)
		if err != nil {
			return nil, err
		}
		switch v := v.(type) {
		case Zero:
			return v, nil
		case Succ:
			if IsNumericVal(v.T) {
				return v.T, nil
			}
		}
		return Pred{t.Info, v}, nil
	case IsZero:
		v, err := EvalBigStep(t.T)
		if err != nil {
			return nil, err
		}
		switch v := v.(type) {
		case Zero:
			return True{t.Info}, nil
		case Succ:
			if IsNumericVal(v.T) {
				return False{t.Info}, nil
			}
		}
		return IsZero{t.Info, v}, nil
	case Record:
		fields := make([]Field, len(t.Fields))
		for i, f := range t.Fields {
			v, err := EvalBigStep(f.Term)
			if err != nil {
				return nil, err
			}
			fields[i] = Field{f.Name, v}
		}
		return Record{t.Info, fields}, nil
	case Proj:
		v, err := EvalBigStep(t.T)
		if err != nil {
			return nil, err
		}
		if r, ok := v.(Record); ok && IsVal(r) {
			return project(t, r)
		}
		return Proj{t.Info, v, t.L}, nil
	}
	return t, nil
}
