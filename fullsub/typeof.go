package fullsub

// TypeOf computes the type of t under ctx. Arguments are checked against
// parameter types up to subtyping.
func TypeOf(ctx Context, t Term) (Ty, error) {
	switch t := t.(type) {
	case True, False:
		return TyBool{}, nil
	case Zero:
		return TyNat{}, nil
	case Succ:
		if err := expectNat(ctx, t.T, "succ"); err != nil {
			return nil, err
		}
		return TyNat{}, nil
	case Pred:
		if err := expectNat(ctx, t.T, "pred"); err != nil {
			return nil, err
		}
		return TyNat{}, nil
	case IsZero:
		if err := expectNat(ctx, t.T, "iszero"); err != nil {
			return nil, err
		}
		return TyBool{}, nil
	case Var:
		return ctx.TypeAt(t.Index, t.Info)
	case If:
		condType, err := TypeOf(ctx, t.Cond)
		if err != nil {
			return nil, err
		}
		if !TypeEquals(condType, TyBool{}) {
			return nil, errorf(ErrConditionNotBool, t.Cond.Pos(), "got %s", condType)
		}
		bodyType, err := TypeOf(ctx, t.Body)
		if err != nil {
			return nil, err
		}
		elseType, err := TypeOf(ctx, t.Else)
		if err != nil {
			return nil, err
		}
		// TODO: compute the join of bodyType and elseType instead of
		// requiring them to be equal.
		if !TypeEquals(bodyType, elseType) {
			return nil, errorf(ErrBranchMismatch, t.Info, "%s != %s", bodyType, elseType)
		}
		return bodyType, nil
	case Abs:
		ctxPrime := ctx.AddBinding(t.OldBind, VarBind{t.Type})
		tyT2, err := TypeOf(ctxPrime, t.Body)
		if err != nil {
			return nil, err
		}
		return TyArr{t.Type, tyT2}, nil
	case App:
		tyT1, err := TypeOf(ctx, t.Fn)
		if err != nil {
			return nil, err
		}
		tyT2, err := TypeOf(ctx, t.Arg)
		if err != nil {
			return nil, err
		}
		tyArr, ok := tyT1.(TyArr)
		if !ok {
			return nil, errorf(ErrArrowExpected, t.Fn.Pos(), "got %s", tyT1)
		}
		if !Subtype(tyT2, tyArr.From) {
			return nil, errorf(ErrParameterMismatch, t.Arg.Pos(), "%s is not a subtype of %s", tyT2, tyArr.From)
		}
		return tyArr.To, nil
	case Record:
		fields := make(TyRecord, 0, len(t.Fields))
		for _, f := range t.Fields {
			ty, err := TypeOf(ctx, f.Term)
			if err != nil {
				return nil, err
			}
			fields = append(fields, TyField{f.Name, ty})
		}
		return fields, nil
	case Proj:
		ty, err := TypeOf(ctx, t.T)
		if err != nil {
			return nil, err
		}
		tyRec, ok := ty.(TyRecord)
		if !ok {
			return nil, errorf(ErrRecordExpected, t.T.Pos(), "got %s", ty)
		}
		fty, ok := tyRec.Field(t.L)
		if !ok {
			return nil, errorf(ErrMissingField, t.Info, "label %q not in %s", t.L, tyRec)
		}
		return fty, nil
	}
	panic("unreachable")
}

func expectNat(ctx Context, t Term, op string) error {
	ty, err := TypeOf(ctx, t)
	if err != nil {
		return err
	}
	if _, ok := ty.(TyNat); !ok {
		return errorf(ErrNotANumber, t.Pos(), "argument of %s has type %s", op, ty)
	}
	return nil
}
