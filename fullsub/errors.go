package fullsub

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error unwraps to exactly one of these, so callers can
// test the kind with errors.Is.
var (
	ErrUnboundVariable   = errors.New("unbound variable")
	ErrUntypedVariable   = errors.New("no type information for variable")
	ErrConditionNotBool  = errors.New("guard of conditional not a boolean")
	ErrBranchMismatch    = errors.New("arms of conditional have different types")
	ErrArrowExpected     = errors.New("arrow type expected")
	ErrParameterMismatch = errors.New("parameter type mismatch")
	ErrRecordExpected    = errors.New("record type expected")
	ErrMissingField      = errors.New("field not found")
	ErrNotANumber        = errors.New("argument is not a number")
	ErrStuckCondition    = errors.New("guard of conditional did not reduce to a boolean")
	ErrSyntax            = errors.New("syntax error")
)

// ErrNoRuleApplies is returned by Step for terms in normal form. It is not
// a failure.
var ErrNoRuleApplies = errors.New("no rule applies")

type Error struct {
	Kind error
	Info Info
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Info.Loc() + ": " + e.Kind.Error()
	}
	return e.Info.Loc() + ": " + e.Kind.Error() + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Kind }

func errorf(kind error, info Info, format string, args ...any) *Error {
	return &Error{Kind: kind, Info: info, Msg: fmt.Sprintf(format, args...)}
}
