package fullsub

import (
	"errors"
	"testing"
)

var wellTyped = []struct {
	src, ty string
}{
	{"true", "Bool"},
	{"0", "Nat"},
	{"(lambda x:Bool. x) true", "Bool"},
	{"if false then 0 else succ 0", "Nat"},
	{"iszero (pred (succ 0))", "Bool"},
	{"{a=true, b=0}.a", "Bool"},
	{"{a=true, b=0}", "{a:Bool, b:Nat}"},
	{"(lambda r:{x:Bool}. r) {x=true, y=false}", "{x:Bool}"},
	{"(lambda r:{x:Bool}. r.x) {x=true, y=false}", "Bool"},
	{"lambda x:Top. x", "Top->Top"},
	{"(lambda x:Top. x) {a=1}", "Top"},
	{"lambda f:Bool->Nat. lambda b:Bool. f b", "(Bool->Nat)->Bool->Nat"},
	{"(lambda f:{x:Bool, y:Bool}->Bool. f {x=true, y=false}) (lambda r:{x:Bool}. r.x)", "Bool"},
	{"(lambda r:{x:{a:Bool}}. r.x.a) {x={a=true, b=false}}", "Bool"},
	{"(lambda f:Top->Bool. f 0) (lambda x:Top. true)", "Bool"},
	{"{x=(lambda y:Nat. iszero y) 2, y=if true then {} else {}}", "{x:Bool, y:{}}"},
	{"(lambda f:Bool->{}. f true) (lambda b:Bool. {c=b})", "{}"},
	{"lambda x:Bool. if x then lambda y:Nat. y else lambda z:Nat. succ z", "Bool->Nat->Nat"},
}

func TestTypeOf(t *testing.T) {
	for _, tt := range wellTyped {
		t.Run(tt.src, func(t *testing.T) {
			got, err := TypeOf(nil, mustParse(t, tt.src))
			if err != nil {
				t.Fatal(err)
			}
			if want := mustParseType(t, tt.ty); !TypeEquals(got, want) {
				t.Errorf("got %s, want %s", got, want)
			}
		})
	}
}

func TestTypeOfRecordOrder(t *testing.T) {
	a, err := TypeOf(nil, mustParse(t, "{x=true, y=false}"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := TypeOf(nil, mustParse(t, "{y=false, x=true}"))
	if err != nil {
		t.Fatal(err)
	}
	if !TypeEquals(a, b) {
		t.Errorf("%s != %s", a, b)
	}
}

func TestTypeOfContext(t *testing.T) {
	ctx := Context(nil).AddBinding("x", VarBind{TyBool{}}).AddBinding("f", VarBind{TyArr{TyRecord{{"a", TyBool{}}}, TyNat{}}})
	term, err := ParseTerm("if x then f {a=x, b=0} else 0", ctx)
	if err != nil {
		t.Fatal(err)
	}
	ty, err := TypeOf(ctx, term)
	if err != nil {
		t.Fatal(err)
	}
	if !TypeEquals(ty, TyNat{}) {
		t.Errorf("got %s, want Nat", ty)
	}
}

func TestTypeOfErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind error
		pos  string
	}{
		{"if true then 0 else false", ErrBranchMismatch, "1:1"},
		{"if 0 then true else false", ErrConditionNotBool, "1:4"},
		{"true true", ErrArrowExpected, "1:1"},
		{"(lambda x:Bool. x) 0", ErrParameterMismatch, "1:20"},
		{"(lambda r:{x:Bool, y:Bool}. r) {x=true}", ErrParameterMismatch, "1:32"},
		{"(lambda f:{x:Bool}->Bool. f) (lambda r:{x:Bool, y:Bool}. r.x)", ErrParameterMismatch, "1:31"},
		{"(lambda f:Top->Bool. f) (lambda x:Bool. x)", ErrParameterMismatch, "1:26"},
		{"{a=true}.b", ErrMissingField, "1:1"},
		{"true.a", ErrRecordExpected, "1:1"},
		{"succ true", ErrNotANumber, "1:6"},
		{"iszero {}", ErrNotANumber, "1:8"},
		{"if {a=true}.a then {x=true} else {x=true, y=true}", ErrBranchMismatch, "1:1"},
		{"lambda x:Bool. x.a", ErrRecordExpected, "1:16"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			ty, err := TypeOf(nil, mustParse(t, tt.src))
			if !errors.Is(err, tt.kind) {
				t.Fatalf("got %v, %v; want %v", ty, err, tt.kind)
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("%T is not *Error", err)
			}
			if got := e.Info.Loc(); got != tt.pos {
				t.Errorf("error at %s, want %s", got, tt.pos)
			}
		})
	}
}

func TestTypeOfVariables(t *testing.T) {
	_, ctx, err := ParseAll([]byte("z;"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := TypeOf(ctx, Var{Index: 0, Len: 1}); !errors.Is(err, ErrUntypedVariable) {
		t.Errorf("free variable: got %v, want %v", err, ErrUntypedVariable)
	}
	if _, err := TypeOf(ctx, Var{Index: 3, Len: 1}); !errors.Is(err, ErrUnboundVariable) {
		t.Errorf("index out of range: got %v, want %v", err, ErrUnboundVariable)
	}
	// A failure inside an abstraction leaves the caller's context as it was.
	if _, err := TypeOf(ctx, mustParse(t, "lambda x:Bool. x x")); !errors.Is(err, ErrArrowExpected) {
		t.Errorf("got %v, want %v", err, ErrArrowExpected)
	}
	if ctx.Len() != 1 || ctx[0].Name != "z" {
		t.Errorf("context changed to %v", ctx)
	}
}

// Every well-typed non-value steps, and every step keeps the type up to
// subtyping.
func TestProgressAndPreservation(t *testing.T) {
	for _, tt := range wellTyped {
		t.Run(tt.src, func(t *testing.T) {
			term := mustParse(t, tt.src)
			ty, err := TypeOf(nil, term)
			if err != nil {
				t.Fatal(err)
			}
			for !IsVal(term) {
				next, err := Step(term)
				if err != nil {
					t.Fatalf("%s is stuck: %v", term.DeBruijnString(), err)
				}
				nextTy, err := TypeOf(nil, next)
				if err != nil {
					t.Fatalf("%s became ill-typed: %v", next.DeBruijnString(), err)
				}
				if !Subtype(nextTy, ty) {
					t.Fatalf("%s : %s is not a subtype of %s", next.DeBruijnString(), nextTy, ty)
				}
				term, ty = next, nextTy
			}
		})
	}
}
