package fullsub

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestParsePositions(t *testing.T) {
	cmds, _, err := ParseAll([]byte("if true then 0 else false;\n  {a=true}.a;"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cmds) != 2 {
		t.Fatalf("got %d commands", len(cmds))
	}
	want := Info{Offset: 0, End: 25, Line: 1, Col: 1}
	if got := cmds[0].(EvalCmd).Term.Pos(); got != want {
		t.Errorf("if: got %s, want %s", spew.Sdump(got), spew.Sdump(want))
	}
	proj := cmds[1].(EvalCmd).Term.(Proj)
	if got := proj.Pos(); got.Line != 2 || got.Col != 3 || got.Offset != 29 || got.End != 39 {
		t.Errorf("proj: got %s", spew.Sdump(got))
	}
	if got := proj.T.Pos(); got.End != 37 {
		t.Errorf("record: got %s", spew.Sdump(got))
	}
}

func TestParseFreeVariables(t *testing.T) {
	cmds, ctx, err := ParseAll([]byte("x; y x; lambda b:Bool. z;"), nil)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, ctx.Len())
	for i, b := range ctx {
		names[i] = b.Name
		if _, ok := b.Binding.(NameBind); !ok {
			t.Errorf("%s: got %T, want NameBind", b.Name, b.Binding)
		}
	}
	if got := strings.Join(names, " "); got != "x y z" {
		t.Errorf("context %q, want %q", got, "x y z")
	}
	first := cmds[0].(EvalCmd).Term.(Var)
	if first.Index != 0 || first.Len != 1 {
		t.Errorf("x: %s", spew.Sdump(first))
	}
	second := cmds[1].(EvalCmd).Term.(App)
	if fn, arg := second.Fn.(Var), second.Arg.(Var); fn.Index != 1 || fn.Len != 2 || arg.Index != 0 || arg.Len != 2 {
		t.Errorf("y x: %s", spew.Sdump(second))
	}
	body := cmds[2].(EvalCmd).Term.(Abs).Body.(Var)
	if body.Index != 3 || body.Len != 4 {
		t.Errorf("z: %s", spew.Sdump(body))
	}
}

func TestParseBindings(t *testing.T) {
	p := NewParser([]byte("x : Bool; f : {a:Bool}->Top; u/; f {a=x};"))
	var ctx Context
	var cmds []Command
	for {
		cmd, next, err := p.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		cmds = append(cmds, cmd)
		ctx = next
	}
	if len(cmds) != 4 || ctx.Len() != 3 {
		t.Fatalf("got %d commands, context %v", len(cmds), ctx)
	}
	if b := cmds[1].(BindCmd); b.Name != "f" || b.Binding.(VarBind).Ty.String() != "{a:Bool}->Top" {
		t.Errorf("got %s", spew.Sdump(b))
	}
	if _, ok := cmds[2].(BindCmd).Binding.(NameBind); !ok {
		t.Errorf("u/ is not a NameBind")
	}
	app := cmds[3].(EvalCmd).Term.(App)
	if fn := app.Fn.(Var); fn.Index != 1 {
		t.Errorf("f resolved to %d", fn.Index)
	}
	ty, err := TypeOf(ctx, app)
	if err != nil {
		t.Fatal(err)
	}
	if !TypeEquals(ty, TyTop{}) {
		t.Errorf("got %s", ty)
	}
}

func TestParseShadowing(t *testing.T) {
	term := mustParse(t, "lambda x:Bool. lambda x:Nat. x")
	if v := term.(Abs).Body.(Abs).Body.(Var); v.Index != 0 || v.Len != 2 {
		t.Errorf("got %s", spew.Sdump(v))
	}
	term = mustParse(t, "λx:Bool. λy:Nat. x")
	if v := term.(Abs).Body.(Abs).Body.(Var); v.Index != 1 {
		t.Errorf("got %s", spew.Sdump(v))
	}
}

func TestParseNumerals(t *testing.T) {
	if got := mustParse(t, "3"); !Equal(got, num(3)) {
		t.Errorf("got %s", got.DeBruijnString())
	}
	if got := mustParse(t, "succ (succ 0)"); !Equal(got, num(2)) {
		t.Errorf("got %s", got.DeBruijnString())
	}
	// succ takes an atomic operand.
	if _, err := ParseTerm("succ succ 0", nil); !errors.Is(err, ErrSyntax) {
		t.Errorf("got %v, want %v", err, ErrSyntax)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src, msg, pos string
	}{
		{"if true then false", `expected "else", got "EOF"`, "1:19"},
		{"lambda x. x", `expected ":", got "."`, "1:9"},
		{"lambda x:Int. x", `undefined type "Int"`, "1:10"},
		{"{a=true, a=false}", `duplicate label "a"`, "1:10"},
		{"lambda r:{a:Bool, a:Nat}. r", `duplicate label "a"`, "1:19"},
		{"true & false", `illegal input "&"`, "1:6"},
		{"/* open", `illegal input "unterminated comment"`, "1:1"},
		{"(true", `expected ")", got "EOF"`, "1:6"},
		{"{a=true}.1", `expected "identifier", got numeral "1"`, "1:10"},
		{")", `unexpected ")"`, "1:1"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, _, err := ParseAll([]byte(tt.src), nil)
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("got %v, want a syntax error", err)
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("%T is not *Error", err)
			}
			if e.Msg != tt.msg || e.Info.Loc() != tt.pos {
				t.Errorf("got %s %q, want %s %q", e.Info.Loc(), e.Msg, tt.pos, tt.msg)
			}
		})
	}
}

func TestParserRecovers(t *testing.T) {
	p := NewParser([]byte("true; if; lambda x:Bool. ; {a=0}.a; (;"))
	var results []string
	var ctx Context
	for {
		cmd, next, err := p.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			results = append(results, "error")
			continue
		}
		ctx = next
		results = append(results, cmd.(EvalCmd).Term.DeBruijnString())
	}
	want := "true, error, error, {a=0}.a, error"
	if got := strings.Join(results, ", "); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestParseTermRejectsFreeVariables(t *testing.T) {
	if _, err := ParseTerm("lambda x:Bool. y", nil); !errors.Is(err, ErrUnboundVariable) {
		t.Errorf("got %v, want %v", err, ErrUnboundVariable)
	}
	if _, err := ParseTerm("true; false", nil); !errors.Is(err, ErrSyntax) {
		t.Errorf("got %v, want %v", err, ErrSyntax)
	}
}

func TestContextString(t *testing.T) {
	tests := []struct {
		src, want string
	}{
		{"lambda x:Bool. x", "(λx:Bool. x)"},
		{"lambda x:Bool. lambda x:Bool. x", "(λx:Bool. (λx':Bool. x'))"},
		{"lambda x:Bool. lambda x:Bool. lambda x:Bool. x", "(λx:Bool. (λx':Bool. (λx'':Bool. x'')))"},
		{"lambda f:(Bool->Nat)->Top. f", "(λf:(Bool->Nat)->Top. f)"},
		{"{a=3, b={c=true}}", "{a=3, b={c=true}}"},
		{"succ (pred 0)", "succ (pred 0)"},
		{"(lambda r:{x:Bool}. r.x) {x=true}", "((λr:{x:Bool}. r.x) {x=true})"},
		{"(if true then lambda x:Bool. x else lambda x:Bool. x) (iszero 0)", "((if true then (λx:Bool. x) else (λx:Bool. x)) (iszero 0))"},
		{"(if true then {a=0} else {a=1}).a", "(if true then {a=0} else {a=1}).a"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			term := mustParse(t, tt.src)
			got := term.ContextString(nil)
			if got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
			again, err := ParseTerm(got, nil)
			if err != nil {
				t.Fatalf("reparsing %s: %v", got, err)
			}
			if !Equal(again, term) {
				t.Errorf("%s reparsed as %s", got, again.DeBruijnString())
			}
		})
	}
}

func TestContextStringBadIndex(t *testing.T) {
	ctx := Context(nil).AddName("x")
	if got, want := (Var{Index: 0, Len: 5}).ContextString(ctx), "[bad index: 0/5 in {x}]"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if got, want := (Var{Index: 0, Len: 1}).ContextString(ctx), "x"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDeBruijnString(t *testing.T) {
	term := mustParse(t, "lambda x:Bool. lambda y:{a:Top}. x")
	if got, want := term.DeBruijnString(), "(λ:Bool.(λ:{a:Top}.1))"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
