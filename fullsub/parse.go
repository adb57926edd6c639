package fullsub

import (
	"fmt"
	"io"
	"strconv"

	"github.com/hashicorp/go-set/v3"
)

// Command is a top-level statement.
type Command interface {
	isCommand()
	Pos() Info
}

// EvalCmd asks for Term to be checked and evaluated.
type EvalCmd struct {
	Info
	Term Term
}

func (EvalCmd) isCommand() {}

// BindCmd introduces a top-level variable: "x : T;" gives it a type and
// "x/;" only a name.
type BindCmd struct {
	Info
	Name    string
	Binding Binding
}

func (BindCmd) isCommand() {}

// Parser reads commands from a source text one at a time, so that a bad
// statement does not prevent the following ones from being processed.
type Parser struct {
	toks    []token
	pos     int
	prevEnd int
	top     Context
}

func NewParser(src []byte) *Parser {
	return &Parser{toks: scan(src)}
}

type bailout struct{ err *Error }

// Next parses the next command with names resolved against ctx, and returns
// it together with the context that follows it. It returns io.EOF when the
// input is exhausted. After a syntax error, Next has skipped past the
// offending statement and may be called again.
func (p *Parser) Next(ctx Context) (cmd Command, next Context, err error) {
	if p.peek().kind == tEOF {
		return nil, ctx, io.EOF
	}
	p.top = ctx
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			p.sync()
			cmd, next, err = nil, ctx, b.err
		}
	}()
	cmd = p.parseCommand()
	switch cmd := cmd.(type) {
	case BindCmd:
		return cmd, p.top.AddBinding(cmd.Name, cmd.Binding), nil
	case EvalCmd:
		cmd.Term = withLen(cmd.Term, 0, p.top.Len())
		return cmd, p.top, nil
	}
	panic("unreachable")
}

// ParseAll parses every command in src, stopping at the first error.
func ParseAll(src []byte, ctx Context) ([]Command, Context, error) {
	p := NewParser(src)
	var cmds []Command
	for {
		cmd, next, err := p.Next(ctx)
		if err == io.EOF {
			return cmds, ctx, nil
		}
		if err != nil {
			return nil, ctx, err
		}
		cmds = append(cmds, cmd)
		ctx = next
	}
}

// ParseTerm parses a single term under ctx. Free variables are not allowed.
func ParseTerm(src string, ctx Context) (Term, error) {
	cmds, next, err := ParseAll([]byte(src), ctx)
	if err != nil {
		return nil, err
	}
	if len(cmds) != 1 {
		return nil, errorf(ErrSyntax, Info{}, "expected one term, got %d statements", len(cmds))
	}
	eval, ok := cmds[0].(EvalCmd)
	if !ok {
		return nil, errorf(ErrSyntax, cmds[0].Pos(), "expected a term, got a binding")
	}
	if next.Len() != ctx.Len() {
		return nil, errorf(ErrUnboundVariable, eval.Pos(), "free variable %q", next[next.Len()-1].Name)
	}
	return eval.Term, nil
}

// sync skips to just past the next ';'.
func (p *Parser) sync() {
	for {
		switch p.next().kind {
		case tSemi, tEOF:
			return
		}
	}
}

func (p *Parser) peek() token { return p.toks[p.pos] }

func (p *Parser) peekN(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tEOF {
		p.pos++
		p.prevEnd = tok.End
	}
	return tok
}

func (p *Parser) errorf(info Info, format string, args ...any) {
	panic(bailout{errorf(ErrSyntax, info, format, args...)})
}

func (p *Parser) unexpected(tok token) {
	if tok.kind == tIllegal {
		p.errorf(tok.Info, "illegal input %q", tok.text)
	}
	p.errorf(tok.Info, "unexpected %s", describe(tok))
}

func describe(tok token) string {
	switch tok.kind {
	case tLCID, tUCID, tInt:
		return fmt.Sprintf("%s %q", tok.kind, tok.text)
	}
	return fmt.Sprintf("%q", tok.kind.String())
}

// expect consumes a token of the given kind. A mismatching token is left in
// place so that sync can find the end of the statement.
func (p *Parser) expect(kind tokenKind) token {
	if tok := p.peek(); tok.kind != kind {
		if tok.kind == tIllegal {
			p.unexpected(tok)
		}
		p.errorf(tok.Info, "expected %q, got %s", kind.String(), describe(tok))
	}
	return p.next()
}

// span covers the source from start to the last consumed token.
func (p *Parser) span(start Info) Info {
	start.End = p.prevEnd
	return start
}

func (p *Parser) parseCommand() Command {
	start := p.peek().Info
	var cmd Command
	if p.peek().kind == tLCID && p.peekN(1).kind == tColon {
		name := p.next().text
		p.next()
		ty := p.parseType()
		cmd = BindCmd{p.span(start), name, VarBind{ty}}
	} else if p.peek().kind == tLCID && p.peekN(1).kind == tSlash {
		name := p.next().text
		p.next()
		cmd = BindCmd{p.span(start), name, NameBind{}}
	} else {
		t := p.parseTerm(nil)
		cmd = EvalCmd{p.span(start), t}
	}
	if p.peek().kind != tEOF {
		p.expect(tSemi)
	}
	return cmd
}

// parseTerm parses a term under the binders in locals, innermost first.
func (p *Parser) parseTerm(locals Context) Term {
	start := p.peek().Info
	switch p.peek().kind {
	case tLambda:
		p.next()
		x := p.expect(tLCID).text
		p.expect(tColon)
		ty := p.parseType()
		p.expect(tDot)
		body := p.parseTerm(locals.AddName(x))
		return Abs{p.span(start), x, ty, body}
	case tIf:
		p.next()
		cond := p.parseTerm(locals)
		p.expect(tThen)
		body := p.parseTerm(locals)
		p.expect(tElse)
		els := p.parseTerm(locals)
		return If{p.span(start), cond, body, els}
	}
	return p.parseAppTerm(locals)
}

func (p *Parser) parseAppTerm(locals Context) Term {
	start := p.peek().Info
	switch p.peek().kind {
	case tSucc:
		p.next()
		return Succ{p.span(start), p.parsePathTerm(locals)}
	case tPred:
		p.next()
		return Pred{p.span(start), p.parsePathTerm(locals)}
	case tIsZero:
		p.next()
		return IsZero{p.span(start), p.parsePathTerm(locals)}
	}
	t := p.parsePathTerm(locals)
	for startsATerm(p.peek().kind) {
		arg := p.parsePathTerm(locals)
		t = App{p.span(start), t, arg}
	}
	return t
}

func startsATerm(kind tokenKind) bool {
	switch kind {
	case tLParen, tLBrace, tTrue, tFalse, tInt, tLCID:
		return true
	}
	return false
}

func (p *Parser) parsePathTerm(locals Context) Term {
	start := p.peek().Info
	t := p.parseATerm(locals)
	for p.peek().kind == tDot {
		p.next()
		l := p.expect(tLCID).text
		t = Proj{p.span(start), t, l}
	}
	return t
}

func (p *Parser) parseATerm(locals Context) Term {
	if !startsATerm(p.peek().kind) {
		p.unexpected(p.peek())
	}
	tok := p.next()
	switch tok.kind {
	case tLParen:
		t := p.parseTerm(locals)
		p.expect(tRParen)
		return t
	case tTrue:
		return True{tok.Info}
	case tFalse:
		return False{tok.Info}
	case tInt:
		n, err := strconv.Atoi(tok.text)
		if err != nil {
			p.errorf(tok.Info, "bad numeral %q", tok.text)
		}
		var t Term = Zero{tok.Info}
		for i := 0; i < n; i++ {
			t = Succ{tok.Info, t}
		}
		return t
	case tLCID:
		return Var{Info: tok.Info, Index: p.resolve(locals, tok.text)}
	case tLBrace:
		return p.parseRecord(locals, tok.Info)
	}
	panic("unreachable")
}

// resolve returns the de Bruijn index of name. Unknown names are added to
// the top-level context as free variables.
func (p *Parser) resolve(locals Context, name string) int {
	if i := locals.Index(name); i >= 0 {
		return i
	}
	j := p.top.Index(name)
	if j < 0 {
		p.top = p.top.AppendFree(name)
		j = p.top.Len() - 1
	}
	return locals.Len() + j
}

func (p *Parser) parseRecord(locals Context, start Info) Term {
	var fields []Field
	seen := set.New[string](0)
	for p.peek().kind != tRBrace {
		if len(fields) > 0 {
			p.expect(tComma)
		}
		label := p.expect(tLCID)
		if !seen.Insert(label.text) {
			p.errorf(label.Info, "duplicate label %q", label.text)
		}
		p.expect(tEq)
		fields = append(fields, Field{label.text, p.parseTerm(locals)})
	}
	p.next()
	return Record{p.span(start), fields}
}

func (p *Parser) parseType() Ty {
	from := p.parseAType()
	if p.peek().kind == tArrow {
		p.next()
		return TyArr{from, p.parseType()}
	}
	return from
}

func (p *Parser) parseAType() Ty {
	switch p.peek().kind {
	case tLParen, tUCID, tLBrace:
	default:
		p.unexpected(p.peek())
	}
	tok := p.next()
	switch tok.kind {
	case tLParen:
		ty := p.parseType()
		p.expect(tRParen)
		return ty
	case tUCID:
		switch tok.text {
		case "Bool":
			return TyBool{}
		case "Nat":
			return TyNat{}
		case "Top":
			return TyTop{}
		}
		p.errorf(tok.Info, "undefined type %q", tok.text)
	case tLBrace:
		var fields TyRecord
		seen := set.New[string](0)
		for p.peek().kind != tRBrace {
			if len(fields) > 0 {
				p.expect(tComma)
			}
			label := p.expect(tLCID)
			if !seen.Insert(label.text) {
				p.errorf(label.Info, "duplicate label %q", label.text)
			}
			p.expect(tColon)
			fields = append(fields, TyField{label.text, p.parseType()})
		}
		p.next()
		return fields
	}
	panic("unreachable")
}

// withLen records in every variable of t the length of the context it
// occurs in: c enclosing binders over a top-level context of length n.
func withLen(t Term, c, n int) Term {
	switch t := t.(type) {
	case True, False, Zero:
		return t
	case Var:
		t.Len = c + n
		return t
	case If:
		return If{t.Info, withLen(t.Cond, c, n), withLen(t.Body, c, n), withLen(t.Else, c, n)}
	case Abs:
		return Abs{t.Info, t.OldBind, t.Type, withLen(t.Body, c+1, n)}
	case App:
		return App{t.Info, withLen(t.Fn, c, n), withLen(t.Arg, c, n)}
	case Succ:
		return Succ{t.Info, withLen(t.T, c, n)}
	case Pred:
		return Pred{t.Info, withLen(t.T, c, n)}
	case IsZero:
		return IsZero{t.Info, withLen(t.T, c, n)}
	case Record:
		fields := make([]Field, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = Field{f.Name, withLen(f.Term, c, n)}
		}
		return Record{t.Info, fields}
	case Proj:
		return Proj{t.Info, withLen(t.T, c, n), t.L}
	}
	panic("unreachable")
}
