package fullsub

import (
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tEOF tokenKind = iota
	tIllegal
	tLCID
	tUCID
	tInt
	tTrue
	tFalse
	tIf
	tThen
	tElse
	tSucc
	tPred
	tIsZero
	tLambda
	tLParen
	tRParen
	tLBrace
	tRBrace
	tDot
	tComma
	tColon
	tSemi
	tEq
	tSlash
	tArrow
)

func (t tokenKind) String() string {
	switch t {
	case tEOF:
		return "EOF"
	case tIllegal:
		return "illegal token"
	case tLCID:
		return "identifier"
	case tUCID:
		return "type name"
	case tInt:
		return "numeral"
	case tTrue:
		return "true"
	case tFalse:
		return "false"
	case tIf:
		return "if"
	case tThen:
		return "then"
	case tElse:
		return "else"
	case tSucc:
		return "succ"
	case tPred:
		return "pred"
	case tIsZero:
		return "iszero"
	case tLambda:
		return "λ"
	case tLParen:
		return "("
	case tRParen:
		return ")"
	case tLBrace:
		return "{"
	case tRBrace:
		return "}"
	case tDot:
		return "."
	case tComma:
		return ","
	case tColon:
		return ":"
	case tSemi:
		return ";"
	case tEq:
		return "="
	case tSlash:
		return "/"
	case tArrow:
		return "->"
	}
	panic("unreachable")
}

var keywords = map[string]tokenKind{
	"true":   tTrue,
	"false":  tFalse,
	"if":     tIf,
	"then":   tThen,
	"else":   tElse,
	"succ":   tSucc,
	"pred":   tPred,
	"iszero": tIsZero,
	"lambda": tLambda,
}

var punct = map[rune]tokenKind{
	'(': tLParen,
	')': tRParen,
	'{': tLBrace,
	'}': tRBrace,
	'.': tDot,
	',': tComma,
	':': tColon,
	';': tSemi,
	'=': tEq,
	'λ': tLambda,
}

type token struct {
	kind tokenKind
	text string
	Info
}

type scanner struct {
	src       []byte
	off       int
	line, col int
}

// scan splits src into tokens. It never fails: bad input becomes a
// tIllegal token and is reported by the parser.
func scan(src []byte) []token {
	s := &scanner{src: src, line: 1, col: 1}
	var toks []token
	for {
		tok := s.next()
		toks = append(toks, tok)
		if tok.kind == tEOF {
			return toks
		}
	}
}

func (s *scanner) peek() (rune, int) {
	if s.off >= len(s.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(s.src[s.off:])
}

func (s *scanner) advance() rune {
	r, w := s.peek()
	s.off += w
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

func (s *scanner) hasPrefix(p string) bool {
	return len(s.src)-s.off >= len(p) && string(s.src[s.off:s.off+len(p)]) == p
}

func (s *scanner) skipSpaceAndComments() *token {
	for s.off < len(s.src) {
		if r, _ := s.peek(); unicode.IsSpace(r) {
			s.advance()
			continue
		}
		if !s.hasPrefix("/*") {
			return nil
		}
		start := Info{Offset: s.off, Line: s.line, Col: s.col}
		s.advance()
		s.advance()
		for !s.hasPrefix("*/") {
			if s.off >= len(s.src) {
				start.End = s.off
				return &token{tIllegal, "unterminated comment", start}
			}
			s.advance()
		}
		s.advance()
		s.advance()
	}
	return nil
}

func (s *scanner) next() token {
	if bad := s.skipSpaceAndComments(); bad != nil {
		return *bad
	}
	info := Info{Offset: s.off, Line: s.line, Col: s.col}
	emit := func(kind tokenKind) token {
		info.End = s.off
		return token{kind, string(s.src[info.Offset:s.off]), info}
	}
	if s.off >= len(s.src) {
		return emit(tEOF)
	}
	if s.hasPrefix("->") {
		s.advance()
		s.advance()
		return emit(tArrow)
	}
	if s.hasPrefix("/") {
		s.advance()
		return emit(tSlash)
	}
	r := s.advance()
	if kind, ok := punct[r]; ok {
		return emit(kind)
	}
	switch {
	case r >= '0' && r <= '9':
		for r, _ := s.peek(); r >= '0' && r <= '9'; r, _ = s.peek() {
			s.advance()
		}
		return emit(tInt)
	case r == '_' || unicode.IsLetter(r):
		for r, _ := s.peek(); r == '_' || r == '\'' || unicode.IsLetter(r) || unicode.IsDigit(r); r, _ = s.peek() {
			s.advance()
		}
		tok := emit(tLCID)
		if kind, ok := keywords[tok.text]; ok {
			tok.kind = kind
		} else if unicode.IsUpper(r) {
			tok.kind = tUCID
		}
		return tok
	}
	return emit(tIllegal)
}
