package fullsub

import "strconv"

// Info is the source position of a node. It is carried for error messages
// only and is ignored by equality, substitution and evaluation.
type Info struct {
	Offset, End int // byte offsets, End exclusive
	Line, Col   int // 1-based
}

func (i Info) Pos() Info { return i }

// Loc renders the position as line:col, or "-" when unknown.
func (i Info) Loc() string {
	if i.Line <= 0 {
		return "-"
	}
	return strconv.Itoa(i.Line) + ":" + strconv.Itoa(i.Col)
}
