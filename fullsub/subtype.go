package fullsub

import (
	"github.com/hashicorp/go-set/v3"
	"github.com/samber/lo"
)

// Subtype reports whether a term of type s may be used where t is expected.
func Subtype(s, t Ty) bool {
	if TypeEquals(s, t) {
		return true
	}
	switch t := t.(type) {
	case TyTop:
		return true
	case TyRecord:
		s, ok := s.(TyRecord)
		if !ok {
			return false
		}
		have := labels(s)
		return lo.EveryBy(t, func(tf TyField) bool {
			if !have.Contains(tf.Name) {
				return false
			}
			sf, _ := s.Field(tf.Name)
			return Subtype(sf, tf.Type)
		})
	case TyArr:
		s, ok := s.(TyArr)
		return ok && Subtype(t.From, s.From) && Subtype(s.To, t.To)
	}
	return false
}

func labels(r TyRecord) *set.Set[string] {
	return set.From(lo.Map(r, func(f TyField, _ int) string { return f.Name }))
}
