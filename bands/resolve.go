package bands

// Match is a stored segment picked for a requested one. Reversed is set
// when the segment is stored in the opposite direction.
type Match struct {
	Segment  *Segment
	Reversed bool
}

// Resolve returns the first candidate connecting the requested endpoints
// in either direction. Earlier candidates win over later duplicates.
func Resolve(req PathSegment, candidates []Segment) (Match, bool) {
	for i := range candidates {
		seg := &candidates[i]
		if seg.From == req.From && seg.To == req.To {
			return Match{Segment: seg, Reversed: false}, true
		}
		if seg.From == req.To && seg.To == req.From {
			return Match{Segment: seg, Reversed: true}, true
		}
	}
	return Match{}, false
}

// Length is the span of the segment along x, ignoring any offset.
func (m Match) Length() float64 {
	x := m.Segment.X
	if len(x) == 0 {
		return 0
	}
	return x[len(x)-1] - x[0]
}
