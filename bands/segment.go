package bands

import "fmt"

// zeroBasedX returns the x coordinates of a match starting at 0, walking
// the stored array backwards when the match is reversed.
func zeroBasedX(m Match) []float64 {
	x := m.Segment.X
	n := len(x)
	out := make([]float64, 0, n)
	if n == 0 {
		return out
	}
	if m.Reversed {
		last := x[n-1]
		for i := n - 1; i >= 0; i-- {
			out = append(out, last-x[i])
		}
	} else {
		for i := 0; i < n; i++ {
			out = append(out, x[i]-x[0])
		}
	}
	return out
}

// RenderSegment emits one curve per band of a resolved segment. target is
// the common length all datasets are stretched to on this path segment;
// 0 keeps the segment's own length. offset shifts the curves to their
// place along the whole path. Zero length segments produce no curves.
func RenderSegment(m Match, req PathSegment, colors ColorTriple, dataset int, target, offset float64) []Curve {
	xs := zeroBasedX(m)
	if len(xs) == 0 {
		return nil
	}
	own := xs[len(xs)-1]
	if own <= 0 {
		return nil
	}
	if target > 0 {
		scale := target / own
		for i := range xs {
			xs[i] *= scale
		}
	}

	seg := m.Segment
	numBands := len(seg.Values)
	curves := make([]Curve, 0, numBands)
	for b, band := range seg.Values {
		points := make([]Point, len(xs))
		for j := range xs {
			v := band[j]
			if m.Reversed {
				v = band[len(band)-1-j]
			}
			points[j] = Point{X: xs[j] + offset, Y: v}
		}
		curves = append(curves, Curve{
			Label:   fmt.Sprintf("%s-%s.%d", req.From, req.To, b),
			Color:   bandColor(colors, seg.TwoBandTypes, b, numBands),
			Dataset: dataset,
			Points:  points,
		})
	}
	return curves
}

// bandColor splits two-band-type segments in half: the first half are
// spin up bands, the rest spin down.
func bandColor(colors ColorTriple, twoBandTypes bool, band, numBands int) string {
	if !twoBandTypes {
		return colors.Single()
	}
	if 2*band < numBands {
		return colors.Up()
	}
	return colors.Down()
}
