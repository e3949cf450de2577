package bands

// EmptySegmentGap is the x distance reserved for a path segment that no
// dataset can draw, or that only has zero length matches.
const EmptySegmentGap = 0.1

// Assembly is the result of laying a path out across all datasets.
type Assembly struct {
	Series []Curve
	Ticks  []Tick
	// Extent is the cumulative x offset after the last segment.
	Extent float64
}

// Assemble walks the path, resolving every segment against every dataset
// in insertion order. The first dataset whose match has a nonzero length
// fixes the length every other dataset is stretched to on that segment.
// colors must be index aligned with datasets.
func Assemble(path Path, datasets []*Dataset, colors []ColorTriple) Assembly {
	var out Assembly
	offset := 0.0

	for k, req := range path {
		if k == 0 {
			out.Ticks = append(out.Ticks, Tick{Position: offset, Label: req.From})
		} else if path[k-1].To != req.From {
			last := &out.Ticks[len(out.Ticks)-1]
			last.Label += "|" + req.From
		}

		target := 0.0
		for i, ds := range datasets {
			m, ok := Resolve(req, ds.Paths)
			if !ok {
				continue
			}
			if l := m.Length(); target == 0 && l > 0 {
				target = l
			}
			out.Series = append(out.Series, RenderSegment(m, req, colors[i], i, target, offset)...)
		}

		if target > 0 {
			offset += target
		} else {
			offset += EmptySegmentGap
		}
		out.Ticks = append(out.Ticks, Tick{Position: offset, Label: req.To})
	}

	out.Extent = offset
	return out
}
