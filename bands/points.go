package bands

import (
	"fmt"
	"sort"
	"strings"

	lev "github.com/agnivade/levenshtein"
	gfn "github.com/panyam/goutils/fn"
)

// ValidPointNames lists every point name used by any segment of any
// dataset, sorted and without duplicates.
func ValidPointNames(datasets []*Dataset) []string {
	seen := map[string]bool{}
	names := []string{}
	for _, ds := range datasets {
		if ds == nil {
			continue
		}
		for _, seg := range ds.Paths {
			for _, name := range []string{seg.From, seg.To} {
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
	}
	sort.Strings(names)
	return names
}

// HelpText explains the path syntax and lists the accepted point names.
func HelpText(names []string) string {
	return "Use - to define a segment\nUse | to split the path.\nValid point names:\n" + strings.Join(names, ", ")
}

// Suggestion pairs a point name that no dataset knows with the closest
// known name, if any is close enough.
type Suggestion struct {
	Name    string `json:"name"`
	Closest string `json:"closest,omitempty"`
}

func (s Suggestion) String() string {
	if s.Closest == "" {
		return fmt.Sprintf("unknown point %q", s.Name)
	}
	return fmt.Sprintf("unknown point %q, did you mean %q?", s.Name, s.Closest)
}

// UnknownPoints reports the names in path missing from names.
func UnknownPoints(path Path, names []string) []Suggestion {
	known := map[string]bool{}
	for _, n := range names {
		known[n] = true
	}
	var out []Suggestion
	for _, name := range path.Points() {
		if known[name] {
			continue
		}
		out = append(out, Suggestion{Name: name, Closest: closestName(name, names)})
	}
	return out
}

// closestName picks the name with the smallest edit distance, preferring
// the alphabetically first on ties. names must be sorted.
func closestName(name string, names []string) string {
	limit := (len([]rune(name)) + 1) / 2
	best, bestDist := "", limit+1
	for _, candidate := range names {
		d := lev.ComputeDistance(strings.ToUpper(name), strings.ToUpper(candidate))
		if d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

// SuggestionMessages renders suggestions as user facing warnings.
func SuggestionMessages(suggestions []Suggestion) []string {
	return gfn.Map(suggestions, func(s Suggestion) string { return s.String() })
}
