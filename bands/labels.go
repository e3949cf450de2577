package bands

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// LabelFormat is the naming convention used for high-symmetry points.
type LabelFormat int

const (
	// FormatSeekPath uses spelled out Greek names and "_" before a
	// subscript, e.g. GAMMA, X_1.
	FormatSeekPath LabelFormat = iota
	// FormatLegacy uses G for Gamma and bare trailing digits, e.g. M2.
	FormatLegacy
)

func (f LabelFormat) String() string {
	if f == FormatLegacy {
		return "legacy"
	}
	return "seekpath"
}

var greekNames = []struct {
	re  *regexp.Regexp
	sub string
}{
	{regexp.MustCompile(`(?i)GAMMA`), "Γ"},
	{regexp.MustCompile(`(?i)DELTA`), "Δ"},
	{regexp.MustCompile(`(?i)SIGMA`), "Σ"},
	{regexp.MustCompile(`(?i)LAMBDA`), "Λ"},
}

const subscriptDigits = "₀₁₂₃₄₅₆₇₈₉"

func subscript(r rune) rune {
	if r < '0' || r > '9' {
		return r
	}
	// every subscript digit is 3 bytes wide
	idx := int(r-'0') * 3
	sub, _ := utf8.DecodeRuneInString(subscriptDigits[idx:])
	return sub
}

var subscriptAll = runes.Map(subscript)

// DetectLabelFormat guesses the convention from the point names in use:
// GAMMA means SeeK-path names, a bare G means legacy names, and anything
// else falls back to SeeK-path.
func DetectLabelFormat(names []string) LabelFormat {
	hasG := false
	for _, name := range names {
		if strings.EqualFold(name, "GAMMA") {
			return FormatSeekPath
		}
		if name == "G" {
			hasG = true
		}
	}
	if hasG {
		return FormatLegacy
	}
	return FormatSeekPath
}

// Prettifier turns raw point names into display labels.
type Prettifier struct {
	Format LabelFormat
}

// NewPrettifier picks the label format from all points of the datasets.
func NewPrettifier(datasets []*Dataset) Prettifier {
	return Prettifier{Format: DetectLabelFormat(ValidPointNames(datasets))}
}

func (p Prettifier) Label(label string) string {
	if label == "" {
		return label
	}
	if p.Format == FormatLegacy {
		return prettifyLegacy(label)
	}
	return prettifySeekPath(label)
}

// Ticks returns a copy of ticks with prettified labels.
func (p Prettifier) Ticks(ticks []Tick) []Tick {
	out := make([]Tick, len(ticks))
	for i, t := range ticks {
		out[i] = Tick{Position: t.Position, Label: p.Label(t.Label)}
	}
	return out
}

func prettifySeekPath(label string) string {
	for _, g := range greekNames {
		label = g.re.ReplaceAllString(label, g.sub)
	}
	label = strings.ReplaceAll(label, "-", "—")

	var b strings.Builder
	rs := []rune(label)
	for i := 0; i < len(rs); i++ {
		if rs[i] == '_' && i+1 < len(rs) {
			b.WriteRune(subscript(rs[i+1]))
			i++
			continue
		}
		b.WriteRune(rs[i])
	}
	return b.String()
}

func prettifyLegacy(label string) string {
	if label == "G" {
		label = "Γ"
	}
	label = strings.ReplaceAll(label, "-", "—")
	out, _, err := transform.String(subscriptAll, label)
	if err != nil {
		return label
	}
	return out
}
