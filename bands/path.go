package bands

import (
	"log/slog"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Path is an ordered list of requested segments. Consecutive segments do
// not have to share endpoints; a break is drawn as a merged tick label.
type Path []PathSegment

// pathLexer splits a path text into point names and the two separators.
// The rules cover every rune so lexing never fails on user input.
var pathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Break", Pattern: `\|`},
	{Name: "Step", Pattern: `-`},
	{Name: "Point", Pattern: `[^|\-]+`},
})

var (
	breakToken = pathLexer.Symbols()["Break"]
	pointToken = pathLexer.Symbols()["Point"]
)

// ParsePath converts a text such as "G-X-M|K-G" into a Path. Whitespace
// around names is ignored, as are empty names, so "X--Y" reads as "X-Y".
// A piece between breaks with fewer than two names adds nothing.
func ParsePath(text string) Path {
	lex, err := pathLexer.LexString("", text)
	if err != nil {
		slog.Warn("path lexer failed", "text", text, "err", err)
		return Path{}
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		slog.Warn("path lexer failed", "text", text, "err", err)
		return Path{}
	}

	out := Path{}
	var piece []string
	flush := func() {
		for i := 0; i+1 < len(piece); i++ {
			out = append(out, PathSegment{From: piece[i], To: piece[i+1]})
		}
		piece = piece[:0]
	}
	for _, tok := range tokens {
		switch tok.Type {
		case pointToken:
			if name := strings.TrimSpace(tok.Value); name != "" {
				piece = append(piece, name)
			}
		case breakToken:
			flush()
		}
	}
	flush()
	return out
}

// FormatPath is the inverse of ParsePath up to whitespace normalization.
func FormatPath(path Path) string {
	var b strings.Builder
	for i, seg := range path {
		if i == 0 {
			b.WriteString(seg.From)
		} else if path[i-1].To != seg.From {
			b.WriteString("|")
			b.WriteString(seg.From)
		}
		b.WriteString("-")
		b.WriteString(seg.To)
	}
	return b.String()
}

func (p Path) String() string {
	return FormatPath(p)
}

// Equal reports whether both paths list the same segments in the same
// order and direction.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Points returns every point name in the path in order of appearance,
// without duplicates.
func (p Path) Points() []string {
	seen := map[string]bool{}
	var out []string
	for _, seg := range p {
		for _, name := range []string{seg.From, seg.To} {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

// PathFromText and TextFromPath are the names the page controller uses.
func PathFromText(text string) Path { return ParsePath(text) }
func TextFromPath(path Path) string { return FormatPath(path) }
