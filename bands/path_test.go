package bands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seg(from, to string) PathSegment { return PathSegment{From: from, To: to} }

func TestParsePath(t *testing.T) {
	cases := []struct {
		text string
		want Path
	}{
		{"", Path{}},
		{"G", Path{}},
		{"G-X", Path{seg("G", "X")}},
		{"G-X-M", Path{seg("G", "X"), seg("X", "M")}},
		{" G - X ", Path{seg("G", "X")}},
		{"X--Y", Path{seg("X", "Y")}},
		{"-X-Y-", Path{seg("X", "Y")}},
		{"G-X|Y-Z", Path{seg("G", "X"), seg("Y", "Z")}},
		{"G-X|Y|Z-W", Path{seg("G", "X"), seg("Z", "W")}},
		{"||", Path{}},
		{"GAMMA-X_1|S_0 - Y", Path{seg("GAMMA", "X_1"), seg("S_0", "Y")}},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, ParsePath(tc.text))
		})
	}
}

func TestParsePathNeverYieldsEmptyNames(t *testing.T) {
	for _, text := range []string{"- -|", "a- |-b", "| a |b-|-c- -d", "  -  "} {
		for _, s := range ParsePath(text) {
			assert.NotEmpty(t, s.From, text)
			assert.NotEmpty(t, s.To, text)
		}
	}
}

func TestFormatPath(t *testing.T) {
	assert.Equal(t, "", FormatPath(nil))
	assert.Equal(t, "G-X-M", FormatPath(Path{seg("G", "X"), seg("X", "M")}))
	assert.Equal(t, "G-X|Y-Z", FormatPath(Path{seg("G", "X"), seg("Y", "Z")}))
	assert.Equal(t, "G-X-G", FormatPath(Path{seg("G", "X"), seg("X", "G")}))
	assert.Equal(t, "G-X|G-X", Path{seg("G", "X"), seg("G", "X")}.String())
}

func TestFormatParseIsIdempotent(t *testing.T) {
	for _, text := range []string{"G-X-M|K-G", " G -- X | Y - Z ", "A|B-C", "L-GAMMA-X|U-K"} {
		first := ParsePath(text)
		again := ParsePath(FormatPath(first))
		assert.True(t, first.Equal(again), "text %q: %v vs %v", text, first, again)
	}
}

func TestPathEqual(t *testing.T) {
	a := ParsePath("G-X")
	b := ParsePath("X-G")
	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(b))
	assert.False(t, b.Equal(a))
	assert.True(t, ParsePath("G-X-M").Equal(ParsePath("G - X - M")))
	assert.False(t, ParsePath("G-X-M").Equal(ParsePath("G-X")))
	assert.True(t, Path{}.Equal(nil))
}

func TestPathPoints(t *testing.T) {
	assert.Equal(t, []string{"G", "X", "M", "K"}, ParsePath("G-X-M|K-G").Points())
}

func TestPathSegmentJSON(t *testing.T) {
	var p Path
	require.NoError(t, json.Unmarshal([]byte(`[["G","M"],["M","K"]]`), &p))
	assert.Equal(t, Path{seg("G", "M"), seg("M", "K")}, p)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `[["G","M"],["M","K"]]`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`[["G"]]`), &p))
}
