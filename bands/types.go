// Package bands assembles electronic band-structure plots: it resolves a
// path through high-symmetry points against one or more datasets, aligns
// their segments onto a common x axis and produces the curves and ticks a
// chart backend draws.
package bands

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrLengthMismatch is returned when a band does not carry one value
	// per x coordinate.
	ErrLengthMismatch = errors.New("band length does not match x length")

	// ErrInvalidColor is returned for colors that are not hex strings.
	ErrInvalidColor = errors.New("invalid color")
)

// PathSegment is a requested step between two high-symmetry points.
// Its JSON form is a two element array, e.g. ["G", "X"].
type PathSegment struct {
	From string
	To   string
}

func (s PathSegment) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{s.From, s.To})
}

func (s *PathSegment) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("path segment needs 2 points, got %d", len(pair))
	}
	s.From, s.To = pair[0], pair[1]
	return nil
}

// Segment is one stored segment of a dataset. X may carry an arbitrary
// additive offset; Values holds one row per band.
type Segment struct {
	From         string      `json:"from"`
	To           string      `json:"to"`
	X            []float64   `json:"x"`
	Values       [][]float64 `json:"values"`
	TwoBandTypes bool        `json:"two_band_types,omitempty"`
}

// Dataset is one band-structure result as delivered by the fetch layer.
type Dataset struct {
	YLabel string    `json:"Y_label,omitempty"`
	Path   Path      `json:"path"`
	Paths  []Segment `json:"paths"`
}

// Validate checks that every band has exactly one value per x coordinate.
func (d *Dataset) Validate() error {
	for i, seg := range d.Paths {
		for b, band := range seg.Values {
			if len(band) != len(seg.X) {
				return fmt.Errorf("segment %d (%s-%s) band %d has %d values for %d x points: %w",
					i, seg.From, seg.To, b, len(band), len(seg.X), ErrLengthMismatch)
			}
		}
	}
	return nil
}

// ColorTriple holds the single, spin up and spin down colors of a dataset.
type ColorTriple [3]string

func (c ColorTriple) Single() string { return c[0] }
func (c ColorTriple) Up() string     { return c[1] }
func (c ColorTriple) Down() string   { return c[2] }

// Point is a single plotted coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Curve is one band of one dataset on one path segment, already shifted to
// its place on the cumulative x axis.
type Curve struct {
	Label   string  `json:"label"`
	Color   string  `json:"color"`
	Dataset int     `json:"dataset"`
	Points  []Point `json:"points"`
}

// Tick annotates the x axis at a high-symmetry point.
type Tick struct {
	Position float64 `json:"value"`
	Label    string  `json:"label"`
}
