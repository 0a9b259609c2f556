package timeline

import (
	"fmt"
	"image/color"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Layout defaults.
const (
	DefaultJitter  = 5.0
	DefaultSizeMin = 20.0
	DefaultSizeMax = 500.0
	TopicBins      = 6
)

// DefaultPalette is the six-colour categorical palette used for importance
// buckets, lowest bucket first.
var DefaultPalette = []string{"#df477e", "#67bea3", "#5d8bc6", "#f4b543", "#e87d52", "#757570"}

// Align is the horizontal alignment of a label relative to its point.
type Align int

const (
	// AlignRight puts the text's right edge on the point (text on the left).
	AlignRight Align = iota
	// AlignLeft puts the text's left edge on the point (text on the right).
	AlignLeft
)

// Point is one plotted, ranked observation.
type Point struct {
	Ranked
	X          int
	Y          float64
	Bin        int
	ColorIndex int
	Size       float64 // marker area in pt²
	Align      Align
}

// Figure is a laid-out timeline ready to render.
type Figure struct {
	Axis    *Axis
	Points  []Point
	Palette []color.Color
}

// Options control the randomized layout.
type Options struct {
	// Rand drives jitter and label alignment. nil uses a time-seeded source.
	Rand    *rand.Rand
	Palette []color.Color
	Jitter  float64
	SizeMin float64
	SizeMax float64
}

func (o Options) withDefaults() Options {
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if len(o.Palette) == 0 {
		o.Palette = MustPalette(DefaultPalette)
	}
	if o.Jitter <= 0 {
		o.Jitter = DefaultJitter
	}
	if o.SizeMin <= 0 {
		o.SizeMin = DefaultSizeMin
	}
	if o.SizeMax <= o.SizeMin {
		o.SizeMax = DefaultSizeMax
	}
	return o
}

// Layout ranks obs per date, keeps the top maxRank, and places each
// survivor: x from axis, a uniform random y in [0, Jitter), an importance
// bucket out of bins, a marker size and a random label alignment. bins <= 0
// uses the palette size.
func Layout(obs []Observation, axis *Axis, maxRank, bins int, opts Options) Figure {
	opts = opts.withDefaults()
	if bins <= 0 {
		bins = len(opts.Palette)
	}

	kept := TopK(DenseRank(obs), maxRank)
	points := make([]Point, 0, len(kept))
	for _, r := range kept {
		x, ok := axis.X(r.Date)
		if !ok {
			continue
		}
		points = append(points, Point{Ranked: r, X: x})
	}

	for i := range points {
		points[i].Y = opts.Rand.Float64() * opts.Jitter
	}

	importance := make([]float64, len(points))
	for i, p := range points {
		importance[i] = p.Importance
	}
	binIdx := Cut(importance, bins)
	colorIdx := colorIndices(binIdx)
	sizes := scaleSizes(importance, opts.SizeMin, opts.SizeMax)
	for i := range points {
		points[i].Bin = binIdx[i]
		points[i].ColorIndex = colorIdx[i]
		points[i].Size = sizes[i]
	}

	for i := range points {
		points[i].Align = Align(opts.Rand.Intn(2))
	}

	return Figure{Axis: axis, Points: points, Palette: opts.Palette}
}

// colorIndices maps each bin to its position among the distinct bins
// present, so the palette is consumed from the start.
func colorIndices(bins []int) []int {
	seen := make(map[int]struct{})
	var distinct []int
	for _, b := range bins {
		if _, ok := seen[b]; !ok {
			seen[b] = struct{}{}
			distinct = append(distinct, b)
		}
	}
	sort.Ints(distinct)
	pos := make(map[int]int, len(distinct))
	for i, b := range distinct {
		pos[b] = i
	}
	out := make([]int, len(bins))
	for i, b := range bins {
		out[i] = pos[b]
	}
	return out
}

// ParsePalette parses "#rrggbb" colours.
func ParsePalette(hex []string) ([]color.Color, error) {
	out := make([]color.Color, len(hex))
	for i, h := range hex {
		c, err := parseHex(h)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// MustPalette is ParsePalette for fixed inputs.
func MustPalette(hex []string) []color.Color {
	p, err := ParsePalette(hex)
	if err != nil {
		panic(err)
	}
	return p
}

func parseHex(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("palette colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("palette colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
