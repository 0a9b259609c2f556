package timeline

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Default figure size.
var (
	DefaultWidth  = 24 * vg.Inch
	DefaultHeight = 8 * vg.Inch
)

const (
	markerAlpha   = 0.7
	labelFontSize = 14
	tickRotation  = 75 * math.Pi / 180
)

var labelColor = color.NRGBA{R: 0x69, G: 0x69, B: 0x69, A: 0xff} // dimgray

// RenderOptions are the cosmetic settings of a rendered timeline.
type RenderOptions struct {
	YTitle string
}

// Render draws fig as a scatter of sized, coloured points with their labels
// beside them. The x axis carries one tick per date; the y axis has no ticks
// since y is jitter. The returned plot can be customized further, saved, or
// drawn onto a caller canvas.
func Render(fig Figure, opts RenderOptions) (*plot.Plot, error) {
	p := plot.New()

	p.Y.Label.Text = opts.YTitle
	p.Y.Label.TextStyle.Font.Size = vg.Points(labelFontSize)
	p.Y.Label.TextStyle.Color = color.Black
	p.Y.Tick.Marker = plot.ConstantTicks{}

	dates := fig.Axis.labelsOrNil()
	n := len(dates)
	ticks := make(plot.ConstantTicks, n)
	for i, label := range dates {
		ticks[i] = plot.Tick{Value: float64(i), Label: label}
	}
	p.X.Tick.Marker = ticks
	p.X.Tick.Label.Rotation = tickRotation
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	p.X.Tick.Label.Font.Size = vg.Points(labelFontSize)
	p.X.Tick.Label.Color = color.Black
	p.X.Tick.LineStyle.Width = 0
	p.Y.Tick.LineStyle.Width = 0

	p.Add(plotter.NewGrid())

	if len(fig.Points) > 0 {
		xys := make(plotter.XYs, len(fig.Points))
		labels := make([]string, len(fig.Points))
		for i, pt := range fig.Points {
			xys[i] = plotter.XY{X: float64(pt.X), Y: pt.Y}
			labels[i] = pt.Label
		}

		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("build scatter: %w", err)
		}
		palette := fig.Palette
		if len(palette) == 0 {
			palette = MustPalette(DefaultPalette)
		}
		sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			pt := fig.Points[i]
			return draw.GlyphStyle{
				Color:  withAlpha(palette[pt.ColorIndex%len(palette)], markerAlpha),
				Radius: vg.Points(math.Sqrt(pt.Size) / 2),
				Shape:  draw.CircleGlyph{},
			}
		}
		p.Add(sc)

		lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return nil, fmt.Errorf("build labels: %w", err)
		}
		for i := range lbl.TextStyle {
			lbl.TextStyle[i].Color = labelColor
			lbl.TextStyle[i].Font.Size = vg.Points(labelFontSize)
			lbl.TextStyle[i].YAlign = text.YCenter
			if fig.Points[i].Align == AlignLeft {
				lbl.TextStyle[i].XAlign = text.XLeft
			} else {
				lbl.TextStyle[i].XAlign = text.XRight
			}
		}
		p.Add(lbl)
	}

	p.X.Min, p.X.Max = -0.5, math.Max(float64(n)-0.5, 0.5)
	p.Y.Min, p.Y.Max = -0.5, DefaultJitter+0.5
	return p, nil
}

func (a *Axis) labelsOrNil() []string {
	if a == nil {
		return nil
	}
	return a.Labels()
}

func withAlpha(c color.Color, alpha float64) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(alpha * 255)}
}

// DrawOn draws p onto a caller-supplied canvas, e.g. one tile of a
// multi-panel figure.
func DrawOn(p *plot.Plot, c draw.Canvas) {
	p.Draw(c)
}

// Save writes p to path; the format follows the file extension. Zero
// dimensions use the default 24×8 inch figure.
func Save(p *plot.Plot, path string, width, height vg.Length) error {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("save figure %s: %w", path, err)
	}
	return nil
}

// SavePanels stacks plots vertically into one PNG, each panel taking the
// given per-panel size, with aligned axes.
func SavePanels(plots []*plot.Plot, path string, width, panelHeight vg.Length) error {
	if len(plots) == 0 {
		return fmt.Errorf("save panels: no plots")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if panelHeight <= 0 {
		panelHeight = DefaultHeight
	}

	img := vgimg.New(width, panelHeight*vg.Length(len(plots)))
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: len(plots), Cols: 1, PadY: vg.Points(20)}

	grid := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		grid[i] = []*plot.Plot{p}
	}
	canvases := plot.Align(grid, tiles, dc)
	for i := range plots {
		DrawOn(plots[i], canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save panels %s: %w", path, err)
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("save panels %s: %w", path, err)
	}
	return f.Close()
}
