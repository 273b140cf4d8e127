// Package diagram renders board positions to raster images.
package diagram

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"

	"github.com/hailam/chessrules/internal/board"
)

// ErrUnknownFormat is returned by Encode for unsupported image formats.
var ErrUnknownFormat = errors.New("unknown image format")

// Options controls the look of a diagram.
type Options struct {
	SquareSize int
	Light      color.RGBA
	Dark       color.RGBA
	Highlight  color.RGBA

	// Highlighted squares are filled with the highlight color, e.g. the
	// last move or the destinations of a selected piece.
	Highlighted []board.Coordinates

	// Flip draws the board from Black's side.
	Flip bool

	// Labels adds a margin with column and row names.
	Labels bool
}

// DefaultOptions returns the classic brown board.
func DefaultOptions() Options {
	return Options{
		SquareSize: 48,
		Light:      color.RGBA{0xf0, 0xd9, 0xb5, 0xff},
		Dark:       color.RGBA{0xb5, 0x88, 0x63, 0xff},
		Highlight:  color.RGBA{0xcd, 0xd2, 0x6a, 0xff},
		Labels:     true,
	}
}

var (
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
	black = color.RGBA{0x20, 0x20, 0x20, 0xff}
)

// layout maps board squares to pixels.
type layout struct {
	geo    board.Geometry
	sq     int
	margin int
	flip   bool
}

func (l layout) size() (int, int) {
	return l.geo.Width()*l.sq + 2*l.margin, l.geo.Height()*l.sq + 2*l.margin
}

// origin returns the top-left pixel of c.
func (l layout) origin(c board.Coordinates) (int, int) {
	col, row := c.Ints()
	if l.flip {
		col = l.geo.Width() - 1 - col
	} else {
		row = l.geo.Height() - 1 - row
	}
	return l.margin + col*l.sq, l.margin + row*l.sq
}

// Render draws b. Squares and piece discs are rasterised from SVG; piece
// letters and labels are drawn with a bitmap font.
func Render(b *board.Board, opts Options) (*image.RGBA, error) {
	if opts.SquareSize < 8 {
		return nil, fmt.Errorf("square size %d too small", opts.SquareSize)
	}
	l := layout{geo: b.Geometry(), sq: opts.SquareSize, flip: opts.Flip}
	if opts.Labels {
		l.margin = opts.SquareSize / 2
	}
	w, h := l.size()

	icon, err := oksvg.ReadIconStream(strings.NewReader(boardSVG(b, l, opts)))
	if err != nil {
		return nil, fmt.Errorf("parse board svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)

	for _, sq := range l.geo.Squares() {
		p := b.PieceAt(sq)
		if p.IsEmpty() {
			continue
		}
		x, y := l.origin(sq)
		ink := black
		if p.Color == board.Black {
			ink = white
		}
		drawGlyph(rgba, image.Rect(x, y, x+l.sq, y+l.sq), p.Kind.Char()-'a'+'A', ink)
	}
	if opts.Labels {
		drawLabels(rgba, l)
	}
	return rgba, nil
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// boardSVG describes the squares and piece discs as an SVG document.
func boardSVG(b *board.Board, l layout, opts Options) string {
	w, h := l.size()
	highlighted := make(map[board.Coordinates]bool, len(opts.Highlighted))
	for _, c := range opts.Highlighted {
		highlighted[c] = true
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, w, h, w, h)
	fmt.Fprintf(&sb, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`, w, h, hex(opts.Dark))

	for _, sq := range l.geo.Squares() {
		x, y := l.origin(sq)
		fill := opts.Light
		if (int(sq.Col)+int(sq.Row))%2 == 0 {
			fill = opts.Dark
		}
		if highlighted[sq] {
			fill = opts.Highlight
		}
		fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`, x, y, l.sq, l.sq, hex(fill))

		p := b.PieceAt(sq)
		if p.IsEmpty() {
			continue
		}
		disc, rim := white, black
		if p.Color == board.Black {
			disc, rim = black, white
		}
		r := float64(l.sq) * 0.4
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`,
			float64(x)+float64(l.sq)/2, float64(y)+float64(l.sq)/2, r, hex(disc), hex(rim), float64(l.sq)/24)
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

// drawGlyph draws ch centred in box, scaled up from the 7x13 bitmap face.
func drawGlyph(dst *image.RGBA, box image.Rectangle, ch byte, ink color.RGBA) {
	face := basicfont.Face7x13
	glyph := image.NewRGBA(image.Rect(0, 0, face.Width, face.Height))
	d := font.Drawer{
		Dst:  glyph,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(string(ch))

	gh := box.Dy() / 2
	gw := gh * face.Width / face.Height
	cx, cy := box.Min.X+box.Dx()/2, box.Min.Y+box.Dy()/2
	target := image.Rect(cx-gw/2, cy-gh/2, cx-gw/2+gw, cy-gh/2+gh)
	xdraw.CatmullRom.Scale(dst, target, glyph, glyph.Bounds(), xdraw.Over, nil)
}

// drawLabels writes column names below and row names left of the board.
func drawLabels(dst *image.RGBA, l layout) {
	face := basicfont.Face7x13
	d := font.Drawer{Dst: dst, Src: image.NewUniform(white), Face: face}

	for i := 0; i < l.geo.Width(); i++ {
		x, _ := l.origin(board.NewCoordinates(i, 0))
		label := l.geo.Columns[i : i+1]
		adv := d.MeasureString(label).Round()
		_, h := l.size()
		d.Dot = fixed.P(x+(l.sq-adv)/2, h-(l.margin-face.Ascent)/2)
		d.DrawString(label)
	}
	for i := 0; i < l.geo.Height(); i++ {
		_, y := l.origin(board.NewCoordinates(0, i))
		label := l.geo.Rows[i : i+1]
		adv := d.MeasureString(label).Round()
		d.Dot = fixed.P((l.margin-adv)/2, y+(l.sq+face.Ascent)/2)
		d.DrawString(label)
	}
}

// Encode writes img in the given format: "png", "bmp" or "tiff".
func Encode(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tif", "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FormatFromPath picks the Encode format from a file name's extension.
func FormatFromPath(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return "png"
	}
	return strings.ToLower(path[i+1:])
}
