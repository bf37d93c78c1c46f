package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/chessai/internal/board"
)

// MinImageSize is the smallest board image that still fits the labels.
const MinImageSize = 64

// renderScale oversamples the vector pass before scaling down for smoother edges.
const renderScale = 2

var labelColor = color.RGBA{0x40, 0x40, 0x40, 0xff}

// Image rasterizes SVG(b) at size×size and labels the files and ranks.
func Image(b *board.Board, size int) (*image.RGBA, error) {
	if size < MinImageSize {
		return nil, errors.Errorf("image size %d below minimum %d", size, MinImageSize)
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(SVG(b, size)))
	if err != nil {
		return nil, errors.Wrap(err, "parse board svg")
	}

	renderSize := size * renderScale
	icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

	big := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
	scanner := rasterx.NewScannerGV(renderSize, renderSize, big, big.Bounds())
	raster := rasterx.NewDasher(renderSize, renderSize, scanner)
	icon.Draw(raster, 1.0)

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(img, img.Bounds(), big, big.Bounds(), xdraw.Src, nil)

	drawLabels(img, size)
	return img, nil
}

// drawLabels writes rank digits in the top-left corner of the a-file squares
// and file letters in the bottom-right corner of the first rank.
func drawLabels(img *image.RGBA, size int) {
	cell := size / board.Size
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: face,
	}

	for row := 0; row < board.Size; row++ {
		y := (board.Size-1-row)*cell + face.Ascent + 1
		d.Dot = fixed.P(2, y)
		d.DrawString(string(rune('1' + row)))
	}
	for col := 0; col < board.Size; col++ {
		x := (col+1)*cell - face.Advance - 2
		d.Dot = fixed.P(x, size-face.Descent-1)
		d.DrawString(string(rune('a' + col)))
	}
}

// PNG encodes the board image to w.
func PNG(w io.Writer, b *board.Board, size int) error {
	img, err := Image(b, size)
	if err != nil {
		return err
	}
	return errors.Wrap(png.Encode(w, img), "encode png")
}

// PNGRenderer overwrites Path with the current board after every move.
type PNGRenderer struct {
	Path string
	Size int
}

// Render implements game.Renderer.
func (r PNGRenderer) Render(b *board.Board) (err error) {
	f, err := os.Create(r.Path)
	if err != nil {
		return errors.Wrap(err, "create board image")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = errors.Wrap(cerr, "close board image")
		}
	}()

	size := r.Size
	if size == 0 {
		size = 512
	}
	return PNG(f, b, size)
}
