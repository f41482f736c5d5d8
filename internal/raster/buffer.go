package raster

import (
	"errors"
	"fmt"
	"image"
)

// ErrOutOfBounds is returned when a write addresses a cell outside the buffer.
var ErrOutOfBounds = errors.New("raster: pixel out of bounds")

// RGB is one 8-bit-per-channel pixel.
type RGB [3]uint8

// Black is the zero pixel every buffer starts with.
var Black = RGB{0, 0, 0}

// Sink receives pixel writes by (row, column).
type Sink interface {
	Set(row, col int, c RGB) error
}

// ImageBuffer holds the render target as one flat slice for cache locality.
// Rows are stored top to bottom, 3 bytes per pixel.
//
// Concurrent Set calls are safe as long as no two goroutines write the same cell.
type ImageBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // RGB interleaved, len = W*H*3
}

// NewImageBuffer allocates a black buffer. Dimensions must be positive.
func NewImageBuffer(w, h int) *ImageBuffer {
	return &ImageBuffer{
		Width:  w,
		Height: h,
		Pix:    make([]uint8, w*h*3),
	}
}

func (b *ImageBuffer) offset(row, col int) (int, error) {
	if row < 0 || row >= b.Height || col < 0 || col >= b.Width {
		return 0, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, row, col, b.Width, b.Height)
	}
	return (row*b.Width + col) * 3, nil
}

// Set writes one pixel.
func (b *ImageBuffer) Set(row, col int, c RGB) error {
	i, err := b.offset(row, col)
	if err != nil {
		return err
	}
	b.Pix[i] = c[0]
	b.Pix[i+1] = c[1]
	b.Pix[i+2] = c[2]
	return nil
}

// At returns the pixel at (row, col), or black outside the buffer.
func (b *ImageBuffer) At(row, col int) RGB {
	i, err := b.offset(row, col)
	if err != nil {
		return Black
	}
	return RGB{b.Pix[i], b.Pix[i+1], b.Pix[i+2]}
}

// Row returns the RGB bytes of one row. The slice aliases the buffer.
func (b *ImageBuffer) Row(row int) []uint8 {
	start := row * b.Width * 3
	return b.Pix[start : start+b.Width*3]
}

// NRGBA converts the buffer to an opaque image.
func (b *ImageBuffer) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for p := 0; p < b.Width*b.Height; p++ {
		img.Pix[p*4] = b.Pix[p*3]
		img.Pix[p*4+1] = b.Pix[p*3+1]
		img.Pix[p*4+2] = b.Pix[p*3+2]
		img.Pix[p*4+3] = 255
	}
	return img
}
