package output

import (
	"bufio"
	"fmt"
	"image"
	"io"
)

// EncodePPM writes img as a binary (P6) portable pixmap with 8-bit channels.
// Alpha is dropped.
func EncodePPM(w io.Writer, img image.Image) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", b.Dx(), b.Dy()); err != nil {
		return err
	}

	row := make([]byte, b.Dx()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		if n, ok := img.(*image.NRGBA); ok {
			for x := 0; x < b.Dx(); x++ {
				i := n.PixOffset(b.Min.X+x, y)
				copy(row[x*3:x*3+3], n.Pix[i:i+3])
			}
		} else {
			for x := 0; x < b.Dx(); x++ {
				r, g, bl, _ := img.At(b.Min.X+x, y).RGBA()
				row[x*3] = uint8(r >> 8)
				row[x*3+1] = uint8(g >> 8)
				row[x*3+2] = uint8(bl >> 8)
			}
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}
