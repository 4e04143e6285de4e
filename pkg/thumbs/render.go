package thumbs

import (
	"fmt"
	"image"
	"math"
	"strings"

	"golang.org/x/image/draw"
)

// CellAspect is the width/height ratio of a terminal cell. Each cell shows
// two vertically stacked pixels, so one rendered pixel is roughly square.
const CellAspect = 0.5

// Fit returns the largest cols x rows box inside maxCols x maxRows that
// keeps the image's aspect ratio.
func Fit(img image.Image, maxCols, maxRows int) (cols, rows int) {
	if maxCols <= 0 || maxRows <= 0 {
		return 0, 0
	}
	if img == nil {
		return maxCols, maxRows
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return maxCols, maxRows
	}
	cols = maxCols
	rows = int(math.Round(float64(cols) * CellAspect * float64(b.Dy()) / float64(b.Dx())))
	if rows > maxRows {
		rows = maxRows
		cols = int(math.Round(float64(rows) / CellAspect * float64(b.Dx()) / float64(b.Dy())))
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return minInt(cols, maxCols), minInt(rows, maxRows)
}

// Render draws img into exactly rows lines of cols cells using the upper
// half block with 24-bit foreground (top pixel) and background (bottom
// pixel) colours.
func Render(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	dst := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	var b strings.Builder
	b.Grow(cols * rows * 40)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := dst.RGBAAt(x, y*2)
			bottom := dst.RGBAAt(x, y*2+1)
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bottom.R, bottom.G, bottom.B)
		}
		b.WriteString("\x1b[0m")
		if y < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Placeholder fills a cols x rows box with a centred label, for images that
// are still loading or failed.
func Placeholder(label string, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	runes := []rune(label)
	if len(runes) > cols {
		runes = runes[:cols]
	}
	blank := strings.Repeat(" ", cols)
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = blank
	}
	mid := rows / 2
	pad := (cols - len(runes)) / 2
	lines[mid] = strings.Repeat(" ", pad) + string(runes) + strings.Repeat(" ", cols-pad-len(runes))
	return strings.Join(lines, "\n")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
