// Package export renders the gallery outside the terminal: SVG and PNG
// contact sheets, a static HTML bundle, and a local preview server for the
// bundle.
package export

import (
	"context"
	"errors"
	"fmt"
	"html"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// ErrUnsupportedFormat is returned for contact sheet formats other than svg
// and png.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Contact sheet geometry, in pixels.
const (
	TileWidth      = 200
	TileHeight     = 150
	CaptionHeight  = 44
	SheetPadding   = 16
	HeaderHeight   = 56
	DefaultColumns = 4
)

const (
	colorBg      = "#282A36"
	colorTile    = "#363949"
	colorTitle   = "#BD93F9"
	colorText    = "#F8F8F2"
	colorMuted   = "#6272A4"
	colorAccent  = "#FF79C6"
	titleMaxCols = 26
)

// ImageLoader fetches a decoded image, typically thumbs.Cache.Load.
type ImageLoader func(ctx context.Context, url string) (image.Image, error)

// ContactSheetOptions configures SaveContactSheet.
type ContactSheetOptions struct {
	Path string
	// Format is "svg" or "png". Empty infers it from Path.
	Format  string
	Title   string
	Posts   []model.Post
	Columns int
	// LoadImage supplies covers for PNG output. SVG output links to the
	// cover URLs instead. Nil draws placeholders.
	LoadImage ImageLoader
	// Concurrency bounds cover loading for PNG output.
	Concurrency int
}

type sheetLayout struct {
	cols, rows    int
	width, height int
}

func layoutSheet(n, cols int) sheetLayout {
	if cols <= 0 {
		cols = DefaultColumns
	}
	if n < cols {
		cols = maxInt(n, 1)
	}
	rows := (n + cols - 1) / cols
	return sheetLayout{
		cols:   cols,
		rows:   rows,
		width:  SheetPadding + cols*(TileWidth+SheetPadding),
		height: HeaderHeight + maxInt(rows, 1)*(TileHeight+CaptionHeight+SheetPadding),
	}
}

func (l sheetLayout) tileOrigin(i int) (x, y int) {
	col, row := i%l.cols, i/l.cols
	return SheetPadding + col*(TileWidth+SheetPadding),
		HeaderHeight + row*(TileHeight+CaptionHeight+SheetPadding)
}

func sheetTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Photo Gallery"
	}
	return title
}

// caption returns the two caption lines for a tile.
func caption(p model.Post) (title, meta string) {
	title = runewidth.Truncate(p.Title, titleMaxCols, "…")
	meta = strings.ToUpper(p.Category)
	if p.HasMultipleImages() {
		if meta != "" {
			meta += " · "
		}
		meta += fmt.Sprintf("%d photos", p.ImageCount())
	}
	return title, meta
}

// SaveContactSheet writes the posts as a contact sheet image.
func SaveContactSheet(ctx context.Context, opts ContactSheetOptions) error {
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.Path)), ".")
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(opts.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.Path, err)
	}
	defer f.Close()

	switch format {
	case "svg":
		err = WriteSVG(f, opts)
	case "png":
		var dc *gg.Context
		dc, err = drawSheet(ctx, opts)
		if err == nil {
			err = dc.EncodePNG(f)
		}
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", opts.Path, err)
	}
	return f.Close()
}

// WriteSVG writes an SVG contact sheet whose tiles link to the cover URLs.
func WriteSVG(w io.Writer, opts ContactSheetOptions) error {
	l := layoutSheet(len(opts.Posts), opts.Columns)
	title := sheetTitle(opts.Title)

	canvas := svg.New(w)
	canvas.Start(l.width, l.height)
	canvas.Title(title)
	canvas.Rect(0, 0, l.width, l.height, "fill:"+colorBg)
	canvas.Text(SheetPadding, SheetPadding+24, title,
		"fill:"+colorTitle+";font-size:22px;font-family:sans-serif;font-weight:bold")

	for i, p := range opts.Posts {
		x, y := l.tileOrigin(i)
		name, meta := caption(p)

		canvas.Gid("post-" + svgID(p.ID))
		canvas.Roundrect(x, y, TileWidth, TileHeight+CaptionHeight, 6, 6, "fill:"+colorTile)
		if cover := p.Cover(); cover != "" {
			canvas.Image(x, y, TileWidth, TileHeight, html.EscapeString(cover),
				`preserveAspectRatio="xMidYMid slice"`)
		} else {
			canvas.Text(x+TileWidth/2, y+TileHeight/2, "no image",
				"fill:"+colorMuted+";font-size:12px;font-family:sans-serif;text-anchor:middle")
		}
		canvas.Text(x+8, y+TileHeight+18, name, "fill:"+colorText+";font-size:14px;font-family:sans-serif")
		if meta != "" {
			canvas.Text(x+8, y+TileHeight+36, meta, "fill:"+colorAccent+";font-size:11px;font-family:sans-serif")
		}
		canvas.Gend()
	}
	canvas.End()
	return nil
}

// RenderPNG draws a raster contact sheet, loading covers with opts.LoadImage.
// Covers that fail to load are drawn as placeholders.
func RenderPNG(ctx context.Context, opts ContactSheetOptions) (image.Image, error) {
	dc, err := drawSheet(ctx, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func drawSheet(ctx context.Context, opts ContactSheetOptions) (*gg.Context, error) {
	l := layoutSheet(len(opts.Posts), opts.Columns)
	covers, err := loadCovers(ctx, opts)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(l.width, l.height)
	dc.SetHexColor(colorBg)
	dc.Clear()

	dc.SetHexColor(colorTitle)
	dc.DrawString(sheetTitle(opts.Title), SheetPadding, SheetPadding+24)

	for i, p := range opts.Posts {
		x, y := l.tileOrigin(i)
		fx, fy := float64(x), float64(y)

		dc.SetHexColor(colorTile)
		dc.DrawRoundedRectangle(fx, fy, TileWidth, TileHeight+CaptionHeight, 6)
		dc.Fill()

		if covers[i] != nil {
			dc.DrawImage(fillTile(covers[i], TileWidth, TileHeight), x, y)
		} else {
			dc.SetHexColor(colorMuted)
			dc.DrawStringAnchored("no image", fx+TileWidth/2, fy+TileHeight/2, 0.5, 0.5)
		}

		name, meta := caption(p)
		dc.SetHexColor(colorText)
		dc.DrawString(name, fx+8, fy+TileHeight+18)
		if meta != "" {
			dc.SetHexColor(colorAccent)
			dc.DrawString(meta, fx+8, fy+TileHeight+36)
		}
	}
	return dc, nil
}

func loadCovers(ctx context.Context, opts ContactSheetOptions) ([]image.Image, error) {
	covers := make([]image.Image, len(opts.Posts))
	if opts.LoadImage == nil {
		return covers, nil
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = 4
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, p := range opts.Posts {
		i, url := i, p.Cover()
		if url == "" {
			continue
		}
		g.Go(func() error {
			img, err := opts.LoadImage(ctx, url)
			if err == nil {
				covers[i] = img
			}
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return covers, nil
}

// fillTile scales img to cover a w x h tile, cropping the overflow evenly.
func fillTile(img image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, coverCrop(img.Bounds(), w, h), draw.Src, nil)
	return dst
}

// coverCrop returns the centred part of b with the aspect ratio of w x h.
func coverCrop(b image.Rectangle, w, h int) image.Rectangle {
	bw, bh := b.Dx(), b.Dy()
	if bw <= 0 || bh <= 0 || w <= 0 || h <= 0 {
		return b
	}
	if bw*h > bh*w {
		cw := bh * w / h
		off := (bw - cw) / 2
		return image.Rect(b.Min.X+off, b.Min.Y, b.Min.X+off+cw, b.Max.Y)
	}
	ch := bw * h / w
	off := (bh - ch) / 2
	return image.Rect(b.Min.X, b.Min.Y+off, b.Max.X, b.Min.Y+off+ch)
}

func svgID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
