package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// Files written by WriteBundle.
const (
	BundleIndex = "index.html"
	BundleSheet = "contact.svg"
	BundlePosts = "posts.json"
)

// BundleOptions configures WriteBundle.
type BundleOptions struct {
	Dir     string
	Title   string
	Posts   []model.Post
	Columns int
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { background: #282A36; color: #F8F8F2; font-family: sans-serif; margin: 0 auto; max-width: 1100px; padding: 24px; }
h1 { color: #BD93F9; margin-bottom: 4px; }
.subtitle { color: #6272A4; font-style: italic; margin-top: 0; }
.grid { display: grid; gap: 16px; grid-template-columns: repeat(auto-fill, minmax(240px, 1fr)); }
.post { background: #363949; border-radius: 6px; overflow: hidden; }
.post img.cover { aspect-ratio: 4 / 3; display: block; object-fit: cover; width: 100%; }
.post .meta { padding: 8px 12px 12px; }
.category { color: #FF79C6; font-size: 11px; text-transform: uppercase; }
.badge { background: #44475A; border-radius: 10px; float: right; font-size: 11px; padding: 1px 8px; }
.more { display: flex; gap: 4px; padding: 0 12px 12px; overflow-x: auto; }
.more img { height: 48px; border-radius: 3px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="subtitle">{{len .Posts}} posts &middot; <a href="{{.Sheet}}" style="color:#8BE9FD">contact sheet</a></p>
<div class="grid">
{{- range .Posts}}
<section class="post" id="post-{{.ID}}">
  {{- with .Cover}}<a href="{{.}}"><img class="cover" src="{{.}}" loading="lazy" alt=""></a>{{end}}
  <div class="meta">
    {{- if .HasMultipleImages}}<span class="badge">{{len .ImageURLs}} photos</span>{{end}}
    <strong>{{.Title}}</strong>
    {{- with .Category}}<div class="category">{{.}}</div>{{end}}
    {{- with .Description}}<p>{{.}}</p>{{end}}
  </div>
  {{- if .HasMultipleImages}}
  <div class="more">{{range .ImageURLs}}<a href="{{.}}"><img src="{{.}}" loading="lazy" alt=""></a>{{end}}</div>
  {{- end}}
</section>
{{- end}}
</div>
</body>
</html>
`))

// WriteBundle writes a static gallery site to opts.Dir: an index page, an
// SVG contact sheet and the posts as JSON that gv can load back.
func WriteBundle(opts BundleOptions) error {
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return fmt.Errorf("create bundle directory: %w", err)
	}

	var index bytes.Buffer
	data := struct {
		Title string
		Sheet string
		Posts []model.Post
	}{sheetTitle(opts.Title), BundleSheet, opts.Posts}
	if err := indexTemplate.Execute(&index, data); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(opts.Dir, BundleIndex), index.Bytes(), 0644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	var sheet bytes.Buffer
	if err := WriteSVG(&sheet, ContactSheetOptions{Title: opts.Title, Posts: opts.Posts, Columns: opts.Columns}); err != nil {
		return fmt.Errorf("render contact sheet: %w", err)
	}
	if err := os.WriteFile(filepath.Join(opts.Dir, BundleSheet), sheet.Bytes(), 0644); err != nil {
		return fmt.Errorf("write contact sheet: %w", err)
	}

	posts := opts.Posts
	if posts == nil {
		posts = []model.Post{}
	}
	raw, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}
	if err := os.WriteFile(filepath.Join(opts.Dir, BundlePosts), raw, 0644); err != nil {
		return fmt.Errorf("write posts: %w", err)
	}
	return nil
}
