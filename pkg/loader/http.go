package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// MaxResponseSize caps how much of a gallery response is read.
const MaxResponseSize = 8 * 1024 * 1024

// decodePostList accepts a bare JSON array or an API envelope of the form
// {"data": [...]}.
func decodePostList(data []byte) ([]model.Post, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var posts []model.Post
		if err := json.Unmarshal(data, &posts); err != nil {
			return nil, fmt.Errorf("decode posts: %w", err)
		}
		return posts, nil
	}
	var envelope struct {
		Data  []model.Post `json:"data"`
		Posts []model.Post `json:"posts"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	return envelope.Posts, nil
}

// JSONSource reads a JSON document holding a post array.
type JSONSource struct {
	path string
}

func (s JSONSource) Path() string   { return s.path }
func (s JSONSource) String() string { return "json:" + s.path }

func (s JSONSource) Load(ctx context.Context) ([]model.Post, LoadReport, error) {
	var report LoadReport
	if err := checkFile(s.path); err != nil {
		return nil, report, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, report, fmt.Errorf("failed to read posts file: %w", err)
	}
	posts, err := decodePostList(data)
	if err != nil {
		return nil, report, err
	}
	return keepValid(posts, &report), report, nil
}

// HTTPSource fetches the post list from a gallery API endpoint.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource returns a source for url. A nil client gets a default with
// a short timeout.
func NewHTTPSource(url string, client *http.Client) HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return HTTPSource{url: url, client: client}
}

func (s HTTPSource) Path() string   { return "" }
func (s HTTPSource) String() string { return s.url }

func (s HTTPSource) Load(ctx context.Context) ([]model.Post, LoadReport, error) {
	var report LoadReport
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, report, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "gv")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, report, fmt.Errorf("fetch gallery: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, report, fmt.Errorf("fetch gallery: http %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, report, fmt.Errorf("read gallery response: %w", err)
	}
	posts, err := decodePostList(data)
	if err != nil {
		return nil, report, err
	}
	return keepValid(posts, &report), report, nil
}
