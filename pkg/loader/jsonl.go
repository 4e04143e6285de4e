package loader

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// JSONLSource reads one post per line.
type JSONLSource struct {
	path string
}

// NewJSONLSource returns a source for the JSONL file at path.
func NewJSONLSource(path string) JSONLSource {
	return JSONLSource{path: path}
}

func (s JSONLSource) Path() string   { return s.path }
func (s JSONLSource) String() string { return "jsonl:" + s.path }

// Load reads the file. Malformed lines are skipped and counted.
func (s JSONLSource) Load(ctx context.Context) ([]model.Post, LoadReport, error) {
	var report LoadReport
	if err := checkFile(s.path); err != nil {
		return nil, report, err
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, report, fmt.Errorf("failed to open posts file: %w", err)
	}
	defer file.Close()

	var posts []model.Post
	scanner := bufio.NewScanner(file)
	// Descriptions can be long; allow large lines
	const maxCapacity = 1024 * 1024 * 4
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxCapacity)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var post model.Post
		if err := json.Unmarshal(line, &post); err != nil {
			report.Malformed++
			continue
		}
		posts = append(posts, post)
	}

	if err := scanner.Err(); err != nil {
		return nil, report, fmt.Errorf("error reading posts file: %w", err)
	}

	posts = keepValid(posts, &report)
	return posts, report, nil
}
