package loader

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// YAMLSource reads a hand-maintained gallery file:
//
//	posts:
//	  - id: tokyo
//	    title: Tokyo at night
//	    imageUrls: [a.jpg, b.jpg]
//
// A top-level sequence of posts is accepted too.
type YAMLSource struct {
	path string
}

func (s YAMLSource) Path() string   { return s.path }
func (s YAMLSource) String() string { return "yaml:" + s.path }

func (s YAMLSource) Load(ctx context.Context) ([]model.Post, LoadReport, error) {
	var report LoadReport
	if err := checkFile(s.path); err != nil {
		return nil, report, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, report, fmt.Errorf("failed to read gallery file: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, report, fmt.Errorf("parse gallery file: %w", err)
	}

	var posts []model.Post
	if len(node.Content) == 0 {
		return nil, report, nil
	}
	if node.Content[0].Kind == yaml.SequenceNode {
		if err := node.Decode(&posts); err != nil {
			return nil, report, fmt.Errorf("decode posts: %w", err)
		}
	} else {
		var doc struct {
			Posts []model.Post `yaml:"posts"`
		}
		if err := node.Decode(&doc); err != nil {
			return nil, report, fmt.Errorf("decode posts: %w", err)
		}
		posts = doc.Posts
	}
	return keepValid(posts, &report), report, nil
}
