package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPostValidate(t *testing.T) {
	tests := []struct {
		name    string
		post    Post
		wantErr bool
	}{
		{"valid", Post{ID: "a", Title: "A", ImageURLs: []string{"a.jpg"}}, false},
		{"missing id", Post{Title: "A", ImageURLs: []string{"a.jpg"}}, true},
		{"missing title", Post{ID: "a", ImageURLs: []string{"a.jpg"}}, true},
		{"no images", Post{ID: "a", Title: "A"}, true},
		{"blank image", Post{ID: "a", Title: "A", ImageURLs: []string{"a.jpg", " "}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPost) {
				t.Errorf("Expected ErrInvalidPost, got %v", err)
			}
		})
	}
}

func TestPostUnmarshalAcceptsUnderscoreID(t *testing.T) {
	var p Post
	if err := json.Unmarshal([]byte(`{"_id":"65f0","title":"Hike","imageUrls":["a","b"]}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.ID != "65f0" || !p.HasMultipleImages() || p.Cover() != "a" {
		t.Errorf("Unexpected post %+v", p)
	}

	if err := json.Unmarshal([]byte(`{"id":"x","_id":"y","title":"T","imageUrls":["a"]}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.ID != "x" {
		t.Errorf("Expected explicit id to win, got %s", p.ID)
	}
}

func TestPostCloneIsDeep(t *testing.T) {
	p := Post{ID: "a", Title: "A", ImageURLs: []string{"1", "2"}}
	c := p.Clone()
	c.ImageURLs[0] = "changed"
	if p.ImageURLs[0] != "1" {
		t.Error("Clone shares the image slice")
	}
}

func TestFindPost(t *testing.T) {
	posts := []Post{{ID: "a"}, {ID: "b", Title: "B"}}
	if p, ok := FindPost(posts, "b"); !ok || p.Title != "B" {
		t.Errorf("Expected to find b, got %+v %v", p, ok)
	}
	if _, ok := FindPost(posts, "z"); ok {
		t.Error("Expected missing post")
	}
}

func TestPostImageCount(t *testing.T) {
	tests := []struct {
		images []string
		count  int
		multi  bool
	}{
		{nil, 0, false},
		{[]string{"a"}, 1, false},
		{[]string{"a", "b", "c"}, 3, true},
	}
	for _, tt := range tests {
		p := Post{ImageURLs: tt.images}
		if p.ImageCount() != tt.count || p.HasMultipleImages() != tt.multi {
			t.Errorf("%v: ImageCount=%d HasMultipleImages=%v", tt.images, p.ImageCount(), p.HasMultipleImages())
		}
	}
}

func TestPostJSONOmitsMissingDate(t *testing.T) {
	raw, err := json.Marshal(Post{ID: "a", Title: "A", ImageURLs: []string{"a.jpg"}})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "createdAt") {
		t.Errorf("Undated post should not carry createdAt: %s", raw)
	}

	dated := Post{ID: "b", Title: "B", ImageURLs: []string{"b.jpg"}, CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	raw, err = json.Marshal(dated)
	if err != nil {
		t.Fatal(err)
	}
	var back Post
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if !back.CreatedAt.Equal(dated.CreatedAt) {
		t.Errorf("Expected createdAt to survive, got %s", raw)
	}
}
