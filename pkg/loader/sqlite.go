package loader

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS posts (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	category TEXT DEFAULT '',
	description TEXT DEFAULT '',
	created_at DATETIME
);

CREATE TABLE IF NOT EXISTS post_images (
	post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	url TEXT NOT NULL,
	PRIMARY KEY (post_id, position)
);

CREATE INDEX IF NOT EXISTS idx_post_images_post ON post_images(post_id);
`

// SQLiteSource reads posts from a gallery database.
type SQLiteSource struct {
	path string
}

// NewSQLiteSource returns a source for the database at path.
func NewSQLiteSource(path string) SQLiteSource {
	return SQLiteSource{path: path}
}

func (s SQLiteSource) Path() string   { return s.path }
func (s SQLiteSource) String() string { return "sqlite:" + s.path }

func (s SQLiteSource) Load(ctx context.Context) ([]model.Post, LoadReport, error) {
	var report LoadReport
	if err := checkFile(s.path); err != nil {
		return nil, report, err
	}

	db, err := sql.Open("sqlite", "file:"+s.path+"?mode=ro")
	if err != nil {
		return nil, report, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT id, title, category, description, created_at
		FROM posts
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, report, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	index := make(map[string]int)
	for rows.Next() {
		var p model.Post
		var category, description, createdAt sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &category, &description, &createdAt); err != nil {
			return nil, report, err
		}
		p.Category = category.String
		p.Description = description.String
		p.CreatedAt = parseDBTime(createdAt.String)
		index[p.ID] = len(posts)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, report, err
	}

	images, err := db.QueryContext(ctx, `
		SELECT post_id, url FROM post_images ORDER BY post_id, position
	`)
	if err != nil {
		return nil, report, fmt.Errorf("query images: %w", err)
	}
	defer images.Close()
	for images.Next() {
		var postID, url string
		if err := images.Scan(&postID, &url); err != nil {
			return nil, report, err
		}
		if i, ok := index[postID]; ok {
			posts[i].ImageURLs = append(posts[i].ImageURLs, url)
		}
	}
	if err := images.Err(); err != nil {
		return nil, report, err
	}

	return keepValid(posts, &report), report, nil
}

// WriteSQLite stores posts in the database at path, replacing rows with the
// same ids. The database and its directory are created as needed. Posts
// without a date are stored with a NULL created_at.
func WriteSQLite(ctx context.Context, path string, posts []model.Post) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range posts {
		var created any
		if !p.CreatedAt.IsZero() {
			created = p.CreatedAt.UTC().Format(time.RFC3339Nano)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM post_images WHERE post_id = ?`, p.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO posts (id, title, category, description, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, p.ID, p.Title, p.Category, p.Description, created); err != nil {
			return fmt.Errorf("insert post %s: %w", p.ID, err)
		}
		for i, url := range p.ImageURLs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO post_images (post_id, position, url) VALUES (?, ?, ?)
			`, p.ID, i, url); err != nil {
				return fmt.Errorf("insert image for %s: %w", p.ID, err)
			}
		}
	}
	return tx.Commit()
}

// parseDBTime accepts the layouts the sqlite driver and hand-written rows use.
func parseDBTime(raw string) time.Time {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
