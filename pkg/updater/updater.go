// Package updater checks GitHub for a newer gv release.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/version"
)

// ReleasesURL is the GitHub API endpoint for the latest gv release.
const ReleasesURL = "https://api.github.com/repos/Dicklesworthstone/gallery_viewer/releases/latest"

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker queries a releases endpoint. The zero value is not usable; use
// NewChecker.
type Checker struct {
	url     string
	current string
	client  *http.Client
}

// NewChecker returns a checker comparing the latest release at url against
// the running version. An empty url means ReleasesURL.
func NewChecker(url string) *Checker {
	if url == "" {
		url = ReleasesURL
	}
	// Short timeout so "gv version --check" never hangs.
	return &Checker{
		url:     url,
		current: version.Version,
		client:  &http.Client{Timeout: 2 * time.Second},
	}
}

// Check returns the newer release, or nil when the running version is
// current.
func (c *Checker) Check(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, err
	}
	if compareVersions(rel.TagName, c.current) > 0 {
		return &rel, nil
	}
	return nil, nil
}

// compareVersions returns 1 if v1 > v2, -1 if v1 < v2, 0 if equal.
// Segments are compared numerically so 0.10 sorts after 0.2; a
// pre-release suffix on a segment is ignored.
func compareVersions(v1, v2 string) int {
	a := strings.Split(strings.TrimPrefix(v1, "v"), ".")
	b := strings.Split(strings.TrimPrefix(v2, "v"), ".")
	for i := 0; i < len(a) || i < len(b); i++ {
		x, y := segment(a, i), segment(b, i)
		switch {
		case x > y:
			return 1
		case x < y:
			return -1
		}
	}
	return 0
}

func segment(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	s := parts[i]
	if j := strings.IndexAny(s, "-+"); j >= 0 {
		s = s[:j]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
