// Package kaggle downloads dataset archives from the Kaggle public API.
//
// Only the single download endpoint is implemented:
//
//	GET /api/v1/datasets/download/{owner}/{slug}
//
// which returns a zip archive. The archive's CSV members are extracted into
// the staging directory; everything else in the archive is ignored. Requests
// go through the shared retrying HTTP client, so transient Kaggle hiccups do
// not abort a run. Credentials (username + API key, basic auth) are optional
// because public datasets can be fetched anonymously.
package kaggle

import (
	"archive/zip"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"seeder/internal/httpds"
)

// DefaultBaseURL is the Kaggle public API root.
const DefaultBaseURL = "https://www.kaggle.com"

// Client downloads datasets from Kaggle.
type Client struct {
	http    *httpds.Client
	baseURL string

	// Optional basic-auth credentials from kaggle.json / env.
	username string
	key      string
}

// Config configures a kaggle Client.
type Config struct {
	// HTTP is the shared retrying client. Required.
	HTTP *httpds.Client

	// BaseURL overrides the API root, mainly for tests. Empty means
	// DefaultBaseURL.
	BaseURL string

	// Username and Key are Kaggle API credentials. Both empty means
	// anonymous access.
	Username string
	Key      string
}

// NewClient constructs a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("kaggle: HTTP client is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		http:     cfg.HTTP,
		baseURL:  strings.TrimRight(base, "/"),
		username: cfg.Username,
		key:      cfg.Key,
	}, nil
}

// Download fetches the dataset archive identified by ref ("owner/slug"),
// stages the zip under destDir, and extracts its CSV members next to it.
// destDir is created if missing. The staged zip is kept for inspection.
func (c *Client) Download(ctx context.Context, ref, destDir string) error {
	if ref == "" || !strings.Contains(ref, "/") {
		return fmt.Errorf("kaggle: dataset ref must be owner/slug, got %q", ref)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("kaggle: create staging dir: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/datasets/download/%s", c.baseURL, ref)
	hdr := http.Header{}
	if c.username != "" && c.key != "" {
		cred := base64.StdEncoding.EncodeToString([]byte(c.username + ":" + c.key))
		hdr.Set("Authorization", "Basic "+cred)
	}

	log.Printf("kaggle: downloading %s", ref)
	resp, err := c.http.Get(ctx, url, hdr)
	if err != nil {
		return fmt.Errorf("kaggle: download %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("kaggle: download %s: unexpected status %d", ref, resp.StatusCode)
	}

	zipPath := filepath.Join(destDir, archiveName(ref))
	if err := writeFile(zipPath, resp.Body); err != nil {
		return fmt.Errorf("kaggle: stage archive: %w", err)
	}

	n, err := extractCSVs(zipPath, destDir)
	if err != nil {
		return err
	}
	log.Printf("kaggle: extracted %d CSV files into %s", n, destDir)
	return nil
}

// archiveName derives the staged zip filename from the dataset ref.
func archiveName(ref string) string {
	return strings.ReplaceAll(ref, "/", "__") + ".zip"
}

func writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// extractCSVs unpacks every top-level CSV member of the archive into destDir
// and returns how many were written. Nested paths are flattened to their base
// name; a zip-slip style member name can therefore never escape destDir.
func extractCSVs(zipPath, destDir string) (int, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, fmt.Errorf("kaggle: open archive: %w", err)
	}
	defer zr.Close()

	count := 0
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(zf.Name), ".csv") {
			continue
		}

		rc, err := zf.Open()
		if err != nil {
			return count, fmt.Errorf("kaggle: open member %s: %w", zf.Name, err)
		}
		out := filepath.Join(destDir, filepath.Base(zf.Name))
		err = writeFile(out, rc)
		rc.Close()
		if err != nil {
			return count, fmt.Errorf("kaggle: extract %s: %w", zf.Name, err)
		}
		count++
	}
	if count == 0 {
		return 0, fmt.Errorf("kaggle: archive %s contains no CSV members", zipPath)
	}
	return count, nil
}
