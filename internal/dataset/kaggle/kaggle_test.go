package kaggle

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seeder/internal/httpds"
)

// buildZip returns an in-memory zip with the given member files.
func buildZip(t *testing.T, members map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range members {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestDownloadExtractsCSVs(t *testing.T) {
	t.Parallel()

	archive := buildZip(t, map[string]string{
		"data/perfumes.csv": "Brand,Price\nChanel,150\n",
		"README.md":         "ignore me",
	})

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write(archive)
	}))
	defer srv.Close()

	c, err := NewClient(Config{HTTP: httpds.NewClient(httpds.Config{}), BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	dir := t.TempDir()
	if err := c.Download(context.Background(), "kanchana1990/perfume-e-commerce-dataset-2024", dir); err != nil {
		t.Fatalf("Download: %v", err)
	}

	if want := "/api/v1/datasets/download/kanchana1990/perfume-e-commerce-dataset-2024"; gotPath != want {
		t.Fatalf("request path = %q, want %q", gotPath, want)
	}

	// The CSV member is flattened to its base name in the staging dir.
	body, err := os.ReadFile(filepath.Join(dir, "perfumes.csv"))
	if err != nil {
		t.Fatalf("extracted CSV missing: %v", err)
	}
	if !strings.Contains(string(body), "Chanel") {
		t.Fatalf("extracted CSV content = %q", body)
	}
}

func TestDownloadSendsBasicAuth(t *testing.T) {
	t.Parallel()

	archive := buildZip(t, map[string]string{"p.csv": "Brand\nDior\n"})

	var user, key string
	var authOK bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, key, authOK = r.BasicAuth()
		w.Write(archive)
	}))
	defer srv.Close()

	c, err := NewClient(Config{
		HTTP:     httpds.NewClient(httpds.Config{}),
		BaseURL:  srv.URL,
		Username: "alice",
		Key:      "secret",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := c.Download(context.Background(), "owner/slug", t.TempDir()); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !authOK || user != "alice" || key != "secret" {
		t.Fatalf("basic auth = %q/%q ok=%v", user, key, authOK)
	}
}

func TestDownloadRejectsBadRef(t *testing.T) {
	t.Parallel()

	c, err := NewClient(Config{HTTP: httpds.NewClient(httpds.Config{})})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := c.Download(context.Background(), "not-a-ref", t.TempDir()); err == nil {
		t.Fatal("want error for ref without owner/slug")
	}
}

func TestDownloadArchiveWithoutCSV(t *testing.T) {
	t.Parallel()

	archive := buildZip(t, map[string]string{"README.md": "no data here"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	c, err := NewClient(Config{HTTP: httpds.NewClient(httpds.Config{}), BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := c.Download(context.Background(), "owner/slug", t.TempDir()); err == nil {
		t.Fatal("want error when archive has no CSV members")
	}
}
