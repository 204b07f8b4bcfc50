package cache

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gregjones/httpcache"
)

func TestDisk_GetSetDelete(t *testing.T) {
	disk, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}

	key := "https://api.github.com/repos/octo/demo/pulls/5/files"
	value := []byte("HTTP/1.1 200 OK\r\n\r\nbody")

	if _, ok := disk.Get(key); ok {
		t.Error("expected miss before set")
	}

	disk.Set(key, value)
	got, ok := disk.Get(key)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if string(got) != string(value) {
		t.Errorf("Get = %q, want %q", got, value)
	}

	disk.Delete(key)
	if _, ok := disk.Get(key); ok {
		t.Error("expected miss after delete")
	}
}

func TestDisk_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	if _, err := NewDisk(dir); err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache directory not created: %v", err)
	}
}

func TestDisk_ClearKeepsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	disk, err := NewDisk(dir)
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}

	for i := 0; i < 3; i++ {
		disk.Set(fmt.Sprintf("key-%d", i), []byte("data"))
	}
	foreign := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(foreign, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := disk.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == entryExt {
			t.Errorf("entry %s survived Clear", e.Name())
		}
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Errorf("Clear removed a foreign file: %v", err)
	}
}

func TestDisk_Stats(t *testing.T) {
	dir := t.TempDir()
	disk, err := NewDisk(dir)
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}

	stats, err := disk.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("Entries = %d, want 0", stats.Entries)
	}

	disk.Set("key1", []byte("value1"))
	disk.Set("key2", []byte("value2"))

	stats, err = disk.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 2 {
		t.Errorf("Entries = %d, want 2", stats.Entries)
	}
	if stats.TotalBytes <= 0 {
		t.Error("TotalBytes should be > 0")
	}
	if stats.Dir != dir {
		t.Errorf("Dir = %q, want %q", stats.Dir, dir)
	}
}

// TestDisk_ServesConditionalRequests drives a full httpcache round trip:
// the first request stores the response, the second revalidates with
// If-None-Match and is answered from disk on 304.
func TestDisk_ServesConditionalRequests(t *testing.T) {
	disk, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		fmt.Fprint(w, "payload")
	}))
	defer srv.Close()

	transport := httpcache.NewTransport(disk)
	transport.MarkCachedResponses = true
	client := &http.Client{Transport: transport}

	fetch := func() (*http.Response, string) {
		t.Helper()
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("reading body: %v", err)
		}
		return resp, string(body)
	}

	if _, body := fetch(); body != "payload" {
		t.Fatalf("first body = %q", body)
	}
	resp, body := fetch()
	if body != "payload" {
		t.Fatalf("second body = %q", body)
	}
	if resp.Header.Get(httpcache.XFromCache) != "1" {
		t.Error("second response should be served from the cache")
	}
	if hits != 2 {
		t.Errorf("server saw %d requests, want 2 (one full, one conditional)", hits)
	}
}

func TestDefaultDir_XDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", filepath.Join("custom", "cache"))
	dir, err := DefaultDir()
	if err != nil {
		t.Fatalf("DefaultDir: %v", err)
	}
	if want := filepath.Join("custom", "cache", "arklens"); dir != want {
		t.Errorf("DefaultDir = %q, want %q", dir, want)
	}
}
