package gitrepo

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// manifestHeader is the fixed column order of a commit manifest.
var manifestHeader = []string{"short_id", "long_id", "author", "date", "message", "files_changed"}

// WriteManifest writes commits as CSV, header row first. Quoting and
// escaping follow RFC 4180, so commas, quotes, and newlines in commit
// messages round-trip.
func WriteManifest(w io.Writer, commits []CommitInfo) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(manifestHeader); err != nil {
		return fmt.Errorf("writing manifest header: %w", err)
	}
	for _, c := range commits {
		rec := []string{c.ShortID, c.LongID, c.Author, c.Date, c.Message, strconv.Itoa(c.FilesChanged)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing manifest row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteManifestFile writes the manifest to path, creating parent
// directories as needed.
func WriteManifestFile(path string, commits []CommitInfo) error {
	var buf bytes.Buffer
	if err := WriteManifest(&buf, commits); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating manifest directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest parses a commit manifest. A leading header row is skipped;
// malformed rows are skipped with a warning rather than failing the read.
func ReadManifest(r io.Reader) ([]CommitInfo, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var commits []CommitInfo
	row := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				slog.Warn("skipping malformed manifest row", "row", row+1, "error", err)
				row++
				continue
			}
			return nil, fmt.Errorf("reading manifest: %w", err)
		}
		row++
		if row == 1 && isManifestHeader(rec) {
			continue
		}
		if len(rec) < 6 {
			slog.Warn("skipping short manifest row", "row", row, "fields", len(rec))
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(rec[5]))
		if err != nil {
			slog.Warn("skipping manifest row with bad file count", "row", row, "value", rec[5])
			continue
		}
		commits = append(commits, CommitInfo{
			ShortID:      rec[0],
			LongID:       rec[1],
			Author:       rec[2],
			Date:         rec[3],
			Message:      rec[4],
			FilesChanged: count,
		})
	}
	return commits, nil
}

// ReadManifestFile reads a commit manifest from path.
func ReadManifestFile(path string) ([]CommitInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()
	return ReadManifest(f)
}

func isManifestHeader(rec []string) bool {
	return len(rec) > 0 && rec[0] == manifestHeader[0]
}
