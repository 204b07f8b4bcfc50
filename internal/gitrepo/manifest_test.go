package gitrepo

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestManifestRoundTrip(t *testing.T) {
	commits := []CommitInfo{
		{
			ShortID:      "abc1234",
			LongID:       strings.Repeat("a", 40),
			Author:       "Lee, Dev",
			Date:         "2025-06-01 10:00:00 +0800",
			Message:      `fix: handle "quotes", commas` + "\nand a second line",
			FilesChanged: 3,
		},
		{
			ShortID:      "def5678",
			LongID:       strings.Repeat("b", 40),
			Author:       "Dev",
			Date:         "2025-06-02 11:00:00 +0800",
			Message:      "plain subject",
			FilesChanged: 1,
		},
	}

	var buf bytes.Buffer
	if err := WriteManifest(&buf, commits); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "short_id,long_id,author,date,message,files_changed") {
		t.Errorf("missing header row: %q", buf.String())
	}

	got, err := ReadManifest(&buf)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if !reflect.DeepEqual(got, commits) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, commits)
	}
}

func TestReadManifest_SkipsMalformedRows(t *testing.T) {
	csvData := strings.Join([]string{
		"short_id,long_id,author,date,message,files_changed",
		"abc,aaaa,Dev,2025-06-01,ok row,2",
		"too,short,row",
		"bad,bbbb,Dev,2025-06-02,bad count,many",
		"def,cccc,Dev,2025-06-03,another ok,0",
	}, "\n")

	got, err := ReadManifest(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2: %+v", len(got), got)
	}
	if got[0].ShortID != "abc" || got[1].ShortID != "def" {
		t.Errorf("unexpected surviving rows: %+v", got)
	}
}

func TestReadManifest_Empty(t *testing.T) {
	got, err := ReadManifest(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no rows, got %+v", got)
	}
}

func TestReadManifest_HeaderOnly(t *testing.T) {
	got, err := ReadManifest(strings.NewReader("short_id,long_id,author,date,message,files_changed\n"))
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no rows, got %+v", got)
	}
}
