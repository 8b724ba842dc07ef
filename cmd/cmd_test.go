package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDefaultExportFilename(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.FixedZone("WAT", 3600))
	if got := defaultExportFilename(false, now); got != "gradenet-backup-20250304-040607.jsonl" {
		t.Fatalf("unexpected filename %q", got)
	}
	if got := defaultExportFilename(true, now); !strings.HasSuffix(got, ".jsonl.gz") {
		t.Fatalf("expected gzip suffix, got %q", got)
	}
}

func TestNormalizeIDs(t *testing.T) {
	got := normalizeIDs([]string{" a ,b", "", "c,,"})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected ids %v", got)
	}
	if normalizeIDs([]string{" ", ","}) != nil {
		t.Fatalf("expected nil for blank input")
	}
}

func TestCLIProgress(t *testing.T) {
	var out bytes.Buffer
	p := newCLIProgress(&out)
	p.StartTable("course", 3)
	for i := 0; i < 3; i++ {
		p.Increment("course", 1)
	}
	p.FinishTable("course")

	text := out.String()
	for _, want := range []string{"exporting course (3 records)", "course: 3/3", "exported course: 3/3"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in progress output:\n%s", want, text)
		}
	}
}

func TestProgressStep(t *testing.T) {
	cases := map[int]int{0: 100, 10: 1, 400: 20, 100000: 100}
	for total, want := range cases {
		if got := progressStep(total); got != want {
			t.Fatalf("progressStep(%d) = %d, want %d", total, got, want)
		}
	}
}

func TestResolveTranscript(t *testing.T) {
	local := filepath.Join(t.TempDir(), "t.yaml")
	got, err := resolveTranscript(context.Background(), local, "", false)
	if err != nil || got != local {
		t.Fatalf("expected local path unchanged, got %q, %v", got, err)
	}

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, "semesters:\n  - {term: 1, level: 100}\n")
	}))
	defer srv.Close()

	cacheDir := t.TempDir()
	path, err := resolveTranscript(context.Background(), srv.URL+"/t.yaml", cacheDir, false)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(data), "semesters") {
		t.Fatalf("expected downloaded transcript, got %q (%v)", data, err)
	}

	if _, err := resolveTranscript(context.Background(), srv.URL+"/t.yaml", cacheDir, false); err != nil {
		t.Fatalf("resolve cached: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected cached second resolve, server hit %d times", hits)
	}
	if _, err := resolveTranscript(context.Background(), srv.URL+"/t.yaml", cacheDir, true); err != nil {
		t.Fatalf("resolve no-cache: %v", err)
	}
	if hits != 2 {
		t.Fatalf("expected --no-cache to download again, server hit %d times", hits)
	}
}
