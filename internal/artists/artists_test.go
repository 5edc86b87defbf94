package artists

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"BTS", "Queen", "BTS", "Blackpink", "Queen"})
	want := []string{"BTS", "Queen", "Blackpink"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Dedupe mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultHasRepeats(t *testing.T) {
	deduped := Dedupe(Default)
	if len(deduped) >= len(Default) {
		t.Fatalf("Expected the default list to contain repeats")
	}
	if deduped[0] != "The Beatles" {
		t.Errorf("Expected order to be preserved, got %q first", deduped[0])
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artists.txt")
	contents := "# rock\nQueen\n\n  Led Zeppelin  \n#jazz\nOregon\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}
	want := []string{"Queen", "Led Zeppelin", "Oregon"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("Load should have errored on a missing file")
	}
}
