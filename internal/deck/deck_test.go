package deck

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultPack(t *testing.T) {
	pack, err := DefaultPack()
	if err != nil {
		t.Fatalf("DefaultPack: %v", err)
	}
	if len(pack.Words) < DailyTarget {
		t.Fatalf("default pack has %d words, need at least %d", len(pack.Words), DailyTarget)
	}

	seen := make(map[string]struct{})
	for _, w := range pack.Words {
		if w.ID == "" || w.Term == "" || w.Definition == "" {
			t.Errorf("word %q incomplete: %+v", w.ID, w)
		}
		if _, dup := seen[w.ID]; dup {
			t.Errorf("duplicate word id %q", w.ID)
		}
		seen[w.ID] = struct{}{}
	}
}

func TestLoadDirMergesUserPacks(t *testing.T) {
	dir := t.TempDir()
	userPack := `name: Custom
words:
  - id: defenestrate
    term: defenestrate
    definition: To throw someone out of a window.
  - id: ephemeral
    term: ephemeral
    definition: Duplicate of a default word; must not double up.
`
	if err := os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(userPack), 0644); err != nil {
		t.Fatal(err)
	}
	// Malformed packs are skipped, not fatal.
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("words: [nope"), 0644); err != nil {
		t.Fatal(err)
	}

	pack, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	base, _ := DefaultPack()
	if got, want := len(pack.Words), len(base.Words)+1; got != want {
		t.Errorf("merged word count = %d, want %d", got, want)
	}

	found := false
	for _, w := range pack.Words {
		if w.ID == "defenestrate" {
			found = true
		}
	}
	if !found {
		t.Error("user word not merged")
	}
}

func TestLoadDirMissingDirectory(t *testing.T) {
	pack, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("LoadDir on missing dir: %v", err)
	}
	base, _ := DefaultPack()
	if len(pack.Words) != len(base.Words) {
		t.Errorf("missing dir should yield the default pack")
	}
}

func TestDailyFiveDeterministic(t *testing.T) {
	pack, err := DefaultPack()
	if err != nil {
		t.Fatal(err)
	}

	day := int(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC).Unix() / 86400)

	a := DailyFive(day, pack.Words)
	b := DailyFive(day, pack.Words)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same day yielded different selections:\n%s", diff)
	}
	if len(a) != DailyTarget {
		t.Errorf("selection size = %d, want %d", len(a), DailyTarget)
	}

	next := DailyFive(day+1, pack.Words)
	if cmp.Equal(a, next) {
		t.Error("consecutive days yielded identical selections")
	}
}

func TestDailyFiveSmallPack(t *testing.T) {
	words := []Word{
		{ID: "a", Term: "a"},
		{ID: "b", Term: "b"},
	}
	got := DailyFive(3, words)
	if len(got) != 2 {
		t.Errorf("selection size = %d, want 2 for a two-word pack", len(got))
	}

	if got := DailyFive(0, nil); got != nil {
		t.Errorf("empty pack selection = %v, want nil", got)
	}
}

func TestWatcherSignalsOnPackChange(t *testing.T) {
	dir := t.TempDir()
	w, err := WatchDir(dir)
	if err != nil {
		t.Fatalf("WatchDir: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "new.yaml"), []byte("name: X\nwords: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Reload():
	case <-time.After(3 * time.Second):
		t.Fatal("no reload signal after pack write")
	}
}
