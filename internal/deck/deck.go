// Package deck loads the vocabulary word packs. A default pack is compiled
// in; user packs are YAML files dropped into the decks directory and picked
// up live by the watcher.
package deck

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"lexi/internal/logging"
)

//go:embed assets/default.yaml
var defaultPackFS embed.FS

// Word is one vocabulary card.
type Word struct {
	ID           string `yaml:"id"`
	Term         string `yaml:"term"`
	Phonetic     string `yaml:"phonetic"`
	PartOfSpeech string `yaml:"part_of_speech"`
	Definition   string `yaml:"definition"`
	Example      string `yaml:"example"`
	// Notes is markdown shown on the back of the card.
	Notes  string   `yaml:"notes"`
	Topics []string `yaml:"topics"`
}

// Pack is a named collection of words.
type Pack struct {
	Name  string `yaml:"name"`
	Words []Word `yaml:"words"`
}

// DailyTarget is how many words make up a day's session.
const DailyTarget = 5

// DefaultPack returns the compiled-in word pack.
func DefaultPack() (*Pack, error) {
	data, err := defaultPackFS.ReadFile("assets/default.yaml")
	if err != nil {
		return nil, fmt.Errorf("embedded pack missing: %w", err)
	}
	return parsePack(data)
}

// LoadDir reads every *.yaml pack in dir, merging them with the default
// pack. A missing directory is not an error; unreadable packs are logged and
// skipped.
func LoadDir(dir string) (*Pack, error) {
	merged, err := DefaultPack()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return merged, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read decks directory: %w", err)
	}

	seen := make(map[string]struct{}, len(merged.Words))
	for _, w := range merged.Words {
		seen[w.ID] = struct{}{}
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logging.DeckWarn("Skipping unreadable pack %s: %v", path, err)
			continue
		}
		pack, err := parsePack(data)
		if err != nil {
			logging.DeckWarn("Skipping malformed pack %s: %v", path, err)
			continue
		}
		added := 0
		for _, w := range pack.Words {
			if _, dup := seen[w.ID]; dup {
				continue
			}
			seen[w.ID] = struct{}{}
			merged.Words = append(merged.Words, w)
			added++
		}
		logging.Deck("Loaded pack %s: %d new words", e.Name(), added)
	}

	return merged, nil
}

func parsePack(data []byte) (*Pack, error) {
	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse pack: %w", err)
	}
	for i, w := range pack.Words {
		if w.ID == "" || w.Term == "" {
			return nil, fmt.Errorf("word %d missing id or term", i)
		}
	}
	return &pack, nil
}

// DailyFive deterministically selects the day's words. The same calendar day
// always yields the same selection for a given pack, and consecutive days
// rotate through the pack before repeating.
func DailyFive(day int, words []Word) []Word {
	if len(words) == 0 {
		return nil
	}

	// Stable base ordering regardless of pack file order.
	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	n := DailyTarget
	if n > len(sorted) {
		n = len(sorted)
	}

	start := (day * DailyTarget) % len(sorted)
	if start < 0 {
		start += len(sorted)
	}
	out := make([]Word, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, sorted[(start+i)%len(sorted)])
	}
	return out
}
