package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xhhuango/json"

	"github.com/dquill/optsig/options"
	"github.com/dquill/optsig/signals"
)

// Document is one captured point-in-time view of an underlying: the contract
// chain that was fetched and the signals derived from it. Loaded documents
// are plain input arrays; the engines never mutate them.
type Document struct {
	CapturedAt int64                   `json:"captured_at"` // epoch ms
	Underlying string                  `json:"underlying"`
	IndexPrice float64                 `json:"index_price"`
	Signals    []signals.ExpirySignals `json:"signals"`
	Contracts  []options.Contract      `json:"contracts"`
	Timeline   []options.PricePoint    `json:"timeline,omitempty"`
}

// Capture writes a document into dir and returns the file path.
func Capture(dir string, doc Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot dir %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%d.json", doc.Underlying, doc.CapturedAt))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return path, nil
}

// Load reads a single snapshot document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", path, err)
	}
	return doc, nil
}

// LoadDir reads every snapshot in dir, ordered by capture time. Used by
// backfill jobs that replay historical chains through the signal engine.
func LoadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot dir %s: %w", dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		doc, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].CapturedAt < docs[j].CapturedAt })
	return docs, nil
}
