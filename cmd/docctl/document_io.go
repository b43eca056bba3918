package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/substancehq/substance"
	"github.com/substancehq/substance/internal/config"
	"github.com/substancehq/substance/internal/docschema"
	"github.com/substancehq/substance/internal/snapshot"
	"github.com/substancehq/substance/internal/store"
)

// rootBodyID is the well-known id of the document's top-level body
// container, created the first time a document is opened.
const rootBodyID = "root"

// loadedDocument bundles the in-memory Document with the path it was
// loaded from and the per-document config that governs how it is saved.
type loadedDocument struct {
	path string
	cfg  *config.DocumentConfig
	doc  *substance.Document
}

func openDocument(path string) (*loadedDocument, error) {
	dir := filepath.Dir(path)
	cfg := config.LoadDocumentConfigWithEnv(dir)

	sch := docschema.Default()
	d := substance.NewDocument(sch, substance.WithForceTransactions(cfg.ForceTransactions))

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		snap, err := snapshot.Unmarshal(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if err := d.Restore(snap); err != nil {
			return nil, fmt.Errorf("restoring %s: %w", path, err)
		}
	case os.IsNotExist(err):
		if err := d.ApplyDirect(&store.CreateOp{Node: store.NewNode(rootBodyID, "body")}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &loadedDocument{path: path, cfg: cfg, doc: d}, nil
}

func (ld *loadedDocument) save() error {
	if err := os.MkdirAll(filepath.Dir(ld.path), 0o755); err != nil {
		return err
	}
	snap := ld.doc.Snapshot()
	data, err := snapshot.Marshal(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(ld.path, data, 0o644)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
