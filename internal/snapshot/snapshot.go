// Package snapshot persists and restores a document's node table as the
// Node JSON form: {id, type, ...properties}, wrapped in
// {schema: {name, version}, nodes: [Node]}.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/substancehq/substance/internal/schema"
	"github.com/substancehq/substance/internal/store"
)

// SchemaRef identifies the schema a snapshot was taken against.
type SchemaRef struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Snapshot is the on-disk form of a document.
type Snapshot struct {
	Schema SchemaRef         `json:"schema"`
	Nodes  []map[string]any  `json:"nodes"`
}

// pathProperties are the well-known annotation-anchor properties whose
// values are store.Path rather than a plain scalar or list.
var pathProperties = map[string]bool{"path": true, "startPath": true, "endPath": true}

// Save captures s's current node table into a Snapshot, in insertion
// order.
func Save(s *store.Store, name, version string) *Snapshot {
	snap := &Snapshot{Schema: SchemaRef{Name: name, Version: version}}
	for _, id := range s.IDs() {
		n, _ := s.Get(id)
		snap.Nodes = append(snap.Nodes, encodeNode(n))
	}
	return snap
}

func encodeNode(n *store.Node) map[string]any {
	m := make(map[string]any, len(n.Properties)+2)
	for k, v := range n.Properties {
		m[k] = encodeValue(v)
	}
	m["id"] = n.ID
	m["type"] = n.Type
	return m
}

func encodeValue(v any) any {
	switch val := v.(type) {
	case store.Path:
		return map[string]string{"nodeId": val.NodeID, "property": val.Property}
	case json.RawMessage:
		var decoded any
		if err := json.Unmarshal(val, &decoded); err == nil {
			return decoded
		}
		return string(val)
	default:
		return v
	}
}

// Load decodes a Snapshot into a sequence of CreateOp values, ready to be
// applied. It does not touch any store itself: callers apply the result
// inside their own transaction (an implicit one, not pushed to history, per
// the Node JSON form's loading contract).
func Load(sch *schema.Schema, snap *Snapshot) ([]*store.CreateOp, error) {
	ops := make([]*store.CreateOp, 0, len(snap.Nodes))
	for _, raw := range snap.Nodes {
		n, err := decodeNode(sch, raw)
		if err != nil {
			return nil, err
		}
		ops = append(ops, &store.CreateOp{Node: n})
	}
	return ops, nil
}

func decodeNode(sch *schema.Schema, raw map[string]any) (*store.Node, error) {
	idVal, _ := raw["id"].(string)
	typeVal, _ := raw["type"].(string)
	if idVal == "" || typeVal == "" {
		return nil, fmt.Errorf("snapshot: node missing id or type")
	}
	n := store.NewNode(idVal, typeVal)
	for k, v := range raw {
		if k == "id" || k == "type" {
			continue
		}
		spec, _ := sch.Property(typeVal, k)
		n.Properties[k] = decodeValue(sch, k, v, spec)
	}
	return n, nil
}

func decodeValue(sch *schema.Schema, name string, raw any, spec schema.PropertySpec) any {
	if pathProperties[name] {
		if m, ok := raw.(map[string]any); ok {
			return store.Path{NodeID: fmt.Sprint(m["nodeId"]), Property: fmt.Sprint(m["property"])}
		}
	}
	switch spec.Kind {
	case schema.KindInteger:
		if f, ok := raw.(float64); ok {
			return int(f)
		}
	case schema.KindDate:
		// encodeValue leaves time.Time untouched, so json.Marshal renders it
		// as RFC3339Nano; parse it back so a restored node's date property
		// is a time.Time like one set through a transaction, not a string
		// CreateOp.Apply would otherwise have to coerce on our behalf.
		if text, ok := raw.(string); ok {
			if t, err := time.Parse(time.RFC3339, text); err == nil {
				return t
			}
		}
	case schema.KindReferenceMany:
		if arr, ok := raw.([]any); ok {
			out := make([]string, len(arr))
			for i, item := range arr {
				out[i] = fmt.Sprint(item)
			}
			return out
		}
	case schema.KindJSON:
		b, err := json.Marshal(raw)
		if err == nil {
			return json.RawMessage(b)
		}
	}
	return raw
}

// Marshal renders snap as the persisted JSON document.
func Marshal(snap *Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

// Unmarshal parses the persisted JSON document form back into a Snapshot.
func Unmarshal(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
