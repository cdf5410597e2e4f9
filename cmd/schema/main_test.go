package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSchemasDescribeWireFields(t *testing.T) {
	dir := t.TempDir()
	want := map[string][]string{
		"client_message.schema.json": {"type", "upgradeType", "metaType", "targetId"},
		"server_message.schema.json": {"type", "data"},
		"save.schema.json":           {"coin", "gem", "meta", "bestWave"},
	}
	for _, doc := range documents {
		path := filepath.Join(dir, doc.file)
		if err := writeSchema(path, buildSchema(doc)); err != nil {
			t.Fatalf("write %s: %v", doc.file, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", doc.file, err)
		}
		var schema struct {
			Title      string                     `json:"title"`
			Properties map[string]json.RawMessage `json:"properties"`
		}
		if err := json.Unmarshal(data, &schema); err != nil {
			t.Fatalf("decode %s: %v", doc.file, err)
		}
		if schema.Title != doc.title {
			t.Fatalf("%s: unexpected title %q", doc.file, schema.Title)
		}
		for _, field := range want[doc.file] {
			if _, ok := schema.Properties[field]; !ok {
				t.Fatalf("%s: missing property %q", doc.file, field)
			}
		}
	}
}
