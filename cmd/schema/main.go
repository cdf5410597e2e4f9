package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"tower-survival/server/internal/net/proto"
	"tower-survival/server/internal/world"
)

type document struct {
	file        string
	title       string
	description string
	value       any
}

var documents = []document{
	{
		file:        "client_message.schema.json",
		title:       "Tower Survival Client Message",
		description: "Commands sent by a client over the websocket",
		value:       new(proto.ClientMessage),
	},
	{
		file:        "server_message.schema.json",
		title:       "Tower Survival Server Message",
		description: "INIT and UPDATE frames carrying the game state",
		value:       new(proto.ServerMessage),
	},
	{
		file:        "save.schema.json",
		title:       "Tower Survival Save File",
		description: "Persistent progress written to the save file",
		value:       new(world.PersistentState),
	},
}

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write the JSON schemas")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	for _, doc := range documents {
		if err := writeSchema(filepath.Join(outDir, doc.file), buildSchema(doc)); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", doc.file, err)
			os.Exit(1)
		}
	}
}

func buildSchema(doc document) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(doc.value)
	schema.Title = doc.title
	schema.Description = doc.description
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}
	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
