// Shared helpers for detour CLI commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mesh-intelligence/detour/pkg/types"
)

// staticRoute adapts a prebuilt descriptor to the Route interface. CLI
// invocations describe exactly one operation, so the conversion never fails.
type staticRoute struct {
	d types.Descriptor
}

func (r staticRoute) Descriptor(context.Context) (types.Descriptor, error) {
	return r.d, nil
}

// printResult writes the dispatch result to stdout: compact JSON with
// --json, indented otherwise.
func printResult(v any) error {
	var (
		out []byte
		err error
	)
	if flagJSON {
		out, err = json.Marshal(v)
	} else {
		out, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// loadSchema returns the schema SQL to apply on attach: the configured
// schema_file when set, the embedded sample schema otherwise.
func loadSchema() (string, error) {
	if configSchemaFile == "" {
		return "", nil // backend falls back to the sample schema
	}
	data, err := os.ReadFile(configSchemaFile)
	if err != nil {
		return "", fmt.Errorf("read schema file: %w", err)
	}
	return string(data), nil
}
