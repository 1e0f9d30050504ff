// The call command dispatches one data operation through the router.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/detour/internal/sqlite"
	"github.com/mesh-intelligence/detour/pkg/router"
	"github.com/mesh-intelligence/detour/pkg/types"
)

// call command flag values.
var (
	flagFilters     []string
	flagPayload     string
	flagPayloadFile string
	flagOrder       string
	flagMinimal     bool
	flagRouteID     string
	flagFixture     string
)

var callCmd = &cobra.Command{
	Use:   "call <operation> <table>",
	Short: "Dispatch one data operation through the router",
	Long: `Call builds a descriptor for the given operation and table, routes it
through the dispatch engine, and prints the response. Operations: fetch,
fetchone, insert, update, upsert, delete.

With --fixture, overrides from a JSON fixture file are registered before
dispatching; a matching override short-circuits the SQLite executor, which is
useful for previewing call sites against canned data.`,
	Args: cobra.ExactArgs(2),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringArrayVar(&flagFilters, "filter", nil, "filter condition, column=op:value (repeatable)")
	callCmd.Flags().StringVar(&flagPayload, "payload", "", "JSON payload for insert/update/upsert")
	callCmd.Flags().StringVar(&flagPayloadFile, "payload-file", "", "file containing the JSON payload")
	callCmd.Flags().StringVar(&flagOrder, "order", "", "ordering, column[:asc|:desc]")
	callCmd.Flags().BoolVar(&flagMinimal, "minimal", false, "request a minimal response (no rows returned)")
	callCmd.Flags().StringVar(&flagRouteID, "route-id", "", "route identifier for targeting overrides")
	callCmd.Flags().StringVar(&flagFixture, "fixture", "", "JSON fixture file with overrides to register")
}

func runCall(cmd *cobra.Command, args []string) error {
	d, err := buildDescriptor(args[0], args[1])
	if err != nil {
		return err
	}

	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(sqlite.Config{DataDir: dataDir, Schema: schema}); err != nil {
		return fmt.Errorf("attach backend: %w", err)
	}
	defer backend.Detach()

	rt := router.New(backend.Execute)
	if flagFixture != "" {
		overrides, err := loadFixture(flagFixture)
		if err != nil {
			return fmt.Errorf("load fixture: %w", err)
		}
		for _, o := range overrides {
			rt.AddOverride(o)
		}
	}

	if flagMinimal {
		if err := rt.Exec(cmd.Context(), staticRoute{d: d}); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	}

	var result any
	if err := rt.Call(cmd.Context(), staticRoute{d: d}, &result); err != nil {
		return err
	}
	return printResult(result)
}

// buildDescriptor assembles a Descriptor from the CLI arguments and flags.
func buildDescriptor(operation, table string) (types.Descriptor, error) {
	opts, err := descriptorOptions()
	if err != nil {
		return types.Descriptor{}, err
	}

	switch strings.ToLower(operation) {
	case "fetch":
		return types.FetchMany(table, opts...), nil
	case "fetchone":
		return types.FetchOne(table, opts...), nil
	case "delete":
		return types.Delete(table, opts...), nil
	case "insert":
		payload, err := loadPayload()
		if err != nil {
			return types.Descriptor{}, err
		}
		return types.Insert(table, payload, opts...)
	case "update":
		payload, err := loadPayload()
		if err != nil {
			return types.Descriptor{}, err
		}
		return types.Update(table, payload, opts...)
	case "upsert":
		payload, err := loadPayload()
		if err != nil {
			return types.Descriptor{}, err
		}
		return types.Upsert(table, payload, opts...)
	default:
		return types.Descriptor{}, fmt.Errorf("unknown operation %q", operation)
	}
}

// descriptorOptions translates shared flags into descriptor options.
func descriptorOptions() ([]types.Option, error) {
	var opts []types.Option

	for _, raw := range flagFilters {
		f, err := parseFilter(raw)
		if err != nil {
			return nil, err
		}
		opts = append(opts, types.WithFilters(f))
	}

	if flagOrder != "" {
		order, err := parseOrder(flagOrder)
		if err != nil {
			return nil, err
		}
		opts = append(opts, types.WithOrder(order))
	}

	if flagMinimal {
		opts = append(opts, types.WithReturning(types.ReturningMinimal))
	}
	if flagRouteID != "" {
		opts = append(opts, types.WithID(flagRouteID))
	}
	return opts, nil
}

// parseFilter parses "column=op:value". The value is decoded as JSON when
// possible, so numbers and booleans keep their types; anything else is a
// plain string.
func parseFilter(raw string) (types.Filter, error) {
	column, rest, ok := strings.Cut(raw, "=")
	if !ok || column == "" {
		return types.Filter{}, fmt.Errorf("invalid filter %q, want column=op:value", raw)
	}
	opPart, valPart, ok := strings.Cut(rest, ":")
	if !ok {
		return types.Filter{}, fmt.Errorf("invalid filter %q, want column=op:value", raw)
	}
	op := types.Operator(opPart)
	if !op.Valid() {
		return types.Filter{}, fmt.Errorf("invalid filter %q: unknown operator %q", raw, opPart)
	}

	var value any
	if err := json.Unmarshal([]byte(valPart), &value); err != nil {
		value = valPart
	}
	return types.Filter{Column: column, Operator: op, Value: value}, nil
}

// parseOrder parses "column", "column:asc", or "column:desc".
func parseOrder(raw string) (types.Order, error) {
	column, dir, ok := strings.Cut(raw, ":")
	if column == "" {
		return types.Order{}, fmt.Errorf("invalid order %q", raw)
	}
	if !ok {
		return types.Order{Column: column, Ascending: true}, nil
	}
	switch strings.ToLower(dir) {
	case "asc":
		return types.Order{Column: column, Ascending: true}, nil
	case "desc":
		return types.Order{Column: column}, nil
	default:
		return types.Order{}, fmt.Errorf("invalid order direction %q", dir)
	}
}

// loadPayload reads the payload from --payload or --payload-file.
func loadPayload() (any, error) {
	raw := []byte(flagPayload)
	if flagPayloadFile != "" {
		data, err := os.ReadFile(flagPayloadFile)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("operation needs --payload or --payload-file")
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	return payload, nil
}
