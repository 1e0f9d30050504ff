package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/detour/pkg/types"
)

// newUUID generates a UUID v7 string for rows inserted without an id.
func newUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (b *Backend) fetchMany(ctx context.Context, d types.Descriptor) ([]byte, error) {
	query := "SELECT * FROM " + quoteIdent(d.Table)
	where, args, err := whereClause(d.Filters)
	if err != nil {
		return nil, err
	}
	query += where

	order, err := orderClause(d.Order)
	if err != nil {
		return nil, err
	}
	query += order

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", d.Table, err)
	}
	defer rows.Close()

	results, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	return json.Marshal(results)
}

func (b *Backend) fetchOne(ctx context.Context, d types.Descriptor) ([]byte, error) {
	query := "SELECT * FROM " + quoteIdent(d.Table)
	where, args, err := whereClause(d.Filters)
	if err != nil {
		return nil, err
	}
	query += where

	order, err := orderClause(d.Order)
	if err != nil {
		return nil, err
	}
	query += order + " LIMIT 1"

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", d.Table, err)
	}
	defer rows.Close()

	results, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("fetching %s: %w", d.Table, sql.ErrNoRows)
	}
	return json.Marshal(results[0])
}

// insert handles insert and upsert. The payload may be a single JSON object
// or an array of objects; rows missing an "id" get a generated UUID v7.
func (b *Backend) insert(ctx context.Context, d types.Descriptor, replace bool) ([]byte, error) {
	objects, err := payloadObjects(d.Payload)
	if err != nil {
		return nil, err
	}

	verb := "INSERT INTO "
	if replace {
		verb = "INSERT OR REPLACE INTO "
	}

	var inserted []map[string]any
	for _, obj := range objects {
		if _, ok := obj["id"]; !ok {
			obj["id"] = newUUID()
		}
		cols := sortedKeys(obj)
		placeholders := make([]string, len(cols))
		args := make([]any, len(cols))
		quoted := make([]string, len(cols))
		for i, col := range cols {
			quoted[i] = quoteIdent(col)
			placeholders[i] = "?"
			args[i] = bindValue(obj[col])
		}
		query := verb + quoteIdent(d.Table) +
			" (" + strings.Join(quoted, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")"

		if d.Returning == types.ReturningMinimal {
			if _, err := b.db.ExecContext(ctx, query, args...); err != nil {
				return nil, fmt.Errorf("inserting into %s: %w", d.Table, err)
			}
			continue
		}

		rows, err := b.db.QueryContext(ctx, query+" RETURNING *", args...)
		if err != nil {
			return nil, fmt.Errorf("inserting into %s: %w", d.Table, err)
		}
		returned, err := scanRows(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, returned...)
	}

	if d.Returning == types.ReturningMinimal {
		return nil, nil
	}
	return json.Marshal(inserted)
}

func (b *Backend) update(ctx context.Context, d types.Descriptor) ([]byte, error) {
	objects, err := payloadObjects(d.Payload)
	if err != nil {
		return nil, err
	}
	if len(objects) != 1 {
		return nil, fmt.Errorf("%w: update expects a single object", ErrInvalidPayload)
	}
	obj := objects[0]

	cols := sortedKeys(obj)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(d.Filters))
	for i, col := range cols {
		sets[i] = quoteIdent(col) + " = ?"
		args = append(args, bindValue(obj[col]))
	}

	where, whereArgs, err := whereClause(d.Filters)
	if err != nil {
		return nil, err
	}
	args = append(args, whereArgs...)

	query := "UPDATE " + quoteIdent(d.Table) + " SET " + strings.Join(sets, ", ") + where

	if d.Returning == types.ReturningMinimal {
		if _, err := b.db.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("updating %s: %w", d.Table, err)
		}
		return nil, nil
	}

	rows, err := b.db.QueryContext(ctx, query+" RETURNING *", args...)
	if err != nil {
		return nil, fmt.Errorf("updating %s: %w", d.Table, err)
	}
	defer rows.Close()

	updated, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	return json.Marshal(updated)
}

func (b *Backend) delete(ctx context.Context, d types.Descriptor) ([]byte, error) {
	where, args, err := whereClause(d.Filters)
	if err != nil {
		return nil, err
	}
	query := "DELETE FROM " + quoteIdent(d.Table) + where

	if d.Returning == types.ReturningMinimal {
		if _, err := b.db.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("deleting from %s: %w", d.Table, err)
		}
		return nil, nil
	}

	rows, err := b.db.QueryContext(ctx, query+" RETURNING *", args...)
	if err != nil {
		return nil, fmt.Errorf("deleting from %s: %w", d.Table, err)
	}
	defer rows.Close()

	deleted, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	return json.Marshal(deleted)
}

// whereClause builds " WHERE ..." with ?-placeholders from the filter
// triples, joined with AND. Empty filters produce an empty clause.
func whereClause(filters []types.Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}
	conditions := make([]string, 0, len(filters))
	var args []any
	for _, f := range filters {
		expr, condArgs, err := condition(f)
		if err != nil {
			return "", nil, err
		}
		conditions = append(conditions, expr)
		args = append(args, condArgs...)
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

func condition(f types.Filter) (string, []any, error) {
	col := quoteIdent(f.Column)
	val := bindValue(f.Value)
	switch f.Operator {
	case types.OpEq:
		return col + " = ?", []any{val}, nil
	case types.OpNeq:
		return col + " <> ?", []any{val}, nil
	case types.OpGt:
		return col + " > ?", []any{val}, nil
	case types.OpGte:
		return col + " >= ?", []any{val}, nil
	case types.OpLt:
		return col + " < ?", []any{val}, nil
	case types.OpLte:
		return col + " <= ?", []any{val}, nil
	case types.OpLike:
		return col + " LIKE ?", []any{val}, nil
	case types.OpIn:
		values, err := inValues(f.Value)
		if err != nil {
			return "", nil, err
		}
		placeholders := make([]string, len(values))
		for i := range values {
			placeholders[i] = "?"
		}
		return col + " IN (" + strings.Join(placeholders, ", ") + ")", values, nil
	case types.OpIs:
		if f.Value == nil {
			return col + " IS NULL", nil, nil
		}
		return col + " IS ?", []any{val}, nil
	default:
		return "", nil, fmt.Errorf("%w: unknown operator %q", ErrInvalidFilter, f.Operator)
	}
}

// inValues expands the value of an "in" filter into bind arguments.
func inValues(value any) ([]any, error) {
	switch vs := value.(type) {
	case []any:
		out := make([]any, len(vs))
		for i, v := range vs {
			out[i] = bindValue(v)
		}
		return out, nil
	case []string:
		out := make([]any, len(vs))
		for i, v := range vs {
			out[i] = v
		}
		return out, nil
	case []int:
		out := make([]any, len(vs))
		for i, v := range vs {
			out[i] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: in operator needs a slice", ErrInvalidFilter)
	}
}

func orderClause(order *types.Order) (string, error) {
	if order == nil {
		return "", nil
	}
	if order.ForeignTable != "" {
		return "", fmt.Errorf("ordering on foreign table %q is not supported by the sqlite executor", order.ForeignTable)
	}
	clause := " ORDER BY " + quoteIdent(order.Column)
	if order.Ascending {
		clause += " ASC"
	} else {
		clause += " DESC"
	}
	if order.NullsFirst {
		clause += " NULLS FIRST"
	} else {
		clause += " NULLS LAST"
	}
	return clause, nil
}

// payloadObjects decodes a payload into row objects, accepting a single
// JSON object or an array of objects.
func payloadObjects(payload []byte) ([]map[string]any, error) {
	if len(payload) == 0 {
		return nil, types.ErrNoPayload
	}
	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	switch v := decoded.(type) {
	case map[string]any:
		return []map[string]any{v}, nil
	case []any:
		objects := make([]map[string]any, 0, len(v))
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: array items must be objects", ErrInvalidPayload)
			}
			objects = append(objects, obj)
		}
		return objects, nil
	default:
		return nil, fmt.Errorf("%w: expected object or array of objects", ErrInvalidPayload)
	}
}

// bindValue converts JSON-decoded values into driver-friendly arguments.
func bindValue(v any) any {
	switch val := v.(type) {
	case bool:
		if val {
			return 1
		}
		return 0
	case map[string]any, []any:
		// Nested structures are stored as JSON text.
		raw, err := json.Marshal(val)
		if err != nil {
			return nil
		}
		return string(raw)
	default:
		return v
	}
}

// scanRows reads all rows into ordered maps keyed by column name.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if raw, ok := values[i].([]byte); ok {
				row[col] = string(raw)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// quoteIdent quotes a table or column identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
