package types

import (
	"bytes"
	"context"
	"fmt"
)

// Kind enumerates the data operations a Descriptor can describe.
type Kind string

const (
	KindCustom    Kind = "custom"
	KindDelete    Kind = "delete"
	KindFetchMany Kind = "fetchMany"
	KindFetchOne  Kind = "fetchOne"
	KindInsert    Kind = "insert"
	KindUpdate    Kind = "update"
	KindUpsert    Kind = "upsert"
)

// Returning controls the response shape the executor should produce.
type Returning string

const (
	// ReturningRepresentation asks for the full affected rows.
	ReturningRepresentation Returning = "representation"
	// ReturningMinimal asks for an acknowledgement with no payload.
	ReturningMinimal Returning = "minimal"
)

// Handler produces the raw response for a custom operation. It is invoked by
// the executor only when the descriptor kind is KindCustom.
type Handler func(ctx context.Context) ([]byte, error)

// Descriptor is the canonical, comparable description of one data operation:
// what would be sent to the backend, independent of any override. A
// Descriptor is built once per call, never mutated, and never persisted.
type Descriptor struct {
	Table     string   // target table name
	Kind      Kind     // operation kind
	Payload   []byte   // serialized payload (insert/update/upsert/custom)
	Filters   []Filter // ordered conditions; empty means unfiltered
	Order     *Order   // optional ordering clause
	Returning Returning
	ID        string  // optional route-author identifier for targeting overrides
	Custom    Handler // custom operation handler; excluded from Equal
}

// Equal reports whether two descriptors describe the same operation. Every
// field except Custom must match exactly; filter order is significant.
func (d Descriptor) Equal(other Descriptor) bool {
	if d.Table != other.Table ||
		d.Kind != other.Kind ||
		d.Returning != other.Returning ||
		d.ID != other.ID {
		return false
	}
	if !bytes.Equal(d.Payload, other.Payload) {
		return false
	}
	if len(d.Filters) != len(other.Filters) {
		return false
	}
	for i := range d.Filters {
		if !d.Filters[i].equal(other.Filters[i]) {
			return false
		}
	}
	if (d.Order == nil) != (other.Order == nil) {
		return false
	}
	if d.Order != nil && *d.Order != *other.Order {
		return false
	}
	return true
}

// Option customizes a Descriptor under construction.
type Option func(*Descriptor)

// WithFilters appends filter conditions in the given order.
func WithFilters(filters ...Filter) Option {
	return func(d *Descriptor) {
		d.Filters = append(d.Filters, filters...)
	}
}

// WithOrder sets the ordering clause.
func WithOrder(order Order) Option {
	return func(d *Descriptor) {
		d.Order = &order
	}
}

// WithReturning overrides the default response shape for the operation kind.
func WithReturning(r Returning) Option {
	return func(d *Descriptor) {
		d.Returning = r
	}
}

// WithID sets the route-author identifier, letting overrides target one
// specific call site without relying on field equality.
func WithID(id string) Option {
	return func(d *Descriptor) {
		d.ID = id
	}
}

// WithPayload sets an already-serialized payload. Constructors that take a
// payload argument encode it themselves; this option is for custom
// operations that carry one.
func WithPayload(raw []byte) Option {
	return func(d *Descriptor) {
		d.Payload = raw
	}
}

// Delete builds a delete descriptor. Deletes default to a minimal response.
func Delete(table string, opts ...Option) Descriptor {
	return build(Descriptor{Table: table, Kind: KindDelete, Returning: ReturningMinimal}, opts)
}

// FetchMany builds a descriptor fetching all rows matching the filters.
func FetchMany(table string, opts ...Option) Descriptor {
	return build(Descriptor{Table: table, Kind: KindFetchMany, Returning: ReturningRepresentation}, opts)
}

// FetchOne builds a descriptor fetching a single row.
func FetchOne(table string, opts ...Option) Descriptor {
	return build(Descriptor{Table: table, Kind: KindFetchOne, Returning: ReturningRepresentation}, opts)
}

// Insert builds an insert descriptor. The payload is encoded with the
// default codec at construction time; a nil payload returns ErrNoPayload.
func Insert(table string, payload any, opts ...Option) (Descriptor, error) {
	return buildWithPayload(Descriptor{Table: table, Kind: KindInsert, Returning: ReturningRepresentation}, payload, opts)
}

// Update builds an update descriptor. A nil payload returns ErrNoPayload.
func Update(table string, payload any, opts ...Option) (Descriptor, error) {
	return buildWithPayload(Descriptor{Table: table, Kind: KindUpdate, Returning: ReturningRepresentation}, payload, opts)
}

// Upsert builds an upsert descriptor. A nil payload returns ErrNoPayload.
func Upsert(table string, payload any, opts ...Option) (Descriptor, error) {
	return buildWithPayload(Descriptor{Table: table, Kind: KindUpsert, Returning: ReturningRepresentation}, payload, opts)
}

// Custom builds a custom descriptor around the given handler. A nil handler
// returns ErrNoHandler.
func Custom(table string, handler Handler, opts ...Option) (Descriptor, error) {
	if handler == nil {
		return Descriptor{}, ErrNoHandler
	}
	d := build(Descriptor{Table: table, Kind: KindCustom, Returning: ReturningRepresentation}, opts)
	d.Custom = handler
	return d, nil
}

func build(d Descriptor, opts []Option) Descriptor {
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func buildWithPayload(d Descriptor, payload any, opts []Option) (Descriptor, error) {
	if payload == nil {
		return Descriptor{}, ErrNoPayload
	}
	raw, err := DefaultCodec.Encode(payload)
	if err != nil {
		return Descriptor{}, fmt.Errorf("encode payload: %w", err)
	}
	d.Payload = raw
	return build(d, opts), nil
}
