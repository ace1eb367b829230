package form

import (
	"context"
	"fmt"
)

// DataProvider supplies the initial data of a form.
type DataProvider[T any] interface {
	DefaultData(ctx context.Context) (T, error)
	Data(ctx context.Context, id int) (T, error)
}

// DataHandler persists submitted data.
type DataHandler[T any] interface {
	Create(ctx context.Context, f *Form[T]) (int, error)
	Update(ctx context.Context, id int, f *Form[T]) error
}

// Builder creates forms filled from a DataProvider.
type Builder[T any] struct {
	name     string
	provider DataProvider[T]
}

// NewBuilder returns a builder of forms called name.
func NewBuilder[T any](name string, provider DataProvider[T]) *Builder[T] {
	return &Builder[T]{name: name, provider: provider}
}

// GetForm returns a creation form. overrides are written on top of the
// default data.
func (b *Builder[T]) GetForm(ctx context.Context, overrides map[string]any) (*Form[T], error) {
	data, err := b.provider.DefaultData(ctx)
	if err != nil {
		return nil, fmt.Errorf("default %s data: %w", b.name, err)
	}
	return b.build(data, overrides)
}

// GetFormFor returns an edit form for the object id.
func (b *Builder[T]) GetFormFor(ctx context.Context, id int, overrides map[string]any) (*Form[T], error) {
	data, err := b.provider.Data(ctx, id)
	if err != nil {
		return nil, err
	}
	return b.build(data, overrides)
}

func (b *Builder[T]) build(data T, overrides map[string]any) (*Form[T], error) {
	if len(overrides) > 0 {
		if err := Decode(overrides, &data); err != nil {
			return nil, err
		}
	}
	return New(b.name, data), nil
}

// Result is the outcome of handling a form.
type Result struct {
	IdentifiableObjectID *int
	Submitted            bool
	Valid                bool
}

// Handler runs a DataHandler for submitted, valid forms only.
type Handler[T any] struct {
	data DataHandler[T]
}

// NewHandler wraps h.
func NewHandler[T any](h DataHandler[T]) *Handler[T] {
	return &Handler[T]{data: h}
}

// Handle creates the object behind f. When a later step fails after the
// object was created, the error comes back with the new id set.
func (h *Handler[T]) Handle(ctx context.Context, f *Form[T]) (Result, error) {
	if !f.Valid() {
		return Result{Submitted: f.Submitted()}, nil
	}
	res := Result{Submitted: true, Valid: true}
	id, err := h.data.Create(ctx, f)
	if id > 0 {
		res.IdentifiableObjectID = &id
	}
	return res, err
}

// HandleFor updates the object id from f.
func (h *Handler[T]) HandleFor(ctx context.Context, id int, f *Form[T]) (Result, error) {
	if !f.Valid() {
		return Result{Submitted: f.Submitted()}, nil
	}
	if err := h.data.Update(ctx, id, f); err != nil {
		return Result{Submitted: true, Valid: true}, err
	}
	return Result{IdentifiableObjectID: &id, Submitted: true, Valid: true}, nil
}
