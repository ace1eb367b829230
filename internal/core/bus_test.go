package core

import (
	"context"
	"errors"
	"testing"
)

func TestBus_HandleAndAsk(t *testing.T) {
	bus := NewBus()
	Handle(bus, func(_ context.Context, q GetManufacturerForEditing) (EditableManufacturer, error) {
		if q.ManufacturerID == 0 {
			return EditableManufacturer{}, NewError(KindManufacturerNotFound, 0, "missing")
		}
		return EditableManufacturer{ManufacturerID: q.ManufacturerID}, nil
	})

	got, err := Ask[EditableManufacturer](context.Background(), bus, GetManufacturerForEditing{ManufacturerID: 5})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got.ManufacturerID != 5 {
		t.Errorf("ManufacturerID = %d, want 5", got.ManufacturerID)
	}

	_, err = Ask[EditableManufacturer](context.Background(), bus, GetManufacturerForEditing{})
	if !errors.Is(err, ErrManufacturerNotFound) {
		t.Errorf("Ask() error = %v, want not found", err)
	}
}

func TestBus_UnknownMessage(t *testing.T) {
	bus := NewBus()
	if err := Send(context.Background(), bus, DeleteManufacturer{ManufacturerID: 1}); err == nil {
		t.Fatal("Send() expected error for unregistered message")
	}
}

func TestBus_WrongResultType(t *testing.T) {
	bus := NewBus()
	Handle(bus, func(context.Context, AddManufacturer) (int, error) { return 7, nil })

	if _, err := Ask[string](context.Background(), bus, AddManufacturer{}); err == nil {
		t.Fatal("Ask[string]() expected type error")
	}
	id, err := Ask[int](context.Background(), bus, AddManufacturer{})
	if err != nil || id != 7 {
		t.Errorf("Ask[int]() = %d, %v, want 7, nil", id, err)
	}
}

func TestBus_DuplicatePanics(t *testing.T) {
	bus := NewBus()
	Handle(bus, func(context.Context, DeleteAddress) (Void, error) { return Void{}, nil })

	defer func() {
		if recover() == nil {
			t.Error("second registration should panic")
		}
	}()
	Handle(bus, func(context.Context, DeleteAddress) (Void, error) { return Void{}, nil })
}

func TestBus_Names(t *testing.T) {
	bus := NewBus()
	Handle(bus, func(context.Context, DeleteAddress) (Void, error) { return Void{}, nil })
	Handle(bus, func(context.Context, AddManufacturer) (int, error) { return 1, nil })

	names := bus.Names()
	if len(names) != 2 || names[0] != "AddManufacturer" || names[1] != "DeleteAddress" {
		t.Errorf("Names() = %v", names)
	}
}
