// Package core holds the vocabulary shared by the brand admin: the commands
// and queries dispatched by the HTTP actions, the projections they return,
// tagged domain errors and the tables that turn errors into messages.
//
// # Dispatching
//
// Actions never touch storage directly. They build a [Message] and hand it to
// a [Dispatcher]; the [Bus] routes it to exactly one registered handler:
//
//	bus := core.NewBus()
//	core.Handle(bus, catalog.GetManufacturerForEditing)
//	m, err := core.Ask[core.EditableManufacturer](ctx, bus,
//	    core.GetManufacturerForEditing{ManufacturerID: 42})
//
// # Errors
//
// Domain failures are *[Error] values tagged with a [Kind] and an optional
// sub-code. Anything else is an infrastructure failure. [MessageTable.Resolve]
// renders both: domain failures through the brand table, infrastructure
// failures through the support-code pattern table ([MapError]).
package core
