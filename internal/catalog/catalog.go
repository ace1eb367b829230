// Package catalog implements the brand and brand address commands and
// queries against Postgres, the brand and address grids, and the logo store.
package catalog

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/JonMunkholm/brandadmin/internal/core"
	"github.com/JonMunkholm/brandadmin/internal/logs"
)

type tables struct {
	manufacturer     string
	manufacturerLang string
	address          string
	country          string
	countryLang      string
	state            string
	product          string
	productLang      string
	stockAvailable   string
}

func newTables(prefix string) tables {
	return tables{
		manufacturer:     prefix + "manufacturer",
		manufacturerLang: prefix + "manufacturer_lang",
		address:          prefix + "address",
		country:          prefix + "country",
		countryLang:      prefix + "country_lang",
		state:            prefix + "state",
		product:          prefix + "product",
		productLang:      prefix + "product_lang",
		stockAvailable:   prefix + "stock_available",
	}
}

// psql is the statement builder shared by every query in the package.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store handles every brand and address message.
type Store struct {
	db       core.DB
	t        tables
	logos    *LogoStore
	recorder *logs.Recorder
	policy   BulkPolicy
	images   *ImageLimiter
	now      func() time.Time
}

// Options configures a Store.
type Options struct {
	TablePrefix string
	BulkPolicy  BulkPolicy
	// MaxConcurrentImages and MaxImageWait bound logo processing.
	MaxConcurrentImages int
	MaxImageWait        time.Duration
}

// NewStore returns a Store over db.
func NewStore(db core.DB, logos *LogoStore, recorder *logs.Recorder, opts Options) *Store {
	policy := opts.BulkPolicy
	if policy == "" {
		policy = BulkAtomic
	}
	return &Store{
		db:       db,
		t:        newTables(opts.TablePrefix),
		logos:    logos,
		recorder: recorder,
		policy:   policy,
		images:   NewImageLimiter(opts.MaxConcurrentImages, opts.MaxImageWait),
		now:      time.Now,
	}
}

// WaitForImages blocks until the logos being processed are written.
func (s *Store) WaitForImages(ctx context.Context) error {
	return s.images.WaitForDrain(ctx)
}

// Register wires every handler onto bus.
func (s *Store) Register(bus *core.Bus) {
	core.Handle(bus, s.GetManufacturerForEditing)
	core.Handle(bus, s.GetManufacturerForViewing)
	core.Handle(bus, s.AddManufacturer)
	core.Handle(bus, s.EditManufacturer)
	core.Handle(bus, s.DeleteManufacturer)
	core.Handle(bus, s.BulkDeleteManufacturer)
	core.Handle(bus, s.ToggleManufacturerStatus)
	core.Handle(bus, s.BulkToggleManufacturerStatus)
	core.Handle(bus, s.DeleteManufacturerLogoImage)
	core.Handle(bus, s.UploadManufacturerLogo)

	core.Handle(bus, s.GetManufacturerAddressForEditing)
	core.Handle(bus, s.AddManufacturerAddress)
	core.Handle(bus, s.EditManufacturerAddress)
	core.Handle(bus, s.DeleteAddress)
	core.Handle(bus, s.BulkDeleteAddress)
}

func (s *Store) record(ctx context.Context, db core.DBTX, message, objectType string, id int) error {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.WithDB(db).Record(ctx, logs.Activity{
		Severity:   logs.SeverityInformative,
		Message:    message,
		ObjectType: objectType,
		ObjectID:   id,
	})
}
