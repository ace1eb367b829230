package catalog

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/brandadmin/internal/core"
)

const (
	objectAddress = "Address"
	// addressAlias marks addresses owned by a brand rather than a customer.
	addressAlias = "manufacturer"
)

type addressRow struct {
	ID             int    `db:"id_address"`
	ManufacturerID int    `db:"id_manufacturer"`
	LastName       string `db:"lastname"`
	FirstName      string `db:"firstname"`
	Address        string `db:"address1"`
	Address2       string `db:"address2"`
	PostCode       string `db:"postcode"`
	City           string `db:"city"`
	CountryID      int    `db:"id_country"`
	StateID        int    `db:"id_state"`
	HomePhone      string `db:"phone"`
	MobilePhone    string `db:"phone_mobile"`
	Other          string `db:"other"`
	DNI            string `db:"dni"`
}

func addressNotFound(id int) error {
	return core.NewError(core.KindAddressNotFound, 0, "address with id %d was not found", id)
}

// GetManufacturerAddressForEditing loads a live brand address.
func (s *Store) GetManufacturerAddressForEditing(ctx context.Context, q core.GetManufacturerAddressForEditing) (core.EditableManufacturerAddress, error) {
	query, args, err := psql.
		Select(
			"id_address", "COALESCE(id_manufacturer, 0) AS id_manufacturer",
			"lastname", "firstname", "address1", "COALESCE(address2, '') AS address2",
			"COALESCE(postcode, '') AS postcode", "city", "id_country",
			"COALESCE(id_state, 0) AS id_state", "COALESCE(phone, '') AS phone",
			"COALESCE(phone_mobile, '') AS phone_mobile", "COALESCE(other, '') AS other",
			"COALESCE(dni, '') AS dni",
		).
		From(s.t.address).
		Where(sq.Eq{"id_address": q.AddressID, "deleted": false}).
		ToSql()
	if err != nil {
		return core.EditableManufacturerAddress{}, fmt.Errorf("build address query: %w", err)
	}

	var row addressRow
	if err := pgxscan.Get(ctx, s.db, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return core.EditableManufacturerAddress{}, addressNotFound(q.AddressID)
		}
		return core.EditableManufacturerAddress{}, fmt.Errorf("get address %d: %w", q.AddressID, err)
	}

	return core.EditableManufacturerAddress{
		AddressID: row.ID,
		AddressInput: core.AddressInput{
			ManufacturerID: row.ManufacturerID,
			LastName:       row.LastName,
			FirstName:      row.FirstName,
			Address:        row.Address,
			Address2:       row.Address2,
			PostCode:       row.PostCode,
			City:           row.City,
			CountryID:      row.CountryID,
			StateID:        row.StateID,
			HomePhone:      row.HomePhone,
			MobilePhone:    row.MobilePhone,
			Other:          row.Other,
			DNI:            row.DNI,
		},
	}, nil
}

// checkAddressReferences verifies the brand, country and state an address
// points at.
func (s *Store) checkAddressReferences(ctx context.Context, db core.DBTX, in core.AddressInput) error {
	ok, err := s.manufacturerExists(ctx, db, in.ManufacturerID)
	if err != nil {
		return err
	}
	if !ok {
		return core.NewError(core.KindManufacturerConstraint, core.CodeInvalidID, "brand with id %d does not exist", in.ManufacturerID)
	}

	countryQuery := psql.Select("1").From(s.t.country).Where(sq.Eq{"id_country": in.CountryID})
	if in.StateID > 0 {
		countryQuery = psql.Select("1").
			From(s.t.country + " c").
			Join(s.t.state + " st ON st.id_country = c.id_country").
			Where(sq.Eq{"c.id_country": in.CountryID, "st.id_state": in.StateID})
	}
	query, args, err := countryQuery.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return fmt.Errorf("build country lookup: %w", err)
	}
	var found bool
	if err := db.QueryRow(ctx, query, args...).Scan(&found); err != nil {
		return fmt.Errorf("look up country %d: %w", in.CountryID, err)
	}
	if !found {
		return core.NewError(core.KindAddressConstraint, 0, "country %d with state %d does not exist", in.CountryID, in.StateID)
	}
	return nil
}

func nullableID(id int) any {
	if id <= 0 {
		return nil
	}
	return id
}

// AddManufacturerAddress inserts an address for an existing brand and
// returns its id.
func (s *Store) AddManufacturerAddress(ctx context.Context, cmd core.AddManufacturerAddress) (int, error) {
	in := cmd.AddressInput
	if err := validateAddress(in); err != nil {
		return 0, err
	}
	now := s.now()

	var id int
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.checkAddressReferences(ctx, tx, in); err != nil {
			return err
		}
		query, args, err := psql.Insert(s.t.address).
			Columns("id_manufacturer", "id_country", "id_state", "alias", "lastname", "firstname",
				"address1", "address2", "postcode", "city", "phone", "phone_mobile", "other", "dni",
				"deleted", "date_add", "date_upd").
			Values(in.ManufacturerID, in.CountryID, nullableID(in.StateID), addressAlias, in.LastName, in.FirstName,
				in.Address, in.Address2, in.PostCode, in.City, in.HomePhone, in.MobilePhone, in.Other, in.DNI,
				false, now, now).
			Suffix("RETURNING id_address").
			ToSql()
		if err != nil {
			return fmt.Errorf("build address insert: %w", err)
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
			return fmt.Errorf("insert address: %w", err)
		}
		return s.record(ctx, tx, "Address addition", objectAddress, id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// EditManufacturerAddress replaces every field of a live address.
func (s *Store) EditManufacturerAddress(ctx context.Context, cmd core.EditManufacturerAddress) (core.Void, error) {
	in := cmd.AddressInput
	if err := validateAddress(in); err != nil {
		return core.Void{}, err
	}

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.checkAddressReferences(ctx, tx, in); err != nil {
			return err
		}
		query, args, err := psql.Update(s.t.address).
			SetMap(map[string]any{
				"id_manufacturer": in.ManufacturerID,
				"id_country":      in.CountryID,
				"id_state":        nullableID(in.StateID),
				"lastname":        in.LastName,
				"firstname":       in.FirstName,
				"address1":        in.Address,
				"address2":        in.Address2,
				"postcode":        in.PostCode,
				"city":            in.City,
				"phone":           in.HomePhone,
				"phone_mobile":    in.MobilePhone,
				"other":           in.Other,
				"dni":             in.DNI,
				"date_upd":        s.now(),
			}).
			Where(sq.Eq{"id_address": cmd.AddressID, "deleted": false}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build address update: %w", err)
		}
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update address %d: %w", cmd.AddressID, err)
		}
		if tag.RowsAffected() == 0 {
			return addressNotFound(cmd.AddressID)
		}
		return s.record(ctx, tx, "Address modification", objectAddress, cmd.AddressID)
	})
	return core.Void{}, err
}

// deleteAddress flags the address as deleted; the row is kept for orders
// that may still reference it.
func (s *Store) deleteAddress(ctx context.Context, tx pgx.Tx, id int) error {
	query, args, err := psql.Update(s.t.address).
		Set("deleted", true).
		Set("date_upd", s.now()).
		Where(sq.Eq{"id_address": id, "deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build address delete: %w", err)
	}
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete address %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return addressNotFound(id)
	}
	return s.record(ctx, tx, "Address deletion", objectAddress, id)
}

// DeleteAddress removes one brand address.
func (s *Store) DeleteAddress(ctx context.Context, cmd core.DeleteAddress) (core.Void, error) {
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return s.deleteAddress(ctx, tx, cmd.AddressID)
	})
	if err != nil {
		if core.IsKind(err, core.KindAddressNotFound) {
			return core.Void{}, err
		}
		return core.Void{}, core.WrapError(core.KindDeleteAddress, core.CodeFailedDelete, err)
	}
	return core.Void{}, nil
}

// BulkDeleteAddress removes every listed address under the store's bulk
// policy.
func (s *Store) BulkDeleteAddress(ctx context.Context, cmd core.BulkDeleteAddress) (core.Void, error) {
	_, err := s.runBulk(ctx, cmd.AddressIDs, core.KindDeleteAddress, core.CodeFailedBulkDelete, s.deleteAddress)
	return core.Void{}, err
}
