package catalog

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/brandadmin/internal/core"
	"github.com/JonMunkholm/brandadmin/internal/logging"
)

const objectManufacturer = "Manufacturer"

type manufacturerRow struct {
	ID               int    `db:"id_manufacturer"`
	Name             string `db:"name"`
	Active           bool   `db:"active"`
	ShortDescription string `db:"short_description"`
	Description      string `db:"description"`
	MetaTitle        string `db:"meta_title"`
	MetaDescription  string `db:"meta_description"`
	MetaKeywords     string `db:"meta_keywords"`
}

func manufacturerNotFound(id int) error {
	return core.NewError(core.KindManufacturerNotFound, 0, "brand with id %d was not found", id)
}

func languageOf(ctx context.Context, id int) int {
	if id > 0 {
		return id
	}
	return core.GetLanguageIDFromContext(ctx)
}

// GetManufacturerForEditing loads a brand and its content in the requested
// language, or the context language.
func (s *Store) GetManufacturerForEditing(ctx context.Context, q core.GetManufacturerForEditing) (core.EditableManufacturer, error) {
	lang := core.GetLanguageIDFromContext(ctx)
	query, args, err := psql.
		Select(
			"m.id_manufacturer", "m.name", "m.active",
			"COALESCE(ml.short_description, '') AS short_description",
			"COALESCE(ml.description, '') AS description",
			"COALESCE(ml.meta_title, '') AS meta_title",
			"COALESCE(ml.meta_description, '') AS meta_description",
			"COALESCE(ml.meta_keywords, '') AS meta_keywords",
		).
		From(s.t.manufacturer+" m").
		LeftJoin(s.t.manufacturerLang+" ml ON ml.id_manufacturer = m.id_manufacturer AND ml.id_lang = ?", lang).
		Where(sq.Eq{"m.id_manufacturer": q.ManufacturerID}).
		ToSql()
	if err != nil {
		return core.EditableManufacturer{}, fmt.Errorf("build brand query: %w", err)
	}

	var row manufacturerRow
	if err := pgxscan.Get(ctx, s.db, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return core.EditableManufacturer{}, manufacturerNotFound(q.ManufacturerID)
		}
		return core.EditableManufacturer{}, fmt.Errorf("get brand %d: %w", q.ManufacturerID, err)
	}

	out := core.EditableManufacturer{
		ManufacturerID: row.ID,
		ManufacturerInput: core.ManufacturerInput{
			Name:             row.Name,
			ShortDescription: row.ShortDescription,
			Description:      row.Description,
			MetaTitle:        row.MetaTitle,
			MetaDescription:  row.MetaDescription,
			MetaKeywords:     row.MetaKeywords,
			Enabled:          row.Active,
			LanguageID:       lang,
		},
	}
	if s.logos != nil {
		out.Logo = s.logos.Info(row.ID)
	}
	return out, nil
}

type addressSummaryRow struct {
	ID          int    `db:"id_address"`
	FirstName   string `db:"firstname"`
	LastName    string `db:"lastname"`
	Address     string `db:"address1"`
	Address2    string `db:"address2"`
	PostCode    string `db:"postcode"`
	City        string `db:"city"`
	State       string `db:"state"`
	Country     string `db:"country"`
	HomePhone   string `db:"phone"`
	MobilePhone string `db:"phone_mobile"`
	Other       string `db:"other"`
}

type productSummaryRow struct {
	ProductID int    `db:"id_product"`
	Name      string `db:"name"`
	Reference string `db:"reference"`
	EAN13     string `db:"ean13"`
	UPC       string `db:"upc"`
	Quantity  int    `db:"quantity"`
}

// GetManufacturerForViewing loads a brand with its live addresses and its
// products. Addresses and products are fetched concurrently.
func (s *Store) GetManufacturerForViewing(ctx context.Context, q core.GetManufacturerForViewing) (core.ViewableManufacturer, error) {
	lang := languageOf(ctx, q.LanguageID)

	var name string
	nameQuery, nameArgs, err := psql.Select("name").
		From(s.t.manufacturer).
		Where(sq.Eq{"id_manufacturer": q.ManufacturerID}).
		ToSql()
	if err != nil {
		return core.ViewableManufacturer{}, fmt.Errorf("build brand query: %w", err)
	}
	if err := s.db.QueryRow(ctx, nameQuery, nameArgs...).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ViewableManufacturer{}, manufacturerNotFound(q.ManufacturerID)
		}
		return core.ViewableManufacturer{}, fmt.Errorf("get brand %d: %w", q.ManufacturerID, err)
	}

	var (
		addresses []addressSummaryRow
		products  []productSummaryRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query, args, err := psql.
			Select(
				"a.id_address", "a.firstname", "a.lastname", "a.address1",
				"COALESCE(a.address2, '') AS address2", "COALESCE(a.postcode, '') AS postcode", "a.city",
				"COALESCE(st.name, '') AS state", "COALESCE(cl.name, '') AS country",
				"COALESCE(a.phone, '') AS phone", "COALESCE(a.phone_mobile, '') AS phone_mobile",
				"COALESCE(a.other, '') AS other",
			).
			From(s.t.address+" a").
			LeftJoin(s.t.countryLang+" cl ON cl.id_country = a.id_country AND cl.id_lang = ?", lang).
			LeftJoin(s.t.state + " st ON st.id_state = a.id_state").
			Where(sq.Eq{"a.id_manufacturer": q.ManufacturerID, "a.deleted": false}).
			OrderBy("a.id_address").
			ToSql()
		if err != nil {
			return fmt.Errorf("build address query: %w", err)
		}
		if err := pgxscan.Select(gctx, s.db, &addresses, query, args...); err != nil {
			return fmt.Errorf("list addresses of brand %d: %w", q.ManufacturerID, err)
		}
		return nil
	})
	g.Go(func() error {
		query, args, err := psql.
			Select(
				"p.id_product", "COALESCE(pl.name, '') AS name",
				"COALESCE(p.reference, '') AS reference", "COALESCE(p.ean13, '') AS ean13",
				"COALESCE(p.upc, '') AS upc", "COALESCE(sa.quantity, 0) AS quantity",
			).
			From(s.t.product+" p").
			LeftJoin(s.t.productLang+" pl ON pl.id_product = p.id_product AND pl.id_lang = ?", lang).
			LeftJoin(s.t.stockAvailable + " sa ON sa.id_product = p.id_product AND sa.id_product_attribute = 0").
			Where(sq.Eq{"p.id_manufacturer": q.ManufacturerID}).
			OrderBy("p.id_product").
			ToSql()
		if err != nil {
			return fmt.Errorf("build product query: %w", err)
		}
		if err := pgxscan.Select(gctx, s.db, &products, query, args...); err != nil {
			return fmt.Errorf("list products of brand %d: %w", q.ManufacturerID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.ViewableManufacturer{}, err
	}

	out := core.ViewableManufacturer{
		ManufacturerID: q.ManufacturerID,
		Name:           name,
		Addresses:      make([]core.AddressSummary, 0, len(addresses)),
		Products:       make([]core.ProductSummary, 0, len(products)),
	}
	for _, a := range addresses {
		out.Addresses = append(out.Addresses, core.AddressSummary{
			AddressID:   a.ID,
			FullName:    a.FirstName + " " + a.LastName,
			Address:     a.Address,
			Address2:    a.Address2,
			PostCode:    a.PostCode,
			City:        a.City,
			State:       a.State,
			Country:     a.Country,
			HomePhone:   a.HomePhone,
			MobilePhone: a.MobilePhone,
			Other:       a.Other,
		})
	}
	for _, p := range products {
		out.Products = append(out.Products, core.ProductSummary(p))
	}
	return out, nil
}

// AddManufacturer inserts a brand and its content, returning the new id.
func (s *Store) AddManufacturer(ctx context.Context, cmd core.AddManufacturer) (int, error) {
	if err := validateManufacturer(cmd.ManufacturerInput); err != nil {
		return 0, err
	}
	lang := languageOf(ctx, cmd.LanguageID)
	now := s.now()

	var id int
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		query, args, err := psql.Insert(s.t.manufacturer).
			Columns("name", "active", "date_add", "date_upd").
			Values(cmd.Name, cmd.Enabled, now, now).
			Suffix("RETURNING id_manufacturer").
			ToSql()
		if err != nil {
			return fmt.Errorf("build brand insert: %w", err)
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
			return fmt.Errorf("insert brand: %w", err)
		}
		if err := s.upsertManufacturerLang(ctx, tx, id, lang, cmd.ManufacturerInput); err != nil {
			return err
		}
		return s.record(ctx, tx, "Manufacturer addition", objectManufacturer, id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// EditManufacturer replaces a brand's name, status and content in one
// language.
func (s *Store) EditManufacturer(ctx context.Context, cmd core.EditManufacturer) (core.Void, error) {
	if cmd.ManufacturerID <= 0 {
		return core.Void{}, core.NewError(core.KindManufacturerConstraint, core.CodeInvalidID, "brand id must be positive, got %d", cmd.ManufacturerID)
	}
	if err := validateManufacturer(cmd.ManufacturerInput); err != nil {
		return core.Void{}, err
	}
	lang := languageOf(ctx, cmd.LanguageID)

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		query, args, err := psql.Update(s.t.manufacturer).
			Set("name", cmd.Name).
			Set("active", cmd.Enabled).
			Set("date_upd", s.now()).
			Where(sq.Eq{"id_manufacturer": cmd.ManufacturerID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build brand update: %w", err)
		}
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update brand %d: %w", cmd.ManufacturerID, err)
		}
		if tag.RowsAffected() == 0 {
			return manufacturerNotFound(cmd.ManufacturerID)
		}
		if err := s.upsertManufacturerLang(ctx, tx, cmd.ManufacturerID, lang, cmd.ManufacturerInput); err != nil {
			return err
		}
		return s.record(ctx, tx, "Manufacturer modification", objectManufacturer, cmd.ManufacturerID)
	})
	return core.Void{}, err
}

func (s *Store) upsertManufacturerLang(ctx context.Context, tx pgx.Tx, id, lang int, in core.ManufacturerInput) error {
	query, args, err := psql.Insert(s.t.manufacturerLang).
		Columns("id_manufacturer", "id_lang", "short_description", "description",
			"meta_title", "meta_description", "meta_keywords").
		Values(id, lang, in.ShortDescription, in.Description,
			in.MetaTitle, in.MetaDescription, in.MetaKeywords).
		Suffix(`ON CONFLICT (id_manufacturer, id_lang) DO UPDATE SET
			short_description = EXCLUDED.short_description,
			description = EXCLUDED.description,
			meta_title = EXCLUDED.meta_title,
			meta_description = EXCLUDED.meta_description,
			meta_keywords = EXCLUDED.meta_keywords`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build brand content upsert: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save brand %d content: %w", id, err)
	}
	return nil
}

func (s *Store) deleteManufacturer(ctx context.Context, tx pgx.Tx, id int) error {
	query, args, err := psql.Delete(s.t.manufacturer).
		Where(sq.Eq{"id_manufacturer": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build brand delete: %w", err)
	}
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete brand %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return manufacturerNotFound(id)
	}
	return s.record(ctx, tx, "Manufacturer deletion", objectManufacturer, id)
}

// removeLogos deletes the image files of brands that no longer exist. The
// rows are already gone, so a failure is only logged.
func (s *Store) removeLogos(ctx context.Context, ids []int) {
	if s.logos == nil {
		return
	}
	for _, id := range ids {
		if err := s.logos.Delete(id); err != nil {
			logging.ForObject(ctx, "Manufacturer", id).Warn("brand logo cleanup failed", "error", err)
		}
	}
}

// DeleteManufacturer removes a brand. Its content and addresses go with it;
// its products keep existing without a brand.
func (s *Store) DeleteManufacturer(ctx context.Context, cmd core.DeleteManufacturer) (core.Void, error) {
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return s.deleteManufacturer(ctx, tx, cmd.ManufacturerID)
	})
	if err != nil {
		if core.IsKind(err, core.KindManufacturerNotFound) {
			return core.Void{}, err
		}
		return core.Void{}, core.WrapError(core.KindDeleteManufacturer, core.CodeFailedDelete, err)
	}
	s.removeLogos(ctx, []int{cmd.ManufacturerID})
	return core.Void{}, nil
}

// BulkDeleteManufacturer removes every listed brand under the store's bulk
// policy.
func (s *Store) BulkDeleteManufacturer(ctx context.Context, cmd core.BulkDeleteManufacturer) (core.Void, error) {
	done, err := s.runBulk(ctx, cmd.ManufacturerIDs, core.KindDeleteManufacturer, core.CodeFailedBulkDelete, s.deleteManufacturer)
	s.removeLogos(ctx, done)
	return core.Void{}, err
}

func (s *Store) setManufacturerStatus(ctx context.Context, tx pgx.Tx, id int, enabled bool) error {
	query, args, err := psql.Update(s.t.manufacturer).
		Set("active", enabled).
		Set("date_upd", s.now()).
		Where(sq.Eq{"id_manufacturer": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build brand status update: %w", err)
	}
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update brand %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return manufacturerNotFound(id)
	}
	return s.record(ctx, tx, "Manufacturer status update", objectManufacturer, id)
}

// ToggleManufacturerStatus sets the brand's status to cmd.Enabled. The write
// is unconditional; concurrent toggles resolve to the last one applied.
func (s *Store) ToggleManufacturerStatus(ctx context.Context, cmd core.ToggleManufacturerStatus) (core.Void, error) {
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return s.setManufacturerStatus(ctx, tx, cmd.ManufacturerID, cmd.Enabled)
	})
	if err != nil {
		if core.IsKind(err, core.KindManufacturerNotFound) {
			return core.Void{}, err
		}
		return core.Void{}, core.WrapError(core.KindUpdateManufacturer, core.CodeFailedUpdateStatus, err)
	}
	return core.Void{}, nil
}

// BulkToggleManufacturerStatus sets every listed brand's status.
func (s *Store) BulkToggleManufacturerStatus(ctx context.Context, cmd core.BulkToggleManufacturerStatus) (core.Void, error) {
	_, err := s.runBulk(ctx, cmd.ManufacturerIDs, core.KindUpdateManufacturer, core.CodeFailedBulkUpdateStatus,
		func(ctx context.Context, tx pgx.Tx, id int) error {
			return s.setManufacturerStatus(ctx, tx, id, cmd.Enabled)
		})
	return core.Void{}, err
}

func (s *Store) manufacturerExists(ctx context.Context, db core.DBTX, id int) (bool, error) {
	query, args, err := psql.Select("1").
		Prefix("SELECT EXISTS (").
		From(s.t.manufacturer).
		Where(sq.Eq{"id_manufacturer": id}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build brand lookup: %w", err)
	}
	var ok bool
	if err := db.QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("look up brand %d: %w", id, err)
	}
	return ok, nil
}

// DeleteManufacturerLogoImage removes the logo and thumbnails of an existing
// brand.
func (s *Store) DeleteManufacturerLogoImage(ctx context.Context, cmd core.DeleteManufacturerLogoImage) (core.Void, error) {
	ok, err := s.manufacturerExists(ctx, s.db, cmd.ManufacturerID)
	if err != nil {
		return core.Void{}, err
	}
	if !ok {
		return core.Void{}, manufacturerNotFound(cmd.ManufacturerID)
	}
	return core.Void{}, s.logos.Delete(cmd.ManufacturerID)
}

// UploadManufacturerLogo validates and stores a logo for an existing brand.
func (s *Store) UploadManufacturerLogo(ctx context.Context, cmd core.UploadManufacturerLogo) (core.Void, error) {
	ok, err := s.manufacturerExists(ctx, s.db, cmd.ManufacturerID)
	if err != nil {
		return core.Void{}, err
	}
	if !ok {
		return core.Void{}, manufacturerNotFound(cmd.ManufacturerID)
	}
	if err := s.images.Acquire(ctx); err != nil {
		return core.Void{}, err
	}
	defer s.images.Release()
	return core.Void{}, s.logos.Save(cmd.ManufacturerID, cmd.Data)
}
