// Package logs reads and writes the back-office activity log: the log table
// joined with the employee who triggered each entry.
package logs

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/JonMunkholm/brandadmin/internal/core"
	"github.com/JonMunkholm/brandadmin/internal/grid"
)

// Column is a log column that may be filtered with a substring match.
type Column string

const (
	ColumnID         Column = "id_log"
	ColumnSeverity   Column = "severity"
	ColumnMessage    Column = "message"
	ColumnObjectType Column = "object_type"
	ColumnObjectID   Column = "object_id"
	ColumnErrorCode  Column = "error_code"
	ColumnShopID     Column = "id_shop"
	ColumnLanguageID Column = "id_lang"
)

// scalarColumns is the allow-list of filter keys interpolated as identifiers,
// in predicate order. Numeric columns are cast so ILIKE applies.
var scalarColumns = []struct {
	col     Column
	numeric bool
}{
	{ColumnID, true},
	{ColumnSeverity, true},
	{ColumnMessage, false},
	{ColumnObjectType, false},
	{ColumnObjectID, true},
	{ColumnErrorCode, true},
	{ColumnShopID, true},
	{ColumnLanguageID, true},
}

// Filter keys handled outside the scalar loop.
const (
	KeyDateFrom = "date_from"
	KeyDateTo   = "date_to"
	KeyEmployee = "employee"
)

// Filters is the log screen's search state.
type Filters struct {
	Filters   map[string]string
	OrderBy   string
	SortOrder string
	Offset    int
	Limit     int
}

// FiltersFromGrid converts persisted grid filters.
func FiltersFromGrid(f grid.Filters) Filters {
	return Filters{
		Filters:   f.Filters,
		OrderBy:   f.OrderBy,
		SortOrder: f.SortOrder,
		Offset:    f.Offset,
		Limit:     f.Limit,
	}
}

// Entry is one row of the log table.
type Entry struct {
	ID          int        `db:"id_log"`
	Severity    int        `db:"severity"`
	ErrorCode   int        `db:"error_code"`
	Message     string     `db:"message"`
	ObjectType  string     `db:"object_type"`
	ObjectID    int        `db:"object_id"`
	EmployeeID  int        `db:"id_employee"`
	ShopID      *int       `db:"id_shop"`
	ShopGroupID *int       `db:"id_shop_group"`
	LanguageID  *int       `db:"id_lang"`
	InAllShops  bool       `db:"in_all_shops"`
	DateAdd     time.Time  `db:"date_add"`
	DateUpd     *time.Time `db:"date_upd"`
}

// EmployeeEntry is a log row with the employee's email and full name.
type EmployeeEntry struct {
	Entry
	Email    string `db:"email"`
	Employee string `db:"employee"`
}

var logColumns = []string{
	"id_log", "severity", "error_code", "message", "object_type", "object_id",
	"id_employee", "id_shop", "id_shop_group", "id_lang", "in_all_shops", "date_add", "date_upd",
}

// Repository queries the log table. Table names carry the configured prefix.
type Repository struct {
	db            core.DBTX
	logTable      string
	employeeTable string
}

// NewRepository returns a repository over <prefix>log and <prefix>employee.
func NewRepository(db core.DBTX, prefix string) *Repository {
	return &Repository{
		db:            db,
		logTable:      prefix + "log",
		employeeTable: prefix + "employee",
	}
}

// FindAll returns every log row, unjoined.
func (r *Repository) FindAll(ctx context.Context) ([]Entry, error) {
	query, args, err := sq.Select(qualify("l", logColumns)...).
		From(r.logTable + " l").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find all query: %w", err)
	}

	var entries []Entry
	if err := pgxscan.Select(ctx, r.db, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("find all logs: %w", err)
	}
	return entries, nil
}

// GetAllWithEmployeeInformationQuery builds the filtered, sorted, paginated
// join. Blank values are dropped, dates apply only as a pair, and only
// allow-listed columns become predicates; values are always bound.
func (r *Repository) GetAllWithEmployeeInformationQuery(f Filters) sq.SelectBuilder {
	columns := append(qualify("l", logColumns), "e.email", "CONCAT(e.firstname, ' ', e.lastname) AS employee")

	qb := r.filtered(sq.Select(columns...), f).
		OrderBy(orderClause(f.OrderBy, f.SortOrder))

	if f.Offset > 0 {
		qb = qb.Offset(uint64(f.Offset))
	}
	if f.Limit > 0 {
		qb = qb.Limit(uint64(f.Limit))
	}
	return qb
}

func (r *Repository) filtered(qb sq.SelectBuilder, f Filters) sq.SelectBuilder {
	wheres := nonBlank(f.Filters)

	qb = qb.From(r.logTable + " l").
		InnerJoin(r.employeeTable + " e ON l.id_employee = e.id_employee").
		PlaceholderFormat(sq.Dollar)

	for _, sc := range scalarColumns {
		v, ok := wheres[string(sc.col)]
		if !ok {
			continue
		}
		expr := "l." + string(sc.col)
		if sc.numeric {
			expr += "::text"
		}
		qb = qb.Where(sq.ILike{expr: "%" + v + "%"})
	}

	from, hasFrom := wheres[KeyDateFrom]
	to, hasTo := wheres[KeyDateTo]
	if hasFrom && hasTo {
		qb = qb.Where(sq.Expr("l.date_add BETWEEN ? AND ?", from, to))
	}

	if emp, ok := wheres[KeyEmployee]; ok {
		pattern := "%" + emp + "%"
		qb = qb.Where(sq.Or{
			sq.ILike{"e.lastname": pattern},
			sq.ILike{"e.firstname": pattern},
		})
	}

	return qb
}

// FindAllWithEmployeeInformation runs the joined query.
func (r *Repository) FindAllWithEmployeeInformation(ctx context.Context, f Filters) ([]EmployeeEntry, error) {
	query, args, err := r.GetAllWithEmployeeInformationQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build log query: %w", err)
	}

	var entries []EmployeeEntry
	if err := pgxscan.Select(ctx, r.db, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("find logs: %w", err)
	}
	return entries, nil
}

// FindAllWithEmployeeInformationQuery renders the joined query with values
// inlined. Values are not escaped; the result is for display only and must
// never be executed.
func (r *Repository) FindAllWithEmployeeInformationQuery(f Filters) string {
	return sq.DebugSqlizer(r.GetAllWithEmployeeInformationQuery(f).PlaceholderFormat(sq.Question))
}

// Count returns how many rows match f, ignoring pagination.
func (r *Repository) Count(ctx context.Context, f Filters) (int, error) {
	query, args, err := r.filtered(sq.Select("COUNT(*)"), f).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build log count: %w", err)
	}

	var n int
	if err := pgxscan.Get(ctx, r.db, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count logs: %w", err)
	}
	return n, nil
}

// DeleteAll truncates the log table.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, "TRUNCATE TABLE "+r.logTable+" RESTART IDENTITY CASCADE")
	if err != nil {
		return 0, fmt.Errorf("truncate %s: %w", r.logTable, err)
	}
	return tag.RowsAffected(), nil
}

// DeleteOlderThan removes entries added before cutoff.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := sq.Delete(r.logTable).
		Where(sq.Lt{"date_add": cutoff}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build log purge: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge logs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// nonBlank keeps the filters that carry a value. "0" counts as empty, so a
// zero severity or id never narrows the log.
func nonBlank(filters map[string]string) map[string]string {
	out := make(map[string]string, len(filters))
	for k, v := range filters {
		if v := strings.TrimSpace(v); v == "" || v == "0" {
			continue
		}
		out[k] = v
	}
	return out
}

// orderClause maps a requested sort onto an allow-listed expression.
func orderClause(orderBy, sortOrder string) string {
	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}

	switch orderBy {
	case KeyEmployee:
		return "employee " + dir
	case "date_add":
		return "l.date_add " + dir
	}
	for _, sc := range scalarColumns {
		if string(sc.col) == orderBy {
			return "l." + orderBy + " " + dir
		}
	}
	return "l.date_add DESC"
}

func qualify(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}
