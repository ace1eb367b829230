package logs

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/brandadmin/internal/core"
)

func buildSQL(t *testing.T, f Filters) (string, []any) {
	t.Helper()
	repo := NewRepository(nil, "ps_")
	query, args, err := repo.GetAllWithEmployeeInformationQuery(f).ToSql()
	require.NoError(t, err)
	return query, args
}

func TestGetAllWithEmployeeInformationQuery_DateRange(t *testing.T) {
	t.Run("Should ignore date_from without date_to", func(t *testing.T) {
		query, args := buildSQL(t, Filters{Filters: map[string]string{KeyDateFrom: "2024-01-01"}})
		assert.NotContains(t, query, "BETWEEN")
		assert.Empty(t, args)
	})
	t.Run("Should ignore date_to without date_from", func(t *testing.T) {
		query, args := buildSQL(t, Filters{Filters: map[string]string{KeyDateFrom: "  ", KeyDateTo: "2024-02-01"}})
		assert.NotContains(t, query, "BETWEEN")
		assert.Empty(t, args)
	})
	t.Run("Should bind both ends when both are set", func(t *testing.T) {
		query, args := buildSQL(t, Filters{Filters: map[string]string{
			KeyDateFrom: "2024-01-01",
			KeyDateTo:   "2024-02-01",
		}})
		assert.Contains(t, query, "l.date_add BETWEEN $1 AND $2")
		assert.Equal(t, []any{"2024-01-01", "2024-02-01"}, args)
	})
}

func TestGetAllWithEmployeeInformationQuery_ScalarFilters(t *testing.T) {
	t.Run("Should drop blank values", func(t *testing.T) {
		query, args := buildSQL(t, Filters{Filters: map[string]string{
			"message":     "",
			"object_type": "   ",
			"severity":    "",
		}})
		assert.NotContains(t, query, "WHERE")
		assert.Empty(t, args)
	})
	t.Run("Should treat zero as empty", func(t *testing.T) {
		query, args := buildSQL(t, Filters{Filters: map[string]string{
			"severity":  "0",
			"object_id": " 0 ",
			KeyDateFrom: "0",
			KeyDateTo:   "2024-02-01",
		}})
		assert.NotContains(t, query, "WHERE")
		assert.Empty(t, args)
	})
	t.Run("Should keep values that merely contain zero", func(t *testing.T) {
		query, args := buildSQL(t, Filters{Filters: map[string]string{"error_code": "10"}})
		assert.Contains(t, query, "l.error_code::text ILIKE $1")
		assert.Equal(t, []any{"%10%"}, args)
	})
	t.Run("Should add exactly one bound predicate per non-blank column", func(t *testing.T) {
		query, args := buildSQL(t, Filters{Filters: map[string]string{
			"message":  "Manufacturer addition",
			"severity": "1",
			"id_lang":  "",
		}})
		assert.Equal(t, 1, strings.Count(query, "l.message ILIKE"))
		assert.Equal(t, 1, strings.Count(query, "l.severity::text ILIKE"))
		assert.NotContains(t, query, "id_lang ILIKE")
		assert.NotContains(t, query, "Manufacturer addition")
		assert.Equal(t, []any{"%1%", "%Manufacturer addition%"}, args)
	})
	t.Run("Should ignore keys outside the allow-list", func(t *testing.T) {
		query, args := buildSQL(t, Filters{Filters: map[string]string{
			"1=1) OR (1": "x",
			"password":   "secret",
		}})
		assert.NotContains(t, query, "1=1")
		assert.NotContains(t, query, "password")
		assert.Empty(t, args)
	})
	t.Run("Should never concatenate values into the query", func(t *testing.T) {
		query, args := buildSQL(t, Filters{Filters: map[string]string{"message": "'; DROP TABLE ps_log; --"}})
		assert.NotContains(t, query, "DROP TABLE")
		assert.Equal(t, []any{"%'; DROP TABLE ps_log; --%"}, args)
	})
}

func TestGetAllWithEmployeeInformationQuery_Employee(t *testing.T) {
	query, args := buildSQL(t, Filters{Filters: map[string]string{KeyEmployee: "Doe"}})
	assert.Contains(t, query, "(e.lastname ILIKE $1 OR e.firstname ILIKE $2)")
	assert.Equal(t, []any{"%Doe%", "%Doe%"}, args)
	assert.NotContains(t, query, "l.employee")
}

func TestGetAllWithEmployeeInformationQuery_Shape(t *testing.T) {
	query, _ := buildSQL(t, Filters{OrderBy: "employee", SortOrder: "asc", Offset: 20, Limit: 10})

	assert.Contains(t, query, "FROM ps_log l INNER JOIN ps_employee e ON l.id_employee = e.id_employee")
	assert.Contains(t, query, "CONCAT(e.firstname, ' ', e.lastname) AS employee")
	assert.Contains(t, query, "ORDER BY employee ASC")
	assert.Contains(t, query, "LIMIT 10")
	assert.Contains(t, query, "OFFSET 20")
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		orderBy, sortOrder, want string
	}{
		{"date_add", "asc", "l.date_add ASC"},
		{"severity", "desc", "l.severity DESC"},
		{"employee", "", "employee DESC"},
		{"e.password", "asc", "l.date_add DESC"},
		{"", "", "l.date_add DESC"},
		{"message", "ASC; DROP", "l.message DESC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, orderClause(tt.orderBy, tt.sortOrder), "orderClause(%q, %q)", tt.orderBy, tt.sortOrder)
	}
}

func TestFindAllWithEmployeeInformationQuery_Literal(t *testing.T) {
	repo := NewRepository(nil, "shop_")
	got := repo.FindAllWithEmployeeInformationQuery(Filters{Filters: map[string]string{
		"message":   "brand",
		KeyDateFrom: "2024-01-01",
		KeyDateTo:   "2024-01-31",
	}, Limit: 5})

	assert.Contains(t, got, "FROM shop_log l INNER JOIN shop_employee e")
	assert.Contains(t, got, "l.message ILIKE '%brand%'")
	assert.Contains(t, got, "l.date_add BETWEEN '2024-01-01' AND '2024-01-31'")
	assert.NotContains(t, got, "$1")
	assert.NotContains(t, got, "?")
}

func TestRepository_FindAllWithEmployeeInformation(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepository(mockPool, "ps_")
	added := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM ps_log l INNER JOIN ps_employee e ON l.id_employee = e.id_employee WHERE l.object_type ILIKE $1")).
		WithArgs("%Manufacturer%").
		WillReturnRows(mockPool.NewRows(append(append([]string{}, logColumns...), "email", "employee")).
			AddRow(1, 1, 0, "Manufacturer addition", "Manufacturer", 4, 1, nil, nil, nil, false, added, nil, "jd@example.com", "John Doe"))

	entries, err := repo.FindAllWithEmployeeInformation(context.Background(), Filters{
		Filters: map[string]string{"object_type": "Manufacturer"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "John Doe", entries[0].Employee)
	assert.Equal(t, "Manufacturer addition", entries[0].Message)
	assert.Equal(t, 4, entries[0].ObjectID)
	assert.Equal(t, added, entries[0].DateAdd)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepository_FindAll(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM ps_log l")).
		WillReturnRows(mockPool.NewRows(logColumns).
			AddRow(9, 3, 12, "Address deletion", "Address", 2, 1, nil, nil, nil, false, time.Now(), nil))

	entries, err := NewRepository(mockPool, "ps_").FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 9, entries[0].ID)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepository_Count(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM ps_log l INNER JOIN ps_employee e")).
		WithArgs("%Doe%", "%Doe%").
		WillReturnRows(mockPool.NewRows([]string{"count"}).AddRow(3))

	n, err := NewRepository(mockPool, "ps_").Count(context.Background(), Filters{
		Filters: map[string]string{KeyEmployee: "Doe"},
		Limit:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepository_DeleteAll(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectExec(regexp.QuoteMeta("TRUNCATE TABLE ps_log RESTART IDENTITY CASCADE")).
		WillReturnResult(pgxmock.NewResult("TRUNCATE TABLE", 0))

	_, err = NewRepository(mockPool, "ps_").DeleteAll(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRecorder_Record(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	rec := NewRecorder(mockPool, "ps_")
	rec.now = func() time.Time { return now }

	ctx := core.ContextWithEmployeeID(context.Background(), 3)
	ctx = core.ContextWithLanguageID(ctx, 2)

	mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO ps_log")).
		WithArgs(SeverityInformative, 0, "Manufacturer deletion", "Manufacturer", 12, 3, 2, false, now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = rec.Record(ctx, Activity{Message: "Manufacturer deletion", ObjectType: "Manufacturer", ObjectID: 12})
	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

type fakePurger struct {
	cutoff time.Time
	n      int64
}

func (f *fakePurger) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.n, nil
}

func TestRunRetention(t *testing.T) {
	p := &fakePurger{n: 4}
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	got := runRetention(context.Background(), p, 30, func() time.Time { return now })

	assert.Equal(t, int64(4), got)
	assert.Equal(t, time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), p.cutoff)
}

func TestStartRetention_Disabled(t *testing.T) {
	p := &fakePurger{}
	StartRetention(context.Background(), p, RetentionConfig{RetentionDays: 0})
	assert.True(t, p.cutoff.IsZero(), "disabled retention must not purge")
}
