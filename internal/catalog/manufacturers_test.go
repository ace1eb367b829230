package catalog

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/brandadmin/internal/core"
	"github.com/JonMunkholm/brandadmin/internal/logs"
)

var fixedNow = time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)

const (
	deleteManufacturerSQL = "DELETE FROM ps_manufacturer WHERE id_manufacturer = $1"
	toggleManufacturerSQL = "UPDATE ps_manufacturer SET active = $1, date_upd = $2 WHERE id_manufacturer = $3"
)

func newTestStore(t *testing.T, policy BulkPolicy) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	s := NewStore(mockPool, nil, nil, Options{TablePrefix: "ps_", BulkPolicy: policy})
	s.now = func() time.Time { return fixedNow }
	return s, mockPool
}

func requireDomain(t *testing.T, err error, kind core.Kind, code int) {
	t.Helper()
	de, ok := core.AsDomain(err)
	require.True(t, ok, "expected a domain error, got %v", err)
	assert.Equal(t, kind, de.Kind)
	assert.Equal(t, code, de.Code)
}

func TestDeleteManufacturer(t *testing.T) {
	t.Run("Should report a missing brand as not found", func(t *testing.T) {
		s, mockPool := newTestStore(t, BulkAtomic)
		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(deleteManufacturerSQL)).
			WithArgs(42).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mockPool.ExpectRollback()

		_, err := s.DeleteManufacturer(context.Background(), core.DeleteManufacturer{ManufacturerID: 42})

		requireDomain(t, err, core.KindManufacturerNotFound, 0)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should wrap database failures as a failed delete", func(t *testing.T) {
		s, mockPool := newTestStore(t, BulkAtomic)
		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(deleteManufacturerSQL)).
			WithArgs(42).
			WillReturnError(errors.New("connection reset"))
		mockPool.ExpectRollback()

		_, err := s.DeleteManufacturer(context.Background(), core.DeleteManufacturer{ManufacturerID: 42})

		requireDomain(t, err, core.KindDeleteManufacturer, core.CodeFailedDelete)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should delete and record the activity", func(t *testing.T) {
		s, mockPool := newTestStore(t, BulkAtomic)
		rec := logs.NewRecorder(mockPool, "ps_")
		s.recorder = rec

		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(deleteManufacturerSQL)).
			WithArgs(42).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO ps_log")).
			WithArgs(logs.SeverityInformative, 0, "Manufacturer deletion", "Manufacturer", 42,
				0, 1, false, pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCommit()

		_, err := s.DeleteManufacturer(context.Background(), core.DeleteManufacturer{ManufacturerID: 42})

		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestBulkDeleteManufacturer_Atomic(t *testing.T) {
	t.Run("Should roll back everything when a duplicate id is already gone", func(t *testing.T) {
		s, mockPool := newTestStore(t, BulkAtomic)
		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(deleteManufacturerSQL)).WithArgs(3).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mockPool.ExpectExec(regexp.QuoteMeta(deleteManufacturerSQL)).WithArgs(7).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mockPool.ExpectExec(regexp.QuoteMeta(deleteManufacturerSQL)).WithArgs(7).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mockPool.ExpectRollback()

		_, err := s.BulkDeleteManufacturer(context.Background(), core.BulkDeleteManufacturer{
			ManufacturerIDs: []int{3, 7, 7, 99},
		})

		requireDomain(t, err, core.KindDeleteManufacturer, core.CodeFailedBulkDelete)
		assert.True(t, errors.Is(err, core.ErrManufacturerNotFound), "cause should stay in the chain")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should commit once when every id exists", func(t *testing.T) {
		s, mockPool := newTestStore(t, BulkAtomic)
		mockPool.ExpectBegin()
		for _, id := range []int{3, 7, 99} {
			mockPool.ExpectExec(regexp.QuoteMeta(deleteManufacturerSQL)).WithArgs(id).
				WillReturnResult(pgxmock.NewResult("DELETE", 1))
		}
		mockPool.ExpectCommit()

		_, err := s.BulkDeleteManufacturer(context.Background(), core.BulkDeleteManufacturer{
			ManufacturerIDs: []int{3, 7, 99},
		})

		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestBulkDeleteManufacturer_BestEffort(t *testing.T) {
	s, mockPool := newTestStore(t, BulkBestEffort)
	for _, step := range []struct {
		id       int
		affected int64
	}{{3, 1}, {7, 1}, {7, 0}} {
		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(deleteManufacturerSQL)).WithArgs(step.id).
			WillReturnResult(pgxmock.NewResult("DELETE", step.affected))
		if step.affected == 0 {
			mockPool.ExpectRollback()
		} else {
			mockPool.ExpectCommit()
		}
	}

	done, err := s.runBulk(context.Background(), []int{3, 7, 7}, core.KindDeleteManufacturer, core.CodeFailedBulkDelete, s.deleteManufacturer)

	requireDomain(t, err, core.KindDeleteManufacturer, core.CodeFailedBulkDelete)
	assert.Equal(t, []int{3, 7}, done)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestToggleManufacturerStatus(t *testing.T) {
	t.Run("Should apply each toggle as an unconditional write", func(t *testing.T) {
		s, mockPool := newTestStore(t, BulkAtomic)
		for _, enabled := range []bool{false, true} {
			mockPool.ExpectBegin()
			mockPool.ExpectExec(regexp.QuoteMeta(toggleManufacturerSQL)).
				WithArgs(enabled, fixedNow, 5).
				WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			mockPool.ExpectCommit()
		}

		ctx := context.Background()
		_, err := s.ToggleManufacturerStatus(ctx, core.ToggleManufacturerStatus{ManufacturerID: 5, Enabled: false})
		require.NoError(t, err)
		_, err = s.ToggleManufacturerStatus(ctx, core.ToggleManufacturerStatus{ManufacturerID: 5, Enabled: true})
		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should wrap failures as a failed status update", func(t *testing.T) {
		s, mockPool := newTestStore(t, BulkAtomic)
		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(toggleManufacturerSQL)).
			WithArgs(true, fixedNow, 5).
			WillReturnError(errors.New("deadlock detected"))
		mockPool.ExpectRollback()

		_, err := s.ToggleManufacturerStatus(context.Background(), core.ToggleManufacturerStatus{ManufacturerID: 5, Enabled: true})

		requireDomain(t, err, core.KindUpdateManufacturer, core.CodeFailedUpdateStatus)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should use the bulk code for bulk toggles", func(t *testing.T) {
		s, mockPool := newTestStore(t, BulkAtomic)
		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(toggleManufacturerSQL)).
			WithArgs(true, fixedNow, 1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mockPool.ExpectRollback()

		_, err := s.BulkToggleManufacturerStatus(context.Background(), core.BulkToggleManufacturerStatus{
			ManufacturerIDs: []int{1, 2},
			Enabled:         true,
		})

		requireDomain(t, err, core.KindUpdateManufacturer, core.CodeFailedBulkUpdateStatus)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestGetManufacturerForEditing(t *testing.T) {
	columns := []string{"id_manufacturer", "name", "active", "short_description",
		"description", "meta_title", "meta_description", "meta_keywords"}

	t.Run("Should map a missing row to not found", func(t *testing.T) {
		s, mockPool := newTestStore(t, BulkAtomic)
		mockPool.ExpectQuery(regexp.QuoteMeta("FROM ps_manufacturer m LEFT JOIN ps_manufacturer_lang ml")).
			WithArgs(1, 9).
			WillReturnRows(mockPool.NewRows(columns))

		_, err := s.GetManufacturerForEditing(context.Background(), core.GetManufacturerForEditing{ManufacturerID: 9})

		assert.True(t, errors.Is(err, core.ErrManufacturerNotFound))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should load the brand in the context language", func(t *testing.T) {
		s, mockPool := newTestStore(t, BulkAtomic)
		mockPool.ExpectQuery(regexp.QuoteMeta("FROM ps_manufacturer m LEFT JOIN ps_manufacturer_lang ml")).
			WithArgs(2, 9).
			WillReturnRows(mockPool.NewRows(columns).
				AddRow(9, "Acme", true, "court", "longue", "titre", "", "outils"))

		ctx := core.ContextWithLanguageID(context.Background(), 2)
		got, err := s.GetManufacturerForEditing(ctx, core.GetManufacturerForEditing{ManufacturerID: 9})

		require.NoError(t, err)
		assert.Equal(t, 9, got.ManufacturerID)
		assert.Equal(t, "Acme", got.Name)
		assert.True(t, got.Enabled)
		assert.Equal(t, "titre", got.MetaTitle)
		assert.Equal(t, 2, got.LanguageID)
		assert.Nil(t, got.Logo)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestGetManufacturerForViewing(t *testing.T) {
	s, mockPool := newTestStore(t, BulkAtomic)
	mockPool.MatchExpectationsInOrder(false)

	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT name FROM ps_manufacturer WHERE id_manufacturer = $1")).
		WithArgs(4).
		WillReturnRows(mockPool.NewRows([]string{"name"}).AddRow("Acme"))
	mockPool.ExpectQuery(regexp.QuoteMeta("FROM ps_address a")).
		WithArgs(1, false, 4).
		WillReturnRows(mockPool.NewRows([]string{"id_address", "firstname", "lastname", "address1",
			"address2", "postcode", "city", "state", "country", "phone", "phone_mobile", "other"}).
			AddRow(11, "Ada", "Lovelace", "1 Main St", "", "75001", "Paris", "", "France", "", "", ""))
	mockPool.ExpectQuery(regexp.QuoteMeta("FROM ps_product p")).
		WithArgs(1, 4).
		WillReturnRows(mockPool.NewRows([]string{"id_product", "name", "reference", "ean13", "upc", "quantity"}).
			AddRow(20, "Hammer", "H-1", "", "", 12))

	got, err := s.GetManufacturerForViewing(context.Background(), core.GetManufacturerForViewing{ManufacturerID: 4})

	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	require.Len(t, got.Addresses, 1)
	assert.Equal(t, "Ada Lovelace", got.Addresses[0].FullName)
	require.Len(t, got.Products, 1)
	assert.Equal(t, 12, got.Products[0].Quantity)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestAddManufacturer_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   core.ManufacturerInput
		code int
	}{
		{"empty name", core.ManufacturerInput{Name: "  "}, core.CodeInvalidName},
		{"forbidden characters", core.ManufacturerInput{Name: "Acme <b>"}, core.CodeInvalidName},
		{"script in description", core.ManufacturerInput{Name: "Acme", Description: "<script>x</script>"}, core.CodeInvalidDescription},
		{"markup in meta", core.ManufacturerInput{Name: "Acme", MetaTitle: "{{x}}"}, core.CodeInvalidMeta},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mockPool := newTestStore(t, BulkAtomic)
			_, err := s.AddManufacturer(context.Background(), core.AddManufacturer{ManufacturerInput: tt.in})
			requireDomain(t, err, core.KindManufacturerConstraint, tt.code)
			assert.NoError(t, mockPool.ExpectationsWereMet())
		})
	}
}

func TestAddManufacturer(t *testing.T) {
	s, mockPool := newTestStore(t, BulkAtomic)
	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO ps_manufacturer (name,active,date_add,date_upd) VALUES ($1,$2,$3,$4) RETURNING id_manufacturer")).
		WithArgs("Acme", true, fixedNow, fixedNow).
		WillReturnRows(mockPool.NewRows([]string{"id_manufacturer"}).AddRow(31))
	mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO ps_manufacturer_lang")).
		WithArgs(31, 1, "", "", "", "", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()

	id, err := s.AddManufacturer(context.Background(), core.AddManufacturer{
		ManufacturerInput: core.ManufacturerInput{Name: "Acme", Enabled: true},
	})

	require.NoError(t, err)
	assert.Equal(t, 31, id)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestParseBulkPolicy(t *testing.T) {
	for in, want := range map[string]BulkPolicy{"": BulkAtomic, "atomic": BulkAtomic, "best_effort": BulkBestEffort} {
		got, err := ParseBulkPolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseBulkPolicy("sometimes")
	assert.Error(t, err)
}
