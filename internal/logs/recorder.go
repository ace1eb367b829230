package logs

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/JonMunkholm/brandadmin/internal/core"
)

// Severity levels used by the back office.
const (
	SeverityInformative = 1
	SeverityWarning     = 2
	SeverityError       = 3
	SeverityMajor       = 4
)

// Activity describes something an employee did.
type Activity struct {
	Severity   int
	ErrorCode  int
	Message    string
	ObjectType string
	ObjectID   int
}

// Recorder appends activity entries. The acting employee and language come
// from the request context.
type Recorder struct {
	db       core.DBTX
	logTable string
	now      func() time.Time
}

// NewRecorder returns a recorder writing to <prefix>log.
func NewRecorder(db core.DBTX, prefix string) *Recorder {
	return &Recorder{db: db, logTable: prefix + "log", now: time.Now}
}

// WithDB returns a recorder writing through db, typically an open transaction.
func (r *Recorder) WithDB(db core.DBTX) *Recorder {
	cp := *r
	cp.db = db
	return &cp
}

// Record inserts one entry.
func (r *Recorder) Record(ctx context.Context, a Activity) error {
	severity := a.Severity
	if severity == 0 {
		severity = SeverityInformative
	}
	now := r.now()

	query, args, err := sq.Insert(r.logTable).
		Columns("severity", "error_code", "message", "object_type", "object_id",
			"id_employee", "id_lang", "in_all_shops", "date_add", "date_upd").
		Values(severity, a.ErrorCode, a.Message, a.ObjectType, a.ObjectID,
			core.GetEmployeeIDFromContext(ctx), core.GetLanguageIDFromContext(ctx), false, now, now).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build log insert: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}
