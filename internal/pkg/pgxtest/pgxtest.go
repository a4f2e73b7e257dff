// Package pgxtest provides a scriptable pgx.Tx for exercising transaction
// bodies without a live database. Statements are recorded in execution
// order; responses come from the optional hook functions.
package pgxtest

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Tx implements pgx.Tx. The zero value answers every Exec with success,
// every Query with an empty result set, and every QueryRow with
// pgx.ErrNoRows; set the hook functions to script other responses.
type Tx struct {
	// Statements holds the SQL text of every Exec, Query, and QueryRow
	// call, in execution order.
	Statements []string
	Committed  bool
	RolledBack bool

	ExecFunc     func(sql string, args ...any) (pgconn.CommandTag, error)
	QueryFunc    func(sql string, args ...any) (pgx.Rows, error)
	QueryRowFunc func(sql string, args ...any) pgx.Row
}

func (t *Tx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.Statements = append(t.Statements, sql)
	if t.ExecFunc != nil {
		return t.ExecFunc(sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

func (t *Tx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	t.Statements = append(t.Statements, sql)
	if t.QueryFunc != nil {
		return t.QueryFunc(sql, args...)
	}
	return Rows(), nil
}

func (t *Tx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	t.Statements = append(t.Statements, sql)
	if t.QueryRowFunc != nil {
		return t.QueryRowFunc(sql, args...)
	}
	return ErrRow(pgx.ErrNoRows)
}

func (t *Tx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *Tx) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *Tx) Rollback(ctx context.Context) error {
	t.RolledBack = true
	return nil
}

func (t *Tx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("pgxtest: CopyFrom not supported")
}

func (t *Tx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }

func (t *Tx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *Tx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("pgxtest: Prepare not supported")
}

func (t *Tx) Conn() *pgx.Conn { return nil }

// ValueRow returns a pgx.Row whose Scan copies the given values into the
// destinations in order.
func ValueRow(values ...any) pgx.Row { return &row{values: values} }

// ErrRow returns a pgx.Row whose Scan fails with err.
func ErrRow(err error) pgx.Row { return &row{err: err} }

type row struct {
	values []any
	err    error
}

func (r *row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("pgxtest: %d destinations for %d values", len(dest), len(r.values))
	}
	for i, v := range r.values {
		if err := assign(dest[i], v); err != nil {
			return err
		}
	}
	return nil
}

// Rows returns a pgx.Rows yielding one row per value slice.
func Rows(rowValues ...[]any) pgx.Rows { return &rows{values: rowValues, idx: -1} }

type rows struct {
	values [][]any
	idx    int
}

func (r *rows) Next() bool {
	r.idx++
	return r.idx < len(r.values)
}

func (r *rows) Scan(dest ...any) error {
	if r.idx < 0 || r.idx >= len(r.values) {
		return errors.New("pgxtest: Scan called without a successful Next")
	}
	values := r.values[r.idx]
	if len(dest) != len(values) {
		return fmt.Errorf("pgxtest: %d destinations for %d values", len(dest), len(values))
	}
	for i, v := range values {
		if err := assign(dest[i], v); err != nil {
			return err
		}
	}
	return nil
}

func (r *rows) Close()                                       {}
func (r *rows) Err() error                                   { return nil }
func (r *rows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *rows) RawValues() [][]byte                          { return nil }
func (r *rows) Conn() *pgx.Conn                              { return nil }

func (r *rows) Values() ([]any, error) {
	return nil, errors.New("pgxtest: Values not supported")
}

// assign copies a scripted value into a scan destination, converting
// between compatible types the way a driver scan would.
func assign(dest, value any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("pgxtest: destination %T is not a pointer", dest)
	}
	ev := dv.Elem()
	if value == nil {
		ev.Set(reflect.Zero(ev.Type()))
		return nil
	}
	vv := reflect.ValueOf(value)
	if vv.Type().AssignableTo(ev.Type()) {
		ev.Set(vv)
		return nil
	}
	if vv.Type().ConvertibleTo(ev.Type()) {
		ev.Set(vv.Convert(ev.Type()))
		return nil
	}
	return fmt.Errorf("pgxtest: cannot scan %T into %T", value, dest)
}
