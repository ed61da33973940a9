package runlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// SQLStore persists records in a SQL database. The full record is kept as
// JSON next to the indexed filter columns.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

type dialect struct {
	driver string
	schema string
	// bind renders the n-th (1-based) placeholder.
	bind func(n int) string
}

var sqliteDialect = dialect{
	driver: "sqlite",
	schema: `CREATE TABLE IF NOT EXISTS instance_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        ts INTEGER,
        run_id TEXT,
        outcome TEXT,
        record TEXT
    );`,
	bind: func(int) string { return "?" },
}

var postgresDialect = dialect{
	driver: "pgx",
	schema: `CREATE TABLE IF NOT EXISTS instance_runs (
        id BIGSERIAL PRIMARY KEY,
        ts BIGINT,
        run_id TEXT,
        outcome TEXT,
        record TEXT
    );`,
	bind: func(n int) string { return "$" + strconv.Itoa(n) },
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLStore, error) {
	return openSQL(context.Background(), sqliteDialect, path)
}

// NewPostgresStore connects to dsn through pgx and ensures schema.
func NewPostgresStore(ctx context.Context, dsn string) (*SQLStore, error) {
	return openSQL(ctx, postgresDialect, dsn)
}

func openSQL(ctx context.Context, d dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLStore{db: db, dialect: d}, nil
}

// Append writes the record to the database.
func (s *SQLStore) Append(ctx context.Context, rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	b1, b2, b3, b4 := s.dialect.bind(1), s.dialect.bind(2), s.dialect.bind(3), s.dialect.bind(4)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO instance_runs (ts, run_id, outcome, record) VALUES (`+b1+`, `+b2+`, `+b3+`, `+b4+`)`,
		rec.Timestamp.UnixNano(), rec.RunID, string(rec.Outcome), string(b))
	return err
}

// Query returns records matching q ordered by time.
func (s *SQLStore) Query(ctx context.Context, q Query) ([]Record, error) {
	var args []any
	where := func(cond string, v any) string {
		args = append(args, v)
		return " AND " + cond + " " + s.dialect.bind(len(args))
	}
	query := `SELECT record FROM instance_runs WHERE 1=1`
	if !q.Start.IsZero() {
		query += where("ts >=", q.Start.UnixNano())
	}
	if !q.End.IsZero() {
		query += where("ts <=", q.End.UnixNano())
	}
	if q.RunID != "" {
		query += where("run_id =", q.RunID)
	}
	if q.Outcome != "" {
		query += where("outcome =", string(q.Outcome))
	}
	query += ` ORDER BY ts, id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r Record
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error { return s.db.Close() }
