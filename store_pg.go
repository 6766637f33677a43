package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// getDBPool creates a connection pool. A pool (not a single conn) because
// serverless Postgres providers close idle connections after a few minutes.
func getDBPool() *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Simple query protocol avoids "cached plan must not change result type"
	// errors from server-side prepared statement caches after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("DB pool ready!")
	return pool
}

/* ─── Postgres store ─────────────────────────────────────────────────── */

// postgresStore implements EntryStore on a pgx pool. Selected by main when
// DB_URL is set.
type postgresStore struct {
	pool *pgxpool.Pool
}

func newPostgresStore(pool *pgxpool.Pool) *postgresStore {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) Create(ctx context.Context, e entry) (entry, error) {
	return queryOne[entry](ctx, s.pool,
		`INSERT INTO entries (date, name, type, qty, unit, calories, protein_g, carbs_g, fat_g)
		 VALUES (@date, @name, @type, @qty, @unit, @calories, @proteinG, @carbsG, @fatG)
		 RETURNING *`,
		pgx.NamedArgs{
			"date": e.Date.Format("2006-01-02"), "name": e.Name, "type": e.Type,
			"qty": e.Qty, "unit": e.Unit, "calories": e.Calories,
			"proteinG": e.ProteinG, "carbsG": e.CarbsG, "fatG": e.FatG,
		})
}

func (s *postgresStore) ByDate(ctx context.Context, date string) ([]entry, error) {
	return queryMany[entry](ctx, s.pool,
		`SELECT * FROM entries WHERE date = @date ORDER BY created_at, id`,
		pgx.NamedArgs{"date": date})
}

func (s *postgresStore) ByRange(ctx context.Context, start, end string) ([]entry, error) {
	return queryMany[entry](ctx, s.pool,
		`SELECT * FROM entries WHERE date >= @start AND date <= @end ORDER BY date, id`,
		pgx.NamedArgs{"start": start, "end": end})
}

// Update applies only non-nil patch fields; COALESCE keeps the current value
// for everything else.
func (s *postgresStore) Update(ctx context.Context, id int, patch entryPatch) (entry, error) {
	e, err := queryOne[entry](ctx, s.pool,
		`UPDATE entries SET
			date      = COALESCE(@date, date),
			name      = COALESCE(@name, name),
			type      = COALESCE(@type, type),
			qty       = COALESCE(@qty, qty),
			unit      = COALESCE(@unit, unit),
			calories  = COALESCE(@calories, calories),
			protein_g = COALESCE(@proteinG, protein_g),
			carbs_g   = COALESCE(@carbsG, carbs_g),
			fat_g     = COALESCE(@fatG, fat_g)
		 WHERE id = @id
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "date": patch.Date, "name": patch.Name, "type": patch.Type,
			"qty": patch.Qty, "unit": patch.Unit, "calories": patch.Calories,
			"proteinG": patch.ProteinG, "carbsG": patch.CarbsG, "fatG": patch.FatG,
		})
	if errors.Is(err, pgx.ErrNoRows) {
		return entry{}, errEntryNotFound
	}
	return e, err
}

func (s *postgresStore) Delete(ctx context.Context, id int) error {
	result, err := s.pool.Exec(ctx,
		"DELETE FROM entries WHERE id = @id", pgx.NamedArgs{"id": id})
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return errEntryNotFound
	}
	return nil
}

func (s *postgresStore) EarliestDate(ctx context.Context) (*string, error) {
	var date *string
	err := s.pool.QueryRow(ctx,
		"SELECT TO_CHAR(MIN(date), 'YYYY-MM-DD') FROM entries").Scan(&date)
	if err != nil {
		return nil, err
	}
	return date, nil
}
