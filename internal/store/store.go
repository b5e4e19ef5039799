package store

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func selectAll(ctx context.Context, db *sqlx.DB, dest any, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return db.SelectContext(ctx, dest, query, args...)
}

// selectOne scans a single row into dest, translating an empty result into
// ErrNotFound.
func selectOne(ctx context.Context, db *sqlx.DB, dest any, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	if err := db.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func exists(ctx context.Context, db *sqlx.DB, b sq.SelectBuilder) (bool, error) {
	query, args, err := b.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, err
	}
	var found bool
	if err := db.GetContext(ctx, &found, query, args...); err != nil {
		return false, err
	}
	return found, nil
}

func count(ctx context.Context, db *sqlx.DB, b sq.SelectBuilder) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, err
	}
	return total, nil
}

// deleteWhere runs a DELETE and reports ErrNotFound when nothing matched.
func deleteWhere(ctx context.Context, db *sqlx.DB, b sq.DeleteBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
