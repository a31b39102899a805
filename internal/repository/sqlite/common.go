package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	apperrors "todo/internal/errors"
	"todo/internal/repository"
)

// HandleDatabaseError converts database errors to structured app errors
func HandleDatabaseError(operation string, err error) error {
	return apperrors.NewStorageError(operation, err)
}

// HandleNoRowsError handles sql.ErrNoRows errors consistently
func HandleNoRowsError(err error, entityType string, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFoundError(entityType, id)
	}
	return err
}

// ExecuteWithLastInsertID executes a query and returns the last insert ID
func ExecuteWithLastInsertID(ctx context.Context, db *sql.DB, query string, args ...interface{}) (int64, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, HandleDatabaseError("execute query", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, HandleDatabaseError("get last insert ID", err)
	}

	return id, nil
}

// Execute runs a statement whose affected row count does not matter
func Execute(ctx context.Context, db *sql.DB, query string, args ...interface{}) error {
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return HandleDatabaseError("execute query", err)
	}
	return nil
}

// QuerySingle executes a query that returns a single row and scans it
func QuerySingle(ctx context.Context, db *sql.DB, query string, entityType string, id int64, args ...interface{}) (*repository.Record, error) {
	row := db.QueryRowContext(ctx, query, args...)
	result, err := repository.ScanTask(row)
	if err != nil {
		err = HandleNoRowsError(err, entityType, strconv.FormatInt(id, 10))
		if apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, HandleDatabaseError("scan "+entityType, err)
	}
	return result, nil
}

// QueryMultiple executes a query that returns multiple rows and scans them
func QueryMultiple(ctx context.Context, db *sql.DB, query string, entityType string, args ...interface{}) ([]*repository.Record, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, HandleDatabaseError("query "+entityType, err)
	}
	defer rows.Close()

	results, err := repository.ScanTasks(rows)
	if err != nil {
		return nil, HandleDatabaseError("scan "+entityType, err)
	}

	return results, nil
}
