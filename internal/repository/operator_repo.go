package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

// OperatorSQLite stores operator accounts and the meters each one may
// command.
type OperatorSQLite struct {
	db *sql.DB
}

func NewOperatorSQLite(db *sql.DB) *OperatorSQLite {
	return &OperatorSQLite{db: db}
}

var _ Operators = (*OperatorSQLite)(nil)

const (
	insertOperatorSQL      = `INSERT INTO users (username, password_hash) VALUES (?, ?)`
	insertOperatorMeterSQL = `INSERT INTO operator_meters (user_id, meter_id) VALUES (?, ?)`

	selectOperatorByUsernameSQL = `SELECT id, username, password_hash FROM users WHERE username = ?`
	selectOperatorByIDSQL       = `SELECT id, username, password_hash FROM users WHERE id = ?`
	selectOperatorMetersSQL     = `SELECT meter_id FROM operator_meters WHERE user_id = ? ORDER BY meter_id`
)

// Create inserts the operator and its meter scope in one transaction.
func (r *OperatorSQLite) Create(ctx context.Context, username, passwordHash string, meters []string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create operator %q: %w", username, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, insertOperatorSQL, username, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("insert operator %q: %w", username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for operator %q: %w", username, err)
	}
	for _, meterID := range meters {
		if _, err := tx.ExecContext(ctx, insertOperatorMeterSQL, id, meterID); err != nil {
			return 0, fmt.Errorf("scope operator %q to meter %q: %w", username, meterID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit operator %q: %w", username, err)
	}
	return int(id), nil
}

// GetByUsername loads an operator and its scope. An unknown username
// wraps models.ErrNotFound.
func (r *OperatorSQLite) GetByUsername(ctx context.Context, username string) (*models.Operator, error) {
	return r.get(ctx, selectOperatorByUsernameSQL, username)
}

// GetByID loads an operator and its scope by id.
func (r *OperatorSQLite) GetByID(ctx context.Context, id int) (*models.Operator, error) {
	return r.get(ctx, selectOperatorByIDSQL, id)
}

func (r *OperatorSQLite) get(ctx context.Context, query string, key any) (*models.Operator, error) {
	var op models.Operator
	err := r.db.QueryRowContext(ctx, query, key).Scan(&op.ID, &op.Username, &op.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("operator %v: %w", key, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select operator %v: %w", key, err)
	}

	rows, err := r.db.QueryContext(ctx, selectOperatorMetersSQL, op.ID)
	if err != nil {
		return nil, fmt.Errorf("select scope of operator %d: %w", op.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var meterID string
		if err := rows.Scan(&meterID); err != nil {
			return nil, fmt.Errorf("scan scope of operator %d: %w", op.ID, err)
		}
		op.Meters = append(op.Meters, meterID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scope of operator %d: %w", op.ID, err)
	}
	return &op, nil
}
