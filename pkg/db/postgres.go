package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const createSlotsTable = `
	CREATE TABLE IF NOT EXISTS storage_slots (
		key TEXT PRIMARY KEY,
		value BYTEA NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	)
`

func NewPostgres(host, port, user, password, dbname, sslmode string) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, errors.Wrap(err, "error connecting to PostgreSQL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "error pinging PostgreSQL")
	}

	log.WithFields(log.Fields{"host": host, "dbname": dbname}).Info("Successfully connected to PostgreSQL")
	return conn, nil
}

// PostgresSlots keeps slots in the storage_slots table.
type PostgresSlots struct {
	db *sql.DB
}

func NewPostgresSlots(ctx context.Context, db *sql.DB) (*PostgresSlots, error) {
	if _, err := db.ExecContext(ctx, createSlotsTable); err != nil {
		return nil, errors.Wrap(err, "failed to create storage_slots table")
	}
	return &PostgresSlots{db: db}, nil
}

func (p *PostgresSlots) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.db.QueryRowContext(ctx, `SELECT value FROM storage_slots WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read slot %s from PostgreSQL", key)
	}
	return value, nil
}

func (p *PostgresSlots) Set(ctx context.Context, key string, value []byte) error {
	query := `
        INSERT INTO storage_slots (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET
            value = EXCLUDED.value,
            updated_at = NOW()
    `
	_, err := p.db.ExecContext(ctx, query, key, value)
	return errors.Wrapf(err, "failed to write slot %s to PostgreSQL", key)
}

func (p *PostgresSlots) Delete(ctx context.Context, key string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM storage_slots WHERE key = $1`, key)
	return errors.Wrapf(err, "failed to delete slot %s from PostgreSQL", key)
}
