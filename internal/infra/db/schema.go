package db

import (
	"context"
	"fmt"
)

// Las sentencias usan tipos válidos en SQLite y en PostgreSQL a la vez.
// En Postgres el esquema real lo gestiona el equipo de datos; aquí solo
// se asegura que las tablas existan para desarrollo y tests.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		reference_id TEXT,
		reference_table TEXT,
		kind TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		store TEXT,
		status TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status_store ON tasks (status, store)`,
	`CREATE TABLE IF NOT EXISTS advertisement_insights (
		id TEXT PRIMARY KEY,
		advertisement_id TEXT,
		insight_type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		store TEXT,
		resolved BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL,
		resolved_at TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_insights_resolved_store ON advertisement_insights (resolved, store)`,
	`CREATE TABLE IF NOT EXISTS advertisements (
		id TEXT PRIMARY KEY,
		platform TEXT NOT NULL,
		vehicle_plates TEXT NOT NULL DEFAULT '[]',
		advertised_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		store TEXT NOT NULL,
		publicado BOOLEAN NOT NULL DEFAULT FALSE,
		data_publicacao TIMESTAMP,
		published_by TEXT,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		plate TEXT NOT NULL,
		model TEXT NOT NULL,
		year INTEGER NOT NULL,
		mileage INTEGER NOT NULL DEFAULT 0,
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		store TEXT NOT NULL,
		status TEXT NOT NULL,
		documentation_complete BOOLEAN NOT NULL DEFAULT FALSE,
		photos_complete BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (store, plate)
	)`,
	`CREATE TABLE IF NOT EXISTS vendidos (
		id TEXT PRIMARY KEY,
		vehicle_id TEXT NOT NULL,
		sale_price DOUBLE PRECISION NOT NULL,
		seller_id TEXT NOT NULL,
		sold_at TIMESTAMP NOT NULL,
		store TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		level INTEGER,
		store TEXT,
		avatar_url TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		severity TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS vehicle_images (
		id TEXT PRIMARY KEY,
		vehicle_id TEXT NOT NULL,
		object_key TEXT NOT NULL,
		url TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS vehicle_change_history (
		id TEXT PRIMARY KEY,
		vehicle_id TEXT NOT NULL,
		field TEXT NOT NULL,
		old_value TEXT,
		new_value TEXT,
		changed_by TEXT NOT NULL,
		changed_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS productivity_metrics (
		user_id TEXT NOT NULL,
		action TEXT NOT NULL,
		target_id TEXT NOT NULL,
		store TEXT,
		occurred_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS outbox (
		id TEXT PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		processed BOOLEAN NOT NULL DEFAULT FALSE
	)`,
}

// InitSchema crea las tablas si no existen.
func (d *DB) InitSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}
	return nil
}

// OpenMemory abre una SQLite en memoria con el esquema creado.
func OpenMemory(ctx context.Context) (*DB, error) {
	d, err := Open(string(SQLite), ":memory:")
	if err != nil {
		return nil, err
	}
	if err := d.InitSchema(ctx); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}
