package db

import (
	"context"
	"fmt"
)

// Schema statements are idempotent so Migrate can run on every boot.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL,
		phone         TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL,
		staff_id      TEXT,
		rfid_uid      TEXT,
		password_hash TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		deleted_at    TIMESTAMPTZ
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email) WHERE deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_rfid_uid_key ON users (rfid_uid) WHERE rfid_uid IS NOT NULL AND deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_staff_id_key ON users (staff_id) WHERE staff_id IS NOT NULL AND deleted_at IS NULL`,

	`CREATE SEQUENCE IF NOT EXISTS bill_number_seq`,
	`CREATE TABLE IF NOT EXISTS bills (
		id               BIGSERIAL PRIMARY KEY,
		bill_number      TEXT NOT NULL UNIQUE,
		customer_user_id BIGINT REFERENCES users(id),
		customer_name    TEXT NOT NULL,
		customer_phone   TEXT NOT NULL DEFAULT '',
		sample_id        TEXT NOT NULL DEFAULT '',
		drc_percent      DOUBLE PRECISION NOT NULL,
		barrel_count     INT NOT NULL DEFAULT 0,
		latex_volume     DOUBLE PRECISION NOT NULL,
		market_rate      DOUBLE PRECISION NOT NULL,
		total_amount     DOUBLE PRECISION NOT NULL,
		status           TEXT NOT NULL DEFAULT 'pending',
		accountant_notes TEXT NOT NULL DEFAULT '',
		created_by       BIGINT REFERENCES users(id),
		verified_by      BIGINT REFERENCES users(id),
		verified_at      TIMESTAMPTZ,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		deleted_at       TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS bills_customer_idx ON bills (customer_user_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS attendance (
		id              BIGSERIAL PRIMARY KEY,
		staff_id        BIGINT NOT NULL REFERENCES users(id),
		attendance_date DATE NOT NULL,
		check_in        TIMESTAMPTZ NOT NULL,
		check_out       TIMESTAMPTZ,
		status          TEXT NOT NULL DEFAULT 'present',
		source          TEXT NOT NULL DEFAULT 'manual',
		notes           TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	// One open session per staff per day, enforced by the store so concurrent
	// check-ins cannot both land.
	`CREATE UNIQUE INDEX IF NOT EXISTS attendance_open_session_key
		ON attendance (staff_id, attendance_date) WHERE check_out IS NULL`,
	`CREATE INDEX IF NOT EXISTS attendance_date_idx ON attendance (attendance_date)`,

	`CREATE TABLE IF NOT EXISTS delivery_tasks (
		id               BIGSERIAL PRIMARY KEY,
		title            TEXT NOT NULL,
		assigned_to      BIGINT NOT NULL REFERENCES users(id),
		customer_user_id BIGINT NOT NULL REFERENCES users(id),
		pickup_address   TEXT NOT NULL,
		drop_address     TEXT NOT NULL,
		pickup_lat       DOUBLE PRECISION,
		pickup_lng       DOUBLE PRECISION,
		status           TEXT NOT NULL DEFAULT 'assigned',
		notes            TEXT NOT NULL DEFAULT '',
		scheduled_for    TIMESTAMPTZ,
		created_by       BIGINT REFERENCES users(id),
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		deleted_at       TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS delivery_tasks_assignee_idx ON delivery_tasks (assigned_to, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS activity_logs (
		id         BIGSERIAL PRIMARY KEY,
		title      TEXT NOT NULL,
		message    TEXT NOT NULL,
		actor      TEXT NOT NULL,
		type       TEXT NOT NULL DEFAULT 'info',
		logged_at  TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		deleted_at TIMESTAMPTZ
	)`,
}

// Migrate applies the embedded schema.
func (p *Postgres) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
