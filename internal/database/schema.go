package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema holds the DDL for all tables, ordered so that every statement only
// references tables created before it.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS roles (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS organizations (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		org_number TEXT UNIQUE,
		email TEXT,
		phone TEXT,
		address TEXT,
		city TEXT,
		country TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL,
		tel TEXT,
		address TEXT,
		city TEXT,
		country TEXT,
		role_id BIGINT NOT NULL REFERENCES roles(id) ON DELETE RESTRICT,
		organization_id BIGINT REFERENCES organizations(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS groups (
		id BIGSERIAL PRIMARY KEY,
		organization_id BIGINT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (organization_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS group_members (
		id BIGSERIAL PRIMARY KEY,
		group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (group_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		organization_id BIGINT REFERENCES organizations(id) ON DELETE CASCADE,
		owner_user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS project_members (
		id BIGSERIAL PRIMARY KEY,
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		access_level TEXT NOT NULL DEFAULT 'viewer',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (project_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS project_group_members (
		id BIGSERIAL PRIMARY KEY,
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		access_level TEXT NOT NULL DEFAULT 'viewer',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (project_id, group_id)
	)`,
	`CREATE TABLE IF NOT EXISTS tokens (
		user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		token TEXT NOT NULL UNIQUE,
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS requirements (
		id BIGSERIAL PRIMARY KEY,
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		acceptance_criteria TEXT,
		source TEXT NOT NULL DEFAULT 'manual',
		external_id TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS test_cases (
		id BIGSERIAL PRIMARY KEY,
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		requirement_id BIGINT REFERENCES requirements(id) ON DELETE SET NULL,
		title TEXT NOT NULL,
		description TEXT,
		steps TEXT,
		preconditions TEXT,
		expected_result TEXT,
		priority TEXT,
		status TEXT NOT NULL DEFAULT 'draft',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS request_logs (
		id BIGSERIAL PRIMARY KEY,
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		endpoint TEXT NOT NULL,
		input_text TEXT NOT NULL,
		output_text TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Bootstrap creates all tables if they do not exist. It is idempotent and safe
// to run on every startup.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrapping schema: %w", err)
		}
	}
	return nil
}
