package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"go-todo-service/internal/model"
)

//go:embed migrations/001_initial.up.sql
var initialMigrationSQL string

var requiredTables = []string{
	"roles",
	"users",
	"todos",
}

func (db *DB) EnsureSchema(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	exists, err := db.hasAllRequiredTables(ctx)
	if err != nil {
		return fmt.Errorf("check existing tables: %w", err)
	}

	if !exists {
		slog.Info("database schema missing tables; applying initial migration")
		if _, err := db.Pool.Exec(ctx, initialMigrationSQL); err != nil {
			return fmt.Errorf("apply initial migration: %w", err)
		}

		exists, err = db.hasAllRequiredTables(ctx)
		if err != nil {
			return fmt.Errorf("re-check tables after migration: %w", err)
		}

		if !exists {
			return fmt.Errorf("schema initialization incomplete: required tables are still missing")
		}
	}

	slog.Info("database schema ensured")
	return nil
}

// SeedCredential pairs a standing demo account with its bootstrap password.
type SeedCredential struct {
	Username string
	Password string
	Role     model.Role
}

// SeedUsers inserts the standing demo accounts when they are absent.
// Passwords are bcrypt-hashed per account at seed time; existing rows are
// never overwritten.
func (db *DB) SeedUsers(ctx context.Context, creds []SeedCredential) error {
	for _, cred := range creds {
		var exists bool
		err := db.Pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, cred.Username).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check seed user %q: %w", cred.Username, err)
		}
		if exists {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password for %q: %w", cred.Username, err)
		}

		_, err = db.Pool.Exec(ctx,
			`INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3)`,
			cred.Username, string(hash), cred.Role.Name)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", cred.Username, err)
		}

		slog.Info("seeded user", "username", cred.Username, "role", cred.Role.Name)
	}

	return nil
}

func (db *DB) hasAllRequiredTables(ctx context.Context) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_name = ANY($1)
	`, requiredTables).Scan(&count)
	if err != nil {
		return false, err
	}

	return count == len(requiredTables), nil
}
