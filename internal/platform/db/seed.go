package db

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"appraisal/internal/domain/auth"
	"appraisal/internal/platform/config"
)

// Seed creates the initial admin account when the users table is empty.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		slog.Warn("users table is empty and no seed admin is configured")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (id, email, name, role, password_hash, active)
    VALUES ($1, $2, $3, $4, $5, TRUE)
  `, uuid.NewString(), cfg.SeedAdminEmail, "Administrator", auth.RoleAdmin, string(hash))
	if err != nil {
		return err
	}
	slog.Info("seeded initial admin user", "email", cfg.SeedAdminEmail)
	return nil
}
