package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed migrations/001_init.sql
var initSchema string

// Migrate crea las tablas si no existen. Idempotente.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, initSchema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
