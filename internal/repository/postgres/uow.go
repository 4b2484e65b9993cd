package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/heinNell/Asset-Management/internal/repository"
)

// UnitOfWork runs callbacks inside a single database transaction,
// handing them transaction-scoped repositories.
type UnitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork creates a new transactional unit of work.
func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do begins a transaction, runs fn with transaction-scoped
// repositories, and commits. Any error from fn rolls everything back.
func (u *UnitOfWork) Do(ctx context.Context, fn func(r repository.Repos) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	repos := repository.Repos{
		Vehicles:    NewVehicleRepositoryWithTx(tx),
		Assignments: NewAssignmentRepositoryWithTx(tx),
		Inspections: NewInspectionRepositoryWithTx(tx),
	}

	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Ensure UnitOfWork implements repository.UnitOfWork.
var _ repository.UnitOfWork = (*UnitOfWork)(nil)
