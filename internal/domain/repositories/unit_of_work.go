package repositories

import (
	"context"
)

// UnitOfWork defines the interface for atomic operations
type UnitOfWork interface {
	// Do executes the given function within a transaction scope. Every write
	// made through a repository with the returned context commits or rolls
	// back as one.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
