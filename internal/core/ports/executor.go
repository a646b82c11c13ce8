package ports

import (
	"context"

	"go.trai.ch/pmake/internal/core/domain"
)

// Executor defines the interface for running a recipe declared in a rule file.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs every command of recipe in order for the target described by inv.
	// Output goes to inv.Stdout and inv.Stderr. The first failing command stops the recipe.
	Execute(ctx context.Context, recipe *domain.Recipe, inv *domain.Invocation) error
}
