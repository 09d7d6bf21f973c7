package ports

import (
	"context"

	"github.com/target/recipe-finder/internal/domain/model"
)

// RecipeLookup searches the third-party recipe API by ingredient.
// A search that matches nothing returns an empty slice and a nil error.
type RecipeLookup interface {
	Search(ctx context.Context, ingredient string) ([]model.Recipe, error)
}
