package service

import (
	"context"
	"errors"

	"github.com/target/recipe-finder/internal/domain/model"
	apperrors "github.com/target/recipe-finder/internal/errors"
	"github.com/target/recipe-finder/internal/observability/metrics"
	"github.com/target/recipe-finder/internal/ports"
)

// MsgSearchFailed is shown when the lookup fails without a more specific message.
const MsgSearchFailed = "We couldn't reach the recipe service. Please try again later."

// RecipeServiceOptions groups dependencies for RecipeService.
type RecipeServiceOptions struct {
	Lookup    ports.RecipeLookup // Required
	Telemetry Telemetry          // Optional
}

// RecipeService searches recipes by ingredient.
type RecipeService struct {
	lookup ports.RecipeLookup
	tel    Telemetry
}

// NewRecipeService constructs a RecipeService.
func NewRecipeService(opts RecipeServiceOptions) (*RecipeService, error) {
	if opts.Lookup == nil {
		return nil, errors.New("RecipeLookup is required")
	}
	return &RecipeService{
		lookup: opts.Lookup,
		tel:    opts.Telemetry.withDefaults("recipe_service"),
	}, nil
}

// Search queries the lookup once. Zero matches is a successful, empty result.
// Failures are AppErrors; anything the lookup returns untyped is reported as upstream.
func (s *RecipeService) Search(ctx context.Context, ingredient string) (model.SearchResult, error) {
	start := s.tel.Now()
	recipes, err := s.lookup.Search(ctx, ingredient)
	elapsed := s.tel.Now().Sub(start)

	if err != nil {
		if apperrors.GetCode(err) == "" {
			err = apperrors.Wrap(err, apperrors.ErrCodeUpstream, MsgSearchFailed)
		}
		metrics.Emit(s.tel.Metrics, metrics.SearchCount, metrics.SearchDuration,
			metrics.Outcome{Result: metrics.ResultError, Duration: elapsed, Err: err})
		return model.SearchResult{Ingredient: ingredient}, err
	}

	if recipes == nil {
		recipes = []model.Recipe{}
	}
	result := metrics.ResultOK
	if len(recipes) == 0 {
		result = metrics.ResultEmpty
	}
	metrics.Emit(s.tel.Metrics, metrics.SearchCount, metrics.SearchDuration,
		metrics.Outcome{Result: result, Duration: elapsed})
	s.tel.Logger.DebugContext(ctx, "recipe search", "ingredient", ingredient, "results", len(recipes))

	return model.SearchResult{Ingredient: ingredient, Recipes: recipes}, nil
}
