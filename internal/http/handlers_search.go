package httpx

import (
	"net/http"

	"github.com/target/recipe-finder/internal/domain/model"
	"github.com/target/recipe-finder/internal/service"
)

// ShowSearch renders the search form with no results.
// GET /search (requires a logged-in session).
func (h *UIHandlers) ShowSearch(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, searchMeta, map[string]any{
		"Searched": false,
		"Recipes":  []model.Recipe{},
	})
}

// Search queries the recipe API for the submitted ingredient.
// POST /search (requires a logged-in session).
func (h *UIHandlers) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, ErrorOpts{
			View:     formErrorView(),
			PageMeta: searchMeta,
			Data:     map[string]any{"Recipes": []model.Recipe{}},
		})
		return
	}
	ingredient := r.PostFormValue(FieldIngredient)

	result, err := h.Recipes.Search(r.Context(), ingredient)
	if err != nil {
		view := h.renderError(w, r, ErrorOpts{
			Err:      err,
			Fallback: service.MsgSearchFailed,
			PageMeta: searchMeta,
			Data: map[string]any{
				"Ingredient": ingredient,
				"Recipes":    []model.Recipe{},
			},
		})
		h.logger().ErrorContext(r.Context(), "search failed",
			"ingredient", ingredient, "kind", view.Kind, "status", view.Status, "error", err)
		return
	}

	h.page(w, r, searchMeta, map[string]any{
		"Searched":   true,
		"Ingredient": result.Ingredient,
		"Recipes":    result.Recipes,
		"NoResults":  result.Empty(),
	})
}
