package model

// Recipe is a single search hit from the recipe API. It is never persisted.
type Recipe struct {
	ID        string
	Name      string
	Thumbnail string
}

// SearchResult is what the search page renders for one query.
type SearchResult struct {
	Ingredient string
	Recipes    []Recipe
}

// Empty reports whether the search matched nothing upstream.
func (r SearchResult) Empty() bool { return len(r.Recipes) == 0 }
