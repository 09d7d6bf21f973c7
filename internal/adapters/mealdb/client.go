// Package mealdb is the TheMealDB client behind ports.RecipeLookup.
package mealdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/target/recipe-finder/internal/domain/model"
	apperrors "github.com/target/recipe-finder/internal/errors"
	"github.com/target/recipe-finder/internal/ports"
)

const (
	// DefaultBaseURL is the public v1 API with the shared test key.
	DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1"
	// DefaultTimeout bounds one lookup end to end.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 4 << 20
	userAgent    = "recipe-finder/1.0"
)

// Config configures the client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// Client queries the filter-by-ingredient endpoint.
type Client struct {
	baseURL *url.URL
	client  *http.Client
}

// NewClient builds a client. An invalid BaseURL is a configuration error.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimSuffix(raw, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid recipe api base url %q", raw)
	}

	hc := cfg.Client
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{baseURL: base, client: hc}, nil
}

var _ ports.RecipeLookup = (*Client)(nil)

type filterResponse struct {
	// Meals is null, not an empty array, when nothing matches.
	Meals []meal `json:"meals"`
}

type meal struct {
	ID        string `json:"idMeal"`
	Name      string `json:"strMeal"`
	Thumbnail string `json:"strMealThumb"`
}

// Search returns the meals listing ingredient, in upstream order. No match is an
// empty slice with a nil error; every failure is an ErrCodeUpstream or
// ErrCodeTimeout AppError.
func (c *Client) Search(ctx context.Context, ingredient string) ([]model.Recipe, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.filterURL(ingredient), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build recipe request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.Wrapf(
			fmt.Errorf("recipe api %s", resp.Status),
			apperrors.ErrCodeUpstream,
			"The recipe service returned an error. Please try again later.",
		)
	}

	var body filterResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, apperrors.Wrap(
			fmt.Errorf("decode recipe response: %w", err),
			apperrors.ErrCodeUpstream,
			"The recipe service sent a response we could not read.",
		)
	}

	recipes := make([]model.Recipe, 0, len(body.Meals))
	for _, m := range body.Meals {
		recipes = append(recipes, model.Recipe{ID: m.ID, Name: m.Name, Thumbnail: m.Thumbnail})
	}
	return recipes, nil
}

func (c *Client) filterURL(ingredient string) string {
	u := *c.baseURL
	u.Path = u.Path + "/filter.php"
	u.RawQuery = url.Values{"i": []string{ingredient}}.Encode()
	return u.String()
}

func transportError(err error) error {
	var netErr interface{ Timeout() bool }
	switch {
	case errors.Is(err, context.Canceled):
		return apperrors.Wrap(err, apperrors.ErrCodeCanceled, "Request was canceled.")
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return apperrors.Wrap(err, apperrors.ErrCodeTimeout, "The recipe service took too long to respond.")
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeUpstream, "The recipe service is unavailable. Please try again later.")
	}
}
