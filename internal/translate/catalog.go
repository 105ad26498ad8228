package translate

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// Catalog resolves the selectable models of a provider. Fetched lists are
// cached for the life of the catalog; a failed fetch returns the provider's
// fallback list without caching it, so the next call tries again.
type Catalog struct {
	client *http.Client
	log    *slog.Logger

	mu      sync.Mutex
	fetched map[string][]Model
}

// NewCatalog returns an empty catalog.
func NewCatalog(client *http.Client, log *slog.Logger) *Catalog {
	opts := Options{Client: client, Log: log}.withDefaults()
	return &Catalog{client: opts.Client, log: opts.Log, fetched: make(map[string][]Model)}
}

// Models returns p's models. Only providers with a ModelsURL hit the network.
func (c *Catalog) Models(ctx context.Context, p Provider) []Model {
	if p.ModelsURL == "" {
		return append([]Model(nil), p.Models...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if models, ok := c.fetched[p.Key]; ok {
		return append([]Model(nil), models...)
	}

	models, err := c.fetch(ctx, p)
	if err != nil {
		c.log.Warn("failed to fetch model list, using fallback", "provider", p.Key, "error", err)
		return append([]Model(nil), p.Fallback...)
	}
	c.fetched[p.Key] = models
	return append([]Model(nil), models...)
}

// fetch lists the free models (ids ending in ":free"), sorted by name.
func (c *Catalog) fetch(ctx context.Context, p Provider) ([]Model, error) {
	req, err := http.NewRequest(http.MethodGet, p.ModelsURL, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []Model `json:"data"`
	}
	if err := do(ctx, c.client, p.Key, req, &resp); err != nil {
		return nil, err
	}

	var models []Model
	for _, m := range resp.Data {
		if strings.HasSuffix(m.ID, ":free") {
			if m.Name == "" {
				m.Name = m.ID
			}
			models = append(models, m)
		}
	}
	if len(models) == 0 {
		return nil, emptyResponse(p.Key, "no free models listed")
	}
	sort.SliceStable(models, func(i, j int) bool {
		return strings.ToLower(models[i].Name) < strings.ToLower(models[j].Name)
	})
	return models, nil
}

// DefaultModel returns the first model of p, or "".
func (c *Catalog) DefaultModel(ctx context.Context, p Provider) string {
	models := c.Models(ctx, p)
	if len(models) == 0 {
		return ""
	}
	return models[0].ID
}
