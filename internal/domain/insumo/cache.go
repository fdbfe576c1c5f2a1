package insumo

import (
	"context"
	"sync"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// FormatFetcher obtiene los formatos de un insumo desde la fuente externa.
type FormatFetcher func(ctx context.Context, materialID string) ([]entity.Format, error)

// FormatCache memoriza los formatos utilizables (ya ordenados) por id de insumo:
// si no se conocen se obtienen, si no se reutilizan. Los errores no se memorizan.
type FormatCache struct {
	mu    sync.RWMutex
	items map[string][]entity.Format
	fetch FormatFetcher
}

// NewFormatCache construye la caché sobre el fetcher indicado.
func NewFormatCache(fetch FormatFetcher) *FormatCache {
	return &FormatCache{items: make(map[string][]entity.Format), fetch: fetch}
}

// Get devuelve los formatos del insumo, consultando la fuente solo la primera vez.
func (c *FormatCache) Get(ctx context.Context, materialID string) ([]entity.Format, error) {
	c.mu.RLock()
	f, ok := c.items[materialID]
	c.mu.RUnlock()
	if ok {
		return f, nil
	}

	raw, err := c.fetch(ctx, materialID)
	if err != nil {
		return nil, err
	}
	usable := UsableFormats(raw)

	c.mu.Lock()
	if existing, ok := c.items[materialID]; ok {
		usable = existing
	} else {
		c.items[materialID] = usable
	}
	c.mu.Unlock()
	return usable, nil
}

// Invalidate vacía la caché completa (cambio de bodega o de catálogo).
func (c *FormatCache) Invalidate() {
	c.mu.Lock()
	c.items = make(map[string][]entity.Format)
	c.mu.Unlock()
}

// InvalidateMaterial descarta la entrada de un insumo.
func (c *FormatCache) InvalidateMaterial(materialID string) {
	c.mu.Lock()
	delete(c.items, materialID)
	c.mu.Unlock()
}

// Len número de insumos en caché.
func (c *FormatCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
