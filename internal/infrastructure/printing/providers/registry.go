// Package providers implements DataProvider for loading receipt data from repositories.
package providers

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/printing"
	infra "github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/printing"
)

// DataProviderRegistry maps document types to their DataProvider.
type DataProviderRegistry struct {
	mu        sync.RWMutex
	providers map[printing.DocType]infra.DataProvider
}

// NewDataProviderRegistry creates a new empty DataProviderRegistry.
func NewDataProviderRegistry() *DataProviderRegistry {
	return &DataProviderRegistry{
		providers: make(map[printing.DocType]infra.DataProvider),
	}
}

// Register adds a DataProvider to the registry.
// If a provider for the same DocType already exists, it will be replaced.
func (r *DataProviderRegistry) Register(provider infra.DataProvider) {
	if provider == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.GetDocType()] = provider
}

// GetProvider returns the DataProvider for the given DocType.
// Returns (nil, false) if no provider is registered for that type.
func (r *DataProviderRegistry) GetProvider(docType printing.DocType) (infra.DataProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[docType]
	return provider, ok
}

// LoadData loads receipt data using the provider registered for docType.
func (r *DataProviderRegistry) LoadData(ctx context.Context, docType printing.DocType, documentID uuid.UUID, opts infra.ReceiptOptions) (*infra.ReceiptData, error) {
	provider, ok := r.GetProvider(docType)
	if !ok {
		return nil, fmt.Errorf("no data provider registered for document type: %s", docType)
	}
	return provider.GetData(ctx, documentID, opts)
}

// HasProvider checks if a provider is registered for the given DocType.
func (r *DataProviderRegistry) HasProvider(docType printing.DocType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[docType]
	return ok
}

// RegisteredTypes returns the registered document types in sorted order.
func (r *DataProviderRegistry) RegisteredTypes() []printing.DocType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.providers))
}
