package providers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/printing"
	infra "github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/printing"
)

type stubProvider struct {
	data *infra.ReceiptData
}

func (s *stubProvider) GetDocType() printing.DocType { return printing.DocTypeBillReceipt }

func (s *stubProvider) GetData(_ context.Context, _ uuid.UUID, _ infra.ReceiptOptions) (*infra.ReceiptData, error) {
	return s.data, nil
}

func TestDataProviderRegistry(t *testing.T) {
	registry := NewDataProviderRegistry()
	assert.False(t, registry.HasProvider(printing.DocTypeBillReceipt))
	assert.Empty(t, registry.RegisteredTypes())

	registry.Register(nil)
	assert.Empty(t, registry.RegisteredTypes())

	want := &infra.ReceiptData{InvoiceNumber: "TB0001"}
	registry.Register(&stubProvider{data: want})

	assert.True(t, registry.HasProvider(printing.DocTypeBillReceipt))
	assert.Equal(t, []printing.DocType{printing.DocTypeBillReceipt}, registry.RegisteredTypes())

	got, err := registry.LoadData(context.Background(), printing.DocTypeBillReceipt, uuid.New(), infra.ReceiptOptions{})
	require.NoError(t, err)
	assert.Same(t, want, got)

	_, err = registry.LoadData(context.Background(), "UNKNOWN", uuid.New(), infra.ReceiptOptions{})
	assert.ErrorContains(t, err, "no data provider registered")
}
