package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/config"
	"go.uber.org/zap/zaptest"
)

func TestIdempotencyStoreFactory_CreateStore(t *testing.T) {
	unreachable := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	tests := []struct {
		name       string
		cfg        config.RedisConfig
		fallback   bool
		wantMemory bool
		wantErr    bool
	}{
		{"redis disabled", config.RedisConfig{}, true, true, false},
		{"redis unreachable falls back", unreachable, true, true, false},
		{"redis unreachable without fallback", unreachable, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewIdempotencyStoreFactory(tt.cfg,
				WithLogger(zaptest.NewLogger(t)),
				WithInMemoryFallback(tt.fallback))

			store, err := f.CreateStore(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "redis required")
				return
			}
			require.NoError(t, err)
			defer store.Close()

			_, isMemory := store.(*InMemoryIdempotencyStore)
			assert.Equal(t, tt.wantMemory, isMemory)
		})
	}
}
