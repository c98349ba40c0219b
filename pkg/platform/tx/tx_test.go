package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrom(t *testing.T) {
	t.Run("empty context carries no transaction", func(t *testing.T) {
		_, ok := From(context.Background())
		assert.False(t, ok)
	})

	t.Run("nil transaction is not stored", func(t *testing.T) {
		ctx := WithTx(context.Background(), nil)
		_, ok := From(ctx)
		assert.False(t, ok)
	})
}

func TestPassthrough(t *testing.T) {
	t.Run("runs the function with the same context", func(t *testing.T) {
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, "marker")

		var seen context.Context
		err := Passthrough{}.RunInTx(ctx, func(ctx context.Context) error {
			seen = ctx
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "marker", seen.Value(key{}))
	})

	t.Run("propagates the function error", func(t *testing.T) {
		wantErr := errors.New("store failed")
		err := Passthrough{}.RunInTx(context.Background(), func(context.Context) error {
			return wantErr
		})
		assert.ErrorIs(t, err, wantErr)
	})
}
