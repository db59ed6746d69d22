package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/medicalnetwork/internal/domain/providers"
)

func TestBreakerGenerator_PassesThrough(t *testing.T) {
	gen := NewBreakerGenerator(providers.TextGeneratorFunc(func(_ context.Context, prompt string, files []providers.Attachment) (string, error) {
		return prompt + "!", nil
	}), BreakerSettings{})

	out, err := gen.Generate(context.Background(), "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "hi!", out)
	assert.Equal(t, "closed", gen.State())
}

func TestBreakerGenerator_OpensAfterFailures(t *testing.T) {
	calls := 0
	gen := NewBreakerGenerator(providers.TextGeneratorFunc(func(context.Context, string, []providers.Attachment) (string, error) {
		calls++
		return "", errors.New("upstream down")
	}), BreakerSettings{MaxFailures: 2, OpenTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := gen.Generate(context.Background(), "x", nil)
		require.Error(t, err)
		assert.False(t, errors.Is(err, providers.ErrGeneratorUnavailable))
	}

	_, err := gen.Generate(context.Background(), "x", nil)
	assert.True(t, errors.Is(err, providers.ErrGeneratorUnavailable))
	assert.Equal(t, 2, calls)
	assert.Equal(t, "open", gen.State())
}

func TestBreakerGenerator_AppliesTimeout(t *testing.T) {
	gen := NewBreakerGenerator(providers.TextGeneratorFunc(func(ctx context.Context, _ string, _ []providers.Attachment) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), BreakerSettings{Timeout: 10 * time.Millisecond})

	_, err := gen.Generate(context.Background(), "x", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
