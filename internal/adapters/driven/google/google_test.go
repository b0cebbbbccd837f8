package google

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError(nil))

	notFound := &googleapi.Error{Code: 404}
	assert.ErrorIs(t, MapError(notFound), domain.ErrNotFound)

	unavailable := &googleapi.Error{Code: 503}
	assert.ErrorIs(t, MapError(unavailable), domain.ErrStoreUnavailable)

	forbidden := &googleapi.Error{Code: 403}
	assert.Equal(t, error(forbidden), MapError(forbidden))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, MapError(plain))
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(&googleapi.Error{Code: 429}))
	assert.False(t, IsRateLimited(&googleapi.Error{Code: 500}))
	assert.False(t, IsRateLimited(errors.New("other")))
	assert.False(t, IsRateLimited(nil))
}

func TestRateLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 2})

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
}

func TestRateLimiter_BackoffBlocksAllow(t *testing.T) {
	limiter := NewRateLimiter(ServiceDrive)
	limiter.RecordRateLimitError(30)

	assert.False(t, limiter.Allow())
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	limiter := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})
	require.NoError(t, limiter.Wait(context.Background()), "first token is free")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	assert.Error(t, err)
}

func TestNewRateLimiterForQPS_AppliesConfiguredRate(t *testing.T) {
	custom := NewRateLimiterForQPS(ServiceSheets, 2.5)
	assert.Equal(t, rate.Limit(2.5), custom.limiter.Limit())
	assert.Equal(t, DefaultRateLimits[ServiceSheets].BurstSize, custom.limiter.Burst())
}

func TestNewRateLimiterForQPS_ZeroFallsBackToDefaults(t *testing.T) {
	fallback := NewRateLimiterForQPS(ServiceDrive, 0)
	assert.Equal(t, rate.Limit(DefaultRateLimits[ServiceDrive].RequestsPerSecond), fallback.limiter.Limit())
	assert.Equal(t, DefaultRateLimits[ServiceDrive].BurstSize, fallback.limiter.Burst())
}

func TestNewServices_AccessToken(t *testing.T) {
	sheetsSvc, driveSvc, err := NewServices(context.Background(), "", "ya29.stored-token")

	require.NoError(t, err)
	assert.NotNil(t, sheetsSvc)
	assert.NotNil(t, driveSvc)
}

func TestNewServices_MissingCredentialsFile(t *testing.T) {
	_, _, err := NewServices(context.Background(), "/nonexistent/creds.json", "")

	assert.Error(t, err)
}
