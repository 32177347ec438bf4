package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldendrop/storefront/internal/repository"
)

func setupNewsletterRepo(t *testing.T) (*NewsletterRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := NewNewsletterRepository(client, 365*24*time.Hour)
	return repo, mr
}

func TestNewsletterRepository_NoDecision(t *testing.T) {
	repo, _ := setupNewsletterRepo(t)

	decision, err := repo.GetDecision(context.Background(), "visitor-1")
	require.NoError(t, err)
	assert.Empty(t, decision)
}

func TestNewsletterRepository_SaveAndGet(t *testing.T) {
	repo, _ := setupNewsletterRepo(t)

	require.NoError(t, repo.SaveDecision(context.Background(), "visitor-1", repository.DecisionSubscribed))

	decision, err := repo.GetDecision(context.Background(), "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, "subscribed", decision)
}

func TestNewsletterRepository_DeclineUsesHistoricalValue(t *testing.T) {
	repo, _ := setupNewsletterRepo(t)

	require.NoError(t, repo.SaveDecision(context.Background(), "visitor-2", repository.DecisionDeclined))

	decision, err := repo.GetDecision(context.Background(), "visitor-2")
	require.NoError(t, err)
	assert.Equal(t, "no_discount", decision)
}

func TestNewsletterRepository_DecisionExpiresAfterAYear(t *testing.T) {
	repo, mr := setupNewsletterRepo(t)

	require.NoError(t, repo.SaveDecision(context.Background(), "visitor-3", repository.DecisionDeclined))
	assert.Equal(t, 365*24*time.Hour, mr.TTL("newsletter:visitor-3"))

	mr.FastForward(365*24*time.Hour + time.Minute)

	decision, err := repo.GetDecision(context.Background(), "visitor-3")
	require.NoError(t, err)
	assert.Empty(t, decision, "the prompt may show again after the decision expires")
}
