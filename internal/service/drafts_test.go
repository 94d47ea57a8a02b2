package service

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestDraftLifecycle(t *testing.T) {
	client := setupTestRedis(t)
	svc := NewDraftService(client)
	ctx := context.Background()

	recipe := completeRecipe()
	require.NoError(t, svc.SaveDraft(ctx, recipe))

	// Lookup works by slug as well as by the original name.
	loaded, err := svc.GetDraft(ctx, "tarte_tatin")
	require.NoError(t, err)
	assert.Equal(t, "Tarte Tatin", loaded.Title)
	assert.Len(t, loaded.Ingredients, 1)
	require.NotNil(t, loaded.Playlist)

	loaded, err = svc.GetDraft(ctx, "Tarte Tatin")
	require.NoError(t, err)
	assert.Equal(t, "Tarte Tatin", loaded.Title)

	require.NoError(t, svc.DeleteDraft(ctx, "tarte_tatin"))
	_, err = svc.GetDraft(ctx, "tarte_tatin")
	assert.ErrorIs(t, err, ErrDraftNotFound)

	assert.NoError(t, svc.DeleteDraft(ctx, "tarte_tatin"), "deleting a missing draft succeeds")
}

func TestDraftTTLIsSet(t *testing.T) {
	client := setupTestRedis(t)
	svc := NewDraftService(client)
	ctx := context.Background()

	require.NoError(t, svc.SaveDraft(ctx, completeRecipe()))

	ttl, err := client.TTL(ctx, "recipe_draft:tarte_tatin").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 23*time.Hour)
	assert.LessOrEqual(t, ttl, 24*time.Hour)
}
