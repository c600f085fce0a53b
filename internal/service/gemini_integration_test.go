package service_test

import (
	"context"
	"os/exec"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/doggofresh/backend/internal/models"
	"github.com/doggofresh/backend/internal/service"
)

func setupRedis(t *testing.T) *goredis.Client {
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
	if err != nil {
		t.Fatalf("failed to start container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{Addr: host + ":" + mappedPort.Port()})
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestPlanStorageRoundTrip(t *testing.T) {
	client := setupRedis(t)
	svc, err := service.NewGeminiService(context.Background(), "", client, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	plan := &models.MealPlan{
		ProfileSummary: "Rocky, mestizo de 5 años",
		WeeklyPlan:     []models.DailyMeal{{Day: "Lunes", Breakfast: "Pollo", Dinner: "Res"}},
	}
	require.NoError(t, svc.SavePlan(ctx, "sub-1", plan))

	got, err := svc.GetPlan(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, plan, got)

	// The key carries a TTL so abandoned submissions age out.
	ttl, err := client.TTL(ctx, "mealplan:sub-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 23*time.Hour)
}

func TestGetPlanMissing(t *testing.T) {
	client := setupRedis(t)
	svc, err := service.NewGeminiService(context.Background(), "", client, zap.NewNop())
	require.NoError(t, err)

	_, err = svc.GetPlan(context.Background(), "never-submitted")
	assert.ErrorIs(t, err, service.ErrPlanNotFound)
}
