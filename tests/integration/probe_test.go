package integration

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bondradar/bondmon/pkg/health"
	"github.com/bondradar/bondmon/pkg/probe"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Docker not available, skipping: %v", err)
	}
	t.Cleanup(func() { container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})
	t.Cleanup(func() { client.Close() })

	return client
}

// setupPostgres creates a Postgres container seeded with a users table.
func setupPostgres(t *testing.T) *sqlx.DB {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("bondmon"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		t.Skipf("Docker not available, skipping: %v", err)
	}
	t.Cleanup(func() { container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		t.Fatalf("Failed to connect to Postgres: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	db.MustExec(`CREATE TABLE users (id SERIAL PRIMARY KEY, telegram_id BIGINT NOT NULL)`)
	db.MustExec(`INSERT INTO users (telegram_id) VALUES (1001), (1002), (1003)`)

	return db
}

func TestRedisProbe_Healthy(t *testing.T) {
	client := setupRedis(t)

	check := probe.Redis(client)
	result := check(context.Background())

	if result.Status != health.StatusHealthy {
		t.Errorf("status = %v, want healthy against a live redis", result.Status)
	}
	if _, ok := result.Details["ping_ms"]; !ok {
		t.Error("details should carry the ping latency")
	}
}

func TestRedisProbe_DownAfterStop(t *testing.T) {
	client := setupRedis(t)

	// Point the client at a closed port to simulate the instance going away.
	client.Close()
	dead := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer dead.Close()

	check := probe.Redis(dead)
	result := check(context.Background())

	if result.Status != health.StatusError {
		t.Errorf("status = %v, want error for an unreachable redis", result.Status)
	}
}

func TestDatabaseProbe_Healthy(t *testing.T) {
	db := setupPostgres(t)

	dbProbe := probe.Database(db)
	elapsed, userCount, err := dbProbe(context.Background())
	if err != nil {
		t.Fatalf("probe returned error: %v", err)
	}
	if userCount != 3 {
		t.Errorf("user count = %d, want 3", userCount)
	}
	if elapsed <= 0 {
		t.Errorf("elapsed = %v, want positive", elapsed)
	}

	check := health.DatabaseCheck(dbProbe)
	result := check(context.Background())
	if result.Status != health.StatusHealthy {
		t.Errorf("status = %v, want healthy against a live database", result.Status)
	}
	if got := result.Details["user_count"]; got != int64(3) {
		t.Errorf("user_count detail = %v, want 3", got)
	}
}

func TestDatabaseProbe_MissingTable(t *testing.T) {
	db := setupPostgres(t)
	db.MustExec(`DROP TABLE users`)

	check := health.DatabaseCheck(probe.Database(db))
	result := check(context.Background())

	if result.Status != health.StatusError {
		t.Errorf("status = %v, want error when the probe query fails", result.Status)
	}
	if result.Err == "" {
		t.Error("Err should describe the query failure")
	}
}
