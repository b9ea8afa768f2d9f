package integration

import (
	"context"
	"database/sql"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/iyhunko/product-inventory/internal/config"
	reposql "github.com/iyhunko/product-inventory/internal/repository/sql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
)

const (
	migrationsSource = "file://../migrations"
	postgresImage    = "postgres"
	postgresTag      = "16-alpine"
	containerTTL     = 180 // seconds
)

// testDBConf holds the credentials the container is started with. Host and
// port are filled in once the container is running.
var testDBConf = config.DB{
	User:     "inventory",
	Password: "secret",
	Name:     "inventory_test",
}

// TestDB is a migrated PostgreSQL database running in a throwaway container.
type TestDB struct {
	DB   *sql.DB
	Conf config.DB
}

// SetupTestDB starts PostgreSQL with dockertest, connects to it through the
// same driver and DSN the product service uses, and applies the migrations.
// The container is purged when the test finishes.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "connect to docker")
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: postgresImage,
		Tag:        postgresTag,
		Env: []string{
			"POSTGRES_USER=" + testDBConf.User,
			"POSTGRES_PASSWORD=" + testDBConf.Password,
			"POSTGRES_DB=" + testDBConf.Name,
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("purge postgres container: %s", err)
		}
	})
	require.NoError(t, resource.Expire(containerTTL))

	conf := testDBConf
	conf.Host, conf.Port, err = net.SplitHostPort(resource.GetHostPort("5432/tcp"))
	require.NoError(t, err)
	slog.Info("Waiting for test database", slog.String("host", conf.Host), slog.String("port", conf.Port))

	var db *sql.DB
	err = pool.Retry(func() error {
		var openErr error
		if db, openErr = sql.Open("pgx", reposql.DSN(conf)); openErr != nil {
			return openErr
		}
		return db.Ping()
	})
	require.NoError(t, err, "connect to postgres")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close test database: %s", err)
		}
	})

	require.NoError(t, reposql.RunMigrations(db, migrationsSource))

	return &TestDB{DB: db, Conf: conf}
}

// TruncateTables empties every table and restarts the id sequences.
func (tdb *TestDB) TruncateTables(t *testing.T) {
	t.Helper()

	_, err := tdb.DB.ExecContext(context.Background(), "TRUNCATE TABLE products, users RESTART IDENTITY CASCADE")
	require.NoError(t, err, "truncate tables")
}
