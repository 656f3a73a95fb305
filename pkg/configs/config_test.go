package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	c := Defaults()

	require.NoError(t, Validate(&c))
	assert.Equal(t, 5000, c.Server.Port)
	assert.Equal(t, SQLite, c.DB.Type)
	assert.Equal(t, KVTypeMemory, c.KV.Type)
	assert.Equal(t, MQTypeMemory, c.MQ.Type)
	assert.Equal(t, 30*time.Second, c.Server.ShutdownTimeout)
	assert.Equal(t, time.Minute, c.CircuitBreaker.Interval)
}

func TestInitConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: 8088
  shutdown_timeout: 5s
db:
  type: sqlite
  database: ":memory:"
kv:
  type: memory
rate_limit:
  enabled: true
  rps: 5
  burst: 10
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("HAZOP_LOG_LEVEL", "debug")

	require.NoError(t, InitConfig(dir))

	c := GetConfig()
	assert.Equal(t, 8088, c.Server.Port)
	assert.Equal(t, 5*time.Second, c.Server.ShutdownTimeout)
	assert.Equal(t, ":memory:", c.DB.GetDSN())
	assert.True(t, c.RateLimit.Enabled)
	assert.Equal(t, 10, c.RateLimit.Burst)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), GetViper().ConfigFileUsed())
}

func TestInitConfigRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  port: 70000\n"), 0o600))

	err := InitConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestDBConfigDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DBConfig
		want string
	}{
		{"explicit dsn wins", DBConfig{Type: PostgreSQL, DSN: "postgres://x"}, "postgres://x"},
		{
			"postgres",
			DBConfig{Type: Pg, Host: "db", Port: 5432, User: "hz", Database: "hazop", SSLMode: "disable"},
			"host=db port=5432 user=hz dbname=hazop sslmode=disable",
		},
		{
			"mysql",
			DBConfig{Type: MariaDB, Host: "db", Port: 3306, User: "hz", Password: "pw", Database: "hazop"},
			"hz:pw@tcp(db:3306)/hazop?charset=utf8mb4&parseTime=True&loc=UTC",
		},
		{"sqlite path", DBConfig{Type: SQLite, Database: "data/hz"}, "file:data/hz.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"},
		{"sqlite uri", DBConfig{Type: SQLite, Database: "file:x.db"}, "file:x.db"},
		{"unknown", DBConfig{Type: "oracle"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.GetDSN())
		})
	}
}

func TestNATSServers(t *testing.T) {
	c := MQNATSConfig{URL: "nats://a:4222"}
	assert.Equal(t, "nats://a:4222", c.Servers())

	c.ClusterURLs = []string{"nats://b:4222", "nats://c:4222"}
	assert.Equal(t, "nats://b:4222,nats://c:4222", c.Servers())
}
