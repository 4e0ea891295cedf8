//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rajarajendra1103/InnoLink/internal/config"
	"github.com/rajarajendra1103/InnoLink/internal/driver"
)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	_ = godotenv.Load("../../.env")

	if os.Getenv("MEMGRAPH_URI") == "" {
		t.Skip("Skipping integration test: MEMGRAPH_URI not set")
	}

	cfg, err := config.Resolve("../../config/config.toml")
	require.NoError(t, err)
	return cfg
}

func connect(t *testing.T, cfg *config.Config) *driver.MemgraphDriver {
	t.Helper()
	d, err := driver.NewMemgraphDriver(context.Background(), cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close(context.Background()) })
	require.NoError(t, d.BuildIndices(context.Background()))
	return d
}

func cleanup(t *testing.T, d driver.GraphDriver, corpusIDs []string, authorID string) {
	t.Helper()
	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = d.ExecuteQuery(ctx, `MATCH (n:CorpusItem) WHERE n.id IN $ids DETACH DELETE n`, map[string]interface{}{"ids": corpusIDs})
		_, _ = d.ExecuteQuery(ctx, `MATCH (r:IdeaRegistration {author_id: $aid}) DETACH DELETE r`, map[string]interface{}{"aid": authorID})
	})
}
