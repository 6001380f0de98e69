package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"golang-finance-rag/pkg/config"
)

// NewDriver opens a bolt connection and verifies it is reachable.
// The caller decides how to handle an unreachable graph.
func NewDriver(ctx context.Context, cfg config.Neo4j) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j not reachable: %w", err)
	}

	return driver, nil
}
