package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsgraph/tsgraph/internal/persistence"
)

func connect(ctx context.Context) (*persistence.Neo4jStore, error) {
	return persistence.NewNeo4jStore(ctx, cfg.Store.URI, cfg.Store.User, cfg.Store.Password, cfg.Store.Database)
}

func printRows(rows []map[string]any) {
	if outputJSON {
		enc := json.NewEncoder(cmdOut)
		enc.SetIndent("", "  ")
		enc.Encode(rows)
		return
	}
	for _, row := range rows {
		fmt.Fprintln(cmdOut, row)
	}
}

var nodeCmd = &cobra.Command{
	Use:   "node <id>",
	Short: "Look up a single node by its deterministic ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := connect(ctx)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		rows, err := store.Query(ctx, `
MATCH (n {id: $id})
RETURN n.id AS id, n.coreType AS coreType, n.semanticType AS semanticType,
       labels(n) AS labels, properties(n) AS properties
`, map[string]any{"id": args[0]})
		if err != nil {
			return err
		}
		printRows(rows)
		return nil
	},
}

var neighborsCmd = &cobra.Command{
	Use:   "neighbors <id>",
	Short: "List every edge touching a node, in either direction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := connect(ctx)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		rows, err := store.Query(ctx, `
MATCH (n {id: $id})-[r]-(other)
RETURN type(r) AS relationship, startNode(r).id AS startId, endNode(r).id AS endId,
       other.id AS otherId, other.coreType AS otherCoreType, other.name AS otherName
`, map[string]any{"id": args[0]})
		if err != nil {
			return err
		}
		printRows(rows)
		return nil
	},
}

var cypherCmd = &cobra.Command{
	Use:   "cypher <statement>",
	Short: "Run a raw read-only Cypher statement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := connect(ctx)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		rows, err := store.Query(ctx, args[0], nil)
		if err != nil {
			return err
		}
		printRows(rows)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <project-id>",
	Short: "Print a project's lifecycle status and node/edge counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := connect(ctx)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		rows, err := store.Query(ctx, `
MATCH (p:Project {projectId: $projectId})
RETURN p.status AS status, p.nodeCount AS nodeCount, p.edgeCount AS edgeCount, p.path AS path
`, map[string]any{"projectId": args[0]})
		if err != nil {
			return err
		}
		printRows(rows)
		return nil
	},
}
