// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the ranking cache",
}

var cacheFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Clear every cached provider lookup",
	Long: `Flush clears the engine's whole cache namespace. The engine does not do
fine-grained invalidation; staleness is otherwise bounded by the TTL.`,
	RunE: runCacheFlush,
}

func init() {
	cacheCmd.AddCommand(cacheFlushCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheFlush(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	eng, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer eng.close()

	if err := eng.cache.Flush(ctx); err != nil {
		return err
	}
	fmt.Println("Cache flushed.")
	return nil
}
