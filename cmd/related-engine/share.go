// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/related-engine/internal/shares"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Maintain share records of the bundled local provider",
	Long: `Share adds or removes share records in the local provider's SQLite
database. Every mutation flushes the ranking cache, matching the engine's
share-created/share-deleted invalidation hooks.`,
}

var shareAddCmd = &cobra.Command{
	Use:   "add <itemId> <entityId>",
	Short: "Share an item with a user, group, or circle",
	Args:  cobra.ExactArgs(2),
	RunE:  runShareAdd,
}

var shareRemoveCmd = &cobra.Command{
	Use:   "remove <itemId> <entityId>",
	Short: "Remove a share",
	Args:  cobra.ExactArgs(2),
	RunE:  runShareRemove,
}

func init() {
	shareAddCmd.Flags().String("title", "", "item display title (defaults to the item id)")
	shareAddCmd.Flags().String("url", "", "deep link to the item")
	shareAddCmd.Flags().String("type", "user", "grantee type: user, group, or circle")
	shareAddCmd.Flags().String("creator", "", "entity creating the share (required)")
	shareAddCmd.Flags().Int64("created", 0, "share creation unix timestamp (defaults to now)")

	shareCmd.AddCommand(shareAddCmd)
	shareCmd.AddCommand(shareRemoveCmd)
	rootCmd.AddCommand(shareCmd)
}

func runShareAdd(cmd *cobra.Command, args []string) error {
	creator, _ := cmd.Flags().GetString("creator")
	if creator == "" {
		return fmt.Errorf("creator required: pass --creator with the sharing entity id")
	}

	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		title = args[0]
	}
	url, _ := cmd.Flags().GetString("url")
	entityType, _ := cmd.Flags().GetString("type")
	created, _ := cmd.Flags().GetInt64("created")
	if created == 0 {
		created = time.Now().Unix()
	}

	ctx := context.Background()
	eng, err := shareEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.close()

	err = eng.shares.AddShare(ctx, shares.Share{
		ItemID:     args[0],
		Title:      title,
		URL:        url,
		EntityID:   args[1],
		EntityType: entityType,
		Creator:    creator,
		Created:    created,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Shared %s with %s\n", args[0], args[1])
	return nil
}

func runShareRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	eng, err := shareEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.close()

	if err := eng.shares.RemoveShare(ctx, args[0], args[1]); err != nil {
		return err
	}

	fmt.Printf("Removed share of %s to %s\n", args[0], args[1])
	return nil
}

// shareEngine builds the engine and checks the local provider is on.
func shareEngine(ctx context.Context) (*engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Shares.Enabled {
		return nil, fmt.Errorf("local share provider disabled: enable shares in the configuration")
	}
	return buildEngine(ctx, cfg)
}
