// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/related-engine/pkg/types"
)

var relatedCmd = &cobra.Command{
	Use:   "related <providerId> <itemId>",
	Short: "Rank resources related to an item",
	Long: `Related resolves the seed item, fans out over all registered providers
for every recipient of the seed, keeps candidates shared with exactly the
same audience, scores them, and prints the best matches for the viewing
principal.`,
	Args: cobra.ExactArgs(2),
	RunE: runRelated,
}

func init() {
	relatedCmd.Flags().String("principal", "", "viewing principal (user id, required)")
	relatedCmd.Flags().Int("limit", 0, "maximum results (0: configured default, negative: unbounded)")
	relatedCmd.Flags().Bool("json", false, "output results as JSON")
	relatedCmd.Flags().Bool("yaml", false, "output results as YAML")

	rootCmd.AddCommand(relatedCmd)
}

func runRelated(cmd *cobra.Command, args []string) error {
	principal, _ := cmd.Flags().GetString("principal")
	if principal == "" {
		return fmt.Errorf("principal required: pass --principal with the viewing user id")
	}
	limit, _ := cmd.Flags().GetInt("limit")

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

	resources, err := eng.service.RelatedToItem(ctx, principal, args[0], args[1], limit)
	if err != nil {
		return err
	}

	views := make([]types.PublicResource, len(resources))
	for i, r := range resources {
		views[i] = r.Public()
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}
	if yamlOut, _ := cmd.Flags().GetBool("yaml"); yamlOut {
		data, err := yaml.Marshal(views)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	formatTable(views, os.Stdout)
	return nil
}

// formatTable writes results as a human-readable table.
func formatTable(views []types.PublicResource, w io.Writer) {
	if len(views) == 0 {
		fmt.Fprintln(w, "No related resources found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-10s  %-40s  %-25s  %s\n",
		"Rank", "Provider", "Title", "Subtitle", "Score")
	fmt.Fprintln(w, strings.Repeat("-", 95))

	for i, v := range views {
		title := v.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		subtitle := v.Subtitle
		if len(subtitle) > 25 {
			subtitle = subtitle[:22] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-10s  %-40s  %-25s  %.3f\n",
			i+1, v.ProviderID, title, subtitle, v.Score)
	}

	fmt.Fprintf(w, "\n%d result(s)\n", len(views))
}
