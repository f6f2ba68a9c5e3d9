package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/dsctl/dsc"
)

var exportOutput string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <discord-id>",
	Short: "Export a user's profile, links, and announcements",
	Long: `Collect everything the API knows about a user into a single JSON
document: the profile, every owned link, and any announcements sent to
them. Requires an API key.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write the export to a file instead of stdout")
	exportCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to the exported links")
	exportCmd.Flags().StringVarP(&preset, "preset", "p", "", "named filter preset from the config file")
}

func runExport(cmd *cobra.Command, args []string) error {
	userID, err := parseSnowflake(args[0])
	if err != nil {
		return err
	}

	f, err := compileFilter()
	if err != nil {
		return err
	}

	var (
		user          *dsc.User
		links         []dsc.Link
		announcements []dsc.Announcement
	)

	// Fetch the three views of the account concurrently
	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		var err error
		user, err = client.GetUser(ctx, userID)
		return err
	})

	g.Go(func() error {
		var err error
		links, err = client.GetUserLinks(ctx, userID)
		return err
	})

	g.Go(func() error {
		var err error
		announcements, err = client.GetAnnouncements(ctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to export user %s: %w", userID, err)
	}

	links = applyFilter(f, links)

	announcementDicts := make([]map[string]any, len(announcements))
	for i := range announcements {
		announcementDicts[i] = announcements[i].ToDict()
	}

	export := map[string]any{
		"exported_at":   time.Now().UTC().Format(time.RFC3339),
		"user":          user.ToDict(),
		"links":         linkDicts(links),
		"announcements": announcementDicts,
	}

	if exportOutput == "" {
		return printJSON(export)
	}

	out, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if err := os.WriteFile(exportOutput, out, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	logger.Info().
		Str("path", exportOutput).
		Int("links", len(links)).
		Msg("Export written")
	fmt.Printf("✓ Exported %s to %s\n", userID, exportOutput)
	return nil
}
