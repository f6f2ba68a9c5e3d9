package cmd

import (
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// githubRepo is the release source for self-updates
const githubRepo = "s0up4200/dsctl"

var upgradeCheckOnly bool

// upgradeCmd represents the upgrade command
var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade dsctl to the latest release",
	Long: `Check GitHub for a newer dsctl release and replace the running binary
with it. Use --check to only report whether an update is available.`,
	RunE: runUpgrade,
}

func init() {
	rootCmd.AddCommand(upgradeCmd)

	upgradeCmd.Flags().BoolVar(&upgradeCheckOnly, "check", false, "check for updates without installing")
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(githubRepo))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", githubRepo)
	}

	// Development builds carry no comparable version
	if _, err := semver.ParseTolerant(appVersion); err != nil {
		fmt.Printf("Current version: %s (development build)\n", appVersion)
		fmt.Printf("Latest release:  %s\n", latest.Version())
		fmt.Println("Development builds cannot self-update; install a release build first.")
		return nil
	}

	if latest.LessOrEqual(appVersion) {
		fmt.Printf("✓ dsctl %s is up to date\n", appVersion)
		return nil
	}

	fmt.Printf("Current version: %s\n", appVersion)
	fmt.Printf("Latest release:  %s\n", latest.Version())

	if upgradeCheckOnly {
		fmt.Println("Run 'dsctl upgrade' to install.")
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}

	logger.Info().
		Str("current", appVersion).
		Str("latest", latest.Version()).
		Str("asset", latest.AssetName).
		Msg("Downloading update")

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Printf("✓ Updated to %s\n", latest.Version())
	return nil
}
