package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/dsctl/dsc"
)

var (
	updateRedirect    string
	updateType        string
	updatePassword    string
	updateUnlisted    bool
	updateTitle       string
	updateDescription string
	updateColor       string
	updateImage       string
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <slug>",
	Short: "Change an existing link",
	Long: `Apply a partial update to a link you own. Only the fields passed as
flags are touched; the slug itself cannot be renamed. Passing any embed
flag replaces the whole embed, including its color.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVar(&updateRedirect, "redirect", "", "new redirect URL")
	updateCmd.Flags().StringVarP(&updateType, "type", "t", "", "new link type")
	updateCmd.Flags().StringVar(&updatePassword, "password", "", "password protecting the link (empty clears it)")
	updateCmd.Flags().BoolVar(&updateUnlisted, "unlisted", false, "hide the link from the public index")
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "embed title")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "embed description")
	updateCmd.Flags().StringVar(&updateColor, "color", "", "embed color (palette name or #rrggbb)")
	updateCmd.Flags().StringVar(&updateImage, "image", "", "embed image URL")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	slug := dsc.NormalizeSlug(args[0])

	var update dsc.LinkUpdate
	if cmd.Flags().Changed("redirect") {
		update.Redirect = &updateRedirect
	}
	if cmd.Flags().Changed("type") {
		linkType := dsc.LinkType(updateType)
		if !linkType.Valid() {
			return fmt.Errorf("invalid link type '%s' (bot, server, template, link)", updateType)
		}
		update.Type = &linkType
	}
	if cmd.Flags().Changed("password") {
		update.Password = &updatePassword
	}
	if cmd.Flags().Changed("unlisted") {
		update.Unlisted = &updateUnlisted
	}

	embed, err := embedFromFlags(updateTitle, updateDescription, updateColor, updateImage)
	if err != nil {
		return err
	}
	update.Embed = embed

	if update == (dsc.LinkUpdate{}) {
		return fmt.Errorf("nothing to update; pass at least one flag")
	}

	if cfg.Safety.DryRun {
		fmt.Printf("[DRY RUN] Would update https://dsc.gg/%s\n", slug)
		return nil
	}

	updated, err := client.UpdateLink(cmd.Context(), slug, update)
	if err != nil {
		if errors.Is(err, dsc.ErrNotFound) {
			return fmt.Errorf("link '%s' does not exist", slug)
		}
		return err
	}

	fmt.Printf("✓ Updated https://dsc.gg/%s\n", slug)
	if updated != nil && cfg.Safety.ShowDetails {
		printLink(*updated)
	}
	return nil
}
