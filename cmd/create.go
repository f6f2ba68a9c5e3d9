package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/dsctl/dsc"
)

var (
	createType        string
	createTitle       string
	createDescription string
	createColor       string
	createImage       string
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create <slug> <redirect>",
	Short: "Register a new short link",
	Long: `Register a new dsc.gg/<slug> link pointing at a Discord invite, bot
authorization URL, or server template. When --type is omitted it is
derived from the redirect URL.`,
	Args: cobra.ExactArgs(2),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVarP(&createType, "type", "t", "", "link type: bot, server, or template (default: derived from redirect)")
	createCmd.Flags().StringVar(&createTitle, "title", "", "embed title")
	createCmd.Flags().StringVar(&createDescription, "description", "", "embed description")
	createCmd.Flags().StringVar(&createColor, "color", "", "embed color (palette name or #rrggbb)")
	createCmd.Flags().StringVar(&createImage, "image", "", "embed image URL")
}

func runCreate(cmd *cobra.Command, args []string) error {
	slug := dsc.NormalizeSlug(args[0])
	redirect := args[1]

	linkType := dsc.LinkType(createType)
	if createType == "" {
		linkType = dsc.MatchLinkType(redirect)
		if linkType == dsc.LinkTypeLink {
			return fmt.Errorf("cannot derive a link type from '%s'; pass --type bot, server, or template", redirect)
		}
	}

	embed, err := embedFromFlags(createTitle, createDescription, createColor, createImage)
	if err != nil {
		return err
	}

	if cfg.Safety.DryRun {
		fmt.Printf("[DRY RUN] Would create https://dsc.gg/%s → %s (type: %s)\n", slug, redirect, linkType)
		return nil
	}

	err = client.CreateLink(cmd.Context(), slug, redirect, linkType, embed)
	if err != nil {
		if errors.Is(err, dsc.ErrConflict) {
			return fmt.Errorf("slug '%s' is already taken", slug)
		}
		return err
	}

	fmt.Printf("✓ Created https://dsc.gg/%s → %s\n", slug, redirect)
	return nil
}

// embedFromFlags builds an embed from command flags, or nil when no
// embed flag was set.
func embedFromFlags(title, description, colorArg, image string) (*dsc.Embed, error) {
	if title == "" && description == "" && colorArg == "" && image == "" {
		return nil, nil
	}

	embed := &dsc.Embed{
		Title:       title,
		Description: description,
		Image:       image,
	}
	if colorArg != "" {
		color, err := parseColorArg(colorArg)
		if err != nil {
			return nil, err
		}
		embed.Color = color
	}
	return embed, nil
}
