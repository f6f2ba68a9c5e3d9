package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/dsctl/dsc"
)

var transferComment string

// transferCmd represents the transfer command
var transferCmd = &cobra.Command{
	Use:   "transfer <slug> <discord-id>",
	Short: "Transfer a link to another user",
	Long: `Hand ownership of a link to another Discord user. The transfer takes
effect immediately and cannot be undone from this side.`,
	Args: cobra.ExactArgs(2),
	RunE: runTransfer,
}

func init() {
	rootCmd.AddCommand(transferCmd)

	transferCmd.Flags().StringVar(&transferComment, "comment", "", "message shown to the receiving user")
	transferCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip the confirmation prompt")
}

func runTransfer(cmd *cobra.Command, args []string) error {
	slug := dsc.NormalizeSlug(args[0])

	target, err := parseSnowflake(args[1])
	if err != nil {
		return err
	}

	if cfg.Safety.DryRun {
		fmt.Printf("[DRY RUN] Would transfer https://dsc.gg/%s to %s\n", slug, target)
		return nil
	}

	if cfg.Safety.ConfirmDelete && !noConfirm {
		if !confirm(fmt.Sprintf("Transfer https://dsc.gg/%s to %s?", slug, target)) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := client.TransferLink(cmd.Context(), slug, target, transferComment); err != nil {
		if errors.Is(err, dsc.ErrNotFound) {
			return fmt.Errorf("link '%s' does not exist", slug)
		}
		return err
	}

	fmt.Printf("✓ Transferred https://dsc.gg/%s to %s\n", slug, target)
	return nil
}
