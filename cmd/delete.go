package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/dsctl/dsc"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Delete a link you own",
	Long: `Remove a link permanently. The slug is shown with its current redirect
before the deletion is confirmed; use --no-confirm to skip the prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	slug := dsc.NormalizeSlug(args[0])

	// Show what is about to be removed
	link, err := client.GetLink(cmd.Context(), slug)
	if err != nil {
		if errors.Is(err, dsc.ErrNotFound) {
			return fmt.Errorf("link '%s' does not exist", slug)
		}
		return err
	}

	printLink(*link)

	if cfg.Safety.DryRun {
		fmt.Printf("[DRY RUN] Would delete https://dsc.gg/%s\n", slug)
		return nil
	}

	if cfg.Safety.ConfirmDelete && !noConfirm {
		if !confirm(fmt.Sprintf("Delete https://dsc.gg/%s?", slug)) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := client.DeleteLink(cmd.Context(), slug); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted https://dsc.gg/%s\n", slug)
	return nil
}
