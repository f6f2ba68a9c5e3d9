package cmd

import (
	"github.com/spf13/cobra"
)

var searchLimit int

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the link database",
	Long: `Search dsc.gg for links matching a query. Requires an API key from a
whitelisted app.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 lets the server decide)")
	searchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	searchCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	searchCmd.Flags().BoolVar(&outputJSON, "json", false, "print links as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	f, err := compileFilter()
	if err != nil {
		return err
	}

	logger.Info().Str("query", args[0]).Msg("Searching links")

	links, err := client.Search(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return err
	}

	return outputLinks(applyFilter(f, links))
}
