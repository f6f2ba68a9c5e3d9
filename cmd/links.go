package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// linksCmd represents the links command
var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "List links",
	Long: `List links owned by a user, the current popularity ranking, or one
page of the public index. Results can be narrowed with a filter
expression, a named preset from the config, or the configured default
filter.`,
}

var linksUserCmd = &cobra.Command{
	Use:   "user <discord-id>",
	Short: "List every link owned by a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runLinksUser,
}

var linksTopCmd = &cobra.Command{
	Use:   "top",
	Short: "List the most popular links",
	RunE:  runLinksTop,
}

var linksPageCmd = &cobra.Command{
	Use:   "page <number>",
	Short: "List one page of the public link index",
	Args:  cobra.ExactArgs(1),
	RunE:  runLinksPage,
}

func init() {
	rootCmd.AddCommand(linksCmd)

	linksCmd.AddCommand(linksUserCmd)
	linksCmd.AddCommand(linksTopCmd)
	linksCmd.AddCommand(linksPageCmd)

	linksCmd.PersistentFlags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	linksCmd.PersistentFlags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	linksCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print links as JSON")
}

func runLinksUser(cmd *cobra.Command, args []string) error {
	userID, err := parseSnowflake(args[0])
	if err != nil {
		return err
	}

	f, err := compileFilter()
	if err != nil {
		return err
	}

	logger.Info().Str("user", userID.String()).Msg("Fetching user links")

	links, err := client.GetUserLinks(cmd.Context(), userID)
	if err != nil {
		return err
	}

	return outputLinks(applyFilter(f, links))
}

func runLinksTop(cmd *cobra.Command, args []string) error {
	f, err := compileFilter()
	if err != nil {
		return err
	}

	links, err := client.TopLinks(cmd.Context())
	if err != nil {
		return err
	}

	return outputLinks(applyFilter(f, links))
}

func runLinksPage(cmd *cobra.Command, args []string) error {
	page, err := strconv.Atoi(args[0])
	if err != nil || page < 1 {
		return fmt.Errorf("invalid page '%s': pages start at 1", args[0])
	}

	f, err := compileFilter()
	if err != nil {
		return err
	}

	links, err := client.FetchLinks(cmd.Context(), page)
	if err != nil {
		return err
	}

	return outputLinks(applyFilter(f, links))
}
