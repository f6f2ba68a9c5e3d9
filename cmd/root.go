package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/dsctl/config"
	"github.com/s0up4200/dsctl/dsc"
	"github.com/s0up4200/dsctl/filter"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *dsc.Client

	appVersion   = "dev"
	appBuildTime = "unknown"

	// Command flags
	filterExpr string
	preset     string
	dryRun     bool
	noConfirm  bool
	outputJSON bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dsctl",
	Short: "Manage dsc.gg short links from the command line",
	Long: `dsctl is a CLI for the dsc.gg link shortener. It can inspect users,
links, and developer apps, search the public index, and create, update,
transfer, and delete links owned by your account.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion records the build information stamped in at link time
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
	rootCmd.Version = version
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "perform a dry run without making changes")
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Override dry-run from command line if specified
	if cmd.Flags().Changed("dry-run") {
		cfg.Safety.DryRun = dryRun
	}

	authMode, err := dsc.ParseAuthMode(cfg.DSC.AuthMode)
	if err != nil {
		return fmt.Errorf("invalid auth mode: %w", err)
	}

	opts := []dsc.Option{
		dsc.WithAuthMode(authMode),
		dsc.WithTimeout(cfg.DSC.Timeout),
		dsc.WithUserAgent("dsctl/" + appVersion),
	}
	if cfg.DSC.BaseURL != "" {
		opts = append(opts, dsc.WithBaseURL(cfg.DSC.BaseURL))
	}

	// Create dsc.gg client; an empty API key still serves public reads
	client, err = dsc.NewClient(cfg.DSC.APIKey, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create dsc.gg client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	format := cfg.Format
	if format == "auto" {
		// Humans get the console writer, pipes get JSON
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			format = "console"
		} else {
			format = "json"
		}
	}

	if format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// getFilterExpression determines the filter expression to use
func getFilterExpression() (string, error) {
	// Priority: command line filter > preset > default
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if presetExpr, ok := cfg.Filter.Presets[preset]; ok {
			return presetExpr, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return cfg.Filter.Default, nil
}

// compileFilter compiles the active filter expression. An empty
// expression means no filtering.
func compileFilter() (*filter.Filter, error) {
	expression, err := getFilterExpression()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(expression) == "" {
		return nil, nil
	}

	f, err := filter.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	logger.Debug().Str("filter", f.Expression()).Msg("Filter compiled")
	return f, nil
}

func applyFilter(f *filter.Filter, links []dsc.Link) []dsc.Link {
	if f == nil {
		return links
	}
	return f.Apply(links)
}

// parseSnowflake parses a Discord ID argument
func parseSnowflake(arg string) (dsc.Snowflake, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid Discord ID '%s'", arg)
	}
	return dsc.Snowflake(id), nil
}

// parseColorArg accepts palette names and hex strings
func parseColorArg(s string) (dsc.Color, error) {
	if c, ok := dsc.NamedColor(s); ok {
		return c, nil
	}
	c, err := dsc.ParseColor(s)
	if err != nil {
		return 0, fmt.Errorf("unknown color '%s' (use a palette name or #rrggbb)", s)
	}
	return c, nil
}

// confirm prompts for a yes/no answer, defaulting to no
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var response string
	fmt.Scanln(&response)
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// printJSON writes v to stdout as indented JSON
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func linkDicts(links []dsc.Link) []map[string]any {
	dicts := make([]map[string]any, len(links))
	for i := range links {
		dicts[i] = links[i].ToDict()
	}
	return dicts
}

// printLink prints one link, with detail lines when configured
func printLink(link dsc.Link) {
	fmt.Printf("• %s → %s", link.URL(), link.Redirect)
	if flags := linkFlags(link); flags != "" {
		fmt.Printf(" [%s]", flags)
	}
	fmt.Println()

	if cfg.Safety.ShowDetails {
		fmt.Printf("  Type: %s\n", link.Type)
		fmt.Printf("  Owner: %s\n", link.OwnerID)
		if !link.CreatedAt.IsZero() {
			fmt.Printf("  Created: %s\n", link.CreatedAt.Format("2006-01-02"))
		}
		if !link.BumpedAt.IsZero() {
			fmt.Printf("  Bumped: %s\n", link.BumpedAt.Format("2006-01-02"))
		}
		if link.Embed.Title != "" {
			fmt.Printf("  Title: %s\n", link.Embed.Title)
		}
	}
}

func linkFlags(link dsc.Link) string {
	var flags []string
	if link.Unlisted {
		flags = append(flags, "UNLISTED")
	}
	if link.Disabled {
		flags = append(flags, "DISABLED")
	}
	return strings.Join(flags, ", ")
}

func printLinks(links []dsc.Link) {
	if len(links) == 0 {
		fmt.Println("No links found matching the filter criteria.")
		return
	}

	fmt.Printf("\nFound %d links:\n", len(links))
	fmt.Println(strings.Repeat("-", 80))
	for _, link := range links {
		printLink(link)
	}
}

// outputLinks prints a link list in the selected format
func outputLinks(links []dsc.Link) error {
	if outputJSON {
		return printJSON(linkDicts(links))
	}
	printLinks(links)
	return nil
}
