package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/dsctl/dsc"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch a single resource",
	Long:  `Fetch one link, user, developer app, or a user's announcements.`,
}

var getLinkCmd = &cobra.Command{
	Use:   "link <slug>",
	Short: "Show one link",
	Long:  `Fetch a single link by slug or full dsc.gg URL.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGetLink,
}

var getUserCmd = &cobra.Command{
	Use:   "user <discord-id>",
	Short: "Show a dsc.gg account",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetUser,
}

var getAppCmd = &cobra.Command{
	Use:   "app <app-id>",
	Short: "Show a developer application",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetApp,
}

var getAnnouncementsCmd = &cobra.Command{
	Use:   "announcements <discord-id>",
	Short: "Show the announcements addressed to a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetAnnouncements,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.AddCommand(getLinkCmd)
	getCmd.AddCommand(getUserCmd)
	getCmd.AddCommand(getAppCmd)
	getCmd.AddCommand(getAnnouncementsCmd)

	getCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print as JSON")
}

func runGetLink(cmd *cobra.Command, args []string) error {
	link, err := client.GetLink(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, dsc.ErrNotFound) {
			return fmt.Errorf("link '%s' does not exist", dsc.NormalizeSlug(args[0]))
		}
		return err
	}

	if outputJSON {
		return printJSON(link.ToDict())
	}

	printLink(*link)
	if len(link.Editors) > 0 {
		fmt.Printf("  Editors: ")
		for i, editor := range link.Editors {
			if i > 0 {
				fmt.Printf(", ")
			}
			fmt.Printf("%s", editor)
		}
		fmt.Println()
	}
	return nil
}

func runGetUser(cmd *cobra.Command, args []string) error {
	userID, err := parseSnowflake(args[0])
	if err != nil {
		return err
	}

	user, err := client.GetUser(cmd.Context(), userID)
	if err != nil {
		if errors.Is(err, dsc.ErrNotFound) {
			return fmt.Errorf("no dsc.gg account for user %s", userID)
		}
		return err
	}

	if outputJSON {
		return printJSON(user.ToDict())
	}

	fmt.Printf("User %s\n", user.ID)
	fmt.Printf("  Premium: %s\n", yesNo(user.Premium))
	fmt.Printf("  Verified: %s\n", yesNo(user.Verified))
	fmt.Printf("  Staff: %s\n", yesNo(user.Staff))
	fmt.Printf("  Blacklisted: %s\n", yesNo(user.Blacklisted))
	if !user.JoinedAt.IsZero() {
		fmt.Printf("  Joined: %s\n", user.JoinedAt.Format("2006-01-02"))
	}
	return nil
}

func runGetApp(cmd *cobra.Command, args []string) error {
	appID, err := parseSnowflake(args[0])
	if err != nil {
		return err
	}

	app, err := client.GetApp(cmd.Context(), appID)
	if err != nil {
		if errors.Is(err, dsc.ErrNotFound) {
			return fmt.Errorf("app %s does not exist", appID)
		}
		return err
	}

	if outputJSON {
		return printJSON(app.ToDict())
	}

	fmt.Printf("App %s\n", app.ID)
	fmt.Printf("  Owner: %s\n", app.OwnerID)
	fmt.Printf("  Verified: %s\n", yesNo(app.Verified))
	if !app.CreatedAt.IsZero() {
		fmt.Printf("  Created: %s\n", app.CreatedAt.Format("2006-01-02"))
	}
	if app.Key != "" {
		fmt.Printf("  Key: %s\n", app.Key)
	}
	return nil
}

func runGetAnnouncements(cmd *cobra.Command, args []string) error {
	userID, err := parseSnowflake(args[0])
	if err != nil {
		return err
	}

	announcements, err := client.GetAnnouncements(cmd.Context(), userID)
	if err != nil {
		return err
	}

	if outputJSON {
		dicts := make([]map[string]any, len(announcements))
		for i := range announcements {
			dicts[i] = announcements[i].ToDict()
		}
		return printJSON(dicts)
	}

	if len(announcements) == 0 {
		fmt.Println("No announcements.")
		return nil
	}

	for _, a := range announcements {
		fmt.Printf("[%s] %s\n", a.Type, a.Message)
		fmt.Printf("  From: %s  For: %s\n", a.Author, a.Recipients)
	}
	return nil
}
