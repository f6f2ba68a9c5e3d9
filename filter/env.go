package filter

import (
	"slices"
	"strings"
	"time"

	"github.com/s0up4200/dsctl/dsc"
)

// staticEnvironment returns the helper set used for compile-time checking
func staticEnvironment() map[string]any {
	env := make(map[string]any, 16)
	addHelperFunctions(env)
	return env
}

// addHelperFunctions adds the link-independent helpers to the environment
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["monthsAgo"] = func(months int) time.Time {
		return time.Now().AddDate(0, -months, 0)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	// String helpers
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	// Current time
	env["now"] = time.Now
}

// runtimeEnvironment builds the evaluation environment for one link
func runtimeEnvironment(link dsc.Link) map[string]any {
	env := make(map[string]any, 32)
	addHelperFunctions(env)

	// Link-specific helpers using closures
	env["hasEditor"] = createHasEditorFunc(link.Editors)
	env["ownedBy"] = createOwnedByFunc(link.OwnerID)
	env["isType"] = createIsTypeFunc(link.Type)

	// Direct link properties for convenience
	env["Link"] = link
	env["Slug"] = link.ID
	env["URL"] = link.URL()
	env["Redirect"] = link.Redirect
	env["Type"] = string(link.Type)
	env["Domain"] = link.Domain
	env["Unlisted"] = link.Unlisted
	env["Disabled"] = link.Disabled
	env["OwnerID"] = link.OwnerID.String()
	env["Editors"] = editorIDs(link.Editors)
	env["CreatedAt"] = link.CreatedAt.Time
	env["BumpedAt"] = link.BumpedAt.Time
	env["Bumped"] = !link.BumpedAt.IsZero()
	// Embed properties
	env["Title"] = link.Embed.Title
	env["Description"] = link.Embed.Description
	env["Color"] = link.Embed.Color.String()

	return env
}

func editorIDs(editors []dsc.Snowflake) []string {
	ids := make([]string, len(editors))
	for i, editor := range editors {
		ids[i] = editor.String()
	}
	return ids
}

func createHasEditorFunc(editors []dsc.Snowflake) func(string) bool {
	ids := editorIDs(editors)
	return func(id string) bool {
		return slices.Contains(ids, strings.TrimSpace(id))
	}
}

func createOwnedByFunc(owner dsc.Snowflake) func(string) bool {
	id := owner.String()
	return func(candidate string) bool {
		return id == strings.TrimSpace(candidate)
	}
}

func createIsTypeFunc(linkType dsc.LinkType) func(string) bool {
	return func(candidate string) bool {
		return strings.EqualFold(string(linkType), strings.TrimSpace(candidate))
	}
}
