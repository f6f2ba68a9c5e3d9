// Package dsc provides a client for the dsc.gg link shortening API.
//
// dsc.gg hosts short dsc.gg/slug links that redirect to Discord servers,
// bots, templates, and arbitrary URLs. This package implements a typed
// Go client for the v2 API covering links, users, apps, announcements,
// and search.
//
// # Architecture
//
// The package is organized into several components:
//
//   - Client: The main API client with per-call context support
//   - Types: Domain models (Link, User, App, Announcement, Embed, Color)
//   - API: Interface definition for testability
//   - Errors: Sentinel errors plus a structured APIError carrier
//
// # Usage
//
// Create a client with an API key from the dsc.gg developer dashboard.
// An empty token is fine for public reads:
//
//	logger := zerolog.New(os.Stdout)
//	client, err := dsc.NewClient(
//		"your-api-key",
//		logger,
//		dsc.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	link, err := client.GetLink(ctx, "mybot")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(link.Redirect)
//
// # Error Handling
//
// Every failed call wraps one of the class sentinels, so errors.Is
// classifies without unpacking:
//
//	if errors.Is(err, dsc.ErrNotFound) {
//		// slug is free
//	}
//
// The full response is available through the carrier:
//
//	var apiErr *dsc.APIError
//	if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
//		// back off
//	}
//
// Operations that need a credential fail with ErrNoCredential before any
// request is sent when the client was built with an empty token.
package dsc
