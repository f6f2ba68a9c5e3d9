package dsc

import (
	"context"
)

// API defines the interface for dsc.gg operations. *Client implements
// it; commands accept the interface so tests can substitute fakes.
type API interface {
	// GetLink retrieves a single link by slug or full URL
	GetLink(ctx context.Context, link string) (*Link, error)

	// GetUser retrieves an account by Discord ID
	GetUser(ctx context.Context, userID Snowflake) (*User, error)

	// GetUserLinks retrieves every link owned by a user
	GetUserLinks(ctx context.Context, userID Snowflake) ([]Link, error)

	// TopLinks retrieves the current most popular links
	TopLinks(ctx context.Context) ([]Link, error)

	// FetchLinks retrieves one page of the public link listing
	FetchLinks(ctx context.Context, page int) ([]Link, error)

	// GetApp retrieves a developer application
	GetApp(ctx context.Context, appID Snowflake) (*App, error)

	// GetAnnouncements retrieves the announcements addressed to a user
	GetAnnouncements(ctx context.Context, userID Snowflake) ([]Announcement, error)

	// Search queries the link database
	Search(ctx context.Context, query string, limit int) ([]Link, error)

	// CreateLink registers a new slug
	CreateLink(ctx context.Context, link, redirect string, linkType LinkType, embed *Embed) error

	// UpdateLink applies a partial update to an existing link
	UpdateLink(ctx context.Context, link string, update LinkUpdate) (*Link, error)

	// DeleteLink removes a link
	DeleteLink(ctx context.Context, link string) error

	// TransferLink hands a link over to another user
	TransferLink(ctx context.Context, link string, target Snowflake, comment string) error
}

var _ API = (*Client)(nil)
