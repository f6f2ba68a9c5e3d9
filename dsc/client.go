package dsc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.dsc.gg/v2"

const defaultUserAgent = "dsctl (github.com/s0up4200/dsctl)"

// Client wraps the dsc.gg API. An empty token is allowed and limits the
// client to public endpoints; authenticated operations then fail fast
// with ErrNoCredential before any request is made. A Client is safe for
// concurrent use.
type Client struct {
	baseURL    string
	token      string
	authMode   AuthMode
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new dsc.gg client
func NewClient(token string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	client := &Client{
		baseURL:    DefaultBaseURL,
		token:      strings.TrimSpace(token),
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	return client, nil
}

// Authenticated reports whether the client holds a credential.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// doRequest performs an HTTP request and returns the raw response body
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values, body any) ([]byte, error) {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", c.authHeader())
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", requestURL).
		Msg("Making dsc.gg API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, apiMessage(raw), string(raw))
	}

	return raw, nil
}

func (c *Client) authHeader() string {
	switch c.authMode {
	case AuthOAuth, AuthBearer:
		return "Bearer " + c.token
	default:
		// App keys go in the Authorization header without a scheme
		return c.token
	}
}

// requireToken guards authenticated endpoints before any I/O happens.
func (c *Client) requireToken() error {
	if c.token == "" {
		return ErrNoCredential
	}
	return nil
}

// apiMessage extracts the human-readable message from an error body.
func apiMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Message
}

func validateSlug(link string) (string, error) {
	slug := NormalizeSlug(link)
	if slug == "" {
		return "", fmt.Errorf("%w: link slug is required", ErrValidation)
	}
	return slug, nil
}

func validateID(name string, id Snowflake) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s must be a positive snowflake", ErrValidation, name)
	}
	return nil
}

func validateRedirect(redirect string) error {
	parsed, err := url.Parse(redirect)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%w: redirect %q is not an absolute URL", ErrValidation, redirect)
	}
	return nil
}

func parseLinkList(raw []byte) ([]Link, error) {
	var links []Link
	if err := json.Unmarshal(raw, &links); err != nil {
		return nil, fmt.Errorf("failed to parse links: %w", err)
	}
	if links == nil {
		links = []Link{}
	}
	return links, nil
}

// GetLink retrieves a single link. Full https://dsc.gg/... URLs are
// reduced to their slug first.
func (c *Client) GetLink(ctx context.Context, link string) (*Link, error) {
	slug, err := validateSlug(link)
	if err != nil {
		return nil, err
	}

	raw, err := c.doRequest(ctx, http.MethodGet, "/link/"+url.PathEscape(slug), nil, nil)
	if err != nil {
		return nil, err
	}

	var result Link
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to parse link: %w", err)
	}
	return &result, nil
}

// GetUser retrieves a dsc.gg account by its Discord ID.
func (c *Client) GetUser(ctx context.Context, userID Snowflake) (*User, error) {
	if err := validateID("user id", userID); err != nil {
		return nil, err
	}

	raw, err := c.doRequest(ctx, http.MethodGet, "/user/"+userID.String(), nil, nil)
	if err != nil {
		return nil, err
	}

	var result User
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}
	return &result, nil
}

// GetUserLinks retrieves every link owned by the given user. Requires a
// credential; the endpoint is restricted to whitelisted apps.
func (c *Client) GetUserLinks(ctx context.Context, userID Snowflake) ([]Link, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	if err := validateID("user id", userID); err != nil {
		return nil, err
	}

	raw, err := c.doRequest(ctx, http.MethodGet, "/user/"+userID.String()+"/links", nil, nil)
	if err != nil {
		return nil, err
	}
	return parseLinkList(raw)
}

// TopLinks retrieves the current most popular links, in the order the
// API ranks them.
func (c *Client) TopLinks(ctx context.Context) ([]Link, error) {
	raw, err := c.doRequest(ctx, http.MethodGet, "/links/top", nil, nil)
	if err != nil {
		return nil, err
	}
	return parseLinkList(raw)
}

// FetchLinks retrieves one page of the public link listing. Pages start
// at 1; a page past the end comes back as ErrNotFound. Ordering is not
// guaranteed to be stable between calls.
func (c *Client) FetchLinks(ctx context.Context, page int) ([]Link, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be positive", ErrValidation)
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	raw, err := c.doRequest(ctx, http.MethodGet, "/links", params, nil)
	if err != nil {
		return nil, err
	}
	return parseLinkList(raw)
}

// GetApp retrieves a developer application. The key field is only
// filled in when the authenticated identity owns the app.
func (c *Client) GetApp(ctx context.Context, appID Snowflake) (*App, error) {
	if err := validateID("app id", appID); err != nil {
		return nil, err
	}

	raw, err := c.doRequest(ctx, http.MethodGet, "/app/"+appID.String(), nil, nil)
	if err != nil {
		return nil, err
	}

	var result App
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to parse app: %w", err)
	}
	return &result, nil
}

// GetAnnouncements retrieves the platform announcements addressed to a
// user. No announcements is an empty slice, not an error.
func (c *Client) GetAnnouncements(ctx context.Context, userID Snowflake) ([]Announcement, error) {
	if err := validateID("user id", userID); err != nil {
		return nil, err
	}

	raw, err := c.doRequest(ctx, http.MethodGet, "/user/"+userID.String()+"/announcements", nil, nil)
	if err != nil {
		return nil, err
	}

	var result []Announcement
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to parse announcements: %w", err)
	}
	if result == nil {
		result = []Announcement{}
	}
	return result, nil
}

// Search queries the link database. A limit of 0 or less leaves the
// result size to the server. Requires a credential; search is restricted
// to whitelisted apps. No matches is an empty slice, not an error.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Link, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrValidation)
	}

	var params url.Values
	if limit > 0 {
		params = url.Values{}
		params.Set("limit", strconv.Itoa(limit))
	}

	raw, err := c.doRequest(ctx, http.MethodGet, "/search/"+url.PathEscape(query), params, nil)
	if err != nil {
		// The API reports an empty result set as a 404
		if errors.Is(err, ErrNotFound) {
			return []Link{}, nil
		}
		return nil, err
	}
	return parseLinkList(raw)
}

// CreateLink registers a new slug pointing at redirect. The type must be
// bot, server, or template; MatchLinkType derives the right one from the
// redirect when the caller does not care. The embed is optional.
func (c *Client) CreateLink(ctx context.Context, link, redirect string, linkType LinkType, embed *Embed) error {
	if err := c.requireToken(); err != nil {
		return err
	}

	slug, err := validateSlug(link)
	if err != nil {
		return err
	}
	if err := validateRedirect(redirect); err != nil {
		return err
	}
	switch linkType {
	case LinkTypeBot, LinkTypeServer, LinkTypeTemplate:
	default:
		return fmt.Errorf("%w: %q (want bot, server, or template)", ErrBadLinkType, string(linkType))
	}

	body := map[string]any{
		"type":     linkType,
		"redirect": redirect,
	}
	insertEmbedFields(body, embed)

	c.logger.Debug().
		Str("slug", slug).
		Str("redirect", redirect).
		Str("type", string(linkType)).
		Msg("Creating link")

	_, err = c.doRequest(ctx, http.MethodPost, "/link/"+url.PathEscape(slug), nil, body)
	return err
}

// LinkUpdate holds the mutable fields of a link. Nil fields are left
// untouched server-side. The slug itself cannot be renamed; the request
// shape has no field for it.
type LinkUpdate struct {
	Redirect *string
	Type     *LinkType
	Password *string
	Unlisted *bool
	Embed    *Embed
}

// UpdateLink applies a partial update and returns the updated link when
// the API echoes it back.
func (c *Client) UpdateLink(ctx context.Context, link string, update LinkUpdate) (*Link, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	slug, err := validateSlug(link)
	if err != nil {
		return nil, err
	}

	body := map[string]any{}
	if update.Redirect != nil {
		if err := validateRedirect(*update.Redirect); err != nil {
			return nil, err
		}
		body["redirect"] = *update.Redirect
	}
	if update.Type != nil {
		if !update.Type.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrBadLinkType, string(*update.Type))
		}
		body["type"] = *update.Type
	}
	if update.Password != nil {
		body["password"] = *update.Password
	}
	if update.Unlisted != nil {
		body["unlisted"] = *update.Unlisted
	}
	insertEmbedFields(body, update.Embed)

	if len(body) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrValidation)
	}

	c.logger.Debug().
		Str("slug", slug).
		Int("fields", len(body)).
		Msg("Updating link")

	raw, err := c.doRequest(ctx, http.MethodPatch, "/link/"+url.PathEscape(slug), nil, body)
	if err != nil {
		return nil, err
	}

	// Some API revisions answer with a plain confirmation body instead
	// of the updated link
	var result Link
	if err := json.Unmarshal(raw, &result); err != nil || result.ID == "" {
		return nil, nil
	}
	return &result, nil
}

// DeleteLink removes a link owned by the authenticated identity.
func (c *Client) DeleteLink(ctx context.Context, link string) error {
	if err := c.requireToken(); err != nil {
		return err
	}

	slug, err := validateSlug(link)
	if err != nil {
		return err
	}

	c.logger.Debug().Str("slug", slug).Msg("Deleting link")

	_, err = c.doRequest(ctx, http.MethodDelete, "/link/"+url.PathEscape(slug), nil, nil)
	return err
}

// TransferLink hands a link over to another user. The comment shows up
// in the recipient's transfer prompt and may be empty, in which case it
// is omitted from the request.
func (c *Client) TransferLink(ctx context.Context, link string, target Snowflake, comment string) error {
	if err := c.requireToken(); err != nil {
		return err
	}

	slug, err := validateSlug(link)
	if err != nil {
		return err
	}
	if err := validateID("target user id", target); err != nil {
		return err
	}

	body := map[string]any{"user": target}
	if comment != "" {
		body["comment"] = comment
	}

	c.logger.Debug().
		Str("slug", slug).
		Str("target", target.String()).
		Msg("Transferring link")

	_, err = c.doRequest(ctx, http.MethodPost, "/link/"+url.PathEscape(slug)+"/transfer", nil, body)
	return err
}

// insertEmbedFields flattens an embed into the meta_* body fields the
// API expects. meta_color is always sent when an embed is present; the
// other fields only when set.
func insertEmbedFields(body map[string]any, embed *Embed) {
	if embed == nil {
		return
	}
	body["meta_color"] = embed.Color.String()
	if embed.Title != "" {
		body["meta_title"] = embed.Title
	}
	if embed.Description != "" {
		body["meta_description"] = embed.Description
	}
	if embed.Image != "" {
		body["meta_image"] = embed.Image
	}
}
