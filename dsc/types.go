package dsc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LinkDomain is the public prefix every short link lives under.
const LinkDomain = "https://dsc.gg/"

// Snowflake is a Discord-style numeric identifier. The API emits them as
// strings in some payloads and as numbers in others, so both decode.
type Snowflake int64

// String returns the decimal form used in endpoint paths.
func (s Snowflake) String() string {
	return strconv.FormatInt(int64(s), 10)
}

// MarshalJSON encodes the snowflake as a string to keep it safe for
// consumers that truncate large integers.
func (s Snowflake) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(s.String())), nil
}

// UnmarshalJSON accepts both quoted and bare numeric forms.
func (s *Snowflake) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snowflake %q: %w", raw, err)
	}
	*s = Snowflake(value)
	return nil
}

// Timestamp wraps time.Time with the millisecond epoch encoding the API
// uses on the wire. The zero value decodes from and encodes to null.
type Timestamp struct {
	time.Time
}

// MarshalJSON encodes the timestamp as milliseconds since the epoch.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(t.UnixMilli(), 10)), nil
}

// UnmarshalJSON accepts bare and quoted millisecond epochs plus null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	t.Time = time.UnixMilli(ms).UTC()
	return nil
}

// LinkType classifies what a short link points at.
type LinkType string

const (
	LinkTypeBot      LinkType = "bot"
	LinkTypeServer   LinkType = "server"
	LinkTypeTemplate LinkType = "template"
	// LinkTypeLink is the catch-all for redirects outside the known
	// Discord URL spaces. The API assigns it; links cannot be created
	// with it directly.
	LinkTypeLink LinkType = "link"
)

// Valid reports whether the type is one the API knows about.
func (lt LinkType) Valid() bool {
	switch lt {
	case LinkTypeBot, LinkTypeServer, LinkTypeTemplate, LinkTypeLink:
		return true
	}
	return false
}

var linkTypePrefixes = []struct {
	prefix   string
	linkType LinkType
}{
	{"https://discord.gg/", LinkTypeServer},
	{"https://discord.com/template/", LinkTypeTemplate},
	{"https://discord.com/oauth2/", LinkTypeBot},
}

// MatchLinkType classifies a redirect URL the way the API does. A missing
// scheme is treated as https, and anything outside the Discord URL spaces
// is a generic link.
func MatchLinkType(redirect string) LinkType {
	if !strings.HasPrefix(redirect, "https://") && !strings.HasPrefix(redirect, "http://") {
		redirect = "https://" + redirect
	}
	for _, p := range linkTypePrefixes {
		if strings.HasPrefix(redirect, p.prefix) {
			return p.linkType
		}
	}
	return LinkTypeLink
}

// NormalizeSlug reduces a full dsc.gg URL to its slug. Bare slugs pass
// through unchanged.
func NormalizeSlug(link string) string {
	link = strings.TrimSpace(link)
	for _, prefix := range []string{LinkDomain, "http://dsc.gg/", "dsc.gg/"} {
		if strings.HasPrefix(link, prefix) {
			return strings.TrimPrefix(link, prefix)
		}
	}
	return link
}

// User is a dsc.gg account.
type User struct {
	ID          Snowflake `json:"id"`
	Premium     bool      `json:"premium"`
	Verified    bool      `json:"verified"`
	Staff       bool      `json:"staff"`
	Blacklisted bool      `json:"blacklisted"`
	JoinedAt    Timestamp `json:"joined_at"`

	// Raw is the payload the user was decoded from, kept for fields the
	// struct does not model.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the user and retains the original payload.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*u = User(decoded)
	u.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// ToDict returns the user's fields as a generic mapping.
func (u *User) ToDict() map[string]any {
	return map[string]any{
		"id":          u.ID,
		"premium":     u.Premium,
		"verified":    u.Verified,
		"staff":       u.Staff,
		"blacklisted": u.Blacklisted,
		"joined_at":   u.JoinedAt.Time,
	}
}

// Link is a registered short link.
type Link struct {
	ID        string      `json:"id"`
	Redirect  string      `json:"redirect"`
	OwnerID   Snowflake   `json:"owner"`
	Editors   []Snowflake `json:"editors"`
	CreatedAt Timestamp   `json:"created_at"`
	BumpedAt  Timestamp   `json:"bumped_at"`
	Type      LinkType    `json:"type"`
	Unlisted  bool        `json:"unlisted"`
	Disabled  bool        `json:"disabled"`
	Domain    string      `json:"domain"`
	Embed     Embed       `json:"meta"`
}

// URL returns the full public address of the link.
func (l *Link) URL() string {
	return LinkDomain + l.ID
}

// ToDict returns the link's fields as a generic mapping. An unbumped link
// carries a nil bumped_at.
func (l *Link) ToDict() map[string]any {
	d := map[string]any{
		"id":         l.ID,
		"redirect":   l.Redirect,
		"owner_id":   l.OwnerID,
		"editors":    l.Editors,
		"created_at": l.CreatedAt.Time,
		"type":       l.Type,
		"unlisted":   l.Unlisted,
		"disabled":   l.Disabled,
		"domain":     l.Domain,
		"embed":      l.Embed.ToDict(),
	}
	if l.BumpedAt.IsZero() {
		d["bumped_at"] = nil
	} else {
		d["bumped_at"] = l.BumpedAt.Time
	}
	return d
}

// App is a developer application registered against the API.
type App struct {
	ID        Snowflake `json:"id"`
	OwnerID   Snowflake `json:"owner_id"`
	Verified  bool      `json:"verified"`
	CreatedAt Timestamp `json:"created_at"`

	// Key is only present when the authenticated identity owns the app.
	Key string `json:"key,omitempty"`
}

// ToDict returns the app's fields as a generic mapping. The key is left
// out when the API withheld it.
func (a *App) ToDict() map[string]any {
	d := map[string]any{
		"id":         a.ID,
		"owner_id":   a.OwnerID,
		"verified":   a.Verified,
		"created_at": a.CreatedAt.Time,
	}
	if a.Key != "" {
		d["key"] = a.Key
	}
	return d
}

// Announcement is a platform notice addressed to a user.
type Announcement struct {
	Author     string `json:"author"`
	Recipients string `json:"for"`
	Message    string `json:"message"`
	Type       string `json:"type"`
}

// ToDict returns the announcement's fields as a generic mapping.
func (a *Announcement) ToDict() map[string]any {
	return map[string]any{
		"author":     a.Author,
		"recipients": a.Recipients,
		"message":    a.Message,
		"type":       a.Type,
	}
}
