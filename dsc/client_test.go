package dsc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, token string, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append(opts, WithBaseURL(server.URL))
	client, err := NewClient(token, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

const linkFixture = `{
	"id": "mybot",
	"redirect": "https://discord.com/oauth2/authorize?client_id=1",
	"owner": "778344417767396419",
	"editors": ["161285853010395136"],
	"created_at": 1610000000000,
	"bumped_at": null,
	"type": "bot",
	"unlisted": false,
	"disabled": false,
	"domain": "dsc.gg",
	"meta": {
		"title": "My Bot",
		"description": "Does bot things",
		"color": "#7289da",
		"image": "https://cdn.example.com/icon.png"
	}
}`

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("defaults", func(t *testing.T) {
		client, err := NewClient("test-key", logger)
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, client.baseURL)
		assert.Equal(t, "test-key", client.token)
		assert.Equal(t, AuthKey, client.authMode)
		assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
		assert.True(t, client.Authenticated())
	})

	t.Run("empty token is allowed", func(t *testing.T) {
		client, err := NewClient("", logger)
		require.NoError(t, err)
		assert.False(t, client.Authenticated())
	})

	t.Run("empty base URL", func(t *testing.T) {
		_, err := NewClient("test-key", logger, WithBaseURL(""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "base URL is required")
	})

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("test-key", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("test-key", logger, WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Equal(t, custom, client.httpClient)
	})

	t.Run("base URL trailing slash is trimmed", func(t *testing.T) {
		client, err := NewClient("test-key", logger, WithBaseURL("http://localhost:8080/"))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", client.baseURL)
	})
}

func TestAuthorizationHeader(t *testing.T) {
	tests := []struct {
		name   string
		mode   AuthMode
		token  string
		header string
	}{
		{"key mode sends token verbatim", AuthKey, "app-key-123", "app-key-123"},
		{"oauth mode sends bearer", AuthOAuth, "oauth-token", "Bearer oauth-token"},
		{"bearer mode sends bearer", AuthBearer, "issued-token", "Bearer issued-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.token, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.header, r.Header.Get("Authorization"))
				w.Write([]byte(linkFixture))
			}, WithAuthMode(tt.mode))

			_, err := client.GetLink(context.Background(), "mybot")
			require.NoError(t, err)
		})
	}
}

func TestGetLink(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/link/mybot", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(linkFixture))
	})

	link, err := client.GetLink(context.Background(), "mybot")
	require.NoError(t, err)

	assert.Equal(t, "mybot", link.ID)
	assert.Equal(t, "https://discord.com/oauth2/authorize?client_id=1", link.Redirect)
	assert.Equal(t, Snowflake(778344417767396419), link.OwnerID)
	assert.Equal(t, []Snowflake{161285853010395136}, link.Editors)
	assert.Equal(t, time.UnixMilli(1610000000000).UTC(), link.CreatedAt.Time)
	assert.True(t, link.BumpedAt.IsZero())
	assert.Equal(t, LinkTypeBot, link.Type)
	assert.Equal(t, "https://dsc.gg/mybot", link.URL())
	assert.Equal(t, "My Bot", link.Embed.Title)
	assert.Equal(t, Color(0x7289da), link.Embed.Color)
}

func TestGetLinkAcceptsFullURL(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/link/mybot", r.URL.Path)
		w.Write([]byte(linkFixture))
	})

	_, err := client.GetLink(context.Background(), "https://dsc.gg/mybot")
	require.NoError(t, err)
}

func TestGetLinkNotFound(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "No link found"}`))
	})

	_, err := client.GetLink(context.Background(), "free-slug")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "No link found", apiErr.Message)
	assert.True(t, apiErr.IsNotFound())
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"400 is validation", http.StatusBadRequest, ErrValidation},
		{"401 is unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"403 is forbidden", http.StatusForbidden, ErrForbidden},
		{"404 is not found", http.StatusNotFound, ErrNotFound},
		{"409 is conflict", http.StatusConflict, ErrConflict},
		{"500 is server error", http.StatusInternalServerError, ErrServer},
		{"502 is server error", http.StatusBadGateway, ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"message": "nope"}`))
			})

			_, err := client.GetLink(context.Background(), "mybot")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel))
		})
	}

	t.Run("429 is rate limited", func(t *testing.T) {
		client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"message": "You are being rate limited"}`))
		})

		_, err := client.GetLink(context.Background(), "mybot")
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.True(t, apiErr.IsRateLimited())
	})
}

func TestGetUser(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/778344417767396419", r.URL.Path)
		w.Write([]byte(`{
			"id": "778344417767396419",
			"premium": true,
			"verified": false,
			"staff": false,
			"blacklisted": false,
			"joined_at": 1605000000000
		}`))
	})

	user, err := client.GetUser(context.Background(), 778344417767396419)
	require.NoError(t, err)

	assert.Equal(t, Snowflake(778344417767396419), user.ID)
	assert.True(t, user.Premium)
	assert.False(t, user.Blacklisted)
	assert.Equal(t, time.UnixMilli(1605000000000).UTC(), user.JoinedAt.Time)
	assert.Contains(t, string(user.Raw), `"premium": true`)
}

func TestGetUserRejectsBadID(t *testing.T) {
	client, err := NewClient("", zerolog.Nop())
	require.NoError(t, err)

	_, err = client.GetUser(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestGetUserLinks(t *testing.T) {
	client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/778344417767396419/links", r.URL.Path)
		w.Write([]byte(`[` + linkFixture + `]`))
	})

	links, err := client.GetUserLinks(context.Background(), 778344417767396419)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "mybot", links[0].ID)
}

func TestTopLinks(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/links/top", r.URL.Path)
		w.Write([]byte(`[]`))
	})

	links, err := client.TopLinks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, links)
	assert.Empty(t, links)
}

func TestFetchLinks(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/links", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		w.Write([]byte(`[` + linkFixture + `]`))
	})

	links, err := client.FetchLinks(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, links, 1)

	_, err = client.FetchLinks(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestGetApp(t *testing.T) {
	client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/app/112233445566778899", r.URL.Path)
		w.Write([]byte(`{
			"id": "112233445566778899",
			"owner_id": "778344417767396419",
			"verified": true,
			"created_at": 1600000000000,
			"key": "secret-key"
		}`))
	})

	app, err := client.GetApp(context.Background(), 112233445566778899)
	require.NoError(t, err)

	assert.Equal(t, Snowflake(112233445566778899), app.ID)
	assert.Equal(t, Snowflake(778344417767396419), app.OwnerID)
	assert.True(t, app.Verified)
	assert.Equal(t, "secret-key", app.Key)
}

func TestGetAnnouncements(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/778344417767396419/announcements", r.URL.Path)
		w.Write([]byte(`[{
			"author": "dsc.gg",
			"for": "everyone",
			"message": "Scheduled maintenance tonight",
			"type": "info"
		}]`))
	})

	announcements, err := client.GetAnnouncements(context.Background(), 778344417767396419)
	require.NoError(t, err)
	require.Len(t, announcements, 1)

	assert.Equal(t, "dsc.gg", announcements[0].Author)
	assert.Equal(t, "everyone", announcements[0].Recipients)
	assert.Equal(t, "Scheduled maintenance tonight", announcements[0].Message)
}

func TestSearch(t *testing.T) {
	t.Run("with limit", func(t *testing.T) {
		client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search/discord%20bots", r.URL.EscapedPath())
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			w.Write([]byte(`[` + linkFixture + `]`))
		})

		links, err := client.Search(context.Background(), "discord bots", 5)
		require.NoError(t, err)
		assert.Len(t, links, 1)
	})

	t.Run("without limit", func(t *testing.T) {
		client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
			assert.False(t, r.URL.Query().Has("limit"))
			w.Write([]byte(`[]`))
		})

		links, err := client.Search(context.Background(), "bots", 0)
		require.NoError(t, err)
		assert.NotNil(t, links)
		assert.Empty(t, links)
	})

	t.Run("no matches is empty, not an error", func(t *testing.T) {
		client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "No results found"}`))
		})

		links, err := client.Search(context.Background(), "nothing matches this", 0)
		require.NoError(t, err)
		assert.NotNil(t, links)
		assert.Empty(t, links)
	})

	t.Run("empty query", func(t *testing.T) {
		client, err := NewClient("test-key", zerolog.Nop())
		require.NoError(t, err)

		_, err = client.Search(context.Background(), "  ", 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestCreateLink(t *testing.T) {
	t.Run("sends type, redirect, and embed fields", func(t *testing.T) {
		client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/link/mybot", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "bot", body["type"])
			assert.Equal(t, "https://discord.com/oauth2/authorize?client_id=1", body["redirect"])
			assert.Equal(t, "My Bot", body["meta_title"])
			assert.Equal(t, "#7289da", body["meta_color"])
			assert.NotContains(t, body, "meta_image")

			w.Write([]byte(`{"message": "Link created"}`))
		})

		embed := &Embed{Title: "My Bot", Color: 0x7289da}
		err := client.CreateLink(context.Background(), "mybot", "https://discord.com/oauth2/authorize?client_id=1", LinkTypeBot, embed)
		require.NoError(t, err)
	})

	t.Run("no embed means no meta fields", func(t *testing.T) {
		client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.NotContains(t, body, "meta_title")
			assert.NotContains(t, body, "meta_color")
			w.Write([]byte(`{"message": "Link created"}`))
		})

		err := client.CreateLink(context.Background(), "myserver", "https://discord.gg/abc123", LinkTypeServer, nil)
		require.NoError(t, err)
	})

	t.Run("taken slug surfaces as conflict", func(t *testing.T) {
		client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message": "Link already exists"}`))
		})

		err := client.CreateLink(context.Background(), "taken", "https://discord.gg/abc123", LinkTypeServer, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConflict))
	})

	t.Run("rejects bad type locally", func(t *testing.T) {
		requests := 0
		client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
			requests++
		})

		err := client.CreateLink(context.Background(), "mybot", "https://example.com", LinkTypeLink, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrBadLinkType))
		assert.True(t, errors.Is(err, ErrValidation))

		err = client.CreateLink(context.Background(), "mybot", "https://example.com", LinkType("banana"), nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrBadLinkType))

		assert.Zero(t, requests)
	})

	t.Run("rejects bad redirect locally", func(t *testing.T) {
		requests := 0
		client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
			requests++
		})

		err := client.CreateLink(context.Background(), "mybot", "not a url", LinkTypeBot, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Zero(t, requests)
	})
}

func TestCreateThenGet(t *testing.T) {
	// Stand-in service: POST stores the link, GET serves it back
	store := make(map[string]map[string]any)
	client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimPrefix(r.URL.Path, "/link/")
		switch r.Method {
		case http.MethodPost:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			store[slug] = body
			w.Write([]byte(`{"message": "Link created"}`))
		case http.MethodGet:
			created, ok := store[slug]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"message": "Not found"}`))
				return
			}
			require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
				"id":       slug,
				"redirect": created["redirect"],
				"type":     created["type"],
				"owner":    "778344417767396419",
			}))
		}
	})

	err := client.CreateLink(context.Background(), "gamers", "https://discord.gg/abc123", LinkTypeServer, nil)
	require.NoError(t, err)

	link, err := client.GetLink(context.Background(), "gamers")
	require.NoError(t, err)
	assert.Equal(t, "https://discord.gg/abc123", link.Redirect)
	assert.Equal(t, LinkTypeServer, link.Type)
	assert.Equal(t, "https://dsc.gg/gamers", link.URL())
}

func TestUpdateLink(t *testing.T) {
	t.Run("sends only set fields and never the slug", func(t *testing.T) {
		client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/link/mybot", r.URL.Path)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "https://example.com/new", body["redirect"])
			assert.Equal(t, true, body["unlisted"])
			assert.NotContains(t, body, "id")
			assert.NotContains(t, body, "slug")
			assert.NotContains(t, body, "type")
			assert.NotContains(t, body, "password")

			w.Write([]byte(linkFixture))
		})

		redirect := "https://example.com/new"
		unlisted := true
		link, err := client.UpdateLink(context.Background(), "mybot", LinkUpdate{
			Redirect: &redirect,
			Unlisted: &unlisted,
		})
		require.NoError(t, err)
		require.NotNil(t, link)
		assert.Equal(t, "mybot", link.ID)
	})

	t.Run("confirmation-only response returns no link", func(t *testing.T) {
		client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"message": "Link updated"}`))
		})

		password := "hunter2"
		link, err := client.UpdateLink(context.Background(), "mybot", LinkUpdate{Password: &password})
		require.NoError(t, err)
		assert.Nil(t, link)
	})

	t.Run("empty update is rejected locally", func(t *testing.T) {
		requests := 0
		client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
			requests++
		})

		_, err := client.UpdateLink(context.Background(), "mybot", LinkUpdate{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Zero(t, requests)
	})
}

func TestDeleteLink(t *testing.T) {
	client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/link/mybot", r.URL.Path)
		w.Write([]byte(`{"message": "Link deleted"}`))
	})

	err := client.DeleteLink(context.Background(), "mybot")
	require.NoError(t, err)
}

func TestTransferLink(t *testing.T) {
	t.Run("with comment", func(t *testing.T) {
		client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/link/mybot/transfer", r.URL.Path)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "161285853010395136", body["user"])
			assert.Equal(t, "all yours", body["comment"])

			w.Write([]byte(`{"message": "Transfer requested"}`))
		})

		err := client.TransferLink(context.Background(), "mybot", 161285853010395136, "all yours")
		require.NoError(t, err)
	})

	t.Run("empty comment is omitted", func(t *testing.T) {
		client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.NotContains(t, body, "comment")
			w.Write([]byte(`{"message": "Transfer requested"}`))
		})

		err := client.TransferLink(context.Background(), "mybot", 161285853010395136, "")
		require.NoError(t, err)
	})
}

func TestAuthenticatedOpsFailFastWithoutToken(t *testing.T) {
	requests := 0
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	ctx := context.Background()
	redirect := "https://example.com"

	calls := []struct {
		name string
		call func() error
	}{
		{"GetUserLinks", func() error { _, err := client.GetUserLinks(ctx, 1234); return err }},
		{"Search", func() error { _, err := client.Search(ctx, "bots", 0); return err }},
		{"CreateLink", func() error {
			return client.CreateLink(ctx, "mybot", "https://discord.gg/abc", LinkTypeServer, nil)
		}},
		{"UpdateLink", func() error {
			_, err := client.UpdateLink(ctx, "mybot", LinkUpdate{Redirect: &redirect})
			return err
		}},
		{"DeleteLink", func() error { return client.DeleteLink(ctx, "mybot") }},
		{"TransferLink", func() error { return client.TransferLink(ctx, "mybot", 1234, "") }},
	}

	for _, tt := range calls {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoCredential))
			assert.True(t, errors.Is(err, ErrUnauthorized))
		})
	}

	assert.Zero(t, requests, "no request should be made without a credential")
}
