package stash

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustinTDCT/instameta/internal/config"
	"github.com/JustinTDCT/instameta/internal/plugin"
)

type gqlCall struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// newTestClient points a Client at an httptest GraphQL server through the
// same server-connection path the host uses.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	conn := &plugin.ServerConnection{
		Scheme:        u.Scheme,
		Host:          u.Hostname(),
		Port:          port,
		SessionCookie: &plugin.SessionCookie{Name: "session", Value: "cookie-value"},
	}
	cfg := &config.Config{RequestTimeout: 5 * time.Second, GraphQLPath: "/graphql"}
	return NewClient(conn, cfg), srv
}

func decodeCall(t *testing.T, r *http.Request) gqlCall {
	t.Helper()
	var call gqlCall
	require.NoError(t, json.NewDecoder(r.Body).Decode(&call))
	return call
}

func TestFindItem_Scene(t *testing.T) {
	var call gqlCall
	var cookie string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/graphql", r.URL.Path)
		if c, err := r.Cookie("session"); err == nil {
			cookie = c.Value
		}
		call = decodeCall(t, r)
		w.Write([]byte(`{"data": {"findScene": {
			"id": "7", "title": "", "url": "", "date": "",
			"tags": [{"id": "t1", "name": "existing"}],
			"files": [{"path": "/media/a.mp4"}, {"path": "/media/b.mp4"}]
		}}}`))
	})

	item, err := client.FindItem(context.Background(), plugin.TargetScene, "7")
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Equal(t, "cookie-value", cookie)
	assert.Contains(t, call.Query, "findScene")
	assert.Contains(t, call.Query, "files { path }")
	assert.Equal(t, "7", call.Variables["id"])
	assert.Equal(t, []string{"/media/a.mp4", "/media/b.mp4"}, item.FilePaths())
	assert.Equal(t, []string{"t1"}, item.TagIDs())
}

func TestFindItem_Image(t *testing.T) {
	var call gqlCall
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		call = decodeCall(t, r)
		w.Write([]byte(`{"data": {"findImage": {"id": "3", "path": "/media/pic.jpg"}}}`))
	})

	item, err := client.FindItem(context.Background(), plugin.TargetImage, "3")
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Contains(t, call.Query, "findImage")
	assert.Equal(t, []string{"/media/pic.jpg"}, item.FilePaths())
}

func TestFindItem_Missing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"findScene": null}}`))
	})

	item, err := client.FindItem(context.Background(), plugin.TargetScene, "404")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestFindItem_GraphQLError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "must be logged in"}]}`))
	})

	_, err := client.FindItem(context.Background(), plugin.TargetScene, "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be logged in")
}

func TestFindItem_UnsupportedTarget(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := client.FindItem(context.Background(), plugin.TargetType("Gallery"), "1")
	assert.Error(t, err)
}

func TestUpdateItem(t *testing.T) {
	var call gqlCall
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		call = decodeCall(t, r)
		w.Write([]byte(`{"data": {"sceneUpdate": {"id": "7"}}}`))
	})

	updates := map[string]interface{}{
		"title":   "caption",
		"date":    "2023-11-14",
		"tag_ids": []string{"t1", "t2"},
		"skipme":  nil,
	}
	err := client.UpdateItem(context.Background(), plugin.TargetScene, "7", updates)
	require.NoError(t, err)

	assert.Contains(t, call.Query, "sceneUpdate")
	input, ok := call.Variables["input"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "7", input["id"])
	assert.Equal(t, "caption", input["title"])
	assert.Equal(t, "2023-11-14", input["date"])
	assert.NotContains(t, input, "skipme")
}

func TestUpdateItem_Image(t *testing.T) {
	var call gqlCall
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		call = decodeCall(t, r)
		w.Write([]byte(`{"data": {"imageUpdate": {"id": "3"}}}`))
	})

	err := client.UpdateItem(context.Background(), plugin.TargetImage, "3", map[string]interface{}{"url": "https://x/"})
	require.NoError(t, err)
	assert.Contains(t, call.Query, "imageUpdate")
}

func TestEnsureTag_Existing(t *testing.T) {
	var calls []gqlCall
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		call := decodeCall(t, r)
		calls = append(calls, call)
		w.Write([]byte(`{"data": {"allTags": [{"id": "t9", "name": "someone"}]}}`))
	})

	id, err := client.EnsureTag(context.Background(), "someone")
	require.NoError(t, err)
	assert.Equal(t, "t9", id)
	require.Len(t, calls, 1)
	assert.Equal(t, "someone", calls[0].Variables["name"])
}

func TestEnsureTag_Creates(t *testing.T) {
	var calls []gqlCall
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		call := decodeCall(t, r)
		calls = append(calls, call)
		if strings.Contains(call.Query, "allTags") {
			w.Write([]byte(`{"data": {"allTags": []}}`))
			return
		}
		w.Write([]byte(`{"data": {"tagCreate": {"id": "t10"}}}`))
	})

	id, err := client.EnsureTag(context.Background(), "newuser")
	require.NoError(t, err)
	assert.Equal(t, "t10", id)
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1].Query, "tagCreate")

	input, ok := calls[1].Variables["input"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "newuser", input["name"])
}

func TestEnsureTag_EmptyName(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := client.EnsureTag(context.Background(), "")
	assert.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	cfg := &config.Config{RequestTimeout: time.Second, GraphQLPath: "/graphql"}
	client := NewClient(nil, cfg)
	assert.Equal(t, "http://localhost:9999/graphql", client.endpoint)
	assert.Nil(t, client.cookie)
}
