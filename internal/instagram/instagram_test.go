package instagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractShortcode(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"post", "https://www.instagram.com/p/CxYzAb1Cd2E/", "CxYzAb1Cd2E"},
		{"reel", "https://www.instagram.com/reel/Dk9_xY-123/", "Dk9_xY-123"},
		{"tv", "https://instagram.com/tv/AbCdE12345/", "AbCdE12345"},
		{"query string", "https://www.instagram.com/p/CxYzAb1Cd2E/?igsh=foo", "CxYzAb1Cd2E"},
		{"no scheme", "instagram.com/p/CxYzAb1Cd2E", "CxYzAb1Cd2E"},
		{"bare path", "/reel/CxYzAb1Cd2E/", "CxYzAb1Cd2E"},
		{"profile url", "https://www.instagram.com/someuser/", ""},
		{"too short", "https://www.instagram.com/p/abcd", ""},
		{"other site", "https://example.com/p/CxYzAb1Cd2E/", "CxYzAb1Cd2E"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractShortcode(tc.url))
		})
	}
}

func TestParsePost_GraphqlShape(t *testing.T) {
	payload := `{
		"graphql": {
			"shortcode_media": {
				"shortcode": "CxYzAb1Cd2E",
				"taken_at_timestamp": 1700000000,
				"edge_media_to_caption": {"edges": [{"node": {"text": "sunset at the pier"}}]},
				"owner": {"username": "pierwatcher"}
			}
		}
	}`

	post, err := ParsePost([]byte(payload), "https://fallback/")
	require.NoError(t, err)
	assert.Equal(t, "sunset at the pier", post.Caption)
	assert.Equal(t, "pierwatcher", post.Username)
	assert.Equal(t, "CxYzAb1Cd2E", post.Shortcode)
	assert.Equal(t, "https://www.instagram.com/p/CxYzAb1Cd2E/", post.Permalink)
	assert.Equal(t, "2023-11-14", post.DateString())
}

func TestParsePost_ItemsShape(t *testing.T) {
	payload := `{
		"items": [{
			"taken_at": 1700000000,
			"caption": {"text": "from the app shape"},
			"user": {"username": "appuser"}
		}]
	}`

	post, err := ParsePost([]byte(payload), "https://www.instagram.com/p/Fallback123/")
	require.NoError(t, err)
	assert.Equal(t, "from the app shape", post.Caption)
	assert.Equal(t, "appuser", post.Username)
	// No shortcode in the payload: permalink falls back to the input URL.
	assert.Equal(t, "https://www.instagram.com/p/Fallback123/", post.Permalink)
	assert.Equal(t, "2023-11-14", post.DateString())
}

func TestParsePost_CaptionListForm(t *testing.T) {
	payload := `{
		"items": [{
			"shortcode": "Ab1Cd2Ef3G",
			"caption": [{"text": "list style caption"}]
		}]
	}`

	post, err := ParsePost([]byte(payload), "")
	require.NoError(t, err)
	assert.Equal(t, "list style caption", post.Caption)
	assert.Equal(t, "", post.DateString())
}

func TestParsePost_OwnerPreferredOverUser(t *testing.T) {
	payload := `{
		"items": [{
			"shortcode": "Ab1Cd2Ef3G",
			"owner": {"username": "owner_name"},
			"user": {"username": "user_name"}
		}]
	}`

	post, err := ParsePost([]byte(payload), "")
	require.NoError(t, err)
	assert.Equal(t, "owner_name", post.Username)
}

func TestParsePost_Failures(t *testing.T) {
	t.Run("no media", func(t *testing.T) {
		_, err := ParsePost([]byte(`{"graphql": {}}`), "https://fallback/")
		assert.Error(t, err)
	})
	t.Run("empty items", func(t *testing.T) {
		_, err := ParsePost([]byte(`{"items": []}`), "https://fallback/")
		assert.Error(t, err)
	})
	t.Run("not json", func(t *testing.T) {
		_, err := ParsePost([]byte(`<html>`), "https://fallback/")
		assert.Error(t, err)
	})
	t.Run("media with no fields and no fallback", func(t *testing.T) {
		_, err := ParsePost([]byte(`{"items": [{}]}`), "")
		assert.Error(t, err)
	})
	t.Run("empty media keeps fallback permalink", func(t *testing.T) {
		post, err := ParsePost([]byte(`{"items": [{}]}`), "https://fallback/")
		require.NoError(t, err)
		assert.Equal(t, "https://fallback/", post.Permalink)
	})
}

func TestPermalink(t *testing.T) {
	assert.Equal(t, "https://www.instagram.com/p/Ab1Cd2Ef3G/", Permalink("Ab1Cd2Ef3G"))
}
