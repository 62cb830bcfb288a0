package episodeapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const episodesJSON = `[
	{
		"id": "a-importancia-da-contribuicao-em-open-source",
		"title": "Faladev #30 | A importância da contribuição em Open Source",
		"members": "Diego Fernandes, João Pedro",
		"published_at": "2021-01-22 10:00:00",
		"thumbnail": "https://cdn.example.com/opensource.jpg",
		"description": "<p>Nesse episódio...</p>",
		"file": {
			"url": "https://cdn.example.com/opensource.m4a",
			"type": "audio/x-m4a",
			"duration": 3981
		}
	},
	{
		"id": "uma-conversa-sobre-programacao-funcional",
		"title": "Programação funcional",
		"members": "Diego Fernandes",
		"published_at": "2021-01-08T16:00:00Z",
		"thumbnail": "https://cdn.example.com/funcional.jpg",
		"description": "",
		"file": {
			"url": "https://cdn.example.com/funcional.m4a",
			"type": "audio/x-m4a",
			"duration": "65"
		}
	}
]`

func TestFetchEpisodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/episodes", r.URL.Path)
		assert.Equal(t, "12", r.URL.Query().Get("_limit"))
		assert.Equal(t, "published_at", r.URL.Query().Get("_sort"))
		assert.Equal(t, "desc", r.URL.Query().Get("_order"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, episodesJSON)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL + "/", Locale: LocalePtBR})
	require.NoError(t, err)

	episodes, err := client.FetchEpisodes(context.Background())
	require.NoError(t, err)
	require.Len(t, episodes, 2)

	first := episodes[0]
	assert.Equal(t, "a-importancia-da-contribuicao-em-open-source", first.ID)
	assert.Equal(t, "Diego Fernandes, João Pedro", first.Members)
	assert.Equal(t, 3981, first.Duration)
	assert.Equal(t, "01:06:21", first.DurationAsString)
	assert.Equal(t, "https://cdn.example.com/opensource.m4a", first.URL)
	assert.Equal(t, "22 jan 21", first.PublishedAt)

	second := episodes[1]
	assert.Equal(t, 65, second.Duration)
	assert.Equal(t, "00:01:05", second.DurationAsString)
	assert.Equal(t, "8 jan 21", second.PublishedAt)
}

func TestFetchEpisodes_CustomQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("_limit"))
		assert.Equal(t, "asc", r.URL.Query().Get("_order"))
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, Limit: 5, Order: "asc"})
	require.NoError(t, err)

	episodes, err := client.FetchEpisodes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, episodes)
}

func TestFetchEpisodes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: "episodes API error 500"},
		{name: "invalid json", status: http.StatusOK, body: "{not json", wantErr: "failed to parse response"},
		{name: "invalid duration", status: http.StatusOK, body: `[{"id":"x","file":{"duration":"long"}}]`, wantErr: "invalid duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client, err := New(Config{BaseURL: server.URL})
			require.NoError(t, err)

			_, err = client.FetchEpisodes(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFetchEpisode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/episodes/known" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{}`)
			return
		}
		fmt.Fprint(w, `{"id":"known","title":"Known","published_at":"2021-03-05","file":{"url":"u","duration":3600}}`)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, Locale: LocaleEn})
	require.NoError(t, err)

	ep, err := client.FetchEpisode(context.Background(), "known")
	require.NoError(t, err)
	assert.Equal(t, "Known", ep.Title)
	assert.Equal(t, "01:00:00", ep.DurationAsString)
	assert.Equal(t, "5 Mar 21", ep.PublishedAt)

	_, err = client.FetchEpisode(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNew_Locale(t *testing.T) {
	tests := []struct {
		locale  string
		wantErr bool
	}{
		{"", false},
		{LocalePtBR, false},
		{LocaleEn, false},
		{"de", true},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			_, err := New(Config{BaseURL: "http://localhost:3333", Locale: tt.locale})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported locale")
				return
			}
			assert.NoError(t, err)
		})
	}
}
