package sleeper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallery/sleeper-fantasy-api/internal/config"
	"github.com/smallery/sleeper-fantasy-api/internal/models"
)

func TestClientGetDecodesAndSendsHeaders(t *testing.T) {
	var gotAuth, gotAccept, gotQuery, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotQuery = r.URL.RawQuery
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"week": 7, "season": "2024", "season_type": "regular"}`))
	}))
	defer server.Close()

	client := NewClient(config.SleeperAPI{BaseURL: server.URL + "/", APIKey: "secret"})

	var state models.SportState
	err := client.Get(context.Background(), "/state/nfl", url.Values{"x": []string{"1"}}, &state)
	require.NoError(t, err)

	assert.Equal(t, 7, state.Week)
	assert.Equal(t, "2024", state.Season)
	assert.Equal(t, "/state/nfl", gotPath)
	assert.Equal(t, "x=1", gotQuery)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
}

func TestClientGetStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(config.SleeperAPI{BaseURL: server.URL})

	var out map[string]any
	err := client.Get(context.Background(), "players/nfl", nil, &out)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "slow down", apiErr.Body)
	assert.Contains(t, err.Error(), "429")
}

func TestClientGetInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer server.Close()

	client := NewClient(config.SleeperAPI{BaseURL: server.URL})

	var out map[string]any
	err := client.Get(context.Background(), "players/nfl", nil, &out)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, ok := AsAPIError(err)
	assert.False(t, ok)
}

func TestClientGetHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(config.SleeperAPI{BaseURL: server.URL, Timeout: time.Minute})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out map[string]any
	err := client.Get(ctx, "players/nfl", nil, &out)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(config.SleeperAPI{})
	assert.Equal(t, DefaultBaseURL, client.BaseURL())
	assert.Equal(t, 10*time.Second, client.httpClient.Timeout)
}

func TestClientGetRateLimited(t *testing.T) {
	f := newFakeSleeper(t)
	f.handle("/state/nfl", `{"week": 1}`)
	client := NewClient(config.SleeperAPI{BaseURL: f.server.URL, RateLimit: 1})

	var state models.SportState
	for i := 0; i < rateBurst; i++ {
		require.NoError(t, client.Get(context.Background(), "state/nfl", nil, &state))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := client.Get(ctx, "state/nfl", nil, &state)
	assert.Error(t, err)
	assert.Equal(t, rateBurst, f.hitCount("/state/nfl"))
}
