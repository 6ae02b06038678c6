package sleeper

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smallery/sleeper-fantasy-api/internal/config"
)

// fakeSleeper serves canned JSON bodies by path and counts hits per path.
type fakeSleeper struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	routes   map[string]string
	statuses map[string]int
	hits     map[string]int
	queries  map[string]string
}

func newFakeSleeper(t *testing.T) *fakeSleeper {
	t.Helper()
	f := &fakeSleeper{
		t:        t,
		routes:   map[string]string{},
		statuses: map[string]int{},
		hits:     map[string]int{},
		queries:  map[string]string{},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeSleeper) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.hits[r.URL.Path]++
	f.queries[r.URL.Path] = r.URL.RawQuery

	body, ok := f.routes[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if status, ok := f.statuses[r.URL.Path]; ok {
		w.WriteHeader(status)
	}
	_, _ = w.Write([]byte(body))
}

func (f *fakeSleeper) handle(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[path] = body
}

func (f *fakeSleeper) handleStatus(path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[path] = body
	f.statuses[path] = status
}

func (f *fakeSleeper) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeSleeper) totalHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.hits {
		total += n
	}
	return total
}

func (f *fakeSleeper) query(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[path]
}

func (f *fakeSleeper) client() *Client {
	return NewClient(config.SleeperAPI{BaseURL: f.server.URL, Timeout: 5 * time.Second})
}

func newTestPlayerAPI(t *testing.T, f *fakeSleeper) *PlayerAPI {
	t.Helper()
	api, err := NewPlayerAPI(f.client(), PlayerOptions{
		CacheFile: filepath.Join(t.TempDir(), "players_cache.json.gz"),
	})
	require.NoError(t, err)
	return api
}

const playersJSON = `{
	"4046": {"player_id": "4046", "first_name": "Patrick", "last_name": "Mahomes", "position": "QB", "team": "KC", "age": 29, "years_exp": 7, "sport": "nfl", "status": "Active"},
	"4881": {"player_id": "4881", "first_name": "Lamar", "last_name": "Jackson", "position": "QB", "team_abbr": "BAL", "team": "XXX", "age": 27},
	"4034": {"player_id": "4034", "first_name": "Christian", "last_name": "McCaffrey", "position": "RB", "team": "SF", "age": 28, "injury_status": "Out"},
	"6794": {"player_id": "6794", "first_name": "Justin", "last_name": "Jefferson", "position": "WR", "team": "MIN", "age": null},
	"KC":   {"first_name": "Kansas City", "last_name": "Chiefs", "position": "DEF", "team": "KC"}
}`
