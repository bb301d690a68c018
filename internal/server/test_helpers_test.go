package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crossletters/internal/game"
)

// testDictionary accepts exactly the words it lists, case-insensitively.
type testDictionary map[string]bool

func (d testDictionary) IsValidWord(word string) bool {
	return d[strings.ToLower(word)]
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

func createGame(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return body["game_id"].(string)
}

func joinPlayer(t *testing.T, ts *httptest.Server, gameID, name string) (string, string) {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/join", map[string]string{
		"name": name,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return body["player_id"].(string), body["code"].(string)
}

func fetchSnapshot(t *testing.T, ts *httptest.Server, gameID string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodGet, "/api/games/"+gameID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	body := map[string]any{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

// seedGame writes a prepared state straight into the server's store and
// returns the store token.
func seedGame(t *testing.T, srv *Server, state *game.State) string {
	t.Helper()
	payload, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	token, err := srv.docs.Write(context.Background(), state.ID, payload, "", "seed")
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}
	return token
}

// riggedBag reorders the full distribution so the named letters sit at the
// front, making rack draws deterministic.
func riggedBag(t *testing.T, front ...string) []game.Tile {
	t.Helper()
	remainder := game.FullDistribution()
	bag := make([]game.Tile, 0, len(remainder))
	for _, letter := range front {
		index := -1
		for i, tile := range remainder {
			if tile.Letter == letter {
				index = i
				break
			}
		}
		if index < 0 {
			t.Fatalf("letter %s not available in distribution", letter)
		}
		bag = append(bag, remainder[index])
		remainder = append(remainder[:index], remainder[index+1:]...)
	}
	return append(bag, remainder...)
}
