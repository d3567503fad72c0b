package boardtools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/trelly"
	"github.com/skosovsky/trelly/trello"
)

func stubClient(t *testing.T, handler http.HandlerFunc) *trello.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := trello.NewClient(trello.Config{Key: "k", Token: "t", BaseURL: srv.URL})
	require.NoError(t, err)
	return client
}

func serveJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}
}

func execute(t *testing.T, tool trelly.Tool, args string) string {
	t.Helper()
	res, err := tool.Execute(context.Background(), []byte(args))
	require.NoError(t, err)
	return string(res)
}

func TestListBoards_FiltersClosedAndCaps(t *testing.T) {
	// Seven boards, two closed: all five open ones come back, capped at five.
	boards := `[
		{"id":"b1","name":"One","shortUrl":"https://trello.com/b/b1"},
		{"id":"b2","name":"Two","shortUrl":"https://trello.com/b/b2","closed":true},
		{"id":"b3","name":"Three","shortUrl":"https://trello.com/b/b3","closed":false},
		{"id":"b4","name":"Four","shortUrl":"https://trello.com/b/b4"},
		{"id":"b5","name":"Five","shortUrl":"https://trello.com/b/b5","closed":true},
		{"id":"b6","name":"Six","shortUrl":"https://trello.com/b/b6"},
		{"id":"b7","name":"Seven","shortUrl":"https://trello.com/b/b7"}
	]`
	tool, err := NewListBoards(stubClient(t, serveJSON(boards)))
	require.NoError(t, err)

	out := execute(t, tool, `{}`)
	assert.JSONEq(t, `[
		{"id":"b1","name":"One","url":"https://trello.com/b/b1"},
		{"id":"b3","name":"Three","url":"https://trello.com/b/b3"},
		{"id":"b4","name":"Four","url":"https://trello.com/b/b4"},
		{"id":"b6","name":"Six","url":"https://trello.com/b/b6"},
		{"id":"b7","name":"Seven","url":"https://trello.com/b/b7"}
	]`, out)
}

func TestListBoards_CapsAtFive(t *testing.T) {
	var sb []string
	for i := 1; i <= 8; i++ {
		sb = append(sb, fmt.Sprintf(`{"id":"b%d","name":"Board %d","shortUrl":"https://trello.com/b/b%d"}`, i, i, i))
	}
	body := "[" + sb[0]
	for _, s := range sb[1:] {
		body += "," + s
	}
	body += "]"

	tool, err := NewListBoards(stubClient(t, serveJSON(body)))
	require.NoError(t, err)

	var out []map[string]any
	require.NoError(t, json.Unmarshal([]byte(execute(t, tool, `{}`)), &out))
	require.Len(t, out, 5)
	assert.Equal(t, "b1", out[0]["id"])
	assert.Equal(t, "b5", out[4]["id"])
}

func TestListBoards_Empty(t *testing.T) {
	tool, err := NewListBoards(stubClient(t, serveJSON(`[]`)))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, execute(t, tool, `{}`))
}

func TestSearchBoards(t *testing.T) {
	boards := `[
		{"id":"b1","name":"Project Phoenix","shortUrl":"https://trello.com/b/b1"},
		{"id":"b2","name":"Backlog","desc":"phoenix follow-ups","shortUrl":"https://trello.com/b/b2"},
		{"id":"b3","name":"Phoenix archive","shortUrl":"https://trello.com/b/b3","closed":true},
		{"id":"b4","name":"Groceries","shortUrl":"https://trello.com/b/b4"}
	]`
	tool, err := NewSearchBoards(stubClient(t, serveJSON(boards)))
	require.NoError(t, err)

	// Case-insensitive match on name or desc; closed boards never match.
	out := execute(t, tool, `{"query":"PHOENIX"}`)
	assert.JSONEq(t, `{"results":[
		{"id":"b1","name":"Project Phoenix","url":"https://trello.com/b/b1"},
		{"id":"b2","name":"Backlog","url":"https://trello.com/b/b2"}
	]}`, out)
}

func TestSearchBoards_NoMatches(t *testing.T) {
	tool, err := NewSearchBoards(stubClient(t, serveJSON(`[{"id":"b1","name":"Alpha","shortUrl":"u"}]`)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":[]}`, execute(t, tool, `{"query":"zzz"}`))
}

func TestBoardDetails_Defaults(t *testing.T) {
	tool, err := NewBoardDetails(stubClient(t, serveJSON(
		`{"id":"b1","name":"Roadmap","url":"https://trello.com/b/b1/roadmap"}`)))
	require.NoError(t, err)

	out := execute(t, tool, `{"board_id":"b1"}`)
	assert.JSONEq(t, `{
		"id":"b1","name":"Roadmap","desc":"",
		"url":"https://trello.com/b/b1/roadmap",
		"closed":false,"organization":null
	}`, out)
}

func TestBoardDetails_FullRecord(t *testing.T) {
	tool, err := NewBoardDetails(stubClient(t, serveJSON(
		`{"id":"b1","name":"Roadmap","desc":"Q3 plan","url":"u","closed":true,"idOrganization":"org9"}`)))
	require.NoError(t, err)

	out := execute(t, tool, `{"board_id":"b1"}`)
	assert.JSONEq(t, `{"id":"b1","name":"Roadmap","desc":"Q3 plan","url":"u","closed":true,"organization":"org9"}`, out)
}

func TestGetLists(t *testing.T) {
	lists := `[
		{"id":"l1","name":"To Do","idBoard":"b1"},
		{"id":"l2","name":"Done","closed":true,"idBoard":"b1"}
	]`
	tool, err := NewGetLists(stubClient(t, serveJSON(lists)))
	require.NoError(t, err)

	want := `[
		{"id":"l1","name":"To Do","closed":false,"boardId":"b1"},
		{"id":"l2","name":"Done","closed":true,"boardId":"b1"}
	]`
	assert.JSONEq(t, want, execute(t, tool, `{"board_id":"b1"}`))

	// Idempotent: a second call with no intervening write returns the same set.
	assert.JSONEq(t, want, execute(t, tool, `{"board_id":"b1"}`))
}

func TestGetLists_MissingBoardRef(t *testing.T) {
	// idBoard is a required back-reference; a record without it makes the
	// whole reply malformed and yields the error envelope.
	tool, err := NewGetLists(stubClient(t, serveJSON(`[{"id":"l1","name":"To Do"}]`)))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(execute(t, tool, `{"board_id":"b1"}`)), &out))
	require.Contains(t, out, "error")
	assert.Contains(t, out["error"], "Failed to fetch lists")
	assert.Contains(t, out["error"], "idBoard")
}

func TestGetCards(t *testing.T) {
	cards := `[
		{"id":"c1","name":"Buy milk","desc":"2 liters","shortUrl":"https://trello.com/c/c1"},
		{"id":"c2","name":"Call dentist","shortUrl":"https://trello.com/c/c2","closed":true}
	]`
	tool, err := NewGetCards(stubClient(t, serveJSON(cards)))
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"id":"c1","name":"Buy milk","desc":"2 liters","url":"https://trello.com/c/c1","closed":false},
		{"id":"c2","name":"Call dentist","desc":"","url":"https://trello.com/c/c2","closed":true}
	]`, execute(t, tool, `{"list_id":"l1"}`))
}

func TestCreateCard_ProjectsEcho(t *testing.T) {
	var gotQuery map[string]string
	tool, err := NewCreateCard(stubClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/cards", r.URL.Path)
		gotQuery = map[string]string{
			"idList": r.URL.Query().Get("idList"),
			"name":   r.URL.Query().Get("name"),
			"desc":   r.URL.Query().Get("desc"),
		}
		fmt.Fprint(w, `{"id":"c1","name":"Buy milk","desc":"","shortUrl":"https://trello.com/c/c1","idList":"list123"}`)
	}))
	require.NoError(t, err)

	out := execute(t, tool, `{"list_id":"list123","name":"Buy milk"}`)
	assert.JSONEq(t, `{"id":"c1","name":"Buy milk","desc":"","url":"https://trello.com/c/c1","listId":"list123"}`, out)
	assert.Equal(t, map[string]string{"idList": "list123", "name": "Buy milk", "desc": ""}, gotQuery)
}

func TestCreateCard_IsDangerous(t *testing.T) {
	tool, err := NewCreateCard(stubClient(t, serveJSON(`{}`)))
	require.NoError(t, err)
	tm, ok := tool.(trelly.ToolMetadata)
	require.True(t, ok)
	assert.True(t, tm.IsDangerous())
}

// cardStore is a minimal stateful Trello stub covering POST /cards and
// GET /lists/{id}/cards, for the create-then-read round-trip.
type cardStore struct {
	mu    sync.Mutex
	cards []map[string]any
}

func (s *cardStore) handler(listID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/cards":
			card := map[string]any{
				"id":       fmt.Sprintf("c%d", len(s.cards)+1),
				"name":     r.URL.Query().Get("name"),
				"desc":     r.URL.Query().Get("desc"),
				"shortUrl": fmt.Sprintf("https://trello.com/c/c%d", len(s.cards)+1),
				"idList":   r.URL.Query().Get("idList"),
			}
			s.cards = append(s.cards, card)
			json.NewEncoder(w).Encode(card)
		case r.Method == http.MethodGet && r.URL.Path == "/lists/"+listID+"/cards":
			json.NewEncoder(w).Encode(s.cards)
		default:
			http.NotFound(w, r)
		}
	}
}

func TestCreateCard_RoundTrip(t *testing.T) {
	store := &cardStore{}
	client := stubClient(t, store.handler("l1"))

	create, err := NewCreateCard(client)
	require.NoError(t, err)
	get, err := NewGetCards(client)
	require.NoError(t, err)

	execute(t, create, `{"list_id":"l1","name":"X","desc":"Y"}`)

	var cards []map[string]any
	require.NoError(t, json.Unmarshal([]byte(execute(t, get, `{"list_id":"l1"}`)), &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, "X", cards[0]["name"])
	assert.Equal(t, "Y", cards[0]["desc"])
}

func TestTools_FailureContainment(t *testing.T) {
	// Every upstream failure mode must come back as a JSON envelope with an
	// "error" key, never as an execution error.
	builders := map[string]struct {
		build       func(*trello.Client) (trelly.Tool, error)
		args        string
		fallbackKey string
	}{
		"list_boards":       {NewListBoards, `{}`, "boards"},
		"search_boards":     {NewSearchBoards, `{"query":"x"}`, "results"},
		"get_board_details": {NewBoardDetails, `{"board_id":"b1"}`, ""},
		"get_lists":         {NewGetLists, `{"board_id":"b1"}`, ""},
		"get_cards":         {NewGetCards, `{"list_id":"l1"}`, ""},
		"create_card":       {NewCreateCard, `{"list_id":"l1","name":"n"}`, ""},
	}
	failures := map[string]func(t *testing.T) *trello.Client{
		"status 401": func(t *testing.T) *trello.Client {
			return stubClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			})
		},
		"status 500": func(t *testing.T) *trello.Client {
			return stubClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			})
		},
		"unreachable": func(t *testing.T) *trello.Client {
			srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
			srv.Close()
			client, err := trello.NewClient(trello.Config{Key: "k", Token: "t", BaseURL: srv.URL})
			require.NoError(t, err)
			return client
		},
	}

	for toolName, tc := range builders {
		for failureName, newClient := range failures {
			t.Run(toolName+"/"+failureName, func(t *testing.T) {
				tool, err := tc.build(newClient(t))
				require.NoError(t, err)

				out := execute(t, tool, tc.args)
				var env map[string]any
				require.NoError(t, json.Unmarshal([]byte(out), &env))
				require.Contains(t, env, "error")
				if tc.fallbackKey != "" {
					val, ok := env[tc.fallbackKey]
					require.True(t, ok, "fallback key %q missing", tc.fallbackKey)
					assert.Equal(t, []any{}, val)
				}
			})
		}
	}
}

func TestTools_ArgumentValidation(t *testing.T) {
	// Bad arguments are a host-protocol failure, not an envelope: they surface
	// as ClientError before the handler runs.
	tool, err := NewBoardDetails(stubClient(t, serveJSON(`{}`)))
	require.NoError(t, err)
	_, err = tool.Execute(context.Background(), []byte(`{"board_id": 42}`))
	require.Error(t, err)
	assert.True(t, trelly.IsClientError(err))
}

func TestRegisterAll(t *testing.T) {
	client := stubClient(t, serveJSON(`[]`))
	reg := trelly.NewRegistry()
	require.NoError(t, RegisterAll(reg, client))

	all := reg.GetAllTools()
	require.Len(t, all, 6)
	names := make([]string, 0, len(all))
	for _, tool := range all {
		names = append(names, tool.Name())
	}
	assert.Equal(t, []string{
		"create_card", "get_board_details", "get_cards",
		"get_lists", "list_boards", "search_boards",
	}, names)
}
