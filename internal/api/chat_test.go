package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexia-ai/sous/internal/agent"
	"github.com/lexia-ai/sous/internal/extract"
	"github.com/lexia-ai/sous/internal/lexia"
	"github.com/lexia-ai/sous/internal/log"
	"github.com/lexia-ai/sous/internal/memory"
	"github.com/lexia-ai/sous/internal/pantry"
	"github.com/lexia-ai/sous/internal/search"
	"github.com/lexia-ai/sous/internal/testutil"
)

// newTestServer builds a full server wired against stub OpenAI and Serper
// backends. modelReply is what the chat-completions stub returns; linkByQuery
// maps serper web queries to the first organic link ("" = no results).
func newTestServer(t *testing.T, modelReply string, linkByQuery map[string]string) http.Handler {
	t.Helper()

	openaiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": modelReply}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(openaiSrv.Close)

	serperSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Q string `json:"q"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search":
			organic := []map[string]string{}
			if link := linkByQuery[body.Q]; link != "" {
				organic = append(organic, map[string]string{"title": "result", "link": link})
			}
			require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"organic": organic}))
		case "/images":
			require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
				"images": []map[string]string{
					{"title": "dish photo", "imageUrl": "https://img.test/" + strings.Fields(body.Q)[0] + ".jpg"},
				},
			}))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(serperSrv.Close)

	searcher := search.NewClient(search.Options{Endpoint: serperSrv.URL, RatePerSecond: 100, Logger: log.NewNop()})

	a, err := agent.New(agent.Options{
		Store:        memory.NewStore(10),
		Pantry:       pantry.NewStore(t.TempDir(), log.NewNop()),
		Extractor:    extract.New(openaiSrv.URL+"/v1", log.NewNop()),
		Searcher:     searcher,
		RetailerSite: "carrefour.es",
		Logger:       log.NewNop(),
	})
	require.NoError(t, err)

	srv, err := NewServer(ServerConfig{
		Logger:       log.NewNop(),
		Agent:        a,
		Searcher:     searcher,
		SearchAPIKey: "server-key",
		RateBurst:    1000,
	})
	require.NoError(t, err)

	return srv.Handler()
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestSendMessage_StreamsPipeline(t *testing.T) {
	t.Parallel()

	handler := newTestServer(t, `["huevos", "patatas"]`, map[string]string{
		"huevos site:carrefour.es":  "https://www.carrefour.es/huevos",
		"patatas site:carrefour.es": "https://www.carrefour.es/patatas",
	})

	w := postJSON(t, handler, "/api/v1/send_message", lexia.ChatMessage{
		ThreadID:     "t-1",
		Message:      "Quiero cocinar una tortilla de patata",
		ResponseUUID: "r-1",
		Model:        "gpt-4o-mini",
		Variables: []lexia.Variable{
			{Name: lexia.VarOpenAIKey, Value: "sk-test"},
			{Name: lexia.VarSerperKey, Value: "serper-test"},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	events := testutil.ParseSSEEvents(t, w.Body.String())
	chunks := testutil.FindAllEvents(events, EventChunk)
	require.NotEmpty(t, chunks)

	done := testutil.FindEvent(events, EventDone)
	require.NotNil(t, done, "stream must end with a done event")

	var payload DonePayload
	require.NoError(t, json.Unmarshal([]byte(done.Data), &payload))
	assert.Equal(t, "t-1", payload.ThreadID)
	assert.Equal(t, "r-1", payload.ResponseUUID)
	assert.Contains(t, payload.Response, "huevos")
	assert.Contains(t, payload.Response, "https://www.carrefour.es/patatas")

	assert.Nil(t, testutil.FindEvent(events, EventError))
}

func TestSendMessage_MissingOpenAIKey(t *testing.T) {
	t.Parallel()

	handler := newTestServer(t, `[]`, nil)

	w := postJSON(t, handler, "/api/v1/send_message", lexia.ChatMessage{
		ThreadID: "t-1",
		Message:  "Quiero cocinar paella",
	})

	require.Equal(t, http.StatusOK, w.Code)
	events := testutil.ParseSSEEvents(t, w.Body.String())

	done := testutil.FindEvent(events, EventDone)
	require.NotNil(t, done)

	var payload DonePayload
	require.NoError(t, json.Unmarshal([]byte(done.Data), &payload))
	assert.Contains(t, payload.Response, "OpenAI")
}

func TestSendMessage_InvalidRequests(t *testing.T) {
	t.Parallel()

	handler := newTestServer(t, `[]`, nil)

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"invalid json", "{not json", "INVALID_REQUEST"},
		{"missing message", `{"thread_id":"t-1"}`, "MISSING_MESSAGE"},
		{"missing thread id", `{"message":"paella"}`, "MISSING_THREAD_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/send_message", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			events := testutil.ParseSSEEvents(t, w.Body.String())
			errEvent := testutil.FindEvent(events, EventError)
			require.NotNil(t, errEvent)

			var payload ErrorPayload
			require.NoError(t, json.Unmarshal([]byte(errEvent.Data), &payload))
			assert.Equal(t, tt.wantCode, payload.Code)
			assert.Nil(t, testutil.FindEvent(events, EventDone))
		})
	}
}

func TestMenuGallery_StreamsImages(t *testing.T) {
	t.Parallel()

	handler := newTestServer(t, `[]`, nil)

	w := postJSON(t, handler, "/api/v1/menu_gallery", agent.MenuRequest{
		MenuText: "- Paella\n- Gazpacho",
		Variables: []lexia.Variable{
			{Name: lexia.VarSerperKey, Value: "serper-test"},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	events := testutil.ParseSSEEvents(t, w.Body.String())

	var streamed strings.Builder
	for _, ev := range testutil.FindAllEvents(events, EventChunk) {
		var payload ChunkPayload
		require.NoError(t, json.Unmarshal([]byte(ev.Data), &payload))
		streamed.WriteString(payload.Text)
	}
	assert.Contains(t, streamed.String(), "[lexia.image.start]https://img.test/Paella.jpg[lexia.image.end]")
	assert.Contains(t, streamed.String(), "Gazpacho")

	require.NotNil(t, testutil.FindEvent(events, EventDone))
}

func TestMenuGallery_MissingMenuText(t *testing.T) {
	t.Parallel()

	handler := newTestServer(t, `[]`, nil)

	w := postJSON(t, handler, "/api/v1/menu_gallery", agent.MenuRequest{})

	events := testutil.ParseSSEEvents(t, w.Body.String())
	errEvent := testutil.FindEvent(events, EventError)
	require.NotNil(t, errEvent)

	var payload ErrorPayload
	require.NoError(t, json.Unmarshal([]byte(errEvent.Data), &payload))
	assert.Equal(t, "MISSING_MENU_TEXT", payload.Code)
}
