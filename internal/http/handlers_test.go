package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/shuttle-ladder/internal/clock"
	"github.com/mauv0809/shuttle-ladder/internal/config"
	"github.com/mauv0809/shuttle-ladder/internal/database"
	"github.com/mauv0809/shuttle-ladder/internal/history"
	"github.com/mauv0809/shuttle-ladder/internal/http/handlers"
	"github.com/mauv0809/shuttle-ladder/internal/match"
	"github.com/mauv0809/shuttle-ladder/internal/metrics"
	"github.com/mauv0809/shuttle-ladder/internal/notifier"
	"github.com/mauv0809/shuttle-ladder/internal/player"
	"github.com/mauv0809/shuttle-ladder/internal/pubsub"
	"github.com/mauv0809/shuttle-ladder/internal/session"
	"github.com/mauv0809/shuttle-ladder/internal/snapshot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const testSlackSigningSecret = "test-signing-secret"

type testServer struct {
	*Server
	pubsub  *pubsub.MockPubSubClient
	metrics *metrics.Mock
	clock   *clock.Mock
}

// setupTestServer initializes a new server with an in-memory database and mock clients.
func setupTestServer(t *testing.T, n notifier.Notifier, slackSigningSecret string) *testServer {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	players := player.New(db)
	matches := history.New(db)
	cfg := config.Config{Slack: config.SlackConfig{SigningSecret: slackSigningSecret}}

	reg := prometheus.NewRegistry()
	metricsHandler := metrics.NewMetricsHandler(reg)
	metricsMock := metrics.NewMock()
	pubsubMock := pubsub.NewMock()
	clk := clock.NewMock(time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC))
	sess := session.New(players, snapshot.NewMemory(), pubsubMock, metricsMock, clk, match.DefaultTarget)

	return &testServer{
		Server:  NewServer(players, matches, sess, metricsHandler, cfg, n, pubsubMock),
		pubsub:  pubsubMock,
		metrics: metricsMock,
		clock:   clk,
	}
}

func (s *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) createPlayer(t *testing.T, name string) player.Player {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/players", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var p player.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	return p
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[handlers.ErrorResponse](t, rr).Code
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	bodyBytes := []byte(form.Encode())
	req, err := http.NewRequest(http.MethodPost, targetURL, bytes.NewReader(bodyBytes))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, string(bodyBytes))
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))

	return req
}

func createPushRequest(t *testing.T, targetURL string, event any) *http.Request {
	t.Helper()
	data, err := msgpack.Marshal(event)
	require.NoError(t, err)
	body := fmt.Sprintf(`{"subscription":"projects/test/subscriptions/sub","message":{"data":%q}}`,
		base64.StdEncoding.EncodeToString(data))
	req, err := http.NewRequest(http.MethodPost, targetURL, strings.NewReader(body))
	require.NoError(t, err)
	return req
}

func TestHealthCheckHandler(t *testing.T) {
	server := setupTestServer(t, notifier.NewMock(), "")

	rr := server.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestPlayerHandlers(t *testing.T) {
	t.Run("create registers player and publishes event", func(t *testing.T) {
		// Setup
		server := setupTestServer(t, notifier.NewMock(), "")

		// Execute
		p := server.createPlayer(t, "  Alice  ")

		// Assert
		assert.Equal(t, "Alice", p.Name)
		assert.Equal(t, 1500, p.CurrentRating)
		calls := server.pubsub.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, pubsub.EventPlayerRegistered, calls[0].Topic)
		assert.Equal(t, pubsub.PlayerRegistered{ID: p.ID, Name: "Alice"}, calls[0].Data)
	})

	t.Run("create with dry run marks the published event", func(t *testing.T) {
		// Setup
		server := setupTestServer(t, notifier.NewMock(), "")

		// Execute
		rr := server.do(t, http.MethodPost, "/players?dry_run=true", map[string]string{"name": "Alice"})

		// Assert
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		calls := server.pubsub.Calls()
		require.Len(t, calls, 1)
		assert.True(t, calls[0].Data.(pubsub.PlayerRegistered).DryRun)
	})

	t.Run("create rejects duplicate and invalid names", func(t *testing.T) {
		// Setup
		server := setupTestServer(t, notifier.NewMock(), "")
		server.createPlayer(t, "Alice")

		// Execute
		dup := server.do(t, http.MethodPost, "/players", map[string]string{"name": "alice"})
		blank := server.do(t, http.MethodPost, "/players", map[string]string{"name": "   "})
		long := server.do(t, http.MethodPost, "/players", map[string]string{"name": strings.Repeat("x", player.MaxNameLength+1)})
		malformed := server.do(t, http.MethodPost, "/players", map[string]int{"name": 3})

		// Assert
		assert.Equal(t, http.StatusConflict, dup.Code)
		assert.Equal(t, handlers.CodeDuplicateName, errorCode(t, dup))
		assert.Equal(t, http.StatusBadRequest, blank.Code)
		assert.Equal(t, http.StatusBadRequest, long.Code)
		assert.Equal(t, http.StatusBadRequest, malformed.Code)
	})

	t.Run("list returns dense ranked ladder", func(t *testing.T) {
		// Setup
		server := setupTestServer(t, notifier.NewMock(), "")
		server.createPlayer(t, "Alice")
		server.createPlayer(t, "Bob")

		// Execute
		rr := server.do(t, http.MethodGet, "/players", nil)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code)
		ranked := decodeBody[[]player.RankedPlayer](t, rr)
		require.Len(t, ranked, 2)
		assert.Equal(t, 1, ranked[0].Rank)
		assert.Equal(t, 1, ranked[1].Rank)
	})

	t.Run("search excludes listed ids", func(t *testing.T) {
		// Setup
		server := setupTestServer(t, notifier.NewMock(), "")
		ann := server.createPlayer(t, "Ann")
		server.createPlayer(t, "Anna")
		server.createPlayer(t, "Bob")

		// Execute
		rr := server.do(t, http.MethodGet, "/players/search?q=an&exclude="+ann.ID, nil)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code)
		found := decodeBody[[]player.RankedPlayer](t, rr)
		require.Len(t, found, 1)
		assert.Equal(t, "Anna", found[0].Name)
	})

	t.Run("rename and delete", func(t *testing.T) {
		// Setup
		server := setupTestServer(t, notifier.NewMock(), "")
		p := server.createPlayer(t, "Alice")

		// Execute
		renamed := server.do(t, http.MethodPatch, "/players/"+p.ID, map[string]string{"name": "Alicia"})
		deleted := server.do(t, http.MethodDelete, "/players/"+p.ID, nil)
		missing := server.do(t, http.MethodGet, "/players/"+p.ID, nil)

		// Assert
		require.Equal(t, http.StatusOK, renamed.Code)
		assert.Equal(t, "Alicia", decodeBody[player.Player](t, renamed).Name)
		assert.Equal(t, http.StatusNoContent, deleted.Code)
		assert.Equal(t, http.StatusNotFound, missing.Code)
		assert.Equal(t, handlers.CodeNotFound, errorCode(t, missing))

		list := decodeBody[[]player.RankedPlayer](t, server.do(t, http.MethodGet, "/players", nil))
		assert.Empty(t, list)
	})
}

func TestLiveMatchFlow(t *testing.T) {
	t.Run("played match is rated submitted and listed", func(t *testing.T) {
		// Setup
		server := setupTestServer(t, notifier.NewMock(), "")
		ann := server.createPlayer(t, "Ann")
		ben := server.createPlayer(t, "Ben")
		server.pubsub.Reset()

		// Execute
		require.Equal(t, http.StatusOK, server.do(t, http.MethodPost, "/match/participants", map[string]string{"player_id": ann.ID}).Code)
		require.Equal(t, http.StatusOK, server.do(t, http.MethodPost, "/match/participants", map[string]string{"player_id": ben.ID}).Code)
		started := server.do(t, http.MethodPost, "/match/start", map[string]any{"target": 11})
		require.Equal(t, http.StatusOK, started.Code, started.Body.String())
		server.clock.Advance(20 * time.Minute)
		for i := 0; i < 5; i++ {
			require.Equal(t, http.StatusOK, server.do(t, http.MethodPost, "/match/points/2/increment", nil).Code)
		}
		for i := 0; i < 11; i++ {
			require.Equal(t, http.StatusOK, server.do(t, http.MethodPost, "/match/points/1/increment", nil).Code)
		}

		// Assert
		live := decodeBody[handlers.LiveMatchResponse](t, server.do(t, http.MethodGet, "/match", nil))
		assert.Equal(t, match.PhaseComplete, live.Phase)
		assert.Equal(t, match.TypeOfficial, live.Match.Type)
		require.NotNil(t, live.Pending)
		assert.Equal(t, 1503, live.Pending.Winner.CurrentRating)
		assert.Equal(t, 1497, live.Pending.Loser.CurrentRating)

		submitted := server.do(t, http.MethodPost, "/match/submit?dry_run=true", nil)
		require.Equal(t, http.StatusCreated, submitted.Code, submitted.Body.String())
		rec := decodeBody[history.Record](t, submitted)
		assert.Equal(t, ann.ID, rec.WinnerID)
		assert.Equal(t, 11, rec.WinnerPoints)
		assert.Equal(t, 5, rec.LoserPoints)
		assert.Equal(t, 20, rec.DurationMinutes)
		assert.Equal(t, 1, server.metrics.MatchesSubmitted())

		calls := server.pubsub.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, pubsub.EventMatchSubmitted, calls[0].Topic)
		assert.True(t, calls[0].Data.(pubsub.MatchSubmitted).DryRun)

		after := decodeBody[handlers.LiveMatchResponse](t, server.do(t, http.MethodGet, "/match", nil))
		assert.Equal(t, match.PhaseLobby, after.Phase)
		assert.Nil(t, after.Pending)

		listed := decodeBody[[]history.Record](t, server.do(t, http.MethodGet, "/matches", nil))
		require.Len(t, listed, 1)
		assert.Equal(t, rec.ID, listed[0].ID)

		profile := server.do(t, http.MethodGet, "/players/"+ann.ID, nil)
		require.Equal(t, http.StatusOK, profile.Code)
		body := profile.Body.String()
		assert.Contains(t, body, `"current_rating":1503`)
		assert.Contains(t, body, `"matches_won":1`)
		assert.Contains(t, body, rec.ID)
	})

	t.Run("manual score edit completes match", func(t *testing.T) {
		// Setup
		server := setupTestServer(t, notifier.NewMock(), "")
		ann := server.createPlayer(t, "Ann")
		ben := server.createPlayer(t, "Ben")
		server.do(t, http.MethodPost, "/match/participants", map[string]string{"player_id": ann.ID})
		server.do(t, http.MethodPost, "/match/participants", map[string]string{"player_id": ben.ID})
		server.do(t, http.MethodPost, "/match/start", map[string]any{"target": 11, "match_type": "DUMMY"})

		// Execute
		rr := server.do(t, http.MethodPut, "/match/points", map[string]string{
			"player1_points": "9", "player2_points": "11", "target": "11",
		})

		// Assert
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		live := decodeBody[handlers.LiveMatchResponse](t, rr)
		assert.Equal(t, match.PhaseComplete, live.Phase)
		assert.Equal(t, ben.ID, live.Match.WinnerID)
		assert.Equal(t, match.TypeDummy, live.Match.Type)
	})

	t.Run("rejects invalid operations", func(t *testing.T) {
		// Setup
		server := setupTestServer(t, notifier.NewMock(), "")
		ann := server.createPlayer(t, "Ann")

		// Execute & Assert
		rr := server.do(t, http.MethodPost, "/match/participants", map[string]string{"player_id": "nobody"})
		assert.Equal(t, http.StatusNotFound, rr.Code)

		server.do(t, http.MethodPost, "/match/participants", map[string]string{"player_id": ann.ID})
		rr = server.do(t, http.MethodPost, "/match/participants", map[string]string{"player_id": ann.ID})
		assert.Equal(t, http.StatusConflict, rr.Code)

		rr = server.do(t, http.MethodPost, "/match/start", map[string]any{"target": 11})
		assert.Equal(t, http.StatusConflict, rr.Code)

		rr = server.do(t, http.MethodPost, "/match/points/1/increment", nil)
		assert.Equal(t, http.StatusConflict, rr.Code)

		ben := server.createPlayer(t, "Ben")
		server.do(t, http.MethodPost, "/match/participants", map[string]string{"player_id": ben.ID})
		require.Equal(t, http.StatusOK, server.do(t, http.MethodPost, "/match/start", map[string]any{"target": 11}).Code)

		rr = server.do(t, http.MethodPost, "/match/points/3/increment", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = server.do(t, http.MethodPost, "/match/start", map[string]any{"target": 11})
		assert.Equal(t, http.StatusConflict, rr.Code)

		rr = server.do(t, http.MethodPost, "/match/points/1/double", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = server.do(t, http.MethodPut, "/match/points", map[string]string{
			"player1_points": "abc", "player2_points": "1", "target": "11",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, handlers.CodeInvalidInput, errorCode(t, rr))

		rr = server.do(t, http.MethodPost, "/match/submit", nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("start without target uses default", func(t *testing.T) {
		// Setup
		server := setupTestServer(t, notifier.NewMock(), "")
		ann := server.createPlayer(t, "Ann")
		ben := server.createPlayer(t, "Ben")
		server.do(t, http.MethodPost, "/match/participants", map[string]string{"player_id": ann.ID})
		server.do(t, http.MethodPost, "/match/participants", map[string]string{"player_id": ben.ID})

		// Execute
		rr := server.do(t, http.MethodPost, "/match/start", map[string]any{})

		// Assert
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		live := decodeBody[handlers.LiveMatchResponse](t, rr)
		assert.Equal(t, match.PhaseInProgress, live.Phase)
		assert.Equal(t, match.DefaultTarget, live.Match.Target)
		assert.Equal(t, match.TypeOfficial, live.Match.Type)
		require.NotNil(t, live.StartedAt)
	})

	t.Run("end match returns to empty lobby", func(t *testing.T) {
		// Setup
		server := setupTestServer(t, notifier.NewMock(), "")
		ann := server.createPlayer(t, "Ann")
		server.do(t, http.MethodPost, "/match/participants", map[string]string{"player_id": ann.ID})

		// Execute
		rr := server.do(t, http.MethodPost, "/match/end", nil)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code)
		live := decodeBody[handlers.LiveMatchResponse](t, rr)
		assert.Equal(t, match.PhaseLobby, live.Phase)
		assert.Nil(t, live.Match.Player1)
		assert.Nil(t, live.StartedAt)
	})
}

func TestAnnounceLeaderboardHandler(t *testing.T) {
	// Setup
	mockNotifier := notifier.NewMock()
	server := setupTestServer(t, mockNotifier, "")
	server.createPlayer(t, "Alice")
	server.createPlayer(t, "Bob")

	// Execute
	rr := server.do(t, http.MethodPost, "/leaderboard/announce", nil)

	// Assert
	assert.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, mockNotifier.SendLeaderboardCalls, 1)
	assert.Len(t, mockNotifier.SendLeaderboardCalls[0], 2)
}

func TestListMatchesHandler(t *testing.T) {
	server := setupTestServer(t, notifier.NewMock(), "")

	t.Run("rejects negative limit", func(t *testing.T) {
		rr := server.do(t, http.MethodGet, "/matches?limit=-1", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown match is not found", func(t *testing.T) {
		rr := server.do(t, http.MethodGet, "/matches/missing", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestLeaderboardCommandHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	var formatted []player.RankedPlayer
	mockNotifier.FormatLeaderboardResponseFunc = func(players []player.RankedPlayer) (any, error) {
		formatted = players
		return slack.Message{}, nil
	}
	server := setupTestServer(t, mockNotifier, testSlackSigningSecret)
	server.createPlayer(t, "Alice")

	req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, testSlackSigningSecret)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, formatted, 1)
	assert.Equal(t, "Alice", formatted[0].Name)
}

func TestPlayerStatsCommandHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	var statsFor *player.RankedPlayer
	mockNotifier.FormatPlayerStatsResponseFunc = func(p *player.RankedPlayer, recent []history.Record) (any, error) {
		statsFor = p
		return slack.Message{}, nil
	}
	mockNotifier.FormatPlayerNotFoundResponseFunc = func(query string) (any, error) {
		return slack.Message{}, nil
	}
	server := setupTestServer(t, mockNotifier, testSlackSigningSecret)
	server.createPlayer(t, "Morten Voss")

	t.Run("handles found player", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "morten voss")

		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, statsFor)
		assert.Equal(t, "Morten Voss", statsFor.Name)
	})

	t.Run("handles not found player", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Unknown")

		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Unknown", mockNotifier.LastPlayerNotFoundQuery)
	})

	t.Run("handles missing player name", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/player-stats", url.Values{}, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects request with invalid signature", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Morten Voss")

		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)
		req.Header.Set("X-Slack-Signature", "v0=invalid-signature")
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects request with missing signature", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Morten Voss")

		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)
		req.Header.Del("X-Slack-Signature")
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects request with outdated timestamp", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Morten Voss")

		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)
		req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(time.Now().Add(-6*time.Minute).Unix(), 10))
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestPubSubPushHandlers(t *testing.T) {
	rec := history.Record{ID: "m1", WinnerID: "a", WinnerName: "Ann", LoserID: "b", LoserName: "Ben", WinnerPoints: 11, LoserPoints: 5}

	t.Run("match submitted sends result notification", func(t *testing.T) {
		// Setup
		mockNotifier := notifier.NewMock()
		server := setupTestServer(t, mockNotifier, "")
		req := createPushRequest(t, "/pubsub/match-submitted?dry_run=true", pubsub.MatchSubmitted{Record: rec})

		// Execute
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		require.Equal(t, 1, mockNotifier.MatchResultCount())
		assert.Equal(t, "m1", mockNotifier.SendMatchResultCalls[0].Record.ID)
		assert.True(t, mockNotifier.SendMatchResultCalls[0].DryRun)
	})

	t.Run("notification failure returns 500 for redelivery", func(t *testing.T) {
		// Setup
		mockNotifier := notifier.NewMock()
		mockNotifier.SendMatchResultFunc = func(history.Record, bool) error {
			return fmt.Errorf("slack unavailable")
		}
		server := setupTestServer(t, mockNotifier, "")
		req := createPushRequest(t, "/pubsub/match-submitted", pubsub.MatchSubmitted{Record: rec})

		// Execute
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("rejects body without base64 payload", func(t *testing.T) {
		// Setup
		server := setupTestServer(t, notifier.NewMock(), "")
		req, err := http.NewRequest(http.MethodPost, "/pubsub/match-submitted", strings.NewReader(`{"message":{"data":"%%%"}}`))
		require.NoError(t, err)

		// Execute
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("player registered sends welcome", func(t *testing.T) {
		// Setup
		mockNotifier := notifier.NewMock()
		server := setupTestServer(t, mockNotifier, "")
		req := createPushRequest(t, "/pubsub/player-registered", pubsub.PlayerRegistered{ID: "a", Name: "Ann"})

		// Execute
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, mockNotifier.SendPlayerRegisteredCalls, 1)
		assert.Equal(t, "Ann", mockNotifier.SendPlayerRegisteredCalls[0].Name)
		assert.False(t, mockNotifier.SendPlayerRegisteredCalls[0].DryRun)
	})

	t.Run("player registered honours dry run carried in the event", func(t *testing.T) {
		// Setup
		mockNotifier := notifier.NewMock()
		server := setupTestServer(t, mockNotifier, "")
		req := createPushRequest(t, "/pubsub/player-registered", pubsub.PlayerRegistered{ID: "a", Name: "Ann", DryRun: true})

		// Execute
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, mockNotifier.SendPlayerRegisteredCalls, 1)
		assert.True(t, mockNotifier.SendPlayerRegisteredCalls[0].DryRun)
	})
}

func TestLocalSubscriberDeliversToNotifier(t *testing.T) {
	// Setup
	mockNotifier := notifier.NewMock()
	local := pubsub.NewLocal()
	local.Subscribe(pubsub.EventMatchSubmitted, handlers.NotifyMatchResult(mockNotifier, local))

	// Execute
	err := local.SendMessage(t.Context(), pubsub.EventMatchSubmitted, pubsub.MatchSubmitted{
		Record: history.Record{ID: "m1", WinnerName: "Ann", LoserName: "Ben"},
		DryRun: true,
	})

	// Assert
	require.NoError(t, err)
	require.Equal(t, 1, mockNotifier.MatchResultCount())
	assert.Equal(t, "Ann", mockNotifier.SendMatchResultCalls[0].Record.WinnerName)
	assert.True(t, mockNotifier.SendMatchResultCalls[0].DryRun)
}

func TestLocalSubscriberWelcomesWithDryRun(t *testing.T) {
	t.Run("dry run registration reaches the notifier as dry run", func(t *testing.T) {
		// Setup
		mockNotifier := notifier.NewMock()
		local := pubsub.NewLocal()
		local.Subscribe(pubsub.EventPlayerRegistered, handlers.NotifyPlayerRegistered(mockNotifier, local))
		server := setupTestServer(t, mockNotifier, "")
		server.Router = NewServer(server.Players, server.History, server.Session, server.MetricsHandler, server.Cfg, mockNotifier, local).Router

		// Execute
		rr := server.do(t, http.MethodPost, "/players?dry_run=true", map[string]string{"name": "Ann"})

		// Assert
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		require.Len(t, mockNotifier.SendPlayerRegisteredCalls, 1)
		assert.Equal(t, "Ann", mockNotifier.SendPlayerRegisteredCalls[0].Name)
		assert.True(t, mockNotifier.SendPlayerRegisteredCalls[0].DryRun)
	})

	t.Run("regular registration is announced", func(t *testing.T) {
		// Setup
		mockNotifier := notifier.NewMock()
		local := pubsub.NewLocal()
		local.Subscribe(pubsub.EventPlayerRegistered, handlers.NotifyPlayerRegistered(mockNotifier, local))

		// Execute
		err := local.SendMessage(t.Context(), pubsub.EventPlayerRegistered, pubsub.PlayerRegistered{ID: "b", Name: "Ben"})

		// Assert
		require.NoError(t, err)
		require.Len(t, mockNotifier.SendPlayerRegisteredCalls, 1)
		assert.False(t, mockNotifier.SendPlayerRegisteredCalls[0].DryRun)
	})
}
