package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pipegame/internal/api"
	"github.com/mcoot/pipegame/internal/cli"
	"github.com/mcoot/pipegame/internal/factory"
	"github.com/mcoot/pipegame/internal/web"
)

// cliRunner runs the CLI in-process against a server
type cliRunner struct {
	t         *testing.T
	serverURL string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	return &cliRunner{t: t, serverURL: serverURL}
}

// run executes the CLI with JSON output and returns what it printed
func (r *cliRunner) run(args ...string) (string, error) {
	return r.runFormat("json", args...)
}

func (r *cliRunner) runFormat(format string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", format,
	}, args...)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(fullArgs)
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.ExecuteContext(r.t.Context())
	return out.String(), err
}

// runJSON executes the CLI and decodes its JSON output into result
func (r *cliRunner) runJSON(result any, args ...string) {
	r.t.Helper()
	output, err := r.run(args...)
	require.NoError(r.t, err, "CLI failed: %s", output)
	require.NoError(r.t, json.Unmarshal([]byte(output), result), "bad JSON: %s", output)
}

// testServer is the API and web UI served over HTTP with deterministic dependencies
type testServer struct {
	app *factory.TestApp
	url string
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := mux.NewRouter()
	api.Register(router, api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		StatsService:   app.StatsService,
	})
	web.Register(router, web.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		StatsService:   app.StatsService,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testServer{app: app, url: server.URL}
}

// Response types for JSON parsing
type cellResponse struct {
	Shape       string `json:"shape"`
	Orientation string `json:"orientation"`
	Connected   bool   `json:"connected"`
	PowerSource bool   `json:"power_source"`
}

type gameStateResponse struct {
	ID           string           `json:"id"`
	State        string           `json:"state"`
	Size         int              `json:"size"`
	TurnCount    int              `json:"turn_count"`
	PerfectCount int              `json:"perfect_count"`
	Elapsed      int              `json:"elapsed"`
	Solved       bool             `json:"solved"`
	Cells        [][]cellResponse `json:"cells"`
}

type statisticsResponse struct {
	Sizes []struct {
		Size           int      `json:"size"`
		Plays          int      `json:"plays"`
		Wins           int      `json:"wins"`
		Perfects       int      `json:"perfects"`
		AverageTime    *float64 `json:"average_time"`
		WinPercent     int      `json:"win_percent"`
		PerfectPercent int      `json:"perfect_percent"`
	} `json:"sizes"`
	TotalWinPercent     int `json:"total_win_percent"`
	TotalPerfectPercent int `json:"total_perfect_percent"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)

	var health healthResponse
	runner.runJSON(&health, "health")
	assert.Equal(t, "ok", health.Status)

	output, err := runner.runFormat("text", "health")
	require.NoError(t, err)
	assert.Equal(t, "Status: ok\n", output)
}

func TestCLI_FullGameFlow(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)
	ts.app.QueueTwoByTwo()

	var game gameStateResponse
	runner.runJSON(&game, "game", "new", "--size", "2")
	require.NotEmpty(t, game.ID)
	assert.Equal(t, "playing", game.State)
	assert.Equal(t, 2, game.Size)
	assert.Equal(t, 1, game.PerfectCount)
	require.Len(t, game.Cells, 2)
	assert.True(t, game.Cells[0][0].PowerSource)

	runner.runJSON(&game, "game", "tick", game.ID, "--count", "3")
	assert.Equal(t, 3, game.Elapsed)

	for i := 0; i < 3; i++ {
		runner.runJSON(&game, "game", "rotate", game.ID, "0", "0")
	}
	assert.Equal(t, "solved", game.State)
	assert.True(t, game.Solved)
	assert.Equal(t, 1, game.TurnCount)

	// The clock stops once solved
	runner.runJSON(&game, "game", "tick", game.ID)
	assert.Equal(t, 3, game.Elapsed)

	var stats statisticsResponse
	runner.runJSON(&stats, "stats", "show")
	require.Len(t, stats.Sizes, 1)
	assert.Equal(t, 2, stats.Sizes[0].Size)
	assert.Equal(t, 1, stats.Sizes[0].Wins)
	assert.Equal(t, 1, stats.Sizes[0].Perfects)
	require.NotNil(t, stats.Sizes[0].AverageTime)
	assert.InDelta(t, 3.0, *stats.Sizes[0].AverageTime, 1e-9)
	assert.Equal(t, 100, stats.TotalWinPercent)
	assert.Equal(t, 100, stats.TotalPerfectPercent)
}

func TestCLI_GameTextOutput(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)
	ts.app.QueueTwoByTwo()

	var game gameStateResponse
	runner.runJSON(&game, "game", "new", "--size", "2")

	output, err := runner.runFormat("text", "game", "get", game.ID)
	require.NoError(t, err)
	assert.Contains(t, output, "Game: "+game.ID)
	assert.Contains(t, output, "State: playing")
	assert.Contains(t, output, "Connected: 2/4")
	assert.Contains(t, output, "*")
}

func TestCLI_GameAbandon(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)
	ts.app.QueueTwoByTwo()

	var game gameStateResponse
	runner.runJSON(&game, "game", "new", "--size", "2")

	var msg messageResponse
	runner.runJSON(&msg, "game", "abandon", game.ID)
	assert.Equal(t, "Game abandoned", msg.Message)

	runner.runJSON(&game, "game", "get", game.ID)
	assert.Equal(t, "abandoned", game.State)

	output, err := runner.run("game", "rotate", game.ID, "0", "0")
	require.Error(t, err)
	assert.Contains(t, output, "GAME_ABANDONED")

	var stats statisticsResponse
	runner.runJSON(&stats, "stats", "show")
	require.Len(t, stats.Sizes, 1)
	assert.Equal(t, 1, stats.Sizes[0].Plays)
	assert.Equal(t, 0, stats.Sizes[0].Wins)
	assert.Equal(t, 0, stats.TotalWinPercent)
}

func TestCLI_StatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats")
	require.NoError(t, os.WriteFile(path, []byte("7:4,1,0,30\n5:2,1,1,12\n"), 0o644))

	// No server is needed to read a statistics file
	runner := newCLIRunner(t, "http://127.0.0.1:1")

	var stats statisticsResponse
	runner.runJSON(&stats, "stats", "file", path)
	require.Len(t, stats.Sizes, 2)
	assert.Equal(t, 5, stats.Sizes[0].Size)
	assert.Equal(t, 7, stats.Sizes[1].Size)
	assert.Equal(t, 50, stats.Sizes[0].WinPercent)
	assert.Equal(t, 25, stats.Sizes[1].WinPercent)
	assert.Equal(t, 33, stats.TotalWinPercent)
	assert.Equal(t, 16, stats.TotalPerfectPercent)

	// Reading does not rewrite the file
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7:4,1,0,30\n5:2,1,1,12\n", string(data))
}

func TestCLI_StatsFileErrors(t *testing.T) {
	runner := newCLIRunner(t, "http://127.0.0.1:1")

	_, err := runner.run("stats", "file", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "stats")
	require.NoError(t, os.WriteFile(path, []byte("5:2,1\n"), 0o644))
	_, err = runner.run("stats", "file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)

	output, err := runner.run("game", "get", "no-such-game")
	require.Error(t, err)
	assert.Contains(t, output, "GAME_NOT_FOUND")

	output, err = runner.run("game", "new", "--size", "99")
	require.Error(t, err)
	assert.Contains(t, output, "INVALID_SIZE")

	_, err = runner.run("game", "rotate", "some-id", "left", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid x")

	_, err = runner.run("game", "tick", "some-id", "--count", "0")
	require.Error(t, err)

	_, err = runner.runFormat("yaml", "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}
