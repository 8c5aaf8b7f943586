package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlashMessageClearedAfterDisplay(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/games/missing")
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, "#flash", "Game not found")

	doc = parseHTML(ts.get("/").Body)
	assertNotContainsElement(t, doc, "#flash")
}

func TestGameNotFoundRedirectsHome(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/games/does-not-exist")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestInvalidBoardSizeShowsError(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/games", url.Values{"size": {"99"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsElement(t, doc, "#flash.flash-error")
	assertContainsText(t, doc, "#flash", "Board size must be between 1 and 15")
}

func TestMissingBoardSizeShowsError(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/games", url.Values{"size": {"big"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, "#flash", "Choose a board size")
}

func TestInvalidTilePositionHandledGracefully(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createTwoByTwo()

	rr := ts.postHTMX(path+"/rotate", url.Values{"x": {"left"}, "y": {"0"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.post(path+"/rotate", url.Values{"x": {"left"}, "y": {"0"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, "#flash", "Invalid tile position")
}

func TestOutOfRangeTileLeavesGameUnchanged(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createTwoByTwo()

	rr := ts.rotate(path, 7, 7, true)
	assert.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "#game-status .turns", "Turns: 0")
}

func TestUnknownRouteReturnsNotFound(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/nowhere")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
