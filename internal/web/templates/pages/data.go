package pages

import (
	"strconv"

	"github.com/mcoot/pipegame/internal/model"
	"github.com/mcoot/pipegame/internal/services/stats"
	"github.com/mcoot/pipegame/internal/web/templates/layout"
)

// Board sizes offered by the new game form
const (
	MinFormSize     = 2
	MaxFormSize     = 15
	DefaultFormSize = 5
)

// HomeData holds data for the home page
type HomeData struct {
	layout.PageData
	Stats *stats.Summary
}

// GameData holds data for the game page
type GameData struct {
	layout.PageData
	Session *model.Session
}

// ErrorData holds data for an error page
type ErrorData struct {
	layout.PageData
	Heading string
	Message string
}

func formSizes() []int {
	sizes := make([]int, 0, MaxFormSize-MinFormSize+1)
	for size := MinFormSize; size <= MaxFormSize; size++ {
		sizes = append(sizes, size)
	}
	return sizes
}

func sizeLabel(size int) string {
	n := strconv.Itoa(size)
	return n + "x" + n
}

func tickPath(id model.SessionID) string {
	return "/games/" + string(id) + "/tick"
}

func abandonPath(id model.SessionID) string {
	return "/games/" + string(id) + "/abandon"
}
