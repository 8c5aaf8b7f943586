package components

import (
	"strconv"
	"strings"

	"github.com/mcoot/pipegame/internal/model"
)

func tileClass(cell model.Cell) string {
	classes := []string{"tile", "shape-" + cell.Shape.String()}
	if cell.Connected {
		classes = append(classes, "connected")
	}
	if cell.PowerSource {
		classes = append(classes, "power-source")
	}
	return strings.Join(classes, " ")
}

func tileTitle(cell model.Cell) string {
	return cell.Shape.String() + " " + cell.Orientation.String()
}

func tileGlyph(cell model.Cell) string {
	return string(model.Glyph(cell.Shape, cell.Orientation))
}

func rotatePath(id model.SessionID) string {
	return "/games/" + string(id) + "/rotate"
}

// outcome is the status line's summary of where the game stands
func outcome(session *model.Session) string {
	b := session.Board
	switch session.State {
	case model.SessionStateSolved:
		if b.IsPerfect() {
			return "Solved perfectly!"
		}
		return "Solved!"
	case model.SessionStateAbandoned:
		return "Abandoned"
	default:
		return strconv.Itoa(b.ConnectedCount()) + " of " + strconv.Itoa(b.Size*b.Size) + " connected"
	}
}

func averageTime(avg *float64) string {
	if avg == nil {
		return "-"
	}
	return strconv.FormatFloat(*avg, 'f', 1, 64)
}
