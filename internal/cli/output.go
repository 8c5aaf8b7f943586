package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/pipegame/internal/api/response"
	"github.com/mcoot/pipegame/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	out    io.Writer
	errOut io.Writer
}

// NewOutput creates a new Output formatter writing to the command's streams
func NewOutput(cmd *cobra.Command, format string) *Output {
	return &Output{
		format: format,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.errOut, string(data))
	} else {
		_, _ = fmt.Fprintf(o.errOut, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.out, string(data))
	} else {
		_, _ = fmt.Fprintln(o.out, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.GameState:
		o.printGameState(v)
	case response.Statistics:
		o.printStatistics(v)
	case response.Health:
		_, _ = fmt.Fprintf(o.out, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printGameState(g response.GameState) {
	connected := 0
	for _, row := range g.Cells {
		for _, c := range row {
			if c.Connected {
				connected++
			}
		}
	}

	_, _ = fmt.Fprintf(o.out, "Game: %s\n", g.ID)
	_, _ = fmt.Fprintf(o.out, "State: %s\n", g.State)
	_, _ = fmt.Fprintf(o.out, "Turns: %d (perfect %d)\n", g.TurnCount, g.PerfectCount)
	_, _ = fmt.Fprintf(o.out, "Time: %d\n", g.Elapsed)
	_, _ = fmt.Fprintf(o.out, "Connected: %d/%d\n", connected, g.Size*g.Size)
	_, _ = fmt.Fprintln(o.out)
	_, _ = fmt.Fprint(o.out, RenderBoard(g.Cells))
}

func (o *Output) printStatistics(s response.Statistics) {
	if len(s.Sizes) == 0 {
		_, _ = fmt.Fprintln(o.out, "No games played yet.")
		return
	}

	_, _ = fmt.Fprintf(o.out, "%-6s %6s %6s %8s %9s %6s %9s\n", "SIZE", "PLAYS", "WINS", "PERFECT", "AVG TIME", "WIN%", "PERFECT%")
	for _, row := range s.Sizes {
		avg := "-"
		if row.AverageTime != nil {
			avg = strconv.FormatFloat(*row.AverageTime, 'f', 1, 64)
		}
		_, _ = fmt.Fprintf(o.out, "%-6s %6d %6d %8d %9s %6d %9d\n",
			fmt.Sprintf("%dx%d", row.Size, row.Size),
			row.Plays, row.Wins, row.Perfects, avg, row.WinPercent, row.PerfectPercent)
	}
	_, _ = fmt.Fprintf(o.out, "Total: %d%% won, %d%% perfect\n", s.TotalWinPercent, s.TotalPerfectPercent)
}

// RenderBoard draws the board with one box-drawing glyph per tile. The power
// source is followed by '*', connected tiles by '+' and the rest by a space.
func RenderBoard(cells [][]response.Cell) string {
	var sb strings.Builder
	for _, row := range cells {
		for x, c := range row {
			if x > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteRune(cellGlyph(c))
			switch {
			case c.PowerSource:
				sb.WriteByte('*')
			case c.Connected:
				sb.WriteByte('+')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func cellGlyph(c response.Cell) rune {
	shape, err := model.ParseShape(c.Shape)
	if err != nil {
		return '?'
	}
	orientation, err := model.ParseDirection(c.Orientation)
	if err != nil {
		return '?'
	}
	return model.Glyph(shape, orientation)
}
