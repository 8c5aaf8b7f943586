package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/pipegame/internal/api/request"
	"github.com/mcoot/pipegame/internal/api/response"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameNewCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameRotateCmd())
	cmd.AddCommand(newGameTickCmd())
	cmd.AddCommand(newGameAbandonCmd())

	return cmd
}

func newGameNewCmd() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.NewGameRequest{Size: size}
			var result response.GameState

			if err := client.Post(cmd.Context(), "/api/v1/games", req, &result); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&size, "size", "s", 5, "Board size (1-15)")
	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get current game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.GameState

			if err := client.Get(cmd.Context(), gamePath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameRotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate <id> <x> <y>",
		Short: "Turn a tile a quarter turn clockwise",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid x: %w", err)
			}

			y, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid y: %w", err)
			}

			req := request.RotateRequest{X: &x, Y: &y}
			var result response.GameState

			if err := client.Post(cmd.Context(), gamePath(args[0])+"/rotate", req, &result); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameTickCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "tick <id>",
		Short: "Advance the game clock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be at least 1")
			}

			var result response.GameState
			for i := 0; i < count; i++ {
				if err := client.Post(cmd.Context(), gamePath(args[0])+"/tick", nil, &result); err != nil {
					return err
				}
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of ticks")
	return cmd
}

func newGameAbandonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon <id>",
		Short: "Give up on a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), gamePath(args[0])); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).PrintMessage("Game abandoned")
			return nil
		},
	}
}

func gamePath(id string) string {
	return "/api/v1/games/" + id
}
