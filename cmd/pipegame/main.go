package main

import "github.com/mcoot/pipegame/internal/cli"

func main() {
	cli.Execute()
}
