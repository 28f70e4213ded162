package main

import "github.com/rustyeddy/fxjournal/internal/cli"

func main() {
	cli.Execute()
}
