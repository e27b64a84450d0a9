package main

import "github.com/andrescamacho/colony-engine/internal/adapters/cli"

func main() {
	cli.Execute()
}
