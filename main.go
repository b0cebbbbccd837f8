package main

import "github.com/custodia-labs/librarian-cli/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
