package main

import "github.com/docweave/docweave/internal/cli"

func main() {
	cli.Execute()
}
