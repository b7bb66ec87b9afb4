package main

import "github.com/mcoot/courtbook/internal/cli"

func main() {
	cli.Execute()
}
