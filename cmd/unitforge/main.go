package main

import "github.com/aalvaropc/unitforge/internal/cli"

func main() {
	cli.Execute()
}
