package main

import "github.com/bluenet-io/bluenet/internal/cli"

func main() {
	cli.Execute()
}
