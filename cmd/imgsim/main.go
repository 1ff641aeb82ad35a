package main

import "imgsim/internal/cli"

func main() {
	cli.Execute()
}
