package main

import "homezen/internal/cli"

func main() {
	cli.Execute()
}
