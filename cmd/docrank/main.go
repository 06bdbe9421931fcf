package main

import "docrank/internal/cli"

func main() {
	cli.Execute()
}
