package main

import "github.com/nhle/mailbuckets/internal/cli"

func main() {
	cli.Execute()
}
