package main

import "github.com/mcharbonnier/wikitally-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
