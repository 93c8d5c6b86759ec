package main

import "github.com/TADSTech/financial-news-classifier/internal/cli"

func main() {
	cli.Execute()
}
