package main

import (
	"context"
	"os"

	"docqa/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stderr))
}
