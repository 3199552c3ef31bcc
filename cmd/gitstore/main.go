package main

import (
	"context"
	"fmt"
	"os"

	"gitstore/cmd/gitstore/commands"
)

func main() {
	if err := commands.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}
