package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/marklyhq/markly.go/contrib/marklyctl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := marklyctl.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "marklyctl:", err)
		os.Exit(1)
	}
}
