package main

import (
	"context"
	"os"

	"github.com/eringen/pressroom/internal/cli"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	ctx, stop := cli.NotifyContext(context.Background())
	code := cli.Pressroom(ctx, os.Args[1:], cli.Env{Stdout: os.Stdout, Stderr: os.Stderr, Version: version})
	stop()
	os.Exit(code)
}
