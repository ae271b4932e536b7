package main

import (
	"context"
	"os"

	"github.com/tphakala/tickwatch/cmd"
	"github.com/tphakala/tickwatch/internal/runtime"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildDate=...".
var (
	version   string
	buildDate string
)

func main() {
	rc := runtime.NewContext(version, buildDate)
	if err := cmd.Execute(context.Background(), rc); err != nil {
		os.Exit(1)
	}
}
