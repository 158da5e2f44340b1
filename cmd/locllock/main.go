package main

import (
	"context"
	"log"
	"os"

	"github.com/devberatzengin/LoclLock/internal/buildinfo"
	"github.com/devberatzengin/LoclLock/internal/cli"
	"github.com/devberatzengin/LoclLock/internal/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
