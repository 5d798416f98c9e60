package main

import (
	"context"
	"log"
	"os"

	"github.com/wealflow/wealflow/internal/buildinfo"
	"github.com/wealflow/wealflow/internal/client/cli"
	"github.com/wealflow/wealflow/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
