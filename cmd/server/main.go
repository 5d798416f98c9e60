package main

import (
	"context"
	"log"
	"os"

	"github.com/wealflow/wealflow/internal/buildinfo"
	"github.com/wealflow/wealflow/internal/server"
	"github.com/wealflow/wealflow/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
