package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/tokenprovider/internal/logging"
	"github.com/dmitrijs2005/tokenprovider/internal/server/config"
	"github.com/dmitrijs2005/tokenprovider/internal/tokenctl"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app := tokenctl.NewApp(cfg, os.Stdout, logging.NewJSON(os.Stderr, cfg.LogLevel))

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}

}
