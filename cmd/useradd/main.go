package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/users"
	"github.com/dmitrijs2005/gophauth/internal/useradd"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)

	store, err := server.NewStore(ctx, cfg, logger, nil)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}

	var opts []users.Option
	if cfg.ConditionalWrites {
		opts = append(opts, users.WithConditionalWrites())
	}
	svc := users.NewService(store, users.NewBcryptHasher(cfg.BcryptCost), logger, opts...)

	if err := useradd.New(svc, os.Stdin, int(os.Stdin.Fd()), os.Stdout).Run(ctx); err != nil {
		log.Fatal(err)
	}
}
