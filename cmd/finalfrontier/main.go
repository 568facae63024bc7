// Package main provides the finalfrontier hall of fame CLI.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/finalfrontier/internal/platform/config"

	finalfrontiercmd "github.com/louisbranch/finalfrontier/internal/cmd/finalfrontier"
)

func main() {
	log.SetPrefix("[FINALFRONTIER] ")
	cfg, err := finalfrontiercmd.ParseConfig()
	if err != nil {
		log.Fatalf("parse config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := finalfrontiercmd.NewRootCommand(cfg, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		config.Exitf("Error: %v", err)
	}
}
