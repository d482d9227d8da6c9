// Command seed loads the built-in sample catalog into the snapshot table
// so that API instances restore it at startup.
package main

import (
	"context"
	"log"

	"paperdesk-backend/infrastructure/config"
	"paperdesk-backend/infrastructure/di"
	"paperdesk-backend/infrastructure/seed"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The whole point of this tool is to write snapshots
	cfg.EnableSnapshots = true

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Shutdown()

	if err := seed.Load(ctx, container.CatalogRepo, container.Snapshots, container.Logger); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	log.Println("Catalog seeded")
}
