// Command crawler runs one-off syncs from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"

	"SpecialsRadar/internal/app"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the configuration file")
	task := flag.String("task", "", "task to run: sync-oz | sync-coles | sync-coles-api | sync-woolies | sync-all | list")
	flag.Parse()

	a := app.New(*configPath)
	defer a.Close()

	ctx := context.Background()

	switch *task {
	case "sync-oz":
		run(ctx, a, "ozbargain")
	case "sync-coles":
		run(ctx, a, "coles")
	case "sync-coles-api":
		run(ctx, a, "coles_api")
	case "sync-woolies":
		run(ctx, a, "woolworths")
	case "sync-all":
		a.SyncAll(ctx)
	case "list":
		sites := make([]string, 0, len(a.Crawlers))
		for site := range a.Crawlers {
			sites = append(sites, site)
		}
		sort.Strings(sites)
		for _, site := range sites {
			fmt.Printf("%s\t%s\n", site, a.Crawlers[site].StorageKey())
		}
	default:
		log.Fatalf("Unknown task %q. Valid tasks: sync-oz, sync-coles, sync-coles-api, sync-woolies, sync-all, list", *task)
	}
}

func run(ctx context.Context, a *app.App, site string) {
	if err := a.Sync(ctx, site); err != nil {
		log.Fatalf("Sync failed: %v", err)
	}
}
