// Command server runs the specials API with the weekly sync scheduler.
package main

import (
	"flag"

	"SpecialsRadar/internal/app"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the configuration file")
	flag.Parse()

	a := app.New(*configPath)
	defer a.Close()

	a.RunServer()
}
