package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-sphere-raytracer/pkg/scene"
	"github.com/df07/go-sphere-raytracer/web/server"
)

func main() {
	config := server.DefaultConfig()
	flag.IntVar(&config.Port, "port", config.Port, "Port to serve on")
	flag.IntVar(&config.NumWorkers, "workers", config.NumWorkers, "Number of render workers (0 = auto-detect)")
	sceneName := flag.String("scene", "default", "Built-in scene to start editing")
	flag.Parse()

	initial, err := scene.Create(*sceneName)
	if err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}

	webServer := server.NewServer(config, initial)

	log.Printf("Sphere Raytracer Web Server")
	log.Printf("Editing scene %q, render at http://localhost:%d/api/render", initial.Name, config.Port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
