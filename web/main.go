package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-pathtracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	textures := flag.String("textures", "assets", "Directory containing image textures")
	flag.Parse()

	webServer := server.NewServer(*port, *textures)

	log.Printf("Path Tracer Web Server")
	log.Printf("Visit http://localhost:%d/api/render?scene=cornell to render", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
