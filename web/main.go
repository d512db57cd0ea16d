package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-wave-optics/pkg/core"
	"github.com/df07/go-wave-optics/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	host := flag.String("host", "localhost", "Host interface to bind")
	flag.Parse()

	// Create and start web server
	webServer := server.NewServer(*host, *port, core.NewDefaultLogger())

	log.Printf("Wave Optics Field Server")
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
