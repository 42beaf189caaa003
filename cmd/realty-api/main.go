package main

import (
	"log"

	"github.com/futig/realty-advisor/internal/builder"
)

func main() {
	// Build fetches and indexes the corpus before the server starts listening
	app, err := builder.Build()
	if err != nil {
		log.Fatal("Failed to build application: ", err)
	}

	if err := app.Run(); err != nil {
		log.Fatal("Application error: ", err)
	}
}
