package main

import (
	"log"

	"github.com/MrSnakeDoc/rlfeatures/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ rlfeatures failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ rlfeatures stopped with error: %v", err)
	}
}
