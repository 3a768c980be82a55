package main

import (
	"log"

	"github.com/MrSnakeDoc/desk/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ desk failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ desk stopped with error: %v", err)
	}
}
