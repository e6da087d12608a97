package main

import (
	"context"
	"log"
	"os"
	"time"

	"libris/internal/database"
	"libris/internal/repository"
)

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	reservations := repository.NewReservationRepository(db)

	cancelled, err := reservations.CancelExpired(context.Background(), time.Now().UTC())
	if err != nil {
		log.Fatalf("reservation cleanup failed: %v", err)
	}

	log.Printf("reservation cleanup completed: cancelled=%d", cancelled)
}
