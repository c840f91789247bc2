// Command main runs the database seeder for Pawprints.
package main

import (
	"flag"
	"log"

	"pawprints/internal/config"
	"pawprints/internal/database"
	"pawprints/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of random users to create")
	numPosts := flag.Int("posts", 100, "Number of random posts to create")
	shouldClean := flag.Bool("clean", false, "Clean database before seeding")
	samplesOnly := flag.Bool("samples-only", false, "Seed only the sample accounts")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.SeedSamples(); err != nil {
		log.Fatalf("Sample seeding failed: %v", err)
	}
	if *samplesOnly {
		log.Println("Done.")
		return
	}

	if err := s.SeedRandom(*numUsers, *numPosts); err != nil {
		log.Fatalf("Random seeding failed: %v", err)
	}
	log.Println("Done.")
}
