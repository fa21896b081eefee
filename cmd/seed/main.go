// Command main runs the database seeder for Astroverse.
package main

import (
	"flag"
	"log"

	"github.com/BarishY/Astroverse/internal/config"
	"github.com/BarishY/Astroverse/internal/database"
	"github.com/BarishY/Astroverse/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numCollections := flag.Int("collections", 120, "Number of collections to create")
	maxDays := flag.Int("max-days", 90, "Spread created_at timestamps over this many days")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (dev fast mode)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d collections, clean=%v\n", *numUsers, *numCollections, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = seed.Seed(db, seed.Options{
		NumUsers:       *numUsers,
		NumCollections: *numCollections,
		MaxDays:        *maxDays,
		SkipBcrypt:     *skipBcrypt,
		ShouldClean:    *shouldClean,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
