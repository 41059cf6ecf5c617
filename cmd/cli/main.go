package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/vish0020/Onlinemart--sub000/internal/models"
	"github.com/vish0020/Onlinemart--sub000/internal/store"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	addAdminCmd := flag.NewFlagSet("add-admin", flag.ExitOnError)
	name := addAdminCmd.String("name", "Admin", "Display name for the admin user")
	email := addAdminCmd.String("email", "", "Email for the admin user")
	password := addAdminCmd.String("password", "", "Password for the admin user")

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)

	if len(os.Args) < 2 {
		fmt.Println("expected 'add-admin' or 'seed' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-admin":
		addAdminCmd.Parse(os.Args[2:])
		if *email == "" || *password == "" {
			fmt.Println("email and password are required")
			addAdminCmd.PrintDefaults()
			os.Exit(1)
		}
		createAdmin(*name, *email, *password)
	case "seed":
		seedCmd.Parse(os.Args[2:])
		seed()
	default:
		fmt.Println("expected 'add-admin' or 'seed' subcommand")
		os.Exit(1)
	}
}

func openStore() *store.Store {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./onlinemart.db"
	}
	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}

	db, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := db.Migrate(migrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func createAdmin(name, email, password string) {
	db := openStore()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		IsAdmin:  true,
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	fmt.Printf("Admin '%s' created successfully.\n", email)
}

// seed writes the default delivery settings and a small demo catalog.
func seed() {
	db := openStore()
	ctx := context.Background()

	if err := db.SaveDeliverySettings(ctx, models.DefaultDeliverySettings()); err != nil {
		log.Fatalf("Failed to seed delivery settings: %v", err)
	}

	demo := []models.Product{
		{Name: "Basmati Rice 5kg", Category: "Grocery", Price: 499, MRP: 599, Stock: 40, Description: "Long grain, aged 12 months."},
		{Name: "Cold Pressed Groundnut Oil 1L", Category: "Grocery", Price: 310, MRP: 350, Stock: 25},
		{Name: "Masala Chai 250g", Category: "Beverages", Price: 145, MRP: 180, Stock: 60, Description: "Assam CTC with cardamom and ginger."},
		{Name: "Steel Water Bottle 1L", Category: "Home", Price: 399, MRP: 549, Stock: 18},
		{Name: "Cotton Bath Towel", Category: "Home", Price: 275, MRP: 325, Stock: 30},
	}
	for i := range demo {
		if err := db.CreateProduct(ctx, &demo[i]); err != nil {
			log.Fatalf("Failed to seed product %q: %v", demo[i].Name, err)
		}
	}

	banner := &models.Banner{Title: "Monsoon Sale", Active: true, Position: 1}
	if err := db.CreateBanner(ctx, banner); err != nil {
		log.Fatalf("Failed to seed banner: %v", err)
	}

	fmt.Println("Seed data written successfully.")
}
