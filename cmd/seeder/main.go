// cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/unclebandit/campaign-intake/internal/config"
	"github.com/unclebandit/campaign-intake/internal/db"
	"github.com/unclebandit/campaign-intake/internal/model"
	"github.com/unclebandit/campaign-intake/internal/repository"
)

func main() {
	schemaFile := flag.String("schema", "seed/schema.sql", "schema applied when STORE_BACKEND=postgres")
	contactsFile := flag.String("contacts", "seed/contacts.json", "contacts to import, empty to skip")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	if cfg.Store.Backend == config.BackendPostgres {
		if err := applySchema(ctx, cfg.Database, *schemaFile); err != nil {
			log.Fatal("❌ ", err)
		}
		fmt.Printf("Seeded: %s\n", *schemaFile)
	}

	if *contactsFile == "" {
		fmt.Println("Seeding completed successfully!")
		return
	}

	store, closeStore, err := db.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}
	defer closeStore()

	contacts, err := readContacts(*contactsFile)
	if err != nil {
		log.Fatal("❌ ", err)
	}

	repo := &repository.ContactRepository{
		Store:        store,
		DatabaseID:   cfg.Appwrite.DatabaseID,
		CollectionID: cfg.Collections.Contacts,
	}
	for i := range contacts {
		if err := repo.Create(ctx, &contacts[i]); err != nil {
			log.Printf("⚠️ Failed to import contact %s: %v", contacts[i].Name, err)
			continue
		}
	}
	fmt.Printf("Seeded: %s (%d contacts)\n", *contactsFile, len(contacts))
	fmt.Println("Seeding completed successfully!")
}

func applySchema(ctx context.Context, cfg config.DatabaseConfig, file string) error {
	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute %s: %w", file, err)
	}
	return nil
}

func readContacts(file string) ([]model.Contact, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	var contacts []model.Contact
	if err := json.Unmarshal(content, &contacts); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	return contacts, nil
}
