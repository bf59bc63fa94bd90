// Seeds a local sqlite database plus an on-disk storage directory with demo
// accounts and files, and prints ready-to-use access and share tokens for
// poking the proxy with curl.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"fileproxy/internal/config"
	"fileproxy/internal/database"
	"fileproxy/internal/domain/file"
	"fileproxy/internal/domain/storagecfg"
	"fileproxy/internal/domain/user"
	"fileproxy/internal/pkg/token"
)

func main() {
	_ = godotenv.Load()

	if os.Getenv("DATABASE_URL") == "" {
		os.Setenv("DATABASE_URL", "fileproxy.db")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&user.Account{},
		&file.Record{},
		&storagecfg.Config{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM storage_configs")
	db.Exec("DELETE FROM files")
	db.Exec("DELETE FROM users")

	baseDir, err := filepath.Abs("./data")
	if err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		log.Fatal(err)
	}

	// ================== USERS ==================
	log.Println("Creating users...")

	aliceHash, _ := bcrypt.GenerateFromPassword([]byte("alice123"), bcrypt.DefaultCost)
	alice := user.Account{
		ID:           uuid.New().String(),
		Email:        "alice@example.com",
		PasswordHash: string(aliceHash),
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	bobHash, _ := bcrypt.GenerateFromPassword([]byte("bob123"), bcrypt.DefaultCost)
	bob := user.Account{
		ID:           uuid.New().String(),
		Email:        "bob@example.com",
		PasswordHash: string(bobHash),
		IsActive:     false, // deactivated account, for testing lockout
		CreatedAt:    time.Now(),
	}

	if err := db.Create(&alice).Error; err != nil {
		log.Fatal(err)
	}
	if err := db.Create(&bob).Error; err != nil {
		log.Fatal(err)
	}

	// ================== STORAGE CONFIGS ==================
	log.Println("Creating storage configs...")

	localCreds, _ := json.Marshal(map[string]string{"base_dir": baseDir})
	for _, owner := range []user.Account{alice, bob} {
		cfg := storagecfg.Config{
			ID:          uuid.New().String(),
			UserID:      owner.ID,
			Provider:    "local",
			Credentials: string(localCreds),
			IsActive:    true,
			CreatedAt:   time.Now(),
		}
		if err := db.Create(&cfg).Error; err != nil {
			log.Fatal(err)
		}
	}

	// ================== FILES ==================
	log.Println("Creating files...")

	files := []struct {
		name     string
		mime     string
		public   bool
		owner    user.Account
		contents string
	}{
		{"welcome.txt", "text/plain", true, alice, "Welcome to the demo file proxy.\n"},
		{"private-notes.txt", "text/plain", false, alice, "Only Alice (or a share link) can read this.\n"},
		{"bob-report.txt", "text/plain", false, bob, "Bob's account is deactivated.\n"},
	}

	var demoFile file.Record
	for _, f := range files {
		id := uuid.New().String()
		relPath := filepath.Join(f.owner.ID, f.name)
		absPath := filepath.Join(baseDir, relPath)
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(absPath, []byte(f.contents), 0644); err != nil {
			log.Fatal(err)
		}

		location, _ := json.Marshal(map[string]string{"path": filepath.ToSlash(relPath)})
		rec := file.Record{
			ID:           id,
			OwnerID:      f.owner.ID,
			Kind:         file.KindFile,
			IsPublic:     f.public,
			OriginalName: f.name,
			MimeType:     f.mime,
			Size:         int64(len(f.contents)),
			Provider:     "local",
			Location:     string(location),
			CreatedAt:    time.Now(),
		}
		if err := db.Create(&rec).Error; err != nil {
			log.Fatal(err)
		}
		if f.owner.ID == alice.ID && !f.public {
			demoFile = rec
		}
	}

	// ================== DEMO TOKENS ==================
	verifier := token.NewVerifier(cfg.AccessTokenSecret, cfg.ShareTokenSecret)

	accessToken, err := verifier.MintAccess(alice.ID, 24*time.Hour)
	if err != nil {
		log.Fatal(err)
	}
	shareToken, err := verifier.MintShare(demoFile.ID, alice.ID, cfg.ShareTokenTTL)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Seed complete.")
	fmt.Printf("  alice id:      %s\n", alice.ID)
	fmt.Printf("  bob id:        %s (deactivated)\n", bob.ID)
	fmt.Printf("  private file:  %s\n", demoFile.ID)
	fmt.Printf("  access token:  %s\n", accessToken)
	fmt.Printf("  share token:   %s\n", shareToken)
	fmt.Println()
	fmt.Printf("Try: curl -H 'Authorization: Bearer %s' http://localhost:8080/%s/%s\n",
		accessToken, alice.ID, demoFile.ID)
}
