package main

import (
	"context" // Request context
	"errors"  // Error construction
	"flag"    // Command line flags
	"fmt"     // Prompts
	"os"      // Stdin and environment

	"auction_system/internal/auth"    // Password hasher
	"auction_system/internal/config"  // Configuration
	"auction_system/internal/db"      // Storage handle
	"auction_system/internal/service" // User directory

	"github.com/sirupsen/logrus" // Logging
	"golang.org/x/term"          // Hidden password input
)

// Creates an admin user, or promotes an existing one.
func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "", "admin email")
	flag.Parse()

	cfg := config.LoadConfig()
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		var err error
		if password, err = readPassword(); err != nil {
			logrus.Fatalf("failed to read password: %v", err)
		}
	}

	gdb, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("%v", err)
	}
	store := db.NewStore(gdb)
	defer store.Close()

	users := service.NewUserService(store, auth.NewBcryptHasher(cfg.BcryptCost), nil)
	user, created, err := users.EnsureAdmin(context.Background(), service.UserInput{
		Username: *username,
		Password: password,
		Name:     *username,
		Surname:  "admin",
		Email:    *email,
	})
	if err != nil {
		logrus.Fatalf("failed to create admin: %v", err)
	}
	if created {
		logrus.Infof("Admin %s created", user.Username)
		return
	}
	logrus.Infof("User %s promoted to admin", user.Username)
}

// readPassword prompts twice without echo.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; set ADMIN_PASSWORD")
	}
	fmt.Print("Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	fmt.Print("Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if string(first) != string(second) || len(first) == 0 {
		return "", errors.New("passwords are empty or do not match")
	}
	return string(first), nil
}
