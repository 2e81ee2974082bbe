package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go-dulceria-api/internal/repository"
	"go-dulceria-api/internal/service"
	"go-dulceria-api/pkg/config"
	"go-dulceria-api/pkg/database"
)

func main() {
	email := flag.String("email", "", "email of the staff account")
	password := flag.String("password", "", "new password (min 8 characters)")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Setup Database
	db, err := database.ConnectDB(&cfg.Database, cfg.Store.Location)
	if err != nil {
		log.Fatal(err)
	}

	// 3. Reset; the open session of the user is closed too
	users := service.NewUserService(repository.NewUserRepo(db), repository.NewPrivilegeRepo(db), repository.NewRoleRepo(db))
	if err := users.ResetPassword(context.Background(), *email, *password); err != nil {
		log.Fatalf("Failed to reset password for %s: %v", *email, err)
	}

	log.Printf("Password for %s has been reset", *email)
}
