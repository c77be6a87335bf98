package main

import (
	"context"
	"flag"

	"go-societe-admin/internal/config"
	"go-societe-admin/internal/model"
	"go-societe-admin/internal/repository"
	"go-societe-admin/pkg/database"
	"go-societe-admin/pkg/logger"

	"github.com/sirupsen/logrus"
)

// reset-password sets a user's password, by default the configured super
// admin back to SUPERADMIN_PASSWORD.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.New(cfg.Log.Level, "text")

	email := flag.String("email", cfg.SuperAdmin.Email, "account to reset")
	password := flag.String("password", cfg.SuperAdmin.Password, "new password")
	flag.Parse()

	if len(*password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer database.Close(db)

	ctx := context.Background()
	users := repository.NewUserRepo(db)

	user, err := users.FindByEmail(ctx, *email)
	if err != nil {
		log.Fatalf("user %s not found: %v", *email, err)
	}

	var hashed model.User
	if err := hashed.SetPassword(*password); err != nil {
		log.Fatalf("hash password: %v", err)
	}
	if err := users.UpdatePassword(ctx, user.ID, hashed.Password); err != nil {
		log.Fatalf("update password: %v", err)
	}

	log.WithField("email", user.Email).Info("password reset")
}
