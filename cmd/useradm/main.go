// useradm создает учетную запись напрямую в базе данных сервера.
// Инструмент для оператора: первый аккаунт, восстановление доступа.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/jsonhaven/jsonhaven/internal/auth"
	"github.com/jsonhaven/jsonhaven/internal/models"
	"github.com/jsonhaven/jsonhaven/internal/server/storage/sqlite"
	"github.com/jsonhaven/jsonhaven/internal/validation"
)

func main() {
	dbPath := flag.String("d", "jsonhaven.db", "SQLite database path")
	email := flag.String("email", "", "user email")
	username := flag.String("username", "", "user username")
	flag.Parse()

	if err := run(*dbPath, *email, *username); err != nil {
		fmt.Fprintf(os.Stderr, "useradm: %v\n", err)
		os.Exit(1)
	}
}

func run(dbPath, email, username string) error {
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}
	if err := validation.ValidateUsername(username); err != nil {
		return err
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	ctx := context.Background()

	store, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := store.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("User created: %s (%s)\n", user.Username, user.ID)
	return nil
}

// readPassword читает пароль без эха в терминал
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	pwBytes, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pwBytes), nil
}
