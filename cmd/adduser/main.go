// Command adduser creates a user directly in the database, e.g. the login fixture
// used by API tests.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	authadapters "nutriapp/internal/feature/auth/adapters"
	authusecase "nutriapp/internal/feature/auth/usecase"
	"nutriapp/internal/platform/config"
	infradb "nutriapp/internal/platform/db"
)

const defaultDBPath = "nutriapp.db"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "Email address")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	firstName := fs.String("first-name", "Test", "First name")
	lastName := fs.String("last-name", "User", "Last name")
	nationality := fs.String("nationality", "MX", "Nationality")
	phone := fs.String("phone", "0000000000", "Phone number")
	dbPath := fs.String("db", defaultDBPath, "Path to the SQLite database file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*email) == "" {
		fmt.Fprintln(stdout, "Usage: adduser -email <email> [-password <password>] [-db <db_path>]")
		fs.PrintDefaults()
		return errors.New("missing required flags: email")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password cannot be empty")
	}

	// DB_PATH applies only when -db was left at its default.
	if path := os.Getenv("DB_PATH"); path != "" && *dbPath == defaultDBPath {
		*dbPath = path
	}

	db, err := infradb.OpenDB(config.DatabaseConfig{
		Driver:         "sqlite",
		Path:           *dbPath,
		RunMigrations:  true,
		ConnectTimeout: time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = infradb.Close(db) }()

	auth := authusecase.NewAuthUsecase(authadapters.NewUserGorm(db), nil)
	user, err := auth.Register(context.Background(), authusecase.RegisterInput{
		Email:       *email,
		Password:    password,
		FirstName:   *firstName,
		LastName:    *lastName,
		Nationality: *nationality,
		Phone:       *phone,
	})
	if err != nil {
		if errors.Is(err, authusecase.ErrEmailAlreadyExists) {
			return fmt.Errorf("user %s already exists", authusecase.NormalizeEmail(*email))
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", user.Email, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Pipes and tests.
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
