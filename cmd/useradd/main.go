package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/db"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/users"
)

// openStore connects to the user store; tests replace it.
var openStore = func(ctx context.Context, dsn string) (users.Store, func(), error) {
	pool, err := db.Open(ctx, dsn, nil)
	if err != nil {
		return nil, nil, err
	}
	return users.NewRepository(pool), pool.Close, nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("useradd", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Login email")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	dsn := fs.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	cost := fs.Int("bcrypt-cost", 10, "bcrypt cost factor")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" || *email == "" {
		fmt.Fprintln(stdout, "Usage: useradd --name <name> --email <email> [--password <password>]")
		fs.PrintDefaults()
		return errors.New("missing required flags: name, email")
	}
	if *dsn == "" {
		return errors.New("DATABASE_URL is not set")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password cannot be empty")
	}

	store, closeStore, err := openStore(ctx, *dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer closeStore()

	user, err := users.NewService(store, *cost).Register(ctx, *name, *email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "User %s created with ID %s\n", user.Email, user.ID)
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

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
