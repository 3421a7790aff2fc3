package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/db"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	dsn := fs.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	steps := fs.Int("steps", 1, "Number of migrations to roll back with down")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: migrate [flags] up|down|version")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *dsn == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one command")
	}

	m, err := db.NewMigrator(*dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	switch cmd := fs.Arg(0); cmd {
	case "up":
		if err := m.Up(); err != nil {
			return err
		}
	case "down":
		if err := m.Down(*steps); err != nil {
			return err
		}
	case "version":
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "schema version %d (dirty=%t)\n", version, dirty)
	return nil
}
