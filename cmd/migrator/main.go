package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
)

func main() {
	var databaseURL, migrationsPath string
	var down bool

	flag.StringVar(&databaseURL, "db-url", "", "database url (defaults to DATABASE_URL)")
	flag.StringVar(&migrationsPath, "migrations-path", "./internal/storage/postgres/migrations", "path to migrations")
	flag.BoolVar(&down, "down", false, "roll back one migration instead of applying all")
	flag.Parse()

	_ = godotenv.Load()
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		fmt.Fprintln(os.Stderr, "database url is required")
		os.Exit(1)
	}

	m, err := migrate.New("file://"+migrationsPath, migrateURL(databaseURL))
	if err != nil {
		fmt.Fprintln(os.Stderr, "create migrate instance:", err)
		os.Exit(1)
	}
	defer m.Close()

	if down {
		err = m.Steps(-1)
	} else {
		err = m.Up()
	}
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no migrations to apply")
			return
		}
		fmt.Fprintln(os.Stderr, "run migrations:", err)
		os.Exit(1)
	}

	fmt.Println("migrations applied successfully")
}

// migrateURL maps the postgres:// form of DATABASE_URL, which the server
// consumes as-is, onto the pgx5:// scheme the migrate driver registers.
func migrateURL(databaseURL string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(databaseURL, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return databaseURL
}
