package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Adeela565/ClickSafe/internal/config"
	"github.com/Adeela565/ClickSafe/internal/repository/sqlstore"
)

func main() {
	listOnly := flag.Bool("list", false, "list embedded migrations and exit")
	flag.Parse()

	cfg, err := config.LoadFromEnv(os.Getenv("CLICKSAFE_CONFIG"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if *listOnly {
		dialect, err := sqlstore.ParseDialect(cfg.Database.Driver)
		if err != nil {
			log.Fatal(err)
		}
		migrations, err := sqlstore.Migrations(dialect)
		if err != nil {
			log.Fatal(err)
		}
		for _, m := range migrations {
			fmt.Println(" ", m.Version)
		}
		fmt.Printf("Total: %d migrations (%s)\n", len(migrations), dialect)
		return
	}

	ctx := context.Background()
	db, dialect, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()
	log.Printf("Connected to %s database", dialect)

	applied, err := sqlstore.Migrate(ctx, db, dialect)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	for _, v := range applied {
		fmt.Printf("  %s ... OK\n", v)
	}
	log.Printf("Done: %d applied", len(applied))
}
