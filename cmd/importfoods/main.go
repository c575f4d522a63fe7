// Command importfoods loads a JSON array of system foods into the database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/FlowDomain/NutriLog/config"
	"github.com/FlowDomain/NutriLog/services"
)

func main() {
	file := flag.String("file", "", "path to a JSON array of foods")
	replace := flag.Bool("replace", false, "delete existing system foods first")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: importfoods -file foods.json [-replace]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := config.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(log)

	records, err := readRecords(*file)
	if err != nil {
		log.Error("read foods", "file", *file, "error", err)
		os.Exit(1)
	}

	db, err := config.InitDB(cfg.DB)
	if err != nil {
		log.Error("database", "error", err)
		os.Exit(1)
	}

	n, err := services.NewFoodService(db, nil).ImportSystemFoods(context.Background(), records, *replace)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}
	log.Info("system foods imported", "read", len(records), "imported", n, "replace", *replace)
}

func readRecords(path string) ([]services.SystemFoodRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []services.SystemFoodRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}
