// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/gearlog"
	"github.com/poiesic/gearlog/inventory"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "gearlog",
		Usage: "Offline equipment inventory tracker",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Directory for the structured store (overrides GEARLOG_DATA_DIR)",
			},
			&cli.StringFlag{
				Name:  "fallback-file",
				Usage: "Fallback state file (overrides GEARLOG_FALLBACK_FILE)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "collections",
				Usage:  "List all collections",
				Action: collectionsCommand,
			},
			{
				Name:      "create",
				Usage:     "Create an empty collection",
				ArgsUsage: "COLLECTION",
				Action:    createCommand,
			},
			{
				Name:      "delete",
				Usage:     "Delete a collection and all its records",
				ArgsUsage: "COLLECTION",
				Action:    deleteCommand,
			},
			{
				Name:   "add",
				Usage:  "Add an equipment record to a collection",
				Action: addCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "collection", Aliases: []string{"c"}, Usage: "Collection name", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Equipment name", Required: true},
					&cli.StringFlag{Name: "category", Usage: "Category (microphone, cable, ...)"},
					&cli.StringFlag{Name: "manufacturer", Usage: "Manufacturer"},
					&cli.StringFlag{Name: "serial", Usage: "Serial number"},
					&cli.StringFlag{Name: "condition", Usage: "Condition (new, good, fair, poor, broken)"},
					&cli.IntFlag{Name: "quantity", Aliases: []string{"q"}, Usage: "Quantity", Value: 1},
					&cli.StringFlag{Name: "notes", Usage: "Free-form notes"},
				},
			},
			{
				Name:   "list",
				Usage:  "List the records of a collection",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "collection", Aliases: []string{"c"}, Usage: "Collection name", Required: true},
				},
			},
			{
				Name:   "remove",
				Usage:  "Remove a record, addressed by name (plus manufacturer/serial if set)",
				Action: removeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "collection", Aliases: []string{"c"}, Usage: "Collection name", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Equipment name", Required: true},
					&cli.StringFlag{Name: "manufacturer", Usage: "Manufacturer"},
					&cli.StringFlag{Name: "serial", Usage: "Serial number"},
				},
			},
			{
				Name:   "export",
				Usage:  "Export a collection as CSV",
				Action: exportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "collection", Aliases: []string{"c"}, Usage: "Collection name", Required: true},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file (default: stdout)"},
				},
			},
			{
				Name:      "import",
				Usage:     "Import CSV files into a collection",
				ArgsUsage: "FILE...",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "collection", Aliases: []string{"c"}, Usage: "Collection name", Required: true},
					&cli.IntFlag{Name: "pool-size", Usage: "Worker pool size for parsing", Value: 0},
				},
			},
			{
				Name:   "backup",
				Usage:  "Dump the whole store as JSON",
				Action: backupCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file (default: stdout)"},
				},
			},
			{
				Name:      "restore",
				Usage:     "Load a JSON backup into the store (best-effort, not atomic)",
				ArgsUsage: "FILE",
				Action:    restoreCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// openTracker builds a Tracker from the environment with flag overrides.
func openTracker(c *cli.Context) (*gearlog.Tracker, error) {
	cfg, err := gearlog.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if dir := c.String("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	if file := c.String("fallback-file"); file != "" {
		cfg.FallbackFile = file
	}
	return gearlog.New(cfg)
}

func collectionsCommand(c *cli.Context) error {
	tracker, err := openTracker(c)
	if err != nil {
		return err
	}
	defer tracker.Close()

	names, err := tracker.Inventory().Collections(context.Background())
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func createCommand(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("collection name is required")
	}

	tracker, err := openTracker(c)
	if err != nil {
		return err
	}
	defer tracker.Close()

	return tracker.Inventory().CreateCollection(context.Background(), name)
}

func deleteCommand(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("collection name is required")
	}

	tracker, err := openTracker(c)
	if err != nil {
		return err
	}
	defer tracker.Close()

	return tracker.Inventory().DeleteCollection(context.Background(), name)
}

func addCommand(c *cli.Context) error {
	tracker, err := openTracker(c)
	if err != nil {
		return err
	}
	defer tracker.Close()

	record := inventory.EquipmentRecord{
		Name:         c.String("name"),
		Category:     c.String("category"),
		Manufacturer: c.String("manufacturer"),
		SerialNumber: c.String("serial"),
		Condition:    c.String("condition"),
		Quantity:     c.Int("quantity"),
		Notes:        c.String("notes"),
	}
	return tracker.Inventory().AddRecord(context.Background(), c.String("collection"), record)
}

func listCommand(c *cli.Context) error {
	tracker, err := openTracker(c)
	if err != nil {
		return err
	}
	defer tracker.Close()

	records, err := tracker.Inventory().Records(context.Background(), c.String("collection"))
	if err != nil {
		return err
	}
	for _, r := range records {
		line := fmt.Sprintf("%-30s qty %-4d", r.Name, r.Quantity)
		if r.Category != "" {
			line += "  " + r.Category
		}
		if r.Condition != "" {
			line += "  (" + r.Condition + ")"
		}
		fmt.Println(line)
	}
	return nil
}

func removeCommand(c *cli.Context) error {
	tracker, err := openTracker(c)
	if err != nil {
		return err
	}
	defer tracker.Close()

	probe := inventory.EquipmentRecord{
		Name:         c.String("name"),
		Manufacturer: c.String("manufacturer"),
		SerialNumber: c.String("serial"),
	}
	return tracker.Inventory().RemoveRecord(context.Background(), c.String("collection"), probe.Fingerprint())
}

func exportCommand(c *cli.Context) error {
	tracker, err := openTracker(c)
	if err != nil {
		return err
	}
	defer tracker.Close()

	out := os.Stdout
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return tracker.Inventory().ExportCSV(context.Background(), c.String("collection"), out)
}

func importCommand(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one CSV file is required")
	}

	tracker, err := openTracker(c)
	if err != nil {
		return err
	}
	defer tracker.Close()

	var opts []inventory.BulkOption
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, inventory.WithPoolSize(size))
	}

	result, err := tracker.Inventory().ImportCSVFiles(context.Background(), c.String("collection"), paths, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "imported %d records (%d duplicates skipped, %d files failed)\n",
		result.Imported, result.Skipped, len(result.Failed))
	return nil
}

func backupCommand(c *cli.Context) error {
	tracker, err := openTracker(c)
	if err != nil {
		return err
	}
	defer tracker.Close()

	dump, err := tracker.Inventory().Backup(context.Background())
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return err
	}

	if path := c.String("out"); path != "" {
		return os.WriteFile(path, data, 0o600)
	}
	fmt.Println(string(data))
	return nil
}

func restoreCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("backup file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var mapping map[string]json.RawMessage
	if err := json.Unmarshal(data, &mapping); err != nil {
		return fmt.Errorf("parse backup: %w", err)
	}

	tracker, err := openTracker(c)
	if err != nil {
		return err
	}
	defer tracker.Close()

	return tracker.Inventory().Restore(context.Background(), mapping)
}
