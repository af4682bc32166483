package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
)

// Applicator defines the interface for the core application logic.
// This allows the CLI to be tested independently of the main app implementation.
type Applicator interface {
	Serve(ctx context.Context, cfgPath string) error
	Export(ctx context.Context, cfgPath, table, outPath string, from, to time.Time) error
	Backup(ctx context.Context, cfgPath, outPath string) error
	Restore(ctx context.Context, cfgPath, inPath string) error
	Delete(ctx context.Context, cfgPath, table string, from, to time.Time) error
	Wipe(ctx context.Context, cfgPath string) error
	Scaffold(ctx context.Context, destDir string) error
	HashPassword(ctx context.Context, password string) error
}

// BuildCLI creates the full CLI command structure for the application.
// It injects the core application logic (the Applicator) into the command actions.
func BuildCLI(app Applicator) *cli.Command {
	// Define flags that are common across multiple commands.
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   "config.yaml",
		Usage:   "path to the configuration file",
	}

	fromFlag := &cli.StringFlag{
		Name:    "from",
		Usage:   "start date of the inclusive date range (format: '2006-01-02')",
		Aliases: []string{"f"},
	}

	toFlag := &cli.StringFlag{
		Name:    "to",
		Usage:   "end date of the inclusive date range (format: '2006-01-02')",
		Aliases: []string{"t"},
	}

	tableFlag := &cli.StringFlag{
		Name:     "table",
		Usage:    "table to act on: sales, party_ledger, employee_shortage or owners_transactions",
		Required: true,
	}

	// Define all application commands.
	serveCmd := &cli.Command{
		Name:  "serve",
		Usage: "Run the bookkeeping web server",
		Flags: []cli.Flag{configFlag},
		Action: func(ctx context.Context, c *cli.Command) error {
			return app.Serve(ctx, c.String("config"))
		},
	}

	exportCmd := &cli.Command{
		Name:  "export",
		Usage: "Export one table's rows over a date range as CSV",
		Flags: []cli.Flag{
			configFlag, tableFlag, fromFlag, toFlag,
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, defaults to <table>.csv"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			from, to, err := parseDateFlags(c.String("from"), c.String("to"))
			if err != nil {
				return err
			}
			outPath := c.String("out")
			if outPath == "" {
				outPath = c.String("table") + ".csv"
			}
			return app.Export(ctx, c.String("config"), c.String("table"), outPath, from, to)
		},
	}

	backupCmd := &cli.Command{
		Name:  "backup",
		Usage: "Write all tables to a single xlsx backup workbook",
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, defaults to a dated workbook name"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			outPath := c.String("out")
			if outPath == "" {
				outPath = fmt.Sprintf("pumpbook_backup_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
			}
			return app.Backup(ctx, c.String("config"), outPath)
		},
	}

	restoreCmd := &cli.Command{
		Name:  "restore",
		Usage: "Replace all tables from an xlsx backup workbook",
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Usage: "the backup workbook to restore from", Required: true},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return app.Restore(ctx, c.String("config"), c.String("in"))
		},
	}

	deleteCmd := &cli.Command{
		Name:  "delete",
		Usage: "Delete one table's rows over an inclusive date range",
		Flags: []cli.Flag{configFlag, tableFlag, fromFlag, toFlag},
		Action: func(ctx context.Context, c *cli.Command) error {
			from, to, err := parseDateFlags(c.String("from"), c.String("to"))
			if err != nil {
				return err
			}
			return app.Delete(ctx, c.String("config"), c.String("table"), from, to)
		},
	}

	wipeCmd := &cli.Command{
		Name:  "wipe",
		Usage: "Delete the local database files",
		Flags: []cli.Flag{configFlag},
		Action: func(ctx context.Context, c *cli.Command) error {
			return app.Wipe(ctx, c.String("config"))
		},
	}

	scaffoldCmd := &cli.Command{
		Name:  "scaffold",
		Usage: "Write the embedded templates and static files to disk for customisation",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Value: ".", Usage: "directory to write the scaffold into"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return app.Scaffold(ctx, c.String("dir"))
		},
	}

	hashPasswordCmd := &cli.Command{
		Name:  "hash-password",
		Usage: "Print the bcrypt hash of a password for the login configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "the password to hash", Required: true},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return app.HashPassword(ctx, c.String("password"))
		},
	}

	// Assemble the root command.
	rootCmd := &cli.Command{
		Name:  "pumpbook",
		Usage: "Daily bookkeeping and reporting for a fuel retail outlet",
		Commands: []*cli.Command{
			serveCmd, exportCmd, backupCmd, restoreCmd,
			deleteCmd, wipeCmd, scaffoldCmd, hashPasswordCmd,
		},
	}

	return rootCmd
}

// parseDateFlags processes the date range flags. Zero values are returned
// for unset flags; the app fills in its defaults.
func parseDateFlags(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error

	if fromStr != "" {
		from, err = time.Parse("2006-01-02", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from format: %w", err)
		}
	}
	if toStr != "" {
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to format: %w", err)
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to cannot be before --from")
	}
	return from, to, nil
}
