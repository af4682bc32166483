package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"pumpbook/config"
	"pumpbook/db"
	"pumpbook/export"
	"pumpbook/internal/mounts"
	"pumpbook/web"
)

// App is the central orchestrator for the application's business logic,
// coordinating configuration, the database and the web server.
type App struct {
	log *log.Logger
}

// NewApp creates and returns a new App instance.
func NewApp() *App {
	return &App{
		log: log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true}),
	}
}

// openDB loads the configuration and opens the database it names.
func (a *App) openDB(cfgPath string) (*config.Config, *db.DB, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	conn, err := db.NewConnection(cfg.DatabasePath, a.log)
	if err != nil {
		return nil, nil, fmt.Errorf("database setup error: %w", err)
	}
	return cfg, conn, nil
}

// dateRange fills unset range dates with the configured data start date
// and today.
func (a *App) dateRange(cfg *config.Config, from, to time.Time) (time.Time, time.Time) {
	if from.IsZero() {
		from = cfg.DataStartDate
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}
	return from, to
}

// Serve runs the bookkeeping web server. Templates and static files are
// served from the binary, or from the configured paths on disk in
// development mode where edits reload the server handlers.
func (a *App) Serve(ctx context.Context, cfgPath string) error {
	cfg, conn, err := a.openDB(cfgPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	staticDir, templatesDir := "", ""
	if cfg.Web.DevelopmentMode {
		staticDir, templatesDir = cfg.Web.StaticPath, cfg.Web.TemplatesPath
		a.log.Info("development mode: serving templates and static files from disk",
			"templates", templatesDir, "static", staticDir)
	}
	staticFS, err := mounts.NewFileMount("static", web.StaticEmbeddedFS, staticDir)
	if err != nil {
		return fmt.Errorf("static file mount error: %w", err)
	}
	templatesFS, err := mounts.NewFileMount("templates", web.TemplatesEmbeddedFS, templatesDir)
	if err != nil {
		return fmt.Errorf("templates file mount error: %w", err)
	}

	webApp, err := web.New(a.log, cfg, conn, staticFS, templatesFS)
	if err != nil {
		return err
	}
	return webApp.StartServer()
}

// Export writes one table's rows over a date range to a CSV file.
func (a *App) Export(ctx context.Context, cfgPath, table, outPath string, from, to time.Time) error {
	cfg, conn, err := a.openDB(cfgPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	tbl, err := db.ParseTable(table)
	if err != nil {
		return err
	}
	from, to = a.dateRange(cfg, from, to)

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", outPath, err)
	}
	defer f.Close()

	var count int
	switch tbl {
	case db.TableSales:
		rows, err := conn.SalesGet(ctx, from, to)
		if err != nil {
			return err
		}
		count, err = len(rows), export.SalesCSV(f, rows)
		if err != nil {
			return err
		}
	case db.TableParty:
		rows, err := conn.PartyGet(ctx, from, to)
		if err != nil {
			return err
		}
		count, err = len(rows), export.PartyCSV(f, rows)
		if err != nil {
			return err
		}
	case db.TableShortage:
		rows, err := conn.ShortageGet(ctx, from, to)
		if err != nil {
			return err
		}
		count, err = len(rows), export.ShortageCSV(f, rows)
		if err != nil {
			return err
		}
	case db.TableOwners:
		rows, err := conn.OwnerGet(ctx, from, to)
		if err != nil {
			return err
		}
		count, err = len(rows), export.OwnerCSV(f, rows)
		if err != nil {
			return err
		}
	}

	a.log.Info("exported table", "table", tbl, "rows", count, "file", outPath,
		"from", from.Format("2006-01-02"), "to", to.Format("2006-01-02"))
	return nil
}

// Backup writes all four tables to a single xlsx backup workbook.
func (a *App) Backup(ctx context.Context, cfgPath, outPath string) error {
	_, conn, err := a.openDB(cfgPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	snap, err := conn.LoadSnapshot(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", outPath, err)
	}
	defer f.Close()

	if err := export.WriteBackup(f, *snap); err != nil {
		return err
	}
	a.log.Info("backup written", "file", outPath,
		"sales", len(snap.Sales), "party", len(snap.Parties),
		"shortage", len(snap.Shortages), "owners", len(snap.Owners))
	return nil
}

// Restore replaces all four tables from an xlsx backup workbook. The
// restore is all-or-nothing: a malformed workbook leaves the database
// untouched.
func (a *App) Restore(ctx context.Context, cfgPath, inPath string) error {
	_, conn, err := a.openDB(cfgPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", inPath, err)
	}
	defer f.Close()

	snap, err := export.ReadBackup(f)
	if err != nil {
		return fmt.Errorf("backup file not usable: %w", err)
	}
	if err := conn.RestoreSnapshot(ctx, &snap); err != nil {
		return err
	}
	a.log.Info("backup restored", "file", inPath,
		"sales", len(snap.Sales), "party", len(snap.Parties),
		"shortage", len(snap.Shortages), "owners", len(snap.Owners))
	return nil
}

// Delete removes one table's rows over an inclusive date range.
func (a *App) Delete(ctx context.Context, cfgPath, table string, from, to time.Time) error {
	cfg, conn, err := a.openDB(cfgPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	tbl, err := db.ParseTable(table)
	if err != nil {
		return err
	}
	from, to = a.dateRange(cfg, from, to)

	removed, err := conn.DeleteDateRange(ctx, tbl, from, to)
	if err != nil {
		return err
	}
	a.log.Info("rows removed", "table", tbl, "rows", removed,
		"from", from.Format("2006-01-02"), "to", to.Format("2006-01-02"))
	return nil
}

// Wipe deletes the local database files, including the SQLite WAL
// sidecar files if present.
func (a *App) Wipe(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	a.log.Info("deleting database", "file", cfg.DatabasePath)
	if err := os.Remove(cfg.DatabasePath); err != nil {
		return fmt.Errorf("failed to delete database file: %w", err)
	}
	for _, sidecar := range []string{cfg.DatabasePath + "-wal", cfg.DatabasePath + "-shm"} {
		if err := os.Remove(sidecar); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete %q: %w", sidecar, err)
		}
	}
	a.log.Info("wipe complete")
	return nil
}

// Scaffold writes the embedded templates and static files to destDir so
// they can be customised and served with development mode switched on.
func (a *App) Scaffold(ctx context.Context, destDir string) error {
	staticFS, err := mounts.NewFileMount("static", web.StaticEmbeddedFS, "")
	if err != nil {
		return err
	}
	templatesFS, err := mounts.NewFileMount("templates", web.TemplatesEmbeddedFS, "")
	if err != nil {
		return err
	}
	for _, fm := range []*mounts.FileMount{staticFS, templatesFS} {
		if err := fm.Materialize(destDir); err != nil {
			return err
		}
		a.log.Info("scaffold written", "mount", fm.MountName, "dir", destDir)
	}
	return nil
}

// HashPassword prints the bcrypt hash of a password for use as the
// login.password_hash configuration value.
func (a *App) HashPassword(ctx context.Context, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fmt.Println(string(hash))
	return nil
}
