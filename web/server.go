package web

// This file describes the web server for this project.
//
// Note that modules called by this server should provide self-describing errors since
// these are sent directly to an internal server error func:
//
//	web.ServerError(w, r, err)
//
// This web server also sets out each endpoint handler as a HandlerFunc. This allows for
// the router to provide arguments to the handler, as discussed in Mat Ryer's post at
//
//	https://grafana.com/blog/how-i-write-http-services-in-go-after-13-years/
//
// Another use of this pattern is to initialise only the templates needed for a specific
// endpoint. This allows for endpoint-specific template error catching, and potential
// use-case specific overriding of template `block` components, if required.
//
// Helper functions, such as `ServerError` and `clientError` are at the end of the file.

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/charmbracelet/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"pumpbook/config"
	"pumpbook/db"
	"pumpbook/derive"
	"pumpbook/export"
	"pumpbook/report"
)

// pageLen is the number of items to show in a page listing.
const pageLen = 15

//go:embed static
var StaticEmbeddedFS embed.FS

//go:embed templates
var TemplatesEmbeddedFS embed.FS

// WebApp is the configuration object for the web server.
type WebApp struct {
	log        *log.Logger
	cfg        *config.Config
	db         *db.DB
	staticFS   fs.FS // the fs holding the static web resources.
	templateFS fs.FS // the fs holding the web templates.
	sessions   *scs.SessionManager
	server     *http.Server
}

// New initialises a WebApp.
func New(
	logger *log.Logger,
	cfg *config.Config,
	db *db.DB,
	staticFS fs.FS,
	templateFS fs.FS,
) (*WebApp, error) {
	if logger == nil {
		return nil, fmt.Errorf("no logger provided")
	}

	sessions := scs.New()
	sessions.Lifetime = 12 * time.Hour
	sessions.Cookie.HttpOnly = true
	sessions.Cookie.SameSite = http.SameSiteLaxMode

	server := &http.Server{
		Addr:              cfg.Web.ListenAddress,
		ReadHeaderTimeout: time.Duration(30 * time.Second),
		WriteTimeout:      time.Duration(30 * time.Second),
		MaxHeaderBytes:    1 << 19, // 100k ish
	}

	webApp := &WebApp{
		log:        logger,
		cfg:        cfg,
		db:         db,
		staticFS:   staticFS,
		templateFS: templateFS,
		sessions:   sessions,
		server:     server,
	}
	return webApp, nil
}

// swappableHandler allows the active handler chain to be replaced at
// runtime, used by development mode to pick up template edits.
type swappableHandler struct {
	mu sync.RWMutex
	h  http.Handler
}

func (s *swappableHandler) swap(h http.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.h = h
}

func (s *swappableHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	h := s.h
	s.mu.RUnlock()
	h.ServeHTTP(w, r)
}

// StartServer starts a WebApp. In development mode template edits rebuild
// the handler chain, re-parsing every endpoint's templates.
func (web *WebApp) StartServer() error {
	sh := &swappableHandler{h: web.routes()}
	web.server.Handler = sh

	if web.cfg.Web.DevelopmentMode {
		if err := web.watchTemplates(sh); err != nil {
			return err
		}
	}

	web.log.Info("starting server", "address", web.cfg.Web.ListenAddress)
	return web.server.ListenAndServe()
}

// routes connects all of the endpoints and provides middleware.
func (web *WebApp) routes() http.Handler {

	r := mux.NewRouter()

	fs := http.FileServerFS(web.staticFS)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fs))

	r.Handle(
		"/",
		web.handleRoot(),
	)
	r.Handle(
		"/login",
		web.handleLogin(),
	)
	r.Handle(
		"/logout",
		web.handleLogout(),
	)

	// Dashboard and listing pages.
	r.Handle(
		"/dashboard",
		web.loggedInOK(web.handleDashboard()),
	)
	r.Handle(
		"/entries/{table:[a-z_]+}",
		web.loggedInOK(web.handleEntries()),
	)

	// Record entry pages, GET for the form and POST for submission.
	r.Handle(
		"/sales/new",
		web.loggedInOK(web.handleSalesEntry()),
	)
	r.Handle(
		"/party/new",
		web.loggedInOK(web.handlePartyEntry()),
	)
	r.Handle(
		"/shortage/new",
		web.loggedInOK(web.handleShortageEntry()),
	)
	r.Handle(
		"/owner/new",
		web.loggedInOK(web.handleOwnerEntry()),
	)

	// Data management: downloads, deletion, backup and restore.
	r.Handle(
		"/manage",
		web.loggedInOK(web.handleManage()),
	)
	r.Handle(
		"/download/{table:[a-z_]+}",
		web.loggedInOK(web.handleDownload()),
	)
	r.Handle(
		"/backup/download",
		web.loggedInOK(web.handleBackupDownload()),
	)
	r.Handle(
		"/backup/restore",
		web.loggedInOK(web.handleRestore()),
	)
	r.Handle(
		"/delete",
		web.loggedInOK(web.handleDelete()),
	)

	handler := web.sessions.LoadAndSave(web.enforceCSRF(r))
	logging := handlers.LoggingHandler(os.Stdout, handler)
	return logging
}

// handleRoot deals with http calls to "/" by redirecting to "/dashboard".
func (web *WebApp) handleRoot() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
}

// handleDashboard serves the /dashboard aggregate summary for a date
// range, defaulting to the current financial year.
func (web *WebApp) handleDashboard() http.Handler {

	name := "dashboard.html"
	tpls := []string{"base.html", "partial-daterange.html", "dashboard.html"}
	templates := template.Must(template.ParseFS(web.templateFS, tpls...))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		form := NewDateRangeForm()
		if err := DecodeURLParams(r, form); err != nil {
			web.ServerError(w, r, err)
			return
		}

		validator := NewValidator()
		form.Validate(validator)

		data := struct {
			PageTitle   string
			Form        *DateRangeForm
			Validator   *Validator
			Aggregate   viewAggregate
			CurrentPage string
			Flash       string
		}{
			PageTitle:   "Dashboard",
			Form:        form,
			Validator:   validator,
			CurrentPage: "dashboard",
			Flash:       web.sessions.PopString(ctx, "flash"),
		}

		// Render template with errors and return if the form is invalid.
		if !validator.Valid() {
			web.render(w, r, templates, name, data)
			return
		}

		sales, err := web.db.SalesGet(ctx, form.DateFrom, form.DateTo)
		if err != nil {
			web.ServerError(w, r, err)
			return
		}
		parties, err := web.db.PartyGet(ctx, form.DateFrom, form.DateTo)
		if err != nil {
			web.ServerError(w, r, err)
			return
		}
		shortages, err := web.db.ShortageGet(ctx, form.DateFrom, form.DateTo)
		if err != nil {
			web.ServerError(w, r, err)
			return
		}
		owners, err := web.db.OwnerGet(ctx, form.DateFrom, form.DateTo)
		if err != nil {
			web.ServerError(w, r, err)
			return
		}

		aggregate := report.Build(form.DateFrom, form.DateTo, sales, parties, shortages, owners)
		data.Aggregate = newViewAggregate(aggregate)

		web.render(w, r, templates, name, data)
	})
}

// handleEntries serves the /entries/<table> listing of raw records for a
// date range, paginated.
func (web *WebApp) handleEntries() http.Handler {

	name := "entries.html"
	tpls := []string{"base.html", "partial-daterange.html", "entries.html"}
	templates := template.Must(template.ParseFS(web.templateFS, tpls...))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		vars, err := validMuxVars(mux.Vars(r), "table")
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}
		table, err := db.ParseTable(vars["table"])
		if err != nil {
			web.notFound(w, r, fmt.Sprintf("Table %q not found", vars["table"]))
			return
		}

		form := NewDateRangeForm()
		if err := DecodeURLParams(r, form); err != nil {
			web.ServerError(w, r, err)
			return
		}

		validator := NewValidator()
		form.Validate(validator)

		// Initialise pagination for default state.
		pagination, _ := NewPagination(pageLen, 1, form.Page, r.URL.Query())

		data := struct {
			PageTitle   string
			Table       string
			Columns     []string
			Rows        []viewEntry
			Form        *DateRangeForm
			Validator   *Validator
			Pagination  *Pagination
			CurrentPage string
			Flash       string
		}{
			PageTitle:   entriesTitle(table),
			Table:       string(table),
			Columns:     entryColumns(string(table)),
			Form:        form,
			Validator:   validator,
			Pagination:  pagination,
			CurrentPage: "entries",
			Flash:       web.sessions.PopString(ctx, "flash"),
		}

		// Render template with errors and return if the form is invalid.
		if !validator.Valid() {
			web.render(w, r, templates, name, data)
			return
		}

		rows, err := web.entryRows(ctx, table, form.DateFrom, form.DateTo)
		if err != nil {
			web.ServerError(w, r, err)
			return
		}

		// Paginate in memory; range queries return the full window.
		data.Pagination, err = NewPagination(pageLen, max(len(rows), 1), form.Page, r.URL.Query())
		if err != nil {
			web.log.Error("pagination error", "error", err)
			http.Redirect(w, r, "/entries/"+string(table), http.StatusFound)
			return
		}
		data.Rows = pageOf(rows, form.Offset(), pageLen)

		web.render(w, r, templates, name, data)
	})
}

// entryRows loads and formats the rows of one table for listing.
func (web *WebApp) entryRows(ctx context.Context, table db.Table, from, to time.Time) ([]viewEntry, error) {
	switch table {
	case db.TableSales:
		rows, err := web.db.SalesGet(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return newViewSalesEntries(rows), nil
	case db.TableParty:
		rows, err := web.db.PartyGet(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return newViewPartyEntries(rows), nil
	case db.TableShortage:
		rows, err := web.db.ShortageGet(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return newViewShortageEntries(rows), nil
	case db.TableOwners:
		rows, err := web.db.OwnerGet(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return newViewOwnerEntries(rows), nil
	}
	return nil, fmt.Errorf("unknown table %q", table)
}

// pageOf returns one page of rows.
func pageOf(rows []viewEntry, offset, length int) []viewEntry {
	if offset >= len(rows) {
		return nil
	}
	end := min(offset+length, len(rows))
	return rows[offset:end]
}

// entriesTitle maps a table to its listing page title.
func entriesTitle(table db.Table) string {
	switch table {
	case db.TableSales:
		return "Sales Entries"
	case db.TableParty:
		return "Party Ledger Entries"
	case db.TableShortage:
		return "Employee Shortage Entries"
	case db.TableOwners:
		return "Owner Transaction Entries"
	}
	return "Entries"
}

// handleSalesEntry serves the daily sales entry form at /sales/new and
// saves submissions. The form posts raw meter readings; every derived
// figure is computed here, at save time, and stored with the record.
func (web *WebApp) handleSalesEntry() http.Handler {

	name := "sales_entry.html"
	tpls := []string{"base.html", "sales_entry.html"}
	templates := template.Must(template.ParseFS(web.templateFS, tpls...))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		form := &SalesEntryForm{
			Date:       time.Now().UTC(),
			PetrolRate: web.cfg.Rates.Petrol,
			HSDRate:    web.cfg.Rates.HSD,
			XPRate:     web.cfg.Rates.XP,
		}
		validator := NewValidator()

		data := struct {
			PageTitle   string
			Form        *SalesEntryForm
			Validator   *Validator
			CurrentPage string
			Flash       string
		}{
			PageTitle:   "Daily Sales Entry",
			Form:        form,
			Validator:   validator,
			CurrentPage: "sales",
			Flash:       web.sessions.PopString(ctx, "flash"),
		}

		if r.Method != http.MethodPost {
			web.render(w, r, templates, name, data)
			return
		}

		if err := DecodePostForm(r, form); err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}
		form.Validate(validator, web.cfg.DataStartDate)
		if !validator.Valid() {
			web.render(w, r, templates, name, data)
			return
		}

		record := db.NewSalesRecord(form.Date, derive.Sales(form.DeriveInput()))
		id, err := web.db.SalesInsert(ctx, record)
		if err != nil {
			web.ServerError(w, r, err)
			return
		}

		web.sessions.Put(ctx, "flash", fmt.Sprintf("Sales entry %d saved.", id))
		http.Redirect(w, r, "/sales/new", http.StatusSeeOther)
	})
}

// handlePartyEntry serves the party ledger entry form at /party/new.
func (web *WebApp) handlePartyEntry() http.Handler {

	name := "party_entry.html"
	tpls := []string{"base.html", "party_entry.html"}
	templates := template.Must(template.ParseFS(web.templateFS, tpls...))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		form := &PartyEntryForm{Date: time.Now().UTC()}
		validator := NewValidator()

		data := struct {
			PageTitle   string
			Form        *PartyEntryForm
			Validator   *Validator
			CurrentPage string
			Flash       string
		}{
			PageTitle:   "Party Ledger Entry",
			Form:        form,
			Validator:   validator,
			CurrentPage: "party",
			Flash:       web.sessions.PopString(ctx, "flash"),
		}

		if r.Method != http.MethodPost {
			web.render(w, r, templates, name, data)
			return
		}

		if err := DecodePostForm(r, form); err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}
		form.Validate(validator, web.cfg.DataStartDate)
		if !validator.Valid() {
			web.render(w, r, templates, name, data)
			return
		}

		id, err := web.db.PartyInsert(ctx, db.PartyLedgerEntry{
			Date:         form.Date,
			PartyName:    form.PartyName,
			CreditAmount: form.CreditAmount,
			DebitAmount:  form.DebitAmount,
			Remark:       form.Remark,
		})
		if err != nil {
			web.ServerError(w, r, err)
			return
		}

		web.sessions.Put(ctx, "flash", fmt.Sprintf("Party ledger entry %d saved.", id))
		http.Redirect(w, r, "/party/new", http.StatusSeeOther)
	})
}

// handleShortageEntry serves the employee shortage entry form at
// /shortage/new.
func (web *WebApp) handleShortageEntry() http.Handler {

	name := "shortage_entry.html"
	tpls := []string{"base.html", "shortage_entry.html"}
	templates := template.Must(template.ParseFS(web.templateFS, tpls...))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		form := &ShortageEntryForm{Date: time.Now().UTC()}
		validator := NewValidator()

		data := struct {
			PageTitle   string
			Form        *ShortageEntryForm
			Validator   *Validator
			CurrentPage string
			Flash       string
		}{
			PageTitle:   "Employee Shortage Entry",
			Form:        form,
			Validator:   validator,
			CurrentPage: "shortage",
			Flash:       web.sessions.PopString(ctx, "flash"),
		}

		if r.Method != http.MethodPost {
			web.render(w, r, templates, name, data)
			return
		}

		if err := DecodePostForm(r, form); err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}
		form.Validate(validator, web.cfg.DataStartDate)
		if !validator.Valid() {
			web.render(w, r, templates, name, data)
			return
		}

		id, err := web.db.ShortageInsert(ctx, db.EmployeeShortageEntry{
			Date:           form.Date,
			EmployeeName:   form.EmployeeName,
			ShortageAmount: form.ShortageAmount,
		})
		if err != nil {
			web.ServerError(w, r, err)
			return
		}

		web.sessions.Put(ctx, "flash", fmt.Sprintf("Shortage entry %d saved.", id))
		http.Redirect(w, r, "/shortage/new", http.StatusSeeOther)
	})
}

// handleOwnerEntry serves the owner transaction entry form at /owner/new.
func (web *WebApp) handleOwnerEntry() http.Handler {

	name := "owner_entry.html"
	tpls := []string{"base.html", "owner_entry.html"}
	templates := template.Must(template.ParseFS(web.templateFS, tpls...))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		form := &OwnerEntryForm{Date: time.Now().UTC(), Mode: db.ModeCash, Type: db.TypeCredit}
		validator := NewValidator()

		data := struct {
			PageTitle   string
			Form        *OwnerEntryForm
			Modes       []string
			Types       []string
			Validator   *Validator
			CurrentPage string
			Flash       string
		}{
			PageTitle:   "Owner Transaction Entry",
			Form:        form,
			Modes:       db.OwnerModes(),
			Types:       db.OwnerTypes(),
			Validator:   validator,
			CurrentPage: "owner",
			Flash:       web.sessions.PopString(ctx, "flash"),
		}

		if r.Method != http.MethodPost {
			web.render(w, r, templates, name, data)
			return
		}

		if err := DecodePostForm(r, form); err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}
		form.Validate(validator, web.cfg.DataStartDate)
		if !validator.Valid() {
			web.render(w, r, templates, name, data)
			return
		}

		id, err := web.db.OwnerInsert(ctx, db.OwnerTransactionEntry{
			Date:      form.Date,
			OwnerName: form.OwnerName,
			Amount:    form.Amount,
			Mode:      form.Mode,
			Type:      form.Type,
			Remark:    form.Remark,
		})
		if err != nil {
			web.ServerError(w, r, err)
			return
		}

		web.sessions.Put(ctx, "flash", fmt.Sprintf("Owner transaction %d saved.", id))
		http.Redirect(w, r, "/owner/new", http.StatusSeeOther)
	})
}

// handleManage serves the /manage page with the deletion, backup and
// restore forms.
func (web *WebApp) handleManage() http.Handler {

	name := "manage.html"
	tpls := []string{"base.html", "manage.html"}
	templates := template.Must(template.ParseFS(web.templateFS, tpls...))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		data := struct {
			PageTitle   string
			Tables      []db.Table
			CurrentPage string
			Flash       string
		}{
			PageTitle:   "Manage Data",
			Tables:      db.Tables(),
			CurrentPage: "manage",
			Flash:       web.sessions.PopString(ctx, "flash"),
		}
		web.render(w, r, templates, name, data)
	})
}

// handleDelete serves POSTs to /delete, removing one table's rows over an
// inclusive date range. Out-of-table rows and identifiers are unaffected.
func (web *WebApp) handleDelete() http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()
		if r.Method != http.MethodPost {
			web.clientError(w, "only POST requests allowed", http.StatusMethodNotAllowed)
			return
		}

		form := &DeleteRangeForm{}
		if err := DecodePostForm(r, form); err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}
		validator := NewValidator()
		form.Validate(validator)
		if !validator.Valid() {
			web.clientError(w, fmt.Sprintf("invalid deletion request: %v", validator.Errors), http.StatusBadRequest)
			return
		}

		table, err := db.ParseTable(form.Table)
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}

		removed, err := web.db.DeleteDateRange(ctx, table, form.DateFrom, form.DateTo)
		if err != nil {
			web.ServerError(w, r, err)
			return
		}

		web.sessions.Put(ctx, "flash", fmt.Sprintf("Removed %d %s rows.", removed, table))
		http.Redirect(w, r, "/manage", http.StatusSeeOther)
	})
}

// handleDownload serves per-table CSV downloads at /download/<table> for
// a date range.
func (web *WebApp) handleDownload() http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		vars, err := validMuxVars(mux.Vars(r), "table")
		if err != nil {
			web.clientError(w, err.Error(), http.StatusBadRequest)
			return
		}
		table, err := db.ParseTable(vars["table"])
		if err != nil {
			web.notFound(w, r, fmt.Sprintf("Table %q not found", vars["table"]))
			return
		}

		form := NewDateRangeForm()
		if err := DecodeURLParams(r, form); err != nil {
			web.ServerError(w, r, err)
			return
		}
		validator := NewValidator()
		form.Validate(validator)
		if !validator.Valid() {
			web.clientError(w, fmt.Sprintf("invalid download request: %v", validator.Errors), http.StatusBadRequest)
			return
		}

		// Write to a buffer first so errors can return a clean 500.
		buf := new(bytes.Buffer)
		switch table {
		case db.TableSales:
			var rows []db.SalesRecord
			if rows, err = web.db.SalesGet(ctx, form.DateFrom, form.DateTo); err == nil {
				err = export.SalesCSV(buf, rows)
			}
		case db.TableParty:
			var rows []db.PartyLedgerEntry
			if rows, err = web.db.PartyGet(ctx, form.DateFrom, form.DateTo); err == nil {
				err = export.PartyCSV(buf, rows)
			}
		case db.TableShortage:
			var rows []db.EmployeeShortageEntry
			if rows, err = web.db.ShortageGet(ctx, form.DateFrom, form.DateTo); err == nil {
				err = export.ShortageCSV(buf, rows)
			}
		case db.TableOwners:
			var rows []db.OwnerTransactionEntry
			if rows, err = web.db.OwnerGet(ctx, form.DateFrom, form.DateTo); err == nil {
				err = export.OwnerCSV(buf, rows)
			}
		}
		if err != nil {
			web.ServerError(w, r, err)
			return
		}

		filename := fmt.Sprintf("%s_%s_%s.csv",
			table, form.DateFrom.Format("2006-01-02"), form.DateTo.Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		_, _ = buf.WriteTo(w)
	})
}

// handleBackupDownload serves the full-database xlsx backup workbook.
func (web *WebApp) handleBackupDownload() http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		snap, err := web.db.LoadSnapshot(ctx)
		if err != nil {
			web.ServerError(w, r, err)
			return
		}

		buf := new(bytes.Buffer)
		if err := export.WriteBackup(buf, *snap); err != nil {
			web.ServerError(w, r, err)
			return
		}

		filename := fmt.Sprintf("pumpbook_backup_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		_, _ = buf.WriteTo(w)
	})
}

// maxRestoreBytes limits uploaded backup workbooks to 32MB.
const maxRestoreBytes = 32 << 20

// handleRestore serves POSTs to /backup/restore, replacing all four
// tables from an uploaded backup workbook. The restore is all-or-nothing:
// a malformed workbook leaves the database untouched.
func (web *WebApp) handleRestore() http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()
		if r.Method != http.MethodPost {
			web.clientError(w, "only POST requests allowed", http.StatusMethodNotAllowed)
			return
		}

		if err := r.ParseMultipartForm(maxRestoreBytes); err != nil {
			web.clientError(w, fmt.Sprintf("upload error: %v", err), http.StatusBadRequest)
			return
		}
		file, _, err := r.FormFile("backup")
		if err != nil {
			web.clientError(w, "no backup file provided", http.StatusBadRequest)
			return
		}
		defer file.Close()

		snap, err := export.ReadBackup(file)
		if err != nil {
			web.clientError(w, fmt.Sprintf("backup file not usable: %v", err), http.StatusBadRequest)
			return
		}
		if err := web.db.RestoreSnapshot(ctx, &snap); err != nil {
			web.ServerError(w, r, err)
			return
		}

		web.sessions.Put(ctx, "flash", fmt.Sprintf(
			"Restored %d sales, %d party, %d shortage and %d owner rows.",
			len(snap.Sales), len(snap.Parties), len(snap.Shortages), len(snap.Owners)))
		http.Redirect(w, r, "/manage", http.StatusSeeOther)
	})
}

/* -------------------------------------------------------------------------- */
// Helpers
/* -------------------------------------------------------------------------- */

// render renders the specified template.
func (web *WebApp) render(w http.ResponseWriter, r *http.Request, template *template.Template, filename string, data any) {
	buf := new(bytes.Buffer)
	err := template.ExecuteTemplate(buf, filename, data)
	if err != nil {
		web.log.Error("template rendering error", "template", filename, "error", err)
		web.ServerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// ServerError logs and returns an internal server error. The error should
// contain the information needed for logging.
func (web *WebApp) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	web.log.Error(err.Error(), "method", r.Method, "uri", r.URL.RequestURI())
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// clientError returns a client error.
func (web *WebApp) clientError(w http.ResponseWriter, message string, status int) {
	if message == "" {
		message = http.StatusText(status)
	}
	http.Error(w, message, status)
}

// notFound raises a 404 clientError.
func (web *WebApp) notFound(w http.ResponseWriter, r *http.Request, message string) {
	web.clientError(w, message, http.StatusNotFound)
}
