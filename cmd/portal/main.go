package main

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/oakpoint-health/booking-portal/internal/clock"
	appconfig "github.com/oakpoint-health/booking-portal/internal/config"
	"github.com/oakpoint-health/booking-portal/internal/prefs"
	"github.com/oakpoint-health/booking-portal/internal/slotapi"
	"github.com/oakpoint-health/booking-portal/internal/slots"
	"github.com/oakpoint-health/booking-portal/internal/syncer"
	"github.com/oakpoint-health/booking-portal/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if cfg.APIBaseURL == "" {
		fmt.Fprintln(os.Stderr, "API_BASE_URL is required, e.g. https://api.example.com")
		os.Exit(1)
	}

	store := slots.NewStore(clock.New())
	cache := slots.NewFilterCache()
	client := slotapi.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, logger)
	prefStore := newPrefStore(cfg, logger)
	metrics := syncer.NewMetrics(prometheus.DefaultRegisterer)

	ui := newConsoleUI(os.Stdout)
	controller := syncer.New(store, cache, client, ui, logger, metrics)

	app := &portalApp{
		cfg:        cfg,
		logger:     logger,
		controller: controller,
		store:      store,
		prefStore:  prefStore,
		ui:         ui,
	}
	app.loadPreferences(context.Background())
	app.saver = prefs.NewDebouncedSaver(cfg.PrefsWriteQuiet, app.savePreferences)

	app.run(os.Stdin)
}

func newPrefStore(cfg *appconfig.Config, logger *logging.Logger) prefs.Store {
	if cfg.PrefsBackend == "redis" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		return prefs.NewRedisStore(redis.NewClient(opts), logger)
	}
	return prefs.NewFileStore(cfg.PrefsPath, logger)
}

type portalApp struct {
	cfg        *appconfig.Config
	logger     *logging.Logger
	controller *syncer.Controller
	store      *slots.Store
	prefStore  prefs.Store
	saver      *prefs.DebouncedSaver
	ui         *consoleUI

	// prefsMu guards patient and debug: the REPL goroutine writes them and
	// the debounce timer goroutine reads them in savePreferences.
	prefsMu sync.Mutex
	patient prefs.PatientDetails
	debug   prefs.DebugSettings
}

func (a *portalApp) loadPreferences(ctx context.Context) {
	patient, err := a.prefStore.LoadPatient(ctx)
	if err != nil {
		a.logger.Warn("could not load patient details", "error", err)
	}
	debug, err := a.prefStore.LoadDebug(ctx)
	if err != nil {
		a.logger.Warn("could not load debug settings", "error", err)
	}
	a.prefsMu.Lock()
	a.patient = patient
	a.debug = debug
	a.prefsMu.Unlock()
	a.ui.debug = debug
}

func (a *portalApp) setPatientName(name string) {
	a.prefsMu.Lock()
	a.patient.Name = name
	a.prefsMu.Unlock()
	a.saver.Trigger()
}

func (a *portalApp) setPatientEmail(email string) {
	a.prefsMu.Lock()
	a.patient.Email = email
	a.prefsMu.Unlock()
	a.saver.Trigger()
}

func (a *portalApp) patientSnapshot() prefs.PatientDetails {
	a.prefsMu.Lock()
	defer a.prefsMu.Unlock()
	return a.patient
}

// savePreferences runs on the debounce timer, never on the keystroke itself.
// It snapshots the shared state under the lock and writes the copy.
func (a *portalApp) savePreferences() {
	a.prefsMu.Lock()
	patient := a.patient
	debug := a.debug
	a.prefsMu.Unlock()

	ctx := context.Background()
	if err := a.prefStore.SavePatient(ctx, patient); err != nil {
		a.logger.Warn("could not save patient details", "error", err)
	}
	if err := a.prefStore.SaveDebug(ctx, debug); err != nil {
		a.logger.Warn("could not save debug settings", "error", err)
	}
}

func (a *portalApp) run(in *os.File) {
	ctx := context.Background()

	fmt.Println("Oakpoint booking portal. Type 'help' for commands.")
	if err := a.controller.Refresh(ctx); err != nil {
		a.logger.Warn("initial refresh failed", "error", err)
	}
	a.ui.cacheHeader = a.controller.State().LastCacheHeader

	scanner := bufio.NewScanner(in)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch strings.ToLower(cmd) {
		case "help":
			printHelp()
		case "refresh":
			_ = a.controller.Refresh(ctx)
			a.ui.cacheHeader = a.controller.State().LastCacheHeader
		case "slots":
			a.ui.renderSlots(a.controller.Visible(), a.store.Len())
		case "times":
			for _, t := range a.controller.TimeOptions() {
				fmt.Println(" ", t)
			}
		case "date":
			sel := a.controller.Selection()
			sel.Date = rest
			a.controller.SetFilter(sel)
			a.ui.renderSlots(a.controller.Visible(), a.store.Len())
		case "time":
			sel := a.controller.Selection()
			sel.Time = rest
			a.controller.SetFilter(sel)
			a.ui.renderSlots(a.controller.Visible(), a.store.Len())
		case "clear":
			a.controller.ResetFilters()
			a.ui.renderSlots(a.controller.Visible(), a.store.Len())
		case "name":
			a.setPatientName(rest)
		case "email":
			a.setPatientEmail(rest)
		case "book":
			id, notes, _ := strings.Cut(rest, " ")
			patient := a.patientSnapshot()
			if err := a.controller.Book(ctx, id, patient.Name, patient.Email, strings.TrimSpace(notes)); err != nil {
				a.logger.Debug("booking rejected", "error", err)
			}
		case "debug":
			a.toggleDebug(rest)
		case "quit", "exit":
			a.saver.Flush()
			return
		default:
			fmt.Printf("unknown command %q; type 'help'\n", cmd)
		}
	}
	a.saver.Flush()
}

func (a *portalApp) toggleDebug(which string) {
	a.prefsMu.Lock()
	switch which {
	case "ids":
		a.debug.ShowIDs = !a.debug.ShowIDs
	case "cache":
		a.debug.ShowCache = !a.debug.ShowCache
	default:
		a.prefsMu.Unlock()
		fmt.Println("usage: debug ids|cache")
		return
	}
	debug := a.debug
	a.prefsMu.Unlock()

	fmt.Printf("show appointment IDs: %v, show cache header: %v\n", debug.ShowIDs, debug.ShowCache)
	a.ui.debug = debug
	a.ui.cacheHeader = a.controller.State().LastCacheHeader
	a.saver.Trigger()
}

func printHelp() {
	fmt.Print(`commands:
  refresh              fetch the latest slots from the API
  slots                show slots matching the current filters
  times                list time options for the selected date
  date YYYY-MM-DD      filter by date (empty to clear)
  time hh:mm AM/PM     filter by time label (empty to clear)
  clear                reset both filters
  name <full name>     set patient name (saved automatically)
  email <address>      set patient email (saved automatically)
  book <id> [notes]    book a slot by appointment ID
  debug ids|cache      toggle diagnostic output
  quit                 save preferences and exit
`)
}
