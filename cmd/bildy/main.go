package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zabahd4k/bildy/internal/api"
	"github.com/zabahd4k/bildy/internal/config"
	"github.com/zabahd4k/bildy/internal/logging"
	"github.com/zabahd4k/bildy/internal/session"
	"github.com/zabahd4k/bildy/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	cfgFile := flag.String("config", "", "path to config file")
	flag.Parse()

	if *showVersion {
		fmt.Printf("bildy %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := session.NewStore(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	apiClient := api.New(cfg.BaseURL, &http.Client{Timeout: cfg.RequestTimeout}, log)
	kinds := api.Kinds(kindOptions(cfg))

	app := ui.NewApp(apiClient, store, kinds, log)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// kindOptions translates the per-resource configuration into descriptor
// options.
func kindOptions(cfg config.Config) map[string]api.KindOptions {
	opts := make(map[string]api.KindOptions, len(cfg.Resources))
	for name, rc := range cfg.Resources {
		o := api.KindOptions{FilterByUser: rc.FilterByUser}
		if rc.CreatePolicy == "append" {
			o.CreatePolicy = api.PolicyAppend
		}
		opts[name] = o
	}
	return opts
}
