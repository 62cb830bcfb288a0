// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apiconnect "github.com/osa030/podbox/internal/api/connect"
	"github.com/osa030/podbox/internal/api/podboxv1/podboxv1connect"
	"github.com/osa030/podbox/internal/api/web"
	"github.com/osa030/podbox/internal/app/catalog"
	"github.com/osa030/podbox/internal/app/filter"
	"github.com/osa030/podbox/internal/app/player"
	"github.com/osa030/podbox/internal/app/session"
	"github.com/osa030/podbox/internal/infra/config"
	"github.com/osa030/podbox/internal/infra/episodeapi"
	"github.com/osa030/podbox/internal/infra/logger"
	"github.com/osa030/podbox/internal/infra/media"
)

var (
	app        = kingpin.New("podbox-server", "podbox podcast player server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// check-config command
	checkConfigCmd = app.Command("check-config", "Validate the config file and exit")

	// list-filters command
	listFiltersCmd = app.Command("list-filters", "List available episode filters and exit")
)

func init() {
	// start command (default)
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	loggerConfig := logger.Config{Output: "stdout", Level: "info"}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Close()

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if command == checkConfigCmd.FullCommand() {
		if _, err := newFilterChain(cfg); err != nil {
			zlog.Fatal().Msgf("Invalid filter config: %v", err)
		}
		printConfig(cfg)
		return
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		logger.Close()
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	endPolicy, err := player.ParseEndPolicy(cfg.Player.OnQueueEnd)
	if err != nil {
		return fmt.Errorf("invalid player config: %w", err)
	}

	factory, err := media.NewFactory(media.Config{
		Type:     cfg.Media.Type,
		Settings: cfg.Media.Settings,
	})
	if err != nil {
		return fmt.Errorf("failed to create media backend: %w", err)
	}

	source, err := episodeapi.New(episodeapi.Config{
		BaseURL: cfg.API.BaseURL,
		Limit:   cfg.API.Limit,
		Sort:    cfg.API.Sort,
		Order:   cfg.API.Order,
		Locale:  cfg.Catalog.Locale,
		Timeout: cfg.APITimeout(),
	})
	if err != nil {
		return fmt.Errorf("failed to create episodes API client: %w", err)
	}

	chain, err := newFilterChain(cfg)
	if err != nil {
		return fmt.Errorf("invalid filter config: %w", err)
	}

	cat := catalog.New(source, catalog.Config{
		LatestCount: cfg.Catalog.LatestCount,
		Revalidate:  cfg.RevalidateInterval(),
		MinScore:    cfg.Catalog.MinScore,
		Filter:      chain,
	})

	sessionMgr := session.NewManager(cat, factory, session.Config{
		EndPolicy:   endPolicy,
		SendTimeout: cfg.NotifyTimeout(),
	})

	// Create RPC services
	playerService := apiconnect.NewPlayerService(sessionMgr)
	adminService := apiconnect.NewAdminService(sessionMgr)

	mux := http.NewServeMux()

	playerPath, playerHandler := podboxv1connect.NewPlayerServiceHandler(playerService)
	adminPath, adminHandler := podboxv1connect.NewAdminServiceHandler(
		adminService,
		connect.WithInterceptors(apiconnect.NewAdminAuthInterceptor(cfg.Admin.Token)),
	)
	mux.Handle(playerPath, playerHandler)
	mux.Handle(adminPath, adminHandler)
	mux.Handle("/", web.NewServer(sessionMgr))

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	serverStartedCh := make(chan struct{})

	// Start catalog revalidation and notifications
	sessionMgr.Start()

	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		close(serverStartedCh)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	<-serverStartedCh
	// Give the server a moment to fully initialize
	time.Sleep(100 * time.Millisecond)

	executeHooks(cfg.Server.Hooks.OnStarted, "on_started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		sessionMgr.Close()
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close session manager first to end subscription streams
	sessionMgr.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")

	executeHooks(cfg.Server.Hooks.OnStopped, "on_stopped")

	return nil
}

// printConfig prints the effective configuration without secrets.
func printConfig(cfg *config.Config) {
	fmt.Println("Config OK")
	fmt.Printf("  server.addr:              %s\n", cfg.Server.Addr)
	fmt.Printf("  server.notify_timeout:    %v\n", cfg.NotifyTimeout())
	fmt.Printf("  api.base_url:             %s\n", cfg.API.BaseURL)
	fmt.Printf("  api.query:                _limit=%d&_sort=%s&_order=%s\n", cfg.API.Limit, cfg.API.Sort, cfg.API.Order)
	fmt.Printf("  api.timeout:              %v\n", cfg.APITimeout())
	fmt.Printf("  catalog.latest_count:     %d\n", cfg.Catalog.LatestCount)
	fmt.Printf("  catalog.revalidate:       %v\n", cfg.RevalidateInterval())
	fmt.Printf("  catalog.locale:           %s\n", cfg.Catalog.Locale)
	fmt.Printf("  catalog.filters:          %s\n", strings.Join(enabledFilters(cfg), ", "))
	fmt.Printf("  player.on_queue_end:      %s\n", cfg.Player.OnQueueEnd)
	fmt.Printf("  media.type:               %s\n", cfg.Media.Type)
}

// newFilterChain builds the episode filter chain from the catalog config.
func newFilterChain(cfg *config.Config) (*filter.Chain, error) {
	settings := make(map[string]filter.Settings, len(cfg.Catalog.Filters))
	for name, f := range cfg.Catalog.Filters {
		settings[name] = filter.Settings{Enabled: f.Enabled, Settings: f.Settings}
	}
	return filter.NewChainFromConfig(settings)
}

// enabledFilters returns the enabled filter names, sorted.
func enabledFilters(cfg *config.Config) []string {
	names := []string{"playable_filter"}
	for name := range cfg.Catalog.Filters {
		if name != "playable_filter" && cfg.IsFilterEnabled(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names[1:])
	return names
}

// printFilters prints available filters.
func printFilters() {
	registered := filter.GetRegistered()
	names := make([]string, 0, len(registered))
	for name := range registered {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Available Filters:")
	for _, name := range names {
		f := registered[name]()
		codes := strings.Join(f.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s]\n", f.Name(), f.Description(), codes)
	}
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
