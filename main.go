package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"monsterpet/internal/config"
	"monsterpet/internal/pet"
	"monsterpet/internal/server"
	"monsterpet/internal/ui"
)

type options struct {
	configPath string
	serve      bool
	addr       string
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("monsterpet", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to config file (default ~/.config/monsterpet/config.yaml)")
	fs.BoolVar(&opts.serve, "serve", false, "serve the browser client instead of the terminal UI")
	fs.StringVar(&opts.addr, "addr", "", "listen address for -serve, overrides the config")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.addr != "" && !opts.serve {
		return opts, errors.New("-addr requires -serve")
	}
	return opts, nil
}

func loadConfig(opts options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	return cfg, nil
}

func runTUI(cfg *config.Config) error {
	// The alt screen owns stdout, so logs go to a file
	logFile, err := cfg.OpenLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	engine := pet.NewEngine()
	engine.SetListener(func(ev pet.Event) {
		log.Print(ev.Describe())
	})

	log.Printf("Starting %s", cfg.PetName)
	p := tea.NewProgram(ui.NewModel(engine, cfg.PetName, cfg.UI.Color), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runServer(cfg *config.Config) error {
	logger := server.NewLogger(os.Stderr)
	srv := server.New(cfg.PetName, cfg.Server.IdleTTL, logger)
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on " + cfg.Server.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func main() {
	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if opts.serve {
		err = runServer(cfg)
	} else {
		err = runTUI(cfg)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
