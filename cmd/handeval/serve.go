package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/handeval/internal/server"
)

// ServeCmd runs the HTTP and WebSocket evaluation server.
type ServeCmd struct {
	Config string `short:"c" default:"handeval.hcl" help:"Path to HCL configuration file"`
	Addr   string `short:"a" help:"Server address to bind to as host:port (overrides config)"`
}

func (c *ServeCmd) Run(globals *Globals, logger *log.Logger) error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if err := c.applyOverrides(cfg, globals); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if globals.LogLevel == "" {
		level, err := log.ParseLevel(cfg.Server.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logger.SetLevel(level)
	}

	srv := server.NewServer(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

func (c *ServeCmd) applyOverrides(cfg *server.Config, globals *Globals) error {
	if c.Addr != "" {
		host, port, err := net.SplitHostPort(c.Addr)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", c.Addr, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port in address %q", c.Addr)
		}
		cfg.Server.Address = host
		cfg.Server.Port = p
	}
	if globals.LogLevel != "" {
		cfg.Server.LogLevel = globals.LogLevel
	}
	return nil
}
