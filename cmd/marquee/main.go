package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/five82/marquee/internal/app"
	"github.com/five82/marquee/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	fs := pflag.NewFlagSet("marquee", pflag.ContinueOnError)
	configPath := fs.String("config", "", "override config path (default ~/.config/marquee/config.toml)")
	envFile := fs.String("env-file", ".env", "dotenv file loaded before reading the environment")
	showVersion := fs.Bool("version", false, "print version and exit")
	config.RegisterFlags(fs)

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "marquee: %v\n", err)
		return 2
	}

	if *showVersion {
		fmt.Println("marquee", version)
		return 0
	}

	if err := app.CheckTerminal(os.Stdout, term.IsTerminal); err != nil {
		fmt.Fprintf(os.Stderr, "marquee: %v\n", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		EnvFile:    *envFile,
		Flags:      fs,
		Version:    version,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "marquee: %v\n", err)
		return 1
	}
	return 0
}
