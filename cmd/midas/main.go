// cmd/midas/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"github.com/tamzrod/midas/internal/codec"
	"github.com/tamzrod/midas/internal/config"
	"github.com/tamzrod/midas/internal/device"
	"github.com/tamzrod/midas/internal/faults"
	"github.com/tamzrod/midas/internal/logging"
	"github.com/tamzrod/midas/internal/transport"
)

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Usage = "[options] <address>"

	if _, err := parser.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Println(err)
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := opts.loadConfig()
	if err != nil {
		log.Fatalf("config failed: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("logger failed: %v", err)
	}

	table := faults.Default()
	if cfg.Faults.File != "" {
		if table, err = faults.LoadFile(cfg.Faults.File); err != nil {
			logger.Fatal().Err(err).Msg("fault table")
		}
	} else {
		logger.Debug().Msg("no fault table file, reporting fault codes only")
	}

	// --------------------
	// Device
	// --------------------

	dev := device.New(transport.New(transport.Config{
		Address:     cfg.Device.Address,
		UnitID:      cfg.Device.UnitIDOrDefault(),
		Timeout:     cfg.Device.Timeout,
		IdleTimeout: cfg.Device.IdleTimeout,
		Logger:      &logger,
	}), table)
	defer dev.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, cfg, dev, os.Stdout, logger); err != nil {
		logger.Error().Err(err).Msg("midas")
		dev.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, cfg *config.Config, dev device.Detector, out io.Writer, logger zerolog.Logger) error {
	if opts.Stream {
		return stream(ctx, cfg, dev, logger)
	}

	if opts.Command != "" {
		cmd, err := codec.ParseCommand(opts.Command)
		if err != nil {
			return err
		}
		if err := send(ctx, dev, cmd); err != nil {
			return err
		}
		logger.Info().Str("command", cmd.String()).Msg("command sent")
	}

	st, err := dev.Get(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, st)
}

func send(ctx context.Context, dev device.Detector, cmd codec.Command) error {
	switch cmd {
	case codec.ResetAlarmsAndFaults:
		return dev.ResetAlarmsAndFaults(ctx)
	case codec.InhibitAlarms:
		return dev.InhibitAlarms(ctx)
	case codec.InhibitAlarmsAndFaults:
		return dev.InhibitAlarmsAndFaults(ctx)
	case codec.RemoveInhibit:
		return dev.RemoveInhibit(ctx)
	default:
		return fmt.Errorf("unknown command %d", cmd)
	}
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
