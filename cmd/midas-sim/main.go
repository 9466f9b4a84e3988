// cmd/midas-sim/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/tamzrod/midas/internal/codec"
	"github.com/tamzrod/midas/internal/logging"
	"github.com/tamzrod/midas/internal/simulator"
)

type options struct {
	Listen        string  `short:"l" long:"listen" default:"127.0.0.1:5020" description:"host:port to serve Modbus TCP on"`
	UnitID        uint8   `long:"unit-id" description:"Only answer this unit id (0 answers all)"`
	Concentration float32 `long:"concentration" description:"Reported gas concentration (ppm)"`
	Unit          string  `long:"unit" default:"ppm" choice:"ppm" choice:"ppb" choice:"% volume" choice:"% LEL" choice:"mA" description:"Concentration unit"`
	FaultNumber   uint16  `long:"fault" description:"Raw fault number to report (0 for none)"`
	LogLevel      string  `long:"log-level" default:"info" description:"trace|debug|info|warn|error"`
	LogFormat     string  `long:"log-format" default:"console" description:"console|json"`
}

func main() {
	var opts options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	logger, err := logging.New(opts.LogLevel, opts.LogFormat)
	if err != nil {
		log.Fatalf("logger failed: %v", err)
	}

	frame, err := opts.frame()
	if err != nil {
		log.Fatalf("simulator: %v", err)
	}

	srv, err := simulator.NewServer(simulator.Config{
		Listen: opts.Listen,
		UnitID: opts.UnitID,
		Logger: &logger,
	}, simulator.NewBank(frame))
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := srv.Start(); err != nil {
		log.Fatalf("%v", err)
	}
	defer srv.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// heartbeat counter advances once a second like the real detector
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("simulator stopped")
			return
		case <-ticker.C:
			srv.Bank().Tick()
		}
	}
}

func (o options) frame() (codec.Frame, error) {
	f := simulator.DefaultFrame()
	f.Concentration = o.Concentration
	f.FaultNumber = o.FaultNumber

	for i := codec.UnitPPM; i <= codec.UnitMilliamp; i++ {
		if label, _ := codec.UnitLabel(i); label == o.Unit {
			f.Unit = codec.UnitWord(i)
			return f, nil
		}
	}
	return f, fmt.Errorf("unknown unit %q", o.Unit)
}
