// internal/simulator/server.go
package simulator

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	mbserver "github.com/simonvetter/modbus"
)

// Config for a simulator server.
type Config struct {
	Listen     string // host:port
	UnitID     uint8  // 0 answers every unit id
	Timeout    time.Duration
	MaxClients uint

	Logger *zerolog.Logger
}

// Server exposes a Bank over Modbus TCP.
type Server struct {
	bank   *Bank
	unitID uint8
	log    zerolog.Logger
	srv    *mbserver.ModbusServer
}

// NewServer builds a server for bank. Call Start to listen.
func NewServer(cfg Config, bank *Bank) (*Server, error) {
	if cfg.Listen == "" {
		return nil, errors.New("simulator: listen address required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxClients == 0 {
		cfg.MaxClients = 4
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	s := &Server{
		bank:   bank,
		unitID: cfg.UnitID,
		log:    log.With().Str("listen", cfg.Listen).Logger(),
	}

	srv, err := mbserver.NewServer(&mbserver.ServerConfiguration{
		URL:        "tcp://" + cfg.Listen,
		Timeout:    cfg.Timeout,
		MaxClients: cfg.MaxClients,
	}, s)
	if err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}
	s.srv = srv
	return s, nil
}

// Bank returns the served register bank.
func (s *Server) Bank() *Bank { return s.bank }

// Start begins accepting connections.
func (s *Server) Start() error {
	if err := s.srv.Start(); err != nil {
		return fmt.Errorf("simulator: start: %w", err)
	}
	s.log.Info().Msg("simulator listening")
	return nil
}

// Stop closes the listener and all client connections.
func (s *Server) Stop() error {
	return s.srv.Stop()
}

// ---- mbserver.RequestHandler ----

func (s *Server) HandleHoldingRegisters(req *mbserver.HoldingRegistersRequest) ([]uint16, error) {
	if s.unitID != 0 && req.UnitId != s.unitID {
		return nil, mbserver.ErrIllegalFunction
	}

	if req.IsWrite {
		err := s.bank.WriteMultipleRegisters(req.Addr, req.Args)
		if err != nil {
			s.log.Warn().Uint16("addr", req.Addr).Err(err).Msg("write rejected")
			return nil, err
		}
		s.log.Debug().Uint16("addr", req.Addr).Msg("command applied")
		return nil, nil
	}

	regs, err := s.bank.ReadHoldingRegisters(req.Addr, req.Quantity)
	if err != nil {
		s.log.Debug().Uint16("addr", req.Addr).Uint16("qty", req.Quantity).Err(err).Msg("read rejected")
	}
	return regs, err
}

func (s *Server) HandleCoils(*mbserver.CoilsRequest) ([]bool, error) {
	return nil, mbserver.ErrIllegalFunction
}

func (s *Server) HandleDiscreteInputs(*mbserver.DiscreteInputsRequest) ([]bool, error) {
	return nil, mbserver.ErrIllegalFunction
}

func (s *Server) HandleInputRegisters(*mbserver.InputRegistersRequest) ([]uint16, error) {
	return nil, mbserver.ErrIllegalFunction
}
