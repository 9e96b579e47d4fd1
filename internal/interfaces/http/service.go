package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/tdex-network/tdex-escrow/internal/core/application/operator"
	"github.com/tdex-network/tdex-escrow/internal/interfaces"
)

const shutdownTimeout = 5 * time.Second

type ServiceOpts struct {
	// Address is the <host:port> the public interface listens on.
	Address string
	// OperatorAddress is the <host:port> the operator interface listens on.
	OperatorAddress string
	// NoSignatureCheck trusts the signer of envelopes without verifying their
	// signature. Never enable in production.
	NoSignatureCheck bool

	EscrowSvc   *escrow.Service
	OperatorSvc *operator.Service
}

func (o ServiceOpts) validate() error {
	if len(o.Address) <= 0 {
		return fmt.Errorf("missing address")
	}
	if len(o.OperatorAddress) <= 0 {
		return fmt.Errorf("missing operator address")
	}
	if o.Address == o.OperatorAddress {
		return fmt.Errorf("public and operator interfaces must listen on different addresses")
	}
	if o.EscrowSvc == nil {
		return fmt.Errorf("missing escrow service")
	}
	if o.OperatorSvc == nil {
		return fmt.Errorf("missing operator service")
	}
	return nil
}

type service struct {
	opts    ServiceOpts
	metrics *metrics

	publicServer   *http.Server
	operatorServer *http.Server
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}
	if opts.NoSignatureCheck {
		log.Warn("signature check of requests is disabled")
	}

	m := newMetrics()
	return &service{
		opts:    opts,
		metrics: m,
		publicServer: &http.Server{
			Addr:              opts.Address,
			Handler:           newPublicRouter(opts, m),
			ReadHeaderTimeout: 10 * time.Second,
		},
		operatorServer: &http.Server{
			Addr:              opts.OperatorAddress,
			Handler:           newOperatorRouter(opts, m),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (s *service) Start() error {
	publicLis, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}
	operatorLis, err := net.Listen("tcp", s.opts.OperatorAddress)
	if err != nil {
		publicLis.Close()
		return err
	}

	go serve(s.publicServer, publicLis, "public")
	go serve(s.operatorServer, operatorLis, "operator")

	log.Infof("public interface is listening on %s", s.opts.Address)
	log.Infof("operator interface is listening on %s", s.opts.OperatorAddress)
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.operatorServer.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop operator interface")
	}
	log.Debug("disabled operator interface")

	if err := s.publicServer.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop public interface")
	}
	log.Debug("disabled public interface")
}

func serve(server *http.Server, lis net.Listener, name string) {
	if err := server.Serve(lis); err != nil &&
		!errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Errorf("%s interface stopped unexpectedly", name)
	}
}
