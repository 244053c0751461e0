package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/iou"
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/store"
	"github.com/iov-one/iou/x/flow"
	"github.com/iov-one/iou/x/session"
	"github.com/iov-one/iou/x/vault"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func cmdServe(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Respond to obligation proposals received over websocket sessions.

The process listens on the address configured for this party. Sessions are
served under "/" and prometheus metrics under "/metrics". When stopped, all
obligations finalized by this process are printed out.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = fl.String("config", env("IOU_CONFIG", "iou.yaml"), "Path to the configuration file. You can use IOU_CONFIG environment variable to set it.")
		asFl     = fl.String("as", env("IOU_AS", ""), "Name of the local party. You can use IOU_AS environment variable to set it.")
	)
	fl.Parse(args)

	cfg, err := loadConfig(*configFl)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	me, err := cfg.Keyring(*asFl)
	if err != nil {
		return err
	}
	dir, err := cfg.Directory()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics, err := flow.NewMetrics(reg)
	if err != nil {
		return errors.Wrap(err, "metrics")
	}
	v := vault.New(me.MyIdentity(), store.MemStore())
	responder := flow.NewResponder(me, dir, cfg.ChainID,
		flow.WithMetrics(metrics),
		flow.WithTimeout(cfg.Timeout),
		flow.WithVault(v),
	)

	sessions := session.NewServer(logger)
	mux := http.NewServeMux()
	mux.Handle("/", sessions)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: cfg.Listen, Handler: mux}

	ctx, cancel := context.WithCancel(iou.WithLogInfo(iou.WithLogger(context.Background(), logger), "party", *asFl))
	defer cancel()

	errc := make(chan error, 2)
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			errc <- errors.Wrap(errors.ErrProtocol, err.Error())
		}
	}()
	go func() {
		if err := responder.Serve(ctx, sessions); err != nil {
			errc <- err
		}
	}()
	logger.Info("serving", "party", *asFl, "listen", cfg.Listen)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	select {
	case s := <-sigc:
		logger.Info("stopping", "signal", s)
	case err = <-errc:
	}
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		logger.Error("cannot shutdown http server", "err", serr)
	}

	states, verr := v.Obligations()
	if verr != nil {
		return errors.Append(err, verr)
	}
	for _, s := range states {
		o := s.Obligation
		fmt.Fprintf(output, "%s\t%d\t%s -> %s\n", o.LinearID(), o.Amount, o.Borrower.Name, o.Lender.Name)
	}
	return err
}
