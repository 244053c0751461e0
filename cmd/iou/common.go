package main

import (
	"fmt"
	"io"
	"os"

	"github.com/iov-one/iou/config"
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/x/notary"
	"github.com/iov-one/iou/x/obligation"
	"github.com/tendermint/tendermint/libs/log"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// newLogger returns a logger writing to w that drops entries below given
// level.
func newLogger(w io.Writer, level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	logger := log.NewTMLogger(log.NewSyncWriter(w)).With("module", "iou")
	return log.NewFilter(logger, opt), nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "config path")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config %q", path)
	}
	return cfg, nil
}

// printFinalized writes a human readable summary of a committed issue
// transition.
func printFinalized(w io.Writer, f *notary.Finalized) {
	fmt.Fprintf(w, "transition  %X\n", f.TxID)
	fmt.Fprintf(w, "notary      %s\n", f.Notary)
	fmt.Fprintf(w, "height      %d\n", f.Height)
	if o := obligation.Issued(f.GetTx().GetTx()); o != nil {
		fmt.Fprintf(w, "obligation  %s\n", o.LinearID())
		fmt.Fprintf(w, "amount      %d\n", o.Amount)
		fmt.Fprintf(w, "lender      %s (%s)\n", o.Lender.Name, o.Lender.Bech32())
		fmt.Fprintf(w, "borrower    %s (%s)\n", o.Borrower.Name, o.Borrower.Bech32())
	}
}
