package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/iou"
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/x/flow"
	"github.com/iov-one/iou/x/notary"
	"github.com/iov-one/iou/x/session"
)

func cmdPropose(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Propose an obligation to the borrower and commit it once both parties signed.

The local party is the lender. The borrower must be running the serve command
on the address listed in the configuration. The notary ledger is opened by
this process using the configured database backend.

When successful, the finalized record is printed.
`)
		fl.PrintDefaults()
	}
	var (
		configFl   = fl.String("config", env("IOU_CONFIG", "iou.yaml"), "Path to the configuration file. You can use IOU_CONFIG environment variable to set it.")
		asFl       = fl.String("as", env("IOU_AS", ""), "Name of the local party. You can use IOU_AS environment variable to set it.")
		amountFl   = fl.Int64("amount", 0, "Amount the borrower owes to the lender.")
		borrowerFl = fl.String("borrower", "", "Name of the borrower as listed in the configuration.")
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

	db, err := cfg.OpenLedgerDB()
	if err != nil {
		return errors.Wrap(err, "ledger database")
	}
	defer db.Close()
	ledger, err := notary.NewLedger(cfg.Notary, cfg.ChainID, db, notary.WithLogger(logger))
	if err != nil {
		return err
	}

	proposer := flow.NewProposer(me, dir, session.NewDialer(*asFl, cfg.Peers()), ledger, cfg.ChainID,
		flow.WithTimeout(cfg.Timeout),
	)
	ctx := iou.WithLogInfo(iou.WithLogger(context.Background(), logger), "party", *asFl)
	f, err := proposer.Issue(ctx, *amountFl, *borrowerFl)
	if f != nil {
		printFinalized(output, f)
	}
	return err
}
