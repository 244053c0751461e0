package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iov-one/iou"
	"github.com/iov-one/iou/crypto"
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/store"
	"github.com/iov-one/iou/x/flow"
	"github.com/iov-one/iou/x/identity"
	"github.com/iov-one/iou/x/notary"
	"github.com/iov-one/iou/x/session"
	"github.com/iov-one/iou/x/vault"
	dbm "github.com/tendermint/tendermint/libs/db"
)

func cmdDemo(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Issue a single obligation between two freshly generated parties within this
process. Both parties talk over an in-memory network and the transition is
committed by an in-memory notary.

Every state entered by the lender is printed, followed by the finalized
record.
`)
		fl.PrintDefaults()
	}
	var (
		amountFl   = fl.Int64("amount", 10, "Amount the borrower owes to the lender.")
		lenderFl   = fl.String("lender", "alice", "Name of the lender. The lender proposes the obligation.")
		borrowerFl = fl.String("borrower", "bob", "Name of the borrower.")
		chainFl    = fl.String("chain", "iou-demo", "Chain ID used for signatures.")
		timeoutFl  = fl.Duration("timeout", 10*time.Second, "Time limit of the whole flow.")
		logFl      = fl.String("log", env("IOU_LOG_LEVEL", "error"), "Log level: debug, info, error or none. Logs are written to stderr.")
	)
	fl.Parse(args)

	logger, err := newLogger(os.Stderr, *logFl)
	if err != nil {
		return err
	}

	keys := make(map[string]identity.Keyring)
	var parties []*identity.Party
	for _, name := range []string{*lenderFl, *borrowerFl} {
		if _, ok := keys[name]; ok {
			continue
		}
		key, err := crypto.GenerateKey(nil)
		if err != nil {
			return err
		}
		kr := identity.NewKeyring(name, key)
		keys[name] = kr
		parties = append(parties, kr.MyIdentity())
	}
	dir, err := identity.NewDirectory(parties...)
	if err != nil {
		return errors.Wrap(err, "directory")
	}

	ledger, err := notary.NewLedger("notary", *chainFl, dbm.NewMemDB(), notary.WithLogger(logger))
	if err != nil {
		return errors.Wrap(err, "ledger")
	}

	net := session.NewNetwork()
	l, err := net.Listen(*borrowerFl)
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	borrower := keys[*borrowerFl]
	responder := flow.NewResponder(borrower, dir, *chainFl,
		flow.WithTimeout(*timeoutFl),
		flow.WithVault(vault.New(borrower.MyIdentity(), store.MemStore())),
	)

	ctx, cancel := context.WithCancel(iou.WithLogger(context.Background(), logger))
	served := make(chan error, 1)
	go func() { served <- responder.Serve(ctx, l) }()

	lender := keys[*lenderFl]
	lenderVault := vault.New(lender.MyIdentity(), store.MemStore())
	proposer := flow.NewProposer(lender, dir, net.Transport(*lenderFl), ledger, *chainFl,
		flow.WithTimeout(*timeoutFl),
		flow.WithVault(lenderVault),
		flow.WithProgress(func(s flow.State) {
			fmt.Fprintf(output, "%s: %s\n", *lenderFl, s)
		}),
	)
	f, err := proposer.Issue(iou.WithLogInfo(ctx, "party", *lenderFl), *amountFl, *borrowerFl)

	cancel()
	if serr := <-served; serr != nil {
		logger.Error("responder stopped", "err", serr)
	}
	if f == nil {
		return err
	}
	fmt.Fprintln(output)
	printFinalized(output, f)
	return err
}
