package main

import (
	"flag"
	"fmt"
	"io"
)

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the bech32 address and the hex encoded public key of a configured
party.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = fl.String("config", env("IOU_CONFIG", "iou.yaml"), "Path to the configuration file. You can use IOU_CONFIG environment variable to set it.")
		asFl     = fl.String("as", env("IOU_AS", ""), "Name of the party. You can use IOU_AS environment variable to set it.")
	)
	fl.Parse(args)

	cfg, err := loadConfig(*configFl)
	if err != nil {
		return err
	}
	dir, err := cfg.Directory()
	if err != nil {
		return err
	}
	p, err := dir.Lookup(*asFl)
	if err != nil {
		return err
	}
	fmt.Fprintln(output, p.Bech32())
	fmt.Fprintf(output, "%X\n", p.GetPubKey().GetEd25519())
	return nil
}
