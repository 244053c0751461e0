/*
Package config loads the configuration of a party process.

Configuration is a YAML file:

	chain_id: iou-testnet
	notary: notary
	timeout: 30s
	listen: 127.0.0.1:8765
	log_level: info
	ledger:
	  backend: goleveldb
	  dir: /var/lib/iou
	parties:
	  - name: alice
	    seed: 9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60
	  - name: bob
	    pubkey: 3d4017c3e843895a92b70aa74d1b7ebc9c982ccf2ec4968cc0cd55f12af4660c
	    url: ws://bob.example.com:8765/

Scalar values can be overridden with an environment variable named IOU_
followed by the upper cased key, for example IOU_TIMEOUT=1m or
IOU_LEDGER_DIR=/tmp/ledger.
*/
package config
