package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/ioutest/assert"
)

const (
	aliceSeed = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	bobPub    = "3d4017c3e843895a92b70aa74d1b7ebc9c982ccf2ec4968cc0cd55f12af4660c"
)

const valid = `
chain_id: iou-testnet
notary: central
timeout: 5s
parties:
  - name: alice
    seed: ` + aliceSeed + `
  - name: bob
    pubkey: ` + bobPub + `
    url: ws://127.0.0.1:9000/
`

func noEnv(string) (string, bool) { return "", false }

func env(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(valid), noEnv)
	assert.Nil(t, err)
	assert.Equal(t, "iou-testnet", cfg.ChainID)
	assert.Equal(t, "central", cfg.Notary)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	// Defaults are kept for missing values.
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "memdb", cfg.Ledger.Backend)
	assert.Equal(t, map[string]string{"bob": "ws://127.0.0.1:9000/"}, cfg.Peers())

	dir, err := cfg.Directory()
	assert.Nil(t, err)
	assert.Equal(t, 2, len(dir.Parties()))

	alice, err := cfg.Keyring("alice")
	assert.Nil(t, err)
	p, err := dir.Lookup("alice")
	assert.Nil(t, err)
	if !p.Equals(alice.MyIdentity()) {
		t.Fatal("keyring and directory disagree on alice")
	}

	_, err = cfg.Keyring("bob")
	assert.IsErr(t, errors.ErrEmpty, err)
	_, err = cfg.Keyring("charlie")
	assert.IsErr(t, errors.ErrNotFound, err)

	db, err := cfg.OpenLedgerDB()
	assert.Nil(t, err)
	db.Close()
}

func TestParseEnvOverrides(t *testing.T) {
	cfg, err := Parse([]byte(valid), env(map[string]string{
		"IOU_CHAIN_ID":  "iou-override",
		"IOU_TIMEOUT":   "1m",
		"IOU_LOG_LEVEL": "debug",
	}))
	assert.Nil(t, err)
	assert.Equal(t, "iou-override", cfg.ChainID)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = Parse([]byte(valid), env(map[string]string{"IOU_TIMEOUT": "soon"}))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		yaml      string
		wantField string
		wantErr   *errors.Error
	}{
		"invalid chain id": {
			yaml:      "chain_id: x",
			wantField: "ChainID",
			wantErr:   errors.ErrInput,
		},
		"empty notary": {
			yaml:      `notary: ""`,
			wantField: "Notary",
			wantErr:   errors.ErrEmpty,
		},
		"negative timeout": {
			yaml:      "timeout: -1s",
			wantField: "Timeout",
			wantErr:   errors.ErrInput,
		},
		"unknown log level": {
			yaml:      "log_level: loud",
			wantField: "LogLevel",
			wantErr:   errors.ErrInput,
		},
		"leveldb without a directory": {
			yaml:      "ledger: {backend: goleveldb}",
			wantField: "Ledger.Dir",
			wantErr:   errors.ErrEmpty,
		},
		"unsupported backend": {
			yaml:      "ledger: {backend: cleveldb}",
			wantField: "Ledger.Backend",
			wantErr:   errors.ErrInput,
		},
		"party without a key": {
			yaml:      "parties: [{name: alice}]",
			wantField: "Parties",
			wantErr:   errors.ErrEmpty,
		},
		"malformed seed": {
			yaml:      "parties: [{name: alice, seed: zz}]",
			wantField: "Parties",
			wantErr:   errors.ErrInput,
		},
		"seed and key mismatch": {
			yaml:      "parties: [{name: alice, seed: " + aliceSeed + ", pubkey: " + bobPub + "}]",
			wantField: "Parties",
			wantErr:   errors.ErrInput,
		},
		"duplicated party": {
			yaml:      "parties: [{name: bob, pubkey: " + bobPub + "}, {name: bob, pubkey: " + bobPub + "}]",
			wantField: "Parties",
			wantErr:   errors.ErrDuplicate,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml), noEnv)
			assert.FieldError(t, err, tc.wantField, tc.wantErr)
		})
	}

	_, err := Parse([]byte("chain_id: [1, 2"), noEnv)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "iou-config")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "iou.yaml")
	assert.Nil(t, ioutil.WriteFile(path, []byte(valid), 0600))
	cfg, err := Load(path)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(cfg.Parties))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.IsErr(t, errors.ErrInput, err)
}
