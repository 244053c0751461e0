package config

import (
	"encoding/hex"
	"io/ioutil"
	"os"
	"time"

	"github.com/iov-one/iou"
	"github.com/iov-one/iou/crypto"
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/x/identity"
	dbm "github.com/tendermint/tendermint/libs/db"
	"golang.org/x/crypto/ed25519"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of a single party process.
type Config struct {
	// ChainID is part of every signature. Parties and the notary must use
	// the same value.
	ChainID string `yaml:"chain_id"`
	// Notary is the name of the finality service transitions are bound
	// to.
	Notary string `yaml:"notary"`
	// Timeout limits a single flow.
	Timeout time.Duration `yaml:"timeout"`
	// Listen is the websocket address the responder accepts sessions on.
	Listen   string `yaml:"listen"`
	LogLevel string `yaml:"log_level"`
	Ledger   Ledger `yaml:"ledger"`
	// Parties is the network map.
	Parties []Party `yaml:"parties"`
}

// Ledger configures the database of the notary ledger.
type Ledger struct {
	// Backend is a tendermint database backend name, memdb or goleveldb.
	Backend string `yaml:"backend"`
	// Dir is the database directory, required by persistent backends.
	Dir string `yaml:"dir"`
}

// Party is an entry of the network map. A party that runs locally has a
// seed, a remote party has only a public key.
type Party struct {
	Name string `yaml:"name"`
	// Seed is a hex encoded ed25519 seed.
	Seed string `yaml:"seed"`
	// PubKey is a hex encoded ed25519 public key.
	PubKey string `yaml:"pubkey"`
	// URL is the websocket address the party listens on.
	URL string `yaml:"url"`
}

// Default returns the configuration used for any value not provided.
func Default() Config {
	return Config{
		ChainID:  "iou-local",
		Notary:   "notary",
		Timeout:  30 * time.Second,
		Listen:   "127.0.0.1:8765",
		LogLevel: "info",
		Ledger: Ledger{
			Backend: string(dbm.MemDBBackend),
		},
	}
}

// Load reads the configuration from given YAML file, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return Parse(raw, os.LookupEnv)
}

// Parse decodes YAML content on top of the default configuration. Values
// returned by lookup for IOU_* variables take precedence.
func Parse(raw []byte, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "yaml: %s", err)
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}
	strs := map[string]*string{
		"IOU_CHAIN_ID":       &c.ChainID,
		"IOU_NOTARY":         &c.Notary,
		"IOU_LISTEN":         &c.Listen,
		"IOU_LOG_LEVEL":      &c.LogLevel,
		"IOU_LEDGER_BACKEND": &c.Ledger.Backend,
		"IOU_LEDGER_DIR":     &c.Ledger.Dir,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	if v, ok := lookup("IOU_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "IOU_TIMEOUT: %s", err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate returns an error if the configuration cannot be used.
func (c *Config) Validate() error {
	var errs error
	if !iou.IsValidChainID(c.ChainID) {
		errs = errors.Append(errs, errors.Field("ChainID", errors.ErrInput, "invalid chain id %q", c.ChainID))
	}
	if c.Notary == "" {
		errs = errors.AppendField(errs, "Notary", errors.ErrEmpty)
	}
	if c.Timeout <= 0 {
		errs = errors.Append(errs, errors.Field("Timeout", errors.ErrInput, "must be positive"))
	}
	switch c.LogLevel {
	case "debug", "info", "error", "none":
	default:
		errs = errors.Append(errs, errors.Field("LogLevel", errors.ErrInput, "unknown level %q", c.LogLevel))
	}
	switch dbm.DBBackendType(c.Ledger.Backend) {
	case dbm.MemDBBackend:
	case dbm.GoLevelDBBackend:
		if c.Ledger.Dir == "" {
			errs = errors.AppendField(errs, "Ledger.Dir", errors.ErrEmpty)
		}
	default:
		errs = errors.Append(errs, errors.Field("Ledger.Backend", errors.ErrInput, "unsupported backend %q", c.Ledger.Backend))
	}
	if _, err := c.Directory(); err != nil {
		errs = errors.Append(errs, errors.Field("Parties", err, ""))
	}
	return errs
}

// Directory returns the network map of all configured parties.
func (c *Config) Directory() (*identity.StaticDirectory, error) {
	parties := make([]*identity.Party, 0, len(c.Parties))
	for i, p := range c.Parties {
		pub, err := p.publicKey()
		if err != nil {
			return nil, errors.Wrapf(err, "party %d", i)
		}
		parties = append(parties, identity.NewParty(p.Name, pub))
	}
	return identity.NewDirectory(parties...)
}

// Keyring returns the keyring of the party with given name. The party must
// have a seed configured.
func (c *Config) Keyring(name string) (identity.Keyring, error) {
	p, ok := c.party(name)
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "party %q", name)
	}
	priv, err := p.privateKey()
	if err != nil {
		return nil, err
	}
	if priv == nil {
		return nil, errors.Wrapf(errors.ErrEmpty, "seed of %q", name)
	}
	return identity.NewKeyring(p.Name, priv), nil
}

// Peers returns websocket addresses of all parties that have one.
func (c *Config) Peers() map[string]string {
	peers := make(map[string]string)
	for _, p := range c.Parties {
		if p.URL != "" {
			peers[p.Name] = p.URL
		}
	}
	return peers
}

// OpenLedgerDB opens the database of the notary ledger.
func (c *Config) OpenLedgerDB() (db dbm.DB, err error) {
	// NewDB panics on failure.
	defer errors.Recover(&err)
	return dbm.NewDB("ledger", dbm.DBBackendType(c.Ledger.Backend), c.Ledger.Dir), nil
}

func (c *Config) party(name string) (Party, bool) {
	for _, p := range c.Parties {
		if p.Name == name {
			return p, true
		}
	}
	return Party{}, false
}

func (p Party) privateKey() (*crypto.PrivateKey, error) {
	if p.Seed == "" {
		return nil, nil
	}
	seed, err := hex.DecodeString(p.Seed)
	if err != nil || len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed of %q must be %d hex encoded bytes", p.Name, ed25519.SeedSize)
	}
	return crypto.KeyFromSeed(seed)
}

func (p Party) publicKey() (*crypto.PublicKey, error) {
	priv, err := p.privateKey()
	if err != nil {
		return nil, err
	}
	var fromSeed *crypto.PublicKey
	if priv != nil {
		fromSeed = priv.PublicKey()
	}
	if p.PubKey == "" {
		if fromSeed == nil {
			return nil, errors.Wrapf(errors.ErrEmpty, "key of %q", p.Name)
		}
		return fromSeed, nil
	}
	raw, err := hex.DecodeString(p.PubKey)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "pubkey of %q must be %d hex encoded bytes", p.Name, ed25519.PublicKeySize)
	}
	pub := &crypto.PublicKey{Ed25519: raw}
	if fromSeed != nil && !fromSeed.Equals(pub) {
		return nil, errors.Wrapf(errors.ErrInput, "seed and pubkey of %q do not match", p.Name)
	}
	return pub, nil
}
