package flow

import (
	"context"
	"time"

	"github.com/iov-one/iou"
	"github.com/iov-one/iou/x/vault"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultTimeout limits a single flow run when no other deadline is set.
const DefaultTimeout = 30 * time.Second

type options struct {
	logger   log.Logger
	metrics  *Metrics
	progress Progress
	vault    *vault.Vault
	timeout  time.Duration
	check    CheckFunc
}

func newOptions(opts []Option) options {
	o := options{
		timeout: DefaultTimeout,
		check:   IssueCheck,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// loggerFor returns the configured logger or, when none was set, the logger
// attached to the context.
func (o options) loggerFor(ctx context.Context) log.Logger {
	if o.logger != nil {
		return o.logger
	}
	return iou.GetLogger(ctx)
}

func (o options) enter(s State) {
	if o.progress != nil {
		o.progress(s)
	}
}

// Option configures a proposer or a responder.
type Option func(*options)

// WithLogger sets the logger. Without it, the logger attached to the
// context of each run is used.
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the collector of flow outcomes.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithProgress sets the callback notified about every state change.
func WithProgress(p Progress) Option {
	return func(o *options) {
		o.progress = p
	}
}

// WithVault sets the vault where finalized transitions are saved.
func WithVault(v *vault.Vault) Option {
	return func(o *options) {
		o.vault = v
	}
}

// WithTimeout limits the duration of a single flow.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithCheck sets the domain acceptance check of a responder. IssueCheck is
// used by default.
func WithCheck(fn CheckFunc) Option {
	return func(o *options) {
		o.check = fn
	}
}
