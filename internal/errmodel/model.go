package errmodel

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"alnmodel/internal/alnstate"
	"alnmodel/internal/logmath"
	"alnmodel/internal/matrix"
)

// ErrInvalidConfig is returned by New for unusable parameters.
var ErrInvalidConfig = errors.New("errmodel: invalid config")

// Config holds the construction parameters of a Model.
type Config struct {
	Alpha      float64 // pseudo-count added to every transition
	MaxReadLen int     // longer reads are neither scored nor learned from
	Bins       int     // position bins along the read
}

// DefaultConfig returns the parameters used when none are given.
func DefaultConfig() Config {
	return Config{Alpha: 1.0, MaxReadLen: 1000, Bins: 4}
}

// Validate reports why c cannot build a Model, or nil.
func (c Config) Validate() error {
	switch {
	case !(c.Alpha > 0):
		return fmt.Errorf("%w: alpha must be > 0, got %v", ErrInvalidConfig, c.Alpha)
	case c.MaxReadLen <= 0:
		return fmt.Errorf("%w: max read length must be > 0, got %d", ErrInvalidConfig, c.MaxReadLen)
	case c.Bins <= 0:
		return fmt.Errorf("%w: bins must be > 0, got %d", ErrInvalidConfig, c.Bins)
	}
	return nil
}

// Option tweaks a Model at construction.
type Option func(*Model)

// WithLogger sends diagnostics to l instead of slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// WithTrainOrphansBySide makes Train route an unpaired read to the side named
// by its orphan flag, as Score does. By default unpaired reads always train
// the left matrices.
func WithTrainOrphansBySide(on bool) Option {
	return func(m *Model) { m.trainOrphansBySide = on }
}

// Model is safe for concurrent use. Score and Train may run at the same time
// from any number of goroutines; a Score may observe a partly applied Train.
type Model struct {
	cfg         Config
	left, right []*matrix.Atomic

	enabled  atomic.Bool
	burnedIn atomic.Bool

	trainOrphansBySide bool
	log                *slog.Logger
}

// New allocates Bins matrices per side, each filled with the Alpha prior.
// The model starts enabled and not burned in.
func New(cfg Config, opts ...Option) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Model{
		cfg:   cfg,
		left:  newSet(cfg),
		right: newSet(cfg),
		log:   slog.Default(),
	}
	m.enabled.Store(true)
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

func newSet(cfg Config) []*matrix.Atomic {
	set := make([]*matrix.Atomic, cfg.Bins)
	for i := range set {
		set[i] = matrix.New(alnstate.Dim, alnstate.Dim, cfg.Alpha)
	}
	return set
}

func (m *Model) Config() Config { return m.cfg }

func (m *Model) Enabled() bool       { return m.enabled.Load() }
func (m *Model) SetEnabled(on bool)  { m.enabled.Store(on) }
func (m *Model) BurnedIn() bool      { return m.burnedIn.Load() }
func (m *Model) SetBurnedIn(on bool) { m.burnedIn.Store(on) }

func (m *Model) set(s Side) []*matrix.Atomic {
	if s == Left {
		return m.left
	}
	return m.right
}

// Score returns the log-likelihood of the hit's alignment against ref.
//
//	LogOne      model disabled, or a mate longer than MaxReadLen
//	LogZero     an alignment starts at or past the end of ref
//	LogEpsilon  added for each mate without a CIGAR
func (m *Model) Score(h Hit, ref Reference) float64 {
	if !m.enabled.Load() {
		return logmath.LogOne
	}
	routes, ok := m.route(h, false)
	if !ok {
		return logmath.LogOne
	}
	ll := logmath.LogOne
	for _, r := range routes {
		ll += m.walk(r.read, ref, m.set(r.side), scoreMode, 0)
	}
	if logmath.IsZero(ll) {
		m.log.Warn("alignment has zero likelihood", "orphan_status", orphanStatus(h))
	}
	return ll
}

// Train adds the hit's alignment to the model with weight mass+posterior.
// Both are log-domain values: posterior is the log assignment probability of
// this alignment and mass the log mass of its fragment. A LogZero mass is
// ignored.
func (m *Model) Train(h Hit, ref Reference, posterior, mass float64) {
	if logmath.IsZero(mass) || !m.enabled.Load() {
		return
	}
	routes, ok := m.route(h, true)
	if !ok {
		return
	}
	w := mass + posterior
	for _, r := range routes {
		m.walk(r.read, ref, m.set(r.side), trainMode, w)
	}
}

// HasIndel reports whether any mate's CIGAR holds an insertion or deletion.
func (m *Model) HasIndel(h Hit) bool {
	r1, r2 := h.Mates()
	return readHasIndel(r1) || readHasIndel(r2)
}

func readHasIndel(r Read) bool {
	if r == nil {
		return false
	}
	for _, co := range r.Cigar() {
		if alnstate.IsIndel(co.Type()) {
			return true
		}
	}
	return false
}

// Snapshot copies the matrix of one side and bin.
func (m *Model) Snapshot(s Side, bin int) matrix.Dump {
	return m.set(s)[bin].Snapshot()
}

// Restore overwrites the matrix of one side and bin.
func (m *Model) Restore(s Side, bin int, d matrix.Dump) error {
	set := m.set(s)
	if bin < 0 || bin >= len(set) {
		return fmt.Errorf("errmodel: bin %d out of range [0,%d)", bin, len(set))
	}
	return set[bin].Restore(d)
}
