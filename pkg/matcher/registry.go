package matcher

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/affanshahid/finny/pkg/extract"
	"github.com/affanshahid/finny/pkg/record"
)

// Outcome classifies what happened to a single message.
type Outcome string

const (
	OutcomeMatched   Outcome = "matched"
	OutcomeUnmatched Outcome = "unmatched"
	OutcomeFailed    Outcome = "failed"
)

// Diagnostic reports a message that matched a pattern but whose fields could
// not be extracted. It never aborts a run.
type Diagnostic struct {
	MessageID int64
	MatcherID string
	Text      string
	Reason    error
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("message %d: matcher %q: %v", d.MessageID, d.MatcherID, d.Reason)
}

func (d *Diagnostic) Unwrap() error {
	return d.Reason
}

// Observer is notified once per resolved message.
type Observer interface {
	Observe(outcome Outcome, matcherID string)
}

// Registry is an ordered, immutable list of matchers.
type Registry struct {
	matchers []*Matcher
}

// NewRegistry builds a registry. Order is significant: the first matcher
// whose pattern matches a message owns it.
func NewRegistry(matchers ...*Matcher) (*Registry, error) {
	seen := make(map[string]bool, len(matchers))
	for _, m := range matchers {
		if m == nil {
			return nil, &ConfigError{Reason: errors.New("nil matcher")}
		}
		if seen[m.ID] {
			return nil, &ConfigError{MatcherID: m.ID, Reason: errors.New("duplicate id")}
		}
		seen[m.ID] = true
	}
	return &Registry{matchers: append([]*Matcher(nil), matchers...)}, nil
}

// Matchers returns the matchers in resolution order.
func (r *Registry) Matchers() []*Matcher {
	return append([]*Matcher(nil), r.matchers...)
}

// Resolve runs msg through the registry.
//
// ok is false when no pattern matched. A *Diagnostic error means the first
// matching pattern could not produce a record; later matchers are not tried.
// A *ConfigError is fatal.
func (r *Registry) Resolve(msg record.Message) (rec record.Record, ok bool, err error) {
	for _, m := range r.matchers {
		c, matched := m.capture(msg.Text)
		if !matched {
			continue
		}
		if err := m.checkGroups(c); err != nil {
			return record.Record{}, false, err
		}
		rec, err := m.build(msg, c)
		if err != nil {
			if errors.Is(err, extract.ErrGroupNotMatched) {
				return record.Record{}, false, &ConfigError{MatcherID: m.ID, Reason: err}
			}
			return record.Record{}, false, &Diagnostic{
				MessageID: msg.ID,
				MatcherID: m.ID,
				Text:      msg.Text,
				Reason:    err,
			}
		}
		return rec, true, nil
	}
	return record.Record{}, false, nil
}

// Batch is the result of ParseAll. Records keep the order of their messages.
type Batch struct {
	Records     []record.Record
	Diagnostics []Diagnostic
	Unmatched   int
}

type parseOptions struct {
	workers  int
	observer Observer
}

// Option configures ParseAll.
type Option func(*parseOptions)

// WithWorkers bounds the number of messages resolved concurrently.
func WithWorkers(n int) Option {
	return func(o *parseOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithObserver reports every outcome to obs.
func WithObserver(obs Observer) Option {
	return func(o *parseOptions) {
		o.observer = obs
	}
}

type slot struct {
	rec       record.Record
	ok        bool
	diag      *Diagnostic
	matcherID string
}

// ParseAll resolves every message. Messages are resolved in parallel but the
// result is identical to resolving them one by one in input order. The first
// configuration error aborts the run.
func (r *Registry) ParseAll(ctx context.Context, msgs []record.Message, opts ...Option) (*Batch, error) {
	o := parseOptions{workers: 4}
	for _, opt := range opts {
		opt(&o)
	}

	slots := make([]slot, len(msgs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i, msg := range msgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, ok, err := r.Resolve(msg)
			var diag *Diagnostic
			switch {
			case errors.As(err, &diag):
				slots[i] = slot{diag: diag, matcherID: diag.MatcherID}
			case err != nil:
				return err
			default:
				slots[i] = slot{rec: rec, ok: ok, matcherID: rec.MatcherID}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &Batch{Records: make([]record.Record, 0, len(msgs))}
	for _, s := range slots {
		outcome := OutcomeUnmatched
		switch {
		case s.diag != nil:
			outcome = OutcomeFailed
			batch.Diagnostics = append(batch.Diagnostics, *s.diag)
		case s.ok:
			outcome = OutcomeMatched
			batch.Records = append(batch.Records, s.rec)
		default:
			batch.Unmatched++
		}
		if o.observer != nil {
			o.observer.Observe(outcome, s.matcherID)
		}
	}
	return batch, nil
}
