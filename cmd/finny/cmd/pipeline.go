package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/affanshahid/finny/pkg/config"
	"github.com/affanshahid/finny/pkg/exchange"
	"github.com/affanshahid/finny/pkg/ledger"
	"github.com/affanshahid/finny/pkg/matcher"
	"github.com/affanshahid/finny/pkg/messages"
	"github.com/affanshahid/finny/pkg/money"
	"github.com/affanshahid/finny/pkg/observability"
	"github.com/affanshahid/finny/pkg/pathutil"
	"github.com/affanshahid/finny/pkg/process"
	"github.com/affanshahid/finny/pkg/record"
)

// options are the command line overrides of the environment configuration.
type options struct {
	MatcherFile    string
	Contacts       []string
	ExcludeSources []string
	Start          string
	End            string
	Currency       string
	MetricsFile    string
	Workers        int
}

func flagOptions() options {
	return options{
		MatcherFile:    matcherFile,
		Contacts:       contacts,
		ExcludeSources: excludeSources,
		Start:          startDate,
		End:            endDate,
		Currency:       currencyCode,
		MetricsFile:    metricsFile,
		Workers:        workers,
	}
}

// pipeline is everything a report needs, built once per run.
type pipeline struct {
	paths     *pathutil.PathResolver
	query     messages.Query
	exclude   []string
	loc       *time.Location
	registry  *matcher.Registry
	converter *exchange.Converter
	ledger    *ledger.Converter
	metrics   *observability.Metrics
	workers   int
}

// result is the outcome of running the pipeline over the fetched messages.
type result struct {
	messages map[int64]record.Message
	records  []record.Record
}

func newPipeline(cfg *config.Config, opts options, now time.Time) (*pipeline, error) {
	paths, err := pathutil.New(pathutil.Config{
		ChatDBPath:   cfg.Paths.ChatDB,
		ConfigPath:   firstNonEmpty(opts.MatcherFile, cfg.Paths.MatcherConfig),
		MessagesFile: cfg.Paths.MessagesFile,
		MetricsFile:  firstNonEmpty(opts.MetricsFile, cfg.Paths.MetricsFile),
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("Loading matcher config", "path", paths.GetConfigPath())
	file, err := config.LoadMatcherFile(paths.GetConfigPath())
	if err != nil {
		return nil, err
	}

	loc, err := resolveLocation(firstNonEmpty(file.Timezone, cfg.Report.Timezone))
	if err != nil {
		return nil, err
	}

	registry, err := matcher.BuildRegistry(file.Matchers, loc)
	if err != nil {
		return nil, err
	}

	target, err := money.ParseCurrency(firstNonEmpty(opts.Currency, file.Currency, cfg.Report.Currency))
	if err != nil {
		return nil, fmt.Errorf("reporting currency: %w", err)
	}

	rates, err := exchange.ParseRates(file.ExchangeRates)
	if err != nil {
		return nil, err
	}
	table := exchange.DefaultTable().With(rates)

	end := now
	if opts.End != "" {
		if end, err = parseDate(opts.End, loc, true); err != nil {
			return nil, fmt.Errorf("--end: %w", err)
		}
	}
	start := now.AddDate(0, -3, 0)
	if opts.Start != "" {
		if start, err = parseDate(opts.Start, loc, false); err != nil {
			return nil, fmt.Errorf("--start: %w", err)
		}
	}
	if start.After(end) {
		return nil, fmt.Errorf("start %s is after end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	contactList := cfg.Messages.Contacts
	if len(opts.Contacts) > 0 {
		contactList = opts.Contacts
	}
	exclude := cfg.Messages.ExcludeSources
	if opts.ExcludeSources != nil {
		exclude = opts.ExcludeSources
	}
	workerCount := cfg.Workers
	if opts.Workers > 0 {
		workerCount = opts.Workers
	}

	slog.Debug("Pipeline ready",
		"matchers", len(registry.Matchers()),
		"rates", table.Len(),
		"currency", target,
		"timezone", loc.String(),
		"start", start,
		"end", end,
	)

	return &pipeline{
		paths:     paths,
		query:     messages.Query{Contacts: contactList, Start: start, End: end},
		exclude:   exclude,
		loc:       loc,
		registry:  registry,
		converter: exchange.NewConverter(table, target),
		ledger:    ledger.NewConverter(loc, file.Ledger),
		metrics:   observability.NewMetrics(),
		workers:   workerCount,
	}, nil
}

// openStore opens the message dump if one is configured, the database otherwise.
func (p *pipeline) openStore() (messages.Store, error) {
	if f := p.paths.GetMessagesFile(); f != "" {
		slog.Debug("Reading messages from file", "path", f)
		return messages.LoadFile(f)
	}
	slog.Debug("Opening message database", "path", p.paths.GetChatDBPath())
	return messages.OpenSQLite(p.paths.GetChatDBPath())
}

func (p *pipeline) fetch(ctx context.Context) ([]record.Message, error) {
	store, err := p.openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	msgs, err := store.Fetch(ctx, p.query)
	if err != nil {
		return nil, err
	}
	slog.Info("Fetched messages", "count", len(msgs), "contacts", strings.Join(p.query.Contacts, ","))
	return msgs, nil
}

// run fetches messages, resolves them and drops excluded sources.
// Extraction failures are logged and skipped.
func (p *pipeline) run(ctx context.Context) (*result, error) {
	msgs, err := p.fetch(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	batch, err := p.registry.ParseAll(ctx, msgs,
		matcher.WithWorkers(p.workers),
		matcher.WithObserver(p.metrics),
	)
	p.metrics.Time(start)
	if err != nil {
		return nil, err
	}

	for _, d := range batch.Diagnostics {
		slog.Warn("Skipping message",
			"message_id", d.MessageID,
			"matcher_id", d.MatcherID,
			"reason", d.Reason,
		)
		slog.Debug("Skipped message text", "message_id", d.MessageID, "text", d.Text)
	}

	records := process.FilterExclude(batch.Records, p.exclude)
	slog.Info("Parsed messages",
		"records", len(batch.Records),
		"excluded", len(batch.Records)-len(records),
		"failed", len(batch.Diagnostics),
		"unmatched", batch.Unmatched,
	)

	byID := make(map[int64]record.Message, len(msgs))
	for _, m := range msgs {
		byID[m.ID] = m
	}
	return &result{messages: byID, records: records}, nil
}

// finish writes metrics if a metrics file is configured.
func (p *pipeline) finish() error {
	path := p.paths.GetMetricsFile()
	if path == "" {
		return nil
	}
	if err := p.paths.EnsureParentDir(path); err != nil {
		return err
	}
	slog.Debug("Writing metrics", "path", path)
	return p.metrics.WriteTextfile(path)
}

// loadPipeline builds the pipeline from the environment and flags.
func loadPipeline() *pipeline {
	cfg, err := config.Load(getEnvFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate(
		[]string{"report", "currency"},
		[]string{"paths", "matcherConfig"},
	); err != nil {
		exitOnError(err, "invalid configuration")
	}

	p, err := newPipeline(cfg, flagOptions(), time.Now())
	exitOnError(err, "failed to set up")
	return p
}

func resolveLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", name, err)
	}
	return loc, nil
}

// parseDate accepts RFC3339 or a bare date in loc. A bare date is the start
// of that day, or its last instant when endOfDay is set.
func parseDate(s string, loc *time.Location, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC3339", s)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
