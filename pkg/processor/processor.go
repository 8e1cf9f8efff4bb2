package processor

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/ccollicutt/joblog/pkg/job"
	"github.com/ccollicutt/joblog/pkg/parser"
	"github.com/ccollicutt/joblog/pkg/sink"
)

// ErrInvalidConfig marks construction failures.
var ErrInvalidConfig = errors.New("invalid processor configuration")

// Processor reads job events and emits one message per completed job,
// orphan END, malformed line, and unfinished job.
// A Processor is not safe for concurrent use.
type Processor struct {
	thresholds job.Thresholds
	sink       sink.Sink

	// State
	jobs   map[string]*job.Record // key: job key
	source string
	stats  Stats
}

// New validates cfg and creates a Processor with an empty job table.
func New(cfg Config) (*Processor, error) {
	if cfg.Sink == nil {
		return nil, errors.Mark(errors.New("sink is required"), ErrInvalidConfig)
	}

	thresholds, err := job.NewThresholds(cfg.WarningThreshold, cfg.ErrorThreshold)
	if err != nil {
		return nil, errors.Mark(err, ErrInvalidConfig)
	}

	return &Processor{
		thresholds: thresholds,
		sink:       cfg.Sink,
		jobs:       make(map[string]*job.Record),
	}, nil
}

// Thresholds returns the validated thresholds.
func (p *Processor) Thresholds() job.Thresholds {
	return p.thresholds
}

// ProcessFile runs a full pass over the log at path.
// The file is closed on every path. Open and read failures are reported
// through the sink, never returned.
func (p *Processor) ProcessFile(ctx context.Context, path string) Result {
	src, err := parser.OpenFile(path)
	if err != nil {
		p.source = path
		p.readFailed(err)
		return p.Finish()
	}
	defer src.Close()

	return p.Run(ctx, src)
}

// Run reads every line from src in order and then sweeps unfinished jobs.
// A read failure is reported once and stops reading; jobs opened before the
// failure are still swept.
func (p *Processor) Run(ctx context.Context, src parser.LineSource) Result {
	p.source = src.Name()

	for {
		line, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			p.readFailed(err)
			break
		}
		p.ProcessLine(line.Content)
	}

	return p.Finish()
}

// ProcessLine handles a single raw log line.
func (p *Processor) ProcessLine(line string) {
	p.stats.LinesRead++

	entry, err := parser.ParseEntry(line)
	if err != nil {
		p.stats.Skipped++
		p.sink.Warning("[SKIPPING] Invalid log entry format: " + line)
		return
	}

	switch entry.Status {
	case parser.StatusStart:
		p.start(entry)
	case parser.StatusEnd:
		p.end(entry)
	default:
		// Unknown statuses are dropped without a message.
		p.stats.Ignored++
	}
}

func (p *Processor) start(entry *parser.Entry) {
	key := entry.Key()
	if _, exists := p.jobs[key]; exists {
		// The later START wins; the earlier start time is lost.
		p.stats.Restarted++
	}
	p.jobs[key] = job.NewRecord(entry.Time, entry.Description)
}

func (p *Processor) end(entry *parser.Entry) {
	key := entry.Key()
	record, exists := p.jobs[key]
	if !exists {
		p.stats.Orphans++
		p.sink.Severe("Found END without START for job: " + key)
		return
	}

	record.Finish(entry.Time)
	delete(p.jobs, key)

	verdict := p.thresholds.Classify(record.StartTime, record.EndTime)
	switch verdict.Severity {
	case job.SeveritySevere:
		p.stats.Severe++
		p.sink.Severe(tookMessage(key, record, verdict))
	case job.SeverityWarning:
		p.stats.Warnings++
		p.sink.Warning(tookMessage(key, record, verdict))
	default:
		p.stats.Completed++
		p.sink.Info(fmt.Sprintf("%s completed in %s", key, job.FormatDuration(verdict.Duration)))
	}
}

func tookMessage(key string, record *job.Record, verdict job.Verdict) string {
	return fmt.Sprintf("%s took %s (started at %s, ended at %s)",
		key,
		job.FormatDuration(verdict.Duration),
		job.FormatClock(record.StartTime),
		job.FormatClock(record.EndTime))
}

func (p *Processor) readFailed(err error) {
	p.stats.ReadFailed = true
	p.sink.Severe(fmt.Sprintf("Error reading log file %s: %v", p.source, err))
}

// Finish reports every job that started but never finished and returns
// the result of the pass. The job table is left untouched.
func (p *Processor) Finish() Result {
	keys := make([]string, 0, len(p.jobs))
	for key, record := range p.jobs {
		if record.Open() {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		p.sink.Severe("Job " + key + " started but never finished")
	}

	stats := p.stats
	stats.Unfinished = len(keys)

	return Result{
		Source:     p.source,
		Stats:      stats,
		Unfinished: keys,
	}
}

// OpenJobs returns the number of jobs currently awaiting an END.
func (p *Processor) OpenJobs() int {
	return len(p.jobs)
}

// Reset clears the job table and counters for a new, independent pass.
func (p *Processor) Reset() {
	p.jobs = make(map[string]*job.Record)
	p.source = ""
	p.stats = Stats{}
}
