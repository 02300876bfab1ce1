package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"market-research-agent/internal/market"
	"market-research-agent/internal/notify"
	"market-research-agent/internal/store"
	"market-research-agent/internal/synthesis"
)

const reportSubject = "Daily Market Research Report"

// RunResult is the outcome of one end-to-end run, in the shape the
// run endpoint returns to callers.
type RunResult struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
	EmailSent bool   `json:"email_sent"`
	ChatSent  bool   `json:"chat_sent"`
	Error     string `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
}

// collector, synthesizer and the two senders are narrowed to what the
// runner calls so tests can swap in fakes.
type collector interface {
	Collect(ctx context.Context) market.Snapshot
}

type synthesizer interface {
	Synthesize(ctx context.Context, snap market.Snapshot) (string, error)
}

type emailSender interface {
	Send(subject, htmlBody string) bool
}

type chatSender interface {
	Enabled() bool
	Send(ctx context.Context, analysis string) bool
}

// Runner drives one collect, synthesize, deliver, archive cycle.
type Runner struct {
	collector collector
	synth     synthesizer
	email     emailSender
	chat      chatSender
	archive   *store.Store
	log       zerolog.Logger

	now func() time.Time
}

func NewRunner(c *market.Collector, s *synthesis.Client, email *notify.EmailSender, chat *notify.Slack, archive *store.Store, log zerolog.Logger) *Runner {
	return &Runner{
		collector: c,
		synth:     s,
		email:     email,
		chat:      chat,
		archive:   archive,
		log:       log,
		now:       time.Now,
	}
}

// RunOnce executes one full cycle. It never returns an error: every
// failure mode is folded into the result so schedulers and handlers
// can report it uniformly. A panic anywhere inside the run is caught
// here and reported as a failed run.
func (r *Runner) RunOnce(ctx context.Context) (result RunResult) {
	started := r.now()
	result.Timestamp = started.Format("2006-01-02 15:04:05")

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Msg("run panicked")
			result = RunResult{
				Timestamp: result.Timestamp,
				Error:     fmt.Sprintf("panic: %v", rec),
			}
			r.archiveRun(result, "")
		}
	}()

	r.log.Info().Msg("starting market research run")

	snap := r.collector.Collect(ctx)
	if !snap.HasData() {
		result.Error = "failed to collect any market data, aborting run"
		r.log.Error().Strs("failed_sources", snap.Failed).Msg(result.Error)
		r.archiveRun(result, "")
		return result
	}

	analysis, err := r.synth.Synthesize(ctx, snap)
	if err != nil {
		result.Error = fmt.Sprintf("synthesis failed: %v", err)
		r.log.Error().Err(err).Msg("synthesis failed")
		r.archiveRun(result, "")
		return result
	}

	result.EmailSent = r.email.Send(reportSubject, notify.RenderHTML(analysis, started))

	if r.chat.Enabled() {
		result.ChatSent = r.chat.Send(ctx, analysis)
	} else {
		// Chat delivery is optional; an unconfigured channel does
		// not count against the run.
		result.ChatSent = true
	}

	result.Success = true
	result.Message = "market research run completed"
	r.log.Info().
		Bool("email_sent", result.EmailSent).
		Bool("chat_sent", result.ChatSent).
		Dur("elapsed", r.now().Sub(started)).
		Msg("run completed")

	r.archiveRun(result, analysis)
	return result
}

// archiveRun persists the outcome. Archive failures are logged and
// swallowed so a bad disk never turns a delivered briefing into a
// failed run.
func (r *Runner) archiveRun(result RunResult, briefing string) {
	if r.archive == nil {
		return
	}
	err := r.archive.SaveRun(store.RunRecord{
		Timestamp: result.Timestamp,
		Success:   result.Success,
		EmailSent: result.EmailSent,
		ChatSent:  result.ChatSent,
		Error:     result.Error,
		Briefing:  briefing,
	})
	if err != nil {
		r.log.Warn().Err(err).Msg("archive run failed")
	}
}
