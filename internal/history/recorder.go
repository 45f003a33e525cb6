package history

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/fsmcheck/internal/model"
	"github.com/roach88/fsmcheck/internal/store"
	"github.com/roach88/fsmcheck/internal/verifier"
)

// Recorder verifies machines and persists each run.
type Recorder struct {
	store  *store.Store
	clock  SeqSource
	ids    IDGenerator
	logger *slog.Logger
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock overrides the sequence source.
func WithClock(c SeqSource) Option {
	return func(r *Recorder) { r.clock = c }
}

// WithIDGenerator overrides run ID generation.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Recorder) { r.ids = g }
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) { r.logger = l }
}

// NewRecorder creates a Recorder over st. Without WithClock the clock
// resumes after the highest sequence number already stored.
func NewRecorder(ctx context.Context, st *store.Store, opts ...Option) (*Recorder, error) {
	r := &Recorder{
		store:  st,
		ids:    UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.clock == nil {
		next, err := st.NextSeq(ctx)
		if err != nil {
			return nil, fmt.Errorf("resume clock: %w", err)
		}
		r.clock = NewClockAt(next - 1)
	}

	return r, nil
}

// Record generates the report for m and writes it as a new run.
func (r *Recorder) Record(ctx context.Context, m *model.StateMachine) (store.Run, error) {
	report := verifier.GenerateReport(m)

	run, err := store.NewRun(r.ids.Generate(), r.clock.Next(), m, report)
	if err != nil {
		return store.Run{}, err
	}

	if err := r.store.WriteRun(ctx, run); err != nil {
		return store.Run{}, fmt.Errorf("record run %s: %w", run.ID, err)
	}

	r.logger.Debug("recorded run",
		"run", run.ID,
		"seq", run.Seq,
		"machine", run.MachineID,
		"hash", run.MachineHash,
		"valid", report.IsValid,
	)
	return run, nil
}

// Seen returns the most recent run of a definition identical to m.
// The boolean is false when m has never been recorded.
func (r *Recorder) Seen(ctx context.Context, m *model.StateMachine) (store.Run, bool, error) {
	hash, err := model.MachineHash(m)
	if err != nil {
		return store.Run{}, false, err
	}
	run, found, err := r.store.LatestRunForHash(ctx, hash)
	if err != nil {
		return store.Run{}, false, fmt.Errorf("lookup hash: %w", err)
	}
	return run, found, nil
}

// History returns every recorded run of machineID, oldest first.
func (r *Recorder) History(ctx context.Context, machineID string) ([]store.Run, error) {
	return r.store.ListRuns(ctx, machineID)
}
