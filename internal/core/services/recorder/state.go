package recorder

import (
	"log/slog"

	"match-rank-tracker/internal/adapters/metrics"
	"match-rank-tracker/internal/core/domain"

	"go.opentelemetry.io/otel/trace"
)

type State string

const (
	StateReported        State = "reported"
	StateValidated       State = "validated"
	StateRatingsComputed State = "ratings_computed"
	StatePersisted       State = "persisted"
	StateCommitted       State = "committed"
	StateRejected        State = "rejected"
)

// report tracks one call to Report through its states.
type report struct {
	req   domain.MatchReport
	state State
	log   *slog.Logger
}

func newReport(req domain.MatchReport) *report {
	return &report{
		req:   req,
		state: StateReported,
		log:   slog.With("guild_id", req.CommunityID),
	}
}

func (r *report) transition(to State) {
	r.log.Debug("Match report state changed", "from", r.state, "to", to)
	r.state = to
}

func (r *report) reject(span trace.Span, err error) error {
	from := r.state
	r.state = StateRejected
	metrics.MatchesReported.WithLabelValues(string(StateRejected)).Inc()
	spanError(span, err)

	switch {
	case domain.IsValidation(err):
		r.log.Info("Match report rejected", "from", from, "error", err)
	case domain.IsConfiguration(err):
		r.log.Warn("Match report rejected, community needs setup", "from", from, "error", err)
	default:
		r.log.Error("Match report failed", "from", from, "error", err)
	}
	return err
}
