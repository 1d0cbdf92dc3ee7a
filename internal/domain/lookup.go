package domain

import (
	"time"

	"github.com/google/uuid"
)

// LookupOutcome records how a quote lookup ended. It mirrors ErrorKind with
// an explicit value for success.
type LookupOutcome string

const LookupOutcomeOK LookupOutcome = "ok"

// OutcomeOf converts a pipeline error into the journal outcome.
func OutcomeOf(err error) LookupOutcome {
	if err == nil {
		return LookupOutcomeOK
	}
	return LookupOutcome(KindOf(err))
}

// LookupRecord is a journal entry for one resolve/fetch/derive pass. It keeps
// what was asked and how it resolved, not the derived figures.
type LookupRecord struct {
	ID        string           `json:"id"`
	Query     string           `json:"query"`
	Symbol    TickerSymbol     `json:"symbol"`
	Source    ResolutionSource `json:"source"`
	Outcome   LookupOutcome    `json:"outcome"`
	Period    Period           `json:"period"`
	CreatedAt time.Time        `json:"created_at"`
}

func NewLookupRecord(res Resolution, period Period, outcome LookupOutcome) LookupRecord {
	return LookupRecord{
		ID:        uuid.New().String(),
		Query:     res.Query,
		Symbol:    res.Symbol,
		Source:    res.Source,
		Outcome:   outcome,
		Period:    period,
		CreatedAt: time.Now().UTC(),
	}
}
