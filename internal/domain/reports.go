package domain

import "github.com/shopspring/decimal"

// TotalsBlock is the aggregate summary appended to a report.
// Values[i] is the aggregate for Titles[i].
type TotalsBlock struct {
	Titles []string          `json:"titles"`
	Values []decimal.Decimal `json:"values"`
}

// Round returns a copy with every value rounded to the given number of places.
func (t TotalsBlock) Round(places int32) TotalsBlock {
	rounded := TotalsBlock{
		Titles: append([]string(nil), t.Titles...),
		Values: make([]decimal.Decimal, len(t.Values)),
	}
	for i, v := range t.Values {
		rounded.Values[i] = v.Round(places)
	}
	return rounded
}

// Value returns the aggregate for title, if present.
func (t TotalsBlock) Value(title string) (decimal.Decimal, bool) {
	for i, candidate := range t.Titles {
		if candidate == title && i < len(t.Values) {
			return t.Values[i], true
		}
	}
	return decimal.Zero, false
}

// ReconcileRequest is the input of one engine invocation.
type ReconcileRequest struct {
	ReportPath string
	OutputPath string
	Pricing    []PricingInput
}

// RunStats counts what happened to the source rows during one invocation.
type RunStats struct {
	RowsRead       int `json:"rows_read"`
	RowsRetained   int `json:"rows_retained"`
	EntriesEmitted int `json:"entries_emitted"`
	PendingFlushed int `json:"pending_flushed"`
	PricingEntries int `json:"pricing_entries"`
	PricingSkipped int `json:"pricing_skipped"`
}

// ReconcileResult is the top-level structure returned to callers.
type ReconcileResult struct {
	ArtifactPath string      `json:"artifact_path"`
	Totals       TotalsBlock `json:"totals"`
	Stats        RunStats    `json:"stats"`
}
