package model

// Carrier identifies the mobile carrier a bill was issued by
type Carrier string

const (
	CarrierDocomo   Carrier = "docomo"
	CarrierAu       Carrier = "au"
	CarrierSoftbank Carrier = "softbank"
	CarrierRakuten  Carrier = "rakuten"
	CarrierMVNO     Carrier = "mvno"    // sub-brands and budget carriers (Y!mobile, UQ, ahamo, povo, LINEMO...)
	CarrierUnknown  Carrier = "unknown" // no carrier keyword matched
)

// NormalizedLine is one cleaned line of recognized bill text.
// Index preserves reading order; NumericTokens are the yen amounts
// found in the line, in left-to-right order. Produced by the normalizer,
// consumed read-only by the classifier and extractor.
type NormalizedLine struct {
	Index         int     `json:"index"`
	Text          string  `json:"text"`
	NumericTokens []int64 `json:"numeric_tokens,omitempty"`
}

// LineRange is a half-open [Start, End) range of NormalizedLine indices.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Empty reports whether the range contains no lines.
func (r LineRange) Empty() bool { return r.End <= r.Start }

// Contains reports whether the line index falls inside the range.
func (r LineRange) Contains(i int) bool { return i >= r.Start && i < r.End }

// BillingContext is the classifier's view of the document: which carrier
// issued it and where the monthly recurring charge is expected to live.
// When the carrier is unknown the region spans the whole document and the
// extractor must be more conservative.
type BillingContext struct {
	Carrier               Carrier   `json:"carrier"`
	RecurringChargeRegion LineRange `json:"recurring_charge_region"`
	DetectedKeywords      []string  `json:"detected_keywords,omitempty"`
}

// ExcludedAmount records a line item that was deliberately left out of
// the recurring charge, for transparency.
type ExcludedAmount struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// ExtractedBill is the extractor's result: the monthly recurring line
// cost with device installments and one-time items removed, plus a
// confidence score in [0,1]. Immutable once produced.
type ExtractedBill struct {
	MonthlyRecurringCharge int64            `json:"monthly_recurring_charge"`
	Confidence             float64          `json:"confidence"`
	ExcludedAmounts        []ExcludedAmount `json:"excluded_amounts,omitempty"`
	Carrier                Carrier          `json:"carrier"`

	// Has24hUnlimited is set when the bill shows evidence of an existing
	// 24-hour unlimited-calling addon.
	Has24hUnlimited bool `json:"has_24h_unlimited,omitempty"`

	// Notes records which extraction paths fired, in order, for
	// auditability and testing.
	Notes []string `json:"notes,omitempty"`
}

// Extraction note identifiers.
const (
	NoteAmbiguousCandidates     = "ambiguous-candidates"
	NoteRule3Fallback           = "rule3-fallback"
	NoteRegionFallback          = "region-fallback"
	NoteUnknownCarrier          = "unknown-carrier"
	NoteCollaboratorAccepted    = "collaborator-accepted"
	NoteCollaboratorUnavailable = "collaborator-unavailable"
)
