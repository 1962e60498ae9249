package extract

import (
	"context"
	"regexp"

	"go.uber.org/zap"

	"github.com/ynishioka/shindan/internal/llm"
	"github.com/ynishioka/shindan/internal/model"
	"github.com/ynishioka/shindan/internal/normalize"
)

var (
	// Rule 1: device installments. Hardware and its financing never count
	// toward the recurring line cost.
	deviceRe = regexp.MustCompile(`端末|機種代|本体代|分割支払|分割金|割賦|スマートフォン代|iPhone|iPad|Android|AppleCare|あんしん保証|アクセサリ|ケース|充電器`)

	// Rule 2: one-time fees, discounts and campaign adjustments.
	oneTimeRe = regexp.MustCompile(`事務手数料|手数料|契約解除料|解約金|違約金|頭金|キャンペーン|割引|家族割|セット割|学割|おうち割|一括`)

	// Evidence of an existing 24-hour unlimited-calling addon.
	unlimited24hRe = regexp.MustCompile(`24時間かけ放題|かけ放題\s*\(?24時間\)?|通話し放題|定額通話24`)
)

const (
	// baseConfidence is the score for a clean single-candidate extraction.
	baseConfidence = 0.9

	// unknownCarrierFactor reduces confidence when no carrier keyword
	// matched and the extractor had to scan the whole document.
	unknownCarrierFactor = 0.6

	// outOfRegionFactor reduces confidence when the recurring-charge
	// region held no candidate and the fallback scanned outside it.
	outOfRegionFactor = 0.7
)

// Extractor isolates the monthly recurring charge from normalized bill
// lines, applying its rules in order with the first applicable rule per
// line winning. It is stateless across invocations; ambiguous cases may
// be delegated to an optional inference collaborator.
type Extractor struct {
	classifier llm.Classifier // nil when delegation is disabled
	cfg        model.EngineConfig
	logger     *zap.Logger
}

// New creates an extractor. classifier may be nil; logger may be nil.
func New(cfg model.EngineConfig, classifier llm.Classifier, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{classifier: classifier, cfg: cfg, logger: logger}
}

// candidate is a line still in the running for the recurring charge.
type candidate struct {
	line   model.NormalizedLine
	amount int64
}

// Extract produces the ExtractedBill for one submission. It never
// returns an error: unreadable input degrades to a zero-confidence
// result, and collaborator failures fall back to the deterministic
// rules.
func (e *Extractor) Extract(ctx context.Context, rawText string, lines []model.NormalizedLine, bctx model.BillingContext) model.ExtractedBill {
	bill := model.ExtractedBill{Carrier: bctx.Carrier}

	if len(lines) == 0 {
		// InputUnreadable: terminal low-confidence result, not a failure.
		return bill
	}

	if e.cfg.Enable24hUnlimitedDetection {
		for _, line := range lines {
			if unlimited24hRe.MatchString(line.Text) {
				bill.Has24hUnlimited = true
				break
			}
		}
	}

	var remaining []candidate
	for _, line := range lines {
		amount, ok := rightmostAmount(line)
		if !ok {
			continue
		}
		switch {
		case deviceRe.MatchString(line.Text):
			bill.ExcludedAmounts = append(bill.ExcludedAmounts, model.ExcludedAmount{
				Label:  normalize.StripAmounts(line.Text),
				Amount: amount,
			})
		case oneTimeRe.MatchString(line.Text):
			bill.ExcludedAmounts = append(bill.ExcludedAmounts, model.ExcludedAmount{
				Label:  normalize.StripAmounts(line.Text),
				Amount: amount,
			})
		case amount > 0:
			remaining = append(remaining, candidate{line: line, amount: amount})
		}
	}

	if len(remaining) == 0 {
		// No numeric candidate at all: charge 0, confidence 0.
		return bill
	}

	inRegion := filterRegion(remaining, bctx.RecurringChargeRegion)
	confidence := baseConfidence
	pool := inRegion
	if len(pool) == 0 {
		pool = remaining
		confidence *= outOfRegionFactor
		bill.Notes = append(bill.Notes, model.NoteRegionFallback)
		e.logger.Warn("extract.region_empty",
			zap.Int("region_start", bctx.RecurringChargeRegion.Start),
			zap.Int("region_end", bctx.RecurringChargeRegion.End),
		)
	}

	top := largest(pool)
	ambiguous := withinBand(pool, top.amount)

	amount := top.amount
	switch {
	case len(ambiguous) <= 1:
		// Single clear candidate.

	case e.classifier != nil:
		bill.Notes = append(bill.Notes, model.NoteAmbiguousCandidates)
		amount, confidence = e.delegate(ctx, rawText, ambiguous, bctx, top, confidence, &bill)

	default:
		// AmbiguousExtraction with no collaborator: deterministic rule-3
		// fallback, confidence pushed below the acceptance threshold.
		bill.Notes = append(bill.Notes, model.NoteAmbiguousCandidates, model.NoteRule3Fallback)
		confidence = e.fallbackConfidence(confidence)
		e.logger.Warn("extract.ambiguous_fallback",
			zap.Int("candidates", len(ambiguous)),
			zap.Int64("amount", amount),
		)
	}

	if bctx.Carrier == model.CarrierUnknown {
		confidence *= unknownCarrierFactor
		bill.Notes = append(bill.Notes, model.NoteUnknownCarrier)
		// The conservative global scan is still rule 3; make that
		// visible in the audit trail.
		if !hasNote(bill.Notes, model.NoteCollaboratorAccepted) && !hasNote(bill.Notes, model.NoteRule3Fallback) {
			bill.Notes = append(bill.Notes, model.NoteRule3Fallback)
		}
	}

	bill.MonthlyRecurringCharge = amount
	bill.Confidence = clamp01(confidence)
	return bill
}

// delegate hands the ambiguous candidates to the inference
// collaborator. Timeout or failure is treated as "not configured" for
// this run; a declared confidence below the threshold also falls back
// to the deterministic top candidate.
func (e *Extractor) delegate(ctx context.Context, rawText string, ambiguous []candidate, bctx model.BillingContext, top candidate, confidence float64, bill *model.ExtractedBill) (int64, float64) {
	req := llm.Request{
		RawText: rawText,
		Carrier: bctx.Carrier,
	}
	for _, c := range ambiguous {
		req.Candidates = append(req.Candidates, c.line)
	}

	res, err := e.classifier.ClassifyCharge(ctx, req)
	if err != nil {
		// CollaboratorUnavailable: never fatal.
		bill.Notes = append(bill.Notes, model.NoteCollaboratorUnavailable, model.NoteRule3Fallback)
		e.logger.Warn("extract.collaborator_unavailable", zap.Error(err))
		return top.amount, e.fallbackConfidence(confidence)
	}
	if res.Confidence < e.cfg.AIConfidenceThreshold {
		bill.Notes = append(bill.Notes, model.NoteRule3Fallback)
		e.logger.Warn("extract.collaborator_low_confidence",
			zap.Float64("declared", res.Confidence),
			zap.Float64("threshold", e.cfg.AIConfidenceThreshold),
		)
		return top.amount, e.fallbackConfidence(confidence)
	}

	bill.Notes = append(bill.Notes, model.NoteCollaboratorAccepted)
	e.logger.Info("extract.collaborator_accepted",
		zap.Int64("amount", res.Amount),
		zap.Float64("declared", res.Confidence),
		zap.String("model", res.Model),
	)
	return res.Amount, res.Confidence
}

// fallbackConfidence sits strictly below the acceptance threshold to
// signal low certainty to the caller.
func (e *Extractor) fallbackConfidence(current float64) float64 {
	capped := e.cfg.AIConfidenceThreshold - 0.1
	if capped < 0 {
		capped = 0
	}
	if current < capped {
		return current
	}
	return capped
}

// rightmostAmount returns the last numeric token on a line; on bill
// layouts the amount column sits at the right edge.
func rightmostAmount(line model.NormalizedLine) (int64, bool) {
	if len(line.NumericTokens) == 0 {
		return 0, false
	}
	return line.NumericTokens[len(line.NumericTokens)-1], true
}

func filterRegion(cands []candidate, region model.LineRange) []candidate {
	if region.Empty() {
		return nil
	}
	var out []candidate
	for _, c := range cands {
		if region.Contains(c.line.Index) {
			out = append(out, c)
		}
	}
	return out
}

func largest(cands []candidate) candidate {
	top := cands[0]
	for _, c := range cands[1:] {
		if c.amount > top.amount {
			top = c
		}
	}
	return top
}

// withinBand returns the candidates whose amount is within 20% of the
// largest one, the "equally plausible" band that triggers delegation.
func withinBand(cands []candidate, max int64) []candidate {
	var out []candidate
	for _, c := range cands {
		if float64(c.amount) >= 0.8*float64(max) {
			out = append(out, c)
		}
	}
	return out
}

func hasNote(notes []string, note string) bool {
	for _, n := range notes {
		if n == note {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
