package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/ynishioka/shindan/internal/model"
)

// Normalizer cleans raw recognized text into an ordered sequence of
// candidate line items. It never fails: empty or unparseable input
// yields an empty sequence, which downstream stages treat as
// "no data extracted".
type Normalizer struct {
	denylist []string
}

// New creates a normalizer with the given boilerplate denylist.
// Denylist entries are matched case-insensitively as substrings.
func New(denylist []string) *Normalizer {
	lowered := make([]string, 0, len(denylist))
	for _, d := range denylist {
		d = strings.TrimSpace(d)
		if d != "" {
			lowered = append(lowered, strings.ToLower(d))
		}
	}
	return &Normalizer{denylist: lowered}
}

var (
	// Lines dominated by dates, phone numbers or long ID runs carry no
	// billable amount; their digits must not leak into extraction.
	dateRe    = regexp.MustCompile(`\d{4}[/年.\-]\d{1,2}[/月.\-]\d{1,2}|\b\d{8}\b`)
	phoneRe   = regexp.MustCompile(`0[789]0-?\d{4}-?\d{4}|0\d{1,4}-\d{1,4}-\d{4}`)
	longNumRe = regexp.MustCompile(`\d{10,}`)

	// Yen amounts: optional negative marker, optional currency prefix,
	// comma-grouped or bare digits, optional decimals and 円 suffix.
	amountRe = regexp.MustCompile(`(▲|−|-)?¥?(\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{1,2})?円?`)

	spaceRunRe = regexp.MustCompile(`[ \t]{2,}`)
)

// maxPlausibleAmount rejects ID fragments misread as money.
const maxPlausibleAmount = 1_000_000

// Normalize splits raw recognized text into ordered normalized lines,
// folding character widths to their canonical forms (digits, latin and
// ￥ to half width, katakana to full width) and stripping boilerplate
// matched by the denylist.
func (n *Normalizer) Normalize(raw string) []model.NormalizedLine {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	// Fold to canonical widths so a single set of patterns covers both
	// OCR output styles: full-width digits/latin/￥ become narrow while
	// katakana stays (or becomes) full width, which the carrier and
	// exclusion keyword tables rely on. NFC recomposes the combining
	// voiced marks the width fold emits for half-width ﾊﾞ and ﾍﾟ.
	folded := norm.NFC.String(width.Fold.String(raw))

	var lines []model.NormalizedLine
	idx := 0
	for _, rawLine := range strings.FieldsFunc(folded, func(r rune) bool {
		return r == '\n' || r == '\r' || r == '\v' || r == '\f'
	}) {
		text := strings.TrimSpace(spaceRunRe.ReplaceAllString(rawLine, " "))
		if len([]rune(text)) < 2 {
			continue
		}
		if n.isBoilerplate(text) {
			continue
		}
		lines = append(lines, model.NormalizedLine{
			Index:         idx,
			Text:          text,
			NumericTokens: extractAmounts(text),
		})
		idx++
	}
	return lines
}

func (n *Normalizer) isBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, d := range n.denylist {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}

// extractAmounts returns the plausible yen amounts on a line, in
// left-to-right order. Lines that look like dates, phone numbers or
// document IDs yield no tokens.
func extractAmounts(line string) []int64 {
	if dateRe.MatchString(line) || phoneRe.MatchString(line) || longNumRe.MatchString(line) {
		return nil
	}

	var amounts []int64
	for _, m := range amountRe.FindAllStringSubmatch(line, -1) {
		v, err := strconv.ParseInt(strings.ReplaceAll(m[2], ",", ""), 10, 64)
		if err != nil {
			continue
		}
		if m[1] != "" {
			v = -v
		}
		if !plausibleAmount(v, m[0]) {
			continue
		}
		amounts = append(amounts, v)
	}
	return amounts
}

// StripAmounts removes amount tokens from a line, leaving the label.
// "端末代金 3,000円" becomes "端末代金".
func StripAmounts(line string) string {
	label := amountRe.ReplaceAllString(line, "")
	label = strings.TrimRight(strings.TrimSpace(label), ":：")
	return strings.TrimSpace(label)
}

// plausibleAmount filters out tokens that are almost certainly not
// money: zero, values beyond any realistic bill, and short bare digit
// runs (quantities like "2GB" or list numbering) that carry no
// currency marker.
func plausibleAmount(v int64, token string) bool {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	if abs == 0 || abs >= maxPlausibleAmount {
		return false
	}
	marked := strings.ContainsAny(token, "¥円,▲−-")
	if !marked && abs < 100 {
		return false
	}
	return true
}
