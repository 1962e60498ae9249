package classify

import (
	"regexp"

	"github.com/ynishioka/shindan/internal/model"
)

// carrierRule binds a carrier tag to its identifying keyword pattern.
// Rules are evaluated in declaration order, which is stable and part of
// the classification contract: the first line that matches any carrier
// wins, and when one line matches several carriers the earliest
// declared carrier is chosen.
type carrierRule struct {
	carrier model.Carrier
	name    string
	pattern *regexp.Regexp
}

// Declaration order: docomo, au, softbank, rakuten, mvno.
// The mvno tag folds together the sub-brands and budget carriers the
// catalog treats identically (Y!mobile, UQ, ahamo, povo, LINEMO, ...).
var carrierRules = []carrierRule{
	{model.CarrierDocomo, "docomo", regexp.MustCompile(`(?i)docomo|ドコモ|ギガホ|ギガライト|spモード|dカード`)},
	{model.CarrierAu, "au", regexp.MustCompile(`(?i)\bau\b|KDDI|スマートバリュー|使い放題MAX|ピタットプラン|LTE NET`)},
	{model.CarrierSoftbank, "softbank", regexp.MustCompile(`(?i)softbank|ソフトバンク|おうち割|メリハリ|S!ベーシック`)},
	{model.CarrierRakuten, "rakuten", regexp.MustCompile(`(?i)rakuten|楽天モバイル|楽天`)},
	{model.CarrierMVNO, "mvno", regexp.MustCompile(`(?i)y!mobile|ワイモバイル|UQ\s?mobile|UQモバイル|ahamo|アハモ|povo|LINEMO|ラインモ|IIJmio|mineo|OCNモバイル`)},
}

var (
	// Billing-section headers that open the region holding the monthly
	// recurring charge.
	sectionHeaderRe = regexp.MustCompile(`月額料金|ご利用料金|利用料金|ご利用内訳|ご請求内訳|基本使用料|基本料|プラン料金|音声プラン|データプラン`)

	// Totals and payment sections close the recurring-charge region.
	sectionBoundaryRe = regexp.MustCompile(`ご請求金額|請求金額|合計|小計|消費税|お支払い方法`)
)

// Classifier detects the issuing carrier and bounds the text region
// believed to contain the monthly recurring charge.
type Classifier struct{}

func New() *Classifier { return &Classifier{} }

// Classify scans normalized lines for carrier-identifying tokens and
// billing-section markers. If no carrier keyword matches, the carrier is
// unknown and the full line range is used as the region, which makes the
// extractor fall back to a conservative global scan.
func (c *Classifier) Classify(lines []model.NormalizedLine) model.BillingContext {
	ctx := model.BillingContext{Carrier: model.CarrierUnknown}
	if len(lines) == 0 {
		return ctx
	}

	var keywords []string
scan:
	for _, line := range lines {
		for _, rule := range carrierRules {
			if m := rule.pattern.FindString(line.Text); m != "" {
				ctx.Carrier = rule.carrier
				keywords = append(keywords, m)
				break scan
			}
		}
	}

	ctx.RecurringChargeRegion = chargeRegion(lines, &keywords)
	ctx.DetectedKeywords = keywords
	return ctx
}

// chargeRegion returns the index range from the first section-header
// match to the next section boundary, or the full document when no
// header is found.
func chargeRegion(lines []model.NormalizedLine, keywords *[]string) model.LineRange {
	start := -1
	for _, line := range lines {
		if m := sectionHeaderRe.FindString(line.Text); m != "" {
			start = line.Index
			*keywords = append(*keywords, m)
			break
		}
	}
	if start < 0 {
		return model.LineRange{Start: 0, End: len(lines)}
	}

	end := len(lines)
	for _, line := range lines[start+1:] {
		if sectionBoundaryRe.MatchString(line.Text) {
			end = line.Index
			break
		}
	}
	if end <= start {
		end = len(lines)
	}
	return model.LineRange{Start: start, End: end}
}
