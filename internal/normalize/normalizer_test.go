package normalize

import (
	"reflect"
	"testing"
)

func TestNormalize_Basic(t *testing.T) {
	n := New(nil)
	lines := n.Normalize("ご利用料金のお知らせ\n月額料金 7,700円\n端末代金 3,000円\n")

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if line.Index != i {
			t.Errorf("line %d has index %d", i, line.Index)
		}
	}
	if got := lines[1].NumericTokens; !reflect.DeepEqual(got, []int64{7700}) {
		t.Errorf("expected [7700], got %v", got)
	}
	if got := lines[2].NumericTokens; !reflect.DeepEqual(got, []int64{3000}) {
		t.Errorf("expected [3000], got %v", got)
	}
}

func TestNormalize_Empty(t *testing.T) {
	n := New(nil)
	if lines := n.Normalize(""); lines != nil {
		t.Errorf("expected nil for empty input, got %v", lines)
	}
	if lines := n.Normalize("   \n\n  "); lines != nil {
		t.Errorf("expected nil for whitespace input, got %v", lines)
	}
}

func TestNormalize_FullWidthFolding(t *testing.T) {
	n := New(nil)
	lines := n.Normalize("月額料金　７，７００円")

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if !reflect.DeepEqual(lines[0].NumericTokens, []int64{7700}) {
		t.Errorf("full-width amount not folded: %v", lines[0].NumericTokens)
	}
}

func TestNormalize_KatakanaWidth(t *testing.T) {
	n := New(nil)
	lines := n.Normalize("ドコモ ご利用明細\nｿﾌﾄﾊﾞﾝｸ ｹｰｽ代 1,000円\nｷｬﾝﾍﾟｰﾝ値引き ▲500円")

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	// Full-width katakana is already canonical and must pass through
	// untouched; the carrier keyword tables match on it.
	if lines[0].Text != "ドコモ ご利用明細" {
		t.Errorf("full-width katakana mangled: %q", lines[0].Text)
	}
	// Half-width katakana widens, including voiced marks.
	if lines[1].Text != "ソフトバンク ケース代 1,000円" {
		t.Errorf("half-width katakana not widened: %q", lines[1].Text)
	}
	if lines[2].Text != "キャンペーン値引き ▲500円" {
		t.Errorf("half-width katakana not widened: %q", lines[2].Text)
	}
	if !reflect.DeepEqual(lines[2].NumericTokens, []int64{-500}) {
		t.Errorf("amount lost in width folding: %v", lines[2].NumericTokens)
	}
}

func TestNormalize_WhitespaceCollapse(t *testing.T) {
	n := New(nil)
	lines := n.Normalize("基本料金      4,980円")

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "基本料金 4,980円" {
		t.Errorf("space run not collapsed: %q", lines[0].Text)
	}
}

func TestNormalize_Denylist(t *testing.T) {
	n := New([]string{"My docomo", "ページ"})
	lines := n.Normalize("My docomo ご利用明細\n月額料金 5,000円\n1ページ")

	if len(lines) != 1 {
		t.Fatalf("expected 1 line after denylist, got %d", len(lines))
	}
	if lines[0].Text != "月額料金 5,000円" {
		t.Errorf("wrong surviving line: %q", lines[0].Text)
	}
	if lines[0].Index != 0 {
		t.Errorf("indices must be contiguous after filtering, got %d", lines[0].Index)
	}
}

func TestNormalize_NonAmountDigits(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"date", "ご利用期間 2024/05/10"},
		{"kanji date", "2024年5月10日ご請求分"},
		{"phone", "電話番号 090-1234-5678"},
		{"document id", "お客様番号 1234567890123"},
	}

	n := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := n.Normalize(tt.line)
			if len(lines) != 1 {
				t.Fatalf("expected 1 line, got %d", len(lines))
			}
			if len(lines[0].NumericTokens) != 0 {
				t.Errorf("expected no tokens for %q, got %v", tt.line, lines[0].NumericTokens)
			}
		})
	}
}

func TestNormalize_NegativeMarkers(t *testing.T) {
	n := New(nil)
	lines := n.Normalize("家族割引 ▲1,000円\n端末割引 −500円")

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !reflect.DeepEqual(lines[0].NumericTokens, []int64{-1000}) {
		t.Errorf("▲ marker not negated: %v", lines[0].NumericTokens)
	}
	if !reflect.DeepEqual(lines[1].NumericTokens, []int64{-500}) {
		t.Errorf("− marker not negated: %v", lines[1].NumericTokens)
	}
}

func TestNormalize_ImplausibleAmounts(t *testing.T) {
	n := New(nil)

	// Unmarked short digit runs are quantities, not money.
	lines := n.Normalize("データ容量 2GB")
	if len(lines[0].NumericTokens) != 0 {
		t.Errorf("quantity leaked as amount: %v", lines[0].NumericTokens)
	}

	// A marked small amount is still money.
	lines = n.Normalize("ユニバーサル料 3円")
	if !reflect.DeepEqual(lines[0].NumericTokens, []int64{3}) {
		t.Errorf("marked small amount dropped: %v", lines[0].NumericTokens)
	}
}

func TestStripAmounts(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"端末代金 3,000円", "端末代金"},
		{"事務手数料: 3,300円", "事務手数料"},
		{"家族割引 ▲1,000円", "家族割引"},
		{"月額料金", "月額料金"},
	}

	for _, tt := range tests {
		if got := StripAmounts(tt.in); got != tt.want {
			t.Errorf("StripAmounts(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
