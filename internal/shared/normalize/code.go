// Package normalize は銘柄コードと日付文字列の正規化ユーティリティを提供します。
// 外部データソースごとに異なるコード表記（SH601727, 601727.SH, 601727 など）を
// 取引所判定付きの正規形に揃えます。
package normalize

import (
	"log/slog"
	"strings"
)

// Exchange は銘柄が属する取引所を表します。
type Exchange string

const (
	ExchangeShanghai Exchange = "SH" // 上海証券取引所
	ExchangeShenzhen Exchange = "SZ" // 深セン証券取引所
)

// codeSuffixes は除去対象の市場サフィックスです（大文字小文字を区別しない）。
var codeSuffixes = []string{".SH", ".SZ", ".SS"}

// codePrefixes は除去対象の市場プレフィックスです。
var codePrefixes = []string{"SH", "SZ"}

// Code は生のコード文字列から市場プレフィックス・サフィックスを取り除き、
// 数字のみの正規化コードを返します。
func Code(raw string) string {
	code := strings.TrimSpace(raw)
	upper := strings.ToUpper(code)
	for _, suf := range codeSuffixes {
		if strings.HasSuffix(upper, suf) {
			code = code[:len(code)-len(suf)]
			upper = upper[:len(upper)-len(suf)]
			break
		}
	}
	for _, pre := range codePrefixes {
		if strings.HasPrefix(upper, pre) {
			code = code[len(pre):]
			break
		}
	}
	return strings.TrimSpace(code)
}

// DetectExchange は正規化済みコードの先頭数字から取引所を推定します。
// 6 → 上海、0/3 → 深セン。判定できない場合は警告を出して上海を返します。
func DetectExchange(code string) Exchange {
	switch {
	case strings.HasPrefix(code, "6"):
		return ExchangeShanghai
	case strings.HasPrefix(code, "0"), strings.HasPrefix(code, "3"):
		return ExchangeShenzhen
	default:
		slog.Warn("unrecognized code pattern, defaulting to Shanghai", "code", code)
		return ExchangeShanghai
	}
}

// SecID は東方財富 API の secid 形式（"1.600000" / "0.000001"）を返します。
func SecID(raw string) string {
	code := Code(raw)
	if DetectExchange(code) == ExchangeShanghai {
		return "1." + code
	}
	return "0." + code
}

// SuffixSymbol はグローバル系 API のサフィックス形式（"600000.SS" / "000001.SZ"）を返します。
func SuffixSymbol(raw string) string {
	code := Code(raw)
	if DetectExchange(code) == ExchangeShanghai {
		return code + ".SS"
	}
	return code + ".SZ"
}

// PrefixSymbol は国内直結系 API のプレフィックス形式（"sh600000" / "sz000001"）を返します。
func PrefixSymbol(raw string) string {
	code := Code(raw)
	if DetectExchange(code) == ExchangeShanghai {
		return "sh" + code
	}
	return "sz" + code
}
