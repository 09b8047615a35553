package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDateFormat は日付文字列がどの既知フォーマットにも一致しないことを示します。
// 呼び出し側はそのリクエスト単体の失敗として扱い、バッチ全体は継続してください。
var ErrDateFormat = errors.New("unrecognized date format")

// dateLayouts は受理する日付フォーマットです。この順に試行します。
var dateLayouts = []string{"2006-01-02", "2006/01/02", "20060102"}

// Date は複数フォーマットの日付文字列を time.Time に正規化します。
func Date(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrDateFormat, raw)
}

// DateISO は正規化した日付を ISO 形式（YYYY-MM-DD）の文字列で返します。
func DateISO(raw string) (string, error) {
	t, err := Date(raw)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}

// DateCompact は正規化した日付を 8 桁の数字（YYYYMMDD）で返します。
// 東方財富の kline API がこの形式を要求します。
func DateCompact(t time.Time) string {
	return t.Format("20060102")
}
