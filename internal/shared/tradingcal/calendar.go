// Package tradingcal はA株の取引カレンダー判定を提供します。
// 土日のみを非取引日として扱い、祝日カレンダーは持ちません（既知の制限）。
// 非取引日のデータは外部プロバイダへ問い合わせず、ストアから読むのが前提です。
package tradingcal

import "time"

// CST は北京時間（UTC+8）です。市場の営業判定はすべてこのタイムゾーンで行います。
var CST = time.FixedZone("CST", 8*60*60)

const (
	marketOpenHour    = 9
	marketOpenMinute  = 15 // 集合競売開始
	marketCloseHour   = 15
	marketCloseMinute = 30 // 大引け後の確定値配信まで含む
)

// Now は現在の北京時間を返します。
func Now() time.Time {
	return time.Now().In(CST)
}

// IsTradingDay は指定日が取引日かを返します。土日のみ false です。
func IsTradingDay(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// ShouldSkipRequest は過去日付の外部リクエストを抑制すべきかを返します。
// true の場合、呼び出し側はプロバイダを呼ばずにストアから読んでください。
// 「今日」の更新パスには適用しません（時刻ベースの判定を使います）。
func ShouldSkipRequest(d time.Time) bool {
	return !IsTradingDay(d)
}

// IsTradingHours は指定時刻がA株の取引時間帯（09:15〜15:30 北京時間）かを返します。
func IsTradingHours(t time.Time) bool {
	t = t.In(CST)
	mins := t.Hour()*60 + t.Minute()
	return mins >= marketOpenHour*60+marketOpenMinute && mins <= marketCloseHour*60+marketCloseMinute
}

// LatestTradingDay は指定日を含む直近の取引日を返します。
// 土曜・日曜は金曜に巻き戻します。
func LatestTradingDay(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, -2)
	default:
		return d
	}
}

// DateOnly は時刻成分を落とした日付（UTC 零時）を返します。
// (asset_id, date) キーの比較はすべてこの形に揃えます。
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
