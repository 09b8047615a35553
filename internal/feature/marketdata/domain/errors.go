// Package domain はマーケットデータ取得エンジンのエラー分類を定義します。
//
// 分類の取り扱い:
//   - ErrRateLimited: 同一プロバイダへの残りの呼び出しを打ち切り、チェーンの
//     次のプロバイダへ即座に移ります。バッチジョブの呼び出し元には伝播しません。
//   - 空結果: エラーではありません。次のプロバイダを試すだけです。
//   - その他のプロバイダ例外: ログに残して空結果として扱います。
//     1プロバイダの失敗がバッチ更新全体を中断させてはいけません。
package domain

import (
	"errors"
	"strings"
)

// ErrRateLimited は外部プロバイダのアクセス頻度制限に達したことを示します。
var ErrRateLimited = errors.New("provider rate limited")

// ErrUnresolvableClass はアセット種別に対応するプロバイダチェーンが
// 構成できないことを示します。該当アセットはスキップされ、ジョブは継続します。
var ErrUnresolvableClass = errors.New("unresolvable instrument class")

// rateLimitPatterns はレート制限をメッセージから識別するためのパターンです。
// プロバイダは構造化されたエラーコードを返さないことが多く、
// 文字列照合に頼らざるを得ません。
var rateLimitPatterns = []string{
	"429",
	"too many requests",
	"rate limit",
	"访问频率",
	"频繁",
	"forbidden",
	"banned",
}

// IsRateLimited は err がレート制限由来かを判定します。
// ErrRateLimited そのものに加え、既知のメッセージパターンも検出します。
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range rateLimitPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
