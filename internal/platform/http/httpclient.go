// Package http は外部データプロバイダ呼び出し用のHTTPクライアント設定を提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient はプロバイダアダプター用に設定されたHTTPクライアントを作成します。
// アダプターごとに1クライアントを持ち、http.DefaultClient は使いません
// (タイムアウトが無いため)。
//
// 設定の意図:
//   - Proxy: 環境変数 (HTTP_PROXY など) が設定されている場合に使用
//   - DialContext: TCP接続は5秒で諦める。プロバイダ側の無応答で
//     バッチ全体が止まるのを防ぐ
//   - MaxIdleConnsPerHost: 同一プロバイダへの連続ポーリングで
//     コネクションを使い回す
//   - Client.Timeout: リクエスト全体の上限 (アダプターのConfigから渡される)
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
