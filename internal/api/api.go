// Package api はHTTPレスポンスの共通型を定義します。
package api

// ErrorResponse はエラーレスポンスの共通DTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}
