// Package domain はアセット永続化層の共通エラーを定義します。
package domain

import "errors"

// ErrAssetNotFound は指定 ID のアセットが存在しないことを示します。
var ErrAssetNotFound = errors.New("asset not found")

// ErrRecordNotFound は指定 (asset, date) のレコードが存在しないことを示します。
// 欠損日付として正常に扱えるため、呼び出し側はこれをエラーログにしないでください。
var ErrRecordNotFound = errors.New("market record not found")
