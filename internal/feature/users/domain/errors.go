// Package domain はusersフィーチャーのドメインエラーを定義します。
package domain

import "errors"

// ErrUserNotFound は指定されたユーザーが存在しないことを示します。
var ErrUserNotFound = errors.New("user not found")
