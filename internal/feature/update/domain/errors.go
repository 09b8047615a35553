// Package domain はバックグラウンド更新ジョブのエラーを定義します。
package domain

import "errors"

// ErrJobNotFound は指定 ID のジョブが存在しないことを示します。
var ErrJobNotFound = errors.New("job not found")
