// Package adapters はusersフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/howie79794-sys/sweep-the-board/internal/feature/users/domain"
	"github.com/howie79794-sys/sweep-the-board/internal/feature/users/domain/entity"
)

// userMySQL はユーザー参照のMySQL実装です。GORMを使用してデータベース操作を行います。
type userMySQL struct {
	db *gorm.DB
}

// NewUserRepository は指定されたgorm.DB接続でuserMySQLの新しいインスタンスを生成します。
func NewUserRepository(db *gorm.DB) *userMySQL {
	return &userMySQL{db: db}
}

// FindByID はIDでユーザーを取得します。
// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
func (r *userMySQL) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListActive はランキング対象となる有効ユーザーの一覧を返します。
func (r *userMySQL) ListActive(ctx context.Context) ([]entity.User, error) {
	var rows []entity.User
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
