// internal/repository/errors.go
package repository

import (
	"errors"
	"fmt"

	"readquest/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation は PostgreSQL の一意制約違反のエラーコード
const pgUniqueViolation = "23505"

// isUniqueViolation は一意制約違反かどうかを判定します
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// wrapDBError はドライバのエラーを ErrRepositoryUnavailable でラップします。
// 呼び出し側は errors.Is で永続化層の失敗を判定できます。
func wrapDBError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, model.ErrRepositoryUnavailable, err)
}
