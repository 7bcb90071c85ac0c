package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/numbering"
)

// nextCode reads the maximum code matching the month prefix and increments
// it. tx may be a transaction handle so the read and the subsequent insert
// share a snapshot; even then two concurrent callers can compute the same
// next value — the scheme carries no locking.
func nextCode(tx *gorm.DB, table, column string, kind numbering.Kind, now time.Time) (string, error) {
	prefix := numbering.Prefix(kind, now)

	var maxCode string
	err := tx.Raw(
		`SELECT COALESCE(MAX(`+column+`), '') FROM `+table+` WHERE `+column+` LIKE ?`,
		prefix+"%",
	).Scan(&maxCode).Error
	if err != nil {
		return "", err
	}
	return numbering.NextInSequence(maxCode, prefix, kind.Width())
}
