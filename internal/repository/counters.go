package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrStaleEnrollment signals that an enrollment changed between read and conditional write.
var ErrStaleEnrollment = errors.New("enrollment changed concurrently")

// adjustCounter shifts a denormalised counter column by delta, never letting it drop below zero.
func adjustCounter(tx *gorm.DB, model interface{}, column, id string, delta int) error {
	expr := gorm.Expr(fmt.Sprintf("CASE WHEN %[1]s + ? < 0 THEN 0 ELSE %[1]s + ? END", column), delta, delta)
	result := tx.Model(model).Where("id = ?", id).UpdateColumn(column, expr)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
