package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// insertIgnore inserts value unless a row already holds the given conflict
// columns. The returned bool reports whether the row was actually inserted,
// derived from the statement's affected-row count, so concurrent replays of
// the same record race safely: exactly one caller sees true.
func insertIgnore(tx *gorm.DB, value any, conflictCols ...string) (bool, error) {
	cols := make([]clause.Column, len(conflictCols))
	for i, c := range conflictCols {
		cols[i] = clause.Column{Name: c}
	}
	res := tx.Clauses(clause.OnConflict{Columns: cols, DoNothing: true}).Create(value)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// forUpdate adds a row lock to the query so the merge that follows reads a
// stable row for the rest of the transaction.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
