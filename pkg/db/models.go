package db

import "database/sql"

// wordRow mirrors a row of the words table.
type wordRow struct {
	ID            int64
	Name          string
	Translation   string
	Transcription string
	ReviewedOn    sql.NullString
}
