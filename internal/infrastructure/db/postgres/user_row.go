package postgres

import (
	"database/sql"
	"time"
)

type userRow struct {
	ID           string
	Email        string
	PasswordHash string
	MFASecret    sql.NullString
	MFAEnabled   bool
	CreatedAt    time.Time
}
