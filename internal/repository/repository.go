package repository

import "github.com/yourusername/league-book/internal/database"

// NewRepositories creates the full set of PostgreSQL repositories
func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Matches:  NewPostgresMatchRepository(db),
		Wagers:   NewPostgresWagerRepository(db),
		Accounts: NewPostgresAccountRepository(db),
		Seasons:  NewPostgresSeasonRepository(db),
	}
}
