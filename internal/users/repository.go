// internal/users/repository.go

package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	// GetByIDFull hydrates a user with profile, persona, languages,
	// visited countries, visited city ids and current city
	GetByIDFull(ctx context.Context, id string) (*User, error)

	// ListCandidates returns a page of hydrated users excluding the
	// given user id, newest first
	ListCandidates(ctx context.Context, excludeUserID string, limit, offset int) ([]*User, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// userRow is the flat scan target for the hydration query
type userRow struct {
	ID               string          `db:"id"`
	Username         string          `db:"username"`
	CurrentCityID    *string         `db:"current_city_id"`
	VisitedCountries pq.StringArray  `db:"visited_countries"`
	CreatedAt        time.Time       `db:"created_at"`
	FirstName        *string         `db:"first_name"`
	LastName         *string         `db:"last_name"`
	Gender           *string         `db:"gender"`
	Birthday         *time.Time      `db:"birthday"`
	Languages        pq.StringArray  `db:"languages"`
	Persona          json.RawMessage `db:"persona"`
	CityName         *string         `db:"city_name"`
	CountryCode      *string         `db:"country_code"`
	CountryName      *string         `db:"country_name"`
}

const userSelect = `
    SELECT u.id, u.username, u.current_city_id,
           COALESCE(u.visited_countries, '{}') AS visited_countries,
           u.created_at,
           p.first_name, p.last_name, p.gender, p.birthday,
           COALESCE(p.languages, '{}') AS languages,
           p.persona,
           c.name AS city_name,
           co.code AS country_code, co.name AS country_name
    FROM users u
    LEFT JOIN profiles p ON p.user_id = u.id
    LEFT JOIN cities c ON c.id = u.current_city_id
    LEFT JOIN countries co ON co.code = c.country_code
`

func (r *postgresRepository) GetByIDFull(ctx context.Context, id string) (*User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row, userSelect+" WHERE u.id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	user := row.toUser()

	// Distinct visited city ids feed the shared-places match factor
	var cityIDs pq.StringArray
	err = r.db.SelectContext(ctx, &cityIDs, `
        SELECT DISTINCT city_id FROM city_visits WHERE user_id = $1
    `, id)
	if err != nil {
		return nil, err
	}
	user.VisitedCityIDs = cityIDs

	return user, nil
}

func (r *postgresRepository) ListCandidates(ctx context.Context, excludeUserID string, limit, offset int) ([]*User, error) {
	var rows []userRow
	err := r.db.SelectContext(ctx, &rows, userSelect+`
        WHERE u.id <> $1
        ORDER BY u.created_at DESC
        LIMIT $2 OFFSET $3
    `, excludeUserID, limit, offset)
	if err != nil {
		return nil, err
	}

	candidates := make([]*User, 0, len(rows))
	for i := range rows {
		candidates = append(candidates, rows[i].toUser())
	}

	return candidates, nil
}

func (row *userRow) toUser() *User {
	user := &User{
		ID:                  row.ID,
		Username:            row.Username,
		CurrentCityID:       row.CurrentCityID,
		VisitedCountryCodes: row.VisitedCountries,
		CreatedAt:           row.CreatedAt,
		Profile: &Profile{
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Gender:    row.Gender,
			Birthday:  row.Birthday,
			Languages: row.Languages,
			Persona:   ParsePersona(row.Persona),
		},
	}

	if row.CurrentCityID != nil && row.CityName != nil {
		city := &City{ID: *row.CurrentCityID, Name: *row.CityName}
		if row.CountryCode != nil {
			city.Country = &Country{Code: *row.CountryCode}
			if row.CountryName != nil {
				city.Country.Name = *row.CountryName
			}
		}
		user.CurrentCity = city
	}

	return user
}
