// internal/travelhistory/repository.go

package travelhistory

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/wandermate/wandermate-backend/internal/users"
)

type Repository interface {
	// ListCityVisits returns a user's most recent city visits with the
	// city and country joined in, newest first
	ListCityVisits(ctx context.Context, userID string, limit int) ([]*CityVisit, error)

	// GetCountriesByCodes resolves ISO country codes to country records
	GetCountriesByCodes(ctx context.Context, codes []string) ([]users.Country, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) ListCityVisits(ctx context.Context, userID string, limit int) ([]*CityVisit, error) {
	visits := []*CityVisit{}
	err := r.db.SelectContext(ctx, &visits, `
        SELECT v.id, v.user_id, v.city_id,
               c.name AS city_name,
               co.code AS country_code, co.name AS country_name,
               v.start_date, v.end_date, v.verified, v.source, v.created_at
        FROM city_visits v
        JOIN cities c ON c.id = v.city_id
        JOIN countries co ON co.code = c.country_code
        WHERE v.user_id = $1
        ORDER BY v.start_date DESC NULLS LAST, v.created_at DESC
        LIMIT $2
    `, userID, limit)
	if err != nil {
		return nil, err
	}

	return visits, nil
}

func (r *postgresRepository) GetCountriesByCodes(ctx context.Context, codes []string) ([]users.Country, error) {
	if len(codes) == 0 {
		return []users.Country{}, nil
	}

	countries := []users.Country{}
	err := r.db.SelectContext(ctx, &countries, `
        SELECT code, name FROM countries WHERE code = ANY($1)
    `, pq.Array(codes))
	if err != nil {
		return nil, err
	}

	return countries, nil
}
