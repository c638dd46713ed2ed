package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stemsi/profile-directory/internal/model"
)

// ErrProfileNotFound is returned when no row matches the id.
var ErrProfileNotFound = errors.New("profile not found")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var profileColumns = []string{"id", "name", "avatar", "description", "location", "email", "phone"}

// ProfileRepository persists profiles for the reference store.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func listQuery() sq.SelectBuilder {
	return psql.Select(profileColumns...).From("profiles").OrderBy("created_at ASC", "id ASC")
}

func getQuery(id model.ProfileID) sq.SelectBuilder {
	return psql.Select(profileColumns...).From("profiles").Where(sq.Eq{"id": string(id)})
}

func insertQuery(id model.ProfileID, in model.ProfileInput) sq.InsertBuilder {
	return psql.Insert("profiles").
		Columns(profileColumns...).
		Values(string(id), in.Name, in.Avatar, in.Description, in.Location, in.Email, in.Phone)
}

func updateQuery(id model.ProfileID, in model.ProfileInput) sq.UpdateBuilder {
	return psql.Update("profiles").
		SetMap(map[string]interface{}{
			"name":        in.Name,
			"avatar":      in.Avatar,
			"description": in.Description,
			"location":    in.Location,
			"email":       in.Email,
			"phone":       in.Phone,
			"updated_at":  sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": string(id)})
}

func deleteQuery(id model.ProfileID) sq.DeleteBuilder {
	return psql.Delete("profiles").Where(sq.Eq{"id": string(id)})
}

// List returns every profile in insertion order.
func (r *ProfileRepository) List(ctx context.Context) ([]model.Profile, error) {
	query, args, err := listQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []model.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Get returns one profile or ErrProfileNotFound.
func (r *ProfileRepository) Get(ctx context.Context, id model.ProfileID) (*model.Profile, error) {
	query, args, err := getQuery(id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	p, err := scanProfile(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a profile under a fresh UUID.
func (r *ProfileRepository) Create(ctx context.Context, in model.ProfileInput) (*model.Profile, error) {
	id := model.ProfileID(uuid.NewString())

	query, args, err := insertQuery(id, in).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return nil, err
	}
	p := profileFrom(id, in)
	return &p, nil
}

// Update replaces the editable fields of profile id.
func (r *ProfileRepository) Update(ctx context.Context, id model.ProfileID, in model.ProfileInput) (*model.Profile, error) {
	query, args, err := updateQuery(id, in).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrProfileNotFound
	}
	p := profileFrom(id, in)
	return &p, nil
}

// Delete removes profile id.
func (r *ProfileRepository) Delete(ctx context.Context, id model.ProfileID) error {
	query, args, err := deleteQuery(id).ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (model.Profile, error) {
	var (
		p  model.Profile
		id string
	)
	err := row.Scan(&id, &p.Name, &p.Avatar, &p.Description, &p.Location, &p.Email, &p.Phone)
	p.ID = model.ProfileID(id)
	return p, err
}

func profileFrom(id model.ProfileID, in model.ProfileInput) model.Profile {
	return model.Profile{
		ID:          id,
		Name:        in.Name,
		Avatar:      in.Avatar,
		Description: in.Description,
		Location:    in.Location,
		Email:       in.Email,
		Phone:       in.Phone,
	}
}
