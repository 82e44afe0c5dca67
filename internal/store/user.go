package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"askhub.app/dispatch/core/db/sqlc"
	"askhub.app/dispatch/internal/model"
)

type userStore struct {
	queries *sqlc.Queries
}

func newUserStore(queries *sqlc.Queries) UserStore {
	return &userStore{queries: queries}
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row, err := s.queries.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toUserModel(row), nil
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	role := user.Role
	if role == "" {
		role = model.RoleUser
	}

	row, err := s.queries.CreateUser(ctx, sqlc.CreateUserParams{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   string(role),
		Skills: nonNil(user.Skills),
	})
	if err != nil {
		return err
	}
	*user = *toUserModel(row)
	return nil
}

func (s *userStore) ListAvailableModerators(ctx context.Context, skills []string) ([]model.User, error) {
	var (
		rows []sqlc.User
		err  error
	)
	if skills == nil {
		rows, err = s.queries.ListAvailableModerators(ctx)
	} else {
		// Stored skills keep their case; the query compares lower(skill).
		lowered := make([]string, len(skills))
		for i, skill := range skills {
			lowered[i] = strings.ToLower(strings.TrimSpace(skill))
		}
		rows, err = s.queries.ListAvailableModeratorsBySkills(ctx, lowered)
	}
	if err != nil {
		return nil, err
	}
	return toUserModels(rows), nil
}

func (s *userStore) ListModerators(ctx context.Context) ([]model.User, error) {
	rows, err := s.queries.ListModerators(ctx)
	if err != nil {
		return nil, err
	}
	return toUserModels(rows), nil
}

func (s *userStore) ListModeratorWorkloads(ctx context.Context) ([]model.ModeratorWorkload, error) {
	rows, err := s.queries.ListModeratorWorkloads(ctx)
	if err != nil {
		return nil, err
	}

	workloads := make([]model.ModeratorWorkload, len(rows))
	for i, row := range rows {
		workloads[i] = model.ModeratorWorkload{
			ID:            row.ID,
			Name:          row.Name,
			Email:         row.Email,
			Skills:        nonNil(row.Skills),
			TotalAssigned: int(row.TotalAssigned),
			Active:        int(row.Active),
		}
	}
	return workloads, nil
}

func (s *userStore) SetApproved(ctx context.Context, id int64, approved bool) (*model.User, error) {
	row, err := s.queries.SetUserApproved(ctx, sqlc.SetUserApprovedParams{
		ID:       id,
		Approved: approved,
	})
	return s.single(row, err)
}

func (s *userStore) Reject(ctx context.Context, id int64) (*model.User, error) {
	row, err := s.queries.RejectModerator(ctx, id)
	return s.single(row, err)
}

func (s *userStore) Verify(ctx context.Context, id int64) (*model.User, error) {
	row, err := s.queries.SetUserVerified(ctx, id)
	return s.single(row, err)
}

func (s *userStore) UpdateSkills(ctx context.Context, id int64, skills []string) (*model.User, error) {
	row, err := s.queries.UpdateUserSkills(ctx, sqlc.UpdateUserSkillsParams{
		ID:     id,
		Skills: nonNil(skills),
	})
	return s.single(row, err)
}

func (s *userStore) single(row sqlc.User, err error) (*model.User, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toUserModel(row), nil
}

func toUserModels(rows []sqlc.User) []model.User {
	users := make([]model.User, len(rows))
	for i, row := range rows {
		users[i] = *toUserModel(row)
	}
	return users
}

func toUserModel(row sqlc.User) *model.User {
	return &model.User{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Role:      model.Role(row.Role),
		Skills:    nonNil(row.Skills),
		Approved:  row.Approved,
		Verified:  row.Verified,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
