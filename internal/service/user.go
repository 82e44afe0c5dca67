package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"askhub.app/dispatch/common/id"
	"askhub.app/dispatch/internal/model"
	"askhub.app/dispatch/internal/store"
)

type CreateUserInput struct {
	Name   string
	Email  string
	Role   model.Role
	Skills []string
}

type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*model.User, error)
	Get(ctx context.Context, userID int64) (*model.User, error)
	ListModerators(ctx context.Context) ([]model.User, error)
	Approve(ctx context.Context, userID int64) (*model.User, error)
	Reject(ctx context.Context, userID int64) (*model.User, error)
	Verify(ctx context.Context, userID int64) (*model.User, error)
	UpdateSkills(ctx context.Context, userID int64, skills []string) (*model.User, error)
}

type userService struct {
	userStore store.UserStore
}

func NewUserService(userStore store.UserStore) UserService {
	return &userService{userStore: userStore}
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Skills = cleanList(in.Skills)
	if in.Role == "" {
		in.Role = model.RoleUser
	}

	switch {
	case in.Name == "":
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	case !validEmail(in.Email):
		return nil, fmt.Errorf("%w: invalid email %q", ErrInvalidInput, in.Email)
	case !in.Role.Valid():
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
	case len(in.Skills) > model.MaxModeratorSkills:
		return nil, fmt.Errorf("%w: at most %d skills allowed", ErrInvalidInput, model.MaxModeratorSkills)
	}

	user := &model.User{
		ID:     id.New(),
		Name:   in.Name,
		Email:  in.Email,
		Role:   in.Role,
		Skills: in.Skills,
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		slog.ErrorContext(ctx, "failed to create user",
			"error", err,
			"email", in.Email,
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	slog.InfoContext(ctx, "user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *userService) Get(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	return s.result(err, user, "loading user")
}

func (s *userService) ListModerators(ctx context.Context) ([]model.User, error) {
	users, err := s.userStore.ListModerators(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing moderators: %w", err)
	}
	return users, nil
}

func (s *userService) Approve(ctx context.Context, userID int64) (*model.User, error) {
	if err := s.requireModerator(ctx, userID); err != nil {
		return nil, err
	}
	user, err := s.userStore.SetApproved(ctx, userID, true)
	if err == nil {
		slog.InfoContext(ctx, "moderator approved", "user_id", userID)
	}
	return s.result(err, user, "approving moderator")
}

// Reject turns a moderator applicant back into a regular user.
func (s *userService) Reject(ctx context.Context, userID int64) (*model.User, error) {
	if err := s.requireModerator(ctx, userID); err != nil {
		return nil, err
	}
	user, err := s.userStore.Reject(ctx, userID)
	if err == nil {
		slog.InfoContext(ctx, "moderator rejected", "user_id", userID)
	}
	return s.result(err, user, "rejecting moderator")
}

func (s *userService) Verify(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userStore.Verify(ctx, userID)
	return s.result(err, user, "verifying user")
}

func (s *userService) UpdateSkills(ctx context.Context, userID int64, skills []string) (*model.User, error) {
	skills = cleanList(skills)
	if len(skills) > model.MaxModeratorSkills {
		return nil, fmt.Errorf("%w: at most %d skills allowed", ErrInvalidInput, model.MaxModeratorSkills)
	}
	user, err := s.userStore.UpdateSkills(ctx, userID, skills)
	return s.result(err, user, "updating skills")
}

func (s *userService) requireModerator(ctx context.Context, userID int64) error {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("loading user: %w", err)
	}
	if user.Role != model.RoleModerator {
		return fmt.Errorf("%w: user %d has role %s", ErrNotModerator, userID, user.Role)
	}
	return nil
}

func (s *userService) result(err error, user *model.User, doing string) (*model.User, error) {
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", doing, err)
	}
	return user, nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
