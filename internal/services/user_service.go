package services

import (
	"context"
	"errors"
	"log"

	"dorm-backend/internal/apperr"
	"dorm-backend/internal/auth"
	"dorm-backend/internal/cache"
	"dorm-backend/internal/models"
	"dorm-backend/internal/policy"
	"dorm-backend/internal/repositories"
)

type UserService struct {
	store      repositories.Store
	JWTManager *auth.JWTManager
}

func NewUserService(store repositories.Store, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		store:      store,
		JWTManager: jwtManager,
	}
}

var errBadCredentials = apperr.New(apperr.Unauthorized, "invalid username or password")

// Login authenticates a user and returns a JWT token
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.store.View(ctx, func(tx repositories.Tx) error {
		var err error
		user, err = tx.Users().GetByUsername(ctx, req.Username)
		return err
	})
	if errors.Is(err, apperr.NotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, errBadCredentials
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) List(ctx context.Context, actor policy.Actor) ([]*models.User, error) {
	if err := policy.Authorize(actor, policy.UserRead); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, cache.UsersListKey, func(ctx context.Context) (users []*models.User, err error) {
		err = s.store.View(ctx, func(tx repositories.Tx) error {
			users, err = tx.Users().List(ctx)
			return err
		})
		return users, err
	})
}

func (s *UserService) Get(ctx context.Context, actor policy.Actor, id string) (u *models.User, err error) {
	if err := policy.Authorize(actor, policy.UserRead); err != nil {
		return nil, err
	}
	err = s.store.View(ctx, func(tx repositories.Tx) error {
		u, err = tx.Users().Get(ctx, id)
		return err
	})
	return u, err
}

func (s *UserService) Create(ctx context.Context, actor policy.Actor, req *models.CreateUserRequest) (*models.User, error) {
	if err := policy.Authorize(actor, policy.UserCreate); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         req.Role,
	}
	if err := s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		return tx.Users().Create(ctx, user)
	}); err != nil {
		return nil, err
	}
	cache.InvalidateUserCaches(ctx)
	return user, nil
}

// Update edits an account. Changing the role needs UserChangeRole on top of
// UserUpdate.
func (s *UserService) Update(ctx context.Context, actor policy.Actor, id string, req *models.UpdateUserRequest) (u *models.User, err error) {
	if err := policy.Authorize(actor, policy.UserUpdate); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	var hash string
	if req.Password != nil {
		if hash, err = auth.HashPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	err = s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		u, err = tx.Users().Get(ctx, id)
		if err != nil {
			return err
		}
		if req.Role != nil && *req.Role != u.Role {
			if err := policy.Authorize(actor, policy.UserChangeRole); err != nil {
				return err
			}
		}
		req.Apply(u)
		if hash != "" {
			u.PasswordHash = hash
		}
		return tx.Users().Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateUserCaches(ctx)
	return u, nil
}

// Delete removes an account. An admin cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if err := policy.Authorize(actor, policy.UserDelete); err != nil {
		return err
	}
	if id == actor.UserID {
		return apperr.New(apperr.InvalidInput, "cannot delete your own account")
	}
	if err := s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		return tx.Users().Delete(ctx, id)
	}); err != nil {
		return err
	}
	cache.InvalidateUserCaches(ctx)
	return nil
}

// SeedAdmin creates the initial admin account when no user exists yet. It is
// a no-op on a populated store or without a configured password.
func (s *UserService) SeedAdmin(ctx context.Context, username, password, fullName string) error {
	if password == "" {
		log.Printf("[Seed] No admin password configured, skipping admin seed")
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	seeded := false
	err = s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		users, err := tx.Users().List(ctx)
		if err != nil {
			return err
		}
		if len(users) > 0 {
			return nil
		}
		seeded = true
		return tx.Users().Create(ctx, &models.User{
			Username:     username,
			PasswordHash: hash,
			FullName:     fullName,
			Role:         models.RoleAdmin,
		})
	})
	if err != nil {
		return err
	}
	if seeded {
		log.Printf("[Seed] Created admin account %q", username)
		cache.InvalidateUserCaches(ctx)
	}
	return nil
}
