package service

import (
	"context"
	"errors"

	"shopfront/internal/models"
	"shopfront/internal/store"
	"shopfront/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AccountService handles registration, authentication and user/customer
// record management.
type AccountService struct {
	store           *store.Store
	defaultPassword string
	logger          *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(st *store.Store, defaultPassword string) *AccountService {
	return &AccountService{
		store:           st,
		defaultPassword: defaultPassword,
		logger:          util.GetLogger(),
	}
}

// RegisterInput is the self-service registration form.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates a user and an empty customer profile. A taken username
// surfaces as store.ErrConflict with the first user untouched.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.Username == "" {
		return nil, invalidField("username", "username is required")
	}
	if input.Password == "" {
		return nil, invalidField("password", "password is required")
	}
	if input.Password != input.ConfirmPassword {
		return nil, invalidField("confirm_password", "passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	if _, err := s.store.FindOrCreateCustomer(ctx, user.ID); err != nil {
		return nil, err
	}

	util.UsersRegisteredTotal.Inc()
	s.logger.Info("User registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Authenticate verifies a username/password pair. Both unknown usernames
// and wrong passwords yield ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		util.LoginFailuresTotal.Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		util.LoginFailuresTotal.Inc()
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UserInput is the user-management create/update form.
type UserInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// ListUsers returns all users.
func (s *AccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.GetUsers(ctx)
}

// GetUser returns a user and their customer profile, which may be nil when
// no profile exists yet.
func (s *AccountService) GetUser(ctx context.Context, id int64) (*models.User, *models.Customer, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	customer, err := s.store.GetCustomerByUserID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return user, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return user, customer, nil
}

// CreateUser creates a user plus customer profile from the management
// form. A blank password falls back to the configured default.
func (s *AccountService) CreateUser(ctx context.Context, input UserInput, profile store.ProfileUpdate) (*models.User, error) {
	if input.Username == "" {
		return nil, invalidField("username", "username is required")
	}

	password := input.Password
	if password == "" {
		password = s.defaultPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hash),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	customer, err := s.store.FindOrCreateCustomer(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	customer.Phone = profile.Phone
	customer.Address = profile.Address
	customer.City = profile.City
	customer.State = profile.State
	customer.PostalCode = profile.PostalCode
	customer.Country = profile.Country
	if err := s.store.UpdateCustomer(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("User created", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// UpdateUser updates a user and their customer profile, creating the
// profile when it is missing. A blank password keeps the existing hash.
func (s *AccountService) UpdateUser(ctx context.Context, id int64, input UserInput, profile store.ProfileUpdate) (*models.User, error) {
	if input.Username == "" {
		return nil, invalidField("username", "username is required")
	}

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Username = input.Username
	user.Email = input.Email
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.PasswordHash = ""
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	customer, err := s.store.FindOrCreateCustomer(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	customer.Phone = profile.Phone
	customer.Address = profile.Address
	customer.City = profile.City
	customer.State = profile.State
	customer.PostalCode = profile.PostalCode
	customer.Country = profile.Country
	if err := s.store.UpdateCustomer(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("User updated", zap.Int64("user_id", user.ID))
	return user, nil
}

// DeleteUser removes a user; the customer profile and orders cascade.
func (s *AccountService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("User deleted", zap.Int64("user_id", id))
	return nil
}

// GetCustomer returns the profile attached to a user, or nil when none
// exists yet.
func (s *AccountService) GetCustomer(ctx context.Context, userID int64) (*models.Customer, error) {
	customer, err := s.store.GetCustomerByUserID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return customer, err
}
