package auth

import (
	"fmt"

	"github.com/sherdwhite/book-trader/internal/models"
	"github.com/sherdwhite/book-trader/internal/traderrors"
)

// Account management. These sit beside the verification flows because the
// identity store is the single owner of user records.

// CreateUser creates an account directly, bypassing email verification. The
// account is active immediately; the registration flow is the inactive-until-
// verified path.
func (s *AuthService) CreateUser(username, email, password, firstName string) (models.User, error) {
	if username == "" || email == "" || password == "" {
		return models.User{}, fmt.Errorf("service: %w - username, email and password are required",
			traderrors.ErrValidation)
	}

	user := models.User{
		Username:  username,
		Email:     email,
		FirstName: firstName,
		IsActive:  true,
	}
	if err := user.SetPassword(password); err != nil {
		return models.User{}, fmt.Errorf("service: failed to hash password: %w", err)
	}
	if err := s.store.CreateUser(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// ListUsers returns all accounts.
func (s *AuthService) ListUsers() ([]models.User, error) {
	return s.store.ListUsers()
}

// GetUser returns a single account.
func (s *AuthService) GetUser(id uint) (models.User, error) {
	return s.store.GetUser(id)
}

// UpdateUser applies changes to an account. A nil field leaves the stored
// value alone. Changing the email does not re-trigger verification.
func (s *AuthService) UpdateUser(id uint, email, firstName, password *string) (models.User, error) {
	user, err := s.store.GetUser(id)
	if err != nil {
		return models.User{}, err
	}
	if email != nil {
		if *email == "" {
			return models.User{}, fmt.Errorf("service: %w - email cannot be empty", traderrors.ErrValidation)
		}
		user.Email = *email
	}
	if firstName != nil {
		user.FirstName = *firstName
	}
	if password != nil {
		if *password == "" {
			return models.User{}, fmt.Errorf("service: %w - password cannot be empty", traderrors.ErrValidation)
		}
		if err := user.SetPassword(*password); err != nil {
			return models.User{}, fmt.Errorf("service: failed to hash password: %w", err)
		}
	}
	if err := s.store.SaveUser(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// DeleteUser removes an account.
func (s *AuthService) DeleteUser(id uint) error {
	return s.store.DeleteUser(id)
}

// GetProfile returns a user's marketplace profile.
func (s *AuthService) GetProfile(userID uint) (models.UserProfile, error) {
	return s.store.GetProfile(userID)
}

// ListReputation returns a user's reputation history, newest first.
func (s *AuthService) ListReputation(userID uint) ([]models.UserReputation, error) {
	return s.store.ListReputation(userID)
}
