package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sherdwhite/book-trader/internal/models"
	"github.com/sherdwhite/book-trader/internal/traderrors"
)

// GormIdentityStore is the gorm-backed implementation of IdentityStore.
type GormIdentityStore struct {
	db *gorm.DB
}

// NewIdentityStore creates an IdentityStore on top of the given connection.
func NewIdentityStore(db *gorm.DB) *GormIdentityStore {
	return &GormIdentityStore{db: db}
}

// CreateUser inserts a new account. Duplicate username or email is rejected.
func (s *GormIdentityStore) CreateUser(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create user: %w", traderrors.ErrDuplicateUser)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser returns a single user.
func (s *GormIdentityStore) GetUser(id uint) (models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return models.User{}, fmt.Errorf("get user %d: %w", id, translateNotFound(err))
	}
	return user, nil
}

// GetUserByUsername returns the user with the given username.
func (s *GormIdentityStore) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("get user %q: %w", username, translateNotFound(err))
	}
	return user, nil
}

// ListUsers returns all user accounts.
func (s *GormIdentityStore) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SaveUser persists changes to an existing user.
func (s *GormIdentityStore) SaveUser(user *models.User) error {
	if err := s.db.Save(user).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("save user %d: %w", user.ID, traderrors.ErrDuplicateUser)
		}
		return fmt.Errorf("save user %d: %w", user.ID, err)
	}
	return nil
}

// DeleteUser removes a user account.
func (s *GormIdentityStore) DeleteUser(id uint) error {
	res := s.db.Delete(&models.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete user %d: %w", id, traderrors.ErrNotFound)
	}
	return nil
}

// GetOrCreateDevice returns the named verification device for a user,
// creating an unconfirmed one bound to the given email when absent. Resending
// a code therefore always reuses the same channel.
func (s *GormIdentityStore) GetOrCreateDevice(userID uint, name, email string) (models.EmailDevice, error) {
	var device models.EmailDevice
	err := s.db.Where("user_id = ? AND name = ?", userID, name).First(&device).Error
	if err == nil {
		return device, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.EmailDevice{}, fmt.Errorf("get device for user %d: %w", userID, err)
	}

	device = models.EmailDevice{
		UserID:    userID,
		Name:      name,
		Email:     email,
		Confirmed: false,
	}
	if err := s.db.Create(&device).Error; err != nil {
		return models.EmailDevice{}, fmt.Errorf("create device for user %d: %w", userID, err)
	}
	return device, nil
}

// SaveDevice persists changes to a verification device.
func (s *GormIdentityStore) SaveDevice(device *models.EmailDevice) error {
	if err := s.db.Save(device).Error; err != nil {
		return fmt.Errorf("save device %d: %w", device.ID, err)
	}
	return nil
}

// GetProfile returns the profile belonging to a user.
func (s *GormIdentityStore) GetProfile(userID uint) (models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return models.UserProfile{}, fmt.Errorf("get profile for user %d: %w", userID, translateNotFound(err))
	}
	return profile, nil
}

// SaveProfile inserts or updates a user's profile.
func (s *GormIdentityStore) SaveProfile(profile *models.UserProfile) error {
	if err := s.db.Save(profile).Error; err != nil {
		return fmt.Errorf("save profile for user %d: %w", profile.UserID, err)
	}
	return nil
}

// AppendReputation appends an event to the reputation ledger.
func (s *GormIdentityStore) AppendReputation(event *models.UserReputation) error {
	if err := s.db.Create(event).Error; err != nil {
		return fmt.Errorf("append reputation for user %d: %w", event.UserID, err)
	}
	return nil
}

// ListReputation returns a user's reputation events, newest first.
func (s *GormIdentityStore) ListReputation(userID uint) ([]models.UserReputation, error) {
	var events []models.UserReputation
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list reputation for user %d: %w", userID, err)
	}
	return events, nil
}
