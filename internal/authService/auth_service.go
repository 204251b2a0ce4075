package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sherdwhite/book-trader/internal/mail"
	"github.com/sherdwhite/book-trader/internal/models"
	"github.com/sherdwhite/book-trader/internal/repository"
	"github.com/sherdwhite/book-trader/internal/traderrors"
	"github.com/sherdwhite/book-trader/utils"
)

// primaryDeviceName is the single designated verification channel per user.
const primaryDeviceName = "primary"

// challengeTTL is how long a verification code stays valid.
const challengeTTL = 10 * time.Minute

var verifiedEmailPoints = decimal.NewFromFloat(0.5)

// AuthService defines the business logic for registration, email
// verification and the login second factor.
type AuthService struct {
	store  repository.IdentityStore
	mailer mail.Mailer
	now    func() time.Time
}

// NewAuthService creates a new AuthService instance
func NewAuthService(store repository.IdentityStore, mailer mail.Mailer) *AuthService {
	return &AuthService{store: store, mailer: mailer, now: time.Now}
}

// Register creates a disabled account and emails a verification code. The
// caller holds the pending registration in session state until the code is
// verified; nothing on the account marks it as pending.
func (s *AuthService) Register(username, email, password, firstName string) (models.User, error) {
	if username == "" || email == "" || password == "" {
		return models.User{}, fmt.Errorf("service: %w - username, email and password are required",
			traderrors.ErrValidation)
	}

	user := models.User{
		Username:  username,
		Email:     email,
		FirstName: firstName,
		IsActive:  false,
	}
	if err := user.SetPassword(password); err != nil {
		return models.User{}, fmt.Errorf("service: failed to hash password: %w", err)
	}
	if err := s.store.CreateUser(&user); err != nil {
		return models.User{}, err
	}

	if err := s.issueChallenge(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// VerifyRegistration checks the emailed code and, on success, activates the
// account, confirms the device, marks the profile verified and credits the
// email verification reputation event. A wrong code changes nothing.
func (s *AuthService) VerifyRegistration(userID uint, code string) (models.User, error) {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return models.User{}, err
	}

	device, err := s.store.GetOrCreateDevice(user.ID, primaryDeviceName, user.Email)
	if err != nil {
		return models.User{}, err
	}
	if !device.TokenValid(code, s.now()) {
		return models.User{}, fmt.Errorf("service: %w", traderrors.ErrInvalidCode)
	}

	user.IsActive = true
	if err := s.store.SaveUser(&user); err != nil {
		return models.User{}, err
	}

	device.Confirmed = true
	device.Token = ""
	device.ValidUntil = nil
	if err := s.store.SaveDevice(&device); err != nil {
		return models.User{}, err
	}

	if err := s.markProfileVerified(user.ID); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// ResendRegistrationCode regenerates the challenge on the existing device and
// resends it. The same channel is reused; no duplicate device is created.
func (s *AuthService) ResendRegistrationCode(userID uint) error {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return err
	}
	return s.issueChallenge(&user)
}

// StartLogin checks credentials and, for active accounts, emails a login
// challenge. The caller is not authenticated until VerifyLogin succeeds.
// Bad username and bad password report the same error.
func (s *AuthService) StartLogin(username, password string) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, fmt.Errorf("service: %w", traderrors.ErrInvalidCredentials)
	}
	user, err := s.store.GetUserByUsername(username)
	if err != nil {
		return models.User{}, fmt.Errorf("service: %w", traderrors.ErrInvalidCredentials)
	}
	if err := user.CheckPassword(password); err != nil {
		return models.User{}, fmt.Errorf("service: %w", traderrors.ErrInvalidCredentials)
	}
	if !user.IsActive {
		return models.User{}, fmt.Errorf("service: %w", traderrors.ErrAccountInactive)
	}
	if user.Email == "" {
		return models.User{}, fmt.Errorf("service: %w", traderrors.ErrEmailMissing)
	}

	if err := s.issueChallenge(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// VerifyLogin checks the emailed second-factor code and returns the user on
// success. The outstanding challenge is consumed either way only on success.
func (s *AuthService) VerifyLogin(userID uint, code string) (models.User, error) {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return models.User{}, err
	}
	device, err := s.store.GetOrCreateDevice(user.ID, primaryDeviceName, user.Email)
	if err != nil {
		return models.User{}, err
	}
	if !device.TokenValid(code, s.now()) {
		return models.User{}, fmt.Errorf("service: %w", traderrors.ErrInvalidCode)
	}

	device.Token = ""
	device.ValidUntil = nil
	if !device.Confirmed {
		device.Confirmed = true
	}
	if err := s.store.SaveDevice(&device); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// issueChallenge generates a fresh code on the user's primary device and
// emails it. A delivery failure leaves the previous durable state in place
// and surfaces as ErrMailDelivery so the caller can retry.
func (s *AuthService) issueChallenge(user *models.User) error {
	device, err := s.store.GetOrCreateDevice(user.ID, primaryDeviceName, user.Email)
	if err != nil {
		return err
	}

	code, err := utils.GenerateVerificationCode()
	if err != nil {
		return fmt.Errorf("service: %w", err)
	}

	validUntil := s.now().Add(challengeTTL)
	device.Token = code
	device.ValidUntil = &validUntil
	if err := s.store.SaveDevice(&device); err != nil {
		return err
	}

	if err := s.mailer.SendVerificationCode(device.Email, code); err != nil {
		utils.Error("failed to deliver verification code", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
		return fmt.Errorf("service: %w: %w", traderrors.ErrMailDelivery, err)
	}
	return nil
}

// markProfileVerified flags the user's profile and appends the verified_email
// reputation event. The profile is created on the spot for fresh accounts.
func (s *AuthService) markProfileVerified(userID uint) error {
	profile, err := s.store.GetProfile(userID)
	if err != nil {
		if !errors.Is(err, traderrors.ErrNotFound) {
			return err
		}
		profile = models.UserProfile{
			UserID:          userID,
			Country:         "US",
			ReputationScore: decimal.NewFromFloat(5.0),
		}
	}
	profile.IsVerified = true
	if err := s.store.SaveProfile(&profile); err != nil {
		return err
	}

	event := models.UserReputation{
		UserID:         userID,
		ReputationType: models.ReputationVerifiedEmail,
		Points:         verifiedEmailPoints,
		Description:    "Email address verified",
	}
	return s.store.AppendReputation(&event)
}
