package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	auth "github.com/sherdwhite/book-trader/internal/authService"
	"github.com/sherdwhite/book-trader/internal/models"
	"github.com/sherdwhite/book-trader/internal/traderrors"
	"github.com/sherdwhite/book-trader/services/marketplace/helpers"
	"github.com/sherdwhite/book-trader/utils"
)

type AuthServiceInterface interface {
	Register(username, email, password, firstName string) (models.User, error)
	VerifyRegistration(userID uint, code string) (models.User, error)
	ResendRegistrationCode(userID uint) error
	StartLogin(username, password string) (models.User, error)
	VerifyLogin(userID uint, code string) (models.User, error)

	CreateUser(username, email, password, firstName string) (models.User, error)
	ListUsers() ([]models.User, error)
	GetUser(id uint) (models.User, error)
	UpdateUser(id uint, email, firstName, password *string) (models.User, error)
	DeleteUser(id uint) error
	GetProfile(userID uint) (models.UserProfile, error)
	ListReputation(userID uint) ([]models.UserReputation, error)
}

type AuthHandler struct {
	service AuthServiceInterface
}

func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterHandler handles POST /auth/register. The account is created
// disabled; the session remembers the pending registration until the emailed
// code is verified.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req helpers.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	user, err := h.service.Register(req.Username, req.Email, req.Password, req.FirstName)
	if err != nil {
		helpers.RespondError(c, "RegisterHandler", err)
		return
	}

	session := sessions.Default(c)
	auth.SetPendingFlow(session, auth.PendingFlow{
		Kind:   auth.FlowRegistration,
		UserID: user.ID,
		Email:  user.Email,
	})
	if err := session.Save(); err != nil {
		helpers.RespondError(c, "RegisterHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, user, "verification code sent")
	helpers.LogSuccess("RegisterHandler", "registration started", map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// VerifyRegistrationHandler handles POST /auth/register/verify. The pending
// registration lives in the session; submitting a code without one is treated
// as an expired session, not an invalid code.
func (h *AuthHandler) VerifyRegistrationHandler(c *gin.Context) {
	var req helpers.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "VerifyRegistrationHandler", err)
		return
	}

	session := sessions.Default(c)
	flow := auth.GetPendingFlow(session)
	if flow.Kind != auth.FlowRegistration {
		helpers.RespondError(c, "VerifyRegistrationHandler", traderrors.ErrSessionExpired)
		return
	}

	user, err := h.service.VerifyRegistration(flow.UserID, req.Code)
	if err != nil {
		helpers.RespondError(c, "VerifyRegistrationHandler", err)
		return
	}

	auth.ClearPendingFlow(session)
	auth.Authenticate(session, user.ID)
	if err := session.Save(); err != nil {
		helpers.RespondError(c, "VerifyRegistrationHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, user, "account verified successfully")
	helpers.LogSuccess("VerifyRegistrationHandler", "account verified successfully", map[string]any{
		"user_id": user.ID,
	})
}

// ResendCodeHandler handles POST /auth/register/resend. A fresh code replaces
// the previous one on the same device.
func (h *AuthHandler) ResendCodeHandler(c *gin.Context) {
	session := sessions.Default(c)
	flow := auth.GetPendingFlow(session)
	if flow.Kind != auth.FlowRegistration {
		helpers.RespondError(c, "ResendCodeHandler", traderrors.ErrSessionExpired)
		return
	}

	if err := h.service.ResendRegistrationCode(flow.UserID); err != nil {
		helpers.RespondError(c, "ResendCodeHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, nil, "verification code sent")
}

// LoginHandler handles POST /auth/login. Correct credentials do not sign the
// caller in; they start the second factor and email a fresh code.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req helpers.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	user, err := h.service.StartLogin(req.Username, req.Password)
	if err != nil {
		helpers.RespondError(c, "LoginHandler", err)
		return
	}

	session := sessions.Default(c)
	auth.SetPendingFlow(session, auth.PendingFlow{
		Kind:   auth.FlowLogin,
		UserID: user.ID,
	})
	if err := session.Save(); err != nil {
		helpers.RespondError(c, "LoginHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "verification code sent")
	helpers.LogSuccess("LoginHandler", "login challenge issued", map[string]any{
		"user_id": user.ID,
	})
}

// VerifyLoginHandler handles POST /auth/login/verify and completes the second
// factor.
func (h *AuthHandler) VerifyLoginHandler(c *gin.Context) {
	var req helpers.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "VerifyLoginHandler", err)
		return
	}

	session := sessions.Default(c)
	flow := auth.GetPendingFlow(session)
	if flow.Kind != auth.FlowLogin {
		helpers.RespondError(c, "VerifyLoginHandler", traderrors.ErrSessionExpired)
		return
	}

	user, err := h.service.VerifyLogin(flow.UserID, req.Code)
	if err != nil {
		helpers.RespondError(c, "VerifyLoginHandler", err)
		return
	}

	auth.ClearPendingFlow(session)
	auth.Authenticate(session, user.ID)
	if err := session.Save(); err != nil {
		helpers.RespondError(c, "VerifyLoginHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, user, "logged in successfully")
	helpers.LogSuccess("VerifyLoginHandler", "login completed", map[string]any{
		"user_id": user.ID,
	})
}

// LogoutHandler handles POST /auth/logout
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	session := sessions.Default(c)
	auth.Logout(session)
	if err := session.Save(); err != nil {
		helpers.RespondError(c, "LogoutHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, nil, "logged out successfully")
}

// CreateUserHandler handles POST /users. Unlike registration, the account is
// usable right away and no verification code is sent.
func (h *AuthHandler) CreateUserHandler(c *gin.Context) {
	var req helpers.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateUserHandler", err)
		return
	}

	user, err := h.service.CreateUser(req.Username, req.Email, req.Password, req.FirstName)
	if err != nil {
		helpers.RespondError(c, "CreateUserHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, user, "user created successfully")
	helpers.LogSuccess("CreateUserHandler", "user created successfully", map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// ListUsersHandler handles GET /users
func (h *AuthHandler) ListUsersHandler(c *gin.Context) {
	users, err := h.service.ListUsers()
	if err != nil {
		helpers.RespondError(c, "ListUsersHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, users, "users retrieved successfully")
}

// GetUserHandler handles GET /users/:id
func (h *AuthHandler) GetUserHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.service.GetUser(id)
	if err != nil {
		helpers.RespondError(c, "GetUserHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, user, "user retrieved successfully")
}

// UpdateUserHandler handles PUT and PATCH /users/:id
func (h *AuthHandler) UpdateUserHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req helpers.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateUserHandler", err)
		return
	}

	user, err := h.service.UpdateUser(id, req.Email, req.FirstName, req.Password)
	if err != nil {
		helpers.RespondError(c, "UpdateUserHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, user, "user updated successfully")
}

// DeleteUserHandler handles DELETE /users/:id
func (h *AuthHandler) DeleteUserHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteUser(id); err != nil {
		helpers.RespondError(c, "DeleteUserHandler", err)
		return
	}
	utils.NoContent(c)
}

// GetProfileHandler handles GET /users/:id/profile
func (h *AuthHandler) GetProfileHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	profile, err := h.service.GetProfile(id)
	if err != nil {
		helpers.RespondError(c, "GetProfileHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, profile, "profile retrieved successfully")
}

// ListReputationHandler handles GET /users/:id/reputation
func (h *AuthHandler) ListReputationHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	events, err := h.service.ListReputation(id)
	if err != nil {
		helpers.RespondError(c, "ListReputationHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, events, "reputation history retrieved successfully")
}
