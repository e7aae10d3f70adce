// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"roster/internal/delivery/http/response"
	"roster/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Credential-bearing request headers. Administrative operations read the
// admin pair; self-service operations read the plain pair.
const (
	HeaderAdminLogin    = "Admin-Login"
	HeaderAdminPassword = "Admin-Password"
	HeaderLogin         = "Login"
	HeaderPassword      = "Password"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

func adminCredentials(c echo.Context) usecase.Credentials {
	return usecase.Credentials{
		Login:    c.Request().Header.Get(HeaderAdminLogin),
		Password: c.Request().Header.Get(HeaderAdminPassword),
	}
}

func callerCredentials(c echo.Context) usecase.Credentials {
	return usecase.Credentials{
		Login:    c.Request().Header.Get(HeaderLogin),
		Password: c.Request().Header.Get(HeaderPassword),
	}
}

func accountIDParam(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}

// Create handles the admin request to register a new account.
func (h *AccountHandler) Create(c echo.Context) error {
	var input usecase.CreateAccountInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid account creation input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.CreateAccount(c.Request().Context(), adminCredentials(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "Account created successfully")
}

// UpdatePersonalInfo handles the request to replace name, gender and birthday.
func (h *AccountHandler) UpdatePersonalInfo(c echo.Context) error {
	accountID, ok := accountIDParam(c)
	if !ok {
		return response.BindingError(c, "INVALID_INPUT", "Invalid account id")
	}

	var input usecase.UpdatePersonalInfoInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid personal info input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.UpdatePersonalInfo(c.Request().Context(), callerCredentials(c), accountID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Personal info updated successfully")
}

// UpdatePassword handles the request to replace the account's password.
func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	accountID, ok := accountIDParam(c)
	if !ok {
		return response.BindingError(c, "INVALID_INPUT", "Invalid account id")
	}

	var input usecase.UpdatePasswordInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.UpdatePassword(c.Request().Context(), callerCredentials(c), accountID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Password updated successfully")
}

// UpdateLogin handles the request to replace the account's login.
func (h *AccountHandler) UpdateLogin(c echo.Context) error {
	accountID, ok := accountIDParam(c)
	if !ok {
		return response.BindingError(c, "INVALID_INPUT", "Invalid account id")
	}

	var input usecase.UpdateLoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.UpdateLogin(c.Request().Context(), callerCredentials(c), accountID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login updated successfully")
}

// ListActive handles the admin request for all active accounts.
func (h *AccountHandler) ListActive(c echo.Context) error {
	outputs, err := h.uc.ListActiveAccounts(c.Request().Context(), adminCredentials(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, outputs, "Active accounts retrieved successfully")
}

// GetByLogin handles the admin request for one account's reduced projection.
func (h *AccountHandler) GetByLogin(c echo.Context) error {
	login := c.Param("login")
	if login == "" {
		return response.BindingError(c, "INVALID_INPUT", "Login is required")
	}

	output, err := h.uc.GetAccountByLogin(c.Request().Context(), adminCredentials(c), login)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Account retrieved successfully")
}

// ListByMinAge handles the admin request for accounts at least minAge years old.
func (h *AccountHandler) ListByMinAge(c echo.Context) error {
	minAge, err := strconv.Atoi(c.Param("minAge"))
	if err != nil || minAge < 0 {
		return response.BindingError(c, "INVALID_INPUT", "Minimum age must be a non-negative integer")
	}

	outputs, err := h.uc.ListAccountsByMinAge(c.Request().Context(), adminCredentials(c), minAge)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, outputs, "Accounts retrieved successfully")
}

// Authenticate handles the anonymous credential check. Credentials that do not
// resolve to an active account yield a 401 without detail.
func (h *AccountHandler) Authenticate(c echo.Context) error {
	var input usecase.AuthenticateInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid authentication input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Authenticate(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}
	if output == nil {
		return response.Unauthorized(c, "INVALID_CREDENTIALS", "Authentication failed")
	}

	return response.Success(c, http.StatusOK, output, "Authentication successful")
}

// Delete handles the admin request to deactivate or permanently remove an
// account. The soft query parameter selects deactivation; it defaults to true.
func (h *AccountHandler) Delete(c echo.Context) error {
	login := c.Param("login")
	if login == "" {
		return response.BindingError(c, "INVALID_INPUT", "Login is required")
	}

	soft := true
	if raw := c.QueryParam("soft"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return response.BindingError(c, "INVALID_INPUT", "The soft parameter must be a boolean")
		}
		soft = parsed
	}

	if err := h.uc.DeleteAccount(c.Request().Context(), adminCredentials(c), login, soft); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"login": login}, "Account deleted successfully")
}

// Restore handles the admin request to reactivate a soft-deleted account.
func (h *AccountHandler) Restore(c echo.Context) error {
	login := c.Param("login")
	if login == "" {
		return response.BindingError(c, "INVALID_INPUT", "Login is required")
	}

	output, err := h.uc.RestoreAccount(c.Request().Context(), adminCredentials(c), login)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Account restored successfully")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
