package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	delivctx "lookmarket/internal/delivery/context"
	"lookmarket/internal/delivery/http/response"
	"lookmarket/internal/domain/entity"
	domainerrors "lookmarket/internal/domain/errors"
	"lookmarket/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	accountUC usecase.AccountUsecase
	logger    *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(accountUC usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUC: accountUC,
		logger:    logger,
	}
}

// RegisterRequest is the account registration payload. Role is optional and
// defaults to CUSTOMER; SELLER can self-register, ADMIN cannot.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"displayName" validate:"required,min=1,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=30"`
	Role        string `json:"role" validate:"omitempty,oneof=CUSTOMER SELLER"`
}

// ChangeEmailRequest is the email change payload.
type ChangeEmailRequest struct {
	NewEmail string `json:"newEmail" validate:"required,email"`
}

// ChangePasswordRequest is the password change payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// AccountResponse is the public view of an account. The password hash never
// leaves the service.
type AccountResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toAccountResponse(account *entity.Account) *AccountResponse {
	return &AccountResponse{
		ID:          account.ID().String(),
		Email:       account.Email(),
		DisplayName: account.DisplayName(),
		PhoneNumber: account.PhoneNumber(),
		Role:        account.Role().String(),
		Status:      account.Status().String(),
		CreatedAt:   account.CreatedAt(),
		UpdatedAt:   account.UpdatedAt(),
	}
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var input RegisterRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	account, err := h.accountUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
		PhoneNumber: input.PhoneNumber,
		Role:        entity.Role(input.Role),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toAccountResponse(account), "Account registered successfully")
}

// Me returns the authenticated caller's own account.
func (h *AccountHandler) Me(c echo.Context) error {
	principal, ok := delivctx.GetPrincipal(c.Request().Context())
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	account, err := h.accountUC.GetByID(c.Request().Context(), principal.AccountID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountResponse(account), "")
}

// ChangeEmail updates the caller's own email address.
func (h *AccountHandler) ChangeEmail(c echo.Context) error {
	principal, ok := delivctx.GetPrincipal(c.Request().Context())
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	var input ChangeEmailRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid email change input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	account, err := h.accountUC.ChangeEmail(c.Request().Context(), &usecase.ChangeEmailInput{
		AccountID: principal.AccountID,
		NewEmail:  input.NewEmail,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountResponse(account), "Email updated successfully")
}

// ChangePassword updates the caller's own password after re-verifying the
// current one.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	principal, ok := delivctx.GetPrincipal(c.Request().Context())
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	var input ChangePasswordRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password change input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	account, err := h.accountUC.ChangePassword(c.Request().Context(), &usecase.ChangePasswordInput{
		AccountID:       principal.AccountID,
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountResponse(account), "Password updated successfully")
}

// Activate transitions the target account to ACTIVE. Admin only.
func (h *AccountHandler) Activate(c echo.Context) error {
	return h.transition(c, h.accountUC.Activate, "Account activated")
}

// Suspend transitions the target account to SUSPENDED. Admin only.
func (h *AccountHandler) Suspend(c echo.Context) error {
	return h.transition(c, h.accountUC.Suspend, "Account suspended")
}

// Deactivate transitions the target account to INACTIVE. Admin only.
func (h *AccountHandler) Deactivate(c echo.Context) error {
	return h.transition(c, h.accountUC.Deactivate, "Account deactivated")
}

func (h *AccountHandler) transition(
	c echo.Context,
	op func(ctx context.Context, accountID uuid.UUID) (*entity.Account, error),
	message string,
) error {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("account id must be a UUID")
	}

	account, err := op(c.Request().Context(), accountID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountResponse(account), message)
}
