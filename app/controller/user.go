package controller

import (
	"errors"
	"net/http"

	dto "github.com/mzdehbashi-github/ableton-challenge/app/dto/http"
	"github.com/mzdehbashi-github/ableton-challenge/app/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type UserController struct {
	accountService service.AccountService
	validate       *validator.Validate
}

func NewUserController(accountService service.AccountService) *UserController {
	return &UserController{
		accountService: accountService,
		validate:       validator.New(),
	}
}

func (c *UserController) Signup(ctx echo.Context) error {
	var req dto.SignupRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.validate.Struct(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "a valid email and a password are required"})
	}

	user, err := c.accountService.Signup(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
		}
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusCreated, dto.SignupResponse{
		UserID:   user.ID,
		Email:    user.Email,
		IsActive: user.IsActive,
		Message:  "signup successful, please confirm your email",
	})
}

func (c *UserController) Login(ctx echo.Context) error {
	var req dto.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.validate.Struct(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "a valid email and a password are required"})
	}

	result, err := c.accountService.Login(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			return ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})
		}
		// Covers both inactive variants; the error message carries the
		// distinction.
		if errors.Is(err, service.ErrUserNotActive) {
			return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
		}
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, dto.LoginResponse{
		UserID: result.User.ID,
		Email:  result.User.Email,
		Token:  result.Token,
	})
}

func (c *UserController) ResendEmailConfirmation(ctx echo.Context) error {
	var req dto.ResendEmailConfirmationRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.validate.Struct(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "a valid email is required"})
	}

	// The success body is identical whether or not the email is registered.
	if _, err := c.accountService.ResendConfirmation(ctx.Request().Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrAlreadyConfirmed) {
			return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
		}
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, dto.ResendEmailConfirmationResponse{
		Message: "confirmation email sent",
	})
}

func (c *UserController) ConfirmEmail(ctx echo.Context) error {
	var req dto.ConfirmEmailRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.validate.Struct(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "a valid email and a 5-digit code are required"})
	}

	user, err := c.accountService.ConfirmEmail(ctx.Request().Context(), req.Email, req.Code)
	if err != nil {
		if errors.Is(err, service.ErrCannotConfirm) || errors.Is(err, service.ErrAlreadyConfirmed) {
			return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
		}
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, dto.ConfirmEmailResponse{
		UserID:   user.ID,
		Email:    user.Email,
		IsActive: user.IsActive,
		Message:  "email confirmed successfully",
	})
}

func (c *UserController) Me(ctx echo.Context) error {
	userID, ok := ctx.Get("user_id").(uint64)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
	}

	user, err := c.accountService.Get(ctx.Request().Context(), userID)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
	if user == nil {
		return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found"})
	}

	return ctx.JSON(http.StatusOK, dto.MeResponse{
		UserID:   user.ID,
		Email:    user.Email,
		IsActive: user.IsActive,
	})
}
