package domain

import "errors"

var (
	MessageSuccessRegister      = "user registered successfully"
	MessageSuccessLogin         = "login success"
	MessageSuccessLogout        = "logout success"
	MessageSuccessGetUsers      = "success get users"
	MessageSuccessUpdateUser    = "user updated successfully"
	MessageSuccessSetPassword   = "password changed successfully"
	MessageFailedRegister       = "failed to register user"
	MessageFailedLogin          = "failed to login"
	MessageFailedLogout         = "failed to logout"
	MessageFailedGetUsers       = "failed to get users"
	MessageFailedUpdateUser     = "failed to update user"
	MessageFailedSetPassword    = "failed to change password"
	MessageWelcomeMailSubject   = "Welcome to Foodgram"
	MessageWelcomeMailBodyIntro = "Your account is ready. Start by publishing your first recipe."

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUsernameTaken      = errors.New("user with this username already exists")
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrWrongPassword      = errors.New("invalid password")
	ErrHashPassword       = errors.New("failed to hash password")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150,username"`
		FirstName string `json:"first_name" validate:"max=150"`
		LastName  string `json:"last_name" validate:"max=150"`
		Password  string `json:"password" validate:"required,max=72"`
	}

	RegisterResponse struct {
		Email     string `json:"email"`
		ID        uint   `json:"id"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	UpdateUserRequest struct {
		Username  *string `json:"username" validate:"omitempty,max=150,username"`
		FirstName *string `json:"first_name" validate:"omitempty,max=150"`
		LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AuthToken string `json:"auth_token"`
	}

	SetPasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,max=72"`
	}

	UserResponse struct {
		Email        string `json:"email"`
		ID           uint   `json:"id"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}
)
