package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/ferhatk/fizikcozum/auth"
	"github.com/ferhatk/fizikcozum/model"
	"github.com/ferhatk/fizikcozum/solver"
	"github.com/ferhatk/fizikcozum/store"
	"github.com/ferhatk/fizikcozum/util"
)

// The same message is returned for an unknown username and a wrong password
// so the login endpoint cannot be used to enumerate accounts.
const msgInvalidCredentials = "Invalid username or password"

type jsonHTTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Role        *string    `json:"role" validate:"omitempty,oneof=user admin"`
	Blocked     *bool      `json:"blocked"`
	BannedUntil *time.Time `json:"bannedUntil"`
	// Password is bound so that a client sending it gets it silently
	// stripped instead of merged. Credential rotation does not go through
	// the admin API.
	Password *string `json:"password"`
}

type userResponse struct {
	Message string           `json:"message"`
	User    model.PublicUser `json:"user"`
}

type loginResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

type userListResponse struct {
	Users []model.PublicUser `json:"users"`
}

// Register handler creates a new regular user account
func Register(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req credentialsRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, jsonHTTPResponse{false, "Bad post data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, jsonHTTPResponse{false, "Username and password are required"})
		}

		hash, err := util.HashPassword(req.Password)
		if err != nil {
			log.Error("Cannot hash password: ", err)
			return c.JSON(http.StatusInternalServerError, jsonHTTPResponse{false, "Registration failed"})
		}

		user, err := db.CreateUser(req.Username, hash)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateUsername) {
				return c.JSON(http.StatusBadRequest, jsonHTTPResponse{false, "This username is already taken"})
			}
			log.Error("Cannot create user: ", err)
			return c.JSON(http.StatusInternalServerError, jsonHTTPResponse{false, "Registration failed"})
		}

		log.Infof("Registered user: %s", user.Username)
		return c.JSON(http.StatusCreated, userResponse{
			Message: "User created successfully",
			User:    user.Public(),
		})
	}
}

// Login handler verifies the credentials and issues an identity token
func Login(db store.IStore, secret []byte) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req credentialsRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, jsonHTTPResponse{false, "Bad post data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, jsonHTTPResponse{false, "Username and password are required"})
		}

		user, err := db.GetUserByName(req.Username)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return c.JSON(http.StatusUnauthorized, jsonHTTPResponse{false, msgInvalidCredentials})
			}
			log.Error("Cannot fetch user: ", err)
			return c.JSON(http.StatusInternalServerError, jsonHTTPResponse{false, "Login failed"})
		}

		if user.Blocked {
			return c.JSON(http.StatusForbidden, jsonHTTPResponse{false, "Your account has been blocked"})
		}

		ok, err := util.VerifyHash(user.Password, req.Password)
		if err != nil {
			log.Error("Cannot verify password: ", err)
			return c.JSON(http.StatusInternalServerError, jsonHTTPResponse{false, "Login failed"})
		}
		if !ok {
			return c.JSON(http.StatusUnauthorized, jsonHTTPResponse{false, msgInvalidCredentials})
		}

		token, err := auth.GenerateToken(user.ID, user.Username, user.Role, secret, auth.TokenValidityDuration)
		if err != nil {
			log.Error("Cannot generate token: ", err)
			return c.JSON(http.StatusInternalServerError, jsonHTTPResponse{false, "Login failed"})
		}

		return c.JSON(http.StatusOK, loginResponse{
			Token: token,
			User:  user.Public(),
		})
	}
}

// SolveProblem handler forwards the question parts to the external model
func SolveProblem(s solver.Solver) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req model.SolveRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, jsonHTTPResponse{false, "Bad post data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, jsonHTTPResponse{false, "At least one question part is required"})
		}

		solution, err := s.Solve(c.Request().Context(), req.Parts)
		if err != nil {
			log.Error("Cannot solve problem: ", err)
			return c.JSON(http.StatusInternalServerError, jsonHTTPResponse{false, "Failed to solve the problem"})
		}

		return c.JSON(http.StatusOK, solution)
	}
}

// GetUsers handler returns the public projection of every user
func GetUsers(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := db.GetUsers()
		if err != nil {
			log.Error("Cannot fetch users: ", err)
			return c.JSON(http.StatusInternalServerError, jsonHTTPResponse{false, "Cannot fetch users"})
		}

		publicUsers := make([]model.PublicUser, 0, len(users))
		for _, user := range users {
			publicUsers = append(publicUsers, user.Public())
		}
		return c.JSON(http.StatusOK, userListResponse{Users: publicUsers})
	}
}

// UpdateUser handler merges the admin-editable fields into a user record
func UpdateUser(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req updateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, jsonHTTPResponse{false, "Bad post data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, jsonHTTPResponse{false, "Role must be either user or admin"})
		}

		user, err := db.UpdateUser(c.Param("id"), store.UserUpdate{
			Role:        req.Role,
			Blocked:     req.Blocked,
			BannedUntil: req.BannedUntil,
		})
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return c.JSON(http.StatusNotFound, jsonHTTPResponse{false, "User not found"})
			}
			log.Error("Cannot update user: ", err)
			return c.JSON(http.StatusInternalServerError, jsonHTTPResponse{false, "Cannot update user"})
		}

		log.Infof("Updated user: %s", user.Username)
		return c.JSON(http.StatusOK, userResponse{
			Message: "User updated",
			User:    user.Public(),
		})
	}
}

// RemoveUser handler deletes a user record. Admins cannot delete their own
// account through this endpoint.
func RemoveUser(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		if claims := CurrentUser(c); claims != nil && claims.ID == id {
			return c.JSON(http.StatusBadRequest, jsonHTTPResponse{false, "You cannot delete your own account"})
		}

		if err := db.DeleteUser(id); err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return c.JSON(http.StatusNotFound, jsonHTTPResponse{false, "User not found"})
			}
			log.Error("Cannot delete user: ", err)
			return c.JSON(http.StatusInternalServerError, jsonHTTPResponse{false, "Cannot delete user"})
		}

		log.Infof("Removed user: %s", id)
		return c.JSON(http.StatusOK, jsonHTTPResponse{true, "User deleted"})
	}
}
