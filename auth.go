package main

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a pre-computed bcrypt hash used when a login username isn't found.
// Running bcrypt against it (instead of returning early) keeps response time
// constant, preventing timing-based username enumeration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// register creates a user and their profile and returns a fresh auth token.
// POST /api/register (public, no auth required).
func (h *Handler) register(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var body registerRequest
	if err := decodeValidated(registerSchema, raw, &body); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	if body.Password != body.ConfirmPassword {
		apiError(c, http.StatusBadRequest, "passwords do not match")
		return
	}
	username := strings.TrimSpace(body.Username)
	if len(username) < 3 {
		apiError(c, http.StatusBadRequest, "username must be at least 3 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.WithError(err).Error("hash password failed", nil)
		apiError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	p := body.Profile
	created, err := h.store.createUser(c.Request.Context(),
		user{
			Username:  username,
			Email:     strings.TrimSpace(body.Email),
			Password:  string(hash),
			AuthToken: uuid.New().String(),
		},
		userProfile{
			Sex:           p.Sex,
			Age:           p.Age,
			HeightCM:      p.HeightCM,
			WeightKG:      p.WeightKG,
			ActivityLevel: p.ActivityLevel,
			Goal:          p.Goal,
		})
	if errors.Is(err, errUsernameTaken) {
		apiError(c, http.StatusConflict, "username already taken")
		return
	}
	if err != nil {
		h.log.WithError(err).Error("create user failed", map[string]interface{}{"username": username})
		apiError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": created.AuthToken, "user_id": created.ID})
}

// login verifies username/password and returns the user's auth token.
// POST /api/login (public, no auth required).
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, lookupErr := h.store.userByUsername(c.Request.Context(), strings.TrimSpace(body.Username))

	// Always run bcrypt to keep response time constant regardless of whether the
	// username was found, which prevents timing-based username enumeration.
	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil {
		if !errors.Is(lookupErr, errNotFound) {
			h.log.WithError(lookupErr).Error("user lookup failed", nil)
		}
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if compareErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": u.AuthToken, "user_id": u.ID})
}

// authMiddleware validates the Bearer token and sets user_id on the context.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		userID, err := h.store.userIDByToken(c.Request.Context(), token)
		if err != nil {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
