package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// loadProfile fetches the authenticated user's profile, writing the error
// response itself when it fails.
func (h *Handler) loadProfile(c *gin.Context) (userProfile, bool) {
	userID := c.GetInt("user_id")
	p, err := h.store.profile(c.Request.Context(), userID)
	if errors.Is(err, errNotFound) {
		apiError(c, http.StatusNotFound, "profile not found")
		return userProfile{}, false
	}
	if err != nil {
		h.log.WithError(err).Error("load profile failed", map[string]interface{}{"user_id": userID})
		apiError(c, http.StatusInternalServerError, "failed to load profile")
		return userProfile{}, false
	}
	return p, true
}

// getProfile returns the stored profile for the authenticated user.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	p, ok := h.loadProfile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p)
}

// patchProfile updates only the provided profile fields.
// PATCH /api/profile. The body is checked against patchProfileSchema, so
// unknown fields and out-of-range values are rejected before touching the DB.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	var body patchProfileRequest
	if err := decodeValidated(patchProfileSchema, raw, &body); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.store.updateProfile(c.Request.Context(), userID, body)
	switch {
	case errors.Is(err, errNoFields):
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	case errors.Is(err, errNotFound):
		apiError(c, http.StatusNotFound, "profile not found")
		return
	case err != nil:
		h.log.WithError(err).Error("update profile failed", map[string]interface{}{"user_id": userID})
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, p)
}
