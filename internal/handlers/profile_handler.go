package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/anik-barua/devlink/backend/internal/models"
	"github.com/anik-barua/devlink/backend/internal/repositories"
	"github.com/anik-barua/devlink/backend/validators"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileHandler handles profile reads, upserts, sub-list edits and
// account deletion
type ProfileHandler struct {
	profileRepository repositories.ProfileRepository
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileRepo repositories.ProfileRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository) *ProfileHandler {
	return &ProfileHandler{
		profileRepository: profileRepo,
		postRepository:    postRepo,
		userRepository:    userRepo,
	}
}

// RegisterProfileRoutes registers profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(public, protected *echo.Group) {
	protected.GET("/profile/me", h.GetMyProfile)
	protected.POST("/profile", h.UpsertProfile)
	public.GET("/profile", h.GetProfiles)
	public.GET("/profile/user/:id", h.GetProfileByUserID)
	protected.DELETE("/profile", h.DeleteAccount)
	protected.PUT("/profile/experience", h.AddExperience)
	protected.DELETE("/profile/experience/:id", h.DeleteExperience)
	protected.PUT("/profile/education", h.AddEducation)
	protected.DELETE("/profile/education/:id", h.DeleteEducation)
}

// GetMyProfile returns the authenticated user's profile joined with
// their name and avatar
func (h *ProfileHandler) GetMyProfile(c echo.Context) error {
	claims := currentUser(c)

	profile, err := h.profileRepository.GetByUserID(c.Request().Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "No profile for this user")
		}
		return serverError(c, err)
	}

	user, err := h.userRepository.GetUserByID(claims.UserID)
	if err != nil {
		return serverError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"profile": profile,
		"name":    user.Name,
		"avatar":  user.Avatar,
	})
}

// UpsertProfile creates the authenticated user's profile or applies a
// partial update to it
func (h *ProfileHandler) UpsertProfile(c echo.Context) error {
	claims := currentUser(c)

	var req models.UpsertProfileRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, validators.Messages(err)...)
	}

	// Only present fields enter the update so prior values survive.
	// Social links use dotted paths for the same reason.
	fields := bson.M{
		"status": req.Status,
		"skills": parseSkills(req.Skills),
	}
	setIfPresent(fields, "company", req.Company)
	setIfPresent(fields, "website", req.Website)
	setIfPresent(fields, "location", req.Location)
	setIfPresent(fields, "bio", req.Bio)
	setIfPresent(fields, "githubusername", req.GithubUsername)
	setIfPresent(fields, "social.youtube", req.Youtube)
	setIfPresent(fields, "social.twitter", req.Twitter)
	setIfPresent(fields, "social.facebook", req.Facebook)
	setIfPresent(fields, "social.linkedin", req.Linkedin)
	setIfPresent(fields, "social.instagram", req.Instagram)

	profile, err := h.profileRepository.Upsert(c.Request().Context(), claims.UserID, fields)
	if err != nil {
		return serverError(c, err)
	}

	return c.JSON(http.StatusOK, profile)
}

// GetProfiles returns all profiles, each joined with the owner's name
// and avatar
func (h *ProfileHandler) GetProfiles(c echo.Context) error {
	profiles, err := h.profileRepository.GetAll(c.Request().Context())
	if err != nil {
		return serverError(c, err)
	}

	result := make([]echo.Map, 0, len(profiles))
	for i := range profiles {
		user, err := h.userRepository.GetUserByID(profiles[i].UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return serverError(c, err)
		}
		result = append(result, echo.Map{
			"profile": profiles[i],
			"name":    user.Name,
			"avatar":  user.Avatar,
		})
	}

	return c.JSON(http.StatusOK, result)
}

// GetProfileByUserID returns the profile owned by the given user
func (h *ProfileHandler) GetProfileByUserID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid user ID")
	}

	profile, err := h.profileRepository.GetByUserID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "No profile found for this user")
		}
		return serverError(c, err)
	}

	return c.JSON(http.StatusOK, profile)
}

// DeleteAccount removes the user's posts, then their profile, then the
// user record itself. Ordering ensures a partial failure never leaves a
// post or profile pointing at a deleted user.
func (h *ProfileHandler) DeleteAccount(c echo.Context) error {
	claims := currentUser(c)
	ctx := c.Request().Context()

	if err := h.postRepository.DeletePostsByUserID(ctx, claims.UserID); err != nil {
		return serverError(c, err)
	}
	if err := h.profileRepository.DeleteByUserID(ctx, claims.UserID); err != nil {
		return serverError(c, err)
	}
	if err := h.userRepository.DeleteUser(claims.UserID); err != nil {
		return serverError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"msg": "User deleted"})
}

// AddExperience prepends a work history entry to the user's profile
func (h *ProfileHandler) AddExperience(c echo.Context) error {
	claims := currentUser(c)

	var req models.AddExperienceRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, validators.Messages(err)...)
	}

	exp := models.Experience{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	}

	if err := h.profileRepository.AddExperience(c.Request().Context(), claims.UserID, exp); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "No profile for this user")
		}
		return serverError(c, err)
	}

	return h.respondWithProfile(c, claims.UserID)
}

// DeleteExperience removes a work history entry by its id
func (h *ProfileHandler) DeleteExperience(c echo.Context) error {
	claims := currentUser(c)

	err := h.profileRepository.RemoveExperience(c.Request().Context(), claims.UserID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "Experience not found")
		}
		return serverError(c, err)
	}

	return h.respondWithProfile(c, claims.UserID)
}

// AddEducation prepends a schooling entry to the user's profile
func (h *ProfileHandler) AddEducation(c echo.Context) error {
	claims := currentUser(c)

	var req models.AddEducationRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, validators.Messages(err)...)
	}

	edu := models.Education{
		ID:           primitive.NewObjectID(),
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	}

	if err := h.profileRepository.AddEducation(c.Request().Context(), claims.UserID, edu); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "No profile for this user")
		}
		return serverError(c, err)
	}

	return h.respondWithProfile(c, claims.UserID)
}

// DeleteEducation removes a schooling entry by its id
func (h *ProfileHandler) DeleteEducation(c echo.Context) error {
	claims := currentUser(c)

	err := h.profileRepository.RemoveEducation(c.Request().Context(), claims.UserID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "Education not found")
		}
		return serverError(c, err)
	}

	return h.respondWithProfile(c, claims.UserID)
}

func (h *ProfileHandler) respondWithProfile(c echo.Context, userID uint) error {
	profile, err := h.profileRepository.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// parseSkills normalizes a comma-separated skills string into a trimmed
// list, dropping empty segments
func parseSkills(skills string) []string {
	parts := strings.Split(skills, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setIfPresent(fields bson.M, key, value string) {
	if value != "" {
		fields[key] = value
	}
}
