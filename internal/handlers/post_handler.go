package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/anik-barua/devlink/backend/internal/models"
	"github.com/anik-barua/devlink/backend/internal/repositories"
	"github.com/anik-barua/devlink/backend/validators"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostHandler handles post creation, reads, likes and comments
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(protected *echo.Group) {
	protected.POST("/posts", h.CreatePost)
	protected.GET("/posts", h.GetPosts)
	protected.GET("/posts/:id", h.GetPost)
	protected.DELETE("/posts/:id", h.DeletePost)
	protected.PUT("/posts/like/:id", h.LikePost)
	protected.PUT("/posts/unlike/:id", h.UnlikePost)
	protected.POST("/posts/comment/:id", h.AddComment)
	protected.DELETE("/posts/comment/:id/:comment_id", h.DeleteComment)
}

// CreatePost creates a new post. The author's name and avatar are
// captured at creation time and not kept in sync with later profile
// edits.
func (h *PostHandler) CreatePost(c echo.Context) error {
	claims := currentUser(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, validators.Messages(err)...)
	}

	user, err := h.userRepository.GetUserByID(claims.UserID)
	if err != nil {
		return serverError(c, err)
	}

	post := &models.Post{
		UserID: user.ID,
		Text:   req.Text,
		Name:   user.Name,
		Avatar: user.Avatar,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return serverError(c, err)
	}

	return c.JSON(http.StatusOK, post)
}

// GetPosts retrieves all posts, newest first
func (h *PostHandler) GetPosts(c echo.Context) error {
	posts, err := h.postRepository.GetAllPosts(c.Request().Context())
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "Post not found")
		}
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post. Only the owner may delete it.
func (h *PostHandler) DeletePost(c echo.Context) error {
	claims := currentUser(c)
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "Post not found")
		}
		return serverError(c, err)
	}

	if post.UserID != claims.UserID {
		return errorJSON(c, http.StatusUnauthorized, "User not authorized")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return serverError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"msg": "Post removed"})
}

// LikePost prepends the requester to the post's likes list. Liking a
// post twice is rejected.
func (h *PostHandler) LikePost(c echo.Context) error {
	claims := currentUser(c)
	postID := c.Param("id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "Post not found")
		}
		return serverError(c, err)
	}

	if err := h.postRepository.LikePost(c.Request().Context(), postID, claims.UserID); err != nil {
		if errors.Is(err, repositories.ErrAlreadyLiked) {
			return errorJSON(c, http.StatusBadRequest, "Post already liked")
		}
		return serverError(c, err)
	}

	return h.respondWithLikes(c, postID)
}

// UnlikePost removes the requester from the post's likes list. Unliking
// a post that was never liked is rejected without mutating state.
func (h *PostHandler) UnlikePost(c echo.Context) error {
	claims := currentUser(c)
	postID := c.Param("id")

	if err := h.postRepository.UnlikePost(c.Request().Context(), postID, claims.UserID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return errorJSON(c, http.StatusNotFound, "Post not found")
		case errors.Is(err, repositories.ErrNotLiked):
			return errorJSON(c, http.StatusBadRequest, "Post has not yet been liked")
		default:
			return serverError(c, err)
		}
	}

	return h.respondWithLikes(c, postID)
}

// AddComment prepends a comment with the requester's name and avatar
// snapshot
func (h *PostHandler) AddComment(c echo.Context) error {
	claims := currentUser(c)
	postID := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, validators.Messages(err)...)
	}

	user, err := h.userRepository.GetUserByID(claims.UserID)
	if err != nil {
		return serverError(c, err)
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    user.ID,
		Text:      req.Text,
		Name:      user.Name,
		Avatar:    user.Avatar,
		CreatedAt: time.Now(),
	}

	if err := h.postRepository.AddComment(c.Request().Context(), postID, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "Post not found")
		}
		return serverError(c, err)
	}

	return h.respondWithComments(c, postID)
}

// DeleteComment removes a comment. Only the comment's author may remove
// it.
func (h *PostHandler) DeleteComment(c echo.Context) error {
	claims := currentUser(c)
	postID := c.Param("id")
	commentID := c.Param("comment_id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "Post not found")
		}
		return serverError(c, err)
	}

	var comment *models.Comment
	for i := range post.Comments {
		if post.Comments[i].ID.Hex() == commentID {
			comment = &post.Comments[i]
			break
		}
	}
	if comment == nil {
		return errorJSON(c, http.StatusNotFound, "Comment does not exist")
	}

	if comment.UserID != claims.UserID {
		return errorJSON(c, http.StatusUnauthorized, "User not authorized")
	}

	if err := h.postRepository.RemoveComment(c.Request().Context(), postID, commentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "Comment does not exist")
		}
		return serverError(c, err)
	}

	return h.respondWithComments(c, postID)
}

func (h *PostHandler) respondWithLikes(c echo.Context, postID string) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, post.Likes)
}

func (h *PostHandler) respondWithComments(c echo.Context, postID string) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, post.Comments)
}
