package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/anik-barua/devlink/backend/internal/models"
	"github.com/anik-barua/devlink/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes so handler tests run without live databases.

type fakeUserRepo struct {
	nextID uint
	users  map[uint]*models.User
	tokens map[uint][]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		nextID: 1,
		users:  make(map[uint]*models.User),
		tokens: make(map[uint][]string),
	}
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	// Mirror the unique index on email
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrDuplicateKey
		}
	}
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) AddToken(userID uint, token string) error {
	r.tokens[userID] = append(r.tokens[userID], token)
	return nil
}

func (r *fakeUserRepo) DeleteUser(id uint) error {
	delete(r.users, id)
	delete(r.tokens, id)
	return nil
}

type fakeProfileRepo struct {
	profiles map[uint]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uint]*models.Profile)}
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID uint) (*models.Profile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return profile, nil
}

func (r *fakeProfileRepo) GetAll(_ context.Context) ([]models.Profile, error) {
	result := make([]models.Profile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		result = append(result, *profile)
	}
	return result, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, userID uint, fields bson.M) (*models.Profile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		profile = &models.Profile{
			ID:         primitive.NewObjectID(),
			UserID:     userID,
			Experience: []models.Experience{},
			Education:  []models.Education{},
			CreatedAt:  time.Now(),
		}
		r.profiles[userID] = profile
	}

	for key, value := range fields {
		switch key {
		case "status":
			profile.Status = value.(string)
		case "skills":
			profile.Skills = value.([]string)
		case "company":
			profile.Company = value.(string)
		case "website":
			profile.Website = value.(string)
		case "location":
			profile.Location = value.(string)
		case "bio":
			profile.Bio = value.(string)
		case "githubusername":
			profile.GithubUsername = value.(string)
		case "social.youtube":
			profile.Social.Youtube = value.(string)
		case "social.twitter":
			profile.Social.Twitter = value.(string)
		case "social.facebook":
			profile.Social.Facebook = value.(string)
		case "social.linkedin":
			profile.Social.Linkedin = value.(string)
		case "social.instagram":
			profile.Social.Instagram = value.(string)
		case "updated_at":
			profile.UpdatedAt = value.(time.Time)
		}
	}
	return profile, nil
}

func (r *fakeProfileRepo) AddExperience(_ context.Context, userID uint, exp models.Experience) error {
	profile, ok := r.profiles[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	profile.Experience = append([]models.Experience{exp}, profile.Experience...)
	return nil
}

func (r *fakeProfileRepo) RemoveExperience(_ context.Context, userID uint, id string) error {
	profile, ok := r.profiles[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	for i := range profile.Experience {
		if profile.Experience[i].ID.Hex() == id {
			profile.Experience = append(profile.Experience[:i], profile.Experience[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeProfileRepo) AddEducation(_ context.Context, userID uint, edu models.Education) error {
	profile, ok := r.profiles[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	profile.Education = append([]models.Education{edu}, profile.Education...)
	return nil
}

func (r *fakeProfileRepo) RemoveEducation(_ context.Context, userID uint, id string) error {
	profile, ok := r.profiles[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	for i := range profile.Education {
		if profile.Education[i].ID.Hex() == id {
			profile.Education = append(profile.Education[:i], profile.Education[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeProfileRepo) DeleteByUserID(_ context.Context, userID uint) error {
	delete(r.profiles, userID)
	return nil
}

type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	r.posts[post.ID.Hex()] = post
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return post, nil
}

func (r *fakePostRepo) GetAllPosts(_ context.Context) ([]models.Post, error) {
	result := make([]models.Post, 0, len(r.posts))
	for _, post := range r.posts {
		result = append(result, *post)
	}
	// Newest first, matching the Mongo repository's sort
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) DeletePostsByUserID(_ context.Context, userID uint) error {
	for id, post := range r.posts {
		if post.UserID == userID {
			delete(r.posts, id)
		}
	}
	return nil
}

func (r *fakePostRepo) LikePost(_ context.Context, id string, userID uint) error {
	post, ok := r.posts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for _, like := range post.Likes {
		if like.UserID == userID {
			return repositories.ErrAlreadyLiked
		}
	}
	post.Likes = append([]models.Like{{UserID: userID}}, post.Likes...)
	return nil
}

func (r *fakePostRepo) UnlikePost(_ context.Context, id string, userID uint) error {
	post, ok := r.posts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for i := range post.Likes {
		if post.Likes[i].UserID == userID {
			post.Likes = append(post.Likes[:i], post.Likes[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotLiked
}

func (r *fakePostRepo) AddComment(_ context.Context, id string, comment models.Comment) error {
	post, ok := r.posts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	post.Comments = append([]models.Comment{comment}, post.Comments...)
	return nil
}

func (r *fakePostRepo) RemoveComment(_ context.Context, id string, commentID string) error {
	post, ok := r.posts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for i := range post.Comments {
		if post.Comments[i].ID.Hex() == commentID {
			post.Comments = append(post.Comments[:i], post.Comments[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}
