package database

import (
	"context"

	"club-pulse/internal/models"

	"github.com/google/uuid"
)

// Store is the persistence contract the actors depend on. *MongoDB is the
// production implementation; tests swap in an in-memory one.
type Store interface {
	// Discussions
	SaveDiscussion(ctx context.Context, discussion *models.Discussion) error
	GetDiscussion(ctx context.Context, id uuid.UUID) (*models.Discussion, error)
	GetClubDiscussions(ctx context.Context, clubID string) ([]*models.Discussion, error)
	DeleteDiscussion(ctx context.Context, id uuid.UUID) error

	// Communities
	SaveCommunity(ctx context.Context, community *models.Community) error
	GetCommunity(ctx context.Context, id uuid.UUID) (*models.Community, error)
	GetClubCommunities(ctx context.Context, clubID string) ([]*models.Community, error)
	GetCommunitiesAdministeredBy(ctx context.Context, userID uuid.UUID) ([]*models.Community, error)

	// Community posts
	SaveCommunityPost(ctx context.Context, post *models.CommunityPost) error
	GetCommunityPost(ctx context.Context, id uuid.UUID) (*models.CommunityPost, error)
	GetCommunityPosts(ctx context.Context, communityID uuid.UUID) ([]*models.CommunityPost, error)
	DeleteCommunityPost(ctx context.Context, id uuid.UUID) error

	// Users
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByPhoneNumber(ctx context.Context, phoneNumber string) (*models.User, error)
	UpdateUserActivity(ctx context.Context, id uuid.UUID) error
}

var _ Store = (*MongoDB)(nil)
