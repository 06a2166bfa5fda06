package database

import (
	"context"
	"fmt"
	"time"

	"club-pulse/internal/models"
	"club-pulse/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostCommentDocument mirrors models.PostComment in MongoDB.
type PostCommentDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	Name      string    `bson:"name"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"createdAt"`
}

// CommunityPostDocument represents community post data in MongoDB.
type CommunityPostDocument struct {
	ID          string                `bson:"_id"`
	CommunityID string                `bson:"communityId"`
	Author      UserRefDocument       `bson:"author"`
	Content     string                `bson:"content"`
	Image       *string               `bson:"image,omitempty"`
	Likes       []UserRefDocument     `bson:"likes"`
	Comments    []PostCommentDocument `bson:"comments"`
	CreatedAt   time.Time             `bson:"createdAt"`
	Version     int64                 `bson:"version"`
}

// SaveCommunityPost persists the post with the standard version guard.
func (m *MongoDB) SaveCommunityPost(ctx context.Context, post *models.CommunityPost) error {
	expected := post.Version
	doc := communityPostToDocument(post)
	doc.Version = expected + 1

	if expected == 0 {
		if _, err := m.CommunityPosts.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return utils.NewVersionConflictError("community post")
			}
			return utils.NewAppError(utils.ErrDatabase, "failed to insert community post", err)
		}
		post.Version = doc.Version
		return nil
	}

	filter := bson.M{"_id": doc.ID, "version": expected}
	result, err := m.CommunityPosts.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save community post", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewVersionConflictError("community post")
	}

	post.Version = doc.Version
	return nil
}

// GetCommunityPost retrieves a post by ID.
func (m *MongoDB) GetCommunityPost(ctx context.Context, id uuid.UUID) (*models.CommunityPost, error) {
	var doc CommunityPostDocument
	err := m.CommunityPosts.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "community post not found", nil)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get community post", err)
	}

	return documentToCommunityPost(&doc)
}

// GetCommunityPosts retrieves the posts of a community, newest first.
func (m *MongoDB) GetCommunityPosts(ctx context.Context, communityID uuid.UUID) ([]*models.CommunityPost, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.CommunityPosts.Find(ctx, bson.M{"communityId": communityID.String()}, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to list community posts", err)
	}
	defer cursor.Close(ctx)

	var posts []*models.CommunityPost
	for cursor.Next(ctx) {
		var doc CommunityPostDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "failed to decode community post", err)
		}
		post, err := documentToCommunityPost(&doc)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "cursor error", err)
	}

	return posts, nil
}

// DeleteCommunityPost removes a post by ID.
func (m *MongoDB) DeleteCommunityPost(ctx context.Context, id uuid.UUID) error {
	result, err := m.CommunityPosts.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete community post", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewAppError(utils.ErrNotFound, "community post not found", nil)
	}
	return nil
}

func communityPostToDocument(p *models.CommunityPost) *CommunityPostDocument {
	comments := make([]PostCommentDocument, len(p.Comments))
	for i, c := range p.Comments {
		comments[i] = PostCommentDocument{
			ID:        c.ID.String(),
			UserID:    c.UserID.String(),
			Name:      c.Name,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		}
	}

	return &CommunityPostDocument{
		ID:          p.ID.String(),
		CommunityID: p.CommunityID.String(),
		Author:      UserRefDocument{UserID: p.Author.UserID.String(), Name: p.Author.Name},
		Content:     p.Content,
		Image:       p.Image,
		Likes:       refsToDocuments(p.Likes),
		Comments:    comments,
		CreatedAt:   p.CreatedAt,
		Version:     p.Version,
	}
}

func documentToCommunityPost(doc *CommunityPostDocument) (*models.CommunityPost, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID in database: %v", err)
	}
	communityID, err := uuid.Parse(doc.CommunityID)
	if err != nil {
		return nil, fmt.Errorf("invalid community ID in database: %v", err)
	}
	authorID, err := uuid.Parse(doc.Author.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID in database: %v", err)
	}
	likes, err := documentsToRefs(doc.Likes)
	if err != nil {
		return nil, err
	}

	comments := make([]models.PostComment, len(doc.Comments))
	for i, c := range doc.Comments {
		commentID, err := uuid.Parse(c.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid post comment ID in database: %v", err)
		}
		userID, err := uuid.Parse(c.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid post comment author ID in database: %v", err)
		}
		comments[i] = models.PostComment{
			ID:        commentID,
			UserID:    userID,
			Name:      c.Name,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		}
	}

	return &models.CommunityPost{
		ID:          id,
		CommunityID: communityID,
		Author:      models.UserRef{UserID: authorID, Name: doc.Author.Name},
		Content:     doc.Content,
		Image:       doc.Image,
		Likes:       likes,
		Comments:    comments,
		CreatedAt:   doc.CreatedAt,
		Version:     doc.Version,
	}, nil
}
