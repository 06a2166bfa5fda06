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

// UserRefDocument mirrors models.UserRef in MongoDB.
type UserRefDocument struct {
	UserID string `bson:"userId"`
	Name   string `bson:"name"`
}

// ThreadNodeDocument represents one comment/reply node. Replies nest as
// subdocuments, so the whole forest lives inside the discussion document.
type ThreadNodeDocument struct {
	ID        string               `bson:"_id"`
	UserID    string               `bson:"userId"`
	Name      string               `bson:"name"`
	Content   string               `bson:"content"`
	CreatedAt time.Time            `bson:"createdAt"`
	Likes     []UserRefDocument    `bson:"likes"`
	Replies   []ThreadNodeDocument `bson:"replies"`
}

// DiscussionDocument represents discussion data in MongoDB.
type DiscussionDocument struct {
	ID        string               `bson:"_id"`
	ClubID    string               `bson:"clubId"`
	Title     string               `bson:"title"`
	Content   string               `bson:"content"`
	Image     *string              `bson:"image,omitempty"`
	Author    UserRefDocument      `bson:"author"`
	Likes     []UserRefDocument    `bson:"likes"`
	Comments  []ThreadNodeDocument `bson:"comments"`
	CreatedAt time.Time            `bson:"createdAt"`
	Version   int64                `bson:"version"`
}

// SaveDiscussion persists the whole aggregate. A fresh aggregate (version 0)
// is inserted; anything else must match the stored version, which the write
// bumps by one. A mismatch means someone else wrote in between and surfaces
// as VERSION_CONFLICT rather than silently losing their update.
func (m *MongoDB) SaveDiscussion(ctx context.Context, discussion *models.Discussion) error {
	expected := discussion.Version
	doc := discussionToDocument(discussion)
	doc.Version = expected + 1

	if expected == 0 {
		if _, err := m.Discussions.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return utils.NewVersionConflictError("discussion")
			}
			return utils.NewAppError(utils.ErrDatabase, "failed to insert discussion", err)
		}
		discussion.Version = doc.Version
		return nil
	}

	filter := bson.M{"_id": doc.ID, "version": expected}
	result, err := m.Discussions.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save discussion", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewVersionConflictError("discussion")
	}

	discussion.Version = doc.Version
	return nil
}

// GetDiscussion retrieves a discussion by ID.
func (m *MongoDB) GetDiscussion(ctx context.Context, id uuid.UUID) (*models.Discussion, error) {
	var doc DiscussionDocument
	err := m.Discussions.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewDiscussionNotFoundError(id.String())
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get discussion", err)
	}

	return documentToDiscussion(&doc)
}

// GetClubDiscussions retrieves all discussions for a club, newest first.
func (m *MongoDB) GetClubDiscussions(ctx context.Context, clubID string) ([]*models.Discussion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.Discussions.Find(ctx, bson.M{"clubId": clubID}, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to list discussions", err)
	}
	defer cursor.Close(ctx)

	var discussions []*models.Discussion
	for cursor.Next(ctx) {
		var doc DiscussionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "failed to decode discussion", err)
		}
		discussion, err := documentToDiscussion(&doc)
		if err != nil {
			return nil, err
		}
		discussions = append(discussions, discussion)
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "cursor error", err)
	}

	return discussions, nil
}

// DeleteDiscussion removes the whole aggregate, comment forest included.
func (m *MongoDB) DeleteDiscussion(ctx context.Context, id uuid.UUID) error {
	result, err := m.Discussions.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete discussion", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewDiscussionNotFoundError(id.String())
	}
	return nil
}

func discussionToDocument(d *models.Discussion) *DiscussionDocument {
	return &DiscussionDocument{
		ID:        d.ID.String(),
		ClubID:    d.ClubID,
		Title:     d.Title,
		Content:   d.Content,
		Image:     d.Image,
		Author:    UserRefDocument{UserID: d.Author.UserID.String(), Name: d.Author.Name},
		Likes:     refsToDocuments(d.Likes),
		Comments:  nodesToDocuments(d.Comments),
		CreatedAt: d.CreatedAt,
		Version:   d.Version,
	}
}

func documentToDiscussion(doc *DiscussionDocument) (*models.Discussion, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid discussion ID in database: %v", err)
	}
	authorID, err := uuid.Parse(doc.Author.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID in database: %v", err)
	}
	likes, err := documentsToRefs(doc.Likes)
	if err != nil {
		return nil, err
	}
	comments, err := documentsToNodes(doc.Comments)
	if err != nil {
		return nil, err
	}

	return &models.Discussion{
		ID:        id,
		ClubID:    doc.ClubID,
		Title:     doc.Title,
		Content:   doc.Content,
		Image:     doc.Image,
		Author:    models.UserRef{UserID: authorID, Name: doc.Author.Name},
		Likes:     likes,
		Comments:  comments,
		CreatedAt: doc.CreatedAt,
		Version:   doc.Version,
	}, nil
}

func refsToDocuments(refs []models.UserRef) []UserRefDocument {
	docs := make([]UserRefDocument, len(refs))
	for i, ref := range refs {
		docs[i] = UserRefDocument{UserID: ref.UserID.String(), Name: ref.Name}
	}
	return docs
}

func documentsToRefs(docs []UserRefDocument) ([]models.UserRef, error) {
	refs := make([]models.UserRef, len(docs))
	for i, doc := range docs {
		userID, err := uuid.Parse(doc.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID in database: %v", err)
		}
		refs[i] = models.UserRef{UserID: userID, Name: doc.Name}
	}
	return refs, nil
}

func nodesToDocuments(nodes []models.ThreadNode) []ThreadNodeDocument {
	docs := make([]ThreadNodeDocument, len(nodes))
	for i, node := range nodes {
		docs[i] = ThreadNodeDocument{
			ID:        node.ID.String(),
			UserID:    node.UserID.String(),
			Name:      node.Name,
			Content:   node.Content,
			CreatedAt: node.CreatedAt,
			Likes:     refsToDocuments(node.Likes),
			Replies:   nodesToDocuments(node.Replies),
		}
	}
	return docs
}

func documentsToNodes(docs []ThreadNodeDocument) ([]models.ThreadNode, error) {
	nodes := make([]models.ThreadNode, len(docs))
	for i, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid comment ID in database: %v", err)
		}
		userID, err := uuid.Parse(doc.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid comment author ID in database: %v", err)
		}
		likes, err := documentsToRefs(doc.Likes)
		if err != nil {
			return nil, err
		}
		replies, err := documentsToNodes(doc.Replies)
		if err != nil {
			return nil, err
		}
		nodes[i] = models.ThreadNode{
			ID:        id,
			UserID:    userID,
			Name:      doc.Name,
			Content:   doc.Content,
			CreatedAt: doc.CreatedAt,
			Likes:     likes,
			Replies:   replies,
		}
	}
	return nodes, nil
}
