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
)

// MemberDocument mirrors models.Member in MongoDB.
type MemberDocument struct {
	UserID      string `bson:"userId"`
	Name        string `bson:"name"`
	PhoneNumber string `bson:"phoneNumber"`
	Role        string `bson:"role"`
}

// PendingMemberDocument mirrors models.PendingMember in MongoDB.
type PendingMemberDocument struct {
	UserID      string    `bson:"userId"`
	Name        string    `bson:"name"`
	RequestDate time.Time `bson:"requestDate"`
}

// CommunityDocument represents community data in MongoDB.
type CommunityDocument struct {
	ID             string                  `bson:"_id"`
	Name           string                  `bson:"name"`
	Description    string                  `bson:"description"`
	Type           string                  `bson:"type"`
	ClubID         string                  `bson:"clubId"`
	CreatorID      string                  `bson:"creatorId"`
	Members        []MemberDocument        `bson:"members"`
	Admins         []UserRefDocument       `bson:"admins"`
	PendingMembers []PendingMemberDocument `bson:"pendingMembers"`
	CreatedAt      time.Time               `bson:"createdAt"`
	Version        int64                   `bson:"version"`
}

// SaveCommunity persists the whole aggregate with the same version guard as
// discussions: version 0 inserts, anything else replaces only when the
// stored version still matches.
func (m *MongoDB) SaveCommunity(ctx context.Context, community *models.Community) error {
	expected := community.Version
	doc := communityToDocument(community)
	doc.Version = expected + 1

	if expected == 0 {
		if _, err := m.Communities.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return utils.NewVersionConflictError("community")
			}
			return utils.NewAppError(utils.ErrDatabase, "failed to insert community", err)
		}
		community.Version = doc.Version
		return nil
	}

	filter := bson.M{"_id": doc.ID, "version": expected}
	result, err := m.Communities.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save community", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewVersionConflictError("community")
	}

	community.Version = doc.Version
	return nil
}

// GetCommunity retrieves a community by ID.
func (m *MongoDB) GetCommunity(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	var doc CommunityDocument
	err := m.Communities.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewCommunityNotFoundError(id.String())
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get community", err)
	}

	return documentToCommunity(&doc)
}

// GetClubCommunities retrieves all communities belonging to a club.
func (m *MongoDB) GetClubCommunities(ctx context.Context, clubID string) ([]*models.Community, error) {
	cursor, err := m.Communities.Find(ctx, bson.M{"clubId": clubID})
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to list communities", err)
	}
	defer cursor.Close(ctx)

	var communities []*models.Community
	for cursor.Next(ctx) {
		var doc CommunityDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "failed to decode community", err)
		}
		community, err := documentToCommunity(&doc)
		if err != nil {
			return nil, err
		}
		communities = append(communities, community)
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "cursor error", err)
	}

	return communities, nil
}

// GetCommunitiesAdministeredBy returns the communities whose admin set
// contains userID. Used to assemble the admin's pending-request inbox.
func (m *MongoDB) GetCommunitiesAdministeredBy(ctx context.Context, userID uuid.UUID) ([]*models.Community, error) {
	filter := bson.M{"admins.userId": userID.String()}
	cursor, err := m.Communities.Find(ctx, filter)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query administered communities", err)
	}
	defer cursor.Close(ctx)

	var communities []*models.Community
	for cursor.Next(ctx) {
		var doc CommunityDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "failed to decode community", err)
		}
		community, err := documentToCommunity(&doc)
		if err != nil {
			return nil, err
		}
		communities = append(communities, community)
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "cursor error", err)
	}

	return communities, nil
}

func communityToDocument(c *models.Community) *CommunityDocument {
	members := make([]MemberDocument, len(c.Members))
	for i, member := range c.Members {
		members[i] = MemberDocument{
			UserID:      member.UserID.String(),
			Name:        member.Name,
			PhoneNumber: member.PhoneNumber,
			Role:        string(member.Role),
		}
	}

	pending := make([]PendingMemberDocument, len(c.PendingMembers))
	for i, p := range c.PendingMembers {
		pending[i] = PendingMemberDocument{
			UserID:      p.UserID.String(),
			Name:        p.Name,
			RequestDate: p.RequestDate,
		}
	}

	return &CommunityDocument{
		ID:             c.ID.String(),
		Name:           c.Name,
		Description:    c.Description,
		Type:           string(c.Type),
		ClubID:         c.ClubID,
		CreatorID:      c.CreatorID.String(),
		Members:        members,
		Admins:         refsToDocuments(c.Admins),
		PendingMembers: pending,
		CreatedAt:      c.CreatedAt,
		Version:        c.Version,
	}
}

func documentToCommunity(doc *CommunityDocument) (*models.Community, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid community ID in database: %v", err)
	}
	creatorID, err := uuid.Parse(doc.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("invalid creator ID in database: %v", err)
	}

	members := make([]models.Member, len(doc.Members))
	for i, m := range doc.Members {
		userID, err := uuid.Parse(m.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid member ID in database: %v", err)
		}
		members[i] = models.Member{
			UserID:      userID,
			Name:        m.Name,
			PhoneNumber: m.PhoneNumber,
			Role:        models.MemberRole(m.Role),
		}
	}

	admins, err := documentsToRefs(doc.Admins)
	if err != nil {
		return nil, err
	}

	pending := make([]models.PendingMember, len(doc.PendingMembers))
	for i, p := range doc.PendingMembers {
		userID, err := uuid.Parse(p.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid pending member ID in database: %v", err)
		}
		pending[i] = models.PendingMember{
			UserID:      userID,
			Name:        p.Name,
			RequestDate: p.RequestDate,
		}
	}

	return &models.Community{
		ID:             id,
		Name:           doc.Name,
		Description:    doc.Description,
		Type:           models.CommunityType(doc.Type),
		ClubID:         doc.ClubID,
		CreatorID:      creatorID,
		Members:        members,
		Admins:         admins,
		PendingMembers: pending,
		CreatedAt:      doc.CreatedAt,
		Version:        doc.Version,
	}, nil
}
