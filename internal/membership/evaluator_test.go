package membership

import (
	"testing"

	"club-pulse/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func makeCommunity(communityType models.CommunityType) *models.Community {
	creatorID := uuid.New()
	return &models.Community{
		ID:        uuid.New(),
		Name:      "test community",
		Type:      communityType,
		ClubID:    "gators",
		CreatorID: creatorID,
		Members: []models.Member{{
			UserID: creatorID,
			Name:   "creator",
			Role:   models.RoleAdmin,
		}},
		Admins:         []models.UserRef{{UserID: creatorID, Name: "creator"}},
		PendingMembers: make([]models.PendingMember, 0),
	}
}

func TestDecidePublicAdmits(t *testing.T) {
	community := makeCommunity(models.CommunityPublic)
	assert.Equal(t, Admit, Decide(community, uuid.New()))
}

func TestDecidePrivateQueues(t *testing.T) {
	community := makeCommunity(models.CommunityPrivate)
	assert.Equal(t, Queue, Decide(community, uuid.New()))
}

func TestDecideCreatorBypassesPrivateGate(t *testing.T) {
	community := makeCommunity(models.CommunityPrivate)
	// Creator with no member entry still gets admitted directly
	community.Members = nil
	assert.Equal(t, Admit, Decide(community, community.CreatorID))
}

func TestDecideExistingMemberRejected(t *testing.T) {
	for _, communityType := range []models.CommunityType{models.CommunityPublic, models.CommunityPrivate} {
		community := makeCommunity(communityType)
		memberID := uuid.New()
		community.Members = append(community.Members, models.Member{
			UserID: memberID,
			Name:   "member",
			Role:   models.RoleMember,
		})
		assert.Equal(t, RejectAlreadyMember, Decide(community, memberID))
	}
}

func TestDecideCreatorAlreadyMemberRejected(t *testing.T) {
	community := makeCommunity(models.CommunityPrivate)
	assert.Equal(t, RejectAlreadyMember, Decide(community, community.CreatorID))
}

func TestDecidePendingRejected(t *testing.T) {
	community := makeCommunity(models.CommunityPrivate)
	pendingID := uuid.New()
	community.PendingMembers = append(community.PendingMembers, models.PendingMember{
		UserID: pendingID,
		Name:   "waiting",
	})
	assert.Equal(t, RejectAlreadyPending, Decide(community, pendingID))
}
