package actors

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"club-pulse/internal/database"
	"club-pulse/internal/models"
	"club-pulse/internal/utils"

	"github.com/google/uuid"
)

var _ database.Store = (*memStore)(nil)

// memStore is an in-memory Store implementation for actor tests. It applies
// the same version guard the MongoDB repositories do, so concurrency-related
// behavior can be exercised without a database.
type memStore struct {
	mu          sync.Mutex
	discussions map[uuid.UUID]*models.Discussion
	communities map[uuid.UUID]*models.Community
	posts       map[uuid.UUID]*models.CommunityPost
	users       map[uuid.UUID]models.User
}

func newMemStore() *memStore {
	return &memStore{
		discussions: make(map[uuid.UUID]*models.Discussion),
		communities: make(map[uuid.UUID]*models.Community),
		posts:       make(map[uuid.UUID]*models.CommunityPost),
		users:       make(map[uuid.UUID]models.User),
	}
}

func cloneDiscussion(d *models.Discussion) *models.Discussion {
	raw, _ := json.Marshal(d)
	var out models.Discussion
	_ = json.Unmarshal(raw, &out)
	return &out
}

func cloneCommunity(c *models.Community) *models.Community {
	raw, _ := json.Marshal(c)
	var out models.Community
	_ = json.Unmarshal(raw, &out)
	return &out
}

func clonePost(p *models.CommunityPost) *models.CommunityPost {
	raw, _ := json.Marshal(p)
	var out models.CommunityPost
	_ = json.Unmarshal(raw, &out)
	return &out
}

func (s *memStore) SaveDiscussion(ctx context.Context, discussion *models.Discussion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expected := discussion.Version
	stored, exists := s.discussions[discussion.ID]
	if exists && stored.Version != expected {
		return utils.NewVersionConflictError("discussion")
	}
	if !exists && expected != 0 {
		return utils.NewVersionConflictError("discussion")
	}

	snap := cloneDiscussion(discussion)
	snap.Version = expected + 1
	s.discussions[discussion.ID] = snap
	discussion.Version = snap.Version
	return nil
}

func (s *memStore) GetDiscussion(ctx context.Context, id uuid.UUID) (*models.Discussion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.discussions[id]
	if !ok {
		return nil, utils.NewDiscussionNotFoundError(id.String())
	}
	return cloneDiscussion(stored), nil
}

func (s *memStore) GetClubDiscussions(ctx context.Context, clubID string) ([]*models.Discussion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*models.Discussion
	for _, d := range s.discussions {
		if d.ClubID == clubID {
			result = append(result, cloneDiscussion(d))
		}
	}
	// Newest first, matching the MongoDB query
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *memStore) DeleteDiscussion(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.discussions[id]; !ok {
		return utils.NewDiscussionNotFoundError(id.String())
	}
	delete(s.discussions, id)
	return nil
}

func (s *memStore) SaveCommunity(ctx context.Context, community *models.Community) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expected := community.Version
	stored, exists := s.communities[community.ID]
	if exists && stored.Version != expected {
		return utils.NewVersionConflictError("community")
	}
	if !exists && expected != 0 {
		return utils.NewVersionConflictError("community")
	}

	snap := cloneCommunity(community)
	snap.Version = expected + 1
	s.communities[community.ID] = snap
	community.Version = snap.Version
	return nil
}

func (s *memStore) GetCommunity(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.communities[id]
	if !ok {
		return nil, utils.NewCommunityNotFoundError(id.String())
	}
	return cloneCommunity(stored), nil
}

func (s *memStore) GetClubCommunities(ctx context.Context, clubID string) ([]*models.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*models.Community
	for _, c := range s.communities {
		if c.ClubID == clubID {
			result = append(result, cloneCommunity(c))
		}
	}
	return result, nil
}

func (s *memStore) GetCommunitiesAdministeredBy(ctx context.Context, userID uuid.UUID) ([]*models.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*models.Community
	for _, c := range s.communities {
		for _, admin := range c.Admins {
			if admin.UserID == userID {
				result = append(result, cloneCommunity(c))
				break
			}
		}
	}
	return result, nil
}

func (s *memStore) SaveCommunityPost(ctx context.Context, post *models.CommunityPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expected := post.Version
	stored, exists := s.posts[post.ID]
	if exists && stored.Version != expected {
		return utils.NewVersionConflictError("community post")
	}
	if !exists && expected != 0 {
		return utils.NewVersionConflictError("community post")
	}

	snap := clonePost(post)
	snap.Version = expected + 1
	s.posts[post.ID] = snap
	post.Version = snap.Version
	return nil
}

func (s *memStore) GetCommunityPost(ctx context.Context, id uuid.UUID) (*models.CommunityPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.posts[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "community post not found", nil)
	}
	return clonePost(stored), nil
}

func (s *memStore) GetCommunityPosts(ctx context.Context, communityID uuid.UUID) ([]*models.CommunityPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*models.CommunityPost
	for _, p := range s.posts {
		if p.CommunityID == communityID {
			result = append(result, clonePost(p))
		}
	}
	return result, nil
}

func (s *memStore) DeleteCommunityPost(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return utils.NewAppError(utils.ErrNotFound, "community post not found", nil)
	}
	delete(s.posts, id)
	return nil
}

func (s *memStore) SaveUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.ID] = *user
	return nil
}

func (s *memStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, utils.NewUserNotFoundError(id.String())
	}
	return &user, nil
}

func (s *memStore) GetUserByPhoneNumber(ctx context.Context, phoneNumber string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.PhoneNumber == phoneNumber {
			u := user
			return &u, nil
		}
	}
	return nil, utils.NewUserNotFoundError(phoneNumber)
}

func (s *memStore) UpdateUserActivity(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return utils.NewUserNotFoundError(id.String())
	}
	user.LastActive = time.Now()
	s.users[id] = user
	return nil
}

var _ database.Store = (*failingStore)(nil)

// failingStore wraps memStore so tests can make the next save of an
// aggregate type fail with a database error, exercising the actors'
// error paths.
type failingStore struct {
	*memStore
	failDiscussionSaves int
	failCommunitySaves  int
	failPostSaves       int
}

func newFailingStore() *failingStore {
	return &failingStore{memStore: newMemStore()}
}

func (s *failingStore) failNextDiscussionSave() {
	s.mu.Lock()
	s.failDiscussionSaves++
	s.mu.Unlock()
}

func (s *failingStore) failNextCommunitySave() {
	s.mu.Lock()
	s.failCommunitySaves++
	s.mu.Unlock()
}

func (s *failingStore) failNextPostSave() {
	s.mu.Lock()
	s.failPostSaves++
	s.mu.Unlock()
}

func (s *failingStore) takeFailure(counter *int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if *counter > 0 {
		*counter--
		return true
	}
	return false
}

func (s *failingStore) SaveDiscussion(ctx context.Context, discussion *models.Discussion) error {
	if s.takeFailure(&s.failDiscussionSaves) {
		return utils.NewAppError(utils.ErrDatabase, "failed to save discussion", nil)
	}
	return s.memStore.SaveDiscussion(ctx, discussion)
}

func (s *failingStore) SaveCommunity(ctx context.Context, community *models.Community) error {
	if s.takeFailure(&s.failCommunitySaves) {
		return utils.NewAppError(utils.ErrDatabase, "failed to save community", nil)
	}
	return s.memStore.SaveCommunity(ctx, community)
}

func (s *failingStore) SaveCommunityPost(ctx context.Context, post *models.CommunityPost) error {
	if s.takeFailure(&s.failPostSaves) {
		return utils.NewAppError(utils.ErrDatabase, "failed to save community post", nil)
	}
	return s.memStore.SaveCommunityPost(ctx, post)
}
