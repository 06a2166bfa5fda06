package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

type SimConfig struct {
	NumUsers          int
	NumCommunities    int
	SimulationTime    time.Duration
	DiscussionsPerMin float64
	CommentsPerMin    float64
	LikesPerMin       float64
	PrivateRatio      float64
	ClubID            string
	EngineURL         string
}

type SimulationStats struct {
	mu               sync.RWMutex
	StartTime        time.Time
	TotalRequests    int64
	SuccessRequests  int64
	FailedRequests   int64
	TotalDiscussions int
	TotalComments    int
	TotalLikes       int
	TotalJoins       int
	RequestLatencies []time.Duration
}

// SimulatedUser is one registered fan driving traffic.
type SimulatedUser struct {
	ID          string
	Name        string
	PhoneNumber string
	Token       string
}

type simComment struct {
	DiscussionID string
	NodeID       string
}

type Simulator struct {
	config      SimConfig
	stats       *SimulationStats
	users       []*SimulatedUser
	communities []string
	discussions []string
	comments    []simComment
	client      *http.Client
	mu          sync.RWMutex
}

func NewSimulator(config SimConfig) *Simulator {
	return &Simulator{
		config: config,
		stats: &SimulationStats{
			StartTime:        time.Now(),
			RequestLatencies: make([]time.Duration, 0),
		},
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *Simulator) Run(ctx context.Context) error {
	log.Printf("Starting simulation...")

	if err := s.initialize(ctx); err != nil {
		return fmt.Errorf("initialization failed: %v", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.driveDiscussions(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.driveComments(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.driveLikes(ctx)
	}()

	wg.Wait()
	return nil
}

func (s *Simulator) initialize(ctx context.Context) error {
	log.Printf("Phase 1: Registering %d users...", s.config.NumUsers)
	for i := 0; i < s.config.NumUsers; i++ {
		user := &SimulatedUser{
			Name:        fmt.Sprintf("fan_%d", i),
			PhoneNumber: fmt.Sprintf("+1555%07d", i),
		}
		if err := s.registerAndLogin(ctx, user); err != nil {
			log.Printf("Failed to register user %s: %v", user.Name, err)
			continue
		}
		s.users = append(s.users, user)
	}
	if len(s.users) == 0 {
		return fmt.Errorf("no users registered")
	}
	log.Printf("Registered %d users", len(s.users))

	log.Printf("Phase 2: Creating %d communities...", s.config.NumCommunities)
	for i := 0; i < s.config.NumCommunities; i++ {
		creator := s.users[rand.Intn(len(s.users))]
		communityType := "public"
		if rand.Float64() < s.config.PrivateRatio {
			communityType = "private"
		}
		body := map[string]interface{}{
			"name":        fmt.Sprintf("community_%d", i),
			"description": fmt.Sprintf("Simulated community %d", i),
			"type":        communityType,
			"clubId":      s.config.ClubID,
		}
		result, err := s.post(ctx, creator, "/api/communities", body)
		if err != nil {
			log.Printf("Failed to create community %d: %v", i, err)
			continue
		}
		if id, ok := result["id"].(string); ok {
			s.communities = append(s.communities, id)
		}
	}
	log.Printf("Created %d communities", len(s.communities))

	log.Printf("Phase 3: Simulating community joins...")
	for _, user := range s.users {
		for _, communityID := range s.communities {
			if rand.Float64() > 0.4 {
				continue
			}
			body := map[string]interface{}{"communityId": communityID}
			if _, err := s.post(ctx, user, "/api/communities/join", body); err == nil {
				s.stats.mu.Lock()
				s.stats.TotalJoins++
				s.stats.mu.Unlock()
			}
		}
	}

	log.Printf("Initialization completed successfully")
	return nil
}

func (s *Simulator) registerAndLogin(ctx context.Context, user *SimulatedUser) error {
	registerBody := map[string]interface{}{
		"name":         user.Name,
		"phoneNumber":  user.PhoneNumber,
		"password":     "simulated-password",
		"selectedClub": s.config.ClubID,
	}
	result, err := s.post(ctx, nil, "/api/users/register", registerBody)
	if err != nil {
		return err
	}
	if id, ok := result["id"].(string); ok {
		user.ID = id
	}

	loginBody := map[string]interface{}{
		"phoneNumber": user.PhoneNumber,
		"password":    "simulated-password",
	}
	result, err = s.post(ctx, nil, "/api/users/login", loginBody)
	if err != nil {
		return err
	}
	token, ok := result["token"].(string)
	if !ok || token == "" {
		return fmt.Errorf("no token in login response")
	}
	user.Token = token
	return nil
}

func (s *Simulator) driveDiscussions(ctx context.Context) {
	interval := time.Duration(float64(time.Minute) / s.config.DiscussionsPerMin)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			user := s.randomUser()
			body := map[string]interface{}{
				"clubId":  s.config.ClubID,
				"title":   fmt.Sprintf("Discussion %d by %s", i, user.Name),
				"content": "What does everyone think about the last match?",
			}
			result, err := s.post(ctx, user, "/api/discussions", body)
			if err != nil {
				continue
			}
			if id, ok := result["id"].(string); ok {
				s.mu.Lock()
				s.discussions = append(s.discussions, id)
				s.mu.Unlock()
				s.stats.mu.Lock()
				s.stats.TotalDiscussions++
				s.stats.mu.Unlock()
			}
		}
	}
}

func (s *Simulator) driveComments(ctx context.Context) {
	interval := time.Duration(float64(time.Minute) / s.config.CommentsPerMin)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			discussionID := s.randomDiscussion()
			if discussionID == "" {
				continue
			}
			user := s.randomUser()
			body := map[string]interface{}{
				"discussionId": discussionID,
				"content":      "Great point, I was thinking the same.",
			}
			// Half the time, reply to an existing comment to grow deep threads
			if parent := s.randomComment(discussionID); parent != "" && rand.Float64() < 0.5 {
				body["parentId"] = parent
			}
			result, err := s.post(ctx, user, "/api/discussions/comments", body)
			if err != nil {
				continue
			}
			s.recordNewComments(discussionID, result)
			s.stats.mu.Lock()
			s.stats.TotalComments++
			s.stats.mu.Unlock()
		}
	}
}

func (s *Simulator) driveLikes(ctx context.Context) {
	interval := time.Duration(float64(time.Minute) / s.config.LikesPerMin)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			discussionID := s.randomDiscussion()
			if discussionID == "" {
				continue
			}
			user := s.randomUser()
			body := map[string]interface{}{"discussionId": discussionID}
			if node := s.randomComment(discussionID); node != "" && rand.Float64() < 0.5 {
				body["nodeId"] = node
			}
			if _, err := s.post(ctx, user, "/api/discussions/likes", body); err == nil {
				s.stats.mu.Lock()
				s.stats.TotalLikes++
				s.stats.mu.Unlock()
			}
		}
	}
}

// recordNewComments walks the returned comment forest and remembers node IDs
// so later traffic can reply to and like nested comments.
func (s *Simulator) recordNewComments(discussionID string, discussion map[string]interface{}) {
	comments, ok := discussion["comments"].([]interface{})
	if !ok {
		return
	}

	seen := make(map[string]bool)
	s.mu.RLock()
	for _, c := range s.comments {
		seen[c.NodeID] = true
	}
	s.mu.RUnlock()

	stack := comments
	for len(stack) > 0 {
		raw := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if id, ok := node["id"].(string); ok && !seen[id] {
			s.mu.Lock()
			s.comments = append(s.comments, simComment{DiscussionID: discussionID, NodeID: id})
			s.mu.Unlock()
			seen[id] = true
		}
		if replies, ok := node["replies"].([]interface{}); ok {
			stack = append(stack, replies...)
		}
	}
}

func (s *Simulator) randomUser() *SimulatedUser {
	return s.users[rand.Intn(len(s.users))]
}

func (s *Simulator) randomDiscussion() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.discussions) == 0 {
		return ""
	}
	return s.discussions[rand.Intn(len(s.discussions))]
}

func (s *Simulator) randomComment(discussionID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidates := make([]string, 0)
	for _, c := range s.comments {
		if c.DiscussionID == discussionID {
			candidates = append(candidates, c.NodeID)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[rand.Intn(len(candidates))]
}

// post sends an authenticated JSON request and decodes the JSON reply.
func (s *Simulator) post(ctx context.Context, user *SimulatedUser, path string, body map[string]interface{}) (map[string]interface{}, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.EngineURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if user != nil && user.Token != "" {
		req.Header.Set("Authorization", "Bearer "+user.Token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	latency := time.Since(start)

	s.stats.mu.Lock()
	s.stats.TotalRequests++
	s.stats.RequestLatencies = append(s.stats.RequestLatencies, latency)
	if err != nil || resp.StatusCode >= 400 {
		s.stats.FailedRequests++
	} else {
		s.stats.SuccessRequests++
	}
	s.stats.mu.Unlock()

	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, string(raw))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %v", path, err)
	}
	return result, nil
}

// Metrics summarizes the run for the caller.
type Metrics struct {
	TotalUsers       int
	TotalCommunities int
	TotalDiscussions int
	TotalComments    int
	TotalLikes       int
	TotalJoins       int
	TotalRequests    int64
	FailedRequests   int64
	AverageLatency   time.Duration
}

func (s *Simulator) GetMetrics() Metrics {
	s.stats.mu.RLock()
	defer s.stats.mu.RUnlock()

	var total time.Duration
	for _, l := range s.stats.RequestLatencies {
		total += l
	}
	var avg time.Duration
	if len(s.stats.RequestLatencies) > 0 {
		avg = total / time.Duration(len(s.stats.RequestLatencies))
	}

	return Metrics{
		TotalUsers:       len(s.users),
		TotalCommunities: len(s.communities),
		TotalDiscussions: s.stats.TotalDiscussions,
		TotalComments:    s.stats.TotalComments,
		TotalLikes:       s.stats.TotalLikes,
		TotalJoins:       s.stats.TotalJoins,
		TotalRequests:    s.stats.TotalRequests,
		FailedRequests:   s.stats.FailedRequests,
		AverageLatency:   avg,
	}
}
