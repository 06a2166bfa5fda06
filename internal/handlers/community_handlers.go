package handlers

import (
	"encoding/json"
	"net/http"

	"club-pulse/internal/engine/actors"
	"club-pulse/internal/models"
	"club-pulse/internal/utils"

	"github.com/google/uuid"
)

// CreateCommunityRequest represents a request to create a new community
type CreateCommunityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	ClubID      string `json:"clubId"`
}

// MembershipDecisionRequest is shared by approve and deny endpoints
type MembershipDecisionRequest struct {
	CommunityID string `json:"communityId"`
	UserID      string `json:"userId"`
}

// HandleCommunities handles creation and retrieval of communities
func (s *Server) HandleCommunities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if id := r.URL.Query().Get("id"); id != "" {
				communityID, err := uuid.Parse(id)
				if err != nil {
					http.Error(w, "Invalid community ID format", http.StatusBadRequest)
					return
				}

				future := s.Context.RequestFuture(s.Engine.GetCommunityActor(),
					&actors.GetCommunityMsg{CommunityID: communityID}, s.RequestTimeout)

				result, err := future.Result()
				if err != nil {
					http.Error(w, "Failed to get community", http.StatusInternalServerError)
					return
				}
				respondWithResult(w, result)
				return
			}

			clubID := r.URL.Query().Get("clubId")
			if clubID == "" {
				http.Error(w, "Club ID required", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetCommunityActor(),
				&actors.ListClubCommunitiesMsg{ClubID: clubID}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to list communities", http.StatusInternalServerError)
				return
			}
			respondWithResult(w, result)

		case http.MethodPost:
			requester, appErr := s.resolveRequester(r)
			if appErr != nil {
				http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
				return
			}

			var req CreateCommunityRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetCommunityActor(), &actors.CreateCommunityMsg{
				Name:         req.Name,
				Description:  req.Description,
				Type:         models.CommunityType(req.Type),
				ClubID:       req.ClubID,
				Creator:      models.UserRef{UserID: requester.ID, Name: requester.Name},
				CreatorPhone: requester.PhoneNumber,
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to create community", http.StatusInternalServerError)
				return
			}
			respondWithResult(w, result)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleCommunityJoin lets a user request membership. Public communities
// admit directly, private ones queue the request for an admin.
func (s *Server) HandleCommunityJoin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		requester, appErr := s.resolveRequester(r)
		if appErr != nil {
			http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
			return
		}

		var req struct {
			CommunityID string `json:"communityId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		communityID, err := uuid.Parse(req.CommunityID)
		if err != nil {
			http.Error(w, "Invalid community ID format", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetCommunityActor(), &actors.JoinCommunityMsg{
			CommunityID: communityID,
			User:        models.UserRef{UserID: requester.ID, Name: requester.Name},
			PhoneNumber: requester.PhoneNumber,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to join community", http.StatusInternalServerError)
			return
		}
		respondWithResult(w, result)
	}
}

// HandleCommunityApprove moves a pending request into the member set
func (s *Server) HandleCommunityApprove() http.HandlerFunc {
	return s.handleMembershipDecision(func(communityID, adminID, targetID uuid.UUID) interface{} {
		return &actors.ApproveMemberMsg{
			CommunityID:  communityID,
			AdminID:      adminID,
			TargetUserID: targetID,
		}
	}, "Failed to approve member")
}

// HandleCommunityDeny discards a pending request
func (s *Server) HandleCommunityDeny() http.HandlerFunc {
	return s.handleMembershipDecision(func(communityID, adminID, targetID uuid.UUID) interface{} {
		return &actors.DenyMemberMsg{
			CommunityID:  communityID,
			AdminID:      adminID,
			TargetUserID: targetID,
		}
	}, "Failed to deny member")
}

func (s *Server) handleMembershipDecision(buildMsg func(communityID, adminID, targetID uuid.UUID) interface{}, failureMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		adminID, ok := requesterID(r)
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		var req MembershipDecisionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		communityID, err := uuid.Parse(req.CommunityID)
		if err != nil {
			http.Error(w, "Invalid community ID format", http.StatusBadRequest)
			return
		}

		targetID, err := uuid.Parse(req.UserID)
		if err != nil {
			http.Error(w, "Invalid user ID format", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetCommunityActor(),
			buildMsg(communityID, adminID, targetID), s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, failureMsg, http.StatusInternalServerError)
			return
		}
		respondWithResult(w, result)
	}
}

// HandleCommunityLeave removes a non-admin member from a community
func (s *Server) HandleCommunityLeave() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, ok := requesterID(r)
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		var req struct {
			CommunityID string `json:"communityId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		communityID, err := uuid.Parse(req.CommunityID)
		if err != nil {
			http.Error(w, "Invalid community ID format", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetCommunityActor(), &actors.LeaveCommunityMsg{
			CommunityID: communityID,
			UserID:      userID,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to leave community", http.StatusInternalServerError)
			return
		}
		respondWithResult(w, result)
	}
}

// HandleCommunityPending lists the pending join requests of one community
func (s *Server) HandleCommunityPending() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		adminID, ok := requesterID(r)
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		communityID, err := uuid.Parse(r.URL.Query().Get("communityId"))
		if err != nil {
			http.Error(w, "Invalid community ID format", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetCommunityActor(), &actors.ListPendingMsg{
			CommunityID: communityID,
			AdminID:     adminID,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to list pending requests", http.StatusInternalServerError)
			return
		}
		respondWithResult(w, result)
	}
}

// HandleAdminNotifications aggregates pending join requests across every
// community the caller administers
func (s *Server) HandleAdminNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		adminID, ok := requesterID(r)
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetCommunityActor(),
			&actors.AdminNotificationsMsg{AdminID: adminID}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to fetch notifications", http.StatusInternalServerError)
			return
		}
		respondWithResult(w, result)
	}
}
