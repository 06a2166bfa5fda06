package handlers

import (
	"encoding/json"
	"net/http"

	"club-pulse/internal/engine/actors"
	"club-pulse/internal/models"
	"club-pulse/internal/utils"

	"github.com/google/uuid"
)

// CreateDiscussionRequest represents a request to start a new discussion
type CreateDiscussionRequest struct {
	ClubID  string  `json:"clubId"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Image   *string `json:"image,omitempty"`
}

// EditDiscussionRequest carries the author's updated title and content
type EditDiscussionRequest struct {
	DiscussionID string `json:"discussionId"`
	Title        string `json:"title"`
	Content      string `json:"content"`
}

// AddCommentRequest adds a top-level comment, or a nested reply when
// parentId is set
type AddCommentRequest struct {
	DiscussionID string  `json:"discussionId"`
	Content      string  `json:"content"`
	ParentID     *string `json:"parentId,omitempty"`
}

// ToggleLikeRequest flips the caller's like on a discussion or, when nodeId
// is set, on a comment/reply at any depth
type ToggleLikeRequest struct {
	DiscussionID string  `json:"discussionId"`
	NodeID       *string `json:"nodeId,omitempty"`
}

// HandleDiscussions handles creation, retrieval, editing and deletion of discussions
func (s *Server) HandleDiscussions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if id := r.URL.Query().Get("id"); id != "" {
				discussionID, err := uuid.Parse(id)
				if err != nil {
					http.Error(w, "Invalid discussion ID format", http.StatusBadRequest)
					return
				}

				future := s.Context.RequestFuture(s.Engine.GetDiscussionActor(),
					&actors.GetDiscussionMsg{DiscussionID: discussionID}, s.RequestTimeout)

				result, err := future.Result()
				if err != nil {
					http.Error(w, "Failed to get discussion", http.StatusInternalServerError)
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

			future := s.Context.RequestFuture(s.Engine.GetDiscussionActor(),
				&actors.ListClubDiscussionsMsg{ClubID: clubID}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to list discussions", http.StatusInternalServerError)
				return
			}
			respondWithResult(w, result)

		case http.MethodPost:
			requester, appErr := s.resolveRequester(r)
			if appErr != nil {
				http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
				return
			}

			var req CreateDiscussionRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetDiscussionActor(), &actors.CreateDiscussionMsg{
				ClubID:  req.ClubID,
				Title:   req.Title,
				Content: req.Content,
				Image:   req.Image,
				Author:  models.UserRef{UserID: requester.ID, Name: requester.Name},
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to create discussion", http.StatusInternalServerError)
				return
			}
			respondWithResult(w, result)

		case http.MethodPut:
			requester, appErr := s.resolveRequester(r)
			if appErr != nil {
				http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
				return
			}

			var req EditDiscussionRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}

			discussionID, err := uuid.Parse(req.DiscussionID)
			if err != nil {
				http.Error(w, "Invalid discussion ID format", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetDiscussionActor(), &actors.EditDiscussionMsg{
				DiscussionID: discussionID,
				RequesterID:  requester.ID,
				Title:        req.Title,
				Content:      req.Content,
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to edit discussion", http.StatusInternalServerError)
				return
			}
			respondWithResult(w, result)

		case http.MethodDelete:
			requester, appErr := s.resolveRequester(r)
			if appErr != nil {
				http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
				return
			}

			id := r.URL.Query().Get("id")
			discussionID, err := uuid.Parse(id)
			if err != nil {
				http.Error(w, "Invalid discussion ID format", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetDiscussionActor(), &actors.DeleteDiscussionMsg{
				DiscussionID: discussionID,
				RequesterID:  requester.ID,
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to delete discussion", http.StatusInternalServerError)
				return
			}
			respondWithResult(w, result)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleDiscussionComments appends comments and replies to a discussion
func (s *Server) HandleDiscussionComments() http.HandlerFunc {
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

		var req AddCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		discussionID, err := uuid.Parse(req.DiscussionID)
		if err != nil {
			http.Error(w, "Invalid discussion ID format", http.StatusBadRequest)
			return
		}

		if req.Content == "" {
			http.Error(w, "Content required", http.StatusBadRequest)
			return
		}

		var parentID *uuid.UUID
		if req.ParentID != nil {
			parsed, err := uuid.Parse(*req.ParentID)
			if err != nil {
				http.Error(w, "Invalid parent ID format", http.StatusBadRequest)
				return
			}
			parentID = &parsed
		}

		future := s.Context.RequestFuture(s.Engine.GetDiscussionActor(), &actors.AddCommentMsg{
			DiscussionID: discussionID,
			Author:       models.UserRef{UserID: requester.ID, Name: requester.Name},
			Content:      req.Content,
			ParentID:     parentID,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to add comment", http.StatusInternalServerError)
			return
		}
		respondWithResult(w, result)
	}
}

// HandleDiscussionLikes toggles likes on discussions and their comments
func (s *Server) HandleDiscussionLikes() http.HandlerFunc {
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

		var req ToggleLikeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		discussionID, err := uuid.Parse(req.DiscussionID)
		if err != nil {
			http.Error(w, "Invalid discussion ID format", http.StatusBadRequest)
			return
		}

		var nodeID *uuid.UUID
		if req.NodeID != nil {
			parsed, err := uuid.Parse(*req.NodeID)
			if err != nil {
				http.Error(w, "Invalid node ID format", http.StatusBadRequest)
				return
			}
			nodeID = &parsed
		}

		future := s.Context.RequestFuture(s.Engine.GetDiscussionActor(), &actors.ToggleLikeMsg{
			DiscussionID: discussionID,
			NodeID:       nodeID,
			User:         models.UserRef{UserID: requester.ID, Name: requester.Name},
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to toggle like", http.StatusInternalServerError)
			return
		}
		respondWithResult(w, result)
	}
}
