package handlers

import (
	"encoding/json"
	"net/http"

	"club-pulse/internal/engine/actors"
	"club-pulse/internal/models"
	"club-pulse/internal/utils"

	"github.com/google/uuid"
)

// CreatePostRequest represents a request to post inside a community
type CreatePostRequest struct {
	CommunityID string  `json:"communityId"`
	Content     string  `json:"content"`
	Image       *string `json:"image,omitempty"`
}

// HandleCommunityPosts handles creation, listing and deletion of community posts
func (s *Server) HandleCommunityPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if id := r.URL.Query().Get("id"); id != "" {
				postID, err := uuid.Parse(id)
				if err != nil {
					http.Error(w, "Invalid post ID format", http.StatusBadRequest)
					return
				}

				future := s.Context.RequestFuture(s.Engine.GetCommunityPostActor(),
					&actors.GetCommunityPostMsg{PostID: postID}, s.RequestTimeout)

				result, err := future.Result()
				if err != nil {
					http.Error(w, "Failed to get post", http.StatusInternalServerError)
					return
				}
				respondWithResult(w, result)
				return
			}

			communityID, err := uuid.Parse(r.URL.Query().Get("communityId"))
			if err != nil {
				http.Error(w, "Invalid community ID format", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetCommunityPostActor(),
				&actors.ListCommunityPostsMsg{CommunityID: communityID}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to list posts", http.StatusInternalServerError)
				return
			}
			respondWithResult(w, result)

		case http.MethodPost:
			requester, appErr := s.resolveRequester(r)
			if appErr != nil {
				http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
				return
			}

			var req CreatePostRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}

			communityID, err := uuid.Parse(req.CommunityID)
			if err != nil {
				http.Error(w, "Invalid community ID format", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetCommunityPostActor(), &actors.CreateCommunityPostMsg{
				CommunityID: communityID,
				Author:      models.UserRef{UserID: requester.ID, Name: requester.Name},
				Content:     req.Content,
				Image:       req.Image,
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to create post", http.StatusInternalServerError)
				return
			}
			respondWithResult(w, result)

		case http.MethodDelete:
			requester, appErr := s.resolveRequester(r)
			if appErr != nil {
				http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
				return
			}

			postID, err := uuid.Parse(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Invalid post ID format", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetCommunityPostActor(), &actors.DeleteCommunityPostMsg{
				PostID:      postID,
				RequesterID: requester.ID,
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to delete post", http.StatusInternalServerError)
				return
			}
			respondWithResult(w, result)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandlePostLikes toggles the caller's like on a community post
func (s *Server) HandlePostLikes() http.HandlerFunc {
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
			PostID string `json:"postId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetCommunityPostActor(), &actors.TogglePostLikeMsg{
			PostID: postID,
			User:   models.UserRef{UserID: requester.ID, Name: requester.Name},
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to toggle like", http.StatusInternalServerError)
			return
		}
		respondWithResult(w, result)
	}
}

// HandlePostComments appends a flat comment to a community post
func (s *Server) HandlePostComments() http.HandlerFunc {
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
			PostID  string `json:"postId"`
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetCommunityPostActor(), &actors.AddPostCommentMsg{
			PostID:  postID,
			Author:  models.UserRef{UserID: requester.ID, Name: requester.Name},
			Content: req.Content,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to add comment", http.StatusInternalServerError)
			return
		}
		respondWithResult(w, result)
	}
}
