package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"club-pulse/internal/engine/actors"
	"club-pulse/internal/middleware"
	"club-pulse/internal/models"
	"club-pulse/internal/utils"

	"github.com/google/uuid"
)

// RegisterRequest represents a request to register a new user
type RegisterRequest struct {
	Name         string `json:"name"`
	PhoneNumber  string `json:"phoneNumber"`
	Password     string `json:"password"`
	SelectedClub string `json:"selectedClub"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// HandleRegister creates a new user account
func (s *Server) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetUserActor(), &actors.RegisterUserMsg{
			Name:         req.Name,
			PhoneNumber:  req.PhoneNumber,
			Password:     req.Password,
			SelectedClub: req.SelectedClub,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to register user", http.StatusInternalServerError)
			return
		}

		respondWithResult(w, result)
	}
}

// HandleLogin verifies credentials and mints a JWT on success
func (s *Server) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetUserActor(), &actors.LoginMsg{
			PhoneNumber: req.PhoneNumber,
			Password:    req.Password,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to process login", http.StatusInternalServerError)
			return
		}

		loginResp, ok := result.(*models.LoginResponse)
		if !ok {
			respondWithResult(w, result)
			return
		}

		if !loginResp.Success {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(loginResp)
			return
		}

		userID, err := uuid.Parse(loginResp.UserID)
		if err != nil {
			http.Error(w, "Invalid user ID in login response", http.StatusInternalServerError)
			return
		}

		token, err := middleware.GenerateToken(userID)
		if err != nil {
			log.Printf("Failed to generate token: %v", err)
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}
		loginResp.Token = token

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(loginResp)
	}
}

// HandleUserProfile serves and updates the authenticated user's profile
func (s *Server) HandleUserProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			userID, ok := requesterID(r)
			if !ok {
				// Allow admins and tools to look up by explicit ID
				id := r.URL.Query().Get("userId")
				parsed, err := uuid.Parse(id)
				if err != nil {
					http.Error(w, "User ID required", http.StatusBadRequest)
					return
				}
				userID = parsed
			}

			future := s.Context.RequestFuture(s.Engine.GetUserActor(),
				&actors.GetUserProfileMsg{UserID: userID}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to get user profile", http.StatusInternalServerError)
				return
			}

			respondWithResult(w, result)

		case http.MethodPut:
			userID, ok := requesterID(r)
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			var req struct {
				SelectedClub string `json:"selectedClub"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}
			if req.SelectedClub == "" {
				http.Error(w, "selectedClub required", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetUserActor(),
				&actors.UpdateSelectedClubMsg{UserID: userID, SelectedClub: req.SelectedClub},
				s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to update profile", http.StatusInternalServerError)
				return
			}

			respondWithResult(w, result)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// resolveRequester looks up the authenticated caller's full record so
// handlers can stamp mutations with the right identity.
func (s *Server) resolveRequester(r *http.Request) (*models.User, *utils.AppError) {
	userID, ok := requesterID(r)
	if !ok {
		return nil, utils.NewAppError(utils.ErrUnauthorized, "authentication required", nil)
	}

	future := s.Context.RequestFuture(s.Engine.GetUserActor(),
		&actors.GetUserProfileMsg{UserID: userID}, s.RequestTimeout)

	result, err := future.Result()
	if err != nil {
		return nil, utils.NewActorTimeoutError("user")
	}

	if appErr, ok := result.(*utils.AppError); ok {
		return nil, appErr
	}

	user, ok := result.(*models.User)
	if !ok {
		return nil, utils.NewAppError(utils.ErrDatabase, "unexpected user lookup result", nil)
	}

	return user, nil
}
