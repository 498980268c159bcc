package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"swamp-ledger/internal/engine/actors"
	"swamp-ledger/internal/middleware"
	"swamp-ledger/internal/models"

	"github.com/google/uuid"
)

// CreatePostRequest represents a request to create a new post. A non-nil
// parentId makes it a comment on that post.
type CreatePostRequest struct {
	Content  string  `json:"content"`
	ParentID *uint64 `json:"parentId,omitempty"`
}

// ReactRequest represents a request to set or remove a reaction
type ReactRequest struct {
	PostID uint64 `json:"postId"`
	Kind   string `json:"kind,omitempty"` // "like" or "dislike"; unused on remove
}

// HandlePost handles post creation and lookup. Caller identity comes from
// the JWT context, never from the request body.
func (s *Server) HandlePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			author, ok := middleware.GetAccountIDFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			var req CreatePostRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			msg := &actors.CreatePostMsg{
				Author:  author,
				Kind:    models.PostRegular,
				Content: req.Content,
			}
			if req.ParentID != nil {
				parentID := models.PostID(*req.ParentID)
				msg.Kind = models.PostComment
				msg.ParentID = &parentID
			}

			result, appErr := s.request(s.Engine.GetContractActor(), msg)
			if appErr != nil {
				writeAppError(w, appErr)
				return
			}
			writeJSON(w, http.StatusOK, result)

		case http.MethodGet:
			postID, err := strconv.ParseUint(r.URL.Query().Get("id"), 10, 64)
			if err != nil {
				http.Error(w, "Invalid post ID format", http.StatusBadRequest)
				return
			}

			result, appErr := s.request(s.Engine.GetContractActor(), &actors.GetPostMsg{
				PostID: models.PostID(postID),
			})
			if appErr != nil {
				writeAppError(w, appErr)
				return
			}
			writeJSON(w, http.StatusOK, result)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleReact sets (POST) or removes (DELETE) the caller's reaction
func (s *Server) HandleReact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := middleware.GetAccountIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req ReactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		switch r.Method {
		case http.MethodPost:
			result, appErr := s.request(s.Engine.GetContractActor(), &actors.ReactMsg{
				PostID:  models.PostID(req.PostID),
				Account: account,
				Kind:    models.ReactionKind(req.Kind),
			})
			if appErr != nil {
				writeAppError(w, appErr)
				return
			}
			writeJSON(w, http.StatusOK, result)

		case http.MethodDelete:
			result, appErr := s.request(s.Engine.GetContractActor(), &actors.RemoveReactionMsg{
				PostID:  models.PostID(req.PostID),
				Account: account,
			})
			if appErr != nil {
				writeAppError(w, appErr)
				return
			}
			writeJSON(w, http.StatusOK, result)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleReaction queries a reaction record. The account defaults to the
// caller and can be overridden with ?account=.
func (s *Server) HandleReaction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		account, ok := middleware.GetAccountIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if accountParam := r.URL.Query().Get("account"); accountParam != "" {
			parsed, err := uuid.Parse(accountParam)
			if err != nil {
				http.Error(w, "Invalid account ID format", http.StatusBadRequest)
				return
			}
			account = parsed
		}

		postID, err := strconv.ParseUint(r.URL.Query().Get("postId"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		result, appErr := s.request(s.Engine.GetContractActor(), &actors.GetReactionMsg{
			PostID:  models.PostID(postID),
			Account: account,
		})
		if appErr != nil {
			writeAppError(w, appErr)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// HandleHealth handles health check requests
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		result, appErr := s.request(s.Engine.GetContractActor(), &actors.GetCountsMsg{})
		if appErr != nil {
			writeAppError(w, appErr)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":      "healthy",
			"post_count":  result.(int),
			"server_time": time.Now(),
		})
	}
}

// HandleMetrics reports operation latency stats
func (s *Server) HandleMetrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		operations, requests, errors, uptime := s.Metrics.Snapshot()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"operations": operations,
			"requests":   requests,
			"errors":     errors,
			"uptime":     uptime.String(),
		})
	}
}
