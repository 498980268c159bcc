// Package simulator drives a running host with a randomized post/reaction
// workload and then re-checks the ledger's counter invariants from the
// outside.
package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

type SimConfig struct {
	NumAccounts  int
	NumPosts     int
	NumReactions int
	RemoveRate   float64 // fraction of reaction calls that try a removal
	CommentRate  float64 // fraction of posts created as comments
	Seed         int64
	HostURL      string
}

type SimulationStats struct {
	mu               sync.RWMutex
	StartTime        time.Time
	TotalRequests    int64
	SuccessRequests  int64
	FailedRequests   int64
	RequestLatencies []time.Duration
}

func (st *SimulationStats) record(latency time.Duration, ok bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.TotalRequests++
	if ok {
		st.SuccessRequests++
	} else {
		st.FailedRequests++
	}
	st.RequestLatencies = append(st.RequestLatencies, latency)
}

// SimulatedAccount mirrors the reactions the account should hold, so the
// final verification can recount expected totals locally.
type SimulatedAccount struct {
	ID        uuid.UUID
	Username  string
	Token     string
	Reactions map[uint64]string // postID -> held kind
}

type Simulator struct {
	config   SimConfig
	stats    *SimulationStats
	accounts []*SimulatedAccount
	postIDs  []uint64
	rng      *rand.Rand
	client   *http.Client
}

func NewSimulator(config SimConfig) *Simulator {
	return &Simulator{
		config: config,
		stats: &SimulationStats{
			StartTime: time.Now(),
		},
		rng: rand.New(rand.NewSource(config.Seed)),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type postResponse struct {
	ID           uint64 `json:"id"`
	LikeCount    uint64 `json:"likeCount"`
	DislikeCount uint64 `json:"dislikeCount"`
}

type reactResponse struct {
	Outcome string       `json:"outcome"`
	Post    postResponse `json:"post"`
}

type loginResponse struct {
	Token string `json:"token"`
	Account struct {
		ID uuid.UUID `json:"id"`
	} `json:"account"`
}

func (s *Simulator) postJSON(ctx context.Context, method, path, token string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.HostURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	startTime := time.Now()
	resp, err := s.client.Do(req)
	latency := time.Since(startTime)
	if err != nil {
		s.stats.record(latency, false)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.stats.record(latency, false)
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	s.stats.record(latency, true)

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Setup registers the accounts and creates the post population.
func (s *Simulator) Setup(ctx context.Context) error {
	for i := 0; i < s.config.NumAccounts; i++ {
		username := fmt.Sprintf("sim-account-%d", i)
		credentials := map[string]string{
			"username": username,
			"password": "simulation",
		}
		if err := s.postJSON(ctx, "POST", "/account/register", "", credentials, nil); err != nil {
			return fmt.Errorf("register %s: %w", username, err)
		}

		var login loginResponse
		if err := s.postJSON(ctx, "POST", "/account/login", "", credentials, &login); err != nil {
			return fmt.Errorf("login %s: %w", username, err)
		}
		s.accounts = append(s.accounts, &SimulatedAccount{
			ID:        login.Account.ID,
			Username:  username,
			Token:     login.Token,
			Reactions: make(map[uint64]string),
		})
	}

	for i := 0; i < s.config.NumPosts; i++ {
		author := s.accounts[s.rng.Intn(len(s.accounts))]
		body := map[string]interface{}{
			"content": fmt.Sprintf("simulated post %d", i),
		}
		if len(s.postIDs) > 0 && s.rng.Float64() < s.config.CommentRate {
			body["parentId"] = s.postIDs[s.rng.Intn(len(s.postIDs))]
		}

		var post postResponse
		if err := s.postJSON(ctx, "POST", "/post", author.Token, body, &post); err != nil {
			return fmt.Errorf("create post %d: %w", i, err)
		}
		s.postIDs = append(s.postIDs, post.ID)
	}
	return nil
}

// SimulateReactions fires the randomized reaction workload, mirroring each
// expected transition locally.
func (s *Simulator) SimulateReactions(ctx context.Context) error {
	kinds := []string{"like", "dislike"}

	for i := 0; i < s.config.NumReactions; i++ {
		account := s.accounts[s.rng.Intn(len(s.accounts))]
		postID := s.postIDs[s.rng.Intn(len(s.postIDs))]

		if s.rng.Float64() < s.config.RemoveRate {
			err := s.postJSON(ctx, "DELETE", "/post/react", account.Token,
				map[string]uint64{"postId": postID}, nil)
			if _, held := account.Reactions[postID]; held {
				if err != nil {
					return fmt.Errorf("remove reaction: %w", err)
				}
				delete(account.Reactions, postID)
			} else if err == nil {
				return fmt.Errorf("removing a missing reaction on post %d unexpectedly succeeded", postID)
			}
			continue
		}

		kind := kinds[s.rng.Intn(2)]
		expected := "created"
		if held, ok := account.Reactions[postID]; ok {
			if held == kind {
				expected = "unchanged"
			} else {
				expected = "changed"
			}
		}

		var reacted reactResponse
		if err := s.postJSON(ctx, "POST", "/post/react", account.Token,
			map[string]interface{}{"postId": postID, "kind": kind}, &reacted); err != nil {
			return fmt.Errorf("react: %w", err)
		}
		if reacted.Outcome != expected {
			return fmt.Errorf("post %d: expected outcome %s, got %s", postID, expected, reacted.Outcome)
		}
		account.Reactions[postID] = kind
	}
	return nil
}

// VerifyInvariants recounts every post's reactions from the local mirrors
// and compares them against the counters the host reports.
func (s *Simulator) VerifyInvariants(ctx context.Context) error {
	token := s.accounts[0].Token

	for _, postID := range s.postIDs {
		var likes, dislikes uint64
		for _, account := range s.accounts {
			switch account.Reactions[postID] {
			case "like":
				likes++
			case "dislike":
				dislikes++
			}
		}

		var post postResponse
		path := fmt.Sprintf("/post?id=%d", postID)
		if err := s.postJSON(ctx, "GET", path, token, nil, &post); err != nil {
			return fmt.Errorf("get post %d: %w", postID, err)
		}
		if post.LikeCount != likes || post.DislikeCount != dislikes {
			return fmt.Errorf("post %d: counters (%d likes, %d dislikes) drifted from records (%d, %d)",
				postID, post.LikeCount, post.DislikeCount, likes, dislikes)
		}
	}
	return nil
}

// Run executes the full simulation and returns the stats summary.
func (s *Simulator) Run(ctx context.Context) (*SimulationStats, error) {
	if err := s.Setup(ctx); err != nil {
		return s.stats, err
	}
	if err := s.SimulateReactions(ctx); err != nil {
		return s.stats, err
	}
	if err := s.VerifyInvariants(ctx); err != nil {
		return s.stats, err
	}
	return s.stats, nil
}

// Summary formats the request totals and average latency.
func (st *SimulationStats) Summary() string {
	st.mu.RLock()
	defer st.mu.RUnlock()

	var total time.Duration
	for _, latency := range st.RequestLatencies {
		total += latency
	}
	average := time.Duration(0)
	if len(st.RequestLatencies) > 0 {
		average = total / time.Duration(len(st.RequestLatencies))
	}
	return fmt.Sprintf("requests=%d success=%d failed=%d avg_latency=%s elapsed=%s",
		st.TotalRequests, st.SuccessRequests, st.FailedRequests,
		average, time.Since(st.StartTime).Round(time.Millisecond))
}
