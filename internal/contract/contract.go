// Package contract is the deterministic state-transition core of the posting
// ledger. Entry points receive a host-supplied CallEnv (caller identity,
// logical block, logical time) and run against key-value storage. Every call
// stages its writes on an overlay and commits them as one batch on success;
// any error drops the overlay, so a failed call leaves no trace.
package contract

import (
	"swamp-ledger/internal/kv"
	"swamp-ledger/internal/models"
	"swamp-ledger/internal/utils"

	"github.com/google/uuid"
)

const DefaultMaxContentBytes = 4096

// Contract exposes the callable entry points and the read-only query
// surface. It is not safe for concurrent mutating calls; the host serializes
// dispatch (the engine runs it inside a single actor).
type Contract struct {
	store           kv.Store
	maxContentBytes int
}

func New(store kv.Store, maxContentBytes int) *Contract {
	if maxContentBytes <= 0 {
		maxContentBytes = DefaultMaxContentBytes
	}
	return &Contract{
		store:           store,
		maxContentBytes: maxContentBytes,
	}
}

// CreatePost allocates the next id and stores the post. For comments the
// parent gains a back-reference in the same commit. A rejected call consumes
// no id.
func (c *Contract) CreatePost(env CallEnv, kind models.PostKind, parentID *models.PostID, content string) (*models.Post, []models.Event, error) {
	if kind != models.PostRegular && kind != models.PostComment {
		return nil, nil, utils.NewAppError(utils.ErrInvalidInput, "unknown post kind: "+string(kind), nil)
	}

	stage := kv.NewStaged(c.store)
	ledger := newPostLedger(stage, c.maxContentBytes)

	post, err := ledger.create(env, kind, parentID, content)
	if err != nil {
		return nil, nil, err
	}
	if err := stage.Commit(); err != nil {
		return nil, nil, utils.NewAppError(utils.ErrStore, "failed to commit call", err)
	}

	events := []models.Event{{
		Type:    models.EventPostCreated,
		Account: env.Caller,
		PostID:  post.ID,
	}}
	return post, events, nil
}

// React applies the caller's reaction to a post and returns the outcome
// along with the post's committed state.
func (c *Contract) React(env CallEnv, postID models.PostID, kind models.ReactionKind) (models.ReactionOutcome, *models.Post, []models.Event, error) {
	if !models.ValidReactionKind(kind) {
		return "", nil, nil, utils.NewAppError(utils.ErrInvalidInput, "unknown reaction kind: "+string(kind), nil)
	}

	stage := kv.NewStaged(c.store)
	ledger := newPostLedger(stage, c.maxContentBytes)
	index := newReactionIndex(stage, ledger)

	outcome, err := index.react(env, postID, kind)
	if err != nil {
		return "", nil, nil, err
	}
	post, err := ledger.get(postID)
	if err != nil {
		return "", nil, nil, err
	}
	if err := stage.Commit(); err != nil {
		return "", nil, nil, utils.NewAppError(utils.ErrStore, "failed to commit call", err)
	}

	var events []models.Event
	if outcome != models.ReactionUnchanged {
		events = append(events, models.Event{
			Type:    models.EventReactionSet,
			Account: env.Caller,
			PostID:  postID,
			Kind:    kind,
		})
	}
	return outcome, post, events, nil
}

// RemoveReaction deletes the caller's reaction on a post.
func (c *Contract) RemoveReaction(env CallEnv, postID models.PostID) (*models.Post, []models.Event, error) {
	stage := kv.NewStaged(c.store)
	ledger := newPostLedger(stage, c.maxContentBytes)
	index := newReactionIndex(stage, ledger)

	removed, err := index.remove(env, postID)
	if err != nil {
		return nil, nil, err
	}
	post, err := ledger.get(postID)
	if err != nil {
		return nil, nil, err
	}
	if err := stage.Commit(); err != nil {
		return nil, nil, utils.NewAppError(utils.ErrStore, "failed to commit call", err)
	}

	events := []models.Event{{
		Type:    models.EventReactionRemoved,
		Account: env.Caller,
		PostID:  postID,
		Kind:    removed.Kind,
	}}
	return post, events, nil
}

// GetPost is a pure read.
func (c *Contract) GetPost(id models.PostID) (*models.Post, error) {
	return newPostLedger(c.store, c.maxContentBytes).get(id)
}

// GetReaction is a pure read; the bool reports presence.
func (c *Contract) GetReaction(postID models.PostID, account uuid.UUID) (*models.Reaction, bool, error) {
	ledger := newPostLedger(c.store, c.maxContentBytes)
	return newReactionIndex(c.store, ledger).lookup(postID, account)
}

// PostCount reports how many posts have been created.
func (c *Contract) PostCount() (uint64, error) {
	return newPostLedger(c.store, c.maxContentBytes).count()
}
