package contract

import (
	"encoding/json"
	"fmt"
	"strconv"

	"swamp-ledger/internal/kv"
	"swamp-ledger/internal/models"
	"swamp-ledger/internal/utils"

	"github.com/google/uuid"
)

const reactionKeyPrefix = "reaction:"

func reactionKey(id models.PostID, account uuid.UUID) string {
	return reactionKeyPrefix + strconv.FormatUint(uint64(id), 10) + ":" + account.String()
}

// reactionIndex enforces at most one reaction per (post, account) and keeps
// the ledger's counters in step with every change.
type reactionIndex struct {
	store kv.Store
	posts *postLedger
}

func newReactionIndex(store kv.Store, posts *postLedger) *reactionIndex {
	return &reactionIndex{
		store: store,
		posts: posts,
	}
}

// react walks the per-(post, account) state machine: no reaction -> insert,
// same kind -> no-op, different kind -> flip the record and move one count
// from the old kind to the new. The flip's decrement+increment pair rides the
// same staged overlay as the rest of the call, so it commits as one unit.
func (ix *reactionIndex) react(env CallEnv, postID models.PostID, kind models.ReactionKind) (models.ReactionOutcome, error) {
	if _, err := ix.posts.get(postID); err != nil {
		return "", err
	}

	existing, hasReacted, err := ix.lookup(postID, env.Caller)
	if err != nil {
		return "", err
	}

	if !hasReacted {
		reaction := &models.Reaction{
			PostID:  postID,
			Account: env.Caller,
			Kind:    kind,
		}
		if err := ix.put(reaction); err != nil {
			return "", err
		}
		if err := ix.posts.incrementCounter(postID, kind); err != nil {
			return "", err
		}
		return models.ReactionCreated, nil
	}

	if existing.Kind == kind {
		// Re-submitting the held kind changes nothing
		return models.ReactionUnchanged, nil
	}

	oldKind := existing.Kind
	existing.Kind = kind
	if err := ix.put(existing); err != nil {
		return "", err
	}
	if err := ix.posts.decrementCounter(postID, oldKind); err != nil {
		return "", err
	}
	if err := ix.posts.incrementCounter(postID, kind); err != nil {
		return "", err
	}
	return models.ReactionChanged, nil
}

// remove deletes the caller's reaction and releases its count.
func (ix *reactionIndex) remove(env CallEnv, postID models.PostID) (*models.Reaction, error) {
	if _, err := ix.posts.get(postID); err != nil {
		return nil, err
	}

	existing, hasReacted, err := ix.lookup(postID, env.Caller)
	if err != nil {
		return nil, err
	}
	if !hasReacted {
		return nil, utils.NewAppError(utils.ErrNoReaction,
			fmt.Sprintf("no reaction to remove on post %d", postID), nil)
	}

	if err := ix.store.Remove(reactionKey(postID, env.Caller)); err != nil {
		return nil, utils.NewAppError(utils.ErrStore, "failed to remove reaction", err)
	}
	if err := ix.posts.decrementCounter(postID, existing.Kind); err != nil {
		return nil, err
	}
	return existing, nil
}

func (ix *reactionIndex) lookup(postID models.PostID, account uuid.UUID) (*models.Reaction, bool, error) {
	raw, exists, err := ix.store.Get(reactionKey(postID, account))
	if err != nil {
		return nil, false, utils.NewAppError(utils.ErrStore, "failed to read reaction", err)
	}
	if !exists {
		return nil, false, nil
	}

	var reaction models.Reaction
	if err := json.Unmarshal(raw, &reaction); err != nil {
		return nil, false, utils.NewAppError(utils.ErrStore, "corrupt reaction record", err)
	}
	return &reaction, true, nil
}

func (ix *reactionIndex) put(reaction *models.Reaction) error {
	raw, err := json.Marshal(reaction)
	if err != nil {
		return utils.NewAppError(utils.ErrStore, "failed to encode reaction", err)
	}
	if err := ix.store.Set(reactionKey(reaction.PostID, reaction.Account), raw); err != nil {
		return utils.NewAppError(utils.ErrStore, "failed to write reaction", err)
	}
	return nil
}
