package contract

import (
	"math/rand"
	"testing"

	"swamp-ledger/internal/kv"
	"swamp-ledger/internal/models"
	"swamp-ledger/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func createPost(t *testing.T, contract *Contract, author uuid.UUID, content string) models.PostID {
	t.Helper()
	post, _, err := contract.CreatePost(testEnv(author, 1), models.PostRegular, nil, content)
	assert.NoError(t, err)
	return post.ID
}

func TestReactIdempotence(t *testing.T) {
	contract, _ := newTestContract()
	alice := uuid.New()
	postID := createPost(t, contract, uuid.New(), "POST 1")

	outcome, post, events, err := contract.React(testEnv(alice, 2), postID, models.ReactionLike)
	assert.NoError(t, err)
	assert.Equal(t, models.ReactionCreated, outcome)
	assert.Equal(t, uint64(1), post.LikeCount)
	assert.Len(t, events, 1)
	assert.Equal(t, models.EventReactionSet, events[0].Type)

	// Same kind again: no-op, no event, counter stays at one
	outcome, post, events, err = contract.React(testEnv(alice, 3), postID, models.ReactionLike)
	assert.NoError(t, err)
	assert.Equal(t, models.ReactionUnchanged, outcome)
	assert.Equal(t, uint64(1), post.LikeCount)
	assert.Empty(t, events)
}

func TestReactToggle(t *testing.T) {
	contract, _ := newTestContract()
	alice := uuid.New()
	postID := createPost(t, contract, uuid.New(), "POST 1")

	outcome, _, _, err := contract.React(testEnv(alice, 2), postID, models.ReactionLike)
	assert.NoError(t, err)
	assert.Equal(t, models.ReactionCreated, outcome)

	outcome, post, _, err := contract.React(testEnv(alice, 3), postID, models.ReactionDislike)
	assert.NoError(t, err)
	assert.Equal(t, models.ReactionChanged, outcome)
	assert.Equal(t, uint64(0), post.LikeCount)
	assert.Equal(t, uint64(1), post.DislikeCount)

	reaction, exists, err := contract.GetReaction(postID, alice)
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, models.ReactionDislike, reaction.Kind)
}

func TestReactMissingPost(t *testing.T) {
	contract, store := newTestContract()
	before := store.Len()

	_, _, _, err := contract.React(testEnv(uuid.New(), 1), 999, models.ReactionLike)
	assert.True(t, utils.IsErrorCode(err, utils.ErrPostNotFound))
	assert.Equal(t, before, store.Len())
}

func TestReactInvalidKind(t *testing.T) {
	contract, _ := newTestContract()
	postID := createPost(t, contract, uuid.New(), "POST 1")

	_, _, _, err := contract.React(testEnv(uuid.New(), 2), postID, models.ReactionKind("love"))
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
}

func TestReactIsolationAcrossAccounts(t *testing.T) {
	contract, _ := newTestContract()
	alice := uuid.New()
	bob := uuid.New()
	postID := createPost(t, contract, uuid.New(), "POST 1")

	_, _, _, err := contract.React(testEnv(alice, 2), postID, models.ReactionLike)
	assert.NoError(t, err)
	_, _, _, err = contract.React(testEnv(bob, 3), postID, models.ReactionDislike)
	assert.NoError(t, err)

	aliceReaction, exists, err := contract.GetReaction(postID, alice)
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, models.ReactionLike, aliceReaction.Kind)

	bobReaction, exists, err := contract.GetReaction(postID, bob)
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, models.ReactionDislike, bobReaction.Kind)
}

func TestReactScenario(t *testing.T) {
	contract, _ := newTestContract()
	author := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	post, _, err := contract.CreatePost(testEnv(author, 1), models.PostRegular, nil, "hello")
	assert.NoError(t, err)
	assert.Equal(t, models.PostID(1), post.ID)

	outcome, post, _, err := contract.React(testEnv(alice, 2), 1, models.ReactionLike)
	assert.NoError(t, err)
	assert.Equal(t, models.ReactionCreated, outcome)
	assert.Equal(t, uint64(1), post.LikeCount)

	outcome, post, _, err = contract.React(testEnv(bob, 3), 1, models.ReactionDislike)
	assert.NoError(t, err)
	assert.Equal(t, models.ReactionCreated, outcome)
	assert.Equal(t, uint64(1), post.DislikeCount)

	outcome, post, _, err = contract.React(testEnv(alice, 4), 1, models.ReactionDislike)
	assert.NoError(t, err)
	assert.Equal(t, models.ReactionChanged, outcome)
	assert.Equal(t, uint64(0), post.LikeCount)
	assert.Equal(t, uint64(2), post.DislikeCount)
}

func TestRemoveReaction(t *testing.T) {
	contract, _ := newTestContract()
	alice := uuid.New()
	postID := createPost(t, contract, uuid.New(), "POST 1")

	_, _, _, err := contract.React(testEnv(alice, 2), postID, models.ReactionLike)
	assert.NoError(t, err)

	post, events, err := contract.RemoveReaction(testEnv(alice, 3), postID)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), post.LikeCount)
	assert.Len(t, events, 1)
	assert.Equal(t, models.EventReactionRemoved, events[0].Type)
	assert.Equal(t, models.ReactionLike, events[0].Kind)

	_, exists, err := contract.GetReaction(postID, alice)
	assert.NoError(t, err)
	assert.False(t, exists)

	// Removing again fails, removing on a missing post fails
	_, _, err = contract.RemoveReaction(testEnv(alice, 4), postID)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNoReaction))
	_, _, err = contract.RemoveReaction(testEnv(alice, 5), 999)
	assert.True(t, utils.IsErrorCode(err, utils.ErrPostNotFound))
}

// Replays a pseudo-random call sequence and recounts the reaction records
// after every call; the denormalized counters must always match.
func TestCountersMatchReactionRecords(t *testing.T) {
	contract, _ := newTestContract()
	rng := rand.New(rand.NewSource(42))

	accounts := make([]uuid.UUID, 5)
	for i := range accounts {
		accounts[i] = uuid.New()
	}
	var postIDs []models.PostID
	for i := 0; i < 3; i++ {
		postIDs = append(postIDs, createPost(t, contract, accounts[0], "post"))
	}
	kinds := []models.ReactionKind{models.ReactionLike, models.ReactionDislike}

	for block := uint64(10); block < 210; block++ {
		account := accounts[rng.Intn(len(accounts))]
		postID := postIDs[rng.Intn(len(postIDs))]
		env := testEnv(account, block)

		if rng.Intn(5) == 0 {
			_, _, err := contract.RemoveReaction(env, postID)
			if err != nil {
				assert.True(t, utils.IsErrorCode(err, utils.ErrNoReaction))
			}
		} else {
			_, _, _, err := contract.React(env, postID, kinds[rng.Intn(2)])
			assert.NoError(t, err)
		}

		for _, id := range postIDs {
			post, err := contract.GetPost(id)
			assert.NoError(t, err)

			var likes, dislikes uint64
			for _, acct := range accounts {
				reaction, exists, err := contract.GetReaction(id, acct)
				assert.NoError(t, err)
				if !exists {
					continue
				}
				if reaction.Kind == models.ReactionLike {
					likes++
				} else {
					dislikes++
				}
			}
			assert.Equal(t, likes, post.LikeCount, "like count drifted on post %d", id)
			assert.Equal(t, dislikes, post.DislikeCount, "dislike count drifted on post %d", id)
		}
	}
}

// A store whose batch commit can be made to fail, to prove nothing partial
// leaks when a commit cannot complete.
type flakyStore struct {
	*kv.Memory
	failBatch bool
}

func (f *flakyStore) ApplyBatch(ops []kv.Op) error {
	if f.failBatch {
		return assert.AnError
	}
	return f.Memory.ApplyBatch(ops)
}

func TestFailedCommitLeavesNoPartialState(t *testing.T) {
	flaky := &flakyStore{Memory: kv.NewMemory()}
	contract := New(flaky, 64)
	alice := uuid.New()

	postID := createPost(t, contract, uuid.New(), "POST 1")
	_, _, _, err := contract.React(testEnv(alice, 2), postID, models.ReactionLike)
	assert.NoError(t, err)

	// The toggle buffers the reaction flip and the counter move as one
	// batch; when the store rejects the batch nothing may change.
	flaky.failBatch = true
	_, _, _, err = contract.React(testEnv(alice, 3), postID, models.ReactionDislike)
	assert.True(t, utils.IsErrorCode(err, utils.ErrStore))

	post, err := contract.GetPost(postID)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), post.LikeCount)
	assert.Equal(t, uint64(0), post.DislikeCount)

	reaction, exists, err := contract.GetReaction(postID, alice)
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, models.ReactionLike, reaction.Kind)
}
