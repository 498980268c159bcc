package actors

import (
	"testing"
	"time"

	"swamp-ledger/internal/contract"
	"swamp-ledger/internal/kv"
	"swamp-ledger/internal/models"
	"swamp-ledger/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestContractActor(t *testing.T) {
	system := actor.NewActorSystem()
	metrics := utils.NewMetricsCollector()
	ledger := contract.New(kv.NewMemory(), 0)

	var published []models.Event
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewContractActor(ledger, metrics, func(e models.Event) {
			published = append(published, e)
		})
	})
	pid := system.Root.Spawn(props)

	alice := uuid.New()
	bob := uuid.New()

	// Create a post
	future := system.Root.RequestFuture(pid, &CreatePostMsg{
		Author:  alice,
		Content: "hello",
	}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)

	post := result.(*models.Post)
	assert.Equal(t, models.PostID(1), post.ID)
	assert.Equal(t, alice, post.Author)
	assert.Equal(t, uint64(1), post.Created.Block)

	// Bob reacts, then flips
	future = system.Root.RequestFuture(pid, &ReactMsg{
		PostID:  post.ID,
		Account: bob,
		Kind:    models.ReactionLike,
	}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)

	reacted := result.(*ReactResult)
	assert.Equal(t, models.ReactionCreated, reacted.Outcome)
	assert.Equal(t, uint64(1), reacted.Post.LikeCount)

	future = system.Root.RequestFuture(pid, &ReactMsg{
		PostID:  post.ID,
		Account: bob,
		Kind:    models.ReactionDislike,
	}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)

	reacted = result.(*ReactResult)
	assert.Equal(t, models.ReactionChanged, reacted.Outcome)
	assert.Equal(t, uint64(0), reacted.Post.LikeCount)
	assert.Equal(t, uint64(1), reacted.Post.DislikeCount)

	// Query the reaction back
	future = system.Root.RequestFuture(pid, &GetReactionMsg{
		PostID:  post.ID,
		Account: bob,
	}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)

	reaction := result.(*models.Reaction)
	assert.Equal(t, models.ReactionDislike, reaction.Kind)

	// Reacting to a missing post yields an application error
	future = system.Root.RequestFuture(pid, &ReactMsg{
		PostID:  999,
		Account: bob,
		Kind:    models.ReactionLike,
	}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)

	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrPostNotFound, appErr.Code)

	// Post count reflects successful creations only
	future = system.Root.RequestFuture(pid, &GetCountsMsg{}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, 1, result.(int))

	// One event per committed mutation: create, react, flip
	assert.Len(t, published, 3)
	assert.Equal(t, models.EventPostCreated, published[0].Type)
	assert.Equal(t, models.EventReactionSet, published[1].Type)
	assert.Equal(t, models.EventReactionSet, published[2].Type)
}

func TestAccountActor(t *testing.T) {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewAccountActor(kv.NewMemory())
	})
	pid := system.Root.Spawn(props)

	// Register
	future := system.Root.RequestFuture(pid, &RegisterAccountMsg{
		Username: "alice",
		Password: "password123",
	}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)

	account := result.(*models.Account)
	assert.Equal(t, "alice", account.Username)

	// Duplicate registration is rejected
	future = system.Root.RequestFuture(pid, &RegisterAccountMsg{
		Username: "alice",
		Password: "other",
	}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, utils.ErrAccountExists, result.(*utils.AppError).Code)

	// Login with correct and wrong credentials
	future = system.Root.RequestFuture(pid, &LoginMsg{
		Username: "alice",
		Password: "password123",
	}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, account.ID, result.(*models.Account).ID)

	future = system.Root.RequestFuture(pid, &LoginMsg{
		Username: "alice",
		Password: "wrong",
	}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, utils.ErrInvalidCredentials, result.(*utils.AppError).Code)
}
