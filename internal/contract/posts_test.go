package contract

import (
	"strings"
	"testing"

	"swamp-ledger/internal/kv"
	"swamp-ledger/internal/models"
	"swamp-ledger/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestContract() (*Contract, *kv.Memory) {
	store := kv.NewMemory()
	return New(store, 64), store
}

func testEnv(caller uuid.UUID, block uint64) CallEnv {
	return CallEnv{Caller: caller, Block: block, Time: block * 6000}
}

func TestCreatePost(t *testing.T) {
	contract, _ := newTestContract()
	author := uuid.New()

	post, events, err := contract.CreatePost(testEnv(author, 1), models.PostRegular, nil, "POST 1")
	assert.NoError(t, err)
	assert.Equal(t, models.PostID(1), post.ID)
	assert.Equal(t, author, post.Author)
	assert.Equal(t, "POST 1", post.Content)
	assert.Equal(t, uint64(1), post.Created.Block)
	assert.Equal(t, uint64(0), post.LikeCount)
	assert.Equal(t, uint64(0), post.DislikeCount)
	assert.Len(t, events, 1)
	assert.Equal(t, models.EventPostCreated, events[0].Type)

	stored, err := contract.GetPost(1)
	assert.NoError(t, err)
	assert.Equal(t, post, stored)
}

func TestCreatePostEmptyContent(t *testing.T) {
	contract, store := newTestContract()

	_, _, err := contract.CreatePost(testEnv(uuid.New(), 1), models.PostRegular, nil, "")
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidContent))
	assert.Equal(t, 0, store.Len())
}

func TestCreatePostContentTooLarge(t *testing.T) {
	contract, store := newTestContract()

	_, _, err := contract.CreatePost(testEnv(uuid.New(), 1), models.PostRegular, nil, strings.Repeat("x", 65))
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidContent))
	assert.Equal(t, 0, store.Len())
}

func TestPostIDsIncrementOnlyOnSuccess(t *testing.T) {
	contract, _ := newTestContract()
	author := uuid.New()

	first, _, err := contract.CreatePost(testEnv(author, 1), models.PostRegular, nil, "first")
	assert.NoError(t, err)
	assert.Equal(t, models.PostID(1), first.ID)

	// A rejected call must not consume an id
	_, _, err = contract.CreatePost(testEnv(author, 2), models.PostRegular, nil, "")
	assert.Error(t, err)

	second, _, err := contract.CreatePost(testEnv(author, 3), models.PostRegular, nil, "second")
	assert.NoError(t, err)
	assert.Equal(t, models.PostID(2), second.ID)

	count, err := contract.PostCount()
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestCreateComment(t *testing.T) {
	contract, _ := newTestContract()
	author := uuid.New()

	parent, _, err := contract.CreatePost(testEnv(author, 1), models.PostRegular, nil, "parent")
	assert.NoError(t, err)

	comment, _, err := contract.CreatePost(testEnv(author, 2), models.PostComment, &parent.ID, "comment")
	assert.NoError(t, err)
	assert.Equal(t, models.PostID(2), comment.ID)
	assert.NotNil(t, comment.ParentID)
	assert.Equal(t, parent.ID, *comment.ParentID)

	// Parent gains the back-reference in the same commit
	stored, err := contract.GetPost(parent.ID)
	assert.NoError(t, err)
	assert.Equal(t, []models.PostID{comment.ID}, stored.CommentIDs)
}

func TestCreateCommentInvalidParent(t *testing.T) {
	contract, _ := newTestContract()
	author := uuid.New()

	_, _, err := contract.CreatePost(testEnv(author, 1), models.PostRegular, nil, "parent")
	assert.NoError(t, err)

	missing := models.PostID(3)
	_, _, err = contract.CreatePost(testEnv(author, 2), models.PostComment, &missing, "orphan")
	assert.True(t, utils.IsErrorCode(err, utils.ErrParentNotFound))

	count, err := contract.PostCount()
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestGetPostNotFound(t *testing.T) {
	contract, _ := newTestContract()

	_, err := contract.GetPost(999)
	assert.True(t, utils.IsErrorCode(err, utils.ErrPostNotFound))
}
