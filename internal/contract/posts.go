package contract

import (
	"encoding/json"
	"fmt"
	"strconv"

	"swamp-ledger/internal/kv"
	"swamp-ledger/internal/models"
	"swamp-ledger/internal/utils"
)

const (
	postKeyPrefix = "post:"
	postCountKey  = "post_count"
)

func postKey(id models.PostID) string {
	return postKeyPrefix + strconv.FormatUint(uint64(id), 10)
}

// postLedger owns id allocation, post content and the aggregate counters.
// Counters are only ever adjusted through the reaction index.
type postLedger struct {
	store           kv.Store
	maxContentBytes int
}

func newPostLedger(store kv.Store, maxContentBytes int) *postLedger {
	return &postLedger{
		store:           store,
		maxContentBytes: maxContentBytes,
	}
}

func (l *postLedger) create(env CallEnv, kind models.PostKind, parentID *models.PostID, content string) (*models.Post, error) {
	if content == "" {
		return nil, utils.NewInvalidContentError("content is empty")
	}
	if len(content) > l.maxContentBytes {
		return nil, utils.NewInvalidContentError(
			fmt.Sprintf("content is %d bytes, maximum is %d", len(content), l.maxContentBytes))
	}

	count, err := l.count()
	if err != nil {
		return nil, err
	}
	id := models.PostID(count + 1)

	newPost := &models.Post{
		ID:     id,
		Author: env.Caller,
		Created: models.CreationInfo{
			Account: env.Caller,
			Block:   env.Block,
			Time:    env.Time,
		},
		Kind:    kind,
		Content: content,
	}

	if kind == models.PostComment {
		if parentID == nil {
			return nil, utils.NewAppError(utils.ErrInvalidInput, "comment requires a parent post id", nil)
		}
		parent, err := l.get(*parentID)
		if err != nil {
			if utils.IsErrorCode(err, utils.ErrPostNotFound) {
				return nil, utils.NewAppError(utils.ErrParentNotFound,
					fmt.Sprintf("parent post not found: %d", *parentID), nil)
			}
			return nil, err
		}
		parent.CommentIDs = append(parent.CommentIDs, id)
		if err := l.put(parent); err != nil {
			return nil, err
		}
		newPost.ParentID = parentID
	}

	if err := l.put(newPost); err != nil {
		return nil, err
	}
	if err := l.setCount(count + 1); err != nil {
		return nil, err
	}
	return newPost, nil
}

func (l *postLedger) get(id models.PostID) (*models.Post, error) {
	raw, exists, err := l.store.Get(postKey(id))
	if err != nil {
		return nil, utils.NewAppError(utils.ErrStore, "failed to read post", err)
	}
	if !exists {
		return nil, utils.NewPostNotFoundError(uint64(id))
	}

	var post models.Post
	if err := json.Unmarshal(raw, &post); err != nil {
		return nil, utils.NewAppError(utils.ErrStore, "corrupt post record", err)
	}
	return &post, nil
}

func (l *postLedger) put(post *models.Post) error {
	raw, err := json.Marshal(post)
	if err != nil {
		return utils.NewAppError(utils.ErrStore, "failed to encode post", err)
	}
	if err := l.store.Set(postKey(post.ID), raw); err != nil {
		return utils.NewAppError(utils.ErrStore, "failed to write post", err)
	}
	return nil
}

func (l *postLedger) count() (uint64, error) {
	raw, exists, err := l.store.Get(postCountKey)
	if err != nil {
		return 0, utils.NewAppError(utils.ErrStore, "failed to read post count", err)
	}
	if !exists {
		return 0, nil
	}
	count, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, utils.NewAppError(utils.ErrStore, "corrupt post count", err)
	}
	return count, nil
}

func (l *postLedger) setCount(count uint64) error {
	if err := l.store.Set(postCountKey, []byte(strconv.FormatUint(count, 10))); err != nil {
		return utils.NewAppError(utils.ErrStore, "failed to write post count", err)
	}
	return nil
}

// incrementCounter bumps the counter matching kind. Internal, reaction index
// only.
func (l *postLedger) incrementCounter(id models.PostID, kind models.ReactionKind) error {
	post, err := l.get(id)
	if err != nil {
		return err
	}
	switch kind {
	case models.ReactionLike:
		post.LikeCount++
	case models.ReactionDislike:
		post.DislikeCount++
	}
	return l.put(post)
}

// decrementCounter lowers the counter matching kind. The reaction index only
// calls this when a matching reaction exists, so hitting zero first is an
// invariant violation and aborts the call.
func (l *postLedger) decrementCounter(id models.PostID, kind models.ReactionKind) error {
	post, err := l.get(id)
	if err != nil {
		return err
	}
	switch kind {
	case models.ReactionLike:
		if post.LikeCount == 0 {
			return utils.NewAppError(utils.ErrCounterUnderflow,
				fmt.Sprintf("like counter underflow on post %d", id), nil)
		}
		post.LikeCount--
	case models.ReactionDislike:
		if post.DislikeCount == 0 {
			return utils.NewAppError(utils.ErrCounterUnderflow,
				fmt.Sprintf("dislike counter underflow on post %d", id), nil)
		}
		post.DislikeCount--
	}
	return l.put(post)
}
