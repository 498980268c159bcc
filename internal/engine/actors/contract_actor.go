package actors

import (
	"log"
	"time"

	"swamp-ledger/internal/contract"
	"swamp-ledger/internal/models"
	"swamp-ledger/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for ledger operations
type (
	CreatePostMsg struct {
		Author   uuid.UUID
		Kind     models.PostKind
		ParentID *models.PostID
		Content  string
	}

	GetPostMsg struct {
		PostID models.PostID
	}

	ReactMsg struct {
		PostID  models.PostID
		Account uuid.UUID
		Kind    models.ReactionKind
	}

	RemoveReactionMsg struct {
		PostID  models.PostID
		Account uuid.UUID
	}

	GetReactionMsg struct {
		PostID  models.PostID
		Account uuid.UUID
	}

	GetCountsMsg struct{}
)

// ReactResult pairs the outcome with the post's committed state.
type ReactResult struct {
	Outcome models.ReactionOutcome `json:"outcome"`
	Post    *models.Post           `json:"post"`
}

// Logical block timestamps advance in fixed steps per committed call.
const blockIntervalMillis = 6000

// ContractActor owns the contract instance and the logical clock. Its
// mailbox is the serialization point: the contract sees one call at a time,
// in delivery order, which is all the concurrency discipline the core needs.
type ContractActor struct {
	ledger  *contract.Contract
	height  uint64
	metrics *utils.MetricsCollector
	publish func(models.Event)
}

// NewContractActor creates the actor. publish receives the events of every
// committed call and may be nil.
func NewContractActor(ledger *contract.Contract, metrics *utils.MetricsCollector, publish func(models.Event)) actor.Actor {
	return &ContractActor{
		ledger:  ledger,
		metrics: metrics,
		publish: publish,
	}
}

func (a *ContractActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("ContractActor started")

	case *actor.Stopping:
		log.Printf("ContractActor stopping")

	case *actor.Stopped:
		log.Printf("ContractActor stopped")

	case *actor.Restarting:
		log.Printf("ContractActor restarting")

	case *CreatePostMsg:
		a.handleCreatePost(context, msg)

	case *ReactMsg:
		a.handleReact(context, msg)

	case *RemoveReactionMsg:
		a.handleRemoveReaction(context, msg)

	case *GetPostMsg:
		post, err := a.ledger.GetPost(msg.PostID)
		if err != nil {
			context.Respond(asAppError(err))
			return
		}
		context.Respond(post)

	case *GetReactionMsg:
		reaction, exists, err := a.ledger.GetReaction(msg.PostID, msg.Account)
		if err != nil {
			context.Respond(asAppError(err))
			return
		}
		if !exists {
			context.Respond(utils.NewAppError(utils.ErrNoReaction, "no reaction for this account", nil))
			return
		}
		context.Respond(reaction)

	case *GetCountsMsg:
		count, err := a.ledger.PostCount()
		if err != nil {
			context.Respond(asAppError(err))
			return
		}
		context.Respond(int(count))

	default:
		log.Printf("ContractActor: Unknown message type: %T", msg)
	}
}

// nextEnv builds the call environment for the upcoming block.
func (a *ContractActor) nextEnv(caller uuid.UUID) contract.CallEnv {
	height := a.height + 1
	return contract.CallEnv{
		Caller: caller,
		Block:  height,
		Time:   height * blockIntervalMillis,
	}
}

func (a *ContractActor) handleCreatePost(context actor.Context, msg *CreatePostMsg) {
	startTime := time.Now()

	kind := msg.Kind
	if kind == "" {
		kind = models.PostRegular
	}

	env := a.nextEnv(msg.Author)
	post, events, err := a.ledger.CreatePost(env, kind, msg.ParentID, msg.Content)
	if err != nil {
		a.metrics.IncrementErrors()
		context.Respond(asAppError(err))
		return
	}
	a.height = env.Block
	a.emit(events)

	log.Printf("ContractActor: Created post %d at block %d", post.ID, env.Block)
	a.metrics.AddOperationLatency("create_post", time.Since(startTime))
	context.Respond(post)
}

func (a *ContractActor) handleReact(context actor.Context, msg *ReactMsg) {
	startTime := time.Now()

	env := a.nextEnv(msg.Account)
	outcome, post, events, err := a.ledger.React(env, msg.PostID, msg.Kind)
	if err != nil {
		a.metrics.IncrementErrors()
		context.Respond(asAppError(err))
		return
	}
	a.height = env.Block
	a.emit(events)

	a.metrics.AddOperationLatency("react", time.Since(startTime))
	context.Respond(&ReactResult{Outcome: outcome, Post: post})
}

func (a *ContractActor) handleRemoveReaction(context actor.Context, msg *RemoveReactionMsg) {
	startTime := time.Now()

	env := a.nextEnv(msg.Account)
	post, events, err := a.ledger.RemoveReaction(env, msg.PostID)
	if err != nil {
		a.metrics.IncrementErrors()
		context.Respond(asAppError(err))
		return
	}
	a.height = env.Block
	a.emit(events)

	a.metrics.AddOperationLatency("remove_reaction", time.Since(startTime))
	context.Respond(post)
}

func (a *ContractActor) emit(events []models.Event) {
	if a.publish == nil {
		return
	}
	for _, event := range events {
		a.publish(event)
	}
}

func asAppError(err error) *utils.AppError {
	if appErr, ok := err.(*utils.AppError); ok {
		return appErr
	}
	return utils.NewAppError(utils.ErrStore, "call failed", err)
}
