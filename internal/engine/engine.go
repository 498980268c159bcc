// Package engine wires the actors that make up the host runtime. The
// contract actor's mailbox gives the transaction-serial dispatch the core
// relies on.
package engine

import (
	"swamp-ledger/internal/contract"
	"swamp-ledger/internal/engine/actors"
	"swamp-ledger/internal/kv"
	"swamp-ledger/internal/models"
	"swamp-ledger/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine coordinates communication between actors
type Engine struct {
	contractActor *actor.PID
	accountActor  *actor.PID
}

// NewEngine spawns the contract and account actors against the given store.
// publish receives committed contract events and may be nil.
func NewEngine(system *actor.ActorSystem, store kv.Store, maxContentBytes int, metrics *utils.MetricsCollector, publish func(models.Event)) *Engine {
	context := system.Root

	ledger := contract.New(store, maxContentBytes)
	contractProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewContractActor(ledger, metrics, publish)
	})
	contractPID := context.Spawn(contractProps)

	accountProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewAccountActor(store)
	})
	accountPID := context.Spawn(accountProps)

	return &Engine{
		contractActor: contractPID,
		accountActor:  accountPID,
	}
}

// GetContractActor returns the PID of the contract actor
func (e *Engine) GetContractActor() *actor.PID {
	return e.contractActor
}

// GetAccountActor returns the PID of the account actor
func (e *Engine) GetAccountActor() *actor.PID {
	return e.accountActor
}
