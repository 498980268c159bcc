package actors

import (
	"encoding/json"
	"log"
	"time"

	"swamp-ledger/internal/kv"
	"swamp-ledger/internal/models"
	"swamp-ledger/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Message types for account operations
type (
	RegisterAccountMsg struct {
		Username string
		Password string
	}

	LoginMsg struct {
		Username string
		Password string
	}

	GetAccountMsg struct {
		Username string
	}
)

const accountKeyPrefix = "account:"

// accountRecord is the stored form; the credential hash never leaves this
// actor.
type accountRecord struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"hashedPassword"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (r *accountRecord) public() *models.Account {
	return &models.Account{
		ID:        r.ID,
		Username:  r.Username,
		CreatedAt: r.CreatedAt,
	}
}

// AccountActor owns host-side identity: it registers accounts and checks
// credentials. Account records live in the host's store under their own
// prefix, outside the contract's tables.
type AccountActor struct {
	store kv.Store
}

func NewAccountActor(store kv.Store) actor.Actor {
	return &AccountActor{store: store}
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func (a *AccountActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("AccountActor started")

	case *RegisterAccountMsg:
		a.handleRegister(context, msg)

	case *LoginMsg:
		a.handleLogin(context, msg)

	case *GetAccountMsg:
		record, exists, err := a.load(msg.Username)
		if err != nil {
			context.Respond(asAppError(err))
			return
		}
		if !exists {
			context.Respond(utils.NewAccountNotFoundError(msg.Username))
			return
		}
		context.Respond(record.public())

	default:
		log.Printf("AccountActor: Unknown message type: %T", msg)
	}
}

func (a *AccountActor) handleRegister(context actor.Context, msg *RegisterAccountMsg) {
	if msg.Username == "" || msg.Password == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "username and password are required", nil))
		return
	}

	_, exists, err := a.load(msg.Username)
	if err != nil {
		context.Respond(asAppError(err))
		return
	}
	if exists {
		context.Respond(utils.NewAppError(utils.ErrAccountExists, "account already exists: "+msg.Username, nil))
		return
	}

	hashedPassword, err := hashPassword(msg.Password)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Failed to hash password", err))
		return
	}

	record := &accountRecord{
		ID:             uuid.New(),
		Username:       msg.Username,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now(),
	}
	if err := a.save(record); err != nil {
		context.Respond(asAppError(err))
		return
	}

	log.Printf("AccountActor: Registered account %s (%s)", record.Username, record.ID)
	context.Respond(record.public())
}

func (a *AccountActor) handleLogin(context actor.Context, msg *LoginMsg) {
	record, exists, err := a.load(msg.Username)
	if err != nil {
		context.Respond(asAppError(err))
		return
	}
	// Same response whether the account is missing or the password is wrong
	if !exists {
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "invalid username or password", nil))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(record.HashedPassword), []byte(msg.Password)); err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "invalid username or password", nil))
		return
	}

	context.Respond(record.public())
}

func (a *AccountActor) load(username string) (*accountRecord, bool, error) {
	raw, exists, err := a.store.Get(accountKeyPrefix + username)
	if err != nil {
		return nil, false, utils.NewAppError(utils.ErrStore, "failed to read account", err)
	}
	if !exists {
		return nil, false, nil
	}

	var record accountRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, false, utils.NewAppError(utils.ErrStore, "corrupt account record", err)
	}
	return &record, true, nil
}

func (a *AccountActor) save(record *accountRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return utils.NewAppError(utils.ErrStore, "failed to encode account", err)
	}
	if err := a.store.Set(accountKeyPrefix+record.Username, raw); err != nil {
		return utils.NewAppError(utils.ErrStore, "failed to write account", err)
	}
	return nil
}
