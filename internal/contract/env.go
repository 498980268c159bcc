package contract

import "github.com/google/uuid"

// CallEnv is everything the host supplies for a single call: the
// authenticated caller and the logical clock at delivery. The core never
// reads the wall clock or any other ambient state.
type CallEnv struct {
	Caller uuid.UUID
	Block  uint64
	Time   uint64
}
