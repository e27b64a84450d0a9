package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// TransactionID identifies one ledger entry
type TransactionID struct {
	value uuid.UUID
}

// NewTransactionID generates a random (v4) TransactionID
func NewTransactionID() TransactionID {
	return TransactionID{value: uuid.New()}
}

// ParseTransactionID parses a stored or user-supplied id
func ParseTransactionID(id string) (TransactionID, error) {
	if id == "" {
		return TransactionID{}, fmt.Errorf("transaction_id cannot be empty")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return TransactionID{}, fmt.Errorf("invalid transaction_id format: %w", err)
	}
	return TransactionID{value: parsed}, nil
}

// MustParseTransactionID panics on malformed ids; use only for values read back from the database
func MustParseTransactionID(id string) TransactionID {
	tid, err := ParseTransactionID(id)
	if err != nil {
		panic(err)
	}
	return tid
}

func (t TransactionID) String() string {
	if t.IsZero() {
		return ""
	}
	return t.value.String()
}

func (t TransactionID) Equals(other TransactionID) bool {
	return t.value == other.value
}

func (t TransactionID) IsZero() bool {
	return t.value == uuid.Nil
}
