package ledger

import "fmt"

// TransactionType represents the kind of resource movement
type TransactionType string

const (
	// TransactionTypeBuildCharge is the cost deducted when a build starts
	TransactionTypeBuildCharge TransactionType = "BUILD_CHARGE"

	// TransactionTypeBuildRefund is the partial refund credited when a build is cancelled
	TransactionTypeBuildRefund TransactionType = "BUILD_REFUND"

	// TransactionTypeAdminGrant is an operator grant of resources
	TransactionTypeAdminGrant TransactionType = "ADMIN_GRANT"
)

// AllTransactionTypes returns all valid transaction types
func AllTransactionTypes() []TransactionType {
	return []TransactionType{
		TransactionTypeBuildCharge,
		TransactionTypeBuildRefund,
		TransactionTypeAdminGrant,
	}
}

// String returns the string representation of the TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeBuildCharge,
		TransactionTypeBuildRefund,
		TransactionTypeAdminGrant:
		return true
	default:
		return false
	}
}

// IsDebit returns true if the type removes resources from the colony
func (t TransactionType) IsDebit() bool {
	return t == TransactionTypeBuildCharge
}

// ParseTransactionType parses a string into a TransactionType
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid transaction type: %s", s)
	}
	return t, nil
}
