package model

// AccountType is the kind of account issuing a request.
type AccountType string

const (
	AccountUser     AccountType = "user"
	AccountOperator AccountType = "operator"
)

// Requester identifies the caller of an operation, as supplied by the identity layer.
type Requester struct {
	ID   int64       `json:"id"`
	Type AccountType `json:"type"`
}

// IsOperator reports whether the requester acts for a machine owner.
func (r Requester) IsOperator() bool {
	return r.Type == AccountOperator
}
