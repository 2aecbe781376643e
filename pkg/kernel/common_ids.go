package kernel

import (
	"fmt"
	"strconv"
)

// AccountID is the durable identity assigned by the relational store.
type AccountID int64

func (id AccountID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id AccountID) IsZero() bool   { return id == 0 }

// ParseAccountID parses the decimal form used in token subjects and URLs.
func ParseAccountID(s string) (AccountID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid account id %q", s)
	}
	return AccountID(n), nil
}
