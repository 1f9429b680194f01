package users

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Encode serializes r as {"username": ..., "password_hash": ...}. The output
// is deterministic for a given record.
func Encode(r Record) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode user record: %w", err)
	}
	return data, nil
}

// wireRecord uses pointers so absent fields can be told apart from empty ones.
type wireRecord struct {
	Username     *string `json:"username"`
	PasswordHash *string `json:"password_hash"`
}

// Decode parses a stored record. Payloads that are not a JSON object, or
// whose username or password_hash is missing, empty or not a string, yield
// common.ErrorMalformedRecord. Unknown fields are ignored.
func Decode(data []byte) (Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Record{}, fmt.Errorf("%w: not a JSON object", common.ErrorMalformedRecord)
	}

	var w wireRecord
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return Record{}, fmt.Errorf("%w: %v", common.ErrorMalformedRecord, err)
	}
	if w.Username == nil || *w.Username == "" {
		return Record{}, fmt.Errorf("%w: missing username", common.ErrorMalformedRecord)
	}
	if w.PasswordHash == nil || *w.PasswordHash == "" {
		return Record{}, fmt.Errorf("%w: missing password_hash", common.ErrorMalformedRecord)
	}

	return Record{Username: *w.Username, PasswordHash: *w.PasswordHash}, nil
}
