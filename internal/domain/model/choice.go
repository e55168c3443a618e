package model

import (
	"fmt"
	"strings"
)

// Wire encoding of menu choice tokens. The raw strings only ever appear here;
// everything else works with the tagged Choice value.
const (
	cancelToken         = "cancel_operation"
	databaseTokenPrefix = "database_id"
)

type ChoiceKind string

const (
	ChoiceCancel         ChoiceKind = "cancel"
	ChoiceSelectDatabase ChoiceKind = "select_database"
)

// Choice is one decoded menu selection: either a cancellation or the pick of a
// destination database.
type Choice struct {
	Kind       ChoiceKind
	DatabaseID string
}

func CancelChoice() Choice { return Choice{Kind: ChoiceCancel} }

func SelectDatabaseChoice(id string) Choice {
	return Choice{Kind: ChoiceSelectDatabase, DatabaseID: id}
}

// Token serializes the choice into the transport's opaque callback string.
func (c Choice) Token() string {
	switch c.Kind {
	case ChoiceCancel:
		return cancelToken
	case ChoiceSelectDatabase:
		return databaseTokenPrefix + c.DatabaseID
	}
	return ""
}

// ParseChoiceToken decodes a callback token. Unrecognized tokens return an
// error so callers can treat them as a protocol error instead of trusting the
// embedded identifier.
func ParseChoiceToken(token string) (Choice, error) {
	switch {
	case token == cancelToken:
		return CancelChoice(), nil
	case strings.HasPrefix(token, databaseTokenPrefix):
		id := strings.TrimPrefix(token, databaseTokenPrefix)
		if id == "" {
			return Choice{}, fmt.Errorf("choice token %q has empty database id", token)
		}
		return SelectDatabaseChoice(id), nil
	}
	return Choice{}, fmt.Errorf("unrecognized choice token %q", token)
}
