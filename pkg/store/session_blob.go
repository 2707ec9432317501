package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"adminboard/pkg/domain"
	"adminboard/pkg/validation"
)

// Keys of the persisted session pair.
const (
	TokenKey = "auth_token"
	UserKey  = "user"
)

// SessionBlob reads and writes the token + user pair. Both entries are
// written together and removed together.
type SessionBlob struct {
	kv KV
}

// NewSessionBlob wraps kv with the session pair contract.
func NewSessionBlob(kv KV) *SessionBlob {
	return &SessionBlob{kv: kv}
}

// Load returns the persisted pair. ok is false unless both entries exist
// and the user decodes to a valid identity.
func (b *SessionBlob) Load() (string, domain.User, bool, error) {
	token, hasToken, err := b.kv.Get(TokenKey)
	if err != nil {
		return "", domain.User{}, false, fmt.Errorf("load token: %w", err)
	}
	raw, hasUser, err := b.kv.Get(UserKey)
	if err != nil {
		return "", domain.User{}, false, fmt.Errorf("load user: %w", err)
	}
	if !hasToken || !hasUser || strings.TrimSpace(token) == "" {
		return "", domain.User{}, false, nil
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return "", domain.User{}, false, fmt.Errorf("decode user: %w", err)
	}
	if user.ID == 0 || validation.Struct(user) != nil {
		return "", domain.User{}, false, nil
	}
	return token, user, true, nil
}

// Save persists token and user in one write.
func (b *SessionBlob) Save(token string, user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return b.kv.SetMany(map[string]string{
		TokenKey: token,
		UserKey:  string(data),
	})
}

// Clear removes both entries.
func (b *SessionBlob) Clear() error {
	return b.kv.Delete(TokenKey, UserKey)
}
