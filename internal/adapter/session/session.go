// Package session persists the signed-in admin between runs.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/niksmo/shop-admin/internal/core/domain"
)

const (
	tokenKey = "token"
	userKey  = "user"
)

func encodeUser(u domain.User) ([]byte, error) {
	return json.Marshal(u)
}

func decodeUser(data []byte) (domain.User, error) {
	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return domain.User{}, fmt.Errorf("corrupted user record: %w", err)
	}
	return u, nil
}
