package identity

import (
	"errors"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Realm errors.
var (
	ErrEmptyRealm   = errors.New("identity: realm name is required")
	ErrRealmTooLong = errors.New("identity: realm name exceeds 255 bytes")
	ErrInvalidRealm = errors.New("identity: realm name contains '/' or whitespace")
)

const maxRealmLength = 255

// User is an identity record. Attribute names are case-sensitive.
type User struct {
	Ordinal    int64               `json:"-" msgpack:"ordinal"`
	ID         string              `json:"id" msgpack:"id"`
	Realm      string              `json:"realm,omitempty" msgpack:"realm"`
	Username   string              `json:"username" msgpack:"username"`
	Attributes map[string][]string `json:"attributes" msgpack:"attributes"`
}

// NewUser creates a user with a generated ID and no attributes.
func NewUser(realm, username string) *User {
	return &User{
		ID:         uuid.NewString(),
		Realm:      realm,
		Username:   username,
		Attributes: make(map[string][]string),
	}
}

// Values returns the values of the named attribute in stored order.
// A missing attribute yields nil.
func (u *User) Values(name string) []string {
	if u == nil {
		return nil
	}
	return u.Attributes[name]
}

// SetAttribute replaces the values of the named attribute.
func (u *User) SetAttribute(name string, values ...string) {
	if u.Attributes == nil {
		u.Attributes = make(map[string][]string)
	}
	u.Attributes[name] = values
}

// EnsureID assigns a random ID when the user has none.
func (u *User) EnsureID() {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
}

// Clone creates a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}

	clone := &User{
		Ordinal:    u.Ordinal,
		ID:         u.ID,
		Realm:      u.Realm,
		Username:   u.Username,
		Attributes: make(map[string][]string, len(u.Attributes)),
	}
	for k, v := range u.Attributes {
		values := make([]string, len(v))
		copy(values, v)
		clone.Attributes[k] = values
	}
	return clone
}

// ValidateRealm checks that name can be used as a realm path segment.
func ValidateRealm(name string) error {
	if name == "" {
		return ErrEmptyRealm
	}
	if len(name) > maxRealmLength {
		return ErrRealmTooLong
	}
	if strings.ContainsRune(name, '/') || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return ErrInvalidRealm
	}
	return nil
}
