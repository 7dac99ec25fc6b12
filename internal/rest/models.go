package rest

import (
	"time"

	"github.com/KilimcininKorOglu/kimlik/internal/identity"
)

// SearchUserRequest is the body of the single-valued attribute search.
type SearchUserRequest struct {
	Attributes map[string]string `json:"attributes"`
}

// SearchByAttributesRequest is the body of the legacy equals/starts-with search.
type SearchByAttributesRequest struct {
	AttributesEquals     map[string]string   `json:"attributesEquals"`
	AttributesStartsWith map[string][]string `json:"attributesStartsWith"`
}

// SearchByAttributesV2Request is the body of the paginated attribute search.
type SearchByAttributesV2Request struct {
	AttributesEquals          map[string][]string `json:"attributesEquals"`
	AttributesStartsWith      map[string][]string `json:"attributesStartsWith"`
	AttributesThatAreStartFor map[string][]string `json:"attributesThatAreStartFor"`
	Pagination                *PaginationRequest  `json:"pagination"`
}

// PaginationRequest carries the page size and the cursor of the previous page.
// A missing limit returns every match, a missing token starts at the beginning.
type PaginationRequest struct {
	Limit         *int `json:"limit"`
	ContinueToken *int `json:"continueToken"`
}

// SearchUsersResponse is one page of the paginated attribute search.
type SearchUsersResponse struct {
	Users      []*User            `json:"users"`
	Pagination PaginationResponse `json:"pagination"`
}

// PaginationResponse holds the cursor of the next page, -1 on the last page.
type PaginationResponse struct {
	ContinueToken int `json:"continueToken"`
}

// User is the JSON representation of a user.
type User struct {
	ID         string              `json:"id"`
	Username   string              `json:"username"`
	Attributes map[string][]string `json:"attributes"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string    `json:"status"`
	Version    string    `json:"version"`
	Uptime     string    `json:"uptime"`
	UptimeSecs int64     `json:"uptimeSecs"`
	StartTime  time.Time `json:"startTime"`
	Requests   int64     `json:"requests"`
}

func convertUser(u *identity.User) *User {
	attrs := u.Attributes
	if attrs == nil {
		attrs = map[string][]string{}
	}
	return &User{
		ID:         u.ID,
		Username:   u.Username,
		Attributes: attrs,
	}
}

func convertUsers(users []*identity.User) []*User {
	out := make([]*User, 0, len(users))
	for _, u := range users {
		out = append(out, convertUser(u))
	}
	return out
}
