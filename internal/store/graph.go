package store

import (
	"context"
	"fmt"
	"time"

	"github.com/mkline/userreg/internal/domain"
	"github.com/mkline/userreg/internal/graph"
)

// GraphStore is a UserStore persisting users as graph nodes through the
// supplied graph client. Uniqueness relies on the service's existence check;
// deployments that need stronger guarantees should add a database-side
// uniqueness constraint on the email property.
type GraphStore struct {
	client graph.Client
}

// NewGraphStore instantiates a GraphStore backed by the supplied client.
func NewGraphStore(client graph.Client) *GraphStore {
	return &GraphStore{client: client}
}

func (s *GraphStore) AddUser(ctx context.Context, user domain.User) error {
	params := map[string]any{
		"userId": user.ID,
		"props": map[string]any{
			"fullName":  user.FullName,
			"email":     user.Email,
			"phone":     user.Phone,
			"createdAt": user.CreatedAt.UTC().Format(time.RFC3339Nano),
		},
	}

	if _, err := s.client.ExecuteWrite(ctx, addUserCypher, params); err != nil {
		return fmt.Errorf("add user %s: %w", user.ID, err)
	}
	return nil
}

func (s *GraphStore) FindUserByID(ctx context.Context, id string) (domain.User, error) {
	res, err := s.client.ExecuteRead(ctx, findUserByIDCypher, map[string]any{
		"userId": id,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("find user %s: %w", id, err)
	}
	if len(res.Records) == 0 {
		return domain.User{}, domain.ErrNotFound
	}

	record := res.Records[0]
	user := domain.User{
		ID:       toString(record["userId"]),
		FullName: toString(record["fullName"]),
		Email:    toString(record["email"]),
		Phone:    toString(record["phone"]),
	}
	if ts, err := time.Parse(time.RFC3339Nano, toString(record["createdAt"])); err == nil {
		user.CreatedAt = ts
	}
	return user, nil
}

func (s *GraphStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	res, err := s.client.ExecuteRead(ctx, existsByEmailCypher, map[string]any{
		"email": email,
	})
	if err != nil {
		return false, fmt.Errorf("count users by email: %w", err)
	}
	if len(res.Records) == 0 {
		return false, nil
	}
	return toInt64(res.Records[0]["total"]) > 0, nil
}

func (s *GraphStore) Ping(ctx context.Context) error {
	return s.client.VerifyConnectivity(ctx)
}

func (s *GraphStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

const addUserCypher = `
MERGE (u:User {userId: $userId})
SET u += $props
RETURN u.userId AS userId
`

const findUserByIDCypher = `
MATCH (u:User {userId: $userId})
RETURN u.userId AS userId,
       u.fullName AS fullName,
       u.email AS email,
       u.phone AS phone,
       u.createdAt AS createdAt
`

const existsByEmailCypher = `
MATCH (u:User {email: $email})
RETURN count(u) AS total
`
