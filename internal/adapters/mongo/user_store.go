// Package mongo implements the credential store on a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/target/recipe-finder/internal/domain/model"
	apperrors "github.com/target/recipe-finder/internal/errors"
	"github.com/target/recipe-finder/internal/ports"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// userDocument is the stored shape. The username doubles as _id so the
// collection's built-in unique index enforces one account per name.
type userDocument struct {
	ID        string    `bson:"_id"`
	Username  string    `bson:"username"`
	Password  string    `bson:"password"`
	CreatedAt time.Time `bson:"created_at"`
}

// UserStore reads and writes users in a single collection.
type UserStore struct {
	coll *mongo.Collection
}

// NewUserStore wraps an existing collection handle.
func NewUserStore(coll *mongo.Collection) *UserStore {
	return &UserStore{coll: coll}
}

var _ ports.UserStore = (*UserStore)(nil)

func (s *UserStore) Create(ctx context.Context, user model.User) error {
	doc := userDocument{
		ID:        user.Username,
		Username:  user.Username,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if apperrors.IsConflict(apperrors.MapStoreError(err)) {
			return ports.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) Get(ctx context.Context, username string) (model.User, bool, error) {
	var doc userDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": username}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, fmt.Errorf("find user: %w", err)
	}
	return model.User{
		Username:     doc.Username,
		PasswordHash: doc.Password,
		CreatedAt:    doc.CreatedAt.UTC(),
	}, true, nil
}
