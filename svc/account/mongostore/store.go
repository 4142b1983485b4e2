// Package mongostore implements account.Storage on MongoDB.
package mongostore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	mongox "github.com/dmitrymomot/accountkit/pkg/mongo"
	"github.com/dmitrymomot/accountkit/svc/account"
)

// CollectionName is the collection holding user documents.
const CollectionName = "users"

const (
	indexEmail = "users_email_key"
	indexPhone = "users_phone_number_key"
)

type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	PhoneNumber  string    `bson:"phone_number,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
}

// Store is a MongoDB-backed account.Storage.
type Store struct {
	coll *mongo.Collection
}

// New uses the users collection of db. Call EnsureIndexes once at startup.
func New(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the unique indexes on email and phone number.
// The phone index is partial so accounts without a phone never collide.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(indexEmail).SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "phone_number", Value: 1}},
			Options: options.Index().
				SetName(indexPhone).
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "phone_number", Value: bson.D{{Key: "$type", Value: "string"}}}}),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*account.User, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*account.User, error) {
	u, err := s.findOne(ctx, bson.D{{Key: "email", Value: strings.ToLower(email)}})
	if mongox.IsNotFoundError(err) {
		return nil, account.ErrUserNotFound
	}
	return u, err
}

func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*account.User, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone lookup: %w", account.ErrNotFound)
	}
	return s.findOne(ctx, bson.D{{Key: "phone_number", Value: phone}})
}

func (s *Store) CreateUser(ctx context.Context, user *account.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if _, err := s.coll.InsertOne(ctx, toDocument(user)); err != nil {
		return insertError(err)
	}
	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id.String()}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "password_hash", Value: passwordHash}}}},
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", id, account.ErrNotFound)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*account.User, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]*account.User, 0, len(docs))
	for _, d := range docs {
		u, err := d.toUser()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.D) (*account.User, error) {
	var doc userDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if mongox.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %w", account.ErrNotFound, err)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return doc.toUser()
}

func toDocument(u *account.User) userDocument {
	return userDocument{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        strings.ToLower(u.Email),
		PasswordHash: u.PasswordHash,
		PhoneNumber:  u.PhoneNumber,
		CreatedAt:    u.CreatedAt,
	}
}

func (d userDocument) toUser() (*account.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("user document %q: %w", d.ID, err)
	}
	return &account.User{
		ID:           id,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		PhoneNumber:  d.PhoneNumber,
		CreatedAt:    d.CreatedAt.UTC(),
	}, nil
}

// insertError maps unique index violations by index name.
func insertError(err error) error {
	if !mongox.IsDuplicateKeyError(err) {
		return fmt.Errorf("insert user: %w", err)
	}
	if strings.Contains(err.Error(), indexPhone) {
		return account.ErrDuplicatePhone
	}
	return account.ErrDuplicateEmail
}
