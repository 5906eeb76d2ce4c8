package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// UserRepository implements user.Repository for MongoDB.
//
// Email uniqueness is NOT enforced here: the collection carries no unique
// index, matching the data this system inherited. The registration command
// does a best-effort existence check; see that command for the known race.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Email    string             `bson:"email"`
	Name     string             `bson:"name"`
	PhotoURL string             `bson:"photoURL"`
	Role     string             `bson:"role"`
}

func (d *userDoc) toEntity() *user.User {
	return &user.User{
		ID:       d.ID.Hex(),
		Email:    d.Email,
		Name:     d.Name,
		PhotoURL: d.PhotoURL,
		Role:     user.Role(d.Role),
	}
}

func userToDoc(u *user.User) bson.M {
	return bson.M{
		"email":    u.Email,
		"name":     u.Name,
		"photoURL": u.PhotoURL,
		"role":     string(u.Role),
	}
}

// FindByID returns a user by canonical hex id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, shared.NewDomainError("user", "FindByID", shared.ErrInvalidID, "invalid user id")
	}

	ctx, cancel := r.conn.OperationContext(ctx)
	defer cancel()

	var doc userDoc
	err = r.conn.Users().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if IsNoDocuments(err) {
		return nil, shared.ErrUserNotFound
	}
	if err != nil {
		return nil, shared.WrapError("user", "FindByID", shared.ErrStorage, "failed to find user", err)
	}
	return doc.toEntity(), nil
}

// FindByEmail returns a user by exact email match.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	ctx, cancel := r.conn.OperationContext(ctx)
	defer cancel()

	var doc userDoc
	err := r.conn.Users().FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if IsNoDocuments(err) {
		return nil, shared.ErrUserNotFound
	}
	if err != nil {
		return nil, shared.WrapError("user", "FindByEmail", shared.ErrStorage, "failed to find user", err)
	}
	return doc.toEntity(), nil
}

// FindAll returns all users sorted by name ascending.
func (r *UserRepository) FindAll(ctx context.Context) ([]*user.User, error) {
	ctx, cancel := r.conn.OperationContext(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.conn.Users().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, shared.WrapError("user", "FindAll", shared.ErrStorage, "failed to query users", err)
	}
	return decodeUsers(ctx, cursor)
}

// Insert saves a new user and returns the assigned canonical id.
func (r *UserRepository) Insert(ctx context.Context, u *user.User) (string, error) {
	ctx, cancel := r.conn.OperationContext(ctx)
	defer cancel()

	res, err := r.conn.Users().InsertOne(ctx, userToDoc(u))
	if err != nil {
		return "", shared.WrapError("user", "Insert", shared.ErrStorage, "failed to insert user", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", shared.WrapError("user", "Insert", shared.ErrStorage, "unexpected inserted id type", fmt.Errorf("%T", res.InsertedID))
	}
	return oid.Hex(), nil
}

// UpsertByID updates a user by id with $set + upsert.
func (r *UserRepository) UpsertByID(ctx context.Context, id string, u *user.User) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, shared.NewDomainError("user", "UpsertByID", shared.ErrInvalidID, "invalid user id")
	}
	return r.upsert(ctx, bson.M{"_id": oid}, u)
}

// UpsertByEmail updates a user by email with $set + upsert.
func (r *UserRepository) UpsertByEmail(ctx context.Context, email string, u *user.User) (int64, error) {
	return r.upsert(ctx, bson.M{"email": email}, u)
}

func (r *UserRepository) upsert(ctx context.Context, filter bson.M, u *user.User) (int64, error) {
	ctx, cancel := r.conn.OperationContext(ctx)
	defer cancel()

	res, err := r.conn.Users().UpdateOne(ctx,
		filter,
		bson.M{"$set": userToDoc(u)},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return 0, shared.WrapError("user", "Upsert", shared.ErrStorage, "failed to upsert user", err)
	}
	return res.MatchedCount, nil
}

func decodeUsers(ctx context.Context, cursor *mongo.Cursor) ([]*user.User, error) {
	defer cursor.Close(ctx)

	var users []*user.User
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, shared.WrapError("user", "Decode", shared.ErrStorage, "failed to decode user", err)
		}
		users = append(users, doc.toEntity())
	}
	if err := cursor.Err(); err != nil {
		return nil, shared.WrapError("user", "Decode", shared.ErrStorage, "cursor error", err)
	}
	return users, nil
}

// Ensure interface is implemented.
var _ user.Repository = (*UserRepository)(nil)
