package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PARTICIPATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ParticipationRepository implements participation.Repository for MongoDB.
//
// contestId is stored as a plain string, not an ObjectID. That is how the
// data was written historically, and it is why every contest-side join in
// this codebase compares canonical string forms.
type ParticipationRepository struct {
	conn *Connection
}

// NewParticipationRepository creates a new ParticipationRepository.
func NewParticipationRepository(conn *Connection) *ParticipationRepository {
	return &ParticipationRepository{conn: conn}
}

type participationDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	ContestID       string             `bson:"contestId"`
	UserEmail       string             `bson:"user_email"`
	PaymentIntentID string             `bson:"paymentIntentId,omitempty"`
	PaymentStatus   string             `bson:"payment_status,omitempty"`
	PaidAt          *time.Time         `bson:"paid_at,omitempty"`
	IsWinner        bool               `bson:"isWinner,omitempty"`
	Task            string             `bson:"task,omitempty"`
	QuickNote       string             `bson:"quickNote,omitempty"`
}

func (d *participationDoc) toEntity() *participation.Participation {
	return &participation.Participation{
		ID:              d.ID.Hex(),
		ContestID:       d.ContestID,
		UserEmail:       d.UserEmail,
		PaymentIntentID: d.PaymentIntentID,
		PaymentStatus:   participation.PaymentStatus(d.PaymentStatus),
		PaidAt:          d.PaidAt,
		IsWinner:        d.IsWinner,
		Task:            d.Task,
		QuickNote:       d.QuickNote,
	}
}

func participationToDoc(p *participation.Participation) bson.M {
	doc := bson.M{
		"contestId":  p.ContestID,
		"user_email": p.UserEmail,
	}
	if p.PaymentIntentID != "" {
		doc["paymentIntentId"] = p.PaymentIntentID
	}
	if p.PaymentStatus != "" {
		doc["payment_status"] = string(p.PaymentStatus)
	}
	if p.PaidAt != nil {
		doc["paid_at"] = *p.PaidAt
	}
	if p.IsWinner {
		doc["isWinner"] = true
	}
	if p.Task != "" {
		doc["task"] = p.Task
	}
	if p.QuickNote != "" {
		doc["quickNote"] = p.QuickNote
	}
	return doc
}

// FindByID returns a participation by canonical hex id.
func (r *ParticipationRepository) FindByID(ctx context.Context, id string) (*participation.Participation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, shared.NewDomainError("participation", "FindByID", shared.ErrInvalidID, "invalid participation id")
	}

	ctx, cancel := r.conn.OperationContext(ctx)
	defer cancel()

	var doc participationDoc
	err = r.conn.Participations().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if IsNoDocuments(err) {
		return nil, shared.ErrParticipationNotFound
	}
	if err != nil {
		return nil, shared.WrapError("participation", "FindByID", shared.ErrStorage, "failed to find participation", err)
	}
	return doc.toEntity(), nil
}

// FindByContest returns a contest's participations. The filter compares
// contestId exactly as stored: a string.
func (r *ParticipationRepository) FindByContest(ctx context.Context, contestID string) ([]*participation.Participation, error) {
	return r.find(ctx, bson.M{"contestId": contestID})
}

// FindByUser returns a user's participations by exact email match.
func (r *ParticipationRepository) FindByUser(ctx context.Context, userEmail string) ([]*participation.Participation, error) {
	return r.find(ctx, bson.M{"user_email": userEmail})
}

// FindAll returns all participations in storage order.
func (r *ParticipationRepository) FindAll(ctx context.Context) ([]*participation.Participation, error) {
	return r.find(ctx, bson.M{})
}

// CountByContest returns the number of participations for a contest.
func (r *ParticipationRepository) CountByContest(ctx context.Context, contestID string) (int, error) {
	ctx, cancel := r.conn.OperationContext(ctx)
	defer cancel()

	n, err := r.conn.Participations().CountDocuments(ctx, bson.M{"contestId": contestID})
	if err != nil {
		return 0, shared.WrapError("participation", "CountByContest", shared.ErrStorage, "failed to count participations", err)
	}
	return int(n), nil
}

// Insert saves a new participation and returns the assigned canonical id.
func (r *ParticipationRepository) Insert(ctx context.Context, p *participation.Participation) (string, error) {
	ctx, cancel := r.conn.OperationContext(ctx)
	defer cancel()

	res, err := r.conn.Participations().InsertOne(ctx, participationToDoc(p))
	if err != nil {
		return "", shared.WrapError("participation", "Insert", shared.ErrStorage, "failed to insert participation", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", shared.WrapError("participation", "Insert", shared.ErrStorage, "unexpected inserted id type", fmt.Errorf("%T", res.InsertedID))
	}
	return oid.Hex(), nil
}

// Update replaces the mutable fields of a participation by id.
func (r *ParticipationRepository) Update(ctx context.Context, id string, p *participation.Participation) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return shared.NewDomainError("participation", "Update", shared.ErrInvalidID, "invalid participation id")
	}

	ctx, cancel := r.conn.OperationContext(ctx)
	defer cancel()

	res, err := r.conn.Participations().UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": participationToDoc(p)},
	)
	if err != nil {
		return shared.WrapError("participation", "Update", shared.ErrStorage, "failed to update participation", err)
	}
	if res.MatchedCount == 0 {
		return shared.ErrParticipationNotFound
	}
	return nil
}

// FindPendingOlderThan returns unpaid participations created before the
// given cutoff id. ObjectIDs embed their creation timestamp, so an id
// generated from a wall-clock cutoff is a valid upper bound on age.
func (r *ParticipationRepository) FindPendingOlderThan(ctx context.Context, cutoffID string) ([]*participation.Participation, error) {
	cutoff, err := primitive.ObjectIDFromHex(cutoffID)
	if err != nil {
		return nil, shared.NewDomainError("participation", "FindPendingOlderThan", shared.ErrInvalidID, "invalid cutoff id")
	}
	return r.find(ctx, bson.M{
		"_id":            bson.M{"$lt": cutoff},
		"payment_status": string(participation.PaymentPending),
	})
}

// CutoffID builds a synthetic ObjectID hex for "created before t" filters.
func CutoffID(t time.Time) string {
	return primitive.NewObjectIDFromTimestamp(t).Hex()
}

func (r *ParticipationRepository) find(ctx context.Context, filter bson.M) ([]*participation.Participation, error) {
	ctx, cancel := r.conn.OperationContext(ctx)
	defer cancel()

	cursor, err := r.conn.Participations().Find(ctx, filter)
	if err != nil {
		return nil, shared.WrapError("participation", "Find", shared.ErrStorage, "failed to query participations", err)
	}
	return decodeParticipations(ctx, cursor)
}

func decodeParticipations(ctx context.Context, cursor *mongo.Cursor) ([]*participation.Participation, error) {
	defer cursor.Close(ctx)

	var parts []*participation.Participation
	for cursor.Next(ctx) {
		var doc participationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, shared.WrapError("participation", "Decode", shared.ErrStorage, "failed to decode participation", err)
		}
		parts = append(parts, doc.toEntity())
	}
	if err := cursor.Err(); err != nil {
		return nil, shared.WrapError("participation", "Decode", shared.ErrStorage, "cursor error", err)
	}
	return parts, nil
}

// Ensure interface is implemented.
var _ participation.Repository = (*ParticipationRepository)(nil)
