package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONTEST REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ContestRepository implements contest.Repository for MongoDB.
type ContestRepository struct {
	conn *Connection
}

// NewContestRepository creates a new ContestRepository.
func NewContestRepository(conn *Connection) *ContestRepository {
	return &ContestRepository{conn: conn}
}

// contestDoc is the storage shape of a contest. Field names mirror the
// documents written by earlier versions of the platform, mixed casing
// included; renaming them would orphan existing data.
type contestDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Description  string             `bson:"description"`
	Image        string             `bson:"image"`
	Price        int                `bson:"price"`
	PriceMoney   int                `bson:"price_money"`
	Type         string             `bson:"type"`
	Instruction  string             `bson:"instruction"`
	Due          time.Time          `bson:"due"`
	Status       string             `bson:"status"`
	CreatorEmail string             `bson:"creator_email"`
	Comment      string             `bson:"comment,omitempty"`
}

// contestWithCountDoc is the aggregation output row for enriched listings.
type contestWithCountDoc struct {
	contestDoc          `bson:",inline"`
	ParticipationsCount int `bson:"participationsCount"`
}

func (d *contestDoc) toEntity() *contest.Contest {
	return &contest.Contest{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Description:  d.Description,
		Image:        d.Image,
		Price:        d.Price,
		PriceMoney:   d.PriceMoney,
		Type:         d.Type,
		Instruction:  d.Instruction,
		Due:          d.Due,
		Status:       contest.Status(d.Status),
		CreatorEmail: d.CreatorEmail,
		Comment:      d.Comment,
	}
}

func contestToDoc(c *contest.Contest) bson.M {
	return bson.M{
		"name":          c.Name,
		"description":   c.Description,
		"image":         c.Image,
		"price":         c.Price,
		"price_money":   c.PriceMoney,
		"type":          c.Type,
		"instruction":   c.Instruction,
		"due":           c.Due,
		"status":        string(c.Status),
		"creator_email": c.CreatorEmail,
		"comment":       c.Comment,
	}
}

func contestFilterQuery(f contest.Filter) bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	if f.CreatorEmail != "" {
		q["creator_email"] = f.CreatorEmail
	}
	return q
}

// dueDesc is the default listing order: newest deadline first, id as a
// deterministic tie-break.
var dueDesc = bson.D{{Key: "due", Value: -1}, {Key: "_id", Value: -1}}

// FindByID returns a contest by its canonical hex id.
func (r *ContestRepository) FindByID(ctx context.Context, id string) (*contest.Contest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, shared.ErrInvalidContestID
	}

	ctx, cancel := r.conn.OperationContext(ctx)
	defer cancel()

	var doc contestDoc
	err = r.conn.Contests().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if IsNoDocuments(err) {
		return nil, shared.ErrContestNotFound
	}
	if err != nil {
		return nil, shared.WrapError("contest", "FindByID", shared.ErrStorage, "failed to find contest", err)
	}
	return doc.toEntity(), nil
}

// Find returns contests matching the filter, sorted by due descending.
func (r *ContestRepository) Find(ctx context.Context, filter contest.Filter) ([]*contest.Contest, error) {
	ctx, cancel := r.conn.OperationContext(ctx)
	defer cancel()

	cursor, err := r.conn.Contests().Find(ctx, contestFilterQuery(filter), options.Find().SetSort(dueDesc))
	if err != nil {
		return nil, shared.WrapError("contest", "Find", shared.ErrStorage, "failed to query contests", err)
	}
	return decodeContests(ctx, cursor)
}

// FindPage returns one page of contests plus the total match count.
func (r *ContestRepository) FindPage(ctx context.Context, filter contest.Filter, skip, limit int) ([]*contest.Contest, int, error) {
	ctx, cancel := r.conn.OperationContext(ctx)
	defer cancel()

	query := contestFilterQuery(filter)

	total, err := r.conn.Contests().CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, shared.WrapError("contest", "FindPage", shared.ErrStorage, "failed to count contests", err)
	}

	opts := options.Find().SetSort(dueDesc).SetSkip(int64(skip)).SetLimit(int64(limit))
	cursor, err := r.conn.Contests().Find(ctx, query, opts)
	if err != nil {
		return nil, 0, shared.WrapError("contest", "FindPage", shared.ErrStorage, "failed to query contests", err)
	}

	contests, err := decodeContests(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return contests, int(total), nil
}

// FindPageWithCounts returns one page of contests, each with its derived
// participation count, plus the total match count.
//
// The join happens inside the store: contestId on the participation side is
// a plain string, so the contest _id goes through $toString before the
// equality check. Raw type equality would silently match nothing.
func (r *ContestRepository) FindPageWithCounts(ctx context.Context, filter contest.Filter, skip, limit int) ([]*contest.WithCount, int, error) {
	ctx, cancel := r.conn.OperationContext(ctx)
	defer cancel()

	query := contestFilterQuery(filter)

	total, err := r.conn.Contests().CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, shared.WrapError("contest", "FindPageWithCounts", shared.ErrStorage, "failed to count contests", err)
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: query}},
		bson.D{{Key: "$sort", Value: dueDesc}},
		bson.D{{Key: "$skip", Value: int64(skip)}},
		bson.D{{Key: "$limit", Value: int64(limit)}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CollectionParticipations},
			{Key: "let", Value: bson.D{{Key: "cid", Value: bson.D{{Key: "$toString", Value: "$_id"}}}}},
			{Key: "pipeline", Value: mongo.Pipeline{
				bson.D{{Key: "$match", Value: bson.D{
					{Key: "$expr", Value: bson.D{{Key: "$eq", Value: bson.A{"$contestId", "$$cid"}}}},
				}}},
			}},
			{Key: "as", Value: "participations"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "participationsCount", Value: bson.D{{Key: "$size", Value: "$participations"}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: "participations", Value: 0}}}},
	}

	cursor, err := r.conn.Contests().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, shared.WrapError("contest", "FindPageWithCounts", shared.ErrStorage, "failed to aggregate contests", err)
	}
	defer cursor.Close(ctx)

	var rows []*contest.WithCount
	for cursor.Next(ctx) {
		var doc contestWithCountDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, shared.WrapError("contest", "FindPageWithCounts", shared.ErrStorage, "failed to decode contest row", err)
		}
		rows = append(rows, &contest.WithCount{
			Contest:             doc.contestDoc.toEntity(),
			ParticipationsCount: doc.ParticipationsCount,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, shared.WrapError("contest", "FindPageWithCounts", shared.ErrStorage, "cursor error", err)
	}

	return rows, int(total), nil
}

// Insert saves a new contest and returns the assigned canonical id.
func (r *ContestRepository) Insert(ctx context.Context, c *contest.Contest) (string, error) {
	ctx, cancel := r.conn.OperationContext(ctx)
	defer cancel()

	res, err := r.conn.Contests().InsertOne(ctx, contestToDoc(c))
	if err != nil {
		return "", shared.WrapError("contest", "Insert", shared.ErrStorage, "failed to insert contest", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", shared.WrapError("contest", "Insert", shared.ErrStorage, "unexpected inserted id type", fmt.Errorf("%T", res.InsertedID))
	}
	return oid.Hex(), nil
}

// Upsert replaces the contest document by id (insert-or-replace). Returns
// the store's matched count; repeating the call with identical fields must
// report matched >= 1.
func (r *ContestRepository) Upsert(ctx context.Context, id string, c *contest.Contest) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, shared.ErrInvalidContestID
	}

	ctx, cancel := r.conn.OperationContext(ctx)
	defer cancel()

	res, err := r.conn.Contests().UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": contestToDoc(c)},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return 0, shared.WrapError("contest", "Upsert", shared.ErrStorage, "failed to upsert contest", err)
	}
	return res.MatchedCount, nil
}

// Count returns the total number of contests in the system.
func (r *ContestRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := r.conn.OperationContext(ctx)
	defer cancel()

	n, err := r.conn.Contests().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, shared.WrapError("contest", "Count", shared.ErrStorage, "failed to count contests", err)
	}
	return int(n), nil
}

func decodeContests(ctx context.Context, cursor *mongo.Cursor) ([]*contest.Contest, error) {
	defer cursor.Close(ctx)

	var contests []*contest.Contest
	for cursor.Next(ctx) {
		var doc contestDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, shared.WrapError("contest", "Decode", shared.ErrStorage, "failed to decode contest", err)
		}
		contests = append(contests, doc.toEntity())
	}
	if err := cursor.Err(); err != nil {
		return nil, shared.WrapError("contest", "Decode", shared.ErrStorage, "cursor error", err)
	}
	return contests, nil
}

// Ensure interface is implemented.
var _ contest.Repository = (*ContestRepository)(nil)
