package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadline/telecrm-api/internal/core/domain"
	"github.com/leadline/telecrm-api/internal/core/ports"
)

const collectionCalls = "calls"

// CallRepository implements ports.CallRepository on MongoDB.
type CallRepository struct {
	col *mongo.Collection
}

func NewCallRepository(db *mongo.Database) *CallRepository {
	return &CallRepository{col: db.Collection(collectionCalls)}
}

type callDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	LeadID             string             `bson:"lead_id"`
	UserID             string             `bson:"user_id"`
	Status             string             `bson:"status"`
	ConnectedResponse  string             `bson:"connected_response,omitempty"`
	NotConnectedReason string             `bson:"not_connected_reason,omitempty"`
	DurationSeconds    int                `bson:"duration_seconds"`
	Notes              string             `bson:"notes,omitempty"`
	CreatedAt          time.Time          `bson:"created_at"`
}

func (d callDoc) toDomain() *domain.Call {
	return &domain.Call{
		ID:                 d.ID.Hex(),
		LeadID:             d.LeadID,
		UserID:             d.UserID,
		Status:             domain.CallStatus(d.Status),
		ConnectedResponse:  domain.ConnectedResponse(d.ConnectedResponse),
		NotConnectedReason: domain.NotConnectedReason(d.NotConnectedReason),
		DurationSeconds:    d.DurationSeconds,
		Notes:              d.Notes,
		CreatedAt:          d.CreatedAt.UTC(),
	}
}

// Create inserts a new call document. Calls are immutable once written.
func (r *CallRepository) Create(ctx context.Context, c *domain.Call) (*domain.Call, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := callDoc{
		ID:                 primitive.NewObjectID(),
		LeadID:             c.LeadID,
		UserID:             c.UserID,
		Status:             string(c.Status),
		ConnectedResponse:  string(c.ConnectedResponse),
		NotConnectedReason: string(c.NotConnectedReason),
		DurationSeconds:    c.DurationSeconds,
		Notes:              c.Notes,
		CreatedAt:          c.CreatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// List returns a page of calls matching filter, newest first, plus the total.
func (r *CallRepository) List(ctx context.Context, filter ports.ListCallsFilter) ([]*domain.Call, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.LeadID != "" {
		query["lead_id"] = filter.LeadID
	}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.ConnectedOnly {
		query["status"] = string(domain.CallConnected)
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var calls []*domain.Call
	for cur.Next(ctx) {
		var doc callDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		calls = append(calls, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return calls, total, nil
}

// DeleteByLead removes every call referencing the lead and returns the count.
func (r *CallRepository) DeleteByLead(ctx context.Context, leadID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"lead_id": leadID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns total and connected call counts in scope.
func (r *CallRepository) Count(ctx context.Context, userID string) (int64, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, 0, err
	}

	filter["status"] = string(domain.CallConnected)
	connected, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, 0, err
	}
	return total, connected, nil
}

// connectedCond counts a document when its status is "connected".
var connectedCond = bson.M{"$cond": bson.A{
	bson.M{"$eq": bson.A{"$status", string(domain.CallConnected)}}, 1, 0,
}}

// CountsPerDay groups calls created at or after from by UTC calendar day.
// Days without calls produce no row; the caller zero-fills.
func (r *CallRepository) CountsPerDay(ctx context.Context, from time.Time, userID string) ([]ports.DailyCallCount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{"created_at": bson.M{"$gte": from}}
	if userID != "" {
		match["user_id"] = userID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format":   "%Y-%m-%d",
				"date":     "$created_at",
				"timezone": "UTC",
			}},
			"total":     bson.M{"$sum": 1},
			"connected": bson.M{"$sum": connectedCond},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []ports.DailyCallCount
	for cur.Next(ctx) {
		var row struct {
			Day       string `bson:"_id"`
			Total     int64  `bson:"total"`
			Connected int64  `bson:"connected"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, ports.DailyCallCount{Day: row.Day, Total: row.Total, Connected: row.Connected})
	}
	return out, cur.Err()
}

// CountsPerUser groups calls created at or after from by placing user,
// sorted descending by total.
func (r *CallRepository) CountsPerUser(ctx context.Context, from time.Time) ([]ports.UserCallCount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": from}}}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$user_id",
			"total":     bson.M{"$sum": 1},
			"connected": bson.M{"$sum": connectedCond},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []ports.UserCallCount
	for cur.Next(ctx) {
		var row struct {
			UserID    string `bson:"_id"`
			Total     int64  `bson:"total"`
			Connected int64  `bson:"connected"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, ports.UserCallCount{UserID: row.UserID, Total: row.Total, Connected: row.Connected})
	}
	return out, cur.Err()
}

// EnsureIndexes creates the indexes backing call queries and aggregations.
func (r *CallRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "lead_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
