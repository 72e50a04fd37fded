package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadline/telecrm-api/internal/core/domain"
	"github.com/leadline/telecrm-api/internal/core/ports"
)

const collectionLeads = "leads"

// LeadRepository implements ports.LeadRepository on MongoDB.
type LeadRepository struct {
	col *mongo.Collection
}

func NewLeadRepository(db *mongo.Database) *LeadRepository {
	return &LeadRepository{col: db.Collection(collectionLeads)}
}

// leadDoc is the storage shape; _id is an ObjectID, exposed as hex upstream.
type leadDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	Company        string             `bson:"company,omitempty"`
	Phone          string             `bson:"phone"`
	Email          string             `bson:"email,omitempty"`
	Address        string             `bson:"address,omitempty"`
	Source         string             `bson:"source"`
	Status         string             `bson:"status"`
	Notes          string             `bson:"notes,omitempty"`
	CreatedBy      string             `bson:"created_by"`
	LastModifiedBy string             `bson:"last_modified_by,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func toLeadDoc(l *domain.Lead) leadDoc {
	return leadDoc{
		Name:           l.Name,
		Company:        l.Company,
		Phone:          l.Phone,
		Email:          l.Email,
		Address:        l.Address,
		Source:         string(l.Source),
		Status:         string(l.Status),
		Notes:          l.Notes,
		CreatedBy:      l.CreatedBy,
		LastModifiedBy: l.LastModifiedBy,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func (d leadDoc) toDomain() *domain.Lead {
	return &domain.Lead{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		Company:        d.Company,
		Phone:          d.Phone,
		Email:          d.Email,
		Address:        d.Address,
		Source:         domain.LeadSource(d.Source),
		Status:         domain.LeadStatus(d.Status),
		Notes:          d.Notes,
		CreatedBy:      d.CreatedBy,
		LastModifiedBy: d.LastModifiedBy,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

// Create inserts a new lead document and returns it with its generated id.
func (r *LeadRepository) Create(ctx context.Context, l *domain.Lead) (*domain.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toLeadDoc(l)
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// FindByID retrieves a lead by id. When ownerID is non-empty the query is
// additionally filtered by created_by, so an out-of-scope lead reads as absent.
func (r *LeadRepository) FindByID(ctx context.Context, id string, ownerID string) (*domain.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrLeadNotFound
	}

	filter := bson.M{"_id": oid}
	if ownerID != "" {
		filter["created_by"] = ownerID
	}

	var doc leadDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// List returns a page of leads matching filter, newest first, plus the total.
func (r *LeadRepository) List(ctx context.Context, filter ports.ListLeadsFilter) ([]*domain.Lead, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := leadListQuery(filter)

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

	var leads []*domain.Lead
	for cur.Next(ctx) {
		var doc leadDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		leads = append(leads, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

func leadListQuery(filter ports.ListLeadsFilter) bson.M {
	query := bson.M{}
	if filter.OwnerID != "" {
		query["created_by"] = filter.OwnerID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Source != "" {
		query["source"] = filter.Source
	}
	if filter.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"company": re},
			bson.M{"phone": re},
		}
	}
	created := bson.M{}
	if !filter.DateFrom.IsZero() {
		created["$gte"] = filter.DateFrom
	}
	if !filter.DateTo.IsZero() {
		created["$lte"] = filter.DateTo
	}
	if len(created) > 0 {
		query["created_at"] = created
	}
	return query
}

// Update persists the mutable fields of an existing lead.
func (r *LeadRepository) Update(ctx context.Context, l *domain.Lead) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(l.ID)
	if err != nil {
		return domain.ErrLeadNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":             l.Name,
		"company":          l.Company,
		"phone":            l.Phone,
		"email":            l.Email,
		"address":          l.Address,
		"source":           string(l.Source),
		"status":           string(l.Status),
		"notes":            l.Notes,
		"last_modified_by": l.LastModifiedBy,
		"updated_at":       l.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

// UpdateStatus sets only status and last_modified_by, used by the call recorder.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status domain.LeadStatus, modifiedBy string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrLeadNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":           string(status),
		"last_modified_by": modifiedBy,
		"updated_at":       time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrLeadNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

// Count returns the number of leads in scope.
func (r *LeadRepository) Count(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if ownerID != "" {
		filter["created_by"] = ownerID
	}
	return r.col.CountDocuments(ctx, filter)
}

// CountsBy groups leads in scope by a dimension field and returns the counts
// sorted descending.
func (r *LeadRepository) CountsBy(ctx context.Context, field string, ownerID string) ([]ports.ValueCount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if ownerID != "" {
		match["created_by"] = ownerID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$" + field,
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []ports.ValueCount
	for cur.Next(ctx) {
		var row struct {
			Value string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, ports.ValueCount{Value: row.Value, Count: row.Count})
	}
	return out, cur.Err()
}

// EnsureIndexes creates the indexes every lead query path relies on.
func (r *LeadRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "source", Value: 1}}},
		{Keys: bson.D{{Key: "phone", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
