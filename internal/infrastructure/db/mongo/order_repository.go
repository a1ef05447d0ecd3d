package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
)

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders)}
}

type orderDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID   string             `bson:"owner_id"`
	Quantity  int                `bson:"quantity"`
	Size      string             `bson:"pizza_size"`
	Flavour   string             `bson:"flavour"`
	Status    string             `bson:"order_status"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d orderDocument) toDomain() *domain.Order {
	return &domain.Order{
		ID:        d.ID.Hex(),
		OwnerID:   d.OwnerID,
		Quantity:  d.Quantity,
		Size:      domain.PizzaSize(d.Size),
		Flavour:   domain.Flavour(d.Flavour),
		Status:    domain.OrderStatus(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// objectID parses an order id; ids that are not ObjectIDs cannot exist.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrOrderNotFound
	}
	return oid, nil
}

// Create inserts a new order document.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := orderDocument{
		ID:        primitive.NewObjectID(),
		OwnerID:   o.OwnerID,
		Quantity:  o.Quantity,
		Size:      string(o.Size),
		Flavour:   string(o.Flavour),
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc orderDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID})
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cur.Close(ctx)

	var docs []orderDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	out := make([]*domain.Order, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Update sets the mutable fields in one document write. owner_id and
// created_at are never part of the update.
func (r *OrderRepository) Update(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	oid, err := objectID(o.ID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"quantity":     o.Quantity,
		"pizza_size":   string(o.Size),
		"flavour":      string(o.Flavour),
		"order_status": string(o.Status),
		"updated_at":   o.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDocument
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
