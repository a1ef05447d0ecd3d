package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
)

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionEvents)}
}

// InsertEvent persists an event to the order_events audit collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.OrderEvent) error {
	doc := bson.M{
		"order_id":    event.OrderID,
		"owner_id":    event.OwnerID,
		"actor_id":    event.ActorID,
		"type":        string(event.Type),
		"status":      string(event.Status),
		"occurred_at": event.OccurredAt.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	_, err := r.col.InsertOne(ctx, doc)
	return err
}
