package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"rebatescout/internal/model"
)

// LeadRepo persists completed assessments. The funnel only ever writes;
// reading leads back belongs to whatever CRM consumes the collection.
type LeadRepo interface {
	Create(ctx context.Context, lead *model.Lead) error
}

type leadRepo struct {
	collection *mongo.Collection
}

func NewLeadRepo(db *mongo.Database) LeadRepo {
	return &leadRepo{
		collection: db.Collection("leads"),
	}
}

func (r *leadRepo) Create(ctx context.Context, lead *model.Lead) error {
	if lead.SubmittedAt.IsZero() {
		lead.SubmittedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, lead)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		lead.ID = oid.Hex()
	}

	return nil
}
