package repository

import (
	"context"
	"fmt"
	"log/slog"

	"product-transactions/internal/logger"
	"product-transactions/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
)

type TransactionRepository struct {
	collection *mongo.Collection
}

var TransactionRepositoryTracer = otel.Tracer("TransactionRepository")

// insertion order; ObjectIDs are generated client side and increase monotonically
var naturalOrder = bson.D{{Key: "_id", Value: 1}}

func NewTransactionRepository(db *mongo.Database, collection string) *TransactionRepository {
	return &TransactionRepository{
		collection: db.Collection(collection),
	}
}

// InsertMany stores every product as a new document and returns how many were written.
func (r *TransactionRepository) InsertMany(ctx context.Context, products []model.Product) (int, error) {
	ctx, span := TransactionRepositoryTracer.Start(ctx, "TransactionRepository.InsertMany")
	defer span.End()
	logger.Info(ctx, "Repository", slog.Int("documents", len(products)))

	if len(products) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, len(products))
	for i := range products {
		products[i].ID = primitive.NewObjectID()
		docs[i] = products[i]
	}

	res, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("insert products: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// Find returns the products matching filter in insertion order. A nil page returns every match.
func (r *TransactionRepository) Find(ctx context.Context, filter TransactionFilter, page *Page) ([]model.Product, error) {
	ctx, span := TransactionRepositoryTracer.Start(ctx, "TransactionRepository.Find")
	defer span.End()
	logger.Info(ctx, "Repository")

	opts := options.Find().SetSort(naturalOrder)
	if page != nil {
		opts.SetSkip(page.Skip()).SetLimit(int64(page.Size))
	}

	cursor, err := r.collection.Find(ctx, filter.BSON(), opts)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []model.Product{}
	for cursor.Next(ctx) {
		var product model.Product
		if err := cursor.Decode(&product); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("decode product: %w", err)
		}
		products = append(products, product)
	}
	if err := cursor.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}
