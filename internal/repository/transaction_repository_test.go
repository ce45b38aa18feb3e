package repository

import (
	"context"
	"math"
	"testing"
	"time"

	"product-transactions/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ns = "Roxiler.products"

func productDoc(id int64, title string, price float64, sold bool, at time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "id", Value: id},
		{Key: "title", Value: title},
		{Key: "price", Value: price},
		{Key: "description", Value: "desc"},
		{Key: "category", Value: "electronics"},
		{Key: "image", Value: "https://img.test/1.jpg"},
		{Key: "sold", Value: sold},
		{Key: "dateOfSale", Value: primitive.NewDateTimeFromTime(at)},
	}
}

// intValue reads a numeric command field whatever width the driver encoded it with.
func intValue(t require.TestingT, v bson.RawValue) int64 {
	switch v.Type {
	case bsontype.Int32:
		return int64(v.Int32())
	case bsontype.Int64:
		return v.Int64()
	case bsontype.Double:
		return int64(v.Double())
	}
	require.Failf(t, "not a number", "bson type %s", v.Type)
	return 0
}

func TestTransactionRepository_FindCommand(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("paged search sorts by id and skips whole pages", func(mt *mtest.T) {
		repo := NewTransactionRepository(mt.DB, "products")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		price := 44.6
		month, err := model.ParseSaleMonth("2024-03")
		require.NoError(mt, err)
		filter := TransactionFilter{Title: "a.b", Description: "cotton", Price: &price, SaleMonth: &month}

		_, err = repo.Find(context.Background(), filter, &Page{Number: 3, Size: 7})
		require.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
		cmd := started.Command

		assert.Equal(mt, "products", cmd.Lookup("find").StringValue())
		sort := cmd.Lookup("sort").Document()
		keys, err := sort.Elements()
		require.NoError(mt, err)
		require.Len(mt, keys, 1)
		assert.Equal(mt, "_id", keys[0].Key())
		assert.Equal(mt, int64(1), intValue(mt, keys[0].Value()))
		assert.Equal(mt, int64(14), intValue(mt, cmd.Lookup("skip")))
		assert.Equal(mt, int64(7), intValue(mt, cmd.Lookup("limit")))

		query := cmd.Lookup("filter").Document()
		pattern, options := query.Lookup("title").Regex()
		assert.Equal(mt, `a\.b`, pattern)
		assert.Equal(mt, "i", options)
		pattern, _ = query.Lookup("description").Regex()
		assert.Equal(mt, "cotton", pattern)
		assert.Equal(mt, 44.6, query.Lookup("price", "$eq").Double())
		gte := primitive.DateTime(query.Lookup("dateOfSale", "$gte").DateTime()).Time()
		lt := primitive.DateTime(query.Lookup("dateOfSale", "$lt").DateTime()).Time()
		assert.True(mt, month.Start.Equal(gte))
		assert.True(mt, month.End.Equal(lt))
	})

	mt.Run("unpaged find has no skip or limit", func(mt *mtest.T) {
		repo := NewTransactionRepository(mt.DB, "products")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.Find(context.Background(), TransactionFilter{}, nil)
		require.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		cmd := started.Command
		_, err = cmd.LookupErr("sort", "_id")
		assert.NoError(mt, err)
		_, err = cmd.LookupErr("skip")
		assert.Error(mt, err)
		_, err = cmd.LookupErr("limit")
		assert.Error(mt, err)
		filter := cmd.Lookup("filter").Document()
		elems, err := filter.Elements()
		require.NoError(mt, err)
		assert.Empty(mt, elems)
	})

	mt.Run("page past the end saturates skip", func(mt *mtest.T) {
		repo := NewTransactionRepository(mt.DB, "products")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		got, err := repo.Find(context.Background(), TransactionFilter{}, &Page{Number: math.MaxInt, Size: 10})
		require.NoError(mt, err)
		assert.Empty(mt, got)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, int64(math.MaxInt64), intValue(mt, started.Command.Lookup("skip")))
	})
}

func TestTransactionRepository_Find(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	at := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	mt.Run("decodes all batches", func(mt *mtest.T) {
		repo := NewTransactionRepository(mt.DB, "products")
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, productDoc(1, "Phone", 50, true, at)),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch, productDoc(2, "Shirt", 150, false, at)),
		)

		got, err := repo.Find(context.Background(), TransactionFilter{}, nil)
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, int64(1), got[0].ExternalID)
		assert.Equal(mt, "Phone", got[0].Title)
		assert.Equal(mt, 50.0, got[0].Price)
		assert.True(mt, got[0].Sold)
		assert.True(mt, at.Equal(got[0].DateOfSale))
		assert.Equal(mt, "Shirt", got[1].Title)
	})

	mt.Run("empty result is an empty slice", func(mt *mtest.T) {
		repo := NewTransactionRepository(mt.DB, "products")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		page := &Page{Number: 2, Size: 10}
		got, err := repo.Find(context.Background(), TransactionFilter{Title: "none"}, page)
		require.NoError(mt, err)
		assert.NotNil(mt, got)
		assert.Empty(mt, got)
	})

	mt.Run("command error", func(mt *mtest.T) {
		repo := NewTransactionRepository(mt.DB, "products")
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad query",
			Name:    "BadValue",
		}))

		_, err := repo.Find(context.Background(), TransactionFilter{}, nil)
		assert.ErrorContains(mt, err, "find products")
	})
}

func TestTransactionRepository_InsertMany(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns ids and reports count", func(mt *mtest.T) {
		repo := NewTransactionRepository(mt.DB, "products")
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		products := []model.Product{{Title: "a"}, {Title: "b"}, {Title: "c"}}
		n, err := repo.InsertMany(context.Background(), products)
		require.NoError(mt, err)
		assert.Equal(mt, 3, n)
		for _, p := range products {
			assert.False(mt, p.ID.IsZero())
		}
		assert.True(mt, products[0].ID.Hex() < products[2].ID.Hex())
	})

	mt.Run("empty input skips the round trip", func(mt *mtest.T) {
		repo := NewTransactionRepository(mt.DB, "products")

		n, err := repo.InsertMany(context.Background(), nil)
		require.NoError(mt, err)
		assert.Zero(mt, n)
	})

	mt.Run("write error", func(mt *mtest.T) {
		repo := NewTransactionRepository(mt.DB, "products")
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := repo.InsertMany(context.Background(), []model.Product{{Title: "a"}})
		assert.ErrorContains(mt, err, "insert products")
	})
}
