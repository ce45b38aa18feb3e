package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a single sale transaction as stored in the products collection.
// ExternalID is the feed's own id and is not unique.
type Product struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	ExternalID  int64              `json:"id" bson:"id"`
	Title       string             `json:"title" bson:"title"`
	Price       float64            `json:"price" bson:"price"`
	Description string             `json:"description" bson:"description"`
	Category    string             `json:"category" bson:"category"`
	Image       string             `json:"image" bson:"image"`
	Sold        bool               `json:"sold" bson:"sold"`
	DateOfSale  time.Time          `json:"dateOfSale" bson:"dateOfSale"`
}
