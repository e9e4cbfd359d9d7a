package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/binarcar/car-rental/internal/core/domain"
)

// CarRepository implements ports.CarRepository using MongoDB. Rentals live in
// the user_cars collection.
type CarRepository struct {
	cars     *mongo.Collection
	userCars *mongo.Collection
}

func NewCarRepository(db *mongo.Database) *CarRepository {
	return &CarRepository{
		cars:     db.Collection(collectionCars),
		userCars: db.Collection(collectionUserCars),
	}
}

type carDocument struct {
	ID                string    `bson:"_id"`
	Name              string    `bson:"name"`
	Price             float64   `bson:"price"`
	Image             string    `bson:"image"`
	Size              string    `bson:"size"`
	IsCurrentlyRented bool      `bson:"is_currently_rented"`
	CreatedAt         time.Time `bson:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at"`
}

func (d carDocument) toDomain() *domain.Car {
	return &domain.Car{
		ID:                d.ID,
		Name:              d.Name,
		Price:             d.Price,
		Image:             d.Image,
		Size:              d.Size,
		IsCurrentlyRented: d.IsCurrentlyRented,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}
}

type userCarDocument struct {
	ID            string     `bson:"_id"`
	UserID        string     `bson:"user_id"`
	CarID         string     `bson:"car_id"`
	RentStartedAt time.Time  `bson:"rent_started_at"`
	RentEndedAt   *time.Time `bson:"rent_ended_at,omitempty"`
	CreatedAt     time.Time  `bson:"created_at"`
}

// List returns every car, oldest first.
func (r *CarRepository) List(ctx context.Context) ([]*domain.Car, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.cars.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []carDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode cars: %w", err)
	}

	cars := make([]*domain.Car, len(docs))
	for i, d := range docs {
		cars[i] = d.toDomain()
	}
	return cars, nil
}

func (r *CarRepository) FindByID(ctx context.Context, id string) (*domain.Car, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc carDocument
	if err := r.cars.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCarNotFound
		}
		return nil, fmt.Errorf("find car: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CarRepository) Create(ctx context.Context, c *domain.Car) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.cars.InsertOne(ctx, carDocument{
		ID:                c.ID,
		Name:              c.Name,
		Price:             c.Price,
		Image:             c.Image,
		Size:              c.Size,
		IsCurrentlyRented: c.IsCurrentlyRented,
		CreatedAt:         c.CreatedAt.UTC(),
		UpdatedAt:         c.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert car: %w", err)
	}
	return nil
}

func (r *CarRepository) Update(ctx context.Context, c *domain.Car) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.cars.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{
		"name":       c.Name,
		"price":      c.Price,
		"image":      c.Image,
		"size":       c.Size,
		"updated_at": c.UpdatedAt.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update car: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCarNotFound
	}
	return nil
}

func (r *CarRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.cars.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCarNotFound
	}
	return nil
}

// Rent flips is_currently_rented with a filter on its current value, so only
// one of several concurrent rents can match. The rental is inserted after the
// flip; if that insert fails the flag is reset, and a failed reset is
// returned alongside the insert error.
func (r *CarRepository) Rent(ctx context.Context, rental *domain.Rental) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.cars.FindOneAndUpdate(ctx,
		bson.M{"_id": rental.CarID, "is_currently_rented": false},
		bson.M{"$set": bson.M{"is_currently_rented": true, "updated_at": rental.CreatedAt.UTC()}},
	).Err()
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("flag car rented: %w", err)
		}
		n, err := r.cars.CountDocuments(ctx, bson.M{"_id": rental.CarID})
		if err != nil {
			return fmt.Errorf("count car: %w", err)
		}
		if n == 0 {
			return domain.ErrCarNotFound
		}
		return domain.ErrCarAlreadyRented
	}

	_, err = r.userCars.InsertOne(ctx, userCarDocument{
		ID:            rental.ID,
		UserID:        rental.UserID,
		CarID:         rental.CarID,
		RentStartedAt: rental.RentStartedAt.UTC(),
		RentEndedAt:   rental.RentEndedAt,
		CreatedAt:     rental.CreatedAt.UTC(),
	})
	if err != nil {
		insertErr := fmt.Errorf("insert rental: %w", err)
		if resetErr := r.resetRented(ctx, rental.CarID); resetErr != nil {
			return errors.Join(insertErr, resetErr)
		}
		return insertErr
	}
	return nil
}

// resetRented undoes the flag flip of a rent whose rental insert failed. It
// runs on its own deadline since ctx may be the one that just expired.
func (r *CarRepository) resetRented(ctx context.Context, carID string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultTimeout)
	defer cancel()

	res, err := r.cars.UpdateOne(ctx,
		bson.M{"_id": carID},
		bson.M{"$set": bson.M{"is_currently_rented": false}},
	)
	if err != nil {
		return fmt.Errorf("reset rented flag of car %s: %w", carID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("reset rented flag of car %s: no car matched", carID)
	}
	return nil
}
