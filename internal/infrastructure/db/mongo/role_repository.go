package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/binarcar/car-rental/internal/core/domain"
)

// RoleRepository implements ports.RoleRepository using MongoDB.
type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

type roleDocument struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

// SeedRoles upserts every recognised role. Existing roles keep their ids.
func (r *RoleRepository) SeedRoles(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, name := range domain.Roles {
		_, err := r.col.UpdateOne(ctx,
			bson.M{"name": string(name)},
			bson.M{"$setOnInsert": bson.M{"_id": uuid.NewString(), "name": string(name)}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *RoleRepository) FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"name": string(name)})
}

// findOne returns the stored name as is; callers parse it, so a corrupted
// role document fails closed instead of being rejected here.
func (r *RoleRepository) findOne(ctx context.Context, filter bson.M) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: doc.ID, Name: domain.RoleName(doc.Name)}, nil
}
