package employee

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the mongo collection holding the roster.
const CollectionName = "employees"

type mongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository stores one document per employee. Updates are
// per-document, still without any version check.
func NewMongoRepository(coll *mongo.Collection) Repository {
	return &mongoRepository{coll: coll}
}

func (r *mongoRepository) FindAll(ctx context.Context) ([]Employee, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	empls := []Employee{}
	if err := cur.All(ctx, &empls); err != nil {
		return nil, err
	}
	return empls, nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&empl); err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *mongoRepository) Create(ctx context.Context, empl *Employee) error {
	if empl.ID == "" {
		empl.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.coll.InsertOne(ctx, empl)
	return err
}

func (r *mongoRepository) Update(ctx context.Context, id string, patch Patch) (*Employee, error) {
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	set := bson.D{}
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *patch.Name})
	}
	if patch.BasicSalary != nil {
		set = append(set, bson.E{Key: "basicSalary", Value: *patch.BasicSalary})
	}
	if patch.PendingBalance != nil {
		set = append(set, bson.E{Key: "pendingBalance", Value: *patch.PendingBalance})
	}

	var empl Employee
	err := r.coll.FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&empl)
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *mongoRepository) Delete(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	if err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&empl); err != nil {
		return nil, err
	}
	return &empl, nil
}
