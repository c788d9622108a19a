// Package mongo stores records in MongoDB, one collection per record type.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/types"
)

var _ storage.Storage = (*Mongo)(nil)

type Mongo struct {
	client   *mongo.Client
	people   *mongo.Collection
	products *mongo.Collection
}

type personDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Age      int                `bson:"age"`
	Nickname string             `bson:"nickname,omitempty"`
	Username string             `bson:"username,omitempty"` // legacy documents
	Date     time.Time          `bson:"date,omitempty"`
	Email    string             `bson:"email,omitempty"`
}

type productDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Price    float64            `bson:"price"`
	Category string             `bson:"category"`
}

// New connects to uri and verifies the primary is reachable.
func New(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.New: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo.New: ping: %w", err)
	}

	db := client.Database(database)
	slog.Info("connected to mongo", slog.String("database", database))

	return &Mongo{
		client:   client,
		people:   db.Collection(types.PeopleCollection),
		products: db.Collection(types.ProductsCollection),
	}, nil
}

func (m *Mongo) GetPeople(ctx context.Context) ([]types.Person, error) {
	var docs []personDoc
	if err := findAll(ctx, m.people, &docs); err != nil {
		return nil, fmt.Errorf("GetPeople: %w", err)
	}
	people := make([]types.Person, 0, len(docs))
	for _, d := range docs {
		people = append(people, d.person())
	}
	return people, nil
}

func (m *Mongo) CreatePerson(ctx context.Context, p types.Person) (types.Person, error) {
	doc := newPersonDoc(primitive.NewObjectID(), p)
	if _, err := m.people.InsertOne(ctx, doc); err != nil {
		return types.Person{}, fmt.Errorf("CreatePerson: %w", err)
	}
	return doc.person(), nil
}

func (m *Mongo) UpdatePersonByID(ctx context.Context, id string, p types.Person) (types.Person, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return types.Person{}, storage.ErrNotFound
	}

	var out personDoc
	if err := replace(ctx, m.people, oid, newPersonDoc(oid, p), &out); err != nil {
		return types.Person{}, fmt.Errorf("UpdatePersonByID: %w", err)
	}
	return out.person(), nil
}

func (m *Mongo) DeletePersonByID(ctx context.Context, id string) (bool, error) {
	deleted, err := deleteOne(ctx, m.people, id)
	if err != nil {
		return false, fmt.Errorf("DeletePersonByID: %w", err)
	}
	return deleted, nil
}

func (m *Mongo) GetProducts(ctx context.Context) ([]types.Product, error) {
	var docs []productDoc
	if err := findAll(ctx, m.products, &docs); err != nil {
		return nil, fmt.Errorf("GetProducts: %w", err)
	}
	products := make([]types.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.product())
	}
	return products, nil
}

func (m *Mongo) CreateProduct(ctx context.Context, p types.Product) (types.Product, error) {
	doc := newProductDoc(primitive.NewObjectID(), p)
	if _, err := m.products.InsertOne(ctx, doc); err != nil {
		return types.Product{}, fmt.Errorf("CreateProduct: %w", err)
	}
	return doc.product(), nil
}

func (m *Mongo) UpdateProductByID(ctx context.Context, id string, p types.Product) (types.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return types.Product{}, storage.ErrNotFound
	}

	var out productDoc
	if err := replace(ctx, m.products, oid, newProductDoc(oid, p), &out); err != nil {
		return types.Product{}, fmt.Errorf("UpdateProductByID: %w", err)
	}
	return out.product(), nil
}

func (m *Mongo) DeleteProductByID(ctx context.Context, id string) (bool, error) {
	deleted, err := deleteOne(ctx, m.products, id)
	if err != nil {
		return false, fmt.Errorf("DeleteProductByID: %w", err)
	}
	return deleted, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// findAll returns the collection in natural order.
func findAll(ctx context.Context, coll *mongo.Collection, out any) error {
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("find: %w", err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func replace(ctx context.Context, coll *mongo.Collection, oid primitive.ObjectID, doc, out any) error {
	opts := options.FindOneAndReplace().SetReturnDocument(options.After)
	err := coll.FindOneAndReplace(ctx, bson.M{"_id": oid}, doc, opts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	return nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func newPersonDoc(oid primitive.ObjectID, p types.Person) personDoc {
	return personDoc{
		ID:       oid,
		Name:     p.Name,
		Age:      p.Age,
		Nickname: p.Nickname,
		Date:     p.Date.Time,
		Email:    p.Email,
	}
}

func (d personDoc) person() types.Person {
	nickname := d.Nickname
	if nickname == "" {
		nickname = d.Username
	}
	return types.Person{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Age:      d.Age,
		Nickname: nickname,
		Date:     types.DateOf(d.Date.UTC()),
		Email:    d.Email,
	}
}

func newProductDoc(oid primitive.ObjectID, p types.Product) productDoc {
	return productDoc{ID: oid, Name: p.Name, Price: p.Price, Category: string(p.Category)}
}

func (d productDoc) product() types.Product {
	p := types.Product{ID: d.ID.Hex(), Name: d.Name, Price: d.Price, Category: types.Category(d.Category)}
	p.ApplyDefaults()
	return p
}
