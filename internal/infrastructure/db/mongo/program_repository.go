package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fitexperts/experts-api/internal/core/domain"
)

const collectionPrograms = "programs"

type ProgramRepository struct {
	col *mongo.Collection
}

func NewProgramRepository(db *mongo.Database) *ProgramRepository {
	return &ProgramRepository{col: db.Collection(collectionPrograms)}
}

type programDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ExpertID    string             `bson:"expert_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Duration    string             `bson:"duration"`
	Price       string             `bson:"price"`
	Highlights  string             `bson:"highlights,omitempty"`
	FAQs        []domain.FAQ       `bson:"faqs"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (r *ProgramRepository) Create(ctx context.Context, p *domain.Program) (*domain.Program, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toProgramDocument(p)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, errors.Wrap(err, "insert program")
	}
	return doc.toDomain(), nil
}

func (r *ProgramRepository) FindByID(ctx context.Context, id string) (*domain.Program, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrProgramNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc programDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProgramNotFound
		}
		return nil, errors.Wrap(err, "find program")
	}
	return doc.toDomain(), nil
}

// ListByExpert returns the expert's programs, newest first.
func (r *ProgramRepository) ListByExpert(ctx context.Context, expertID string) ([]*domain.Program, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"expert_id": expertID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list programs")
	}
	defer cur.Close(ctx)

	var docs []programDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode programs")
	}

	out := make([]*domain.Program, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ProgramRepository) Update(ctx context.Context, p *domain.Program) (*domain.Program, error) {
	oid, ok := objectID(p.ID)
	if !ok {
		return nil, domain.ErrProgramNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toProgramDocument(p)
	set := bson.M{
		"name":        doc.Name,
		"description": doc.Description,
		"duration":    doc.Duration,
		"price":       doc.Price,
		"highlights":  doc.Highlights,
		"faqs":        doc.FAQs,
		"updated_at":  doc.UpdatedAt,
	}

	var updated programDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProgramNotFound
		}
		return nil, errors.Wrap(err, "update program")
	}
	return updated.toDomain(), nil
}

func (r *ProgramRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrProgramNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "delete program")
	}
	if res.DeletedCount == 0 {
		return domain.ErrProgramNotFound
	}
	return nil
}

func (r *ProgramRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "expert_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return errors.Wrap(err, "programs indexes")
}

func toProgramDocument(p *domain.Program) programDocument {
	faqs := p.FAQs
	if faqs == nil {
		faqs = []domain.FAQ{}
	}
	return programDocument{
		ExpertID:    p.ExpertID,
		Name:        p.Name,
		Description: p.Description,
		Duration:    p.Duration,
		Price:       p.Price,
		Highlights:  p.Highlights,
		FAQs:        faqs,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d programDocument) toDomain() *domain.Program {
	faqs := d.FAQs
	if faqs == nil {
		faqs = []domain.FAQ{}
	}
	return &domain.Program{
		ID:          d.ID.Hex(),
		ExpertID:    d.ExpertID,
		Name:        d.Name,
		Description: d.Description,
		Duration:    d.Duration,
		Price:       d.Price,
		Highlights:  d.Highlights,
		FAQs:        faqs,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}
