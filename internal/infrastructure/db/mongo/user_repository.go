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

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	DisplayName  string             `bson:"display_name"`
	Location     string             `bson:"location"`
	Bio          string             `bson:"bio,omitempty"`
	SocialMedia  string             `bson:"social_media,omitempty"`
	MeetLink     string             `bson:"meet_link,omitempty"`
	ProfilePhoto string             `bson:"profile_photo,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

// profileColumns maps each changeable field to its stored name.
var profileColumns = map[domain.ProfileField]string{
	domain.FieldFirstName:    "first_name",
	domain.FieldLastName:     "last_name",
	domain.FieldDisplayName:  "display_name",
	domain.FieldLocation:     "location",
	domain.FieldBio:          "bio",
	domain.FieldSocialMedia:  "social_media",
	domain.FieldMeetLink:     "meet_link",
	domain.FieldProfilePhoto: "profile_photo",
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toUserDocument(u)
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, errors.Wrap(err, "insert user")
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// UpdateProfile writes every change in one $set and returns the stored document.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, changes []domain.ProfileChange) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	set, err := profileUpdate(changes, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "update user profile")
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the unique email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return errors.Wrap(err, "users indexes")
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "find user")
	}
	return doc.toDomain(), nil
}

func profileUpdate(changes []domain.ProfileChange, now time.Time) (bson.M, error) {
	set := bson.M{"updated_at": now}
	for _, c := range changes {
		col, ok := profileColumns[c.Field()]
		if !ok {
			return nil, errors.Errorf("unmapped profile field %q", c.Field())
		}
		set[col] = c.Value()
	}
	return set, nil
}

func toUserDocument(u *domain.User) userDocument {
	return userDocument{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		DisplayName:  u.DisplayName,
		Location:     u.Location,
		Bio:          u.Bio,
		SocialMedia:  u.SocialMedia,
		MeetLink:     u.MeetLink,
		ProfilePhoto: string(u.ProfilePhoto),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		DisplayName:  d.DisplayName,
		Location:     d.Location,
		Bio:          d.Bio,
		SocialMedia:  d.SocialMedia,
		MeetLink:     d.MeetLink,
		ProfilePhoto: domain.PhotoRef(d.ProfilePhoto),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}
