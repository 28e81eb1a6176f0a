package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fitexperts/experts-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users       map[string]*domain.User
	nextID      int
	updateErr   error
	createErr   error
	updates     int
	afterUpdate func()
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	r.users[u.ID] = cloneUser(u)
	return cloneUser(u)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, changes []domain.ProfileChange) (*domain.User, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	r.updates++
	applyChanges(u, changes)
	if r.afterUpdate != nil {
		r.afterUpdate()
	}
	return cloneUser(u), nil
}

func applyChanges(u *domain.User, changes []domain.ProfileChange) {
	for _, c := range changes {
		switch v := c.(type) {
		case domain.SetFirstName:
			u.FirstName = string(v)
		case domain.SetLastName:
			u.LastName = string(v)
		case domain.SetDisplayName:
			u.DisplayName = string(v)
		case domain.SetLocation:
			u.Location = string(v)
		case domain.SetBio:
			u.Bio = string(v)
		case domain.SetSocialMedia:
			u.SocialMedia = string(v)
		case domain.SetMeetLink:
			u.MeetLink = string(v)
		case domain.SetProfilePhoto:
			u.ProfilePhoto = domain.PhotoRef(v)
		}
	}
}

// ---------------------------------------------------------------------------
// Asset store stub with call counters
// ---------------------------------------------------------------------------

type stubAssetStore struct {
	uploadErr error
	deleteErr error
	nextID    string
	uploads   int
	deleted   []string
}

func (s *stubAssetStore) Upload(_ context.Context, asset *domain.UploadedAsset, folder string) (*domain.StoredObject, error) {
	s.uploads++
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	id := s.nextID
	if id == "" {
		id = fmt.Sprintf("obj%d", s.uploads)
	}
	objectID := folder + "/" + id
	return &domain.StoredObject{
		ObjectID:  objectID,
		SecureURL: "https://res.example.com/demo/image/upload/v1700000000/" + objectID,
	}, nil
}

func (s *stubAssetStore) Delete(ctx context.Context, objectID string) error {
	s.deleted = append(s.deleted, objectID)
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.deleteErr
}

// ObjectIDFromURL understands the URLs Upload hands out:
// https://host/<cloud>/image/upload/v<n>/<object id>[.ext]
func (s *stubAssetStore) ObjectIDFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, "https://") {
		return "", false
	}
	_, rest, ok := strings.Cut(url, "/upload/")
	if !ok || rest == "" {
		return "", false
	}
	if version, tail, ok := strings.Cut(rest, "/"); ok && strings.HasPrefix(version, "v") {
		rest = tail
	}
	if dot := strings.LastIndex(rest, "."); dot > strings.LastIndex(rest, "/") {
		rest = rest[:dot]
	}
	return rest, rest != ""
}

type stubOrphans struct {
	recorded []string
}

func (o *stubOrphans) Record(ctx context.Context, objectID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.recorded = append(o.recorded, objectID)
	return nil
}

// ---------------------------------------------------------------------------
// Token issuer stub
// ---------------------------------------------------------------------------

type stubIssuer struct {
	issued []string
	err    error
}

func (s *stubIssuer) Issue(subjectID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.issued = append(s.issued, subjectID)
	return "token-for-" + subjectID, nil
}

var errStoreDown = errors.New("store unavailable")

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
