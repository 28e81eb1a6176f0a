package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fitexperts/experts-api/internal/core/domain"
	"github.com/fitexperts/experts-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

type stubProfileService struct {
	getFn    func(ctx context.Context, id string) (*domain.User, error)
	updateFn func(ctx context.Context, in ports.UpdateProfileInput) (*domain.User, error)
}

func (s *stubProfileService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubProfileService) Update(ctx context.Context, in ports.UpdateProfileInput) (*domain.User, error) {
	return s.updateFn(ctx, in)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// multipartBody writes fields and, when photo is non-nil, a profilePhoto part.
func multipartBody(t *testing.T, fields map[string]string, photoType string, photo []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if photo != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="profilePhoto"; filename="me.png"`)
		h.Set("Content-Type", photoType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write(photo)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func withIdentity(c echo.Context, id string) {
	c.Set("identity", domain.Identity{ID: id})
}

func validRegistration() map[string]string {
	return map[string]string{
		"firstName":   "Ana",
		"lastName":    "Lopez",
		"email":       "ana@example.com",
		"password":    "supersecret",
		"displayName": "Coach Ana",
		"location":    "Madrid",
	}
}

// ---------------------------------------------------------------------------
// Register / Login / Logout
// ---------------------------------------------------------------------------

func TestUserHandler_Register_Success(t *testing.T) {
	e := newEcho()
	var got ports.RegisterInput
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			got = in
			return &ports.AuthResult{
				User:  &domain.User{ID: "u1", FirstName: in.FirstName, LastName: in.LastName, Email: in.Email},
				Token: "tok",
			}, nil
		},
	}
	h := NewUserHandler(stub, nil, CookieOptions{MaxAge: time.Hour})

	body, ctype := multipartBody(t, validRegistration(), "image/png", []byte("\x89PNG\r\n\x1a\n"))
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()

	if err := h.Register(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	for _, k := range []string{"id", "firstName", "lastName", "email", "token"} {
		if _, ok := resp[k]; !ok {
			t.Errorf("response missing %q: %v", k, resp)
		}
	}
	if len(resp) != 5 {
		t.Errorf("unexpected extra keys: %v", resp)
	}

	if got.Photo == nil || got.Photo.ContentType != "image/png" {
		t.Fatalf("expected photo to be forwarded, got %+v", got.Photo)
	}
	rc, err := got.Photo.Open()
	if err != nil {
		t.Fatalf("open photo: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("photo bytes not forwarded")
	}

	if !strings.Contains(rec.Header().Get("Set-Cookie"), "jwt=tok") {
		t.Fatalf("expected jwt cookie, got %q", rec.Header().Get("Set-Cookie"))
	}
}

func TestUserHandler_Register_WithoutPhoto(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Photo != nil {
				t.Fatalf("expected no photo")
			}
			return &ports.AuthResult{User: &domain.User{ID: "u1"}, Token: "tok"}, nil
		},
	}
	h := NewUserHandler(stub, nil, CookieOptions{})

	body, ctype := multipartBody(t, validRegistration(), "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", body)
	req.Header.Set(echo.HeaderContentType, ctype)

	if err := h.Register(e.NewContext(req, httptest.NewRecorder())); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestUserHandler_Register_Validation(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub, nil, CookieOptions{})

	fields := validRegistration()
	fields["password"] = "short"
	delete(fields, "location")
	body, ctype := multipartBody(t, fields, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", body)
	req.Header.Set(echo.HeaderContentType, ctype)

	err := h.Register(e.NewContext(req, httptest.NewRecorder()))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "password") || !strings.Contains(err.Error(), "location") {
		t.Fatalf("expected field names in message, got %q", err.Error())
	}
}

func TestUserHandler_Register_Duplicate(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewUserHandler(stub, nil, CookieOptions{})

	body, ctype := multipartBody(t, validRegistration(), "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()

	if err := h.Register(e.NewContext(req, rec)); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if rec.Header().Get("Set-Cookie") != "" {
		t.Fatalf("no cookie must be set on failure")
	}
}

func TestUserHandler_Login_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.AuthResult, error) {
			if email != "ana@example.com" || password != "supersecret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.AuthResult{
				User:  &domain.User{ID: "u1", Email: email, PasswordHash: "hash"},
				Token: "token123",
			}, nil
		},
	}
	h := NewUserHandler(stub, nil, CookieOptions{})

	req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(`{"email":"ana@example.com","password":"supersecret"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["id"] != "u1" {
		t.Fatalf("unexpected payload: %v", resp)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestUserHandler_Login_InvalidCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewUserHandler(stub, nil, CookieOptions{})

	req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(`{"email":"ana@example.com","password":"bad"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	if err := h.Login(e.NewContext(req, httptest.NewRecorder())); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserHandler_Login_InvalidPayload(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubAuthService{}, nil, CookieOptions{})

	req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	err := h.Login(e.NewContext(req, httptest.NewRecorder()))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUserHandler_Logout_ClearsCookie(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubAuthService{}, nil, CookieOptions{})

	rec := httptest.NewRecorder()
	if err := h.Logout(e.NewContext(httptest.NewRequest(http.MethodPost, "/api/users/logout", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	cookie := rec.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "jwt=;") || !strings.Contains(cookie, "Max-Age=0") {
		t.Fatalf("expected cleared cookie, got %q", cookie)
	}
}

// ---------------------------------------------------------------------------
// Profile reads and updates
// ---------------------------------------------------------------------------

func TestUserHandler_Profile_UsesIdentity(t *testing.T) {
	e := newEcho()
	profiles := &stubProfileService{
		getFn: func(_ context.Context, id string) (*domain.User, error) {
			if id != "u1" {
				t.Fatalf("expected caller id, got %q", id)
			}
			return &domain.User{ID: id}, nil
		},
	}
	h := NewUserHandler(nil, profiles, CookieOptions{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users/profile", nil), rec)
	withIdentity(c, "u1")

	if err := h.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Profile_WithoutIdentity(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(nil, &stubProfileService{}, CookieOptions{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users/profile", nil), httptest.NewRecorder())
	if err := h.Profile(c); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	e := newEcho()
	profiles := &stubProfileService{
		getFn: func(context.Context, string) (*domain.User, error) { return nil, domain.ErrUserNotFound },
	}
	h := NewUserHandler(nil, profiles, CookieOptions{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users/zzz", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("zzz")

	if err := h.Get(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserHandler_UpdateSelf_BuildsTypedChanges(t *testing.T) {
	e := newEcho()
	var got ports.UpdateProfileInput
	profiles := &stubProfileService{
		updateFn: func(_ context.Context, in ports.UpdateProfileInput) (*domain.User, error) {
			got = in
			return &domain.User{ID: in.TargetID}, nil
		},
	}
	h := NewUserHandler(nil, profiles, CookieOptions{})

	fields := map[string]string{
		"bio":      "  Strength coach ",
		"location": "Lisbon",
		"password": "ignored-field",
		"email":    "ignored@example.com",
	}
	body, ctype := multipartBody(t, fields, "image/png", []byte("\x89PNG\r\n\x1a\n"))
	req := httptest.NewRequest(http.MethodPatch, "/api/users/update", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	c := e.NewContext(req, httptest.NewRecorder())
	withIdentity(c, "u1")

	if err := h.UpdateSelf(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.ActorID != "u1" || got.TargetID != "u1" {
		t.Fatalf("unexpected actor/target: %+v", got)
	}
	if len(got.Changes) != 2 {
		t.Fatalf("expected 2 typed changes, got %d: %+v", len(got.Changes), got.Changes)
	}
	if got.Changes[0] != domain.SetLocation("Lisbon") || got.Changes[1] != domain.SetBio("Strength coach") {
		t.Fatalf("unexpected changes: %+v", got.Changes)
	}
	if got.Photo == nil {
		t.Fatalf("expected photo")
	}
}

func TestUserHandler_Update_ByIDPassesTarget(t *testing.T) {
	e := newEcho()
	profiles := &stubProfileService{
		updateFn: func(_ context.Context, in ports.UpdateProfileInput) (*domain.User, error) {
			if in.ActorID != "u1" || in.TargetID != "u2" {
				t.Fatalf("unexpected actor/target: %+v", in)
			}
			return nil, domain.ErrNotOwner
		},
	}
	h := NewUserHandler(nil, profiles, CookieOptions{})

	body, ctype := multipartBody(t, map[string]string{"bio": "x"}, "", nil)
	req := httptest.NewRequest(http.MethodPatch, "/api/users/u2", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("u2")
	withIdentity(c, "u1")

	if err := h.Update(c); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}
