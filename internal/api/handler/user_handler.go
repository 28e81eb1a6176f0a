package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fitexperts/experts-api/internal/core/domain"
	"github.com/fitexperts/experts-api/internal/core/ports"
)

const tokenCookie = "jwt"

// CookieOptions controls the jwt cookie set on login and registration.
type CookieOptions struct {
	MaxAge time.Duration
	Secure bool
}

type UserHandler struct {
	auth     ports.AuthService
	profiles ports.ProfileService
	cookie   CookieOptions
}

func NewUserHandler(auth ports.AuthService, profiles ports.ProfileService, cookie CookieOptions) *UserHandler {
	return &UserHandler{auth: auth, profiles: profiles, cookie: cookie}
}

// Register creates an expert account.
//
// @Summary      Register an expert
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        firstName     formData  string  true   "First name"
// @Param        lastName      formData  string  true   "Last name"
// @Param        email         formData  string  true   "Email"
// @Param        password      formData  string  true   "Password (min 8)"
// @Param        displayName   formData  string  true   "Display name"
// @Param        location      formData  string  true   "Location"
// @Param        bio           formData  string  false  "Bio"
// @Param        socialMedia   formData  string  false  "Social handle"
// @Param        meetLink      formData  string  false  "Meeting link"
// @Param        profilePhoto  formData  file    false  "Profile photo"
// @Success      201  {object}  registerResponse
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      413  {object}  errorResponse
// @Failure      415  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	photo, err := photoUpload(c)
	if err != nil {
		return err
	}

	res, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Location:    req.Location,
		Bio:         req.Bio,
		SocialMedia: req.SocialMedia,
		MeetLink:    req.MeetLink,
		Photo:       photo,
	})
	if err != nil {
		return err
	}

	h.setTokenCookie(c, res.Token)
	return c.JSON(http.StatusCreated, registerResponse{
		ID:        res.User.ID,
		FirstName: res.User.FirstName,
		LastName:  res.User.LastName,
		Email:     res.User.Email,
		Token:     res.Token,
	})
}

// Login authenticates an expert and returns a token.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, res.Token)
	return c.JSON(http.StatusOK, loginResponse{User: res.User, Token: res.Token})
}

// Logout clears the token cookie. Tokens are stateless and stay valid until expiry.
//
// @Summary      Logout
// @Tags         users
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/users/logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "logged out"})
}

// Profile returns the caller's own profile.
//
// @Summary      Current profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /api/users/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	user, err := h.profiles.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Get returns any expert's public profile.
//
// @Summary      Public profile
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.profiles.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateSelf applies profile changes to the caller's own profile.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        profilePhoto  formData  file  false  "New profile photo"
// @Success      200  {object}  domain.User
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      413  {object}  errorResponse
// @Failure      415  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/users/update [patch]
func (h *UserHandler) UpdateSelf(c echo.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	return h.update(c, id, id)
}

// Update applies profile changes to the profile addressed by id.
//
// @Summary      Update profile by id
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id            path      string  true   "User id"
// @Param        profilePhoto  formData  file    false  "New profile photo"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return err
	}
	return h.update(c, actor, c.Param("id"))
}

func (h *UserHandler) update(c echo.Context, actor, target string) error {
	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	photo, err := photoUpload(c)
	if err != nil {
		return err
	}

	user, err := h.profiles.Update(c.Request().Context(), ports.UpdateProfileInput{
		ActorID:  actor,
		TargetID: target,
		Changes:  profileChanges(params),
		Photo:    photo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// profileChanges turns the submitted keys into typed changes. Unknown keys,
// including password and email, are ignored.
func profileChanges(params url.Values) []domain.ProfileChange {
	changes := make([]domain.ProfileChange, 0, len(profileForm))
	for _, f := range profileForm {
		if _, ok := params[f.key]; !ok {
			continue
		}
		changes = append(changes, f.make(strings.TrimSpace(params.Get(f.key))))
	}
	return changes
}

func (h *UserHandler) setTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
