package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OussemaBenslimene/Tasker/internal/apperror"
	"github.com/OussemaBenslimene/Tasker/internal/service"
)

type UserHandler struct {
	svc        *service.UserService
	cookieLife time.Duration
}

func NewUserHandler(svc *service.UserService, cookieLife time.Duration) *UserHandler {
	return &UserHandler{svc: svc, cookieLife: cookieLife}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=256"`
}

type verifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Token string `json:"token" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=256"`
}

type userUpdateRequest struct {
	DisplayName     *string `json:"displayName" binding:"omitempty,min=2,max=50"`
	CurrentPassword *string `json:"current_password" binding:"omitempty,min=8,max=256"`
	NewPassword     *string `json:"new_password" binding:"omitempty,min=8,max=256"`
}

// Register creates an inactive account and triggers the verification email.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Verify activates an account from the emailed token.
func (h *UserHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.svc.VerifyAccount(c.Request.Context(), req.Email, req.Token)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Login authenticates the user and sets the token pair as HttpOnly cookies.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	h.setAuthCookie(c, "accessToken", result.AccessToken)
	h.setAuthCookie(c, "refreshToken", result.RefreshToken)

	c.JSON(http.StatusOK, result.User)
}

// RefreshToken exchanges the refresh cookie for a fresh access token. The
// client calls this after a 410 from the auth middleware.
func (h *UserHandler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie("refreshToken")
	if err != nil || refreshToken == "" {
		c.Error(apperror.NewUnauthorized("Please Sign In! (Error from refresh Token)"))
		return
	}

	accessToken, err := h.svc.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		c.Error(err)
		return
	}

	h.setAuthCookie(c, "accessToken", accessToken)

	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

// Logout clears both auth cookies.
func (h *UserHandler) Logout(c *gin.Context) {
	h.clearAuthCookie(c, "accessToken")
	h.clearAuthCookie(c, "refreshToken")

	c.JSON(http.StatusOK, gin.H{"loggedOut": true})
}

// Update handles the profile update dispatch: a multipart body carries an
// avatar upload, a JSON body carries either a password change or a field
// patch.
func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if isMultipart(c) {
		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			c.Error(apperror.NewBadRequest("Avatar file is required!"))
			return
		}
		avatar, err := readFormFile(fileHeader)
		if err != nil {
			c.Error(err)
			return
		}

		user, err := h.svc.Update(c.Request.Context(), actor, service.UserPatch{}, avatar)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, user)
		return
	}

	var req userUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	patch := service.UserPatch{
		DisplayName:     req.DisplayName,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}

	user, err := h.svc.Update(c.Request.Context(), actor, patch, nil)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) setAuthCookie(c *gin.Context, name, value string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.cookieLife.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *UserHandler) clearAuthCookie(c *gin.Context, name string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
