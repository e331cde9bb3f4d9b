package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/OussemaBenslimene/Tasker/internal/apperror"
	"github.com/OussemaBenslimene/Tasker/internal/middleware"
	"github.com/OussemaBenslimene/Tasker/internal/service"
)

// currentActor recovers the authenticated user set by the auth middleware.
func currentActor(c *gin.Context) (service.Actor, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.Error(apperror.NewUnauthorized("Unauthorized! Please login."))
		return service.Actor{}, false
	}

	userID, ok := v.(uuid.UUID)
	if !ok {
		c.Error(apperror.New(500, "Invalid user ID format"))
		return service.Actor{}, false
	}

	return service.Actor{
		ID:    userID,
		Email: c.GetString(middleware.UserEmailKey),
	}, true
}

// bindJSON binds the request body into obj. Validation failures are collected
// into a single 422 so the client sees every invalid field at once, not just
// the first.
func bindJSON(c *gin.Context, obj any) bool {
	return reportBindError(c, c.ShouldBindJSON(obj))
}

// bindForm binds multipart form fields into obj with the same accumulated
// validation reporting as bindJSON.
func bindForm(c *gin.Context, obj any) bool {
	return reportBindError(c, c.ShouldBind(obj))
}

func reportBindError(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldErrorMessage(fe))
		}
		c.Error(apperror.NewUnprocessableEntity(strings.Join(msgs, ". ")))
	} else {
		c.Error(apperror.NewBadRequest("Invalid request body!"))
	}
	return false
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s length must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s length must be less than or equal to %s characters long", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid ID", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// parseIDParam parses a UUID path parameter, reporting a 400 on failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.Error(apperror.NewBadRequest(fmt.Sprintf("Invalid %s format!", name)))
		return uuid.Nil, false
	}
	return id, true
}

// readFormFile reads an uploaded multipart file fully into memory. Covers and
// avatars are small images; the router caps multipart memory anyway.
func readFormFile(fileHeader *multipart.FileHeader) (*service.CoverUpdate, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &service.CoverUpdate{FileName: fileHeader.Filename, Data: data}, nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}
