package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSON binds the request body into out and writes a 400 with a short
// human-readable reason when that fails.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		RespondError(ctx, 400, bindErrorMessage(err))

		return false
	}

	return true
}

func bindErrorMessage(err error) string {
	var validatorErrs validator.ValidationErrors

	if errors.As(err, &validatorErrs) && len(validatorErrs) > 0 {
		fe := validatorErrs[0]
		return fmt.Sprintf("%s %s", strings.ToLower(fe.Field()), validationMessage(fe.Tag(), fe.Param()))
	}

	return "Invalid request body"
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
