package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		RespondBadRequest(ctx, bindErrorMessage(err))

		return false
	}

	return true
}

func bindErrorMessage(err error) string {
	// validator errors (struct bind tags)

	var validatorErrors validator.ValidationErrors

	if errors.As(err, &validatorErrors) {
		parts := make([]string, 0, len(validatorErrors))

		for _, fieldError := range validatorErrors {
			parts = append(parts, strings.ToLower(fieldError.Field())+" "+validationMessage(fieldError.Tag(), fieldError.Param()))
		}
		return strings.Join(parts, "; ")
	}

	// in the event of bad json

	var syntaxError *json.SyntaxError

	if errors.As(err, &syntaxError) {
		return "request body is not valid JSON"
	}

	// in the event of a type mismatch

	var unmatchedTypeError *json.UnmarshalTypeError

	if errors.As(err, &unmatchedTypeError) {
		field := strings.TrimSpace(unmatchedTypeError.Field)

		if field == "" {
			field = "body"
		}

		return fmt.Sprintf("%s must be of type %s", field, unmatchedTypeError.Type.String())
	}

	if errors.Is(err, io.EOF) {
		return "request body is required"
	}

	// final fallback if the error could not be deciphered
	return "invalid request body"
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
