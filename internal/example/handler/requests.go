package handler

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"baseapi/internal/example/models"
	dErrors "baseapi/pkg/domain-errors"
)

const (
	minNameLength = 2
	maxNameLength = 100
)

var (
	nationalIDPattern = regexp.MustCompile(`^[0-9]{7,8}$`)
	genderPattern     = regexp.MustCompile(`^[HM]$`)
)

// CreateExampleRequest is the POST /examples body.
type CreateExampleRequest struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	DNI      string `json:"dni"`
	Genero   string `json:"genero"`
}

// Normalize trims surrounding whitespace from every field.
func (r *CreateExampleRequest) Normalize() {
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.Apellido = strings.TrimSpace(r.Apellido)
	r.DNI = strings.TrimSpace(r.DNI)
	r.Genero = strings.TrimSpace(r.Genero)
}

// Validate reports every broken rule in one error.
func (r *CreateExampleRequest) Validate() error {
	var problems []string
	if msg := checkName("nombre", r.Nombre); msg != "" {
		problems = append(problems, msg)
	}
	if msg := checkName("apellido", r.Apellido); msg != "" {
		problems = append(problems, msg)
	}
	switch {
	case r.DNI == "":
		problems = append(problems, "dni is required")
	case !nationalIDPattern.MatchString(r.DNI):
		problems = append(problems, "dni must be 7 or 8 digits")
	}
	switch {
	case r.Genero == "":
		problems = append(problems, "genero is required")
	case !genderPattern.MatchString(r.Genero):
		problems = append(problems, "genero must be H or M")
	}
	if len(problems) > 0 {
		return dErrors.New(dErrors.CodeValidation, strings.Join(problems, "; "))
	}
	return nil
}

func checkName(field, v string) string {
	if v == "" {
		return field + " is required"
	}
	if n := utf8.RuneCountInString(v); n < minNameLength || n > maxNameLength {
		return fmt.Sprintf("%s must be between %d and %d characters", field, minNameLength, maxNameLength)
	}
	return ""
}

// ToCandidate converts a validated request into an unpersisted example.
func (r *CreateExampleRequest) ToCandidate() (*models.Example, error) {
	return models.NewCandidate(r.Nombre, r.Apellido, r.DNI, models.Gender(r.Genero))
}
