package handler

import (
	"time"

	"baseapi/internal/example/models"
)

// ExampleResponse is the wire form of a stored example.
type ExampleResponse struct {
	ID        int64     `json:"id"`
	Nombre    string    `json:"nombre"`
	Apellido  string    `json:"apellido"`
	DNI       string    `json:"dni"`
	Genero    string    `json:"genero"`
	CUIT      string    `json:"cuit"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toExampleResponse(e *models.Example) ExampleResponse {
	return ExampleResponse{
		ID:        e.ID,
		Nombre:    e.FirstName,
		Apellido:  e.LastName,
		DNI:       e.NationalID,
		Genero:    e.Gender.String(),
		CUIT:      e.TaxID,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
