package dto

import "github.com/znlumins/webkalenderaihmpsti/internal/models"

// ReferenceData lists the static choices used by the event and proker forms.
type ReferenceData struct {
	Departments   []models.Department `json:"departments"`
	ActivityTypes []string            `json:"activity_types"`
	Divisions     []string            `json:"divisions"`
	Statuses      []string            `json:"statuses"`
	TimeZone      string              `json:"time_zone"`
}

// UploadResponse returns the public URL of a stored blob.
type UploadResponse struct {
	URL string `json:"url"`
}
