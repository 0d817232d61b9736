package dtos

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/walletkun/jobapp-tracker/internal/models"
)

// CreateApplicationRequest is the POST /api/applications body.
type CreateApplicationRequest struct {
	Company  string        `json:"company"`
	Position string        `json:"position"`
	Status   models.Status `json:"status"`
	Progress int           `json:"progress"`
}

// UpdateStatusRequest is the PATCH /api/applications/:id body.
type UpdateStatusRequest struct {
	Status   models.Status `json:"status"`
	Progress int           `json:"progress"`
}

// ApplicationForm is what the user fills in. Progress is never part of it.
type ApplicationForm struct {
	Company  string `form:"company" json:"company" binding:"required"`
	Position string `form:"position" json:"position" binding:"required"`
	Status   string `form:"status" json:"status"`
}

// StatusForm carries the dropdown choice of a table row.
type StatusForm struct {
	Status string `form:"status" json:"status" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorMessage pulls the "error" field out of an error body. The backend is
// not consistent about the key, so "error: " and other spacings count too.
// Returns "" when there is no such string field.
func ErrorMessage(body []byte) string {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		norm := strings.ToLower(strings.TrimSpace(strings.TrimRight(strings.TrimSpace(k), ":")))
		if norm != "error" {
			continue
		}
		if s, ok := fields[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
