package services

import (
	"strings"

	"github.com/walletkun/jobapp-tracker/internal/models"
)

// minQueryLen skips one-letter queries, which would match nearly everything anyway.
const minQueryLen = 2

// FilterApplications keeps the applications whose company, position or
// status contains query, ignoring case. The input slice is not modified.
func FilterApplications(apps []models.Application, query string) []models.Application {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < minQueryLen {
		return apps
	}

	var out []models.Application
	for _, app := range apps {
		switch {
		case strings.Contains(strings.ToLower(app.Company), q):
		case strings.Contains(strings.ToLower(app.Position), q):
		case strings.Contains(string(app.Status), q):
		default:
			continue
		}
		out = append(out, app)
	}
	return out
}
