package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walletkun/jobapp-tracker/internal/models"
)

func TestFilterApplications(t *testing.T) {
	apps := []models.Application{
		{ID: 1, Company: "Stripe", Position: "Backend Engineer", Status: models.StatusApplied},
		{ID: 2, Company: "Acme", Position: "Data Analyst", Status: models.StatusOASent},
		{ID: 3, Company: "Globex", Position: "SRE", Status: models.StatusOffered},
	}

	ids := func(in []models.Application) []uint {
		var out []uint
		for _, a := range in {
			out = append(out, a.ID)
		}
		return out
	}

	assert.Equal(t, []uint{1}, ids(FilterApplications(apps, "STRIPE")))
	assert.Equal(t, []uint{2}, ids(FilterApplications(apps, "analyst")))
	assert.Equal(t, []uint{2}, ids(FilterApplications(apps, " oa ")))
	assert.Equal(t, []uint{1, 2, 3}, ids(FilterApplications(apps, "")))
	assert.Equal(t, []uint{1, 2, 3}, ids(FilterApplications(apps, "e")))
	assert.Empty(t, FilterApplications(apps, "initech"))
}
