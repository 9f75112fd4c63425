package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnumValidation(t *testing.T) {
	assert.True(t, JobTypeContract.Valid())
	assert.False(t, JobType("Freelance").Valid())
	assert.False(t, JobType("full-time").Valid())

	assert.True(t, JobStatusInactive.Valid())
	assert.False(t, JobStatus("archived").Valid())

	assert.True(t, ApplicationApproved.Valid())
	assert.False(t, ApplicationStatus("withdrawn").Valid())

	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("owner").Valid())
}

func TestApplyReview(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	app := Application{ID: "a1", Status: ApplicationPending, AdminNotes: "old"}

	reviewed := app.ApplyReview(Review{Status: ApplicationApproved, AdminNotes: "Strong portfolio", ReviewedAt: at})
	assert.Equal(t, ApplicationApproved, reviewed.Status)
	assert.Equal(t, "Strong portfolio", reviewed.AdminNotes)
	assert.Equal(t, at, *reviewed.ReviewedAt)

	// original untouched
	assert.Equal(t, ApplicationPending, app.Status)
	assert.Nil(t, app.ReviewedAt)

	cleared := reviewed.ApplyReview(Review{Status: ApplicationApproved, ReviewedAt: at.Add(time.Hour)})
	assert.Empty(t, cleared.AdminNotes)
	assert.Equal(t, at.Add(time.Hour), *cleared.ReviewedAt)
}

func TestSession(t *testing.T) {
	now := time.Now()
	s := &Session{Role: RoleAdmin, ExpiresAt: now.Add(10 * time.Minute)}

	assert.True(t, s.IsAdmin())
	assert.False(t, s.IsExpired(now))
	assert.True(t, s.IsExpired(now.Add(10*time.Minute)))
	assert.Equal(t, 5*time.Minute, s.TTL(now, 5*time.Minute))
	assert.Equal(t, 10*time.Minute, s.TTL(now, time.Hour))

	var noExpiry Session
	assert.False(t, noExpiry.IsExpired(now))
	assert.Equal(t, time.Hour, noExpiry.TTL(now, time.Hour))
}

func TestJobSummary(t *testing.T) {
	j := Job{ID: "j1", Title: "Go Engineer", Company: "Acme", Location: "Remote", Type: JobTypeFullTime, Salary: "$150k", Status: JobStatusActive}
	assert.True(t, j.IsActive())
	assert.Equal(t, JobSummary{ID: "j1", Title: "Go Engineer", Company: "Acme", Location: "Remote", Type: JobTypeFullTime, Salary: "$150k"}, j.Summary())
	assert.Equal(t, AllLocations, Locations[0])
	assert.Equal(t, AllTypes, TypeOptions[0])
}
