package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foundling/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	app, s, db := newTestServer(t)
	user, token := createTestUser(t, s, db, "me@example.com", "Me")

	seed := []models.LostItem{
		{UserID: user.ID, Title: "Wallet", CategoryID: "bags", Location: "Park", DateLost: time.Now(), Status: models.ItemStatusActive},
		{UserID: user.ID, Title: "Phone", CategoryID: "electronics", Location: "Cafe", DateLost: time.Now(), Status: models.ItemStatusFound},
		{UserID: user.ID, Title: "Scarf", CategoryID: "clothing", Location: "Train", DateLost: time.Now(), Status: models.ItemStatusClosed},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		User      *models.User       `json:"user"`
		LostItems []models.LostItem  `json:"lost_items"`
		Stats     map[string]float64 `json:"stats"`
	}
	decodeBody(t, resp, &body)

	require.NotNil(t, body.User)
	assert.Equal(t, "me@example.com", body.User.Email)
	assert.Len(t, body.LostItems, 3)
	assert.EqualValues(t, 3, body.Stats["total_reported"])
	assert.EqualValues(t, 1, body.Stats["active_items"])
	assert.EqualValues(t, 1, body.Stats["found_items"])
}
