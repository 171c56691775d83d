package server

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foundling/internal/models"
	"foundling/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportForm struct {
	fields map[string]string
	images [][]byte
}

func defaultReportForm() reportForm {
	return reportForm{
		fields: map[string]string{
			"title":       "Black Wallet",
			"description": "Leather, well worn",
			"category_id": "bags",
			"location":    "Central Park",
			"date_lost":   "2026-08-20",
		},
	}
}

func buildMultipart(t *testing.T, form reportForm) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range form.fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	for i, img := range form.images {
		part, err := writer.CreateFormFile("images", fmt.Sprintf("photo%d.jpg", i))
		require.NoError(t, err)
		_, err = part.Write(img)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func postReport(t *testing.T, app *fiber.App, token string, form reportForm) *http.Response {
	t.Helper()
	body, contentType := buildMultipart(t, form)
	req := httptest.NewRequest(http.MethodPost, "/api/items/lost/", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestCreateLostItem(t *testing.T) {
	app, s, db := newTestServer(t)
	_, token := createTestUser(t, s, db, "reporter@example.com", "Reporter")

	t.Run("Success with photos", func(t *testing.T) {
		form := defaultReportForm()
		form.images = [][]byte{testutil.SolidJPEG(t, 400, 400), testutil.SolidJPEG(t, 500, 350)}

		resp := postReport(t, app, token, form)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var item models.LostItem
		decodeBody(t, resp, &item)
		assert.NotZero(t, item.ID)
		assert.Equal(t, "Black Wallet", item.Title)
		assert.Equal(t, models.ItemStatusActive, item.Status)
		require.Len(t, item.Images, 2)
		for _, uri := range item.Images {
			assert.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))
		}
	})

	t.Run("Extra photos are dropped", func(t *testing.T) {
		form := defaultReportForm()
		for i := 0; i < 5; i++ {
			form.images = append(form.images, testutil.SolidJPEG(t, 400, 400))
		}

		resp := postReport(t, app, token, form)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var item models.LostItem
		decodeBody(t, resp, &item)
		assert.Len(t, item.Images, models.MaxItemImages)
	})

	t.Run("Tiny photo rejected", func(t *testing.T) {
		form := defaultReportForm()
		form.images = [][]byte{testutil.SolidJPEG(t, 100, 100)}

		resp := postReport(t, app, token, form)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Unknown category rejected", func(t *testing.T) {
		form := defaultReportForm()
		form.fields["category_id"] = "time-machines"

		resp := postReport(t, app, token, form)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetLostItems(t *testing.T) {
	app, s, db := newTestServer(t)
	owner, _ := createTestUser(t, s, db, "owner@example.com", "Owner")

	seed := []models.LostItem{
		{UserID: owner.ID, Title: "Black Wallet", CategoryID: "bags", Location: "Central Park", DateLost: time.Now(), Status: models.ItemStatusActive},
		{UserID: owner.ID, Title: "iPhone", CategoryID: "electronics", Location: "Union Square", DateLost: time.Now(), Status: models.ItemStatusActive},
		{UserID: owner.ID, Title: "Umbrella", CategoryID: "other", Location: "Central Park", DateLost: time.Now(), Status: models.ItemStatusFound},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	get := func(t *testing.T, url string) (map[string]any, *http.Response) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil))
		require.NoError(t, err)
		var body map[string]any
		decodeBody(t, resp, &body)
		return body, resp
	}

	t.Run("Browse is public and skips non-active", func(t *testing.T) {
		body, resp := get(t, "/api/items/lost/")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 2, body["total"])
		assert.EqualValues(t, 1, body["page"])
		assert.EqualValues(t, 1, body["pages"])
	})

	t.Run("Category filter", func(t *testing.T) {
		body, _ := get(t, "/api/items/lost/?category=electronics")
		assert.EqualValues(t, 1, body["total"])
	})

	t.Run("Location filter case-insensitive", func(t *testing.T) {
		body, _ := get(t, "/api/items/lost/?location=central")
		assert.EqualValues(t, 1, body["total"])
	})

	t.Run("Search matches title", func(t *testing.T) {
		body, _ := get(t, "/api/items/lost/?search=wallet")
		assert.EqualValues(t, 1, body["total"])
	})

	t.Run("Pagination math", func(t *testing.T) {
		body, _ := get(t, "/api/items/lost/?limit=1")
		assert.EqualValues(t, 2, body["total"])
		assert.EqualValues(t, 2, body["pages"])
		items := body["items"].([]any)
		assert.Len(t, items, 1)
	})

	t.Run("Items embed owner public profile", func(t *testing.T) {
		body, _ := get(t, "/api/items/lost/?category=bags")
		items := body["items"].([]any)
		require.Len(t, items, 1)
		item := items[0].(map[string]any)
		user, ok := item["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Owner", user["name"])
		_, leaked := user["email"]
		assert.False(t, leaked)
	})
}

func TestGetLostItem(t *testing.T) {
	app, s, db := newTestServer(t)
	owner, _ := createTestUser(t, s, db, "owner@example.com", "Owner")

	item := models.LostItem{UserID: owner.ID, Title: "Silver Ring", CategoryID: "jewelry", Location: "Beach", DateLost: time.Now(), Status: models.ItemStatusActive}
	require.NoError(t, db.Create(&item).Error)

	t.Run("Found", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/items/lost/%d", item.ID), nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, "Silver Ring", body["title"])
		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Owner", user["name"])
	})

	t.Run("Missing is 404", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/items/lost/9999", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Bad ID is 400", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/items/lost/abc", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateItemStatus(t *testing.T) {
	app, s, db := newTestServer(t)
	owner, ownerToken := createTestUser(t, s, db, "owner@example.com", "Owner")
	_, strangerToken := createTestUser(t, s, db, "stranger@example.com", "Stranger")

	item := models.LostItem{UserID: owner.ID, Title: "Backpack", CategoryID: "bags", Location: "Bus stop", DateLost: time.Now(), Status: models.ItemStatusActive}
	require.NoError(t, db.Create(&item).Error)

	patch := func(t *testing.T, token, status string) *http.Response {
		body := strings.NewReader(fmt.Sprintf(`{"status":%q}`, status))
		req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/items/lost/%d/status", item.ID), body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("Stranger forbidden", func(t *testing.T) {
		resp := patch(t, strangerToken, models.ItemStatusFound)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Unknown status rejected", func(t *testing.T) {
		resp := patch(t, ownerToken, "teleported")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Owner marks found", func(t *testing.T) {
		resp := patch(t, ownerToken, models.ItemStatusFound)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var reloaded models.LostItem
		require.NoError(t, db.First(&reloaded, item.ID).Error)
		assert.Equal(t, models.ItemStatusFound, reloaded.Status)
	})
}
