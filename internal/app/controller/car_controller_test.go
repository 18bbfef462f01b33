package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kraakman/autoservice-backend/internal/app/model"
	"github.com/kraakman/autoservice-backend/internal/app/repository"
	"github.com/kraakman/autoservice-backend/internal/app/service"
	"github.com/kraakman/autoservice-backend/internal/db"
	"github.com/kraakman/autoservice-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopPhotoStore struct{}

func (noopPhotoStore) Upload(ctx context.Context, carID uint, filename, contentType string, body io.Reader) (*storage.UploadResult, error) {
	key := fmt.Sprintf("cars/%d/%s", carID, filename)
	return &storage.UploadResult{URL: "https://cdn.example.com/" + key, Key: key}, nil
}

func (noopPhotoStore) Remove(ctx context.Context, keys []string) error { return nil }

func setupCarRouter(t *testing.T) (*gin.Engine, service.CarService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	carSvc := service.NewCarService(
		repository.NewCarRepository(database),
		repository.NewCarImageRepository(database),
		noopPhotoStore{},
	)
	ctrl := NewCarController(carSvc)

	router := gin.New()
	router.GET("/api/v1/cars", ctrl.GetCars)
	router.GET("/api/v1/cars/filters", ctrl.GetFilterOptions)
	router.GET("/api/v1/cars/:id", ctrl.GetCarByID)
	router.GET("/api/v1/cars/:id/similar", ctrl.GetSimilarCars)
	router.POST("/api/v1/admin/cars", ctrl.CreateCar)
	router.PUT("/api/v1/admin/cars/:id", ctrl.UpdateCar)
	router.DELETE("/api/v1/admin/cars/:id", ctrl.DeleteCar)
	return router, carSvc
}

func seedCar(t *testing.T, svc service.CarService, merk, carModel string, prijs int) *model.Car {
	t.Helper()

	car := &model.Car{Merk: merk, Model: carModel, Bouwjaar: 2020, Prijs: prijs}
	require.NoError(t, svc.CreateCar(car))
	return car
}

func doJSON(router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewReader(data)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func TestGetCars_FiltersAndSorts(t *testing.T) {
	router, svc := setupCarRouter(t)

	seedCar(t, svc, "BMW", "320i", 32000)
	seedCar(t, svc, "Volkswagen", "Golf", 24500)
	seedCar(t, svc, "Volkswagen", "Polo", 12500)

	w := doJSON(router, http.MethodGet, "/api/v1/cars?merk=Volkswagen&sort_by=prijs&order=asc", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Cars  []model.Car `json:"cars"`
		Count int         `json:"count"`
		Total int         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, "Polo", resp.Cars[0].Model)
	assert.Equal(t, "Golf", resp.Cars[1].Model)
}

func TestGetCars_InvertedPriceRangeWithZeroMax(t *testing.T) {
	router, svc := setupCarRouter(t)

	seedCar(t, svc, "BMW", "320i", 32000)
	seedCar(t, svc, "Volkswagen", "Golf", 24500)

	w := doJSON(router, http.MethodGet, "/api/v1/cars?min_prijs=5000&max_prijs=0", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)
	assert.Equal(t, 2, resp.Total)
}

func TestGetCars_RejectsUnknownStatus(t *testing.T) {
	router, _ := setupCarRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/cars?status=gestolen", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CAR_INVALID_STATUS")
}

func TestGetCarByID(t *testing.T) {
	router, svc := setupCarRouter(t)
	car := seedCar(t, svc, "Audi", "A4", 41000)

	w := doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/cars/%d", car.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"merk":"Audi"`)
	assert.Contains(t, w.Body.String(), `"specs"`)
}

func TestGetCarByID_NotFound(t *testing.T) {
	router, _ := setupCarRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/cars/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CAR_NOT_FOUND")
}

func TestGetCarByID_InvalidID(t *testing.T) {
	router, _ := setupCarRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/cars/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCar(t *testing.T) {
	router, _ := setupCarRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/admin/cars", gin.H{
		"merk":     "Tesla",
		"model":    "Model 3",
		"bouwjaar": 2023,
		"prijs":    38000,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"aanbod"`)
}

func TestCreateCar_MissingRequiredFields(t *testing.T) {
	router, _ := setupCarRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/admin/cars", gin.H{
		"model": "Zonder merk",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_INPUT")
}

func TestDeleteCar_ConfirmationFlow(t *testing.T) {
	router, svc := setupCarRouter(t)
	car := seedCar(t, svc, "Peugeot", "208", 15000)

	// wrong confirmation
	w := doJSON(router, http.MethodDelete, fmt.Sprintf("/api/v1/admin/cars/%d", car.ID), gin.H{
		"confirm_merk": "peugeot",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CAR_CONFIRMATION_MISMATCH")

	// correct confirmation
	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/v1/admin/cars/%d", car.ID), gin.H{
		"confirm_merk": "Peugeot",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/cars/%d", car.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSimilarCars(t *testing.T) {
	router, svc := setupCarRouter(t)

	target := seedCar(t, svc, "BMW", "320i", 32000)
	seedCar(t, svc, "BMW", "X1", 38000)
	seedCar(t, svc, "Audi", "A4", 41000)

	w := doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/cars/%d/similar", target.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Cars []model.Car `json:"cars"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Cars, 1)
	assert.Equal(t, "X1", resp.Cars[0].Model)
}

func TestGetFilterOptions(t *testing.T) {
	router, svc := setupCarRouter(t)

	seedCar(t, svc, "BMW", "320i", 32000)
	seedCar(t, svc, "Audi", "A4", 41000)

	w := doJSON(router, http.MethodGet, "/api/v1/cars/filters", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Filters service.CarFilterOptions `json:"filters"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Audi", "BMW"}, resp.Filters.Merken)
	assert.Equal(t, 32000, resp.Filters.MinPrijs)
	assert.Equal(t, 41000, resp.Filters.MaxPrijs)
}
