package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kraakman/autoservice-backend/internal/app/model"
	"github.com/kraakman/autoservice-backend/internal/app/service"
	apperrors "github.com/kraakman/autoservice-backend/internal/errors"
	"github.com/kraakman/autoservice-backend/internal/middleware"
)

type CarController struct {
	carService service.CarService
}

func NewCarController(carService service.CarService) *CarController {
	return &CarController{
		carService: carService,
	}
}

type CarRequest struct {
	Merk           string   `json:"merk" binding:"required"`
	Model          string   `json:"model" binding:"required"`
	Type           *string  `json:"type"`
	VoertuigType   *string  `json:"voertuig_type"`
	Kleur          *string  `json:"kleur"`
	Bouwjaar       int      `json:"bouwjaar" binding:"required,gt=1900"`
	Kilometerstand *int     `json:"kilometerstand"`
	Prijs          int      `json:"prijs" binding:"required,gt=0"`
	Omschrijving   string   `json:"omschrijving"`
	Techniek       *string  `json:"techniek"`
	Opties         []string `json:"opties"`
	Transmissie    *string  `json:"transmissie"`
	BrandstofType  *string  `json:"brandstof_type"`

	MotorCC          *int     `json:"motor_cc"`
	MotorCilinders   *int     `json:"motor_cilinders"`
	VermogenPK       *int     `json:"vermogen_pk"`
	GewichtKG        *int     `json:"gewicht_kg"`
	TopsnelheidKMH   *int     `json:"topsnelheid_kmh"`
	Acceleratie0_100 *float64 `json:"acceleratie_0_100"`
	Zitplaatsen      *int     `json:"zitplaatsen"`
	Deuren           *int     `json:"deuren"`

	Status                model.CarStatus `json:"status"`
	BinnenkortBeschikbaar bool            `json:"binnenkort_beschikbaar"`
	Gereserveerd          bool            `json:"gereserveerd"`
	BTWAuto               bool            `json:"btw_auto"`
}

func (r *CarRequest) toModel() *model.Car {
	return &model.Car{
		Merk:                  r.Merk,
		Model:                 r.Model,
		Type:                  r.Type,
		VoertuigType:          r.VoertuigType,
		Kleur:                 r.Kleur,
		Bouwjaar:              r.Bouwjaar,
		Kilometerstand:        r.Kilometerstand,
		Prijs:                 r.Prijs,
		Omschrijving:          r.Omschrijving,
		Techniek:              r.Techniek,
		Opties:                r.Opties,
		Transmissie:           r.Transmissie,
		BrandstofType:         r.BrandstofType,
		MotorCC:               r.MotorCC,
		MotorCilinders:        r.MotorCilinders,
		VermogenPK:            r.VermogenPK,
		GewichtKG:             r.GewichtKG,
		TopsnelheidKMH:        r.TopsnelheidKMH,
		Acceleratie0_100:      r.Acceleratie0_100,
		Zitplaatsen:           r.Zitplaatsen,
		Deuren:                r.Deuren,
		Status:                r.Status,
		BinnenkortBeschikbaar: r.BinnenkortBeschikbaar,
		Gereserveerd:          r.Gereserveerd,
		BTWAuto:               r.BTWAuto,
	}
}

type DeleteCarRequest struct {
	ConfirmMerk string `json:"confirm_merk"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.InvalidID(c, gin.H{name: idStr})
		return 0, false
	}
	return uint(id), true
}

// GetCars returns the inventory, filtered and sorted by query parameters.
// GET /api/v1/cars
func (ctrl *CarController) GetCars(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := model.CarStatus(c.DefaultQuery("status", string(model.StatusAanbod)))
	if status != model.StatusAanbod && status != model.StatusVerkocht {
		apperrors.BadRequest(c, apperrors.CarInvalidStatus, "Ongeldige status.", gin.H{"status": status})
		return
	}

	cars, err := ctrl.carService.ListCars(status)
	if err != nil {
		log.Error("Failed to fetch cars", err, nil)
		apperrors.DatabaseError(c)
		return
	}

	opts, err := ctrl.carService.GetFilterOptions()
	if err != nil {
		log.Error("Failed to fetch filter options", err, nil)
		apperrors.DatabaseError(c)
		return
	}

	spec := filterSpecFromQuery(c, opts)
	filtered := service.ApplyCarFilter(cars, spec)

	log.Info("Cars fetched successfully", map[string]interface{}{
		"status":   status,
		"total":    len(cars),
		"filtered": len(filtered),
	})

	c.JSON(http.StatusOK, gin.H{
		"cars":    filtered,
		"count":   len(filtered),
		"total":   len(cars),
		"filters": opts,
	})
}

// filterSpecFromQuery builds the filter spec from query parameters,
// falling back to the derived defaults for absent range bounds.
func filterSpecFromQuery(c *gin.Context, opts service.CarFilterOptions) service.CarFilterSpec {
	spec := service.DefaultFilterSpec(opts)

	spec.Search = c.Query("search")
	spec.Merk = c.Query("merk")
	spec.BrandstofType = c.Query("brandstof_type")
	spec.Transmissie = c.Query("transmissie")

	if v, err := strconv.Atoi(c.Query("min_prijs")); err == nil {
		spec.MinPrijs = v
	}
	if v, err := strconv.Atoi(c.Query("max_prijs")); err == nil {
		spec.MaxPrijs = &v
	}
	if v, err := strconv.Atoi(c.Query("min_bouwjaar")); err == nil {
		spec.MinBouwjaar = v
	}
	if v, err := strconv.Atoi(c.Query("max_bouwjaar")); err == nil {
		spec.MaxBouwjaar = &v
	}

	switch service.CarSort(c.Query("sort_by")) {
	case service.CarSortPrijs:
		spec.SortBy = service.CarSortPrijs
	case service.CarSortBouwjaar:
		spec.SortBy = service.CarSortBouwjaar
	case service.CarSortKilometerstand:
		spec.SortBy = service.CarSortKilometerstand
	}
	spec.SortAscending = c.Query("order") == "asc"

	return spec
}

// GetFilterOptions returns the filter choices for the inventory page.
// GET /api/v1/cars/filters
func (ctrl *CarController) GetFilterOptions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	opts, err := ctrl.carService.GetFilterOptions()
	if err != nil {
		log.Error("Failed to fetch filter options", err, nil)
		apperrors.DatabaseError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filters": opts,
	})
}

// GetCarByID returns one car with its rendered spec list.
// GET /api/v1/cars/:id
func (ctrl *CarController) GetCarByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	car, err := ctrl.carService.GetCarByID(id)
	if err != nil {
		if errors.Is(err, service.ErrCarNotFound) {
			log.Warn("Car not found", map[string]interface{}{
				"car_id": id,
			})
			apperrors.CarNotFoundError(c)
			return
		}
		log.Error("Failed to fetch car", err, map[string]interface{}{
			"car_id": id,
		})
		apperrors.DatabaseError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"car":   car,
		"specs": car.SpecList(),
	})
}

// GetSimilarCars returns other cars of the same brand still for sale.
// GET /api/v1/cars/:id/similar
func (ctrl *CarController) GetSimilarCars(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cars, err := ctrl.carService.GetSimilarCars(id)
	if err != nil {
		if errors.Is(err, service.ErrCarNotFound) {
			apperrors.CarNotFoundError(c)
			return
		}
		log.Error("Failed to fetch similar cars", err, map[string]interface{}{
			"car_id": id,
		})
		apperrors.DatabaseError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cars":  cars,
		"count": len(cars),
	})
}

// CreateCar creates a new car (admin only).
// POST /api/v1/admin/cars
func (ctrl *CarController) CreateCar(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid car creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.InvalidInput(c, err.Error())
		return
	}

	car := req.toModel()
	if err := ctrl.carService.CreateCar(car); err != nil {
		log.Error("Failed to create car", err, map[string]interface{}{
			"merk":  req.Merk,
			"model": req.Model,
		})
		parsed := apperrors.ParseError(err)
		apperrors.RespondWithError(c, parsed.StatusCode, parsed.Code, parsed.Message, nil)
		return
	}

	log.Info("Car created successfully", map[string]interface{}{
		"car_id": car.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"car": car,
	})
}

// UpdateCar replaces a car's details (admin only).
// PUT /api/v1/admin/cars/:id
func (ctrl *CarController) UpdateCar(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid car update request", map[string]interface{}{
			"car_id": id,
			"error":  err.Error(),
		})
		apperrors.InvalidInput(c, err.Error())
		return
	}

	car, err := ctrl.carService.UpdateCar(id, req.toModel())
	if err != nil {
		if errors.Is(err, service.ErrCarNotFound) {
			apperrors.CarNotFoundError(c)
			return
		}
		log.Error("Failed to update car", err, map[string]interface{}{
			"car_id": id,
		})
		parsed := apperrors.ParseError(err)
		apperrors.RespondWithError(c, parsed.StatusCode, parsed.Code, parsed.Message, nil)
		return
	}

	log.Info("Car updated successfully", map[string]interface{}{
		"car_id": car.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"car": car,
	})
}

// DeleteCar deletes a car after brand confirmation (admin only).
// DELETE /api/v1/admin/cars/:id
func (ctrl *CarController) DeleteCar(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req DeleteCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c, err.Error())
		return
	}

	if err := ctrl.carService.DeleteCar(c.Request.Context(), id, req.ConfirmMerk); err != nil {
		switch {
		case errors.Is(err, service.ErrCarNotFound):
			apperrors.CarNotFoundError(c)
		case errors.Is(err, service.ErrConfirmationMismatch):
			log.Warn("Car delete confirmation mismatch", map[string]interface{}{
				"car_id": id,
			})
			apperrors.ConfirmationMismatch(c)
		default:
			log.Error("Failed to delete car", err, map[string]interface{}{
				"car_id": id,
			})
			apperrors.DatabaseError(c)
		}
		return
	}

	log.Info("Car deleted successfully", map[string]interface{}{
		"car_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Auto verwijderd.",
	})
}
