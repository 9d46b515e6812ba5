// Package api exposes the calculator over HTTP with gin.
//
// Routes:
//
//	GET  /healthz                        liveness and table statistics
//	GET  /v1/countries                   countries of the default-value table
//	GET  /v1/routes?code=&year=&real=    benchmark rows applicable to a product
//	POST /v1/quotes                      compute a certificate quote
//
// A quote that needs a production route answers 422 with the selectable
// choices; invalid input answers 400.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rshade/cbamcalc/internal/engine"
	"github.com/rshade/cbamcalc/internal/greenops"
	"github.com/rshade/cbamcalc/internal/logging"
	"github.com/rshade/cbamcalc/internal/tables"
)

// Handler serves the calculator endpoints.
type Handler struct {
	calc         *engine.Calculator
	tables       *tables.Tables
	defaultPrice float64
}

// NewHandler returns a Handler over calc and the tables it was built from.
// defaultPrice is used when a quote request carries no carbon_price; zero
// makes carbon_price mandatory.
func NewHandler(calc *engine.Calculator, t *tables.Tables, defaultPrice float64) *Handler {
	return &Handler{calc: calc, tables: t, defaultPrice: defaultPrice}
}

// RegisterRoutes registers the calculator routes on router.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/healthz", h.health)

	v1 := router.Group("/v1")
	{
		v1.GET("/countries", h.listCountries)
		v1.GET("/routes", h.listRoutes)
		v1.POST("/quotes", h.createQuote)
	}
}

// QuoteBody is the JSON body of POST /v1/quotes.
type QuoteBody struct {
	Code    string `json:"code" binding:"required"`
	Country string `json:"country"`
	Year    int    `json:"year" binding:"required"`
	// Volume is pointer-typed so that an explicit 0 is accepted.
	Volume        *float64 `json:"volume" binding:"required"`
	RealEmissions *float64 `json:"real_emissions"`
	EmissionsUnit string   `json:"emissions_unit"`
	Route         string   `json:"route"`
	CarbonPrice   *float64 `json:"carbon_price"`
	PaidAbroad    float64  `json:"paid_abroad"`
}

// health handles GET /healthz
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"tables": h.tables.Stats(),
	})
}

// listCountries handles GET /v1/countries
func (h *Handler) listCountries(c *gin.Context) {
	countries := h.tables.Countries()
	restOfWorld := make([]string, 0)
	for _, country := range countries {
		if h.tables.IsRestOfWorld(country) {
			restOfWorld = append(restOfWorld, country)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"countries":     countries,
		"rest_of_world": restOfWorld,
	})
}

// listRoutes handles GET /v1/routes
func (h *Handler) listRoutes(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter code is required"})
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter year must be an integer"})
		return
	}
	useReal := false
	if raw := c.Query("real"); raw != "" {
		if useReal, err = strconv.ParseBool(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter real must be a boolean"})
			return
		}
	}

	column := engine.ColumnDefault
	if useReal {
		column = engine.ColumnReal
	}
	c.JSON(http.StatusOK, gin.H{
		"code":   tables.NormalizeCode(code),
		"year":   year,
		"period": tables.PeriodForYear(year).String(),
		"column": column,
		"routes": h.calc.Routes(code, year, useReal),
	})
}

// createQuote handles POST /v1/quotes
func (h *Handler) createQuote(c *gin.Context) {
	ctx := c.Request.Context()
	log := logging.FromContext(ctx)

	var body QuoteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.toRequest(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q, err := h.calc.Quote(ctx, req)
	var routeErr *engine.RouteRequiredError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, q)
	case errors.As(err, &routeErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   err.Error(),
			"code":    routeErr.Code,
			"choices": routeErr.Choices,
		})
	case errors.Is(err, engine.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Ctx(ctx).
			Str("component", "api").
			Str("operation", "createQuote").
			Err(err).
			Msg("quote failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) toRequest(body QuoteBody) (engine.QuoteRequest, error) {
	req := engine.QuoteRequest{
		Code:        body.Code,
		Country:     body.Country,
		Year:        body.Year,
		Volume:      *body.Volume,
		Route:       body.Route,
		CarbonPrice: h.defaultPrice,
		PaidAbroad:  body.PaidAbroad,
	}
	if body.CarbonPrice != nil {
		req.CarbonPrice = *body.CarbonPrice
	} else if h.defaultPrice == 0 {
		return req, errors.New("carbon_price is required")
	}
	if body.RealEmissions != nil {
		unit := body.EmissionsUnit
		if unit == "" {
			unit = greenops.DefaultIntensityUnit
		}
		if !greenops.IsRecognizedIntensityUnit(unit) {
			return req, fmt.Errorf("emissions_unit %q: %w", unit, greenops.ErrInvalidUnit)
		}
		req.UseReal = true
		// Zero or less means not provided; the engine falls back to defaults.
		if *body.RealEmissions > 0 {
			v, err := greenops.NormalizeIntensity(*body.RealEmissions, unit)
			if err != nil {
				return req, err
			}
			req.RealEmissions = v
		}
	}
	return req, nil
}
