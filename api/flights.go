package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skyreserve/skyreserve/internal/domain"
	"github.com/skyreserve/skyreserve/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup, mw *AuthMiddleware) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", mw.RequireAuth(), mw.RequireAdmin(), h.create)
	router.PUT("/:id", mw.RequireAuth(), mw.RequireAdmin(), h.update)
	router.DELETE("/:id", mw.RequireAuth(), mw.RequireAdmin(), h.delete)
}

type flightRequest struct {
	FlightNumber   string `json:"flightNumber"`
	Airline        string `json:"airline"`
	From           string `json:"from"`
	To             string `json:"to"`
	Date           string `json:"date"`
	DepartureTime  string `json:"departureTime"`
	ArrivalTime    string `json:"arrivalTime"`
	PriceCents     int64  `json:"priceCents"`
	Logo           string `json:"logo"`
	TotalSeats     int    `json:"totalSeats"`
	AvailableSeats int    `json:"availableSeats"`
}

type flightResponse struct {
	ID             int64  `json:"id"`
	FlightNumber   string `json:"flightNumber"`
	Airline        string `json:"airline"`
	From           string `json:"from"`
	To             string `json:"to"`
	Date           string `json:"date"`
	DepartureTime  string `json:"departureTime"`
	ArrivalTime    string `json:"arrivalTime"`
	PriceCents     int64  `json:"priceCents"`
	Logo           string `json:"logo"`
	TotalSeats     int    `json:"totalSeats"`
	AvailableSeats int    `json:"availableSeats"`
}

func (r flightRequest) toDomain() *domain.Flight {
	return &domain.Flight{
		FlightNumber:   r.FlightNumber,
		Airline:        r.Airline,
		Origin:         r.From,
		Destination:    r.To,
		Date:           r.Date,
		DepartureTime:  r.DepartureTime,
		ArrivalTime:    r.ArrivalTime,
		PriceCents:     r.PriceCents,
		LogoURL:        r.Logo,
		TotalSeats:     r.TotalSeats,
		AvailableSeats: r.AvailableSeats,
	}
}

func toFlightResponse(f *domain.Flight) flightResponse {
	return flightResponse{
		ID:             f.ID,
		FlightNumber:   f.FlightNumber,
		Airline:        f.Airline,
		From:           f.Origin,
		To:             f.Destination,
		Date:           f.Date,
		DepartureTime:  f.DepartureTime,
		ArrivalTime:    f.ArrivalTime,
		PriceCents:     f.PriceCents,
		Logo:           f.LogoURL,
		TotalSeats:     f.TotalSeats,
		AvailableSeats: f.AvailableSeats,
	}
}

func (h *FlightHandler) list(c *gin.Context) {
	filter := domain.FlightFilter{
		Origin:      c.Query("from"),
		Destination: c.Query("to"),
		Date:        c.Query("date"),
		Airline:     c.Query("airline"),
	}

	found, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]flightResponse, 0, len(found))
	for i := range found {
		responses = append(responses, toFlightResponse(&found[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(responses), "flights": responses})
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "flight": toFlightResponse(flight)})
}

func (h *FlightHandler) create(c *gin.Context) {
	var req flightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	flight := req.toDomain()
	if err := h.service.Create(c.Request.Context(), flight); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Flight created successfully", "flight": toFlightResponse(flight)})
}

func (h *FlightHandler) update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	var req flightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	flight := req.toDomain()
	flight.ID = id
	if err := h.service.Update(c.Request.Context(), flight); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Flight updated successfully", "flight": toFlightResponse(flight)})
}

func (h *FlightHandler) delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Flight deleted successfully"})
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return 0, err
	}
	return id, nil
}
