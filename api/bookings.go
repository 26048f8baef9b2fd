package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skyreserve/skyreserve/internal/domain"
	"github.com/skyreserve/skyreserve/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup, mw *AuthMiddleware) {
	router.Use(mw.RequireAuth())
	router.POST("", h.create)
	router.GET("/my-bookings", h.listMine)
	router.GET("/all", mw.RequireAdmin(), h.listAll)
	router.DELETE("/:id", h.cancel)
}

type createBookingRequest struct {
	FlightID       int64              `json:"flightId"`
	PassengerName  string             `json:"passengerName"`
	PassengerEmail string             `json:"passengerEmail"`
	Seats          int                `json:"seats"`
	Passengers     []domain.Passenger `json:"passengers"`
}

type bookingResponse struct {
	ID              int64              `json:"id"`
	Reference       string             `json:"reference"`
	FlightID        int64              `json:"flightId"`
	PassengerName   string             `json:"passengerName"`
	PassengerEmail  string             `json:"passengerEmail"`
	Passengers      []domain.Passenger `json:"passengers"`
	Seats           int                `json:"seats"`
	TotalPriceCents int64              `json:"totalPriceCents"`
	Status          string             `json:"status"`
	BookingDate     time.Time          `json:"bookingDate"`
	Flight          *flightResponse    `json:"flight,omitempty"`
	User            *userSummary       `json:"user,omitempty"`
}

type userSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toBookingResponse(d *domain.BookingDetail) bookingResponse {
	resp := bookingResponse{
		ID:              d.ID,
		Reference:       d.Reference,
		FlightID:        d.FlightID,
		PassengerName:   d.PassengerName,
		PassengerEmail:  d.PassengerEmail,
		Passengers:      d.Passengers,
		Seats:           d.Seats,
		TotalPriceCents: d.TotalPriceCents,
		Status:          string(d.Status),
		BookingDate:     d.CreatedAt,
	}
	if d.Flight != nil {
		flight := toFlightResponse(d.Flight)
		resp.Flight = &flight
	}
	if d.User != nil {
		resp.User = &userSummary{ID: d.User.ID, Name: d.User.Name, Email: d.User.Email}
	}
	return resp
}

func (h *BookingHandler) create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "token is not valid"})
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:         user.ID,
		FlightID:       req.FlightID,
		Seats:          req.Seats,
		PassengerName:  req.PassengerName,
		PassengerEmail: req.PassengerEmail,
		Passengers:     req.Passengers,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"message":        "Booking confirmed successfully",
		"booking":        toBookingResponse(&result.Booking),
		"remainingSeats": result.RemainingSeats,
	})
}

func (h *BookingHandler) listMine(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "token is not valid"})
		return
	}

	details, err := h.service.ListBookings(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(details), "bookings": toBookingResponses(details)})
}

func (h *BookingHandler) listAll(c *gin.Context) {
	details, err := h.service.ListAllBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(details), "bookings": toBookingResponses(details)})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "token is not valid"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		return
	}

	result, err := h.service.CancelBooking(c.Request.Context(), user.ID, user.IsAdmin, id)
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{
		"success": true,
		"message": "Booking cancelled successfully",
		"booking": toBookingResponse(&domain.BookingDetail{Booking: *result.Booking}),
	}
	if result.RemainingSeats != nil {
		body["remainingSeats"] = *result.RemainingSeats
	}
	c.JSON(http.StatusOK, body)
}

func toBookingResponses(details []domain.BookingDetail) []bookingResponse {
	responses := make([]bookingResponse, 0, len(details))
	for i := range details {
		responses = append(responses, toBookingResponse(&details[i]))
	}
	return responses
}
