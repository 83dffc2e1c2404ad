package registration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/TimeBox-aste/obo-space-web/internal/api/respond"
	"github.com/TimeBox-aste/obo-space-web/internal/config"
	"github.com/TimeBox-aste/obo-space-web/internal/model"
	notifrepo "github.com/TimeBox-aste/obo-space-web/internal/repository/notification"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/registration/mock.go -package=mocks

type registrationService interface {
	Submit(strategy retry.Strategy, reg model.Registration) error
}

type shareService interface {
	StatusByToken(ctx context.Context, strategy retry.Strategy, token string) (string, error)
}

// Handler handles HTTP requests for registrations and share status lookups.
type Handler struct {
	registrations registrationService
	shares        shareService
	validator     *validator.Validate
	cfg           *config.Config
}

func NewHandler(
	registrations registrationService,
	shares shareService,
	v *validator.Validate,
	cfg *config.Config,
) *Handler {
	return &Handler{registrations: registrations, shares: shares, validator: v, cfg: cfg}
}

// RegisterRequest represents the JSON body of a registration submission.
// The acceptance flags must be true, which "required" enforces for bools.
type RegisterRequest struct {
	FullName      string `json:"full_name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	AcceptLicense bool   `json:"accept_license" validate:"required"`
	AcceptAge     bool   `json:"accept_age" validate:"required"`
}

// Register handles HTTP POST requests with a registration form submission.
//
// It validates the request body and publishes the registration to the queue;
// the durable record and the notification email happen asynchronously.
func (h *Handler) Register(c *ginext.Context) {
	var req RegisterRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("All fields are required"))
		return
	}

	reg := model.Registration{
		FullName:      req.FullName,
		Email:         req.Email,
		AcceptLicense: req.AcceptLicense,
		AcceptAge:     req.AcceptAge,
	}

	if err := h.registrations.Submit(h.cfg.Retry, reg); err != nil {
		zlog.Logger.Error().Err(err).Str("email", req.Email).Msg("failed to submit registration")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, "Registration submitted successfully")
}

// ShareStatus handles HTTP GET requests for the persisted delivery status of
// the notification behind a share token.
func (h *Handler) ShareStatus(c *ginext.Context) {
	token := c.Param("token")
	if token == "" {
		zlog.Logger.Warn().Msg("missing token")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing token"))
		return
	}

	status, err := h.shares.StatusByToken(c.Request.Context(), h.cfg.Retry, token)
	if err != nil {
		if errors.Is(err, notifrepo.ErrNotificationNotFound) {
			zlog.Logger.Warn().Str("token", token).Err(err).Msg("notification not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("notification not found"))
			return
		}

		zlog.Logger.Error().Err(err).Str("token", token).Msg("failed to get notification status")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, status)
}
