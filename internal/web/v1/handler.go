package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kitebank/backend/config"
	"github.com/kitebank/backend/internal/core/domain"
	"github.com/kitebank/backend/internal/logger"
	logicv1 "github.com/kitebank/backend/internal/logic/v1"
	"github.com/kitebank/backend/middleware"
)

// dateFormat is how transaction dates are rendered in responses.
const dateFormat = "2006-01-02"

// Handler groups HTTP handlers for the banking API.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	auth     *logicv1.AuthService
	accounts *logicv1.AccountService
	session  config.SessionConfig
}

// NewHandler creates a new Handler.
func NewHandler(auth *logicv1.AuthService, accounts *logicv1.AccountService, session config.SessionConfig) *Handler {
	return &Handler{auth: auth, accounts: accounts, session: session}
}

// RegisterRoutes registers all API routes on the given router group.
// requireSession gates the routes that need an authenticated identity; the
// gate must run before anything that could serve protected content.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireSession gin.HandlerFunc) {
	rg.POST("/signup", h.Signup)
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)

	protected := rg.Group("", requireSession)
	protected.GET("/me", h.Me)
	protected.GET("/balance", h.Balance)
	protected.GET("/transactions", h.Transactions)
}

// Signup handles POST /api/signup.
func (h *Handler) Signup(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.signup", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	userID, err := h.auth.Signup(ctx, req.Email, req.Password)
	if err != nil {
		span.RecordError(err)

		switch {
		case errors.Is(err, logicv1.ErrEmailExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
		default:
			// Store and hashing failures stay server-side; the client
			// only sees the generic class.
			log.Error().Err(err).Msg("Signup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	log.Info().Int64("user_id", userID).Msg("User registered")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Login handles POST /api/login. On success the session token is delivered
// exclusively as an HttpOnly, SameSite=Lax cookie; it is never part of the
// response body where script could reach it.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.login", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	token, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, logicv1.ErrInvalidCredentials):
			// One message for unknown email and wrong password.
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		default:
			span.RecordError(err)
			log.Error().Err(err).Msg("Login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, token, int(h.session.TTL.Seconds()), "/", "", h.session.CookieSecure, true)

	log.Info().Msg("Login successful")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout handles POST /api/logout. It clears the cookie so the browser
// stops sending the token; the token itself stays valid until expiry
// because there is no server-side revocation.
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, "", -1, "/", "", h.session.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me handles GET /api/me.
func (h *Handler) Me(c *gin.Context) {
	ident, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, domain.Profile{ID: ident.UserID, Email: ident.Email})
}

// Balance handles GET /api/balance. The user id comes from the verified
// session only; client input cannot select another identity.
func (h *Handler) Balance(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.balance", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	ident, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	balance, err := h.accounts.Balance(ctx, ident.UserID)
	if err != nil {
		span.RecordError(err)
		log.Error().Err(err).Msg("Balance lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// Transactions handles GET /api/transactions.
func (h *Handler) Transactions(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.transactions", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	ident, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rows, err := h.accounts.Transactions(ctx, ident.UserID)
	if err != nil {
		span.RecordError(err)
		log.Error().Err(err).Msg("Transaction lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		views = append(views, domain.Transaction{
			ID:          row.ID,
			Date:        row.Date.Format(dateFormat),
			Description: row.Description,
			Amount:      row.Amount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"transactions": views})
}
