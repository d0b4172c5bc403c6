package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sendblocks/custom-indexer-example/internal/api/rest/dto"
	"github.com/sendblocks/custom-indexer-example/internal/domain"
	"github.com/sendblocks/custom-indexer-example/internal/kv"
	"github.com/sendblocks/custom-indexer-example/internal/ledger"
	"github.com/sendblocks/custom-indexer-example/internal/messaging"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// GetToken retrieves a single token ledger record by its token id
	// GET /v1/tokens/:token_id
	// The token id accepts decimal or 0x-hex forms and is canonicalized before lookup
	GetToken(c *gin.Context)

	// ListTokens retrieves token ledger records with pagination
	// GET /v1/tokens?offset=<offset>&size=<size>
	ListTokens(c *gin.Context)

	// ReplayTrigger re-injects a raw log envelope onto the trigger subject (requires authentication)
	// POST /v1/replay
	ReplayTrigger(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /healthz
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	debug     bool
	updater   *ledger.Updater
	lister    kv.Lister
	namespace string
	publisher messaging.Publisher
}

// NewHandler creates a new REST API handler over the ledger store and trigger publisher
func NewHandler(debug bool, updater *ledger.Updater, lister kv.Lister, namespace string, publisher messaging.Publisher) Handler {
	return &handler{
		debug:     debug,
		updater:   updater,
		lister:    lister,
		namespace: namespace,
		publisher: publisher,
	}
}

// GetToken retrieves a single token ledger record by its token id
func (h *handler) GetToken(c *gin.Context) {
	rawID := c.Param("token_id")
	if rawID == "" {
		respondBadRequest(c, "Token ID is required")
		return
	}

	// Canonicalize the token id (decimal or hex input)
	tokenID, err := domain.ParseTokenID(rawID)
	if err != nil {
		respondBadRequest(c, "Invalid token ID", err.Error())
		return
	}

	record, err := h.updater.Record(c.Request.Context(), tokenID)
	if err != nil {
		respondInternalError(c, err, "Failed to get token")
		return
	}
	if record == nil {
		respondNotFound(c, "Token not found")
		return
	}

	c.JSON(http.StatusOK, dto.MapRecordToDTO(record))
}

// ListTokens retrieves token ledger records with pagination
func (h *handler) ListTokens(c *gin.Context) {
	// Parse query parameters
	queryParams, err := ParseListTokensQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	// Validate query parameters
	err = queryParams.Validate()
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	prefix := ledger.RecordKeyPrefix()

	entries, err := h.lister.List(ctx, h.namespace, prefix, queryParams.Offset, queryParams.Size)
	if err != nil {
		respondInternalError(c, err, "Failed to list tokens")
		return
	}

	total, err := h.lister.Count(ctx, h.namespace, prefix)
	if err != nil {
		respondInternalError(c, err, "Failed to list tokens")
		return
	}

	response, err := dto.MapEntriesToList(entries, queryParams.Offset, total)
	if err != nil {
		respondInternalError(c, err, "Failed to list tokens")
		return
	}

	c.JSON(http.StatusOK, response)
}

// ReplayTrigger re-injects a raw log envelope onto the trigger subject
func (h *handler) ReplayTrigger(c *gin.Context) {
	var req dto.ReplayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	// Validate request body
	err := req.Validate()
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	// Replays are fresh deliveries: mint a new message id so consumers do not
	// confuse them with the original platform delivery
	msg := domain.TriggerMessage{
		ID:      uuid.New().String(),
		Trigger: req.Trigger,
		Log:     req.Log,
	}

	if err := h.publisher.PublishTrigger(c.Request.Context(), msg); err != nil {
		respondInternalError(c, err, "Failed to publish trigger message")
		return
	}

	c.JSON(http.StatusAccepted, dto.ReplayResponse{
		MessageID: msg.ID,
		Status:    "queued",
	})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "token-ledger-api",
	})
}
