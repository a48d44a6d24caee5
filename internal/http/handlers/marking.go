package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/metaman/internal/domain/marking"
	httpMW "github.com/yungbote/metaman/internal/http/middleware"
	"github.com/yungbote/metaman/internal/http/response"
	"github.com/yungbote/metaman/internal/observability"
	"github.com/yungbote/metaman/internal/platform/apierr"
	"github.com/yungbote/metaman/internal/platform/dbctx"
	"github.com/yungbote/metaman/internal/platform/idempotency"
	"github.com/yungbote/metaman/internal/platform/logger"
	"github.com/yungbote/metaman/internal/requestdata"
	"github.com/yungbote/metaman/internal/services"
)

const headerIdempotencyKey = "Idempotency-Key"

type MarkingHandler struct {
	log         *logger.Logger
	markings    services.MarkingService
	idempotency idempotency.Store
	metrics     *observability.Metrics
	basePath    string
}

// NewMarkingHandler builds the marking endpoints. store may be nil, in which
// case Idempotency-Key headers are ignored.
func NewMarkingHandler(log *logger.Logger, markings services.MarkingService, store idempotency.Store) *MarkingHandler {
	return &MarkingHandler{
		log:         log.With("handler", "MarkingHandler"),
		markings:    markings,
		idempotency: store,
		basePath:    "/markings",
	}
}

// WithMetrics records created and rejected markings on m.
func (h *MarkingHandler) WithMetrics(m *observability.Metrics) *MarkingHandler {
	h.metrics = m
	return h
}

type createMarkingRequest struct {
	Name           *string `json:"name"`
	DefinitionType *string `json:"definition_type"`
	Definition     *string `json:"definition"`
}

func (r createMarkingRequest) raw() (marking.RawMarking, error) {
	var missing []string
	if r.Name == nil {
		missing = append(missing, "name")
	}
	if r.DefinitionType == nil {
		missing = append(missing, "definition_type")
	}
	if r.Definition == nil {
		missing = append(missing, "definition")
	}
	if len(missing) > 0 {
		return marking.RawMarking{}, fmt.Errorf("missing field(s): %s", strings.Join(missing, ", "))
	}
	return marking.RawMarking{
		Name:           *r.Name,
		DefinitionType: *r.DefinitionType,
		Definition:     *r.Definition,
	}, nil
}

func (h *MarkingHandler) location(id string) string {
	return h.basePath + "/" + id
}

// requestFingerprint identifies the canonical marking a request asks for.
func requestFingerprint(nm marking.NewMarking) string {
	sum := sha256.Sum256([]byte(nm.Name().String() + "\x00" + nm.DefinitionType().String() + "\x00" + nm.Definition().String()))
	return hex.EncodeToString(sum[:])
}

// idempotencyKey scopes a client key to the caller so two authors never share one.
func idempotencyKey(c *gin.Context) string {
	key := strings.TrimSpace(c.GetHeader(headerIdempotencyKey))
	if key == "" {
		return ""
	}
	return requestdata.UserID(c.Request.Context()).String() + ":" + key
}

// POST /markings
// body: { "name": "...", "definition_type": "tlp" | "statement", "definition": "..." }
func (h *MarkingHandler) Create(c *gin.Context) {
	var req createMarkingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "body_too_large",
				fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	raw, err := req.raw()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	nm, err := marking.ParseNewMarking(raw)
	if err != nil {
		h.metrics.IncMarkingRejected(marking.FieldOf(err))
		response.RespondAPIError(c, apierr.BadRequest("invalid_marking", err))
		return
	}

	ctx := c.Request.Context()
	fp := requestFingerprint(nm)
	key := ""
	if h.idempotency != nil {
		key = idempotencyKey(c)
	}
	if key != "" {
		claimed, existing, err := h.idempotency.Claim(ctx, key, fp)
		switch {
		case err != nil:
			h.log.Warn("idempotency claim failed, continuing without it", "error", err)
			key = ""
		case claimed:
		case !existing.Matches(fp):
			response.RespondError(c, http.StatusUnprocessableEntity, "idempotency_key_reused", idempotency.ErrKeyReused)
			return
		case existing.State == idempotency.StateCompleted && existing.Ref != "":
			h.metrics.IncIdempotentReplay()
			c.Header(httpMW.HeaderIdempotentReplayed, "true")
			response.RespondCreated(c, h.location(existing.Ref))
			return
		default:
			response.RespondError(c, http.StatusConflict, "idempotency_in_flight", idempotency.ErrInFlight)
			return
		}
	}

	created, err := h.markings.Create(dbctx.Context{Ctx: ctx}, nm)
	if err != nil {
		if key != "" {
			if relErr := h.idempotency.Release(ctx, key); relErr != nil {
				h.log.Warn("idempotency release failed", "error", relErr)
			}
		}
		response.RespondAPIError(c, apierr.Internal("marking_create_failed", err))
		return
	}
	h.metrics.IncMarkingCreated(created.DefinitionType)
	if key != "" {
		if err := h.idempotency.Complete(ctx, key, fp, created.ID.String()); err != nil {
			h.log.Warn("idempotency complete failed", "error", err, "marking_id", created.ID)
		}
	}
	response.RespondCreated(c, h.location(created.ID.String()))
}

// GET /markings/:id
func (h *MarkingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	m, err := h.markings.Get(c.Request.Context(), id)
	if errors.Is(err, services.ErrMarkingNotFound) {
		response.RespondAPIError(c, apierr.NotFound("marking_not_found", err))
		return
	}
	if err != nil {
		response.RespondAPIError(c, apierr.Internal("marking_get_failed", err))
		return
	}
	response.RespondOK(c, m)
}

// GET /markings?definition_type=tlp&limit=50&offset=0
func (h *MarkingHandler) List(c *gin.Context) {
	var q services.MarkingListQuery
	if raw, ok := c.GetQuery("definition_type"); ok {
		dt, err := marking.ParseDefinitionType(raw)
		if err != nil {
			response.RespondAPIError(c, apierr.BadRequest("invalid_query", err))
			return
		}
		q.DefinitionType = dt
	}
	var err error
	if q.Limit, err = queryInt(c, "limit"); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	if q.Offset, err = queryInt(c, "offset"); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}

	rows, total, err := h.markings.List(c.Request.Context(), q)
	if err != nil {
		response.RespondAPIError(c, apierr.Internal("marking_list_failed", err))
		return
	}
	response.RespondOK(c, gin.H{"markings": rows, "total": total})
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}
