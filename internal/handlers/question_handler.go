package handlers

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"countyq/internal/engine"
	"countyq/internal/gate"
	"countyq/internal/ingest"
	"countyq/internal/store"
)

// QuestionHandler wires the HTTP surface to the engine, the ingestor and the
// optional LLM relevance gate.
type QuestionHandler struct {
	engine   *engine.Engine
	ingestor *ingest.Ingestor
	store    *store.Store
	gate     *gate.Client // nil when the gate is disabled
}

// NewQuestionHandler creates the handler set. Pass a nil gate to disable the
// relevance check.
func NewQuestionHandler(eng *engine.Engine, ing *ingest.Ingestor, st *store.Store, gt *gate.Client) *QuestionHandler {
	return &QuestionHandler{
		engine:   eng,
		ingestor: ing,
		store:    st,
		gate:     gt,
	}
}

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	Question string `json:"question"`
}

// HandleAsk answers a question. The engine itself is total: any question,
// including the empty string, yields a structured answer.
func (h *QuestionHandler) HandleAsk(c *gin.Context) {
	var req AskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if h.gate != nil {
		verdict, err := h.gate.Classify(c.Request.Context(), req.Question)
		switch {
		case err != nil:
			// The gate is advisory; answer anyway when it is unreachable.
			log.WithError(err).Warn("relevance gate unavailable, answering anyway")
		case !verdict.Relevant:
			c.JSON(http.StatusOK, engine.Answer{
				Text: "I can only answer questions about county population demographics.",
				Meta: engine.Meta{Type: engine.TypeUnclear, Reason: engine.ReasonOffTopic},
			})
			return
		}
	}

	ans := h.engine.Answer(req.Question)

	log.WithFields(log.Fields{
		"type":   ans.Meta.Type,
		"metric": ans.Meta.Metric,
	}).Info("answered question")

	c.JSON(http.StatusOK, ans)
}

// HandleReload re-runs a full ingestion pass. On failure the previous
// snapshot stays authoritative and the error is reported.
func (h *QuestionHandler) HandleReload(c *gin.Context) {
	if err := h.ingestor.Refresh(c.Request.Context()); err != nil {
		log.WithError(err).Error("reload failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	snap := h.store.Current()
	c.JSON(http.StatusOK, gin.H{
		"message": "Data reloaded successfully",
		"rows":    len(snap.Rows),
	})
}

// HandleStats exposes the current snapshot's aggregates.
func (h *QuestionHandler) HandleStats(c *gin.Context) {
	snap := h.store.Current()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No data loaded yet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rows":          len(snap.Rows),
		"totals":        snap.Totals,
		"region_totals": snap.RegionTotals,
	})
}

// HandleHealth reports service liveness.
func (h *QuestionHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "countyq",
		"loaded":  h.store.Loaded(),
	})
}
