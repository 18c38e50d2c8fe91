package controller

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/elizabethsiegle/quotes-rag/models"
	"github.com/elizabethsiegle/quotes-rag/services"
)

// rejectionMessage is the literal response for oversize questions.
const rejectionMessage = "Rejected. Your query is too long..."

var answerPage = template.Must(template.New("answer").Parse(`<!DOCTYPE html>
<html>
<head><title>quotes-rag</title></head>
<body>
<h1>Answer</h1>
<p>{{.Answer}}</p>
<form action="/html" method="get">
<input type="text" name="text" value="{{.Question}}" size="60">
<button type="submit">Ask</button>
</form>
</body>
</html>
`))

// RAGController handles the HTTP requests for the quote-answering API. It
// depends on the RAGService to perform the actual pipeline work; the two ask
// handlers are thin presentation adapters over the same orchestrator call.
type RAGController struct {
	ragService services.RAGService
}

// NewRAGController creates a new RAGController with the injected service.
func NewRAGController(service services.RAGService) *RAGController {
	return &RAGController{ragService: service}
}

// CreateQuote is the handler for POST /quotes.
func (c *RAGController) CreateQuote(ctx *gin.Context) {
	var req models.CreateQuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Text == "" {
		ctx.String(http.StatusBadRequest, "Missing text")
		return
	}

	resp, err := c.ragService.CreateQuote(ctx.Request.Context(), req.Text)
	if err != nil {
		ctx.String(http.StatusInternalServerError, "Failed to create quote")
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// AskJSON is the handler for GET /: the JSON presentation adapter over the
// orchestrator. The answer is returned as a bare JSON-encoded string.
func (c *RAGController) AskJSON(ctx *gin.Context) {
	answer, err := c.ragService.Ask(ctx.Request.Context(), ctx.Query("text"))
	if err != nil {
		if errors.Is(err, services.ErrQuestionTooLong) {
			ctx.JSON(http.StatusInternalServerError, rejectionMessage)
			return
		}
		ctx.String(http.StatusInternalServerError, "Failed to generate answer")
		return
	}

	ctx.JSON(http.StatusOK, answer)
}

// AskHTML is the handler for GET /html: the HTML presentation adapter over
// the same orchestrator call AskJSON uses.
func (c *RAGController) AskHTML(ctx *gin.Context) {
	question := ctx.Query("text")
	answer, err := c.ragService.Ask(ctx.Request.Context(), question)
	if err != nil {
		if errors.Is(err, services.ErrQuestionTooLong) {
			ctx.String(http.StatusInternalServerError, rejectionMessage)
			return
		}
		ctx.String(http.StatusInternalServerError, "Failed to generate answer")
		return
	}

	// Render to a buffer first so a template failure can still change the
	// status; writing through ctx.Writer would commit 200 before Execute ran.
	var page bytes.Buffer
	if err := answerPage.Execute(&page, gin.H{"Answer": answer, "Question": question}); err != nil {
		ctx.String(http.StatusInternalServerError, "Failed to render answer")
		return
	}
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", page.Bytes())
}

// Populate is the handler for GET /populate: bulk re-embed and index the
// existing corpus page.
func (c *RAGController) Populate(ctx *gin.Context) {
	indexed, err := c.ragService.Populate(ctx.Request.Context())
	if err != nil {
		ctx.String(http.StatusInternalServerError, "Failed to populate index")
		return
	}

	ctx.JSON(http.StatusOK, models.PopulateResponse{Indexed: indexed})
}

// Reindex is the handler for POST /quotes/:id/reindex: the idempotent repair
// path for a write saga that failed after the insert step.
func (c *RAGController) Reindex(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.String(http.StatusBadRequest, "Invalid quote id")
		return
	}

	if err := c.ragService.Reindex(ctx.Request.Context(), id); err != nil {
		ctx.String(http.StatusInternalServerError, "Failed to reindex quote")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": id, "reindexed": true})
}

// Health is the handler for GET /health.
func (c *RAGController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "quotes-rag",
	})
}
