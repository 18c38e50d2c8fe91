package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elizabethsiegle/quotes-rag/models"
	"github.com/elizabethsiegle/quotes-rag/services"
)

// fakeRAGService implements services.RAGService for handler tests.
type fakeRAGService struct {
	askAnswer    string
	askErr       error
	askedWith    string
	createResp   *models.CreateQuoteResponse
	createErr    error
	populateN    int
	populateErr  error
	reindexErr   error
	reindexedID  int64
	reindexCalls int
}

func (f *fakeRAGService) Ask(_ context.Context, question string) (string, error) {
	f.askedWith = question
	if f.askErr != nil {
		return "", f.askErr
	}
	return f.askAnswer, nil
}

func (f *fakeRAGService) CreateQuote(_ context.Context, text string) (*models.CreateQuoteResponse, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createResp != nil {
		return f.createResp, nil
	}
	return &models.CreateQuoteResponse{ID: 100001, Text: text, Inserted: true}, nil
}

func (f *fakeRAGService) Populate(_ context.Context) (int, error) {
	return f.populateN, f.populateErr
}

func (f *fakeRAGService) Reindex(_ context.Context, id int64) error {
	f.reindexCalls++
	f.reindexedID = id
	return f.reindexErr
}

func newTestRouter(svc services.RAGService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	c := NewRAGController(svc)
	router := gin.New()
	router.POST("/quotes", c.CreateQuote)
	router.GET("/", c.AskJSON)
	router.GET("/html", c.AskHTML)
	router.GET("/populate", c.Populate)
	router.POST("/quotes/:id/reindex", c.Reindex)
	router.GET("/health", c.Health)
	return router
}

func TestCreateQuote(t *testing.T) {
	router := newTestRouter(&fakeRAGService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/quotes",
		strings.NewReader(`{"text":"The best pizza topping is pepperoni"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp models.CreateQuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(100001), resp.ID)
	assert.True(t, resp.Inserted)
}

func TestCreateQuoteMissingText(t *testing.T) {
	router := newTestRouter(&fakeRAGService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing text", w.Body.String())
}

func TestCreateQuoteFailure(t *testing.T) {
	router := newTestRouter(&fakeRAGService{createErr: services.ErrEmbeddingUnavailable})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(`{"text":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAskJSON(t *testing.T) {
	svc := &fakeRAGService{askAnswer: "100001- carpe diem"}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?text=seize+the+day", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "seize the day", svc.askedWith)
	var answer string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &answer))
	assert.Equal(t, "100001- carpe diem", answer)
}

func TestAskJSONRejection(t *testing.T) {
	svc := &fakeRAGService{askErr: services.ErrQuestionTooLong}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Rejected. Your query is too long...")
}

func TestAskJSONUpstreamFailure(t *testing.T) {
	svc := &fakeRAGService{askErr: services.ErrGenerationFailed}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to generate answer", w.Body.String())
}

func TestAskHTML(t *testing.T) {
	svc := &fakeRAGService{askAnswer: "100001- carpe diem"}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/html?text=seize+the+day", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "100001- carpe diem")
	assert.Contains(t, w.Body.String(), "seize the day")
}

func TestAskHTMLRendersCompleteDocument(t *testing.T) {
	// The page is rendered into a buffer and written in one shot, so the
	// body is either the whole document with a 200 or an error with a 500,
	// never a partially-committed page.
	svc := &fakeRAGService{askAnswer: "100001- carpe diem"}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/html", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "<!DOCTYPE html>"))
	assert.Contains(t, body, "</html>")
}

func TestAskHTMLEscapesAnswer(t *testing.T) {
	svc := &fakeRAGService{askAnswer: `<script>alert(1)</script>`}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/html", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<script>")
}

func TestPopulate(t *testing.T) {
	router := newTestRouter(&fakeRAGService{populateN: 60})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/populate", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.PopulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 60, resp.Indexed)
}

func TestReindex(t *testing.T) {
	svc := &fakeRAGService{}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/quotes/100001/reindex", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(100001), svc.reindexedID)
}

func TestReindexBadID(t *testing.T) {
	svc := &fakeRAGService{}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/quotes/abc/reindex", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.reindexCalls)
}

func TestReindexFailure(t *testing.T) {
	svc := &fakeRAGService{reindexErr: errors.New("index down")}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/quotes/100001/reindex", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&fakeRAGService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	router.ServeHTTP(w, req)
	assert.Equal(t, "caller-supplied", w.Header().Get("X-Request-ID"))
}
