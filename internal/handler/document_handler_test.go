package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/domain"
	"veridoc/internal/handler"
	"veridoc/internal/repository/memory"
	"veridoc/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type listResponse struct {
	Success bool                    `json:"success"`
	Data    []domain.DocumentRecord `json:"data"`
	Meta    struct {
		Total int `json:"total"`
	} `json:"meta"`
}

func TestDocumentHandler_List_TagFilter(t *testing.T) {
	store := memory.NewStore()
	docs := service.NewDocumentService(
		store.Documents(), store.DocumentTypes(), store.Workflows(),
		store.Audit(), nil, "", store, service.NewDocumentLocks(),
	)
	h := handler.NewDocumentHandler(docs, nil, nil, 0)

	r := gin.New()
	r.GET("/api/v1/documents", h.List)

	ctx := context.Background()
	tpl := &domain.WorkflowTemplate{
		ID:   uuid.New(),
		Name: "Review",
		Steps: domain.StepDefinitions{
			{ID: uuid.New(), Label: "Technical Review", RequiredRole: domain.RoleReviewer},
		},
		CreatedBy: uuid.New(),
	}
	require.NoError(t, store.Workflows().Create(ctx, tpl))
	dt := &domain.DocumentType{ID: uuid.New(), Label: domain.TypeSOP, CreatedBy: uuid.New()}
	require.NoError(t, store.DocumentTypes().Create(ctx, dt))

	for i, tags := range [][]string{{"gmp"}, {"safety"}, {"gmp", "safety"}} {
		_, err := docs.Create(ctx, &service.CreateDocumentInput{
			Title:              "Doc",
			DocumentNumber:     "SOP-10" + strconv.Itoa(i),
			DocumentTypeID:     dt.ID,
			WorkflowTemplateID: &tpl.ID,
			Tags:               tags,
			CreatedBy:          uuid.New(),
		})
		require.NoError(t, err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents?tag=gmp", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Meta.Total)
	require.Len(t, resp.Data, 2)
	for _, d := range resp.Data {
		assert.Contains(t, d.Tags, "gmp")
	}

	// No filter returns everything.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Meta.Total)
}
