package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/franciscosanchezn/pizza-store/internal/models"
	"github.com/franciscosanchezn/pizza-store/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPizzaService struct {
	mock.Mock
}

func (m *mockPizzaService) ListPizzas(ctx context.Context) ([]models.Pizza, error) {
	args := m.Called(ctx)
	pizzas, _ := args.Get(0).([]models.Pizza)
	return pizzas, args.Error(1)
}

func (m *mockPizzaService) GetPizza(ctx context.Context, id int) (models.Pizza, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Pizza), args.Error(1)
}

func (m *mockPizzaService) CreatePizza(ctx context.Context, pizza models.Pizza) (models.Pizza, error) {
	args := m.Called(ctx, pizza)
	return args.Get(0).(models.Pizza), args.Error(1)
}

func (m *mockPizzaService) UpdatePizza(ctx context.Context, id int, pizza models.Pizza) error {
	args := m.Called(ctx, id, pizza)
	return args.Error(0)
}

func (m *mockPizzaService) DeletePizza(ctx context.Context, id int) (models.Pizza, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Pizza), args.Error(1)
}

func setupRouter(svc services.PizzaService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	ctrl := NewPizzaController(svc, log)
	router := gin.New()
	router.GET("/pizzas", ctrl.ListPizzas)
	router.GET("/pizzas/:id", ctrl.GetPizza)
	router.POST("/pizzas", ctrl.CreatePizza)
	router.PUT("/pizzas/:id", ctrl.UpdatePizza)
	router.DELETE("/pizzas/:id", ctrl.DeletePizza)
	return router
}

func perform(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) models.APIError {
	t.Helper()
	var apiErr models.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}

func TestListPizzasHandler(t *testing.T) {
	t.Run("returns the pizzas", func(t *testing.T) {
		svc := new(mockPizzaService)
		svc.On("ListPizzas", mock.Anything).Return([]models.Pizza{{ID: 1, Name: "Pepperoni"}}, nil)

		w := perform(setupRouter(svc), http.MethodGet, "/pizzas", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"id":1,"name":"Pepperoni","description":""}]`, w.Body.String())
	})

	t.Run("returns an empty array", func(t *testing.T) {
		svc := new(mockPizzaService)
		svc.On("ListPizzas", mock.Anything).Return([]models.Pizza{}, nil)

		w := perform(setupRouter(svc), http.MethodGet, "/pizzas", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("maps store failures to 500", func(t *testing.T) {
		svc := new(mockPizzaService)
		svc.On("ListPizzas", mock.Anything).Return(nil, errors.New("connection reset"))

		w := perform(setupRouter(svc), http.MethodGet, "/pizzas", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, models.ErrInternalServer, decodeAPIError(t, w).Code)
	})
}

func TestGetPizzaHandler(t *testing.T) {
	t.Run("not found has no body", func(t *testing.T) {
		svc := new(mockPizzaService)
		svc.On("GetPizza", mock.Anything, 9999).Return(models.Pizza{}, services.ErrPizzaNotFound)

		w := perform(setupRouter(svc), http.MethodGet, "/pizzas/9999", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("non numeric id is a bad request", func(t *testing.T) {
		svc := new(mockPizzaService)

		w := perform(setupRouter(svc), http.MethodGet, "/pizzas/abc", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, models.ErrPizzaInvalidID, decodeAPIError(t, w).Code)
		svc.AssertNotCalled(t, "GetPizza", mock.Anything, mock.Anything)
	})
}

func TestCreatePizzaHandler(t *testing.T) {
	t.Run("returns 201 with a location", func(t *testing.T) {
		svc := new(mockPizzaService)
		in := models.Pizza{Name: "Margherita", Description: "Tomato, basil"}
		svc.On("CreatePizza", mock.Anything, in).Return(models.Pizza{ID: 2, Name: in.Name, Description: in.Description}, nil)

		w := perform(setupRouter(svc), http.MethodPost, "/pizzas", `{"name":"Margherita","description":"Tomato, basil"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/pizzas/2", w.Header().Get("Location"))
		assert.JSONEq(t, `{"id":2,"name":"Margherita","description":"Tomato, basil"}`, w.Body.String())
	})

	t.Run("malformed json is a bad request", func(t *testing.T) {
		svc := new(mockPizzaService)

		w := perform(setupRouter(svc), http.MethodPost, "/pizzas", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, models.ErrPizzaInvalidData, decodeAPIError(t, w).Code)
	})
}

func TestUpdatePizzaHandler(t *testing.T) {
	body := `{"id":1,"name":"Pepperoni Deluxe","description":"Extra cheese"}`
	in := models.Pizza{ID: 1, Name: "Pepperoni Deluxe", Description: "Extra cheese"}

	testCases := []struct {
		name           string
		serviceErr     error
		expectedStatus int
		expectedCode   string
	}{
		{name: "success is 204", serviceErr: nil, expectedStatus: http.StatusNoContent},
		{name: "mismatch is 400", serviceErr: services.ErrIDMismatch, expectedStatus: http.StatusBadRequest, expectedCode: models.ErrPizzaIDMismatch},
		{name: "missing is 404", serviceErr: services.ErrPizzaNotFound, expectedStatus: http.StatusNotFound},
		{
			name:           "conflict is 500",
			serviceErr:     fmt.Errorf("update pizza 1: %w", services.ErrConcurrentUpdate),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   models.ErrConflict,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockPizzaService)
			svc.On("UpdatePizza", mock.Anything, 1, in).Return(tt.serviceErr)

			w := perform(setupRouter(svc), http.MethodPut, "/pizzas/1", body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeAPIError(t, w).Code)
			} else {
				assert.Empty(t, w.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestDeletePizzaHandler(t *testing.T) {
	t.Run("returns the deleted pizza", func(t *testing.T) {
		svc := new(mockPizzaService)
		svc.On("DeletePizza", mock.Anything, 1).Return(models.Pizza{ID: 1, Name: "Pepperoni"}, nil)

		w := perform(setupRouter(svc), http.MethodDelete, "/pizzas/1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":1,"name":"Pepperoni","description":""}`, w.Body.String())
	})

	t.Run("missing is 404", func(t *testing.T) {
		svc := new(mockPizzaService)
		svc.On("DeletePizza", mock.Anything, 1).Return(models.Pizza{}, services.ErrPizzaNotFound)

		w := perform(setupRouter(svc), http.MethodDelete, "/pizzas/1", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
