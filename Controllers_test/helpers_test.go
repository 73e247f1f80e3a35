package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-backoffice/config"
	"github.com/yeremiapane/restaurant-backoffice/controllers"
	"github.com/yeremiapane/restaurant-backoffice/database"
	"github.com/yeremiapane/restaurant-backoffice/kds"
	"github.com/yeremiapane/restaurant-backoffice/repository"
	"github.com/yeremiapane/restaurant-backoffice/router"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
	Meta    *utils.Meta     `json:"meta"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenInMemory(strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)

	menuRepo := repository.NewGormMenuRepository(db)
	menu := services.NewMenuService(menuRepo, nil)
	orders := services.NewOrderService(
		repository.NewGormOrderRepository(db), menuRepo, repository.NewGormSequencer(db), nil, "ORD")
	hub := kds.NewHub()

	return router.SetupRouter(router.Controllers{
		Menu:      controllers.NewMenuController(menu, hub),
		Order:     controllers.NewOrderController(orders, hub),
		Dashboard: controllers.NewDashboardController(hub, "*"),
		Health:    &controllers.HealthController{},
	}, config.ServerConfig{AllowedOrigin: "*"})
}

func doRequest(t *testing.T, r *gin.Engine, method, url string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	return doRaw(t, r, method, url, buf.String())
}

func doRaw(t *testing.T, r *gin.Engine, method, url, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if len(env.Data) == 0 {
		return
	}
	require.NoError(t, json.Unmarshal(env.Data, v))
}

type menuItemJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Ingredients []string `json:"ingredients"`
	IsAvailable bool     `json:"is_available"`
}

func createMenuItem(t *testing.T, r *gin.Engine, name string, price float64) menuItemJSON {
	t.Helper()
	code, env := doRequest(t, r, http.MethodPost, "/api/menu", map[string]interface{}{
		"name":        name,
		"category":    "Main Course",
		"price":       price,
		"ingredients": []string{"Salt"},
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var item menuItemJSON
	decodeData(t, env, &item)
	return item
}
