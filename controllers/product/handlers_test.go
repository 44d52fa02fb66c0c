package productcontroller

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xhfmvls/c-buy/cache"
	"github.com/xhfmvls/c-buy/database/testdb"
	"github.com/xhfmvls/c-buy/middleware"
	"gorm.io/gorm"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(db *gorm.DB, pc cache.ProductCache) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil))))
	g := r.Group("/product", middleware.RequireAuth(secret))
	g.GET("", GetProducts(db))
	g.GET("/categories", GetCategories(db))
	g.GET("/:productID", GetProduct(db, pc))
	g.POST("", PostProduct(db))
	g.PATCH("", PatchProductHandler(db, pc))
	g.DELETE("", DeleteProductHandler(db, pc))
	g.GET("/export", ExportProductsToExcel(db))
	return r
}

func request(t *testing.T, r http.Handler, method, path, storeID string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	token, err := middleware.IssueToken(secret, "u1", storeID, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	out := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestProductHandlers(t *testing.T) {
	db := testdb.Open(t)
	pc := newFakeCache()
	r := newRouter(db, pc)

	t.Run("post without store is 401", func(t *testing.T) {
		w, _ := request(t, r, http.MethodPost, "/product", "", map[string]any{
			"productName": "apple", "price": "1.00", "category": "fruit", "stocks": 1,
		})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	w, body := request(t, r, http.MethodPost, "/product", "store-a", map[string]any{
		"productName": "apple", "price": "1.00", "category": "fruit", "stocks": 1,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("post: got %d %s", w.Code, w.Body.String())
	}
	id := body["product"].(map[string]any)["productID"].(string)

	w, body = request(t, r, http.MethodGet, "/product/"+id, "", nil)
	if w.Code != http.StatusOK || body["product"].(map[string]any)["productName"] != "apple" {
		t.Fatalf("get: got %d %s", w.Code, w.Body.String())
	}

	w, body = request(t, r, http.MethodPatch, "/product", "store-a", map[string]any{"productID": id, "stocks": 9})
	if w.Code != http.StatusCreated {
		t.Fatalf("patch: got %d %s", w.Code, w.Body.String())
	}
	if update := body["update"].(map[string]any); len(update) != 1 || update["stocks"] != float64(9) {
		t.Fatalf("unexpected update: %v", body["update"])
	}
	if _, cached := pc.items[id]; cached {
		t.Fatal("patch should invalidate the cached product")
	}

	w, body = request(t, r, http.MethodGet, "/product?limit=10", "", nil)
	if w.Code != http.StatusOK || body["count"] != float64(1) || body["page"] != float64(1) {
		t.Fatalf("list: got %d %s", w.Code, w.Body.String())
	}

	w, body = request(t, r, http.MethodGet, "/product/categories", "", nil)
	if w.Code != http.StatusOK || body["count"] != float64(1) {
		t.Fatalf("categories: got %d %s", w.Code, w.Body.String())
	}

	w, _ = request(t, r, http.MethodGet, "/product/export", "store-a", nil)
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("export: got %d", w.Code)
	}

	w, _ = request(t, r, http.MethodDelete, "/product", "store-b", map[string]any{"productID": id})
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign delete: expected 404, got %d", w.Code)
	}

	w, body = request(t, r, http.MethodDelete, "/product", "store-a", map[string]any{"productID": id})
	if w.Code != http.StatusOK || body["deletedProductID"] != id {
		t.Fatalf("delete: got %d %s", w.Code, w.Body.String())
	}

	w, _ = request(t, r, http.MethodGet, "/product/"+id, "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", w.Code)
	}
}
