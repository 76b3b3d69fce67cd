package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/arjun2k01/esports-cart/internal/domain"
)

func TestListProducts_EmptyIsJSONArray(t *testing.T) {
	router := testRouter(t, Deps{})
	rec := doRequest(router, http.MethodGet, "/api/products", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestListProducts_ReturnsCatalog(t *testing.T) {
	productSvc := &stubProductService{products: []domain.Product{
		{ID: "p1", Name: "Pro Gaming Headset", PriceCents: 11999, CountInStock: 7},
	}}
	router := testRouter(t, Deps{ProductSvc: productSvc})

	rec := doRequest(router, http.MethodGet, "/api/products?keyword=headset", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []domain.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].PriceCents != 11999 {
		t.Fatalf("unexpected products: %+v", got)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	productSvc := &stubProductService{err: domain.ErrNotFound}
	router := testRouter(t, Deps{ProductSvc: productSvc})

	rec := doRequest(router, http.MethodGet, "/api/products/missing", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "NOT_FOUND") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCreateProduct_RequiresAdmin(t *testing.T) {
	router := testRouter(t, Deps{})
	rec := doRequest(router, http.MethodPost, "/api/products", "user-token", `{"name":"X"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestCreateProduct_AdminCreated(t *testing.T) {
	productSvc := &stubProductService{product: &domain.Product{ID: "p1", Name: "Arena Mousepad"}}
	router := testRouter(t, Deps{ProductSvc: productSvc})

	body := `{"name":"Arena Mousepad","image":"/images/pad.jpg","category":"Gear","priceCents":1599,"countInStock":10}`
	rec := doRequest(router, http.MethodPost, "/api/products", "admin-token", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestDeleteProduct_RequiresAuth(t *testing.T) {
	router := testRouter(t, Deps{})
	rec := doRequest(router, http.MethodDelete, "/api/products/p1", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
