package rhttp_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/advdv/rhttp"
)

func Example() {
	router := rhttp.NewRouter()

	router.Route("GET", "/items/:id", func(_ context.Context, _ rhttp.ResponseWriter, r *rhttp.Request) (rhttp.Body, error) {
		return rhttp.JSON(map[string]string{
			"id":   r.Param("id"),
			"name": "Example Item",
		}), nil
	}, rhttp.WithName("get-item"))

	// Generate URL by route name
	url, _ := router.Reverse("get-item", map[string]string{"id": "123"})
	fmt.Println("URL:", url)

	// Test the handler
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	rhttp.Serve(router).ServeHTTP(rec, req)

	fmt.Println("Status:", rec.Code)
	fmt.Println("Body:", rec.Body.String())
	// Output:
	// URL: /items/123
	// Status: 200
	// Body: {"id":"42","name":"Example Item"}
}

func ExampleNewErrorf() {
	router := rhttp.NewRouter()

	router.Route("GET", "/protected", func(_ context.Context, _ rhttp.ResponseWriter, r *rhttp.Request) (rhttp.Body, error) {
		token := r.Header.Get("Authorization")
		if token == "" {
			return rhttp.Body{}, rhttp.NewErrorf(rhttp.CodeUnauthorized, "missing token")
		}
		if token != "Bearer secret" {
			return rhttp.Body{}, rhttp.NewErrorf(rhttp.CodeForbidden, "invalid token")
		}

		return rhttp.Text("welcome"), nil
	})

	handler := rhttp.Serve(router)

	// Request without token
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	handler.ServeHTTP(rec, req)
	fmt.Println("No token:", rec.Code)

	// Request with valid token
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer secret")
	handler.ServeHTTP(rec, req)
	fmt.Println("Valid token:", rec.Code, rec.Body.String())
	// Output:
	// No token: 401
	// Valid token: 200 welcome
}

func ExampleNewRedirect() {
	router := rhttp.NewRouter()

	router.Route("GET", "/old", func(context.Context, rhttp.ResponseWriter, *rhttp.Request) (rhttp.Body, error) {
		return rhttp.Body{}, rhttp.NewRedirect("/new")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/old", nil)
	rhttp.Serve(router).ServeHTTP(rec, req)

	fmt.Println("Status:", rec.Code)
	fmt.Println("Location:", rec.Header().Get("Location"))
	// Output:
	// Status: 303
	// Location: /new
}
