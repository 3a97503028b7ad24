package routing

import (
	"net/http"
)

type Router struct {
	products *ProductHandler
	health   *HealthHandler
}

func NewRouter(products *ProductHandler, health *HealthHandler) *Router {
	return &Router{
		products: products,
		health:   health,
	}
}

func (router *Router) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /products", router.products.GetProducts)
	mux.HandleFunc("POST /products", router.products.CreateProduct)
	mux.HandleFunc("GET /products/{id}", router.products.GetProductById)
	mux.HandleFunc("PUT /products/{id}", router.products.UpdateProduct)
	mux.HandleFunc("DELETE /products/{id}", router.products.DeleteProduct)

	mux.HandleFunc("GET /health", router.health.Health)
	mux.HandleFunc("GET /health/db", router.health.Database)
	mux.HandleFunc("GET /health/redis", router.health.Redis)

	return mux
}
