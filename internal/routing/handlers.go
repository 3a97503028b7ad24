package routing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/mkravets/product-catalog/internal/domain"
	"github.com/mkravets/product-catalog/internal/ports"
)

type ProductHandler struct {
	svc ports.CatalogService
	log *logrus.Logger
}

func NewProductHandler(svc ports.CatalogService, log *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		svc: svc,
		log: log,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func parseProductId(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid product id")
	}
	return id, nil
}

// writeServiceError maps domain sentinels to HTTP statuses. Internal detail
// never reaches the response body.
func (h *ProductHandler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Invalid request body")
	default:
		h.log.WithField("op", op).WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		h.writeServiceError(w, "GetProducts", err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetProductById(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductId(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "GetProductById", err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.NewProduct
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	created, err := h.svc.CreateProduct(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "CreateProduct", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Product created successfully",
		"product": created,
	})
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductId(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	var patch domain.ProductPatch
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := patch.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	updated, err := h.svc.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		h.writeServiceError(w, "UpdateProduct", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Product updated successfully",
		"product": updated,
	})
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductId(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	deleted, err := h.svc.DeleteProduct(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "DeleteProduct", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Product deleted successfully",
		"deleted": deleted,
	})
}

// validationMessage strips the sentinel prefix so responses carry only the
// field-level message.
func validationMessage(err error) string {
	msg := err.Error()
	prefix := domain.ErrInvalidInput.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
