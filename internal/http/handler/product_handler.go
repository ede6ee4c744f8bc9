package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sandeepkv93/storefront-crud-api/internal/http/response"
	"github.com/sandeepkv93/storefront-crud-api/internal/observability"
	"github.com/sandeepkv93/storefront-crud-api/internal/repository"
	"github.com/sandeepkv93/storefront-crud-api/internal/service"
	"github.com/sandeepkv93/storefront-crud-api/internal/validation"
)

const (
	productNotFoundMessage = "product not found"
	productDeletedMessage  = "product deleted"
)

type ProductHandler struct {
	svc service.ProductService
}

func NewProductHandler(svc service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePayload(w, r, "product")
	if !ok {
		return
	}
	if errs := validation.ProductRules.Validate(payload); len(errs) > 0 {
		respondValidation(w, r, "product", errs)
		return
	}

	price, _ := validation.Float(payload["price"])
	created, err := h.svc.Create(r.Context(), service.CreateProductInput{
		Name:         stringField(payload, "name"),
		Price:        price,
		Availability: optionalBool(payload, "availability"),
	})
	if err != nil {
		respondInternal(w, r, "product.create_failed", "failed to create product", err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:  "product.create",
		TargetType: "product",
		TargetID:   formatID(created.ID),
		Action:     "create",
		Outcome:    "success",
		Reason:     "product_created",
	}, "name", created.Name)
	response.JSON(w, r, http.StatusCreated, created)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context())
	if err != nil {
		respondInternal(w, r, "product.list_failed", "failed to list products", err)
		return
	}
	response.Data(w, r, http.StatusOK, products)
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	product, err := h.svc.GetByID(r.Context(), productID)
	if err != nil {
		h.respondLookupError(w, r, "product.get_failed", "failed to load product", err)
		return
	}
	response.JSON(w, r, http.StatusOK, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	payload, ok := decodePayload(w, r, "product")
	if !ok {
		return
	}
	if errs := validation.ProductRules.Validate(payload); len(errs) > 0 {
		respondValidation(w, r, "product", errs)
		return
	}

	price, _ := validation.Float(payload["price"])
	updated, err := h.svc.Update(r.Context(), productID, service.UpdateProductInput{
		Name:         stringField(payload, "name"),
		Price:        price,
		Availability: optionalBool(payload, "availability"),
	})
	if err != nil {
		h.respondLookupError(w, r, "product.update_failed", "failed to update product", err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:  "product.update",
		TargetType: "product",
		TargetID:   formatID(productID),
		Action:     "update",
		Outcome:    "success",
		Reason:     "product_updated",
	}, "name", updated.Name)
	response.JSON(w, r, http.StatusOK, updated)
}

func (h *ProductHandler) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	updated, err := h.svc.ToggleAvailability(r.Context(), productID)
	if err != nil {
		h.respondLookupError(w, r, "product.toggle_failed", "failed to update availability", err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:  "product.toggle_availability",
		TargetType: "product",
		TargetID:   formatID(productID),
		Action:     "toggle",
		Outcome:    "success",
		Reason:     "availability_toggled",
	}, "availability", updated.Availability)
	response.JSON(w, r, http.StatusOK, updated)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteByID(r.Context(), productID); err != nil {
		h.respondLookupError(w, r, "product.delete_failed", "failed to delete product", err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:  "product.delete",
		TargetType: "product",
		TargetID:   formatID(productID),
		Action:     "delete",
		Outcome:    "success",
		Reason:     "product_deleted",
	})
	response.JSON(w, r, http.StatusOK, map[string]string{"message": productDeletedMessage})
}

// pathID rejects non-integer ids with a 400 before any store access.
func (h *ProductHandler) pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, fe := validation.ParseID(chi.URLParam(r, "id"))
	if fe != nil {
		respondValidation(w, r, "product", []validation.FieldError{*fe})
		return 0, false
	}
	return id, true
}

func (h *ProductHandler) respondLookupError(w http.ResponseWriter, r *http.Request, event, message string, err error) {
	if errors.Is(err, repository.ErrProductNotFound) {
		response.Error(w, r, http.StatusNotFound, productNotFoundMessage)
		return
	}
	respondInternal(w, r, event, message, err)
}
