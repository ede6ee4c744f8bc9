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

const userNotFoundMessage = "user not found"

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create answers 200 rather than 201; existing clients depend on it.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePayload(w, r, "user")
	if !ok {
		return
	}
	if errs := validation.UserCreateRules.Validate(payload); len(errs) > 0 {
		respondValidation(w, r, "user", errs)
		return
	}

	created, err := h.svc.Create(r.Context(), service.CreateUserInput{
		Username: stringField(payload, "username"),
		Email:    stringField(payload, "email"),
		Password: stringField(payload, "password"),
		Role:     optionalString(payload, "role"),
	})
	if err != nil {
		h.respondError(w, r, "user.create_failed", "failed to create user", err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:  "user.create",
		TargetType: "user",
		TargetID:   formatID(created.ID),
		Action:     "create",
		Outcome:    "success",
		Reason:     "user_created",
	}, "role", created.Role)
	response.Data(w, r, http.StatusOK, created)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		respondInternal(w, r, "user.list_failed", "failed to list users", err)
		return
	}
	response.Data(w, r, http.StatusOK, users)
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	user, err := h.svc.GetByID(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, "user.get_failed", "failed to load user", err)
		return
	}
	response.Data(w, r, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	payload, ok := decodePayload(w, r, "user")
	if !ok {
		return
	}
	if errs := validation.UserUpdateRules.Validate(payload); len(errs) > 0 {
		respondValidation(w, r, "user", errs)
		return
	}

	updated, err := h.svc.Update(r.Context(), userID, service.UpdateUserInput{
		Username: optionalString(payload, "username"),
		Email:    optionalString(payload, "email"),
		Password: optionalString(payload, "password"),
		Role:     optionalString(payload, "role"),
	})
	if err != nil {
		h.respondError(w, r, "user.update_failed", "failed to update user", err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:  "user.update",
		TargetType: "user",
		TargetID:   formatID(userID),
		Action:     "update",
		Outcome:    "success",
		Reason:     "user_updated",
	})
	response.Data(w, r, http.StatusOK, updated)
}

func (h *UserHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	updated, err := h.svc.ToggleActive(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, "user.toggle_failed", "failed to update user status", err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:  "user.toggle_active",
		TargetType: "user",
		TargetID:   formatID(userID),
		Action:     "toggle",
		Outcome:    "success",
		Reason:     "active_toggled",
	}, "is_active", updated.IsActive)
	response.Data(w, r, http.StatusOK, updated)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	deleted, err := h.svc.DeleteByID(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, "user.delete_failed", "failed to delete user", err)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:  "user.delete",
		TargetType: "user",
		TargetID:   formatID(userID),
		Action:     "delete",
		Outcome:    "success",
		Reason:     "user_deleted",
	})
	response.Data(w, r, http.StatusOK, deleted)
}

// pathID treats a non-integer id as an id that can never resolve, so callers
// get a 404 rather than a validation failure.
func (h *UserHandler) pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, fe := validation.ParseID(chi.URLParam(r, "id"))
	if fe != nil {
		response.Error(w, r, http.StatusNotFound, userNotFoundMessage)
		return 0, false
	}
	return id, true
}

func (h *UserHandler) respondError(w http.ResponseWriter, r *http.Request, event, message string, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		response.Error(w, r, http.StatusNotFound, userNotFoundMessage)
	case errors.Is(err, repository.ErrUserConflict):
		// Uniqueness violations stay on 500 with their own message.
		respondInternal(w, r, event, repository.ErrUserConflict.Error(), err)
	default:
		respondInternal(w, r, event, message, err)
	}
}
