package handler

import (
	"net/http"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/dto"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/response"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/service"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/util"
)

type NotificationHandler struct {
	notificationService service.INotificationService
}

func NewNotificationHandler(notificationService service.INotificationService) *NotificationHandler {
	if notificationService == nil {
		panic("notificationService cannot be nil")
	}
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.notificationService.ListNotifications(ctx, util.GetIdentityFromContext(ctx).UserID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, dto.NewNotificationDTOs(list))
}

func (h *NotificationHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	ctx := r.Context()
	if err := h.notificationService.MarkSeen(ctx, util.GetIdentityFromContext(ctx).UserID, id); err != nil {
		response.ErrorJSON(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
