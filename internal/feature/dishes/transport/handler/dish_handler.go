// Package handler provides HTTP handlers for the dishes feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"nutriapp/internal/feature/auth/transport/middleware"
	"nutriapp/internal/feature/dishes/domain/entity"
	"nutriapp/internal/feature/dishes/transport/http/dto"
	"nutriapp/internal/feature/dishes/usecase"
)

const (
	msgMissingFields = "Missing fields"
	msgNotFound      = "Platillo no encontrado"
	msgUnauthorized  = "No autorizado"
	msgInternal      = "Error interno del servidor"
)

// DishUsecase defines the dish operations used by the handler.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type DishUsecase interface {
	List(ctx context.Context, ownerID uint) ([]entity.Dish, error)
	Create(ctx context.Context, ownerID uint, in usecase.NewDish) (*entity.Dish, error)
	Get(ctx context.Context, ownerID, id uint) (*entity.Dish, error)
	Update(ctx context.Context, ownerID, id uint, patch usecase.DishPatch) (*entity.Dish, error)
	Delete(ctx context.Context, ownerID, id uint) error
}

// DishHandler serves /api/dishes. It must run behind middleware.SessionRequired.
type DishHandler struct {
	uc DishUsecase
}

// NewDishHandler creates a new DishHandler.
func NewDishHandler(uc DishUsecase) *DishHandler {
	return &DishHandler{uc: uc}
}

// List handles GET /api/dishes.
func (h *DishHandler) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	dishes, err := h.uc.List(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "list dishes", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDishListRes(dishes))
}

// Create handles POST /api/dishes.
func (h *DishHandler) Create(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req dto.DishReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create dish bind failed", "error", err, "user_id", userID)
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgMissingFields})
		return
	}

	dish, err := h.uc.Create(c.Request.Context(), userID, req.ToNewDish())
	if err != nil {
		h.fail(c, "create dish", err)
		return
	}
	slog.Info("dish created", "dish_id", dish.ID, "user_id", userID)
	c.JSON(http.StatusOK, dto.DishEnvelope{Dish: dto.NewDishRes(dish)})
}

// Get handles GET /api/dishes/:id.
func (h *DishHandler) Get(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := h.dishID(c)
	if !ok {
		return
	}
	dish, err := h.uc.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.fail(c, "get dish", err)
		return
	}
	c.JSON(http.StatusOK, dto.DishEnvelope{Dish: dto.NewDishRes(dish)})
}

// Update handles PUT /api/dishes/:id. Absent fields keep their stored value.
func (h *DishHandler) Update(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := h.dishID(c)
	if !ok {
		return
	}
	var req dto.DishReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update dish bind failed", "error", err, "user_id", userID, "dish_id", id)
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgMissingFields})
		return
	}

	dish, err := h.uc.Update(c.Request.Context(), userID, id, req.ToPatch())
	if err != nil {
		h.fail(c, "update dish", err)
		return
	}
	slog.Info("dish updated", "dish_id", dish.ID, "user_id", userID)
	c.JSON(http.StatusOK, dto.DishEnvelope{Dish: dto.NewDishRes(dish)})
}

// Delete handles DELETE /api/dishes/:id.
func (h *DishHandler) Delete(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := h.dishID(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), userID, id); err != nil {
		h.fail(c, "delete dish", err)
		return
	}
	slog.Info("dish deleted", "dish_id", id, "user_id", userID)
	c.JSON(http.StatusOK, dto.SuccessRes{Success: true})
}

func (h *DishHandler) userID(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorRes{Error: msgUnauthorized})
		return 0, false
	}
	return id, true
}

// dishID binds the :id path parameter. Anything that is not a positive integer
// cannot name a dish, so it is answered with 404.
func (h *DishHandler) dishID(c *gin.Context) (uint, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, dto.ErrorRes{Error: msgNotFound})
		return 0, false
	}
	return uint(id), true
}

func (h *DishHandler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, usecase.ErrMissingFields):
		slog.Warn(op+" rejected", "error", err)
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgMissingFields})
	case errors.Is(err, usecase.ErrDishNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorRes{Error: msgNotFound})
	default:
		slog.Error(op+" failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternal})
	}
}
