package cartControllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Artur470/postgreql/cache"
	"github.com/Artur470/postgreql/services"
)

type AddItemInput struct {
	ProductID uint `json:"product" binding:"required"`
	Quantity  int  `json:"quantity"`
}

type UpdateItemInput struct {
	ID       uint `json:"id" binding:"required"`
	Quantity int  `json:"quantity"`
}

type RemoveItemInput struct {
	ID uint `json:"id" binding:"required"`
}

// GET /cart
func GetCart(svc *services.CartService, c *cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetString("user_id")

		if body, ok := c.GetCart(ctx.Request.Context(), userID); ok {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
			return
		}

		cart, err := svc.GetCart(ctx.Request.Context(), userID)
		if err != nil {
			respondError(ctx, err)
			return
		}

		if body, err := json.Marshal(cart); err == nil {
			c.SetCart(ctx.Request.Context(), userID, body)
		}
		ctx.JSON(http.StatusOK, cart)
	}
}

// POST /cart
func AddItem(svc *services.CartService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetString("user_id")

		var input AddItemInput
		if err := ctx.ShouldBindJSON(&input); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if _, err := svc.AddItem(ctx.Request.Context(), userID, input.ProductID, input.Quantity); err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusCreated, gin.H{"success": "Item added to your cart"})
	}
}

// PUT /cart
func UpdateItem(svc *services.CartService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var input UpdateItemInput
		if err := ctx.ShouldBindJSON(&input); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if _, err := svc.UpdateItem(ctx.Request.Context(), input.ID, input.Quantity); err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"success": "Product updated"})
	}
}

// DELETE /cart
func RemoveItem(svc *services.CartService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var input RemoveItemInput
		if err := ctx.ShouldBindJSON(&input); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := svc.RemoveItem(ctx.Request.Context(), input.ID); err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"success": "Item removed from your cart"})
	}
}

func respondError(ctx *gin.Context, err error) {
	if se, ok := services.AsError(err); ok {
		status := http.StatusBadRequest
		switch se.Kind {
		case services.KindNotFound:
			status = http.StatusNotFound
		case services.KindTransient:
			status = http.StatusServiceUnavailable
		}
		ctx.JSON(status, gin.H{"error": se.Message, "kind": string(se.Kind)})
		return
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
