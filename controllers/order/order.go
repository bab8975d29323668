package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Artur470/postgreql/services"
)

type CheckoutInput struct {
	Address         string `json:"address"`
	PaymentMethodID *uint  `json:"payment_method"`
}

// POST /order
//
// A missing open cart answers 400 here rather than 404: from the checkout
// form's point of view it is a bad request, same as a missing address.
func Checkout(svc *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetString("user_id")

		var input CheckoutInput
		if err := ctx.ShouldBindJSON(&input); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := svc.Checkout(ctx.Request.Context(), userID, services.CheckoutInput{
			Address:         input.Address,
			PaymentMethodID: input.PaymentMethodID,
		})
		if err != nil {
			if se, ok := services.AsError(err); ok {
				status := http.StatusBadRequest
				if se.Kind == services.KindTransient {
					status = http.StatusServiceUnavailable
				}
				ctx.JSON(status, gin.H{"error": se.Message, "kind": string(se.Kind)})
				return
			}
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		ctx.JSON(http.StatusCreated, gin.H{"success": "Order created", "order": order})
	}
}

// GET /payment-methods
func ListPaymentMethods(svc *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		methods, err := svc.ListPaymentMethods(ctx.Request.Context())
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment methods"})
			return
		}
		ctx.JSON(http.StatusOK, methods)
	}
}
