package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Artur470/postgreql/cache"
	cartControllers "github.com/Artur470/postgreql/controllers/cart"
	orderControllers "github.com/Artur470/postgreql/controllers/order"
	"github.com/Artur470/postgreql/middleware"
	"github.com/Artur470/postgreql/services"
)

// Deps carries everything the route handlers need.
type Deps struct {
	Cart      *services.CartService
	Order     *services.OrderService
	Cache     *cache.Cache
	JWTSecret string
}

// SetupRoutes is the single entry-point that wires up the cart and order
// route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	// Payment method catalog is public: checkout forms need it before login.
	r.GET("/payment-methods", orderControllers.ListPaymentMethods(deps.Order))

	authed := r.Group("/", middleware.RequireUser(deps.JWTSecret))

	cart := authed.Group("/cart")
	{
		cart.GET("", cartControllers.GetCart(deps.Cart, deps.Cache))
		cart.POST("", cartControllers.AddItem(deps.Cart))
		cart.PUT("", cartControllers.UpdateItem(deps.Cart))
		cart.DELETE("", cartControllers.RemoveItem(deps.Cart))
	}

	authed.POST("/order", orderControllers.Checkout(deps.Order))
}
