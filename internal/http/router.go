package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-inventory/internal/config"
	"github.com/iyhunko/product-inventory/internal/http/controller"
	"github.com/iyhunko/product-inventory/internal/http/middleware"
	"github.com/iyhunko/product-inventory/internal/repository"
)

func InitRouter(conf *config.Config, users repository.UserRepository, server *gin.Engine, ctr *controller.Controller, productCtr *controller.ProductController) *gin.Engine {
	httpMiddleware := middleware.New(conf, users)

	// Apply recovery middleware globally to prevent panics from crashing the server
	server.Use(middleware.Recovery())
	server.Use(middleware.Logger())
	server.Use(middleware.CORS())

	server.GET("/ping", ctr.Ping)

	api := server.Group("/api")
	{
		api.GET("/user", httpMiddleware.Authenticate(), ctr.CurrentUser)

		products := api.Group("/products")
		{
			products.GET("", productCtr.ListProducts)
			products.POST("", productCtr.CreateProduct)
			products.GET("/:id", productCtr.GetProduct)
			products.PUT("/:id", productCtr.UpdateProduct)
			products.PATCH("/:id", productCtr.UpdateProduct)
			products.DELETE("/:id", productCtr.DeleteProduct)
		}
	}

	return server
}
