package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/yigit/academia/docs"
	"github.com/yigit/academia/internal/config"
)

// SetupSwagger serves the API docs under /swagger, pointed at the configured port.
func SetupSwagger(router *gin.Engine, cfg *config.Config) {
	docs.SwaggerInfo.Host = "localhost:" + cfg.Server.Port

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.PersistAuthorization(true),
		ginSwagger.DocExpansion("none"),
	))
}
