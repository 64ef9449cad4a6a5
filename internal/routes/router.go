// roof-mri-backend/internal/routes/router.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/adam1capps/roof-mri-backend/config"
	"github.com/adam1capps/roof-mri-backend/internal/handlers"
	"github.com/adam1capps/roof-mri-backend/internal/middleware"
)

// Setup собирает все маршруты приложения.
func Setup(cfg *config.Config, h *handlers.Set) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())

	// --- Публичные маршруты ---
	// Клиентские эндпоинты защищены самим id предложения: токен
	// в ссылке и есть право на чтение и подпись.
	RegisterPublicRoutes(r, h)

	// --- Защищенная группа маршрутов ---
	// Все, что смотрит команда продаж, требует JWT.
	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	RegisterAdminRoutes(authRequired, h)

	return r
}
