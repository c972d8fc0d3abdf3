package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bluewave/tablepos/controllers"
	"github.com/bluewave/tablepos/middlewares"
	"github.com/bluewave/tablepos/services"
	"github.com/bluewave/tablepos/storage"
)

func SetupRouter(db *gorm.DB, images storage.ImageStore) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.LoggerMiddleware())

	userService := services.NewUserService(db)
	tableService := services.NewTableService(db)
	categoryService := services.NewCategoryService(db, images)
	productService := services.NewProductService(db, images)
	orderService := services.NewOrderService(db)
	paymentService := services.NewPaymentService(db)

	userCtrl := controllers.NewUserController(userService)
	tableCtrl := controllers.NewTableController(tableService, userService)
	categoryCtrl := controllers.NewCategoryController(categoryService, userService, images)
	productCtrl := controllers.NewProductController(productService, userService, images)
	orderCtrl := controllers.NewOrderController(orderService, userService)
	paymentCtrl := controllers.NewPaymentController(paymentService, userService)

	// Public
	r.POST("/login", middlewares.NewStrictRateLimiter(), userCtrl.Login)
	r.POST("/tables/login", middlewares.NewStrictRateLimiter(), tableCtrl.Login)

	// Client ordering UI, scoped to a table token
	client := r.Group("/client")
	client.Use(middlewares.TableAuthMiddleware())
	{
		client.GET("/categories", categoryCtrl.List)
		client.GET("/categories/:category_id/products", productCtrl.ListByCategory)
		client.GET("/tables/:table_code/orders", orderCtrl.ListProducts)
		client.GET("/tables/:table_code/orders/state", orderCtrl.State)
		client.GET("/tables/:table_code/orders/count", orderCtrl.Count)
	}

	// Staff API
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		users := api.Group("/users")
		{
			users.POST("", userCtrl.Create)
			users.GET("", middlewares.RequirePermission(userService, "view_user"), userCtrl.List)
			users.GET("/:user_id", middlewares.RequirePermission(userService, "view_user"), userCtrl.Get)
			users.PATCH("/:user_id", userCtrl.Update)
		}

		tables := api.Group("/tables")
		{
			tables.POST("", middlewares.RequirePermission(userService, "create_table"), tableCtrl.Create)
			tables.GET("", middlewares.RequirePermission(userService, "list_table"), tableCtrl.List)
			tables.GET("/statuses", middlewares.RequirePermission(userService, "list_table"), tableCtrl.Statuses)
			tables.GET("/:table_id", middlewares.RequirePermission(userService, "view_table"), tableCtrl.Get)
			tables.PATCH("/:table_id", middlewares.RequirePermission(userService, "change_table"), tableCtrl.Update)
		}

		categories := api.Group("/categories")
		{
			categories.POST("", middlewares.RequirePermission(userService, "create_category"), categoryCtrl.Create)
			categories.GET("", middlewares.RequirePermission(userService, "list_category"), categoryCtrl.List)
			categories.GET("/:category_id", middlewares.RequirePermission(userService, "view_category"), categoryCtrl.Get)
			categories.PATCH("/:category_id", middlewares.RequirePermission(userService, "change_category"), categoryCtrl.Update)
			categories.DELETE("/:category_id", middlewares.RequirePermission(userService, "change_category"), categoryCtrl.Delete)
			categories.GET("/:category_id/products", middlewares.RequirePermission(userService, "list_product"), productCtrl.ListByCategory)
		}

		products := api.Group("/products")
		{
			products.POST("", middlewares.RequirePermission(userService, "create_product"), productCtrl.Create)
			products.GET("", middlewares.RequirePermission(userService, "list_product"), productCtrl.List)
			products.GET("/:product_id", middlewares.RequirePermission(userService, "view_product"), productCtrl.Get)
			products.PATCH("/:product_id", middlewares.RequirePermission(userService, "change_product"), productCtrl.Update)
			products.DELETE("/:product_id", middlewares.RequirePermission(userService, "change_product"), productCtrl.Delete)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", middlewares.RequirePermission(userService, "create_order"), orderCtrl.Register)
			orders.POST("/bulk", middlewares.RequirePermission(userService, "create_order"), orderCtrl.RegisterBulk)
			orders.GET("", middlewares.RequirePermission(userService, "list_order"), orderCtrl.Search)
			orders.GET("/:order_code", middlewares.RequirePermission(userService, "view_order"), orderCtrl.Get)
			orders.PATCH("/:order_code", middlewares.RequirePermission(userService, "change_order"), orderCtrl.Update)
		}

		api.POST("/tables/:table_id/orders/close", middlewares.RequirePermission(userService, "change_order"), orderCtrl.CloseBulk)
		api.GET("/tables/code/:table_code/orders", middlewares.RequirePermission(userService, "list_order"), orderCtrl.ListProducts)
		api.GET("/tables/code/:table_code/orders/state", middlewares.RequirePermission(userService, "list_order"), orderCtrl.State)
		api.GET("/tables/code/:table_code/orders/count", middlewares.RequirePermission(userService, "list_order"), orderCtrl.Count)

		payments := api.Group("/payments")
		{
			payments.POST("", middlewares.RequirePermission(userService, "create_payment"), paymentCtrl.Register)
			payments.GET("", middlewares.RequirePermission(userService, "list_payment"), paymentCtrl.Search)
			payments.GET("/:payment_code/orders", middlewares.RequirePermission(userService, "view_payment"), paymentCtrl.ListOrders)
		}

		api.POST("/tables/:table_id/payments/close", middlewares.RequirePermission(userService, "change_payment"), paymentCtrl.Close)
		api.GET("/tables/code/:table_code/payments/pending", middlewares.RequirePermission(userService, "view_payment"), paymentCtrl.Pending)
	}

	return r
}
