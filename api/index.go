package handler

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"corporate-backend-refactor/pkg/blob"
	"corporate-backend-refactor/pkg/config"
	"corporate-backend-refactor/pkg/database"
	"corporate-backend-refactor/pkg/handlers"
	customMiddleware "corporate-backend-refactor/pkg/middleware"
	"corporate-backend-refactor/pkg/models"
	"corporate-backend-refactor/pkg/services"
	"corporate-backend-refactor/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var (
	blobStore blob.Store
	blobOnce  sync.Once

	listPool *services.Pool
	poolOnce sync.Once
)

// getBlobStore 对象存储按驱动只初始化一次
func getBlobStore(cfg *config.Config) blob.Store {
	blobOnce.Do(func() {
		store, err := blob.New(context.Background(), blob.Config{
			Driver:    blob.Driver(cfg.BlobDriver),
			Dir:       cfg.BlobDir,
			Bucket:    cfg.BlobS3Bucket,
			Region:    cfg.BlobS3Region,
			Endpoint:  cfg.BlobS3Endpoint,
			PathStyle: cfg.BlobS3PathStyle,
		})
		if err != nil {
			fmt.Printf("⚠️  Blob store init failed (%v), falling back to memory\n", err)
			store, _ = blob.New(context.Background(), blob.Config{Driver: blob.DriverMemory})
		}
		blobStore = store
	})
	return blobStore
}

func getListPool() *services.Pool {
	poolOnce.Do(func() {
		listPool = services.NewPool(8)
	})
	return listPool
}

// Handler 是Vercel函数的入口点
// 这个函数实现了"单体路由模式"，将所有API端点集中在一个Chi路由器中管理
func Handler(w http.ResponseWriter, r *http.Request) {
	// 加载配置
	cfg := config.GetCached()

	// 验证配置
	if err := cfg.Validate(); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Configuration error: "+err.Error())
		return
	}

	// 获取数据库连接（单例复用）
	db := database.GetDatabase(database.DatabaseConfig{
		UseLocalDB:  cfg.UseLocalDB,
		PostgresDSN: cfg.PostgresDSN,
		Debug:       cfg.Debug,
	})

	// 将请求传递给Chi路由器处理
	NewRouter(cfg, db).ServeHTTP(w, r)
}

// NewRouter 组装完整路由器；Vercel入口与独立服务器共用
func NewRouter(cfg *config.Config, db database.DatabaseInterface) *chi.Mux {
	router := chi.NewRouter()
	setupMiddleware(router, cfg)
	setupRoutes(router, cfg, db)
	return router
}

// setupMiddleware 设置全局中间件
func setupMiddleware(router *chi.Mux, cfg *config.Config) {
	// 基础中间件
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	// Normalize path and restore scheme/host before logging and routing
	router.Use(customMiddleware.Normalize())
	router.Use(customMiddleware.Logger(cfg))
	router.Use(customMiddleware.Recovery(cfg))

	// CORS中间件
	router.Use(customMiddleware.CORS(cfg))

	// 超时中间件（Vercel函数有时间限制）
	router.Use(middleware.Timeout(25 * time.Second)) // 留5秒缓冲

	// 压缩中间件
	router.Use(middleware.Compress(5))

	// 图片上传走原始字节，其余请求体限制在4MB内
	router.Use(customMiddleware.MaxBodySize(4 << 20))

	// 开发环境额外中间件
	if cfg.IsDevelopment() {
		router.Use(middleware.Heartbeat("/ping"))
	}
}

// setupRoutes 设置所有API路由
func setupRoutes(router *chi.Mux, cfg *config.Config, db database.DatabaseInterface) {
	pool := getListPool()

	// 服务层：所有权与归属检查都在这里，角色门禁在路由层
	identityService := services.NewIdentityService(db)
	corporationService := services.NewCorporationService(db)
	officeService := services.NewOfficeService(db)
	departmentService := services.NewDepartmentService(db)
	positionService := services.NewPositionService(db)
	employeeService := services.NewEmployeeService(db)
	addressService := services.NewAddressService(db)
	mediaService := services.NewMediaService(db, getBlobStore(cfg))

	authHandler := handlers.NewAuthHandler(cfg, identityService)
	identitiesHandler := handlers.NewIdentitiesHandler(cfg, identityService, pool)
	corporationsHandler := handlers.NewCorporationsHandler(cfg, corporationService, pool)
	officesHandler := handlers.NewOfficesHandler(cfg, officeService, pool)
	departmentsHandler := handlers.NewDepartmentsHandler(cfg, departmentService, pool)
	positionsHandler := handlers.NewPositionsHandler(cfg, positionService, pool)
	employeesHandler := handlers.NewEmployeesHandler(cfg, employeeService, pool)
	addressesHandler := handlers.NewAddressesHandler(cfg, addressService)
	mediaHandler := handlers.NewMediaHandler(cfg, mediaService)

	// 健康检查端点
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if err := db.HealthCheck(); err != nil {
			status = "degraded: " + err.Error()
		}
		utils.WriteSuccessResponse(w, map[string]interface{}{
			"service": "corporate-backend",
			"status":  status,
		})
	})

	// 数据库连接池状态端点（调试用）
	if cfg.IsDevelopment() {
		router.Get("/debug/db-pool", func(w http.ResponseWriter, r *http.Request) {
			utils.WriteSuccessResponse(w, database.GetConnectionStats())
		})
	}

	authn := customMiddleware.AuthMiddleware(cfg)
	workerOrDirector := customMiddleware.RequireRoles(models.AuthorityWorker, models.AuthorityDirector)
	directorOnly := customMiddleware.RequireRoles(models.AuthorityDirector)
	adminOnly := customMiddleware.RequireRoles(models.AuthorityAdmin)

	// API路由组
	router.Route("/api", func(r chi.Router) {
		// 认证路由（公开）
		r.Route("/auth", func(r chi.Router) {
			r.Use(customMiddleware.ContentTypeJSON)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// 注册是公开的；其余身份操作需要认证
		r.With(customMiddleware.ContentTypeJSON).Post("/identities", identitiesHandler.Create)

		// 公开只读路由
		r.Get("/corporations", corporationsHandler.List)
		r.Get("/corporations/async", corporationsHandler.ListAsync)
		r.Get("/corporations/{corporationId}", corporationsHandler.Get)
		r.Get("/corporations/{corporationId}/offices", officesHandler.ListByCorporation)
		r.Get("/offices", officesHandler.List)
		r.Get("/offices/async", officesHandler.ListAsync)
		r.Get("/offices/{corporationId}/{addressId}", officesHandler.Get)
		r.Get("/images/{imageRef}", mediaHandler.FetchImage)

		// 需要认证的路由
		r.Group(func(r chi.Router) {
			r.Use(authn)

			// 身份路由：本人门禁在服务层
			r.With(adminOnly).Get("/identities", identitiesHandler.List)
			r.With(adminOnly).Get("/identities/async", identitiesHandler.ListAsync)
			r.Get("/identities/{identityId}", identitiesHandler.Get)
			r.With(customMiddleware.ContentTypeJSON).Put("/identities/{identityId}", identitiesHandler.Update)
			r.Delete("/identities/{identityId}", identitiesHandler.Delete)
			r.With(customMiddleware.ContentTypeJSON).Put("/identities/{identityId}/password", identitiesHandler.ChangePassword)
			r.With(adminOnly, customMiddleware.ContentTypeJSON).Put("/identities/{identityId}/enabled", identitiesHandler.EnableDisable)
			r.Put("/identities/{identityId}/make-user", identitiesHandler.MakeUser)
			r.Put("/identities/{identityId}/make-worker", identitiesHandler.MakeWorker)
			r.Put("/identities/{identityId}/make-director", identitiesHandler.MakeDirector)
			r.Put("/identities/{identityId}/image", mediaHandler.UploadIdentityImage)
			r.Delete("/identities/{identityId}/image", mediaHandler.DeleteIdentityImage)

			// 公司头像走原始字节，放在JSON校验组外面
			r.With(directorOnly).Put("/corporations/{corporationId}/image", mediaHandler.UploadCorporationImage)
			r.With(directorOnly).Delete("/corporations/{corporationId}/image", mediaHandler.DeleteCorporationImage)

			// 公司写路由（DIRECTOR）
			r.Group(func(r chi.Router) {
				r.Use(directorOnly)
				r.Use(customMiddleware.ContentTypeJSON)
				r.Post("/corporations", corporationsHandler.Create)
				r.Put("/corporations/{corporationId}", corporationsHandler.Update)
				r.Delete("/corporations/{corporationId}", corporationsHandler.Delete)
				r.Put("/corporations/{corporationId}/directors", corporationsHandler.AddDirector)

				r.Post("/offices", officesHandler.Create)
				r.Delete("/offices/{corporationId}/{addressId}", officesHandler.Delete)

				r.Post("/departments", departmentsHandler.Create)
				r.Put("/departments/{departmentId}", departmentsHandler.Update)
				r.Put("/departments/{departmentId}/offices", departmentsHandler.SetOffices)
				r.Delete("/departments/{departmentId}", departmentsHandler.Delete)

				r.Post("/positions", positionsHandler.Create)
				r.Put("/positions/{positionId}", positionsHandler.Update)
				r.Delete("/positions/{positionId}", positionsHandler.Delete)
			})

			// 组织结构读路由与员工全部操作（WORKER或DIRECTOR）
			r.Group(func(r chi.Router) {
				r.Use(workerOrDirector)
				r.Use(customMiddleware.ContentTypeJSON)
				r.Get("/departments/{departmentId}", departmentsHandler.Get)
				r.Get("/departments/{departmentId}/positions", positionsHandler.ListByDepartment)
				r.Get("/corporations/{corporationId}/departments", departmentsHandler.ListByCorporation)
				r.Get("/corporations/{corporationId}/departments/async", departmentsHandler.ListByCorporationAsync)
				r.Get("/corporations/{corporationId}/positions", positionsHandler.ListByCorporation)
				r.Get("/corporations/{corporationId}/positions/async", positionsHandler.ListByCorporationAsync)
				r.Get("/positions/{positionId}", positionsHandler.Get)

				r.Get("/employees/{employeeId}", employeesHandler.Get)
				r.Get("/offices/{corporationId}/{addressId}/employees", employeesHandler.ListByOffice)
				r.Get("/corporations/{corporationId}/employees", employeesHandler.ListByCorporation)
				r.Get("/corporations/{corporationId}/employees/async", employeesHandler.ListByCorporationAsync)
				r.Post("/employees", employeesHandler.Create)
				r.Put("/employees/{employeeId}", employeesHandler.Update)
				r.Post("/employees/transfer", employeesHandler.Transfer)
				r.Delete("/employees/{employeeId}", employeesHandler.Delete)
			})

			// 地址路由（认证即可）
			r.Route("/addresses", func(r chi.Router) {
				r.Use(customMiddleware.ContentTypeJSON)
				r.Get("/", addressesHandler.List)
				r.Post("/", addressesHandler.Create)
				r.Get("/{addressId}", addressesHandler.Get)
				r.Put("/{addressId}", addressesHandler.Update)
				r.Delete("/{addressId}", addressesHandler.Delete)
			})
		})
	})

	// 404处理
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteNotFoundResponse(w, fmt.Sprintf("Route not found: %s %s", r.Method, r.URL.Path))
	})

	// 405处理
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorResponseWithCode(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			fmt.Sprintf("Method %s not allowed for %s", r.Method, r.URL.Path), "")
	})
}
