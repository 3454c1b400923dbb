package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"gymora/api/internal/aigen"
	"gymora/api/internal/config"
	"gymora/api/internal/middleware"
	"gymora/api/internal/models"
	"gymora/api/internal/repository"
	"gymora/api/internal/service"
)

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	authService *service.AuthService
	attendance  *service.AttendanceService
	packageSvc  *service.PackageService
	statsSvc    *service.StatsService
	aiService   *service.AIService
	db          *pgxpool.Pool
	cache       *redis.Client
	users       *repository.UserRepository
	sessions    *repository.SessionRepository
	packages    *repository.PackageRepository
	workouts    *repository.WorkoutRepository
	nutrition   *repository.NutritionRepository
	progress    *repository.ProgressRepository
	chat        *repository.ChatRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) (HandlerSet, error) {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	workoutRepo := repository.NewWorkoutRepository(db)
	nutritionRepo := repository.NewNutritionRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	chatRepo := repository.NewChatRepository(db)

	auth := service.NewAuthService(userRepo, sessionRepo, cfg, log)
	attendance, err := service.NewAttendanceService(db, attendanceRepo, packageRepo, cfg, log)
	if err != nil {
		return HandlerSet{}, err
	}
	packageSvc := service.NewPackageService(packageRepo, log)
	statsSvc := service.NewStatsService(userRepo, attendanceRepo, workoutRepo, cache, attendance.Location(), log)
	aiSvc := service.NewAIService(aigen.NewProvider(cfg.AI), progressRepo, log)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		authService: auth,
		attendance:  attendance,
		packageSvc:  packageSvc,
		statsSvc:    statsSvc,
		aiService:   aiSvc,
		db:          db,
		cache:       cache,
		users:       userRepo,
		sessions:    sessionRepo,
		packages:    packageRepo,
		workouts:    workoutRepo,
		nutrition:   nutritionRepo,
		progress:    progressRepo,
		chat:        chatRepo,
	}, nil
}

// AttendanceService exposes the shared attendance service so background jobs
// reuse the same instance (and timezone) as the handlers.
func (h HandlerSet) AttendanceService() *service.AttendanceService {
	return h.attendance
}

// SessionRepository exposes the session store for the nightly purge job.
func (h HandlerSet) SessionRepository() *repository.SessionRepository {
	return h.sessions
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)
	auth.POST("/password/forgot", h.ForgotPassword)
	auth.POST("/password/reset", h.ResetPassword)

	authed := v1.Group("")
	authed.Use(middleware.Auth(h.cfg, h.authService))

	authed.GET("/auth/me", h.Me)
	authed.POST("/auth/password/change", h.ChangePassword)
	authed.GET("/users/me", h.Me)
	authed.PATCH("/users/me", h.UpdateProfile)

	authed.POST("/attendance/check-in", h.CheckIn)
	authed.POST("/attendance/check-out", h.CheckOut)
	authed.GET("/attendance/summary", h.AttendanceSummary)
	authed.GET("/attendance/history", h.AttendanceHistory)

	authed.GET("/plans", h.ListPlans)
	authed.POST("/purchases", h.PurchasePackage)
	authed.GET("/purchases", h.ListPurchases)

	authed.GET("/workouts", h.ListWorkouts)
	authed.GET("/workouts/:id", h.GetWorkout)
	authed.PATCH("/workouts/:id/status", h.UpdateWorkoutStatus)

	authed.POST("/nutrition", h.CreateNutritionLog)
	authed.GET("/nutrition", h.ListNutritionLogs)
	authed.DELETE("/nutrition/:id", h.DeleteNutritionLog)

	authed.POST("/progress", h.CreateProgressEntry)
	authed.GET("/progress", h.ListProgressEntries)

	authed.GET("/chat/:userId", h.ListConversation)
	authed.POST("/chat/:userId", h.SendMessage)

	ai := authed.Group("/ai")
	ai.POST("/chat", h.AIChat)
	ai.POST("/workout", h.AIWorkout)
	ai.POST("/analysis", h.AIAnalysis)

	trainer := authed.Group("/trainer")
	trainer.Use(middleware.RequireRoles(models.UserRoleTrainer, models.UserRoleAdmin))
	trainer.GET("/stats", h.TrainerStats)
	trainer.GET("/members", h.ListTrainerMembers)
	trainer.POST("/workouts", h.AssignWorkout)
	trainer.GET("/members/:userId/attendance", h.MemberAttendanceHistory)

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRoles(models.UserRoleAdmin))
	admin.GET("/users", h.AdminListUsers)
	admin.PATCH("/users/:id/status", h.AdminUpdateUserStatus)
	admin.PATCH("/users/:id/trainer", h.AdminAssignTrainer)
	admin.POST("/plans", h.AdminCreatePlan)
	admin.PATCH("/plans/:id", h.AdminUpdatePlan)
}

func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get(middleware.CurrentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	return user, ok
}
