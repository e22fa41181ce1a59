package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/clmgranada/intensivo-be/internal/api/handlers"
	"github.com/clmgranada/intensivo-be/internal/auth"
	"github.com/clmgranada/intensivo-be/internal/chat"
	"github.com/clmgranada/intensivo-be/internal/config"
	"github.com/clmgranada/intensivo-be/internal/services"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config     *config.Config
	Tokens     *auth.TokenService
	Hub        *chat.Hub
	Users      services.UserServiceProvider
	Attendance services.AttendanceServiceProvider
	Forum      services.ForumServiceProvider
	Chats      services.ChatServiceProvider
	Resources  services.ResourceServiceProvider
}

// NewRouter creates and configures the Chi router.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.Users, deps.Tokens)
	attendanceHandler := handlers.NewAttendanceHandler(deps.Attendance)
	forumHandler := handlers.NewForumHandler(deps.Forum, deps.Hub)
	chatHandler := handlers.NewChatHandler(deps.Hub, deps.Chats, deps.Tokens, deps.Users)
	resourceHandler := handlers.NewResourceHandler(deps.Resources)

	protect := auth.Middleware(deps.Tokens, deps.Users)

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(deps.Config.RateLimitMax, deps.Config.RateLimitWindow))

		r.Get("/", apiIndex)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(protect)
				r.Get("/me", authHandler.GetMe)
				r.Put("/profile", authHandler.UpdateProfile)
				r.Put("/change-password", authHandler.ChangePassword)
			})
		})

		r.Route("/forum", func(r chi.Router) {
			r.Use(protect)
			r.Get("/posts", forumHandler.ListPosts)
			r.Post("/posts", forumHandler.CreatePost)
			r.Get("/posts/{id}", forumHandler.GetPost)
			r.Post("/posts/{id}/replies", forumHandler.CreateReply)
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Use(protect)
			r.Get("/", attendanceHandler.List)
			r.Post("/check-in", attendanceHandler.CheckIn)
			r.Put("/check-out", attendanceHandler.CheckOut)
		})

		r.Route("/resources", func(r chi.Router) {
			r.Use(protect)
			r.Get("/", resourceHandler.List)
			r.With(auth.RequireRole("admin")).Post("/", resourceHandler.Create)
		})

		r.Route("/chat", func(r chi.Router) {
			// The websocket authenticates via query token in the handler.
			r.Get("/ws", chatHandler.Serve)
			r.With(protect).Get("/history", chatHandler.History)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(protect)
			r.Use(auth.RequireRole("admin"))
			r.Get("/users", authHandler.ListUsers)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Route not found",
		})
	})

	return r
}

// apiIndex describes the API surface, mirroring what the landing page
// links to.
func apiIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "Intensivo 3 API",
		"version": "1.0.0",
		"endpoints": map[string]any{
			"auth": map[string]string{
				"register":       "POST /api/auth/register",
				"login":          "POST /api/auth/login",
				"me":             "GET /api/auth/me (protected)",
				"updateProfile":  "PUT /api/auth/profile (protected)",
				"changePassword": "PUT /api/auth/change-password (protected)",
			},
			"dashboard": map[string]string{
				"forum":      "GET /api/forum/posts (protected)",
				"attendance": "GET /api/attendance (protected)",
				"resources":  "GET /api/resources (protected)",
				"chat":       "GET /api/chat/ws?token=... (websocket)",
			},
		},
	})
}
