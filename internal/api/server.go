package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/limbo/habitrpg/internal/service"
)

type Server struct {
	mx             *chi.Mux
	userService    service.UserServiceI
	habitsService  service.HabitsServiceI
	gameService    service.GameServiceI
	profileService service.ProfileServiceI
	jwtService     JWTServiceI
}

type ServicesList struct {
	UserService    service.UserServiceI
	HabitsService  service.HabitsServiceI
	GameService    service.GameServiceI
	ProfileService service.ProfileServiceI
	JwtService     JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:             chi.NewMux(),
		userService:    servicesOptions.UserService,
		habitsService:  servicesOptions.HabitsService,
		gameService:    servicesOptions.GameService,
		profileService: servicesOptions.ProfileService,
		jwtService:     servicesOptions.JwtService,
	}
}

func (s *Server) Run(address string) error {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Route("/habits", func(r chi.Router) {
				r.Get("/", s.GetHabits)
				r.Post("/", s.CreateHabit)
				r.Get("/{id}", s.GetHabit)
				r.Patch("/{id}", s.UpdateHabit)
				r.Delete("/{id}", s.DeleteHabit)
				r.Post("/{id}/restore", s.RestoreHabit)
				r.Delete("/{id}/hard", s.HardDeleteHabit)
				r.Post("/{id}/complete", s.CompleteHabit)
			})
			r.Route("/user", func(r chi.Router) {
				r.Get("/profile", s.GetProfile)
				r.Patch("/profile", s.UpdateProfile)
				r.Get("/stats", s.GetStats)
				r.Delete("/", s.DeleteAccount)
			})
		})
	})
	return http.ListenAndServe(address, s.mx)
}
