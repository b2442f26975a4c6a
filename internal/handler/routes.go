package handler

import (
	"github.com/gofiber/fiber/v2"
)

// Routes bundles the handlers and the middleware they are mounted behind.
type Routes struct {
	Auth  *AuthHandler
	Users *UserHandler
	Learn *LearnHandler

	Protected   fiber.Handler
	SubmitLimit fiber.Handler
	IDParam     func(param string) fiber.Handler
}

// Register mounts every API route under api, which is normally app.Group("/api").
func (r Routes) Register(api fiber.Router) {
	authGroup := api.Group("/auth")
	authGroup.Get("/google/login", r.Auth.GoogleLogin)
	authGroup.Get("/google/callback", r.Auth.GoogleCallback)
	authGroup.Post("/refresh", r.Auth.RefreshToken)
	authGroup.Post("/logout", r.Protected, r.Auth.Logout)

	users := api.Group("/users", r.Protected)
	users.Get("/me", r.Users.GetMyProfile)
	users.Get("/me/submissions", r.Users.GetMySubmissions)

	learn := api.Group("/learn", r.Protected)
	id := r.IDParam("id")

	learn.Get("/milestones", r.Learn.ListMilestones)
	learn.Get("/milestones/:id/learn", id, r.Learn.GetLearnContent)
	learn.Get("/milestones/:id/questions", id, r.Learn.ListCodeQuestions)
	learn.Get("/milestones/:id/mcq-questions", id, r.Learn.ListMCQQuestions)

	learn.Post("/questions/:id/submit", id, r.SubmitLimit, r.Learn.SubmitCodeAnswer)
	learn.Post("/mcq-questions/:id/submit", id, r.SubmitLimit, r.Learn.SubmitMCQAnswer)

	learn.Get("/progress", r.Learn.GetProgress)
	learn.Post("/progress/update-milestone", r.Learn.UpdateMilestone)
	learn.Post("/progress/mark", r.Learn.MarkProgress)

	learn.Get("/personalized-exercises", r.Learn.ListExercises)
	learn.Post("/personalized-exercises", r.SubmitLimit, r.Learn.CreateExercise)
	learn.Post("/personalized-exercises/:id/submit", id, r.SubmitLimit, r.Learn.SubmitExercise)
}
