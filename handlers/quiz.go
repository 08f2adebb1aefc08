// handlers/quiz.go
package handlers

import (
	"image-quiz-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupQuizRoutes(app *fiber.App, quizService *services.QuizService) {
	// 🔓 All routes are public — the game has no accounts
	app.Get("/game", quizService.GetGame)
	app.Patch("/file-pair", quizService.VoteFilePair)
	app.Post("/game-result", quizService.CreateGameResult)
}
