// handlers/routes.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"quiz-duel-server/middleware"
	"quiz-duel-server/services"
)

// API exposes the small HTTP surface next to the websocket: health,
// player lookups, live match visibility and the admin question import.
type API struct {
	Players   *services.PlayerService
	Questions *services.QuestionService
	Registry  *services.SessionRegistry
	Queue     *services.MatchmakingQueue
}

func SetupRoutes(app *fiber.App, api *API, gateway *Gateway) {
	app.Get("/health", api.Health)

	// Websocket endpoint; everything match-related flows through here
	app.Use("/ws", UpgradeRequired)
	app.Get("/ws", gateway.Handler())

	// 🔐 REST surface is service-to-service only, behind the shared token
	secured := app.Group("/s", middleware.GatewayAuthMiddleware())
	secured.Get("/players/:id", api.GetPlayer)
	secured.Get("/leaderboard", api.Leaderboard)
	secured.Get("/matches", api.ListMatches)
	secured.Get("/matches/:id", api.GetMatch)
	secured.Post("/admin/questions/import", api.ImportQuestions)
	secured.Get("/admin/questions/count", api.CountQuestions)
}

func (a *API) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":        "ok",
		"live_matches":  a.Registry.Count(),
		"queue_waiting": a.Queue.Size(),
	})
}

func (a *API) GetPlayer(c *fiber.Ctx) error {
	player, err := a.Players.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "player not found",
		})
	}
	return c.JSON(player)
}

func (a *API) Leaderboard(c *fiber.Ctx) error {
	players, err := a.Players.Leaderboard(c.QueryInt("limit", 50))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load leaderboard",
		})
	}
	return c.JSON(fiber.Map{"players": players})
}

func (a *API) ListMatches(c *fiber.Ctx) error {
	sessions := a.Registry.All()
	out := make([]fiber.Map, 0, len(sessions))
	for _, s := range sessions {
		p1, p2 := s.PlayerIDs()
		out = append(out, fiber.Map{
			"matchId": s.ID,
			"status":  s.Status(),
			"player1": p1,
			"player2": p2,
		})
	}
	return c.JSON(fiber.Map{"matches": out})
}

func (a *API) GetMatch(c *fiber.Ctx) error {
	session, ok := a.Registry.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "match not found",
		})
	}
	state, err := session.Snapshot()
	if err != nil {
		return c.Status(fiber.StatusGone).JSON(fiber.Map{
			"error": "match already torn down",
		})
	}
	return c.JSON(state)
}

type importRequest struct {
	Subject  string `json:"subject"`
	Language string `json:"language"`
	Grade    int    `json:"grade"`
}

func (a *API) ImportQuestions(c *fiber.Ctx) error {
	var req importRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Subject == "" || req.Grade < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "subject and grade are required",
		})
	}

	count, err := a.Questions.ImportPack(c.Context(), req.Subject, req.Language, req.Grade)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"imported": count})
}

func (a *API) CountQuestions(c *fiber.Ctx) error {
	n, err := a.Questions.Count(c.Query("language", "en"), c.QueryInt("grade", 1))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "count failed",
		})
	}
	return c.JSON(fiber.Map{"count": n})
}
