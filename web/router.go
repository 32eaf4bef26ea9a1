package web

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mistertach/tennis-ladder/controller"
	"github.com/unrolled/render"
)

func getRouter(ctrl controller.C, render *render.Render, admins map[string]string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		// Set a timeout value on the request context (ctx), that will signal
		// through ctx.Done() that the request has timed out and further
		// processing should be stopped.
		r.Use(middleware.Timeout(10 * time.Second))

		r.Get("/", rootHandler(ctrl, render))

		r.Route("/leagues", func(r chi.Router) {
			r.Get("/", listLeaguesHandler(ctrl, render))
			r.Get("/{leagueID:\\d+}", getLeagueHandler(ctrl, render))

			r.Route("/{leagueID:\\d+}/weeks/{week:\\d+}", func(r chi.Router) {
				r.Get("/standings", standingsHandler(ctrl, render))
				r.Get("/complete", weekCompleteHandler(ctrl, render))
				r.Post("/auto-generate", autoGenerateHandler(ctrl, render))
			})
		})

		r.Put("/scores/{tierID:\\d+}/{userID}/{week:\\d+}", updateScoreHandler(ctrl, render))
		r.Post("/matches/{matchID:\\d+}/report", reportMatchHandler(ctrl, render))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.BasicAuth("tennis-ladder", admins))
		r.Use(middleware.Timeout(30 * time.Second)) // Set a longer timeout for /admin actions

		r.Route("/leagues", func(r chi.Router) {
			r.Post("/", createLeagueHandler(ctrl, render))
			r.Post("/import", importLeagueHandler(ctrl, render))

			r.Route("/{leagueID:\\d+}", func(r chi.Router) {
				r.Delete("/", deleteLeagueHandler(ctrl, render))
				r.Post("/generate", generateHandler(ctrl, render))
				r.Post("/regenerate", regenerateHandler(ctrl, render))
				r.Post("/status", leagueStatusHandler(ctrl, render))
				r.Post("/weeks/{week:\\d+}/matches", scheduleMatchesHandler(ctrl, render))

				r.Route("/tiers/{tierID:\\d+}", func(r chi.Router) {
					r.Post("/swap", swapMemberHandler(ctrl, render))
					r.Post("/move", moveRankHandler(ctrl, render))
					r.Put("/schedule", tierScheduleHandler(ctrl, render))
				})
			})
		})
	})

	return r
}
