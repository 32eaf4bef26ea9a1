package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mistertach/tennis-ladder/controller"
	"github.com/mistertach/tennis-ladder/model"
	"github.com/unrolled/render"
)

type statusUpdate struct {
	Status string `json:"status"`
}

type swapRequest struct {
	OldUserID string `json:"oldUserId"`
	NewUserID string `json:"newUserId"`
}

type moveRequest struct {
	UserID    string `json:"userId"`
	Direction string `json:"direction"`
}

func createLeagueHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var nl model.NewLeague
		if err := decodeBody(r, &nl); err != nil {
			renderError(render, w, err)
			return
		}

		l, err := ctrl.CreateLeague(r.Context(), nl)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusCreated, l)
	}
}

func importLeagueHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Parse the multipart form. 5 << 20 specifices a maximum upload of 5 MB files.
		if err := r.ParseMultipartForm(5 << 20); err != nil {
			renderError(render, w, fmt.Errorf("%w: %v", controller.ErrInvalidInput, err))
			return
		}

		file, handler, err := r.FormFile("roster-file")
		if err != nil {
			renderError(render, w, fmt.Errorf("%w: %v", controller.ErrInvalidInput, err))
			return
		}
		defer file.Close()

		if handler.Header.Get("Content-Type") != "text/csv" {
			err := fmt.Errorf("%w: only CSV files are supported, got %s", controller.ErrInvalidInput, handler.Header.Get("Content-Type"))
			renderError(render, w, err)
			return
		}

		nl, err := newLeagueFromForm(r)
		if err != nil {
			renderError(render, w, err)
			return
		}

		l, err := ctrl.CreateLeagueFromCSV(r.Context(), nl, file)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusCreated, l)
	}
}

func newLeagueFromForm(r *http.Request) (model.NewLeague, error) {
	nl := model.NewLeague{Title: r.FormValue("title")}

	if d := r.FormValue("startDate"); d != "" {
		t, err := time.Parse(time.DateOnly, d)
		if err != nil {
			return nl, fmt.Errorf("%w: unable to parse start date, expected format is YYYY-MM-DD: %v", controller.ErrInvalidInput, err)
		}
		nl.StartDate = t
	}

	var err error
	if nl.DurationWeeks, err = strconv.Atoi(r.FormValue("durationWeeks")); err != nil {
		return nl, fmt.Errorf("%w: error parsing durationWeeks: %v", controller.ErrInvalidInput, err)
	}
	if nl.GamesPerMatch, err = strconv.Atoi(r.FormValue("gamesPerMatch")); err != nil {
		return nl, fmt.Errorf("%w: error parsing gamesPerMatch: %v", controller.ErrInvalidInput, err)
	}
	return nl, nil
}

func deleteLeagueHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int32Param(r, "leagueID")
		if err != nil {
			renderError(render, w, err)
			return
		}

		if err := ctrl.DeleteLeague(r.Context(), id); err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, model.Succeeded())
	}
}

func generateHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int32Param(r, "leagueID")
		if err != nil {
			renderError(render, w, err)
			return
		}

		var opts model.GenerateOptions
		if err := decodeBody(r, &opts); err != nil {
			renderError(render, w, err)
			return
		}

		res, err := ctrl.GenerateNextWeek(r.Context(), id, opts)
		renderResult(render, w, res, err)
	}
}

func regenerateHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int32Param(r, "leagueID")
		if err != nil {
			renderError(render, w, err)
			return
		}

		res, err := ctrl.RegenerateCurrentWeek(r.Context(), id)
		renderResult(render, w, res, err)
	}
}

func leagueStatusHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int32Param(r, "leagueID")
		if err != nil {
			renderError(render, w, err)
			return
		}

		var body statusUpdate
		if err := decodeBody(r, &body); err != nil {
			renderError(render, w, err)
			return
		}

		if err := ctrl.UpdateLeagueStatus(r.Context(), id, model.LeagueStatus(body.Status)); err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, model.Succeeded())
	}
}

func scheduleMatchesHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, week, err := leagueWeekParams(r)
		if err != nil {
			renderError(render, w, err)
			return
		}

		created, err := ctrl.ScheduleMatches(r.Context(), id, week)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]int{"created": created})
	}
}

func swapMemberHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leagueID, tierID, err := leagueTierParams(r)
		if err != nil {
			renderError(render, w, err)
			return
		}

		var body swapRequest
		if err := decodeBody(r, &body); err != nil {
			renderError(render, w, err)
			return
		}

		res, err := ctrl.SwapMember(r.Context(), leagueID, tierID, body.OldUserID, body.NewUserID)
		renderResult(render, w, res, err)
	}
}

func moveRankHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leagueID, tierID, err := leagueTierParams(r)
		if err != nil {
			renderError(render, w, err)
			return
		}

		var body moveRequest
		if err := decodeBody(r, &body); err != nil {
			renderError(render, w, err)
			return
		}

		dir := model.ParseDirection(body.Direction)
		res, err := ctrl.MoveRank(r.Context(), leagueID, tierID, body.UserID, dir)
		renderResult(render, w, res, err)
	}
}

func tierScheduleHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leagueID, tierID, err := leagueTierParams(r)
		if err != nil {
			renderError(render, w, err)
			return
		}

		var s model.Schedule
		if err := decodeBody(r, &s); err != nil {
			renderError(render, w, err)
			return
		}

		if err := ctrl.UpdateTierSchedule(r.Context(), leagueID, tierID, s); err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, model.Succeeded())
	}
}

func leagueTierParams(r *http.Request) (int32, int32, error) {
	leagueID, err := int32Param(r, "leagueID")
	if err != nil {
		return 0, 0, err
	}
	tierID, err := int32Param(r, "tierID")
	if err != nil {
		return 0, 0, err
	}
	return leagueID, tierID, nil
}
