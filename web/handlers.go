package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mistertach/tennis-ladder/controller"
	"github.com/mistertach/tennis-ladder/db"
	"github.com/mistertach/tennis-ladder/model"
	"github.com/unrolled/render"
)

// Score updates accepted by updateScoreHandler.
const (
	updateGamesWon   = "gamesWon"
	updateSubNeeded  = "subNeeded"
	updateNoShow     = "noShow"
	updateSubDetails = "subDetails"
)

type scoreUpdate struct {
	Update     string `json:"update"`
	GamesWon   int    `json:"gamesWon"`
	SubNeeded  bool   `json:"subNeeded"`
	NoShow     bool   `json:"noShow"`
	SubName    string `json:"subName"`
	SubContact string `json:"subContact"`
}

type matchReport struct {
	Score1 int `json:"score1"`
	Score2 int `json:"score2"`
}

func rootHandler(_ controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Text(w, http.StatusOK, "tennis ladder")
	}
}

func listLeaguesHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leagues, err := ctrl.ListLeagues(r.Context())
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, leagues)
	}
}

func getLeagueHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int32Param(r, "leagueID")
		if err != nil {
			renderError(render, w, err)
			return
		}

		week := 0
		if q := r.URL.Query().Get("week"); q != "" {
			week, err = strconv.Atoi(q)
			if err != nil {
				renderError(render, w, fmt.Errorf("%w: error parsing week: %v", controller.ErrInvalidInput, err))
				return
			}
		}

		l, err := ctrl.GetLeague(r.Context(), id, week)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, l)
	}
}

func standingsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, week, err := leagueWeekParams(r)
		if err != nil {
			renderError(render, w, err)
			return
		}

		standings, err := ctrl.GetStandings(r.Context(), id, week)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, standings)
	}
}

func weekCompleteHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, week, err := leagueWeekParams(r)
		if err != nil {
			renderError(render, w, err)
			return
		}

		complete, err := ctrl.IsWeekComplete(r.Context(), id, week)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]any{
			"week":     week,
			"complete": complete,
		})
	}
}

func autoGenerateHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, week, err := leagueWeekParams(r)
		if err != nil {
			renderError(render, w, err)
			return
		}

		res, err := ctrl.TriggerAutoGeneration(r.Context(), id, week)
		renderResult(render, w, res, err)
	}
}

func updateScoreHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tierID, err := int32Param(r, "tierID")
		if err != nil {
			renderError(render, w, err)
			return
		}
		week, err := intParam(r, "week")
		if err != nil {
			renderError(render, w, err)
			return
		}
		key := model.ScoreKey{TierID: tierID, UserID: chi.URLParam(r, "userID"), Week: week}

		var body scoreUpdate
		if err := decodeBody(r, &body); err != nil {
			renderError(render, w, err)
			return
		}

		switch body.Update {
		case updateGamesWon:
			err = ctrl.ReportGamesWon(r.Context(), key, body.GamesWon)
		case updateSubNeeded:
			err = ctrl.SetSubNeeded(r.Context(), key, body.SubNeeded)
		case updateNoShow:
			err = ctrl.SetNoShow(r.Context(), key, body.NoShow)
		case updateSubDetails:
			err = ctrl.SetSubDetails(r.Context(), key, body.SubName, body.SubContact)
		default:
			err = fmt.Errorf("%w: unknown update type: %s", controller.ErrInvalidInput, body.Update)
		}
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, model.Succeeded())
	}
}

func reportMatchHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int32Param(r, "matchID")
		if err != nil {
			renderError(render, w, err)
			return
		}

		var body matchReport
		if err := decodeBody(r, &body); err != nil {
			renderError(render, w, err)
			return
		}

		m, err := ctrl.ReportMatch(r.Context(), id, body.Score1, body.Score2)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, m)
	}
}

// renderResult answers 409 when the operation was refused.
func renderResult(render *render.Render, w http.ResponseWriter, res model.Result, err error) {
	if err != nil {
		renderError(render, w, err)
		return
	}
	if !res.Success {
		render.JSON(w, http.StatusConflict, res)
		return
	}
	render.JSON(w, http.StatusOK, res)
}

func renderError(render *render.Render, w http.ResponseWriter, err error) {
	render.JSON(w, errorStatus(err), map[string]string{"error": err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, controller.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrLeagueNotFound),
		errors.Is(err, db.ErrTierNotFound),
		errors.Is(err, db.ErrMemberNotFound),
		errors.Is(err, db.ErrMatchNotFound),
		errors.Is(err, db.ErrPlayerNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody leaves v untouched when the request has no body.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: error parsing request body: %v", controller.ErrInvalidInput, err)
	}
	return nil
}

func leagueWeekParams(r *http.Request) (int32, int, error) {
	id, err := int32Param(r, "leagueID")
	if err != nil {
		return 0, 0, err
	}
	week, err := intParam(r, "week")
	if err != nil {
		return 0, 0, err
	}
	return id, week, nil
}

func int32Param(r *http.Request, name string) (int32, error) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: error parsing %s: %v", controller.ErrInvalidInput, name, err)
	}
	return int32(v), nil
}

func intParam(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("%w: error parsing %s: %v", controller.ErrInvalidInput, name, err)
	}
	return v, nil
}
