package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/mistertach/tennis-ladder/controller"
	"github.com/mistertach/tennis-ladder/controller/mockcontroller"
	"github.com/mistertach/tennis-ladder/db"
	"github.com/mistertach/tennis-ladder/model"
	"github.com/stretchr/testify/mock"
)

var testAdmins = map[string]string{"admin": "pa55word"}

func TestGetLeagueHandler(t *testing.T) {
	ctrl := &mockcontroller.C{}
	ctrl.On("GetLeague", mock.Anything, int32(3), 0).Return(&model.League{ID: 3, Title: "Tuesday"}, nil)
	ctrl.On("GetLeague", mock.Anything, int32(3), 2).Return(&model.League{ID: 3, Title: "Tuesday", CurrentWeek: 4}, nil)
	ctrl.On("GetLeague", mock.Anything, int32(4), 0).Return(nil, fmt.Errorf("error loading: %w", db.ErrLeagueNotFound))

	tests := map[string]struct {
		path   string
		status int
	}{
		"current week": {path: "/leagues/3", status: http.StatusOK},
		"given week":   {path: "/leagues/3?week=2", status: http.StatusOK},
		"bad week":     {path: "/leagues/3?week=two", status: http.StatusBadRequest},
		"not found":    {path: "/leagues/4", status: http.StatusNotFound},
		"bad id":       {path: "/leagues/abc", status: http.StatusNotFound},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			resp := serve(t, ctrl, httptest.NewRequest(http.MethodGet, tc.path, nil))
			defer resp.Body.Close()

			if resp.StatusCode != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, resp.StatusCode)
			}
			if tc.status != http.StatusOK {
				return
			}

			var l model.League
			if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
				t.Fatalf("error decoding league: %v", err)
			}
			if l.ID != 3 || l.Title != "Tuesday" {
				t.Errorf("unexpected league: %+v", l)
			}
		})
	}
}

func TestAutoGenerateHandler(t *testing.T) {
	tests := map[string]struct {
		res    model.Result
		err    error
		status int
	}{
		"generated":      {res: model.Succeeded(), status: http.StatusOK},
		"refused":        {res: model.Rejected(controller.ReasonAlreadyGenerated), status: http.StatusConflict},
		"missing league": {err: db.ErrLeagueNotFound, status: http.StatusNotFound},
		"db failure":     {err: errors.New("connection reset"), status: http.StatusInternalServerError},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := &mockcontroller.C{}
			ctrl.On("TriggerAutoGeneration", mock.Anything, int32(1), 5).Return(tc.res, tc.err)

			resp := serve(t, ctrl, httptest.NewRequest(http.MethodPost, "/leagues/1/weeks/5/auto-generate", nil))
			defer resp.Body.Close()

			if resp.StatusCode != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, resp.StatusCode)
			}
			if tc.err != nil {
				return
			}

			var res model.Result
			if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
				t.Fatalf("error decoding result: %v", err)
			}
			if res != tc.res {
				t.Errorf("expected: %v, got: %v", tc.res, res)
			}
		})
	}
}

func TestWeekCompleteHandler(t *testing.T) {
	ctrl := &mockcontroller.C{}
	ctrl.On("IsWeekComplete", mock.Anything, int32(1), 2).Return(true, nil)

	resp := serve(t, ctrl, httptest.NewRequest(http.MethodGet, "/leagues/1/weeks/2/complete", nil))
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(b), `"complete": true`) {
		t.Errorf("unexpected response %d: %s", resp.StatusCode, b)
	}
}

func TestUpdateScoreHandler(t *testing.T) {
	key := model.ScoreKey{TierID: 7, UserID: "rfederer", Week: 3}

	tests := map[string]struct {
		body   string
		setup  func(ctrl *mockcontroller.C)
		status int
	}{
		"games won": {
			body:   `{"update": "gamesWon", "gamesWon": 11}`,
			setup:  func(ctrl *mockcontroller.C) { ctrl.On("ReportGamesWon", mock.Anything, key, 11).Return(nil) },
			status: http.StatusOK,
		},
		"sub needed": {
			body:   `{"update": "subNeeded", "subNeeded": true}`,
			setup:  func(ctrl *mockcontroller.C) { ctrl.On("SetSubNeeded", mock.Anything, key, true).Return(nil) },
			status: http.StatusOK,
		},
		"no show": {
			body:   `{"update": "noShow", "noShow": true}`,
			setup:  func(ctrl *mockcontroller.C) { ctrl.On("SetNoShow", mock.Anything, key, true).Return(nil) },
			status: http.StatusOK,
		},
		"sub details": {
			body:   `{"update": "subDetails", "subName": "Steffi Graf", "subContact": "steffi@example.com"}`,
			setup:  func(ctrl *mockcontroller.C) { ctrl.On("SetSubDetails", mock.Anything, key, "Steffi Graf", "steffi@example.com").Return(nil) },
			status: http.StatusOK,
		},
		"not a member": {
			body:   `{"update": "gamesWon", "gamesWon": 2}`,
			setup:  func(ctrl *mockcontroller.C) { ctrl.On("ReportGamesWon", mock.Anything, key, 2).Return(db.ErrMemberNotFound) },
			status: http.StatusNotFound,
		},
		"unknown update": {
			body:   `{"update": "aces"}`,
			setup:  func(ctrl *mockcontroller.C) {},
			status: http.StatusBadRequest,
		},
		"bad json": {
			body:   `{"update": `,
			setup:  func(ctrl *mockcontroller.C) {},
			status: http.StatusBadRequest,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := &mockcontroller.C{}
			tc.setup(ctrl)

			req := httptest.NewRequest(http.MethodPut, "/scores/7/rfederer/3", strings.NewReader(tc.body))
			resp := serve(t, ctrl, req)
			defer resp.Body.Close()

			if resp.StatusCode != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, resp.StatusCode)
			}
			ctrl.AssertExpectations(t)
		})
	}
}

func TestReportMatchHandler(t *testing.T) {
	ctrl := &mockcontroller.C{}
	six, two := 6, 2
	reported := &model.Match{ID: 9, ScorePlayer1: &six, ScorePlayer2: &two, Status: model.MATCH_COMPLETED, WinnerID: "rnadal"}
	ctrl.On("ReportMatch", mock.Anything, int32(9), 6, 2).Return(reported, nil)
	ctrl.On("ReportMatch", mock.Anything, int32(9), -1, 2).Return(nil, fmt.Errorf("%w: negative", controller.ErrInvalidInput))

	resp := serve(t, ctrl, httptest.NewRequest(http.MethodPost, "/matches/9/report", strings.NewReader(`{"score1": 6, "score2": 2}`)))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	var m model.Match
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("error decoding match: %v", err)
	}
	if m.WinnerID != "rnadal" || m.Status != model.MATCH_COMPLETED {
		t.Errorf("unexpected match: %+v", m)
	}

	resp = serve(t, ctrl, httptest.NewRequest(http.MethodPost, "/matches/9/report", strings.NewReader(`{"score1": -1, "score2": 2}`)))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestAdmin_requiresAuth(t *testing.T) {
	ctrl := &mockcontroller.C{}

	req := httptest.NewRequest(http.MethodPost, "/admin/leagues/1/regenerate", nil)
	resp := serve(t, ctrl, req)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/leagues/1/regenerate", nil)
	req.SetBasicAuth("admin", "wrong")
	resp = serve(t, ctrl, req)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", resp.StatusCode)
	}
	ctrl.AssertNotCalled(t, "RegenerateCurrentWeek", mock.Anything, mock.Anything)
}

func TestGenerateHandler(t *testing.T) {
	tests := map[string]struct {
		body   string
		opts   model.GenerateOptions
		res    model.Result
		status int
	}{
		"no body":    {body: "", opts: model.GenerateOptions{}, res: model.Succeeded(), status: http.StatusOK},
		"rain delay": {body: `{"rainDelay": true}`, opts: model.GenerateOptions{RainDelay: true}, res: model.Succeeded(), status: http.StatusOK},
		"refused":    {body: `{}`, opts: model.GenerateOptions{}, res: model.Rejected(controller.ReasonAlreadyGenerated), status: http.StatusConflict},
		"forced":     {body: `{"force": true}`, opts: model.GenerateOptions{Force: true}, res: model.Succeeded(), status: http.StatusOK},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := &mockcontroller.C{}
			ctrl.On("GenerateNextWeek", mock.Anything, int32(2), tc.opts).Return(tc.res, nil)

			resp := serve(t, ctrl, adminRequest(http.MethodPost, "/admin/leagues/2/generate", tc.body))
			defer resp.Body.Close()

			if resp.StatusCode != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, resp.StatusCode)
			}
			ctrl.AssertExpectations(t)
		})
	}
}

func TestRegenerateHandler_firstWeek(t *testing.T) {
	ctrl := &mockcontroller.C{}
	ctrl.On("RegenerateCurrentWeek", mock.Anything, int32(2)).Return(model.Rejected(controller.ReasonNoPreviousWeek), nil)

	resp := serve(t, ctrl, adminRequest(http.MethodPost, "/admin/leagues/2/regenerate", ""))
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusConflict || !strings.Contains(string(b), controller.ReasonNoPreviousWeek) {
		t.Errorf("unexpected response %d: %s", resp.StatusCode, b)
	}
}

func TestOverrideHandlers(t *testing.T) {
	ctrl := &mockcontroller.C{}
	ctrl.On("SwapMember", mock.Anything, int32(1), int32(10), "rfederer", "sgraf").Return(model.Succeeded(), nil)
	ctrl.On("MoveRank", mock.Anything, int32(1), int32(10), "rnadal", model.DIRECTION_UP).
		Return(model.Rejected(controller.ReasonMoveOutOfBounds), nil)
	ctrl.On("UpdateTierSchedule", mock.Anything, int32(1), int32(10), model.Schedule{Day: "Tuesday", Time: "19:00", Court: "4"}).Return(nil)
	ctrl.On("UpdateLeagueStatus", mock.Anything, int32(1), model.LeagueStatus("COMPLETED")).Return(nil)
	ctrl.On("ScheduleMatches", mock.Anything, int32(1), 3).Return(12, nil)
	ctrl.On("DeleteLeague", mock.Anything, int32(1)).Return(nil)

	tests := map[string]struct {
		method string
		path   string
		body   string
		status int
	}{
		"swap":     {method: http.MethodPost, path: "/admin/leagues/1/tiers/10/swap", body: `{"oldUserId": "rfederer", "newUserId": "sgraf"}`, status: http.StatusOK},
		"move":     {method: http.MethodPost, path: "/admin/leagues/1/tiers/10/move", body: `{"userId": "rnadal", "direction": "UP"}`, status: http.StatusConflict},
		"schedule": {method: http.MethodPut, path: "/admin/leagues/1/tiers/10/schedule", body: `{"day": "Tuesday", "time": "19:00", "court": "4"}`, status: http.StatusOK},
		"status":   {method: http.MethodPost, path: "/admin/leagues/1/status", body: `{"status": "COMPLETED"}`, status: http.StatusOK},
		"matches":  {method: http.MethodPost, path: "/admin/leagues/1/weeks/3/matches", status: http.StatusOK},
		"delete":   {method: http.MethodDelete, path: "/admin/leagues/1", status: http.StatusOK},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			resp := serve(t, ctrl, adminRequest(tc.method, tc.path, tc.body))
			defer resp.Body.Close()

			if resp.StatusCode != tc.status {
				b, _ := io.ReadAll(resp.Body)
				t.Errorf("expected status %d, got %d: %s", tc.status, resp.StatusCode, b)
			}
		})
	}
	ctrl.AssertExpectations(t)
}

func TestCreateLeagueHandler(t *testing.T) {
	ctrl := &mockcontroller.C{}
	ctrl.On("CreateLeague", mock.Anything, mock.MatchedBy(func(nl model.NewLeague) bool {
		return nl.Title == "Spring" && len(nl.Players) == 4
	})).Return(&model.League{ID: 12, Title: "Spring"}, nil)
	ctrl.On("CreateLeague", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: not enough players", controller.ErrInvalidInput))

	body := `{"title": "Spring", "durationWeeks": 8, "gamesPerMatch": 8, "players": [
		{"name": "Roger Federer"}, {"name": "Rafael Nadal"}, {"name": "Novak Djokovic"}, {"name": "Andy Murray"}]}`
	resp := serve(t, ctrl, adminRequest(http.MethodPost, "/admin/leagues", body))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected status 201, got %d", resp.StatusCode)
	}

	resp = serve(t, ctrl, adminRequest(http.MethodPost, "/admin/leagues", `{"title": "Empty"}`))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestImportLeagueHandler(t *testing.T) {
	tests := map[string]struct {
		contentType string
		fields      map[string]string
		status      int
		contains    string
	}{
		"success": {
			contentType: "text/csv",
			fields:      map[string]string{"title": "Imported", "startDate": "2024-09-03", "durationWeeks": "8", "gamesPerMatch": "6"},
			status:      http.StatusCreated,
		},
		"not a csv": {
			contentType: "application/json",
			fields:      map[string]string{"title": "Imported", "durationWeeks": "8", "gamesPerMatch": "6"},
			status:      http.StatusBadRequest,
			contains:    "only CSV files are supported, got application/json",
		},
		"bad date": {
			contentType: "text/csv",
			fields:      map[string]string{"title": "Imported", "startDate": "Sept 3rd", "durationWeeks": "8", "gamesPerMatch": "6"},
			status:      http.StatusBadRequest,
			contains:    "expected format is YYYY-MM-DD",
		},
		"missing duration": {
			contentType: "text/csv",
			fields:      map[string]string{"title": "Imported", "gamesPerMatch": "6"},
			status:      http.StatusBadRequest,
			contains:    "error parsing durationWeeks",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := &mockcontroller.C{}
			ctrl.On("CreateLeagueFromCSV", mock.Anything, mock.MatchedBy(func(nl model.NewLeague) bool {
				return nl.Title == "Imported" && nl.DurationWeeks == 8 && nl.GamesPerMatch == 6 && nl.StartDate.Day() == 3
			}), mock.Anything).Return(&model.League{ID: 5, Title: "Imported"}, nil)

			resp := serve(t, ctrl, rosterUploadRequest(t, tc.contentType, tc.fields))
			defer resp.Body.Close()

			b, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("error reading response body: %v", err)
			}
			if resp.StatusCode != tc.status {
				t.Errorf("expected status %d, got %d: %s", tc.status, resp.StatusCode, b)
			}
			if !strings.Contains(string(b), tc.contains) {
				t.Errorf("response body does not contain '%s': %s", tc.contains, b)
			}
		})
	}
}

func TestRouter_timeouts(t *testing.T) {
	var public, admin time.Time
	ctrl := &mockcontroller.C{}
	ctrl.On("IsWeekComplete", mock.Anything, int32(1), 2).Run(func(args mock.Arguments) {
		public, _ = args.Get(0).(context.Context).Deadline()
	}).Return(true, nil)
	ctrl.On("RegenerateCurrentWeek", mock.Anything, int32(1)).Run(func(args mock.Arguments) {
		admin, _ = args.Get(0).(context.Context).Deadline()
	}).Return(model.Succeeded(), nil)

	start := time.Now()
	serve(t, ctrl, httptest.NewRequest(http.MethodGet, "/leagues/1/weeks/2/complete", nil)).Body.Close()
	serve(t, ctrl, adminRequest(http.MethodPost, "/admin/leagues/1/regenerate", "")).Body.Close()

	if public.IsZero() || public.Sub(start) > 10*time.Second {
		t.Errorf("expected public routes to time out within 10s, deadline in %v", public.Sub(start))
	}
	if admin.IsZero() || admin.Sub(start) <= 10*time.Second || admin.Sub(start) > 30*time.Second {
		t.Errorf("expected admin routes to time out after 30s, deadline in %v", admin.Sub(start))
	}
}

func TestErrorStatus(t *testing.T) {
	tests := map[error]int{
		fmt.Errorf("%w: bad", controller.ErrInvalidInput):     http.StatusBadRequest,
		fmt.Errorf("wrapped: %w", db.ErrTierNotFound):         http.StatusNotFound,
		db.ErrMatchNotFound:                                   http.StatusNotFound,
		db.ErrPlayerNotFound:                                  http.StatusNotFound,
		errors.New("canceling statement due to lock timeout"): http.StatusInternalServerError,
	}

	for err, want := range tests {
		if got := errorStatus(err); got != want {
			t.Errorf("%v - expected: %d, got: %d", err, want, got)
		}
	}
}

func serve(t *testing.T, ctrl controller.C, req *http.Request) *http.Response {
	t.Helper()
	rr := httptest.NewRecorder()
	getRouter(ctrl, newRender(), testAdmins).ServeHTTP(rr, req)
	return rr.Result()
}

func adminRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.SetBasicAuth("admin", "pa55word")
	return req
}

func rosterUploadRequest(t *testing.T, contentType string, fields map[string]string) *http.Request {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="roster-file"; filename="roster.csv"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("error creating form field 'roster-file': %v", err)
	}
	part.Write([]byte("Name,Email\n"))
	part.Write([]byte("Roger Federer,roger@example.com\n"))

	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("error writing form field '%s': %v", k, err)
		}
	}
	writer.Close()

	req := adminRequest(http.MethodPost, "/admin/leagues/import", "")
	req.Body = io.NopCloser(&buf)
	req.ContentLength = int64(buf.Len())
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
