package web

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mistertach/tennis-ladder/controller"
	"github.com/sirupsen/logrus"
	"github.com/unrolled/render"
)

type Server struct {
	server *http.Server
	log    *logrus.Logger
}

// NewServer builds the http server for ctrl. admins maps the user names allowed into the
// /admin routes to their passwords.
func NewServer(port int, ctrl controller.C, admins map[string]string, log *logrus.Logger) (*Server, error) {
	if len(admins) == 0 {
		return nil, fmt.Errorf("at least one admin user is required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	render := newRender()
	router := getRouter(ctrl, render, admins)

	s := &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
	return s, nil
}

func (s *Server) ListenAndServe(shutdown chan bool, wg *sync.WaitGroup) {
	go func() {
		defer wg.Done()

		// Wait for the shutdown signal and safely close the server.
		<-shutdown

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			s.log.Fatalf("fatal error shutting down server: %v", err)
		}
	}()

	s.log.Infof("web server is listening on %s", s.server.Addr)
	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.log.Fatalf("fatal error with server: %v", err)
	}
}

func newRender() *render.Render {
	return render.New(render.Options{
		IndentJSON:   true,
		UnEscapeHTML: true,
	})
}
