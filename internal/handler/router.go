package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vivekdev/portfolio/backend/internal/handler/chat"
	"github.com/vivekdev/portfolio/backend/internal/handler/contact"
	"github.com/vivekdev/portfolio/backend/internal/handler/profile"
	middlewarePkg "github.com/vivekdev/portfolio/backend/internal/middleware"
	profileModel "github.com/vivekdev/portfolio/backend/internal/model/profile"
	contactService "github.com/vivekdev/portfolio/backend/internal/service/contact"
	relayService "github.com/vivekdev/portfolio/backend/internal/service/relay"
	"github.com/vivekdev/portfolio/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. relaySvc and contactSvc may be
// nil; their routes then answer 503.
func NewRouter(profiles profileModel.Store, relaySvc *relayService.Service, contactSvc *contactService.Service, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	// Keep typed nils out of the handler interfaces
	var replier chat.Replier
	if relaySvc != nil {
		replier = relaySvc
	}
	var submitter contact.Submitter
	if contactSvc != nil {
		submitter = contactSvc
	}

	profileHandler := profile.New(profiles)
	chatHandler := chat.New(replier, allowedOrigins)
	contactHandler := contact.New(submitter)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		profileHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		contactHandler.RegisterRoutes(api)
	})

	return r
}
