package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mikemajara/ai-chatbot/internal/capability"
	"github.com/mikemajara/ai-chatbot/internal/model"
	"github.com/mikemajara/ai-chatbot/internal/scrape"
	"github.com/mikemajara/ai-chatbot/internal/server/middleware"
	"github.com/mikemajara/ai-chatbot/internal/server/resp"
	"github.com/mikemajara/ai-chatbot/internal/server/router"
	"github.com/mikemajara/ai-chatbot/internal/syncer"
)

// Deps are the collaborators of the capability endpoints.
type Deps struct {
	Store   syncer.Store
	Mapping *capability.Mapping
	// Scraper is optional; without it the scrape endpoint answers 500.
	Scraper *scrape.Scraper
	APIKey  string
}

type capabilityHandler struct {
	Deps
}

func RegisterCapability(reg *router.Registry, d Deps) {
	h := &capabilityHandler{Deps: d}
	reg.NewGroupRouter("/api/v1/capabilities").
		Use(middleware.SyncKeyAuth(d.APIKey)).
		AddRoute(
			router.NewRoute("/sync", http.MethodGet).
				Handle(h.previewSync),
		).
		AddRoute(
			router.NewRoute("/sync", http.MethodPost).
				Handle(h.runSync),
		).
		AddRoute(
			router.NewRoute("/scrape", http.MethodGet).
				Handle(h.previewScrape),
		).
		AddRoute(
			router.NewRoute("/mapping", http.MethodGet).
				Handle(h.listMapping),
		)
}

func (h *capabilityHandler) newSyncer() *syncer.Syncer {
	return syncer.New(h.Store, h.Mapping, syncer.WithSourceName(syncer.SourceStatic))
}

func (h *capabilityHandler) previewSync(c *gin.Context) {
	h.respondSync(c, h.newSyncer().Preview)
}

// runSync applies the static mapping; "?preview=true" turns it into a preview.
func (h *capabilityHandler) runSync(c *gin.Context) {
	preview := false
	if v := c.Query("preview"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			resp.Error(c, http.StatusBadRequest, resp.ErrInvalidParam)
			return
		}
		preview = b
	}
	if preview {
		h.respondSync(c, h.newSyncer().Preview)
		return
	}
	h.respondSync(c, h.newSyncer().Apply)
}

func (h *capabilityHandler) respondSync(c *gin.Context, run func(context.Context) (*model.SyncReport, error)) {
	report, err := run(c.Request.Context())
	if err != nil {
		resp.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	resp.Success(c, report)
}

type scrapePreview struct {
	Report *model.SyncReport  `json:"report"`
	Scrape model.ScrapeResult `json:"scrape"`
}

// previewScrape reconciles current models against a fresh scrape. It never writes.
func (h *capabilityHandler) previewScrape(c *gin.Context) {
	if h.Scraper == nil {
		resp.Error(c, http.StatusInternalServerError, resp.ErrScraperUnavailable)
		return
	}
	ctx := c.Request.Context()
	res := h.Scraper.Scrape(ctx)
	s := syncer.New(h.Store, scrape.NewSource(res), syncer.WithSourceName(syncer.SourceScrape))
	report, err := s.Preview(ctx)
	if err != nil {
		resp.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	resp.Success(c, scrapePreview{Report: report, Scrape: res})
}

func (h *capabilityHandler) listMapping(c *gin.Context) {
	kind := c.Query("capability")
	if kind == "" {
		resp.Success(c, h.Mapping.Entries())
		return
	}
	if _, ok := model.LookupCapabilityField(model.CapabilityKind(kind)); !ok {
		resp.Error(c, http.StatusBadRequest, resp.ErrInvalidParam)
		return
	}
	resp.Success(c, h.Mapping.ModelsWithCapability(model.CapabilityKind(kind)))
}
