package handler

import (
	"encoding/json"
	"net/http"

	"arenabook/internal/complexes/service"
	httputil "arenabook/pkg/http"
	"arenabook/pkg/logger"
	"arenabook/pkg/middleware"
	"arenabook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ComplexHandler struct {
	service service.ComplexService
	log     *logger.Logger
}

func NewComplexHandler(service service.ComplexService, log *logger.Logger) *ComplexHandler {
	return &ComplexHandler{
		service: service,
		log:     log,
	}
}

func (h *ComplexHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var complex model.SportComplex
	if err := json.NewDecoder(r.Body).Decode(&complex); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), middleware.CallerID(r.Context()), &complex); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, complex); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ComplexHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	complex, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, complex); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ComplexHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	query := r.URL.Query()
	complexes, total, err := h.service.List(r.Context(), query.Get("city"), query.Get("sport_id"), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, complexes, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *ComplexHandler) ListByCity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByCity", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	complexes, total, err := h.service.List(r.Context(), ps.ByName("city"), "", limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByCity", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, complexes, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByCity", "operation", "WritePaginated", "error", err)
	}
}

func (h *ComplexHandler) ListBySport(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListBySport", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	complexes, total, err := h.service.List(r.Context(), "", ps.ByName("sport"), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListBySport", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, complexes, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListBySport", "operation", "WritePaginated", "error", err)
	}
}

func (h *ComplexHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListMine", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	complexes, total, err := h.service.ListOwn(r.Context(), middleware.CallerID(r.Context()), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListMine", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, complexes, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListMine", "operation", "WritePaginated", "error", err)
	}
}

type addSportsRequest struct {
	SportIDs []string `json:"sport_ids"`
}

func (h *ComplexHandler) AddSports(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req addSportsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AddSports", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.AddSports(r.Context(), middleware.CallerID(r.Context()), ps.ByName("id"), req.SportIDs); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddSports", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ComplexHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.SportComplexUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), middleware.CallerID(r.Context()), ps.ByName("id"), &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ComplexHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), middleware.CallerID(r.Context()), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ComplexHandler) ListSports(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sports, err := h.service.ListSports(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListSports", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, sports); err != nil {
		h.log.Error("failed to write success response", "handler", "ListSports", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ComplexHandler) GetSportByName(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sport, err := h.service.GetSportByName(r.Context(), ps.ByName("name"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetSportByName", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, sport); err != nil {
		h.log.Error("failed to write success response", "handler", "GetSportByName", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ComplexHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/complexes", h.Create)
	router.GET("/api/v1/complexes", h.List)
	router.GET("/api/v1/complexes/id/:id", h.GetByID)
	router.PATCH("/api/v1/complexes/id/:id", h.Update)
	router.DELETE("/api/v1/complexes/id/:id", h.Delete)
	router.POST("/api/v1/complexes/id/:id/sports", h.AddSports)
	router.GET("/api/v1/complexes/city/:city", h.ListByCity)
	router.GET("/api/v1/complexes/sport/:sport", h.ListBySport)
	router.GET("/api/v1/complexes/mine", h.ListMine)
	router.GET("/api/v1/sports", h.ListSports)
	router.GET("/api/v1/sports/name/:name", h.GetSportByName)
}
