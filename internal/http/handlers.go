package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/coffee-maker-simulator/internal/coffee"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/config"
	httpopenapi "github.com/fairyhunter13/coffee-maker-simulator/internal/http/openapi"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/machine"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/model"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/queue"
)

type App struct {
	Cfg     config.Config
	Machine *machine.Service
	Manager *queue.Manager
	closing atomic.Bool
	started time.Time
}

type addedResp struct {
	Slot    int          `json:"slot"`
	Recipes []model.Slot `json:"recipes"`
}

type inventoryResp struct {
	model.Inventory
	Report string `json:"report"`
}

func NewApp(cfg config.Config, svc *machine.Service, m *queue.Manager) *App {
	return &App{Cfg: cfg, Machine: svc, Manager: m, started: time.Now()}
}

// StartShutdown rejects further mutations and closes event intake.
func (a *App) StartShutdown() {
	a.closing.Store(true)
	a.Manager.CloseIntake()
}

func (a *App) shuttingDown(w http.ResponseWriter) bool {
	if a.closing.Load() || a.Manager.IsShuttingDown() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return true
	}
	return false
}

func (a *App) recipesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, a.Machine.Recipes())
	case http.MethodPost:
		if a.shuttingDown(w) {
			return
		}
		var in model.RecipeInput
		if !decodeJSON(w, r, &in) {
			return
		}
		slot, err := a.Machine.AddRecipe(r.Context(), in)
		if err != nil {
			writeMachineError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, addedResp{Slot: slot, Recipes: a.Machine.Recipes()})
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) recipeHandler(w http.ResponseWriter, r *http.Request) {
	prefix := "/recipes/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, prefix)
	if raw == "" {
		a.recipesHandler(w, r)
		return
	}
	index, err := strconv.Atoi(raw)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "slot_out_of_range", "slot index must be an integer")
		return
	}
	switch r.Method {
	case http.MethodPut:
		if a.shuttingDown(w) {
			return
		}
		var in model.RecipeInput
		if !decodeJSON(w, r, &in) {
			return
		}
		prev, err := a.Machine.EditRecipe(r.Context(), index, in)
		if err != nil {
			writeMachineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"previous": prev})
	case http.MethodDelete:
		if a.shuttingDown(w) {
			return
		}
		name, err := a.Machine.DeleteRecipe(r.Context(), index)
		if err != nil {
			writeMachineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": name})
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) inventoryHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, inventoryResp{Inventory: a.Machine.Inventory(), Report: a.Machine.Report()})
	case http.MethodPost:
		if a.shuttingDown(w) {
			return
		}
		var in model.InventoryInput
		if !decodeJSON(w, r, &in) {
			return
		}
		inv, err := a.Machine.AddInventory(r.Context(), in)
		if err != nil {
			writeMachineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, inventoryResp{Inventory: inv, Report: a.Machine.Report()})
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) purchasesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if a.shuttingDown(w) {
		return
	}
	var req model.PurchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RecipeIndex == nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "recipe_index is required")
		return
	}
	if req.AmountPaid == nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "amount_paid is required")
		return
	}
	if *req.AmountPaid < 0 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "amount_paid must be >= 0")
		return
	}
	ev := a.Machine.MakeCoffee(r.Context(), *req.RecipeIndex, *req.AmountPaid, RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, ev)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	st := a.Manager.Stats()
	m := map[string]any{
		"events_enqueued":  st.Enqueued,
		"events_published": st.Published,
		"events_failed":    st.Failed,
		"backlog_size":     st.Backlog,
		"queue_depth":      st.Depth,
		"worker_count":     a.Manager.WorkerCount(),
		"purchases":        a.Machine.Outcomes(),
		"state_version":    a.Machine.Snapshot().Version,
		"uptime_sec":       time.Since(a.started).Seconds(),
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Coffee Maker API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}

// decodeJSON reads a strict JSON body into v and reports failures to the
// client.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMachineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, coffee.ErrSlotOutOfRange):
		WriteJSONError(w, http.StatusBadRequest, "slot_out_of_range", err.Error())
	case errors.Is(err, machine.ErrSlotEmpty):
		WriteJSONError(w, http.StatusNotFound, "slot_empty", err.Error())
	case errors.Is(err, machine.ErrRecipeRejected):
		WriteJSONError(w, http.StatusConflict, "recipe_rejected", err.Error())
	case coffee.IsValidation(err):
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
	default:
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
