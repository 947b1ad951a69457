package http

import (
	"net/http"
	"strings"
)

// RouterConfig lists the handlers and middleware the router dispatches to.
// Nil handlers leave their routes unregistered.
type RouterConfig struct {
	Auth       *AuthHandler
	Employees  *EmployeeHandler
	Timesheet  *TimesheetHandler
	Files      *FileHandler
	Middleware []func(http.Handler) http.Handler
}

// NewRouter assembles the HTTP surface of the service on a ServeMux and
// wraps it with the configured middleware, outermost first.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Auth != nil {
		mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.CreateSession(w, r)
		})
		mux.HandleFunc("/sessions/current", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Auth.DeleteCurrentSession(w, r)
		})
	}

	if cfg.Employees != nil {
		mux.HandleFunc("/employees", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Employees.List(w, r)
			case http.MethodPost:
				cfg.Employees.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/employees/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/employees/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithEmployeeID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodGet:
				cfg.Employees.Get(w, r)
			case http.MethodPut:
				cfg.Employees.Update(w, r)
			case http.MethodDelete:
				cfg.Employees.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Timesheet != nil {
		mux.HandleFunc("/timesheet", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Timesheet.View(w, r)
		})
		mux.HandleFunc("/api/timesheet", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Timesheet.List(w, r)
			case http.MethodPost:
				cfg.Timesheet.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/api/timesheet/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/api/timesheet/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}

			if id, ok := strings.CutSuffix(rest, "/approve"); ok {
				dispatchReview(w, r, cfg.Timesheet.Approve, id)
				return
			}
			if id, ok := strings.CutSuffix(rest, "/deny"); ok {
				dispatchReview(w, r, cfg.Timesheet.Deny, id)
				return
			}
			if strings.Contains(rest, "/") {
				http.NotFound(w, r)
				return
			}

			ctx := ContextWithEntryID(r.Context(), rest)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodPut:
				cfg.Timesheet.Update(w, r)
			case http.MethodDelete:
				cfg.Timesheet.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
		mux.HandleFunc("/api/period_timesheets/", func(w http.ResponseWriter, r *http.Request) {
			selector := strings.TrimPrefix(r.URL.Path, "/api/period_timesheets/")
			if selector == "" || strings.Contains(selector, "/") {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Timesheet.Period(w, r, selector)
		})
	}

	if cfg.Files != nil {
		mux.HandleFunc("/upload_files/", func(w http.ResponseWriter, r *http.Request) {
			employeeID := strings.TrimPrefix(r.URL.Path, "/upload_files/")
			if employeeID == "" || strings.Contains(employeeID, "/") {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithEmployeeID(r.Context(), employeeID)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodPost:
				cfg.Files.Upload(w, r)
			case http.MethodGet:
				cfg.Files.List(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
			fileID := strings.TrimPrefix(r.URL.Path, "/files/")
			if fileID == "" || strings.Contains(fileID, "/") {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			ctx := ContextWithFileID(r.Context(), fileID)
			cfg.Files.Download(w, r.WithContext(ctx))
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func dispatchReview(w http.ResponseWriter, r *http.Request, review http.HandlerFunc, entryID string) {
	if entryID == "" || strings.Contains(entryID, "/") {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	review(w, r.WithContext(ContextWithEntryID(r.Context(), entryID)))
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
