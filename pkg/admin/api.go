package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bapung/basic-auth-check/pkg/auth"
	"github.com/bapung/basic-auth-check/pkg/metrics"
	"github.com/bapung/basic-auth-check/pkg/store"
	"github.com/bapung/basic-auth-check/pkg/util"
)

// API holds dependencies for the admin API
type API struct {
	Store   *store.Store
	Checker auth.Checker
	Admins  auth.Spec
	Logger  *zap.SugaredLogger
}

// NewAPI creates a new admin API instance. Admins are the credentials allowed to use it.
func NewAPI(s *store.Store, checker auth.Checker, admins auth.Spec, logger *zap.SugaredLogger) *API {
	return &API{
		Store:   s,
		Checker: checker,
		Admins:  admins,
		Logger:  logger,
	}
}

// UserResponse is a sanitized version of User for API responses
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// sanitizeUser removes sensitive data from a user
func sanitizeUser(u store.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
	}
}

func (a *API) writeJSON(w http.ResponseWriter, requestID string, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.Logger.Errorf("[%s] Error encoding JSON response: %v", requestID, err)
	}
}

// BasicAuthMiddleware allows only the configured admin credentials
func (a *API) BasicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := a.Checker.Verify(auth.HTTPRequest(r), auth.HTTPResponse(w), a.Admins)
		metrics.Observe(metrics.SourceAdmin, err)
		if err != nil {
			a.Logger.Warnf("[%s] Admin API authentication failed: %v", util.GenerateRequestID(), err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetUsersHandler returns all users ordered by username
func (a *API) GetUsersHandler(w http.ResponseWriter, r *http.Request) {
	requestID := util.GenerateRequestID()
	a.Logger.Infof("[%s] Admin API: Get all users request", requestID)

	users := a.Store.GetAllUsers()
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })

	response := make([]UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, sanitizeUser(u))
	}

	a.writeJSON(w, requestID, http.StatusOK, response)
	a.Logger.Infof("[%s] Admin API: Returned %d users", requestID, len(response))
}

// GetUserHandler returns one user by ID
func (a *API) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	requestID := util.GenerateRequestID()
	userID := chi.URLParam(r, "id")
	a.Logger.Infof("[%s] Admin API: Get user request for ID: %s", requestID, userID)

	user, ok := a.Store.GetUserByID(userID)
	if !ok {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	a.writeJSON(w, requestID, http.StatusOK, sanitizeUser(user))
}

// CreateUserHandler creates or updates a user
func (a *API) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	requestID := util.GenerateRequestID()
	a.Logger.Infof("[%s] Admin API: Create user request", requestID)

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Logger.Infof("[%s] Error parsing request body: %v", requestID, err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		a.Logger.Infof("[%s] Missing required fields", requestID)
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	user, err := a.Store.RegisterUser(store.User{
		ID:       req.ID,
		Username: req.Username,
		Password: req.Password,
	})
	switch {
	case errors.Is(err, store.ErrUsernameTaken):
		http.Error(w, "Username already registered", http.StatusConflict)
		return
	case err != nil:
		a.Logger.Errorf("[%s] Error registering user: %v", requestID, err)
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	a.writeJSON(w, requestID, http.StatusCreated, sanitizeUser(user))
	a.Logger.Infof("[%s] Admin API: User created successfully with ID: %s", requestID, user.ID)
}

// DeleteUserHandler deletes a user by ID
func (a *API) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	requestID := util.GenerateRequestID()
	userID := chi.URLParam(r, "id")
	a.Logger.Infof("[%s] Admin API: Delete user request for ID: %s", requestID, userID)

	err := a.Store.DeleteUser(userID)
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		http.Error(w, "User not found", http.StatusNotFound)
		return
	case err != nil:
		a.Logger.Errorf("[%s] Error deleting user: %v", requestID, err)
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	a.Logger.Infof("[%s] Admin API: User deleted successfully with ID: %s", requestID, userID)
}

// Routes returns the admin router, to be mounted under /admin
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(a.BasicAuthMiddleware)

	r.Get("/users", a.GetUsersHandler)
	r.Post("/users", a.CreateUserHandler)
	r.Get("/users/{id}", a.GetUserHandler)
	r.Delete("/users/{id}", a.DeleteUserHandler)
	return r
}
