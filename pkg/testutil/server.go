// Package testutil provides a fake commerce backend for tests. It speaks
// the same envelope dialects as the real backend (payload wrapped under
// "data" or returned bare) and records mutating requests so tests can
// assert on what was sent.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/yarncraft/storefront/internal/api"
)

// Failure makes one route fail with a fixed status and message.
type Failure struct {
	Status  int
	Message string
}

// Server is a fake commerce API backed by in-memory state. All exported
// fields may be mutated between requests; the server locks around each
// request.
type Server struct {
	HTTP *httptest.Server

	mu sync.Mutex

	// Bare switches responses to the unwrapped envelope shape.
	Bare bool

	// Profiles maps bearer tokens to the profile GET /users/me resolves.
	Profiles map[string]api.Profile

	// Accounts maps "email:password" to the token issued on login.
	Accounts map[string]string

	Products []api.Product
	Stock    map[int64]int

	Applications []api.Application
	Inventory    []api.InventoryItem
	Stats        api.DashboardStats
	VendorStats  []api.VendorPerformance
	Orders       []api.Order

	// Failures maps "METHOD /route/template" (mux template syntax) to an
	// injected failure.
	Failures map[string]Failure

	// Recordings of mutating calls.
	OrderRequests   []api.OrderRequest
	SubmittedApps   []api.VendorApplicationRequest
	Approvals       []int64
	Rejections      []int64
	Restocks        map[int64]int
	DeletedProducts []int64
	Registrations   []api.Registration
	CreatedProducts []api.NewProduct
}

// NewServer starts a fake backend. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		Profiles: make(map[string]api.Profile),
		Accounts: make(map[string]string),
		Stock:    make(map[int64]int),
		Failures: make(map[string]Failure),
		Restocks: make(map[int64]int),
	}

	r := mux.NewRouter()
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/users/me", s.handleMe).Methods(http.MethodGet)
	r.HandleFunc("/users/vendor-application", s.handleVendorApplication).Methods(http.MethodPost)
	r.HandleFunc("/products", s.handleProducts).Methods(http.MethodGet)
	r.HandleFunc("/products", s.handleCreateProduct).Methods(http.MethodPost)
	r.HandleFunc("/products/{id}", s.handleProduct).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", s.handleDeleteProduct).Methods(http.MethodDelete)
	r.HandleFunc("/inventory/available/{id}", s.handleAvailability).Methods(http.MethodGet)
	r.HandleFunc("/inventory/dashboard", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/inventory/my-inventory", s.handleMyInventory).Methods(http.MethodGet)
	r.HandleFunc("/inventory/restock/{id}", s.handleRestock).Methods(http.MethodPut)
	r.HandleFunc("/admin/applications", s.handleApplications).Methods(http.MethodGet)
	r.HandleFunc("/admin/applications/{id}/approve", s.handleApprove).Methods(http.MethodPost)
	r.HandleFunc("/admin/applications/{id}/reject", s.handleReject).Methods(http.MethodPost)
	r.HandleFunc("/admin/vendor-stats", s.handleVendorStats).Methods(http.MethodGet)
	r.HandleFunc("/orders", s.handleCreateOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders", s.handleOrders).Methods(http.MethodGet)

	s.HTTP = httptest.NewServer(r)
	return s
}

// URL returns the server's base URL.
func (s *Server) URL() string { return s.HTTP.URL }

// Close shuts the server down.
func (s *Server) Close() { s.HTTP.Close() }

// Fail injects a failure for a route, e.g. Fail("GET /users/me", 500, "boom").
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failures[route] = Failure{Status: status, Message: message}
}

// ClearFailures removes all injected failures.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failures = make(map[string]Failure)
}

func (s *Server) failureFor(r *http.Request) (Failure, bool) {
	route := r.URL.Path
	if tmpl, err := mux.CurrentRoute(r).GetPathTemplate(); err == nil {
		route = tmpl
	}
	f, ok := s.Failures[r.Method+" "+route]
	return f, ok
}

func (s *Server) writePayload(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if s.Bare {
		json.NewEncoder(w).Encode(payload)
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "ok",
		"data":    payload,
	})
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}

// enter takes the lock and handles failure injection. It returns false when
// the request was already answered.
func (s *Server) enter(w http.ResponseWriter, r *http.Request) bool {
	s.mu.Lock()
	if f, ok := s.failureFor(r); ok {
		s.mu.Unlock()
		s.writeError(w, f.Status, f.Message)
		return false
	}
	return true
}

func (s *Server) profileFor(r *http.Request) (api.Profile, bool) {
	auth := r.Header.Get("Authorization")
	token := strings.TrimPrefix(auth, "Bearer ")
	if token == "" || token == auth {
		return api.Profile{}, false
	}
	p, ok := s.Profiles[token]
	return p, ok
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()

	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed credentials")
		return
	}
	token, ok := s.Accounts[creds.Email+":"+creds.Password]
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	s.writePayload(w, map[string]string{"token": token})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()

	var reg api.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed registration")
		return
	}
	if _, taken := s.Accounts[reg.Email+":"+reg.Password]; taken {
		s.writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	s.Registrations = append(s.Registrations, reg)

	role := reg.Role
	if role == "" {
		role = api.RoleCustomer
	}
	token := fmt.Sprintf("token-%d", len(s.Profiles)+1)
	s.Accounts[reg.Email+":"+reg.Password] = token
	s.Profiles[token] = api.Profile{
		ID:    int64(len(s.Profiles) + 1),
		Name:  reg.Name,
		Email: reg.Email,
		Role:  role,
	}
	s.writePayload(w, map[string]string{"token": token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()

	profile, ok := s.profileFor(r)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	s.writePayload(w, profile)
}

func (s *Server) handleVendorApplication(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()

	if _, ok := s.profileFor(r); !ok {
		s.writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	var app api.VendorApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed application")
		return
	}
	s.SubmittedApps = append(s.SubmittedApps, app)
	s.writePayload(w, "Application submitted")
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()
	s.writePayload(w, s.Products)
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()

	id := pathID(r)
	for _, p := range s.Products {
		if p.ID == id {
			s.writePayload(w, p)
			return
		}
	}
	s.writeError(w, http.StatusNotFound, fmt.Sprintf("Product %d not found", id))
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()

	profile, ok := s.profileFor(r)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	var req api.NewProduct
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed product")
		return
	}
	s.CreatedProducts = append(s.CreatedProducts, req)

	vendor := profile.ShopName
	if vendor == "" {
		vendor = profile.Name
	}
	var maxID int64
	for _, p := range s.Products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	created := api.Product{
		ID:          maxID + 1,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		VendorName:  vendor,
	}
	s.Products = append(s.Products, created)
	s.writePayload(w, created)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()

	id := pathID(r)
	s.DeletedProducts = append(s.DeletedProducts, id)
	kept := s.Products[:0]
	for _, p := range s.Products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.Products = kept
	s.writePayload(w, "Product deleted")
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()

	id := pathID(r)
	stock, ok := s.Stock[id]
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("No inventory for product %d", id))
		return
	}
	s.writePayload(w, api.Availability{ProductID: id, AvailableStock: stock})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()
	s.writePayload(w, s.Stats)
}

func (s *Server) handleMyInventory(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()
	s.writePayload(w, s.Inventory)
}

func (s *Server) handleRestock(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()

	id := pathID(r)
	qty, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil || qty <= 0 {
		s.writeError(w, http.StatusBadRequest, "quantity must be a positive integer")
		return
	}
	s.Restocks[id] += qty
	s.Stock[id] += qty
	s.writePayload(w, "Stock updated")
}

func (s *Server) handleApplications(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()

	profile, ok := s.profileFor(r)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	if profile.Role != api.RoleAdmin {
		s.writeError(w, http.StatusForbidden, "Admin privileges required")
		return
	}
	s.writePayload(w, s.Applications)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()

	id := pathID(r)
	s.Approvals = append(s.Approvals, id)
	for i := range s.Applications {
		if s.Applications[i].ID == id {
			s.Applications[i].Status = "APPROVED"
		}
	}
	s.writePayload(w, "Vendor approved")
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()

	id := pathID(r)
	s.Rejections = append(s.Rejections, id)
	for i := range s.Applications {
		if s.Applications[i].ID == id {
			s.Applications[i].Status = "REJECTED"
		}
	}
	s.writePayload(w, "Vendor rejected")
}

func (s *Server) handleVendorStats(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()
	s.writePayload(w, s.VendorStats)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()

	if _, ok := s.profileFor(r); !ok {
		s.writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	var req api.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed order")
		return
	}
	s.OrderRequests = append(s.OrderRequests, req)
	created := api.Order{
		ID:              int64(len(s.Orders) + 1),
		ShippingAddress: req.ShippingAddress,
		Phone:           req.Phone,
		Items:           req.Items,
		TotalAmount:     req.TotalAmount,
		Status:          "PLACED",
	}
	s.Orders = append(s.Orders, created)
	s.writePayload(w, created)
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	defer s.mu.Unlock()
	s.writePayload(w, s.Orders)
}
