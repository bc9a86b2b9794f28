package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/accounts"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/apperr"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/diagnostics"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/signals"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/vehicles"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
)

// Server holds the HTTP handlers. Each handler decodes the request, calls one
// service operation and renders its result or error.
type Server struct {
	Accounts    *accounts.Service
	Vehicles    *vehicles.Service
	Signals     *signals.Service
	Diagnostics *diagnostics.Service

	Logger *slog.Logger
}

func NewServer(accountsSvc *accounts.Service, vehiclesSvc *vehicles.Service, signalsSvc *signals.Service, diagnosticsSvc *diagnostics.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Accounts:    accountsSvc,
		Vehicles:    vehiclesSvc,
		Signals:     signalsSvc,
		Diagnostics: diagnosticsSvc,
		Logger:      logger,
	}
}

func (s *Server) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.Logger, http.StatusOK, MessageResponse{Message: "Welcome to Traffic Management System API"})
}

func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.badBody(w, r, err)
		return
	}
	a, err := s.Accounts.Create(r.Context(), accounts.CreateInput{
		NationalID:  req.NationalId,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Email:       string(req.Email),
		Password:    req.Password,
		Role:        domain.Role(req.Type),
	})
	if err != nil {
		writeError(w, r, s.Logger, err)
		return
	}
	writeJSON(w, r, s.Logger, http.StatusOK, accountFromDomain(a))
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.badBody(w, r, err)
		return
	}
	sess, err := s.Accounts.Authenticate(r.Context(), req.NationalId, req.Password)
	if err != nil {
		writeError(w, r, s.Logger, err)
		return
	}
	writeJSON(w, r, s.Logger, http.StatusOK, LoginResponse{
		AccessToken: sess.AccessToken,
		TokenType:   sess.TokenType,
		NationalId:  string(sess.Account.NationalID),
		Name:        sess.Account.Name,
		Type:        string(sess.Account.Role),
		Message:     "Login successful",
	})
}

func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	as, err := s.Accounts.List(r.Context())
	if err != nil {
		writeError(w, r, s.Logger, err)
		return
	}
	out := make([]Account, 0, len(as))
	for _, a := range as {
		out = append(out, accountFromDomain(a))
	}
	writeJSON(w, r, s.Logger, http.StatusOK, out)
}

func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	a, err := s.Accounts.Get(r.Context(), domain.NationalID(chi.URLParam(r, "national_id")))
	if err != nil {
		writeError(w, r, s.Logger, err)
		return
	}
	writeJSON(w, r, s.Logger, http.StatusOK, accountFromDomain(a))
}

func (s *Server) MeProtected(w http.ResponseWriter, r *http.Request) {
	if _, ok := PrincipalFromContext(r.Context()); !ok {
		writeOASError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	writeJSON(w, r, s.Logger, http.StatusOK, MessageResponse{Message: "You are authenticated with a valid backend token."})
}

func (s *Server) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req VehicleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.badBody(w, r, err)
		return
	}
	v, err := s.Vehicles.Create(r.Context(), vehicles.CreateInput{
		NationalID:  req.NationalId,
		Password:    req.Password,
		Vehicle:     req.Vehicle,
		VehicleType: req.VehicleType,
	})
	if err != nil {
		writeError(w, r, s.Logger, err)
		return
	}
	writeJSON(w, r, s.Logger, http.StatusOK, vehicleFromDomain(v))
}

func (s *Server) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vs, err := s.Vehicles.List(r.Context())
	if err != nil {
		writeError(w, r, s.Logger, err)
		return
	}
	writeJSON(w, r, s.Logger, http.StatusOK, vehiclesFromDomain(vs))
}

func (s *Server) ListVehiclesByOwner(w http.ResponseWriter, r *http.Request) {
	vs, err := s.Vehicles.ListByOwner(r.Context(), domain.NationalID(chi.URLParam(r, "national_id")))
	if err != nil {
		writeError(w, r, s.Logger, err)
		return
	}
	writeJSON(w, r, s.Logger, http.StatusOK, vehiclesFromDomain(vs))
}

func (s *Server) CreateSignal(w http.ResponseWriter, r *http.Request) {
	sig, ok := s.decodeSignal(w, r)
	if !ok {
		return
	}
	created, err := s.Signals.Create(r.Context(), sig)
	if err != nil {
		writeError(w, r, s.Logger, err)
		return
	}
	writeJSON(w, r, s.Logger, http.StatusOK, signalFromDomain(created))
}

func (s *Server) ListSignals(w http.ResponseWriter, r *http.Request) {
	sigs, err := s.Signals.List(r.Context())
	if err != nil {
		writeError(w, r, s.Logger, err)
		return
	}
	out := make([]TrafficSignal, 0, len(sigs))
	for _, sig := range sigs {
		out = append(out, signalFromDomain(sig))
	}
	writeJSON(w, r, s.Logger, http.StatusOK, out)
}

func (s *Server) GetSignal(w http.ResponseWriter, r *http.Request) {
	at, ok := s.coordinatesFromPath(w, r)
	if !ok {
		return
	}
	sig, err := s.Signals.Get(r.Context(), at)
	if err != nil {
		writeError(w, r, s.Logger, err)
		return
	}
	writeJSON(w, r, s.Logger, http.StatusOK, signalFromDomain(sig))
}

func (s *Server) UpdateSignal(w http.ResponseWriter, r *http.Request) {
	at, ok := s.coordinatesFromPath(w, r)
	if !ok {
		return
	}
	sig, ok := s.decodeSignal(w, r)
	if !ok {
		return
	}
	updated, err := s.Signals.Update(r.Context(), at, sig)
	if err != nil {
		writeError(w, r, s.Logger, err)
		return
	}
	writeJSON(w, r, s.Logger, http.StatusOK, signalFromDomain(updated))
}

func (s *Server) DeleteSignal(w http.ResponseWriter, r *http.Request) {
	at, ok := s.coordinatesFromPath(w, r)
	if !ok {
		return
	}
	if err := s.Signals.Delete(r.Context(), at); err != nil {
		writeError(w, r, s.Logger, err)
		return
	}
	writeJSON(w, r, s.Logger, http.StatusOK, MessageResponse{Message: "Traffic signal deleted successfully"})
}

func (s *Server) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.Diagnostics.ListTables(r.Context())
	if err != nil {
		writeError(w, r, s.Logger, err)
		return
	}
	writeJSON(w, r, s.Logger, http.StatusOK, TablesResponse{Tables: tables})
}

func (s *Server) badBody(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeOASError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), nil)
		return
	}
	writeError(w, r, s.Logger, apperr.Validation("invalid request body", map[string]any{"body": err.Error()}))
}

func (s *Server) decodeSignal(w http.ResponseWriter, r *http.Request) (domain.TrafficSignal, bool) {
	var req TrafficSignalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.badBody(w, r, err)
		return domain.TrafficSignal{}, false
	}
	details := map[string]any{}
	if req.Lat == nil {
		details["lat"] = "is required"
	}
	if req.Lon == nil {
		details["lon"] = "is required"
	}
	if len(details) > 0 {
		writeError(w, r, s.Logger, apperr.Validation("invalid traffic signal", details))
		return domain.TrafficSignal{}, false
	}
	return domain.TrafficSignal{
		Coordinates: domain.Coordinates{Lat: *req.Lat, Lon: *req.Lon},
		TLIDSumo:    req.TlIdSumo,
		TLIDOSM:     req.TlIdOsm,
	}, true
}

func (s *Server) coordinatesFromPath(w http.ResponseWriter, r *http.Request) (domain.Coordinates, bool) {
	lat, err := bindFloatPath(r, "lat")
	if err != nil {
		writeError(w, r, s.Logger, apperr.Validation("invalid coordinates", map[string]any{"lat": err.Error()}))
		return domain.Coordinates{}, false
	}
	lon, err := bindFloatPath(r, "lon")
	if err != nil {
		writeError(w, r, s.Logger, apperr.Validation("invalid coordinates", map[string]any{"lon": err.Error()}))
		return domain.Coordinates{}, false
	}
	return domain.Coordinates{Lat: lat, Lon: lon}, true
}

func accountFromDomain(a domain.Account) Account {
	return Account{
		NationalId:  string(a.NationalID),
		Name:        a.Name,
		PhoneNumber: a.PhoneNumber,
		Email:       a.Email,
		Type:        string(a.Role),
	}
}

func vehicleFromDomain(v domain.Vehicle) Vehicle {
	return Vehicle{
		NationalId:  string(v.NationalID),
		Vehicle:     v.Vehicle,
		VehicleType: v.VehicleType,
	}
}

func vehiclesFromDomain(vs []domain.Vehicle) []Vehicle {
	out := make([]Vehicle, 0, len(vs))
	for _, v := range vs {
		out = append(out, vehicleFromDomain(v))
	}
	return out
}

func signalFromDomain(s domain.TrafficSignal) TrafficSignal {
	return TrafficSignal{
		Lat:      s.Lat,
		Lon:      s.Lon,
		TlIdSumo: s.TLIDSumo,
		TlIdOsm:  s.TLIDOSM,
	}
}
