package httpapi

import (
	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error struct {
		Code      string                            `json:"code"`
		Message   string                            `json:"message"`
		RequestId nullable.Nullable[string]         `json:"requestId,omitempty"`
		Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	} `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type SignupRequest struct {
	NationalId  string              `json:"national_id"`
	Name        string              `json:"name"`
	PhoneNumber string              `json:"phone_number"`
	Email       openapi_types.Email `json:"email"`
	Password    string              `json:"password"`
	Type        string              `json:"type"`
}

// Account is the response shape. Email is a plain string: stored rows are
// returned as-is even if they predate address validation.
type Account struct {
	NationalId  string `json:"national_id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Type        string `json:"type"`
}

type LoginRequest struct {
	NationalId string `json:"national_id"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	NationalId  string `json:"national_id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Message     string `json:"message"`
}

type VehicleRequest struct {
	NationalId  string `json:"national_id"`
	Password    string `json:"password"`
	Vehicle     string `json:"vehicle"`
	VehicleType string `json:"vehicle_type"`
}

type Vehicle struct {
	NationalId  string `json:"national_id"`
	Vehicle     string `json:"vehicle"`
	VehicleType string `json:"vehicle_type"`
}

// TrafficSignalRequest uses pointers for the coordinates so a missing value is
// distinguishable from zero.
type TrafficSignalRequest struct {
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
	TlIdSumo string   `json:"tl_id_sumo"`
	TlIdOsm  string   `json:"tl_id_osm"`
}

type TrafficSignal struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	TlIdSumo string  `json:"tl_id_sumo"`
	TlIdOsm  string  `json:"tl_id_osm"`
}

type TablesResponse struct {
	Tables []string `json:"tables"`
}
