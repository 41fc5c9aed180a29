package admin

import (
	"time"

	admindomain "github.com/sngm3741/transit-survey-services/api/internal/admin/domain"
)

// targetingPayload carries both allow-lists. A null list means unrestricted.
type targetingPayload struct {
	StopIDs  []string `json:"stopIds"`
	RouteIDs []string `json:"routeIds"`
}

type questionPayload struct {
	ID       int      `json:"id" validate:"gt=0"`
	Position int      `json:"position" validate:"min=0"`
	Type     string   `json:"type" validate:"required,oneof=text radio checkbox label external_survey"`
	Required bool     `json:"required"`
	Label    string   `json:"label,omitempty" validate:"max=1000"`
	Options  []string `json:"options,omitempty" validate:"max=50,dive,max=200"`
	URL      string   `json:"url,omitempty"`
}

type surveyCreateRequest struct {
	Name                    string            `json:"name" validate:"required,max=200"`
	ShowOnMap               bool              `json:"showOnMap"`
	ShowOnStops             bool              `json:"showOnStops"`
	Targeting               *targetingPayload `json:"targeting"`
	AllowsVisible           bool              `json:"allowsVisible"`
	AllowsMultipleResponses bool              `json:"allowsMultipleResponses"`
	Questions               []questionPayload `json:"questions" validate:"max=100,dive"`
	StartDate               *time.Time        `json:"startDate"`
	EndDate                 *time.Time        `json:"endDate"`
}

// surveyUpdateRequest は部分更新用。nil のフィールドは既存値を維持する。
type surveyUpdateRequest struct {
	Name                    *string            `json:"name" validate:"omitempty,max=200"`
	ShowOnMap               *bool              `json:"showOnMap"`
	ShowOnStops             *bool              `json:"showOnStops"`
	Targeting               *targetingPayload  `json:"targeting"`
	AllowsVisible           *bool              `json:"allowsVisible"`
	AllowsMultipleResponses *bool              `json:"allowsMultipleResponses"`
	Questions               *[]questionPayload `json:"questions" validate:"omitempty,max=100,dive"`
	StartDate               *time.Time         `json:"startDate"`
	EndDate                 *time.Time         `json:"endDate"`
}

type surveyResponse struct {
	ID                      int               `json:"id"`
	Name                    string            `json:"name"`
	Class                   string            `json:"class"`
	ShowOnMap               bool              `json:"showOnMap"`
	ShowOnStops             bool              `json:"showOnStops"`
	Targeting               *targetingPayload `json:"targeting"`
	AllowsVisible           bool              `json:"allowsVisible"`
	AllowsMultipleResponses bool              `json:"allowsMultipleResponses"`
	Questions               []questionPayload `json:"questions"`
	StartDate               *time.Time        `json:"startDate,omitempty"`
	EndDate                 *time.Time        `json:"endDate,omitempty"`
	ResponseCount           int               `json:"responseCount"`
	LastResponseAt          *time.Time        `json:"lastResponseAt,omitempty"`
	CreatedAt               time.Time         `json:"createdAt"`
	UpdatedAt               time.Time         `json:"updatedAt"`
}

type surveyListResponse struct {
	Items []surveyResponse `json:"items"`
}

type stopUpsertRequest struct {
	Name     string   `json:"name" validate:"max=200"`
	RouteIDs []string `json:"routeIds" validate:"max=100,dive,max=64"`
}

type stopResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	RouteIDs  []string  `json:"routeIds"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type stopListResponse struct {
	Items []stopResponse `json:"items"`
}

func stopDomainToResponse(stop admindomain.Stop) stopResponse {
	routes := stop.RouteIDs.Strings()
	if routes == nil {
		routes = []string{}
	}
	return stopResponse{
		ID:        stop.ID.String(),
		Name:      stop.Name,
		RouteIDs:  routes,
		UpdatedAt: stop.UpdatedAt,
	}
}
