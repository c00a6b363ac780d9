/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Request types carry go-playground/validator struct tags; handlers run
  them through the shared validator before touching domain logic.

SEE ALSO:
  - handlers.go: Uses these types
  - roster/types.go: Domain entities these map from
*/
package api

import (
	"time"

	"github.com/staffline/roster-engine/glosa"
	"github.com/staffline/roster-engine/roster"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// PostDTO represents a post in API responses.
type PostDTO struct {
	ID            string  `json:"id"`
	SiteID        string  `json:"site_id"`
	Name          string  `json:"name"`
	PatternName   string  `json:"pattern_name"`
	BillingValue  float64 `json:"billing_value"`
	WorkloadHours int     `json:"workload_hours"`
	CreatedAt     string  `json:"created_at"`
}

// CreatePostRequest is the request to create a post.
type CreatePostRequest struct {
	ID            string  `json:"id"`
	SiteID        string  `json:"site_id" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	PatternName   string  `json:"pattern_name" validate:"required"`
	BillingValue  float64 `json:"billing_value" validate:"gte=0"`
	WorkloadHours int     `json:"workload_hours" validate:"gte=0"`
	CreatedAt     string  `json:"created_at"` // ISO date; defaults to today
}

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	HiredAt string `json:"hired_at"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	HiredAt string `json:"hired_at"` // ISO date; defaults to today
}

// AssignmentDTO represents an employee-to-post assignment.
type AssignmentDTO struct {
	ID         string  `json:"id"`
	PostID     string  `json:"post_id"`
	EmployeeID string  `json:"employee_id"`
	Start      string  `json:"start"`
	End        *string `json:"end,omitempty"`
}

// CreateAssignmentRequest is the request to allocate an employee to a post.
type CreateAssignmentRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Start      string `json:"start" validate:"required"` // ISO date
}

// CloseAssignmentRequest sets the end date of an open assignment.
type CloseAssignmentRequest struct {
	End string `json:"end" validate:"required"` // ISO date
}

// CoverageDTO represents an ad-hoc day-level coverage record.
type CoverageDTO struct {
	ID     string  `json:"id"`
	PostID string  `json:"post_id"`
	Date   string  `json:"date"`
	Type   string  `json:"type"`
	Cost   float64 `json:"cost"`
	Note   string  `json:"note,omitempty"`
}

// CreateCoverageRequest is the request to record a coverage.
type CreateCoverageRequest struct {
	Date string  `json:"date" validate:"required"` // ISO date
	Type string  `json:"type" validate:"required,oneof=daily_rate overtime vacant"`
	Cost float64 `json:"cost" validate:"gte=0"`
	Note string  `json:"note"`
}

// OverrideDTO represents a manual roster correction.
type OverrideDTO struct {
	PostID string `json:"post_id"`
	Date   string `json:"date"`
	DayOff bool   `json:"day_off"`
}

// PutOverrideRequest upserts an override for a (post, date). Last write wins.
type PutOverrideRequest struct {
	Date   string `json:"date" validate:"required"` // ISO date
	DayOff bool   `json:"day_off"`
}

// RosterDayDTO is one classified calendar day.
type RosterDayDTO struct {
	Date   string `json:"date"`
	Status string `json:"status"` // "work" or "off"
}

// RosterResponse is the projected monthly grid for a post.
type RosterResponse struct {
	PostID      string         `json:"post_id"`
	PatternName string         `json:"pattern_name"`
	Anchor      string         `json:"anchor"`
	Year        int            `json:"year"`
	Month       int            `json:"month"`
	Days        []RosterDayDTO `json:"days"`
	WorkDays    int            `json:"work_days"`
	DaysOff     int            `json:"days_off"`
}

// PostLossDTO is the monthly loss attributed to one post.
type PostLossDTO struct {
	PostID      string   `json:"post_id"`
	PostName    string   `json:"post_name"`
	Loss        float64  `json:"loss"`
	VacantDays  int      `json:"vacant_days"`
	VacantDates []string `json:"vacant_dates,omitempty"`
}

// GlosaResponse is the monthly revenue-loss summary.
type GlosaResponse struct {
	Year           int           `json:"year"`
	Month          int           `json:"month"`
	Through        string        `json:"through"`
	TotalLoss      float64       `json:"total_loss"`
	VacantDayCount int           `json:"vacant_day_count"`
	Posts          []PostLossDTO `json:"posts"`
}

// PatternsResponse lists the recognized shift patterns.
type PatternsResponse struct {
	Patterns []string `json:"patterns"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPostDTO(p roster.Post) PostDTO {
	billing, _ := p.BillingValue.Float64()
	return PostDTO{
		ID:            string(p.ID),
		SiteID:        p.SiteID,
		Name:          p.Name,
		PatternName:   p.PatternName,
		BillingValue:  billing,
		WorkloadHours: p.WorkloadHours,
		CreatedAt:     p.CreatedAt.String(),
	}
}

func toEmployeeDTO(e roster.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:      string(e.ID),
		Name:    e.Name,
		Email:   e.Email,
		HiredAt: e.HiredAt.String(),
	}
}

func toAssignmentDTO(a roster.Assignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:         string(a.ID),
		PostID:     string(a.PostID),
		EmployeeID: string(a.EmployeeID),
		Start:      a.Start.String(),
	}
	if a.End != nil {
		end := a.End.String()
		dto.End = &end
	}
	return dto
}

func toCoverageDTO(c roster.Coverage) CoverageDTO {
	cost, _ := c.Cost.Float64()
	return CoverageDTO{
		ID:     string(c.ID),
		PostID: string(c.PostID),
		Date:   c.Date.String(),
		Type:   string(c.Type),
		Cost:   cost,
		Note:   c.Note,
	}
}

func toOverrideDTO(o roster.Override) OverrideDTO {
	return OverrideDTO{
		PostID: string(o.PostID),
		Date:   o.Date.String(),
		DayOff: o.DayOff,
	}
}

func toRosterResponse(post roster.Post, anchor roster.Day, year int, month time.Month, days []roster.RosterDay) RosterResponse {
	resp := RosterResponse{
		PostID:      string(post.ID),
		PatternName: post.PatternName,
		Anchor:      anchor.String(),
		Year:        year,
		Month:       int(month),
		Days:        make([]RosterDayDTO, len(days)),
	}
	for i, rd := range days {
		resp.Days[i] = RosterDayDTO{Date: rd.Date.String(), Status: string(rd.Status)}
		if rd.Status == roster.StatusWork {
			resp.WorkDays++
		} else {
			resp.DaysOff++
		}
	}
	return resp
}

func toGlosaResponse(year int, month time.Month, through roster.Day, result glosa.Result) GlosaResponse {
	total, _ := result.TotalLoss.Float64()
	resp := GlosaResponse{
		Year:           year,
		Month:          int(month),
		Through:        through.String(),
		TotalLoss:      total,
		VacantDayCount: result.VacantDayCount,
		Posts:          make([]PostLossDTO, len(result.PerPost)),
	}
	for i, pl := range result.PerPost {
		loss, _ := pl.Loss.Float64()
		dates := make([]string, len(pl.VacantDates))
		for j, d := range pl.VacantDates {
			dates[j] = d.String()
		}
		resp.Posts[i] = PostLossDTO{
			PostID:      string(pl.PostID),
			PostName:    pl.PostName,
			Loss:        loss,
			VacantDays:  pl.VacantDays,
			VacantDates: dates,
		}
	}
	return resp
}
