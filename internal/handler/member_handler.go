package handler

import (
	"errors"
	"net/http"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/hbenali/sunduq-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// MemberHandler handles member-related HTTP requests
type MemberHandler struct {
	memberService *service.MemberService
	reportService *service.ReportService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *service.MemberService, reportService *service.ReportService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		reportService: reportService,
	}
}

// CreateMemberRequest represents the create member request body
type CreateMemberRequest struct {
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	JoinDate *string `json:"joinDate,omitempty"`
}

// UpdateMemberRequest represents the update member request body
type UpdateMemberRequest struct {
	Name                  *string `json:"name,omitempty"`
	Role                  *string `json:"role,omitempty"`
	Email                 *string `json:"email,omitempty"`
	Phone                 *string `json:"phone,omitempty"`
	CustomRepaymentMonths []int32 `json:"customRepaymentMonths,omitempty"`
}

// UpdateStatusRequest represents the status change request body
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CreateMember handles POST /api/v1/members
func (h *MemberHandler) CreateMember(c echo.Context) error {
	var req CreateMemberRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError(c, "invalid request body")
	}

	input := service.CreateMemberInput{
		Name:  req.Name,
		Role:  domain.MemberRole(req.Role),
		Email: req.Email,
		Phone: req.Phone,
	}
	if req.JoinDate != nil {
		joinDate, err := parseDate(*req.JoinDate)
		if err != nil {
			return NewBadRequestError(c, "joinDate must be YYYY-MM-DD")
		}
		input.JoinDate = &joinDate
	}

	member, result, err := h.memberService.CreateMember(input)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create member")
		return NewInternalError(c, "failed to create member")
	}
	if !result.IsValid {
		return NewValidationFailed(c, result)
	}

	return c.JSON(http.StatusCreated, member)
}

// GetMembers handles GET /api/v1/members
func (h *MemberHandler) GetMembers(c echo.Context) error {
	members, err := h.memberService.GetMembers()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list members")
		return NewInternalError(c, "failed to list members")
	}
	return c.JSON(http.StatusOK, members)
}

// GetMember handles GET /api/v1/members/:id
func (h *MemberHandler) GetMember(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	member, err := h.memberService.GetMemberByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return NewNotFoundError(c, "member not found")
		}
		log.Error().Err(err).Int32("member_id", id).Msg("Failed to get member")
		return NewInternalError(c, "failed to get member")
	}
	return c.JSON(http.StatusOK, member)
}

// UpdateMember handles PUT /api/v1/members/:id
func (h *MemberHandler) UpdateMember(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateMemberRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError(c, "invalid request body")
	}

	input := service.UpdateMemberInput{
		Name:                  req.Name,
		Email:                 req.Email,
		Phone:                 req.Phone,
		CustomRepaymentMonths: req.CustomRepaymentMonths,
	}
	if req.Role != nil {
		role := domain.MemberRole(*req.Role)
		input.Role = &role
	}

	member, err := h.memberService.UpdateMember(id, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return NewNotFoundError(c, "member not found")
		case errors.Is(err, domain.ErrMemberNameTooShort), errors.Is(err, domain.ErrMemberRoleInvalid):
			return NewBadRequestError(c, err.Error())
		}
		log.Error().Err(err).Int32("member_id", id).Msg("Failed to update member")
		return NewInternalError(c, "failed to update member")
	}
	return c.JSON(http.StatusOK, member)
}

// UpdateStatus handles PATCH /api/v1/members/:id/status
func (h *MemberHandler) UpdateStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError(c, "invalid request body")
	}

	member, err := h.memberService.UpdateStatus(id, domain.MemberStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return NewNotFoundError(c, "member not found")
		case errors.Is(err, domain.ErrMemberStatusInvalid):
			return NewBadRequestError(c, err.Error())
		}
		log.Error().Err(err).Int32("member_id", id).Msg("Failed to update member status")
		return NewInternalError(c, "failed to update member status")
	}
	return c.JSON(http.StatusOK, member)
}

// CashOut handles POST /api/v1/members/:id/cash-out
func (h *MemberHandler) CashOut(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	member, result, err := h.memberService.CashOut(id)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return NewNotFoundError(c, "member not found")
		}
		log.Error().Err(err).Int32("member_id", id).Msg("Failed to cash out member")
		return NewInternalError(c, "failed to cash out member")
	}
	if !result.IsValid {
		return NewValidationFailed(c, result)
	}
	return c.JSON(http.StatusOK, member)
}

// DeleteMember handles DELETE /api/v1/members/:id
func (h *MemberHandler) DeleteMember(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.memberService.DeleteMember(id); err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return NewNotFoundError(c, "member not found")
		case errors.Is(err, domain.ErrMemberHasActiveLoans):
			return NewConflictError(c, "member still has active loans")
		}
		log.Error().Err(err).Int32("member_id", id).Msg("Failed to delete member")
		return NewInternalError(c, "failed to delete member")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetMemberReport handles GET /api/v1/members/:id/report
func (h *MemberHandler) GetMemberReport(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	report, err := h.reportService.MemberReport(id)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return NewNotFoundError(c, "member not found")
		}
		log.Error().Err(err).Int32("member_id", id).Msg("Failed to build member report")
		return NewInternalError(c, "failed to build member report")
	}
	return c.JSON(http.StatusOK, report)
}
