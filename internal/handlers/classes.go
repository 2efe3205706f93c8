package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/middleware"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/models"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/service"
)

type assignmentResponse struct {
	ID         string    `json:"id"`
	TeacherID  string    `json:"teacherId"`
	ClassName  string    `json:"className"`
	Section    string    `json:"section"`
	Subject    string    `json:"subject"`
	IsHomeroom bool      `json:"isHomeroom"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toAssignmentResponses(assignments []models.ClassAssignment) []assignmentResponse {
	resp := make([]assignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		resp = append(resp, assignmentResponse{
			ID:         a.ID,
			TeacherID:  a.TeacherID,
			ClassName:  a.ClassName,
			Section:    a.Section,
			Subject:    a.Subject,
			IsHomeroom: a.IsHomeroom,
			CreatedAt:  a.CreatedAt,
		})
	}
	return resp
}

func (h HandlerSet) MyClasses(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)

	assignments, err := h.classService.ForTeacher(c.Request.Context(), actor.ID)
	if err != nil {
		h.internalError(c, err, "list classes failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": toAssignmentResponses(assignments)})
}

type studentResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	ClassName  string `json:"className"`
	Section    string `json:"section"`
	RollNumber int    `json:"rollNumber"`
}

func (h HandlerSet) ClassRoster(c *gin.Context) {
	students, err := h.classService.Roster(c.Request.Context(), c.Param("className"), c.Param("section"))
	if err != nil {
		h.internalError(c, err, "list students failed")
		return
	}

	resp := make([]studentResponse, 0, len(students))
	for _, s := range students {
		resp = append(resp, studentResponse{
			ID:         s.ID,
			Name:       s.Name,
			Email:      s.Email,
			ClassName:  s.ClassName,
			Section:    s.Section,
			RollNumber: s.RollNumber,
		})
	}

	c.JSON(http.StatusOK, gin.H{"students": resp})
}

type assignmentRequest struct {
	TeacherID  string `json:"teacherId" binding:"required"`
	ClassName  string `json:"className" binding:"required"`
	Section    string `json:"section" binding:"required"`
	Subject    string `json:"subject" binding:"required"`
	IsHomeroom bool   `json:"isHomeroom"`
}

func (h HandlerSet) CreateAssignment(c *gin.Context) {
	var req assignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "teacherId, className, section and subject are required"})
		return
	}

	assignment, err := h.classService.Assign(c.Request.Context(), service.AssignInput{
		TeacherID:  req.TeacherID,
		ClassName:  req.ClassName,
		Section:    req.Section,
		Subject:    req.Subject,
		IsHomeroom: req.IsHomeroom,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrHomeroomTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Class already has a homeroom teacher"})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment"})
		default:
			h.internalError(c, err, "create assignment failed")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"assignment": toAssignmentResponses([]models.ClassAssignment{assignment})[0]})
}

func (h HandlerSet) TeacherAssignments(c *gin.Context) {
	assignments, err := h.classService.ForTeacher(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.internalError(c, err, "list assignments failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": toAssignmentResponses(assignments)})
}

func (h HandlerSet) DeleteAssignment(c *gin.Context) {
	if err := h.classService.Unassign(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
			return
		}
		h.internalError(c, err, "delete assignment failed")
		return
	}

	c.Status(http.StatusNoContent)
}
