package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ticketflow-dev/ticketflow/db"
	"github.com/ticketflow-dev/ticketflow/internal/config"
	"github.com/ticketflow-dev/ticketflow/internal/models"
	"github.com/ticketflow-dev/ticketflow/internal/permissions"
	"github.com/ticketflow-dev/ticketflow/internal/services"
	"github.com/ticketflow-dev/ticketflow/internal/types"
	"github.com/ticketflow-dev/ticketflow/internal/utils"
	"gorm.io/gorm"
)

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type MemberResponse struct {
	User types.UserSummary `json:"user"`
	Role string            `json:"role"`
}

type ProjectResponse struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Owner       *types.UserSummary `json:"owner,omitempty"`
	OwnerID     uint               `json:"ownerId"`
	Members     []MemberResponse   `json:"members,omitempty"`
}

func projectResponse(project models.Project, withMembers bool) ProjectResponse {
	response := ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		Owner:       userSummary(&project.Owner),
	}

	if withMembers {
		response.Members = make([]MemberResponse, 0, len(project.ProjectMemberships))
		for _, m := range project.ProjectMemberships {
			response.Members = append(response.Members, MemberResponse{
				User: types.UserSummary{ID: m.User.ID, Name: m.User.Name, Email: m.User.Email},
				Role: m.Role,
			})
		}
	}

	return response
}

func CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Project name is required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project := models.Project{
		Name:        body.Name,
		Description: body.Description,
		OwnerID:     userID,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		logrus.Errorf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	ctx.JSON(http.StatusCreated, projectResponse(project, false))
}

// ListProjects returns every project the caller owns or belongs to.
func ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	memberOf := db.DB.Model(&models.ProjectMembership{}).Select("project_id").Where("user_id = ?", userID)

	var projects []models.Project

	if err := db.DB.Preload("Owner").Where("owner_id = ?", userID).Or("id IN (?)", memberOf).Find(&projects).Error; err != nil {
		logrus.Errorf("Failed to list projects for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, projectResponse(project, false))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetProject(ctx *gin.Context) {
	projectID, err := utils.ParseID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if _, ok := requirePermission(ctx, projectID, permissions.Read); !ok {
		return
	}

	var project models.Project

	if err := db.DB.Preload("Owner").Preload("ProjectMemberships.User").First(&project, projectID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(project, true))
}

func UpdateProject(ctx *gin.Context) {
	projectID, err := utils.ParseID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if _, ok := requirePermission(ctx, projectID, permissions.ManageProject); !ok {
		return
	}

	var body UpdateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Project name is required"})
		return
	}

	var project models.Project

	if err := db.DB.First(&project, projectID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	project.Name = body.Name
	project.Description = body.Description

	if err := db.DB.Save(&project).Error; err != nil {
		logrus.Errorf("Failed to update project %d: %v", project.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(project, false))
}

func DeleteProject(ctx *gin.Context) {
	projectID, err := utils.ParseID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if _, ok := requirePermission(ctx, projectID, permissions.ManageProject); !ok {
		return
	}

	if err := db.DB.Delete(&models.Project{}, projectID).Error; err != nil {
		logrus.Errorf("Failed to delete project %d: %v", projectID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// AddMember adds a registered user to the project by email, or sends an
// invitation email when no account exists for the address.
func AddMember(ctx *gin.Context) {
	projectID, err := utils.ParseID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if _, ok := requirePermission(ctx, projectID, permissions.ManageMembers); !ok {
		return
	}

	var body AddMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}

	role := permissions.RoleDeveloper

	if body.Role != "" {
		role = permissions.Role(body.Role)
		if !permissions.Assignable(role) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
	}

	var project models.Project

	if err := db.DB.First(&project, projectID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	var user models.User

	if err := db.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			inviteLink := fmt.Sprintf("%s/register?email=%s", config.C.ClientURL, body.Email)
			if err := services.SendInvitationEmail(body.Email, project.Name, inviteLink); err != nil {
				logrus.Errorf("Failed to send invitation to %s: %v", body.Email, err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "User not found and failed to send invitation email"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("User not found. Invitation sent to %s", body.Email)})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}

	if user.ID == project.OwnerID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "User already in project"})
		return
	}

	var existing models.ProjectMembership

	if err := db.DB.Where("project_id = ? AND user_id = ?", projectID, user.ID).First(&existing).Error; err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "User already in project"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up membership"})
		return
	}

	membership := models.ProjectMembership{
		UserID:    user.ID,
		ProjectID: projectID,
		Role:      string(role),
	}

	if err := db.DB.Create(&membership).Error; err != nil {
		logrus.Errorf("Failed to add member %d to project %d: %v", user.ID, projectID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	// Not on the hot path; a failed email never fails the mutation.
	if err := services.SendAddedNotification(user.Email, project.Name); err != nil {
		logrus.Warnf("Failed to notify %s about project %d: %v", user.Email, projectID, err)
	}

	ctx.JSON(http.StatusCreated, MemberResponse{
		User: types.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email},
		Role: membership.Role,
	})
}

func UpdateMemberRole(ctx *gin.Context) {
	projectID, err := utils.ParseID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	userID, err := utils.ParseID(ctx, "user_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if _, ok := requirePermission(ctx, projectID, permissions.ManageMembers); !ok {
		return
	}

	var body UpdateMemberRoleRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Role is required"})
		return
	}

	if !permissions.Assignable(permissions.Role(body.Role)) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	var membership models.ProjectMembership

	if err := db.DB.Preload("User").Where("project_id = ? AND user_id = ?", projectID, userID).First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Member not found in project"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up membership"})
		}
		return
	}

	membership.Role = body.Role

	if err := db.DB.Save(&membership).Error; err != nil {
		logrus.Errorf("Failed to update role for member %d in project %d: %v", userID, projectID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member role"})
		return
	}

	ctx.JSON(http.StatusOK, MemberResponse{
		User: types.UserSummary{ID: membership.User.ID, Name: membership.User.Name, Email: membership.User.Email},
		Role: membership.Role,
	})
}

func RemoveMember(ctx *gin.Context) {
	projectID, err := utils.ParseID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	userID, err := utils.ParseID(ctx, "user_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if _, ok := requirePermission(ctx, projectID, permissions.ManageMembers); !ok {
		return
	}

	result := db.DB.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&models.ProjectMembership{})

	if result.Error != nil {
		logrus.Errorf("Failed to remove member %d from project %d: %v", userID, projectID, result.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Member not found in project"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
