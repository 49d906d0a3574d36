package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/ticketflow-dev/ticketflow/db"
	"github.com/ticketflow-dev/ticketflow/internal/config"
	"github.com/ticketflow-dev/ticketflow/internal/models"
	"github.com/ticketflow-dev/ticketflow/internal/permissions"
	"github.com/ticketflow-dev/ticketflow/internal/realtime"
	"github.com/ticketflow-dev/ticketflow/internal/types"
	"github.com/ticketflow-dev/ticketflow/internal/utils"
	"gorm.io/gorm"
)

type CreateTicketRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	ProjectID   uint       `json:"projectId" binding:"required"`
	AssigneeID  *uint      `json:"assigneeId"`
	StartDate   *time.Time `json:"startDate"`
	DueDate     *time.Time `json:"dueDate"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func userSummary(u *models.User) *types.UserSummary {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &types.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func ticketResponse(t models.Ticket) types.Ticket {
	return types.Ticket{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		ProjectID:   t.ProjectID,
		Assignee:    userSummary(t.Assignee),
		StartDate:   t.StartDate,
		DueDate:     t.DueDate,
		Attachments: attachmentList(t.Attachments),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func fetchTicket(id uint) (models.Ticket, error) {
	var ticket models.Ticket
	err := db.DB.Preload("Assignee").First(&ticket, id).Error
	return ticket, err
}

// GetTickets lists all tickets for a project with assignees populated.
func GetTickets(ctx *gin.Context) {
	projectIDParam := ctx.Query("projectId")

	if projectIDParam == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Project ID is required"})
		return
	}

	projectID, err := strconv.ParseUint(projectIDParam, 10, 64)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if _, ok := requirePermission(ctx, uint(projectID), permissions.Read); !ok {
		return
	}

	var tickets []models.Ticket

	if err := db.DB.Preload("Assignee").Where("project_id = ?", projectID).Order("created_at").Find(&tickets).Error; err != nil {
		logrus.Errorf("Failed to list tickets for project %d: %v", projectID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tickets"})
		return
	}

	response := make([]types.Ticket, 0, len(tickets))

	for _, ticket := range tickets {
		response = append(response, ticketResponse(ticket))
	}

	ctx.JSON(http.StatusOK, response)
}

// CreateTicket persists a new ticket and publishes ticketCreated on the
// project's topic.
func CreateTicket(ctx *gin.Context) {
	var body CreateTicketRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Title and project ID are required"})
		return
	}

	if _, ok := requirePermission(ctx, body.ProjectID, permissions.ManageTickets); !ok {
		return
	}

	if body.Priority == "" {
		body.Priority = types.PriorityMedium
	}

	if body.Status == "" {
		body.Status = types.StatusTodo
	}

	if !types.ValidPriority(body.Priority) || !types.ValidStatus(body.Status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority or status"})
		return
	}

	if body.AssigneeID != nil && *body.AssigneeID == 0 {
		body.AssigneeID = nil
	}

	ticket := models.Ticket{
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		Status:      body.Status,
		ProjectID:   body.ProjectID,
		AssigneeID:  body.AssigneeID,
		StartDate:   body.StartDate,
		DueDate:     body.DueDate,
		Attachments: attachmentsJSON(nil),
	}

	if err := db.DB.Create(&ticket).Error; err != nil {
		logrus.Errorf("Failed to create ticket: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ticket"})
		return
	}

	populated, err := fetchTicket(ticket.ID)

	if err != nil {
		logrus.Errorf("Failed to load created ticket %d: %v", ticket.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ticket"})
		return
	}

	response := ticketResponse(populated)
	realtime.Default.Publish(ticket.ProjectID, realtime.TicketCreated(&response))

	ctx.JSON(http.StatusCreated, response)
}

// UpdateTicket applies a partial update (see applyTicketUpdate for the
// overwrite rules) and publishes ticketUpdated. Status may move between
// any two columns; there is no workflow ordering.
func UpdateTicket(ctx *gin.Context) {
	ticketID, err := utils.ParseID(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	var ticket models.Ticket

	if err := db.DB.First(&ticket, ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ticket"})
		}
		return
	}

	if _, ok := requirePermission(ctx, ticket.ProjectID, permissions.UpdateTickets); !ok {
		return
	}

	var body UpdateTicketRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := applyTicketUpdate(&ticket, body, config.C.AllowBlankUpdates); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := db.DB.Save(&ticket).Error; err != nil {
		logrus.Errorf("Failed to update ticket %d: %v", ticket.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ticket"})
		return
	}

	populated, err := fetchTicket(ticket.ID)

	if err != nil {
		logrus.Errorf("Failed to load updated ticket %d: %v", ticket.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ticket"})
		return
	}

	response := ticketResponse(populated)
	realtime.Default.Publish(ticket.ProjectID, realtime.TicketUpdated(&response))

	ctx.JSON(http.StatusOK, response)
}

// DeleteTicket removes the ticket and publishes ticketDeleted carrying
// only the id.
func DeleteTicket(ctx *gin.Context) {
	ticketID, err := utils.ParseID(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	var ticket models.Ticket

	if err := db.DB.First(&ticket, ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ticket"})
		}
		return
	}

	if _, ok := requirePermission(ctx, ticket.ProjectID, permissions.ManageTickets); !ok {
		return
	}

	if err := db.DB.Delete(&ticket).Error; err != nil {
		logrus.Errorf("Failed to delete ticket %d: %v", ticket.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete ticket"})
		return
	}

	realtime.Default.Publish(ticket.ProjectID, realtime.TicketDeleted(ticket.ID))

	ctx.JSON(http.StatusOK, gin.H{"message": "Ticket removed"})
}

// UploadAttachment stores a multipart file and returns its served path.
// The caller includes that path in a ticket's attachments on a
// follow-up update.
func UploadAttachment(ctx *gin.Context) {
	file, err := ctx.FormFile("file")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	storedName := uuid.New().String() + filepath.Ext(file.Filename)

	if err := ctx.SaveUploadedFile(file, filepath.Join(config.C.UploadDir, storedName)); err != nil {
		logrus.Errorf("Failed to store upload %q: %v", file.Filename, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"path":     "/uploads/" + storedName,
		"filename": file.Filename,
	})
}

// AddComment appends a comment to a ticket. Comments have no broadcast
// event; threads refresh on fetch.
func AddComment(ctx *gin.Context) {
	ticketID, err := utils.ParseID(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	var ticket models.Ticket

	if err := db.DB.First(&ticket, ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ticket"})
		}
		return
	}

	if _, ok := requirePermission(ctx, ticket.ProjectID, permissions.Comment); !ok {
		return
	}

	var body CreateCommentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Comment content is required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	comment := models.Comment{
		Content:  body.Content,
		AuthorID: userID,
		TicketID: ticket.ID,
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		logrus.Errorf("Failed to create comment on ticket %d: %v", ticket.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	if err := db.DB.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		logrus.Errorf("Failed to load created comment %d: %v", comment.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		return
	}

	ctx.JSON(http.StatusCreated, types.Comment{
		ID:        comment.ID,
		Content:   comment.Content,
		Author:    userSummary(&comment.Author),
		TicketID:  comment.TicketID,
		CreatedAt: comment.CreatedAt,
	})
}

// GetComments returns a ticket's comments in ascending creation order.
func GetComments(ctx *gin.Context) {
	ticketID, err := utils.ParseID(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	var ticket models.Ticket

	if err := db.DB.First(&ticket, ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ticket"})
		}
		return
	}

	if _, ok := requirePermission(ctx, ticket.ProjectID, permissions.Read); !ok {
		return
	}

	var comments []models.Comment

	if err := db.DB.Preload("Author").Where("ticket_id = ?", ticket.ID).Order("created_at").Find(&comments).Error; err != nil {
		logrus.Errorf("Failed to list comments for ticket %d: %v", ticket.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	response := make([]types.Comment, 0, len(comments))

	for _, comment := range comments {
		response = append(response, types.Comment{
			ID:        comment.ID,
			Content:   comment.Content,
			Author:    userSummary(&comment.Author),
			TicketID:  comment.TicketID,
			CreatedAt: comment.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, response)
}
