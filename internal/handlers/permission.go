package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ticketflow-dev/ticketflow/internal/permissions"
	"github.com/ticketflow-dev/ticketflow/internal/utils"
)

// resolveActor is swappable so the denial paths can be exercised
// without a database.
var resolveActor = permissions.Resolve

// requirePermission is the authorization boundary: it resolves the
// caller's ActorRole for the project exactly once and enforces the
// requested action. On failure it writes the response and returns
// ok=false. Any UI-side gating is a convenience only — this check runs
// regardless.
func requirePermission(ctx *gin.Context, projectID uint, action permissions.Action) (permissions.ActorRole, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return permissions.ActorRole{}, false
	}

	role, err := resolveActor(projectID, userID)

	if err != nil {
		if errors.Is(err, permissions.ErrProjectNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			logrus.Errorf("Permission check failed for user %d on project %d: %v", userID, projectID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during permission check"})
		}
		return permissions.ActorRole{}, false
	}

	if !role.IsOwner && !role.IsMember {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Access denied: Not a member of this project"})
		return permissions.ActorRole{}, false
	}

	if !role.Allows(action) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("Access denied: Requires %s permission", action)})
		return permissions.ActorRole{}, false
	}

	return role, true
}
