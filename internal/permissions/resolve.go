package permissions

import (
	"errors"

	"github.com/ticketflow-dev/ticketflow/db"
	"github.com/ticketflow-dev/ticketflow/internal/models"
	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

// Resolve computes the caller's ActorRole for a project. It returns
// ErrProjectNotFound when the project does not exist; a user who is
// neither owner nor member resolves to the zero ActorRole, which denies
// every action.
func Resolve(projectID, userID uint) (ActorRole, error) {
	var project models.Project

	if err := db.DB.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ActorRole{}, ErrProjectNotFound
		}
		return ActorRole{}, err
	}

	if project.OwnerID == userID {
		return ActorRole{IsOwner: true}, nil
	}

	var membership models.ProjectMembership

	err := db.DB.Where("project_id = ? AND user_id = ?", projectID, userID).First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ActorRole{}, nil
		}
		return ActorRole{}, err
	}

	return ActorRole{IsMember: true, Role: Role(membership.Role)}, nil
}
