package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"agency-backend/internal/database"
	"agency-backend/internal/models"
)

type LogOptions struct {
	UserID        string
	UserName      string
	ActorRole     models.Role
	EffectiveRole models.Role
	EntityType    string
	EntityID      string
	Action        models.AuditAction
	Description   string
	Before        any
	After         any
}

func WriteLog(opts LogOptions) error {
	// jsonb columns want the JSON null literal, not an empty string
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		UserID:        opts.UserID,
		UserName:      opts.UserName,
		ActorRole:     opts.ActorRole,
		EffectiveRole: opts.EffectiveRole,
		EntityType:    opts.EntityType,
		EntityID:      opts.EntityID,
		Action:        opts.Action,
		Description:   opts.Description,
		BeforeData:    beforeStr,
		AfterData:     afterStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("could not write audit log: %w", err)
	}

	return nil
}

// UndoLog reverses a logged change: a create is deleted, an update is
// rolled back to its before state, a delete is recreated from its before
// state. The reversed log is marked and a fresh undo entry is written.
func UndoLog(logID string, userID, userName string, actorRole, effectiveRole models.Role) error {
	var entry models.AuditLog
	if err := database.DB.First(&entry, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log not found: %w", err)
	}

	if entry.IsUndone {
		return fmt.Errorf("this change was already undone")
	}

	switch entry.Action {
	case models.AuditActionCreate:
		if err := deleteEntity(entry.EntityType, entry.EntityID); err != nil {
			return fmt.Errorf("could not delete entity: %w", err)
		}

	case models.AuditActionUpdate:
		if err := restoreEntity(entry.EntityType, entry.EntityID, entry.BeforeData); err != nil {
			return fmt.Errorf("could not restore entity: %w", err)
		}

	case models.AuditActionDelete:
		if err := recreateEntity(entry.EntityType, entry.BeforeData); err != nil {
			return fmt.Errorf("could not recreate entity: %w", err)
		}

	default:
		return fmt.Errorf("this action cannot be undone")
	}

	now := time.Now()
	entry.IsUndone = true
	entry.UndoneBy = &userID
	entry.UndoneAt = &now

	if err := database.DB.Save(&entry).Error; err != nil {
		return fmt.Errorf("could not update log: %w", err)
	}

	undoEntry := models.AuditLog{
		UserID:        userID,
		UserName:      userName,
		ActorRole:     actorRole,
		EffectiveRole: effectiveRole,
		EntityType:    entry.EntityType,
		EntityID:      entry.EntityID,
		Action:        models.AuditActionUndo,
		Description:   fmt.Sprintf("Undone: %s", entry.Description),
		BeforeData:    entry.AfterData,
		AfterData:     entry.BeforeData,
	}

	if err := database.DB.Create(&undoEntry).Error; err != nil {
		return fmt.Errorf("could not write undo log: %w", err)
	}

	return nil
}

func deleteEntity(entityType, entityID string) error {
	switch entityType {
	case "transaction":
		return database.DB.Delete(&models.Transaction{}, "id = ?", entityID).Error
	case "lead":
		return database.DB.Delete(&models.Lead{}, "id = ?", entityID).Error
	case "subscription":
		return database.DB.Delete(&models.Subscription{}, "id = ?", entityID).Error
	case "resource":
		return database.DB.Delete(&models.Resource{}, "id = ?", entityID).Error
	case "post":
		return database.DB.Delete(&models.Post{}, "id = ?", entityID).Error
	case "project":
		return database.DB.Delete(&models.Project{}, "id = ?", entityID).Error
	case "task":
		return database.DB.Delete(&models.Task{}, "id = ?", entityID).Error
	case "user":
		return database.DB.Delete(&models.User{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}

func restoreEntity(entityType, entityID, dataJSON string) error {
	entity, err := decodeForRestore(entityType, entityID, dataJSON)
	if err != nil {
		return err
	}
	return database.DB.Save(entity).Error
}

func recreateEntity(entityType, dataJSON string) error {
	entity, err := decodeForRecreate(entityType, dataJSON)
	if err != nil {
		return err
	}
	return database.DB.Create(entity).Error
}

// decodeForRestore turns a logged snapshot back into the model it came
// from, keyed to the logged entity id so the write lands on the same row.
// Only the entity types whose handlers log updates appear here.
func decodeForRestore(entityType, entityID, dataJSON string) (any, error) {
	switch entityType {
	case "lead":
		var lead models.Lead
		if err := json.Unmarshal([]byte(dataJSON), &lead); err != nil {
			return nil, err
		}
		lead.ID = entityID
		return &lead, nil

	case "subscription":
		var sub models.Subscription
		if err := json.Unmarshal([]byte(dataJSON), &sub); err != nil {
			return nil, err
		}
		sub.ID = entityID
		return &sub, nil

	case "project":
		var project models.Project
		if err := json.Unmarshal([]byte(dataJSON), &project); err != nil {
			return nil, err
		}
		project.ID = entityID
		return &project, nil

	case "task":
		var task models.Task
		if err := json.Unmarshal([]byte(dataJSON), &task); err != nil {
			return nil, err
		}
		task.ID = entityID
		return &task, nil

	case "user":
		var user models.User
		if err := json.Unmarshal([]byte(dataJSON), &user); err != nil {
			return nil, err
		}
		user.ID = entityID
		return &user, nil

	default:
		return nil, fmt.Errorf("unknown entity type: %s", entityType)
	}
}

// decodeForRecreate turns a logged snapshot into a fresh model with its id
// cleared, so the store assigns a new one on insert.
func decodeForRecreate(entityType, dataJSON string) (any, error) {
	switch entityType {
	case "transaction":
		var tx models.Transaction
		if err := json.Unmarshal([]byte(dataJSON), &tx); err != nil {
			return nil, err
		}
		tx.ID = ""
		return &tx, nil

	case "lead":
		var lead models.Lead
		if err := json.Unmarshal([]byte(dataJSON), &lead); err != nil {
			return nil, err
		}
		lead.ID = ""
		return &lead, nil

	case "subscription":
		var sub models.Subscription
		if err := json.Unmarshal([]byte(dataJSON), &sub); err != nil {
			return nil, err
		}
		sub.ID = ""
		return &sub, nil

	case "resource":
		var res models.Resource
		if err := json.Unmarshal([]byte(dataJSON), &res); err != nil {
			return nil, err
		}
		res.ID = ""
		return &res, nil

	case "post":
		var post models.Post
		if err := json.Unmarshal([]byte(dataJSON), &post); err != nil {
			return nil, err
		}
		post.ID = ""
		post.Author = nil
		return &post, nil

	case "project":
		var project models.Project
		if err := json.Unmarshal([]byte(dataJSON), &project); err != nil {
			return nil, err
		}
		project.ID = ""
		return &project, nil

	case "task":
		var task models.Task
		if err := json.Unmarshal([]byte(dataJSON), &task); err != nil {
			return nil, err
		}
		task.ID = ""
		task.Project = nil
		return &task, nil

	case "user":
		var user models.User
		if err := json.Unmarshal([]byte(dataJSON), &user); err != nil {
			return nil, err
		}
		user.ID = ""
		return &user, nil

	default:
		return nil, fmt.Errorf("unknown entity type: %s", entityType)
	}
}
