// Package scope holds the owner-scoping helpers shared by the entity
// services: reference checks and storage error translation.
package scope

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/glassworks-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/glassworks-backend/pkg/errors"
)

// Require confirms that the row with id exists in model's table and belongs
// to userID. A missing row and a row owned by someone else both yield
// NOT_FOUND for resource.
func Require(ctx context.Context, tx *gorm.DB, model any, resource string, userID, id uuid.UUID) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(model).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("check %s", resource))
	}
	if count == 0 {
		return pkgerrors.NotFound(resource)
	}
	return nil
}

// RequireOptional is Require for nullable references; nil passes.
func RequireOptional(ctx context.Context, tx *gorm.DB, model any, resource string, userID uuid.UUID, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	return Require(ctx, tx, model, resource, userID, *id)
}

// Translate maps a storage error onto the API error codes. Typed errors pass
// through untouched so callers can return them from inside transactions.
func Translate(err error, resource, action string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if db.IsNotFound(err) {
		return pkgerrors.NotFound(resource)
	}
	if db.IsUniqueViolation(err) {
		return pkgerrors.Conflict(err, fmt.Sprintf("%s already exists", resource))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
