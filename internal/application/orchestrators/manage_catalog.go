package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"diylab/internal/domain/course"
	"diylab/internal/domain/workshop"
)

// BackendForCatalogAdmin defines the backend surface needed by the
// workshop and course back-office actions.
type BackendForCatalogAdmin interface {
	CreateWorkshop(ctx context.Context, cookie string, w workshop.Workshop) error
	UpdateWorkshop(ctx context.Context, cookie string, w workshop.Workshop) error
	DeleteWorkshop(ctx context.Context, cookie, id string) error
	SaveCourse(ctx context.Context, cookie string, crs course.Course) error
	DeleteCourse(ctx context.Context, cookie, id string) error
}

// ManageCatalogDeps holds dependencies for the catalog actions.
type ManageCatalogDeps struct {
	Backend BackendForCatalogAdmin
}

var ErrEmptyCourseTitle = errors.New("course title cannot be empty")

// ExecuteSaveWorkshop creates or updates a workshop. An empty ID means
// create. Validation runs before the network call.
func ExecuteSaveWorkshop(ctx context.Context, cookie string, w workshop.Workshop, deps ManageCatalogDeps) error {
	if err := w.Validate(); err != nil {
		return err
	}

	var err error
	if w.ID == "" {
		err = deps.Backend.CreateWorkshop(ctx, cookie, w)
	} else {
		err = deps.Backend.UpdateWorkshop(ctx, cookie, w)
	}
	if err != nil {
		slog.Info("admin_event", "event", "workshop_save_failed", "title", w.Title, "reason", err.Error())
		return err
	}
	slog.Info("admin_event", "event", "workshop_saved", "title", w.Title)
	return nil
}

// ExecuteDeleteWorkshop removes a workshop listing.
func ExecuteDeleteWorkshop(ctx context.Context, cookie, id string, deps ManageCatalogDeps) error {
	if err := deps.Backend.DeleteWorkshop(ctx, cookie, id); err != nil {
		slog.Info("admin_event", "event", "workshop_delete_failed", "id", id, "reason", err.Error())
		return err
	}
	slog.Info("admin_event", "event", "workshop_deleted", "id", id)
	return nil
}

// ExecuteSaveCourse creates or updates a course listing.
func ExecuteSaveCourse(ctx context.Context, cookie string, crs course.Course, deps ManageCatalogDeps) error {
	if crs.Title == "" {
		return ErrEmptyCourseTitle
	}
	if err := deps.Backend.SaveCourse(ctx, cookie, crs); err != nil {
		slog.Info("admin_event", "event", "course_save_failed", "title", crs.Title, "reason", err.Error())
		return err
	}
	slog.Info("admin_event", "event", "course_saved", "title", crs.Title)
	return nil
}

// ExecuteDeleteCourse removes a course listing.
func ExecuteDeleteCourse(ctx context.Context, cookie, id string, deps ManageCatalogDeps) error {
	if err := deps.Backend.DeleteCourse(ctx, cookie, id); err != nil {
		slog.Info("admin_event", "event", "course_delete_failed", "id", id, "reason", err.Error())
		return err
	}
	slog.Info("admin_event", "event", "course_deleted", "id", id)
	return nil
}
