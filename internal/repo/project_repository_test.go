package repo

import (
	"Niquel/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestProjectRepository_ListVisibility(t *testing.T) {
	db := newTestDB(t)
	r := NewProjectRepository(db)
	ctx := testCtx()

	owner := seedUser(t, db, "owner@example.com", model.RoleRegular)
	member := seedUser(t, db, "member@example.com", model.RoleRegular)
	stranger := seedUser(t, db, "stranger@example.com", model.RoleRegular)

	owned := seedProject(t, db, "Propio", owner.ID)
	assigned := seedProject(t, db, "Asignado", stranger.ID)
	seedProject(t, db, "Ajeno", stranger.ID)

	assert.NoError(t, db.Create(&model.UserAssignment{UserID: member.ID, ProjectID: assigned.ID, Role: model.AssignmentRoleViewer}).Error)
	assert.NoError(t, db.Create(&model.UserAssignment{UserID: owner.ID, ProjectID: assigned.ID, Role: model.AssignmentRoleEditor}).Error)

	// владелец видит свой проект и проект, куда назначен
	list, err := r.ListProjects(ctx, ProjectFilter{VisibleToUserID: owner.ID}, 0, 10)
	assert.NoError(t, err)
	assert.Len(t, list, 2)

	total, err := r.CountProjects(ctx, ProjectFilter{VisibleToUserID: owner.ID})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// без фильтра видимости — все проекты
	total, err = r.CountProjects(ctx, ProjectFilter{})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)

	// фильтр по статусу
	_, err = r.UpdateProject(ctx, owned.ID, map[string]any{"status": model.ProjectStatusCompleted})
	assert.NoError(t, err)
	list, err = r.ListProjects(ctx, ProjectFilter{Status: model.ProjectStatusCompleted}, 0, 10)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, owned.ID, list[0].ID)
}

func TestProjectRepository_DeleteCascade(t *testing.T) {
	db := newTestDB(t)
	r := NewProjectRepository(db)
	ctx := testCtx()

	owner := seedUser(t, db, "owner@example.com", model.RoleRegular)
	member := seedUser(t, db, "member@example.com", model.RoleRegular)
	project := seedProject(t, db, "Rio Sur", owner.ID)
	period := seedPeriod(t, db, project.ID, "Mayo")

	// дети: файл проекта, файл периода, геоточка с изображением, назначение
	assert.NoError(t, db.Create(&model.File{Name: "a.pdf", Path: "/tmp/a.pdf", Size: 1, ContentType: "application/pdf", Category: model.FileCategoryDocument, ProjectID: &project.ID}).Error)
	assert.NoError(t, db.Create(&model.File{Name: "b.pdf", Path: "/tmp/b.pdf", Size: 1, ContentType: "application/pdf", Category: model.FileCategoryDocument, ProjectID: &project.ID, PeriodID: &period.ID}).Error)
	gp := &model.GeoPoint{PeriodID: period.ID, Latitude: 1, Longitude: 2, GravityLevel: 2}
	assert.NoError(t, db.Create(gp).Error)
	assert.NoError(t, db.Create(&model.GeoPointImage{GeoPointID: gp.ID, FileName: "img.png", Path: "/tmp/img.png", Size: 1, ContentType: "image/png"}).Error)
	assert.NoError(t, db.Create(&model.UserAssignment{UserID: member.ID, ProjectID: project.ID, Role: model.AssignmentRoleAdmin}).Error)

	assert.NoError(t, r.DeleteProject(ctx, project.ID))

	for name, count := range map[string]int64{
		"projects":    tableCount(db, &model.Project{}),
		"periods":     tableCount(db, &model.Period{}),
		"files":       tableCount(db, &model.File{}),
		"geo_points":  tableCount(db, &model.GeoPoint{}),
		"images":      tableCount(db, &model.GeoPointImage{}),
		"assignments": tableCount(db, &model.UserAssignment{}),
	} {
		assert.Zero(t, count, "table %s must be empty after cascade", name)
	}

	// пользователи остаются
	assert.Equal(t, int64(2), tableCount(db, &model.User{}))

	assert.Equal(t, gorm.ErrRecordNotFound, r.DeleteProject(ctx, project.ID))
}

func tableCount(db *gorm.DB, m any) int64 {
	var n int64
	db.Model(m).Count(&n)
	return n
}

func TestProjectRepository_Stats(t *testing.T) {
	db := newTestDB(t)
	r := NewProjectRepository(db)
	ctx := testCtx()

	owner := seedUser(t, db, "owner@example.com", model.RoleRegular)
	project := seedProject(t, db, "Laguna", owner.ID)
	seedPeriod(t, db, project.ID, "Junio")
	seedPeriod(t, db, project.ID, "Julio")
	assert.NoError(t, db.Create(&model.File{Name: "a.csv", Path: "/tmp/a.csv", Size: 1, ContentType: "text/csv", Category: model.FileCategoryAnalysis, ProjectID: &project.ID}).Error)

	stats, err := r.GetProjectStats(ctx, project.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.PeriodCount)
	assert.Equal(t, int64(1), stats.FileCount)
	assert.Equal(t, int64(0), stats.AssignedUsersCount)
}
