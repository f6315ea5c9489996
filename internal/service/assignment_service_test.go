package service

import (
	"Niquel/internal/apperr"
	"Niquel/internal/model"
	"Niquel/internal/repo"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newAssignmentService(db *gorm.DB) *AssignmentService {
	return NewAssignmentService(
		repo.NewAssignmentRepository(db),
		repo.NewProjectRepository(db),
		repo.NewUserRepository(db),
		newTestAccess(db),
	)
}

func TestAssignmentService_CreateAndDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)
	ctx := testCtx()

	owner := seedUser(t, db, "owner@example.com", model.RoleRegular)
	member := seedUser(t, db, "member@example.com", model.RoleRegular)
	project := seedProject(t, db, "Rio", owner.ID)

	a, err := svc.Create(ctx, owner, project.ID, member.ID, model.AssignmentRoleEditor)
	assert.NoError(t, err)
	assert.Equal(t, model.AssignmentRoleEditor, a.Role)
	assert.Equal(t, &owner.ID, a.AssignedBy)

	// повторное назначение той же пары — конфликт
	_, err = svc.Create(ctx, owner, project.ID, member.ID, model.AssignmentRoleViewer)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestAssignmentService_MutationsRequireAdminTier(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)
	ctx := testCtx()

	owner := seedUser(t, db, "owner@example.com", model.RoleRegular)
	editor := seedUser(t, db, "editor@example.com", model.RoleRegular)
	member := seedUser(t, db, "member@example.com", model.RoleRegular)
	project := seedProject(t, db, "Rio", owner.ID)
	assign(t, db, editor.ID, project.ID, model.AssignmentRoleEditor)

	// editor может читать назначения, но не менять их
	_, _, err := svc.ListByProject(ctx, editor, project.ID, "", 0, 100)
	assert.NoError(t, err)

	_, err = svc.Create(ctx, editor, project.ID, member.ID, model.AssignmentRoleViewer)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestAssignmentService_UpdateRole(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)
	ctx := testCtx()

	owner := seedUser(t, db, "owner@example.com", model.RoleRegular)
	member := seedUser(t, db, "member@example.com", model.RoleRegular)
	project := seedProject(t, db, "Rio", owner.ID)
	a := assign(t, db, member.ID, project.ID, model.AssignmentRoleViewer)

	updated, err := svc.UpdateRole(ctx, owner, a.ID, model.AssignmentRoleAdmin)
	assert.NoError(t, err)
	assert.Equal(t, model.AssignmentRoleAdmin, updated.Role)

	_, err = svc.UpdateRole(ctx, owner, a.ID, "superuser")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestAssignmentService_BatchAssignSkipsUnknownUsers(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)
	ctx := testCtx()

	owner := seedUser(t, db, "owner@example.com", model.RoleRegular)
	u1 := seedUser(t, db, "u1@example.com", model.RoleRegular)
	u2 := seedUser(t, db, "u2@example.com", model.RoleRegular)
	project := seedProject(t, db, "Rio", owner.ID)

	// u2 уже назначен viewer — batch должен обновить роль на месте
	assign(t, db, u2.ID, project.ID, model.AssignmentRoleViewer)

	ids := []string{u1.ID, "missing-user-id", u2.ID}
	result, err := svc.BatchAssign(ctx, owner, project.ID, model.AssignmentRoleEditor, ids)
	assert.NoError(t, err)
	assert.Len(t, result, 2)
	for _, a := range result {
		assert.Equal(t, model.AssignmentRoleEditor, a.Role)
	}

	// вторая строка для u2 не появилась
	var count int64
	db.Model(&model.UserAssignment{}).Where("project_id = ?", project.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestAssignmentService_DeleteRestoresDenial(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)
	access := newTestAccess(db)
	ctx := testCtx()

	owner := seedUser(t, db, "owner@example.com", model.RoleRegular)
	member := seedUser(t, db, "member@example.com", model.RoleRegular)
	project := seedProject(t, db, "Rio", owner.ID)
	a := assign(t, db, member.ID, project.ID, model.AssignmentRoleViewer)

	ok, err := access.CanView(ctx, member, project.ID)
	assert.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, svc.Delete(ctx, owner, a.ID))

	ok, err = access.CanView(ctx, member, project.ID)
	assert.NoError(t, err)
	assert.False(t, ok)
}
