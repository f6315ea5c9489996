package service

import (
	"Niquel/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessService_Tiers(t *testing.T) {
	db := newTestDB(t)
	access := newTestAccess(db)
	ctx := testCtx()

	owner := seedUser(t, db, "owner@example.com", model.RoleRegular)
	globalAdmin := seedUser(t, db, "root@example.com", model.RoleAdmin)
	manager := seedUser(t, db, "manager@example.com", model.RoleManager)
	viewer := seedUser(t, db, "viewer@example.com", model.RoleRegular)
	editor := seedUser(t, db, "editor@example.com", model.RoleRegular)
	projAdmin := seedUser(t, db, "padmin@example.com", model.RoleRegular)
	stranger := seedUser(t, db, "stranger@example.com", model.RoleRegular)

	project := seedProject(t, db, "Cuenca", owner.ID)
	assign(t, db, viewer.ID, project.ID, model.AssignmentRoleViewer)
	assign(t, db, editor.ID, project.ID, model.AssignmentRoleEditor)
	assign(t, db, projAdmin.ID, project.ID, model.AssignmentRoleAdmin)

	cases := []struct {
		name             string
		user             *model.User
		view, edit, admn bool
	}{
		{"owner has every tier", owner, true, true, true},
		{"global admin has every tier", globalAdmin, true, true, true},
		{"manager without assignment has none", manager, false, false, false},
		{"viewer assignment: view only", viewer, true, false, false},
		{"editor assignment: view and edit", editor, true, true, false},
		{"admin assignment: every tier", projAdmin, true, true, true},
		{"stranger has none", stranger, false, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view, err := access.CanView(ctx, tc.user, project.ID)
			assert.NoError(t, err)
			assert.Equal(t, tc.view, view)

			edit, err := access.CanEdit(ctx, tc.user, project.ID)
			assert.NoError(t, err)
			assert.Equal(t, tc.edit, edit)

			admn, err := access.CanAdmin(ctx, tc.user, project.ID)
			assert.NoError(t, err)
			assert.Equal(t, tc.admn, admn)

			// монотонность уровней: admin ⇒ edit ⇒ view
			if admn {
				assert.True(t, edit)
			}
			if edit {
				assert.True(t, view)
			}
		})
	}
}

func TestAccessService_OwnershipDominatesAssignment(t *testing.T) {
	db := newTestDB(t)
	access := newTestAccess(db)
	ctx := testCtx()

	owner := seedUser(t, db, "owner@example.com", model.RoleRegular)
	project := seedProject(t, db, "Propia", owner.ID)

	// владелец с назначением viewer на собственный проект
	assign(t, db, owner.ID, project.ID, model.AssignmentRoleViewer)

	ok, err := access.CanAdmin(ctx, owner, project.ID)
	assert.NoError(t, err)
	assert.True(t, ok, "ownership must dominate a weaker assignment role")
}

func TestAccessService_GlobalAdminWithoutRows(t *testing.T) {
	db := newTestDB(t)
	access := newTestAccess(db)
	ctx := testCtx()

	owner := seedUser(t, db, "owner@example.com", model.RoleRegular)
	admin := seedUser(t, db, "root@example.com", model.RoleAdmin)
	project := seedProject(t, db, "Ajena", owner.ID)

	// ни владения, ни назначений — глобальной роли достаточно
	ok, err := access.CanAdmin(ctx, admin, project.ID)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestAccessService_UnknownProjectDenied(t *testing.T) {
	db := newTestDB(t)
	access := newTestAccess(db)
	ctx := testCtx()

	user := seedUser(t, db, "u@example.com", model.RoleRegular)

	// политика не падает: отсутствие условий — просто отказ
	ok, err := access.CanView(ctx, user, "00000000-0000-0000-0000-000000000000")
	assert.NoError(t, err)
	assert.False(t, ok)
}
