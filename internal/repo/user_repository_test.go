package repo

import (
	"Niquel/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepository(db)
	ctx := testCtx()

	// успешное создание
	u, err := r.CreateUser(ctx, &model.User{Email: "john@example.com", HashedPassword: "hash", Name: "John", Role: model.RoleRegular, IsActive: true})
	assert.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	// поиск по email — найдено
	got, err := r.GetUserByEmail(ctx, "john@example.com")
	assert.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	// уникальный email — вторая вставка должна дать ошибку
	_, err = r.CreateUser(ctx, &model.User{Email: "john@example.com", HashedPassword: "x", Name: "John II"})
	assert.Error(t, err)

	// поиск несуществующего — ожидаем gorm.ErrRecordNotFound
	got, err = r.GetUserByEmail(ctx, "doesnotexist@example.com")
	assert.Nil(t, got)
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}

func TestUserRepository_UpdatePartial(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepository(db)
	ctx := testCtx()

	u := seedUser(t, db, "alice@example.com", model.RoleRegular)

	// применяются только переданные поля
	got, err := r.UpdateUser(ctx, u.ID, map[string]any{"name": "Alice A."})
	assert.NoError(t, err)
	assert.Equal(t, "Alice A.", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)

	// явный false тоже применяется
	got, err = r.UpdateUser(ctx, u.ID, map[string]any{"is_active": false})
	assert.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestUserRepository_DeleteCascadesOwnedProjects(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepository(db)
	ctx := testCtx()

	owner := seedUser(t, db, "owner@example.com", model.RoleRegular)
	other := seedUser(t, db, "other@example.com", model.RoleRegular)
	project := seedProject(t, db, "Cuenca Norte", owner.ID)
	period := seedPeriod(t, db, project.ID, "Abril")

	// назначение другого пользователя на проект владельца
	assert.NoError(t, db.Create(&model.UserAssignment{UserID: other.ID, ProjectID: project.ID, Role: model.AssignmentRoleViewer}).Error)

	assert.NoError(t, r.DeleteUser(ctx, owner.ID))

	// проект владельца и его дети удалены каскадом
	var projects, periods, assignments int64
	db.Model(&model.Project{}).Where("id = ?", project.ID).Count(&projects)
	db.Model(&model.Period{}).Where("id = ?", period.ID).Count(&periods)
	db.Model(&model.UserAssignment{}).Where("project_id = ?", project.ID).Count(&assignments)
	assert.Zero(t, projects)
	assert.Zero(t, periods)
	assert.Zero(t, assignments)

	// чужой пользователь не затронут
	_, err := r.GetUserByID(ctx, other.ID)
	assert.NoError(t, err)

	// удаление несуществующего — not found
	assert.Equal(t, gorm.ErrRecordNotFound, r.DeleteUser(ctx, owner.ID))
}
