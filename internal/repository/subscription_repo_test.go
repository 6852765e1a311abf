package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/editur/editur_server/internal/model"
	"github.com/editur/editur_server/internal/testutil"
)

func TestSubscriptionRepository_Upsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db, "pro")

	testutil.TestSubscription(t, db, user.ID, nil, 10)

	require.NoError(t, repo.Upsert(&model.Subscription{
		UserID:         user.ID,
		Plan:           plan.Name,
		PlanID:         &plan.ID,
		Status:         model.SubscriptionStatusActive,
		StartDate:      time.Now(),
		MinutesAllowed: plan.MinutesAllowed,
	}))

	sub, err := repo.GetByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "pro", sub.Plan)
	assert.Equal(t, 120, sub.MinutesAllowed)
	// 已用分钟数不被覆盖
	assert.Equal(t, 10, sub.MinutesUsed)
	require.NotNil(t, sub.SubscriptionPlan)
	assert.Equal(t, plan.ID, sub.SubscriptionPlan.ID)

	var rows int64
	require.NoError(t, db.Model(&model.Subscription{}).Where("user_id = ?", user.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestSubscriptionRepository_StatusAndUsage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	plan := testutil.TestPlan(t, db, "basic")
	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, alice.ID, plan, 0)
	testutil.TestSubscription(t, db, bob.ID, plan, 0)

	require.NoError(t, repo.AddMinutesUsed(alice.ID, 15))
	require.NoError(t, repo.AddMinutesUsed(alice.ID, 5))
	require.NoError(t, repo.UpdateStatus(bob.ID, model.SubscriptionStatusCanceled))

	sub, err := repo.GetByUserID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, sub.MinutesUsed)

	active, err := repo.CountByStatus(model.SubscriptionStatusActive)
	require.NoError(t, err)
	assert.Equal(t, int64(1), active)

	byPlan, err := repo.CountByPlanID(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byPlan)

	require.NoError(t, repo.DeleteByUserID(bob.ID))
	byPlan, err = repo.CountByPlanID(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byPlan)
}
