package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/editur/editur_server/config"
	"github.com/editur/editur_server/internal/pkg/logger"
	"github.com/editur/editur_server/internal/pkg/response"
	"github.com/editur/editur_server/internal/pkg/storage"
	"github.com/editur/editur_server/internal/repository"
	"github.com/editur/editur_server/internal/service"
	"github.com/editur/editur_server/internal/testutil"
)

func setupUserHandler(t *testing.T) (*UserHandler, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	store, err := storage.NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	uploadCfg := config.UploadConfig{MaxAssetSize: 1024}
	userService := service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewSubscriptionRepository(db),
		store,
		uploadCfg,
	)
	return NewUserHandler(userService, uploadCfg.MaxAssetSize, logger.Nop()), db
}

func userRouter(handler *UserHandler, userID int64) *gin.Engine {
	router := gin.New()
	if userID != 0 {
		router.Use(asUser(userID, service.LocalAccount(userID)))
	}
	router.GET("/api/user/profile", handler.GetProfile)
	router.PUT("/api/user/profile", handler.UpdateProfile)
	router.GET("/api/user/subscription", handler.GetSubscription)
	router.POST("/api/user/avatar", handler.UploadAvatar)
	return router
}

func TestUserHandler_GetProfile(t *testing.T) {
	handler, db := setupUserHandler(t)
	user := testutil.TestUser(t, db, testutil.WithEmail("me@example.com"))
	testutil.TestSubscription(t, db, user.ID, nil, 10)

	w := performRequest(userRouter(handler, user.ID), "GET", "/api/user/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := parseResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, "me@example.com", data["email"])
	assert.Equal(t, true, data["has_password"])

	sub := data["subscription"].(map[string]interface{})
	assert.Equal(t, float64(20), sub["minutes_remaining"])
}

func TestUserHandler_Unauthorized(t *testing.T) {
	handler, _ := setupUserHandler(t)
	router := userRouter(handler, 0)

	for _, path := range []string{"/api/user/profile", "/api/user/subscription"} {
		w := performRequest(router, "GET", path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestUserHandler_NotFound(t *testing.T) {
	handler, db := setupUserHandler(t)
	user := testutil.TestUser(t, db)

	w := performRequest(userRouter(handler, 99999), "GET", "/api/user/profile", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(userRouter(handler, user.ID), "GET", "/api/user/subscription", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, service.ErrSubscriptionNotFound.Error(), parseResponse(t, w).Error)
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	handler, db := setupUserHandler(t)
	user := testutil.TestUser(t, db)
	router := userRouter(handler, user.ID)

	w := performRequest(router, "PUT", "/api/user/profile", map[string]string{"name": "Updated"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Updated", parseResponse(t, w).Data.(map[string]interface{})["name"])

	w = performRequest(router, "PUT", "/api/user/profile", map[string]string{"name": strings.Repeat("x", 101)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
}

func TestUserHandler_UploadAvatar(t *testing.T) {
	handler, db := setupUserHandler(t)
	user := testutil.TestUser(t, db)
	router := userRouter(handler, user.ID)

	req := multipartRequest(t, "/api/user/avatar", nil, formFile{"file", "me.png", pngBytes})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	image := parseResponse(t, w).Data.(map[string]interface{})["image"].(string)
	assert.True(t, strings.HasPrefix(image, "/uploads/avatars/"))

	req = multipartRequest(t, "/api/user/avatar", nil, formFile{"file", "notes.txt", []byte("plain text")})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = multipartRequest(t, "/api/user/avatar", map[string]string{"other": "x"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
