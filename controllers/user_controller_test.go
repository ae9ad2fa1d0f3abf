package controllers_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvkotov/kidswap/models"
)

func TestProfileMe(t *testing.T) {
	r, _ := newTestServer(t)
	token, id := registerUser(t, r, "parent@x.com")
	createAd(t, r, token, 1)
	createAd(t, r, token, 1)

	w := doJSON(r, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		User struct {
			ID       uint           `json:"id"`
			Email    string         `json:"email"`
			Children []models.Child `json:"children"`
		} `json:"user"`
		Announcements []models.Announcement `json:"announcements"`
	}
	decodeData(t, w, &data)
	assert.Equal(t, id, data.User.ID)
	assert.Equal(t, "parent@x.com", data.User.Email)
	assert.Empty(t, data.User.Children)
	require.Len(t, data.Announcements, 2)
	assert.Greater(t, data.Announcements[0].ID, data.Announcements[1].ID)
}

func TestUpdateChildren(t *testing.T) {
	r, db := newTestServer(t)
	token, id := registerUser(t, r, "parent@x.com")

	kids := []models.Child{
		{Name: "Masha", Age: 4, Gender: "female"},
		{Name: "Petya", Age: 7, Gender: "male"},
	}
	w := doJSON(r, http.MethodPut, "/api/users/me", token, gin.H{"children": kids})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, db.Take(&user, id).Error)
	got := user.ChildList()
	require.Len(t, got, 2)
	assert.Equal(t, "Masha", got[0].Name)
	assert.Equal(t, 7, got[1].Age)
}

func TestClearChildren(t *testing.T) {
	r, db := newTestServer(t)
	token, id := registerUser(t, r, "parent@x.com")

	kids := []models.Child{{Name: "Masha", Age: 4, Gender: "female"}}
	w := doJSON(r, http.MethodPut, "/api/users/me", token, gin.H{"children": kids})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPut, "/api/users/me", token, gin.H{"children": []models.Child{}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, db.Take(&user, id).Error)
	assert.Empty(t, user.ChildList())
}

func TestUpdateChildrenValidation(t *testing.T) {
	r, _ := newTestServer(t)
	token, _ := registerUser(t, r, "parent@x.com")

	cases := [][]models.Child{
		{{Name: "", Age: 4, Gender: "female"}},
		{{Name: "Vasya", Age: -1}},
		{{Name: "Vasya", Age: 19}},
	}
	for _, kids := range cases {
		w := doJSON(r, http.MethodPut, "/api/users/me", token, gin.H{"children": kids})
		assert.Equal(t, http.StatusBadRequest, w.Code, "children: %v", kids)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	r, db := newTestServer(t)
	token, id := registerUser(t, r, "parent@x.com")
	ad1 := createAd(t, r, token, 2)
	ad2 := createAd(t, r, token, 1)

	w := doJSON(r, http.MethodDelete, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var userCount, adCount int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", id).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Announcement{}).Where("user_id = ?", id).Count(&adCount).Error)
	assert.Zero(t, userCount)
	assert.Zero(t, adCount)

	for _, ad := range []models.Announcement{ad1, ad2} {
		for _, p := range ad.ImageList() {
			_, err := os.Stat(filepath.Join(testUploadDir, filepath.Base(p)))
			assert.True(t, os.IsNotExist(err), "file %s survived account deletion", p)
		}
	}
}

func TestProfileRequiresAuth(t *testing.T) {
	r, _ := newTestServer(t)
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := doJSON(r, method, "/api/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, method)
	}
}
