package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetChildListValidation(t *testing.T) {
	var u User

	require.NoError(t, u.SetChildList([]Child{
		{Name: "Masha", Age: 4, Gender: "female"},
	}))
	kids := u.ChildList()
	require.Len(t, kids, 1)
	assert.Equal(t, "Masha", kids[0].Name)

	assert.Error(t, u.SetChildList([]Child{{Name: "  ", Age: 4}}))
	assert.Error(t, u.SetChildList([]Child{{Name: "Petya", Age: -1}}))
	assert.Error(t, u.SetChildList([]Child{{Name: "Petya", Age: 19}}))
}

func TestChildListToleratesBrokenColumn(t *testing.T) {
	u := User{Children: "{broken"}
	assert.Empty(t, u.ChildList())

	u.Children = ""
	assert.Empty(t, u.ChildList())
}

func TestAnnouncementImageList(t *testing.T) {
	var a Announcement
	a.SetImageList([]string{"/uploads/a.jpg", "/uploads/b.jpg"})
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg"}, a.ImageList())

	a.ImageURL = "not json"
	assert.Empty(t, a.ImageList())
}
