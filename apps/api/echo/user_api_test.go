package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/trezcool/shule/core/user"
	testutil "github.com/trezcool/shule/tests"
)

func TestUserAPILogin(t *testing.T) {
	a := setup(t)
	testutil.CreateUser(t, a.usrRepo, "Awe Some", "awesome", "awe@test.cd", "LordOfTheRings", nil, true)
	testutil.CreateUser(t, a.usrRepo, "N Dog", "ndog", "ndog@test.cd", "LordOfTheRings", nil, false)

	// by username
	rec := a.request(t, http.MethodPost, "/v1/users/login", "", map[string]interface{}{
		"username": "awesome", "password": "LordOfTheRings",
	})
	checkCode(t, rec, http.StatusOK)
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	if resp.Token == "" {
		t.Error("no token returned")
	}

	// by email
	rec = a.request(t, http.MethodPost, "/v1/users/login", "", map[string]interface{}{
		"username": "awe@test.cd", "password": "LordOfTheRings",
	})
	checkCode(t, rec, http.StatusOK)

	// wrong password
	rec = a.request(t, http.MethodPost, "/v1/users/login", "", map[string]interface{}{
		"username": "awesome", "password": "wrong",
	})
	checkCode(t, rec, http.StatusBadRequest)

	// deactivated account
	rec = a.request(t, http.MethodPost, "/v1/users/login", "", map[string]interface{}{
		"username": "ndog", "password": "LordOfTheRings",
	})
	checkCode(t, rec, http.StatusForbidden)
}

func TestUserAPIQuery(t *testing.T) {
	a := setup(t)
	adminToken := getToken(t, a.admin(t))
	studentToken := getToken(t, a.student(t))

	// auth & admin required
	rec := a.request(t, http.MethodGet, "/v1/users", "", nil)
	checkCode(t, rec, http.StatusUnauthorized)
	rec = a.request(t, http.MethodGet, "/v1/users", studentToken, nil)
	checkCode(t, rec, http.StatusForbidden)

	rec = a.request(t, http.MethodGet, "/v1/users", adminToken, nil)
	checkCode(t, rec, http.StatusOK)
	var users []user.User
	decode(t, rec, &users)
	if len(users) != 2 {
		t.Errorf("users = %d, want 2", len(users))
	}

	// filtering
	rec = a.request(t, http.MethodGet, "/v1/users?role="+user.RoleStudent, adminToken, nil)
	checkCode(t, rec, http.StatusOK)
	decode(t, rec, &users)
	if len(users) != 1 {
		t.Errorf("student role users = %d, want 1", len(users))
	}
}

func TestUserAPIRetrieve(t *testing.T) {
	a := setup(t)
	admin := a.admin(t)
	adminToken := getToken(t, admin)
	stu := a.student(t)
	studentToken := getToken(t, stu)

	// users can retrieve themselves, admins anyone
	rec := a.request(t, http.MethodGet, "/v1/users/"+itoa(stu.ID), studentToken, nil)
	checkCode(t, rec, http.StatusOK)
	rec = a.request(t, http.MethodGet, "/v1/users/"+itoa(stu.ID), adminToken, nil)
	checkCode(t, rec, http.StatusOK)

	// other users' records read as not found
	rec = a.request(t, http.MethodGet, "/v1/users/"+itoa(admin.ID), studentToken, nil)
	checkCode(t, rec, http.StatusNotFound)

	// admins cannot delete themselves
	rec = a.request(t, http.MethodDelete, "/v1/users/"+itoa(admin.ID), adminToken, nil)
	checkCode(t, rec, http.StatusForbidden)
}
