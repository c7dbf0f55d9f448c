package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/hadir/core/user"
	dummydb "github.com/trezcool/hadir/storage/database/dummy"
)

func setupUserAPI(t *testing.T) (*echo.Echo, user.ServiceInterface) {
	t.Helper()

	app, v1, jwt := initApp()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	svc := user.NewService(dummydb.NewUserRepository(db))
	registerUserAPI(v1, jwt, svc, testValidate, testTranslator)
	return app, svc
}

func Test_userApi_register(t *testing.T) {
	app, svc := setupUserAPI(t)
	path := "/v1/users/register"

	body := marshallObj(t, map[string]string{
		"name":             "Budi Santoso",
		"username":         "budisan",
		"email":            "budi@test.test",
		"password":         "NotSoSecret#123",
		"password_confirm": "NotSoSecret#123",
		"role":             user.RoleAdmin, // must be ignored
	})
	req, rec := newRequest(http.MethodPost, path, body)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var usr user.User
	if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
		t.Fatalf("unmarshalling user failed, %v", err)
	}
	if usr.Role != user.RoleStudent {
		t.Errorf("register role = %s, want %s", usr.Role, user.RoleStudent)
	}
	if !usr.Can(user.PermAttendanceCreate) {
		t.Error("registered student missing default permissions")
	}

	// duplicate username is a validation error
	req, rec = newRequest(http.MethodPost, path, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate register code = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	if _, err := svc.GetByUsername(context.Background(), "budisan"); err != nil {
		t.Errorf("GetByUsername() after register error = %v", err)
	}
}

func Test_userApi_login(t *testing.T) {
	app, svc := setupUserAPI(t)
	path := "/v1/users/login"

	usr := createUser(t, svc, "Student", "student1", user.RoleStudent)

	tests := []struct {
		name     string
		username string
		password string
		wantCode int
	}{
		{name: "with username", username: usr.Username, password: "NotSoSecret#123", wantCode: http.StatusOK},
		{name: "with email", username: usr.Email, password: "NotSoSecret#123", wantCode: http.StatusOK},
		{name: "wrong password", username: usr.Username, password: "nope", wantCode: http.StatusBadRequest},
		{name: "unknown user", username: "ghost", password: "NotSoSecret#123", wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := marshallObj(t, LoginRequest{Username: tt.username, Password: tt.password})
			req, rec := newRequest(http.MethodPost, path, body)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling response failed, %v", err)
				}
				if resp.Token == "" {
					t.Error("login returned an empty token")
				}
			}
		})
	}
}

func Test_userApi_query(t *testing.T) {
	app, svc := setupUserAPI(t)
	path := "/v1/users"

	student := createUser(t, svc, "Student", "student1", user.RoleStudent)
	admin := createUser(t, svc, "Admin", "theboss", user.RoleAdmin)

	tests := []httpTest{
		{name: "auth required", method: http.MethodGet, path: path, wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "students cannot list users", method: http.MethodGet, path: path,
			token: getToken(t, student), wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "admin lists users", method: http.MethodGet, path: path,
			token: getToken(t, admin), wantCode: http.StatusOK, wantData: marshallList(t, student, admin),
		},
		{
			name: "admin lists roles", method: http.MethodGet, path: path + "/roles",
			token: getToken(t, admin), wantCode: http.StatusOK, wantData: marshallObj(t, user.AllRoles),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_detail(t *testing.T) {
	app, svc := setupUserAPI(t)
	path := "/v1/users/"

	student := createUser(t, svc, "Student", "student1", user.RoleStudent)
	other := createUser(t, svc, "Other", "student2", user.RoleStudent)
	admin := createUser(t, svc, "Admin", "theboss", user.RoleAdmin)

	tests := []httpTest{
		{
			name: "own detail", method: http.MethodGet, path: path + student.ID,
			token: getToken(t, student), wantCode: http.StatusOK, wantData: marshallObj(t, student),
		},
		{
			name: "someone else's detail is hidden", method: http.MethodGet, path: path + other.ID,
			token: getToken(t, student), wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "admin reads anyone", method: http.MethodGet, path: path + other.ID,
			token: getToken(t, admin), wantCode: http.StatusOK, wantData: marshallObj(t, other),
		},
		{
			name: "non-admin cannot change role", method: http.MethodPut, path: path + student.ID,
			token: getToken(t, student), body: marshallObj(t, map[string]string{"role": user.RoleLecturer}),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "admin cannot delete themselves", method: http.MethodDelete, path: path + admin.ID,
			token: getToken(t, admin), wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// deletes go through for admins
	req, rec := newAuthRequest(http.MethodDelete, path+other.ID, getToken(t, admin))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete code = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if _, err := svc.GetByID(context.Background(), other.ID); err == nil {
		t.Error("user still exists after delete")
	}
}
