package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/hadir/core"
	"github.com/trezcool/hadir/core/attendance"
	"github.com/trezcool/hadir/core/course"
	"github.com/trezcool/hadir/core/enrollment"
	"github.com/trezcool/hadir/core/holiday"
	"github.com/trezcool/hadir/core/parallelclass"
	"github.com/trezcool/hadir/core/schedule"
	"github.com/trezcool/hadir/core/task"
	"github.com/trezcool/hadir/core/user"
	logsvc "github.com/trezcool/hadir/services/logger"
)

var (
	testConf = &core.Config{
		TestMode:         true,
		AppName:          "Hadir",
		SecretKey:        "secret",
		DefaultFromEmail: mail.Address{Address: "noreply@localhost"},
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
		Attendance: core.AttendanceConfig{
			Timezone:     "Asia/Jakarta",
			WindowBefore: 10 * time.Minute,
			WindowAfter:  15 * time.Minute,
		},
	}

	testValidate   = validator.New()
	testTranslator ut.Translator
	initTestOnce   sync.Once

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func initApp() (*echo.Echo, *echo.Group, echo.MiddlewareFunc) {
	initTestOnce.Do(func() {
		_en := en.New()
		uni := ut.New(_en, _en)
		testTranslator, _ = uni.GetTranslator("en")

		core.InitValidators(testValidate, testTranslator)
		user.InitValidators(testValidate, testTranslator)
		course.InitValidators(testValidate, testTranslator)
		parallelclass.InitValidators(testValidate, testTranslator)
		enrollment.InitValidators(testValidate, testTranslator)
		schedule.InitValidators(testValidate, testTranslator)
		holiday.InitValidators(testValidate, testTranslator)
		attendance.InitValidators(testValidate, testTranslator)
		task.InitValidators(testValidate, testTranslator)
	})

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), testConf)

	app := echo.New()
	app.Pre(middleware.RemoveTrailingSlash())
	app.HTTPErrorHandler = newAppHTTPErrorHandler(logger, testTranslator, func() {})
	v1 := app.Group("/v1")
	jwt := ConfigureAuth(testConf)
	return app, v1, jwt
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func createUser(t *testing.T, svc user.ServiceInterface, name, uname, role string) user.User {
	usr, err := svc.Create(context.Background(), user.NewUser{
		Name:     name,
		Username: uname,
		Email:    uname + "@test.test",
		Password: "NotSoSecret#123",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func marshallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
