package moderation

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"fanhub-backend/middleware"
	"fanhub-backend/models"
	"fanhub-backend/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

const (
	fanworkID = "123e4567-e89b-12d3-a456-426614174000"
	userID    = "abc12345-e89b-12d3-a456-426614174000"
	modID     = "mod12345-e89b-12d3-a456-426614174000"
)

func routerFor(identity *middleware.Identity) *gin.Engine {
	r := testutils.SetupTestRouter()
	withIdentity := func(h gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(middleware.IdentityKey, identity)
			h(c)
		}
	}
	r.PUT("/moderation/fanworks/:id/hide", withIdentity(HideFanwork))
	r.PUT("/moderation/fanworks/:id/unhide", withIdentity(UnhideFanwork))
	r.PUT("/moderation/users/:id/ban", withIdentity(BanUser))
	r.PUT("/moderation/users/:id/unban", withIdentity(UnbanUser))
	return r
}

func putJSON(r *gin.Engine, path string, payload map[string]string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body.Write(raw)
	}
	req, _ := http.NewRequest(http.MethodPut, path, &body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestHideFanwork_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "fanworks" WHERE id = \$1 (.+)`).
		WithArgs(fanworkID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_id", "is_hidden"}).
			AddRow(fanworkID, "T", userID, false))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "fanworks" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := routerFor(&middleware.Identity{UserID: modID, Role: models.ModeratorRole})

	resp := putJSON(r, "/moderation/fanworks/"+fanworkID+"/hide", map[string]string{
		"reason": "Plagiarized artwork",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHideFanwork_MissingReason(t *testing.T) {
	_, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := routerFor(&middleware.Identity{UserID: modID, Role: models.ModeratorRole})

	resp := putJSON(r, "/moderation/fanworks/"+fanworkID+"/hide", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHideFanwork_NotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "fanworks" WHERE id = \$1 (.+)`).
		WithArgs("missing", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	r := routerFor(&middleware.Identity{UserID: modID, Role: models.ModeratorRole})

	resp := putJSON(r, "/moderation/fanworks/missing/hide", map[string]string{
		"reason": "Spam",
	})

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUnhideFanwork_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "fanworks" WHERE id = \$1 (.+)`).
		WithArgs(fanworkID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_id", "is_hidden"}).
			AddRow(fanworkID, "T", userID, true))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "fanworks" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := routerFor(&middleware.Identity{UserID: modID, Role: models.ModeratorRole})

	resp := putJSON(r, "/moderation/fanworks/"+fanworkID+"/unhide", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestBanUser_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = \$1 (.+)`).
		WithArgs(userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "is_banned"}).
			AddRow(userID, "user@example.com", "USER", false))

	// Only the users table is touched. A ban never cascades to the
	// user's fanworks or comments.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := routerFor(&middleware.Identity{UserID: modID, Role: models.ModeratorRole})

	resp := putJSON(r, "/moderation/users/"+userID+"/ban", map[string]string{
		"reason": "Repeated harassment",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBanUser_EqualRoleForbidden(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = \$1 (.+)`).
		WithArgs(userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "is_banned"}).
			AddRow(userID, "othermod@example.com", "MODERATOR", false))

	r := routerFor(&middleware.Identity{UserID: modID, Role: models.ModeratorRole})

	resp := putJSON(r, "/moderation/users/"+userID+"/ban", map[string]string{
		"reason": "Disagreement",
	})

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestBanUser_SelfForbidden(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = \$1 (.+)`).
		WithArgs(modID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "is_banned"}).
			AddRow(modID, "mod@example.com", "MODERATOR", false))

	r := routerFor(&middleware.Identity{UserID: modID, Role: models.ModeratorRole})

	resp := putJSON(r, "/moderation/users/"+modID+"/ban", map[string]string{
		"reason": "Oops",
	})

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestBanUser_AdminCanBanModerator(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = \$1 (.+)`).
		WithArgs(userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "is_banned"}).
			AddRow(userID, "mod@example.com", "MODERATOR", false))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := routerFor(&middleware.Identity{UserID: "admin-uuid", Role: models.AdminRole})

	resp := putJSON(r, "/moderation/users/"+userID+"/ban", map[string]string{
		"reason": "Abuse of moderation tools",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestUnbanUser_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = \$1 (.+)`).
		WithArgs(userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "is_banned"}).
			AddRow(userID, "user@example.com", "USER", true))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := routerFor(&middleware.Identity{UserID: modID, Role: models.ModeratorRole})

	resp := putJSON(r, "/moderation/users/"+userID+"/unban", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
}
