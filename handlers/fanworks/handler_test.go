package fanworks

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
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
	ownerID   = "abc12345-e89b-12d3-a456-426614174000"
)

func routerWithIdentity(identity *middleware.Identity) *gin.Engine {
	r := testutils.SetupTestRouter()
	withIdentity := func(h gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			if identity != nil {
				c.Set(middleware.IdentityKey, identity)
			}
			h(c)
		}
	}
	r.GET("/fanworks", withIdentity(GetAllFanworks))
	r.GET("/fanworks/:id", withIdentity(GetFanworkByID))
	r.GET("/fanworks/:id/counts", withIdentity(GetFanworkCounts))
	r.POST("/fanworks", withIdentity(CreateFanwork))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

// Counts are recomputed from the relation tables on every read.
func TestGetFanworkCounts_DerivedFromTables(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "fanworks" WHERE id = \$1 (.+)`).
		WithArgs(fanworkID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_id", "is_hidden"}).
			AddRow(fanworkID, "T", ownerID, false))

	mock.ExpectQuery(`SELECT count\(\*\) FROM "likes" WHERE fanwork_id = \$1`).
		WithArgs(fanworkID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "comments" WHERE fanwork_id = \$1`).
		WithArgs(fanworkID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookmarks" WHERE fanwork_id = \$1`).
		WithArgs(fanworkID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	resp := get(routerWithIdentity(nil), "/fanworks/"+fanworkID+"/counts")

	assert.Equal(t, http.StatusOK, resp.Code)

	var counts models.FanworkCounts
	json.Unmarshal(resp.Body.Bytes(), &counts)
	assert.Equal(t, int64(3), counts.Likes)
	assert.Equal(t, int64(7), counts.Comments)
	assert.Equal(t, int64(2), counts.Bookmarks)
}

// Anonymous browsing only ever queries non-hidden, non-age-gated rows.
func TestGetAllFanworks_AnonymousExcludesHidden(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "fanworks" WHERE is_hidden = \$1 AND rating IN \(\$2,\$3\) (.+)`).
		WithArgs(false, "ALL_AGES", "TEEN", 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_id", "is_hidden", "rating"}).
			AddRow(fanworkID, "Visible", ownerID, false, "TEEN"))

	mock.ExpectQuery(`SELECT (.+) FROM "fanwork_tags" (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"fanwork_id", "tag_id"}))

	resp := get(routerWithIdentity(nil), "/fanworks")

	assert.Equal(t, http.StatusOK, resp.Code)

	var works []models.Fanwork
	json.Unmarshal(resp.Body.Bytes(), &works)
	assert.Len(t, works, 1)
	assert.Equal(t, "Visible", works[0].Title)
}

// Moderators browse without any visibility clause.
func TestGetAllFanworks_ModeratorSeesAll(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "fanworks" ORDER BY fanworks.created_at DESC LIMIT (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_id", "is_hidden", "rating"}).
			AddRow(fanworkID, "Hidden One", ownerID, true, "TEEN"))

	mock.ExpectQuery(`SELECT (.+) FROM "fanwork_tags" (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"fanwork_id", "tag_id"}))

	identity := &middleware.Identity{UserID: "mod-uuid", Role: models.ModeratorRole}
	resp := get(routerWithIdentity(identity), "/fanworks")

	assert.Equal(t, http.StatusOK, resp.Code)

	var works []models.Fanwork
	json.Unmarshal(resp.Body.Bytes(), &works)
	assert.Len(t, works, 1)
	assert.True(t, works[0].IsHidden)
}

// A hidden work is not found for a stranger but stays readable for its owner.
func TestGetFanworkByID_HiddenVisibility(t *testing.T) {
	t.Run("stranger gets 404", func(t *testing.T) {
		_, mock, cleanup := testutils.SetupTestDB(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM "fanworks" WHERE id = \$1 (.+)`).
			WithArgs(fanworkID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_id", "is_hidden", "rating"}).
				AddRow(fanworkID, "Hidden", ownerID, true, "TEEN"))
		mock.ExpectQuery(`SELECT (.+) FROM "fanwork_tags" (.+)`).
			WillReturnRows(sqlmock.NewRows([]string{"fanwork_id", "tag_id"}))

		identity := &middleware.Identity{UserID: "stranger-uuid", Role: models.UserRole}
		resp := get(routerWithIdentity(identity), "/fanworks/"+fanworkID)

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("owner still sees it", func(t *testing.T) {
		_, mock, cleanup := testutils.SetupTestDB(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM "fanworks" WHERE id = \$1 (.+)`).
			WithArgs(fanworkID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_id", "is_hidden", "rating"}).
				AddRow(fanworkID, "Hidden", ownerID, true, "TEEN"))
		mock.ExpectQuery(`SELECT (.+) FROM "fanwork_tags" (.+)`).
			WillReturnRows(sqlmock.NewRows([]string{"fanwork_id", "tag_id"}))

		mock.ExpectQuery(`SELECT count\(\*\) FROM "likes" (.+)`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "comments" (.+)`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "bookmarks" (.+)`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		identity := &middleware.Identity{UserID: ownerID, Role: models.UserRole}
		resp := get(routerWithIdentity(identity), "/fanworks/"+fanworkID)

		assert.Equal(t, http.StatusOK, resp.Code)
	})
}

// Mature content requires an age-verified viewer.
func TestGetFanworkByID_AgeGate(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "fanworks" WHERE id = \$1 (.+)`).
		WithArgs(fanworkID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_id", "is_hidden", "rating"}).
			AddRow(fanworkID, "Mature Work", ownerID, false, "MATURE"))
	mock.ExpectQuery(`SELECT (.+) FROM "fanwork_tags" (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"fanwork_id", "tag_id"}))

	identity := &middleware.Identity{UserID: "viewer-uuid", Role: models.UserRole, AgeVerified: false}
	resp := get(routerWithIdentity(identity), "/fanworks/"+fanworkID)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

// Two writers may race on creating the same tag name; the loser of the
// unique index must re-read and return the winner's row.
func TestResolveTags_DuplicateNameRace(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "tags" WHERE name = \$1 (.+)`).
		WithArgs("fluff", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "tags" (.+) RETURNING "id"`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	mock.ExpectQuery(`SELECT (.+) FROM "tags" WHERE name = \$1 (.+)`).
		WithArgs("fluff", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("tag-uuid", "fluff"))

	tags, err := resolveTags(gormDB, []string{"fluff"})

	assert.NoError(t, err)
	if assert.Len(t, tags, 1) {
		assert.Equal(t, "tag-uuid", tags[0].ID)
		assert.Equal(t, "fluff", tags[0].Name)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveTags_SkipsBlankNames(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	tags, err := resolveTags(gormDB, []string{"", "   "})

	assert.NoError(t, err)
	assert.Empty(t, tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFanwork_FanfictionSuccess(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "fanworks" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(fanworkID))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT (.+) FROM "fanworks" WHERE id = \$1 (.+)`).
		WithArgs(fanworkID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_id", "type", "rating"}).
			AddRow(fanworkID, "T", ownerID, "FANFICTION", "TEEN"))
	mock.ExpectQuery(`SELECT (.+) FROM "fanwork_tags" (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"fanwork_id", "tag_id"}))

	form := url.Values{}
	form.Set("title", "T")
	form.Set("type", "FANFICTION")
	form.Set("rating", "TEEN")
	form.Set("textContent", "Once upon a time")

	identity := &middleware.Identity{UserID: ownerID, Role: models.UserRole}
	r := routerWithIdentity(identity)

	req, _ := http.NewRequest(http.MethodPost, "/fanworks", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)

	var created models.Fanwork
	json.Unmarshal(resp.Body.Bytes(), &created)
	assert.Equal(t, "T", created.Title)
	assert.Equal(t, models.Fanfiction, created.Type)
}

func TestCreateFanwork_InvalidRating(t *testing.T) {
	_, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	form := url.Values{}
	form.Set("title", "T")
	form.Set("type", "FANFICTION")
	form.Set("rating", "NC17")

	identity := &middleware.Identity{UserID: ownerID, Role: models.UserRole}
	r := routerWithIdentity(identity)

	req, _ := http.NewRequest(http.MethodPost, "/fanworks", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

// Publishing age-gated material requires an age-verified author.
func TestCreateFanwork_MatureNeedsAgeVerification(t *testing.T) {
	_, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	form := url.Values{}
	form.Set("title", "T")
	form.Set("type", "FANFICTION")
	form.Set("rating", "EXPLICIT")
	form.Set("textContent", "...")

	identity := &middleware.Identity{UserID: ownerID, Role: models.UserRole, AgeVerified: false}
	r := routerWithIdentity(identity)

	req, _ := http.NewRequest(http.MethodPost, "/fanworks", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}
