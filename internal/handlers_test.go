package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/* ===================== HARNESS ===================== */

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("test database unreachable: %v", err)
	}
	if err := db.AutoMigrate(allModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// Children before parents so FK constraints hold.
	for _, model := range []any{
		&CoachGroupLine{}, &Score{}, &Media{}, &Achievement{},
		&Prospect{}, &Alumni{}, &Athlete{}, &Coach{}, &UserImages{},
		&Group{}, &Program{}, &GalleryItem{}, &Sponsor{}, &Product{},
		&Tryout{}, &AuditLog{}, &AdminUser{}, &User{},
	} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			t.Fatalf("clean table: %v", err)
		}
	}
	return db
}

// fakeStore is an in-memory ObjectStore so handler tests exercise the upload
// and compensation paths without a bucket.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Upload(_ context.Context, folder, filename, _ string, body io.Reader) (StoredObject, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return StoredObject{}, err
	}
	key := objectKey(folder, filename)
	f.mu.Lock()
	f.objects[key] = data
	f.mu.Unlock()
	return StoredObject{Key: key, URL: publicURL("test-bucket", "us-east-2", key)}, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	delete(f.objects, key)
	f.mu.Unlock()
	return nil
}

func (f *fakeStore) ListKeys(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys, nil
}

func (f *fakeStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

// testRouter registers the API without the auth middleware; the middleware
// itself is covered by the jwt library and not under test here.
func testRouter(db *gorm.DB, store *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	thumbs := &Thumbnailer{FFmpegPath: "ffmpeg", FFprobePath: "ffprobe"}

	r := gin.New()
	api := r.Group("/api")

	api.GET("/programs", ListPrograms(db))
	api.GET("/programs/:programId", GetProgram(db))
	api.POST("/programs", CreateProgram(db, store))
	api.PUT("/programs/:programId", UpdateProgram(db, store))
	api.DELETE("/programs/:programId", DeleteProgram(db, store))

	api.GET("/groups/:programId", ListGroups(db))
	api.POST("/groups/:programId", CreateGroup(db))
	api.PUT("/groups/:programId/:groupId", UpdateGroup(db))
	api.DELETE("/groups/:programId/:groupId", DeleteGroup(db))

	api.GET("/users", ListUsers(db))
	api.POST("/users", CreateUser(db))
	api.GET("/users/:userId", GetUser(db))
	api.PUT("/users/:userId", UpdateUser(db, store))
	api.PATCH("/users/:userId", PatchUser(db))
	api.DELETE("/users/:userId", DeleteUser(db, store))
	api.POST("/users/:userId/scores", CreateScore(db))
	api.POST("/users/:userId/achievements", CreateAchievement(db))
	api.DELETE("/users/:userId/achievements/:achievementId", DeleteAchievement(db))

	api.GET("/tryouts", ListTryouts(db))
	api.POST("/tryouts", CreateTryout(db))
	api.PUT("/tryouts/:tryoutId", UpdateTryout(db))
	api.DELETE("/tryouts/:tryoutId", DeleteTryout(db))

	api.GET("/gallery", ListGallery(db))
	api.POST("/gallery", CreateGalleryItem(db, store, thumbs))
	api.DELETE("/gallery/:galleryId", DeleteGalleryItem(db, store))

	api.POST("/sponsors", CreateSponsor(db, store))
	api.POST("/admin/storage/sweep", SweepStorage(db, store))

	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Body    json.RawMessage `json:"body"`
	Error   string          `json:"error"`
}

func doForm(t *testing.T, r *gin.Engine, method, path string, form url.Values) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope %q: %v", w.Body.String(), err)
	}
	return w, env
}

func doMultipart(t *testing.T, r *gin.Engine, method, path string, fields map[string]string, fileField, filename, contentType string, data []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileField != "" {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, filename))
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	mw.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope %q: %v", w.Body.String(), err)
	}
	return w, env
}

/* ===================== PROGRAMS ===================== */

func TestProgramRoundTripDefaults(t *testing.T) {
	db := openTestDB(t)
	r := testRouter(db, newFakeStore())

	w, env := doForm(t, r, http.MethodPost, "/api/programs", url.Values{
		"name":     {"Test"},
		"category": {"recreational"},
	})
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("create failed: %d %s", w.Code, env.Error)
	}
	var created Program
	if err := json.Unmarshal(env.Body, &created); err != nil {
		t.Fatal(err)
	}
	if created.Length != 0 {
		t.Fatalf("expected length 0, got %d", created.Length)
	}
	if created.ProgramImgUrl != "" {
		t.Fatalf("expected empty programImgUrl, got %s", created.ProgramImgUrl)
	}

	w, env = doForm(t, r, http.MethodGet, fmt.Sprintf("/api/programs/%d", created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get failed: %d", w.Code)
	}
	var fetched Program
	if err := json.Unmarshal(env.Body, &fetched); err != nil {
		t.Fatal(err)
	}
	if fetched.Name != "Test" || fetched.Category != "recreational" || fetched.Length != 0 {
		t.Fatalf("round-trip mismatch: %+v", fetched)
	}
}

func TestProgramBadID(t *testing.T) {
	db := openTestDB(t)
	r := testRouter(db, newFakeStore())

	w, _ := doForm(t, r, http.MethodGet, "/api/programs/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", w.Code)
	}
}

func TestProgramImageReplacement(t *testing.T) {
	db := openTestDB(t)
	store := newFakeStore()
	r := testRouter(db, store)

	_, env := doMultipart(t, r, http.MethodPost, "/api/programs",
		map[string]string{"name": "Rings", "category": "competitive"},
		"programImgFile", "rings.jpg", "image/jpeg", []byte("old-image"))
	if !env.Success {
		t.Fatalf("create failed: %s", env.Error)
	}
	var created Program
	if err := json.Unmarshal(env.Body, &created); err != nil {
		t.Fatal(err)
	}
	if created.ProgramImgUrl == "" {
		t.Fatalf("expected image url after upload")
	}

	var row Program
	if err := db.First(&row, created.ID).Error; err != nil {
		t.Fatal(err)
	}
	oldKey := row.ProgramImgKey
	if !store.has(oldKey) {
		t.Fatalf("uploaded object missing from store")
	}

	_, env = doMultipart(t, r, http.MethodPut, fmt.Sprintf("/api/programs/%d", created.ID),
		nil, "programImgFile", "rings2.jpg", "image/jpeg", []byte("new-image"))
	if !env.Success {
		t.Fatalf("update failed: %s", env.Error)
	}

	if err := db.First(&row, created.ID).Error; err != nil {
		t.Fatal(err)
	}
	if row.ProgramImgKey == oldKey {
		t.Fatalf("expected a fresh object key after replacement")
	}
	if store.has(oldKey) {
		t.Fatalf("previous object should be deleted from storage")
	}
	if !store.has(row.ProgramImgKey) {
		t.Fatalf("replacement object missing from storage")
	}
}

func TestProgramDeleteCascadesGroups(t *testing.T) {
	db := openTestDB(t)
	r := testRouter(db, newFakeStore())

	_, env := doForm(t, r, http.MethodPost, "/api/programs", url.Values{"name": {"Tumbling"}})
	var program Program
	if err := json.Unmarshal(env.Body, &program); err != nil {
		t.Fatal(err)
	}

	_, env = doForm(t, r, http.MethodPost, fmt.Sprintf("/api/groups/%d", program.ID), url.Values{
		"name": {"Monday beginners"},
		"day":  {"Monday"},
	})
	if !env.Success {
		t.Fatalf("group create failed: %s", env.Error)
	}

	w, _ := doForm(t, r, http.MethodDelete, fmt.Sprintf("/api/programs/%d", program.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete failed: %d", w.Code)
	}

	var count int64
	db.Model(&Group{}).Where("program_id = ?", program.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected groups removed with program, %d left", count)
	}
}

/* ===================== TRYOUTS ===================== */

func TestTryoutDeleteMissing(t *testing.T) {
	db := openTestDB(t)
	r := testRouter(db, newFakeStore())

	w, env := doForm(t, r, http.MethodDelete, "/api/tryouts/999999", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if env.Error != "No tryout found" {
		t.Fatalf("expected 'No tryout found', got %q", env.Error)
	}
}

func TestTryoutLifecycle(t *testing.T) {
	db := openTestDB(t)
	r := testRouter(db, newFakeStore())

	_, env := doForm(t, r, http.MethodPost, "/api/tryouts", url.Values{
		"firstName": {"Ava"},
		"lastName":  {"Chen"},
		"age":       {"11"},
	})
	if !env.Success {
		t.Fatalf("create failed: %s", env.Error)
	}
	var tryout Tryout
	if err := json.Unmarshal(env.Body, &tryout); err != nil {
		t.Fatal(err)
	}
	if tryout.ReadStatus {
		t.Fatalf("new tryout should be unread")
	}

	_, env = doForm(t, r, http.MethodPut, fmt.Sprintf("/api/tryouts/%d", tryout.ID), url.Values{
		"readStatus": {"true"},
	})
	if !env.Success {
		t.Fatalf("update failed: %s", env.Error)
	}
	var updated Tryout
	if err := json.Unmarshal(env.Body, &updated); err != nil {
		t.Fatal(err)
	}
	if !updated.ReadStatus {
		t.Fatalf("expected readStatus true")
	}
	if updated.FirstName != "Ava" || updated.Age != 11 {
		t.Fatalf("untouched fields should survive the update: %+v", updated)
	}

	w, _ := doForm(t, r, http.MethodDelete, fmt.Sprintf("/api/tryouts/%d", tryout.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete failed: %d", w.Code)
	}
	w, _ = doForm(t, r, http.MethodDelete, fmt.Sprintf("/api/tryouts/%d", tryout.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete should 404, got %d", w.Code)
	}
}

/* ===================== USERS & ROLES ===================== */

func createTestUser(t *testing.T, r *gin.Engine) User {
	t.Helper()
	_, env := doForm(t, r, http.MethodPost, "/api/users", url.Values{
		"firstName": {"Maya"},
		"lastName":  {"Shenderey"},
	})
	if !env.Success {
		t.Fatalf("create user failed: %s", env.Error)
	}
	var user User
	if err := json.Unmarshal(env.Body, &user); err != nil {
		t.Fatal(err)
	}
	return user
}

func TestAchievementDeleteMissing(t *testing.T) {
	db := openTestDB(t)
	r := testRouter(db, newFakeStore())

	user := createTestUser(t, r)
	_, env := doForm(t, r, http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), url.Values{
		"isAthlete": {"true"},
	})
	if !env.Success {
		t.Fatalf("role update failed: %s", env.Error)
	}

	w, env := doForm(t, r, http.MethodDelete,
		fmt.Sprintf("/api/users/%d/achievements/424242", user.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for missing achievement, got %d", w.Code)
	}
	if !env.Success {
		t.Fatalf("expected success envelope, got error %q", env.Error)
	}
	if string(env.Body) != "null" {
		t.Fatalf("expected null body, got %s", env.Body)
	}
}

func TestRoleNoopKeepsRows(t *testing.T) {
	db := openTestDB(t)
	r := testRouter(db, newFakeStore())

	user := createTestUser(t, r)
	doForm(t, r, http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), url.Values{
		"isAthlete":  {"true"},
		"isProspect": {"true"},
		"skillLevel": {"Level 8"},
	})

	var athleteBefore Athlete
	if err := db.Where("user_id = ?", user.ID).First(&athleteBefore).Error; err != nil {
		t.Fatalf("athlete row missing: %v", err)
	}
	var prospectBefore Prospect
	if err := db.Where("user_id = ?", user.ID).First(&prospectBefore).Error; err != nil {
		t.Fatalf("prospect row missing: %v", err)
	}

	// Same flags again: rows must be updated in place, never recreated.
	_, env := doForm(t, r, http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), url.Values{
		"isAthlete":  {"true"},
		"isProspect": {"true"},
	})
	if !env.Success {
		t.Fatalf("noop update failed: %s", env.Error)
	}

	var athleteAfter Athlete
	if err := db.Where("user_id = ?", user.ID).First(&athleteAfter).Error; err != nil {
		t.Fatal(err)
	}
	if athleteAfter.ID != athleteBefore.ID {
		t.Fatalf("athlete row was recreated: %d -> %d", athleteBefore.ID, athleteAfter.ID)
	}
	if athleteAfter.SkillLevel != "Level 8" {
		t.Fatalf("skill level should survive a form without the field, got %q", athleteAfter.SkillLevel)
	}
	var prospectAfter Prospect
	if err := db.Where("user_id = ?", user.ID).First(&prospectAfter).Error; err != nil {
		t.Fatal(err)
	}
	if prospectAfter.ID != prospectBefore.ID {
		t.Fatalf("prospect row was recreated")
	}
}

func TestProspectToAlumniTransition(t *testing.T) {
	db := openTestDB(t)
	r := testRouter(db, newFakeStore())

	user := createTestUser(t, r)
	doForm(t, r, http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), url.Values{
		"isAthlete":   {"true"},
		"isProspect":  {"true"},
		"institution": {"McMaster"},
	})

	_, env := doForm(t, r, http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), url.Values{
		"isAthlete":  {"true"},
		"isProspect": {"false"},
		"isAlumni":   {"true"},
	})
	if !env.Success {
		t.Fatalf("transition failed: %s", env.Error)
	}

	var prospectCount, alumniCount int64
	db.Model(&Prospect{}).Where("user_id = ?", user.ID).Count(&prospectCount)
	db.Model(&Alumni{}).Where("user_id = ?", user.ID).Count(&alumniCount)
	if prospectCount != 0 {
		t.Fatalf("prospect row should be gone")
	}
	if alumniCount != 1 {
		t.Fatalf("expected exactly one alumni row, got %d", alumniCount)
	}

	var updated User
	db.First(&updated, user.ID)
	if updated.IsProspect || !updated.IsAlumni || !updated.IsAthlete {
		t.Fatalf("flags out of sync: %+v", updated)
	}
}

func TestAthleteRemovalCascades(t *testing.T) {
	db := openTestDB(t)
	r := testRouter(db, newFakeStore())

	user := createTestUser(t, r)
	doForm(t, r, http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), url.Values{
		"isAthlete":  {"true"},
		"isProspect": {"true"},
	})
	doForm(t, r, http.MethodPost, fmt.Sprintf("/api/users/%d/scores", user.ID), url.Values{
		"meet": {"Provincials"}, "event": {"Vault"}, "score": {"13.2"},
	})
	doForm(t, r, http.MethodPost, fmt.Sprintf("/api/users/%d/achievements", user.ID), url.Values{
		"title": {"Gold"},
	})

	var athlete Athlete
	if err := db.Where("user_id = ?", user.ID).First(&athlete).Error; err != nil {
		t.Fatal(err)
	}

	_, env := doForm(t, r, http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), url.Values{
		"isAthlete": {"false"},
	})
	if !env.Success {
		t.Fatalf("removal failed: %s", env.Error)
	}

	for name, count := range map[string]int64{
		"scores":       tableCount(db, &Score{}, "athlete_id = ?", athlete.ID),
		"achievements": tableCount(db, &Achievement{}, "athlete_id = ?", athlete.ID),
		"media":        tableCount(db, &Media{}, "athlete_id = ?", athlete.ID),
		"prospects":    tableCount(db, &Prospect{}, "user_id = ?", user.ID),
		"alumni":       tableCount(db, &Alumni{}, "user_id = ?", user.ID),
		"athletes":     tableCount(db, &Athlete{}, "user_id = ?", user.ID),
	} {
		if count != 0 {
			t.Fatalf("expected %s cleaned up, found %d rows", name, count)
		}
	}

	var updated User
	db.First(&updated, user.ID)
	if updated.IsAthlete || updated.IsProspect {
		t.Fatalf("flags should be cleared: %+v", updated)
	}
}

func TestRoleCleanupRollbackKeepsImageSlot(t *testing.T) {
	db := openTestDB(t)
	store := newFakeStore()
	r := testRouter(db, store)

	user := createTestUser(t, r)
	_, env := doMultipart(t, r, http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID),
		map[string]string{"isAthlete": "true"},
		"athleteImgFile", "headshot.jpg", "image/jpeg", []byte("headshot"))
	if !env.Success {
		t.Fatalf("role setup failed: %s", env.Error)
	}
	var img UserImages
	if err := db.Where("user_id = ?", user.ID).First(&img).Error; err != nil {
		t.Fatal(err)
	}
	if img.AthleteImgKey == "" {
		t.Fatalf("expected athlete photo slot populated")
	}

	// Dropping the scores table makes the athlete cleanup transaction fail
	// partway through, after the slot fields were already cleared in memory.
	if err := db.Migrator().DropTable(&Score{}); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := db.AutoMigrate(&Score{}); err != nil {
			t.Errorf("restore scores table: %v", err)
		}
	}()

	_, env = doForm(t, r, http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), url.Values{
		"isAthlete": {"false"},
	})
	if !env.Success {
		t.Fatalf("a failed role cleanup is logged, not surfaced: %s", env.Error)
	}

	var after UserImages
	if err := db.Where("user_id = ?", user.ID).First(&after).Error; err != nil {
		t.Fatal(err)
	}
	if after.AthleteImgKey != img.AthleteImgKey || after.AthleteImgUrl != img.AthleteImgUrl {
		t.Fatalf("rolled-back cleanup must not clear slot columns: %+v", after)
	}
	if tableCount(db, &Athlete{}, "user_id = ?", user.ID) != 1 {
		t.Fatalf("athlete row should survive the rollback")
	}
	if !store.has(img.AthleteImgKey) {
		t.Fatalf("stored object must not be deleted after a rollback")
	}
}

func tableCount(db *gorm.DB, model any, query string, args ...any) int64 {
	var count int64
	db.Model(model).Where(query, args...).Count(&count)
	return count
}

/* ===================== GALLERY & SWEEP ===================== */

func TestGalleryImageUpload(t *testing.T) {
	db := openTestDB(t)
	store := newFakeStore()
	r := testRouter(db, store)

	_, env := doMultipart(t, r, http.MethodPost, "/api/gallery",
		map[string]string{"name": "Meet day", "date": "2026-05-01"},
		"mediaFile", "meet.png", "image/png", []byte("png-bytes"))
	if !env.Success {
		t.Fatalf("upload failed: %s", env.Error)
	}

	var item GalleryItem
	if err := json.Unmarshal(env.Body, &item); err != nil {
		t.Fatal(err)
	}
	if item.Type != "image" {
		t.Fatalf("expected image type, got %s", item.Type)
	}
	if item.VideoThumbnail != "" {
		t.Fatalf("image uploads must not carry a thumbnail, got %s", item.VideoThumbnail)
	}
	if item.MediaUrl == "" {
		t.Fatalf("expected a media url")
	}

	var row GalleryItem
	if err := db.First(&row, item.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !store.has(row.MediaKey) {
		t.Fatalf("stored object missing")
	}

	// Delete removes the row and the object.
	w, _ := doForm(t, r, http.MethodDelete, fmt.Sprintf("/api/gallery/%d", item.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete failed: %d", w.Code)
	}
	if store.has(row.MediaKey) {
		t.Fatalf("object should be deleted with the row")
	}
}

// makeTestClip synthesizes a short mp4 with ffmpeg's test source, skipping
// when the binaries are not installed.
func makeTestClip(t *testing.T) []byte {
	t.Helper()
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not on PATH", bin)
		}
	}
	path := filepath.Join(t.TempDir(), "clip.mp4")
	out, err := exec.Command("ffmpeg", "-y",
		"-f", "lavfi", "-i", "testsrc=duration=6:size=320x240:rate=10",
		"-pix_fmt", "yuv420p",
		path,
	).CombinedOutput()
	if err != nil {
		t.Skipf("cannot synthesize clip: %v: %s", err, out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestGalleryVideoUpload(t *testing.T) {
	db := openTestDB(t)
	clip := makeTestClip(t)
	store := newFakeStore()
	r := testRouter(db, store)

	_, env := doMultipart(t, r, http.MethodPost, "/api/gallery",
		map[string]string{"name": "Floor routine", "date": "2026-06-14"},
		"mediaFile", "routine.mp4", "video/mp4", clip)
	if !env.Success {
		t.Fatalf("upload failed: %s", env.Error)
	}

	var item GalleryItem
	if err := json.Unmarshal(env.Body, &item); err != nil {
		t.Fatal(err)
	}
	if item.Type != "video" {
		t.Fatalf("expected video type, got %s", item.Type)
	}
	if item.VideoThumbnail == "" {
		t.Fatalf("video uploads must carry a thumbnail")
	}
	if item.VideoThumbnail == item.MediaUrl {
		t.Fatalf("thumbnail must be its own object, got %s twice", item.MediaUrl)
	}

	var row GalleryItem
	if err := db.First(&row, item.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !store.has(row.MediaKey) {
		t.Fatalf("video object missing from storage")
	}
	if !store.has(row.VideoThumbnailKey) {
		t.Fatalf("thumbnail object missing from storage")
	}
	if !strings.HasPrefix(row.VideoThumbnailKey, "gallery/thumbnails/") {
		t.Fatalf("thumbnail should live under gallery/thumbnails/, got %s", row.VideoThumbnailKey)
	}
}

func TestSweepRemovesOrphans(t *testing.T) {
	db := openTestDB(t)
	store := newFakeStore()
	r := testRouter(db, store)

	_, env := doMultipart(t, r, http.MethodPost, "/api/sponsors",
		map[string]string{"name": "GymCo", "tier": "gold"},
		"logoFile", "logo.png", "image/png", []byte("logo"))
	if !env.Success {
		t.Fatalf("sponsor create failed: %s", env.Error)
	}
	var sponsor Sponsor
	if err := db.Where("name = ?", "GymCo").First(&sponsor).Error; err != nil {
		t.Fatal(err)
	}

	store.mu.Lock()
	store.objects["gallery/orphaned-object.jpg"] = []byte("x")
	store.mu.Unlock()

	w, env := doForm(t, r, http.MethodPost, "/api/admin/storage/sweep", nil)
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("sweep failed: %d %s", w.Code, env.Error)
	}

	if store.has("gallery/orphaned-object.jpg") {
		t.Fatalf("orphan should be removed")
	}
	if !store.has(sponsor.LogoKey) {
		t.Fatalf("referenced object must survive the sweep")
	}
}
