package profile_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/xoxo-backend/internal/common/utils"
	"github.com/imadgeboyega/xoxo-backend/internal/geo"
	"github.com/imadgeboyega/xoxo-backend/internal/profile"
)

type memoryRepository struct {
	mu       sync.Mutex
	profiles map[string]*profile.Profile
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{profiles: map[string]*profile.Profile{}}
}

func (m *memoryRepository) Create(_ context.Context, p *profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.UserID]; ok {
		return profile.ErrProfileExists
	}
	cp := *p
	m.profiles[p.UserID] = &cp
	return nil
}

func (m *memoryRepository) GetByUserID(_ context.Context, userID string) (*profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memoryRepository) GetByUserIDs(ctx context.Context, userIDs []string) (map[string]*profile.Profile, error) {
	out := map[string]*profile.Profile{}
	for _, id := range userIDs {
		if p, err := m.GetByUserID(ctx, id); err == nil {
			out[id] = p
		}
	}
	return out, nil
}

func (m *memoryRepository) Update(_ context.Context, p *profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.UserID]; !ok {
		return profile.ErrProfileNotFound
	}
	cp := *p
	m.profiles[p.UserID] = &cp
	return nil
}

func (m *memoryRepository) UpdateLocation(_ context.Context, userID string, at geo.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return profile.ErrProfileNotFound
	}
	lat, lng := at.Lat, at.Lng
	p.Latitude, p.Longitude = &lat, &lng
	return nil
}

func (m *memoryRepository) AppendPhoto(_ context.Context, userID, url string) (*profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	p.Photos = append(p.Photos, url)
	cp := *p
	return &cp, nil
}

func (m *memoryRepository) ListLocated(_ context.Context, excludeUserID string) ([]*profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*profile.Profile
	for _, p := range m.profiles {
		if _, ok := p.Location(); ok && p.UserID != excludeUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryRepository) Discover(_ context.Context, userID, pref string, limit int) ([]*profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*profile.Profile
	for _, p := range m.profiles {
		if p.UserID == userID || !p.IsActive {
			continue
		}
		if pref != "all" && p.Gender != pref {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memoryRepository) DisplayName(ctx context.Context, userID string) (string, error) {
	p, err := m.GetByUserID(ctx, userID)
	if err != nil {
		return "", profile.ErrUserNotFound
	}
	return p.Name, nil
}

type recordingStorage struct {
	keys []string
}

func (s *recordingStorage) Put(_ context.Context, key string, body io.ReadSeeker, _ string) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	s.keys = append(s.keys, key)
	return "https://cdn.test/" + key, nil
}

func ptr[T any](v T) *T { return &v }

func TestService_Create(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := profile.NewService(newMemoryRepository(), nil)

	p, err := svc.Create(ctx, "user-1", &profile.CreateProfileRequest{
		Name: "Ada", Age: 30, Gender: "female", GenderPreference: "male",
	})
	require.NoError(t, err)
	require.Equal(t, profile.DefaultMaxDistanceKM, p.MaxDistanceKM)
	require.True(t, p.IsActive)
	require.NotNil(t, p.Photos)

	_, err = svc.Create(ctx, "user-1", &profile.CreateProfileRequest{
		Name: "Ada", Age: 30, Gender: "female", GenderPreference: "male",
	})
	require.ErrorIs(t, err, utils.ErrConflict)
}

func TestService_Upsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := profile.NewService(newMemoryRepository(), nil)

	t.Run("it should refuse to create without the required fields", func(t *testing.T) {
		_, err := svc.Upsert(ctx, "user-2", &profile.UpdateProfileRequest{Name: ptr("Bea")})
		require.ErrorIs(t, err, utils.ErrValidation)
	})

	t.Run("it should create from camelCase fields", func(t *testing.T) {
		p, err := svc.Upsert(ctx, "user-2", &profile.UpdateProfileRequest{
			Name:                  ptr("Bea"),
			Age:                   ptr(27),
			Gender:                ptr("female"),
			GenderPreferenceCamel: ptr("all"),
			MaxDistanceKMCamel:    ptr(15),
		})
		require.NoError(t, err)
		require.Equal(t, "all", p.GenderPreference)
		require.Equal(t, 15, p.MaxDistanceKM)
	})

	t.Run("it should apply a partial update and order images", func(t *testing.T) {
		p, err := svc.Upsert(ctx, "user-2", &profile.UpdateProfileRequest{
			Bio: ptr("hello"),
			Images: []profile.ImageUpdate{
				{URL: "b.jpg", Order: 2},
				{URL: "c.jpg", Order: 1},
				{URL: "a.jpg", IsMain: true, Order: 3},
				{URL: "", Order: 0},
			},
		})
		require.NoError(t, err)
		require.Equal(t, "Bea", p.Name)
		require.Equal(t, "hello", *p.Bio)
		require.Equal(t, []string{"a.jpg", "c.jpg", "b.jpg"}, []string(p.Photos))
	})
}

func TestService_UploadPhoto(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := &recordingStorage{}
	svc := profile.NewService(newMemoryRepository(), storage)

	_, err := svc.UploadPhoto(ctx, "user-3", &profile.PhotoUpload{Filename: "me.png", Body: strings.NewReader("png")})
	require.ErrorIs(t, err, utils.ErrNotFound)

	_, err = svc.Create(ctx, "user-3", &profile.CreateProfileRequest{Name: "Cy", Age: 40, Gender: "male", GenderPreference: "all"})
	require.NoError(t, err)

	p, err := svc.UploadPhoto(ctx, "user-3", &profile.PhotoUpload{Filename: "me.PNG", Body: strings.NewReader("png")})
	require.NoError(t, err)
	require.Len(t, p.Photos, 1)
	require.True(t, strings.HasPrefix(storage.keys[0], "profiles/user-3/"))
	require.True(t, strings.HasSuffix(storage.keys[0], ".png"))

	_, err = svc.UploadPhoto(ctx, "user-3", &profile.PhotoUpload{Filename: "blob", Body: strings.NewReader("raw")})
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(storage.keys[1], ".jpg"))
}

func TestService_Discover(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := profile.NewService(newMemoryRepository(), nil)

	_, err := svc.Discover(ctx, "nobody")
	require.ErrorIs(t, err, utils.ErrNotFound)

	for id, gender := range map[string]string{"u-a": "female", "u-b": "male", "u-c": "female"} {
		_, err := svc.Create(ctx, id, &profile.CreateProfileRequest{Name: id, Age: 25, Gender: gender, GenderPreference: "female"})
		require.NoError(t, err)
	}

	found, err := svc.Discover(ctx, "u-b")
	require.NoError(t, err)
	require.Len(t, found, 2)
	for _, p := range found {
		require.Equal(t, "female", p.Gender)
	}
}

func TestS3Storage_Put(t *testing.T) {
	t.Parallel()

	var (
		gotMethod string
		gotPath   string
		gotBody   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotMethod, gotPath, gotBody = r.Method, r.URL.Path, string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	storage, err := profile.NewS3Storage(profile.S3Config{
		Endpoint:  server.URL,
		AccessKey: "minio",
		SecretKey: "minio-secret",
		Bucket:    "photos",
		Region:    "us-east-1",
	})
	require.NoError(t, err)

	url, err := storage.Put(context.Background(), "profiles/u/1.jpg", strings.NewReader("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, server.URL+"/photos/profiles/u/1.jpg", url)
	require.Equal(t, http.MethodPut, gotMethod)
	require.Equal(t, "/photos/profiles/u/1.jpg", gotPath)
	require.Equal(t, "jpeg-bytes", gotBody)
}

func TestPostgresRepository(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := profile.NewPostgresRepository(sqlx.NewDb(db, "postgres"))
	ctx := context.Background()

	t.Run("it should map a unique violation to a conflict", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO profiles").WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, &profile.Profile{ID: "p", UserID: "u"})
		require.ErrorIs(t, err, profile.ErrProfileExists)
	})

	t.Run("it should report a missing row as not found", func(t *testing.T) {
		mock.ExpectExec("UPDATE profiles").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateLocation(ctx, "u", geo.Point{Lat: 1, Lng: 2})
		require.ErrorIs(t, err, profile.ErrProfileNotFound)
	})

	t.Run("it should resolve a display name", func(t *testing.T) {
		mock.ExpectQuery("SELECT COALESCE").
			WithArgs("u").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("someone@example.com"))

		name, err := repo.DisplayName(ctx, "u")
		require.NoError(t, err)
		require.Equal(t, "someone@example.com", name)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
