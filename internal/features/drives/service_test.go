package drives

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/xyz-asif/civicgo/pkg/errors"
)

// fakeStore mimics the repository's conditional Join under a mutex, so the
// membership check and the write are one atomic step like the real filter.
type fakeStore struct {
	mu     sync.Mutex
	drives map[primitive.ObjectID]*Drive
}

func newFakeStore() *fakeStore {
	return &fakeStore{drives: make(map[primitive.ObjectID]*Drive)}
}

func (f *fakeStore) Insert(ctx context.Context, drive *Drive) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	drive.ID = primitive.NewObjectID()
	copied := *drive
	f.drives[drive.ID] = &copied
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id primitive.ObjectID) (*Drive, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	drive, ok := f.drives[id]
	if !ok {
		return nil, nil
	}
	copied := *drive
	copied.Participants = append([]string(nil), drive.Participants...)
	return &copied, nil
}

func (f *fakeStore) List(ctx context.Context, limit int64) ([]Drive, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := make([]Drive, 0, len(f.drives))
	for _, drive := range f.drives {
		items = append(items, *drive)
	}
	return items, nil
}

func (f *fakeStore) ListUpcoming(ctx context.Context, limit int64) ([]Drive, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var items []Drive
	for _, drive := range f.drives {
		if drive.Status == StatusUpcoming {
			items = append(items, *drive)
		}
	}
	return items, nil
}

func (f *fakeStore) Join(ctx context.Context, id primitive.ObjectID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	drive, ok := f.drives[id]
	if !ok {
		return false, nil
	}
	for _, p := range drive.Participants {
		if p == userID {
			return false, nil
		}
	}
	if drive.MaxParticipants > 0 && drive.ParticipantCount >= drive.MaxParticipants {
		return false, nil
	}
	drive.Participants = append(drive.Participants, userID)
	drive.ParticipantCount++
	return true, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	drive, ok := f.drives[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	drive.Status = status
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.drives[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.drives, id)
	return nil
}

type fakeLedger struct {
	mu     sync.Mutex
	points map[string]int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{points: make(map[string]int)}
}

func (f *fakeLedger) AwardJoinDrive(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points[userID] += 15
	return nil
}

func (f *fakeLedger) AwardOrganizeDrive(ctx context.Context, userID string, reward int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if reward <= 0 {
		reward = 20
	}
	f.points[userID] += reward
	return nil
}

func (f *fakeLedger) pointsOf(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.points[userID]
}

func validCreate() *CreateDriveRequest {
	return &CreateDriveRequest{
		Title:       "Godavari riverbank cleanup",
		Description: "Bring gloves",
		Category:    CategoryCleanup,
		Date:        time.Now().Add(48 * time.Hour),
		Location:    "Ramkund",
		Coordinates: &Coordinates{Lat: 20.0076, Lng: 73.7903},
	}
}

func TestCreateDriveValidation(t *testing.T) {
	service := NewService(newFakeStore(), newFakeLedger())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateDriveRequest)
	}{
		{"missing title", func(r *CreateDriveRequest) { r.Title = " " }},
		{"unknown category", func(r *CreateDriveRequest) { r.Category = "party" }},
		{"past date", func(r *CreateDriveRequest) { r.Date = time.Now().Add(-time.Hour) }},
		{"missing location", func(r *CreateDriveRequest) { r.Location = "" }},
		{"missing coordinates", func(r *CreateDriveRequest) { r.Coordinates = nil }},
		{"negative capacity", func(r *CreateDriveRequest) { r.MaxParticipants = -1 }},
		{"negative reward", func(r *CreateDriveRequest) { r.PointsReward = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(req)
			_, err := service.Create(ctx, Organizer{UserID: "org-1"}, req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestCreateDriveGrantsOrganizer(t *testing.T) {
	ledger := newFakeLedger()
	service := NewService(newFakeStore(), ledger)
	ctx := context.Background()

	drive, err := service.Create(ctx, Organizer{UserID: "org-1", Name: "Asha"}, validCreate())
	require.NoError(t, err)

	assert.Equal(t, StatusUpcoming, drive.Status)
	assert.Empty(t, drive.Participants)
	assert.Equal(t, 0, drive.ParticipantCount)
	assert.Equal(t, 20, ledger.pointsOf("org-1"))
}

func TestCreateDriveCustomReward(t *testing.T) {
	ledger := newFakeLedger()
	service := NewService(newFakeStore(), ledger)

	req := validCreate()
	req.PointsReward = 40
	_, err := service.Create(context.Background(), Organizer{UserID: "org-1"}, req)
	require.NoError(t, err)

	assert.Equal(t, 40, ledger.pointsOf("org-1"))
}

func TestJoinDrive(t *testing.T) {
	ledger := newFakeLedger()
	service := NewService(newFakeStore(), ledger)
	ctx := context.Background()

	drive, err := service.Create(ctx, Organizer{UserID: "org-1"}, validCreate())
	require.NoError(t, err)

	require.NoError(t, service.Join(ctx, drive.ID, "uid-1"))

	got, err := service.Get(ctx, drive.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"uid-1"}, got.Participants)
	assert.Equal(t, 1, got.ParticipantCount)
	assert.Equal(t, 15, ledger.pointsOf("uid-1"))
}

func TestJoinDriveTwiceFails(t *testing.T) {
	ledger := newFakeLedger()
	service := NewService(newFakeStore(), ledger)
	ctx := context.Background()

	drive, err := service.Create(ctx, Organizer{UserID: "org-1"}, validCreate())
	require.NoError(t, err)

	require.NoError(t, service.Join(ctx, drive.ID, "uid-1"))
	err = service.Join(ctx, drive.ID, "uid-1")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyJoined)

	got, err := service.Get(ctx, drive.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ParticipantCount)
	assert.Equal(t, 15, ledger.pointsOf("uid-1"))
}

func TestJoinFullDriveFails(t *testing.T) {
	service := NewService(newFakeStore(), newFakeLedger())
	ctx := context.Background()

	req := validCreate()
	req.MaxParticipants = 1
	drive, err := service.Create(ctx, Organizer{UserID: "org-1"}, req)
	require.NoError(t, err)

	require.NoError(t, service.Join(ctx, drive.ID, "uid-1"))
	err = service.Join(ctx, drive.ID, "uid-2")
	assert.ErrorIs(t, err, apperrors.ErrDriveFull)
}

func TestJoinMissingDrive(t *testing.T) {
	service := NewService(newFakeStore(), newFakeLedger())

	err := service.Join(context.Background(), primitive.NewObjectID(), "uid-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// Concurrent joins against a capped drive: the final count never exceeds the
// cap and no user appears twice.
func TestConcurrentJoinsRespectCapacity(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()
	service := NewService(store, ledger)
	ctx := context.Background()

	const capacity = 5
	const contenders = 20

	req := validCreate()
	req.MaxParticipants = capacity
	drive, err := service.Create(ctx, Organizer{UserID: "org-1"}, req)
	require.NoError(t, err)

	results := make(chan error, contenders)
	var wg sync.WaitGroup
	wg.Add(contenders)
	for i := 0; i < contenders; i++ {
		userID := "uid-" + string(rune('a'+i))
		go func() {
			defer wg.Done()
			results <- service.Join(ctx, drive.ID, userID)
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, full int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperrors.ErrDriveFull):
			full++
		default:
			t.Fatalf("unexpected join error: %v", err)
		}
	}

	assert.Equal(t, capacity, succeeded)
	assert.Equal(t, contenders-capacity, full)

	got, err := service.Get(ctx, drive.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, got.ParticipantCount)
	assert.Len(t, got.Participants, capacity)

	seen := make(map[string]bool)
	for _, p := range got.Participants {
		assert.False(t, seen[p], "duplicate participant %s", p)
		seen[p] = true
	}
}

func TestUnlimitedCapacity(t *testing.T) {
	service := NewService(newFakeStore(), newFakeLedger())
	ctx := context.Background()

	drive, err := service.Create(ctx, Organizer{UserID: "org-1"}, validCreate())
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		require.NoError(t, service.Join(ctx, drive.ID, "uid-"+string(rune('0'+i%10))+string(rune('a'+i/10))))
	}

	got, err := service.Get(ctx, drive.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.ParticipantCount)
}

func TestUpdateStatusOrganizerOnly(t *testing.T) {
	service := NewService(newFakeStore(), newFakeLedger())
	ctx := context.Background()

	drive, err := service.Create(ctx, Organizer{UserID: "org-1"}, validCreate())
	require.NoError(t, err)

	err = service.UpdateStatus(ctx, drive.ID, "uid-2", StatusCompleted)
	assert.ErrorIs(t, err, apperrors.ErrPermission)

	require.NoError(t, service.UpdateStatus(ctx, drive.ID, "org-1", StatusCompleted))
	got, err := service.Get(ctx, drive.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestDeleteDriveOrganizerOnly(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, newFakeLedger())
	ctx := context.Background()

	drive, err := service.Create(ctx, Organizer{UserID: "org-1"}, validCreate())
	require.NoError(t, err)

	err = service.Delete(ctx, drive.ID, "uid-2")
	assert.ErrorIs(t, err, apperrors.ErrPermission)

	require.NoError(t, service.Delete(ctx, drive.ID, "org-1"))
	assert.Empty(t, store.drives)
}
