package issues

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/civicgo/internal/pkg/connectivity"
	apperrors "github.com/xyz-asif/civicgo/pkg/errors"
)

// fakeStore mirrors the repository's single-document atomicity with a mutex.
type fakeStore struct {
	mu       sync.Mutex
	issues   map[primitive.ObjectID]*Issue
	comments map[primitive.ObjectID][]Comment
	upvotes  map[string]bool // issueID.Hex() + "/" + userID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		issues:   make(map[primitive.ObjectID]*Issue),
		comments: make(map[primitive.ObjectID][]Comment),
		upvotes:  make(map[string]bool),
	}
}

func (f *fakeStore) Insert(ctx context.Context, issue *Issue) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	issue.ID = primitive.NewObjectID()
	copied := *issue
	f.issues[issue.ID] = &copied
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id primitive.ObjectID) (*Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	issue, ok := f.issues[id]
	if !ok {
		return nil, nil
	}
	copied := *issue
	copied.Updates = append([]Update(nil), issue.Updates...)
	copied.Images = append([]string(nil), issue.Images...)
	return &copied, nil
}

func (f *fakeStore) List(ctx context.Context, limit int64) ([]Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := make([]Issue, 0, len(f.issues))
	for _, issue := range f.issues {
		items = append(items, *issue)
	}
	return items, nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID string) ([]Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var items []Issue
	for _, issue := range f.issues {
		if issue.UserID == userID {
			items = append(items, *issue)
		}
	}
	return items, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, images []string, entry Update) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	issue, ok := f.issues[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	issue.Status = status
	if images != nil {
		issue.Images = images
	}
	if status == StatusResolved {
		now := entry.Date
		issue.ResolvedOn = &now
	} else {
		issue.ResolvedOn = nil
	}
	issue.Updates = append(issue.Updates, entry)
	return nil
}

func (f *fakeStore) MarkVerified(ctx context.Context, id primitive.ObjectID, entry Update) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	issue, ok := f.issues[id]
	if !ok || issue.Verified || issue.Status != StatusResolved {
		return false, nil
	}
	issue.Verified = true
	issue.Updates = append(issue.Updates, entry)
	return true, nil
}

func (f *fakeStore) AddImage(ctx context.Context, id primitive.ObjectID, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	issue, ok := f.issues[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	issue.Images = append(issue.Images, imageURL)
	return nil
}

func (f *fakeStore) RemoveImage(ctx context.Context, id primitive.ObjectID, imageURL string, entry Update) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	issue, ok := f.issues[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	kept := issue.Images[:0]
	for _, img := range issue.Images {
		if img != imageURL {
			kept = append(kept, img)
		}
	}
	issue.Images = kept
	issue.Updates = append(issue.Updates, entry)
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.issues[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.issues, id)
	return nil
}

func (f *fakeStore) DeleteComments(ctx context.Context, issueID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.comments, issueID)
	return nil
}

func (f *fakeStore) DeleteUpvotes(ctx context.Context, issueID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.upvotes {
		if len(key) >= 24 && key[:24] == issueID.Hex() {
			delete(f.upvotes, key)
		}
	}
	return nil
}

func (f *fakeStore) InsertComment(ctx context.Context, comment *Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	comment.ID = primitive.NewObjectID()
	f.comments[comment.IssueID] = append(f.comments[comment.IssueID], *comment)
	return nil
}

func (f *fakeStore) ListComments(ctx context.Context, issueID primitive.ObjectID, limit, skip int64) ([]Comment, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all := f.comments[issueID]
	return append([]Comment(nil), all...), int64(len(all)), nil
}

func (f *fakeStore) InsertUpvote(ctx context.Context, issueID primitive.ObjectID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := issueID.Hex() + "/" + userID
	if f.upvotes[key] {
		return apperrors.ErrAlreadyUpvoted
	}
	f.upvotes[key] = true
	return nil
}

func (f *fakeStore) IncrementUpvotes(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	issue, ok := f.issues[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	issue.Upvotes++
	return nil
}

// fakeLedger sums grants per user, guarded like the real $inc path.
type fakeLedger struct {
	mu     sync.Mutex
	points map[string]int
	counts map[string]int // verifications per user
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{points: make(map[string]int), counts: make(map[string]int)}
}

func (f *fakeLedger) AwardReportIssue(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points[userID] += 5
	return nil
}

func (f *fakeLedger) AwardComment(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points[userID] += 2
	return nil
}

func (f *fakeLedger) AwardVerification(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points[userID] += 10
	f.counts[userID]++
	return nil
}

func (f *fakeLedger) AwardUpvote(ctx context.Context, reporterID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points[reporterID]++
	return nil
}

func (f *fakeLedger) pointsOf(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.points[userID]
}

// fakeImages records deletions and can be told to fail specific URLs.
type fakeImages struct {
	mu      sync.Mutex
	deleted []string
	failOn  map[string]bool
}

func newFakeImages() *fakeImages {
	return &fakeImages{failOn: make(map[string]bool)}
}

func (f *fakeImages) DeleteByURL(ctx context.Context, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[imageURL] {
		return errors.New("cdn unavailable")
	}
	f.deleted = append(f.deleted, imageURL)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeLedger, *fakeImages) {
	t.Helper()
	store := newFakeStore()
	ledger := newFakeLedger()
	images := newFakeImages()
	return NewService(store, ledger, images, connectivity.Always{}), store, ledger, images
}

func validReport() *ReportIssueRequest {
	return &ReportIssueRequest{
		Category:    CategoryPothole,
		Description: "Deep pothole near the bus stop",
		Location:    "College Road",
		Coordinates: &Coordinates{Lat: 20.0059, Lng: 73.7917},
	}
}

func TestReportValidation(t *testing.T) {
	service, _, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*ReportIssueRequest)
	}{
		{"missing category", func(r *ReportIssueRequest) { r.Category = "" }},
		{"unknown category", func(r *ReportIssueRequest) { r.Category = "alien" }},
		{"missing description", func(r *ReportIssueRequest) { r.Description = "  " }},
		{"missing location", func(r *ReportIssueRequest) { r.Location = "" }},
		{"missing coordinates", func(r *ReportIssueRequest) { r.Coordinates = nil }},
		{"latitude out of range", func(r *ReportIssueRequest) { r.Coordinates.Lat = 91 }},
		{"unknown urgency", func(r *ReportIssueRequest) { r.Urgency = "extreme" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validReport()
			tt.mutate(req)
			_, err := service.Report(ctx, "uid-1", req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestReportCreatesIssueWithFirstLogEntry(t *testing.T) {
	service, _, ledger, _ := newTestService(t)
	ctx := context.Background()

	issue, err := service.Report(ctx, "uid-1", validReport())
	require.NoError(t, err)

	assert.Equal(t, StatusOpen, issue.Status)
	assert.False(t, issue.Verified)
	assert.Equal(t, 0, issue.Upvotes)
	assert.Equal(t, UrgencyMedium, issue.Urgency)
	require.Len(t, issue.Updates, 1)
	assert.Equal(t, UpdateStatusChange, issue.Updates[0].Kind)
	assert.Equal(t, "Issue reported", issue.Updates[0].Comment)
	assert.Equal(t, 5, ledger.pointsOf("uid-1"))
}

func TestReportFailsOffline(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, newFakeLedger(), newFakeImages(), offlineChecker{})

	_, err := service.Report(context.Background(), "uid-1", validReport())
	assert.ErrorIs(t, err, apperrors.ErrOffline)
	assert.Empty(t, store.issues)
}

type offlineChecker struct{}

func (offlineChecker) Online(ctx context.Context) error { return apperrors.ErrOffline }

// Full lifecycle: report, resolve, verify. Three log entries in order, points
// 5 then 15 for the same user.
func TestReportResolveVerifyScenario(t *testing.T) {
	service, _, ledger, _ := newTestService(t)
	ctx := context.Background()

	issue, err := service.Report(ctx, "uid-1", validReport())
	require.NoError(t, err)
	assert.Equal(t, 5, ledger.pointsOf("uid-1"))

	require.NoError(t, service.ChangeStatus(ctx, issue.ID, &ChangeStatusRequest{
		Status:  StatusResolved,
		Comment: "Filled by road crew",
	}))

	require.NoError(t, service.Verify(ctx, issue.ID, "uid-1"))

	got, err := service.Get(ctx, issue.ID)
	require.NoError(t, err)

	assert.True(t, got.Verified)
	assert.NotNil(t, got.ResolvedOn)
	require.Len(t, got.Updates, 3)
	assert.Equal(t, UpdateStatusChange, got.Updates[0].Kind)
	assert.Equal(t, UpdateStatusChange, got.Updates[1].Kind)
	assert.Equal(t, UpdateVerificationAdded, got.Updates[2].Kind)
	assert.Equal(t, "Resolution verified by citizen", got.Updates[2].Comment)
	assert.Equal(t, 15, ledger.pointsOf("uid-1"))
}

func TestVerifyTwiceFails(t *testing.T) {
	service, _, ledger, _ := newTestService(t)
	ctx := context.Background()

	issue, err := service.Report(ctx, "uid-1", validReport())
	require.NoError(t, err)
	require.NoError(t, service.ChangeStatus(ctx, issue.ID, &ChangeStatusRequest{Status: StatusResolved}))

	require.NoError(t, service.Verify(ctx, issue.ID, "uid-2"))
	err = service.Verify(ctx, issue.ID, "uid-3")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyVerified)

	// Only the first verifier got the grant
	assert.Equal(t, 10, ledger.pointsOf("uid-2"))
	assert.Equal(t, 0, ledger.pointsOf("uid-3"))
}

func TestVerifyUnresolvedFails(t *testing.T) {
	service, _, _, _ := newTestService(t)
	ctx := context.Background()

	issue, err := service.Report(ctx, "uid-1", validReport())
	require.NoError(t, err)

	err = service.Verify(ctx, issue.ID, "uid-2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestVerifyMissingIssue(t *testing.T) {
	service, _, _, _ := newTestService(t)

	err := service.Verify(context.Background(), primitive.NewObjectID(), "uid-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// Two racing verifies must produce exactly one success and one
// ErrAlreadyVerified, and exactly one grant.
func TestConcurrentVerifyLatchesOnce(t *testing.T) {
	service, _, ledger, _ := newTestService(t)
	ctx := context.Background()

	issue, err := service.Report(ctx, "uid-1", validReport())
	require.NoError(t, err)
	require.NoError(t, service.ChangeStatus(ctx, issue.ID, &ChangeStatusRequest{Status: StatusResolved}))

	const callers = 10
	results := make(chan error, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			results <- service.Verify(ctx, issue.ID, "uid-2")
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		if err == nil {
			succeeded++
		} else if errors.Is(err, apperrors.ErrAlreadyVerified) {
			rejected++
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, callers-1, rejected)
	assert.Equal(t, 10, ledger.pointsOf("uid-2"))
}

func TestUpvoteTwiceFails(t *testing.T) {
	service, _, ledger, _ := newTestService(t)
	ctx := context.Background()

	issue, err := service.Report(ctx, "reporter", validReport())
	require.NoError(t, err)

	require.NoError(t, service.Upvote(ctx, issue.ID, "voter"))
	err = service.Upvote(ctx, issue.ID, "voter")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyUpvoted)

	got, err := service.Get(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)

	// The reporter, not the voter, earns the point
	assert.Equal(t, 5+1, ledger.pointsOf("reporter"))
	assert.Equal(t, 0, ledger.pointsOf("voter"))
}

func TestDeleteIssueSurvivesImageFailures(t *testing.T) {
	service, store, _, images := newTestService(t)
	ctx := context.Background()

	req := validReport()
	req.Images = []string{"https://cdn.example/a.jpg", "https://cdn.example/b.jpg"}
	issue, err := service.Report(ctx, "uid-1", req)
	require.NoError(t, err)

	images.failOn["https://cdn.example/a.jpg"] = true

	require.NoError(t, service.Delete(ctx, issue.ID, "uid-1"))

	assert.Empty(t, store.issues)
	assert.Equal(t, []string{"https://cdn.example/b.jpg"}, images.deleted)
}

func TestDeleteIssueRequiresOwner(t *testing.T) {
	service, store, _, _ := newTestService(t)
	ctx := context.Background()

	issue, err := service.Report(ctx, "uid-1", validReport())
	require.NoError(t, err)

	err = service.Delete(ctx, issue.ID, "uid-2")
	assert.ErrorIs(t, err, apperrors.ErrPermission)
	assert.Len(t, store.issues, 1)
}

func TestDeleteIssueCascades(t *testing.T) {
	service, store, _, _ := newTestService(t)
	ctx := context.Background()

	issue, err := service.Report(ctx, "uid-1", validReport())
	require.NoError(t, err)

	_, err = service.AddComment(ctx, issue.ID, "uid-2", "Ravi", "", &AddCommentRequest{Content: "Same here"})
	require.NoError(t, err)
	require.NoError(t, service.Upvote(ctx, issue.ID, "uid-2"))

	require.NoError(t, service.Delete(ctx, issue.ID, "uid-1"))

	assert.Empty(t, store.comments[issue.ID])
	assert.Empty(t, store.upvotes)
}

func TestDeleteImageAppendsLogEntry(t *testing.T) {
	service, _, _, images := newTestService(t)
	ctx := context.Background()

	req := validReport()
	req.Images = []string{"https://cdn.example/a.jpg"}
	issue, err := service.Report(ctx, "uid-1", req)
	require.NoError(t, err)

	require.NoError(t, service.DeleteImage(ctx, issue.ID, "https://cdn.example/a.jpg", "uid-1"))

	got, err := service.Get(ctx, issue.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Images)
	require.Len(t, got.Updates, 2)
	assert.Equal(t, UpdatePhotoDeleted, got.Updates[1].Kind)
	assert.Equal(t, "Photo deleted", got.Updates[1].Comment)
	assert.Equal(t, []string{"https://cdn.example/a.jpg"}, images.deleted)
}

// A CDN failure must not block the record update.
func TestDeleteImageBestEffort(t *testing.T) {
	service, _, _, images := newTestService(t)
	ctx := context.Background()

	req := validReport()
	req.Images = []string{"https://cdn.example/a.jpg"}
	issue, err := service.Report(ctx, "uid-1", req)
	require.NoError(t, err)

	images.failOn["https://cdn.example/a.jpg"] = true

	require.NoError(t, service.DeleteImage(ctx, issue.ID, "https://cdn.example/a.jpg", "uid-1"))

	got, err := service.Get(ctx, issue.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Images)
}

func TestAddCommentGrantsPoints(t *testing.T) {
	service, _, ledger, _ := newTestService(t)
	ctx := context.Background()

	issue, err := service.Report(ctx, "uid-1", validReport())
	require.NoError(t, err)

	comment, err := service.AddComment(ctx, issue.ID, "uid-2", "Ravi", "", &AddCommentRequest{Content: "Same problem on my street"})
	require.NoError(t, err)
	assert.False(t, comment.ID.IsZero())
	assert.Equal(t, 2, ledger.pointsOf("uid-2"))

	_, err = service.AddComment(ctx, issue.ID, "uid-2", "Ravi", "", &AddCommentRequest{Content: "  "})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestChangeStatusClearsResolvedOn(t *testing.T) {
	service, _, _, _ := newTestService(t)
	ctx := context.Background()

	issue, err := service.Report(ctx, "uid-1", validReport())
	require.NoError(t, err)

	require.NoError(t, service.ChangeStatus(ctx, issue.ID, &ChangeStatusRequest{Status: StatusResolved}))
	got, err := service.Get(ctx, issue.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ResolvedOn)

	// Reopening clears the resolution stamp
	require.NoError(t, service.ChangeStatus(ctx, issue.ID, &ChangeStatusRequest{Status: StatusOpen}))
	got, err = service.Get(ctx, issue.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ResolvedOn)
	assert.Len(t, got.Updates, 3)
}
