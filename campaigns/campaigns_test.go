package campaigns

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/internal"
	"github.com/raiseyourvoice/backend/test"
)

var testDB *db.MongoStorage

func TestMain(m *testing.M) {
	ctx := context.Background()
	dbContainer, err := test.StartMongoContainer(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to start MongoDB container: %v", err))
	}
	mongoURI, err := test.MongoURI(ctx, dbContainer)
	if err != nil {
		panic(fmt.Sprintf("failed to get MongoDB endpoint: %v", err))
	}
	if testDB, err = db.New(mongoURI, test.RandomDatabaseName()); err != nil {
		panic(fmt.Sprintf("failed to create new MongoDB connection: %v", err))
	}
	code := m.Run()
	testDB.Close()
	if err := dbContainer.Terminate(ctx); err != nil {
		panic(fmt.Sprintf("failed to stop MongoDB container: %v", err))
	}
	os.Exit(code)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*db.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n *db.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *recordingNotifier) NotifyOrganizationOwner(ctx context.Context, _ internal.ObjectID,
	n *db.Notification,
) error {
	return r.Notify(ctx, n)
}

func (r *recordingNotifier) count(t db.NotificationType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sent {
		if s.Type == t {
			n++
		}
	}
	return n
}

func newUser(c *qt.C, role db.UserRole) *db.User {
	user := &db.User{
		Email:     internal.RandomHex(6) + "@example.com",
		Password:  "secretpassword",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      role,
	}
	_, err := testDB.SetUser(context.Background(), user)
	c.Assert(err, qt.IsNil)
	return user
}

func newOrganization(c *qt.C, owner *db.User) internal.ObjectID {
	id, err := testDB.SetOrganization(context.Background(), &db.Organization{
		Name:    "Water for all " + internal.RandomHex(4),
		OwnerID: owner.ID,
	})
	c.Assert(err, qt.IsNil)
	return id
}

func newService(c *qt.C) (*Service, *recordingNotifier) {
	notifier := &recordingNotifier{}
	srv, err := New(testDB, notifier, nil)
	c.Assert(err, qt.IsNil)
	return srv, notifier
}

// activeCampaign creates a campaign and takes it through the approval.
func activeCampaign(c *qt.C, srv *Service, owner, admin *db.User, goal int64) *db.Campaign {
	ctx := context.Background()
	campaign, err := srv.CreateCampaign(ctx, owner, &db.Campaign{
		OrganizationID: newOrganization(c, owner),
		Title:          "Clean water",
		Goal:           goal,
		Currency:       "USD",
	})
	c.Assert(err, qt.IsNil)
	_, err = srv.SubmitCampaign(ctx, owner, campaign.ID)
	c.Assert(err, qt.IsNil)
	campaign, err = srv.ApproveCampaign(ctx, admin, campaign.ID)
	c.Assert(err, qt.IsNil)
	return campaign
}

func TestCreateCampaign(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	srv, _ := newService(c)
	owner := newUser(c, db.RegularRole)
	stranger := newUser(c, db.RegularRole)
	orgID := newOrganization(c, owner)

	_, err := srv.CreateCampaign(ctx, stranger, &db.Campaign{OrganizationID: orgID, Title: "x", Goal: 10})
	c.Assert(err, qt.ErrorIs, errors.ErrNotOwnerOfItem)

	_, err = srv.CreateCampaign(ctx, owner, &db.Campaign{OrganizationID: orgID, Title: "x"})
	c.Assert(err, qt.ErrorIs, errors.ErrInvalidCampaignData)

	_, err = srv.CreateCampaign(ctx, owner, &db.Campaign{OrganizationID: internal.NewObjectID(), Title: "x", Goal: 1})
	c.Assert(err, qt.ErrorIs, errors.ErrOrganizationNotFound)

	campaign, err := srv.CreateCampaign(ctx, owner, &db.Campaign{
		OrganizationID: orgID,
		Title:          "Books for schools",
		Goal:           5000,
		Currency:       "EUR",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(campaign.Status, qt.Equals, db.CampaignDraft)
	c.Assert(campaign.Currency, qt.Equals, "eur")
	c.Assert(campaign.CreatedBy, qt.Equals, owner.ID)
}

func TestCampaignWorkflow(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	srv, notifier := newService(c)
	owner := newUser(c, db.RegularRole)
	admin := newUser(c, db.AdminRole)

	campaign, err := srv.CreateCampaign(ctx, owner, &db.Campaign{
		OrganizationID: newOrganization(c, owner),
		Title:          "Shelter",
		Goal:           1000,
	})
	c.Assert(err, qt.IsNil)

	// approval needs a submitted campaign and an administrator
	_, err = srv.ApproveCampaign(ctx, admin, campaign.ID)
	c.Assert(err, qt.ErrorIs, errors.ErrInvalidTransition)
	_, err = srv.SubmitCampaign(ctx, owner, campaign.ID)
	c.Assert(err, qt.IsNil)
	_, err = srv.ApproveCampaign(ctx, owner, campaign.ID)
	c.Assert(err, qt.ErrorIs, errors.ErrAdminRequired)
	_, err = srv.RejectCampaign(ctx, admin, campaign.ID, "")
	c.Assert(err, qt.ErrorIs, errors.ErrInvalidCampaignData)
	updated, err := srv.ApproveCampaign(ctx, admin, campaign.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Status, qt.Equals, db.CampaignActive)

	// resume only applies to paused campaigns
	_, err = srv.ResumeCampaign(ctx, owner, campaign.ID)
	c.Assert(err, qt.ErrorIs, errors.ErrInvalidTransition)
	updated, err = srv.PauseCampaign(ctx, owner, campaign.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Status, qt.Equals, db.CampaignPaused)
	updated, err = srv.ResumeCampaign(ctx, owner, campaign.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Status, qt.Equals, db.CampaignActive)

	updated, err = srv.CompleteCampaign(ctx, owner, campaign.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Status, qt.Equals, db.CampaignCompleted)

	// final statuses cannot change
	_, err = srv.CancelCampaign(ctx, owner, campaign.ID, "")
	c.Assert(err, qt.ErrorIs, errors.ErrInvalidTransition)
	c.Assert(srv.DeleteCampaign(ctx, owner, campaign.ID), qt.ErrorIs, errors.ErrInvalidTransition)

	c.Assert(notifier.count(db.NotificationCampaignStatus), qt.Equals, 5)
}

func TestRejectAndDelete(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	srv, _ := newService(c)
	owner := newUser(c, db.RegularRole)
	admin := newUser(c, db.AdminRole)
	stranger := newUser(c, db.RegularRole)

	campaign, err := srv.CreateCampaign(ctx, owner, &db.Campaign{
		OrganizationID: newOrganization(c, owner),
		Title:          "Shelter",
		Goal:           1000,
	})
	c.Assert(err, qt.IsNil)
	_, err = srv.SubmitCampaign(ctx, owner, campaign.ID)
	c.Assert(err, qt.IsNil)

	// edits are allowed while pending approval
	edited, err := srv.UpdateCampaign(ctx, owner, &db.Campaign{ID: campaign.ID, Description: "Beds for winter"})
	c.Assert(err, qt.IsNil)
	c.Assert(edited.Description, qt.Equals, "Beds for winter")
	c.Assert(edited.Title, qt.Equals, "Shelter")
	_, err = srv.UpdateCampaign(ctx, stranger, &db.Campaign{ID: campaign.ID, Description: "x"})
	c.Assert(err, qt.ErrorIs, errors.ErrNotOwnerOfItem)

	rejected, err := srv.RejectCampaign(ctx, admin, campaign.ID, "missing documentation")
	c.Assert(err, qt.IsNil)
	c.Assert(rejected.Status, qt.Equals, db.CampaignRejected)
	c.Assert(rejected.RejectionReason, qt.Equals, "missing documentation")

	_, err = srv.UpdateCampaign(ctx, owner, &db.Campaign{ID: campaign.ID, Description: "x"})
	c.Assert(err, qt.ErrorIs, errors.ErrInvalidTransition)

	c.Assert(srv.DeleteCampaign(ctx, stranger, campaign.ID), qt.ErrorIs, errors.ErrNotOwnerOfItem)
	c.Assert(srv.DeleteCampaign(ctx, owner, campaign.ID), qt.IsNil)
	_, err = srv.Campaign(ctx, campaign.ID)
	c.Assert(err, qt.ErrorIs, errors.ErrCampaignNotFound)
}

func TestFeatureCampaign(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	srv, _ := newService(c)
	owner := newUser(c, db.RegularRole)
	admin := newUser(c, db.AdminRole)
	campaign := activeCampaign(c, srv, owner, admin, 1000)

	c.Assert(srv.FeatureCampaign(ctx, owner, campaign.ID), qt.ErrorIs, errors.ErrAdminRequired)
	c.Assert(srv.FeatureCampaign(ctx, admin, campaign.ID), qt.IsNil)

	featured := true
	_, list, err := srv.Campaigns(ctx, db.CampaignFilter{Featured: &featured, OrganizationID: campaign.OrganizationID}, 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.HasLen, 1)

	_, err = srv.PauseCampaign(ctx, owner, campaign.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(srv.FeatureCampaign(ctx, admin, campaign.ID), qt.ErrorIs, errors.ErrCampaignNotFeaturing)
	c.Assert(srv.UnfeatureCampaign(ctx, admin, campaign.ID), qt.IsNil)

	_, _, err = srv.Campaigns(ctx, db.CampaignFilter{Status: "Unknown"}, 1, 10)
	c.Assert(err, qt.ErrorIs, errors.ErrMalformedURLParam)
}

func TestAddUpdate(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	srv, _ := newService(c)
	owner := newUser(c, db.RegularRole)
	admin := newUser(c, db.AdminRole)
	campaign := activeCampaign(c, srv, owner, admin, 1000)

	_, err := srv.AddUpdate(ctx, owner, campaign.ID, "", "content")
	c.Assert(err, qt.ErrorIs, errors.ErrInvalidCampaignData)
	update, err := srv.AddUpdate(ctx, owner, campaign.ID, "First wells", "Two wells are finished")
	c.Assert(err, qt.IsNil)
	c.Assert(update.AuthorID, qt.Equals, owner.ID)

	stored, err := srv.Campaign(ctx, campaign.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.Updates, qt.HasLen, 1)
	c.Assert(stored.Updates[0].Title, qt.Equals, "First wells")
}

func TestCheckMilestonesOnce(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	srv, notifier := newService(c)
	owner := newUser(c, db.RegularRole)
	admin := newUser(c, db.AdminRole)
	campaign := activeCampaign(c, srv, owner, admin, 1000)

	_, err := srv.AddMilestone(ctx, owner, campaign.ID, "Half way", 500)
	c.Assert(err, qt.IsNil)
	_, err = srv.AddMilestone(ctx, owner, campaign.ID, "Almost", 900)
	c.Assert(err, qt.IsNil)
	_, err = srv.AddMilestone(ctx, owner, campaign.ID, "Bad", 0)
	c.Assert(err, qt.ErrorIs, errors.ErrInvalidAmount)

	_, err = testDB.IncCampaignAmountRaised(ctx, campaign.ID, 600)
	c.Assert(err, qt.IsNil)
	_, err = testDB.IncCampaignAmountRaised(ctx, campaign.ID, 600)
	c.Assert(err, qt.IsNil)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		flipped int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			completed, err := srv.CheckMilestones(ctx, campaign.ID)
			c.Check(err, qt.IsNil)
			mu.Lock()
			flipped += len(completed)
			mu.Unlock()
		}()
	}
	wg.Wait()

	c.Assert(flipped, qt.Equals, 2)
	c.Assert(notifier.count(db.NotificationMilestoneReached), qt.Equals, 2)
	c.Assert(notifier.count(db.NotificationGoalReached), qt.Equals, 1)

	stored, err := srv.Campaign(ctx, campaign.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.GoalReached, qt.IsTrue)
	for _, m := range stored.Milestones {
		c.Assert(m.IsCompleted, qt.IsTrue)
		c.Assert(m.ReachedAt, qt.Not(qt.IsNil))
	}

	// a milestone already covered is completed when added
	m, err := srv.AddMilestone(ctx, owner, campaign.ID, "Over the top", 1100)
	c.Assert(err, qt.IsNil)
	c.Assert(m.IsCompleted, qt.IsTrue)
}

func TestCanTransition(t *testing.T) {
	c := qt.New(t)
	c.Assert(CanTransition(db.CampaignDraft, db.CampaignPendingApproval), qt.IsTrue)
	c.Assert(CanTransition(db.CampaignDraft, db.CampaignActive), qt.IsFalse)
	c.Assert(CanTransition(db.CampaignPaused, db.CampaignActive), qt.IsTrue)
	c.Assert(CanTransition(db.CampaignCompleted, db.CampaignActive), qt.IsFalse)
	c.Assert(CanTransition(db.CampaignRejected, db.CampaignDraft), qt.IsFalse)
}
