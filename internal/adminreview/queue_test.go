package adminreview_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yarncraft/storefront/internal/adminreview"
	"github.com/yarncraft/storefront/internal/api"
	"github.com/yarncraft/storefront/pkg/testutil"
)

func setup(t *testing.T, role api.Role, confirm adminreview.Confirm) (*testutil.Server, *adminreview.Queue) {
	t.Helper()
	server := testutil.NewServer()
	t.Cleanup(server.Close)
	server.Profiles["tok"] = api.Profile{ID: 1, Name: "Ada", Role: role}

	client, err := api.New(api.Config{
		BaseURL: server.URL(),
		Tokens:  api.TokenFunc(func() string { return "tok" }),
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return server, adminreview.New(client, confirm, zerolog.Nop())
}

func at(hour int) time.Time {
	return time.Date(2025, 6, 1, hour, 0, 0, 0, time.UTC)
}

func app(id int64, status string, created time.Time) api.Application {
	return api.Application{ID: id, ShopName: "Shop", Status: status, CreatedAt: created}
}

func TestFetch_PendingFirstThenNewestFirst(t *testing.T) {
	server, queue := setup(t, api.RoleAdmin, nil)
	server.Applications = []api.Application{
		app(1, "APPROVED", at(1)),
		app(2, "PENDING", at(2)),
		app(3, "REJECTED", at(3)),
		app(4, "PENDING", at(4)),
	}

	apps, err := queue.Fetch(context.Background())
	require.NoError(t, err)

	ids := make([]int64, len(apps))
	for i, a := range apps {
		ids[i] = a.ID
	}
	assert.Equal(t, []int64{4, 2, 3, 1}, ids)
}

func TestFetch_OrderingHoldsRegardlessOfInputOrder(t *testing.T) {
	inputs := [][]api.Application{
		{app(4, "PENDING", at(4)), app(3, "REJECTED", at(3)), app(2, "PENDING", at(2)), app(1, "APPROVED", at(1))},
		{app(2, "PENDING", at(2)), app(1, "APPROVED", at(1)), app(4, "PENDING", at(4)), app(3, "REJECTED", at(3))},
		{app(3, "REJECTED", at(3)), app(4, "PENDING", at(4)), app(1, "APPROVED", at(1)), app(2, "PENDING", at(2))},
	}

	for i, input := range inputs {
		server, queue := setup(t, api.RoleAdmin, nil)
		server.Applications = input

		apps, err := queue.Fetch(context.Background())
		require.NoError(t, err, "input %d", i)

		ids := make([]int64, len(apps))
		for j, a := range apps {
			ids[j] = a.ID
		}
		assert.Equal(t, []int64{4, 2, 3, 1}, ids, "input %d", i)
	}
}

func TestFetch_ForbiddenMapsToNotAuthorized(t *testing.T) {
	_, queue := setup(t, api.RoleCustomer, nil)

	_, err := queue.Fetch(context.Background())
	assert.ErrorIs(t, err, adminreview.ErrNotAuthorized)
}

func TestApprove_RefetchesInsteadOfPatching(t *testing.T) {
	server, queue := setup(t, api.RoleAdmin, nil)
	server.Applications = []api.Application{
		app(1, "PENDING", at(1)),
		app(2, "PENDING", at(2)),
	}
	_, err := queue.Fetch(context.Background())
	require.NoError(t, err)

	require.NoError(t, queue.Approve(context.Background(), 1))

	assert.Equal(t, []int64{1}, server.Approvals)
	apps := queue.Applications()
	require.Len(t, apps, 2)
	// After the refetch, the approved application carries the server's
	// post-action status and sorts behind the remaining pending one.
	assert.Equal(t, int64(2), apps[0].ID)
	assert.Equal(t, "APPROVED", apps[1].Status)
}

func TestReject(t *testing.T) {
	server, queue := setup(t, api.RoleAdmin, nil)
	server.Applications = []api.Application{app(7, "PENDING", at(1))}

	require.NoError(t, queue.Reject(context.Background(), 7))
	assert.Equal(t, []int64{7}, server.Rejections)
	assert.Equal(t, "REJECTED", queue.Applications()[0].Status)
}

func TestActions_ConfirmationDeclinedMakesNoCall(t *testing.T) {
	server, queue := setup(t, api.RoleAdmin, func(string) bool { return false })
	server.Applications = []api.Application{app(1, "PENDING", at(1))}

	require.NoError(t, queue.Approve(context.Background(), 1))
	require.NoError(t, queue.Reject(context.Background(), 1))
	assert.Empty(t, server.Approvals)
	assert.Empty(t, server.Rejections)
}

func TestActions_FailureSurfacesServerMessage(t *testing.T) {
	server, queue := setup(t, api.RoleAdmin, nil)
	server.Fail("POST /admin/applications/{id}/approve", 409, "Application already processed")

	err := queue.Approve(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Application already processed")
}

func TestVendorStats(t *testing.T) {
	server, queue := setup(t, api.RoleAdmin, nil)
	server.VendorStats = []api.VendorPerformance{
		{VendorID: 1, ShopName: "Grandma's Knits", TotalSold: 12, TotalRevenue: 150},
	}

	stats, err := queue.VendorStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "Grandma's Knits", stats[0].ShopName)
}
