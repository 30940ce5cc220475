package service

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/events"
	"github.com/carson-networks/church-finance/internal/storage/bill"
	"github.com/carson-networks/church-finance/internal/storage/ledger"
	"github.com/carson-networks/church-finance/internal/storage/member"
	"github.com/carson-networks/church-finance/internal/storage/notification"
	"github.com/carson-networks/church-finance/internal/storage/profile"
)

func TestMemberService_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	email := "ruth@example.org"

	m, err := env.svc.Member.Create(ctx, member.MemberCreate{FirstName: " Ruth ", LastName: "Okafor", Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Ruth", m.FirstName)
	assert.Equal(t, member.StatusActive, m.Status)

	result, err := env.svc.Member.List(ctx, member.MemberFilter{Query: "  RUTH "})
	require.NoError(t, err)
	require.Len(t, result.Members, 1)

	updated, err := env.svc.Member.Update(ctx, m.ID, member.MemberUpdate{Status: omit.From(member.StatusInactive)})
	require.NoError(t, err)
	assert.Equal(t, member.StatusInactive, updated.Status)

	require.NoError(t, env.svc.Member.Delete(ctx, m.ID))
	_, err = env.svc.Member.Get(ctx, m.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestMemberService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Member.Create(ctx, member.MemberCreate{FirstName: "A"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = env.svc.Member.Create(ctx, member.MemberCreate{FirstName: "A", LastName: "B", Status: "lapsed"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = env.svc.Member.Update(ctx, uuid.Must(uuid.NewV4()), member.MemberUpdate{Notes: omit.From[*string](nil)})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestLedgerService_EntryDetail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.createFund(t, "Youth", 1000)

	entry, err := env.svc.Ledger.CreateEntry(ctx, ledger.EntryCreate{Title: "Summer camp"})
	require.NoError(t, err)
	assert.False(t, entry.EntryDate.IsZero())

	sub, err := env.svc.Ledger.CreateSubgroup(ctx, ledger.SubgroupCreate{LedgerEntryID: entry.ID, Name: "Transport"})
	require.NoError(t, err)

	_, err = env.svc.Bill.Create(ctx, bill.BillCreate{
		Vendor: "Bus hire", Amount: dec("300"), DueDate: time.Now(), FundID: &f.ID,
		LedgerEntryID: &entry.ID, LedgerSubgroupID: &sub.ID, Status: bill.StatusPaid,
	})
	require.NoError(t, err)
	_, err = env.svc.Bill.Create(ctx, bill.BillCreate{
		Vendor: "Food", Amount: dec("120"), DueDate: time.Now(), FundID: &f.ID, LedgerEntryID: &entry.ID,
	})
	require.NoError(t, err)

	detail, err := env.svc.Ledger.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, detail.Subgroups, 1)
	assert.Equal(t, 2, detail.Bills.Count)
	assert.True(t, dec("420").Equal(detail.Bills.Total))
	assert.True(t, dec("300").Equal(detail.Bills.Paid))
	assert.True(t, dec("120").Equal(detail.Bills.Pending))

	require.NoError(t, env.svc.Ledger.DeleteEntry(ctx, entry.ID))
	subs, err := env.svc.Ledger.ListSubgroups(ctx, &entry.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)

	bills, err := env.svc.Bill.List(ctx, bill.BillFilter{FundID: &f.ID})
	require.NoError(t, err)
	require.Len(t, bills.Bills, 2)
	for _, b := range bills.Bills {
		assert.Nil(t, b.LedgerEntryID)
		assert.Nil(t, b.LedgerSubgroupID)
	}
}

func TestLedgerService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Ledger.CreateEntry(ctx, ledger.EntryCreate{Title: " "})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = env.svc.Ledger.CreateSubgroup(ctx, ledger.SubgroupCreate{LedgerEntryID: uuid.Must(uuid.NewV4()), Name: "x"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = env.svc.Ledger.GetEntry(ctx, uuid.Must(uuid.NewV4()))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestNotificationService_DeliverAndMarkRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := profile.Profile{ID: uuid.Must(uuid.NewV4()), Email: "admin@example.org", Role: profile.RoleAdmin}
	env.db.PutProfile(admin)
	env.db.PutProfile(profile.Profile{ID: uuid.Must(uuid.NewV4()), Email: "member@example.org", Role: profile.RoleMember})

	count, err := env.svc.Notification.Deliver(ctx, events.New(events.KindBillPaid, uuid.Must(uuid.NewV4()), "Bill paid", "Power Co"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	_, err = env.svc.Notification.Deliver(ctx, events.New(events.KindOfferingRecorded, uuid.Must(uuid.NewV4()), "Offering", "x"))
	require.NoError(t, err)

	unread, err := env.svc.Notification.List(ctx, notification.NotificationFilter{UserID: admin.ID, UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread.Notifications, 2)

	changed, err := env.svc.Notification.MarkRead(ctx, admin.ID, []uuid.UUID{unread.Notifications[0].ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	changed, err = env.svc.Notification.MarkRead(ctx, admin.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	unread, err = env.svc.Notification.List(ctx, notification.NotificationFilter{UserID: admin.ID, UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unread.Notifications)
}
