package offlinecache_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offline-payment-sync/internal/crypto"
	"offline-payment-sync/internal/models"
	"offline-payment-sync/internal/repository"
	"offline-payment-sync/internal/services/bulk"
	"offline-payment-sync/internal/services/offlinecache"
	mock_offlinecache "offline-payment-sync/internal/services/offlinecache/mocks"
)

var now = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

type fixture struct {
	payment *mock_offlinecache.MockPaymentAPI
	photos  *mock_offlinecache.MockPhotoSource
	cipher  *crypto.Service
	store   *repository.BatchStore
	svc     *offlinecache.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	cipher, err := crypto.NewService(key, false)
	require.NoError(t, err)

	f := &fixture{
		payment: mock_offlinecache.NewMockPaymentAPI(ctrl),
		photos:  mock_offlinecache.NewMockPhotoSource(ctrl),
		cipher:  cipher,
		store:   repository.NewBatchStore(t.TempDir()),
	}
	f.svc = offlinecache.NewService(f.payment, f.photos, cipher, f.store, bulk.NewOrchestrator(4, false), offlinecache.Options{
		ProgramID:  "3",
		FieldKeys:  []string{"fullName"},
		MatchField: "phoneNumber",
		Lookback:   14 * 24 * time.Hour,
	}).WithClock(func() time.Time { return now })
	return f
}

func (f *fixture) decrypt(t *testing.T, value string) string {
	t.Helper()
	out, err := f.cipher.DecryptString(value)
	require.NoError(t, err)
	return out
}

func txAt(id, ref, status string, daysAgo int) models.RemoteTransaction {
	return models.RemoteTransaction{
		ID:                      models.FlexID(id),
		PaymentID:               "12",
		RegistrationID:          models.FlexID("reg-" + ref),
		RegistrationReferenceID: ref,
		Status:                  status,
		Amount:                  decimal.NewFromInt(50),
		Created:                 now.AddDate(0, 0, -daysAgo).Format("2006-01-02T15:04:05.000Z"),
	}
}

func registration(phone string) models.RegistrationRecord {
	return models.RegistrationRecord{"fullName": "Amina", "phoneNumber": phone, "secret": "not copied"}
}

func TestService_SyncRecent_OneRecordPerBeneficiary(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []string
		wantValid  bool
		wantReason string
	}{
		{name: "newest waiting", statuses: []string{"waiting", "rejected", "waiting"}, wantValid: true, wantReason: "ok"},
		{name: "newest rejected", statuses: []string{"waiting", "waiting", "rejected"}, wantValid: false, wantReason: "status=rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			txs := []models.RemoteTransaction{
				txAt("1", "R1", tt.statuses[0], 6),
				txAt("2", "R1", tt.statuses[1], 4),
				txAt("3", "R1", tt.statuses[2], 2),
			}
			f.payment.EXPECT().GetAllTransactions(gomock.Any(), "3").Return(txs, nil)
			f.payment.EXPECT().GetRegistration(gomock.Any(), "3", "reg-R1").Return(registration("254700000001"), nil).Times(1)
			f.photos.EXPECT().FetchPhoto(gomock.Any(), "R1").Return([]byte("jpeg-bytes"), nil).Times(1)

			result, err := f.svc.SyncRecent(context.Background())
			require.NoError(t, err)

			assert.Equal(t, models.BatchKindRecent, result.Kind)
			assert.Equal(t, 3, result.Fetched)
			assert.Equal(t, 1, result.RecordCount)
			assert.Equal(t, 1, result.PhotoCount)
			assert.Equal(t, 2, result.FilterCounts.Duplicates)
			assert.Equal(t, "payment-recent-batch-1", filepath.Base(result.BatchPath))

			records, err := f.store.ReadRecords(result.BatchPath)
			require.NoError(t, err)
			require.Len(t, records, 1)
			rec := records[0]
			assert.Equal(t, "R1", rec.ReferenceID)
			assert.Equal(t, tt.wantValid, rec.Valid)
			assert.Equal(t, tt.wantReason, rec.Reason)
			assert.Equal(t, "R1.enc", rec.PhotoFilename)
			assert.Equal(t, models.FlexID("12"), rec.PaymentID)
			assert.Len(t, rec.Data, 2)
			assert.Equal(t, "Amina", f.decrypt(t, rec.Data["fullName"]))
			assert.Equal(t, "254700000001", f.decrypt(t, rec.Data["phoneNumber"]))

			photo, err := os.ReadFile(filepath.Join(result.BatchPath, repository.PhotosDir, "R1.enc"))
			require.NoError(t, err)
			assert.Equal(t, "jpeg-bytes", f.decrypt(t, string(photo)))

			info, err := f.store.ReadInfo(result.BatchPath)
			require.NoError(t, err)
			assert.Equal(t, "payment-recent", info.BatchType)
			assert.Equal(t, "3", info.ProgramID)
			assert.Equal(t, 1, info.RecordCount)
			assert.True(t, now.Equal(info.GeneratedAt))

			raw, err := os.ReadFile(filepath.Join(result.BatchPath, repository.TransactionsFile))
			require.NoError(t, err)
			assert.Contains(t, string(raw), `"id": 3`)
			assert.NotContains(t, string(raw), `"id": 1,`)
		})
	}
}

func TestService_TooOldOnlyInRecentMode(t *testing.T) {
	t.Run("recent mode excludes", func(t *testing.T) {
		f := newFixture(t)
		f.payment.EXPECT().GetAllTransactions(gomock.Any(), "3").Return([]models.RemoteTransaction{txAt("1", "OLD", "waiting", 20)}, nil)

		result, err := f.svc.SyncRecent(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, result.RecordCount)
		assert.Equal(t, 1, result.FilterCounts.TooOld)

		records, err := f.store.ReadRecords(result.BatchPath)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("single-payment mode includes", func(t *testing.T) {
		f := newFixture(t)
		f.payment.EXPECT().GetTransactions(gomock.Any(), "3", "12").Return([]models.RemoteTransaction{txAt("1", "OLD", "waiting", 20)}, nil)
		f.payment.EXPECT().GetRegistration(gomock.Any(), "3", "reg-OLD").Return(registration("111"), nil)
		f.photos.EXPECT().FetchPhoto(gomock.Any(), "OLD").Return([]byte("img"), nil)

		result, err := f.svc.Run(context.Background(), "12")
		require.NoError(t, err)
		assert.Equal(t, models.BatchKind("12"), result.Kind)
		assert.Equal(t, "payment-12-batch-1", filepath.Base(result.BatchPath))

		records, err := f.store.ReadRecords(result.BatchPath)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, records[0].Valid)
		assert.Equal(t, "ok", records[0].Reason)
	})
}

func TestService_PartialFailuresAreOmitted(t *testing.T) {
	f := newFixture(t)
	txs := []models.RemoteTransaction{
		txAt("1", "A", "waiting", 1),
		txAt("2", "B", "waiting", 1),
		txAt("3", "C", "paid", 1),
	}
	f.payment.EXPECT().GetAllTransactions(gomock.Any(), "3").Return(txs, nil)
	f.payment.EXPECT().GetRegistration(gomock.Any(), "3", "reg-A").Return(registration("111"), nil)
	f.payment.EXPECT().GetRegistration(gomock.Any(), "3", "reg-B").Return(nil, errors.New("timeout"))
	f.payment.EXPECT().GetRegistration(gomock.Any(), "3", "reg-C").Return(registration("333"), nil)
	f.photos.EXPECT().FetchPhoto(gomock.Any(), "A").Return([]byte("img"), nil)
	f.photos.EXPECT().FetchPhoto(gomock.Any(), "C").Return(nil, errors.New("no submission"))

	result, err := f.svc.SyncRecent(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.RecordCount)
	assert.Equal(t, 1, result.ValidCount)
	assert.Equal(t, 1, result.MissingRegs)
	assert.Equal(t, 1, result.PhotoCount)

	records, err := f.store.ReadRecords(result.BatchPath)
	require.NoError(t, err)
	reasons := map[string]string{}
	for _, r := range records {
		reasons[r.ReferenceID] = r.Reason
	}
	assert.Equal(t, map[string]string{"A": "ok", "C": "status=paid"}, reasons)

	_, err = os.Stat(filepath.Join(result.BatchPath, repository.PhotosDir, "C.enc"))
	assert.True(t, os.IsNotExist(err))
}

func TestService_FetchFailureLeavesNoBatch(t *testing.T) {
	f := newFixture(t)
	f.payment.EXPECT().GetAllTransactions(gomock.Any(), "3").Return(nil, errors.New("connection refused"))

	_, err := f.svc.SyncRecent(context.Background())
	require.Error(t, err)

	_, ok, err := f.store.Latest(models.BatchKindRecent)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_SuccessiveBatchesAreNumbered(t *testing.T) {
	f := newFixture(t)
	f.payment.EXPECT().GetAllTransactions(gomock.Any(), "3").Return(nil, nil).Times(2)

	first, err := f.svc.SyncRecent(context.Background())
	require.NoError(t, err)
	second, err := f.svc.SyncRecent(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "payment-recent-batch-1", filepath.Base(first.BatchPath))
	assert.Equal(t, "payment-recent-batch-2", filepath.Base(second.BatchPath))
	assert.Equal(t, "0 beneficiaries ready for offline validation.", offlinecache.Summary(second))
}
