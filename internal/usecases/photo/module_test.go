package photo

import (
	"context"
	"errors"
	"testing"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/logger"
	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *Service
	images  *fakeImageRepo
	quota   *fakeQuota
	events  *fakeEvents
	metrics *metrics.Metrics
}

func newFixture(allowed bool) *fixture {
	sel, images, _ := newSelector(42)
	f := &fixture{
		images:  images,
		quota:   &fakeQuota{allowed: allowed},
		events:  &fakeEvents{},
		metrics: metrics.New(),
	}
	f.svc = New(sel, f.quota, f.events, f.metrics, logger.NewNop())
	return f
}

func TestResolveNoRequest(t *testing.T) {
	f := newFixture(true)

	res, err := f.svc.Resolve(context.Background(), target(), "how was your day?")
	require.NoError(t, err)
	assert.Equal(t, domain.PhotoOutcomeNoRequest, res.Outcome)
	assert.Zero(t, f.quota.checked)
	assert.Empty(t, res.ImageURL())
}

func TestResolveQuotaExhausted(t *testing.T) {
	f := newFixture(false)
	f.images.add(avatar, domain.ImageCategoryBeach, 0, "beach")

	res, err := f.svc.Resolve(context.Background(), target(), "send me a beach pic")
	require.NoError(t, err)
	assert.Equal(t, domain.PhotoOutcomeQuotaExhausted, res.Outcome)
	assert.Zero(t, f.images.incCalls)
	assert.Zero(t, f.quota.imageInc)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PhotoOutcomes.WithLabelValues("quota_exhausted", "")))
}

func TestResolveNoImage(t *testing.T) {
	f := newFixture(true)

	res, err := f.svc.Resolve(context.Background(), target(), "show me your formal dress")
	require.NoError(t, err)
	assert.Equal(t, domain.PhotoOutcomeNoImage, res.Outcome)
	assert.Equal(t, domain.SelectionPoolEmpty, res.Pool)
	assert.Zero(t, f.quota.imageInc)
	assert.Empty(t, f.events.events)
}

func TestResolveSelected(t *testing.T) {
	f := newFixture(true)
	img := f.images.add(avatar, domain.ImageCategoryFitness, 0, "workout", "gym")
	img.FilePath = "fitness/gym_003.jpg"
	tg := target()

	res, err := f.svc.Resolve(context.Background(), tg, "Can you send me a photo from your workout?")
	require.NoError(t, err)
	assert.Equal(t, domain.PhotoOutcomeSelected, res.Outcome)
	assert.Equal(t, domain.SelectionPoolFresh, res.Pool)
	assert.Equal(t, "/api/images/avatar-sophie/fitness/gym_003.jpg", res.ImageURL())
	assert.Equal(t, 1, f.quota.imageInc)

	require.Len(t, f.events.events, 1)
	ev := f.events.events[0]
	assert.Equal(t, "image_sent", ev.Event)
	assert.Equal(t, img.ID.String(), ev.ImageID)
	assert.Equal(t, tg.UserID.String(), ev.UserID)
	assert.Equal(t, domain.SelectionPoolFresh, ev.Pool)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ImagesSent.WithLabelValues(avatar, "fitness")))
}

func TestDeliverIgnoresEventAndCounterFailures(t *testing.T) {
	f := newFixture(true)
	f.images.add(avatar, domain.ImageCategorySelfie, 0)
	f.events.err = errors.New("broker down")
	f.quota.incErr = errors.New("redis down")

	res, err := f.svc.Deliver(context.Background(), target(), Detect("selfie please"))
	require.NoError(t, err)
	assert.Equal(t, domain.PhotoOutcomeSelected, res.Outcome)
}

func TestDeliverQuotaCheckError(t *testing.T) {
	f := newFixture(true)
	f.quota.checkErr = errors.New("redis down")

	_, err := f.svc.Deliver(context.Background(), target(), Detect("send me a picture"))
	assert.ErrorContains(t, err, "redis down")
	assert.Zero(t, f.images.incCalls)
}

func TestDeliverIgnoresDisabledIntent(t *testing.T) {
	f := newFixture(true)

	res, err := f.svc.Deliver(context.Background(), target(), &domain.PhotoIntent{ShouldSendImage: false, Category: domain.ImageCategoryBeach})
	require.NoError(t, err)
	assert.Equal(t, domain.PhotoOutcomeNoRequest, res.Outcome)
}
