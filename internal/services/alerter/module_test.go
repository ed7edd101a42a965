package alerter

import (
	"context"
	"testing"

	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestSendAlertWithoutClient(t *testing.T) {
	s := New(nil, logger.NewNop())
	assert.NoError(t, s.SendAlert(context.Background(), "exposure_stats failed"))
}
