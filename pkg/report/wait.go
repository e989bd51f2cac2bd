package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klokku/timesheet/internal/utils"
	"github.com/klokku/timesheet/pkg/stats_panel"
	log "github.com/sirupsen/logrus"
)

var ErrRenderNotReady = errors.New("statistics panel is not rendered")

type PanelReader interface {
	Displayed() ([]stats_panel.Item, bool)
}

// WaitForRender checks the panel once and then retries up to retries more
// times, sleeping delay before each retry. A panel that is rendered but has
// no items counts as absent.
func WaitForRender(ctx context.Context, clock utils.Clock, panel PanelReader, retries int, delay time.Duration) ([]stats_panel.Item, error) {
	for remaining := retries; ; remaining-- {
		if items, ok := panel.Displayed(); ok && len(items) > 0 {
			return items, nil
		}
		if remaining <= 0 {
			return nil, fmt.Errorf("%w after %d retries", ErrRenderNotReady, retries)
		}
		log.Tracef("Statistics panel not rendered yet, %d retries left", remaining)
		if err := clock.Sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}
