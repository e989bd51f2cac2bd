package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Schedule triggers gen on every tick of spec. The returned cron is not
// started yet.
func Schedule(spec string, gen *Generator, loc *time.Location) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddFunc(spec, func() {
		result, err := gen.Generate(context.Background())
		switch {
		case errors.Is(err, ErrAlreadyGenerating):
			log.Info("Scheduled report skipped, another generation is running")
		case err != nil:
			log.Errorf("Scheduled report failed: %v", err)
		default:
			log.Infof("Scheduled report saved to %s", result.Location)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid report schedule %q: %w", spec, err)
	}
	return c, nil
}
